package redis

import (
	"fmt"

	"github.com/mcoot/gamenight/internal/model"
)

// collectionKey returns the Redis key for the HASH holding a collection's
// documents, field = document id, value = JSON
func collectionKey(prefix string, c model.Collection) string {
	return fmt.Sprintf("%s:collection:%s", prefix, c)
}

// changesChannel returns the pub/sub channel notified on every write to a collection
func changesChannel(prefix string, c model.Collection) string {
	return fmt.Sprintf("%s:changes:%s", prefix, c)
}
