package sse

import (
	"strings"

	"github.com/mcoot/gamenight/internal/model"
)

// Topics clients can subscribe to
const (
	// TopicChanges carries one event per collection change; the event
	// name and data are the collection name
	TopicChanges = "changes"
	// TopicHistory carries re-rendered match history
	TopicHistory = "history"

	scoreboardPrefix = "scoreboard"
	profilePrefix    = "player:"
)

// ScoreboardTopic is the topic for a leaderboard view. gameID is empty
// under the elo scheme.
func ScoreboardTopic(gameID model.GameID) string {
	if gameID == "" {
		return scoreboardPrefix
	}
	return scoreboardPrefix + ":" + string(gameID)
}

// ProfileTopic is the topic for a player's page
func ProfileTopic(id model.PlayerID) string {
	return profilePrefix + string(id)
}

// ParseTopic validates a topic name
func ParseTopic(topic string) (string, bool) {
	switch {
	case topic == TopicChanges, topic == TopicHistory, topic == scoreboardPrefix:
		return topic, true
	case strings.HasPrefix(topic, scoreboardPrefix+":") && len(topic) > len(scoreboardPrefix)+1:
		return topic, true
	case strings.HasPrefix(topic, profilePrefix) && len(topic) > len(profilePrefix):
		return topic, true
	}
	return "", false
}

// scoreboardGame returns the game of a scoreboard topic
func scoreboardGame(topic string) (model.GameID, bool) {
	if topic == scoreboardPrefix {
		return "", true
	}
	if rest, ok := strings.CutPrefix(topic, scoreboardPrefix+":"); ok {
		return model.GameID(rest), true
	}
	return "", false
}

// profilePlayer returns the player of a profile topic
func profilePlayer(topic string) (model.PlayerID, bool) {
	rest, ok := strings.CutPrefix(topic, profilePrefix)
	return model.PlayerID(rest), ok
}
