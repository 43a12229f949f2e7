package model

import "time"

// Collection names a persisted record collection
type Collection string

const (
	CollectionPlayers Collection = "players"
	CollectionGames   Collection = "games"
	CollectionMatches Collection = "matches"
)

// Collections returns every collection the engine reads
func Collections() []Collection {
	return []Collection{CollectionPlayers, CollectionGames, CollectionMatches}
}

// Valid reports whether c is a known collection
func (c Collection) Valid() bool {
	switch c {
	case CollectionPlayers, CollectionGames, CollectionMatches:
		return true
	}
	return false
}

// ChangeEvent signals that a collection's contents changed
type ChangeEvent struct {
	Collection Collection
	Timestamp  time.Time
}
