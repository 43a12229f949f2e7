package model

import (
	"regexp"
	"strings"
)

// GameID uniquely identifies a game title
type GameID string

// Game is a title that matches can be played in
type Game struct {
	ID   GameID `json:"-"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// ImageSlug returns the background image file name for the game,
// e.g. "Ticket To Ride" -> "ticket-to-ride.jpg"
func (g *Game) ImageSlug() string {
	return ImageSlug(g.Name)
}

// ImageSlug returns the background image file name for a game name
func ImageSlug(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(name), "-") + ".jpg"
}
