package request

// CreatePlayerRequest is the request body for registering a player
type CreatePlayerRequest struct {
	Name   string `json:"name"`
	Colour string `json:"colour"`
}

// CreateGameRequest is the request body for adding a game
type CreateGameRequest struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// RenameGameRequest is the request body for renaming a game
type RenameGameRequest struct {
	Name string `json:"name"`
}

// SubmitMatchRequest is the request body for reporting a match
type SubmitMatchRequest struct {
	Players []string `json:"players"`
	Winner  string   `json:"winner"`
	GameID  string   `json:"game_id,omitempty"`
}

// LoginRequest is the request body for opening a control session
type LoginRequest struct {
	Passphrase string `json:"passphrase"`
}
