package roster

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mcoot/gamenight/internal/model"
	"github.com/mcoot/gamenight/internal/storage"
)

// Controller manages the player roster and the game list
type Controller struct {
	storage storage.Storage
	scheme  model.RatingScheme
	logger  *slog.Logger
}

// NewController creates a new roster Controller
func NewController(storage storage.Storage, scheme model.RatingScheme, logger *slog.Logger) *Controller {
	return &Controller{
		storage: storage,
		scheme:  scheme,
		logger:  logger,
	}
}

// AddPlayer registers a player with default stats for the active scheme
func (c *Controller) AddPlayer(ctx context.Context, name string, colour string) (*model.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrInvalidName
	}
	col, err := model.ParseColour(colour)
	if err != nil {
		return nil, err
	}

	player := model.NewPlayer(name, col, c.scheme)
	id, err := c.storage.Append(ctx, model.CollectionPlayers, playerRecord(player, c.scheme))
	if err != nil {
		c.logger.Error("failed to add player",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	player.ID = model.PlayerID(id)

	c.logger.Info("player added",
		slog.String("player_id", id),
		slog.String("name", name),
	)
	return player, nil
}

// RemovePlayer deletes a player. Matches referencing the player are kept.
func (c *Controller) RemovePlayer(ctx context.Context, id model.PlayerID) error {
	if err := c.exists(ctx, model.CollectionPlayers, string(id), model.ErrPlayerNotFound); err != nil {
		return err
	}
	if err := c.storage.Remove(ctx, model.CollectionPlayers, string(id)); err != nil {
		return err
	}
	c.logger.Info("player removed", slog.String("player_id", string(id)))
	return nil
}

// AddGame adds a game title
func (c *Controller) AddGame(ctx context.Context, name string, gameType string) (*model.Game, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrInvalidName
	}

	game := &model.Game{Name: name, Type: strings.TrimSpace(gameType)}
	id, err := c.storage.Append(ctx, model.CollectionGames, game)
	if err != nil {
		c.logger.Error("failed to add game",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	game.ID = model.GameID(id)

	c.logger.Info("game added",
		slog.String("game_id", id),
		slog.String("name", name),
	)
	return game, nil
}

// RenameGame replaces a game's record with a new name. Like the edit form
// this overwrites the record, so any type is dropped.
func (c *Controller) RenameGame(ctx context.Context, id model.GameID, name string) (*model.Game, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrInvalidName
	}
	if err := c.exists(ctx, model.CollectionGames, string(id), model.ErrGameNotFound); err != nil {
		return nil, err
	}

	game := &model.Game{ID: id, Name: name}
	if err := c.storage.Set(ctx, model.CollectionGames, string(id), game); err != nil {
		return nil, err
	}

	c.logger.Info("game renamed",
		slog.String("game_id", string(id)),
		slog.String("name", name),
	)
	return game, nil
}

// RemoveGame deletes a game. Matches referencing the game are kept.
func (c *Controller) RemoveGame(ctx context.Context, id model.GameID) error {
	if err := c.exists(ctx, model.CollectionGames, string(id), model.ErrGameNotFound); err != nil {
		return err
	}
	if err := c.storage.Remove(ctx, model.CollectionGames, string(id)); err != nil {
		return err
	}
	c.logger.Info("game removed", slog.String("game_id", string(id)))
	return nil
}

func (c *Controller) exists(ctx context.Context, collection model.Collection, id string, notFound error) error {
	_, err := c.storage.Get(ctx, collection, id)
	if errors.Is(err, model.ErrDocumentNotFound) {
		return notFound
	}
	return err
}

// playerRecord is the stored shape of a new player. Zero counters are
// written explicitly so the record matches its scheme's schema.
func playerRecord(p *model.Player, scheme model.RatingScheme) map[string]any {
	record := map[string]any{
		"name":   p.Name,
		"colour": p.Colour,
	}
	switch scheme {
	case model.SchemeElo:
		record["elo"] = p.Elo
		record["eloDelta"] = 0
		record["gamesWon"] = 0
		record["gamesLost"] = 0
	case model.SchemeBayes:
		record["games"] = map[string]any{}
	}
	return record
}
