package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/gamenight/internal/dependencies/clock"
	"github.com/mcoot/gamenight/internal/model"
	"github.com/mcoot/gamenight/internal/services/rating"
	"github.com/mcoot/gamenight/internal/storage"
)

// SubmitRequest reports a finished match
type SubmitRequest struct {
	Players []model.PlayerID
	Winner  model.PlayerID
	GameID  model.GameID
}

// Result describes what a submission did. A rejected submission has
// Accepted false and made no writes.
type Result struct {
	Accepted bool
	Match    *model.Match
	// Updates holds the fields patched onto each participant
	Updates map[model.PlayerID]map[string]any
}

// Controller rates reported matches and records them
type Controller struct {
	storage storage.Storage
	scheme  model.RatingScheme
	eloMode rating.EloMode
	clock   clock.Clock
	logger  *slog.Logger
}

// NewController creates a new match Controller
func NewController(
	storage storage.Storage,
	scheme model.RatingScheme,
	eloMode rating.EloMode,
	clock clock.Clock,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		scheme:  scheme,
		eloMode: eloMode,
		clock:   clock,
		logger:  logger,
	}
}

// Scheme returns the rating scheme submissions are rated with
func (c *Controller) Scheme() model.RatingScheme {
	return c.scheme
}

// Submit validates and records a match. Invalid submissions are dropped
// without error. Each participant's stats are patched in turn and the match
// is appended last; these writes are independent, so a failure part way
// leaves the earlier writes in place and is reported in the returned error.
func (c *Controller) Submit(ctx context.Context, req SubmitRequest) (Result, error) {
	if reason := c.validate(req); reason != "" {
		c.logger.Debug("match submission rejected", slog.String("reason", reason))
		return Result{Accepted: false}, nil
	}

	participants, err := c.resolve(ctx, req.Players)
	if err != nil {
		c.logger.Error("failed to load participants", slog.String("error", err.Error()))
		return Result{Accepted: false}, err
	}

	var updates map[model.PlayerID]map[string]any
	switch c.scheme {
	case model.SchemeBayes:
		updates = c.bayesUpdates(participants, req)
	default:
		updates = c.eloUpdates(participants, req)
	}

	var errs []error
	patched := make(map[model.PlayerID]bool, len(participants))
	for _, p := range participants {
		if patched[p.ID] {
			continue
		}
		patched[p.ID] = true

		if err := c.storage.Patch(ctx, model.CollectionPlayers, string(p.ID), updates[p.ID]); err != nil {
			c.logger.Error("failed to update player stats",
				slog.String("player_id", string(p.ID)),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Errorf("update player %s: %w", p.ID, err))
		}
	}

	m := &model.Match{
		Timestamp: clock.NowMillis(c.clock),
		Players:   append([]model.PlayerID(nil), req.Players...),
		Winner:    req.Winner,
		GameID:    req.GameID,
	}
	id, err := c.storage.Append(ctx, model.CollectionMatches, m)
	if err != nil {
		c.logger.Error("failed to record match", slog.String("error", err.Error()))
		errs = append(errs, fmt.Errorf("record match: %w", err))
	} else {
		m.ID = model.MatchID(id)
	}

	c.logger.Info("match submitted",
		slog.String("match_id", string(m.ID)),
		slog.String("winner", string(req.Winner)),
		slog.String("game_id", string(req.GameID)),
		slog.Int("participants", len(req.Players)),
	)

	return Result{Accepted: true, Match: m, Updates: updates}, errors.Join(errs...)
}

func (c *Controller) validate(req SubmitRequest) string {
	if req.Winner == "" {
		return "no winner"
	}
	if len(req.Players) < 2 {
		return "fewer than two participants"
	}
	found := false
	for _, id := range req.Players {
		if id == req.Winner {
			found = true
			break
		}
	}
	if !found {
		return "winner is not a participant"
	}
	if c.scheme.RequiresGame() && req.GameID == "" {
		return "no game selected"
	}
	return ""
}

// resolve reads each participant's stored record, in submission order, so a
// submission always rates against the previous one's writes. Ids with no
// matching player are dropped.
func (c *Controller) resolve(ctx context.Context, ids []model.PlayerID) ([]model.Player, error) {
	loaded := make(map[model.PlayerID]*model.Player, len(ids))
	participants := make([]model.Player, 0, len(ids))
	for _, id := range ids {
		p, seen := loaded[id]
		if !seen {
			doc, err := c.storage.Get(ctx, model.CollectionPlayers, string(id))
			switch {
			case errors.Is(err, model.ErrDocumentNotFound):
			case err != nil:
				return nil, fmt.Errorf("load player %s: %w", id, err)
			default:
				player, err := storage.DecodePlayer(doc)
				if err != nil {
					return nil, fmt.Errorf("decode player %s: %w", id, err)
				}
				p = &player
			}
			loaded[id] = p
		}
		if p != nil {
			participants = append(participants, *p)
		}
	}
	return participants, nil
}

func (c *Controller) eloUpdates(participants []model.Player, req SubmitRequest) map[model.PlayerID]map[string]any {
	results := rating.ApplyElo(participants, req.Winner, c.eloMode)
	updates := make(map[model.PlayerID]map[string]any, len(results))
	for id, res := range results {
		updates[id] = res.Fields()
	}
	return updates
}

func (c *Controller) bayesUpdates(participants []model.Player, req SubmitRequest) map[model.PlayerID]map[string]any {
	updates := make(map[model.PlayerID]map[string]any, len(participants))
	for _, p := range participants {
		if _, done := updates[p.ID]; done {
			continue
		}
		if prior, ok := p.StatsFor(req.GameID); ok && !rating.ValidateStats(prior) {
			c.logger.Warn("repairing inconsistent game stats",
				slog.String("player_id", string(p.ID)),
				slog.String("game_id", string(req.GameID)),
			)
			p.Games[req.GameID] = rating.RepairStats(prior)
		}
		stats := rating.ApplyBayes(p, req.GameID, p.ID == req.Winner)
		updates[p.ID] = rating.GamesPatch(p, req.GameID, stats)
	}
	return updates
}
