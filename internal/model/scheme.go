package model

// RatingScheme selects how match results turn into rankings
type RatingScheme string

const (
	SchemeElo   RatingScheme = "elo"   // one global pairwise Elo rating per player
	SchemeBayes RatingScheme = "bayes" // Beta-Bernoulli win rate per player per game
)

// ParseRatingScheme validates a scheme name
func ParseRatingScheme(s string) (RatingScheme, error) {
	switch RatingScheme(s) {
	case SchemeElo, SchemeBayes:
		return RatingScheme(s), nil
	}
	return "", ErrUnknownScheme
}

// RequiresGame reports whether matches must name a game under this scheme
func (s RatingScheme) RequiresGame() bool {
	return s == SchemeBayes
}
