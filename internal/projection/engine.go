// Package projection computes expected point totals for players: a static
// pre-game baseline per scoring format, and a dynamic total that folds in
// live scoring as the player's real-world game runs.
package projection

import (
	"github.com/johnny-papercut/fantasy/internal/pkg/models"
)

// minInformationFraction is how much of a game has to elapse before live
// points carry enough signal to move a projection off its baseline.
const minInformationFraction = 0.25

// Baseline selects the pre-game expected points for a league's scoring
// format from a feed projection record.
func Baseline(p models.Projection, format models.ScoringFormat) float64 {
	return p.ForFormat(format)
}

// Dynamic extrapolates an expected final total from the baseline, the
// player's current live points, and how far along the game is.
//
// The remaining share of the gap between baseline and live points is carried
// forward linearly: at kickoff the projection is the baseline, and as the
// clock runs out the live total takes over completely. Under the minimum
// information threshold the baseline stands untouched, and a missing or
// unknown game progress reads as elapsed 0 so the result always falls back
// toward the baseline, never toward garbage.
func Dynamic(baseline, livePoints, elapsed float64, status models.PlayerStatus) float64 {
	if elapsed < 0 {
		elapsed = 0
	}

	// A player ruled out before kickoff scores nothing.
	if status.Sidelined() && elapsed == 0 {
		return 0
	}

	switch {
	case elapsed < minInformationFraction:
		return baseline
	case elapsed >= 1:
		return livePoints
	default:
		return livePoints + (baseline-livePoints)*(1-elapsed)
	}
}

// ForScore computes the dynamic projection for one roster row given its
// baseline and the progress of the row's real-world game. A nil progress
// means the game state is unknown.
func ForScore(score models.PlayerScore, baseline float64, progress *models.GameProgress) float64 {
	if score.PlayState == models.PlayBye {
		return 0
	}

	elapsed := 0.0
	if progress != nil {
		elapsed = progress.Elapsed
		if progress.Final {
			elapsed = 1
		}
	}
	if score.PlayState == models.PlayFinal {
		elapsed = 1
	}

	return Dynamic(baseline, score.Points, elapsed, score.Status)
}
