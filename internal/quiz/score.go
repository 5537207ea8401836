package quiz

import (
	"math"

	"basequiz-service/internal/domain"
)

const (
	plateauMs     = 10000
	decayEndMs    = 90000
	decayWindowMs = decayEndMs - plateauMs
	tailSlowdown  = 5
)

// ComputeScore rates a round from its accuracy, the elapsed time and the difficulty.
//
// The time ratio stays at 1 for the first ten seconds and then decays
// linearly until ninety seconds, more slowly on harder difficulties. Past
// ninety seconds it restarts from 0.5/factor with a five times shallower
// slope, clamped at zero. For factors above 1 this restart is a drop, so the
// ratio is non-increasing but not continuous at ninety seconds.
func ComputeScore(correct, total int, elapsedMs int64, difficulty domain.Difficulty) (int, error) {
	if total <= 0 {
		return 0, domain.ErrNoQuestions
	}
	if correct < 0 || correct > total {
		return 0, domain.ErrInvalidScoreInput
	}

	factor := float64(difficulty.Factor())
	correctRatio := float64(correct) / float64(total)
	timeRatio := TimeRatio(elapsedMs, difficulty)

	return int(math.Round(correctRatio * timeRatio * 1000 * factor)), nil
}

// TimeRatio is the time component of ComputeScore, in [0, 1].
func TimeRatio(elapsedMs int64, difficulty domain.Difficulty) float64 {
	factor := float64(difficulty.Factor())
	elapsed := float64(elapsedMs)

	var ratio float64
	switch {
	case elapsedMs <= plateauMs:
		ratio = 1.0
	case elapsedMs <= decayEndMs:
		ratio = 1.0 - 0.5*(elapsed-plateauMs)/(decayWindowMs*factor)
	default:
		ratio = 0.5/factor - (elapsed-decayEndMs)/(decayWindowMs*factor*tailSlowdown)
	}
	return math.Max(0, ratio)
}
