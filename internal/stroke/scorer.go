package stroke

import (
	"math"

	"strokeclash/internal/models"
)

const (
	// Each stroke of count mismatch costs this many points
	countMismatchPenalty = 20.0

	// Quality formula weights: denser sampling and longer (capped) dwell time
	// stand in for careful drawing until real template matching exists
	qualityPointWeight  = 2.0
	qualityDwellDivisor = 50.0
	qualityDwellCap     = 50.0

	countWeight   = 0.6
	qualityWeight = 0.4
)

// Score computes the 0..100 accuracy for one attempt from its accumulated
// strokes and the character's expected stroke count.
//
// This is a placeholder pending real stroke-shape validation (template
// matching against ground-truth stroke data). The contract that matters:
// the 0..100 scale, and a monotonically non-increasing response to growing
// stroke-count mismatch.
func Score(strokes []models.Stroke, expectedStrokeCount int) float64 {
	if len(strokes) == 0 {
		return 0
	}

	countScore := CountPenaltyScore(expectedStrokeCount, len(strokes))

	totalQuality := 0.0
	for _, s := range strokes {
		totalQuality += StrokeQuality(s)
	}
	averageQuality := totalQuality / float64(len(strokes))

	accuracy := countWeight*countScore + qualityWeight*averageQuality
	return clamp(accuracy, 0, 100)
}

// CountPenaltyScore scores the stroke-count match: 100 for an exact match,
// minus 20 per stroke of mismatch, floored at 0.
func CountPenaltyScore(expected, actual int) float64 {
	delta := math.Abs(float64(expected - actual))
	return math.Max(0, 100-countMismatchPenalty*delta)
}

// StrokeQuality approximates how carefully one stroke was drawn from its
// sampling density and dwell time, capped at 100.
func StrokeQuality(s models.Stroke) float64 {
	duration := float64(s.EndTime - s.StartTime)
	if duration < 0 {
		duration = 0
	}
	dwell := math.Min(qualityDwellCap, duration/qualityDwellDivisor)
	return math.Min(100, qualityPointWeight*float64(len(s.Points))+dwell)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
