package stroke

import (
	"math"

	"strokeclash/internal/models"
)

const (
	// Strokes shorter than this (in path coordinate units) are dots
	dotLengthThreshold = 10.0

	// Axis-alignment thresholds on the absolute direction components
	axisMajorThreshold    = 0.8
	axisMinorThreshold    = 0.3
	diagonalBothThreshold = 0.4

	// Curvature detection: turning angles above this count as turns, and a
	// stroke is a curve when more than this fraction of its points turn
	turnAngleThreshold = 30.0 * math.Pi / 180.0
	curveTurnFraction  = 0.1
)

// Classify buckets a stroke into one of the five shape types using its
// analysis. This is an approximation, not a precise shape matcher: strokes
// that are neither strongly axis-aligned nor curved fall back to diagonal.
func Classify(points []models.Point, analysis models.StrokeAnalysis) models.StrokeType {
	if analysis.Length < dotLengthThreshold {
		return models.StrokeDot
	}

	ax := math.Abs(analysis.Direction.X)
	ay := math.Abs(analysis.Direction.Y)

	switch {
	case ax > axisMajorThreshold && ay < axisMinorThreshold:
		return models.StrokeHorizontal
	case ay > axisMajorThreshold && ax < axisMinorThreshold:
		return models.StrokeVertical
	case ax > diagonalBothThreshold && ay > diagonalBothThreshold:
		return models.StrokeDiagonal
	}

	if isCurved(points) {
		return models.StrokeCurve
	}

	return models.StrokeDiagonal
}

// isCurved counts sharp turning angles over a sliding window of three points.
// The path needs at least five points for the turn count to mean anything.
func isCurved(points []models.Point) bool {
	if len(points) < 5 {
		return false
	}

	turns := 0
	for i := 1; i < len(points)-1; i++ {
		in := math.Atan2(points[i].Y-points[i-1].Y, points[i].X-points[i-1].X)
		out := math.Atan2(points[i+1].Y-points[i].Y, points[i+1].X-points[i].X)
		if math.Abs(normalizeAngle(out-in)) > turnAngleThreshold {
			turns++
		}
	}

	return float64(turns) > curveTurnFraction*float64(len(points))
}

// normalizeAngle maps an angle difference into (-pi, pi]
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
