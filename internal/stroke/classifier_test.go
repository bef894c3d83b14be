package stroke

import (
	"math"
	"testing"

	"strokeclash/internal/models"
)

func classify(points []models.Point) models.StrokeType {
	s := models.Stroke{Points: points, StartTime: 0, EndTime: 100}
	return Analyze(s).Type
}

func TestClassifyAxisAligned(t *testing.T) {
	tests := []struct {
		name     string
		points   []models.Point
		expected models.StrokeType
	}{
		{
			name:     "horizontal stroke",
			points:   pts(0, 0, 25, 0, 50, 0),
			expected: models.StrokeHorizontal,
		},
		{
			name:     "vertical stroke",
			points:   pts(0, 0, 0, 25, 0, 50),
			expected: models.StrokeVertical,
		},
		{
			name:     "diagonal stroke",
			points:   pts(0, 0, 25, 25, 50, 50),
			expected: models.StrokeDiagonal,
		},
		{
			name:     "short stroke is a dot regardless of direction",
			points:   pts(0, 0, 5, 0),
			expected: models.StrokeDot,
		},
		{
			name:     "short vertical is still a dot",
			points:   pts(0, 0, 0, 8),
			expected: models.StrokeDot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := classify(tt.points)
			if result != tt.expected {
				t.Errorf("classify() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestClassifyCurve(t *testing.T) {
	// Full circle drawn in 10 segments: coincident endpoints give a zero
	// direction vector so no axis rule matches, and every interior point
	// turns 36 degrees, well past the 30 degree threshold.
	var points []models.Point
	for i := 0; i <= 10; i++ {
		angle := float64(i) / 10 * 2 * math.Pi
		points = append(points, models.Point{
			X: 50 * math.Cos(angle),
			Y: 50 * math.Sin(angle),
		})
	}

	result := classify(points)
	if result != models.StrokeCurve {
		t.Errorf("circle classified as %v, want curve", result)
	}
}

func TestClassifyAmbiguousFallsBackToDiagonal(t *testing.T) {
	// Straight line at ~18 degrees: ax ≈ 0.95 but ay ≈ 0.31, so the
	// horizontal rule misses (minor component too large) and the diagonal
	// rule misses (minor component too small). Straight paths never turn,
	// so the catch-all fallback applies.
	points := pts(0, 0, 20, 6.5, 40, 13, 60, 19.6, 80, 26.1)

	result := classify(points)
	if result != models.StrokeDiagonal {
		t.Errorf("ambiguous stroke classified as %v, want diagonal fallback", result)
	}
}

func TestIsCurvedNeedsEnoughPoints(t *testing.T) {
	// A sharp zigzag with only 4 points can never register as curved
	points := pts(0, 0, 20, 20, 40, 0, 60, 20)
	if isCurved(points) {
		t.Error("paths under 5 points must not classify as curved")
	}
}
