// Package stroke computes geometry metrics, shape classification, and
// accuracy scores for captured handwriting strokes. All functions are pure
// and operate on the decoded stroke path only.
package stroke

import (
	"math"

	"strokeclash/internal/models"
)

// Analyze computes all derived metrics for a single stroke
func Analyze(s models.Stroke) models.StrokeAnalysis {
	analysis := models.StrokeAnalysis{
		Length:          PathLength(s.Points),
		Duration:        s.EndTime - s.StartTime,
		Direction:       Direction(s.Points),
		PointCount:      len(s.Points),
		AveragePressure: AveragePressure(s.Points),
		BoundingBox:     Bounds(s.Points),
	}

	if analysis.Duration > 0 {
		analysis.Speed = analysis.Length / float64(analysis.Duration)
	}

	analysis.Type = Classify(s.Points, analysis)
	return analysis
}

// PathLength returns the sum of consecutive Euclidean segment distances.
// Paths with fewer than two points have zero length.
func PathLength(points []models.Point) float64 {
	if len(points) < 2 {
		return 0
	}
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += distance(points[i-1], points[i])
	}
	return total
}

// Direction returns the unit vector from the first point to the last point.
// The zero vector is returned when the path has fewer than two points or the
// endpoints coincide.
func Direction(points []models.Point) models.Vector {
	if len(points) < 2 {
		return models.Vector{}
	}
	first := points[0]
	last := points[len(points)-1]
	dx := last.X - first.X
	dy := last.Y - first.Y
	magnitude := math.Hypot(dx, dy)
	if magnitude == 0 {
		return models.Vector{}
	}
	return models.Vector{X: dx / magnitude, Y: dy / magnitude}
}

// Bounds returns the component-wise min/max extent of the path. An empty
// path yields the zero box.
func Bounds(points []models.Point) models.BoundingBox {
	if len(points) == 0 {
		return models.BoundingBox{}
	}
	box := models.BoundingBox{
		MinX: points[0].X,
		MinY: points[0].Y,
		MaxX: points[0].X,
		MaxY: points[0].Y,
	}
	for _, p := range points[1:] {
		box.MinX = math.Min(box.MinX, p.X)
		box.MinY = math.Min(box.MinY, p.Y)
		box.MaxX = math.Max(box.MaxX, p.X)
		box.MaxY = math.Max(box.MaxY, p.Y)
	}
	box.Width = box.MaxX - box.MinX
	box.Height = box.MaxY - box.MinY
	return box
}

// AveragePressure returns the mean per-point pressure. Points without a
// pressure reading count as full pressure (1.0). An empty path returns 1.0.
func AveragePressure(points []models.Point) float64 {
	if len(points) == 0 {
		return 1.0
	}
	sum := 0.0
	for _, p := range points {
		if p.Pressure != nil {
			sum += *p.Pressure
		} else {
			sum += 1.0
		}
	}
	return sum / float64(len(points))
}

func distance(a, b models.Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
