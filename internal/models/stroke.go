package models

// Point is a single sampled position on a drawn path. Pressure is optional;
// capture devices without pressure report nil and readers treat it as 1.0.
type Point struct {
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Pressure  *float64 `json:"pressure,omitempty"`
	Timestamp int64    `json:"timestamp,omitempty"`
}

// Stroke is one continuous pointer-down-to-pointer-up path. Points are only
// appended while the stroke is being drawn and never mutated afterwards.
type Stroke struct {
	Points    []Point `json:"points"`
	StartTime int64   `json:"startTime"`
	EndTime   int64   `json:"endTime"`
	Valid     bool    `json:"valid"`
}

// StrokeType is the shape bucket a stroke classifies into
type StrokeType string

const (
	StrokeDot        StrokeType = "dot"
	StrokeHorizontal StrokeType = "horizontal"
	StrokeVertical   StrokeType = "vertical"
	StrokeDiagonal   StrokeType = "diagonal"
	StrokeCurve      StrokeType = "curve"
)

// Vector is a 2D direction vector
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoundingBox is the axis-aligned extent of a stroke path
type BoundingBox struct {
	MinX   float64 `json:"minX"`
	MinY   float64 `json:"minY"`
	MaxX   float64 `json:"maxX"`
	MaxY   float64 `json:"maxY"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// StrokeAnalysis holds metrics derived from a stroke path. It is recomputed
// on demand and never persisted.
type StrokeAnalysis struct {
	Length          float64     `json:"length"`
	Duration        int64       `json:"duration"`
	Speed           float64     `json:"speed"`
	Direction       Vector      `json:"direction"`
	Type            StrokeType  `json:"type"`
	PointCount      int         `json:"pointCount"`
	AveragePressure float64     `json:"averagePressure"`
	BoundingBox     BoundingBox `json:"boundingBox"`
}
