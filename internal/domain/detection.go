package domain

// Axis-aligned detection in pixel space of the raster it was produced from.
// Produced per inference call and consumed immediately for overlay drawing.
type DetectionBox struct {
	X1         float64
	Y1         float64
	X2         float64
	Y2         float64
	Confidence float64
	ClassName  string
}

// Valid reports whether the box is well-formed within a width x height raster.
func (d DetectionBox) Valid(width, height int) bool {
	if d.X1 >= d.X2 || d.Y1 >= d.Y2 {
		return false
	}
	if d.X1 < 0 || d.Y1 < 0 || d.X2 > float64(width) || d.Y2 > float64(height) {
		return false
	}
	return d.Confidence >= 0 && d.Confidence <= 1
}
