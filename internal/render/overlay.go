package render

import (
	"image"
	"image/color"

	"kiln-detection-service/internal/domain"

	"github.com/fogleman/gg"
)

var (
	BoxColor = color.RGBA{R: 255, A: 255}
	BoxWidth = 2.0
)

// Annotate returns a copy of img with each detection outlined. img is not modified.
func Annotate(img image.Image, detections []domain.DetectionBox) image.Image {
	dc := gg.NewContextForImage(img)
	dc.SetColor(BoxColor)
	dc.SetLineWidth(BoxWidth)

	for _, d := range detections {
		dc.DrawRectangle(d.X1, d.Y1, d.X2-d.X1, d.Y2-d.Y1)
		dc.Stroke()
	}

	return dc.Image()
}
