package qrstyle

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/esimov/qrstyle/utils"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

const (
	galleryLabelHeight = 20
	galleryGap         = 10
)

// Gallery renders the matrix once per preset and lays the results out on a
// contact sheet, cols tiles per row, each tile side pixels wide and labelled
// with the preset name.
func Gallery(m *Matrix, cols, side int) (*image.NRGBA, error) {
	if m == nil {
		return nil, ErrInvalidMatrix
	}
	if cols < 1 || side < m.Size() {
		return nil, fmt.Errorf("%w: gallery of %d columns with %dpx tiles", ErrInvalidStyle, cols, side)
	}

	names := Presets()
	rows := (len(names) + cols - 1) / cols
	tileH := side + galleryLabelHeight
	sheet := imaging.New(
		cols*side+(cols+1)*galleryGap,
		rows*tileH+(rows+1)*galleryGap,
		color.White,
	)

	for i, name := range names {
		tile, err := galleryTile(m, name, side)
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", name, err)
		}
		col, row := i%cols, i/cols
		pt := image.Pt(galleryGap+col*(side+galleryGap), galleryGap+row*(tileH+galleryGap))
		sheet = imaging.Paste(sheet, tile, pt)
	}
	return sheet, nil
}

func galleryTile(m *Matrix, name string, side int) (image.Image, error) {
	preset, _ := LookupPreset(name)
	style := preset.Apply(DefaultStyle())
	style.BoxSize = utils.Max(1, side/(m.Size()+2*style.Border))

	sym, _, err := Render(m, style)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(side, side+galleryLabelHeight)
	dc.SetColor(color.White)
	dc.Clear()
	dc.DrawImage(imaging.Resize(sym, side, side, imaging.Lanczos), 0, 0)
	dc.SetColor(color.Black)
	dc.SetFontFace(basicfont.Face7x13)
	dc.DrawStringAnchored(name, float64(side)/2, float64(side)+galleryLabelHeight/2, 0.5, 0.35)
	return dc.Image(), nil
}
