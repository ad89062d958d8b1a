package export

import (
	"image"
	"strings"
)

const (
	ptPerMM = 72 / 25.4

	captionSize = 10.0
	dateSize    = 8.0
	// helveticaAvgWidth approximates the Helvetica advance width, in em.
	helveticaAvgWidth = 0.556
	captionGapMM      = 15.0
	dateXMM, dateYMM  = 30.0, 20.0
)

func mmToPt(mm float64) float64 { return mm * ptPerMM }

// pageLayout is the placement of a symbol on a printed page, in points with
// the origin at the bottom-left corner.
type pageLayout struct {
	pageW, pageH float64

	// image rectangle
	x, y, w, h float64
	box        bool

	caption            string
	captionX, captionY float64

	date         string
	dateX, dateY float64
}

func layoutPage(opts Options) pageLayout {
	page := opts.Page
	if page.Width <= 0 || page.Height <= 0 {
		page = A4
	}
	pw, ph := page.Width, page.Height
	if opts.Landscape {
		pw, ph = ph, pw
	}

	size := opts.SizeMM
	if size.X <= 0 || size.Y <= 0 {
		size = Millimeters{X: 50, Y: 50}
	}
	pos := Millimeters{X: (pw - size.X) / 2, Y: (ph - size.Y) / 2}
	if opts.PositionMM != nil {
		pos = *opts.PositionMM
	}

	l := pageLayout{
		pageW: mmToPt(pw),
		pageH: mmToPt(ph),
		x:     mmToPt(pos.X),
		y:     mmToPt(pos.Y),
		w:     mmToPt(size.X),
		h:     mmToPt(size.Y),
		box:   opts.IncludeBox,
	}
	if opts.Caption != "" {
		l.caption = latin1(opts.Caption)
		tw := float64(len(l.caption)) * captionSize * helveticaAvgWidth
		l.captionX = l.x + (l.w-tw)/2
		l.captionY = l.y - mmToPt(captionGapMM)
	}
	if opts.IncludeDate {
		l.date = "Generated on " + opts.now().Format("2006-01-02 15:04:05")
		l.dateX, l.dateY = mmToPt(dateXMM), mmToPt(dateYMM)
	}
	return l
}

// latin1 re-encodes s one byte per character, replacing the characters
// the standard Type 1 fonts cannot show.
func latin1(s string) string {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r < 0x20 || r > 0xff {
			r = '?'
		}
		out = append(out, byte(r))
	}
	return string(out)
}

// escapeString escapes the delimiters of PDF and PostScript string literals.
func escapeString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

// rgbSamples returns the 8 bit RGB samples of the image flattened over white,
// row by row from the top.
func rgbSamples(img image.Image) (data []byte, w, h int) {
	src := flatten(prepare(img, Options{Scale: 1}))
	b := src.Bounds()
	w, h = b.Dx(), b.Dy()
	data = make([]byte, 0, w*h*3)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for i := 0; i < len(row); i += 4 {
			data = append(data, row[i], row[i+1], row[i+2])
		}
	}
	return data, w, h
}
