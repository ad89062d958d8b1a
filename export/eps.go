package export

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"image"
	"math"

	"github.com/esimov/qrstyle/utils"
)

// epsHexLine is the number of samples written per line of hex data.
const epsHexLine = 36

// EncodeEPS writes an EPSF-3.0 document with the same page layout as the PDF exporter.
func EncodeEPS(img image.Image, opts Options) ([]byte, error) {
	l := layoutPage(opts)
	samples, w, h := rgbSamples(img)

	var buf bytes.Buffer
	buf.WriteString("%!PS-Adobe-3.0 EPSF-3.0\n")
	fmt.Fprintf(&buf, "%%%%BoundingBox: 0 0 %d %d\n", int(math.Ceil(l.pageW)), int(math.Ceil(l.pageH)))
	fmt.Fprintf(&buf, "%%%%HiResBoundingBox: 0 0 %.2f %.2f\n", l.pageW, l.pageH)
	if opts.Title != "" {
		fmt.Fprintf(&buf, "%%%%Title: %s\n", latin1(opts.Title))
	}
	fmt.Fprintf(&buf, "%%%%Creator: %s\n", producer)
	fmt.Fprintf(&buf, "%%%%CreationDate: %s\n", opts.now().Format("2006-01-02 15:04:05"))
	buf.WriteString("%%Pages: 1\n%%LanguageLevel: 2\n%%EndComments\n")

	buf.WriteString("gsave\n")
	fmt.Fprintf(&buf, "/picstr %d string def\n", w*3)
	fmt.Fprintf(&buf, "%.2f %.2f translate\n%.2f %.2f scale\n", l.x, l.y, l.w, l.h)
	fmt.Fprintf(&buf, "%d %d 8 [%d 0 0 -%d 0 %d]\n", w, h, w, h, h)
	buf.WriteString("{currentfile picstr readhexstring pop} false 3 colorimage\n")
	for i := 0; i < len(samples); i += epsHexLine {
		end := utils.Min(i+epsHexLine, len(samples))
		buf.WriteString(hex.EncodeToString(samples[i:end]))
		buf.WriteByte('\n')
	}
	buf.WriteString("grestore\n")

	if l.box {
		fmt.Fprintf(&buf, "newpath %.2f %.2f moveto %.2f 0 rlineto 0 %.2f rlineto %.2f 0 rlineto closepath\n",
			l.x, l.y, l.w, l.h, -l.w)
		buf.WriteString("0 setgray 0.5 setlinewidth stroke\n")
	}
	if l.caption != "" {
		fmt.Fprintf(&buf, "/Helvetica findfont %.0f scalefont setfont 0 setgray %.2f %.2f moveto (%s) show\n",
			captionSize, l.captionX, l.captionY, escapeString(l.caption))
	}
	if l.date != "" {
		fmt.Fprintf(&buf, "/Helvetica findfont %.0f scalefont setfont 0 setgray %.2f %.2f moveto (%s) show\n",
			dateSize, l.dateX, l.dateY, escapeString(l.date))
	}
	buf.WriteString("showpage\n%%EOF\n")
	return buf.Bytes(), nil
}
