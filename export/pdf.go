package export

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const (
	pdfVersion = "1.4"
	producer   = "qrstyle"
)

// pdfDocument collects numbered objects and serialises them with a cross reference table.
type pdfDocument struct {
	objects [][]byte
}

// add appends an object and returns its 1-based number.
func (d *pdfDocument) add(obj string) int {
	d.objects = append(d.objects, []byte(obj))
	return len(d.objects)
}

// addStream appends a Flate compressed stream object.
func (d *pdfDocument) addStream(dict string, data []byte) (int, error) {
	var z bytes.Buffer
	zw := zlib.NewWriter(&z)
	if _, err := zw.Write(data); err != nil {
		return 0, err
	}
	if err := zw.Close(); err != nil {
		return 0, err
	}
	var obj bytes.Buffer
	fmt.Fprintf(&obj, "<< %s /Filter /FlateDecode /Length %d >>\nstream\n", dict, z.Len())
	obj.Write(z.Bytes())
	obj.WriteString("\nendstream")
	d.objects = append(d.objects, obj.Bytes())
	return len(d.objects), nil
}

func (d *pdfDocument) bytes(root, info int) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%%PDF-%s\n%%\xE2\xE3\xCF\xD3\n", pdfVersion)

	offsets := make([]int, len(d.objects))
	for i, obj := range d.objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n", i+1)
		buf.Write(obj)
		buf.WriteString("\nendobj\n")
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(d.objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R /Info %d 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(d.objects)+1, root, info, xref)
	return buf.Bytes()
}

// EncodePDF places the image on a single page according to the page options.
// The document is validated before it is returned.
func EncodePDF(img image.Image, opts Options) ([]byte, error) {
	data, err := buildPDF(img, opts)
	if err != nil {
		return nil, err
	}
	return checkPDF(data)
}

// checkPDF returns data unchanged if it is a valid PDF document.
func checkPDF(data []byte) ([]byte, error) {
	if _, err := VerifyPDF(data); err != nil {
		return nil, err
	}
	return data, nil
}

func buildPDF(img image.Image, opts Options) ([]byte, error) {
	l := layoutPage(opts)
	samples, w, h := rgbSamples(img)

	doc := &pdfDocument{}
	catalog := doc.add("<< /Type /Catalog /Pages 2 0 R >>")
	doc.add("<< /Type /Pages /Kids [6 0 R] /Count 1 >>")
	doc.add("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	if _, err := doc.addStream(fmt.Sprintf(
		"/Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace /DeviceRGB /BitsPerComponent 8",
		w, h), samples); err != nil {
		return nil, err
	}
	if _, err := doc.addStream("", []byte(pdfContent(l))); err != nil {
		return nil, err
	}
	doc.add(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %.2f %.2f] "+
		"/Resources << /Font << /F1 3 0 R >> /XObject << /Im1 4 0 R >> >> /Contents 5 0 R >>",
		l.pageW, l.pageH))
	info := doc.add(pdfInfo(opts))

	return doc.bytes(catalog, info), nil
}

func pdfContent(l pageLayout) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "q\n%.2f 0 0 %.2f %.2f %.2f cm\n/Im1 Do\nQ\n", l.w, l.h, l.x, l.y)
	if l.box {
		fmt.Fprintf(&sb, "0 G 0.5 w\n%.2f %.2f %.2f %.2f re S\n", l.x, l.y, l.w, l.h)
	}
	if l.caption != "" {
		fmt.Fprintf(&sb, "0 g\nBT /F1 %.0f Tf %.2f %.2f Td (%s) Tj ET\n",
			captionSize, l.captionX, l.captionY, escapeString(l.caption))
	}
	if l.date != "" {
		fmt.Fprintf(&sb, "0 g\nBT /F1 %.0f Tf %.2f %.2f Td (%s) Tj ET\n",
			dateSize, l.dateX, l.dateY, escapeString(l.date))
	}
	return sb.String()
}

func pdfInfo(opts Options) string {
	subject := opts.Subject
	if subject == "" {
		subject = "QR Code"
	}
	keywords := "QR Code, Generator"
	if len(opts.Keywords) > 0 {
		keywords = strings.Join(opts.Keywords, ", ")
	}

	var sb strings.Builder
	sb.WriteString("<<")
	if opts.Title != "" {
		fmt.Fprintf(&sb, " /Title (%s)", escapeString(latin1(opts.Title)))
	}
	if opts.Author != "" {
		fmt.Fprintf(&sb, " /Author (%s)", escapeString(latin1(opts.Author)))
	}
	fmt.Fprintf(&sb, " /Subject (%s)", escapeString(latin1(subject)))
	fmt.Fprintf(&sb, " /Keywords (%s)", escapeString(latin1(keywords)))
	fmt.Fprintf(&sb, " /Producer (%s) /Creator (%s)", producer, producer)
	fmt.Fprintf(&sb, " /CreationDate (%s)", opts.now().UTC().Format("D:20060102150405Z"))
	sb.WriteString(" >>")
	return sb.String()
}

var pdfcpuOnce sync.Once

// VerifyPDF parses and validates a PDF document and returns its page count.
func VerifyPDF(data []byte) (int, error) {
	// keep pdfcpu from creating its configuration directory
	pdfcpuOnce.Do(api.DisableConfigDir)

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("%w: invalid pdf: %v", ErrExportIO, err)
	}
	return ctx.PageCount, nil
}
