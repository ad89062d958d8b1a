package qrstyle

import (
	"fmt"
	"strings"

	"github.com/yeqown/go-qrcode/v2"
)

// ECLevel is the error correction level of the encoded symbol.
type ECLevel uint8

const (
	ECLow ECLevel = iota
	ECMedium
	ECQuartile
	ECHigh
)

// ParseECLevel maps the usual one letter names (L, M, Q, H) to a level.
// Unknown values resolve to ECMedium.
func ParseECLevel(s string) ECLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "L", "LOW":
		return ECLow
	case "Q", "QUARTILE":
		return ECQuartile
	case "H", "HIGH":
		return ECHigh
	}
	return ECMedium
}

func (l ECLevel) String() string {
	return [...]string{"L", "M", "Q", "H"}[l&3]
}

// MatrixProvider turns a payload into a module matrix.
type MatrixProvider interface {
	Encode(payload string, version int, level ECLevel) (*Matrix, error)
}

// Encoder is the default MatrixProvider.
type Encoder struct{}

// Encode encodes the payload. A zero version lets the encoder pick the
// smallest symbol the payload fits in.
func (Encoder) Encode(payload string, version int, level ECLevel) (*Matrix, error) {
	if payload == "" {
		return nil, ErrEmptyPayload
	}
	if version < 0 || version > 40 {
		return nil, fmt.Errorf("%w: version %d out of range", ErrInvalidStyle, version)
	}

	opts := []qrcode.EncodeOption{level.option()}
	if version > 0 {
		opts = append(opts, qrcode.WithVersion(version))
	}
	qrc, err := qrcode.NewWith(payload, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodingOverflow, err)
	}

	mw := &matrixWriter{}
	if err := qrc.Save(mw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodingOverflow, err)
	}
	if version > 0 && len(mw.rows) != 17+4*version {
		return nil, fmt.Errorf("%w: payload needs more than version %d at level %s",
			ErrEncodingOverflow, version, level)
	}
	return NewMatrix(mw.rows)
}

func (l ECLevel) option() qrcode.EncodeOption {
	switch l {
	case ECLow:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionLow)
	case ECQuartile:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionQuart)
	case ECHigh:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionHighest)
	}
	return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium)
}

// matrixWriter captures the encoded bitmap instead of drawing it.
type matrixWriter struct {
	rows [][]bool
}

func (w *matrixWriter) Write(mat qrcode.Matrix) error {
	n := mat.Width()
	w.rows = make([][]bool, n)
	for i := range w.rows {
		w.rows[i] = make([]bool, n)
	}
	mat.Iterate(qrcode.IterDirection_ROW, func(x, y int, v qrcode.QRValue) {
		w.rows[y][x] = v.IsSet()
	})
	return nil
}

func (w *matrixWriter) Close() error { return nil }
