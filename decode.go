package qrstyle

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	"go.uber.org/zap"
)

// Decode reads the payload back from a rendered symbol. Transparent pixels
// are flattened over white, and symbols lighter than their background are
// read from the inverted image.
func Decode(img image.Image) (string, error) {
	if img == nil || img.Bounds().Empty() {
		return "", fmt.Errorf("%w: empty image", ErrUnreadable)
	}
	b := img.Bounds()
	flat := imaging.Overlay(imaging.New(b.Dx(), b.Dy(), color.White), img, image.Point{}, 1.0)

	src := gozxing.NewLuminanceSourceFromImage(flat)
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}

	var lastErr error
	for _, ls := range []gozxing.LuminanceSource{src, src.Invert()} {
		bmp, err := gozxing.NewBinaryBitmap(gozxing.NewHybridBinarizer(ls))
		if err != nil {
			lastErr = err
			continue
		}
		res, err := zxqr.NewQRCodeReader().Decode(bmp, hints)
		if err != nil {
			lastErr = err
			continue
		}
		return res.GetText(), nil
	}
	return "", fmt.Errorf("%w: %v", ErrUnreadable, lastErr)
}

// Verify decodes the symbol and checks that it carries payload.
func Verify(img image.Image, payload string) error {
	got, err := Decode(img)
	if err != nil {
		Logger().Warn("symbol verification failed", zap.Error(err))
		return err
	}
	if got != payload {
		Logger().Warn("symbol decodes to another payload",
			zap.String("want", payload),
			zap.String("got", got),
		)
		return fmt.Errorf("%w: decoded %q instead of %q", ErrUnreadable, got, payload)
	}
	return nil
}
