package qrstyle

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSocial_Badge(t *testing.T) {
	for _, name := range SocialPlatforms() {
		t.Run(name, func(t *testing.T) {
			img, err := SocialBadge(name, 64)
			require.NoError(t, err)
			assert.Equal(t, 64, img.Bounds().Dx())
			assert.Equal(t, 64, img.Bounds().Dy())

			// the corners are cut away by the disc or the rounded square
			_, _, _, a := img.At(0, 0).RGBA()
			assert.Less(t, a, uint32(0x2000))

			// the top edge carries the platform color
			want := socialBadges[name].fill
			got := color.NRGBAModel.Convert(img.At(32, 3)).(color.NRGBA)
			assert.InDelta(t, want.R, got.R, 8)
			assert.InDelta(t, want.G, got.G, 8)
			assert.InDelta(t, want.B, got.B, 8)
		})
	}
}

func TestSocial_Errors(t *testing.T) {
	_, err := SocialBadge("myspace", 64)
	assert.ErrorIs(t, err, ErrLogoDecode)

	_, err = SocialBadge("facebook", 0)
	assert.ErrorIs(t, err, ErrInvalidStyle)

	img, err := SocialBadge("  YouTube ", 16)
	assert.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
}

func TestSocial_LabelColor(t *testing.T) {
	assert.Equal(t, black, labelColor(socialBadges["snapchat"].fill))
	assert.Equal(t, white, labelColor(socialBadges["facebook"].fill))
	assert.Equal(t, white, labelColor(socialBadges["tiktok"].fill))
}

func TestGallery(t *testing.T) {
	assert := assert.New(t)
	m := helloMatrix(t)

	sheet, err := Gallery(m, 4, 100)
	require.NoError(t, err)
	// 14 presets on 4 columns take 4 rows of 100px tiles with 20px labels
	assert.Equal(4*100+5*10, sheet.Bounds().Dx())
	assert.Equal(4*120+5*10, sheet.Bounds().Dy())
	assert.Equal(color.NRGBA{R: 255, G: 255, B: 255, A: 255}, sheet.NRGBAAt(5, 5))

	_, err = Gallery(m, 0, 100)
	assert.ErrorIs(err, ErrInvalidStyle)
	_, err = Gallery(m, 4, 10)
	assert.ErrorIs(err, ErrInvalidStyle)
	_, err = Gallery(nil, 4, 100)
	assert.ErrorIs(err, ErrInvalidMatrix)
}
