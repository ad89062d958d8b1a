package qrstyle

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/esimov/qrstyle/export"
	"github.com/fogleman/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Defaults(t *testing.T) {
	assert := assert.New(t)

	set, err := ParseOptions(nil)
	require.NoError(t, err)
	assert.Equal(DefaultStyle(), set.Style)
	assert.Equal(ECMedium, set.Level)
	assert.Zero(set.Version)
	assert.Equal([]export.Format{export.PNG}, set.Formats)
	assert.Equal(0.2, set.Logo.Ratio)
	assert.Nil(set.Style.Logo)
}

func TestOptions_Preset(t *testing.T) {
	assert := assert.New(t)

	set, err := ParseOptions(Options{"preset": "ocean"})
	require.NoError(t, err)
	st := set.Style
	assert.Equal(MaskRadial, st.Mask.Kind)
	assert.Equal([]color.RGBA{rgb(0, 153, 204), rgb(0, 51, 102)}, st.Mask.Stops)
	assert.Equal(FrameRounded, st.Frame)
	assert.Equal(EyeCushion, st.Eye)
	assert.Empty(st.Fallbacks)

	// explicit keys win over the preset
	set, err = ParseOptions(Options{
		"preset":       "ocean",
		"module_shape": "diamond",
		"front_color":  "#ff0000",
		"eye_shape":    "leaf",
	})
	require.NoError(t, err)
	st = set.Style
	assert.Equal(ModuleDiamond, st.Module)
	assert.Equal(EyeLeaf, st.Eye)
	assert.Equal([]color.RGBA{rgb(255, 0, 0), rgb(0, 51, 102)}, st.Mask.Stops)

	// the preset table itself is left untouched
	p, ok := LookupPreset("ocean")
	assert.True(ok)
	assert.Equal(rgb(0, 153, 204), p.Mask.Stops[0])
}

func TestOptions_Presets(t *testing.T) {
	names := Presets()
	assert.Len(t, names, 14)
	assert.IsIncreasing(t, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			set, err := ParseOptions(Options{"preset": name})
			require.NoError(t, err)
			assert.Empty(t, set.Style.Fallbacks)
			assert.NoError(t, set.Style.Validate())
		})
	}

	p, ok := LookupPreset("Modern-Blue")
	assert.True(t, ok)
	assert.Equal(t, "modern_blue", p.Name)
}

func TestOptions_Fallbacks(t *testing.T) {
	testCases := []struct {
		name  string
		opts  Options
		field string
		err   error
	}{
		{"module", Options{"module_shape": "heart"}, "module_shape", ErrUnknownShape},
		{"frame", Options{"frame_shape": "hexagon"}, "frame_shape", ErrUnknownShape},
		{"eye", Options{"eye_shape": "triangle"}, "eye_shape", ErrUnknownShape},
		{"mask", Options{"color_mask": "conic", "back_color": "navy"}, "color_mask", ErrUnknownMask},
		{"preset", Options{"preset": "midnight"}, "preset", ErrUnknownPreset},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			set, err := ParseOptions(tc.opts)
			require.NoError(t, err)
			require.Len(t, set.Style.Fallbacks, 1)
			fb := set.Style.Fallbacks[0]
			assert.Equal(t, tc.field, fb.Field)
			assert.ErrorIs(t, fb.Err, tc.err)
		})
	}

	// an unknown mask reverts to black on white
	set, err := ParseOptions(Options{"color_mask": "conic", "back_color": "navy"})
	require.NoError(t, err)
	assert.Equal(t, SolidMask(black), set.Style.Mask)
	assert.Equal(t, white, set.Style.Background)
}

func TestOptions_Mask(t *testing.T) {
	testCases := []struct {
		name string
		opts Options
		want ColorMask
	}{
		{
			name: "solid front color",
			opts: Options{"front_color": "red"},
			want: SolidMask(rgb(255, 0, 0)),
		},
		{
			name: "gradient with default edge",
			opts: Options{"color_mask": "vertical", "front_color": "#0000ff"},
			want: GradientMask(MaskVertical, rgb(0, 0, 255), defaultEdgeColor),
		},
		{
			name: "gradient with edge",
			opts: Options{"color_mask": "horizontal_gradient", "front_color": "red", "edge_color": []any{0, 0, 255}},
			want: GradientMask(MaskHorizontal, rgb(255, 0, 0), rgb(0, 0, 255)),
		},
		{
			name: "stop list",
			opts: Options{"color_mask": "diagonal", "colors": "red;lime blue"},
			want: GradientMask(MaskDiagonal, rgb(255, 0, 0), rgb(0, 255, 0), rgb(0, 0, 255)),
		},
		{
			name: "off center radial",
			opts: Options{"color_mask": "radial", "colors": []any{"black", "white"}, "gradient_center": "0.25,0.75"},
			want: ColorMask{Kind: MaskRadial, Stops: []color.RGBA{black, white}, Center: gg.Point{X: 0.25, Y: 0.75}},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			set, err := ParseOptions(tc.opts)
			require.NoError(t, err)
			assert.Equal(t, tc.want, set.Style.Mask)
		})
	}
}

func TestOptions_Values(t *testing.T) {
	assert := assert.New(t)

	set, err := ParseOptions(Options{
		"box_size":            "12",
		"border":              2,
		"min_finder_contrast": 4.5,
		"transparent":         "true",
		"version":             3.0,
		"error_correction":    "q",
		"logo_ratio":          0.25,
		"logo_position":       "top_right",
		"logo_padding":        6,
		"logo_backing":        "circle",
		"logo_blend":          "Multiply",
		"logo_composite":      "Src-Atop",
		"export_format":       []any{"svg", "pdf"},
		"quality":             80,
		"svg_mode":            "embed",
		"page_size":           "A5",
		"orientation":         "landscape",
		"size_mm":             "40x40",
		"position_mm":         []any{10, 20},
		"keywords":            "qr, styled",
	})
	require.NoError(t, err)

	assert.Equal(12, set.Style.BoxSize)
	assert.Equal(2, set.Style.Border)
	assert.Equal(4.5, set.Style.MinFinderContrast)
	assert.True(set.Style.Transparent)
	assert.True(set.Export.Transparent)
	assert.Equal(3, set.Version)
	assert.Equal(ECQuartile, set.Level)
	assert.Equal(LogoSpec{
		Ratio:     0.25,
		Position:  LogoTopRight,
		Padding:   6,
		Backing:   BackingCircle,
		Blend:     "multiply",
		Composite: "src_atop",
	}, set.Logo)
	assert.Equal([]export.Format{export.SVG, export.PDF}, set.Formats)
	assert.Equal(80, set.Export.Quality)
	assert.Equal(export.SVGEmbed, set.Export.SVGMode)
	assert.Equal(export.A5, set.Export.Page)
	assert.True(set.Export.Landscape)
	assert.Equal(export.Millimeters{X: 40, Y: 40}, set.Export.SizeMM)
	assert.Equal(&export.Millimeters{X: 10, Y: 20}, set.Export.PositionMM)
	assert.Equal([]string{"qr", "styled"}, set.Export.Keywords)

	set, err = ParseOptions(Options{"export_format": "all", "unknown_key": 1})
	require.NoError(t, err)
	assert.Equal(export.Formats(), set.Formats)
}

func TestOptions_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		opts Options
	}{
		{"box size", Options{"box_size": 0}},
		{"fractional box size", Options{"box_size": 2.5}},
		{"negative border", Options{"border": -1}},
		{"color", Options{"front_color": "not-a-color"}},
		{"color channels", Options{"back_color": []any{300, 0, 0}}},
		{"empty stop list", Options{"colors": ""}},
		{"center", Options{"color_mask": "radial", "gradient_center": []any{1.5, 0.5}}},
		{"logo ratio", Options{"logo_ratio": 1.5}},
		{"logo position", Options{"logo_position": "middle-left"}},
		{"logo blend", Options{"logo_blend": "dissolve"}},
		{"logo composite", Options{"logo_composite": "plus"}},
		{"format", Options{"export_format": "tiff"}},
		{"quality", Options{"quality": 120}},
		{"page", Options{"page_size": "b5"}},
		{"orientation", Options{"orientation": "sideways"}},
		{"flag", Options{"transparent": "maybe"}},
		{"contrast", Options{"min_finder_contrast": 30}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseOptions(tc.opts)
			assert.ErrorIs(t, err, ErrInvalidStyle)
		})
	}

	// every problem is reported at once
	_, err := ParseOptions(Options{"front_color": "nope", "orientation": "sideways"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "front_color")
	assert.Contains(t, err.Error(), "sideways")
}

func TestOptions_Merge(t *testing.T) {
	base := Options{"preset": "dots", "box_size": 10}
	merged := base.Merge(Options{"box_size": 20, "border": 1})

	assert.Equal(t, Options{"preset": "dots", "box_size": 20, "border": 1}, merged)
	assert.Equal(t, 10, base["box_size"])
	assert.Equal(t, base, base.Merge(nil))
}

// Config file options are overridden by the job options, and both by explicit flags.
func TestOptions_MergeLayers(t *testing.T) {
	file := Options{"preset": "dots", "box_size": 10, "border": 2}
	job := Options{"box_size": 20, "eye_shape": "leaf"}
	flags := Options{"box_size": "30", "preset": "neon"}

	assert.Equal(t, Options{
		"preset":    "neon",
		"box_size":  "30",
		"border":    2,
		"eye_shape": "leaf",
	}, file.Merge(job).Merge(flags))
	assert.Equal(t, flags, Options(nil).Merge(nil).Merge(flags))
}

func writeTemp(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestConfig_LoadOptionsFile(t *testing.T) {
	path := writeTemp(t, "style.yaml", `
preset: sunset
module_shape: rounded-square
edge_color: [0, 0, 128]
box_size: 8
transparent: true
export_format: [png, svg]
`)
	opts, err := LoadOptionsFile(path)
	require.NoError(t, err)

	set, err := ParseOptions(opts)
	require.NoError(t, err)
	assert.Equal(t, ModuleRoundedSquare, set.Style.Module)
	assert.Equal(t, MaskHorizontal, set.Style.Mask.Kind)
	assert.Equal(t, []color.RGBA{rgb(255, 102, 0), rgb(0, 0, 128)}, set.Style.Mask.Stops)
	assert.Equal(t, 8, set.Style.BoxSize)
	assert.True(t, set.Style.Transparent)
	assert.Equal(t, []export.Format{export.PNG, export.SVG}, set.Formats)

	_, err = LoadOptionsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadOptionsFile(writeTemp(t, "bad.yaml", "preset: [unclosed"))
	assert.Error(t, err)

	for _, doc := range []string{"", "~\n", "null\n"} {
		opts, err = LoadOptionsFile(writeTemp(t, "null.yaml", doc))
		require.NoError(t, err)
		require.NotNil(t, opts, "%q", doc)
		opts["box_size"] = "12"
	}
}

func TestConfig_LoadJobs(t *testing.T) {
	assert := assert.New(t)

	path := writeTemp(t, "jobs.yaml", `
defaults:
  preset: classic
  box_size: 6
jobs:
  - name: site
    payload: https://example.com
    output: out/site.png
    options:
      box_size: 12
  - payload: hello
    output: out
    social: github
`)
	jobs, err := LoadJobs(path)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal("site", jobs[0].Name)
	assert.Equal(12, jobs[0].Options["box_size"])
	assert.Equal("classic", jobs[0].Options["preset"])
	assert.Equal("job-2", jobs[1].Name)
	assert.Equal(6, jobs[1].Options["box_size"])
	assert.Equal("github", jobs[1].Social)

	testCases := []struct {
		name    string
		content string
		err     error
	}{
		{"no jobs", "defaults:\n  preset: classic\n", nil},
		{"no payload", "jobs:\n  - output: out.png\n", ErrEmptyPayload},
		{"no output", "jobs:\n  - payload: hi\n", nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadJobs(writeTemp(t, "jobs.yaml", tc.content))
			require.Error(t, err)
			if tc.err != nil {
				assert.ErrorIs(err, tc.err)
			}
		})
	}
}
