package qrstyle

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"github.com/esimov/qrstyle/export"
	"github.com/esimov/qrstyle/utils"
	"github.com/fogleman/gg"
	"go.uber.org/zap"
)

// Options is the language neutral option map, as decoded from YAML or
// assembled from command line flags.
type Options map[string]any

// defaultLogoRatio is the logo side relative to the canvas side.
const defaultLogoRatio = 0.2

// defaultEdgeColor is the second stop of a gradient configured with a single color.
var defaultEdgeColor = rgb(100, 100, 100)

// Settings is the outcome of parsing an option map: how to encode the
// payload, how to style the matrix and how to export the symbol.
type Settings struct {
	Version int
	Level   ECLevel

	Style Style
	// Logo holds the parsed logo options. It is attached to the style
	// once the logo image is known.
	Logo LogoSpec

	Formats []export.Format
	Export  export.Options
}

// DefaultSettings returns the settings used for an empty option map.
func DefaultSettings() Settings {
	return Settings{
		Level:   ECMedium,
		Style:   DefaultStyle(),
		Logo:    LogoSpec{Ratio: defaultLogoRatio, Position: LogoCenter},
		Formats: []export.Format{export.PNG},
		Export:  export.DefaultOptions(),
	}
}

// AttachLogo sets the encoded logo on the style, using the parsed logo options.
func (s *Settings) AttachLogo(data []byte) {
	spec := s.Logo
	spec.Data = data
	s.Style.Logo = &spec
}

// AttachLogoImage sets a decoded logo on the style, using the parsed logo options.
func (s *Settings) AttachLogoImage(img image.Image) {
	spec := s.Logo
	spec.Image = img
	s.Style.Logo = &spec
}

var optionKeys = []string{
	"preset", "module_shape", "color_mask", "front_color", "edge_color", "colors",
	"gradient_center", "back_color", "transparent", "frame_shape", "eye_shape",
	"logo_ratio", "logo_position", "logo_padding", "logo_backing", "logo_blend",
	"logo_composite",
	"box_size", "border", "min_finder_contrast", "max_canvas_side",
	"version", "error_correction",
	"export_format", "dpi", "quality", "scale", "svg_mode", "mono", "page_size",
	"orientation", "size_mm", "position_mm", "include_box", "caption", "include_date",
	"title", "author", "subject", "keywords",
}

// ParseOptions resolves an option map into settings. Unknown shape, mask and
// preset ids are replaced by defaults and listed in Style.Fallbacks; malformed
// values are returned as an ErrInvalidStyle error.
func ParseOptions(opts Options) (Settings, error) {
	p := &optionParser{opts: opts}
	set := DefaultSettings()
	st := &set.Style

	if name, ok := p.str("preset"); ok {
		if preset, found := LookupPreset(name); found {
			*st = preset.Apply(*st)
		} else {
			p.fallback(st, "preset", name, "classic", ErrUnknownPreset)
		}
	}

	if id, ok := p.str("module_shape"); ok {
		if shape, found := ParseModuleShape(id); found {
			st.Module = shape
		} else {
			st.Module = ModuleSquare
			p.fallback(st, "module_shape", id, ModuleSquare.String(), ErrUnknownShape)
		}
	}
	if id, ok := p.str("frame_shape"); ok {
		if shape, found := ParseFrameShape(id); found {
			st.Frame = shape
		} else {
			st.Frame = FrameSquare
			p.fallback(st, "frame_shape", id, FrameSquare.String(), ErrUnknownShape)
		}
	}
	if id, ok := p.str("eye_shape"); ok {
		if shape, found := ParseEyeShape(id); found {
			st.Eye = shape
		} else {
			st.Eye = EyeSquare
			p.fallback(st, "eye_shape", id, EyeSquare.String(), ErrUnknownShape)
		}
	}

	if c, ok := p.rgba("back_color"); ok {
		st.Background = c
	}
	if v, ok := p.flag("transparent"); ok {
		st.Transparent = v
		set.Export.Transparent = v
	}
	p.parseMask(st)

	p.parseLogo(&set.Logo)

	if v, ok := p.integer("box_size"); ok {
		st.BoxSize = v
	}
	if v, ok := p.integer("border"); ok {
		st.Border = v
	}
	if v, ok := p.number("min_finder_contrast"); ok {
		st.MinFinderContrast = v
	}
	if v, ok := p.integer("max_canvas_side"); ok {
		st.MaxCanvasSide = v
	}
	if v, ok := p.integer("version"); ok {
		set.Version = v
	}
	if v, ok := p.str("error_correction"); ok {
		set.Level = ParseECLevel(v)
	}

	p.parseExport(&set)

	var unknown []string
	for key := range opts {
		if !utils.Contains(optionKeys, key) {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		Logger().Warn("ignoring unknown options", zap.Strings("keys", unknown))
	}

	if len(p.errs) > 0 {
		return set, errors.Join(p.errs...)
	}
	chk := *st
	chk.Logo = &set.Logo
	if err := chk.Validate(); err != nil {
		return set, err
	}
	if err := set.Export.Validate(); err != nil {
		return set, fmt.Errorf("%w: %v", ErrInvalidStyle, err)
	}
	return set, nil
}

// parseMask builds the color mask from the mask kind and the color keys,
// starting from the mask of the preset.
func (p *optionParser) parseMask(st *Style) {
	mask := st.Mask
	mask.Stops = append([]color.RGBA(nil), mask.Stops...)

	if name, ok := p.str("color_mask"); ok {
		kind, found := ParseMaskKind(name)
		if !found {
			// an unknown mask reverts to the plain black on white look
			st.Mask = SolidMask(black)
			st.Background = white
			p.fallback(st, "color_mask", name, MaskSolid.String(), ErrUnknownMask)
			return
		}
		mask.Kind = kind
	}

	if stops, ok := p.colors("colors"); ok {
		mask.Stops = stops
	} else {
		if c, ok := p.rgba("front_color"); ok {
			if len(mask.Stops) == 0 {
				mask.Stops = append(mask.Stops, c)
			} else {
				mask.Stops[0] = c
			}
		}
		edge, hasEdge := p.rgba("edge_color")
		if mask.Kind != MaskSolid {
			switch {
			case hasEdge && len(mask.Stops) >= 2:
				mask.Stops[len(mask.Stops)-1] = edge
			case hasEdge:
				mask.Stops = append(mask.Stops, edge)
			case len(mask.Stops) < 2:
				mask.Stops = append(mask.Stops, defaultEdgeColor)
			}
		}
		if len(mask.Stops) == 0 {
			mask.Stops = []color.RGBA{black}
		}
	}

	if x, y, ok := p.pair("gradient_center"); ok {
		if x < 0 || x > 1 || y < 0 || y > 1 {
			p.errorf("gradient center %.2f,%.2f outside the unit square", x, y)
		} else {
			mask.Center = gg.Point{X: x, Y: y}
		}
	}
	st.Mask = mask
}

func (p *optionParser) parseLogo(spec *LogoSpec) {
	if v, ok := p.number("logo_ratio"); ok {
		spec.Ratio = v
	}
	if v, ok := p.integer("logo_padding"); ok {
		spec.Padding = v
	}
	if id, ok := p.str("logo_position"); ok {
		pos, found := ParseLogoPosition(id)
		if !found {
			p.errorf("unknown logo position %q", id)
		}
		spec.Position = pos
	}
	if id, ok := p.str("logo_backing"); ok {
		b, found := ParseBacking(id)
		if !found {
			p.errorf("unknown logo backing %q", id)
		}
		spec.Backing = b
	}
	if v, ok := p.str("logo_blend"); ok {
		spec.Blend = strings.ToLower(v)
	}
	if v, ok := p.str("logo_composite"); ok {
		spec.Composite = strings.ReplaceAll(strings.ToLower(v), "-", "_")
	}
}

func (p *optionParser) parseExport(set *Settings) {
	eo := &set.Export

	if names, ok := p.strs("export_format"); ok {
		var formats []export.Format
		for _, name := range names {
			if strings.EqualFold(name, "all") {
				formats = export.Formats()
				break
			}
			f, err := export.ParseFormat(name)
			if err != nil {
				p.errs = append(p.errs, fmt.Errorf("%w: %v", ErrInvalidStyle, err))
				continue
			}
			formats = append(formats, f)
		}
		if len(formats) > 0 {
			set.Formats = formats
		}
	}
	if v, ok := p.integer("dpi"); ok {
		eo.DPI = v
	}
	if v, ok := p.integer("quality"); ok {
		eo.Quality = v
	}
	if v, ok := p.number("scale"); ok {
		eo.Scale = v
	}
	if v, ok := p.str("svg_mode"); ok {
		mode, found := export.ParseSVGMode(v)
		if !found {
			p.errorf("unknown svg mode %q", v)
		}
		eo.SVGMode = mode
	}
	if v, ok := p.flag("mono"); ok {
		eo.Mono = v
	}
	if v, ok := p.str("page_size"); ok {
		page, found := export.ParsePageSize(v)
		if !found {
			p.errorf("unknown page size %q", v)
		} else {
			eo.Page = page
		}
	}
	if v, ok := p.str("orientation"); ok {
		switch strings.ToLower(v) {
		case "portrait":
			eo.Landscape = false
		case "landscape":
			eo.Landscape = true
		default:
			p.errorf("unknown orientation %q", v)
		}
	}
	if x, y, ok := p.pair("size_mm"); ok {
		eo.SizeMM = export.Millimeters{X: x, Y: y}
	}
	if x, y, ok := p.pair("position_mm"); ok {
		eo.PositionMM = &export.Millimeters{X: x, Y: y}
	}
	if v, ok := p.flag("include_box"); ok {
		eo.IncludeBox = v
	}
	if v, ok := p.str("caption"); ok {
		eo.Caption = v
	}
	if v, ok := p.flag("include_date"); ok {
		eo.IncludeDate = v
	}
	if v, ok := p.str("title"); ok {
		eo.Title = v
	}
	if v, ok := p.str("author"); ok {
		eo.Author = v
	}
	if v, ok := p.str("subject"); ok {
		eo.Subject = v
	}
	if v, ok := p.strs("keywords"); ok {
		eo.Keywords = v
	}
}

// optionParser reads typed values out of an option map. Values decoded from
// YAML arrive as int, float64, bool, string or []any; all of them are accepted
// wherever the conversion is lossless.
type optionParser struct {
	opts Options
	errs []error
}

func (p *optionParser) errorf(format string, args ...any) {
	p.errs = append(p.errs, fmt.Errorf("%w: %s", ErrInvalidStyle, fmt.Sprintf(format, args...)))
}

func (p *optionParser) invalid(key string, v any) {
	p.errorf("%s: unexpected value %v (%T)", key, v, v)
}

func (p *optionParser) fallback(st *Style, field, requested, used string, err error) {
	st.Fallbacks = append(st.Fallbacks, Fallback{Field: field, Requested: requested, Used: used, Err: err})
	Logger().Warn("unknown style id replaced",
		zap.String("field", field),
		zap.String("requested", requested),
		zap.String("used", used),
	)
}

func (p *optionParser) lookup(key string) (any, bool) {
	v, ok := p.opts[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (p *optionParser) str(key string) (string, bool) {
	v, ok := p.lookup(key)
	if !ok {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case fmt.Stringer:
		return t.String(), true
	case int, int64, float64, bool:
		return fmt.Sprint(t), true
	}
	p.invalid(key, v)
	return "", false
}

func (p *optionParser) strs(key string) ([]string, bool) {
	v, ok := p.lookup(key)
	if !ok {
		return nil, false
	}
	switch t := v.(type) {
	case string:
		var out []string
		for _, s := range strings.Split(t, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out, true
	case []string:
		return t, true
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				p.invalid(key, v)
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	p.invalid(key, v)
	return nil, false
}

func (p *optionParser) number(key string) (float64, bool) {
	v, ok := p.lookup(key)
	if !ok {
		return 0, false
	}
	f, ok := toFloat(v)
	if !ok {
		p.invalid(key, v)
	}
	return f, ok
}

func (p *optionParser) integer(key string) (int, bool) {
	v, ok := p.lookup(key)
	if !ok {
		return 0, false
	}
	f, ok := toFloat(v)
	if !ok || f != float64(int(f)) {
		p.invalid(key, v)
		return 0, false
	}
	return int(f), true
}

func (p *optionParser) flag(key string) (bool, bool) {
	v, ok := p.lookup(key)
	if !ok {
		return false, false
	}
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err == nil {
			return b, true
		}
	case int:
		return t != 0, true
	}
	p.invalid(key, v)
	return false, false
}

func (p *optionParser) rgba(key string) (color.RGBA, bool) {
	v, ok := p.lookup(key)
	if !ok {
		return color.RGBA{}, false
	}
	c, err := toColor(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return color.RGBA{}, false
	}
	return c, true
}

// colors reads a stop list: a sequence of colors, or a string of colors
// separated by spaces or semicolons.
func (p *optionParser) colors(key string) ([]color.RGBA, bool) {
	v, ok := p.lookup(key)
	if !ok {
		return nil, false
	}
	var items []any
	switch t := v.(type) {
	case string:
		for _, f := range strings.FieldsFunc(t, func(r rune) bool { return r == ';' || r == ' ' }) {
			items = append(items, f)
		}
	case []string:
		for _, s := range t {
			items = append(items, s)
		}
	case []any:
		items = t
	default:
		p.invalid(key, v)
		return nil, false
	}
	if len(items) == 0 {
		p.errorf("%s: empty color list", key)
		return nil, false
	}
	stops := make([]color.RGBA, 0, len(items))
	for _, item := range items {
		c, err := toColor(item)
		if err != nil {
			p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
			return nil, false
		}
		stops = append(stops, c)
	}
	return stops, true
}

// pair reads two numbers given as a sequence, an {x, y} map, a "x,y" or
// "XxY" string, or a single number used for both.
func (p *optionParser) pair(key string) (float64, float64, bool) {
	v, ok := p.lookup(key)
	if !ok {
		return 0, 0, false
	}
	switch t := v.(type) {
	case []any:
		if len(t) == 2 {
			x, okx := toFloat(t[0])
			y, oky := toFloat(t[1])
			if okx && oky {
				return x, y, true
			}
		}
	case []float64:
		if len(t) == 2 {
			return t[0], t[1], true
		}
	case map[string]any:
		x, okx := toFloat(t["x"])
		y, oky := toFloat(t["y"])
		if okx && oky {
			return x, y, true
		}
	case string:
		parts := strings.FieldsFunc(strings.ToLower(t), func(r rune) bool { return r == ',' || r == 'x' })
		if len(parts) == 2 {
			x, errx := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
			y, erry := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
			if errx == nil && erry == nil {
				return x, y, true
			}
		}
	default:
		if f, ok := toFloat(t); ok {
			return f, f, true
		}
	}
	p.invalid(key, v)
	return 0, 0, false
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint8:
		return float64(t), true
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

// toColor accepts a color string or an [r, g, b] sequence.
func toColor(v any) (color.RGBA, error) {
	switch t := v.(type) {
	case string:
		return ParseColor(t)
	case color.RGBA:
		return t, nil
	case []any:
		if len(t) == 3 || len(t) == 4 {
			var ch [4]uint8
			ch[3] = 0xff
			for i, e := range t {
				f, ok := toFloat(e)
				if !ok || f < 0 || f > 255 {
					return color.RGBA{}, fmt.Errorf("%w: malformed color %v", ErrInvalidStyle, v)
				}
				ch[i] = uint8(f)
			}
			return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
		}
	}
	return color.RGBA{}, fmt.Errorf("%w: malformed color %v", ErrInvalidStyle, v)
}
