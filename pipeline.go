package qrstyle

import (
	"fmt"
	"image"

	"go.uber.org/zap"
)

// Stage is a step of the rendering pipeline. Stages only move forward.
type Stage uint8

const (
	StageInit Stage = iota
	StageMatrixReady
	StageModulesRendered
	StageFinderOverridden
	StageLogoComposited
	StageFrozen
)

func (s Stage) String() string {
	switch s {
	case StageInit:
		return "init"
	case StageMatrixReady:
		return "matrix-ready"
	case StageModulesRendered:
		return "modules-rendered"
	case StageFinderOverridden:
		return "finder-overridden"
	case StageLogoComposited:
		return "logo-composited"
	case StageFrozen:
		return "frozen"
	}
	return "unknown"
}

// Report summarises the non-fatal events of a render.
type Report struct {
	// Degraded is set when the logo could not be decoded or placed.
	// The symbol is then returned without a logo.
	Degraded bool
	LogoErr  error
	// LogoBounds is the rectangle changed by the logo compositor.
	LogoBounds image.Rectangle
	// Fallbacks lists every unknown id replaced by a default.
	Fallbacks []Fallback
	// Guarded lists the finder patterns repainted for contrast.
	Guarded []Corner
}

// Fallback reports whether any id was replaced by a default.
func (r Report) Fallback() bool { return len(r.Fallbacks) > 0 }

// Pipeline drives one render through its stages. It is not safe for
// concurrent use; the Symbol it produces is.
type Pipeline struct {
	style  Style
	stage  Stage
	matrix *Matrix
	canvas *Canvas
	report Report
}

// NewPipeline validates the style and returns a pipeline in the init stage.
func NewPipeline(style Style) (*Pipeline, error) {
	if err := style.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{
		style:  style,
		report: Report{Fallbacks: append([]Fallback(nil), style.Fallbacks...)},
	}
	if style.Mask.Kind > MaskSquare {
		p.style.Mask = SolidMask(black)
		p.style.Background = white
		p.fallback("color_mask", style.Mask.Kind.String(), MaskSolid.String())
		Logger().Warn("unknown color mask, using solid black", zap.Uint8("kind", uint8(style.Mask.Kind)))
	}
	return p, nil
}

// Stage returns the current stage.
func (p *Pipeline) Stage() Stage { return p.stage }

func (p *Pipeline) advance(from []Stage, to Stage) error {
	for _, s := range from {
		if p.stage == s {
			p.stage = to
			return nil
		}
	}
	return fmt.Errorf("%w: cannot enter %s from %s", ErrStageOrder, to, p.stage)
}

func (p *Pipeline) expect(stages ...Stage) error {
	for _, s := range stages {
		if p.stage == s {
			return nil
		}
	}
	return fmt.Errorf("%w: unexpected call in stage %s", ErrStageOrder, p.stage)
}

// SetMatrix attaches the module matrix and allocates the canvas.
func (p *Pipeline) SetMatrix(m *Matrix) error {
	if err := p.expect(StageInit); err != nil {
		return err
	}
	c, err := NewCanvas(m, p.style)
	if err != nil {
		return err
	}
	p.matrix, p.canvas = m, c
	return p.advance([]Stage{StageInit}, StageMatrixReady)
}

// RenderModules paints the data modules.
func (p *Pipeline) RenderModules() error {
	if err := p.expect(StageMatrixReady); err != nil {
		return err
	}
	if RenderModules(p.canvas, p.matrix, p.style) {
		p.fallback("module_shape", p.style.Module.String(), ModuleSquare.String())
	}
	return p.advance([]Stage{StageMatrixReady}, StageModulesRendered)
}

// OverrideFinders repaints the finder patterns.
func (p *Pipeline) OverrideFinders() error {
	if err := p.expect(StageModulesRendered); err != nil {
		return err
	}
	rep := OverrideFinders(p.canvas, p.matrix, p.style)
	if rep.FrameFallback {
		p.fallback("frame_shape", p.style.Frame.String(), FrameSquare.String())
	}
	if rep.EyeFallback {
		p.fallback("eye_shape", p.style.Eye.String(), EyeSquare.String())
	}
	p.report.Guarded = rep.Guarded
	return p.advance([]Stage{StageModulesRendered}, StageFinderOverridden)
}

// CompositeLogo draws the style's logo, if any. A logo which cannot be
// decoded or placed leaves the canvas untouched and marks the report as degraded.
func (p *Pipeline) CompositeLogo() error {
	if err := p.expect(StageFinderOverridden); err != nil {
		return err
	}
	if spec := p.style.Logo; spec != nil {
		if err := p.compositeLogo(*spec); err != nil {
			p.report.Degraded = true
			p.report.LogoErr = err
			Logger().Warn("logo skipped", zap.Error(err))
		}
	}
	return p.advance([]Stage{StageFinderOverridden}, StageLogoComposited)
}

func (p *Pipeline) compositeLogo(spec LogoSpec) error {
	img := spec.Image
	if img == nil {
		var err error
		if img, err = DecodeLogo(spec.Data); err != nil {
			return err
		}
	}
	box, err := CompositeLogo(p.canvas, img, spec, p.style.Border*p.style.BoxSize)
	if err != nil {
		return err
	}
	p.report.LogoBounds = box
	return nil
}

// Freeze ends the pipeline and returns the read-only symbol.
// The logo stage may be skipped.
func (p *Pipeline) Freeze() (*Symbol, Report, error) {
	if err := p.advance([]Stage{StageFinderOverridden, StageLogoComposited}, StageFrozen); err != nil {
		return nil, Report{}, err
	}
	sym := p.canvas.freeze()
	p.canvas = nil
	return sym, p.report, nil
}

func (p *Pipeline) fallback(field, requested, used string) {
	for _, f := range p.report.Fallbacks {
		if f.Field == field {
			return
		}
	}
	err := ErrUnknownShape
	if field == "color_mask" {
		err = ErrUnknownMask
	}
	p.report.Fallbacks = append(p.report.Fallbacks, Fallback{
		Field:     field,
		Requested: requested,
		Used:      used,
		Err:       err,
	})
}

// Render runs every stage for the matrix and style.
func Render(m *Matrix, style Style) (*Symbol, Report, error) {
	p, err := NewPipeline(style)
	if err != nil {
		return nil, Report{}, err
	}
	steps := []func() error{
		func() error { return p.SetMatrix(m) },
		p.RenderModules,
		p.OverrideFinders,
		p.CompositeLogo,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, Report{}, err
		}
	}
	return p.Freeze()
}
