package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/disintegration/imaging"
	"github.com/esimov/qrstyle"
	"github.com/esimov/qrstyle/export"
	"github.com/esimov/qrstyle/utils"
	"go.uber.org/zap"
	"golang.org/x/term"
)

const HelpBanner = `
┌─┐┬─┐┌─┐┌┬┐┬ ┬┬  ┌─┐
│─┼┐├┬┘└─┐ │ └┬┘│  ├┤
└─┘└┴└─└─┘ ┴  ┴ ┴─┘└─┘

Styled QR code generator.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	source     = flag.String("in", "", "Payload to encode (`-` reads it from stdin)")
	dest       = flag.String("out", "qrcode.png", "Destination file, directory (multiple formats) or `-` for stdout")
	configFile = flag.String("config", "", "YAML file holding the style options")
	jobsFile   = flag.String("jobs", "", "YAML batch file")
	workers    = flag.Int("conc", runtime.NumCPU(), "Number of jobs to render concurrently")
	logo       = flag.String("logo", "", "Logo image path or URL")
	social     = flag.String("social", "", "Social platform badge used as logo")
	gallery    = flag.Bool("gallery", false, "Render every preset on a contact sheet")
	zipOut     = flag.Bool("zip", false, "Bundle the exported formats into a zip archive")
	debug      = flag.Bool("debug", false, "Verbose logging")
	list       = flag.Bool("list", false, "List presets, shapes and social platforms")
	verify     = flag.Bool("verify", false, "Decode every rendered symbol and fail when it does not read back")
	decode     = flag.String("decode", "", "Print the payload of a QR code image and exit")
)

// styleFlags maps the style flags to their option keys.
var styleFlags = map[string]struct{ key, usage string }{
	"preset":         {"preset", "Predefined style"},
	"shape":          {"module_shape", "Module shape"},
	"mask":           {"color_mask", "Color mask: solid, horizontal, vertical, diagonal, radial, square"},
	"front":          {"front_color", "Foreground (or first gradient) color"},
	"edge":           {"edge_color", "Last gradient color"},
	"colors":         {"colors", "Gradient stops, separated by spaces or semicolons"},
	"center":         {"gradient_center", "Normalised gradient center, as x,y"},
	"back":           {"back_color", "Background color"},
	"transparent":    {"transparent", "Transparent background"},
	"frame":          {"frame_shape", "Finder frame shape"},
	"eye":            {"eye_shape", "Finder eye shape"},
	"logo-ratio":     {"logo_ratio", "Logo side relative to the symbol side"},
	"logo-pos":       {"logo_position", "Logo position: center, top-left, top-right, bottom-left, bottom-right"},
	"logo-padding":   {"logo_padding", "Padding around the logo in pixels"},
	"logo-backing":   {"logo_backing", "Shape under the logo: none, square, circle"},
	"logo-blend":     {"logo_blend", "Logo blend mode: multiply, screen, overlay, darken, lighten"},
	"logo-composite": {"logo_composite", "Logo composition: src_over, dst_over, src_atop, xor, ..."},
	"box":            {"box_size", "Module size in pixels"},
	"border":         {"border", "Quiet zone width in modules"},
	"contrast":       {"min_finder_contrast", "Minimum finder contrast ratio (0 disables the check)"},
	"version":        {"version", "Symbol version (0 picks the smallest)"},
	"ec":             {"error_correction", "Error correction level: L, M, Q, H"},
	"format":         {"export_format", "Export formats: png, jpeg, bmp, svg, pdf, eps or all"},
	"dpi":            {"dpi", "PNG density"},
	"quality":        {"quality", "JPEG quality"},
	"scale":          {"scale", "Output scale factor"},
	"svg-mode":       {"svg_mode", "SVG mode: trace or embed"},
	"mono":           {"mono", "Monochrome SVG trace"},
	"page":           {"page_size", "PDF/EPS page size: a3, a4, a5, letter"},
	"orientation":    {"orientation", "PDF/EPS page orientation"},
	"size":           {"size_mm", "Printed symbol size in mm, as WxH"},
	"position":       {"position_mm", "Printed symbol position in mm from the bottom-left corner, as x,y"},
	"outline":        {"include_box", "Draw a box around the printed symbol"},
	"caption":        {"caption", "Caption printed under the symbol"},
	"date":           {"include_date", "Print the generation date"},
	"title":          {"title", "Document title"},
	"author":         {"author", "Document author"},
}

func init() {
	for name, f := range styleFlags {
		flag.String(name, "", f.usage)
	}
}

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	logger, err := newLogger(*debug)
	if err != nil {
		log.Fatalf(utils.DecorateText("Unable to create the logger: %v", utils.ErrorMessage), err)
	}
	defer logger.Sync()
	qrstyle.SetLogger(logger)
	export.SetLogger(logger)

	if *list {
		printCatalog()
		return
	}

	if *decode != "" {
		if err := decodeFile(*decode); err != nil {
			log.Fatalf(utils.DecorateText("Failed to decode %s: %v", utils.ErrorMessage), *decode, err)
		}
		return
	}

	fileOpts := qrstyle.Options{}
	if *configFile != "" {
		if fileOpts, err = qrstyle.LoadOptionsFile(*configFile); err != nil {
			log.Fatalf(utils.DecorateText("Failed to load the options: %v", utils.ErrorMessage), err)
		}
	}
	// explicit flags win over the config file and the job options
	flagOpts := qrstyle.Options{}
	flag.Visit(func(f *flag.Flag) {
		if sf, ok := styleFlags[f.Name]; ok {
			flagOpts[sf.key] = f.Value.String()
		}
	})
	opts := fileOpts.Merge(flagOpts)

	spinnerText := fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ QRSTYLE", utils.StatusMessage),
		utils.DecorateText("is rendering...", utils.DefaultMessage))
	spinner := utils.NewSpinner(spinnerText, time.Millisecond*200, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Capture CTRL-C signal and restore the cursor visibility back.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalChan
		cancel()
		spinner.RestoreCursor()
		os.Exit(1)
	}()

	now := time.Now()

	switch {
	case *gallery:
		err = renderGallery(opts)
	case *jobsFile != "":
		err = runJobs(ctx, fileOpts, flagOpts, spinner)
	default:
		err = runSingle(ctx, opts, spinner)
	}
	if err != nil {
		log.Fatalf("%s %s",
			utils.DecorateText("\nError:", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}
	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n", utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// readPayload returns the payload given with -in, reading stdin for the pipe name.
func readPayload() (string, error) {
	if *source != pipeName {
		return *source, nil
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("`-` should be used with a pipe for stdin")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("unable to read stdin: %v", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func newOps(spinner *utils.Spinner) *qrstyle.Ops {
	op := &qrstyle.Ops{
		Workers:  *workers,
		Zip:      *zipOut,
		PipeName: pipeName,
		Status:   os.Stderr,
		Verify:   *verify,
	}
	if *dest != pipeName {
		op.Spinner = spinner
	}
	return op
}

func runSingle(ctx context.Context, opts qrstyle.Options, spinner *utils.Spinner) error {
	payload, err := readPayload()
	if err != nil {
		return err
	}
	if payload == "" {
		flag.Usage()
		return errors.New("please provide the payload to encode with -in")
	}

	name := strings.TrimSuffix(filepath.Base(*dest), filepath.Ext(*dest))
	job := qrstyle.Job{
		Name:    name,
		Payload: payload,
		Output:  *dest,
		Logo:    *logo,
		Social:  *social,
		Options: opts,
	}
	res := newOps(spinner).Execute(ctx, []qrstyle.Job{job})
	return res[0].Err
}

func runJobs(ctx context.Context, fileOpts, flagOpts qrstyle.Options, spinner *utils.Spinner) error {
	jobs, err := qrstyle.LoadJobs(*jobsFile)
	if err != nil {
		return err
	}
	for i := range jobs {
		jobs[i].Options = fileOpts.Merge(jobs[i].Options).Merge(flagOpts)
	}

	failed := 0
	for _, res := range newOps(spinner).Execute(ctx, jobs) {
		if res.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(jobs))
	}
	return nil
}

func renderGallery(opts qrstyle.Options) error {
	set, err := qrstyle.ParseOptions(opts)
	if err != nil {
		return err
	}
	payload, err := readPayload()
	if err != nil {
		return err
	}
	if payload == "" {
		payload = "https://github.com/esimov/qrstyle"
	}
	m, err := qrstyle.Encoder{}.Encode(payload, set.Version, set.Level)
	if err != nil {
		return err
	}
	sheet, err := qrstyle.Gallery(m, 4, 300)
	if err != nil {
		return err
	}

	f := export.PNG
	if ext := filepath.Ext(*dest); ext != "" {
		if f, err = export.ParseFormat(ext); err != nil {
			return err
		}
	}
	a, err := export.Export(sheet, f, set.Export)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*dest, a.Data, 0644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "The gallery has been saved as: %s\n", utils.DecorateText(*dest, utils.SuccessMessage))
	return nil
}

// decodeFile prints the payload of the QR code stored in path.
func decodeFile(path string) error {
	img, err := imaging.Open(path)
	if err != nil {
		return err
	}
	payload, err := qrstyle.Decode(img)
	if err != nil {
		return err
	}
	fmt.Println(payload)
	return nil
}

func printCatalog() {
	sections := []struct {
		title string
		items []string
	}{
		{"Presets", qrstyle.Presets()},
		{"Module shapes", qrstyle.ModuleShapes()},
		{"Frame shapes", qrstyle.FrameShapes()},
		{"Eye shapes", qrstyle.EyeShapes()},
		{"Social platforms", qrstyle.SocialPlatforms()},
	}
	for _, s := range sections {
		fmt.Printf("%s\n  %s\n",
			utils.DecorateText(s.title+":", utils.StatusMessage),
			strings.Join(s.items, ", "),
		)
	}
}
