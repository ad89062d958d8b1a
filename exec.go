package qrstyle

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/esimov/qrstyle/export"
	"github.com/esimov/qrstyle/utils"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// badgeSize is the side of a synthesised social badge before it is scaled onto the symbol.
const badgeSize = 256

// Ops runs render jobs.
type Ops struct {
	// Workers is the number of jobs rendered concurrently. Values outside
	// [1, 20] default to the number of CPUs.
	Workers int
	// Zip bundles the artifacts of a job exported to a directory into one archive.
	Zip bool
	// PipeName is the output name standing for stdout.
	PipeName string
	// Provider encodes the payloads. Nil means Encoder.
	Provider MatrixProvider
	// Spinner, when set, runs while jobs are processed. It writes to Status
	// when that is set.
	Spinner *utils.Spinner
	// Status receives a line per finished job. Nil disables it.
	Status io.Writer
	// Verify decodes every rendered symbol and fails the job when the
	// payload cannot be read back.
	Verify bool
}

// syncWriter serialises the writes of the spinner and the status lines.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// JobResult is the outcome of one job.
type JobResult struct {
	Job    Job
	Files  []string
	Report Report
	Err    error
}

type queued struct {
	index int
	job   Job
}

// result holds a job outcome and the position of the job in the batch.
type result struct {
	index int
	JobResult
}

// Execute renders the jobs on a bounded pool of workers. A failing job never
// stops the others; the results come back in the order of the jobs.
func (op *Ops) Execute(ctx context.Context, jobs []Job) []JobResult {
	workers := op.Workers
	// Limit the concurrently running workers to maxWorkers.
	if workers <= 0 || workers > maxWorkers {
		workers = runtime.NumCPU()
	}
	status := op.Status
	if op.Spinner != nil {
		if status != nil {
			status = &syncWriter{w: status}
			op.Spinner.SetWriter(status)
		}
		op.Spinner.Start()
		defer op.Spinner.Stop()
	}

	ch := make(chan result)
	done := make(chan struct{})
	defer close(done)

	queue := feedJobs(done, jobs)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			op.consumer(ctx, ch, done, queue)
		}()
	}

	// Close the channel after the values are consumed.
	go func() {
		defer close(ch)
		wg.Wait()
	}()

	results := make([]JobResult, len(jobs))
	for res := range ch {
		results[res.index] = res.JobResult
		op.printOpStatus(status, res.JobResult)
	}
	return results
}

// feedJobs sends the jobs to the returned channel until they run out
// or the done channel is closed.
func feedJobs(done <-chan struct{}, jobs []Job) <-chan queued {
	queue := make(chan queued)
	go func() {
		defer close(queue)
		for i, job := range jobs {
			select {
			case <-done:
				return
			case queue <- queued{index: i, job: job}:
			}
		}
	}()
	return queue
}

// consumer renders the jobs read from the queue and reports their outcome.
func (op *Ops) consumer(
	ctx context.Context,
	res chan<- result,
	done <-chan struct{},
	queue <-chan queued,
) {
	for q := range queue {
		var jr JobResult
		if err := ctx.Err(); err != nil {
			jr = JobResult{Job: q.job, Err: err}
		} else {
			jr = op.Run(ctx, q.job)
		}

		select {
		case <-done:
			return
		case res <- result{index: q.index, JobResult: jr}:
		}
	}
}

// Run encodes, renders and exports a single job.
func (op *Ops) Run(ctx context.Context, job Job) JobResult {
	res := JobResult{Job: job}

	set, err := ParseOptions(job.Options)
	if err != nil {
		res.Err = err
		return res
	}
	logoErr := op.attachLogo(ctx, &set, job)
	if set.Style.Logo != nil || logoErr != nil {
		// a logo hides modules, raise the error correction unless it was chosen
		if _, ok := job.Options["error_correction"]; !ok {
			set.Level = ECHigh
		}
	}

	provider := op.Provider
	if provider == nil {
		provider = Encoder{}
	}
	m, err := provider.Encode(job.Payload, set.Version, set.Level)
	if err != nil {
		res.Err = err
		return res
	}

	sym, rep, err := Render(m, set.Style)
	if err != nil {
		res.Err = err
		return res
	}
	if logoErr != nil {
		rep.Degraded = true
		rep.LogoErr = logoErr
		Logger().Warn("logo skipped", zap.String("job", job.Name), zap.Error(logoErr))
	}
	res.Report = rep

	if op.Verify {
		if err := Verify(sym, job.Payload); err != nil {
			res.Err = err
			return res
		}
	}
	res.Files, res.Err = op.writeOutput(sym, set, job)
	return res
}

// attachLogo resolves the logo of the job, if any, and attaches it to the
// style. The returned error means the job continues without a logo.
func (op *Ops) attachLogo(ctx context.Context, set *Settings, job Job) error {
	switch {
	case job.Social != "":
		badge, err := SocialBadge(job.Social, badgeSize)
		if err != nil {
			return err
		}
		set.AttachLogoImage(badge)
	case job.Logo != "":
		data, err := ReadLogo(ctx, job.Logo)
		if err != nil {
			return err
		}
		set.AttachLogo(data)
	}
	return nil
}

// ReadLogo loads the logo bytes from a local file or an URL.
func ReadLogo(ctx context.Context, src string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if utils.IsValidUrl(src) {
		data, err = utils.DownloadImage(ctx, src)
	} else {
		data, err = os.ReadFile(src)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLogoDecode, err)
	}
	return data, nil
}

// writeOutput exports the symbol. An output with a file extension gets a
// single file in that format, the pipe name writes the first configured
// format to stdout, anything else is a directory receiving every configured
// format (or their zip bundle).
func (op *Ops) writeOutput(sym image.Image, set Settings, job Job) ([]string, error) {
	out := job.Output
	if out == "" {
		return nil, fmt.Errorf("%w: no output for job %s", export.ErrExportIO, job.Name)
	}

	if op.PipeName != "" && out == op.PipeName {
		w, err := stdoutWriter()
		if err != nil {
			return nil, err
		}
		a, err := export.Export(sym, set.Formats[0], set.Export)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(a.Data); err != nil {
			return nil, fmt.Errorf("%w: %v", export.ErrExportIO, err)
		}
		return []string{out}, nil
	}

	if ext := filepath.Ext(out); ext != "" {
		f, err := export.ParseFormat(ext)
		if err != nil {
			return nil, err
		}
		a, err := export.Export(sym, f, set.Export)
		if err != nil {
			return nil, err
		}
		if err := writeFile(out, a.Data); err != nil {
			return nil, err
		}
		return []string{out}, nil
	}

	exporters := make([]export.Exporter, 0, len(set.Formats))
	for _, f := range set.Formats {
		e, err := export.Lookup(f)
		if err != nil {
			return nil, err
		}
		exporters = append(exporters, e)
	}
	batch := export.ExportAll(sym, set.Export, exporters...)
	base := baseName(job.Name)

	if op.Zip {
		if err := os.MkdirAll(out, 0755); err != nil {
			return nil, fmt.Errorf("%w: %v", export.ErrExportIO, err)
		}
		path := filepath.Join(out, base+".zip")
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", export.ErrExportIO, err)
		}
		_, zerr := batch.Zip(f, base)
		if err := f.Close(); err != nil && zerr == nil {
			zerr = fmt.Errorf("%w: %v", export.ErrExportIO, err)
		}
		if zerr != nil {
			os.Remove(path)
			return nil, zerr
		}
		return []string{path}, joinBatchErrors(batch.Errors())
	}

	var (
		files []string
		errs  = make(map[export.Format]error)
	)
	for f, r := range batch.WriteDir(out, base) {
		if r.Err != nil {
			errs[f] = r.Err
			continue
		}
		files = append(files, filepath.Join(out, r.Artifact.Name(base)))
	}
	return files, joinBatchErrors(errs)
}

func joinBatchErrors(errs map[export.Format]error) error {
	if len(errs) == 0 {
		return nil
	}
	list := make([]error, 0, len(errs))
	for _, err := range errs {
		list = append(list, err)
	}
	return errors.Join(list...)
}

// baseName turns a job name into a file name.
func baseName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "qrcode"
	}
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ':' || r == ' ' {
			return '_'
		}
		return r
	}, name)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: %v", export.ErrExportIO, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", export.ErrExportIO, err)
	}
	return nil
}

// stdoutWriter returns stdout unless it is a terminal.
func stdoutWriter() (io.Writer, error) {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return nil, errors.New("`-` should be used with a pipe for stdout")
	}
	return os.Stdout, nil
}

// printOpStatus displays the outcome of a job.
func (op *Ops) printOpStatus(w io.Writer, res JobResult) {
	if w == nil {
		return
	}
	name := utils.DecorateText(res.Job.Name, utils.StatusMessage)
	if res.Err != nil {
		fmt.Fprintf(w, "\r%s %s %s\n", name,
			utils.DecorateText("failed:", utils.ErrorMessage),
			utils.DecorateText(res.Err.Error(), utils.DefaultMessage),
		)
		return
	}
	if res.Job.Output == op.PipeName {
		return
	}
	note := ""
	if res.Report.Degraded {
		note = utils.DecorateText(" (without logo)", utils.ErrorMessage)
	}
	for _, fb := range res.Report.Fallbacks {
		note += utils.DecorateText(" ("+fb.String()+")", utils.DefaultMessage)
	}
	for _, f := range res.Files {
		fmt.Fprintf(w, "\r%s saved as %s%s\n", name, utils.DecorateText(f, utils.SuccessMessage), note)
	}
}
