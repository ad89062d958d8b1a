package qrstyle

import (
	"archive/zip"
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/esimov/qrstyle/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingProvider encodes with Encoder and remembers the requested levels.
type recordingProvider struct {
	mu     sync.Mutex
	levels map[string]ECLevel
}

func (p *recordingProvider) Encode(payload string, version int, level ECLevel) (*Matrix, error) {
	p.mu.Lock()
	if p.levels == nil {
		p.levels = make(map[string]ECLevel)
	}
	p.levels[payload] = level
	p.mu.Unlock()
	return Encoder{}.Encode(payload, version, level)
}

func TestOps_Execute(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	provider := &recordingProvider{}
	var status bytes.Buffer

	jobs := []Job{
		{Name: "single", Payload: "one", Output: filepath.Join(dir, "single.png")},
		{Name: "empty", Payload: "", Output: filepath.Join(dir, "empty.png")},
		{
			Name:    "multi",
			Payload: "two",
			Output:  filepath.Join(dir, "multi"),
			Options: Options{"export_format": "png,svg,pdf", "preset": "dots"},
		},
		{Name: "badge", Payload: "three", Output: filepath.Join(dir, "badge.png"), Social: "youtube"},
		{Name: "missing logo", Payload: "four", Output: filepath.Join(dir, "missing.png"), Logo: filepath.Join(dir, "nope.png")},
		{Name: "bad options", Payload: "five", Output: filepath.Join(dir, "bad.png"), Options: Options{"box_size": -3}},
	}

	op := &Ops{Workers: 3, Provider: provider, Status: &status}
	results := op.Execute(context.Background(), jobs)
	require.Len(t, results, len(jobs))
	for i, res := range results {
		assert.Equal(jobs[i].Name, res.Job.Name)
	}

	assert.NoError(results[0].Err)
	assert.Equal([]string{jobs[0].Output}, results[0].Files)
	f, err := os.Open(jobs[0].Output)
	require.NoError(t, err)
	img, err := png.Decode(f)
	f.Close()
	require.NoError(t, err)
	assert.Greater(img.Bounds().Dx(), 0)

	assert.ErrorIs(results[1].Err, ErrEmptyPayload)
	assert.NoFileExists(jobs[1].Output)

	assert.NoError(results[2].Err)
	assert.ElementsMatch([]string{
		filepath.Join(dir, "multi", "multi.png"),
		filepath.Join(dir, "multi", "multi.svg"),
		filepath.Join(dir, "multi", "multi.pdf"),
	}, results[2].Files)
	for _, path := range results[2].Files {
		assert.FileExists(path)
	}

	// a logo raises the error correction unless it was chosen explicitly
	assert.NoError(results[3].Err)
	assert.False(results[3].Report.Degraded)
	assert.Equal(ECHigh, provider.levels["three"])
	assert.Equal(ECMedium, provider.levels["one"])

	assert.NoError(results[4].Err)
	assert.True(results[4].Report.Degraded)
	assert.ErrorIs(results[4].Report.LogoErr, ErrLogoDecode)
	assert.FileExists(jobs[4].Output)

	assert.ErrorIs(results[5].Err, ErrInvalidStyle)

	assert.Contains(status.String(), "without logo")
	assert.Contains(status.String(), "failed")
}

// swappedProvider encodes another payload than the one requested.
type swappedProvider struct{}

func (swappedProvider) Encode(payload string, version int, level ECLevel) (*Matrix, error) {
	return Encoder{}.Encode(payload+"?", version, level)
}

func TestOps_Verify(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	job := Job{Name: "checked", Payload: "HELLO WORLD", Output: filepath.Join(dir, "checked.png")}

	res := (&Ops{Verify: true}).Run(context.Background(), job)
	assert.NoError(res.Err)
	assert.FileExists(job.Output)

	job.Output = filepath.Join(dir, "swapped.png")
	res = (&Ops{Verify: true, Provider: swappedProvider{}}).Run(context.Background(), job)
	assert.ErrorIs(res.Err, ErrUnreadable)
	assert.NoFileExists(job.Output)

	// without verification the mismatch goes unnoticed
	res = (&Ops{Provider: swappedProvider{}}).Run(context.Background(), job)
	assert.NoError(res.Err)
}

func TestOps_SpinnerSharesStatus(t *testing.T) {
	var status bytes.Buffer
	spinner := utils.NewSpinner("rendering", time.Millisecond, false)
	spinner.StopMsg = "done"

	op := &Ops{Workers: 1, Spinner: spinner, Status: &status}
	job := Job{Name: "spun", Payload: "spin", Output: filepath.Join(t.TempDir(), "spun.png")}
	results := op.Execute(context.Background(), []Job{job})
	require.NoError(t, results[0].Err)

	assert.Contains(t, status.String(), "saved as")
	assert.True(t, strings.HasSuffix(status.String(), "done"))
}

func TestOps_Zip(t *testing.T) {
	dir := t.TempDir()
	op := &Ops{Workers: 1, Zip: true}
	job := Job{
		Name:    "site/home",
		Payload: "https://example.com",
		Output:  dir,
		Options: Options{"export_format": "all", "error_correction": "L"},
	}

	res := op.Run(context.Background(), job)
	require.NoError(t, res.Err)
	path := filepath.Join(dir, "site_home.zip")
	assert.Equal(t, []string{path}, res.Files)

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{
		"site_home.png", "site_home.jpg", "site_home.bmp",
		"site_home.svg", "site_home.pdf", "site_home.eps",
	}, names)
}

func TestOps_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := t.TempDir()
	jobs := []Job{
		{Name: "a", Payload: "a", Output: filepath.Join(dir, "a.png")},
		{Name: "b", Payload: "b", Output: filepath.Join(dir, "b.png")},
	}
	for _, res := range (&Ops{Workers: 2}).Execute(ctx, jobs) {
		assert.ErrorIs(t, res.Err, context.Canceled)
	}
	assert.NoFileExists(t, filepath.Join(dir, "a.png"))
}

func TestOps_ReadLogo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	data := pngLogo(t, 8, 8, white)
	require.NoError(t, os.WriteFile(path, data, 0644))

	got, err := ReadLogo(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	_, err = ReadLogo(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, ErrLogoDecode)
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "qrcode", baseName("  "))
	assert.Equal(t, "a_b_c", baseName("a/b c"))
	assert.Equal(t, "plain", baseName("plain"))
}
