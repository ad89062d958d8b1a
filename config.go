package qrstyle

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Job is one entry of a batch file: a payload rendered with its own options
// and written to Output.
type Job struct {
	Name    string  `yaml:"name"`
	Payload string  `yaml:"payload"`
	Output  string  `yaml:"output"`
	Logo    string  `yaml:"logo"`
	Social  string  `yaml:"social"`
	Options Options `yaml:"options"`
}

// JobFile is the layout of a batch file. The defaults apply to every job and
// are overridden key by key by the job's own options.
type JobFile struct {
	Defaults Options `yaml:"defaults"`
	Jobs     []Job   `yaml:"jobs"`
}

// LoadOptionsFile reads an option map from a YAML file.
func LoadOptionsFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read options %s: %w", path, err)
	}
	opts := Options{}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("parse options %s: %w", path, err)
	}
	// a null document resets the map
	if opts == nil {
		opts = Options{}
	}
	return opts, nil
}

// LoadJobs reads a batch file and returns its jobs with the defaults merged in.
func LoadJobs(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read jobs %s: %w", path, err)
	}
	var jf JobFile
	if err := yaml.Unmarshal(data, &jf); err != nil {
		return nil, fmt.Errorf("parse jobs %s: %w", path, err)
	}
	if err := jf.Validate(); err != nil {
		return nil, fmt.Errorf("jobs %s: %w", path, err)
	}

	jobs := make([]Job, len(jf.Jobs))
	for i, job := range jf.Jobs {
		job.Options = jf.Defaults.Merge(job.Options)
		if job.Name == "" {
			job.Name = fmt.Sprintf("job-%d", i+1)
		}
		jobs[i] = job
	}
	return jobs, nil
}

// Validate checks that every job has a payload and an output.
func (jf *JobFile) Validate() error {
	if len(jf.Jobs) == 0 {
		return fmt.Errorf("no jobs defined")
	}
	for i, job := range jf.Jobs {
		if job.Payload == "" {
			return fmt.Errorf("job[%d]: %w", i, ErrEmptyPayload)
		}
		if job.Output == "" {
			return fmt.Errorf("job[%d]: output is required", i)
		}
	}
	return nil
}

// Merge returns a new map holding the keys of o overridden by those of over.
func (o Options) Merge(over Options) Options {
	out := make(Options, len(o)+len(over))
	for k, v := range o {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}
