// Package slurm generates sbatch submission scripts for pipeline runs
// and submits them to the scheduler.
package slurm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/kballard/go-shellquote"
	"github.com/michal7kw/chipflow/config"
	"github.com/michal7kw/chipflow/logger"
	"github.com/michal7kw/chipflow/util"
	"github.com/michal7kw/chipflow/util/shell"
)

// The following variables are available for use in the template:
//
//	JobName, Account, Partition, Time, Nodes, NtasksPerNode, CpusPerTask,
//	Stdout, Stderr    scheduler directives
//	MemMB             requested memory in megabytes
//	CondaEnv          environment providing the tool binaries
//	Command           the pipeline invocation
var defaultTemplate = `#!/bin/bash
#SBATCH --job-name={{.JobName}}
{{- if .Account}}
#SBATCH --account={{.Account}}
{{- end}}
{{- if .Partition}}
#SBATCH --partition={{.Partition}}
{{- end}}
{{- if .MemMB}}
#SBATCH --mem={{.MemMB}}M
{{- end}}
{{- if .Time}}
#SBATCH --time={{.Time}}
{{- end}}
#SBATCH --nodes={{.Nodes}}
#SBATCH --ntasks-per-node={{.NtasksPerNode}}
#SBATCH --cpus-per-task={{.CpusPerTask}}
{{- if .Stdout}}
#SBATCH --output={{.Stdout}}
{{- end}}
{{- if .Stderr}}
#SBATCH --error={{.Stderr}}
{{- end}}
{{- if .CondaEnv}}

source activate {{.CondaEnv}}
{{- end}}

{{.Command}}
`

type submitParams struct {
	config.Slurm
	MemMB    int64
	CondaEnv string
	Command  string
}

// Submitter writes a templated sbatch script and submits it.
type Submitter struct {
	Conf  config.Config
	Log   *logger.Logger
	Shell shell.Runner
}

// NewSubmitter returns a Submitter for the given configuration.
func NewSubmitter(conf config.Config, log *logger.Logger) *Submitter {
	return &Submitter{
		Conf:  conf,
		Log:   log,
		Shell: &shell.CmdRunner{Log: log},
	}
}

// Setup writes the run configuration and the rendered sbatch script to
// the Slurm work directory, returning the script path.
func (s *Submitter) Setup() (string, error) {
	workdir, err := filepath.Abs(s.Conf.SlurmWorkDir())
	if err != nil {
		return "", err
	}
	if err := util.EnsureDir(workdir); err != nil {
		return "", err
	}

	confPath := filepath.Join(workdir, "chipflow.conf.yml")
	if err := config.ToYamlFile(s.Conf, confPath); err != nil {
		return "", err
	}

	executable, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("detecting chipflow binary path: %w", err)
	}

	memMB, err := s.Conf.Slurm.MemoryMB()
	if err != nil {
		return "", err
	}

	// The scheduler refuses to start jobs whose log directories are missing.
	if s.Conf.Slurm.Stdout != "" {
		if err := util.EnsurePath(s.Conf.Slurm.Stdout); err != nil {
			return "", err
		}
	}
	if s.Conf.Slurm.Stderr != "" {
		if err := util.EnsurePath(s.Conf.Slurm.Stderr); err != nil {
			return "", err
		}
	}

	tpl := defaultTemplate
	if s.Conf.Slurm.Template != "" {
		tpl = s.Conf.Slurm.Template
	}
	t, err := template.New("sbatch").Parse(tpl)
	if err != nil {
		return "", fmt.Errorf("parsing sbatch template: %w", err)
	}

	scriptPath := filepath.Join(workdir, "chipflow.submit")
	f, err := os.Create(scriptPath)
	if err != nil {
		return "", err
	}

	err = t.Execute(f, submitParams{
		Slurm:    s.Conf.Slurm,
		MemMB:    memMB,
		CondaEnv: s.Conf.CondaEnv,
		Command:  shellquote.Join(executable, "run", "--config", confPath),
	})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", err
	}
	return scriptPath, nil
}

// Submit renders the submission script and submits it via sbatch,
// returning the scheduler's job ID.
func (s *Submitter) Submit(ctx context.Context) (string, error) {
	scriptPath, err := s.Setup()
	if err != nil {
		return "", err
	}

	out, err := s.Shell.Output(ctx, "sbatch", scriptPath)
	if err != nil {
		return "", fmt.Errorf("submitting to slurm: %w", err)
	}

	jobID := extractID(string(out))
	s.Log.Info("submitted batch job", "jobID", jobID, "script", scriptPath)
	return jobID, nil
}

// extractID extracts the job id from the response returned by the
// `sbatch` command. Example response:
// Submitted batch job 2
func extractID(in string) string {
	re := regexp.MustCompile(`(Submitted batch job )([0-9]+)\n?$`)
	return strings.TrimSpace(re.ReplaceAllString(in, "$2"))
}
