package pipeline

import (
	"context"
	"strconv"

	"github.com/michal7kw/chipflow/config"
	"github.com/michal7kw/chipflow/util"
	"github.com/michal7kw/chipflow/util/shell"
)

// CallPeaksStage calls enriched regions on the deduplicated alignment
// file via macs2 callpeak.
type CallPeaksStage struct {
	Sample string
	Layout Layout
	Peaks  config.Peaks
	Tools  config.Tools
	Shell  shell.Runner
}

// Name returns the stage name.
func (s *CallPeaksStage) Name() string { return "callpeaks" }

func (s *CallPeaksStage) args() []string {
	args := []string{
		"callpeak",
		"-t", s.Layout.DedupBAM(s.Sample),
		"-f", s.Peaks.Format,
		"-g", s.Peaks.GenomeSize,
		"-n", s.Sample,
		"--outdir", s.Layout.PeaksDir(),
	}
	if s.Peaks.NoModel {
		args = append(args, "--nomodel")
	}
	if s.Peaks.ExtSize > 0 {
		args = append(args, "--extsize", strconv.Itoa(s.Peaks.ExtSize))
	}
	if s.Peaks.KeepDup != "" {
		args = append(args, "--keep-dup", s.Peaks.KeepDup)
	}
	args = append(args, "-q", strconv.FormatFloat(s.Peaks.QValue, 'g', -1, 64))
	if s.Peaks.CallSummits {
		args = append(args, "--call-summits")
	}
	return args
}

// Run executes the peak caller.
func (s *CallPeaksStage) Run(ctx context.Context) error {
	if err := util.EnsureDir(s.Layout.PeaksDir()); err != nil {
		return err
	}
	return s.Shell.Run(ctx, s.Tools.Macs2, s.args()...)
}
