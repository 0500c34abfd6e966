package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/michal7kw/chipflow/config"
	"github.com/michal7kw/chipflow/qc"
	"github.com/michal7kw/chipflow/util/shell"
)

// QCStage collects alignment and peak-count summaries into a typed
// report and appends its rendering to the per-sample QC report file.
//
// Flagstat numbers come from samtools; the peak count is a native line
// count of the narrowPeak file. The stage is best-effort: every section
// is appended even when an upstream file is missing, and the collected
// errors are returned at the end.
type QCStage struct {
	Sample string
	Layout Layout
	Tools  config.Tools
	Shell  shell.Runner

	// now is swappable for tests.
	now func() time.Time
}

// Name returns the stage name.
func (s *QCStage) Name() string { return "qc" }

// Run collects the QC report and appends it to the report file.
func (s *QCStage) Run(ctx context.Context) error {
	if s.now == nil {
		s.now = time.Now
	}

	rep := qc.Report{
		Sample: s.Sample,
		Date:   s.now(),
	}
	var result *multierror.Error

	tagged, err := s.Shell.Output(ctx, s.Tools.Samtools, "flagstat", s.Layout.TaggedBAM(s.Sample))
	if err != nil {
		rep.TaggedFlagstat = fmt.Sprintf("flagstat failed: %v", err)
		result = multierror.Append(result, fmt.Errorf("tagged flagstat: %w", err))
	} else {
		rep.TaggedFlagstat = string(tagged)
	}

	dedup, err := s.Shell.Output(ctx, s.Tools.Samtools, "flagstat", s.Layout.DedupBAM(s.Sample))
	if err != nil {
		rep.DedupFlagstat = fmt.Sprintf("flagstat failed: %v", err)
		result = multierror.Append(result, fmt.Errorf("dedup flagstat: %w", err))
	} else {
		rep.DedupFlagstat = string(dedup)
	}

	n, err := qc.CountLines(s.Layout.NarrowPeak(s.Sample))
	if err != nil {
		rep.PeakCount = -1
		result = multierror.Append(result, fmt.Errorf("peak count: %w", err))
	} else {
		rep.PeakCount = n
	}

	if err := rep.Append(s.Layout.QCReport(s.Sample)); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}
