package pipeline

import (
	"context"
	"strconv"

	"github.com/michal7kw/chipflow/config"
	"github.com/michal7kw/chipflow/util"
	"github.com/michal7kw/chipflow/util/shell"
)

// DedupStage removes PCR/optical duplicate records from the tagged
// alignment file via picard MarkDuplicates, emitting the deduplicated
// file, a metrics report, and an index.
type DedupStage struct {
	Sample string
	Layout Layout
	Dedup  config.Dedup
	Tools  config.Tools
	Shell  shell.Runner
}

// Name returns the stage name.
func (s *DedupStage) Name() string { return "dedup" }

func (s *DedupStage) args() []string {
	return []string{
		"MarkDuplicates",
		"I=" + s.Layout.TaggedBAM(s.Sample),
		"O=" + s.Layout.DedupBAM(s.Sample),
		"M=" + s.Layout.DedupMetrics(s.Sample),
		"REMOVE_DUPLICATES=" + strconv.FormatBool(s.Dedup.RemoveDuplicates),
		"VALIDATION_STRINGENCY=" + s.Dedup.ValidationStringency,
		"CREATE_INDEX=" + strconv.FormatBool(s.Dedup.CreateIndex),
	}
}

// Run executes the duplicate removal tool.
func (s *DedupStage) Run(ctx context.Context) error {
	if err := util.EnsurePath(s.Layout.DedupBAM(s.Sample)); err != nil {
		return err
	}
	return s.Shell.Run(ctx, s.Tools.Picard, s.args()...)
}
