package pipeline

import (
	"context"

	"github.com/michal7kw/chipflow/config"
	"github.com/michal7kw/chipflow/util"
	"github.com/michal7kw/chipflow/util/shell"
)

// TagStage copies the sorted input alignment file while attaching
// read-group metadata, via picard AddOrReplaceReadGroups.
type TagStage struct {
	Sample    string
	Layout    Layout
	ReadGroup config.ReadGroup
	Tools     config.Tools
	Shell     shell.Runner
}

// Name returns the stage name.
func (s *TagStage) Name() string { return "tag" }

func (s *TagStage) args() []string {
	return []string{
		"AddOrReplaceReadGroups",
		"I=" + s.Layout.SortedBAM(s.Sample),
		"O=" + s.Layout.TaggedBAM(s.Sample),
		"RGID=" + s.ReadGroup.ID,
		"RGLB=" + s.ReadGroup.Library,
		"RGPL=" + s.ReadGroup.Platform,
		"RGPU=" + s.ReadGroup.Unit,
		"RGSM=" + s.ReadGroup.Sample,
	}
}

// Run executes the tagging tool.
func (s *TagStage) Run(ctx context.Context) error {
	if err := util.EnsurePath(s.Layout.TaggedBAM(s.Sample)); err != nil {
		return err
	}
	return s.Shell.Run(ctx, s.Tools.Picard, s.args()...)
}
