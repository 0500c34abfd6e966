// Package count contains the "count" command, which counts reads in
// called peaks and normalizes them by library size.
package count

import (
	"context"
	"fmt"

	cmdutil "github.com/michal7kw/chipflow/cmd/util"
	"github.com/michal7kw/chipflow/config"
	"github.com/michal7kw/chipflow/counts"
	"github.com/michal7kw/chipflow/logger"
	"github.com/michal7kw/chipflow/util/shell"
	"github.com/spf13/cobra"
)

// NewCommand returns the count command.
func NewCommand() *cobra.Command {
	var (
		configFile string
		flagConf   config.Config
		bamFile    string
		peaksFile  string
		output     string
		sampleName string
	)

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count reads in peaks with library size normalization.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := cmdutil.MergeConfigFileWithFlags(configFile, flagConf)
			if err != nil {
				return fmt.Errorf("error processing config: %v", err)
			}

			log := logger.NewLogger("chipflow", conf.Logger)
			c := &counts.Counter{
				BAM:        bamFile,
				Peaks:      peaksFile,
				Output:     output,
				SampleName: sampleName,
				Tools:      conf.Tools,
				Shell:      &shell.CmdRunner{Log: log},
				Log:        log,
			}
			return c.Run(context.Background())
		},
	}
	cmd.SetGlobalNormalizationFunc(cmdutil.NormalizeFlags)

	f := cmd.Flags()
	f.AddFlagSet(cmdutil.PipelineFlags(&flagConf, &configFile))
	f.StringVar(&bamFile, "bam", "", "BAM file")
	f.StringVar(&peaksFile, "peaks", "", "Peaks bed file")
	f.StringVar(&output, "output", "", "Output counts file")
	f.StringVar(&sampleName, "sample-name", "", "Sample name")

	cmd.MarkFlagRequired("bam")
	cmd.MarkFlagRequired("peaks")
	cmd.MarkFlagRequired("output")
	cmd.MarkFlagRequired("sample-name")

	return cmd
}
