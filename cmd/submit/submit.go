// Package submit contains the "submit" command, which renders a sbatch
// script for the pipeline and submits it to the scheduler.
package submit

import (
	"context"
	"fmt"

	cmdutil "github.com/michal7kw/chipflow/cmd/util"
	"github.com/michal7kw/chipflow/config"
	"github.com/michal7kw/chipflow/logger"
	"github.com/michal7kw/chipflow/slurm"
	"github.com/spf13/cobra"
)

// NewCommand returns the submit command.
func NewCommand() *cobra.Command {
	var (
		configFile string
		flagConf   config.Config
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit the pipeline as a Slurm batch job.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := cmdutil.MergeConfigFileWithFlags(configFile, flagConf)
			if err != nil {
				return fmt.Errorf("error processing config: %v", err)
			}
			if err := conf.Valid(); err != nil {
				return err
			}

			log := logger.NewLogger("chipflow", conf.Logger)
			sub := slurm.NewSubmitter(conf, log)

			if dryRun {
				scriptPath, err := sub.Setup()
				if err != nil {
					return err
				}
				fmt.Println(scriptPath)
				return nil
			}

			jobID, err := sub.Submit(context.Background())
			if err != nil {
				return err
			}
			fmt.Println(jobID)
			return nil
		},
	}
	cmd.SetGlobalNormalizationFunc(cmdutil.NormalizeFlags)

	f := cmd.Flags()
	f.AddFlagSet(cmdutil.PipelineFlags(&flagConf, &configFile))
	f.BoolVar(&dryRun, "dry-run", false,
		"Write the submission script but don't call sbatch")

	return cmd
}
