// Package run contains the "run" command, which executes the pipeline
// directly in the current process.
package run

import (
	"context"
	"fmt"
	"syscall"
	"time"

	cmdutil "github.com/michal7kw/chipflow/cmd/util"
	"github.com/michal7kw/chipflow/config"
	"github.com/michal7kw/chipflow/logger"
	"github.com/michal7kw/chipflow/pipeline"
	"github.com/michal7kw/chipflow/util"
	"github.com/michal7kw/chipflow/version"
	"github.com/spf13/cobra"
)

// NewCommand returns the run command.
func NewCommand() *cobra.Command {
	cmd, _ := newCommandHooks()
	return cmd
}

type hooks struct {
	Run func(ctx context.Context, conf config.Config, log *logger.Logger) error
}

func newCommandHooks() (*cobra.Command, *hooks) {
	hooks := &hooks{
		Run: Run,
	}

	var (
		configFile string
		flagConf   config.Config
		failFast   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the ChIP/CUT&Tag post-alignment pipeline.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := cmdutil.MergeConfigFileWithFlags(configFile, flagConf)
			if err != nil {
				return fmt.Errorf("error processing config: %v", err)
			}
			if failFast {
				conf.ContinueOnError = false
			}

			log := logger.NewLogger("chipflow", conf.Logger)
			log.Info("version", version.LogFields()...)

			ctx := util.SignalContext(context.Background(), time.Millisecond*100,
				syscall.SIGINT, syscall.SIGTERM)

			return hooks.Run(ctx, conf, log)
		},
	}
	cmd.SetGlobalNormalizationFunc(cmdutil.NormalizeFlags)

	f := cmd.Flags()
	f.AddFlagSet(cmdutil.PipelineFlags(&flagConf, &configFile))
	f.BoolVar(&failFast, "fail-fast", false,
		"Stop at the first stage failure instead of attempting later stages")

	return cmd, hooks
}

// Run runs the pipeline with the given config.
func Run(ctx context.Context, conf config.Config, log *logger.Logger) error {
	return pipeline.New(conf, log).Run(ctx)
}
