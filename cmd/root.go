// Package cmd contains the chipflow CLI commands.
package cmd

import (
	"fmt"

	"github.com/michal7kw/chipflow/cmd/count"
	"github.com/michal7kw/chipflow/cmd/run"
	"github.com/michal7kw/chipflow/cmd/submit"
	"github.com/michal7kw/chipflow/cmd/version"
	"github.com/michal7kw/chipflow/config"
	"github.com/spf13/cobra"
)

// RootCmd represents the root command
var RootCmd = &cobra.Command{
	Use:           "chipflow",
	SilenceErrors: true,
	SilenceUsage:  true,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default configuration as YAML.",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := config.ToYaml(config.DefaultConfig())
		if err != nil {
			return err
		}
		fmt.Print(string(b))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(configCmd)
	RootCmd.AddCommand(count.NewCommand())
	RootCmd.AddCommand(run.NewCommand())
	RootCmd.AddCommand(submit.NewCommand())
	RootCmd.AddCommand(version.Cmd)
}
