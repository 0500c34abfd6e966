package main

import (
	"os"

	"github.com/michal7kw/chipflow/cmd"
	"github.com/michal7kw/chipflow/logger"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		logger.PrintSimpleError(err)
		os.Exit(1)
	}
}
