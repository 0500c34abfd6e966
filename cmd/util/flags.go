package util

import (
	"strings"

	"github.com/michal7kw/chipflow/config"
	"github.com/spf13/pflag"
)

func normalize(name string) string {
	from := []string{"-", "_"}
	to := "."
	for _, sep := range from {
		name = strings.Replace(name, sep, to, -1)
	}
	return strings.ToLower(name)
}

// NormalizeFlags allows for flags to be case and separator insensitive.
// Use it by passing it to cobra.Command.SetGlobalNormalizationFunc
func NormalizeFlags(f *pflag.FlagSet, name string) pflag.NormalizedName {
	lookup := map[string]string{"help": "help", normalize(name): name}

	f.VisitAll(func(f *pflag.Flag) {
		lookup[normalize(f.Name)] = f.Name
	})

	return pflag.NormalizedName(lookup[normalize(name)])
}

// PipelineFlags returns a set of flags for configuring a pipeline run.
func PipelineFlags(flagConf *config.Config, configFile *string) *pflag.FlagSet {
	f := pflag.NewFlagSet("pipeline", pflag.ContinueOnError)

	f.StringVarP(configFile, "config", "c", *configFile, "Config file")
	f.StringSliceVar(&flagConf.Samples, "Samples", flagConf.Samples,
		"Sample identifiers to process")
	f.StringVar(&flagConf.ResultsDir, "ResultsDir", flagConf.ResultsDir,
		"Results root directory")
	f.StringVar(&flagConf.CondaEnv, "CondaEnv", flagConf.CondaEnv,
		"Environment providing the external tool binaries")
	f.StringVar(&flagConf.Logger.Level, "Logger.Level", flagConf.Logger.Level,
		"Level of logging")
	f.StringVar(&flagConf.Logger.OutputFile, "Logger.OutputFile", flagConf.Logger.OutputFile,
		"File path to write logs to")

	return f
}
