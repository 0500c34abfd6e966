// Package util contains helpers shared by the CLI commands.
package util

import (
	"github.com/imdario/mergo"
	"github.com/michal7kw/chipflow/config"
)

// MergeConfigFileWithFlags is used by commands that configure a pipeline
// via flags and, optionally, a config file. Flag values override values
// in the provided config file, which overrides the defaults.
func MergeConfigFileWithFlags(file string, flagConf config.Config) (config.Config, error) {
	// parse config file if it exists
	conf := config.DefaultConfig()
	err := config.ParseFile(file, &conf)
	if err != nil {
		return conf, err
	}

	// file vals <- cli val
	err = mergo.MergeWithOverwrite(&conf, flagConf)
	if err != nil {
		return conf, err
	}

	return conf, nil
}
