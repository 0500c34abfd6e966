package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/michal7kw/chipflow/config"
)

func TestMergeConfigFileWithFlags(t *testing.T) {
	yaml := `
Samples:
  - from_file
ResultsDir: /from/file
CondaEnv: fileenv
`
	path := filepath.Join(t.TempDir(), "conf.yml")
	if err := os.WriteFile(path, []byte(yaml), 0600); err != nil {
		t.Fatal(err)
	}

	flagConf := config.Config{}
	flagConf.ResultsDir = "/from/flag"

	conf, err := MergeConfigFileWithFlags(path, flagConf)
	if err != nil {
		t.Fatal(err)
	}

	if conf.ResultsDir != "/from/flag" {
		t.Fatal("flag value should override file value, got", conf.ResultsDir)
	}
	if len(conf.Samples) != 1 || conf.Samples[0] != "from_file" {
		t.Fatal("file value should override default, got", conf.Samples)
	}
	if conf.CondaEnv != "fileenv" {
		t.Fatal("unexpected conda env", conf.CondaEnv)
	}
	// Values untouched by file and flags keep their defaults.
	if conf.Peaks.OutDirName != "peaks_alt" {
		t.Fatal("default should survive merging, got", conf.Peaks.OutDirName)
	}
}

func TestMergeMissingFile(t *testing.T) {
	_, err := MergeConfigFileWithFlags("/does/not/exist.yml", config.Config{})
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}
