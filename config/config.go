// Package config contains chipflow configuration structures and defaults.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/alecthomas/units"
	"github.com/michal7kw/chipflow/logger"
)

// Config describes configuration for chipflow.
type Config struct {
	// Samples lists the sample identifiers to process. Samples are
	// processed sequentially, in order.
	Samples []string
	// ResultsDir is the root directory of the pipeline filesystem layout.
	ResultsDir string
	// CondaEnv names the environment providing the external tool binaries.
	// Only used by generated batch scripts; local runs expect the tools
	// to already be on PATH.
	CondaEnv string
	// ContinueOnError controls whether a stage failure stops the pipeline.
	// When true (the default), later stages are still attempted and all
	// failures are collected into the final error.
	ContinueOnError bool

	ReadGroup ReadGroup
	Dedup     Dedup
	Peaks     Peaks
	Tools     Tools
	Slurm     Slurm
	Logger    logger.Config
}

// ReadGroup describes the read-group metadata attached to alignments
// by the tagging stage.
type ReadGroup struct {
	ID       string
	Sample   string
	Library  string
	Platform string
	Unit     string
}

// Dedup describes the duplicate removal stage.
type Dedup struct {
	RemoveDuplicates     bool
	ValidationStringency string
	CreateIndex          bool
}

// Peaks describes the peak calling stage.
type Peaks struct {
	// Format is the input format passed to macs2 (-f), e.g. "BAMPE".
	Format string
	// GenomeSize is the effective genome size (-g), e.g. "2.7e9".
	GenomeSize string
	// QValue is the minimum FDR cutoff (-q).
	QValue float64
	// ExtSize extends reads to this fragment size (--extsize).
	ExtSize int
	// NoModel disables the shifting model (--nomodel).
	NoModel bool
	// KeepDup is the duplicate-keep policy (--keep-dup). Duplicates are
	// already removed upstream, so "all" is a no-op filter.
	KeepDup string
	// CallSummits enables summit calling (--call-summits).
	CallSummits bool
	// OutDirName is the peak output directory name under ResultsDir.
	OutDirName string
}

// Tools names the external tool binaries. Values may be bare names
// resolved via PATH or absolute paths.
type Tools struct {
	Samtools string
	Picard   string
	Macs2    string
	Bedtools string
}

// Slurm describes batch scheduler directives for submitted runs.
type Slurm struct {
	JobName       string
	Account       string
	Partition     string
	Memory        string
	Time          string
	Nodes         int
	NtasksPerNode int
	CpusPerTask   int
	Stdout        string
	Stderr        string
	// WorkDir holds the generated submission script and config.
	// Defaults to <ResultsDir>/slurm.
	WorkDir string
	// Template overrides the built-in sbatch script template.
	Template string
}

// MemoryMB parses the Memory size string (e.g. "32GB") and returns
// the value in megabytes, as expected by sbatch --mem.
func (s Slurm) MemoryMB() (int64, error) {
	if s.Memory == "" {
		return 0, nil
	}
	n, err := units.ParseMetricBytes(s.Memory)
	if err != nil {
		return 0, fmt.Errorf("parsing Slurm.Memory %q: %w", s.Memory, err)
	}
	return int64(n) / int64(units.MB), nil
}

// Valid checks that the configuration is usable for a pipeline run.
func (c Config) Valid() error {
	if len(c.Samples) == 0 {
		return fmt.Errorf("config: no samples given")
	}
	if c.ResultsDir == "" {
		return fmt.Errorf("config: ResultsDir is empty")
	}
	if _, err := c.Slurm.MemoryMB(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// SlurmWorkDir returns the Slurm working directory, falling back to
// the default under ResultsDir.
func (c Config) SlurmWorkDir() string {
	if c.Slurm.WorkDir != "" {
		return c.Slurm.WorkDir
	}
	return filepath.Join(c.ResultsDir, "slurm")
}
