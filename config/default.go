package config

import (
	"os"
	"path"

	"github.com/michal7kw/chipflow/logger"
)

// DefaultConfig returns configuration with simple defaults.
//
// The stage flags reproduce the lab's standard CUT&Tag post-alignment
// settings: strip duplicates under lenient validation, and call narrow
// peaks in paired-end mode with a fixed 200bp fragment size.
func DefaultConfig() Config {
	cwd, _ := os.Getwd()
	resultsDir := path.Join(cwd, "results")

	return Config{
		Samples:         []string{"GFP_high_1"},
		ResultsDir:      resultsDir,
		CondaEnv:        "chipseq",
		ContinueOnError: true,
		ReadGroup: ReadGroup{
			ID:       "1",
			Sample:   "GFP_high_1",
			Library:  "lib1",
			Platform: "ILLUMINA",
			Unit:     "unit1",
		},
		Dedup: Dedup{
			RemoveDuplicates:     true,
			ValidationStringency: "LENIENT",
			CreateIndex:          true,
		},
		Peaks: Peaks{
			Format:      "BAMPE",
			GenomeSize:  "2.7e9",
			QValue:      0.05,
			ExtSize:     200,
			NoModel:     true,
			KeepDup:     "all",
			CallSummits: true,
			OutDirName:  "peaks_alt",
		},
		Tools: Tools{
			Samtools: "samtools",
			Picard:   "picard",
			Macs2:    "macs2",
			Bedtools: "bedtools",
		},
		Slurm: Slurm{
			JobName:       "chip_pipeline",
			Memory:        "32GB",
			Time:          "2-00:00:00",
			Nodes:         1,
			NtasksPerNode: 1,
			CpusPerTask:   8,
			Stdout:        "logs/chip_pipeline.out",
			Stderr:        "logs/chip_pipeline.err",
		},
		Logger: logger.DefaultConfig(),
	}
}
