package pipeline

import (
	"path/filepath"
	"strings"

	"github.com/michal7kw/chipflow/config"
)

// Layout maps a sample identifier to the fixed filesystem layout under
// the results root. Every path is a pure function of the sample ID and
// the root; nothing here touches the filesystem.
type Layout struct {
	ResultsDir   string
	PeaksDirName string
}

// NewLayout returns the layout for the given configuration.
func NewLayout(conf config.Config) Layout {
	return Layout{
		ResultsDir:   conf.ResultsDir,
		PeaksDirName: conf.Peaks.OutDirName,
	}
}

// SortedBAM is the pre-existing coordinate-sorted input alignment file.
func (l Layout) SortedBAM(sample string) string {
	return filepath.Join(l.ResultsDir, "bowtie2_alt", sample+".sorted.bam")
}

// TaggedBAM is the read-group tagged alignment file.
func (l Layout) TaggedBAM(sample string) string {
	return filepath.Join(l.ResultsDir, "bowtie2_alt", sample+".sorted.withRG.bam")
}

// DedupBAM is the deduplicated alignment file.
func (l Layout) DedupBAM(sample string) string {
	return filepath.Join(l.ResultsDir, "filtered", sample+".dedup.bam")
}

// DedupIndex is the index written next to the deduplicated alignment file.
// Picard's CREATE_INDEX replaces the .bam suffix with .bai.
func (l Layout) DedupIndex(sample string) string {
	return strings.TrimSuffix(l.DedupBAM(sample), ".bam") + ".bai"
}

// DedupMetrics is the duplication metrics text report.
func (l Layout) DedupMetrics(sample string) string {
	return filepath.Join(l.ResultsDir, "filtered", sample+".metrics.txt")
}

// PeaksDir is the peak-call output directory.
func (l Layout) PeaksDir() string {
	return filepath.Join(l.ResultsDir, l.PeaksDirName)
}

// NarrowPeak is the called peak regions file.
func (l Layout) NarrowPeak(sample string) string {
	return filepath.Join(l.PeaksDir(), sample+"_peaks.narrowPeak")
}

// Summits is the peak summits file.
func (l Layout) Summits(sample string) string {
	return filepath.Join(l.PeaksDir(), sample+"_summits.bed")
}

// QCReport is the cumulative per-sample QC report file.
func (l Layout) QCReport(sample string) string {
	return filepath.Join(l.ResultsDir, sample+"_qc_metrics.txt")
}
