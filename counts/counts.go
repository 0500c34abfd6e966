// Package counts counts reads in called peak regions and normalizes
// the counts to reads per million (RPM) using the library size.
//
// Sorting and interval coverage are delegated to bedtools; the genome
// file used for chromosome ordering is built natively from the BAM
// header.
package counts

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/biogo/hts/bam"
	"github.com/michal7kw/chipflow/config"
	"github.com/michal7kw/chipflow/logger"
	"github.com/michal7kw/chipflow/util"
	"github.com/michal7kw/chipflow/util/shell"
	"gonum.org/v1/gonum/stat"
)

// minMappedReads is the library size below which a warning is logged.
const minMappedReads = 1000000

// Counter produces a normalized per-peak read-count table for one sample.
type Counter struct {
	BAM        string
	Peaks      string
	Output     string
	SampleName string
	Tools      config.Tools
	Shell      shell.Runner
	Log        *logger.Logger
}

type peakCount struct {
	Chrom string
	Start int64
	End   int64
	Name  string
	Raw   int64
}

// Run counts reads in peaks and writes the normalized count table.
func (c *Counter) Run(ctx context.Context) error {
	outDir := filepath.Dir(c.Output)
	tmpDir := filepath.Join(outDir, "tmp")
	if err := util.EnsureDir(outDir); err != nil {
		return err
	}
	if err := util.EnsureDir(tmpDir); err != nil {
		return err
	}

	prefix := filepath.Join(tmpDir, filepath.Base(c.Output))
	genomeFile := prefix + ".genome"
	sortedPeaks := prefix + ".sorted.tmp"
	defer func() {
		os.Remove(genomeFile)
		os.Remove(sortedPeaks)
		os.Remove(tmpDir)
	}()

	log := c.Log.WithFields("sample", c.SampleName, "bam", c.BAM)

	log.Info("calculating total mapped reads")
	out, err := c.Shell.Output(ctx, c.Tools.Samtools, "view", "-c", "-F", "4", c.BAM)
	if err != nil {
		return fmt.Errorf("counting mapped reads: %w", err)
	}
	total, err := strconv.ParseInt(strings.TrimSpace(string(out)), 10, 64)
	if err != nil {
		return fmt.Errorf("parsing mapped read count %q: %w", strings.TrimSpace(string(out)), err)
	}
	if total == 0 {
		return fmt.Errorf("no mapped reads in %s", c.BAM)
	}
	log.Info("total mapped reads", "total", total)

	log.Info("creating genome file from BAM header")
	if err := writeGenomeFile(c.BAM, genomeFile); err != nil {
		return fmt.Errorf("writing genome file: %w", err)
	}

	log.Info("sorting peaks file")
	sorted, err := c.Shell.Output(ctx, c.Tools.Bedtools, "sort", "-g", genomeFile, "-i", c.Peaks)
	if err != nil {
		return fmt.Errorf("sorting peaks: %w", err)
	}
	if err := os.WriteFile(sortedPeaks, sorted, 0644); err != nil {
		return err
	}

	log.Info("counting reads in peaks")
	cov, err := c.Shell.Output(ctx, c.Tools.Bedtools,
		"coverage", "-a", sortedPeaks, "-b", c.BAM,
		"-sorted", "-g", genomeFile, "-counts")
	if err != nil {
		return fmt.Errorf("counting coverage: %w", err)
	}

	rows, err := parseCoverage(cov)
	if err != nil {
		return err
	}

	if err := writeTable(c.Output, rows, total); err != nil {
		return err
	}
	log.Info("normalized counts written", "output", c.Output, "peaks", len(rows))

	c.logSummary(log, rows, total)
	return nil
}

func (c *Counter) logSummary(log *logger.Logger, rows []peakCount, total int64) {
	if len(rows) == 0 {
		log.Warn("no peaks in input")
		return
	}

	raw := make([]float64, len(rows))
	norm := make([]float64, len(rows))
	zero := 0
	for i, r := range rows {
		raw[i] = float64(r.Raw)
		norm[i] = rpm(r.Raw, total)
		if r.Raw == 0 {
			zero++
		}
	}

	log.Info("count summary",
		"meanRawCount", stat.Mean(raw, nil),
		"meanNormalizedCount", stat.Mean(norm, nil))

	if zero*2 > len(rows) {
		log.Warn("more than half of peaks have zero reads",
			"zeroPeaks", zero, "peaks", len(rows))
	}
	if total < minMappedReads {
		log.Warn("low number of mapped reads", "total", total)
	}
}

func rpm(raw, total int64) float64 {
	return float64(raw) * 1e6 / float64(total)
}

// writeGenomeFile writes a "<chrom>\t<length>" genome file from the BAM
// header, preserving the header's chromosome order.
func writeGenomeFile(bamPath, out string) error {
	f, err := os.Open(bamPath)
	if err != nil {
		return err
	}
	defer f.Close()

	r, err := bam.NewReader(f, 1)
	if err != nil {
		return err
	}
	defer r.Close()

	g, err := os.Create(out)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(g)
	for _, ref := range r.Header().Refs() {
		fmt.Fprintf(w, "%s\t%d\n", ref.Name(), ref.Len())
	}
	if err := w.Flush(); err != nil {
		g.Close()
		return err
	}
	return g.Close()
}

// parseCoverage parses `bedtools coverage -counts` output. The count is
// the last column; the first three are the interval, and the fourth, if
// present, names the region.
func parseCoverage(b []byte) ([]peakCount, error) {
	var rows []peakCount
	scanner := bufio.NewScanner(strings.NewReader(string(b)))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 4 {
			return nil, fmt.Errorf("malformed coverage line: %q", line)
		}

		start, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed coverage line: %q", line)
		}
		end, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed coverage line: %q", line)
		}
		raw, err := strconv.ParseInt(fields[len(fields)-1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed coverage line: %q", line)
		}

		name := "."
		if len(fields) > 4 {
			name = fields[3]
		}

		rows = append(rows, peakCount{
			Chrom: fields[0],
			Start: start,
			End:   end,
			Name:  name,
			Raw:   raw,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

func writeTable(path string, rows []peakCount, total int64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)

	fmt.Fprintln(w, "chr\tstart\tend\tgene\traw_count\tcount")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%d\t%s\n",
			r.Chrom, r.Start, r.End, r.Name, r.Raw,
			strconv.FormatFloat(rpm(r.Raw, total), 'g', -1, 64))
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
