// Package qc models the per-sample QC report.
//
// The report is a typed record; text rendering is a separate, final
// serialization step, and the report file is append-only across runs.
package qc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Section labels, in the order they are rendered.
const (
	SectionTagged = "## Alignment stats (read-group tagged)"
	SectionDedup  = "## Alignment stats (after duplicate removal)"
	SectionPeaks  = "## Peak count"
)

// Report holds the QC metrics collected for one sample run.
type Report struct {
	Sample string
	Date   time.Time
	// TaggedFlagstat holds samtools flagstat output for the read-group
	// tagged alignment file.
	TaggedFlagstat string
	// DedupFlagstat holds samtools flagstat output for the deduplicated
	// alignment file.
	DedupFlagstat string
	// PeakCount is the number of called peak regions.
	// A negative value means the count is unavailable.
	PeakCount int
}

// Header returns the report header line.
func (r Report) Header() string {
	return fmt.Sprintf("=== QC metrics for %s (%s) ===", r.Sample, r.Date.Format(time.RFC3339))
}

// Render serializes the report as text: a header line followed by the
// three labeled metric sections, in fixed order.
func (r Report) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", r.Header())
	fmt.Fprintf(&b, "%s\n%s\n\n", SectionTagged, strings.TrimSpace(r.TaggedFlagstat))
	fmt.Fprintf(&b, "%s\n%s\n\n", SectionDedup, strings.TrimSpace(r.DedupFlagstat))
	if r.PeakCount < 0 {
		fmt.Fprintf(&b, "%s\nunavailable\n\n", SectionPeaks)
	} else {
		fmt.Fprintf(&b, "%s\n%d\n\n", SectionPeaks, r.PeakCount)
	}
	return b.String()
}

// Append renders the report and appends it to the file at the given path,
// creating the file if needed.
func (r Report) Append(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening QC report: %w", err)
	}
	_, werr := io.WriteString(f, r.Render())
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("writing QC report: %w", werr)
	}
	return cerr
}

// CountLines returns the number of lines in the file at the given path.
func CountLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		n++
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return n, nil
}
