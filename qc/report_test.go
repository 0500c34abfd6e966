package qc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRenderSectionOrder(t *testing.T) {
	r := Report{
		Sample:         "GFP_high_1",
		Date:           time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
		TaggedFlagstat: "100 + 0 in total (QC-passed reads + QC-failed reads)",
		DedupFlagstat:  "80 + 0 in total (QC-passed reads + QC-failed reads)",
		PeakCount:      42,
	}

	out := r.Render()

	require.Contains(t, out, "=== QC metrics for GFP_high_1")
	idxHeader := strings.Index(out, "=== QC metrics")
	idxTagged := strings.Index(out, SectionTagged)
	idxDedup := strings.Index(out, SectionDedup)
	idxPeaks := strings.Index(out, SectionPeaks)

	require.True(t, idxHeader >= 0 && idxHeader < idxTagged)
	require.True(t, idxTagged < idxDedup)
	require.True(t, idxDedup < idxPeaks)
	require.Contains(t, out, "\n42\n")
}

func TestRenderUnavailablePeakCount(t *testing.T) {
	r := Report{Sample: "s", Date: time.Now(), PeakCount: -1}
	require.Contains(t, r.Render(), SectionPeaks+"\nunavailable\n")
}

func TestAppendIsCumulative(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s_qc_metrics.txt")

	first := Report{Sample: "s", Date: time.Now(), PeakCount: 1}
	second := Report{Sample: "s", Date: time.Now(), PeakCount: 2}

	require.NoError(t, first.Append(path))
	require.NoError(t, second.Append(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(b)
	require.Equal(t, 2, strings.Count(content, "=== QC metrics for s"))
	require.Contains(t, content, SectionPeaks+"\n1\n")
	require.Contains(t, content, SectionPeaks+"\n2\n")
}

func TestCountLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "peaks.narrowPeak")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\nc\n"), 0644))

	n, err := CountLines(path)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	_, err = CountLines(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}
