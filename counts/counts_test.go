package counts

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/michal7kw/chipflow/config"
	"github.com/michal7kw/chipflow/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	calls   [][]string
	outputs map[string][]byte
	fail    map[string]error
}

func (f *fakeRunner) key(name string, args []string) string {
	k := name
	if len(args) > 0 {
		k += " " + args[0]
	}
	return k
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.fail[f.key(name, args)]
}

func (f *fakeRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if err := f.fail[f.key(name, args)]; err != nil {
		return nil, err
	}
	return f.outputs[f.key(name, args)], nil
}

func testLogger() *logger.Logger {
	log := logger.NewLogger("test", logger.DefaultConfig())
	log.Discard()
	return log
}

// writeHeaderOnlyBAM writes a BAM holding only a header with the given
// references.
func writeHeaderOnlyBAM(t *testing.T, path string) {
	t.Helper()

	chr1, err := sam.NewReference("chr1", "", "", 248956422, nil, nil)
	require.NoError(t, err)
	chr2, err := sam.NewReference("chr2", "", "", 242193529, nil, nil)
	require.NoError(t, err)
	header, err := sam.NewHeader(nil, []*sam.Reference{chr1, chr2})
	require.NoError(t, err)

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w, err := bam.NewWriter(f, header, 1)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestWriteGenomeFile(t *testing.T) {
	dir := t.TempDir()
	bamPath := filepath.Join(dir, "s.bam")
	genomePath := filepath.Join(dir, "s.genome")
	writeHeaderOnlyBAM(t, bamPath)

	require.NoError(t, writeGenomeFile(bamPath, genomePath))

	b, err := os.ReadFile(genomePath)
	require.NoError(t, err)
	assert.Equal(t, "chr1\t248956422\nchr2\t242193529\n", string(b))
}

func TestParseCoverage(t *testing.T) {
	in := []byte("chr1\t100\t200\tgeneA\t15\nchr1\t400\t500\tgeneB\t0\n")

	rows, err := parseCoverage(in)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "chr1", rows[0].Chrom)
	assert.Equal(t, int64(100), rows[0].Start)
	assert.Equal(t, "geneA", rows[0].Name)
	assert.Equal(t, int64(15), rows[0].Raw)
	assert.Equal(t, int64(0), rows[1].Raw)
}

func TestParseCoverageMalformed(t *testing.T) {
	_, err := parseCoverage([]byte("chr1\t100\n"))
	require.Error(t, err)

	_, err = parseCoverage([]byte("chr1\tx\t200\t5\n"))
	require.Error(t, err)
}

func TestRPM(t *testing.T) {
	assert.InDelta(t, 10.0, rpm(15, 1500000), 1e-9)
	assert.Equal(t, 0.0, rpm(0, 1500000))
}

func TestCounterRun(t *testing.T) {
	dir := t.TempDir()
	bamPath := filepath.Join(dir, "s.bam")
	writeHeaderOnlyBAM(t, bamPath)

	peaksPath := filepath.Join(dir, "peaks.narrowPeak")
	require.NoError(t, os.WriteFile(peaksPath, []byte("chr1\t100\t200\tgeneA\n"), 0644))

	fake := &fakeRunner{outputs: map[string][]byte{
		"samtools view":     []byte("1500000\n"),
		"bedtools sort":     []byte("chr1\t100\t200\tgeneA\n"),
		"bedtools coverage": []byte("chr1\t100\t200\tgeneA\t15\nchr1\t400\t500\tgeneB\t0\n"),
	}}

	c := &Counter{
		BAM:        bamPath,
		Peaks:      peaksPath,
		Output:     filepath.Join(dir, "out", "counts.tsv"),
		SampleName: "s",
		Tools:      config.DefaultConfig().Tools,
		Shell:      fake,
		Log:        testLogger(),
	}

	require.NoError(t, c.Run(context.Background()))

	b, err := os.ReadFile(c.Output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "chr\tstart\tend\tgene\traw_count\tcount", lines[0])
	assert.Equal(t, "chr1\t100\t200\tgeneA\t15\t10", lines[1])
	assert.Equal(t, "chr1\t400\t500\tgeneB\t0\t0", lines[2])

	// Temporary files are cleaned up.
	_, err = os.Stat(filepath.Join(dir, "out", "tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestCounterRunNoMappedReads(t *testing.T) {
	dir := t.TempDir()
	bamPath := filepath.Join(dir, "s.bam")
	writeHeaderOnlyBAM(t, bamPath)

	fake := &fakeRunner{outputs: map[string][]byte{
		"samtools view": []byte("0\n"),
	}}

	c := &Counter{
		BAM:        bamPath,
		Peaks:      filepath.Join(dir, "peaks.narrowPeak"),
		Output:     filepath.Join(dir, "out", "counts.tsv"),
		SampleName: "s",
		Tools:      config.DefaultConfig().Tools,
		Shell:      fake,
		Log:        testLogger(),
	}

	err := c.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no mapped reads")
}
