package chromorder

import (
	"bytes"
	"compress/gzip"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasic(t *testing.T) {
	genome := "chr1\nchr2\t43\nchr3\n"
	tbl, err := Parse(strings.NewReader(genome))
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Len())

	c1, ok := tbl.Lookup("chr1")
	require.True(t, ok)
	assert.Equal(t, 0, c1.Index)
	assert.False(t, c1.HasLen)

	c2, ok := tbl.Lookup("chr2")
	require.True(t, ok)
	assert.Equal(t, 1, c2.Index)
	assert.True(t, c2.HasLen)
	assert.Equal(t, int64(43), c2.Length)

	_, ok = tbl.Lookup("chrX")
	assert.False(t, ok)
}

func TestParseSkipsBlankAndComment(t *testing.T) {
	genome := "# comment\n\nchr1\t10\n  \nchr2\t20\n"
	tbl, err := Parse(strings.NewReader(genome))
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
}

func TestParseInvalidLengthWarnsNotFails(t *testing.T) {
	genome := "chr1\tnotanumber\nchr2\t20\n"
	tbl, err := Parse(strings.NewReader(genome))
	require.NoError(t, err)
	c1, ok := tbl.Lookup("chr1")
	require.True(t, ok)
	assert.False(t, c1.HasLen)
}

func TestParseDuplicateNameErrors(t *testing.T) {
	genome := "chr1\nchr1\n"
	_, err := Parse(strings.NewReader(genome))
	assert.Error(t, err)
}

func TestParseGzipped(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte("chr1\t100\nchr2\t200\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	tbl, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
	c2, ok := tbl.Lookup("chr2")
	require.True(t, ok)
	assert.Equal(t, int64(200), c2.Length)
}

func TestCompareChrom(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.Add("chr1", 0, false))
	require.NoError(t, tbl.Add("chr2", 0, false))

	ord, err := tbl.CompareChrom("s", "chr1", "chr2")
	require.NoError(t, err)
	assert.Equal(t, Less, ord)

	ord, err = tbl.CompareChrom("s", "chr2", "chr1")
	require.NoError(t, err)
	assert.Equal(t, Greater, ord)

	ord, err = tbl.CompareChrom("s", "chr1", "chr1")
	require.NoError(t, err)
	assert.Equal(t, Equal, ord)

	_, err = tbl.CompareChrom("s", "chr1", "chrX")
	require.Error(t, err)
	var unknown *UnknownChromosomeError
	assert.ErrorAs(t, err, &unknown)
	assert.Equal(t, "chrX", unknown.Chrom)
	assert.Equal(t, "s", unknown.StreamName)
}

func TestResolveCacheHitAndMiss(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.Add("chr1", 0, false))

	c, ok := tbl.Resolve("chr1")
	require.True(t, ok)
	assert.Equal(t, 0, c.Index)

	// Repeated query of the same name should hit the single-entry cache and
	// still return the right answer.
	c, ok = tbl.Resolve("chr1")
	require.True(t, ok)
	assert.Equal(t, 0, c.Index)

	_, ok = tbl.Resolve("chrX")
	assert.False(t, ok)
}

func TestFingerprintConsistentForSameName(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.Add("chr1", 0, false))
	require.NoError(t, tbl.Add("chr2", 0, false))

	f1a, ok := tbl.Fingerprint("chr1")
	require.True(t, ok)
	f1b, ok := tbl.Fingerprint("chr1")
	require.True(t, ok)
	assert.Equal(t, f1a, f1b)

	f2, ok := tbl.Fingerprint("chr2")
	require.True(t, ok)
	assert.NotEqual(t, f1a, f2)

	_, ok = tbl.Fingerprint("chrX")
	assert.False(t, ok)
}
