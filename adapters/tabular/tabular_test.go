package tabular

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gosilver/domain/core"
	"gosilver/domain/expression"
	"gosilver/internal/testkit"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadProfile(t *testing.T) {
	path := writeFile(t, "profile.tsv", "ID\ts1\ts2\ts3\n"+
		"TP53\t1.5\t2\t-0.25\n"+
		"BRCA1\tNA\t3.5\t4\n")

	p, err := ReadProfile(path, DefaultProfileOptions())
	require.NoError(t, err)
	assert.Equal(t, core.GeneIDs("TP53", "BRCA1"), p.Genes())
	assert.Equal(t, core.SampleIDs("s1", "s2", "s3"), p.Samples())

	tp53, err := p.Get("TP53")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2, -0.25}, tp53)

	brca1, err := p.Get("BRCA1")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(brca1[0]))
}

func TestReadProfile_IDColumnNotFirst(t *testing.T) {
	path := writeFile(t, "profile.csv", "s1,gene,s2\n1,a,2\n3,b,4\n")

	p, err := ReadProfile(path, ProfileOptions{Sep: ",", IDColumn: "gene"})
	require.NoError(t, err)
	assert.Equal(t, core.SampleIDs("s1", "s2"), p.Samples())
	b, err := p.Get("b")
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, b)
}

func TestReadProfile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		opts    ProfileOptions
	}{
		{"header only", "ID\ts1\n", DefaultProfileOptions()},
		{"missing id column", "gene\ts1\na\t1\n", DefaultProfileOptions()},
		{"not a number", "ID\ts1\na\tx\n", DefaultProfileOptions()},
		{"ragged row", "ID\ts1\ts2\na\t1\n", DefaultProfileOptions()},
		{"duplicate gene", "ID\ts1\na\t1\na\t2\n", DefaultProfileOptions()},
		{"bad separator", "ID\ts1\na\t1\n", ProfileOptions{Sep: "::", IDColumn: "ID"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "p.tsv", tt.content)
			_, err := ReadProfile(path, tt.opts)
			assert.ErrorIs(t, err, core.ErrInvalidExpressionFile)
			assert.True(t, core.IsInputFileError(err))
		})
	}
}

func TestProfileRoundTrip_Gzip(t *testing.T) {
	p := testkit.DummyProfile()
	path := filepath.Join(t.TempDir(), "profile.tsv.gz")
	require.NoError(t, WriteProfile(path, p, DefaultProfileOptions()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1f, 0x8b}, raw[:2], "file should be gzip compressed")

	got, err := ReadProfile(path, DefaultProfileOptions())
	require.NoError(t, err)
	assert.Equal(t, p.Genes(), got.Genes())
	assert.Equal(t, p.Samples(), got.Samples())
	assert.Equal(t, p.Data(), got.Data())
}

func TestProfileRoundTrip_XLSX(t *testing.T) {
	p := testkit.DummyProfile()
	path := filepath.Join(t.TempDir(), "profile.xlsx")
	require.NoError(t, WriteProfileXLSX(path, p, "ID"))

	got, err := ReadProfile(path, DefaultProfileOptions())
	require.NoError(t, err)
	assert.Equal(t, p.Genes(), got.Genes())
	assert.Equal(t, p.Samples(), got.Samples())

	want := p.Data()
	data := got.Data()
	for i := range want {
		assert.InDeltaSlice(t, want[i], data[i], 1e-9)
	}
}

func TestReadContrast(t *testing.T) {
	path := writeFile(t, "contrast.txt", "c\td\tc\n\nd\tx\tc\n")

	c, err := ReadContrast(path, "c", "d", "\t")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d", "c", "d", "x", "c"}, c.Labels)
	assert.Equal(t, []int{0, 2, 5}, c.Ctrl)
	assert.Equal(t, []int{1, 3}, c.Case)
	assert.Equal(t, 6, c.Len())
}

func TestReadContrast_MissingControl(t *testing.T) {
	path := writeFile(t, "contrast.txt", "d\td\n")
	_, err := ReadContrast(path, "c", "d", "\t")
	assert.ErrorIs(t, err, core.ErrInvalidContrast)
}

func TestWriteContrast(t *testing.T) {
	c := SimulatedContrast(2, 3, "c", "d")
	assert.Equal(t, []int{0, 1}, c.Ctrl)
	assert.Equal(t, []int{2, 3, 4}, c.Case)

	path := filepath.Join(t.TempDir(), "sim.contrast.txt")
	require.NoError(t, WriteContrast(path, c, "\t"))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "c\tc\td\td\td\n", string(raw))

	back, err := ReadContrast(path, "c", "d", "\t")
	require.NoError(t, err)
	assert.Equal(t, c, back)
}

func TestReadFoldChanges(t *testing.T) {
	path := writeFile(t, "fc.tsv", "ID\tnote\tFCLower\tFCUpper\n"+
		"TP53\tx\t0.5\t1.5\n"+
		"BRCA1\ty\t-2\t-1\n")

	gfc, err := ReadFoldChanges(path, DefaultFoldChangeOptions())
	require.NoError(t, err)
	assert.Equal(t, expression.GeneFoldChanges{
		"TP53":  {Lower: 0.5, Upper: 1.5},
		"BRCA1": {Lower: -2, Upper: -1},
	}, gfc)
}

func TestReadFoldChanges_Errors(t *testing.T) {
	missing := writeFile(t, "fc.tsv", "ID\tlo\thi\na\t1\t2\n")
	_, err := ReadFoldChanges(missing, DefaultFoldChangeOptions())
	assert.ErrorIs(t, err, core.ErrInvalidFoldChangeFile)

	mixed := writeFile(t, "fc.tsv", "ID\tFCLower\tFCUpper\na\t-1\t2\n")
	_, err = ReadFoldChanges(mixed, DefaultFoldChangeOptions())
	assert.ErrorIs(t, err, core.ErrInvalidFoldChange)

	short := writeFile(t, "fc.tsv", "ID\tFCLower\tFCUpper\na\t1\n")
	_, err = ReadFoldChanges(short, DefaultFoldChangeOptions())
	assert.ErrorIs(t, err, core.ErrInvalidFoldChangeFile)
}

func TestFoldChangesRoundTrip(t *testing.T) {
	gfc := expression.GeneFoldChanges{"b": {Lower: 1, Upper: 2.5}, "a": {Lower: -3, Upper: -0.5}}
	path := filepath.Join(t.TempDir(), "fc.csv")
	opts := DefaultFoldChangeOptions()
	opts.Sep = ","
	require.NoError(t, WriteFoldChanges(path, gfc, opts))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "ID,FCLower,FCUpper\na,"))

	back, err := ReadFoldChanges(path, opts)
	require.NoError(t, err)
	assert.Equal(t, gfc, back)
}
