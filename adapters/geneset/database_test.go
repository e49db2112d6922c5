package geneset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gosilver/domain/core"
	"gosilver/domain/expression"
)

const dummyGMT = "Geneset1\tfirst geneset\tgene4\tgene5\tgene2\n" +
	"\n" +
	"Geneset2\tsecond geneset\tgene1\tgene3\tgene2\tgene4\tgene5\n"

func TestParseGMT(t *testing.T) {
	db, err := ParseGMT(strings.NewReader(dummyGMT))
	require.NoError(t, err)

	assert.Equal(t, []string{"Geneset1", "Geneset2"}, db.Names())
	gs, err := db.Get("Geneset1")
	require.NoError(t, err)
	assert.Equal(t, "first geneset", gs.Description)
	assert.Equal(t, core.GeneIDs("gene4", "gene5", "gene2"), gs.Genes)

	var names []string
	for gs := range db.All() {
		names = append(names, gs.Name)
	}
	assert.Equal(t, db.Names(), names)
}

func TestParseGMT_Invalid(t *testing.T) {
	_, err := ParseGMT(strings.NewReader("lonely\n"))
	assert.ErrorIs(t, err, core.ErrInvalidGenesetFile)
}

func TestReadGMT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sets.gmt")
	require.NoError(t, os.WriteFile(path, []byte(dummyGMT), 0o644))

	db, err := ReadGMT(path)
	require.NoError(t, err)
	assert.Equal(t, 2, db.Len())
}

func TestClean(t *testing.T) {
	db, err := ParseGMT(strings.NewReader(dummyGMT))
	require.NoError(t, err)
	background := core.GeneIDs("gene1", "gene2", "gene3", "gene4")

	db.Clean(background, 1, 0)
	gs1, err := db.Get("Geneset1")
	require.NoError(t, err)
	assert.Equal(t, core.GeneIDs("gene4", "gene2"), gs1.Genes)
	gs2, err := db.Get("Geneset2")
	require.NoError(t, err)
	assert.Equal(t, core.GeneIDs("gene1", "gene3", "gene2", "gene4"), gs2.Genes)

	db.Clean(background, 3, 0)
	_, err = db.Get("Geneset1")
	assert.True(t, core.IsNotFound(err))
	assert.Equal(t, []string{"Geneset2"}, db.Names())

	db.Clean(background, 1, 3)
	assert.Equal(t, 0, db.Len())
}

func TestFoldChanges(t *testing.T) {
	db, err := ParseGMT(strings.NewReader(dummyGMT))
	require.NoError(t, err)
	fc := expression.FoldChange{Lower: 1, Upper: 2}

	gfc, err := db.FoldChanges("Geneset1", fc)
	require.NoError(t, err)
	assert.Equal(t, expression.GeneFoldChanges{"gene4": fc, "gene5": fc, "gene2": fc}, gfc)

	_, err = db.FoldChanges("missing", fc)
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = db.FoldChanges("Geneset1", expression.FoldChange{Lower: -1, Upper: 1})
	assert.ErrorIs(t, err, core.ErrInvalidFoldChange)
}
