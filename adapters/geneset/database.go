// Package geneset reads GMT gene-set collections so that whole pathways can
// be requested for differential expression.
package geneset

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"math"
	"strings"

	"gosilver/adapters/tabular"
	"gosilver/domain/core"
	"gosilver/domain/expression"
)

// Geneset is one named gene list.
type Geneset struct {
	Name        string
	Description string
	Genes       []core.GeneID
}

// Database is an ordered collection of gene sets keyed by name.
type Database struct {
	order []string
	sets  map[string]Geneset
}

// NewDatabase builds a database keeping the given order. Later sets with a
// repeated name replace earlier ones in place.
func NewDatabase(sets ...Geneset) *Database {
	db := &Database{sets: make(map[string]Geneset, len(sets))}
	for _, gs := range sets {
		db.add(gs)
	}
	return db
}

func (db *Database) add(gs Geneset) {
	if _, ok := db.sets[gs.Name]; !ok {
		db.order = append(db.order, gs.Name)
	}
	db.sets[gs.Name] = gs
}

// ReadGMT reads a GMT file: name, description, then genes, tab separated.
func ReadGMT(path string) (*Database, error) {
	in, err := tabular.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	return ParseGMT(in)
}

// ParseGMT parses GMT content. Blank lines are skipped.
func ParseGMT(r io.Reader) (*Database, error) {
	db := NewDatabase()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		words := strings.Split(text, "\t")
		if len(words) < 2 {
			return nil, fmt.Errorf("%w: line %d needs a name and a description", core.ErrInvalidGenesetFile, line)
		}
		gs := Geneset{
			Name:        strings.TrimSpace(words[0]),
			Description: strings.TrimSpace(words[1]),
			Genes:       make([]core.GeneID, 0, len(words)-2),
		}
		for _, w := range words[2:] {
			if g := strings.TrimSpace(w); g != "" {
				gs.Genes = append(gs.Genes, core.GeneID(g))
			}
		}
		db.add(gs)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidGenesetFile, err)
	}
	return db, nil
}

// Len returns the number of gene sets.
func (db *Database) Len() int { return len(db.order) }

// Names returns gene set names in file order.
func (db *Database) Names() []string { return append([]string(nil), db.order...) }

// Get returns the named gene set.
func (db *Database) Get(name string) (Geneset, error) {
	gs, ok := db.sets[name]
	if !ok {
		return Geneset{}, fmt.Errorf("%w: gene set %s", core.ErrNotFound, name)
	}
	return gs, nil
}

// All iterates gene sets in file order.
func (db *Database) All() iter.Seq[Geneset] {
	return func(yield func(Geneset) bool) {
		for _, name := range db.order {
			if !yield(db.sets[name]) {
				return
			}
		}
	}
}

// Clean drops genes absent from background, then drops sets whose remaining
// size falls outside [minSize, maxSize]. A non-positive maxSize means no
// upper limit.
func (db *Database) Clean(background []core.GeneID, minSize, maxSize int) {
	known := make(map[core.GeneID]struct{}, len(background))
	for _, g := range background {
		known[g] = struct{}{}
	}
	limit := maxSize
	if limit <= 0 {
		limit = math.MaxInt
	}

	order := db.order[:0]
	for _, name := range db.order {
		gs := db.sets[name]
		kept := make([]core.GeneID, 0, len(gs.Genes))
		for _, g := range gs.Genes {
			if _, ok := known[g]; ok {
				kept = append(kept, g)
			}
		}
		if len(kept) < minSize || len(kept) > limit {
			delete(db.sets, name)
			continue
		}
		gs.Genes = kept
		db.sets[name] = gs
		order = append(order, name)
	}
	db.order = order
}

// FoldChanges requests every gene of the named set at interval fc.
func (db *Database) FoldChanges(name string, fc expression.FoldChange) (expression.GeneFoldChanges, error) {
	if err := fc.Validate(); err != nil {
		return nil, err
	}
	gs, err := db.Get(name)
	if err != nil {
		return nil, err
	}
	out := make(expression.GeneFoldChanges, len(gs.Genes))
	for _, g := range gs.Genes {
		out[g] = fc
	}
	return out, nil
}
