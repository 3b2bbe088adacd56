package mapping

import (
	"fmt"
	"sort"
)

// Vocabulary names the wire vocabulary a raw point was reported in.
type Vocabulary string

const (
	VocabularyVSN300 Vocabulary = "vsn300"
	VocabularyVSN700 Vocabulary = "vsn700"
)

// Valid reports whether v is a known vocabulary.
func (v Vocabulary) Valid() bool {
	return v == VocabularyVSN300 || v == VocabularyVSN700
}

// Table is the frozen canonical mapping table. It is built once from a
// resolved entry list, validated, indexed, and never mutated afterwards, so
// concurrent readers need no locking.
type Table struct {
	entries  []CanonicalMappingEntry
	byName   map[string]int
	byVSN300 map[string]int
	byVSN700 map[string]int
}

// NewTable builds a table from resolved entries, enforcing canonical-name
// uniqueness and the non-empty-models invariant. Entries are sorted by
// canonical name so two tables built from the same set compare equal.
func NewTable(entries []CanonicalMappingEntry) (*Table, error) {
	sorted := make([]CanonicalMappingEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CanonicalName < sorted[j].CanonicalName
	})

	t := &Table{
		entries:  sorted,
		byName:   make(map[string]int, len(sorted)),
		byVSN300: make(map[string]int),
		byVSN700: make(map[string]int),
	}
	for i, e := range sorted {
		if err := e.Validate(); err != nil {
			return nil, err
		}
		if _, dup := t.byName[e.CanonicalName]; dup {
			return nil, fmt.Errorf("mapping table: duplicate canonical name %q", e.CanonicalName)
		}
		t.byName[e.CanonicalName] = i
		if e.VSN300Name != "" {
			if _, dup := t.byVSN300[e.VSN300Name]; dup {
				return nil, fmt.Errorf("mapping table: VSN300 name %q mapped twice", e.VSN300Name)
			}
			t.byVSN300[e.VSN300Name] = i
		}
		if e.VSN700Name != "" {
			if _, dup := t.byVSN700[e.VSN700Name]; dup {
				return nil, fmt.Errorf("mapping table: VSN700 name %q mapped twice", e.VSN700Name)
			}
			t.byVSN700[e.VSN700Name] = i
		}
	}
	return t, nil
}

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.entries) }

// Entries returns a copy of the entry list in canonical-name order.
func (t *Table) Entries() []CanonicalMappingEntry {
	out := make([]CanonicalMappingEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// ByCanonical looks up an entry by canonical name.
func (t *Table) ByCanonical(name string) (CanonicalMappingEntry, bool) {
	i, ok := t.byName[name]
	if !ok {
		return CanonicalMappingEntry{}, false
	}
	return t.entries[i], true
}

// ByVendorName looks up an entry by its wire name in the given vocabulary.
func (t *Table) ByVendorName(vocab Vocabulary, name string) (CanonicalMappingEntry, bool) {
	var idx map[string]int
	switch vocab {
	case VocabularyVSN300:
		idx = t.byVSN300
	case VocabularyVSN700:
		idx = t.byVSN700
	default:
		return CanonicalMappingEntry{}, false
	}
	i, ok := idx[name]
	if !ok {
		return CanonicalMappingEntry{}, false
	}
	return t.entries[i], true
}
