// Package classify maps inbound message text onto an obligation category
// by ordered tag matching. The table is data, not branching logic, so new
// tags are a one-line change.
package classify

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Category is an obligation category with its own ledger partition
type Category string

const (
	// CategoryReport is the daily work report
	CategoryReport Category = "report"
	// CategoryConclusion is the daily conclusions post
	CategoryConclusion Category = "conclusion"
	// CategorySlice is the daily status slice
	CategorySlice Category = "slice"
)

// All lists the categories in their canonical matching order
// An event matching several tag sets files under the first match only.
func All() []Category {
	return []Category{CategoryReport, CategoryConclusion, CategorySlice}
}

// Valid reports whether c is a known category
func Valid(c Category) bool {
	switch c {
	case CategoryReport, CategoryConclusion, CategorySlice:
		return true
	}
	return false
}

// KeepsPayload reports whether submissions in c retain the raw text for
// digest rendering
func KeepsPayload(c Category) bool {
	return c == CategoryConclusion || c == CategorySlice
}

// rule binds one category to its trigger substrings (already folded)
type rule struct {
	cat  Category
	tags []string
}

// Table is an ordered tag-matching table
type Table struct {
	rules []rule
}

// DefaultTags is the deployed tag set per category, checked in order
var DefaultTags = map[Category][]string{
	CategoryReport:     {"#отчет", "#отчёт", "#report"},
	CategoryConclusion: {"#вывод", "#выводы", "#conclusion"},
	CategorySlice:      {"#срез", "#срезы", "#slice"},
}

// foldPool holds transformer chains for unicode-aware case folding
// Cyrillic tags must match regardless of case, which strings.ToLower alone
// does not guarantee across all scripts.
var foldPool = sync.Pool{
	New: func() any {
		return transform.Chain(norm.NFC, cases.Fold())
	},
}

func fold(s string) string {
	tr := foldPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	foldPool.Put(tr)
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// NewTable builds a matching table from a category->tags map, preserving the
// canonical category order; categories absent from tags are skipped
func NewTable(tags map[Category][]string) *Table {
	t := &Table{}
	for _, cat := range All() {
		raw := tags[cat]
		if len(raw) == 0 {
			continue
		}
		folded := make([]string, 0, len(raw))
		for _, tag := range raw {
			if tag = strings.TrimSpace(tag); tag != "" {
				folded = append(folded, fold(tag))
			}
		}
		t.rules = append(t.rules, rule{cat: cat, tags: folded})
	}
	return t
}

// Default returns the table with the deployed tag set
func Default() *Table { return NewTable(DefaultTags) }

// Classify returns the first category whose tag set matches text, or ok=false
// Matching is case-insensitive substring containment over folded text.
func (t *Table) Classify(text string) (Category, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	folded := fold(text)
	for _, r := range t.rules {
		for _, tag := range r.tags {
			if strings.Contains(folded, tag) {
				return r.cat, true
			}
		}
	}
	return "", false
}
