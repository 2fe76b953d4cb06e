// Package report collects per-item batch outcomes so callers can decide
// whether partial failure is acceptable instead of scraping logs.
package report

import (
	"fmt"
	"strings"
)

// Item is the outcome of processing a single unit (one document, one
// upsert chunk).
type Item struct {
	Key    string // Slug, filename or chunk label
	Err    error  // Nil on success
	Reason string // Short human explanation when Err is set
}

// OK reports whether the item succeeded.
func (i Item) OK() bool { return i.Err == nil }

// Batch accumulates item outcomes for one run.
type Batch struct {
	Name  string
	Items []Item
}

// New returns an empty batch report.
func New(name string) *Batch {
	return &Batch{Name: name}
}

// Success records a succeeded item.
func (b *Batch) Success(key string) {
	b.Items = append(b.Items, Item{Key: key})
}

// Failure records a failed item with its reason.
func (b *Batch) Failure(key string, err error, reason string) {
	b.Items = append(b.Items, Item{Key: key, Err: err, Reason: reason})
}

// Succeeded returns the count of successful items.
func (b *Batch) Succeeded() int {
	n := 0
	for _, i := range b.Items {
		if i.OK() {
			n++
		}
	}
	return n
}

// Failed returns the failed items.
func (b *Batch) Failed() []Item {
	var out []Item
	for _, i := range b.Items {
		if !i.OK() {
			out = append(out, i)
		}
	}
	return out
}

// Summary renders a one-line aggregate plus one line per failure.
func (b *Batch) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d ok, %d failed of %d",
		b.Name, b.Succeeded(), len(b.Failed()), len(b.Items))
	for _, f := range b.Failed() {
		fmt.Fprintf(&sb, "\n  %s: %s (%v)", f.Key, f.Reason, f.Err)
	}
	return sb.String()
}
