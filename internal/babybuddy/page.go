package babybuddy

import (
	"encoding/json/v2"
	"fmt"

	"github.com/babybuddywidgets/bbclient/internal/domain"
)

// MaxLimit is the largest page size the server accepts.
const MaxLimit = 1000

// Page is one bounded slice of a collection.
// Entries keep the order the server returned them in.
type Page[T any] struct {
	Kind    Kind `json:"kind"`
	Entries []T  `json:"entries"`
	Offset  int  `json:"offset"`
	Total   int  `json:"total"`    // entries available server-side for this query
	HasMore bool `json:"has_more"` // further pages exist after this one
}

// NextOffset returns the offset of the page following this one.
func (p *Page[T]) NextOffset() int {
	return p.Offset + len(p.Entries)
}

// Len returns the number of entries in the page.
func (p *Page[T]) Len() int {
	return len(p.Entries)
}

// envelopeMeta is the pagination metadata of a list response.
type envelopeMeta struct {
	Count int
	Next  *string
}

// listEnvelope is the wire shape of every list response.
// Pointers distinguish missing members from empty ones.
type listEnvelope[T any] struct {
	Count    *int    `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  *[]T    `json:"results"`
}

// decodeEntries decodes a list response whose results are of entry type T.
func decodeEntries[T domain.Entry](body []byte) (envelopeMeta, []domain.Entry, error) {
	var env listEnvelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return envelopeMeta{}, nil, fmt.Errorf("parse list response: %w", err)
	}
	if env.Count == nil {
		return envelopeMeta{}, nil, fmt.Errorf("list response has no count")
	}
	if env.Results == nil {
		return envelopeMeta{}, nil, fmt.Errorf("list response has no results")
	}
	if *env.Count < 0 {
		return envelopeMeta{}, nil, fmt.Errorf("list response has negative count %d", *env.Count)
	}

	results := *env.Results
	entries := make([]domain.Entry, len(results))
	for i := range results {
		entries[i] = results[i]
	}
	return envelopeMeta{Count: *env.Count, Next: env.Next}, entries, nil
}

// decodeEntry decodes a single entry of type T, as returned by detail,
// create and update responses.
func decodeEntry[T domain.Entry](body []byte) (domain.Entry, error) {
	var entry T
	if err := json.Unmarshal(body, &entry); err != nil {
		return nil, fmt.Errorf("parse entry: %w", err)
	}
	if entry.EntryID() <= 0 {
		return nil, fmt.Errorf("entry has no id")
	}
	return entry, nil
}

// pageOf converts a page of generic entries to a page of T.
// ok is false if any entry is not a T.
func pageOf[T domain.Entry](p *Page[domain.Entry]) (*Page[T], bool) {
	entries := make([]T, len(p.Entries))
	for i, e := range p.Entries {
		typed, ok := e.(T)
		if !ok {
			return nil, false
		}
		entries[i] = typed
	}
	return &Page[T]{
		Kind:    p.Kind,
		Entries: entries,
		Offset:  p.Offset,
		Total:   p.Total,
		HasMore: p.HasMore,
	}, true
}
