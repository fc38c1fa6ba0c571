package babybuddy

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/babybuddywidgets/bbclient/internal/domain"
)

// Kind identifies a resource collection endpoint.
type Kind string

// Supported resource kinds.
const (
	KindChildren          Kind = "children"
	KindSleep             Kind = "sleep"
	KindFeedings          Kind = "feedings"
	KindTummyTimes        Kind = "tummy-times"
	KindPumping           Kind = "pumping"
	KindChanges           Kind = "changes"
	KindNotes             Kind = "notes"
	KindTemperature       Kind = "temperature"
	KindWeight            Kind = "weight"
	KindHeight            Kind = "height"
	KindHeadCircumference Kind = "head-circumference"
	KindTimers            Kind = "timers"
)

// Scope keys: the query parameter that filters a collection to one parent.
const (
	ScopeKeyID    = "id"
	ScopeKeyChild = "child"
)

// Reserved pagination parameters. Filters may not use them.
const (
	paramOffset = "offset"
	paramLimit  = "limit"
)

// KindInfo describes how one kind is addressed on the server.
type KindInfo struct {
	Kind     Kind   `json:"kind"`
	Path     string `json:"path"`
	ScopeKey string `json:"scope_key"`
	// ScopeRequired is false for root listings, which may omit the scope value to list everything.
	ScopeRequired bool `json:"scope_required"`
}

// decodeFunc turns a list response body into page metadata and entries.
type decodeFunc func(body []byte) (envelopeMeta, []domain.Entry, error)

// decodeOneFunc turns a single-entry response body into an entry.
type decodeOneFunc func(body []byte) (domain.Entry, error)

type kindRow struct {
	KindInfo
	decode    decodeFunc
	decodeOne decodeOneFunc
	entryType reflect.Type
	// timed kinds can be created from a running timer.
	timed bool
}

func entryRow[T domain.Entry](info KindInfo) kindRow {
	return kindRow{
		KindInfo:  info,
		decode:    decodeEntries[T],
		decodeOne: decodeEntry[T],
		entryType: reflect.TypeFor[T](),
	}
}

func timedRow[T domain.Entry](info KindInfo) kindRow {
	row := entryRow[T](info)
	row.timed = true
	return row
}

// kindTable is the single source of truth for resource kinds.
// Adding a kind means adding a row here and nothing else.
var kindTable = []kindRow{
	entryRow[domain.Child](KindInfo{KindChildren, "children", ScopeKeyID, false}),
	timedRow[domain.Sleep](KindInfo{KindSleep, "sleep", ScopeKeyChild, true}),
	timedRow[domain.Feeding](KindInfo{KindFeedings, "feedings", ScopeKeyChild, true}),
	timedRow[domain.TummyTime](KindInfo{KindTummyTimes, "tummy-times", ScopeKeyChild, true}),
	timedRow[domain.Pumping](KindInfo{KindPumping, "pumping", ScopeKeyChild, true}),
	entryRow[domain.Change](KindInfo{KindChanges, "changes", ScopeKeyChild, true}),
	entryRow[domain.Note](KindInfo{KindNotes, "notes", ScopeKeyChild, true}),
	entryRow[domain.Temperature](KindInfo{KindTemperature, "temperature", ScopeKeyChild, true}),
	entryRow[domain.Weight](KindInfo{KindWeight, "weight", ScopeKeyChild, true}),
	entryRow[domain.Height](KindInfo{KindHeight, "height", ScopeKeyChild, true}),
	entryRow[domain.HeadCircumference](KindInfo{KindHeadCircumference, "head-circumference", ScopeKeyChild, true}),
	entryRow[domain.Timer](KindInfo{KindTimers, "timers", ScopeKeyChild, false}),
}

var kindIndex = func() map[Kind]*kindRow {
	m := make(map[Kind]*kindRow, len(kindTable))
	for i := range kindTable {
		row := &kindTable[i]
		if _, dup := m[row.Kind]; dup {
			panic("babybuddy: duplicate kind " + string(row.Kind))
		}
		m[row.Kind] = row
	}
	return m
}()

func lookup(k Kind) (*kindRow, bool) {
	row, ok := kindIndex[k]
	return row, ok
}

// Kinds returns every supported kind in table order.
func Kinds() []KindInfo {
	out := make([]KindInfo, len(kindTable))
	for i, row := range kindTable {
		out[i] = row.KindInfo
	}
	return out
}

// Info returns the addressing details of k.
func (k Kind) Info() (KindInfo, bool) {
	row, ok := lookup(k)
	if !ok {
		return KindInfo{}, false
	}
	return row.KindInfo, true
}

// Valid reports whether k is a supported kind.
func (k Kind) Valid() bool {
	_, ok := lookup(k)
	return ok
}

func (k Kind) String() string {
	return string(k)
}

// ParseKind resolves a kind from its name or path segment, ignoring case and slashes.
func ParseKind(s string) (Kind, error) {
	name := strings.Trim(strings.ToLower(strings.TrimSpace(s)), "/")
	for _, row := range kindTable {
		if string(row.Kind) == name || row.Path == name {
			return row.Kind, nil
		}
	}
	return "", fmt.Errorf("unknown resource kind %q", s)
}

// isReserved reports whether a filter name collides with pagination or the kind's scope key.
func (info KindInfo) isReserved(name string) bool {
	return name == paramOffset || name == paramLimit || name == info.ScopeKey
}

// TimerSource reports whether entries of k can be created from a timer.
func (k Kind) TimerSource() bool {
	row, ok := lookup(k)
	return ok && row.timed
}
