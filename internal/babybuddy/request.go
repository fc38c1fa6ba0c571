package babybuddy

import (
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/babybuddywidgets/bbclient/internal/domain"
	domainerrors "github.com/babybuddywidgets/bbclient/internal/errors"
)

// QueryTimeLayout is the layout of date-time filter values. Values are sent in UTC.
const QueryTimeLayout = "2006-01-02T15:04:05"

// Filters maps extra query parameter names to values.
// The With* methods return extended copies, so a Filters value can be shared.
type Filters map[string]string

// With returns a copy of f with name set to value.
func (f Filters) With(name, value string) Filters {
	out := make(Filters, len(f)+1)
	maps.Copy(out, f)
	out[name] = value
	return out
}

// WithInt returns a copy of f with name set to the decimal value.
func (f Filters) WithInt(name string, value int) Filters {
	return f.With(name, strconv.Itoa(value))
}

// WithTime returns a copy of f with name set to t in UTC, second precision.
func (f Filters) WithTime(name string, t time.Time) Filters {
	return f.With(name, t.UTC().Format(QueryTimeLayout))
}

// WithDate returns a copy of f with name set to the calendar date of t.
func (f Filters) WithDate(name string, t time.Time) Filters {
	return f.With(name, t.Format(domain.DateLayout))
}

// Names returns the filter names, sorted.
func (f Filters) Names() []string {
	return slices.Sorted(maps.Keys(f))
}

// PageRequest asks for one page of a kind's collection.
type PageRequest struct {
	Kind Kind `json:"kind" validate:"required,resourcekind"`
	// ParentID is the value bound to the kind's scope key. 0 leaves the scope
	// unset, which only root kinds (children, timers) accept.
	ParentID int     `json:"parent_id" validate:"gte=0"`
	Offset   int     `json:"offset" validate:"gte=0"`
	Limit    int     `json:"limit" validate:"gt=0,lte=1000"`
	Filters  Filters `json:"filters,omitempty"`
}

// EntryRef identifies one entry of a kind.
type EntryRef struct {
	Kind Kind `json:"kind" validate:"required,resourcekind"`
	ID   int  `json:"id" validate:"gt=0"`
}

// checkPage runs the cross-field rules the struct tags cannot express.
func checkPage(info KindInfo, req PageRequest) error {
	if info.ScopeRequired && req.ParentID == 0 {
		return domainerrors.ValidationWithDetails(
			"validation failed: parent_id is required for "+string(info.Kind),
			map[string]string{"parent_id": "is required"},
		)
	}

	var reserved []string
	for _, name := range req.Filters.Names() {
		if info.isReserved(name) {
			reserved = append(reserved, name)
		}
	}
	if len(reserved) > 0 {
		details := make(map[string]string, len(reserved))
		for _, name := range reserved {
			details[name] = "is reserved"
		}
		return domainerrors.ValidationWithDetails(
			"validation failed: filters may not set reserved parameters "+joinQuoted(reserved),
			details,
		)
	}
	return nil
}

// CreateRequest names the kind a new entry is created in.
type CreateRequest struct {
	Kind Kind `json:"kind" validate:"required,resourcekind"`
}

// Fields are the JSON members of a create or update body.
type Fields map[string]any

// readOnlyFields are assigned by the server and never sent.
var readOnlyFields = []string{"id"}

// checkFields rejects empty bodies and bodies that set server-assigned members.
func checkFields(fields Fields) error {
	if len(fields) == 0 {
		return domainerrors.Validation("validation failed: no fields given")
	}
	details := make(map[string]string)
	for _, name := range readOnlyFields {
		if _, ok := fields[name]; ok {
			details[name] = "is read-only"
		}
	}
	if len(details) > 0 {
		return domainerrors.ValidationWithDetails(
			"validation failed: fields may not set "+joinQuoted(slices.Sorted(maps.Keys(details))),
			details,
		)
	}
	return nil
}

func joinQuoted(names []string) string {
	s := ""
	for i, n := range names {
		if i > 0 {
			s += ", "
		}
		s += strconv.Quote(n)
	}
	return s
}
