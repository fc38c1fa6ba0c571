package domain

import (
	"fmt"
	"strings"
	"time"
)

// Change is one diaper change.
type Change struct {
	ID     int       `json:"id"`
	Child  int       `json:"child"`
	Time   time.Time `json:"time"`
	Wet    bool      `json:"wet"`
	Solid  bool      `json:"solid"`
	Color  string    `json:"color"`
	Amount *float64  `json:"amount"`
	Notes  string    `json:"notes"`
	Tags   []string  `json:"tags,omitempty"`
}

// EntryID implements Entry.
func (c Change) EntryID() int { return c.ID }

func (c Change) String() string {
	var what []string
	if c.Wet {
		what = append(what, "wet")
	}
	if c.Solid {
		what = append(what, "solid")
	}
	if len(what) == 0 {
		what = append(what, "dry")
	}
	return fmt.Sprintf("change %s at %s", strings.Join(what, "+"), c.Time.Format(time.RFC3339))
}

// Note is a free text note.
type Note struct {
	ID    int       `json:"id"`
	Child int       `json:"child"`
	Note  string    `json:"note"`
	Image string    `json:"image,omitempty"`
	Time  time.Time `json:"time"`
	Tags  []string  `json:"tags,omitempty"`
}

// EntryID implements Entry.
func (n Note) EntryID() int { return n.ID }

func (n Note) String() string {
	return fmt.Sprintf("note at %s: %s", n.Time.Format(time.RFC3339), n.Note)
}

// Temperature is a body temperature reading.
type Temperature struct {
	ID          int       `json:"id"`
	Child       int       `json:"child"`
	Temperature float64   `json:"temperature"`
	Time        time.Time `json:"time"`
	Notes       string    `json:"notes"`
	Tags        []string  `json:"tags,omitempty"`
}

// EntryID implements Entry.
func (t Temperature) EntryID() int { return t.ID }

func (t Temperature) String() string {
	return fmt.Sprintf("temperature %.1f at %s", t.Temperature, t.Time.Format(time.RFC3339))
}
