// Package domain contains the Baby Buddy records returned by the API.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Entry is one record of any resource kind.
// Every entry has a numeric identifier unique within its kind.
type Entry interface {
	EntryID() int
	fmt.Stringer
}

// Child is a tracked child. Children are the parent entity of every other kind.
type Child struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BirthDate Date   `json:"birth_date"`
	Slug      string `json:"slug"`
	Picture   string `json:"picture,omitempty"`
}

// EntryID implements Entry.
func (c Child) EntryID() int { return c.ID }

// FullName joins first and last name.
func (c Child) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

func (c Child) String() string {
	return fmt.Sprintf("%s (born %s)", c.FullName(), c.BirthDate)
}

// Timer is a running or stopped stopwatch on the server.
// Child is nil for timers not bound to a child.
type Timer struct {
	ID     int        `json:"id"`
	Child  *int       `json:"child"`
	Name   string     `json:"name"`
	Start  time.Time  `json:"start"`
	End    *time.Time `json:"end"`
	Active bool       `json:"active"`
	User   int        `json:"user"`
}

// EntryID implements Entry.
func (t Timer) EntryID() int { return t.ID }

// ReadableName returns the timer name, or a generated one for unnamed timers.
func (t Timer) ReadableName() string {
	if t.Name != "" {
		return t.Name
	}
	return fmt.Sprintf("Quick timer #%d", t.ID)
}

// Elapsed returns the timer duration measured against now for running timers.
// now should be server time, see transport.HTTP.ServerNow.
func (t Timer) Elapsed(now time.Time) time.Duration {
	if t.End != nil {
		return t.End.Sub(t.Start)
	}
	return now.Sub(t.Start)
}

func (t Timer) String() string {
	state := "stopped"
	if t.Active {
		state = "active"
	}
	return fmt.Sprintf("%s since %s (%s)", t.ReadableName(), t.Start.Format(time.RFC3339), state)
}
