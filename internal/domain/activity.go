package domain

import (
	"fmt"
	"time"
)

// Interval holds the fields shared by timed activities.
type Interval struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Duration Duration  `json:"duration"`
}

func (i Interval) String() string {
	return fmt.Sprintf("%s for %s", i.Start.Format(time.RFC3339), i.Duration)
}

// Sleep is one sleep session.
type Sleep struct {
	ID    int `json:"id"`
	Child int `json:"child"`

	Interval `json:",inline"`

	Nap   bool     `json:"nap"`
	Notes string   `json:"notes"`
	Tags  []string `json:"tags,omitempty"`
}

// EntryID implements Entry.
func (s Sleep) EntryID() int { return s.ID }

func (s Sleep) String() string {
	kind := "sleep"
	if s.Nap {
		kind = "nap"
	}
	return fmt.Sprintf("%s %s", kind, s.Interval)
}

// Feeding is one feeding session.
type Feeding struct {
	ID    int `json:"id"`
	Child int `json:"child"`

	Interval `json:",inline"`

	Type   FeedingType   `json:"type"`
	Method FeedingMethod `json:"method"`
	Amount *float64      `json:"amount"`
	Notes  string        `json:"notes"`
	Tags   []string      `json:"tags,omitempty"`
}

// EntryID implements Entry.
func (f Feeding) EntryID() int { return f.ID }

func (f Feeding) String() string {
	s := fmt.Sprintf("%s via %s %s", f.Type, f.Method, f.Interval)
	if f.Amount != nil {
		s += fmt.Sprintf(" amount %.1f", *f.Amount)
	}
	return s
}

// TummyTime is one tummy time session.
type TummyTime struct {
	ID    int `json:"id"`
	Child int `json:"child"`

	Interval `json:",inline"`

	Milestone string   `json:"milestone"`
	Tags      []string `json:"tags,omitempty"`
}

// EntryID implements Entry.
func (t TummyTime) EntryID() int { return t.ID }

func (t TummyTime) String() string {
	if t.Milestone != "" {
		return fmt.Sprintf("tummy time %s: %s", t.Interval, t.Milestone)
	}
	return "tummy time " + t.Interval.String()
}

// Pumping is one breast pumping session.
type Pumping struct {
	ID    int `json:"id"`
	Child int `json:"child"`

	Interval `json:",inline"`

	Amount float64  `json:"amount"`
	Notes  string   `json:"notes"`
	Tags   []string `json:"tags,omitempty"`
}

// EntryID implements Entry.
func (p Pumping) EntryID() int { return p.ID }

func (p Pumping) String() string {
	return fmt.Sprintf("pumped %.1f %s", p.Amount, p.Interval)
}
