package domain

import "fmt"

// Weight is a weight measurement.
type Weight struct {
	ID     int      `json:"id"`
	Child  int      `json:"child"`
	Weight float64  `json:"weight"`
	Date   Date     `json:"date"`
	Notes  string   `json:"notes"`
	Tags   []string `json:"tags,omitempty"`
}

// EntryID implements Entry.
func (w Weight) EntryID() int { return w.ID }

func (w Weight) String() string {
	return fmt.Sprintf("weight %.2f on %s", w.Weight, w.Date)
}

// Height is a height measurement.
type Height struct {
	ID     int      `json:"id"`
	Child  int      `json:"child"`
	Height float64  `json:"height"`
	Date   Date     `json:"date"`
	Notes  string   `json:"notes"`
	Tags   []string `json:"tags,omitempty"`
}

// EntryID implements Entry.
func (h Height) EntryID() int { return h.ID }

func (h Height) String() string {
	return fmt.Sprintf("height %.1f on %s", h.Height, h.Date)
}

// HeadCircumference is a head circumference measurement.
type HeadCircumference struct {
	ID                int      `json:"id"`
	Child             int      `json:"child"`
	HeadCircumference float64  `json:"head_circumference"`
	Date              Date     `json:"date"`
	Notes             string   `json:"notes"`
	Tags              []string `json:"tags,omitempty"`
}

// EntryID implements Entry.
func (h HeadCircumference) EntryID() int { return h.ID }

func (h HeadCircumference) String() string {
	return fmt.Sprintf("head circumference %.1f on %s", h.HeadCircumference, h.Date)
}
