package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEntry_String(t *testing.T) {
	start := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
	interval := Interval{Start: start, End: start.Add(20 * time.Minute), Duration: Duration(20 * time.Minute)}
	amount := 90.0

	tests := []struct {
		name  string
		entry Entry
		want  string
	}{
		{"child", Child{FirstName: "Ada", LastName: "Lovelace", BirthDate: Date{Time: start}}, "Ada Lovelace (born 2024-05-01)"},
		{"nap", Sleep{Interval: interval, Nap: true}, "nap 2024-05-01T06:00:00Z for 00:20:00"},
		{"feeding with amount", Feeding{Interval: interval, Type: FeedingTypeFormula, Method: FeedingMethodBottle, Amount: &amount},
			"formula via bottle 2024-05-01T06:00:00Z for 00:20:00 amount 90.0"},
		{"dry change", Change{Time: start}, "change dry at 2024-05-01T06:00:00Z"},
		{"wet and solid change", Change{Time: start, Wet: true, Solid: true}, "change wet+solid at 2024-05-01T06:00:00Z"},
		{"weight", Weight{Weight: 4.25, Date: Date{Time: start}}, "weight 4.25 on 2024-05-01"},
		{"unnamed timer", Timer{ID: 3, Start: start, Active: true}, "Quick timer #3 since 2024-05-01T06:00:00Z (active)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.String())
		})
	}
}

func TestTimer_Elapsed(t *testing.T) {
	start := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
	now := start.Add(time.Hour)

	running := Timer{Start: start, Active: true}
	assert.Equal(t, time.Hour, running.Elapsed(now))

	end := start.Add(10 * time.Minute)
	stopped := Timer{Start: start, End: &end}
	assert.Equal(t, 10*time.Minute, stopped.Elapsed(now))
}

func TestFeedingMethod_Breast(t *testing.T) {
	assert.True(t, FeedingMethodLeftBreast.Breast())
	assert.True(t, FeedingMethodBothBreasts.Breast())
	assert.False(t, FeedingMethodBottle.Breast())
	assert.False(t, FeedingMethod("spoon").Valid())
	assert.True(t, FeedingTypeSolidFood.Valid())
}
