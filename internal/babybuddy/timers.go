package babybuddy

import (
	"context"
	"maps"
	"net/http"
	"strconv"
	"time"

	"github.com/babybuddywidgets/bbclient/internal/domain"
	domainerrors "github.com/babybuddywidgets/bbclient/internal/errors"
)

// WriteTimeLayout is the layout of date-time values in request bodies. Values are sent in UTC.
const WriteTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTime formats t for a request body.
func FormatTime(t time.Time) string {
	return t.UTC().Format(WriteTimeLayout)
}

// StartTimer creates a running timer named name starting at start.
// childID 0 creates a timer not bound to a child.
func (c *Client) StartTimer(ctx context.Context, childID int, name string, start time.Time) (*domain.Timer, error) {
	fields := Fields{"name": name, "start": FormatTime(start)}
	if childID > 0 {
		fields["child"] = childID
	}
	entry, err := c.CreateEntry(ctx, KindTimers, fields)
	if err != nil {
		return nil, err
	}
	timer := entry.(domain.Timer)
	return &timer, nil
}

// GetTimer returns timer id.
func (c *Client) GetTimer(ctx context.Context, id int) (*domain.Timer, error) {
	timer, err := GetEntryOf[domain.Timer](ctx, c, KindTimers, id)
	if err != nil {
		return nil, err
	}
	return &timer, nil
}

// SetTimerActive stops timer id, or restarts it from the current server time.
func (c *Client) SetTimerActive(ctx context.Context, id int, active bool) (*domain.Timer, error) {
	const op = "setTimerActive"

	row, err := c.checkEntryRef(KindTimers, id)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindTimers, ID: id, Err: err}
	}

	action := "stop/"
	if active {
		action = "restart/"
	}
	u := c.base.JoinPath(row.Path, strconv.Itoa(id), action)
	entry, err := c.exchangeEntry(ctx, row, http.MethodPatch, u, nil)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindTimers, ID: id, Err: err}
	}
	timer := entry.(domain.Timer)
	return &timer, nil
}

// CreateFromTimer creates an entry of a timed kind (sleep, feedings,
// tummy-times, pumping) whose start and end come from timer timerID.
// The server consumes the timer. fields carries the kind's other members.
func (c *Client) CreateFromTimer(ctx context.Context, kind Kind, timerID int, fields Fields) (domain.Entry, error) {
	const op = "createFromTimer"

	if kind.Valid() && !kind.TimerSource() {
		return nil, &Error{Op: op, Kind: kind, ID: timerID, Err: domainerrors.Validationf(
			"%s entries cannot be created from a timer", kind)}
	}
	if timerID <= 0 {
		return nil, &Error{Op: op, Kind: kind, ID: timerID, Err: domainerrors.ValidationWithDetails(
			"validation failed: timer must be positive", map[string]string{"timer": "must be positive"})}
	}

	body := make(Fields, len(fields)+1)
	maps.Copy(body, fields)
	body["timer"] = timerID
	return c.CreateEntry(ctx, kind, body)
}
