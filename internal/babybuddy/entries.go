package babybuddy

import (
	"context"
	"net/http"
	"net/url"
	"reflect"

	"github.com/babybuddywidgets/bbclient/internal/domain"
	domainerrors "github.com/babybuddywidgets/bbclient/internal/errors"
)

// GetEntry returns entry id of kind.
func (c *Client) GetEntry(ctx context.Context, kind Kind, id int) (domain.Entry, error) {
	const op = "getEntry"

	row, err := c.checkEntryRef(kind, id)
	if err != nil {
		return nil, &Error{Op: op, Kind: kind, ID: id, Err: err}
	}
	entry, err := c.exchangeEntry(ctx, row, http.MethodGet, c.entryURL(row, id), nil)
	if err != nil {
		return nil, &Error{Op: op, Kind: kind, ID: id, Err: err}
	}
	return entry, nil
}

// GetEntryOf is GetEntry for callers that know the entry type of kind.
func GetEntryOf[T domain.Entry](ctx context.Context, c *Client, kind Kind, id int) (T, error) {
	var zero T
	if err := checkEntryType[T](kind); err != nil {
		return zero, &Error{Op: "getEntry", Kind: kind, ID: id, Err: err}
	}
	entry, err := c.GetEntry(ctx, kind, id)
	if err != nil {
		return zero, err
	}
	typed, ok := entry.(T)
	if !ok {
		return zero, &Error{Op: "getEntry", Kind: kind, ID: id, Err: domainerrors.Decodef(
			"%s entry is not %s", kind, reflect.TypeFor[T]())}
	}
	return typed, nil
}

// CreateEntry posts a new entry of kind and returns it as stored by the server.
func (c *Client) CreateEntry(ctx context.Context, kind Kind, fields Fields) (domain.Entry, error) {
	const op = "createEntry"

	row, err := c.checkWrite(kind, fields)
	if err != nil {
		return nil, &Error{Op: op, Kind: kind, Err: err}
	}
	entry, err := c.exchangeEntry(ctx, row, http.MethodPost, c.base.JoinPath(row.Path+"/"), fields)
	if err != nil {
		return nil, &Error{Op: op, Kind: kind, Err: err}
	}
	return entry, nil
}

// UpdateEntry patches entry id of kind with fields and returns the updated entry.
// Members not in fields keep their values.
func (c *Client) UpdateEntry(ctx context.Context, kind Kind, id int, fields Fields) (domain.Entry, error) {
	const op = "updateEntry"

	row, err := c.checkEntryRef(kind, id)
	if err == nil {
		err = checkFields(fields)
	}
	if err != nil {
		return nil, &Error{Op: op, Kind: kind, ID: id, Err: err}
	}
	entry, err := c.exchangeEntry(ctx, row, http.MethodPatch, c.entryURL(row, id), fields)
	if err != nil {
		return nil, &Error{Op: op, Kind: kind, ID: id, Err: err}
	}
	return entry, nil
}

func (c *Client) checkWrite(kind Kind, fields Fields) (*kindRow, error) {
	if err := c.validate.Validate(CreateRequest{Kind: kind}); err != nil {
		return nil, err
	}
	row, ok := lookup(kind)
	if !ok {
		return nil, domainerrors.Validationf("unknown resource kind %q", kind)
	}
	if err := checkFields(fields); err != nil {
		return nil, err
	}
	return row, nil
}

// exchangeEntry performs one exchange whose response is a single entry of row's kind.
func (c *Client) exchangeEntry(ctx context.Context, row *kindRow, method string, u *url.URL, payload any) (domain.Entry, error) {
	body, err := c.do(ctx, method, u, payload)
	if err != nil {
		return nil, err
	}
	entry, err := row.decodeOne(body)
	if err != nil {
		return nil, domainerrors.Decode("decode "+row.Path+" entry", err)
	}
	return entry, nil
}

// checkEntryType rejects kinds whose entries are not T.
func checkEntryType[T domain.Entry](kind Kind) error {
	row, ok := lookup(kind)
	if ok && row.entryType != reflect.TypeFor[T]() {
		return domainerrors.Validationf("%s entries are %s, not %s", kind, row.entryType, reflect.TypeFor[T]())
	}
	return nil
}
