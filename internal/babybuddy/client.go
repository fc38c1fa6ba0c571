// Package babybuddy lists, filters, reads, writes and deletes Baby Buddy
// entries of every resource kind through one table-driven protocol.
//
// The client keeps no state between calls. Each call performs exactly one
// HTTP exchange through the transport it was built with and either returns
// decoded entries or a coded failure from the errors package.
package babybuddy

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/babybuddywidgets/bbclient/internal/domain"
	domainerrors "github.com/babybuddywidgets/bbclient/internal/errors"
	"github.com/babybuddywidgets/bbclient/internal/transport"
	"github.com/babybuddywidgets/bbclient/internal/validation"
)

const (
	apiPrefix   = "api"
	profilePath = "profile"

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 32 << 20
)

// Client talks to one Baby Buddy server.
// It is safe for concurrent use if its transport is.
type Client struct {
	base     *url.URL
	doer     transport.Doer
	validate *validation.Validator
}

// New creates a client for the server at serverURL, e.g. "https://baby.example.com".
// Requests go to serverURL + "/api" through doer.
func New(serverURL string, doer transport.Doer) (*Client, error) {
	if doer == nil {
		return nil, domainerrors.Validation("transport is required")
	}

	u, err := url.Parse(strings.TrimSpace(serverURL))
	if err != nil {
		return nil, domainerrors.Validationf("invalid server URL %q: %v", serverURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, domainerrors.Validationf("invalid server URL %q: must be an absolute http(s) URL", serverURL)
	}

	base := *u
	base.Path = strings.TrimRight(u.Path, "/") + "/" + apiPrefix
	base.RawPath = ""
	base.RawQuery = ""
	base.Fragment = ""

	v := validation.New()
	if err := v.RegisterStringCheck("resourcekind", "must be a supported resource kind", func(s string) bool {
		return Kind(s).Valid()
	}); err != nil {
		return nil, err
	}

	return &Client{base: &base, doer: doer, validate: v}, nil
}

// BaseURL returns the API root every request is resolved against.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// FetchPage lists one page of req.Kind.
//
// ParentID is sent under the kind's scope key. Filters are merged into the
// query next to offset, limit and the scope key, which they may not override.
// Entries are returned in server order.
func (c *Client) FetchPage(ctx context.Context, req PageRequest) (*Page[domain.Entry], error) {
	const op = "fetchPage"

	row, err := c.checkPageRequest(req)
	if err != nil {
		return nil, &Error{Op: op, Kind: req.Kind, Err: err}
	}

	u := c.base.JoinPath(row.Path + "/")
	u.RawQuery = pageQuery(row.KindInfo, req).Encode()

	body, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &Error{Op: op, Kind: req.Kind, Err: err}
	}

	meta, entries, err := row.decode(body)
	if err != nil {
		return nil, &Error{Op: op, Kind: req.Kind, Err: domainerrors.Decode("decode "+row.Path+" page", err)}
	}
	if len(entries) > req.Limit {
		return nil, &Error{Op: op, Kind: req.Kind, Err: domainerrors.Decodef(
			"server returned %d entries for limit %d", len(entries), req.Limit)}
	}
	if len(entries) > 0 && req.Offset+len(entries) > meta.Count {
		return nil, &Error{Op: op, Kind: req.Kind, Err: domainerrors.Decodef(
			"page ends at %d but server reports %d entries", req.Offset+len(entries), meta.Count)}
	}

	// An empty page never has more, whatever the server links to.
	end := req.Offset + len(entries)
	return &Page[domain.Entry]{
		Kind:    req.Kind,
		Entries: entries,
		Offset:  req.Offset,
		Total:   meta.Count,
		HasMore: len(entries) > 0 && (meta.Next != nil || end < meta.Count),
	}, nil
}

// FetchPageOf is FetchPage for callers that know the entry type of req.Kind.
// A kind whose entries are not T is rejected before any request is made.
func FetchPageOf[T domain.Entry](ctx context.Context, c *Client, req PageRequest) (*Page[T], error) {
	if err := checkEntryType[T](req.Kind); err != nil {
		return nil, &Error{Op: "fetchPage", Kind: req.Kind, Err: err}
	}

	page, err := c.FetchPage(ctx, req)
	if err != nil {
		return nil, err
	}
	typed, ok := pageOf[T](page)
	if !ok {
		return nil, &Error{Op: "fetchPage", Kind: req.Kind, Err: domainerrors.Decodef(
			"%s page holds entries other than %s", req.Kind, reflect.TypeFor[T]())}
	}
	return typed, nil
}

// DeleteEntry deletes entry id of kind. A missing entry is a not found failure;
// wrap the call in IgnoreNotFound to treat that as success.
func (c *Client) DeleteEntry(ctx context.Context, kind Kind, id int) error {
	const op = "deleteEntry"

	row, err := c.checkEntryRef(kind, id)
	if err != nil {
		return &Error{Op: op, Kind: kind, ID: id, Err: err}
	}

	if _, err := c.do(ctx, http.MethodDelete, c.entryURL(row, id), nil); err != nil {
		return &Error{Op: op, Kind: kind, ID: id, Err: err}
	}
	return nil
}

// GetProfile returns the profile of the user the transport authenticates as.
func (c *Client) GetProfile(ctx context.Context) (*domain.Profile, error) {
	const op = "getProfile"

	body, err := c.do(ctx, http.MethodGet, c.base.JoinPath(profilePath+"/"), nil)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}

	var profile domain.Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, &Error{Op: op, Err: domainerrors.Decode("decode profile", err)}
	}
	return &profile, nil
}

func (c *Client) checkPageRequest(req PageRequest) (*kindRow, error) {
	if err := c.validate.Validate(req); err != nil {
		return nil, err
	}
	row, ok := lookup(req.Kind)
	if !ok {
		return nil, domainerrors.Validationf("unknown resource kind %q", req.Kind)
	}
	if err := checkPage(row.KindInfo, req); err != nil {
		return nil, err
	}
	return row, nil
}

func (c *Client) checkEntryRef(kind Kind, id int) (*kindRow, error) {
	if err := c.validate.Validate(EntryRef{Kind: kind, ID: id}); err != nil {
		return nil, err
	}
	row, ok := lookup(kind)
	if !ok {
		return nil, domainerrors.Validationf("unknown resource kind %q", kind)
	}
	return row, nil
}

// entryURL addresses one entry: <base>/<path>/<id>/.
func (c *Client) entryURL(row *kindRow, id int) *url.URL {
	return c.base.JoinPath(row.Path, strconv.Itoa(id)+"/")
}

// pageQuery builds the list query. Filters go in first so the protocol
// parameters always win.
func pageQuery(info KindInfo, req PageRequest) url.Values {
	q := make(url.Values, len(req.Filters)+3)
	for name, value := range req.Filters {
		q.Set(name, value)
	}
	q.Set(paramOffset, strconv.Itoa(req.Offset))
	q.Set(paramLimit, strconv.Itoa(req.Limit))
	if req.ParentID > 0 {
		q.Set(info.ScopeKey, strconv.Itoa(req.ParentID))
	}
	return q
}

// do executes one exchange and returns the body of a 2xx response.
// A non-nil payload is sent as a JSON body.
//
// Failures caused by ctx ending are transport failures that are not retryable:
// the caller gave up, the server did not fail.
func (c *Client) do(ctx context.Context, method string, u *url.URL, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, domainerrors.Validationf("encode request body: %v", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, domainerrors.Transport("create request", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, transportFailure(ctx, "execute request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, transportFailure(ctx, "read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domainerrors.FromStatus(resp.StatusCode, body)
	}
	return body, nil
}

func transportFailure(ctx context.Context, msg string, err error) error {
	if ctx.Err() != nil {
		return domainerrors.Abandoned(msg, err)
	}
	return domainerrors.Transport(msg, err)
}

// String describes the client for logs.
func (c *Client) String() string {
	return fmt.Sprintf("babybuddy.Client(%s)", c.base.Redacted())
}
