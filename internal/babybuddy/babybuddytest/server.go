// Package babybuddytest provides an in-memory Baby Buddy server for tests.
//
// The server speaks the list, detail, create, update, delete, timer and
// profile endpoints of the real API: offset/limit pagination with
// count/next/previous links, equality filtering on entry fields, token
// authentication and optional per-token throttling.
package babybuddytest

import (
	"bytes"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/babybuddywidgets/bbclient/internal/domain"
	"github.com/babybuddywidgets/bbclient/internal/http/response"
	"github.com/babybuddywidgets/bbclient/internal/ratelimit"
)

// DefaultLimit is the page size used when a request carries no limit.
const DefaultLimit = 100

// Collections lists the collection paths the server knows.
var Collections = []string{
	"children", "sleep", "feedings", "tummy-times", "pumping", "changes",
	"notes", "temperature", "weight", "height", "head-circumference", "timers",
}

// Entry is one stored record, keyed by its JSON field names.
type Entry = map[string]any

// Request is a recorded incoming request.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Option configures a Server.
type Option func(*Server)

// WithToken requires "Authorization: Token <token>" on every request.
func WithToken(token string) Option {
	return func(s *Server) {
		s.token = token
	}
}

// WithProfile sets the body served by the profile endpoint.
func WithProfile(profile Entry) Option {
	return func(s *Server) {
		s.profile = profile
	}
}

// WithClock sets the server clock used for timer and timestamp fields.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithThrottle answers 429 once a token exceeds rps requests per second
// beyond burst.
func WithThrottle(rps float64, burst int) Option {
	return func(s *Server) {
		s.throttle = ratelimit.New(rps, burst)
	}
}

// Server is a fake Baby Buddy instance.
type Server struct {
	*httptest.Server

	token    string
	profile  Entry
	logger   *slog.Logger
	now      func() time.Time
	throttle *ratelimit.KeyedRateLimiter

	mu          sync.Mutex
	collections map[string][]Entry
	nextID      map[string]int
	requests    []Request
	failures    []failure
}

type failure struct {
	status int
	body   string
}

// New starts a server that is closed when the test ends.
func New(t testing.TB, opts ...Option) *Server {
	t.Helper()

	s := &Server{
		collections: make(map[string][]Entry, len(Collections)),
		nextID:      make(map[string]int, len(Collections)),
		logger:      slog.New(slog.DiscardHandler),
		now:         time.Now,
		profile: Entry{
			"user":     Entry{"id": 1, "username": "admin", "first_name": "", "last_name": "", "email": ""},
			"language": "en-US",
			"timezone": "UTC",
			"api_key":  "",
		},
	}
	for _, c := range Collections {
		s.collections[c] = nil
		s.nextID[c] = 1
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(func() {
		s.Close()
		if s.throttle != nil {
			s.throttle.Stop()
		}
	})
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)
	r.Use(s.authenticate)
	r.Use(s.throttled)
	r.Use(s.injectFailure)

	r.Route("/api", func(r chi.Router) {
		r.Get("/profile/", s.handleProfile)
		r.Patch("/timers/{id}/restart/", s.handleTimerActive(true))
		r.Patch("/timers/{id}/stop/", s.handleTimerActive(false))
		r.Get("/{kind}/", s.handleList)
		r.Post("/{kind}/", s.handleCreate)
		r.Get("/{kind}/{id}/", s.handleDetail)
		r.Patch("/{kind}/{id}/", s.handleUpdate)
		r.Delete("/{kind}/{id}/", s.handleDelete)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, s.logger)
	})
	return r
}

// Add appends entries to a collection in order. Entries without a positive
// int "id" get the next free one. It returns the ids of the added entries.
func (s *Server) Add(collection string, entries ...Entry) []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection]; !ok {
		panic("babybuddytest: unknown collection " + collection)
	}

	ids := make([]int, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, s.store(collection, e))
	}
	return ids
}

// store appends a copy of e, assigning an id if it has none. Callers hold s.mu.
func (s *Server) store(collection string, e Entry) int {
	stored := maps.Clone(e)
	if stored == nil {
		stored = Entry{}
	}
	id, ok := stored["id"].(int)
	if !ok || id <= 0 {
		id = s.nextID[collection]
		stored["id"] = id
	}
	if id >= s.nextID[collection] {
		s.nextID[collection] = id + 1
	}
	s.collections[collection] = append(s.collections[collection], stored)
	return id
}

// Get returns a copy of entry id of collection.
func (s *Server) Get(collection string, id int) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(collection, id)
	if i < 0 {
		return nil, false
	}
	return maps.Clone(s.collections[collection][i]), true
}

// Has reports whether collection holds an entry with id.
func (s *Server) Has(collection string, id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(collection, id) >= 0
}

// Len returns the number of entries in collection.
func (s *Server) Len(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.collections[collection])
}

// FailNext makes the next request fail with status and body, before routing.
// An empty body serves the standard {"detail"} error for status.
// Calls queue up.
func (s *Server) FailNext(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{status: status, body: body})
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// LastRequest returns the most recent request. ok is false if there was none.
func (s *Server) LastRequest() (req Request, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" && r.Header.Get("Authorization") != "Token "+s.token {
			response.Unauthorized(w, s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		var f *failure
		if len(s.failures) > 0 {
			f = &s.failures[0]
			s.failures = s.failures[1:]
		}
		s.mu.Unlock()

		switch {
		case f == nil:
			next.ServeHTTP(w, r)
		case f.body != "":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.body))
		case f.status == http.StatusInternalServerError:
			response.InternalError(w, "A server error occurred.", s.logger)
		default:
			response.Error(w, f.status, http.StatusText(f.status), s.logger)
		}
	})
}

func (s *Server) throttled(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.throttle != nil && !s.throttle.Allow(r.Header.Get("Authorization")) {
			response.Throttled(w, s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	profile := s.profile
	s.mu.Unlock()
	response.Success(w, profile, s.logger)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "kind")

	query := r.URL.Query()
	offset, err := queryInt(query, "offset", 0)
	if err != nil || offset < 0 {
		response.FieldErrors(w, map[string][]string{"offset": {"A valid integer is required."}}, s.logger)
		return
	}
	limit, err := queryInt(query, "limit", DefaultLimit)
	if err != nil || limit <= 0 {
		response.FieldErrors(w, map[string][]string{"limit": {"A valid integer is required."}}, s.logger)
		return
	}

	s.mu.Lock()
	entries, ok := s.collections[collection]
	var matched []any
	for _, e := range entries {
		if matches(e, query) {
			matched = append(matched, e)
		}
	}
	s.mu.Unlock()

	if !ok {
		response.NotFound(w, s.logger)
		return
	}

	page := response.List{Count: len(matched)}
	if offset < len(matched) {
		page.Results = matched[offset:min(offset+limit, len(matched))]
	}
	if offset+limit < len(matched) {
		page.Next = s.pageLink(r, offset+limit, limit)
	}
	if offset > 0 {
		page.Previous = s.pageLink(r, max(offset-limit, 0), limit)
	}
	response.Page(w, page, s.logger)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "kind")
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		response.NotFound(w, s.logger)
		return
	}

	s.mu.Lock()
	i := s.indexOf(collection, id)
	if i >= 0 {
		s.collections[collection] = slices.Delete(s.collections[collection], i, i+1)
	}
	s.mu.Unlock()

	if i < 0 {
		response.NotFound(w, s.logger)
		return
	}
	response.NoContent(w)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "kind")
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		response.NotFound(w, s.logger)
		return
	}

	entry, ok := s.Get(collection, id)
	if !ok {
		response.NotFound(w, s.logger)
		return
	}
	response.Success(w, entry, s.logger)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "kind")
	fields, ok := s.readFields(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	if _, known := s.collections[collection]; !known {
		s.mu.Unlock()
		response.NotFound(w, s.logger)
		return
	}

	now := s.now()
	if raw, fromTimer := fields["timer"]; fromTimer {
		delete(fields, "timer")
		if problem := s.consumeTimer(raw, fields, now); problem != "" {
			s.mu.Unlock()
			response.FieldErrors(w, map[string][]string{"timer": {problem}}, s.logger)
			return
		}
	}
	if collection == "timers" {
		setDefault(fields, "start", formatTime(now))
		setDefault(fields, "end", nil)
		setDefault(fields, "active", true)
		setDefault(fields, "user", 1)
	}

	id := s.store(collection, fields)
	created := maps.Clone(s.collections[collection][s.indexOf(collection, id)])
	s.mu.Unlock()

	response.Created(w, created, s.logger)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "kind")
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		response.NotFound(w, s.logger)
		return
	}
	fields, ok := s.readFields(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	i := s.indexOf(collection, id)
	if i < 0 {
		s.mu.Unlock()
		response.NotFound(w, s.logger)
		return
	}
	entry := s.collections[collection][i]
	maps.Copy(entry, fields)
	updated := maps.Clone(entry)
	s.mu.Unlock()

	response.Success(w, updated, s.logger)
}

func (s *Server) handleTimerActive(active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			response.NotFound(w, s.logger)
			return
		}

		s.mu.Lock()
		i := s.indexOf("timers", id)
		if i < 0 {
			s.mu.Unlock()
			response.NotFound(w, s.logger)
			return
		}
		timer := s.collections["timers"][i]
		now := formatTime(s.now())
		if active {
			timer["start"] = now
			timer["end"] = nil
		} else {
			timer["end"] = now
		}
		timer["active"] = active
		updated := maps.Clone(timer)
		s.mu.Unlock()

		response.Success(w, updated, s.logger)
	}
}

// readFields decodes a JSON object body, dropping read-only members.
// It writes the error response itself and reports whether decoding succeeded.
func (s *Server) readFields(w http.ResponseWriter, r *http.Request) (Entry, bool) {
	var fields Entry
	if err := json.UnmarshalRead(r.Body, &fields); err != nil || fields == nil {
		response.Error(w, http.StatusBadRequest, "JSON parse error.", s.logger)
		return nil, false
	}
	delete(fields, "id")
	return fields, true
}

// consumeTimer fills start, end, duration and child of fields from the
// referenced timer and deletes the timer. It returns a field error message
// if the timer does not exist. Callers hold s.mu.
func (s *Server) consumeTimer(raw any, fields Entry, now time.Time) string {
	id, err := strconv.Atoi(fmt.Sprint(raw))
	if err != nil {
		return "Incorrect type."
	}
	i := s.indexOf("timers", id)
	if i < 0 {
		return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)
	}
	timer := s.collections["timers"][i]

	start, err := time.Parse(time.RFC3339Nano, fmt.Sprint(timer["start"]))
	if err != nil {
		start = now
	}
	fields["start"] = formatTime(start)
	fields["end"] = formatTime(now)
	fields["duration"] = domain.Duration(now.Sub(start)).String()
	if child, ok := timer["child"]; ok && child != nil {
		setDefault(fields, "child", child)
	}

	s.collections["timers"] = slices.Delete(s.collections["timers"], i, i+1)
	return ""
}

func setDefault(e Entry, key string, value any) {
	if _, ok := e[key]; !ok {
		e[key] = value
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// indexOf returns the position of id in collection or -1. Callers hold s.mu.
func (s *Server) indexOf(collection string, id int) int {
	return slices.IndexFunc(s.collections[collection], func(e Entry) bool {
		return fmt.Sprint(e["id"]) == strconv.Itoa(id)
	})
}

func (s *Server) pageLink(r *http.Request, offset, limit int) *string {
	q := r.URL.Query()
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))
	u := url.URL{Scheme: "http", Host: r.Host, Path: r.URL.Path, RawQuery: q.Encode()}
	link := u.String()
	return &link
}

// matches applies every non-pagination query parameter as an equality filter
// on the entry field of the same name. Entries lacking the field do not match.
func matches(e Entry, query url.Values) bool {
	for name, values := range query {
		if name == "offset" || name == "limit" {
			continue
		}
		v, ok := e[name]
		if !ok || v == nil {
			return false
		}
		if fmt.Sprint(v) != values[0] {
			return false
		}
	}
	return true
}

func queryInt(q url.Values, name string, def int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
