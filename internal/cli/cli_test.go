package cli

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"io"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babybuddywidgets/bbclient/internal/babybuddy/babybuddytest"
	"github.com/babybuddywidgets/bbclient/internal/config"
	"github.com/babybuddywidgets/bbclient/internal/di/providers"
	domainerrors "github.com/babybuddywidgets/bbclient/internal/errors"
	"github.com/babybuddywidgets/bbclient/internal/logger"
)

const testToken = "cli-test-token"

// run parses args and executes the selected command against server.
func run(t *testing.T, server *babybuddytest.Server, args ...string) (string, error) {
	t.Helper()

	injector := do.New()
	do.ProvideValue(injector, &config.Config{
		App:       config.AppConfig{Environment: "test"},
		Logger:    config.LoggerConfig{Level: "info"},
		BabyBuddy: config.BabyBuddyConfig{URL: server.URL, Token: testToken},
		HTTP:      config.HTTPConfig{Timeout: 5 * time.Second},
		List:      config.ListConfig{PageSize: 2},
	})
	do.ProvideValue(injector, logger.New(logger.Config{Writer: io.Discard}))
	do.Provide(injector, providers.ProvideTransport)
	do.Provide(injector, providers.ProvideClient)
	t.Cleanup(func() { _ = injector.Shutdown() })

	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("bbctl"),
		kong.Writers(io.Discard, io.Discard),
		kong.Exit(func(int) { t.Fatalf("unexpected exit for %v", args) }),
	)
	require.NoError(t, err)

	kctx, err := parser.Parse(args)
	require.NoError(t, err)

	var out bytes.Buffer
	err = kctx.Run(&Context{Context: context.Background(), Injector: injector, Out: &out})
	return out.String(), err
}

func newServer(t *testing.T) *babybuddytest.Server {
	t.Helper()
	return babybuddytest.New(t, babybuddytest.WithToken(testToken))
}

func sleep(child int, start string) babybuddytest.Entry {
	return babybuddytest.Entry{
		"child":    child,
		"start":    start,
		"end":      start,
		"duration": "00:00:00",
		"nap":      true,
		"notes":    "",
	}
}

func TestKinds(t *testing.T) {
	out, err := run(t, newServer(t), "kinds")
	require.NoError(t, err)

	assert.Contains(t, out, "KIND")
	assert.Contains(t, out, "tummy-times/")
	assert.Contains(t, out, "head-circumference")
}

func TestKinds_JSON(t *testing.T) {
	out, err := run(t, newServer(t), "kinds", "--json")
	require.NoError(t, err)

	var kinds []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &kinds))
	require.Len(t, kinds, 12)
	assert.Equal(t, "children", kinds[0]["kind"])
	assert.Equal(t, "id", kinds[0]["scope_key"])
}

func TestList_OnePageUsesConfiguredPageSize(t *testing.T) {
	server := newServer(t)
	server.Add("sleep",
		sleep(7, "2024-05-01T20:00:00Z"),
		sleep(7, "2024-05-02T20:00:00Z"),
		sleep(7, "2024-05-03T20:00:00Z"),
	)

	out, err := run(t, server, "list", "sleep", "--child", "7")
	require.NoError(t, err)

	assert.Contains(t, out, "0-2 of 3 sleep (more available)")
	req, ok := server.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "2", req.Query.Get("limit"))
	assert.Equal(t, "7", req.Query.Get("child"))
}

func TestList_AllFollowsPages(t *testing.T) {
	server := newServer(t)
	server.Add("sleep",
		sleep(7, "2024-05-01T20:00:00Z"),
		sleep(7, "2024-05-02T20:00:00Z"),
		sleep(7, "2024-05-03T20:00:00Z"),
	)

	out, err := run(t, server, "list", "sleep", "-c", "7", "--all", "--json")
	require.NoError(t, err)

	var got struct {
		Total   int              `json:"total"`
		HasMore bool             `json:"has_more"`
		Entries []map[string]any `json:"entries"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 3, got.Total)
	assert.False(t, got.HasMore)
	assert.Len(t, got.Entries, 3)
	assert.Len(t, server.Requests(), 2)
}

func TestList_Filters(t *testing.T) {
	server := newServer(t)
	server.Add("sleep", sleep(7, "2024-05-01T20:00:00Z"))

	_, err := run(t, server, "list", "sleep", "-c", "7", "--filter", "nap=true", "--filter", "tags=a=b")
	require.NoError(t, err)

	req, ok := server.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "true", req.Query.Get("nap"))
	assert.Equal(t, "a=b", req.Query.Get("tags"))
}

func TestList_Rejected(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown kind", []string{"list", "diapers"}},
		{"missing child", []string{"list", "sleep"}},
		{"bad filter", []string{"list", "sleep", "-c", "7", "--filter", "nap"}},
		{"reserved filter", []string{"list", "sleep", "-c", "7", "--filter", "offset=3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newServer(t)
			_, err := run(t, server, tt.args...)
			require.Error(t, err)
			assert.Empty(t, server.Requests())
		})
	}
}

func TestDelete(t *testing.T) {
	server := newServer(t)
	ids := server.Add("notes", babybuddytest.Entry{"child": 7, "note": "hello", "time": "2024-05-01T08:00:00Z"})

	out, err := run(t, server, "delete", "notes", "1")
	require.NoError(t, err)
	assert.Equal(t, "deleted notes/1\n", out)
	assert.False(t, server.Has("notes", ids[0]))
}

func TestDelete_Missing(t *testing.T) {
	server := newServer(t)

	_, err := run(t, server, "delete", "notes", "9")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	out, err := run(t, server, "delete", "notes", "9", "--ignore-missing")
	require.NoError(t, err)
	assert.Equal(t, "deleted notes/9\n", out)
}

func TestGet(t *testing.T) {
	server := newServer(t)
	server.Add("notes", babybuddytest.Entry{"child": 7, "note": "hello", "time": "2024-05-01T08:00:00Z"})

	out, err := run(t, server, "get", "notes", "1", "--json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "hello", got["note"])

	_, err = run(t, server, "get", "notes", "2")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestTimer(t *testing.T) {
	server := newServer(t)

	out, err := run(t, server, "timer", "start", "-c", "7", "--name", "nap")
	require.NoError(t, err)
	assert.Contains(t, out, "nap")
	assert.True(t, server.Has("timers", 1))

	out, err = run(t, server, "timer", "stop", "1", "--json")
	require.NoError(t, err)
	var stopped map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &stopped))
	assert.Equal(t, false, stopped["active"])

	req, ok := server.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "/api/timers/1/stop/", req.Path)

	_, err = run(t, server, "timer", "restart", "1")
	require.NoError(t, err)
	timer, ok := server.Get("timers", 1)
	require.True(t, ok)
	assert.Equal(t, true, timer["active"])
}

func TestProfile_HidesAPIKey(t *testing.T) {
	server := babybuddytest.New(t,
		babybuddytest.WithToken(testToken),
		babybuddytest.WithProfile(babybuddytest.Entry{
			"user":     babybuddytest.Entry{"id": 1, "username": "parent", "email": "parent@example.com"},
			"language": "en-GB",
			"timezone": "Europe/London",
			"api_key":  testToken,
		}),
	)

	out, err := run(t, server, "profile")
	require.NoError(t, err)
	assert.Equal(t, "parent <parent@example.com> (en-GB, Europe/London)\n", out)

	out, err = run(t, server, "profile", "--json")
	require.NoError(t, err)
	assert.NotContains(t, out, testToken)

	var got struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
		Timezone string `json:"timezone"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "parent", got.User.Username)
	assert.Equal(t, "Europe/London", got.Timezone)
}

func TestSummary(t *testing.T) {
	server := newServer(t)
	server.Add("sleep", sleep(7, "2024-05-01T20:00:00Z"), sleep(8, "2024-05-02T20:00:00Z"))
	server.Add("timers", babybuddytest.Entry{"child": 7, "name": "walk", "start": "2024-05-01T09:00:00Z", "end": nil, "active": true, "user": 1})

	out, err := run(t, server, "summary", "-c", "7", "--json")
	require.NoError(t, err)

	var got []struct {
		Kind  string `json:"kind"`
		Total int    `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 11)
	assert.Equal(t, "sleep", got[0].Kind)
	assert.Equal(t, 1, got[0].Total)
	assert.Equal(t, "timers", got[10].Kind)
	assert.Equal(t, 1, got[10].Total)
	assert.Len(t, server.Requests(), 11)
	for _, req := range server.Requests() {
		assert.Equal(t, "7", req.Query.Get("child"), req.Path)
	}
}

func TestSummary_ServerFailure(t *testing.T) {
	server := newServer(t)
	server.FailNext(500, `{"detail":"boom"}`)

	_, err := run(t, server, "summary", "-c", "7")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrServer))
}

func TestParseFilters(t *testing.T) {
	filters, err := parseFilters([]string{"nap=true", " child = 3", "notes="})
	require.NoError(t, err)
	assert.Equal(t, "true", filters["nap"])
	assert.Equal(t, " 3", filters["child"])
	assert.Equal(t, "", filters["notes"])

	_, err = parseFilters([]string{"=x"})
	assert.Error(t, err)
}

func TestOverrides(t *testing.T) {
	cli := CLI{Server: "http://bb.local", Token: "t", EnvFile: "x.env", LogLevel: "debug", Timeout: "3s"}
	assert.Equal(t, config.Overrides{
		ServerURL: "http://bb.local",
		Token:     "t",
		EnvFile:   "x.env",
		LogLevel:  "debug",
		Timeout:   "3s",
	}, cli.Overrides())
}
