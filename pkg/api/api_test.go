package api

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/klothoplatform/stackquery/pkg/tiers"
	"github.com/klothoplatform/stackquery/pkg/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// fakeWorkspace serves stacks in order and config values from a map keyed by qualified stack name.
type fakeWorkspace struct {
	stacks  []string
	listErr error
	config  map[string]string
	outputs map[string]workspace.OutputValue
}

func (f *fakeWorkspace) ListStacks(context.Context) ([]workspace.StackSummary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	s := make([]workspace.StackSummary, len(f.stacks))
	for i, n := range f.stacks {
		s[i] = workspace.StackSummary{Name: n, LastUpdate: "2022-06-01T00:00:00Z"}
	}
	return s, nil
}

func (f *fakeWorkspace) GetConfig(_ context.Context, stackName string, key string) (workspace.ConfigValue, error) {
	v, ok := f.config[stackName]
	if !ok || key != "pricingMode" {
		return workspace.ConfigValue{}, errors.New("config key not found")
	}
	return workspace.ConfigValue{Value: v}, nil
}

func (f *fakeWorkspace) GetAllConfig(_ context.Context, stackName string) (map[string]workspace.ConfigValue, error) {
	v, ok := f.config[stackName]
	if !ok {
		return nil, errors.New("no such stack")
	}
	return map[string]workspace.ConfigValue{"launchpad:pricingMode": {Value: v}}, nil
}

func (f *fakeWorkspace) StackOutputs(_ context.Context, stackName string) (map[string]workspace.OutputValue, error) {
	if _, ok := f.config[stackName]; !ok {
		return nil, errors.New("no such stack")
	}
	return f.outputs, nil
}

func newTestHandler(t *testing.T, ws *fakeWorkspace) http.Handler {
	svc := tiers.NewService(ws, tiers.Options{Org: "fennel", Project: "launchpad"})
	a := &API{Stacks: svc}
	return a.Handler(zaptest.NewLogger(t))
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func stackNames(t *testing.T, body []byte) []string {
	stacks, err := DecodeStackList(body)
	require.NoError(t, err)
	names := make([]string, len(stacks))
	for i, s := range stacks {
		names[i] = s.Name
	}
	return names
}

func TestListDemoTiers(t *testing.T) {
	tests := []struct {
		name      string
		ws        *fakeWorkspace
		target    string
		wantNames []string
	}{
		{
			name: "free tier listed",
			ws: &fakeWorkspace{
				stacks: []string{"tier-1"},
				config: map[string]string{"fennel/launchpad/tier-1": "FREE"},
			},
			wantNames: []string{"tier-1"},
		},
		{
			name: "paid tier excluded",
			ws: &fakeWorkspace{
				stacks: []string{"tier-1"},
				config: map[string]string{"fennel/launchpad/tier-1": "PAID"},
			},
			wantNames: []string{},
		},
		{
			name:      "fetch error excluded",
			ws:        &fakeWorkspace{stacks: []string{"tier-1"}},
			wantNames: []string{},
		},
		{
			name: "non prefixed never listed",
			ws: &fakeWorkspace{
				stacks: []string{"plane-1", "tier-2", "tier-3"},
				config: map[string]string{
					"fennel/launchpad/plane-1": "FREE",
					"fennel/launchpad/tier-2":  "FREE",
					"fennel/launchpad/tier-3":  "FREE",
				},
			},
			wantNames: []string{"tier-2", "tier-3"},
		},
		{
			name: "query string ignored",
			ws: &fakeWorkspace{
				stacks: []string{"tier-1"},
				config: map[string]string{"fennel/launchpad/tier-1": "FREE"},
			},
			target:    PathListDemoTiers + "?stack_name=tier-9",
			wantNames: []string{"tier-1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := tt.target
			if target == "" {
				target = PathListDemoTiers
			}
			rec := do(t, newTestHandler(t, tt.ws), http.MethodGet, target)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantNames, stackNames(t, rec.Body.Bytes()))
		})
	}
}

func TestListDemoTiers_NoStacks(t *testing.T) {
	rec := do(t, newTestHandler(t, &fakeWorkspace{}), http.MethodGet, PathListDemoTiers)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())
}

func TestListDemoTiers_EntriesAreEncodedSummaries(t *testing.T) {
	ws := &fakeWorkspace{
		stacks: []string{"tier-1"},
		config: map[string]string{"fennel/launchpad/tier-1": "FREE"},
	}
	rec := do(t, newTestHandler(t, ws), http.MethodGet, PathListDemoTiers)

	assert.JSONEq(t, `["{\"name\":\"tier-1\",\"current\":false,\"lastUpdate\":\"2022-06-01T00:00:00Z\",\"updateInProgress\":false}"]`, rec.Body.String())
}

func TestListDemoTiers_ListFailure(t *testing.T) {
	rec := do(t, newTestHandler(t, &fakeWorkspace{listErr: errors.New("backend unreachable")}), http.MethodGet, PathListDemoTiers)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestGetTierConfig(t *testing.T) {
	h := newTestHandler(t, &fakeWorkspace{})
	for _, target := range []string{PathGetTierConfig, PathGetTierConfig + "?stack_name=tier-1&x=y"} {
		rec := do(t, h, http.MethodGet, target)
		assert.Equal(t, http.StatusOK, rec.Code, target)
		assert.Empty(t, rec.Body.String(), target)
	}
}

func TestNotFound(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
	}{
		{name: "wrong method", method: http.MethodPost, target: PathListDemoTiers},
		{name: "head", method: http.MethodHead, target: PathListDemoTiers},
		{name: "delete stub", method: http.MethodDelete, target: PathGetTierConfig},
		{name: "unknown path", method: http.MethodGet, target: "/unknown_path"},
		{name: "root", method: http.MethodGet, target: "/"},
		{name: "trailing slash", method: http.MethodGet, target: PathListDemoTiers + "/"},
	}
	h := newTestHandler(t, &fakeWorkspace{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.target)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
			if tt.method != http.MethodHead {
				assert.Equal(t, "path not found", rec.Body.String())
			}
		})
	}
}

func TestListStacks(t *testing.T) {
	ws := &fakeWorkspace{stacks: []string{"tier-1", "plane-2", "mothership"}}
	rec := do(t, newTestHandler(t, ws), http.MethodGet, PathListStacks)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"tier-1", "plane-2", "mothership"}, stackNames(t, rec.Body.Bytes()))
}

func TestGetStackDetails(t *testing.T) {
	ws := &fakeWorkspace{
		stacks:  []string{"tier-1"},
		config:  map[string]string{"fennel/launchpad/tier-1": "FREE"},
		outputs: map[string]workspace.OutputValue{"bucket": {Value: "tier-1-bucket"}},
	}
	h := newTestHandler(t, ws)

	rec := do(t, h, http.MethodGet, PathGetStackDetails+"?stack_name=tier-1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"config": {"launchpad:pricingMode": {"value": "FREE", "secret": false}},
		"output": {"bucket": {"value": "tier-1-bucket", "secret": false}}
	}`, rec.Body.String())

	ws.outputs = nil
	rec = do(t, h, http.MethodGet, PathGetStackDetails+"?stack_name=tier-1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"config": {"launchpad:pricingMode": {"value": "FREE", "secret": false}},
		"output": {}
	}`, rec.Body.String())

	for _, target := range []string{PathGetStackDetails + "?stack_name=tier-404", PathGetStackDetails} {
		rec = do(t, h, http.MethodGet, target)
		assert.Equal(t, http.StatusOK, rec.Code, target)
		assert.Equal(t, "{}", rec.Body.String(), target)
	}
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	a := &API{Stacks: tiers.NewService(&fakeWorkspace{}, tiers.Options{})}
	h := a.Handler(zap.New(core))

	rec := do(t, h, http.MethodGet, "/unknown_path")
	id := rec.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, id)

	entries := logs.FilterLoggerName("api.access").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, id, fields["request_id"])
		assert.Equal(t, "/unknown_path", fields["path"])
		assert.EqualValues(t, http.StatusNotFound, fields["status"])
		assert.EqualValues(t, 1, fields["in_flight"])
	}
}

// blockingStacks holds ListStacks open until release is closed.
type blockingStacks struct {
	entered chan struct{}
	release chan struct{}
}

func (b blockingStacks) ListQualifyingStacks(ctx context.Context) ([]workspace.StackSummary, error) {
	return b.ListStacks(ctx)
}

func (b blockingStacks) ListStacks(context.Context) ([]workspace.StackSummary, error) {
	close(b.entered)
	<-b.release
	return nil, nil
}

func (blockingStacks) StackDetails(context.Context, string) tiers.StackDetails {
	return tiers.StackDetails{}
}

func TestRequestLogger_InFlight(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	stacks := blockingStacks{entered: make(chan struct{}), release: make(chan struct{})}
	h := (&API{Stacks: stacks}).Handler(zap.New(core))

	done := make(chan struct{})
	go func() {
		defer close(done)
		do(t, h, http.MethodGet, PathListStacks)
	}()
	<-stacks.entered

	do(t, h, http.MethodGet, "/unknown_path")
	close(stacks.release)
	<-done

	byPath := map[string]any{}
	for _, e := range logs.FilterLoggerName("api.access").All() {
		fields := e.ContextMap()
		byPath[fields["path"].(string)] = fields["in_flight"]
	}
	assert.EqualValues(t, 1, byPath[PathListStacks])
	assert.EqualValues(t, 2, byPath["/unknown_path"])
}

type panickingStacks struct{}

func (panickingStacks) ListQualifyingStacks(context.Context) ([]workspace.StackSummary, error) {
	panic("boom")
}

func (panickingStacks) ListStacks(context.Context) ([]workspace.StackSummary, error) {
	panic("boom")
}

func (panickingStacks) StackDetails(context.Context, string) tiers.StackDetails {
	panic("boom")
}

func TestRequestLogger_RecoversPanic(t *testing.T) {
	a := &API{Stacks: panickingStacks{}}
	rec := do(t, a.Handler(zaptest.NewLogger(t)), http.MethodGet, PathListStacks)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestEncodeDecodeStackList(t *testing.T) {
	body, err := EncodeStackList(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(body))

	_, err = DecodeStackList([]byte(`[{"name":"tier-1"}]`))
	assert.Error(t, err)
}

func TestServer_Serve(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	a := &API{Stacks: tiers.NewService(&fakeWorkspace{}, tiers.Options{})}
	srv := NewServer(0, a.Handler(zaptest.NewLogger(t)))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + PathListDemoTiers)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
