package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/lexora/casemap/pkg/errors"
	"github.com/lexora/casemap/pkg/mindmap"
	"github.com/lexora/casemap/pkg/pipeline"
	"github.com/lexora/casemap/pkg/session"
	"github.com/lexora/casemap/pkg/source"
	"github.com/lexora/casemap/pkg/viewport"
)

const caseJSON = `{
  "nodes": [{"id": "p", "label": "Plaintiff"}, {"id": "d", "label": "Defendant"}],
  "edges": [{"source": "p", "target": "d", "label": "sues"}, {"source": "p", "target": "ghost", "label": "x"}]
}`

func newTestServer(t *testing.T, src source.Source) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	runner.Source = src
	srv := New(runner, session.NewStore(0, 0), logger, Options{MaxNodes: 10})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := do(t, http.MethodGet, ts.URL+"/health", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
	body := decode[map[string]any](t, resp)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestRequestIDPropagates(t *testing.T) {
	ts := newTestServer(t, nil)
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q", got)
	}
}

func TestLayoutEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := do(t, http.MethodPost, ts.URL+"/api/layout", caseJSON)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	g := decode[mindmap.Graph](t, resp)
	if len(g.Nodes) != 2 {
		t.Fatalf("nodes = %+v", g.Nodes)
	}
	want := map[string][2]float64{"p": {580, 300}, "d": {420, 300}}
	for _, n := range g.Nodes {
		x, y := n.Position()
		if w := want[n.ID]; !n.HasPosition() || abs(x-w[0]) > 1e-9 || abs(y-w[1]) > 1e-9 {
			t.Errorf("%s at (%v, %v), want %v", n.ID, x, y, w)
		}
	}
	if len(g.Edges) != 2 {
		t.Error("layout should return edges unchanged, dangling ones included")
	}
}

func TestLayoutErrors(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   errors.Code
	}{
		{"not json", "nope", http.StatusBadRequest, errors.ErrCodeInvalidGraph},
		{"too large", tooLarge(11), http.StatusRequestEntityTooLarge, errors.ErrCodeGraphTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/api/layout", tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			body := decode[errorBody](t, resp)
			if body.Error.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", body.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestLayoutMissingArraysIsEmpty(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := do(t, http.MethodPost, ts.URL+"/api/layout", `{"nodes": []}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if g := decode[mindmap.Graph](t, resp); len(g.Nodes) != 0 || g.Edges == nil {
		t.Errorf("graph = %+v", g)
	}
}

func TestRenderEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := do(t, http.MethodPost, ts.URL+"/api/render?format=svg&viewbox=0,0,500,300", caseJSON)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(body, []byte(`viewBox="0 0 500 300"`)) {
		t.Errorf("svg = %.200s", body)
	}

	resp = do(t, http.MethodPost, ts.URL+"/api/render?format=dot", caseJSON)
	body, _ = io.ReadAll(resp.Body)
	if !bytes.HasPrefix(body, []byte("digraph")) {
		t.Errorf("dot = %s", body)
	}

	resp = do(t, http.MethodPost, ts.URL+"/api/render?format=gif", caseJSON)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("gif status = %d", resp.StatusCode)
	}

	resp = do(t, http.MethodPost, ts.URL+"/api/render?viewbox=0,0,0,0", caseJSON)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad viewbox status = %d", resp.StatusCode)
	}
}

func TestCaseMindMap(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "case-7.json"), []byte(caseJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	ts := newTestServer(t, source.NewFileSource(dir))

	resp := do(t, http.MethodGet, ts.URL+"/api/cases/case-7/mindmap", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if g := decode[mindmap.Graph](t, resp); len(g.Nodes) != 2 || !g.Nodes[0].HasPosition() {
		t.Errorf("graph = %+v", g)
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/cases/case-8/mindmap", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing case status = %d", resp.StatusCode)
	}
	if code := decode[errorBody](t, resp).Error.Code; code != errors.ErrCodeCaseNotFound {
		t.Errorf("code = %s", code)
	}
}

func TestCaseMindMapWithoutSource(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := do(t, http.MethodGet, ts.URL+"/api/cases/case-7/mindmap", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestSessionFlow(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := do(t, http.MethodPost, ts.URL+"/api/sessions", caseJSON)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	snap := decode[session.Snapshot](t, resp)
	if snap.ID == "" || snap.Empty || len(snap.Nodes) != 2 || len(snap.Edges) != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
	base := ts.URL + "/api/sessions/" + snap.ID

	events := []struct {
		body string
		want viewport.Viewbox
	}{
		{`{"type":"pointerdown","x":100,"y":100,"bounds":{"left":0,"top":0,"width":1000,"height":600}}`, viewport.Viewbox{W: 1000, H: 600}},
		{`{"type":"pointermove","x":80,"y":90,"bounds":{"left":0,"top":0,"width":1000,"height":600}}`, viewport.Viewbox{X: 20, Y: 10, W: 1000, H: 600}},
		{`{"type":"pointerup","x":80,"y":90,"bounds":{"left":0,"top":0,"width":1000,"height":600}}`, viewport.Viewbox{X: 20, Y: 10, W: 1000, H: 600}},
	}
	for _, e := range events {
		resp := do(t, http.MethodPost, base+"/events", e.body)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("event status = %d", resp.StatusCode)
		}
		if out := decode[session.Outcome](t, resp); out.Viewbox != e.want {
			t.Errorf("after %s viewbox = %+v, want %+v", e.body, out.Viewbox, e.want)
		}
	}

	resp = do(t, http.MethodPost, base+"/reset", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("reset status = %d", resp.StatusCode)
	}

	resp = do(t, http.MethodPost, base+"/events",
		`{"type":"wheel","x":500,"y":300,"delta_y":-120,"bounds":{"left":0,"top":0,"width":1000,"height":600}}`)
	out := decode[session.Outcome](t, resp)
	if !out.PreventDefault || abs(out.Viewbox.W-900) > 1e-9 || abs(out.Viewbox.X-50) > 1e-9 {
		t.Errorf("wheel outcome = %+v", out)
	}

	resp = do(t, http.MethodPost, base+"/events", `{"type":"tap"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown event status = %d", resp.StatusCode)
	}

	resp = do(t, http.MethodPost, base+"/nodes/d/activate", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("activate status = %d", resp.StatusCode)
	}
	resp = do(t, http.MethodPost, base+"/nodes/nobody/activate", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("activate missing status = %d", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, base+"/svg?selected=p", "")
	svgDoc, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(svgDoc, []byte("Plaintiff")) {
		t.Errorf("svg = %.200s", svgDoc)
	}

	resp = do(t, http.MethodPut, base+"/graph", `{"nodes":[],"edges":[]}`)
	if snap := decode[session.Snapshot](t, resp); !snap.Empty {
		t.Errorf("after replace snapshot = %+v", snap)
	}
	resp = do(t, http.MethodGet, base+"/svg", "")
	svgDoc, _ = io.ReadAll(resp.Body)
	if !bytes.Contains(svgDoc, []byte("No mind map to display.")) {
		t.Errorf("empty svg = %s", svgDoc)
	}

	resp = do(t, http.MethodDelete, base, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	resp = do(t, http.MethodGet, base, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d", resp.StatusCode)
	}
}

func TestCreateEmptySession(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := do(t, http.MethodPost, ts.URL+"/api/sessions", "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if snap := decode[session.Snapshot](t, resp); !snap.Empty || snap.Nodes == nil {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestCreateSessionFromCase(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "c1.json"), []byte(caseJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	ts := newTestServer(t, source.NewFileSource(dir))

	resp := do(t, http.MethodPost, ts.URL+"/api/sessions", `{"case_id":"c1"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if snap := decode[session.Snapshot](t, resp); len(snap.Nodes) != 2 {
		t.Errorf("snapshot = %+v", snap)
	}

	resp = do(t, http.MethodPost, ts.URL+"/api/sessions", `{"case_id":"../etc"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("traversal status = %d", resp.StatusCode)
	}
}

func TestStatusFor(t *testing.T) {
	tests := map[errors.Code]int{
		errors.ErrCodeInvalidGraph:    http.StatusBadRequest,
		errors.ErrCodeGraphTooLarge:   http.StatusRequestEntityTooLarge,
		errors.ErrCodeSessionNotFound: http.StatusNotFound,
		errors.ErrCodeLimitExceeded:   http.StatusTooManyRequests,
		errors.ErrCodeUnsupported:     http.StatusNotImplemented,
		errors.ErrCodeInternal:        http.StatusInternalServerError,
	}
	for code, want := range tests {
		if got := statusFor(code); got != want {
			t.Errorf("statusFor(%s) = %d, want %d", code, got, want)
		}
	}
}

func tooLarge(n int) string {
	g := mindmap.Empty()
	for i := 0; i < n; i++ {
		g.Nodes = append(g.Nodes, mindmap.Node{ID: string(rune('a' + i))})
	}
	data, _ := mindmap.Marshal(g)
	return string(data)
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
