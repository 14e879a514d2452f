package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/nbmap/nbmap/pkg/store"
)

// gridGeoJSON builds the 2x2 queen grid with a recorded 'nb' column.
func gridGeoJSON(t *testing.T) []byte {
	t.Helper()
	neighbours := [][]int{{2, 3, 4}, {1, 3, 4}, {1, 2, 4}, {1, 2, 3}}

	fc := geojson.NewFeatureCollection()
	for i, o := range [][2]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		x, y := o[0], o[1]
		f := geojson.NewFeature(orb.Polygon{orb.Ring{
			{x, y}, {x + 1, y}, {x + 1, y + 1}, {x, y + 1}, {x, y},
		}})
		f.Properties["nb"] = neighbours[i]
		fc.Append(f)
	}

	data, err := json.Marshal(fc)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return data
}

func testServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.NewDirStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDirStore: %v", err)
	}
	srv := New(Config{Store: st})
	t.Cleanup(func() {
		srv.Close()
		st.Close()
	})
	return srv
}

func TestHealth(t *testing.T) {
	srv := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("X-Request-ID"); got == "" {
		t.Error("response should carry a request id")
	}
}

func TestRenderSVG(t *testing.T) {
	srv := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/render?format=svg", bytes.NewReader(gridGeoJSON(t)))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", got)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "<svg") {
		t.Errorf("body does not start with <svg: %.40s", body)
	}
	if got := strings.Count(body, "<line"); got != 6 {
		t.Errorf("link segments = %d, want 6", got)
	}
}

func TestRenderValidation(t *testing.T) {
	srv := testServer(t)
	handler := srv.Handler()

	tests := []struct {
		name       string
		url        string
		body       []byte
		wantStatus int
		wantCode   string
	}{
		{
			"bad format", "/v1/render?format=bmp", gridGeoJSON(t),
			http.StatusBadRequest, "INVALID_FORMAT",
		},
		{
			"bad method", "/v1/render?method=hexagon", gridGeoJSON(t),
			http.StatusBadRequest, "INVALID_OPTIONS",
		},
		{
			"empty body", "/v1/render", nil,
			http.StatusUnprocessableEntity, "INVALID_INPUT",
		},
		{
			"point geometry", "/v1/render",
			[]byte(`{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[0,0]}}]}`),
			http.StatusUnprocessableEntity, "INVALID_INPUT",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.url, bytes.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("error body: %v", err)
			}
			if resp.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Error.Code, tt.wantCode)
			}
			if resp.RequestID == "" {
				t.Error("error body should carry the request id")
			}
		})
	}
}

func TestDatasetLifecycle(t *testing.T) {
	srv := testServer(t)
	handler := srv.Handler()

	// Create
	req := httptest.NewRequest(http.MethodPost, "/v1/datasets?name=grid", bytes.NewReader(gridGeoJSON(t)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var created store.Dataset
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("create body: %v", err)
	}
	if created.Areas != 4 || created.Links != 6 {
		t.Errorf("created = %d areas %d links, want 4 and 6", created.Areas, created.Links)
	}

	// List
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/datasets/", nil))
	var list []store.Dataset
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("list body: %v", err)
	}
	if len(list) != 1 || list[0].Name != "grid" {
		t.Errorf("list = %+v, want one dataset named grid", list)
	}

	// Render by id
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/datasets/"+created.ID+"/render?format=json", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("render status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var stats struct {
		Areas int `json:"areas"`
		Links int `json:"links"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("render body: %v", err)
	}
	if stats.Areas != 4 || stats.Links != 6 {
		t.Errorf("stats = %+v, want 4 areas and 6 links", stats)
	}

	// Delete
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/datasets/"+created.ID, nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	// Gone
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/datasets/"+created.ID, nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestDatasetInvalidID(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/datasets/not-a-uuid", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	srv := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "client-supplied")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "client-supplied" {
		t.Errorf("request id = %q, want the client-supplied one", got)
	}
}

func TestShutdown(t *testing.T) {
	srv := New(Config{Addr: "127.0.0.1:0"})
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()
	cancel()

	if err := <-done; err != nil && err != http.ErrServerClosed {
		t.Errorf("ListenAndServe after cancel = %v", err)
	}
}
