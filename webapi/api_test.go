package webapi

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pixlab/db"
	"pixlab/imagemeta"
	"pixlab/kernel"
	"pixlab/logging"
	"pixlab/metrics"
	"pixlab/transform"
)

func TestNewTransformAPI(t *testing.T) {
	t.Run("corrects invalid config values", func(t *testing.T) {
		store := metrics.NewStore(metrics.DefaultStoreConfig(), time.Now())
		lib := kernel.NewLibrary()
		dispatcher, err := transform.NewDispatcher(lib, lib, logging.NewNop(), transform.DefaultDispatcherConfig())
		if err != nil {
			t.Fatalf("NewDispatcher() error = %v", err)
		}

		api := NewTransformAPI(dispatcher, store, nil, nil, nil, TransformAPIConfig{
			DefaultLimit: 0,
			MaxLimit:     -5,
			MaxBodyBytes: 0,
		})

		defaults := DefaultTransformAPIConfig()
		if api.defaultLimit != defaults.DefaultLimit {
			t.Errorf("defaultLimit = %d, want %d", api.defaultLimit, defaults.DefaultLimit)
		}
		if api.maxLimit != defaults.MaxLimit {
			t.Errorf("maxLimit = %d, want %d", api.maxLimit, defaults.MaxLimit)
		}
		if api.maxBodyBytes != defaults.MaxBodyBytes {
			t.Errorf("maxBodyBytes = %d, want %d", api.maxBodyBytes, defaults.MaxBodyBytes)
		}
		if api.logger == nil {
			t.Error("nil logger should be replaced with a no-op logger")
		}
	})
}

func TestHandleStatus(t *testing.T) {
	t.Run("reports uptime and version", func(t *testing.T) {
		started := time.Now().Add(-90 * time.Minute)
		store := metrics.NewStore(metrics.DefaultStoreConfig(), started)
		lib := kernel.NewLibrary()

		cfg := transform.DefaultDispatcherConfig()
		cfg.Collector = store
		dispatcher, err := transform.NewDispatcher(lib, lib, logging.NewNop(), cfg)
		if err != nil {
			t.Fatalf("NewDispatcher() error = %v", err)
		}

		apiCfg := DefaultTransformAPIConfig()
		apiCfg.VersionInfo = VersionInfo{Version: "1.2.3", GitCommit: "abc1234"}
		api := NewTransformAPI(dispatcher, store, nil, nil, nil, apiCfg)

		req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
		w := httptest.NewRecorder()
		api.HandleStatus(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}

		var resp StatusResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if resp.Health != metrics.SystemHealthRunning {
			t.Errorf("health = %q, want %q", resp.Health, metrics.SystemHealthRunning)
		}
		if resp.Version != "1.2.3" {
			t.Errorf("version = %q, want 1.2.3", resp.Version)
		}
		if resp.GitCommit != "abc1234" {
			t.Errorf("git_commit = %q, want abc1234", resp.GitCommit)
		}
		if resp.Uptime != "1h 30m" {
			t.Errorf("uptime = %q, want \"1h 30m\"", resp.Uptime)
		}
		if resp.UptimeSecs < 5400 || resp.UptimeSecs > 5460 {
			t.Errorf("uptime_secs = %f, want ~5400", resp.UptimeSecs)
		}
	})

	t.Run("counts processed operations", func(t *testing.T) {
		api := newTestAPI(t, nil, nil)

		for i := 0; i < 3; i++ {
			if _, err := api.dispatcher.FlipHorizontal(testPixels(), 2, 2); err != nil {
				t.Fatalf("FlipHorizontal() error = %v", err)
			}
		}

		req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
		w := httptest.NewRecorder()
		api.HandleStatus(w, req)

		var resp StatusResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.TotalProcessed != 3 {
			t.Errorf("total_processed = %d, want 3", resp.TotalProcessed)
		}
		if resp.TotalErrors != 0 {
			t.Errorf("total_errors = %d, want 0", resp.TotalErrors)
		}
	})

	t.Run("rejects non-GET requests", func(t *testing.T) {
		api := newTestAPI(t, nil, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/status", nil)
		w := httptest.NewRecorder()
		api.HandleStatus(w, req)

		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status 405, got %d", w.Code)
		}
	})
}

func TestHandleOps(t *testing.T) {
	api := newTestAPI(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/ops", nil)
	w := httptest.NewRecorder()
	api.HandleOps(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp OpsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Count != 10 {
		t.Errorf("count = %d, want 10", resp.Count)
	}
	if len(resp.Ops) != resp.Count {
		t.Errorf("ops length %d disagrees with count %d", len(resp.Ops), resp.Count)
	}

	var resize *transform.OpInfo
	for i := range resp.Ops {
		if resp.Ops[i].Name == transform.OpResize {
			resize = &resp.Ops[i]
			break
		}
	}
	if resize == nil {
		t.Fatal("catalog is missing the resize operation")
	}
	found := false
	for _, p := range resize.Params {
		if p == "target_width" {
			found = true
		}
	}
	if !found {
		t.Errorf("resize params %v should include target_width", resize.Params)
	}
}

func TestHandleStats(t *testing.T) {
	api := newTestAPI(t, nil, nil)

	// One success, one failure
	if _, err := api.dispatcher.FlipHorizontal(testPixels(), 2, 2); err != nil {
		t.Fatalf("FlipHorizontal() error = %v", err)
	}
	if _, err := api.dispatcher.FlipHorizontal([]byte{1, 2, 3, 4}, 2, 2); err == nil {
		t.Fatal("expected short buffer to fail")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w := httptest.NewRecorder()
	api.HandleStats(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp StatsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.TotalProcessed != 2 {
		t.Errorf("total_processed = %d, want 2", resp.TotalProcessed)
	}
	if resp.TotalSuccess != 1 {
		t.Errorf("total_success = %d, want 1", resp.TotalSuccess)
	}
	if resp.TotalErrors != 1 {
		t.Errorf("total_errors = %d, want 1", resp.TotalErrors)
	}
	if resp.SuccessRate != 50 {
		t.Errorf("success_rate = %f, want 50", resp.SuccessRate)
	}
	if resp.BytesIn != int64(len(testPixels())+4) {
		t.Errorf("bytes_in = %d, want %d", resp.BytesIn, len(testPixels())+4)
	}
	if _, ok := resp.ByOp[transform.OpFlipHorizontal]; !ok {
		t.Errorf("by_op %v should carry flip_horizontal", resp.ByOp)
	}
}

func TestHandleHistory(t *testing.T) {
	t.Run("returns 503 without a repository", func(t *testing.T) {
		api := newTestAPI(t, nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
		w := httptest.NewRecorder()
		api.HandleHistory(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected status 503, got %d", w.Code)
		}
	})

	t.Run("returns recorded operations newest first", func(t *testing.T) {
		history := newTestHistory(t)
		api := newTestAPI(t, history, nil)

		ctx := context.Background()
		for _, op := range []string{"blur", "crop", "resize"} {
			_, err := history.InsertOperation(ctx, db.OperationRecord{
				OpID:   op + "-id",
				Op:     op,
				Status: metrics.OpStatusSuccess,
				Width:  2, Height: 2,
				OutputWidth: 2, OutputHeight: 2,
			})
			if err != nil {
				t.Fatalf("InsertOperation(%s) error = %v", op, err)
			}
		}

		req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
		w := httptest.NewRecorder()
		api.HandleHistory(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}

		var resp HistoryResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Count != 3 {
			t.Fatalf("count = %d, want 3", resp.Count)
		}
		if resp.Operations[0].Op != "resize" {
			t.Errorf("newest op = %q, want resize", resp.Operations[0].Op)
		}
		if resp.Operations[0].OpID != "resize-id" {
			t.Errorf("newest op_id = %q, want resize-id", resp.Operations[0].OpID)
		}
	})

	t.Run("limit parsing", func(t *testing.T) {
		history := newTestHistory(t)
		api := newTestAPI(t, history, nil)

		tests := []struct {
			name      string
			query     string
			wantLimit int
		}{
			{name: "default", query: "", wantLimit: 20},
			{name: "explicit", query: "?limit=1", wantLimit: 1},
			{name: "clamped to max", query: "?limit=500", wantLimit: 100},
			{name: "non-numeric falls back", query: "?limit=abc", wantLimit: 20},
			{name: "negative falls back", query: "?limit=-3", wantLimit: 20},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req := httptest.NewRequest(http.MethodGet, "/api/history"+tt.query, nil)
				w := httptest.NewRecorder()
				api.HandleHistory(w, req)

				if w.Code != http.StatusOK {
					t.Fatalf("expected status 200, got %d", w.Code)
				}
				var resp HistoryResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if resp.Limit != tt.wantLimit {
					t.Errorf("limit = %d, want %d", resp.Limit, tt.wantLimit)
				}
			})
		}
	})
}

func TestHandlePresetsEndpoint(t *testing.T) {
	t.Run("empty library yields empty array", func(t *testing.T) {
		api := newTestAPI(t, nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/presets", nil)
		w := httptest.NewRecorder()
		api.HandlePresets(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}

		var resp PresetsResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Count != 0 {
			t.Errorf("count = %d, want 0", resp.Count)
		}
		if resp.Presets == nil {
			t.Error("presets should serialize as an empty array, not null")
		}
	})

	t.Run("lists presets sorted by name", func(t *testing.T) {
		presets, err := ParsePresets([]byte(`
presets:
  web_thumbnail:
    - op: flip_horizontal
  archive:
    - op: grayscale
`))
		if err != nil {
			t.Fatalf("ParsePresets() error = %v", err)
		}
		api := newTestAPI(t, nil, presets)

		req := httptest.NewRequest(http.MethodGet, "/api/presets", nil)
		w := httptest.NewRecorder()
		api.HandlePresets(w, req)

		var resp PresetsResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Count != 2 {
			t.Fatalf("count = %d, want 2", resp.Count)
		}
		if resp.Presets[0].Name != "archive" || resp.Presets[1].Name != "web_thumbnail" {
			t.Errorf("presets out of order: %q, %q", resp.Presets[0].Name, resp.Presets[1].Name)
		}
	})
}

func TestHandleMetadata(t *testing.T) {
	t.Run("reports PNG dimensions", func(t *testing.T) {
		api := newTestAPI(t, nil, nil)

		var buf bytes.Buffer
		img := image.NewRGBA(image.Rect(0, 0, 12, 7))
		if err := png.Encode(&buf, img); err != nil {
			t.Fatalf("encode png: %v", err)
		}

		req := httptest.NewRequest(http.MethodPost, "/api/metadata", bytes.NewReader(buf.Bytes()))
		w := httptest.NewRecorder()
		api.HandleMetadata(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}

		var meta imagemeta.Metadata
		if err := json.NewDecoder(w.Body).Decode(&meta); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if meta.Format != imagemeta.FormatPNG {
			t.Errorf("format = %q, want png", meta.Format)
		}
		if meta.Width == nil || *meta.Width != 12 {
			t.Errorf("width = %v, want 12", meta.Width)
		}
		if meta.Height == nil || *meta.Height != 7 {
			t.Errorf("height = %v, want 7", meta.Height)
		}
		if meta.SizeBytes != buf.Len() {
			t.Errorf("size_bytes = %d, want %d", meta.SizeBytes, buf.Len())
		}
	})

	t.Run("unrecognized bytes still return 200", func(t *testing.T) {
		api := newTestAPI(t, nil, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/metadata", bytes.NewReader([]byte("definitely not an image")))
		w := httptest.NewRecorder()
		api.HandleMetadata(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}

		var meta imagemeta.Metadata
		if err := json.NewDecoder(w.Body).Decode(&meta); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if meta.Format != imagemeta.FormatUnknown {
			t.Errorf("format = %q, want unknown", meta.Format)
		}
		if meta.Width != nil || meta.Height != nil {
			t.Error("unknown format should report null dimensions")
		}
	})

	t.Run("rejects non-POST requests", func(t *testing.T) {
		api := newTestAPI(t, nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/metadata", nil)
		w := httptest.NewRecorder()
		api.HandleMetadata(w, req)

		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status 405, got %d", w.Code)
		}
	})
}
