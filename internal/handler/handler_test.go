package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"skysight/internal/domain"
	"skysight/internal/optimizer"
	"skysight/internal/repository/sqlite"
	"skysight/internal/service"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	repo, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	bus := service.NewEventBus()
	cameras := service.NewCameraService(repo, bus)
	strategies := service.NewStrategyService(repo, bus)
	dither := service.NewDitherService(repo, cameras, bus, nil, optimizer.Default(),
		service.Options{Workers: 2})

	cameraHandler := NewCameraHandler(cameras)
	strategyHandler := NewStrategyHandler(strategies)
	ditherHandler := NewDitherHandler(dither)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/cameras", cameraHandler.List)
	mux.HandleFunc("POST /api/cameras", cameraHandler.Create)
	mux.HandleFunc("GET /api/cameras/{name}", cameraHandler.Get)
	mux.HandleFunc("PUT /api/cameras/{name}", cameraHandler.Update)
	mux.HandleFunc("DELETE /api/cameras/{name}", cameraHandler.Delete)
	mux.HandleFunc("GET /api/cameras/{name}/footprint", cameraHandler.GetFootprint)
	mux.HandleFunc("GET /api/strategies", strategyHandler.List)
	mux.HandleFunc("POST /api/strategies", strategyHandler.Create)
	mux.HandleFunc("GET /api/strategies/{id}", strategyHandler.Get)
	mux.HandleFunc("PUT /api/strategies/{id}", strategyHandler.Update)
	mux.HandleFunc("DELETE /api/strategies/{id}", strategyHandler.Delete)
	mux.HandleFunc("POST /api/strategies/{id}/evaluate", ditherHandler.EvaluateStrategy)
	mux.HandleFunc("POST /api/evaluate", ditherHandler.Evaluate)
	mux.HandleFunc("POST /api/optimize", ditherHandler.Optimize)
	mux.HandleFunc("GET /api/reports", ditherHandler.ListReports)
	mux.HandleFunc("GET /api/reports/{id}", ditherHandler.GetReport)
	mux.HandleFunc("POST /api/import/yaml", cameraHandler.ImportYAML)
	mux.HandleFunc("GET /api/export/yaml", cameraHandler.ExportYAML)
	mux.HandleFunc("GET /api/export/json", cameraHandler.ExportJSON)
	mux.HandleFunc("GET /api/healthz", Healthz)

	srv := httptest.NewServer(Chain(mux, Recover, CORS))
	t.Cleanup(srv.Close)
	return srv
}

func request(t *testing.T, srv *httptest.Server, method, path, body string, out interface{}) int {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && resp.StatusCode < 300 {
			t.Fatalf("%s %s: decode response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

const squareCameraJSON = `{
	"name": "toy",
	"footprint": [[{"x": -1, "y": -1}, {"x": -1, "y": 1}, {"x": 1, "y": 1}, {"x": 1, "y": -1}]]
}`

func createToyCamera(t *testing.T, srv *httptest.Server) {
	t.Helper()
	if code := request(t, srv, "POST", "/api/cameras", squareCameraJSON, nil); code != http.StatusCreated {
		t.Fatalf("create camera: status %d", code)
	}
}

func TestCameraEndpoints(t *testing.T) {
	srv := newTestServer(t)

	t.Run("create", func(t *testing.T) {
		var rec struct {
			Name   string `json:"name"`
			Source string `json:"source"`
		}
		code := request(t, srv, "POST", "/api/cameras", squareCameraJSON, &rec)
		if code != http.StatusCreated {
			t.Fatalf("status = %d", code)
		}
		if rec.Name != "toy" || rec.Source != "api" {
			t.Errorf("unexpected record: %+v", rec)
		}
	})

	t.Run("create without name", func(t *testing.T) {
		code := request(t, srv, "POST", "/api/cameras", `{"footprint": []}`, nil)
		if code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", code)
		}
	})

	t.Run("get", func(t *testing.T) {
		var rec struct {
			Name string `json:"name"`
		}
		if code := request(t, srv, "GET", "/api/cameras/toy", "", &rec); code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		if rec.Name != "toy" {
			t.Errorf("name = %q", rec.Name)
		}
	})

	t.Run("get missing is 404", func(t *testing.T) {
		if code := request(t, srv, "GET", "/api/cameras/ghost", "", nil); code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", code)
		}
	})

	t.Run("footprint summary", func(t *testing.T) {
		var summary FootprintSummary
		if code := request(t, srv, "GET", "/api/cameras/toy/footprint", "", &summary); code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		if summary.Area != 4.0 || summary.CCDs != 1 {
			t.Errorf("unexpected summary: %+v", summary)
		}
	})

	t.Run("list", func(t *testing.T) {
		var recs []json.RawMessage
		if code := request(t, srv, "GET", "/api/cameras", "", &recs); code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		if len(recs) != 1 {
			t.Errorf("expected 1 camera, got %d", len(recs))
		}
	})

	t.Run("delete", func(t *testing.T) {
		if code := request(t, srv, "DELETE", "/api/cameras/toy", "", nil); code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", code)
		}
		if code := request(t, srv, "GET", "/api/cameras/toy", "", nil); code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", code)
		}
	})
}

func TestStrategyEndpoints(t *testing.T) {
	srv := newTestServer(t)
	createToyCamera(t, srv)

	var strat domain.Strategy
	body := `{"name": "pair", "camera": "toy", "slews": [{}, {"ra_offset_deg": 0.5}]}`

	t.Run("create", func(t *testing.T) {
		if code := request(t, srv, "POST", "/api/strategies", body, &strat); code != http.StatusCreated {
			t.Fatalf("status = %d", code)
		}
		if strat.ID == "" || strat.Name != "pair" {
			t.Fatalf("unexpected strategy: %+v", strat)
		}
	})

	t.Run("create for missing camera is 404", func(t *testing.T) {
		bad := `{"name": "x", "camera": "ghost", "slews": [{}]}`
		if code := request(t, srv, "POST", "/api/strategies", bad, nil); code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", code)
		}
	})

	t.Run("update", func(t *testing.T) {
		var updated domain.Strategy
		code := request(t, srv, "PUT", "/api/strategies/"+strat.ID, `{"name": "renamed"}`, &updated)
		if code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		if updated.Name != "renamed" {
			t.Errorf("name = %q", updated.Name)
		}
	})

	t.Run("evaluate", func(t *testing.T) {
		var report domain.Report
		code := request(t, srv, "POST", "/api/strategies/"+strat.ID+"/evaluate", "", &report)
		if code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		if report.Exposures != 2 || report.TotalArea <= 4.0 {
			t.Errorf("unexpected report: %+v", report)
		}

		var got domain.Report
		if code := request(t, srv, "GET", "/api/reports/"+report.ID, "", &got); code != http.StatusOK {
			t.Fatalf("get report: status = %d", code)
		}

		var reports []domain.Report
		if code := request(t, srv, "GET", "/api/reports?strategy_id="+strat.ID, "", &reports); code != http.StatusOK {
			t.Fatalf("list reports: status = %d", code)
		}
		if len(reports) != 1 {
			t.Errorf("expected 1 report, got %d", len(reports))
		}
	})

	t.Run("delete", func(t *testing.T) {
		if code := request(t, srv, "DELETE", "/api/strategies/"+strat.ID, "", nil); code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", code)
		}
	})
}

func TestEvaluateAdhoc(t *testing.T) {
	srv := newTestServer(t)
	createToyCamera(t, srv)

	t.Run("valid request", func(t *testing.T) {
		var report domain.Report
		body := `{"camera": "toy", "slews": [{}, {"dec_offset_deg": 1}]}`
		if code := request(t, srv, "POST", "/api/evaluate", body, &report); code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		if report.StrategyID != "" {
			t.Errorf("ad hoc report has strategy id %q", report.StrategyID)
		}
	})

	t.Run("missing slews", func(t *testing.T) {
		if code := request(t, srv, "POST", "/api/evaluate", `{"camera": "toy"}`, nil); code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", code)
		}
	})

	t.Run("missing camera name", func(t *testing.T) {
		if code := request(t, srv, "POST", "/api/evaluate", `{"slews": [{}]}`, nil); code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", code)
		}
	})
}

func TestOptimizeEndpoint(t *testing.T) {
	srv := newTestServer(t)
	createToyCamera(t, srv)

	var result service.OptimizeResult
	body := `{"camera": "toy", "searcher": "random", "exposures": 2, "samples": 8, "seed": 3}`
	if code := request(t, srv, "POST", "/api/optimize", body, &result); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if result.RunID == "" || result.Result == nil {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Result.Evaluated != 8 {
		t.Errorf("evaluated = %d, want 8", result.Result.Evaluated)
	}

	t.Run("unknown camera is 404", func(t *testing.T) {
		bad := `{"camera": "ghost", "searcher": "random"}`
		if code := request(t, srv, "POST", "/api/optimize", bad, nil); code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", code)
		}
	})
}

func TestImportExportEndpoints(t *testing.T) {
	srv := newTestServer(t)

	doc := `
cameras:
  - name: toy
    ccds:
      - [[-1, -1], [-1, 1], [1, 1], [1, -1]]
`
	var result service.ImportResult
	if code := request(t, srv, "POST", "/api/import/yaml", doc, &result); code != http.StatusOK {
		t.Fatalf("import: status = %d", code)
	}
	if result.Cameras != 1 {
		t.Errorf("imported %d cameras", result.Cameras)
	}

	resp, err := srv.Client().Get(srv.URL + "/api/export/yaml")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "application/x-yaml" {
		t.Errorf("content type = %q", ct)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	var status map[string]string
	if code := request(t, srv, "GET", "/api/healthz", "", &status); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if status["status"] != "ok" {
		t.Errorf("body = %v", status)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/cameras", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", resp.StatusCode)
	}
	if origin := resp.Header.Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("allow origin = %q", origin)
	}
}

func TestRecoverMiddleware(t *testing.T) {
	panicky := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	srv := httptest.NewServer(Chain(panicky, Recover))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
	var body ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error == "" {
		t.Error("expected error message")
	}
}
