package application

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/warehouse-allocator/internal/config"
	"github.com/eugenenazirov/warehouse-allocator/internal/warehouse"
)

func TestNewInitializesDependencies(t *testing.T) {
	cfg := baseTestConfig(":8085")
	cfg.InitialRooms = []warehouse.RoomSpec{
		{Name: "attic", Capacity: 40, Stairs: true},
		{Name: "lab", Capacity: 200, Hazards: warehouse.Biological},
	}
	logger := zaptest.NewLogger(t)

	app, err := New(cfg, logger)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if app.server == nil || app.server.Handler == nil {
		t.Fatalf("expected server and handler to be initialized")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/rooms", nil)
	rec := httptest.NewRecorder()
	app.Server().Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Rooms []warehouse.RoomSpec `json:"rooms"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode rooms: %v", err)
	}
	if len(body.Rooms) != 2 || body.Rooms[0].Name != "attic" || body.Rooms[1].Name != "lab" {
		t.Fatalf("expected configured rooms in order, got %v", body.Rooms)
	}
	if app.Server() != app.server {
		t.Fatalf("Server accessor did not return underlying instance")
	}
}

func TestNewServerAppliesConfig(t *testing.T) {
	cfg := baseTestConfig("9090")
	handler := http.NewServeMux()

	server := NewServer(cfg, handler)
	if server.Addr != ":9090" {
		t.Fatalf("expected address :9090, got %s", server.Addr)
	}
	if server.Handler != handler {
		t.Fatalf("expected handler to be applied")
	}
	if server.ReadHeaderTimeout != cfg.ReadHeaderTimeout ||
		server.WriteTimeout != cfg.WriteTimeout ||
		server.IdleTimeout != cfg.IdleTimeout {
		t.Fatalf("server timeouts do not match configuration")
	}
}

func TestNewReturnsErrorForInvalidRooms(t *testing.T) {
	cfg := baseTestConfig(":0")
	cfg.InitialRooms = nil

	if _, err := New(cfg, zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected error for empty layout")
	}
}

func TestBuildRootHandlerServesEmbeddedAssets(t *testing.T) {
	handler, err := BuildRootHandler(http.NotFoundHandler())
	if err != nil {
		t.Fatalf("BuildRootHandler returned error: %v", err)
	}

	for _, path := range []string{"/", "/static/app.js", "/static/style.css"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", path, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "Warehouse Allocator") {
		t.Fatalf("expected index page, got %q", body)
	}
}

func TestAppServesAllocations(t *testing.T) {
	cfg := baseTestConfig(":0")
	app, err := New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	body := `{"boxes": [{"name": "big", "volume": 60}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/allocate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	app.server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"acceptedCount":1`) {
		t.Fatalf("expected one accepted box, got %s", rec.Body.String())
	}
}

func TestAppAppliesRoomLimit(t *testing.T) {
	cfg := baseTestConfig(":0")
	cfg.MaxRooms = 1
	app, err := New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	body := `{"rooms": [{"name": "a", "capacity": 1}, {"name": "b", "capacity": 1}]}`
	req := httptest.NewRequest(http.MethodPut, "/api/rooms", strings.NewReader(body))
	rec := httptest.NewRecorder()
	app.server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func baseTestConfig(port string) config.Config {
	return config.Config{
		Port: port,
		InitialRooms: []warehouse.RoomSpec{
			{Name: "ground", Capacity: 100},
		},
		MaxBatchSize:         100,
		ShutdownGracePeriod:  50 * time.Millisecond,
		ReadHeaderTimeout:    20 * time.Millisecond,
		WriteTimeout:         30 * time.Millisecond,
		IdleTimeout:          40 * time.Millisecond,
		EnableRequestLogging: false,
		RateLimitRPS:         0,
		RateLimitBurst:       0,
	}
}
