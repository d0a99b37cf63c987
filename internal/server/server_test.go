package server

import (
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dukerupert/macrolog/internal/config"
	"github.com/dukerupert/macrolog/internal/database"
	"github.com/dukerupert/macrolog/internal/model"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.FromEnv(func(string) string { return "" })
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg.MealsPerMinute = 3
	return cfg
}

func newTestServer(t *testing.T, db *sql.DB) *Server {
	t.Helper()
	return New(db, testConfig(t), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func request(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, setupDB(t))

	rec := request(srv.Router(), "GET", "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got healthResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != "ok" || got.SchemaVersion != 2 || got.Entries != 0 {
		t.Errorf("health = %+v", got)
	}
}

func TestStatePersistsAcrossRestart(t *testing.T) {
	db := setupDB(t)

	srv := newTestServer(t, db)
	router := srv.Router()
	if rec := request(router, "POST", "/api/meals", `{"input":"2 eggs and toast"}`); rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if rec := request(router, "PUT", "/api/profile", `{"gender":"female"}`); rec.Code != http.StatusOK {
		t.Fatalf("profile status = %d, body = %s", rec.Code, rec.Body.String())
	}

	restarted := newTestServer(t, db)
	entries := restarted.Tracker().Entries()
	if len(entries) != 1 || entries[0].Input != "2 eggs and toast" {
		t.Errorf("entries after restart = %+v", entries)
	}
	if restarted.Tracker().Profile().Gender != model.GenderFemale {
		t.Errorf("profile after restart = %+v", restarted.Tracker().Profile())
	}
}

func TestCorruptStateIgnored(t *testing.T) {
	db := setupDB(t)
	if _, err := db.Exec(`INSERT INTO kv (key, value) VALUES ('aft_log', 'not json'), ('aft_profile', '{')`); err != nil {
		t.Fatalf("seed: %v", err)
	}

	srv := newTestServer(t, db)
	if n := len(srv.Tracker().Entries()); n != 0 {
		t.Errorf("entries = %d, want 0", n)
	}
	if srv.Tracker().Profile() != model.DefaultProfile() {
		t.Errorf("profile = %+v, want default", srv.Tracker().Profile())
	}

	rec := request(srv.Router(), "POST", "/api/meals", `{"input":"banana"}`)
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestMealsRateLimited(t *testing.T) {
	srv := newTestServer(t, setupDB(t))
	router := srv.Router()

	for i := 0; i < 3; i++ {
		if rec := request(router, "POST", "/api/meals", `{"input":"egg"}`); rec.Code != http.StatusCreated {
			t.Fatalf("request %d: status = %d", i+1, rec.Code)
		}
	}
	rec := request(router, "POST", "/api/meals", `{"input":"egg"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}

	// Preview is not limited.
	if rec := request(router, "POST", "/api/parse", `{"input":"egg"}`); rec.Code != http.StatusOK {
		t.Errorf("parse status = %d", rec.Code)
	}
}

func TestRoutesMethodMismatch(t *testing.T) {
	srv := newTestServer(t, setupDB(t))

	rec := request(srv.Router(), "PATCH", "/api/profile", `{}`)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
	rec = request(srv.Router(), "GET", "/api/unknown", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestBackupDisabledByDefault(t *testing.T) {
	srv := newTestServer(t, setupDB(t))

	rec := request(srv.Router(), "POST", "/api/backup", `{"passphrase":"pw"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
