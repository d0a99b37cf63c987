package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dukerupert/macrolog/internal/backup"
	"github.com/dukerupert/macrolog/internal/model"
	"github.com/dukerupert/macrolog/internal/tracker"
)

var fixedNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestMux(t *testing.T) (*http.ServeMux, *tracker.Tracker) {
	t.Helper()
	n := 0
	tr := tracker.New(nil, nil, discardLogger(),
		tracker.WithClock(func() time.Time { return fixedNow }),
		tracker.WithIDFunc(func() string {
			n++
			return fmt.Sprintf("m%d", n)
		}),
	)

	meals := NewMealHandler(tr, discardLogger())
	profile := NewProfileHandler(tr, discardLogger())
	backups := NewBackupHandler(backup.NewManager(backup.Config{Namespace: "aft"}, tr, nil, discardLogger(), nil), discardLogger())

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/parse", meals.Parse)
	mux.HandleFunc("POST /api/meals", meals.Create)
	mux.HandleFunc("GET /api/meals", meals.List)
	mux.HandleFunc("GET /api/meals/{id}", meals.Get)
	mux.HandleFunc("DELETE /api/meals/{id}", meals.Delete)
	mux.HandleFunc("GET /api/totals/daily", meals.DailyTotals)
	mux.HandleFunc("GET /api/totals/weekly", meals.WeeklyTotals)
	mux.HandleFunc("GET /api/totals/today", meals.Today)
	mux.HandleFunc("GET /api/profile", profile.Get)
	mux.HandleFunc("PUT /api/profile", profile.Update)
	mux.HandleFunc("GET /api/plan", profile.Plan)
	mux.HandleFunc("GET /api/foods", ListFoods)
	mux.HandleFunc("POST /api/backup", backups.Run)
	mux.HandleFunc("POST /api/backup/restore", backups.Restore)
	mux.HandleFunc("GET /api/backup/status", backups.Status)
	return mux, tr
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decode(t, rec, &body)
	return body["error"]
}

func TestParseDoesNotLog(t *testing.T) {
	mux, tr := newTestMux(t)

	rec := do(t, mux, "POST", "/api/parse", `{"input":"2 eggs and 1 cup rice"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got parseResponse
	decode(t, rec, &got)
	if len(got.Items) != 2 {
		t.Fatalf("items = %+v", got.Items)
	}
	if got.Items[1].MatchedAs != "rice" || got.Items[1].Unit != "cup" {
		t.Errorf("rice item = %+v", got.Items[1])
	}
	want := model.Macro{Calories: 286, Protein: 14.7, Carbs: 29.2, Fat: 10.3}
	if got.Totals != want {
		t.Errorf("totals = %+v, want %+v", got.Totals, want)
	}
	if len(tr.Entries()) != 0 {
		t.Error("parse should not log an entry")
	}
}

func TestParseEmptyInput(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := do(t, mux, "POST", "/api/parse", `{"input":""}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got parseResponse
	decode(t, rec, &got)
	if got.Items == nil || len(got.Items) != 0 || !got.Totals.IsZero() {
		t.Errorf("got %+v", got)
	}
}

func TestMealLifecycle(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := do(t, mux, "POST", "/api/meals", `{"input":"banana"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var created model.MealEntry
	decode(t, rec, &created)
	if created.ID != "m1" || created.Totals.Calories != 105 {
		t.Errorf("created = %+v", created)
	}

	do(t, mux, "POST", "/api/meals", `{"input":"apple"}`)

	rec = do(t, mux, "GET", "/api/meals", "")
	var list []model.MealEntry
	decode(t, rec, &list)
	if len(list) != 2 || list[0].ID != "m2" {
		t.Errorf("list = %+v", list)
	}

	rec = do(t, mux, "GET", "/api/meals/m1", "")
	if rec.Code != http.StatusOK {
		t.Errorf("get status = %d", rec.Code)
	}

	rec = do(t, mux, "DELETE", "/api/meals/m1", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}

	rec = do(t, mux, "GET", "/api/meals/m1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get deleted status = %d", rec.Code)
	}
	if msg := errorOf(t, rec); msg != "meal entry not found" {
		t.Errorf("error = %q", msg)
	}

	rec = do(t, mux, "DELETE", "/api/meals/m1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d", rec.Code)
	}
}

func TestCreateMealBadRequests(t *testing.T) {
	mux, _ := newTestMux(t)

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"blank input", `{"input":"   "}`, "input is required"},
		{"missing input", `{}`, "input is required"},
		{"bad json", `{"input":`, "invalid JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, mux, "POST", "/api/meals", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", rec.Code)
			}
			if msg := errorOf(t, rec); msg != tt.wantErr {
				t.Errorf("error = %q, want %q", msg, tt.wantErr)
			}
		})
	}
}

func TestCreateMealBodyTooLarge(t *testing.T) {
	mux, _ := newTestMux(t)

	body := `{"input":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	rec := do(t, mux, "POST", "/api/meals", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if msg := errorOf(t, rec); msg != "request body too large" {
		t.Errorf("error = %q", msg)
	}
}

func TestTotals(t *testing.T) {
	mux, _ := newTestMux(t)
	do(t, mux, "POST", "/api/meals", `{"input":"2 eggs"}`)
	do(t, mux, "POST", "/api/meals", `{"input":"toast"}`)

	rec := do(t, mux, "GET", "/api/totals/daily", "")
	var days []tracker.DayTotal
	decode(t, rec, &days)
	if len(days) != 1 || days[0].Day != "2026-03-02" || days[0].Entries != 2 || days[0].Totals.Calories != 236 {
		t.Errorf("daily = %+v", days)
	}

	rec = do(t, mux, "GET", "/api/totals/weekly", "")
	var weeks []tracker.WeekTotal
	decode(t, rec, &weeks)
	if len(weeks) != 1 || weeks[0].WeekStart != "2026-03-02" || weeks[0].DaysLogged != 1 {
		t.Errorf("weekly = %+v", weeks)
	}

	rec = do(t, mux, "GET", "/api/totals/today", "")
	var today todayResponse
	decode(t, rec, &today)
	if today.Totals.Calories != 236 {
		t.Errorf("today = %+v", today.Totals)
	}
	if today.Remaining.Remaining.Calories != 1303 {
		t.Errorf("remaining calories = %v, want 1303", today.Remaining.Remaining.Calories)
	}
}

func TestProfileGetDefault(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := do(t, mux, "GET", "/api/profile", "")
	var got profileResponse
	decode(t, rec, &got)
	if got.Profile != model.DefaultProfile() {
		t.Errorf("profile = %+v", got.Profile)
	}
	if got.HeightFt != 5 || got.HeightIn != 9 {
		t.Errorf("height = %d ft %d in, want 5 ft 9 in", got.HeightFt, got.HeightIn)
	}
	if got.WeightLbs != 165.3 {
		t.Errorf("weight_lbs = %v, want 165.3", got.WeightLbs)
	}
}

func TestProfileUpdatePartial(t *testing.T) {
	mux, tr := newTestMux(t)

	rec := do(t, mux, "PUT", "/api/profile", `{"gender":"female","goal_weight_kg":65}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	p := tr.Profile()
	if p.Gender != model.GenderFemale || p.GoalWeightKg != 65 || p.HeightCm != 175 {
		t.Errorf("profile = %+v", p)
	}
}

func TestProfileUpdateImperial(t *testing.T) {
	mux, tr := newTestMux(t)

	rec := do(t, mux, "PUT", "/api/profile", `{"units":"imperial","height_ft":6,"height_in":0,"weight_lbs":200,"goal_weight_lbs":180}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	p := tr.Profile()
	if p.Units != model.UnitsImperial {
		t.Errorf("units = %q", p.Units)
	}
	if p.HeightCm < 182.8 || p.HeightCm > 182.9 {
		t.Errorf("height_cm = %v, want ~182.88", p.HeightCm)
	}
	if p.WeightKg < 90.7 || p.WeightKg > 90.8 {
		t.Errorf("weight_kg = %v, want ~90.72", p.WeightKg)
	}

	var got profileResponse
	decode(t, rec, &got)
	if got.HeightFt != 6 || got.HeightIn != 0 || got.WeightLbs != 200 {
		t.Errorf("response = %+v", got)
	}
}

func TestProfileUpdateInvalid(t *testing.T) {
	mux, tr := newTestMux(t)

	tests := []struct {
		name string
		body string
	}{
		{"height too small", `{"height_cm":50}`},
		{"weight too large", `{"weight_kg":400}`},
		{"bad gender", `{"gender":"other"}`},
		{"bad units", `{"units":"stone"}`},
		{"bad json", `{"gender":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, mux, "PUT", "/api/profile", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
		})
	}
	if tr.Profile() != model.DefaultProfile() {
		t.Error("invalid updates should leave the profile unchanged")
	}
}

func TestPlan(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := do(t, mux, "GET", "/api/plan", "")
	var got model.Plan
	decode(t, rec, &got)
	if got.BMR != 1699 || got.TDEE != 2039 || got.TargetCalories != 1539 {
		t.Errorf("plan = %+v", got)
	}
	if got.ProteinG != 135 || got.FatG != 60 || got.CarbsG != 115 {
		t.Errorf("macros = %d/%d/%d", got.ProteinG, got.FatG, got.CarbsG)
	}
}

func TestListFoods(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := do(t, mux, "GET", "/api/foods", "")
	var foods []foodResponse
	decode(t, rec, &foods)
	if len(foods) == 0 {
		t.Fatal("no foods")
	}

	byKey := make(map[string]foodResponse)
	for _, f := range foods {
		byKey[f.Key] = f
	}
	egg := byKey["egg"]
	if egg.Basis != "per_unit" || egg.Unit != "unit" || egg.Macros.Calories != 78 {
		t.Errorf("egg = %+v", egg)
	}
	rice := byKey["rice"]
	if rice.Basis != "per_mass" || rice.GramsPerBasis != 100 || rice.Unit != "g" {
		t.Errorf("rice = %+v", rice)
	}
	found := false
	for _, a := range egg.Aliases {
		if a == "eggs" {
			found = true
		}
	}
	if !found {
		t.Errorf("egg aliases = %v, want eggs", egg.Aliases)
	}
}

func TestBackupNotConfigured(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := do(t, mux, "POST", "/api/backup", `{"passphrase":"pw"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("backup status = %d", rec.Code)
	}

	rec = do(t, mux, "POST", "/api/backup/restore", `{"key":"aft/x","passphrase":"pw"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("restore status = %d", rec.Code)
	}

	rec = do(t, mux, "POST", "/api/backup/restore", `{"passphrase":"pw"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("restore without key status = %d", rec.Code)
	}

	rec = do(t, mux, "POST", "/api/backup", `{"passphrase":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("backup without passphrase status = %d", rec.Code)
	}
}

func TestBackupStatus(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := do(t, mux, "GET", "/api/backup/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var raw map[string]json.RawMessage
	decode(t, rec, &raw)
	if !bytes.Equal(raw["state"], []byte(`"disabled"`)) {
		t.Errorf("state = %s", raw["state"])
	}
	if !bytes.Equal(raw["history"], []byte(`[]`)) {
		t.Errorf("history = %s", raw["history"])
	}
}
