package server

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/macrolog/internal/backup"
	"github.com/dukerupert/macrolog/internal/config"
	"github.com/dukerupert/macrolog/internal/database"
	"github.com/dukerupert/macrolog/internal/handler"
	"github.com/dukerupert/macrolog/internal/mealparse"
	"github.com/dukerupert/macrolog/internal/middleware"
	"github.com/dukerupert/macrolog/internal/nutrition"
	"github.com/dukerupert/macrolog/internal/store"
	"github.com/dukerupert/macrolog/internal/tracker"
	ws "github.com/dukerupert/macrolog/internal/websocket"
)

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	tracker       *tracker.Tracker
	mealH         *handler.MealHandler
	profileH      *handler.ProfileHandler
	backupH       *handler.BackupHandler
	rateLimiter   *middleware.RateLimiter
	backupManager *backup.Manager
	cfg           config.Config
	logger        *slog.Logger
}

// New wires the tracker, its journal store, the websocket hub and the
// backup manager, and loads any saved state.
func New(db *sql.DB, cfg config.Config, logger *slog.Logger, opts ...tracker.Option) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	journal := store.NewJournalStore(store.NewKVStore(db), cfg.Namespace)
	parser := mealparse.NewParser(nutrition.NewResolver(cfg.MatchPolicy))

	opts = append([]tracker.Option{tracker.WithNotifier(hub.Notify)}, opts...)
	t := tracker.New(parser, journal, logger.With("component", "tracker"), opts...)
	t.Load()

	backupMgr := backup.NewManager(cfg.Backup(), t, store.NewBackupStore(db), logger.With("component", "backup"), func(s backup.Status) {
		hub.Broadcast(ws.NewMessage("backup", "status", s.LastKey, map[string]any{
			"state":       string(s.State),
			"in_progress": s.InProgress,
			"error":       s.Error,
		}))
	})

	return &Server{
		db:            db,
		hub:           hub,
		tracker:       t,
		mealH:         handler.NewMealHandler(t, logger.With("component", "meal")),
		profileH:      handler.NewProfileHandler(t, logger.With("component", "profile")),
		backupH:       handler.NewBackupHandler(backupMgr, logger.With("component", "backup_handler")),
		rateLimiter:   middleware.NewRateLimiter(),
		backupManager: backupMgr,
		cfg:           cfg,
		logger:        logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// BackupManager returns the backup manager.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

func (s *Server) Tracker() *tracker.Tracker {
	return s.tracker
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	mux.HandleFunc("POST /api/parse", s.mealH.Parse)
	mux.HandleFunc("POST /api/meals", s.rateLimitedHandler(s.mealH.Create))
	mux.HandleFunc("GET /api/meals", s.mealH.List)
	mux.HandleFunc("GET /api/meals/{id}", s.mealH.Get)
	mux.HandleFunc("DELETE /api/meals/{id}", s.mealH.Delete)

	mux.HandleFunc("GET /api/totals/daily", s.mealH.DailyTotals)
	mux.HandleFunc("GET /api/totals/weekly", s.mealH.WeeklyTotals)
	mux.HandleFunc("GET /api/totals/today", s.mealH.Today)

	mux.HandleFunc("GET /api/profile", s.profileH.Get)
	mux.HandleFunc("PUT /api/profile", s.profileH.Update)
	mux.HandleFunc("GET /api/plan", s.profileH.Plan)

	mux.HandleFunc("GET /api/foods", handler.ListFoods)

	mux.HandleFunc("POST /api/backup", s.backupH.Run)
	mux.HandleFunc("POST /api/backup/restore", s.backupH.Restore)
	mux.HandleFunc("GET /api/backup/status", s.backupH.Status)

	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.cfg.WSOrigins...))

	httpLogger := s.logger.With("component", "http")
	return middleware.RequestLogger(httpLogger)(middleware.Recoverer(httpLogger)(mux))
}

type healthResponse struct {
	Status        string `json:"status"`
	SchemaVersion int64  `json:"schema_version"`
	Entries       int    `json:"entries"`
	Clients       int    `json:"clients"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	version, err := database.Version(s.db)
	if err != nil {
		s.logger.Error("health check", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		SchemaVersion: version,
		Entries:       len(s.tracker.Entries()),
		Clients:       s.hub.ClientCount(),
	})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, middleware.RealIP, s.cfg.MealsPerMinute, time.Minute)
	return rl(h).ServeHTTP
}
