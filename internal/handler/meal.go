package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/macrolog/internal/model"
	"github.com/dukerupert/macrolog/internal/plan"
	"github.com/dukerupert/macrolog/internal/tracker"
)

type MealHandler struct {
	tracker *tracker.Tracker
	logger  *slog.Logger
}

func NewMealHandler(t *tracker.Tracker, logger *slog.Logger) *MealHandler {
	return &MealHandler{tracker: t, logger: logger}
}

type mealRequest struct {
	Input string `json:"input"`
}

type parseResponse struct {
	Items  []model.ParsedItem `json:"items"`
	Totals model.Macro        `json:"totals"`
}

// Parse previews a meal without logging it.
func (h *MealHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req mealRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, totals := h.tracker.Parse(req.Input)
	writeJSON(w, http.StatusOK, parseResponse{Items: items, Totals: totals})
}

func (h *MealHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req mealRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.tracker.Add(req.Input)
	if errors.Is(err, tracker.ErrEmptyInput) {
		writeError(w, http.StatusBadRequest, "input is required")
		return
	}
	if err != nil {
		h.logger.Error("add meal", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to log meal")
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (h *MealHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.tracker.Entries())
}

func (h *MealHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry := h.tracker.Entry(r.PathValue("id"))
	if entry == nil {
		writeError(w, http.StatusNotFound, "meal entry not found")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *MealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.tracker.Remove(r.PathValue("id")) {
		writeError(w, http.StatusNotFound, "meal entry not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MealHandler) DailyTotals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.tracker.DailyTotals())
}

func (h *MealHandler) WeeklyTotals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.tracker.WeeklyTotals())
}

type todayResponse struct {
	Totals    model.Macro    `json:"totals"`
	Remaining plan.Remaining `json:"remaining"`
}

// Today reports what has been eaten today against the plan's targets.
func (h *MealHandler) Today(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, todayResponse{
		Totals:    h.tracker.Today(),
		Remaining: h.tracker.Remaining(),
	})
}
