package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/macrolog/internal/model"
	"github.com/dukerupert/macrolog/internal/plan"
	"github.com/dukerupert/macrolog/internal/tracker"
)

type ProfileHandler struct {
	tracker *tracker.Tracker
	logger  *slog.Logger
}

func NewProfileHandler(t *tracker.Tracker, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{tracker: t, logger: logger}
}

// profileRequest updates only the fields that are present. Imperial fields
// take precedence over their metric counterparts.
type profileRequest struct {
	Gender        *model.Gender `json:"gender"`
	HeightCm      *float64      `json:"height_cm"`
	WeightKg      *float64      `json:"weight_kg"`
	GoalWeightKg  *float64      `json:"goal_weight_kg"`
	Units         *model.Units  `json:"units"`
	HeightFt      *float64      `json:"height_ft"`
	HeightIn      *float64      `json:"height_in"`
	WeightLbs     *float64      `json:"weight_lbs"`
	GoalWeightLbs *float64      `json:"goal_weight_lbs"`
}

func (req profileRequest) apply(p model.Profile) model.Profile {
	if req.Gender != nil {
		p.Gender = *req.Gender
	}
	if req.Units != nil {
		p.Units = *req.Units
	}
	if req.HeightCm != nil {
		p.HeightCm = *req.HeightCm
	}
	if req.WeightKg != nil {
		p.WeightKg = *req.WeightKg
	}
	if req.GoalWeightKg != nil {
		p.GoalWeightKg = *req.GoalWeightKg
	}
	if req.HeightFt != nil || req.HeightIn != nil {
		var ft, in float64
		if req.HeightFt != nil {
			ft = *req.HeightFt
		}
		if req.HeightIn != nil {
			in = *req.HeightIn
		}
		p.HeightCm = plan.FtInToCm(ft, in)
	}
	if req.WeightLbs != nil {
		p.WeightKg = plan.LbsToKg(*req.WeightLbs)
	}
	if req.GoalWeightLbs != nil {
		p.GoalWeightKg = plan.LbsToKg(*req.GoalWeightLbs)
	}
	return p
}

// profileResponse carries imperial equivalents alongside the stored metric
// profile so clients can display either.
type profileResponse struct {
	model.Profile
	HeightFt      int     `json:"height_ft"`
	HeightIn      int     `json:"height_in"`
	WeightLbs     float64 `json:"weight_lbs"`
	GoalWeightLbs float64 `json:"goal_weight_lbs"`
}

func newProfileResponse(p model.Profile) profileResponse {
	ft, in := plan.CmToFtIn(p.HeightCm)
	return profileResponse{
		Profile:       p,
		HeightFt:      ft,
		HeightIn:      in,
		WeightLbs:     model.Round1(plan.KgToLbs(p.WeightKg)),
		GoalWeightLbs: model.Round1(plan.KgToLbs(p.GoalWeightKg)),
	}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newProfileResponse(h.tracker.Profile()))
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p := req.apply(h.tracker.Profile())
	if err := p.Validate(); err != nil {
		if errors.Is(err, model.ErrInvalidProfile) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("validate profile", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	h.tracker.SetProfile(p)
	writeJSON(w, http.StatusOK, newProfileResponse(p))
}

func (h *ProfileHandler) Plan(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.tracker.Plan())
}
