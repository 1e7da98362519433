package handlers

import (
	"encoding/json"
	"net/http"

	"storynest/internal/models"
	"storynest/internal/service"
)

// PolicyHandler serves the parent-facing policy endpoints
type PolicyHandler struct {
	policies *service.PolicyService
}

// NewPolicyHandler creates a new policy handler
func NewPolicyHandler(policies *service.PolicyService) *PolicyHandler {
	return &PolicyHandler{policies: policies}
}

// GetPolicy handles GET /api/parent/children/{childId}/policy
func (h *PolicyHandler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	parentID := ParentIDFromContext(r.Context())
	childID, ok := pathID(w, r, "childId")
	if !ok {
		return
	}

	policy, err := h.policies.GetPolicy(parentID, childID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPolicyView(policy))
}

// policyUpdateRequest distinguishes absent fields from explicit values so a
// PUT can change one setting without clobbering the rest. A schedule of
// JSON null removes the window; an absent schedule leaves it alone.
type policyUpdateRequest struct {
	AllowedCategoryIDs *[]int64         `json:"allowedCategoryIds"`
	AllowedAgeGroupIDs *[]int64         `json:"allowedAgeGroupIds"`
	DailyLimitMinutes  *int             `json:"dailyLimitMinutes"`
	Schedule           *json.RawMessage `json:"schedule"`
}

// UpdatePolicy handles PUT /api/parent/children/{childId}/policy
func (h *PolicyHandler) UpdatePolicy(w http.ResponseWriter, r *http.Request) {
	parentID := ParentIDFromContext(r.Context())
	childID, ok := pathID(w, r, "childId")
	if !ok {
		return
	}

	var req policyUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, CodeValidationError, "malformed request body")
		return
	}

	update := service.PolicyUpdate{
		AllowedCategoryIDs: req.AllowedCategoryIDs,
		AllowedAgeGroupIDs: req.AllowedAgeGroupIDs,
		DailyLimitMinutes:  req.DailyLimitMinutes,
	}

	if req.Schedule != nil {
		if string(*req.Schedule) == "null" {
			update.ClearSchedule = true
		} else {
			var window scheduleView
			if err := json.Unmarshal(*req.Schedule, &window); err != nil {
				respondWithError(w, http.StatusBadRequest, CodeValidationError, "malformed schedule")
				return
			}
			update.Schedule = &models.ScheduleWindow{Start: window.Start, End: window.End}
		}
	}

	policy, err := h.policies.UpdatePolicy(parentID, childID, update)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPolicyView(policy))
}
