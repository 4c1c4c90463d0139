package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"gig-system/internal/engine"
	"gig-system/monitoring"
	"gig-system/services"
)

type GigHandler struct {
	gigService *services.GigService
}

func NewGigHandler(gigService *services.GigService) *GigHandler {
	return &GigHandler{gigService: gigService}
}

// GetDecision - full capacity/window/status/action decision for the
// current viewer. Anonymous viewers get the bystander view.
func (h *GigHandler) GetDecision(e *core.RequestEvent) error {
	gigID := e.Request.PathValue("gigId")
	if gigID == "" {
		return apis.NewBadRequestError("Gig ID required", nil)
	}

	viewerID := ""
	if e.Auth != nil {
		viewerID = e.Auth.Id
	}
	skills := h.gigService.ViewerSkills(viewerID)

	start := time.Now()
	decision, err := h.gigService.Decide(e.Request.Context(), gigID, viewerID, skills, time.Now())
	if err != nil {
		return apiError(err)
	}
	monitoring.ObserveDecisionDuration(time.Since(start))
	monitoring.TrackDecision(string(decision.Action.Kind), decision.Action.Enabled)

	return e.JSON(http.StatusOK, decision)
}

// GetCapacity - gig-level capacity, or one role's capacity when the
// "role" query parameter carries an index.
func (h *GigHandler) GetCapacity(e *core.RequestEvent) error {
	gigID := e.Request.PathValue("gigId")
	if gigID == "" {
		return apis.NewBadRequestError("Gig ID required", nil)
	}

	gig, err := h.gigService.GetGig(e.Request.Context(), gigID)
	if err != nil {
		return apiError(err)
	}

	if roleParam := e.Request.URL.Query().Get("role"); roleParam != "" {
		idx, err := strconv.Atoi(roleParam)
		if err != nil {
			return apis.NewBadRequestError("Invalid role index", err)
		}
		return e.JSON(http.StatusOK, engine.RoleCapacityAt(gig, idx))
	}

	return e.JSON(http.StatusOK, engine.GigCapacity(gig))
}

// GetWindow - where the clock falls in the gig's interest window.
func (h *GigHandler) GetWindow(e *core.RequestEvent) error {
	gigID := e.Request.PathValue("gigId")
	if gigID == "" {
		return apis.NewBadRequestError("Gig ID required", nil)
	}

	gig, err := h.gigService.GetGig(e.Request.Context(), gigID)
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, engine.ResolveWindow(gig, time.Now()))
}

// GetRequirements - role requirements for a band-creation gig, served
// regardless of window state.
func (h *GigHandler) GetRequirements(e *core.RequestEvent) error {
	gigID := e.Request.PathValue("gigId")
	if gigID == "" {
		return apis.NewBadRequestError("Gig ID required", nil)
	}

	gig, err := h.gigService.GetGig(e.Request.Context(), gigID)
	if err != nil {
		return apiError(err)
	}

	type roleRequirements struct {
		Name           string          `json:"name"`
		RequiredSkills []string        `json:"required_skills"`
		Capacity       engine.Capacity `json:"capacity"`
		IsLocked       bool            `json:"is_locked"`
	}

	requirements := make([]roleRequirements, 0, len(gig.BandRoles))
	for i := range gig.BandRoles {
		role := &gig.BandRoles[i]
		requirements = append(requirements, roleRequirements{
			Name:           role.Name,
			RequiredSkills: role.RequiredSkills,
			Capacity:       engine.RoleCapacity(role),
			IsLocked:       role.IsLocked,
		})
	}

	return e.JSON(http.StatusOK, map[string]any{
		"gig_id": gigID,
		"shape":  engine.Classify(gig).String(),
		"roles":  requirements,
	})
}
