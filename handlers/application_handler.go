package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"gig-system/internal/status"
	"gig-system/models"
	"gig-system/services"
)

type ApplicationHandler struct {
	applications *services.ApplicationService
	gigService   *services.GigService
}

func NewApplicationHandler(applications *services.ApplicationService, gigService *services.GigService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, gigService: gigService}
}

// ShowInterest - record interest on an individual/specialty gig.
func (h *ApplicationHandler) ShowInterest(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	gigID := e.Request.PathValue("gigId")

	position, err := h.applications.ShowInterest(e.Request.Context(), gigID, e.Auth.Id, time.Now())
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message":  "Interest recorded",
		"position": position,
	})
}

// WithdrawInterest - remove interest; never window-gated.
func (h *ApplicationHandler) WithdrawInterest(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	gigID := e.Request.PathValue("gigId")

	if err := h.applications.WithdrawInterest(e.Request.Context(), gigID, e.Auth.Id); err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]string{"message": "Interest withdrawn"})
}

// ApplyToRole - apply to one named role on a band-creation gig.
func (h *ApplicationHandler) ApplyToRole(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	gigID := e.Request.PathValue("gigId")
	roleName := e.Request.PathValue("role")

	skills := h.gigService.ViewerSkills(e.Auth.Id)
	if err := h.applications.ApplyToRole(e.Request.Context(), gigID, roleName, e.Auth.Id, skills, time.Now()); err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]string{
		"message": "Application submitted",
		"role":    roleName,
	})
}

// WithdrawRoleApplication - withdraw the viewer's role application.
func (h *ApplicationHandler) WithdrawRoleApplication(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	gigID := e.Request.PathValue("gigId")
	roleName := e.Request.PathValue("role")

	if err := h.applications.WithdrawRoleApplication(e.Request.Context(), gigID, roleName, e.Auth.Id); err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]string{"message": "Application withdrawn"})
}

// ApplyAsBand - submit a whole-band application to a full-band gig.
func (h *ApplicationHandler) ApplyAsBand(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	gigID := e.Request.PathValue("gigId")

	var req struct {
		BandID   string              `json:"band_id"`
		BandName string              `json:"band_name"`
		Members  []models.BandMember `json:"members"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.BandID == "" || len(req.Members) == 0 {
		return apis.NewBadRequestError("Band and members required", nil)
	}

	application := models.BandApplication{
		BandID:      req.BandID,
		BandName:    req.BandName,
		ApplicantID: e.Auth.Id,
		Members:     req.Members,
	}
	if err := h.applications.ApplyAsBand(e.Request.Context(), gigID, application, time.Now()); err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]string{"message": "Band application submitted"})
}

// WithdrawBandApplication - mark the viewer's band application
// withdrawn.
func (h *ApplicationHandler) WithdrawBandApplication(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	gigID := e.Request.PathValue("gigId")

	if err := h.applications.WithdrawBandApplication(e.Request.Context(), gigID, e.Auth.Id); err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]string{"message": "Band application withdrawn"})
}

// apiError maps service sentinel errors onto HTTP error responses.
func apiError(err error) error {
	switch {
	case errors.Is(err, status.ErrGigNotFound):
		return apis.NewNotFoundError("Gig not found", err)
	case errors.Is(err, status.ErrRoleNotFound):
		return apis.NewNotFoundError("Role not found", err)
	case errors.Is(err, status.ErrNotPoster):
		return apis.NewForbiddenError("Only the gig poster may do that", err)
	case errors.Is(err, status.ErrOwnGig):
		return apis.NewForbiddenError("Posters cannot apply to their own gig", err)
	case errors.Is(err, status.ErrGigFull),
		errors.Is(err, status.ErrGigTaken),
		errors.Is(err, status.ErrWindowNotOpen),
		errors.Is(err, status.ErrWindowClosed),
		errors.Is(err, status.ErrAlreadyInvolved),
		errors.Is(err, status.ErrNotInvolved),
		errors.Is(err, status.ErrRoleLocked),
		errors.Is(err, status.ErrNotQualified):
		return apis.NewBadRequestError(err.Error(), nil)
	default:
		return apis.NewBadRequestError("Request failed", err)
	}
}
