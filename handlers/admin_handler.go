package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"

	"gig-system/services"
	"gig-system/utils"
)

type AdminHandler struct {
	applications *services.ApplicationService
	gigService   *services.GigService
	notify       *services.NotifyService
	redis        *redis.Client
}

func NewAdminHandler(applications *services.ApplicationService, gigService *services.GigService, notify *services.NotifyService, redisClient *redis.Client) *AdminHandler {
	return &AdminHandler{
		applications: applications,
		gigService:   gigService,
		notify:       notify,
		redis:        redisClient,
	}
}

// BookRole - poster books a musician into a role.
func (h *AdminHandler) BookRole(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	gigID := e.Request.PathValue("gigId")
	roleName := e.Request.PathValue("role")

	var req struct {
		UserID string `json:"user_id"`
	}
	if err := e.BindBody(&req); err != nil || req.UserID == "" {
		return apis.NewBadRequestError("user_id required", err)
	}

	code, err := h.applications.BookRole(e.Request.Context(), gigID, roleName, req.UserID, e.Auth.Id)
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]string{
		"message":           "Musician booked",
		"role":              roleName,
		"confirmation_code": code,
	})
}

// UnbookRole - poster removes a booked musician from a role.
func (h *AdminHandler) UnbookRole(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	gigID := e.Request.PathValue("gigId")
	roleName := e.Request.PathValue("role")

	var req struct {
		UserID string `json:"user_id"`
	}
	if err := e.BindBody(&req); err != nil || req.UserID == "" {
		return apis.NewBadRequestError("user_id required", err)
	}

	if err := h.applications.UnbookRole(e.Request.Context(), gigID, roleName, req.UserID, e.Auth.Id); err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]string{"message": "Booking removed"})
}

// SetRoleLock - poster locks or unlocks a role for new applications.
func (h *AdminHandler) SetRoleLock(locked bool) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if e.Auth == nil {
			return apis.NewUnauthorizedError("Unauthorized", nil)
		}
		gigID := e.Request.PathValue("gigId")
		roleName := e.Request.PathValue("role")

		if err := h.applications.SetRoleLock(e.Request.Context(), gigID, roleName, e.Auth.Id, locked); err != nil {
			return apiError(err)
		}

		msg := "Role unlocked"
		if locked {
			msg = "Role locked"
		}
		return e.JSON(http.StatusOK, map[string]string{"message": msg, "role": roleName})
	}
}

// FinalizeGig - poster marks the whole gig as taken.
func (h *AdminHandler) FinalizeGig(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	gigID := e.Request.PathValue("gigId")

	if err := h.applications.FinalizeGig(e.Request.Context(), gigID, e.Auth.Id); err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]string{"message": "Gig finalized"})
}

// GetDashboard - operational snapshot across all open gigs. Guarded by
// the admin key middleware, not record auth.
func (h *AdminHandler) GetDashboard(e *core.RequestEvent) error {
	ctx := e.Request.Context()

	gigIDs, err := h.redis.SMembers(ctx, "open_gigs").Result()
	if err != nil {
		return apis.NewBadRequestError("Failed to list open gigs", err)
	}

	gigs := []map[string]any{}
	for _, gigID := range gigIDs {
		gig, err := h.gigService.GetGig(ctx, gigID)
		if err != nil {
			continue
		}
		claims, _ := h.redis.Get(ctx, "gig:claims:"+gigID).Result()
		gigs = append(gigs, map[string]any{
			"id":         gig.ID,
			"title":      gig.Title,
			"category":   gig.Category,
			"is_taken":   gig.IsTaken,
			"is_pending": gig.IsPending,
			"interested": len(gig.InterestedUsers),
			"roles":      len(gig.BandRoles),
			"claims":     claims,
		})
	}

	return e.JSON(http.StatusOK, map[string]any{
		"open_gigs":     len(gigIDs),
		"gigs":          gigs,
		"notify_status": h.notify.BreakerState().String(),
	})
}

// ForceSyncOpenGigs - rebuild the open_gigs index from the database.
func (h *AdminHandler) ForceSyncOpenGigs(e *core.RequestEvent) error {
	h.gigService.SyncOpenGigs(e.Request.Context())
	return e.JSON(http.StatusOK, map[string]string{"message": "Open gig index rebuilt"})
}

// ForceInvalidate - drop the cached snapshot for one gig.
func (h *AdminHandler) ForceInvalidate(e *core.RequestEvent) error {
	gigID := e.Request.PathValue("gigId")
	h.gigService.InvalidateSnapshot(e.Request.Context(), gigID)
	return e.JSON(http.StatusOK, map[string]string{"message": "Snapshot invalidated", "gig": gigID})
}

// GetHealth - liveness probe covering redis and the notify breaker.
func (h *AdminHandler) GetHealth(e *core.RequestEvent) error {
	redisOK := utils.RedisHealthCheck(h.redis) == nil

	statusCode := http.StatusOK
	if !redisOK {
		statusCode = http.StatusServiceUnavailable
	}
	return e.JSON(statusCode, map[string]any{
		"redis":          redisOK,
		"notify_breaker": h.notify.BreakerState().String(),
	})
}
