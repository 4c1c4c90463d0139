package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"

	"gig-system/config"
	"gig-system/internal/engine"
	"gig-system/internal/status"
	"gig-system/models"
	"gig-system/monitoring"
	"gig-system/utils"
)

// claimSlotScript is the at-most-one-winner guard for capacity-bound
// submissions. The claim counter is seeded from the snapshot's used
// count on first touch, then atomically incremented while below max.
// Two viewers racing on the last slot get exactly one winner; the loser
// sees the authoritative state on the next read.
const claimSlotScript = `
local key = KEYS[1]
local max = tonumber(ARGV[1])
local seed = tonumber(ARGV[2])
local ttl = tonumber(ARGV[3])

local current = redis.call('GET', key)
if current == false then
	current = seed
	redis.call('SET', key, current, 'PX', ttl)
else
	current = tonumber(current)
end

if current >= max then
	return {0, current}
end

current = redis.call('INCR', key)
redis.call('PEXPIRE', key, ttl)
return {1, current}
`

// ApplicationService performs the externally-owned mutations the
// engine only reads: interest, applications, withdrawals and poster
// bookings. Every mutation pre-validates against the engine, claims
// capacity atomically, writes the record, then invalidates the
// snapshot and publishes the transition.
type ApplicationService struct {
	App    core.App
	Redis  *redis.Client
	Gigs   *GigService
	Notify *NotifyService
	Config *config.Config
}

func NewApplicationService(app core.App, redisClient *redis.Client, gigs *GigService, notify *NotifyService, cfg *config.Config) *ApplicationService {
	return &ApplicationService{
		App:    app,
		Redis:  redisClient,
		Gigs:   gigs,
		Notify: notify,
		Config: cfg,
	}
}

func claimKey(gigID, scope string) string {
	if scope == "" {
		return fmt.Sprintf("gig:claims:%s", gigID)
	}
	return fmt.Sprintf("gig:claims:%s:%s", gigID, scope)
}

// claimSlot runs the compare-and-set claim. Returns ErrGigFull when the
// slot race is lost.
func (s *ApplicationService) claimSlot(ctx context.Context, gigID, scope string, used, max int) error {
	result, err := s.Redis.Eval(ctx, claimSlotScript,
		[]string{claimKey(gigID, scope)},
		max, used, s.Config.ClaimLockTTL.Milliseconds(),
	).Result()
	if err != nil {
		return fmt.Errorf("claim slot: %w", err)
	}

	values, ok := result.([]interface{})
	if !ok || len(values) < 1 {
		return fmt.Errorf("claim slot: unexpected script result %v", result)
	}
	if won, _ := values[0].(int64); won != 1 {
		return status.ErrGigFull
	}
	return nil
}

// releaseClaim drops the claim counter after a withdrawal so the freed
// slot is claimable before the TTL lapses.
func (s *ApplicationService) releaseClaim(ctx context.Context, gigID, scope string) {
	if err := s.Redis.Del(ctx, claimKey(gigID, scope)).Err(); err != nil {
		slog.Warn("claim release failed", "gig", gigID, "scope", scope, "error", err)
	}
}

// freshGig fetches the authoritative record and its mapped gig.
// Mutations derive their writes from this, never from the cached
// snapshot: the claim serializes the slot count, but only the record
// carries the current membership lists, and a stale list would drop a
// racing winner's entry on save.
func (s *ApplicationService) freshGig(gigID string) (*core.Record, *models.Gig, error) {
	record, err := s.App.FindRecordById("gigs", gigID)
	if err != nil {
		return nil, nil, status.ErrGigNotFound
	}
	gig, err := recordToGig(record)
	if err != nil {
		return nil, nil, err
	}
	return record, gig, nil
}

// ShowInterest records interest on an individual or specialty gig.
// Returns the viewer's 1-based position in the interest list.
func (s *ApplicationService) ShowInterest(ctx context.Context, gigID, userID string, now time.Time) (int, error) {
	gig, err := s.Gigs.GetGig(ctx, gigID)
	if err != nil {
		return 0, err
	}

	vs := engine.ResolveStatus(gig, userID)
	action := engine.ResolveAction(gig, vs, now, nil)
	if err := requireAction(action, engine.ActionShowInterest, gig, vs, now); err != nil {
		monitoring.TrackApplicationOp("show_interest", "rejected")
		return 0, err
	}

	capacity := engine.GigCapacity(gig)
	if err := s.claimSlot(ctx, gigID, "", capacity.Used, capacity.Max); err != nil {
		monitoring.TrackApplicationOp("show_interest", "lost_race")
		return 0, err
	}

	record, fresh, err := s.freshGig(gigID)
	if err != nil {
		return 0, err
	}
	for _, id := range fresh.InterestedUsers {
		if id == userID {
			return 0, status.ErrAlreadyInvolved
		}
	}

	interested := append(fresh.InterestedUsers, userID)
	if err := setJSONField(record, "interested_users", interested); err != nil {
		return 0, err
	}
	if len(interested) >= capacity.Max {
		record.Set("is_pending", true)
	}
	if err := s.App.Save(record); err != nil {
		return 0, fmt.Errorf("save interest: %w", err)
	}

	s.finishMutation(ctx, gigID, "interest.shown", userID)
	monitoring.TrackApplicationOp("show_interest", "success")
	return len(interested), nil
}

// WithdrawInterest removes the viewer from the interest list.
// Withdrawal is never window-gated.
func (s *ApplicationService) WithdrawInterest(ctx context.Context, gigID, userID string) error {
	gig, err := s.Gigs.GetGig(ctx, gigID)
	if err != nil {
		return err
	}

	vs := engine.ResolveStatus(gig, userID)
	if !vs.HasShownInterest {
		return status.ErrNotInvolved
	}

	record, fresh, err := s.freshGig(gigID)
	if err != nil {
		return err
	}

	interested := removeID(fresh.InterestedUsers, userID)
	if err := setJSONField(record, "interested_users", interested); err != nil {
		return err
	}
	if len(interested) < engine.GigCapacity(fresh).Max {
		record.Set("is_pending", false)
	}
	if err := s.App.Save(record); err != nil {
		return fmt.Errorf("save withdrawal: %w", err)
	}

	s.releaseClaim(ctx, gigID, "")
	s.finishMutation(ctx, gigID, "interest.withdrawn", userID)
	monitoring.TrackApplicationOp("withdraw_interest", "success")
	return nil
}

// ApplyToRole applies the viewer to a named band-creation role.
func (s *ApplicationService) ApplyToRole(ctx context.Context, gigID, roleName, userID string, skills []string, now time.Time) error {
	gig, err := s.Gigs.GetGig(ctx, gigID)
	if err != nil {
		return err
	}

	idx := roleIndex(gig, roleName)
	if idx < 0 {
		return status.ErrRoleNotFound
	}
	role := &gig.BandRoles[idx]

	vs := engine.ResolveStatus(gig, userID)
	switch {
	case vs.IsGigPoster:
		return status.ErrOwnGig
	case vs.Involved():
		return status.ErrAlreadyInvolved
	case gig.IsTaken:
		return status.ErrGigTaken
	case role.IsLocked:
		return status.ErrRoleLocked
	case !engine.IsQualified(skills, role):
		monitoring.TrackApplicationOp("apply_role", "unqualified")
		return status.ErrNotQualified
	}
	if err := windowError(gig, now); err != nil {
		monitoring.TrackApplicationOp("apply_role", "window_blocked")
		return err
	}

	rc := engine.RoleCapacity(role)
	if rc.IsFull {
		return status.ErrGigFull
	}
	if err := s.claimSlot(ctx, gigID, role.Name, rc.Used, rc.Max); err != nil {
		monitoring.TrackApplicationOp("apply_role", "lost_race")
		return err
	}

	record, fresh, err := s.freshGig(gigID)
	if err != nil {
		return err
	}
	fidx := roleIndex(fresh, roleName)
	if fidx < 0 {
		return status.ErrRoleNotFound
	}
	for _, id := range fresh.BandRoles[fidx].Applicants {
		if id == userID {
			return status.ErrAlreadyInvolved
		}
	}

	fresh.BandRoles[fidx].Applicants = append(fresh.BandRoles[fidx].Applicants, userID)
	if err := setJSONField(record, "band_roles", fresh.BandRoles); err != nil {
		return err
	}
	if err := s.App.Save(record); err != nil {
		return fmt.Errorf("save role application: %w", err)
	}

	s.finishMutation(ctx, gigID, "role.applied", userID)
	monitoring.TrackApplicationOp("apply_role", "success")
	return nil
}

// WithdrawRoleApplication removes the viewer's application from the
// named role.
func (s *ApplicationService) WithdrawRoleApplication(ctx context.Context, gigID, roleName, userID string) error {
	gig, err := s.Gigs.GetGig(ctx, gigID)
	if err != nil {
		return err
	}

	vs := engine.ResolveStatus(gig, userID)
	if !vs.IsInApplicants || vs.RoleDetails == nil || vs.BandRoleApplied != roleName {
		return status.ErrNotInvolved
	}

	record, fresh, err := s.freshGig(gigID)
	if err != nil {
		return err
	}

	for i := range fresh.BandRoles {
		if fresh.BandRoles[i].Name == roleName {
			fresh.BandRoles[i].Applicants = removeID(fresh.BandRoles[i].Applicants, userID)
		}
	}
	if err := setJSONField(record, "band_roles", fresh.BandRoles); err != nil {
		return err
	}
	if err := s.App.Save(record); err != nil {
		return fmt.Errorf("save role withdrawal: %w", err)
	}

	s.releaseClaim(ctx, gigID, vs.BandRoleApplied)
	s.finishMutation(ctx, gigID, "role.withdrawn", userID)
	monitoring.TrackApplicationOp("withdraw_role", "success")
	return nil
}

// ApplyAsBand submits a whole-band application to a full-band gig.
func (s *ApplicationService) ApplyAsBand(ctx context.Context, gigID string, application models.BandApplication, now time.Time) error {
	gig, err := s.Gigs.GetGig(ctx, gigID)
	if err != nil {
		return err
	}

	vs := engine.ResolveStatus(gig, application.ApplicantID)
	action := engine.ResolveAction(gig, vs, now, nil)
	if err := requireAction(action, engine.ActionApply, gig, vs, now); err != nil {
		monitoring.TrackApplicationOp("apply_band", "rejected")
		return err
	}

	capacity := engine.GigCapacity(gig)
	if err := s.claimSlot(ctx, gigID, "bands", capacity.Used, capacity.Max); err != nil {
		monitoring.TrackApplicationOp("apply_band", "lost_race")
		return err
	}

	record, fresh, err := s.freshGig(gigID)
	if err != nil {
		return err
	}
	for i := range fresh.BandApplications {
		existing := &fresh.BandApplications[i]
		if existing.ApplicantID == application.ApplicantID && existing.Active() {
			return status.ErrAlreadyInvolved
		}
	}

	application.AppliedAt = now
	application.Status = models.ApplicationPending
	applications := append(fresh.BandApplications, application)
	if err := setJSONField(record, "band_applications", applications); err != nil {
		return err
	}
	if err := s.App.Save(record); err != nil {
		return fmt.Errorf("save band application: %w", err)
	}

	s.finishMutation(ctx, gigID, "band.applied", application.ApplicantID)
	monitoring.TrackApplicationOp("apply_band", "success")
	return nil
}

// WithdrawBandApplication marks the applicant's band application
// withdrawn. The entry stays on the record as history; a withdrawn
// application frees its slot.
func (s *ApplicationService) WithdrawBandApplication(ctx context.Context, gigID, applicantID string) error {
	record, fresh, err := s.freshGig(gigID)
	if err != nil {
		return err
	}

	found := false
	for i := range fresh.BandApplications {
		app := &fresh.BandApplications[i]
		if app.ApplicantID == applicantID && app.Active() {
			app.Status = models.ApplicationWithdrawn
			found = true
		}
	}
	if !found {
		return status.ErrNotInvolved
	}
	if err := setJSONField(record, "band_applications", fresh.BandApplications); err != nil {
		return err
	}
	if err := s.App.Save(record); err != nil {
		return fmt.Errorf("save band withdrawal: %w", err)
	}

	s.releaseClaim(ctx, gigID, "bands")
	s.finishMutation(ctx, gigID, "band.withdrawn", applicantID)
	monitoring.TrackApplicationOp("withdraw_band", "success")
	return nil
}

// BookRole books a musician onto a role. Poster only; booking without
// a prior application is allowed. Returns a confirmation code for the
// booked musician.
func (s *ApplicationService) BookRole(ctx context.Context, gigID, roleName, userID, posterID string) (string, error) {
	record, gig, err := s.freshGig(gigID)
	if err != nil {
		return "", err
	}
	if gig.PostedBy != posterID {
		return "", status.ErrNotPoster
	}

	idx := roleIndex(gig, roleName)
	if idx < 0 {
		return "", status.ErrRoleNotFound
	}
	role := &gig.BandRoles[idx]
	if engine.RoleCapacity(role).IsFull {
		return "", status.ErrGigFull
	}
	for _, id := range role.BookedUsers {
		if id == userID {
			return "", status.ErrAlreadyInvolved
		}
	}

	role.BookedUsers = append(role.BookedUsers, userID)
	role.FilledSlots = len(role.BookedUsers)
	if err := setJSONField(record, "band_roles", gig.BandRoles); err != nil {
		return "", err
	}
	if engine.GigCapacity(gig).IsFull {
		record.Set("is_pending", true)
	}
	if err := s.App.Save(record); err != nil {
		return "", fmt.Errorf("save booking: %w", err)
	}

	code, err := utils.GenerateConfirmationCode(6)
	if err != nil {
		return "", err
	}
	confirmKey := fmt.Sprintf("gig:confirm:%s:%s", gigID, userID)
	if err := s.Redis.Set(ctx, confirmKey, code, 0).Err(); err != nil {
		slog.Warn("confirmation code store failed", "gig", gigID, "user", userID, "error", err)
	}

	s.finishMutation(ctx, gigID, "role.booked", userID)
	monitoring.TrackApplicationOp("book_role", "success")
	return code, nil
}

// UnbookRole removes a booked musician from a role. Poster only.
func (s *ApplicationService) UnbookRole(ctx context.Context, gigID, roleName, userID, posterID string) error {
	record, gig, err := s.freshGig(gigID)
	if err != nil {
		return err
	}
	if gig.PostedBy != posterID {
		return status.ErrNotPoster
	}

	idx := roleIndex(gig, roleName)
	if idx < 0 {
		return status.ErrRoleNotFound
	}
	role := &gig.BandRoles[idx]

	before := len(role.BookedUsers)
	role.BookedUsers = removeID(role.BookedUsers, userID)
	if len(role.BookedUsers) == before {
		return status.ErrNotInvolved
	}
	role.FilledSlots = len(role.BookedUsers)

	if err := setJSONField(record, "band_roles", gig.BandRoles); err != nil {
		return err
	}
	record.Set("is_pending", false)
	if err := s.App.Save(record); err != nil {
		return fmt.Errorf("save unbooking: %w", err)
	}

	s.releaseClaim(ctx, gigID, roleName)
	s.finishMutation(ctx, gigID, "role.unbooked", userID)
	monitoring.TrackApplicationOp("unbook_role", "success")
	return nil
}

// SetRoleLock locks or unlocks a role against new applications.
// Poster only; capacity is untouched.
func (s *ApplicationService) SetRoleLock(ctx context.Context, gigID, roleName, posterID string, locked bool) error {
	record, gig, err := s.freshGig(gigID)
	if err != nil {
		return err
	}
	if gig.PostedBy != posterID {
		return status.ErrNotPoster
	}

	idx := roleIndex(gig, roleName)
	if idx < 0 {
		return status.ErrRoleNotFound
	}
	gig.BandRoles[idx].IsLocked = locked

	if err := setJSONField(record, "band_roles", gig.BandRoles); err != nil {
		return err
	}
	if err := s.App.Save(record); err != nil {
		return fmt.Errorf("save role lock: %w", err)
	}

	s.finishMutation(ctx, gigID, "role.lock", roleName)
	return nil
}

// FinalizeGig marks the gig fully contracted. Poster only; the gig
// becomes read-only history for everyone else.
func (s *ApplicationService) FinalizeGig(ctx context.Context, gigID, posterID string) error {
	record, gig, err := s.freshGig(gigID)
	if err != nil {
		return err
	}
	if gig.PostedBy != posterID {
		return status.ErrNotPoster
	}

	record.Set("is_taken", true)
	record.Set("is_pending", false)
	if err := s.App.Save(record); err != nil {
		return fmt.Errorf("save finalize: %w", err)
	}

	s.finishMutation(ctx, gigID, "gig.taken", posterID)
	return nil
}

// finishMutation drops the snapshot cache and publishes the transition.
func (s *ApplicationService) finishMutation(ctx context.Context, gigID, event, subject string) {
	s.Gigs.InvalidateSnapshot(ctx, gigID)
	if s.Notify != nil {
		s.Notify.PublishGigEvent(ctx, gigID, event, subject)
	}
}

// requireAction maps a refused engine action to the matching sentinel
// error so handlers report the real cause of the refusal.
func requireAction(action engine.Action, want engine.ActionKind, gig *models.Gig, vs engine.ViewerStatus, now time.Time) error {
	if action.Kind == want && action.Enabled {
		return nil
	}
	switch {
	case vs.IsGigPoster:
		return status.ErrOwnGig
	case vs.Involved():
		return status.ErrAlreadyInvolved
	case gig.IsTaken:
		return status.ErrGigTaken
	case action.Kind == engine.ActionNone:
		return status.ErrGigFull
	default:
		if err := windowError(gig, now); err != nil {
			return err
		}
		return fmt.Errorf("action %s not currently permitted", want)
	}
}

func windowError(gig *models.Gig, now time.Time) error {
	window := engine.ResolveWindow(gig, now)
	switch window.State {
	case engine.WindowNotOpen:
		return fmt.Errorf("%w: %s", status.ErrWindowNotOpen, window.Message)
	case engine.WindowClosed:
		return fmt.Errorf("%w: %s", status.ErrWindowClosed, window.Message)
	default:
		return nil
	}
}

func roleIndex(gig *models.Gig, roleName string) int {
	for i := range gig.BandRoles {
		if gig.BandRoles[i].Name == roleName {
			return i
		}
	}
	return -1
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func setJSONField(record *core.Record, field string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", field, err)
	}
	record.Set(field, string(data))
	return nil
}
