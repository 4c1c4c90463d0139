package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"gig-system/config"
	"gig-system/internal/engine"
	"gig-system/internal/status"
	"gig-system/models"
)

// GigService loads gig snapshots and computes engine decisions over
// them. Snapshots are cached briefly in Redis; every mutation drops the
// cache so the next read re-derives from the authoritative record.
type GigService struct {
	App    core.App
	Redis  *redis.Client
	Config *config.Config
}

func NewGigService(app core.App, redisClient *redis.Client, cfg *config.Config) *GigService {
	return &GigService{App: app, Redis: redisClient, Config: cfg}
}

func snapshotKey(gigID string) string {
	return fmt.Sprintf("gig:snapshot:%s", gigID)
}

// GetGig returns the gig snapshot, from cache when fresh.
func (s *GigService) GetGig(ctx context.Context, gigID string) (*models.Gig, error) {
	if cached, err := s.Redis.Get(ctx, snapshotKey(gigID)).Result(); err == nil {
		var gig models.Gig
		if err := json.Unmarshal([]byte(cached), &gig); err == nil {
			return &gig, nil
		}
		// Corrupt cache entries fall through to a fresh load.
		s.Redis.Del(ctx, snapshotKey(gigID))
	}

	gig, err := s.loadGig(gigID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(gig); err == nil {
		if err := s.Redis.Set(ctx, snapshotKey(gigID), data, s.Config.SnapshotTTL).Err(); err != nil {
			slog.Warn("gig snapshot cache write failed", "gig", gigID, "error", err)
		}
	}

	return gig, nil
}

// InvalidateSnapshot drops the cached snapshot. Called after every
// mutation; the next read picks up the authoritative counters.
func (s *GigService) InvalidateSnapshot(ctx context.Context, gigID string) {
	if err := s.Redis.Del(ctx, snapshotKey(gigID)).Err(); err != nil {
		slog.Warn("gig snapshot invalidation failed", "gig", gigID, "error", err)
	}
}

// Decide computes the full decision for one viewer at the given
// instant. The clock is passed through so handlers and tests control
// it.
func (s *GigService) Decide(ctx context.Context, gigID, viewerID string, skills []string, now time.Time) (*engine.Decision, error) {
	gig, err := s.GetGig(ctx, gigID)
	if err != nil {
		return nil, err
	}
	decision := engine.Decide(gig, viewerID, skills, now)
	return &decision, nil
}

// ViewerSkills reads the viewer's declared skills/instruments from
// their profile record. Missing users or fields resolve to no skills;
// read paths stay functional for anonymous browsing.
func (s *GigService) ViewerSkills(viewerID string) []string {
	if viewerID == "" {
		return nil
	}
	record, err := s.App.FindRecordById("users", viewerID)
	if err != nil {
		return nil
	}
	var skills []string
	if err := record.UnmarshalJSONField("skills", &skills); err != nil {
		return nil
	}
	return skills
}

// ListOpenGigIDs returns ids of gigs still open for booking.
func (s *GigService) ListOpenGigIDs() ([]string, error) {
	var records []dbx.NullStringMap
	err := s.App.DB().NewQuery(
		"SELECT id FROM gigs WHERE is_taken = 0",
	).All(&records)
	if err != nil {
		return nil, fmt.Errorf("list open gigs: %w", err)
	}

	ids := make([]string, 0, len(records))
	for _, record := range records {
		if id := record["id"].String; id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// SyncOpenGigs mirrors the open gig set into Redis for the monitoring
// loop and the rate limiter.
func (s *GigService) SyncOpenGigs(ctx context.Context) {
	ids, err := s.ListOpenGigIDs()
	if err != nil {
		slog.Error("open gig sync failed", "error", err)
		return
	}

	s.Redis.Del(ctx, "open_gigs")
	if len(ids) > 0 {
		members := make([]any, len(ids))
		for i, id := range ids {
			members[i] = id
		}
		s.Redis.SAdd(ctx, "open_gigs", members...)
	}
	slog.Info("synced open gigs", "count", len(ids))
}

// loadGig maps the stored record into the snapshot the engine reads.
func (s *GigService) loadGig(gigID string) (*models.Gig, error) {
	record, err := s.App.FindRecordById("gigs", gigID)
	if err != nil {
		return nil, status.ErrGigNotFound
	}
	return recordToGig(record)
}

func recordToGig(record *core.Record) (*models.Gig, error) {
	gig := &models.Gig{
		ID:          record.Id,
		Title:       record.GetString("title"),
		Description: record.GetString("description"),
		PostedBy:    record.GetString("posted_by"),
		Date:        record.GetDateTime("date").Time(),
		StartTime:   record.GetString("start_time"),
		EndTime:     record.GetString("end_time"),
		Price:       decimal.NewFromFloat(record.GetFloat("price")),
		Currency:    record.GetString("currency"),
		Category:    record.GetString("category"),
		IsTaken:     record.GetBool("is_taken"),
		IsPending:   record.GetBool("is_pending"),
		MaxSlots:    record.GetInt("max_slots"),
		CreatedAt:   record.GetDateTime("created").Time(),
		UpdatedAt:   record.GetDateTime("updated").Time(),
	}

	if opens := record.GetDateTime("opens_at"); !opens.IsZero() {
		t := opens.Time()
		gig.OpensAt = &t
	}
	if closes := record.GetDateTime("closes_at"); !closes.IsZero() {
		t := closes.Time()
		gig.ClosesAt = &t
	}

	if err := record.UnmarshalJSONField("interested_users", &gig.InterestedUsers); err != nil {
		gig.InterestedUsers = nil
	}
	if err := record.UnmarshalJSONField("band_roles", &gig.BandRoles); err != nil {
		gig.BandRoles = nil
	}
	if err := record.UnmarshalJSONField("band_applications", &gig.BandApplications); err != nil {
		gig.BandApplications = nil
	}

	return gig, nil
}
