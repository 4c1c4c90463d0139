package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	pubnub "github.com/pubnub/go/v7"

	"gig-system/config"
	"gig-system/utils"
)

// NotifyService pushes gig transitions to subscribed clients so cards
// re-fetch instead of trusting local mirrored state. Publishing is best
// effort: mutations never fail because the realtime channel is down,
// and the circuit breaker stops a dead PubNub from slowing the write
// path.
type NotifyService struct {
	pn      *pubnub.PubNub
	breaker *utils.CircuitBreaker
}

// NewNotifyService returns a disabled service when no publish key is
// configured.
func NewNotifyService(cfg *config.Config) *NotifyService {
	if cfg.PubNubPublishKey == "" {
		slog.Info("realtime publishing disabled, no pubnub key")
		return &NotifyService{breaker: utils.NewCircuitBreaker("pubnub")}
	}

	pnCfg := pubnub.NewConfigWithUserId(pubnub.UserId(cfg.PubNubUserID))
	pnCfg.PublishKey = cfg.PubNubPublishKey
	pnCfg.SubscribeKey = cfg.PubNubSubscribeKey

	return &NotifyService{
		pn:      pubnub.NewPubNub(pnCfg),
		breaker: utils.NewCircuitBreaker("pubnub"),
	}
}

// PublishGigEvent publishes a transition on the gig's channel.
func (s *NotifyService) PublishGigEvent(ctx context.Context, gigID, event, subject string) {
	if s.pn == nil {
		return
	}

	message := map[string]any{
		"event":   event,
		"gig_id":  gigID,
		"subject": subject,
		"at":      time.Now().UTC().Format(time.RFC3339),
	}

	_, err := s.breaker.Execute(ctx, func() (any, error) {
		_, pnStatus, err := s.pn.Publish().
			Channel(fmt.Sprintf("gig.%s", gigID)).
			Message(message).
			Execute()
		if err != nil {
			return nil, err
		}
		if pnStatus.Error != nil {
			return nil, fmt.Errorf("pubnub publish status %d", pnStatus.StatusCode)
		}
		return nil, nil
	})
	if err != nil {
		slog.Warn("gig event publish failed", "gig", gigID, "event", event, "error", err)
	}
}

// BreakerState exposes the publisher breaker state for metrics.
func (s *NotifyService) BreakerState() utils.State {
	return s.breaker.State()
}
