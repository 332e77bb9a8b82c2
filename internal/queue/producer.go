package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/your-org/faceauth/internal/models"
	"github.com/your-org/faceauth/pkg/dto"
)

const (
	IdentityStreamName  = "IDENTITY"
	IdentitySubjectBase = "identity"

	subjectEnrolled   = IdentitySubjectBase + ".enrolled"
	subjectIdentified = IdentitySubjectBase + ".identified"
)

// Producer publishes identity events to JetStream. Constructed once at
// startup and shared across requests.
type Producer struct {
	nc *nats.Conn
	js jetstream.JetStream
}

func NewProducer(natsURL string) (*Producer, error) {
	nc, err := nats.Connect(natsURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("create jetstream context: %w", err)
	}

	return &Producer{nc: nc, js: js}, nil
}

// EnsureStream creates the IDENTITY stream if it doesn't exist.
// Retries up to 30 times (1s apart) to handle NATS startup delay.
func (p *Producer) EnsureStream(ctx context.Context) error {
	cfg := jetstream.StreamConfig{
		Name:        IdentityStreamName,
		Subjects:    []string{IdentitySubjectBase + ".>"},
		Retention:   jetstream.InterestPolicy,
		MaxAge:      24 * time.Hour,
		MaxMsgs:     1000000,
		Storage:     jetstream.FileStorage,
		Description: "Enrollment and identification events",
	}

	const maxAttempts = 30
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		opCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		_, err := p.js.CreateOrUpdateStream(opCtx, cfg)
		cancel()
		if err == nil {
			slog.Info("ensured NATS stream", "name", cfg.Name)
			return nil
		}
		if attempt == maxAttempts {
			return fmt.Errorf("create stream %s: %w (after %d attempts)", cfg.Name, err, maxAttempts)
		}
		slog.Warn("ensure NATS stream (retrying...)", "name", cfg.Name, "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(1 * time.Second):
		}
	}
	return nil
}

// PublishEnrolled emits an identity_enrolled event.
func (p *Producer) PublishEnrolled(ctx context.Context, user *models.User) error {
	return p.publish(ctx, subjectEnrolled, identityEvent(dto.EventEnrolled, user, 0))
}

// PublishIdentified emits an identity_identified event.
func (p *Producer) PublishIdentified(ctx context.Context, user *models.User, similarity float64) error {
	return p.publish(ctx, subjectIdentified, identityEvent(dto.EventIdentified, user, similarity))
}

func identityEvent(kind string, user *models.User, similarity float64) dto.IdentityEvent {
	ev := dto.IdentityEvent{
		Type:       kind,
		UserID:     user.ID,
		Name:       user.Name,
		Similarity: similarity,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if user.FaceID != nil {
		ev.FaceID = user.FaceID.String()
	}
	return ev
}

func (p *Producer) publish(ctx context.Context, subject string, ev dto.IdentityEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal identity event: %w", err)
	}
	if _, err := p.js.Publish(ctx, subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

func (p *Producer) Ping() error {
	if !p.nc.IsConnected() {
		return fmt.Errorf("nats not connected")
	}
	return nil
}

func (p *Producer) Close() {
	p.nc.Close()
}
