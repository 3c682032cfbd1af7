package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/asifshaikgit/workforce-sub006/internal/models"
)

// Event subjects. Downstream consumers (notification, reporting) subscribe
// to "workflow.>".
const (
	EntitySubmitted        = "workflow.entity.submitted"
	ApprovalAdvanced       = "workflow.approval.advanced"
	EntityApproved         = "workflow.entity.approved"
	EntityRejected         = "workflow.entity.rejected"
	EntityVoided           = "workflow.entity.voided"
	EntityStatusChanged    = "workflow.entity.status_changed"
	ChainUpdated           = "workflow.chain.updated"
	RecurrenceMaterialized = "workflow.recurrence.materialized"
)

// EntityEvent is the wire payload for entity lifecycle events.
type EntityEvent struct {
	EventID    string  `json:"eventId"`
	EventType  string  `json:"eventType"`
	TenantID   string  `json:"tenantId"`
	EntityKind string  `json:"entityKind"`
	EntityID   string  `json:"entityId"`
	Status     string  `json:"status"`
	Level      *int    `json:"level,omitempty"`
	Cycle      int     `json:"cycle"`
	ActorID    *string `json:"actorId,omitempty"`
	OccurredAt string  `json:"occurredAt"`
}

// ChainEvent is the wire payload for chain configuration edits.
type ChainEvent struct {
	EventID    string `json:"eventId"`
	EventType  string `json:"eventType"`
	TenantID   string `json:"tenantId"`
	SettingID  string `json:"settingId"`
	Edit       string `json:"edit"`
	OccurredAt string `json:"occurredAt"`
}

// RecurrenceEvent is the wire payload for recurrence materializations.
type RecurrenceEvent struct {
	EventID     string `json:"eventId"`
	EventType   string `json:"eventType"`
	TenantID    string `json:"tenantId"`
	ConfigID    string `json:"configId"`
	EntityKind  string `json:"entityKind"`
	TemplateID  string `json:"templateId"`
	NewEntityID string `json:"newEntityId"`
	Occurrence  string `json:"occurrence"`
	OccurredAt  string `json:"occurredAt"`
}

// Publisher emits workflow events over NATS. Publishing is fire-and-forget
// from the caller's perspective: a broker outage is logged, never surfaced
// into the business transaction.
type Publisher struct {
	conn   *nats.Conn
	logger *logrus.Entry
}

// NewPublisher connects to NATS and returns a publisher.
func NewPublisher(natsURL string, logger *logrus.Logger) (*Publisher, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.InfoLevel)
	}

	conn, err := nats.Connect(natsURL,
		nats.Name("workflow-service"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}

	return &Publisher{
		conn:   conn,
		logger: logger.WithField("component", "workflow-events"),
	}, nil
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

// PublishEntityEvent publishes a lifecycle event for an approvable entity.
func (p *Publisher) PublishEntityEvent(ctx context.Context, eventType string, entity models.Approvable, actorID *uuid.UUID) {
	f := entity.Approval()
	event := EntityEvent{
		EventID:    uuid.New().String(),
		EventType:  eventType,
		TenantID:   entity.EntityTenant(),
		EntityKind: string(entity.EntityKind()),
		EntityID:   entity.EntityID().String(),
		Status:     f.Status,
		Level:      f.CurrentApprovalLevel,
		Cycle:      f.SubmissionCycle,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if actorID != nil {
		s := actorID.String()
		event.ActorID = &s
	}

	p.publish(eventType, event, logrus.Fields{
		"eventType":  eventType,
		"entityKind": event.EntityKind,
		"entityId":   event.EntityID,
		"tenantId":   event.TenantID,
	})
}

// PublishChainUpdated publishes a chain configuration edit event.
func (p *Publisher) PublishChainUpdated(ctx context.Context, tenantID string, settingID uuid.UUID, edit string) {
	event := ChainEvent{
		EventID:    uuid.New().String(),
		EventType:  ChainUpdated,
		TenantID:   tenantID,
		SettingID:  settingID.String(),
		Edit:       edit,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}

	p.publish(ChainUpdated, event, logrus.Fields{
		"eventType": ChainUpdated,
		"settingId": event.SettingID,
		"tenantId":  tenantID,
		"edit":      edit,
	})
}

// PublishRecurrenceMaterialized publishes a materialization of a recurring
// configuration into a new entity instance.
func (p *Publisher) PublishRecurrenceMaterialized(ctx context.Context, cfg *models.RecurringConfiguration, newEntityID uuid.UUID, occurrence time.Time) {
	event := RecurrenceEvent{
		EventID:     uuid.New().String(),
		EventType:   RecurrenceMaterialized,
		TenantID:    cfg.TenantID,
		ConfigID:    cfg.ID.String(),
		EntityKind:  string(cfg.EntityKind),
		TemplateID:  cfg.EntityID.String(),
		NewEntityID: newEntityID.String(),
		Occurrence:  occurrence.UTC().Format(time.RFC3339),
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	}

	p.publish(RecurrenceMaterialized, event, logrus.Fields{
		"eventType":   RecurrenceMaterialized,
		"configId":    event.ConfigID,
		"tenantId":    event.TenantID,
		"newEntityId": event.NewEntityID,
	})
}

// publish serializes and sends asynchronously, logging outcome.
func (p *Publisher) publish(subject string, payload interface{}, fields logrus.Fields) {
	if p == nil || p.conn == nil {
		return
	}

	go func() {
		data, err := json.Marshal(payload)
		if err != nil {
			p.logger.WithFields(fields).WithError(err).Error("Failed to serialize event")
			return
		}

		if err := p.conn.Publish(subject, data); err != nil {
			p.logger.WithFields(fields).WithError(err).Error("Failed to publish event")
			return
		}

		p.logger.WithFields(fields).Info("Event published successfully")
	}()
}
