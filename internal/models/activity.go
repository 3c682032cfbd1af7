package models

import (
	"time"

	"github.com/google/uuid"
)

// ActionType classifies a tracked mutation event.
type ActionType string

const (
	ActionTypeCreate  ActionType = "create"
	ActionTypeUpdate  ActionType = "update"
	ActionTypeDelete  ActionType = "delete"
	ActionTypeApprove ActionType = "approve" // lifecycle events on approval-bearing entities
)

// ActivityTrack is one row per mutation event on a tracked entity.
// Rows are append-only: never updated, never deleted.
type ActivityTrack struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID   string     `gorm:"type:varchar(255);not null;index" json:"tenantId"`
	EntityKind EntityKind `gorm:"type:varchar(30);not null;index:idx_activity_tracks_entity" json:"entityKind"`
	EntityID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_activity_tracks_entity" json:"entityId"`
	ActionType ActionType `gorm:"type:varchar(20);not null" json:"actionType"`
	ActorID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"actorId"`
	// EntityLabel snapshots a human-readable reference for delete events,
	// since the entity row becomes unreachable through soft-delete filters.
	EntityLabel string    `gorm:"type:varchar(255)" json:"entityLabel,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"createdAt"`

	FieldChanges []FieldChange `gorm:"foreignKey:TrackID" json:"fieldChanges,omitempty"`
}

// TableName returns the table name for ActivityTrack
func (ActivityTrack) TableName() string {
	return "activity_tracks"
}

// FieldChange is one changed field under one ActivityTrack. Old and new
// values are stored as serialized scalars; document-slot changes carry
// identifiers, never content.
type FieldChange struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TrackID          uuid.UUID `gorm:"type:uuid;not null;index" json:"trackId"`
	FieldName        string    `gorm:"type:varchar(100);not null" json:"fieldName"`
	OldValue         string    `gorm:"type:text" json:"oldValue"`
	NewValue         string    `gorm:"type:text" json:"newValue"`
	IsDocumentChange bool      `gorm:"not null;default:false" json:"isDocumentChange"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName returns the table name for FieldChange
func (FieldChange) TableName() string {
	return "field_changes"
}
