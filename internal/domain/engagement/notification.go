package engagement

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vclothes/backend/internal/domain/shared"
)

// NotificationKind classifies a notification
type NotificationKind string

const (
	NotificationKindOrderPlaced    NotificationKind = "order_placed"
	NotificationKindOrderPaid      NotificationKind = "order_paid"
	NotificationKindOrderCancelled NotificationKind = "order_cancelled"
	NotificationKindOrderShipped   NotificationKind = "order_shipped"
	NotificationKindStockReceived  NotificationKind = "stock_received"
	NotificationKindGeneral        NotificationKind = "general"
)

// NotificationPayload is free-form structured context, stored as JSONB
type NotificationPayload map[string]any

// Value implements driver.Valuer for JSONB storage
func (p NotificationPayload) Value() (driver.Value, error) {
	if p == nil {
		return json.Marshal(NotificationPayload{})
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner
func (p *NotificationPayload) Scan(value any) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into NotificationPayload", value)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, p)
}

// Notification is one message delivered to a user
type Notification struct {
	shared.BaseAggregateRoot
	RecipientID uuid.UUID           `gorm:"type:uuid;not null;index"`
	Kind        NotificationKind    `gorm:"type:varchar(30);not null"`
	Title       string              `gorm:"type:varchar(200);not null"`
	Body        string              `gorm:"type:text"`
	Payload     NotificationPayload `gorm:"type:jsonb"`
	Read        bool                `gorm:"not null;default:false"`
	ReadAt      *time.Time
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// NewNotification creates an unread notification
func NewNotification(recipientID uuid.UUID, kind NotificationKind, title, body string, payload NotificationPayload) (*Notification, error) {
	if recipientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Recipient is required")
	}
	if strings.TrimSpace(title) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Notification title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Notification title cannot exceed 200 characters")
	}

	return &Notification{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RecipientID:       recipientID,
		Kind:              kind,
		Title:             strings.TrimSpace(title),
		Body:              body,
		Payload:           payload,
	}, nil
}

// MarkRead marks the notification read. Idempotent.
func (n *Notification) MarkRead() {
	if n.Read {
		return
	}
	now := time.Now()
	n.Read = true
	n.ReadAt = &now
	n.UpdatedAt = now
}
