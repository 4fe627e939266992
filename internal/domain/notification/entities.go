package notification

import (
	"errors"
	"time"

	"loan-origination-backend/internal/domain/application"
)

var (
	ErrNotFound         = errors.New("notification not found")
	ErrInvalidRecipient = errors.New("notification needs exactly one of user id or audience")
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Legacy pseudo-recipient ids rendered for role broadcasts.
const (
	BroadcastMakers   = "all_makers"
	BroadcastCheckers = "all_checkers"
)

// Table: notifications
type Notification struct {
	// Generation ordered; tie-breaker for equal CreatedAt
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	// Direct recipient; empty for role broadcasts
	UserID string `gorm:"column:user_id;size:64;index:idx_notifications_user" json:"user_id,omitempty"`
	// Role broadcast target; empty for direct messages
	Audience      application.Role `gorm:"column:audience;size:16;index:idx_notifications_audience" json:"audience,omitempty"`
	Title         string           `gorm:"column:title;size:255;not null" json:"title"`
	Message       string           `gorm:"column:message;type:text;not null" json:"message"`
	Severity      Severity         `gorm:"column:severity;size:16;not null" json:"severity"`
	ApplicationID string           `gorm:"column:application_id;size:40;index" json:"application_id,omitempty"`
	CreatedAt     time.Time        `gorm:"column:created_at;not null" json:"created_at"`
	Read          bool             `gorm:"column:is_read;not null;default:false" json:"read"`
}

func (Notification) TableName() string { return "notifications" }

// RecipientKey renders the addressee the way clients know it: a user id or
// all_makers / all_checkers.
func (n *Notification) RecipientKey() string {
	switch n.Audience {
	case application.RoleMaker:
		return BroadcastMakers
	case application.RoleChecker:
		return BroadcastCheckers
	case "":
		return n.UserID
	}
	return "all_" + string(n.Audience) + "s"
}

func (n *Notification) Validate() error {
	if (n.UserID == "") == (n.Audience == "") {
		return ErrInvalidRecipient
	}
	return nil
}

// VisibleTo reports whether userID holding role should see n.
func (n *Notification) VisibleTo(userID string, role application.Role) bool {
	if n.UserID != "" && n.UserID == userID {
		return true
	}
	return n.Audience != "" && n.Audience == role
}

// ToUser addresses a single user.
func ToUser(userID string, sev Severity, title, msg, applicationID string) *Notification {
	return &Notification{UserID: userID, Severity: sev, Title: title, Message: msg, ApplicationID: applicationID}
}

// ToRole broadcasts to every holder of role.
func ToRole(role application.Role, sev Severity, title, msg, applicationID string) *Notification {
	return &Notification{Audience: role, Severity: sev, Title: title, Message: msg, ApplicationID: applicationID}
}
