package application

import (
	"time"
)

type Status string

const (
	StatusSubmitted          Status = "submitted"
	StatusUnderMakerReview   Status = "under_maker_review"
	StatusMakerApproved      Status = "maker_approved"
	StatusMakerRejected      Status = "maker_rejected"
	StatusUnderCheckerReview Status = "under_checker_review"
	StatusFinalApproved      Status = "final_approved"
	StatusFinalRejected      Status = "final_rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusUnderMakerReview, StatusMakerApproved, StatusMakerRejected,
		StatusUnderCheckerReview, StatusFinalApproved, StatusFinalRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition may leave s.
func (s Status) Terminal() bool {
	return s == StatusMakerRejected || s == StatusFinalApproved || s == StatusFinalRejected
}

type Role string

const (
	RoleCustomer Role = "customer"
	RoleMaker    Role = "maker"
	RoleChecker  Role = "checker"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleMaker || r == RoleChecker
}

// VisibleStatuses is the review queue of a role; nil means no restriction.
func (r Role) VisibleStatuses() []Status {
	switch r {
	case RoleMaker:
		return []Status{StatusSubmitted, StatusUnderMakerReview}
	case RoleChecker:
		return []Status{StatusMakerApproved, StatusUnderCheckerReview}
	}
	return nil
}

// Table: applications
type Application struct {
	// Internal numeric PK
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// Public identifier (APP + 32-char lowercase hex)
	ApplicationID string `gorm:"column:application_id;size:40;not null;uniqueIndex:ux_applications_application_id" json:"id"`
	ApplicantID   string `gorm:"column:applicant_id;size:64;not null;index:idx_applications_applicant" json:"applicant_id"`
	Status        Status `gorm:"column:status;size:32;not null;index:idx_applications_status" json:"status"`
	CreditScore   int    `gorm:"column:credit_score;not null" json:"credit_score"`

	MakerComments   string `gorm:"column:maker_comments;type:text" json:"maker_comments"`
	CheckerComments string `gorm:"column:checker_comments;type:text" json:"checker_comments"`
	AssignedMaker   string `gorm:"column:assigned_maker;size:64" json:"assigned_maker,omitempty"`
	AssignedChecker string `gorm:"column:assigned_checker;size:64" json:"assigned_checker,omitempty"`

	SubmittedAt       time.Time  `gorm:"column:submitted_at;not null" json:"submitted_at"`
	MakerApprovedAt   *time.Time `gorm:"column:maker_approved_at" json:"maker_approved_at,omitempty"`
	MakerRejectedAt   *time.Time `gorm:"column:maker_rejected_at" json:"maker_rejected_at,omitempty"`
	CheckerApprovedAt *time.Time `gorm:"column:checker_approved_at" json:"checker_approved_at,omitempty"`
	CheckerRejectedAt *time.Time `gorm:"column:checker_rejected_at" json:"checker_rejected_at,omitempty"`

	Payload       Payload        `gorm:"column:payload;type:json;serializer:json" json:"payload"`
	StatusHistory []HistoryEntry `gorm:"foreignKey:ApplicationPK;references:ID" json:"status_history"`

	Version   uint64    `gorm:"column:version;not null;default:1" json:"version"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updated_at"`
}

func (Application) TableName() string { return "applications" }

// LastEntry returns the most recent history entry.
func (a *Application) LastEntry() (HistoryEntry, bool) {
	if len(a.StatusHistory) == 0 {
		return HistoryEntry{}, false
	}
	return a.StatusHistory[len(a.StatusHistory)-1], true
}

// Clone returns a deep copy so stores never share slices or maps with callers.
func (a *Application) Clone() *Application {
	if a == nil {
		return nil
	}
	out := *a
	out.MakerApprovedAt = cloneTime(a.MakerApprovedAt)
	out.MakerRejectedAt = cloneTime(a.MakerRejectedAt)
	out.CheckerApprovedAt = cloneTime(a.CheckerApprovedAt)
	out.CheckerRejectedAt = cloneTime(a.CheckerRejectedAt)
	out.StatusHistory = append([]HistoryEntry(nil), a.StatusHistory...)
	out.Payload = a.Payload.Clone()
	return &out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// Table: application_status_history
type HistoryEntry struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	ApplicationPK uint64    `gorm:"column:application_pk;not null;uniqueIndex:ux_history_app_seq" json:"-"`
	Seq           int       `gorm:"column:seq;not null;uniqueIndex:ux_history_app_seq" json:"-"`
	Status        Status    `gorm:"column:status;size:32;not null" json:"status"`
	Timestamp     time.Time `gorm:"column:changed_at;not null" json:"timestamp"`
	Comments      string    `gorm:"column:comments;type:text" json:"comments"`
	Actor         string    `gorm:"column:actor;size:64;not null" json:"actor"`
}

func (HistoryEntry) TableName() string { return "application_status_history" }

// Filter narrows List results; zero fields are ignored.
type Filter struct {
	ApplicantID string
	Status      Status
	Role        Role
}

// Matches applies the filter in memory; SQL stores translate it into a WHERE clause.
func (f Filter) Matches(a *Application) bool {
	if f.ApplicantID != "" && a.ApplicantID != f.ApplicantID {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if visible := f.Role.VisibleStatuses(); visible != nil {
		for _, s := range visible {
			if a.Status == s {
				return true
			}
		}
		return false
	}
	return true
}
