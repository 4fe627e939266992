package mysql

import (
	appDomain "loan-origination-backend/internal/domain/application"
	notifDomain "loan-origination-backend/internal/domain/notification"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the workflow tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&appDomain.Application{},
		&appDomain.HistoryEntry{},
		&notifDomain.Notification{},
	)
}
