package mysql

import (
	"testing"
	"time"

	appDomain "loan-origination-backend/internal/domain/application"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB returns a migrated in-memory SQLite database. One connection only:
// every new :memory: connection would otherwise see an empty database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeApplication(id, applicant string) *appDomain.Application {
	now := time.Now().UTC().Truncate(time.Second)
	return &appDomain.Application{
		ApplicationID: id,
		ApplicantID:   applicant,
		Status:        appDomain.StatusSubmitted,
		CreditScore:   701,
		SubmittedAt:   now,
		Payload: appDomain.Payload{
			Loan:      appDomain.LoanTerms{Amount: 150000, DurationMonths: 12, Purpose: "education"},
			Applicant: appDomain.ApplicantProfile{FirstName: "Ravi", LastName: "Kumar"},
			Documents: map[string][]string{"income": {"slip-01.pdf", "slip-02.pdf"}},
		},
		StatusHistory: []appDomain.HistoryEntry{{
			Status:    appDomain.StatusSubmitted,
			Timestamp: now,
			Comments:  "Application submitted by customer",
			Actor:     applicant,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// advance moves a through action the way the workflow engine does.
func advance(t *testing.T, a *appDomain.Application, action appDomain.Action, comments string) {
	t.Helper()
	next, err := appDomain.Next(a.Status, action)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	a.Status = next
	a.StatusHistory = append(a.StatusHistory, appDomain.HistoryEntry{
		Status:    next,
		Timestamp: time.Now().UTC(),
		Comments:  comments,
		Actor:     string(appDomain.ActorOf(action)),
	})
}
