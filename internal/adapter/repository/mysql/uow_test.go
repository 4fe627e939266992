package mysql

import (
	"context"
	"errors"
	"testing"

	appDomain "loan-origination-backend/internal/domain/application"
	notifDomain "loan-origination-backend/internal/domain/notification"
	"loan-origination-backend/internal/domain/uow"
)

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db, nil)

	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		a := makeApplication("APP-COMMIT", "u1")
		if err := r.Applications.Insert(ctx, a); err != nil {
			return err
		}
		if a.ID == 0 {
			t.Fatalf("application auto ID not set")
		}
		return r.Notifications.Publish(ctx, notifDomain.ToUser("u1", notifDomain.SeveritySuccess, "t", "m", a.ApplicationID))
	})
	if err != nil {
		t.Fatalf("WithinTx commit err: %v", err)
	}

	if _, err := NewApplicationRepository(db).GetByID(ctx, "APP-COMMIT"); err != nil {
		t.Fatalf("application not visible after commit: %v", err)
	}
	if n, _ := NewNotificationRepository(db, nil).UnreadCount(ctx, "u1", appDomain.RoleCustomer); n != 1 {
		t.Fatalf("notification not visible after commit: %d", n)
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db, nil)
	sentinel := errors.New("boom")

	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Applications.Insert(ctx, makeApplication("APP-ROLL", "u1")); err != nil {
			return err
		}
		if err := r.Notifications.Publish(ctx, notifDomain.ToUser("u1", notifDomain.SeverityInfo, "t", "m", "APP-ROLL")); err != nil {
			return err
		}
		return sentinel // force rollback
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("want sentinel, got %v", err)
	}

	if _, err := NewApplicationRepository(db).GetByID(ctx, "APP-ROLL"); !errors.Is(err, appDomain.ErrNotFound) {
		t.Fatalf("expected application absent after rollback, got %v", err)
	}
	if n, _ := NewNotificationRepository(db, nil).UnreadCount(ctx, "u1", appDomain.RoleCustomer); n != 0 {
		t.Fatalf("expected no notifications after rollback, got %d", n)
	}
}

func TestGormUoW_WithinApplicationTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db, nil)
	repo := NewApplicationRepository(db)

	if err := repo.Insert(ctx, makeApplication("APP-TARGET", "u1")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := guow.WithinApplicationTx(ctx, "APP-TARGET", func(r uow.Repos, a *appDomain.Application) error {
		if a == nil || a.ApplicationID != "APP-TARGET" || a.Status != appDomain.StatusSubmitted {
			t.Fatalf("unexpected application passed to fn: %+v", a)
		}
		advance(t, a, appDomain.ActionMakerReject, "incomplete")
		a.MakerComments = "incomplete"
		return r.Applications.Update(ctx, a)
	}); err != nil {
		t.Fatalf("WithinApplicationTx commit err: %v", err)
	}

	got, err := repo.GetByID(ctx, "APP-TARGET")
	if err != nil {
		t.Fatalf("GetByID post-commit: %v", err)
	}
	if got.Status != appDomain.StatusMakerRejected || len(got.StatusHistory) != 2 {
		t.Fatalf("update not committed: %+v", got)
	}
}

func TestGormUoW_WithinApplicationTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db, nil)
	repo := NewApplicationRepository(db)

	if err := repo.Insert(ctx, makeApplication("APP-RB", "u1")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	sentinel := errors.New("stop")

	_ = guow.WithinApplicationTx(ctx, "APP-RB", func(r uow.Repos, a *appDomain.Application) error {
		advance(t, a, appDomain.ActionMakerApprove, "ok")
		if err := r.Applications.Update(ctx, a); err != nil {
			return err
		}
		return sentinel // force rollback
	})

	got, err := repo.GetByID(ctx, "APP-RB")
	if err != nil {
		t.Fatalf("post-rollback GetByID: %v", err)
	}
	if got.Status != appDomain.StatusSubmitted || got.Version != 1 || len(got.StatusHistory) != 1 {
		t.Fatalf("expected untouched application after rollback, got %+v", got)
	}
}

func TestGormUoW_WithinApplicationTx_NotFound(t *testing.T) {
	guow := NewGormUoW(openTestDB(t), nil)

	err := guow.WithinApplicationTx(context.Background(), "APP-NOPE", func(uow.Repos, *appDomain.Application) error {
		t.Fatalf("callback should not be called when application missing")
		return nil
	})
	if !errors.Is(err, appDomain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
