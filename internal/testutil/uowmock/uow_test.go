package uowmock

import (
	"context"
	"errors"
	"testing"

	"loan-origination-backend/internal/domain/application"
	"loan-origination-backend/internal/domain/uow"
	"loan-origination-backend/internal/testutil/appmock"
	"loan-origination-backend/internal/testutil/notifmock"
)

func TestUoW_WithinTx_Happy(t *testing.T) {
	ctx := context.Background()

	apps := &appmock.Repo{}
	notifs := &notifmock.Repo{}
	repos := uow.Repos{Applications: apps, Notifications: notifs}

	innerCalled := false
	m := &UoW{
		WithinTxFn: func(gotCtx context.Context, fn func(r uow.Repos) error) error {
			if gotCtx != ctx {
				t.Fatalf("WithinTx: ctx mismatch")
			}
			return fn(repos)
		},
	}

	err := m.WithinTx(ctx, func(r uow.Repos) error {
		innerCalled = true
		if r.Applications != apps || r.Notifications != notifs {
			t.Fatalf("WithinTx: repos not forwarded correctly")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx: unexpected err: %v", err)
	}
	if !innerCalled {
		t.Fatalf("WithinTx: inner fn not called")
	}
}

func TestUoW_Unimplemented(t *testing.T) {
	m := New()
	if err := m.WithinTx(context.Background(), func(uow.Repos) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinTx: want errUnimplemented, got %v", err)
	}
	err := m.WithinApplicationTx(context.Background(), "APP1", func(uow.Repos, *application.Application) error { return nil })
	if !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinApplicationTx: want errUnimplemented, got %v", err)
	}
}

func TestPassThrough_LoadsApplication(t *testing.T) {
	want := &application.Application{ApplicationID: "APP1", Status: application.StatusSubmitted}
	apps := &appmock.Repo{
		GetByIDFn: func(_ context.Context, id string) (*application.Application, error) {
			if id != "APP1" {
				return nil, application.ErrNotFound
			}
			return want, nil
		},
	}
	m := PassThrough(uow.Repos{Applications: apps, Notifications: &notifmock.Repo{}})

	var got *application.Application
	if err := m.WithinApplicationTx(context.Background(), "APP1", func(_ uow.Repos, a *application.Application) error {
		got = a
		return nil
	}); err != nil {
		t.Fatalf("WithinApplicationTx: %v", err)
	}
	if got != want {
		t.Fatalf("application not forwarded: %+v", got)
	}

	err := m.WithinApplicationTx(context.Background(), "APP404", func(uow.Repos, *application.Application) error {
		t.Fatalf("fn must not run for a missing application")
		return nil
	})
	if !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestReset(t *testing.T) {
	m := New().WithWithinTx(func(context.Context, func(uow.Repos) error) error { return nil })
	m.Reset()
	if m.WithinTxFn != nil || m.WithinApplicationTxFn != nil {
		t.Fatalf("Reset left functions set")
	}
}
