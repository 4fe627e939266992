package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"loan-origination-backend/internal/domain/application"
	"loan-origination-backend/internal/domain/notification"
	"loan-origination-backend/internal/domain/uow"
	"loan-origination-backend/pkg/id"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const defaultMaxRetries = 3

// Engine owns the maker-checker state machine. All writes go through the unit
// of work; notifications are published after the write commits and their
// failures are only logged.
type Engine struct {
	apps       application.Repository
	notifs     notification.Repository
	uow        uow.UnitOfWork
	scorer     ScoreProvider
	clock      Clock
	locker     Locker
	log        *zap.Logger
	validate   *validator.Validate
	newID      func() string
	maxRetries int
}

type Option func(*Engine)

func WithClock(c Clock) Option { return func(e *Engine) { e.clock = c } }

func WithLocker(l Locker) Option { return func(e *Engine) { e.locker = l } }

func WithLogger(l *zap.Logger) Option { return func(e *Engine) { e.log = l } }

func WithIDGenerator(f func() string) Option { return func(e *Engine) { e.newID = f } }

// WithMaxRetries bounds re-reads after a lost optimistic write.
func WithMaxRetries(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.maxRetries = n
		}
	}
}

func NewEngine(apps application.Repository, notifs notification.Repository, tx uow.UnitOfWork, scorer ScoreProvider, opts ...Option) *Engine {
	e := &Engine{
		apps:       apps,
		notifs:     notifs,
		uow:        tx,
		scorer:     scorer,
		clock:      systemClock,
		locker:     NewKeyedMutex(),
		log:        zap.NewNop(),
		validate:   validator.New(),
		newID:      id.NewApplicationID,
		maxRetries: defaultMaxRetries,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Create submits a new application on behalf of in.ApplicantID.
func (e *Engine) Create(ctx context.Context, in CreateInput) (*application.Application, error) {
	if strings.TrimSpace(in.ApplicantID) == "" {
		return nil, fmt.Errorf("applicant id is required: %w", application.ErrValidation)
	}
	if err := e.validate.Struct(in.Payload); err != nil {
		return nil, fmt.Errorf("%w: %s", application.ErrValidation, describe(err))
	}

	score, err := e.scorer.Score(ctx, in.Payload)
	if err != nil {
		return nil, fmt.Errorf("credit score: %w", err)
	}
	if score < application.MinCreditScore || score > application.MaxCreditScore {
		return nil, fmt.Errorf("got %d: %w", score, application.ErrScoreOutOfRange)
	}

	now := e.clock.Now()
	a := &application.Application{
		ApplicationID: e.newID(),
		ApplicantID:   in.ApplicantID,
		Status:        application.StatusSubmitted,
		CreditScore:   score,
		SubmittedAt:   now,
		Payload:       in.Payload.Clone(),
		StatusHistory: []application.HistoryEntry{{
			Status:    application.StatusSubmitted,
			Timestamp: now,
			Comments:  "Application submitted by customer",
			Actor:     in.ApplicantID,
		}},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := e.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Applications.Insert(ctx, a)
	}); err != nil {
		return nil, err
	}

	e.log.Info("application submitted",
		zap.String("application_id", a.ApplicationID),
		zap.String("applicant_id", a.ApplicantID),
		zap.Int("credit_score", a.CreditScore))
	e.emit(ctx, now, submittedNotices(a))
	return a.Clone(), nil
}

func (e *Engine) StartMakerReview(ctx context.Context, in ClaimInput) (*application.Application, error) {
	return e.claim(ctx, application.ActionStartMakerReview, in, "Picked up for maker review by %s")
}

func (e *Engine) StartCheckerReview(ctx context.Context, in ClaimInput) (*application.Application, error) {
	return e.claim(ctx, application.ActionStartCheckerReview, in, "Picked up for checker review by %s")
}

func (e *Engine) MakerApprove(ctx context.Context, in DecisionInput) (*application.Application, error) {
	return e.decide(ctx, application.ActionMakerApprove, in)
}

func (e *Engine) MakerReject(ctx context.Context, in DecisionInput) (*application.Application, error) {
	return e.decide(ctx, application.ActionMakerReject, in)
}

func (e *Engine) CheckerApprove(ctx context.Context, in DecisionInput) (*application.Application, error) {
	return e.decide(ctx, application.ActionCheckerApprove, in)
}

func (e *Engine) CheckerReject(ctx context.Context, in DecisionInput) (*application.Application, error) {
	return e.decide(ctx, application.ActionCheckerReject, in)
}

func (e *Engine) claim(ctx context.Context, action application.Action, in ClaimInput, note string) (*application.Application, error) {
	reviewer := strings.TrimSpace(in.ReviewerID)
	if reviewer == "" {
		return nil, fmt.Errorf("reviewer id is required: %w", application.ErrValidation)
	}
	comments := fmt.Sprintf(note, reviewer)
	return e.transition(ctx, in.ApplicationID, action, comments, func(a *application.Application, _ time.Time) error {
		if action == application.ActionStartMakerReview {
			a.AssignedMaker = reviewer
		} else {
			a.AssignedChecker = reviewer
		}
		return nil
	})
}

func (e *Engine) decide(ctx context.Context, action application.Action, in DecisionInput) (*application.Application, error) {
	if strings.TrimSpace(in.Comments) == "" {
		return nil, fmt.Errorf("comments are required: %w", application.ErrValidation)
	}
	reviewer := strings.TrimSpace(in.ReviewerID)
	return e.transition(ctx, in.ApplicationID, action, in.Comments, func(a *application.Application, now time.Time) error {
		t := now
		switch action {
		case application.ActionMakerApprove, application.ActionMakerReject:
			if reviewer != "" && a.AssignedMaker != "" && a.AssignedMaker != reviewer {
				return fmt.Errorf("%s is claimed by maker %s: %w", a.ApplicationID, a.AssignedMaker, application.ErrInvalidTransition)
			}
			a.MakerComments = in.Comments
			if action == application.ActionMakerApprove {
				a.MakerApprovedAt = &t
			} else {
				a.MakerRejectedAt = &t
			}
		case application.ActionCheckerApprove, application.ActionCheckerReject:
			if reviewer != "" && a.AssignedChecker != "" && a.AssignedChecker != reviewer {
				return fmt.Errorf("%s is claimed by checker %s: %w", a.ApplicationID, a.AssignedChecker, application.ErrInvalidTransition)
			}
			a.CheckerComments = in.Comments
			if action == application.ActionCheckerApprove {
				a.CheckerApprovedAt = &t
			} else {
				a.CheckerRejectedAt = &t
			}
		}
		return nil
	})
}

// transition is the single write path for every status change: lock the id,
// re-read, check the table, mutate, append history, conditional update.
func (e *Engine) transition(ctx context.Context, applicationID string, action application.Action, comments string,
	mutate func(a *application.Application, now time.Time) error) (*application.Application, error) {
	if strings.TrimSpace(applicationID) == "" {
		return nil, fmt.Errorf("application id is required: %w", application.ErrValidation)
	}

	unlock, err := e.locker.Lock(ctx, applicationID)
	if err != nil {
		// the caller gave up; not contention
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%s: lock: %v: %w", applicationID, err, application.ErrConcurrentModification)
	}
	defer unlock()

	var (
		out *application.Application
		now time.Time
	)
	for attempt := 0; ; attempt++ {
		err = e.uow.WithinApplicationTx(ctx, applicationID, func(r uow.Repos, a *application.Application) error {
			next, err := application.Next(a.Status, action)
			if err != nil {
				return fmt.Errorf("%s: %w", applicationID, err)
			}
			now = e.clock.Now()
			if err := mutate(a, now); err != nil {
				return err
			}
			a.Status = next
			a.StatusHistory = append(a.StatusHistory, application.HistoryEntry{
				Status:    next,
				Timestamp: now,
				Comments:  comments,
				Actor:     string(application.ActorOf(action)),
			})
			a.UpdatedAt = now
			if err := r.Applications.Update(ctx, a); err != nil {
				return err
			}
			out = a
			return nil
		})
		if errors.Is(err, application.ErrConcurrentModification) && attempt < e.maxRetries {
			e.log.Warn("optimistic write lost, retrying",
				zap.String("application_id", applicationID),
				zap.String("action", string(action)),
				zap.Int("attempt", attempt+1))
			continue
		}
		break
	}
	if err != nil {
		return nil, err
	}

	e.log.Info("application transitioned",
		zap.String("application_id", applicationID),
		zap.String("action", string(action)),
		zap.String("status", string(out.Status)))
	e.emit(ctx, now, transitionNotices(action, out, comments))
	return out.Clone(), nil
}

// emit publishes best-effort; the committed transition stands regardless.
func (e *Engine) emit(ctx context.Context, now time.Time, notes []*notification.Notification) {
	for _, n := range notes {
		n.CreatedAt = now
		if err := e.notifs.Publish(ctx, n); err != nil {
			e.log.Error("publish notification",
				zap.String("application_id", n.ApplicationID),
				zap.String("recipient", n.RecipientKey()),
				zap.String("title", n.Title),
				zap.Error(err))
		}
	}
}

func (e *Engine) Get(ctx context.Context, applicationID string) (*application.Application, error) {
	return e.apps.GetByID(ctx, applicationID)
}

func (e *Engine) List(ctx context.Context, f application.Filter) ([]*application.Application, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", f.Status, application.ErrValidation)
	}
	if f.Role != "" && !f.Role.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", f.Role, application.ErrValidation)
	}
	return e.apps.List(ctx, f)
}

func (e *Engine) NotificationsFor(ctx context.Context, userID string, role application.Role) ([]*notification.Notification, error) {
	if role != "" && !role.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", role, application.ErrValidation)
	}
	return e.notifs.QueryFor(ctx, userID, role)
}

func (e *Engine) UnreadCount(ctx context.Context, userID string, role application.Role) (int64, error) {
	if role != "" && !role.Valid() {
		return 0, fmt.Errorf("unknown role %q: %w", role, application.ErrValidation)
	}
	return e.notifs.UnreadCount(ctx, userID, role)
}

func (e *Engine) MarkNotificationRead(ctx context.Context, notificationID uint64) error {
	return e.notifs.MarkRead(ctx, notificationID)
}

// describe flattens validator errors into "Field: tag" pairs.
func describe(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, fe.Namespace()+": "+fe.Tag())
	}
	return strings.Join(parts, ", ")
}
