package http

import (
	"context"
	"net/http"

	"loan-origination-backend/internal/domain/application"
	"loan-origination-backend/internal/usecase/workflow"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Workflow is the slice of the engine the HTTP layer drives.
type Workflow interface {
	Create(ctx context.Context, in workflow.CreateInput) (*application.Application, error)
	Get(ctx context.Context, applicationID string) (*application.Application, error)
	List(ctx context.Context, f application.Filter) ([]*application.Application, error)
	StartMakerReview(ctx context.Context, in workflow.ClaimInput) (*application.Application, error)
	MakerApprove(ctx context.Context, in workflow.DecisionInput) (*application.Application, error)
	MakerReject(ctx context.Context, in workflow.DecisionInput) (*application.Application, error)
	StartCheckerReview(ctx context.Context, in workflow.ClaimInput) (*application.Application, error)
	CheckerApprove(ctx context.Context, in workflow.DecisionInput) (*application.Application, error)
	CheckerReject(ctx context.Context, in workflow.DecisionInput) (*application.Application, error)
}

var _ Workflow = (*workflow.Engine)(nil)

type ApplicationHandler struct {
	wf  Workflow
	log *zap.Logger
}

func NewApplicationHandler(wf Workflow, log *zap.Logger) *ApplicationHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ApplicationHandler{wf: wf, log: log}
}

type createApplicationReq struct {
	// falls back to Ax-User-Id
	ApplicantID string `json:"applicant_id" validate:"omitempty,userid"`
	application.Payload
}

type decisionReq struct {
	Comments   string `json:"comments"    validate:"required,notblank"`
	ReviewerID string `json:"reviewer_id" validate:"omitempty,userid"`
}

type claimReq struct {
	ReviewerID string `json:"reviewer_id" validate:"omitempty,userid"`
}

type listResponse struct {
	Items []*application.Application `json:"items"`
	Count int                        `json:"count"`
}

func (h *ApplicationHandler) Create(c echo.Context) error {
	var req createApplicationReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	applicant := actorID(c, req.ApplicantID)
	if applicant == "" {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: []FieldError{{Field: "applicant_id", Message: "is required"}},
		})
	}

	a, err := h.wf.Create(c.Request().Context(), workflow.CreateInput{ApplicantID: applicant, Payload: req.Payload})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *ApplicationHandler) Get(c echo.Context) error {
	id := c.Param("application_id")
	if id == "" {
		return badRequest(c, "missing application_id path param")
	}
	a, err := h.wf.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, a)
}

// List accepts applicant_id, status and role query filters.
func (h *ApplicationHandler) List(c echo.Context) error {
	f := application.Filter{
		ApplicantID: c.QueryParam("applicant_id"),
		Status:      application.Status(c.QueryParam("status")),
		Role:        application.Role(c.QueryParam("role")),
	}
	items, err := h.wf.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, listResponse{Items: items, Count: len(items)})
}

func (h *ApplicationHandler) MakerClaim(c echo.Context) error {
	return h.claim(c, h.wf.StartMakerReview)
}

func (h *ApplicationHandler) CheckerClaim(c echo.Context) error {
	return h.claim(c, h.wf.StartCheckerReview)
}

func (h *ApplicationHandler) MakerApprove(c echo.Context) error {
	return h.decide(c, h.wf.MakerApprove)
}

func (h *ApplicationHandler) MakerReject(c echo.Context) error {
	return h.decide(c, h.wf.MakerReject)
}

func (h *ApplicationHandler) CheckerApprove(c echo.Context) error {
	return h.decide(c, h.wf.CheckerApprove)
}

func (h *ApplicationHandler) CheckerReject(c echo.Context) error {
	return h.decide(c, h.wf.CheckerReject)
}

type claimFunc func(context.Context, workflow.ClaimInput) (*application.Application, error)

type decideFunc func(context.Context, workflow.DecisionInput) (*application.Application, error)

func (h *ApplicationHandler) claim(c echo.Context, fn claimFunc) error {
	id := c.Param("application_id")
	if id == "" {
		return badRequest(c, "missing application_id path param")
	}
	var req claimReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	a, err := fn(c.Request().Context(), workflow.ClaimInput{ApplicationID: id, ReviewerID: actorID(c, req.ReviewerID)})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *ApplicationHandler) decide(c echo.Context, fn decideFunc) error {
	id := c.Param("application_id")
	if id == "" {
		return badRequest(c, "missing application_id path param")
	}
	var req decisionReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	a, err := fn(c.Request().Context(), workflow.DecisionInput{
		ApplicationID: id,
		Comments:      req.Comments,
		ReviewerID:    actorID(c, req.ReviewerID),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, a)
}
