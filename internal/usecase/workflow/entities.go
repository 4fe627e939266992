package workflow

import (
	"loan-origination-backend/internal/domain/application"
)

type CreateInput struct {
	ApplicantID string
	Payload     application.Payload
}

// DecisionInput records a maker or checker decision. ReviewerID is optional;
// when set and the application was claimed by someone else the decision is refused.
type DecisionInput struct {
	ApplicationID string
	Comments      string
	ReviewerID    string
}

// ClaimInput moves an application into the reviewing state of a role.
type ClaimInput struct {
	ApplicationID string
	ReviewerID    string
}
