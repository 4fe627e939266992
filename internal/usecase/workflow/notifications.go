package workflow

import (
	"fmt"

	"loan-origination-backend/internal/domain/application"
	"loan-origination-backend/internal/domain/notification"
)

func submittedNotices(a *application.Application) []*notification.Notification {
	id := a.ApplicationID
	return []*notification.Notification{
		notification.ToUser(a.ApplicantID, notification.SeveritySuccess,
			"Application Submitted",
			fmt.Sprintf("Your loan application %s has been submitted successfully and is under review.", id), id),
		notification.ToRole(application.RoleMaker, notification.SeverityInfo,
			"New Application",
			fmt.Sprintf("New loan application %s submitted by %s", id, a.Payload.FullName()), id),
	}
}

// transitionNotices are emitted after action committed on a.
func transitionNotices(action application.Action, a *application.Application, comments string) []*notification.Notification {
	id := a.ApplicationID
	switch action {
	case application.ActionStartMakerReview:
		return []*notification.Notification{
			notification.ToUser(a.ApplicantID, notification.SeverityInfo,
				"Application Under Review",
				fmt.Sprintf("Your loan application %s is being reviewed by a loan officer.", id), id),
		}
	case application.ActionMakerApprove:
		return []*notification.Notification{
			notification.ToUser(a.ApplicantID, notification.SeveritySuccess,
				"Application Approved by Maker",
				fmt.Sprintf("Your loan application %s has been approved by the loan officer and forwarded to senior review.", id), id),
			notification.ToRole(application.RoleChecker, notification.SeverityInfo,
				"Application for Final Review",
				fmt.Sprintf("Loan application %s approved by maker and ready for final review.", id), id),
		}
	case application.ActionMakerReject:
		return []*notification.Notification{
			notification.ToUser(a.ApplicantID, notification.SeverityError,
				"Application Rejected",
				fmt.Sprintf("Your loan application %s has been rejected by the loan officer. Reason: %s", id, comments), id),
		}
	case application.ActionStartCheckerReview:
		return []*notification.Notification{
			notification.ToUser(a.ApplicantID, notification.SeverityInfo,
				"Application Under Final Review",
				fmt.Sprintf("Your loan application %s is in final review.", id), id),
		}
	case application.ActionCheckerApprove:
		return []*notification.Notification{
			notification.ToUser(a.ApplicantID, notification.SeveritySuccess,
				"Loan Approved!",
				fmt.Sprintf("Congratulations! Your loan application %s has been approved. You will receive further instructions shortly.", id), id),
			notification.ToRole(application.RoleMaker, notification.SeveritySuccess,
				"Application Finally Approved",
				fmt.Sprintf("Loan application %s has been finally approved by the checker.", id), id),
		}
	case application.ActionCheckerReject:
		return []*notification.Notification{
			notification.ToUser(a.ApplicantID, notification.SeverityError,
				"Loan Application Rejected",
				fmt.Sprintf("Your loan application %s has been rejected after final review. Reason: %s", id, comments), id),
			notification.ToRole(application.RoleMaker, notification.SeverityWarning,
				"Application Finally Rejected",
				fmt.Sprintf("Loan application %s has been finally rejected by the checker.", id), id),
		}
	}
	return nil
}
