package application

import "fmt"

type Action string

const (
	ActionStartMakerReview   Action = "start_maker_review"
	ActionMakerApprove       Action = "maker_approve"
	ActionMakerReject        Action = "maker_reject"
	ActionStartCheckerReview Action = "start_checker_review"
	ActionCheckerApprove     Action = "checker_approve"
	ActionCheckerReject      Action = "checker_reject"
)

const (
	MinCreditScore = 300
	MaxCreditScore = 850
)

type transition struct {
	from  []Status
	to    Status
	actor Role
}

var transitions = map[Action]transition{
	ActionStartMakerReview:   {from: []Status{StatusSubmitted}, to: StatusUnderMakerReview, actor: RoleMaker},
	ActionMakerApprove:       {from: []Status{StatusSubmitted, StatusUnderMakerReview}, to: StatusMakerApproved, actor: RoleMaker},
	ActionMakerReject:        {from: []Status{StatusSubmitted, StatusUnderMakerReview}, to: StatusMakerRejected, actor: RoleMaker},
	ActionStartCheckerReview: {from: []Status{StatusMakerApproved}, to: StatusUnderCheckerReview, actor: RoleChecker},
	ActionCheckerApprove:     {from: []Status{StatusMakerApproved, StatusUnderCheckerReview}, to: StatusFinalApproved, actor: RoleChecker},
	ActionCheckerReject:      {from: []Status{StatusMakerApproved, StatusUnderCheckerReview}, to: StatusFinalRejected, actor: RoleChecker},
}

// Actions lists every transition operation in table order.
func Actions() []Action {
	return []Action{
		ActionStartMakerReview, ActionMakerApprove, ActionMakerReject,
		ActionStartCheckerReview, ActionCheckerApprove, ActionCheckerReject,
	}
}

// Next resolves the target status of action from the current status.
// The returned error wraps ErrInvalidTransition.
func Next(current Status, action Action) (Status, error) {
	t, ok := transitions[action]
	if !ok {
		return "", fmt.Errorf("unknown action %q: %w", action, ErrInvalidTransition)
	}
	for _, s := range t.from {
		if s == current {
			return t.to, nil
		}
	}
	return "", fmt.Errorf("cannot %s from %s: %w", action, current, ErrInvalidTransition)
}

// ActorOf is the role that performs action.
func ActorOf(action Action) Role { return transitions[action].actor }
