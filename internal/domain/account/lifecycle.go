package account

import "fmt"

// VerificationState is the account position on the registration axis.
type VerificationState string

const (
	StateUnregistered        VerificationState = "unregistered"
	StatePendingVerification VerificationState = "pending_verification"
	StateVerified            VerificationState = "verified"
)

// Action is a workflow step applied to an account.
type Action string

const (
	ActionRegister Action = "register"
	ActionVerify   Action = "verify_otp"
	ActionResend   Action = "resend_otp"
	ActionLogin    Action = "login"
)

// StateOf derives the state of a possibly missing account.
func StateOf(a *Account) VerificationState {
	switch {
	case a == nil:
		return StateUnregistered
	case a.IsVerified():
		return StateVerified
	default:
		return StatePendingVerification
	}
}

type transition struct {
	next VerificationState
	err  error
}

// Allowed moves; a non-nil err means the action is rejected in that state.
var transitions = map[VerificationState]map[Action]transition{
	StateUnregistered: {
		ActionRegister: {next: StatePendingVerification},
		ActionVerify:   {err: ErrAccountNotFound},
		ActionResend:   {err: ErrAccountNotFound},
		ActionLogin:    {err: ErrAccountNotFound},
	},
	StatePendingVerification: {
		ActionRegister: {err: ErrAccountAlreadyExists},
		ActionVerify:   {next: StateVerified},
		ActionResend:   {next: StatePendingVerification},
		ActionLogin:    {err: ErrVerificationRequired},
	},
	StateVerified: {
		ActionRegister: {err: ErrAccountAlreadyExists},
		ActionVerify:   {err: ErrAlreadyVerified},
		ActionResend:   {err: ErrAlreadyVerified},
		ActionLogin:    {next: StateVerified},
	},
}

// Transition returns the state reached by applying action in from, or the
// domain error that rejects it.
func Transition(from VerificationState, action Action) (VerificationState, error) {
	actions, ok := transitions[from]
	if !ok {
		return from, fmt.Errorf("unknown verification state %q", from)
	}

	t, ok := actions[action]
	if !ok {
		return from, fmt.Errorf("unknown action %q", action)
	}
	if t.err != nil {
		return from, t.err
	}

	return t.next, nil
}

// Allow is Transition for the account's current state, discarding the target.
func Allow(a *Account, action Action) error {
	_, err := Transition(StateOf(a), action)
	return err
}
