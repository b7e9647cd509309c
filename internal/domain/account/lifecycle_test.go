package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		from    VerificationState
		action  Action
		want    VerificationState
		wantErr error
	}{
		{StateUnregistered, ActionRegister, StatePendingVerification, nil},
		{StateUnregistered, ActionVerify, StateUnregistered, ErrAccountNotFound},
		{StateUnregistered, ActionLogin, StateUnregistered, ErrAccountNotFound},
		{StatePendingVerification, ActionRegister, StatePendingVerification, ErrAccountAlreadyExists},
		{StatePendingVerification, ActionVerify, StateVerified, nil},
		{StatePendingVerification, ActionResend, StatePendingVerification, nil},
		{StatePendingVerification, ActionLogin, StatePendingVerification, ErrVerificationRequired},
		{StateVerified, ActionRegister, StateVerified, ErrAccountAlreadyExists},
		{StateVerified, ActionVerify, StateVerified, ErrAlreadyVerified},
		{StateVerified, ActionResend, StateVerified, ErrAlreadyVerified},
		{StateVerified, ActionLogin, StateVerified, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.action), func(t *testing.T) {
			got, err := Transition(tt.from, tt.action)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransition_Unknown(t *testing.T) {
	_, err := Transition("archived", ActionLogin)
	assert.Error(t, err)

	_, err = Transition(StateVerified, "promote")
	assert.Error(t, err)
}

func TestStateOf(t *testing.T) {
	assert.Equal(t, StateUnregistered, StateOf(nil))

	a := &Account{}
	assert.Equal(t, StatePendingVerification, StateOf(a))

	a.MarkVerified()
	assert.Equal(t, StateVerified, StateOf(a))
	assert.True(t, a.OTPVerified)
	assert.Nil(t, a.OTPCode)
	assert.Nil(t, a.OTPExpiresAt)
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" Employer ")
	require.NoError(t, err)
	assert.Equal(t, RoleEmployer, role)
	assert.True(t, role.SelfRegistrable())

	role, err = ParseRole("admin")
	require.NoError(t, err)
	assert.False(t, role.SelfRegistrable())

	_, err = ParseRole("superuser")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@x.com", NormalizeEmail("  Alice@X.com "))
}
