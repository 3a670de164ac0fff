// Package workflow drives the multi-stage identity flows of the terminal
// client: sign-up, password reset, email change, and account deletion. Each
// flow is an explicit chain of stages; a stage only advances when every
// field of that stage validates, and illegal stage combinations are
// unrepresentable because transitions live in a fixed table.
package workflow

import (
	"errors"

	"github.com/gowear/gowear/internal/validate"
)

// Stage is one named step of an identity flow. StageNone is the neutral
// signed-out view every flow returns to.
type Stage string

const (
	StageNone Stage = ""

	// Sign-up: collect the account fields, then confirm the email by OTP.
	StageSignUpForm   Stage = "signUpForm"
	StageSignUpVerify Stage = "signUpVerify"

	// Password reset: collect the email, prove ownership, set the new password.
	StageResetPassword      Stage = "resetPassword"
	StageResetVerify        Stage = "resetVerify"
	StageResetPasswordEnter Stage = "resetPasswordEnter"

	// Email change: re-verify the password, collect the new address, confirm by OTP.
	StageVerifyPassEmailUpdate    Stage = "verifyPassEmailUpdate"
	StageNewEmailEnterEmailUpdate Stage = "newEmailEnterEmailUpdate"
	StageVerifyOTPEmailUpdate     Stage = "verifyOTPEmailUpdate"

	// Account deletion: prove ownership by OTP, then type the literal confirmation.
	StageVerifyOTPDeleteAccount Stage = "verifyOtpDeleteAccount"
	StageConfirmDelete          Stage = "confirmDelete"
)

// Field names the form inputs shared across stages.
type Field string

const (
	FieldName            Field = "name"
	FieldEmail           Field = "email"
	FieldPassword        Field = "password"
	FieldConfirmPassword Field = "confirmPassword"
	FieldRole            Field = "role"
	FieldTerms           Field = "terms"
	FieldOTP             Field = "otp"
	FieldNewEmail        Field = "newEmail"
	FieldConfirmation    Field = "confirmation"
)

// transitions maps each stage to its successor. A StageNone successor
// marks the stage as terminal: submitting it completes the flow.
var transitions = map[Stage]Stage{
	StageSignUpForm:   StageSignUpVerify,
	StageSignUpVerify: StageNone,

	StageResetPassword:      StageResetVerify,
	StageResetVerify:        StageResetPasswordEnter,
	StageResetPasswordEnter: StageNone,

	StageVerifyPassEmailUpdate:    StageNewEmailEnterEmailUpdate,
	StageNewEmailEnterEmailUpdate: StageVerifyOTPEmailUpdate,
	StageVerifyOTPEmailUpdate:     StageNone,

	StageVerifyOTPDeleteAccount: StageConfirmDelete,
	StageConfirmDelete:          StageNone,
}

// entryStages are the stages a flow may start from.
var entryStages = map[Stage]bool{
	StageSignUpForm:             true,
	StageResetPassword:          true,
	StageVerifyPassEmailUpdate:  true,
	StageVerifyOTPDeleteAccount: true,
}

// stageFields lists which fields each stage collects, in display order.
var stageFields = map[Stage][]Field{
	StageSignUpForm:               {FieldName, FieldEmail, FieldPassword, FieldConfirmPassword, FieldRole, FieldTerms},
	StageSignUpVerify:             {FieldOTP},
	StageResetPassword:            {FieldEmail},
	StageResetVerify:              {FieldOTP},
	StageResetPasswordEnter:       {FieldPassword, FieldConfirmPassword},
	StageVerifyPassEmailUpdate:    {FieldPassword},
	StageNewEmailEnterEmailUpdate: {FieldNewEmail},
	StageVerifyOTPEmailUpdate:     {FieldOTP},
	StageVerifyOTPDeleteAccount:   {FieldOTP},
	StageConfirmDelete:            {FieldConfirmation},
}

var (
	ErrNotAnEntryStage = errors.New("not an entry stage")
	ErrFlowActive      = errors.New("another flow is active")
	ErrNoActiveFlow    = errors.New("no active flow")
)

// Machine holds one in-progress flow: the active stage, the field values
// entered so far, and whether the user has attempted to submit the current
// stage (which is what makes validation errors visible).
type Machine struct {
	stage           Stage
	fields          map[Field]string
	submitAttempted bool
}

func New() *Machine {
	return &Machine{fields: map[Field]string{}}
}

// Stage returns the active stage, StageNone when no flow is running.
func (m *Machine) Stage() Stage {
	return m.stage
}

// Active reports whether a flow is in progress.
func (m *Machine) Active() bool {
	return m.stage != StageNone
}

// Start begins a flow at one of the entry stages. A flow already in
// progress must be cancelled or completed first.
func (m *Machine) Start(stage Stage) error {
	if !entryStages[stage] {
		return ErrNotAnEntryStage
	}
	if m.stage != StageNone {
		return ErrFlowActive
	}
	m.stage = stage
	m.submitAttempted = false
	return nil
}

// SetField records a field value. Validation recomputes on read, so
// callers can set fields in any order.
func (m *Machine) SetField(f Field, value string) {
	m.fields[f] = value
}

// FieldValue returns the currently entered value for a field.
func (m *Machine) FieldValue(f Field) string {
	return m.fields[f]
}

// StageFields returns the input fields of the active stage in display order.
func (m *Machine) StageFields() []Field {
	return stageFields[m.stage]
}

// Errors computes the validation errors of the active stage's fields,
// regardless of submit attempts.
func (m *Machine) Errors() map[Field]string {
	result := map[Field]string{}
	for _, f := range stageFields[m.stage] {
		if msg := m.validateField(f); msg != "" {
			result[f] = msg
		}
	}
	return result
}

// VisibleErrors returns the errors the UI should display: none until the
// user has attempted to submit the current stage at least once.
func (m *Machine) VisibleErrors() map[Field]string {
	if !m.submitAttempted {
		return map[Field]string{}
	}
	return m.Errors()
}

// Submit attempts to advance the flow. When any field of the active stage
// fails validation the stage stays put, the errors become visible, and ok
// is false. Otherwise the machine moves to the next stage; submitting a
// terminal stage completes the flow and resets all state.
func (m *Machine) Submit() (next Stage, ok bool, err error) {
	if m.stage == StageNone {
		return StageNone, false, ErrNoActiveFlow
	}

	if len(m.Errors()) > 0 {
		m.submitAttempted = true
		return m.stage, false, nil
	}

	next = transitions[m.stage]
	if next == StageNone {
		m.reset()
		return StageNone, true, nil
	}

	m.stage = next
	m.submitAttempted = false
	return next, true, nil
}

// Cancel abandons the flow and discards all in-progress input.
func (m *Machine) Cancel() {
	m.reset()
}

func (m *Machine) reset() {
	m.stage = StageNone
	m.fields = map[Field]string{}
	m.submitAttempted = false
}

func (m *Machine) validateField(f Field) string {
	value := m.fields[f]
	switch f {
	case FieldName:
		return validate.Name(value)
	case FieldEmail, FieldNewEmail:
		return validate.Email(value)
	case FieldPassword:
		// The email-change flow collects the existing password, which only
		// needs to be present; new passwords follow the strength policy.
		if m.stage == StageVerifyPassEmailUpdate {
			if value == "" {
				return "Password is required"
			}
			return ""
		}
		return validate.Password(value)
	case FieldConfirmPassword:
		return validate.ConfirmPassword(m.fields[FieldPassword], value)
	case FieldRole:
		return validate.Role(value)
	case FieldTerms:
		return validate.Terms(value == "true")
	case FieldOTP:
		return validate.OTP(value)
	case FieldConfirmation:
		return validate.DeleteConfirmation(value)
	default:
		return ""
	}
}
