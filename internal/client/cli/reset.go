package cli

import (
	"context"
	"errors"

	"github.com/gowear/gowear/internal/client/workflow"
)

// ResetPassword walks the forgot-password flow: email, code verification,
// then a new password.
func (a *App) ResetPassword(ctx context.Context) error {
	m := workflow.New()
	if err := m.Start(workflow.StageResetPassword); err != nil {
		return err
	}

	form, err := a.runStage(m)
	if err != nil {
		return a.flowAborted(m, err, "Password reset cancelled.")
	}
	email := form[workflow.FieldEmail]

	if err := a.client.RequestOTP(ctx, email); err != nil {
		printlnFn("Could not send code:", err.Error())
		m.Cancel()
		return err
	}
	printlnFn("A 4-digit code was sent to", email)

	verify, err := a.runStage(m)
	if err != nil {
		return a.flowAborted(m, err, "Password reset cancelled.")
	}

	if err := a.client.VerifyOTP(ctx, email, verify[workflow.FieldOTP]); err != nil {
		printlnFn("Verification failed:", err.Error())
		if err := a.retryVerifyOTP(ctx, email); err != nil {
			return a.flowAborted(m, err, "Password reset cancelled.")
		}
	}

	enter, err := a.runStage(m)
	if err != nil {
		return a.flowAborted(m, err, "Password reset cancelled.")
	}

	if err := a.client.ResetPassword(ctx, email, enter[workflow.FieldPassword]); err != nil {
		printlnFn("Password reset failed:", err.Error())
		return err
	}

	printlnFn("Password updated. You can log in with the new password.")
	return nil
}

// flowAborted cancels the machine and turns a user cancellation into a
// friendly message instead of an error.
func (a *App) flowAborted(m *workflow.Machine, err error, msg string) error {
	m.Cancel()
	if errors.Is(err, errCancelled) {
		printlnFn(msg)
		return nil
	}
	return err
}
