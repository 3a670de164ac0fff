package cli

import (
	"context"
	"errors"

	"github.com/gowear/gowear/internal/client/api"
	"github.com/gowear/gowear/internal/client/workflow"
)

// SignUp walks the registration flow: account form, then email verification
// with a one-time code.
func (a *App) SignUp(ctx context.Context) error {
	m := workflow.New()
	if err := m.Start(workflow.StageSignUpForm); err != nil {
		return err
	}

	form, err := a.runStage(m)
	if err != nil {
		if errors.Is(err, errCancelled) {
			printlnFn("Sign-up cancelled.")
			return nil
		}
		return err
	}

	input := api.RegisterInput{
		Name:            form[workflow.FieldName],
		Email:           form[workflow.FieldEmail],
		Password:        form[workflow.FieldPassword],
		ConfirmPassword: form[workflow.FieldConfirmPassword],
		Role:            form[workflow.FieldRole],
		TermsAccepted:   form[workflow.FieldTerms] == "true",
	}

	if err := a.client.Register(ctx, input); err != nil {
		printlnFn("Registration failed:", err.Error())
		m.Cancel()
		return err
	}

	email := input.Email
	printlnFn("Account created for", email)

	if err := a.client.RequestOTP(ctx, email); err != nil {
		printlnFn("Could not send verification code:", err.Error())
		m.Cancel()
		return err
	}
	printlnFn("A 4-digit code was sent to", email)

	verify, err := a.runStage(m)
	if err != nil {
		if errors.Is(err, errCancelled) {
			printlnFn("Verification skipped. You can verify later by logging in.")
			return nil
		}
		return err
	}

	if err := a.client.VerifyOTP(ctx, email, verify[workflow.FieldOTP]); err != nil {
		printlnFn("Verification failed:", err.Error())
		if err := a.retryVerifyOTP(ctx, email); err != nil {
			if errors.Is(err, errCancelled) {
				printlnFn("Verification skipped. You can verify later by logging in.")
				return nil
			}
			return err
		}
	}

	printlnFn("Email verified! You can log in now.")
	return nil
}

// retryVerifyOTP re-prompts for a code until the server accepts it or the
// user cancels.
func (a *App) retryVerifyOTP(ctx context.Context, email string) error {
	for {
		code, err := GetSimpleText(a.reader, "Enter the code (or /cancel)", a.out)
		if err != nil {
			return err
		}
		if code == "/cancel" {
			return errCancelled
		}
		if err := a.client.VerifyOTP(ctx, email, code); err != nil {
			printlnFn("Verification failed:", err.Error())
			continue
		}
		return nil
	}
}
