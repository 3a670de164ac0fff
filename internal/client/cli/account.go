package cli

import (
	"context"

	"github.com/gowear/gowear/internal/client/workflow"
	"github.com/gowear/gowear/internal/common"
)

func (a *App) ChangePassword(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Log in first.")
		return nil
	}

	current, err := GetPassword(a.out, "Enter current password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)

	next, err := GetPassword(a.out, "Enter new password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)

	confirm, err := GetPassword(a.out, "Confirm new password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if string(next) != string(confirm) {
		printlnFn("Passwords do not match.")
		return nil
	}

	if err := a.client.ChangePassword(ctx, a.session.AccessToken(), string(current), string(next)); err != nil {
		printlnFn("Password change failed:", err.Error())
		return err
	}

	printlnFn("Password changed.")
	return nil
}

// ChangeEmail walks the email update flow: confirm the current password,
// enter the new address, then verify it with a one-time code.
func (a *App) ChangeEmail(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Log in first.")
		return nil
	}

	m := workflow.New()
	if err := m.Start(workflow.StageVerifyPassEmailUpdate); err != nil {
		return err
	}

	pass, err := a.runStage(m)
	if err != nil {
		return a.flowAborted(m, err, "Email change cancelled.")
	}
	password := pass[workflow.FieldPassword]

	enter, err := a.runStage(m)
	if err != nil {
		return a.flowAborted(m, err, "Email change cancelled.")
	}
	newEmail := enter[workflow.FieldNewEmail]

	if err := a.client.ChangeEmail(ctx, a.session.AccessToken(), password, newEmail); err != nil {
		printlnFn("Email change failed:", err.Error())
		m.Cancel()
		return err
	}

	if err := a.client.RequestOTP(ctx, newEmail); err != nil {
		printlnFn("Could not send verification code:", err.Error())
		m.Cancel()
		return err
	}
	printlnFn("A 4-digit code was sent to", newEmail)

	verify, err := a.runStage(m)
	if err != nil {
		return a.flowAborted(m, err, "Email change cancelled. Verify the new address by logging in.")
	}

	if err := a.client.VerifyOTP(ctx, newEmail, verify[workflow.FieldOTP]); err != nil {
		printlnFn("Verification failed:", err.Error())
		if err := a.retryVerifyOTP(ctx, newEmail); err != nil {
			return a.flowAborted(m, err, "Verify the new address by logging in.")
		}
	}

	a.userEmail = newEmail
	printlnFn("Email updated to", newEmail)
	return nil
}

// DeleteAccount verifies the user's email with a one-time code and asks for
// an explicit confirmation before removing the account.
func (a *App) DeleteAccount(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Log in first.")
		return nil
	}

	m := workflow.New()
	if err := m.Start(workflow.StageVerifyOTPDeleteAccount); err != nil {
		return err
	}

	email := a.userEmail
	if err := a.client.RequestOTP(ctx, email); err != nil {
		printlnFn("Could not send code:", err.Error())
		m.Cancel()
		return err
	}
	printlnFn("A 4-digit code was sent to", email)

	verify, err := a.runStage(m)
	if err != nil {
		return a.flowAborted(m, err, "Account deletion cancelled.")
	}

	if err := a.client.VerifyOTP(ctx, email, verify[workflow.FieldOTP]); err != nil {
		printlnFn("Verification failed:", err.Error())
		if err := a.retryVerifyOTP(ctx, email); err != nil {
			return a.flowAborted(m, err, "Account deletion cancelled.")
		}
	}

	confirm, err := a.runStage(m)
	if err != nil {
		return a.flowAborted(m, err, "Account deletion cancelled.")
	}

	if err := a.client.DeleteAccount(ctx, a.session.AccessToken(), confirm[workflow.FieldConfirmation]); err != nil {
		printlnFn("Account deletion failed:", err.Error())
		return err
	}

	a.session.Clear()
	a.userEmail = ""
	a.userName = ""
	if err := a.store.Metadata.Clear(ctx); err != nil {
		printlnFn("Warning: could not clear local session:", err.Error())
	}

	printlnFn("Account deleted.")
	return nil
}
