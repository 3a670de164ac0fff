package cli

import (
	"context"
	"fmt"
)

func (a *App) ListUsers(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Log in first.")
		return nil
	}

	users, err := a.client.ListUsers(ctx, a.session.AccessToken())
	if err != nil {
		printlnFn("Could not list users:", err.Error())
		return err
	}

	if len(users) == 0 {
		printlnFn("No users found.")
		return nil
	}

	for _, u := range users {
		printlnFn(fmt.Sprintf("  %s <%s> role=%s verified=%t approval=%s id=%s",
			u.Name, u.Email, u.Role, u.EmailVerified, u.AdminVerification, u.ID))
	}
	return nil
}

// Approve sets the admin verification status of an elevated account.
func (a *App) Approve(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Log in first.")
		return nil
	}

	userID, err := GetSimpleText(a.reader, "User id", a.out)
	if err != nil {
		return err
	}
	status, err := GetSimpleText(a.reader, "Status (approved/rejected)", a.out)
	if err != nil {
		return err
	}

	if err := a.client.SetApproval(ctx, a.session.AccessToken(), userID, status); err != nil {
		printlnFn("Could not update approval:", err.Error())
		return err
	}

	printlnFn("Approval updated.")
	return nil
}
