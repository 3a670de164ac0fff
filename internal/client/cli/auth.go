package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gowear/gowear/internal/client/api"
	"github.com/gowear/gowear/internal/client/repositories/metadata"
	"github.com/gowear/gowear/internal/common"
)

// errCancelled reports that the user backed out of a flow with "/cancel".
var errCancelled = errors.New("cancelled")

// Login authenticates interactively. An unverified email triggers a fresh
// OTP request so the user can complete verification and retry right away.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	keep, err := GetSimpleText(a.reader, "Keep me logged in? (yes/no)", a.out)
	if err != nil {
		return err
	}
	keepLoggedIn := strings.EqualFold(keep, "yes") || strings.EqualFold(keep, "y")

	user, sess, err := a.client.Login(ctx, email, string(password), keepLoggedIn)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Message == common.ErrEmailNotVerified.Error() {
			printlnFn("Email not verified, sending a new code...")
			if err := a.verifyEmailInteractive(ctx, email); err != nil {
				if errors.Is(err, errCancelled) {
					printlnFn("Verification cancelled.")
					return nil
				}
				return err
			}
			printlnFn("Email verified! Run login again.")
			return nil
		}
		printlnFn("Login failed:", err.Error())
		return err
	}

	a.session.Set(sess.AccessToken, sess.RefreshToken)
	a.userEmail = user.Email
	a.userName = user.Name

	if keepLoggedIn {
		if err := a.persistSession(ctx, user, sess); err != nil {
			printlnFn("Warning: could not persist session:", err.Error())
		}
	}

	printlnFn(fmt.Sprintf("Welcome, %s!", user.Name))
	return nil
}

// verifyEmailInteractive requests an OTP for email and prompts until the
// code verifies or the user cancels.
func (a *App) verifyEmailInteractive(ctx context.Context, email string) error {
	if err := a.client.RequestOTP(ctx, email); err != nil {
		printlnFn("Could not send code:", err.Error())
		return err
	}
	printlnFn("A 4-digit code was sent to", email)
	return a.retryVerifyOTP(ctx, email)
}

// persistSession stores the refresh token locally so the next start can log
// in silently.
func (a *App) persistSession(ctx context.Context, user *api.User, sess *api.Session) error {
	if err := a.store.Metadata.Set(ctx, metadata.KeyRefreshToken, []byte(sess.RefreshToken)); err != nil {
		return err
	}
	if err := a.store.Metadata.Set(ctx, metadata.KeyUserEmail, []byte(user.Email)); err != nil {
		return err
	}
	return a.store.Metadata.Set(ctx, metadata.KeyUserName, []byte(user.Name))
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		printlnFn("Logout request failed:", err.Error())
	}

	a.session.Clear()
	a.userEmail = ""
	a.userName = ""

	if err := a.store.Metadata.Clear(ctx); err != nil {
		printlnFn("Warning: could not clear local session:", err.Error())
	}

	printlnFn("Logged out.")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Not logged in.")
		return nil
	}

	user, err := a.client.Me(ctx, a.session.AccessToken())
	if err != nil {
		printlnFn("Could not fetch profile:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("%s <%s> role=%s verified=%t approval=%s",
		user.Name, user.Email, user.Role, user.EmailVerified, user.AdminVerification))
	return nil
}
