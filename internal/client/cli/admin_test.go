package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gowear/gowear/internal/client/api"
)

func TestListUsers(t *testing.T) {
	client := &fakeClient{
		users: []*api.User{
			{ID: "u-1", Name: "Alice", Email: "alice@example.com", Role: "admin", EmailVerified: true, AdminVerification: "approved"},
			{ID: "u-2", Name: "Bob", Email: "bob@example.com", Role: "product_manager", AdminVerification: "pending"},
		},
	}
	app := newTestApp(t, client, "")
	out := captureOutput(t)
	app.session.Set("access", "refresh")

	err := app.ListUsers(context.Background())
	require.NoError(t, err)

	assert.Contains(t, client.called(), "listUsers")
	assert.Contains(t, out.String(), "Alice <alice@example.com>")
	assert.Contains(t, out.String(), "approval=pending")
}

func TestListUsers_RequiresLogin(t *testing.T) {
	client := &fakeClient{}
	app := newTestApp(t, client, "")
	out := captureOutput(t)

	require.NoError(t, app.ListUsers(context.Background()))
	assert.Empty(t, client.called())
	assert.Contains(t, out.String(), "Log in first.")
}

func TestApprove(t *testing.T) {
	client := &fakeClient{}
	app := newTestApp(t, client, "u-2\napproved\n")
	out := captureOutput(t)
	app.session.Set("access", "refresh")

	err := app.Approve(context.Background())
	require.NoError(t, err)

	assert.Contains(t, client.called(), "setApproval:u-2:approved")
	assert.Contains(t, out.String(), "Approval updated.")
}

func TestApprove_ServerError(t *testing.T) {
	client := &fakeClient{approvalErr: assert.AnError}
	app := newTestApp(t, client, "u-2\nbogus\n")
	out := captureOutput(t)
	app.session.Set("access", "refresh")

	err := app.Approve(context.Background())
	assert.Error(t, err)
	assert.Contains(t, out.String(), "Could not update approval")
}
