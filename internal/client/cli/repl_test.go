package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubExec records which commands the REPL dispatched.
type stubExec struct {
	loggedIn bool
	calls    []string
}

func (s *stubExec) isLoggedIn() bool { return s.loggedIn }

func (s *stubExec) note(name string) error {
	s.calls = append(s.calls, name)
	return nil
}

func (s *stubExec) SignUp(ctx context.Context) error         { return s.note("signup") }
func (s *stubExec) Login(ctx context.Context) error          { return s.note("login") }
func (s *stubExec) Logout(ctx context.Context) error         { return s.note("logout") }
func (s *stubExec) WhoAmI(ctx context.Context) error         { return s.note("whoami") }
func (s *stubExec) ResetPassword(ctx context.Context) error  { return s.note("resetpass") }
func (s *stubExec) ChangePassword(ctx context.Context) error { return s.note("changepass") }
func (s *stubExec) ChangeEmail(ctx context.Context) error    { return s.note("changeemail") }
func (s *stubExec) DeleteAccount(ctx context.Context) error  { return s.note("delete") }
func (s *stubExec) ListProducts(ctx context.Context) error   { return s.note("products") }
func (s *stubExec) AddProduct(ctx context.Context) error     { return s.note("addproduct") }
func (s *stubExec) ListUsers(ctx context.Context) error      { return s.note("users") }
func (s *stubExec) Approve(ctx context.Context) error        { return s.note("approve") }

func runScript(t *testing.T, exec *stubExec, script string) string {
	t.Helper()
	out := captureOutput(t)
	scanner := bufio.NewScanner(strings.NewReader(script))
	runREPL(context.Background(), exec, func() string { return "test" }, scanner)
	return out.String()
}

func TestREPL_DispatchesCommands(t *testing.T) {
	exec := &stubExec{}
	runScript(t, exec, "signup\nlogin\nproducts\nexit\n")
	assert.Equal(t, []string{"signup", "login", "products"}, exec.calls)
}

func TestREPL_LoggedInCommands(t *testing.T) {
	exec := &stubExec{loggedIn: true}
	runScript(t, exec, "whoami\nchangepass\nchangeemail\ndelete\naddproduct\nusers\napprove\nlogout\nquit\n")
	assert.Equal(t, []string{"whoami", "changepass", "changeemail", "delete", "addproduct", "users", "approve", "logout"}, exec.calls)
}

func TestREPL_Help(t *testing.T) {
	out := runScript(t, &stubExec{}, "help\nexit\n")
	assert.Contains(t, out, "signup, login, resetpass")

	out = runScript(t, &stubExec{loggedIn: true}, "help\nexit\n")
	assert.Contains(t, out, "whoami")
	assert.Contains(t, out, "addproduct")
}

func TestREPL_UnknownCommand(t *testing.T) {
	exec := &stubExec{}
	out := runScript(t, exec, "abracadabra\nexit\n")
	assert.Contains(t, out, "Unknown command: abracadabra")
	assert.Empty(t, exec.calls)
}

func TestREPL_ExitsOnEOF(t *testing.T) {
	exec := &stubExec{}
	runScript(t, exec, "products\n")
	assert.Equal(t, []string{"products"}, exec.calls)
}

func TestREPL_SkipsBlankLines(t *testing.T) {
	exec := &stubExec{}
	runScript(t, exec, "\n\nlogin\nexit\n")
	assert.Equal(t, []string{"login"}, exec.calls)
}
