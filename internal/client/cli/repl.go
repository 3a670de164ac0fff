package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	SignUp(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	ChangeEmail(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	ListProducts(ctx context.Context) error
	AddProduct(ctx context.Context) error
	ListUsers(ctx context.Context) error
	Approve(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the Gowear CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current session status (from statusFn) and accepts:
//
//	Not logged in:
//	  - help           — show available commands
//	  - signup         — create an account (with email OTP confirmation)
//	  - login          — authenticate
//	  - resetpass      — recover a forgotten password
//	  - products       — browse the catalog
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - whoami         — show the current profile
//	  - changepass     — change the password
//	  - changeemail    — move the account to a new address
//	  - delete         — delete the account (OTP + typed confirmation)
//	  - products       — browse the catalog
//	  - addproduct     — add a catalog item (product managers and admins)
//	  - users          — list accounts (admins)
//	  - approve        — approve or reject an elevated account (admins)
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("gowear> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, changepass, changeemail, delete, products, addproduct, users, approve, logout, exit")
			} else {
				printlnFn("Available commands: signup, login, resetpass, products, exit")
			}

		case "signup":
			_ = a.SignUp(ctx)

		case "login":
			_ = a.Login(ctx)

		case "resetpass":
			_ = a.ResetPassword(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "changepass":
			_ = a.ChangePassword(ctx)

		case "changeemail":
			_ = a.ChangeEmail(ctx)

		case "delete":
			_ = a.DeleteAccount(ctx)

		case "products":
			_ = a.ListProducts(ctx)

		case "addproduct":
			_ = a.AddProduct(ctx)

		case "users":
			_ = a.ListUsers(ctx)

		case "approve":
			_ = a.Approve(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
