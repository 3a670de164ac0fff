package cli

import (
	"fmt"
	"strings"

	"github.com/gowear/gowear/internal/client/workflow"
)

// fieldPrompts maps workflow fields to the text shown when collecting them.
var fieldPrompts = map[workflow.Field]string{
	workflow.FieldName:            "Enter name",
	workflow.FieldEmail:           "Enter email",
	workflow.FieldPassword:        "Enter password",
	workflow.FieldConfirmPassword: "Confirm password",
	workflow.FieldRole:            "Role (user/product_manager/admin)",
	workflow.FieldTerms:           "Accept terms and policies? (yes/no)",
	workflow.FieldOTP:             "Enter the 4-digit code",
	workflow.FieldNewEmail:        "Enter new email",
	workflow.FieldConfirmation:    "Type CONFIRM to proceed",
}

// secretFields are collected without echoing input back to the terminal.
var secretFields = map[workflow.Field]bool{
	workflow.FieldPassword:        true,
	workflow.FieldConfirmPassword: true,
}

// runStage collects the current stage's fields, submits them and returns the
// values the user entered. Invalid input is reported and re-prompted. Typing
// "/cancel" at any prompt aborts the whole flow. After a terminal stage the
// machine resets, so callers read values from the returned map.
func (a *App) runStage(m *workflow.Machine) (map[workflow.Field]string, error) {
	for {
		values := make(map[workflow.Field]string, len(m.StageFields()))
		for _, f := range m.StageFields() {
			value, err := a.promptField(f)
			if err != nil {
				return nil, err
			}
			if value == "/cancel" {
				m.Cancel()
				return nil, errCancelled
			}
			m.SetField(f, value)
			values[f] = value
		}

		_, ok, err := m.Submit()
		if err != nil {
			return nil, err
		}
		if ok {
			return values, nil
		}

		for field, msg := range m.VisibleErrors() {
			printlnFn(fmt.Sprintf("  %s: %s", field, msg))
		}
	}
}

func (a *App) promptField(f workflow.Field) (string, error) {
	prompt, ok := fieldPrompts[f]
	if !ok {
		prompt = string(f)
	}

	if secretFields[f] {
		b, err := GetPassword(a.out, prompt)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	value, err := GetSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}

	if f == workflow.FieldTerms {
		if strings.EqualFold(value, "yes") || strings.EqualFold(value, "y") {
			return "true", nil
		}
		if value == "/cancel" {
			return value, nil
		}
		return "false", nil
	}

	return value, nil
}
