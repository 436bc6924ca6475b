package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gravitational/trace"
	"github.com/manifoldco/promptui"

	"github.com/gravitational/account-registration/account"
)

// Prompter asks the user for a single value.
type Prompter interface {
	Prompt(label string, secret bool) (string, error)
}

// terminalPrompter prompts on the controlling terminal.
type terminalPrompter struct{}

func (terminalPrompter) Prompt(label string, secret bool) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return trace.BadParameter("%s must not be empty", strings.ToLower(label))
			}
			return nil
		},
	}
	if secret {
		prompt.Mask = '*'
	}

	result, err := prompt.Run()
	if err != nil {
		return "", trace.Wrap(err)
	}
	return result, nil
}

// consoleNotifier prints notifications as plain lines.
type consoleNotifier struct {
	out io.Writer
}

func (n consoleNotifier) Show(_ context.Context, notification account.Notification) {
	n.print(notification)
}

func (n consoleNotifier) Update(_ context.Context, notification account.Notification) {
	n.print(notification)
}

func (n consoleNotifier) print(notification account.Notification) {
	marker := "*"
	switch notification.Color {
	case account.ColorGreen:
		marker = "✔"
	case account.ColorRed:
		marker = "✘"
	}
	fmt.Fprintf(n.out, "%s %s: %s\n", marker, notification.Title, notification.Message)
}
