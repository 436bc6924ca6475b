/*
Copyright 2021 Gravitational, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/gravitational/trace"

	"github.com/gravitational/account-registration/account"
	"github.com/gravitational/account-registration/lib/credentials"
)

// SignupCmd is the signup command description
type SignupCmd struct {
	APIConfig
	StorageConfig

	// FirstName is the account first name
	FirstName string `help:"First name" env:"ACCTREG_FIRST_NAME"`

	// LastName is the account last name
	LastName string `help:"Last name" env:"ACCTREG_LAST_NAME"`

	// Email is the account email
	Email string `help:"Email address" env:"ACCTREG_EMAIL"`

	// Password is the account password. When given up front it is not confirmed.
	Password string `help:"Password, prompted for when empty" env:"ACCTREG_PASSWORD"`

	// NonInteractive fails on missing fields instead of prompting
	NonInteractive bool `help:"Never prompt, fail on missing fields"`

	// Prompter asks for missing fields
	Prompter Prompter `kong:"-"`

	// Out receives the command output
	Out io.Writer `kong:"-"`

	// Store replaces the configured storage backend when set
	Store credentials.Store `kong:"-"`
}

// Run registers the account
func (c *SignupCmd) Run() error {
	ctx, cancel := commandContext()
	defer cancel()
	return trace.Wrap(c.run(ctx))
}

func (c *SignupCmd) run(ctx context.Context) error {
	if c.Out == nil {
		c.Out = os.Stdout
	}
	if c.Prompter == nil {
		c.Prompter = terminalPrompter{}
	}

	form, err := c.form()
	if err != nil {
		return trace.Wrap(err)
	}

	session, err := c.openSession(ctx)
	if err != nil {
		return trace.Wrap(err)
	}
	client, err := c.NewClient(session)
	if err != nil {
		return trace.Wrap(err)
	}
	registrar, err := account.NewRegistrar(account.RegistrarConfig{
		API:      client,
		Session:  session,
		Notifier: consoleNotifier{out: c.Out},
	})
	if err != nil {
		return trace.Wrap(err)
	}

	outcome, err := registrar.Submit(ctx, form)
	if fieldErrs, ok := account.AsFieldErrors(err); ok {
		c.printFieldErrors(fieldErrs)
		return trace.BadParameter("the registration form is invalid")
	}
	if err != nil {
		return trace.Wrap(err)
	}

	if !outcome.Persisted {
		fmt.Fprintf(c.Out, "Account created, but the session could not be saved, sign in at %s\n", outcome.Next)
		return nil
	}
	fmt.Fprintf(c.Out, "Session saved, continue at %s\n", outcome.Next)
	return nil
}

func (c *SignupCmd) openSession(ctx context.Context) (*credentials.Session, error) {
	if c.Store == nil {
		session, err := c.OpenSession(ctx)
		return session, trace.Wrap(err)
	}
	session, err := credentials.NewSession(ctx, c.Store)
	return session, trace.Wrap(err)
}

// formField is a form input to prompt for
type formField struct {
	label  string
	secret bool
	value  *string
}

// form collects the form fields, prompting for the missing ones
func (c *SignupCmd) form() (account.RegistrationForm, error) {
	form := account.RegistrationForm{
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		Email:           c.Email,
		Password:        c.Password,
		ConfirmPassword: c.Password,
	}

	fields := []formField{
		{"Firstname", false, &form.FirstName},
		{"Lastname", false, &form.LastName},
		{"Email", false, &form.Email},
	}
	if form.Password == "" {
		fields = append(fields,
			formField{"Password", true, &form.Password},
			formField{"Confirm password", true, &form.ConfirmPassword},
		)
	}

	for _, field := range fields {
		if *field.value != "" {
			continue
		}
		if c.NonInteractive {
			// Leave it empty, validation reports it.
			continue
		}
		value, err := c.Prompter.Prompt(field.label, field.secret)
		if err != nil {
			return account.RegistrationForm{}, trace.Wrap(err)
		}
		*field.value = value
	}

	return form, nil
}

func (c *SignupCmd) printFieldErrors(fieldErrs account.FieldErrors) {
	fields := make([]string, 0, len(fieldErrs))
	for field := range fieldErrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		fmt.Fprintf(c.Out, "  %s: %s\n", field, fieldErrs[field])
	}
}
