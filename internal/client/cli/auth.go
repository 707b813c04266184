package cli

import (
	"context"

	"github.com/jobcontrolroom/jobctl/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for name, email and password and creates an account.
// Registration never signs the user in; on success the user is told to log
// in explicitly.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res := a.session.Register(ctx, name, email, string(password))
	if !res.Success {
		a.printf("Registration failed: %s\n", res.Error)
		return nil
	}
	a.printf("%s\n", res.Message)
	return nil
}

// Login prompts for credentials and authenticates.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res := a.session.Login(ctx, email, string(password))
	if !res.Success {
		a.printf("Login failed: %s\n", res.Error)
		return nil
	}
	a.printf("Signed in as %s\n", res.User.Email)
	return nil
}

// Logout clears the session. It always succeeds.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	a.printf("Signed out.\n")
	return nil
}
