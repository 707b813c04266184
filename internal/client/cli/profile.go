package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/jobcontrolroom/jobctl/internal/common"
)

// Profile fetches and prints the live profile, refreshing the snapshot.
func (a *App) Profile(ctx context.Context) error {
	user, err := a.session.Profile(ctx)
	if err != nil {
		a.printf("Error: %s\n", err.Error())
		return nil
	}
	a.printf("ID:    %d\n", user.ID)
	a.printf("Name:  %s\n", user.Name)
	a.printf("Email: %s\n", user.Email)
	if user.ProfileImage != "" {
		a.printf("Image: %s\n", user.ProfileImage)
	}
	return nil
}

// ChangePassword prompts for the current and new password.
func (a *App) ChangePassword(ctx context.Context) error {
	current, err := getPassword(a.out, "Current password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)

	updated, err := getPassword(a.out, "New password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(updated)

	if err := a.session.ChangePassword(ctx, string(current), string(updated)); err != nil {
		a.printf("Error: %s\n", err.Error())
		return nil
	}
	a.printf("Password changed.\n")
	return nil
}

// UpdateImage uploads a local image file as the new profile picture.
func (a *App) UpdateImage(ctx context.Context) error {
	path, err := getSimpleText(a.reader, "Path to image file", a.out)
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		a.printf("Could not open %s: %s\n", path, err.Error())
		return nil
	}
	defer file.Close()

	user, err := a.session.UpdateProfileImage(ctx, filepath.Base(path), file)
	if err != nil {
		a.printf("Error: %s\n", err.Error())
		return nil
	}
	a.printf("Profile image updated for %s.\n", user.Email)
	return nil
}

// ResetPassword requests a password-reset mail. When the user already holds
// the uid and token from such a mail, it completes the reset instead.
func (a *App) ResetPassword(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "Do you already have a reset code? (y/N)", a.out)
	if err != nil {
		return err
	}
	if answer == "y" || answer == "Y" {
		return a.confirmReset(ctx)
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	if err := a.session.RequestPasswordReset(ctx, email); err != nil {
		a.printf("Error: %s\n", err.Error())
		return nil
	}
	a.printf("If the address exists, a reset mail is on its way.\n")
	return nil
}

func (a *App) confirmReset(ctx context.Context) error {
	uid, err := getSimpleText(a.reader, "Enter uid from the reset mail", a.out)
	if err != nil {
		return err
	}
	token, err := getSimpleText(a.reader, "Enter token from the reset mail", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "New password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.ConfirmPasswordReset(ctx, uid, token, string(password)); err != nil {
		a.printf("Error: %s\n", err.Error())
		return nil
	}
	a.printf("Password reset, you can sign in now.\n")
	return nil
}
