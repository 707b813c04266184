package cli

import (
	"context"
	"strings"
)

// status renders the prompt suffix: the signed-in email plus session state.
func (a *App) status() string {
	parts := []string{}
	if u := a.session.User(); u != nil && u.Email != "" {
		parts = append(parts, u.Email)
	}
	parts = append(parts, string(a.session.State()))
	return "(" + strings.Join(parts, " ") + ")"
}

// Root runs the command loop until EOF or exit.
func (a *App) Root(ctx context.Context) {
	a.printf("Welcome to jobctl (type 'help' for commands)\n")

	for {
		a.printf("jobctl %s> ", a.status())
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.session.IsAuthenticated() {
				a.printf("Available commands: (l)ist, show <id>, add, update <id>, delete <id>, profile, image, passwd, check, logout, exit\n")
			} else {
				a.printf("Available commands: register, login, resetpw, check, exit\n")
			}

		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "check":
			a.printf("Session state: %s\n", a.session.CheckSession(ctx))
		case "l", "list":
			_ = a.List(ctx)
		case "show":
			_ = a.Show(ctx, args)
		case "add":
			_ = a.Add(ctx)
		case "update":
			_ = a.Update(ctx, args)
		case "delete":
			_ = a.Delete(ctx, args)
		case "profile":
			_ = a.Profile(ctx)
		case "image":
			_ = a.UpdateImage(ctx)
		case "passwd":
			_ = a.ChangePassword(ctx)
		case "resetpw":
			_ = a.ResetPassword(ctx)
		case "exit", "quit":
			a.printf("Bye!\n")
			return
		default:
			a.printf("Unknown command: %s\n", cmd)
		}
	}
}
