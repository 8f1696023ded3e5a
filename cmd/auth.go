package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	colorize "github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/devmatch/devmatch/internal/api"
	"github.com/devmatch/devmatch/internal/config"
	"github.com/devmatch/devmatch/internal/session"
)

var stdin = bufio.NewReader(os.Stdin)

// prompt asks for a value unless the flag already carries one
func prompt(cmd *cobra.Command, flag, question string) (string, error) {
	v, _ := cmd.Flags().GetString(flag)
	if v != "" {
		return v, nil
	}

	fmt.Print(question + ": ")
	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("no value for --%s", flag)
	}
	return strings.TrimSpace(line), nil
}

// promptSecret is prompt without echo when stdin is a terminal
func promptSecret(cmd *cobra.Command, flag, question string) (string, error) {
	v, _ := cmd.Flags().GetString(flag)
	if v != "" {
		return v, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(cmd, flag, question)
	}

	fmt.Print(question + ": ")
	secret, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(secret), nil
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to your DevMatch account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		email, err := prompt(cmd, "email", "Email")
		if err != nil {
			return err
		}
		password, err := promptSecret(cmd, "password", "Password")
		if err != nil {
			return err
		}

		client, _ := newClient(cfg, false)
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout())
		defer cancel()

		resp, err := client.Login(ctx, api.LoginRequest{Email: email, Password: password})
		if err != nil {
			return err
		}

		if err := sessionStore().Save(resp.AccessToken); err != nil {
			return fmt.Errorf("error saving session: %w", err)
		}
		log.WithField("email", email).Info("logged in")

		fmt.Println(colorize.GreenString("Logged in as %s.", email))
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a DevMatch account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		var req api.RegisterRequest
		if req.Name, err = prompt(cmd, "name", "Name"); err != nil {
			return err
		}
		if req.Email, err = prompt(cmd, "email", "Email"); err != nil {
			return err
		}
		if req.Password, err = promptSecret(cmd, "password", "Password (at least 8 characters)"); err != nil {
			return err
		}
		if req.PasswordConfirmation, err = promptSecret(cmd, "confirm", "Confirm password"); err != nil {
			return err
		}

		client, _ := newClient(cfg, false)
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout())
		defer cancel()

		resp, err := client.Register(ctx, req)
		if err != nil {
			return err
		}

		msg := resp.Message
		if msg == "" {
			msg = "Account created."
		}
		fmt.Println(colorize.GreenString("%s", msg))

		if resp.AccessToken == "" {
			fmt.Println("Log in with 'devmatch login' to continue.")
			return nil
		}
		if err := sessionStore().Save(resp.AccessToken); err != nil {
			return fmt.Errorf("error saving session: %w", err)
		}
		fmt.Println("You are logged in. Complete your profile with 'devmatch profile setup'.")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sessionStore().Clear(); err != nil {
			return fmt.Errorf("error removing session: %w", err)
		}
		fmt.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := sessionStore()
		token, err := store.Load()
		if errors.Is(err, session.ErrNoSession) {
			fmt.Println("Not logged in.")
			return nil
		}
		if err != nil {
			return err
		}

		info := session.Inspect(token)
		fmt.Println(colorize.CyanString("Session: ") + store.Path())
		if !info.IsJWT {
			fmt.Println(colorize.CyanString("Token:   ") + "opaque")
			return nil
		}

		if info.Subject != "" {
			fmt.Println(colorize.CyanString("User:    ") + info.Subject)
		}
		switch {
		case info.ExpiresAt.IsZero():
			fmt.Println(colorize.CyanString("Expires: ") + "never")
		case info.Expired(time.Now()):
			fmt.Println(colorize.CyanString("Expires: ") + colorize.RedString("expired %s", info.ExpiresAt.Local().Format(time.RFC1123)))
		default:
			fmt.Println(colorize.CyanString("Expires: ") + info.ExpiresAt.Local().Format(time.RFC1123))
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)

	loginCmd.Flags().String("email", "", "Account email")
	loginCmd.Flags().String("password", "", "Account password (prompted when omitted)")

	registerCmd.Flags().String("name", "", "Full name")
	registerCmd.Flags().String("email", "", "Account email")
	registerCmd.Flags().String("password", "", "Password (prompted when omitted)")
	registerCmd.Flags().String("confirm", "", "Password confirmation (prompted when omitted)")
}
