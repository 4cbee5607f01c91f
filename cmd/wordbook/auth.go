package main

import (
	"errors"
	"os"

	"wordbook/internal/session"

	"github.com/spf13/cobra"
)

const passwordEnv = "WORDBOOK_PASSWORD"

var errNoPassword = errors.New("password required: pass --password or set " + passwordEnv)

// resolvePassword prefers the flag over the environment
func resolvePassword(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv(passwordEnv); env != "" {
		return env, nil
	}
	return "", errNoPassword
}

// openSession restores the CLI session from the configured file
func openSession() (*session.Session, error) {
	sess := session.New(session.NewFileStorage(cfg.SessionFile))
	if err := sess.Init(); err != nil {
		return nil, err
	}
	return sess, nil
}

var loginCmd = &cobra.Command{
	Use:   "login <username-or-email>",
	Short: "Log in to the auth service and remember the session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flag, _ := cmd.Flags().GetString("password")
		password, err := resolvePassword(flag)
		if err != nil {
			return err
		}
		if err := session.ValidateLogin(args[0], password); err != nil {
			return err
		}

		sess, err := openSession()
		if err != nil {
			return err
		}

		client := session.NewClient(cfg.AuthURL, logger)
		if _, err := client.Login(cmd.Context(), sess, args[0], password); err != nil {
			return err
		}

		if sess.Email() == "" {
			printWarning("Logged in, but the auth service did not report an email")
			return nil
		}
		printSuccess("Logged in as %s", sess.Email())
		return nil
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup <username> <email>",
	Short: "Create an account and remember the session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, email := args[0], args[1]

		flag, _ := cmd.Flags().GetString("password")
		password, err := resolvePassword(flag)
		if err != nil {
			return err
		}
		confirm, _ := cmd.Flags().GetString("confirm")
		if err := session.ValidateSignup(username, email, password, confirm); err != nil {
			return err
		}

		sess, err := openSession()
		if err != nil {
			return err
		}

		client := session.NewClient(cfg.AuthURL, logger)
		if _, err := client.Signup(cmd.Context(), sess, username, email, password); err != nil {
			return err
		}

		printSuccess("Signed up as %s", sess.Email())
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		if err := sess.Clear(); err != nil {
			return err
		}

		printSuccess("Logged out")
		return nil
	},
}

func init() {
	loginCmd.Flags().String("password", "", "account password (or set "+passwordEnv+")")
	signupCmd.Flags().String("password", "", "account password (or set "+passwordEnv+")")
	signupCmd.Flags().String("confirm", "", "repeat the password to catch typos")
}
