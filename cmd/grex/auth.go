package main

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/lysokunvoath/grex/internal/client"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if u := app.User(); u != nil {
			fmt.Println(infoStyle.Render("Already signed in as " + u.Email))
			return nil
		}
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		var fields []huh.Field
		if email == "" {
			fields = append(fields, huh.NewInput().Title("Email").Value(&email))
		}
		if password == "" {
			fields = append(fields, huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password))
		}
		if len(fields) > 0 {
			if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
				return err
			}
		}

		landing, ok := app.Page().(*client.LandingPage)
		if !ok {
			return errNotSignedIn
		}
		return report(landing.SignIn(cmd.Context(), email, password))
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if u := app.User(); u != nil {
			fmt.Println(infoStyle.Render("Already signed in as " + u.Email))
			return nil
		}
		var name, email, password, confirm string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Display name").Value(&name),
				huh.NewInput().Title("Email").Value(&email),
				huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
				huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&confirm),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}

		landing, ok := app.Page().(*client.LandingPage)
		if !ok {
			return errNotSignedIn
		}
		return report(landing.SignUp(cmd.Context(), name, email, password, confirm))
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the saved session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := app.SignOut(cmd.Context()); err != nil {
			// The local session is gone either way.
			fmt.Println(mutedStyle.Render("Server sign-out failed; local session cleared."))
			return nil
		}
		fmt.Println(successStyle.Render("Signed out."))
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Short:   "Show the signed-in user",
	PreRunE: requireUser,
	RunE: func(*cobra.Command, []string) error {
		u := app.User()
		fmt.Println(headerStyle.Render(u.DisplayName))
		fmt.Println("  " + u.Email)
		fmt.Println("  " + mutedStyle.Render("ID "+u.ID.String()))
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "Account email")
	loginCmd.Flags().String("password", "", "Account password (prompted when empty)")

	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, whoamiCmd)
}
