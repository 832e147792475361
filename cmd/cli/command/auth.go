package command

import (
	"fmt"

	"moviehub/cmd/cli/authentication"
	"moviehub/cmd/cli/dto"

	"github.com/spf13/cobra"
)

// authCmd groups account commands
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Register, log in to and log out of the MovieHub API.`,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new MovieHub account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.RegisterRequest
		req.Name, _ = cmd.Flags().GetString("name")
		req.Email, _ = cmd.Flags().GetString("email")
		req.Password, _ = cmd.Flags().GetString("password")

		user, err := newClient().Register(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}

		success("Registered %s <%s>. Please login to continue.", user.Name, user.Email)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to your MovieHub account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.LoginRequest
		req.Email, _ = cmd.Flags().GetString("email")
		req.Password, _ = cmd.Flags().GetString("password")

		resp, err := newClient().Login(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		if err := authentication.StoreCredentials(&authentication.StoredCredentials{
			Token:  resp.Token,
			UserID: resp.User.ID,
			Name:   resp.User.Name,
			Email:  resp.User.Email,
		}); err != nil {
			return fmt.Errorf("save token: %w", err)
		}

		success("Logged in as %s", resp.User.Name)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := authentication.DeleteCredentials(); err != nil {
			return err
		}
		success("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := authentication.GetCredentials()
		if err != nil {
			return err
		}
		if creds == nil {
			fmt.Println("Not logged in.")
			return nil
		}
		fmt.Printf("%s <%s> (%s)\n", creds.Name, creds.Email, creds.UserID)
		return nil
	},
}

func init() {
	authCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd)
	rootCmd.AddCommand(authCmd)

	registerCmd.Flags().StringP("name", "n", "", "Display name")
	registerCmd.Flags().StringP("email", "e", "", "Email address")
	registerCmd.Flags().StringP("password", "p", "", "Password (at least 8 characters)")
	registerCmd.MarkFlagRequired("name")
	registerCmd.MarkFlagRequired("email")
	registerCmd.MarkFlagRequired("password")

	loginCmd.Flags().StringP("email", "e", "", "Email address")
	loginCmd.Flags().StringP("password", "p", "", "Password")
	loginCmd.MarkFlagRequired("email")
	loginCmd.MarkFlagRequired("password")
}
