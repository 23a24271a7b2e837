package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var loginEmail string

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage sign-in",
	Long:  `Sign in with an email address to save favorite songs.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with your email address",
	Long: `Sign in so songs can be saved as favorites. The session is signed
locally and stored in the lilt data directory.

Example:
  lilt auth login --email you@example.com`,
	Args: cobra.NoArgs,
	RunE: runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	Long:  `Removes the stored session from the local machine.`,
	Args:  cobra.NoArgs,
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sign-in status",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

func init() {
	authLoginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "email address to sign in with")
	_ = authLoginCmd.MarkFlagRequired("email")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	mgr, err := newSessionManager()
	if err != nil {
		return err
	}

	s, err := mgr.Login(loginEmail)
	if err != nil {
		return fmt.Errorf("failed to sign in: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]interface{}{
			"status":     "signed_in",
			"user_id":    s.UserID,
			"email":      s.Email,
			"expires_at": s.ExpiresAt,
		})
	}

	printf("Signed in as %s\n", s.Email)
	if Verbose() {
		printf("User ID: %s\n", s.UserID)
		printf("Token: %s\n", s.Token)
	}
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	mgr, err := newSessionManager()
	if err != nil {
		return err
	}

	if !mgr.Storage().Exists() {
		if JSONOutput() {
			return printJSON(map[string]string{"status": "not_signed_in"})
		}
		printf("Not signed in.\n")
		return nil
	}

	if err := mgr.Logout(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "signed_out"})
	}
	printf("Signed out.\n")
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	mgr, err := newSessionManager()
	if err != nil {
		return err
	}

	s, err := mgr.Current()
	if err != nil {
		if JSONOutput() {
			return printJSON(map[string]interface{}{
				"signed_in": false,
				"error":     err.Error(),
			})
		}
		printf("Session invalid: %v\n", err)
		printf("Run 'lilt auth login --email you@example.com' to sign in again.\n")
		return nil
	}

	if s == nil {
		if JSONOutput() {
			return printJSON(map[string]interface{}{"signed_in": false})
		}
		printf("Not signed in.\n")
		printf("Run 'lilt auth login --email you@example.com' to sign in.\n")
		return nil
	}

	if JSONOutput() {
		return printJSON(map[string]interface{}{
			"signed_in":  true,
			"user_id":    s.UserID,
			"email":      s.Email,
			"issued_at":  s.IssuedAt,
			"expires_at": s.ExpiresAt,
		})
	}

	printf("Signed in as: %s\n", s.Email)
	printf("Signed in:    %s\n", humanSince(s.IssuedAt))
	if !s.ExpiresAt.IsZero() {
		printf("Expires:      %s\n", s.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}
