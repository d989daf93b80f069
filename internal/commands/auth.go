package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long:  "Log in, register, and manage your Project Control account",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the service",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}

		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			fmt.Print("Email: ")
			scanner := bufio.NewScanner(os.Stdin)
			if scanner.Scan() {
				email = strings.TrimSpace(scanner.Text())
			}
		}
		if email == "" {
			fmt.Println("Error: email is required")
			return nil
		}

		password, err := readPassword("Password: ")
		if err != nil {
			fmt.Println("Error reading password:", err)
			return nil
		}

		session, err := client.SignIn(context.Background(), email, password)
		if err != nil {
			fmt.Println("Login failed:", err)
			return nil
		}

		fmt.Printf("Logged in as %s\n", session.Email)
		return nil
	},
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Long:  "Create a new account. A valid invite code activates the account immediately; otherwise it waits for admin approval.",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}

		scanner := bufio.NewScanner(os.Stdin)

		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			fmt.Print("Name: ")
			if scanner.Scan() {
				name = strings.TrimSpace(scanner.Text())
			}
		}

		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			fmt.Print("Email: ")
			if scanner.Scan() {
				email = strings.TrimSpace(scanner.Text())
			}
		}
		if email == "" {
			fmt.Println("Error: email is required")
			return nil
		}

		password, err := readPassword("Password: ")
		if err != nil {
			fmt.Println("Error reading password:", err)
			return nil
		}

		inviteCode, _ := cmd.Flags().GetString("invite-code")
		if inviteCode == "" {
			fmt.Print("Invite code (optional): ")
			if scanner.Scan() {
				inviteCode = strings.TrimSpace(scanner.Text())
			}
		}

		_, approved, err := client.SignUp(context.Background(), email, password, name, inviteCode)
		if err != nil {
			fmt.Println("Registration failed:", err)
			return nil
		}

		if approved {
			fmt.Println("Account created and activated. You are logged in.")
		} else {
			fmt.Println("Account created. It will become usable after admin approval.")
		}
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the local session",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}

		if err := client.SignOut(context.Background()); err != nil {
			fmt.Println("Error logging out:", err)
			return nil
		}

		fmt.Println("Logged out.")
		return nil
	},
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}

		session := client.Session()
		if session == nil || session.AccessToken == "" {
			fmt.Println("Not logged in.")
			return nil
		}

		fmt.Printf("Logged in as %s (%s)\n", session.Email, session.UserID)
		if !session.ExpiresAt.IsZero() {
			fmt.Printf("Session expires at %s\n", session.ExpiresAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var authInviteCmd = &cobra.Command{
	Use:   "invite",
	Short: "Show or regenerate your invite code (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}
		session := client.Session()
		if session == nil || session.AccessToken == "" {
			fmt.Println("You are not logged in.")
			return nil
		}

		regenerate, _ := cmd.Flags().GetBool("new")
		ctx := context.Background()

		if regenerate {
			code, err := client.GenerateInviteCode(ctx, session.UserID)
			if err != nil {
				fmt.Println("Error generating invite code:", err)
				return nil
			}
			fmt.Println("New invite code:", code)
			return nil
		}

		code, err := client.ActiveInviteCode(ctx, session.UserID)
		if err != nil {
			fmt.Println("Error fetching invite code:", err)
			return nil
		}
		if code == "" {
			fmt.Println("No active invite code. Use --new to generate one.")
			return nil
		}
		fmt.Println("Invite code:", code)
		return nil
	},
}

var authUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List pending and approved users (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}

		ctx := context.Background()
		pending, err := client.PendingProfiles(ctx)
		if err != nil {
			fmt.Println("Error listing users:", err)
			return nil
		}
		approved, err := client.ApprovedProfiles(ctx)
		if err != nil {
			fmt.Println("Error listing users:", err)
			return nil
		}

		if len(pending) > 0 {
			fmt.Println("Pending approval:")
			for _, p := range pending {
				fmt.Printf("  %s  %s\n", p.ID, p.Email)
			}
		}
		if len(approved) > 0 {
			fmt.Println("Approved:")
			for _, p := range approved {
				fmt.Printf("  %s  %s\n", p.ID, p.Email)
			}
		}
		if len(pending) == 0 && len(approved) == 0 {
			fmt.Println("No users found.")
		}
		return nil
	},
}

var authApproveCmd = &cobra.Command{
	Use:   "approve <user-id>",
	Short: "Approve a pending user (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}

		if err := client.ApproveProfile(context.Background(), args[0]); err != nil {
			fmt.Println("Error approving user:", err)
			return nil
		}

		fmt.Println("User approved.")
		return nil
	},
}

var authRejectCmd = &cobra.Command{
	Use:   "reject <user-id>",
	Short: "Reject a pending user (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}

		if err := client.RejectProfile(context.Background(), args[0]); err != nil {
			fmt.Println("Error rejecting user:", err)
			return nil
		}

		fmt.Println("User rejected.")
		return nil
	},
}

// readPassword prompts for a password without echoing it
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	data, err := term.ReadPassword(uintptr(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func init() {
	authLoginCmd.Flags().String("email", "", "Account email")
	authRegisterCmd.Flags().String("email", "", "Account email")
	authRegisterCmd.Flags().String("name", "", "Display name")
	authRegisterCmd.Flags().String("invite-code", "", "Invite code")
	authInviteCmd.Flags().Bool("new", false, "Generate a new invite code")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authWhoamiCmd)
	authCmd.AddCommand(authInviteCmd)
	authCmd.AddCommand(authUsersCmd)
	authCmd.AddCommand(authApproveCmd)
	authCmd.AddCommand(authRejectCmd)
}
