package main

import (
	"fmt"
	"os"

	"go-jewel-backoffice/internal/config"
	"go-jewel-backoffice/internal/database"
	"go-jewel-backoffice/internal/models"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "jewelctl",
	Short:         "Maintenance commands for the jewellery back office",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		database.Connect(cfg.DB)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedUserCmd)
	rootCmd.AddCommand(migrateNotesCmd)

	seedUserCmd.Flags().StringP("username", "u", "", "Login name")
	seedUserCmd.Flags().StringP("password", "p", "", "Password, stored as a bcrypt hash")
	seedUserCmd.Flags().String("role", "staff", "admin or staff")
	seedUserCmd.Flags().String("staff-code", "", "Counter code printed on bills")
	seedUserCmd.Flags().Bool("can-edit-bills", false, "May edit saved bills")
	seedUserCmd.Flags().Bool("can-edit-stock", false, "May add items and change stock")
	seedUserCmd.Flags().Bool("can-authorize-nongst", false, "May save bills without GST")
	seedUserCmd.MarkFlagRequired("username")
	seedUserCmd.MarkFlagRequired("password")
}

// ─── migrate ────────────────────────────────────────────────────────────────

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Connect has already synced the schema
		fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
		return nil
	},
}

// ─── seed-user ──────────────────────────────────────────────────────────────

var seedUserCmd = &cobra.Command{
	Use:   "seed-user",
	Short: "Create a login, or reset an existing one",
	Long: `Create a back office login with a bcrypt-hashed password. Running it
again for the same username resets the password, role and permission flags.`,
	RunE: runSeedUser,
}

func runSeedUser(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	username, _ := flags.GetString("username")
	password, _ := flags.GetString("password")
	role, _ := flags.GetString("role")
	staffCode, _ := flags.GetString("staff-code")
	editBills, _ := flags.GetBool("can-edit-bills")
	editStock, _ := flags.GetBool("can-edit-stock")
	nonGST, _ := flags.GetBool("can-authorize-nongst")

	u, err := database.SeedUser(models.User{
		Username:           username,
		Role:               role,
		StaffCode:          staffCode,
		CanEditBills:       editBills,
		CanEditStock:       editStock,
		CanAuthorizeNonGST: nonGST,
	}, password)
	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "User %s (id %d, role %s) saved.\n", u.Username, u.ID, u.Role)
	return nil
}

// ─── migrate-notes ──────────────────────────────────────────────────────────

var migrateNotesCmd = &cobra.Command{
	Use:   "migrate-notes",
	Short: "Copy Description/HSN Code from exchange notes into their own columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := database.MigrateExchangeNotes()
		if err != nil {
			return fmt.Errorf("migrate notes: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %d exchange rows.\n", n)
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
