package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/janakural/configs"
	"github.com/janakural/internal/models"
	"github.com/janakural/internal/repositories"
	"github.com/janakural/internal/services"
	"github.com/janakural/pkg/db"
)

var rootCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	Long: `Create an administrator directly in the database, bypassing the HTTP API.

Use this to bootstrap the first super_admin, who can then manage other
accounts from the admin dashboard. The administrator id is derived from the
phone number.

Examples:
  create-admin --phone +919876543210 --name "Anbu" --role super_admin --password 's3cret-pass'
  create-admin --phone +919876543211 --role panchayat_leader --district chennai --panchayat-union tambaram`,
	RunE:          runCreateAdmin,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.Flags()
	flags.String("phone", "", "Phone number in international format (required)")
	flags.String("name", "", "Display name")
	flags.String("role", string(models.RoleSuperAdmin), "Role: booth_agent, panchayat_leader, constituency_head, district_leader, state_admin, super_admin")
	flags.String("district", "", "District id (panchayat_leader, district_leader)")
	flags.String("panchayat-union", "", "Panchayat union id (panchayat_leader)")
	flags.String("password", "", "Dashboard login password, at least 8 characters")
	flags.String("db", "", "SQLite database path (defaults to the configured path)")
	_ = rootCmd.MarkFlagRequired("phone")
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	phone, _ := cmd.Flags().GetString("phone")
	name, _ := cmd.Flags().GetString("name")
	role, _ := cmd.Flags().GetString("role")
	district, _ := cmd.Flags().GetString("district")
	union, _ := cmd.Flags().GetString("panchayat-union")
	password, _ := cmd.Flags().GetString("password")
	dbPath, _ := cmd.Flags().GetString("db")

	cfg, err := configs.Load()
	if err != nil {
		return err
	}
	if dbPath == "" {
		dbPath = cfg.DBPath
	}

	conn, err := db.Open(dbPath, zap.NewNop())
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(conn) }()

	svc := services.NewAdminService(repositories.NewGormAdministratorRepository(conn))
	admin, err := svc.CreateAdministrator(context.Background(), models.CreateAdministratorPayload{
		Phone:         phone,
		Name:          name,
		Role:          models.AdminRole(role),
		DistrictID:    district,
		SubDistrictID: union,
		Password:      password,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s administrator %s\n", color.GreenString("Created"), color.CyanString(admin.ID))
	fmt.Printf("  Name:  %s\n", admin.DisplayName())
	fmt.Printf("  Role:  %s\n", admin.Role.Label())
	if admin.AssignedArea.DistrictID != "" {
		fmt.Printf("  Area:  %s", admin.AssignedArea.DistrictID)
		if admin.AssignedArea.SubDistrictID != "" {
			fmt.Printf(" / %s", admin.AssignedArea.SubDistrictID)
		}
		fmt.Println()
	}
	if password == "" {
		fmt.Printf("%s\n", color.YellowString("No password set, this account cannot log in to the dashboard"))
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
}
