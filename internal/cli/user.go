package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/loja_grid/internal/config"
	"github.com/Skotchmaster/loja_grid/internal/db"
	"github.com/Skotchmaster/loja_grid/internal/hash"
	"github.com/Skotchmaster/loja_grid/internal/models"
	"github.com/Skotchmaster/loja_grid/internal/repo"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account that can sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		admin, _ := cmd.Flags().GetBool("admin")

		cfg := config.LoadConfig()
		cfg.MustDatabase()
		conn, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close(conn)

		u, err := createUser(cmd.Context(), &repo.GormRepo{DB: conn}, username, password, admin)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created user %q (id %d, role %s)\n", u.Username, u.ID, u.Role)
		return nil
	},
}

func createUser(ctx context.Context, r *repo.GormRepo, username, password string, admin bool) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}
	if _, err := r.UserByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("user %q already exists", username)
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hashed, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &models.User{Username: username, PasswordHash: hashed, Role: "user"}
	if admin {
		u.Role = models.RoleAdmin
	}
	if err := r.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func init() {
	userCreateCmd.Flags().String("username", "", "login name")
	userCreateCmd.Flags().String("password", "", "password")
	userCreateCmd.Flags().Bool("admin", false, "grant the admin role")
	_ = userCreateCmd.MarkFlagRequired("username")
	_ = userCreateCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userCreateCmd)
	rootCmd.AddCommand(userCmd)
}
