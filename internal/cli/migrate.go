package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/loja_grid/internal/config"
	"github.com/Skotchmaster/loja_grid/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the usuarios, produtos, contatos and banners tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		cfg.MustDatabase()
		conn, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close(conn)

		if err := db.Migrate(conn); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
