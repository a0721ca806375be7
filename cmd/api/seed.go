package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/petshop-scheduler/internal/seed"
	"github.com/BruksfildServices01/petshop-scheduler/internal/timezone"
)

var (
	seedAdminUser     string
	seedAdminPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo services, clients, pets and appointments",
	Long: `Loads the demo data set. Existing rows are kept, so the command
can be run repeatedly.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedAdminUser, "admin-user", "", "also create a staff user with this username")
	seedCmd.Flags().StringVar(&seedAdminPassword, "admin-password", "", "password for --admin-user")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	if (seedAdminUser == "") != (seedAdminPassword == "") {
		return fmt.Errorf("--admin-user and --admin-password must be used together")
	}

	cfg, _, db, err := bootstrap(false)
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}
	defer closeDB(db)

	res, err := seed.Run(cmd.Context(), db, seed.Options{
		Location:      timezone.Location(cfg.ShopTimezone),
		AdminUsername: seedAdminUser,
		AdminPassword: seedAdminPassword,
	})
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}

	cmd.Printf("Serviços criados: %d\n", res.Services)
	cmd.Printf("Clientes criados: %d\n", res.Clients)
	cmd.Printf("Pets criados: %d\n", res.Pets)
	cmd.Printf("Agendamentos criados: %d\n", res.Appointments)
	if res.Users > 0 {
		cmd.Printf("Usuário criado: %s\n", seedAdminUser)
	}
	cmd.Println("Banco de dados populado com sucesso!")
	return nil
}
