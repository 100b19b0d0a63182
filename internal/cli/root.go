// Package cli implements coolairctl, the operator tool for transitions that
// no API user can trigger and nothing runs automatically.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/coolair/coolair-backend/internal/config"
	"github.com/coolair/coolair-backend/internal/database"
	"github.com/coolair/coolair-backend/internal/events"
)

// Backend is what the commands operate on.
type Backend struct {
	DB     *gorm.DB
	Events events.Publisher
	Close  func()
}

// Opener connects a Backend. It runs once, before any subcommand.
type Opener func() (*Backend, error)

func NewRootCmd(open Opener) *cobra.Command {
	var (
		backend      *Backend
		outputFormat string
	)
	get := func() *Backend { return backend }

	root := &cobra.Command{
		Use:   "coolairctl",
		Short: "CoolAir operator CLI",
		Long: `coolairctl runs operator-only maintenance against the CoolAir database:
schema migration, plan seeding, operator roles, completing visits and
expiring subscriptions.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			b, err := open()
			if err != nil {
				return fmt.Errorf("failed to connect: %w", err)
			}
			if b.Events == nil {
				b.Events = events.Nop{}
			}
			backend = b
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if backend != nil && backend.Close != nil {
				backend.Close()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, yaml")
	format := func() string { return outputFormat }

	root.AddCommand(newMigrateCmd(get))
	root.AddCommand(newSeedPlansCmd(get))
	root.AddCommand(newAppointmentsCmd(get, format))
	root.AddCommand(newSubscriptionsCmd(get, format))
	root.AddCommand(newUsersCmd(get, format))

	return root
}

// Execute runs coolairctl against the database named by the environment.
func Execute() error {
	return NewRootCmd(openFromEnv).Execute()
}

func openFromEnv() (*Backend, error) {
	cfg := config.Load()
	if cfg.DBPassword == "" {
		return nil, fmt.Errorf("DB_PASSWORD environment variable is required")
	}
	if err := database.Connect(cfg); err != nil {
		return nil, err
	}

	b := &Backend{DB: database.DB, Events: events.Nop{}}
	var pub *events.AMQPPublisher
	if cfg.AMQPURL != "" {
		p, err := events.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return nil, err
		}
		pub = p
		b.Events = p
	}
	b.Close = func() {
		if pub != nil {
			_ = pub.Close()
		}
		_ = database.Close()
	}
	return b, nil
}

func newMigrateCmd(backend func() *Backend) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables and seed the plan catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			db := backend().DB
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			if err := database.SeedPlans(db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migration complete")
			return nil
		},
	}
}

func newSeedPlansCmd(backend func() *Backend) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-plans",
		Short: "Insert the Basic, Premium and Business plans if missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.SeedPlans(backend().DB); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "plans seeded")
			return nil
		},
	}
}
