package cli

import (
	"fmt"
	"log/slog"
	"os"

	"school/internal/config"
	"school/internal/db"
	"school/internal/observability/logging"
	"school/internal/store"

	"github.com/spf13/cobra"
)

type options struct {
	driver    string
	dsn       string
	logLevel  string
	logFormat string
	logSQL    bool
	disableFK bool
	cost      int
}

type app struct {
	opts   options
	logger *slog.Logger
	store  *store.Store
}

// NewRootCmd builds the schoolctl command tree. Defaults come from the same
// environment the server reads.
func NewRootCmd() *cobra.Command {
	cfg := config.Load()
	a := &app{}

	root := &cobra.Command{
		Use:           "schoolctl",
		Short:         "Administer the school records database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.logger = logging.NewLogger(logging.Config{
				ServiceName: "schoolctl",
				Environment: cfg.Environment,
				Level:       a.opts.logLevel,
				Format:      a.opts.logFormat,
				Output:      cmd.ErrOrStderr(),
			})
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.opts.driver, "db-driver", cfg.DatabaseDriver, "database driver (postgres, sqlite)")
	f.StringVar(&a.opts.dsn, "database-url", cfg.DatabaseURL, "database DSN (or DATABASE_URL env)")
	f.StringVar(&a.opts.logLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	f.StringVar(&a.opts.logFormat, "log-format", cfg.LogFormat, "log format (text, json)")
	f.BoolVar(&a.opts.logSQL, "log-sql", cfg.LogSQL, "log every SQL statement")
	f.BoolVar(&a.opts.disableFK, "db-disable-fk", cfg.DBDisableFK, "skip foreign key constraints when migrating")
	f.IntVar(&a.opts.cost, "bcrypt-cost", cfg.BcryptCost, "bcrypt cost for new password hashes")

	root.AddCommand(
		newMigrateCmd(a),
		newSeedCmd(a),
		newHashPasswordCmd(a),
		newSessionCmd(a),
	)
	return root
}

// openStore connects lazily so commands that never touch the database work
// without one.
func (a *app) openStore() (*store.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	gdb, err := db.OpenGorm(db.Config{
		Driver:    a.opts.driver,
		DSN:       a.opts.dsn,
		LogSQL:    a.opts.logSQL,
		DisableFK: a.opts.disableFK,
		Logger:    a.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.store = store.New(gdb)
	return a.store, nil
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
