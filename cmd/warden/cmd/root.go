package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/amirhosseinghanipour/warden/internal/config"
	"github.com/amirhosseinghanipour/warden/internal/infrastructure/logging"
	"github.com/amirhosseinghanipour/warden/internal/infrastructure/security"
)

var (
	cfg       *config.Config
	log       zerolog.Logger
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "warden",
	Short: "Credential authentication service with account lockout",
	Long: `warden verifies email/password credentials, locks accounts after repeated
failures, records every attempt and issues signed session tokens.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		log, logCloser = logging.New(logging.Options{
			Level:       cfg.Log.Level,
			File:        cfg.Log.File,
			Development: cfg.IsDevelopment(),
		})
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, hashPasswordCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVerifier() (*security.Verifier, error) {
	params := security.DefaultArgon2Params()
	params.Memory = cfg.Argon2.Memory
	params.Iterations = cfg.Argon2.Iterations
	params.Parallelism = cfg.Argon2.Parallelism
	return security.NewVerifier(cfg.Password.Scheme, cfg.Password.BcryptCost, params)
}
