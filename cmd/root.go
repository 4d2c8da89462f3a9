// File: cmd/root.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xkilldash9x/petition-cli/internal/config"
	"github.com/xkilldash9x/petition-cli/internal/observability"
)

const envPrefix = "PETITION"

// NewRootCommand builds a fresh command tree with its own viper instance, so
// flags from one execution never leak into the next.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	config.SetDefaults(v)
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "petition",
		Short: "Sign petitions with the identity the page already carries.",
		Long: `petition loads a petition page, reads the host state embedded in it,
fills in the address fields the page leaves out and submits the signature
through the host's own signature API.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := readConfig(v, cfgFile); err != nil {
				observability.Initialize(config.NewDefaultConfig().Logger, zapcore.AddSync(cmd.ErrOrStderr()))
				return err
			}
			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				observability.Initialize(config.NewDefaultConfig().Logger, zapcore.AddSync(cmd.ErrOrStderr()))
				return err
			}
			observability.Initialize(cfg.Logger, zapcore.AddSync(cmd.ErrOrStderr()))
			observability.GetLogger().Debug("Starting petition", zap.String("version", Version))
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (console, json)")
	_ = v.BindPFlag("logger.level", flags.Lookup("log-level"))
	_ = v.BindPFlag("logger.format", flags.Lookup("log-format"))

	rootCmd.SetVersionTemplate(`{{printf "%s version %s\n" .Name .Version}}`)
	rootCmd.AddCommand(
		newSignCmd(v),
		newInspectCmd(v),
		newCountriesCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command with a signal-aware context.
func Execute(ctx context.Context) error {
	err := NewRootCommand().ExecuteContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		observability.GetLogger().Error("Command execution failed", zap.Error(err))
	}
	observability.Sync()
	return err
}

// readConfig loads the config file and environment. A missing default config
// file is fine; a missing explicit one is not.
func readConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		path, err := config.ResolveConfigPath(cfgFile)
		if err != nil {
			return fmt.Errorf("error resolving config path: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.petition")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}
