package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// wrapWidth is the number of characters to wrap the help text at
const wrapWidth = 50

// app holds the state shared by the commands of one root.
type app struct {
	conf *viper.Viper
	log  *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{
		conf: viper.New(),
		log:  slog.Default(),
	}

	root := &cobra.Command{
		Use:   "ivmap",
		Short: "canonical interval map toolbox",
		Long: fmt.Sprintf(`ivmap (v%s)

Builds, prints and benchmarks canonical interval maps: maps from an
ordered key domain to values storing only the points of change.`, Version),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.configure,
	}

	root.PersistentFlags().String("log-level", "info", wrap("log level (debug, info, warn, error)"))

	root.AddCommand(
		a.demoCmd(),
		a.loadCmd(),
		a.benchCmd(),
		versionCmd(),
	)

	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of ivmap",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ivmap v%s\n", Version)
		},
	}
}

// configure merges .env files, IVMAP_* variables and the flags of cmd into the
// configuration and sets up the logger.
func (a *app) configure(cmd *cobra.Command, _ []string) error {
	// a missing file is fine
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	a.conf.SetEnvPrefix("ivmap")
	a.conf.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.conf.AutomaticEnv()

	if err := a.conf.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(a.conf.GetString("log-level"))); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	return nil
}

// wrap wraps a help text at wrapWidth characters
func wrap(text string) string {
	var (
		lines []string
		line  strings.Builder
	)

	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && line.Len()+1+len(word) > wrapWidth {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}

	if line.Len() > 0 {
		lines = append(lines, line.String())
	}

	return strings.Join(lines, "\n")
}
