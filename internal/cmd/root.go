package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hopla/hopla-ssl/internal/config"
	"github.com/hopla/hopla-ssl/internal/logger"
	"github.com/hopla/hopla-ssl/internal/ui"
)

// version はビルド時に -ldflags で注入される
var version = "dev"

var (
	flagQuiet bool
	flagDebug bool
)

// log は診断ログ。PersistentPreRunE で初期化する
var log zerolog.Logger = logger.Nop()

var rootCmd = &cobra.Command{
	Use:   "hopla-ssl",
	Short: "Local HTTPS certificates for development servers",
	Long: `hopla-ssl creates a local certificate authority, issues a certificate for your
development domain and configures your dev server to use it.

Commands:
  generate  Create a CA and a certificate for a domain
  setup     Generate certificates and configure a project for HTTPS
  trust     Install the CA into the system trust store
  doctor    Check the certificates of a project`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ui.Quiet = flagQuiet

		debug := flagDebug
		if env, err := config.LoadEnv("."); err == nil && env.Debug() {
			debug = true
		}
		log = logger.Setup(debug)
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		ui.Banner()
		_ = cmd.Help()
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		ui.Error(err.Error())
	}
	return err
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("hopla-ssl version %s\n", version))
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only print errors and warnings")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable diagnostic logging")
}
