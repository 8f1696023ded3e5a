package cmd

import (
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/devmatch/devmatch/internal/config"
	"github.com/devmatch/devmatch/internal/logging"
)

var logCloser io.Closer

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "devmatch",
	Short: "Swipe through developer profiles from your terminal",
	Long: `DevMatch connects companies with freelance developers.
Browse a deck of developer profiles and swipe them left (nope), right (like)
or up (super like), manage your account and complete your profile.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadEnv()

		verbose, _ := cmd.Flags().GetBool("verbose")
		closer, err := logging.Setup(config.GetStateDir(), verbose)
		if err != nil {
			return err
		}
		logCloser = closer

		log.WithField("command", cmd.CommandPath()).Debug("starting")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
}

func init() {
	RootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")
	RootCmd.AddCommand(validateCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}
