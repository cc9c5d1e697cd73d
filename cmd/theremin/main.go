// Command theremin is a gesture-controlled theremin: raise the right hand
// for pitch and the left hand for volume in front of the camera.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayusman/theremin/internal/config"
)

func main() {
	if err := newRootCmd(config.Load()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Flag defaults come from cfg, so
// flags override the config file.
func newRootCmd(cfg config.Config) *cobra.Command {
	run := newRunCmd(&cfg)

	root := &cobra.Command{
		Use:           "theremin",
		Short:         "Gesture-controlled theremin",
		Long:          "Play a theremin with your hands: the right index fingertip sets the pitch, the left one the volume.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run.RunE,
	}
	root.Flags().AddFlagSet(run.Flags())
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(
		run,
		newRenderCmd(&cfg),
		newSessionsCmd(&cfg),
		newDevicesCmd(),
	)
	return root
}
