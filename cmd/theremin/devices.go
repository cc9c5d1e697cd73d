package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ayusman/theremin/internal/audio"
)

func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List audio output devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := audio.ListOutputDevices()
			if err != nil {
				return err
			}
			if len(devices) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No output devices found.")
			}
			for _, d := range devices {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d  %s (%d ch)\n", d.ID, d.Name, d.Channels)
			}
			return nil
		},
	}
}
