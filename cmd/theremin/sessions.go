package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/theremin/internal/config"
	"github.com/ayusman/theremin/internal/store"
)

func newSessionsCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recorded sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(*cfg)
			if err != nil {
				return err
			}
			defer st.Close()
			return listSessions(cmd, st)
		},
	}
	cmd.PersistentFlags().StringVar(&cfg.DBPath, "db", cfg.DBPath, "journal database path")

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show the tones of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(*cfg)
			if err != nil {
				return err
			}
			defer st.Close()
			return showSession(cmd, st, args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a session and its tones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(*cfg)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Sessions().Delete(args[0]); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("session %s not found", args[0])
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", args[0])
			return nil
		},
	})

	return cmd
}

func listSessions(cmd *cobra.Command, st *store.Store) error {
	sessions, err := st.Sessions().List()
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded sessions.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tDURATION\tTONES")
	for _, s := range sessions {
		duration := "running"
		if s.EndedAt != nil {
			duration = s.EndedAt.Sub(s.StartedAt).Round(time.Second).String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", s.ID, s.StartedAt.Format("2006-01-02 15:04:05"), duration, s.ToneCount)
	}
	return w.Flush()
}

func showSession(cmd *cobra.Command, st *store.Store, id string) error {
	s, err := st.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("session %s not found", id)
		}
		return err
	}
	tones, err := st.Tones().ListBySession(id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Session %s: smoothing %.2f, change limit %.0f, notes %d-%d\n",
		s.ID, s.SmoothingFactor, s.ChangeLimit, s.MinNote, s.MaxNote)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tFREQUENCY\tVOLUME\tNOTE")
	for _, t := range tones {
		fmt.Fprintf(w, "%s\t%.2f\t%.0f\t%s %+d\n", t.PlayedAt.Format("15:04:05.000"), t.Frequency, t.Volume, t.Note, t.Cents)
	}
	return w.Flush()
}
