// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hugomarins/final-drill-and-history/internal/output"
)

func newSessionsCmd(app *App) *cobra.Command {
	var (
		limit int
		live  bool
		out   output.OutputOptions
	)

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recorded practice sessions",
		Long:  "Show the persisted session history, newest first. With --live, show the in-progress session instead.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.Resolve(); err != nil {
				return err
			}

			if live {
				s := app.Tracker.LiveSession()
				if s == nil {
					fmt.Println("No session in progress")
					return nil
				}
				return output.JSON(s)
			}

			sessions, err := app.Tracker.Sessions(cmd.Context())
			if err != nil {
				return err
			}
			if limit > 0 && len(sessions) > limit {
				sessions = sessions[:limit]
			}

			if out.Is(output.OutputJSON) {
				return output.JSON(sessions)
			}

			table := output.NewTable("STARTED", "SCOPE", "DURATION", "CARDS", "INC REMS", "AGAIN")
			for _, s := range sessions {
				table.AddRow(
					time.UnixMilli(s.StartTime).Format("2006-01-02 15:04"),
					orDash(s.ScopeName),
					formatMs(s.TotalTimeMs),
					fmt.Sprintf("%d", s.FlashcardCount),
					fmt.Sprintf("%d", s.IncRemCount),
					fmt.Sprintf("%d", s.AgainCount),
				)
			}
			table.Render()
			fmt.Printf("\n%d session(s)\n", len(sessions))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most N sessions")
	cmd.Flags().BoolVar(&live, "live", false, "Show the in-progress session")
	out.AddOutputFlags(cmd, output.OutputTable)

	return cmd
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatMs renders a millisecond duration as m:ss.
func formatMs(ms int64) string {
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
