// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hugomarins/final-drill-and-history/internal/output"
	"github.com/hugomarins/final-drill-and-history/internal/stats"
)

func newStatsCmd(app *App) *cobra.Command {
	var out output.OutputOptions

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show practice statistics by period",
		Long:  "Aggregate the recorded sessions into rolling windows: today, this week, this month, and so on.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.Resolve(); err != nil {
				return err
			}

			sessions, err := app.Tracker.Sessions(cmd.Context())
			if err != nil {
				return err
			}
			aggs := stats.Summarize(sessions, time.Now(), app.Cfg.WeekStartDay())

			if out.Is(output.OutputJSON) {
				return output.JSON(aggs)
			}

			table := output.NewTable("PERIOD", "SESSIONS", "TIME", "CARDS", "INC REMS", "RETENTION", "CARDS/MIN")
			for _, a := range aggs {
				table.AddRow(
					string(a.Period),
					fmt.Sprintf("%d", a.Sessions),
					formatMs(a.TotalTimeMs),
					fmt.Sprintf("%d", a.FlashcardCount),
					fmt.Sprintf("%d", a.IncRemCount),
					fmt.Sprintf("%.1f%%", a.RetentionRate),
					fmt.Sprintf("%.2f", a.CardsPerMinute),
				)
			}
			table.Render()
			return nil
		},
	}

	out.AddOutputFlags(cmd, output.OutputTable)
	return cmd
}
