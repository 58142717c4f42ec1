// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hugomarins/final-drill-and-history/internal/drill"
	"github.com/hugomarins/final-drill-and-history/internal/output"
)

func newDrillCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drill",
		Short: "Inspect and maintain the Final Drill queue",
		Long:  "The Final Drill queue holds cards rated poorly during practice, scoped to the current knowledge base.",
	}

	cmd.AddCommand(newDrillListCmd(app))
	cmd.AddCommand(newDrillClearOldCmd(app))
	cmd.AddCommand(newDrillClearAllCmd(app))

	return cmd
}

func newDrillListCmd(app *App) *cobra.Command {
	var (
		countOnly bool
		out       output.OutputOptions
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cards pending in the Final Drill queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.Resolve(); err != nil {
				return err
			}
			ctx := cmd.Context()

			kb, err := app.Host.CurrentKnowledgeBase(ctx)
			if err != nil {
				return fmt.Errorf("current knowledge base: %w", err)
			}
			entries, err := app.Queue.Entries(ctx)
			if err != nil {
				return err
			}

			now := time.Now()
			threshold := app.Cfg.Drill.OldItemThresholdDays
			inKB := make([]drill.Entry, 0, len(entries))
			for _, e := range entries {
				if e.BelongsTo(kb.ID, kb.IsPrimary) {
					inKB = append(inKB, e)
				}
			}
			oldCount := drill.CountOld(entries, kb.ID, kb.IsPrimary, threshold, now)

			// Bare count for notification scripting.
			if countOnly {
				fmt.Println(len(inKB))
				return nil
			}

			if out.Is(output.OutputJSON) {
				return output.JSON(map[string]any{
					"knowledgeBase": kb.ID,
					"pending":       len(inKB),
					"old":           oldCount,
					"entries":       inKB,
				})
			}

			table := output.NewTable("CARD", "ADDED", "AGE")
			for _, e := range inKB {
				added, age := "-", "-"
				if e.AddedAt > 0 {
					at := time.UnixMilli(e.AddedAt)
					added = at.Format("2006-01-02 15:04")
					age = fmt.Sprintf("%dd", int(now.Sub(at).Hours()/24))
				}
				table.AddRow(e.CardID, added, age)
			}
			table.Render()

			fmt.Printf("\n%d card(s) pending\n", len(inKB))
			if oldCount > 0 && !app.Cfg.Drill.DisableNotification {
				fmt.Printf("%d card(s) have waited more than %d day(s); consider a Final Drill session\n", oldCount, threshold)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&countOnly, "count", false, "Print only the pending-card count")
	out.AddOutputFlags(cmd, output.OutputTable)
	return cmd
}

func newDrillClearOldCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "clear-old",
		Short: "Remove drill entries older than the threshold",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			kb, err := app.Host.CurrentKnowledgeBase(ctx)
			if err != nil {
				return fmt.Errorf("current knowledge base: %w", err)
			}
			if days <= 0 {
				days = app.Cfg.Drill.OldItemThresholdDays
			}
			removed, err := app.Queue.ClearOld(ctx, days, kb.ID, time.Now())
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d entries older than %d day(s)\n", removed, days)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Age threshold in days (default: configured old_item_threshold)")
	return cmd
}

func newDrillClearAllCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear-all",
		Short: "Empty the Final Drill queue for the current knowledge base",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("refusing to clear without --force")
			}
			ctx := cmd.Context()
			kb, err := app.Host.CurrentKnowledgeBase(ctx)
			if err != nil {
				return fmt.Errorf("current knowledge base: %w", err)
			}
			removed, err := app.Queue.ClearAll(ctx, kb.ID, kb.IsPrimary)
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d entries\n", removed)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Confirm clearing the queue")
	return cmd
}
