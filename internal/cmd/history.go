// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hugomarins/final-drill-and-history/internal/history"
	"github.com/hugomarins/final-drill-and-history/internal/output"
)

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse navigation and flashcard history",
	}

	cmd.AddCommand(newHistoryRemsCmd(app))
	cmd.AddCommand(newHistoryCardsCmd(app))
	cmd.AddCommand(newHistoryBackfillCmd(app))

	return cmd
}

func newHistoryRemsCmd(app *App) *cobra.Command {
	var (
		search string
		limit  int
		del    string
		out    output.OutputOptions
	)

	cmd := &cobra.Command{
		Use:   "rems",
		Short: "List recently visited documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.Resolve(); err != nil {
				return err
			}
			ctx := cmd.Context()

			if del != "" {
				if err := app.Logs.DeleteVisit(ctx, history.EntryKey(del)); err != nil {
					return err
				}
				fmt.Printf("Deleted entry %s\n", del)
				return nil
			}

			entries, err := app.Logs.Visits(ctx)
			if err != nil {
				return err
			}
			kb, err := app.Host.CurrentKnowledgeBase(ctx)
			if err != nil {
				return fmt.Errorf("current knowledge base: %w", err)
			}
			scoped := entries[:0:0]
			for _, e := range entries {
				if e.InScope(kb.ID, kb.IsPrimary) {
					scoped = append(scoped, e)
				}
			}
			if search != "" {
				scoped = history.SearchVisits(scoped, search)
			}
			if limit > 0 && len(scoped) > limit {
				scoped = scoped[:limit]
			}

			if out.Is(output.OutputJSON) {
				return output.JSON(scoped)
			}

			table := output.NewTable("KEY", "VISITED", "TEXT")
			for _, e := range scoped {
				table.AddRow(string(e.Key), time.UnixMilli(e.Time).Format("2006-01-02 15:04"), truncate(orDash(e.Text), 60))
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Rank entries by text match")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most N entries")
	cmd.Flags().StringVar(&del, "delete", "", "Delete the entry with this key")
	out.AddOutputFlags(cmd, output.OutputTable)

	return cmd
}

func newHistoryCardsCmd(app *App) *cobra.Command {
	var (
		search string
		limit  int
		del    string
		out    output.OutputOptions
	)

	cmd := &cobra.Command{
		Use:   "cards",
		Short: "List recently completed flashcards",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.Resolve(); err != nil {
				return err
			}
			ctx := cmd.Context()

			if del != "" {
				if err := app.Logs.DeleteCard(ctx, history.EntryKey(del)); err != nil {
					return err
				}
				fmt.Printf("Deleted entry %s\n", del)
				return nil
			}

			entries, err := app.Logs.Cards(ctx)
			if err != nil {
				return err
			}
			kb, err := app.Host.CurrentKnowledgeBase(ctx)
			if err != nil {
				return fmt.Errorf("current knowledge base: %w", err)
			}
			scoped := entries[:0:0]
			for _, e := range entries {
				if e.InScope(kb.ID, kb.IsPrimary) {
					scoped = append(scoped, e)
				}
			}
			if search != "" {
				scoped = history.SearchCards(scoped, search)
			}
			if limit > 0 && len(scoped) > limit {
				scoped = scoped[:limit]
			}

			if out.Is(output.OutputJSON) {
				return output.JSON(scoped)
			}

			table := output.NewTable("KEY", "COMPLETED", "CARD", "TEXT")
			for _, e := range scoped {
				table.AddRow(string(e.Key), time.UnixMilli(e.Time).Format("2006-01-02 15:04"), e.CardID, truncate(orDash(e.Text), 50))
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Rank entries by text match")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most N entries")
	cmd.Flags().StringVar(&del, "delete", "", "Delete the entry with this key")
	out.AddOutputFlags(cmd, output.OutputTable)

	return cmd
}

func newHistoryBackfillCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Fill in missing denormalized text on history entries",
		Long:  "Resolves a small batch of entries per run against the host, so large logs migrate gradually.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			visits, err := app.Logs.BackfillVisits(ctx, app.Host)
			if err != nil {
				return err
			}
			cards, err := app.Logs.BackfillCards(ctx, app.Host)
			if err != nil {
				return err
			}
			fmt.Printf("Updated %d visit entries, %d card entries\n", visits, cards)
			return nil
		},
	}
	return cmd
}
