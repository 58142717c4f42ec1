// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hugomarins/final-drill-and-history/internal/tracker"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		format  string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export recorded sessions for analysis",
		Long:  "Export the session history to JSON, YAML, or CSV for use in spreadsheets or other tools.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := app.Tracker.Sessions(cmd.Context())
			if err != nil {
				return fmt.Errorf("load sessions: %w", err)
			}

			var outBytes []byte
			switch format {
			case "json":
				outBytes, err = json.MarshalIndent(sessions, "", "  ")
			case "yaml":
				outBytes, err = yaml.Marshal(sessions)
			case "csv":
				outBytes, err = exportCSV(sessions)
			default:
				return fmt.Errorf("unsupported format: %s (choose json, yaml, csv)", format)
			}
			if err != nil {
				return fmt.Errorf("export %s: %w", format, err)
			}

			if outPath == "-" || outPath == "" {
				fmt.Println(string(outBytes))
				return nil
			}
			if err := os.WriteFile(outPath, outBytes, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			fmt.Printf("Exported %d session(s) to %s\n", len(sessions), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Export format: json, yaml, csv")
	cmd.Flags().StringVarP(&outPath, "output", "o", "-", "Output file (default: stdout)")

	return cmd
}

// exportCSV flattens sessions to one row each.
func exportCSV(sessions []tracker.PracticeSession) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "start", "end", "scope", "kb", "total_ms", "flashcards", "flashcard_ms", "inc_rems", "inc_rem_ms", "again"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, s := range sessions {
		end := ""
		if s.EndTime > 0 {
			end = time.UnixMilli(s.EndTime).Format(time.RFC3339)
		}
		row := []string{
			s.ID,
			time.UnixMilli(s.StartTime).Format(time.RFC3339),
			end,
			s.ScopeName,
			s.KBID,
			strconv.FormatInt(s.TotalTimeMs, 10),
			strconv.Itoa(s.FlashcardCount),
			strconv.FormatInt(s.FlashcardTimeMs, 10),
			strconv.Itoa(s.IncRemCount),
			strconv.FormatInt(s.IncRemTimeMs, 10),
			strconv.Itoa(s.AgainCount),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
