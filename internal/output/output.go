// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

// Package output renders CLI results as a table or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// Format selects how a command prints its result.
type Format string

const (
	OutputTable Format = "table"
	OutputJSON  Format = "json"
)

// OutputOptions holds the per-command format flag.
type OutputOptions struct {
	format string
	def    Format
}

// AddOutputFlags registers the --output flag with the given default.
func (o *OutputOptions) AddOutputFlags(cmd *cobra.Command, def Format) {
	o.def = def
	cmd.Flags().StringVarP(&o.format, "output", "o", string(def), "Output format: table or json")
}

// Resolve validates the selected format.
func (o *OutputOptions) Resolve() error {
	if o.format == "" {
		o.format = string(o.def)
	}
	switch Format(o.format) {
	case OutputTable, OutputJSON:
		return nil
	}
	return fmt.Errorf("unknown output format %q (choose table or json)", o.format)
}

// Is reports whether the resolved format matches f.
func (o *OutputOptions) Is(f Format) bool {
	return Format(o.format) == f
}

// JSON prints v as indented JSON on stdout.
func JSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table is a simple aligned-columns printer.
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// AddRow appends one row; values print as given.
func (t *Table) AddRow(values ...string) {
	t.rows = append(t.rows, values)
}

// Render writes the table to stdout.
func (t *Table) Render() {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for i, h := range t.headers {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, h)
	}
	fmt.Fprintln(w)
	for _, row := range t.rows {
		for i, v := range row {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, v)
		}
		fmt.Fprintln(w)
	}
	w.Flush()
}
