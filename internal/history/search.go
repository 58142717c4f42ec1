// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package history

import (
	"sort"
	"strings"
)

// SearchVisits ranks visit entries against a whitespace-separated query.
// Each matched token scores one point; results sort by score, then
// recency. Entries without backfilled text never match.
func SearchVisits(entries []VisitEntry, query string) []VisitEntry {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return entries
	}
	type scored struct {
		entry VisitEntry
		score int
	}
	var matched []scored
	for _, e := range entries {
		s := matchScore(e.Text, tokens)
		if s > 0 {
			matched = append(matched, scored{e, s})
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].score != matched[j].score {
			return matched[i].score > matched[j].score
		}
		return matched[i].entry.Time > matched[j].entry.Time
	})
	out := make([]VisitEntry, len(matched))
	for i, m := range matched {
		out[i] = m.entry
	}
	return out
}

// SearchCards ranks flashcard entries the same way as SearchVisits.
func SearchCards(entries []CardEntry, query string) []CardEntry {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return entries
	}
	type scored struct {
		entry CardEntry
		score int
	}
	var matched []scored
	for _, e := range entries {
		s := matchScore(e.Text, tokens)
		if s > 0 {
			matched = append(matched, scored{e, s})
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].score != matched[j].score {
			return matched[i].score > matched[j].score
		}
		return matched[i].entry.Time > matched[j].entry.Time
	})
	out := make([]CardEntry, len(matched))
	for i, m := range matched {
		out[i] = m.entry
	}
	return out
}

func tokenize(query string) []string {
	var tokens []string
	for _, t := range strings.Fields(strings.ToLower(query)) {
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func matchScore(text string, tokens []string) int {
	if text == "" {
		return 0
	}
	lower := strings.ToLower(text)
	score := 0
	for _, t := range tokens {
		if strings.Contains(lower, t) {
			score++
		}
	}
	return score
}
