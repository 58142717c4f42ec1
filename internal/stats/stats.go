// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

// Package stats derives multi-period practice statistics from the session
// history. Stateless: every function is pure given its inputs.
package stats

import (
	"time"

	"github.com/hugomarins/final-drill-and-history/internal/tracker"
)

// Period names one aggregation window.
type Period string

const (
	PeriodToday     Period = "today"
	PeriodYesterday Period = "yesterday"
	PeriodThisWeek  Period = "this_week"
	PeriodLastWeek  Period = "last_week"
	PeriodThisMonth Period = "this_month"
	PeriodLastMonth Period = "last_month"
	PeriodThisYear  Period = "this_year"
	PeriodLastYear  Period = "last_year"
	PeriodAllTime   Period = "all_time"
)

// Periods lists every window in display order.
var Periods = []Period{
	PeriodToday, PeriodYesterday,
	PeriodThisWeek, PeriodLastWeek,
	PeriodThisMonth, PeriodLastMonth,
	PeriodThisYear, PeriodLastYear,
	PeriodAllTime,
}

// Aggregate is the rollup for one period.
type Aggregate struct {
	Period          Period  `json:"period"`
	Sessions        int     `json:"sessions"`
	TotalTimeMs     int64   `json:"totalTime"`
	FlashcardCount  int     `json:"flashcardsCount"`
	FlashcardTimeMs int64   `json:"flashcardsTime"`
	IncRemCount     int     `json:"incRemsCount"`
	IncRemTimeMs    int64   `json:"incRemsTime"`
	AgainCount      int     `json:"againCount"`
	// RetentionRate is the remembered percentage: 100 when no cards were
	// practiced.
	RetentionRate float64 `json:"retentionRate"`
	// CardsPerMinute is flashcards per minute of flashcard time; 0 when
	// no time was recorded.
	CardsPerMinute float64 `json:"cardsPerMinute"`
}

// bounds is a half-open interval [start, end); a zero end means unbounded.
type bounds struct {
	start time.Time
	end   time.Time
}

func (b bounds) contains(t time.Time) bool {
	if t.Before(b.start) {
		return false
	}
	return b.end.IsZero() || t.Before(b.end)
}

// periodBounds computes a period's window around now using local calendar
// semantics: days, months and years start at local midnight; weeks start
// on weekStart.
func periodBounds(p Period, now time.Time, weekStart time.Weekday) bounds {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch p {
	case PeriodToday:
		return bounds{start: midnight}
	case PeriodYesterday:
		return bounds{start: midnight.AddDate(0, 0, -1), end: midnight}
	case PeriodThisWeek:
		return bounds{start: weekAnchor(midnight, weekStart)}
	case PeriodLastWeek:
		anchor := weekAnchor(midnight, weekStart)
		return bounds{start: anchor.AddDate(0, 0, -7), end: anchor}
	case PeriodThisMonth:
		return bounds{start: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())}
	case PeriodLastMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return bounds{start: first.AddDate(0, -1, 0), end: first}
	case PeriodThisYear:
		return bounds{start: time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())}
	case PeriodLastYear:
		first := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return bounds{start: first.AddDate(-1, 0, 0), end: first}
	default: // all time
		return bounds{}
	}
}

// weekAnchor walks midnight back to the most recent weekStart day.
func weekAnchor(midnight time.Time, weekStart time.Weekday) time.Time {
	diff := (int(midnight.Weekday()) - int(weekStart) + 7) % 7
	return midnight.AddDate(0, 0, -diff)
}

// Summarize rolls the sessions up into one Aggregate per period. Sessions
// are bucketed by start time in now's location.
func Summarize(sessions []tracker.PracticeSession, now time.Time, weekStart time.Weekday) []Aggregate {
	out := make([]Aggregate, 0, len(Periods))
	for _, p := range Periods {
		b := periodBounds(p, now, weekStart)
		agg := Aggregate{Period: p}
		for _, s := range sessions {
			start := time.UnixMilli(s.StartTime).In(now.Location())
			if !b.contains(start) {
				continue
			}
			agg.Sessions++
			agg.TotalTimeMs += s.TotalTimeMs
			agg.FlashcardCount += s.FlashcardCount
			agg.FlashcardTimeMs += s.FlashcardTimeMs
			agg.IncRemCount += s.IncRemCount
			agg.IncRemTimeMs += s.IncRemTimeMs
			agg.AgainCount += s.AgainCount
		}
		agg.RetentionRate = retention(agg.FlashcardCount, agg.AgainCount)
		agg.CardsPerMinute = speed(agg.FlashcardCount, agg.FlashcardTimeMs)
		out = append(out, agg)
	}
	return out
}

func retention(count, again int) float64 {
	if count == 0 {
		return 100
	}
	remembered := count - again
	if remembered < 0 {
		remembered = 0
	}
	return float64(remembered) / float64(count) * 100
}

func speed(count int, timeMs int64) float64 {
	if count == 0 || timeMs <= 0 {
		return 0
	}
	return float64(count) / (float64(timeMs) / 60000)
}
