// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package stats

import (
	"testing"
	"time"

	"github.com/hugomarins/final-drill-and-history/internal/tracker"
)

func sessionAt(start time.Time, cards, again int, cardMs int64) tracker.PracticeSession {
	return tracker.PracticeSession{
		StartTime:       start.UnixMilli(),
		EndTime:         start.Add(time.Duration(cardMs) * time.Millisecond).UnixMilli(),
		FlashcardCount:  cards,
		FlashcardTimeMs: cardMs,
		TotalTimeMs:     cardMs,
		AgainCount:      again,
	}
}

func findPeriod(t *testing.T, aggs []Aggregate, p Period) Aggregate {
	t.Helper()
	for _, a := range aggs {
		if a.Period == p {
			return a
		}
	}
	t.Fatalf("period %s missing", p)
	return Aggregate{}
}

func TestSummarizeBucketing(t *testing.T) {
	// Wednesday noon; with a Monday week start the week began March 10.
	now := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)
	sessions := []tracker.PracticeSession{
		sessionAt(now.Add(-2*time.Hour), 10, 2, 300000),                    // today
		sessionAt(time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC), 5, 0, 60000),  // yesterday
		sessionAt(time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC), 3, 1, 30000),   // last week
		sessionAt(time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC), 8, 0, 120000), // last month
		sessionAt(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC), 2, 2, 10000),   // last year
	}

	aggs := Summarize(sessions, now, time.Monday)
	if len(aggs) != len(Periods) {
		t.Fatalf("aggregates: got %d, want %d", len(aggs), len(Periods))
	}

	counts := map[Period]int{
		PeriodToday:     1,
		PeriodYesterday: 1,
		PeriodThisWeek:  2,
		PeriodLastWeek:  1,
		PeriodThisMonth: 3,
		PeriodLastMonth: 1,
		PeriodThisYear:  4,
		PeriodLastYear:  1,
		PeriodAllTime:   5,
	}
	for p, want := range counts {
		if got := findPeriod(t, aggs, p).Sessions; got != want {
			t.Errorf("%s sessions: got %d, want %d", p, got, want)
		}
	}

	week := findPeriod(t, aggs, PeriodThisWeek)
	if week.FlashcardCount != 15 || week.TotalTimeMs != 360000 {
		t.Errorf("this_week rollup: %+v", week)
	}
}

func TestSummarizeWeekStartSunday(t *testing.T) {
	// With a Sunday week start, March 9 anchors the same week; March 8
	// falls in the previous one.
	now := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)
	sessions := []tracker.PracticeSession{
		sessionAt(time.Date(2025, 3, 9, 9, 0, 0, 0, time.UTC), 1, 0, 1000),
		sessionAt(time.Date(2025, 3, 8, 9, 0, 0, 0, time.UTC), 1, 0, 1000),
	}

	aggs := Summarize(sessions, now, time.Sunday)
	if got := findPeriod(t, aggs, PeriodThisWeek).Sessions; got != 1 {
		t.Errorf("this_week: got %d, want 1", got)
	}
	if got := findPeriod(t, aggs, PeriodLastWeek).Sessions; got != 1 {
		t.Errorf("last_week: got %d, want 1", got)
	}
}

func TestRetentionAndSpeed(t *testing.T) {
	now := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)

	// 10 cards, 2 worst ratings: 80% retention; 10 cards over 5 minutes:
	// 2 cards per minute.
	sessions := []tracker.PracticeSession{
		sessionAt(now.Add(-time.Hour), 10, 2, 300000),
	}
	today := findPeriod(t, Summarize(sessions, now, time.Monday), PeriodToday)
	if today.RetentionRate != 80 {
		t.Errorf("retention: got %v, want 80", today.RetentionRate)
	}
	if today.CardsPerMinute != 2 {
		t.Errorf("cards/min: got %v, want 2", today.CardsPerMinute)
	}

	// No cards practiced reads as full retention, zero speed.
	empty := findPeriod(t, Summarize(nil, now, time.Monday), PeriodToday)
	if empty.RetentionRate != 100 {
		t.Errorf("empty retention: got %v, want 100", empty.RetentionRate)
	}
	if empty.CardsPerMinute != 0 {
		t.Errorf("empty speed: got %v, want 0", empty.CardsPerMinute)
	}
}
