package progression

import (
	"testing"
	"time"

	"gorillaDoAPI/internal/types/profile"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestStreakExtendsOnConsecutiveDay(t *testing.T) {
	last := day("2026-03-09")
	p := &profile.Profile{CurrentStreak: 4, LongestStreak: 4, LastTaskCompletedDate: &last}

	out := ApplyStreakDay(p, day("2026-03-10"), 2, 1)
	if !out.Evaluated || !out.Extended {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if p.CurrentStreak != 5 {
		t.Fatalf("current=%d, want 5", p.CurrentStreak)
	}
	if p.LongestStreak != 5 {
		t.Fatalf("longest=%d, want 5", p.LongestStreak)
	}
	if !p.LastTaskCompletedDate.Equal(day("2026-03-10")) {
		t.Fatalf("last=%v, want 2026-03-10", p.LastTaskCompletedDate)
	}
}

func TestStreakFirstEverCompletion(t *testing.T) {
	p := &profile.Profile{}
	out := ApplyStreakDay(p, day("2026-03-10"), 1, 1)
	if p.CurrentStreak != 1 || p.LongestStreak != 1 {
		t.Fatalf("got current=%d longest=%d, want 1/1", p.CurrentStreak, p.LongestStreak)
	}
	if !out.Extended {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}

func TestStreakResetsAfterGap(t *testing.T) {
	last := day("2026-03-05")
	p := &profile.Profile{CurrentStreak: 9, LongestStreak: 9, LastTaskCompletedDate: &last}

	// Two days were skipped entirely before a daily task got done again.
	ApplyStreakDay(p, day("2026-03-08"), 1, 1)
	if p.CurrentStreak != 1 {
		t.Fatalf("current=%d, want 1 after gap", p.CurrentStreak)
	}
	if p.LongestStreak != 9 {
		t.Fatalf("longest=%d, want 9 preserved", p.LongestStreak)
	}
}

func TestStreakDropsToZeroOnMissedDay(t *testing.T) {
	last := day("2026-03-09")
	p := &profile.Profile{CurrentStreak: 5, LongestStreak: 5, LastTaskCompletedDate: &last, GorillaMood: profile.MoodHappy}

	out := ApplyStreakDay(p, day("2026-03-10"), 3, 0)
	if !out.Broken {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if p.CurrentStreak != 0 {
		t.Fatalf("current=%d, want 0", p.CurrentStreak)
	}
	if p.GorillaMood != profile.MoodSad {
		t.Fatalf("mood=%s, want sad", p.GorillaMood)
	}
	// A miss does not advance the last-completed marker.
	if !p.LastTaskCompletedDate.Equal(day("2026-03-09")) {
		t.Fatalf("last=%v, want unchanged", p.LastTaskCompletedDate)
	}
}

func TestStreakSkippedWithoutDailyTasks(t *testing.T) {
	last := day("2026-03-09")
	p := &profile.Profile{CurrentStreak: 5, LongestStreak: 5, LastTaskCompletedDate: &last}

	out := ApplyStreakDay(p, day("2026-03-10"), 0, 0)
	if out.Evaluated {
		t.Fatal("day with zero daily tasks must be skipped")
	}
	if p.CurrentStreak != 5 || p.LongestStreak != 5 {
		t.Fatalf("streak changed on skipped day: current=%d longest=%d", p.CurrentStreak, p.LongestStreak)
	}
	if !p.LastTaskCompletedDate.Equal(day("2026-03-09")) {
		t.Fatalf("last=%v, want unchanged", p.LastTaskCompletedDate)
	}
}

func TestIsNextDay(t *testing.T) {
	if !IsNextDay(day("2026-02-28"), day("2026-03-01")) {
		t.Fatal("month boundary should count as next day")
	}
	if IsNextDay(day("2026-03-01"), day("2026-03-03")) {
		t.Fatal("two-day gap is not next day")
	}
	if IsNextDay(day("2026-03-01"), day("2026-03-01")) {
		t.Fatal("same day is not next day")
	}
}
