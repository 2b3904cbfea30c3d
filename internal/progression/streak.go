package progression

import (
	"time"

	"gorillaDoAPI/internal/types/profile"
)

type StreakOutcome struct {
	Evaluated     bool `json:"evaluated"`
	Extended      bool `json:"extended"`
	Broken        bool `json:"broken"`
	CurrentStreak int  `json:"current_streak"`
	LongestStreak int  `json:"longest_streak"`
}

// ApplyStreakDay finalizes the streak for the day that just ended. It runs
// once per calendar-day boundary, never per completion, so the outcome does
// not depend on the order tasks were checked off within the day.
//
// dailyDefined is the number of active daily tasks the user had on that day;
// dailyCompleted is how many of them were completed. A user with no daily
// tasks defined is not penalized: the day is skipped entirely, neither
// extending nor resetting the streak.
func ApplyStreakDay(p *profile.Profile, day time.Time, dailyDefined, dailyCompleted int) *StreakOutcome {
	out := &StreakOutcome{
		CurrentStreak: p.CurrentStreak,
		LongestStreak: p.LongestStreak,
	}

	if dailyDefined == 0 {
		return out
	}
	out.Evaluated = true

	day = DateOf(day)

	if dailyCompleted > 0 {
		if p.LastTaskCompletedDate != nil && IsNextDay(*p.LastTaskCompletedDate, day) {
			p.CurrentStreak++
		} else if p.LastTaskCompletedDate == nil {
			// First completion ever starts the streak.
			p.CurrentStreak = 1
		} else {
			// Gap of two or more days: the streak restarts at 1, not 0,
			// because today itself counts.
			p.CurrentStreak = 1
		}
		p.LastTaskCompletedDate = &day
		out.Extended = true
	} else {
		if p.CurrentStreak > 0 {
			out.Broken = true
			p.GorillaMood = profile.MoodSad
		}
		p.CurrentStreak = 0
	}

	if p.CurrentStreak > p.LongestStreak {
		p.LongestStreak = p.CurrentStreak
	}

	out.CurrentStreak = p.CurrentStreak
	out.LongestStreak = p.LongestStreak
	return out
}
