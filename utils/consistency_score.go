package utils

import "math"

// CalculateConsistencyScore condenses a user's habit health into one number
// for the stats screen. Streak dominates, raw completion volume and badges
// pad it out.
func CalculateConsistencyScore(currentStreak, tasksCompleted, badgesCount int) float64 {
	streakScore := math.Pow(float64(currentStreak), 2) * 0.3
	volumeScore := float64(tasksCompleted) * 0.05
	badgeScore := float64(badgesCount) * 1.0

	return streakScore + volumeScore + badgeScore
}
