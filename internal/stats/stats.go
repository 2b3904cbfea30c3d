package stats

type UserStats struct {
	TasksCompleted   int     `json:"tasks_completed"`
	TotalXPEarned    int     `json:"total_xp_earned"`
	CompletedToday   int     `json:"completed_today"`
	ActiveDailyTasks int     `json:"active_daily_tasks"`
	CurrentStreak    int     `json:"current_streak"`
	LongestStreak    int     `json:"longest_streak"`
	BadgesCount      int     `json:"badges_count"`
	BossesDefeated   int     `json:"bosses_defeated"`
	ConsistencyScore float64 `json:"consistency_score"`
}
