package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorillaDoAPI/internal/types/profile"
	"gorillaDoAPI/internal/types/task"
)

func TestRolloverExtendsStreak(t *testing.T) {
	pool := setupTestDB(t)
	defer cleanupTestDB(t, pool)

	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	clock := FixedClock{T: day.Add(10 * time.Hour)}

	profiles := NewProfileService(pool)
	tasks := NewTaskService(pool, clock)
	rollover := NewRolloverService(pool, profiles)

	clerkID := testClerkID("streak_extend")
	p := createTestProfile(t, profiles, clerkID)

	ctx := context.Background()

	created, err := tasks.CreateTask(ctx, clerkID, &task.CreateTaskRequest{
		Title:      "Walk the dog",
		Difficulty: "easy",
		TaskType:   "daily",
	})
	require.NoError(t, err)

	_, err = tasks.CompleteTask(ctx, clerkID, created.ID)
	require.NoError(t, err)

	outcome, err := rollover.RunForUser(ctx, p.UserID, day)
	require.NoError(t, err)
	assert.True(t, outcome.Streak.Evaluated)
	assert.True(t, outcome.Streak.Extended)
	assert.Equal(t, 1, outcome.Streak.CurrentStreak)
	assert.Equal(t, 1, outcome.Streak.LongestStreak)

	got, err := profiles.GetProfileByClerkID(ctx, clerkID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentStreak)
	require.NotNil(t, got.LastTaskCompletedDate)
	assert.True(t, got.LastTaskCompletedDate.Equal(day))
}

func TestRolloverBreaksStreakOnMissedDay(t *testing.T) {
	pool := setupTestDB(t)
	defer cleanupTestDB(t, pool)

	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	clock := FixedClock{T: day.Add(10 * time.Hour)}

	profiles := NewProfileService(pool)
	tasks := NewTaskService(pool, clock)
	rollover := NewRolloverService(pool, profiles)

	clerkID := testClerkID("streak_break")
	p := createTestProfile(t, profiles, clerkID)

	ctx := context.Background()

	_, err := tasks.CreateTask(ctx, clerkID, &task.CreateTaskRequest{
		Title:      "Meditate",
		Difficulty: "easy",
		TaskType:   "daily",
	})
	require.NoError(t, err)

	prev := day.AddDate(0, 0, -1)
	_, err = pool.Exec(ctx, `
		UPDATE profiles
		SET current_streak = 3, longest_streak = 5, last_task_completed_date = $2
		WHERE user_id = $1`, p.UserID, prev)
	require.NoError(t, err)

	// Daily task defined, nothing completed on the day being closed.
	outcome, err := rollover.RunForUser(ctx, p.UserID, day)
	require.NoError(t, err)
	assert.True(t, outcome.Streak.Evaluated)
	assert.True(t, outcome.Streak.Broken)
	assert.Equal(t, 0, outcome.Streak.CurrentStreak)
	assert.Equal(t, 5, outcome.Streak.LongestStreak)

	got, err := profiles.GetProfileByClerkID(ctx, clerkID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CurrentStreak)
	assert.Equal(t, profile.MoodSad, got.GorillaMood)
}

func TestRolloverSkipsDayWithoutDailyTasks(t *testing.T) {
	pool := setupTestDB(t)
	defer cleanupTestDB(t, pool)

	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	profiles := NewProfileService(pool)
	rollover := NewRolloverService(pool, profiles)

	clerkID := testClerkID("streak_skip")
	p := createTestProfile(t, profiles, clerkID)

	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		UPDATE profiles
		SET current_streak = 4, longest_streak = 4, last_task_completed_date = $2
		WHERE user_id = $1`, p.UserID, day.AddDate(0, 0, -1))
	require.NoError(t, err)

	outcome, err := rollover.RunForUser(ctx, p.UserID, day)
	require.NoError(t, err)
	assert.False(t, outcome.Streak.Evaluated)
	assert.False(t, outcome.Streak.Broken)
	assert.Equal(t, 4, outcome.Streak.CurrentStreak)

	got, err := profiles.GetProfileByClerkID(ctx, clerkID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.CurrentStreak)
}

func TestRolloverResolvesBossVictory(t *testing.T) {
	pool := setupTestDB(t)
	defer cleanupTestDB(t, pool)

	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	clock := FixedClock{T: day.Add(10 * time.Hour)}

	profiles := NewProfileService(pool)
	tasks := NewTaskService(pool, clock)
	bosses := NewBossService(pool, profiles, clock)
	rollover := NewRolloverService(pool, profiles)

	clerkID := testClerkID("boss_win")
	p := createTestProfile(t, profiles, clerkID)

	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		UPDATE profiles
		SET level = 5, current_streak = 5, longest_streak = 5, last_task_completed_date = $2
		WHERE user_id = $1`, p.UserID, day.AddDate(0, 0, -1))
	require.NoError(t, err)

	fight, err := bosses.StartFight(ctx, clerkID)
	require.NoError(t, err)

	// One full-clear day from death.
	_, err = pool.Exec(ctx, `UPDATE boss_fights SET boss_current_hp = 20 WHERE id = $1`, fight.ID)
	require.NoError(t, err)

	created, err := tasks.CreateTask(ctx, clerkID, &task.CreateTaskRequest{
		Title:      "Finish the report",
		Difficulty: "hard",
		TaskType:   "daily",
	})
	require.NoError(t, err)
	_, err = tasks.CompleteTask(ctx, clerkID, created.ID)
	require.NoError(t, err)

	outcome, err := rollover.RunForUser(ctx, p.UserID, day)
	require.NoError(t, err)
	require.NotNil(t, outcome.Boss)
	assert.True(t, outcome.Boss.Resolved)
	assert.True(t, outcome.Boss.Won)
	assert.Equal(t, 0, outcome.Boss.HPAfter)
	assert.Contains(t, outcome.Badges, "boss_slayer")

	arena, err := bosses.GetArena(ctx, clerkID)
	require.NoError(t, err)
	assert.Nil(t, arena.ActiveFight)
}

func TestRolloverBossRegeneratesOnMissedDailies(t *testing.T) {
	pool := setupTestDB(t)
	defer cleanupTestDB(t, pool)

	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	clock := FixedClock{T: day.Add(10 * time.Hour)}

	profiles := NewProfileService(pool)
	tasks := NewTaskService(pool, clock)
	bosses := NewBossService(pool, profiles, clock)
	rollover := NewRolloverService(pool, profiles)

	clerkID := testClerkID("boss_regen")
	p := createTestProfile(t, profiles, clerkID)

	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		UPDATE profiles
		SET level = 5, current_streak = 5, longest_streak = 5, last_task_completed_date = $2
		WHERE user_id = $1`, p.UserID, day.AddDate(0, 0, -1))
	require.NoError(t, err)

	fight, err := bosses.StartFight(ctx, clerkID)
	require.NoError(t, err)
	assert.Equal(t, 100, fight.BossCurrentHP)

	_, err = tasks.CreateTask(ctx, clerkID, &task.CreateTaskRequest{
		Title:      "Go for a run",
		Difficulty: "medium",
		TaskType:   "daily",
	})
	require.NoError(t, err)

	// Dailies defined but untouched: the boss heals, capped at max.
	outcome, err := rollover.RunForUser(ctx, p.UserID, day)
	require.NoError(t, err)
	require.NotNil(t, outcome.Boss)
	assert.False(t, outcome.Boss.Resolved)
	assert.Equal(t, 100, outcome.Boss.HPAfter)
}

func TestRolloverBossRegeneratesWithoutDailyTasks(t *testing.T) {
	pool := setupTestDB(t)
	defer cleanupTestDB(t, pool)

	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	clock := FixedClock{T: day.Add(10 * time.Hour)}

	profiles := NewProfileService(pool)
	bosses := NewBossService(pool, profiles, clock)
	rollover := NewRolloverService(pool, profiles)

	clerkID := testClerkID("boss_no_dailies")
	p := createTestProfile(t, profiles, clerkID)

	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		UPDATE profiles
		SET level = 5, current_streak = 5, longest_streak = 5, last_task_completed_date = $2
		WHERE user_id = $1`, p.UserID, day.AddDate(0, 0, -1))
	require.NoError(t, err)

	fight, err := bosses.StartFight(ctx, clerkID)
	require.NoError(t, err)

	_, err = pool.Exec(ctx,
		`UPDATE boss_fights SET boss_current_hp = 60 WHERE id = $1`, fight.ID)
	require.NoError(t, err)

	// No daily tasks defined at all. That is not a full clear, so the boss
	// heals rather than taking damage, and the streak day is skipped.
	outcome, err := rollover.RunForUser(ctx, p.UserID, day)
	require.NoError(t, err)
	require.NotNil(t, outcome.Boss)
	assert.False(t, outcome.Boss.Damaged)
	assert.False(t, outcome.Boss.Resolved)
	assert.Equal(t, 75, outcome.Boss.HPAfter)
	assert.False(t, outcome.Streak.Evaluated)
	assert.Equal(t, 5, outcome.Streak.CurrentStreak)

	arena, err := bosses.GetArena(ctx, clerkID)
	require.NoError(t, err)
	require.NotNil(t, arena.ActiveFight)
	assert.Equal(t, 75, arena.ActiveFight.BossCurrentHP)
}

func TestRolloverDayRunsOnlyOnce(t *testing.T) {
	pool := setupTestDB(t)
	defer cleanupTestDB(t, pool)

	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	clock := FixedClock{T: day.Add(10 * time.Hour)}

	profiles := NewProfileService(pool)
	tasks := NewTaskService(pool, clock)
	rollover := NewRolloverService(pool, profiles)

	clerkID := testClerkID("rollover_rerun")
	p := createTestProfile(t, profiles, clerkID)

	ctx := context.Background()

	created, err := tasks.CreateTask(ctx, clerkID, &task.CreateTaskRequest{
		Title:      "Stretch",
		Difficulty: "easy",
		TaskType:   "daily",
	})
	require.NoError(t, err)

	_, err = tasks.CompleteTask(ctx, clerkID, created.ID)
	require.NoError(t, err)

	first, err := rollover.RunForUser(ctx, p.UserID, day)
	require.NoError(t, err)
	assert.True(t, first.Streak.Extended)
	assert.Equal(t, 1, first.Streak.CurrentStreak)

	// A restart replays the same day; the streak must not be re-evaluated.
	second, err := rollover.RunForUser(ctx, p.UserID, day)
	require.NoError(t, err)
	assert.True(t, second.AlreadyRolled)
	assert.False(t, second.Streak.Extended)
	assert.Equal(t, 1, second.Streak.CurrentStreak)

	got, err := profiles.GetProfileByClerkID(ctx, clerkID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentStreak)
}
