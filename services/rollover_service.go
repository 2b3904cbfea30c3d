package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gorillaDoAPI/internal/progression"
	"gorillaDoAPI/internal/types/badge"
	"gorillaDoAPI/utils"
)

// RolloverService finalizes streak and boss state once per calendar day.
// Task completion never touches either; this is the only writer, which keeps
// a day's outcome independent of the order tasks were checked off.
type RolloverService struct {
	db       *pgxpool.Pool
	profiles *ProfileService
	notifier utils.NotificationCreator
}

// NewRolloverService builds the rollover runner. The day being closed out is
// always passed in by the caller, so no clock is held here.
func NewRolloverService(db *pgxpool.Pool, profiles *ProfileService) *RolloverService {
	return &RolloverService{db: db, profiles: profiles}
}

func (s *RolloverService) SetNotifier(n utils.NotificationCreator) {
	s.notifier = n
}

type RolloverReport struct {
	Day           time.Time `json:"day"`
	UsersRolled   int       `json:"users_rolled"`
	StreaksBroken int       `json:"streaks_broken"`
	BossesWon     int       `json:"bosses_won"`
	BossesLost    int       `json:"bosses_lost"`
	Errors        int       `json:"errors"`
}

// RunDaily rolls every profile over for the day that just ended. Per-user
// failures are logged and counted but never stop the batch.
func (s *RolloverService) RunDaily(ctx context.Context, day time.Time) (*RolloverReport, error) {
	day = progression.DateOf(day)
	report := &RolloverReport{Day: day}

	rows, err := s.db.Query(ctx, `SELECT user_id FROM profiles ORDER BY created_at`)
	if err != nil {
		return nil, storeError("list profiles for rollover", err)
	}
	defer rows.Close()

	var userIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		userIDs = append(userIDs, id)
	}

	for _, userID := range userIDs {
		outcome, err := s.RunForUser(ctx, userID, day)
		if err != nil {
			log.Printf("Rollover failed for user %s on %s: %v", userID, day.Format("2006-01-02"), err)
			report.Errors++
			continue
		}
		report.UsersRolled++
		if outcome.Streak.Broken {
			report.StreaksBroken++
		}
		if outcome.Boss != nil && outcome.Boss.Resolved {
			if outcome.Boss.Won {
				report.BossesWon++
			} else {
				report.BossesLost++
			}
		}
	}

	log.Printf("Rollover for %s: %d users, %d broken streaks, %d boss wins, %d boss losses, %d errors",
		day.Format("2006-01-02"), report.UsersRolled, report.StreaksBroken, report.BossesWon, report.BossesLost, report.Errors)
	return report, nil
}

type UserRolloverOutcome struct {
	Streak *progression.StreakOutcome  `json:"streak"`
	Boss   *progression.BossTickResult `json:"boss,omitempty"`
	Badges []string                    `json:"badges,omitempty"`
	// AlreadyRolled is set when the day was finalized by an earlier run.
	AlreadyRolled bool `json:"already_rolled,omitempty"`
}

// RunForUser finalizes one user's day D inside a single transaction guarded
// by a per-user advisory lock, so a completion arriving mid-rollover is
// either fully included or lands after commit and counts toward the next day.
func (s *RolloverService) RunForUser(ctx context.Context, userID uuid.UUID, day time.Time) (*UserRolloverOutcome, error) {
	day = progression.DateOf(day)
	// The instant the day boundary passed; used for the boss deadline check.
	boundary := day.AddDate(0, 0, 1)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, storeError("begin rollover", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`, userID); err != nil {
		return nil, storeError("acquire rollover lock", err)
	}

	p, err := scanProfile(tx.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1 FOR UPDATE`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, storeError("lock profile", err)
	}

	// The worker reruns the previous day on boot; skip users whose day is
	// already finalized so streaks and boss HP are never applied twice.
	var lastRollover *time.Time
	if err := tx.QueryRow(ctx,
		`SELECT last_rollover_date FROM profiles WHERE user_id = $1`, userID).Scan(&lastRollover); err != nil {
		return nil, storeError("read last rollover date", err)
	}
	if lastRollover != nil && !day.After(progression.DateOf(*lastRollover)) {
		return &UserRolloverOutcome{
			Streak: &progression.StreakOutcome{
				CurrentStreak: p.CurrentStreak,
				LongestStreak: p.LongestStreak,
			},
			AlreadyRolled: true,
		}, nil
	}

	var dailyDefined, dailyCompleted int
	err = tx.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE EXISTS (
				SELECT 1 FROM task_completions tc
				WHERE tc.task_id = t.id AND tc.completed_on = $2
			))
		FROM tasks t
		WHERE t.user_id = $1 AND t.is_active AND t.task_type = 'daily'`,
		userID, day).Scan(&dailyDefined, &dailyCompleted)
	if err != nil {
		return nil, storeError("count daily completions", err)
	}

	outcome := &UserRolloverOutcome{}
	outcome.Streak = progression.ApplyStreakDay(p, day, dailyDefined, dailyCompleted)

	fight, err := scanFight(tx.QueryRow(ctx,
		`SELECT `+fightColumns+` FROM boss_fights WHERE user_id = $1 AND is_active FOR UPDATE`, userID))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, storeError("lock boss fight", err)
	}

	if fight != nil {
		// Zero daily tasks counts as "not all completed": the boss regenerates.
		allDone := dailyDefined > 0 && dailyCompleted == dailyDefined
		tick, err := progression.ApplyBossTick(fight, allDone, boundary)
		if err != nil {
			return nil, err
		}
		outcome.Boss = tick

		_, err = tx.Exec(ctx, `
			UPDATE boss_fights
			SET boss_current_hp = $2, is_active = $3, is_won = $4
			WHERE id = $1`,
			fight.ID, fight.BossCurrentHP, fight.IsActive, fight.IsWon)
		if err != nil {
			return nil, storeError("update boss fight", err)
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE profiles
		SET current_streak = $2, longest_streak = $3, last_task_completed_date = $4, gorilla_mood = $5, last_rollover_date = $6, updated_at = NOW()
		WHERE user_id = $1`,
		userID, p.CurrentStreak, p.LongestStreak, p.LastTaskCompletedDate, p.GorillaMood, day)
	if err != nil {
		return nil, storeError("update profile streak", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storeError("commit rollover", err)
	}

	// Badge awards and notifications run after commit: the rollover's state
	// transition must not fail because a side effect did.
	s.afterRollover(ctx, userID, outcome)

	return outcome, nil
}

func (s *RolloverService) afterRollover(ctx context.Context, userID uuid.UUID, outcome *UserRolloverOutcome) {
	if outcome.Streak.Extended {
		switch outcome.Streak.CurrentStreak {
		case badge.WeekWarriorStreak:
			s.awardAndNotify(ctx, userID, badge.SlugWeekWarrior, outcome)
		case badge.ConsistencyKingStreak:
			s.awardAndNotify(ctx, userID, badge.SlugConsistencyKing, outcome)
		}
		switch outcome.Streak.CurrentStreak {
		case 7, 14, 30, 60, 100:
			go utils.NotifyStreakMilestone(s.notifier, userID, outcome.Streak.CurrentStreak)
		}
	}

	if outcome.Boss != nil && outcome.Boss.Resolved {
		if outcome.Boss.Won {
			s.awardAndNotify(ctx, userID, badge.SlugBossSlayer, outcome)
		}
		go utils.NotifyBossOutcome(s.notifier, userID, progression.DefaultBossName, outcome.Boss.Won)
	}
}

func (s *RolloverService) awardAndNotify(ctx context.Context, userID uuid.UUID, slug string, outcome *UserRolloverOutcome) {
	earned, err := s.profiles.AwardBadgeBySlug(ctx, userID, slug)
	if err != nil {
		log.Printf("Failed to award badge %s to %s: %v", slug, userID, err)
		return
	}
	if earned {
		outcome.Badges = append(outcome.Badges, slug)
		go utils.NotifyBadgeEarned(s.notifier, userID, slug)
	}
}
