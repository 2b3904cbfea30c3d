package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gorillaDoAPI/internal/stats"
	"gorillaDoAPI/internal/types/badge"
	"gorillaDoAPI/internal/types/profile"
	"gorillaDoAPI/utils"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileService struct {
	db *pgxpool.Pool
}

func NewProfileService(db *pgxpool.Pool) *ProfileService {
	return &ProfileService{db: db}
}

const profileColumns = `user_id, clerk_id, display_name, xp, level, current_streak, longest_streak, last_task_completed_date, gorilla_mood, created_at, updated_at`

func scanProfile(row pgx.Row) (*profile.Profile, error) {
	p := &profile.Profile{}
	err := row.Scan(
		&p.UserID,
		&p.ClerkID,
		&p.DisplayName,
		&p.XP,
		&p.Level,
		&p.CurrentStreak,
		&p.LongestStreak,
		&p.LastTaskCompletedDate,
		&p.GorillaMood,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreateProfile seeds a fresh profile with the signup defaults. Called from
// the Clerk user.created webhook.
func (s *ProfileService) CreateProfile(ctx context.Context, req *profile.CreateProfileRequest) (*profile.Profile, error) {
	query := `
	INSERT INTO profiles (user_id, clerk_id, display_name, xp, level, current_streak, longest_streak, gorilla_mood, created_at, updated_at)
	VALUES ($1, $2, NULLIF($3, ''), 0, 1, 0, 0, 'neutral', NOW(), NOW())
	ON CONFLICT (clerk_id) DO NOTHING
	RETURNING ` + profileColumns

	p, err := scanProfile(s.db.QueryRow(ctx, query, uuid.New(), req.ClerkID, req.DisplayName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Webhook redelivery; the profile already exists.
			return s.GetProfileByClerkID(ctx, req.ClerkID)
		}
		return nil, storeError("create profile", err)
	}

	return p, nil
}

func (s *ProfileService) GetProfileByClerkID(ctx context.Context, clerkID string) (*profile.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE clerk_id = $1`

	p, err := scanProfile(s.db.QueryRow(ctx, query, clerkID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, storeError("get profile", err)
	}

	return p, nil
}

func (s *ProfileService) UpdateProfileByClerkID(ctx context.Context, clerkID string, req *profile.UpdateProfileRequest) (*profile.Profile, error) {
	query := `
	UPDATE profiles
	SET
		display_name = COALESCE(NULLIF($2, ''), display_name),
		updated_at = NOW()
	WHERE clerk_id = $1
	RETURNING ` + profileColumns

	p, err := scanProfile(s.db.QueryRow(ctx, query, clerkID, req.DisplayName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, storeError("update profile", err)
	}

	return p, nil
}

func (s *ProfileService) DeleteProfileByClerkID(ctx context.Context, clerkID string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM profiles WHERE clerk_id = $1`, clerkID)
	if err != nil {
		return storeError("delete profile", err)
	}
	if result.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// GetBadges returns the full catalog with the caller's earned status, the
// same shape the profile screen renders.
func (s *ProfileService) GetBadges(ctx context.Context, clerkID string) ([]*badge.BadgeWithStatus, error) {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	query := `
	SELECT
		b.id, b.slug, b.name, b.description, b.icon, b.created_at,
		ub.earned_at IS NOT NULL as earned,
		ub.earned_at
	FROM badges b
	LEFT JOIN user_badges ub ON b.id = ub.badge_id AND ub.user_id = $1
	ORDER BY b.created_at ASC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, storeError("fetch badges", err)
	}
	defer rows.Close()

	var badges []*badge.BadgeWithStatus
	for rows.Next() {
		b := &badge.BadgeWithStatus{}
		if err := rows.Scan(
			&b.ID,
			&b.Slug,
			&b.Name,
			&b.Description,
			&b.Icon,
			&b.CreatedAt,
			&b.Earned,
			&b.EarnedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		badges = append(badges, b)
	}

	return badges, nil
}

// AwardBadgeBySlug records a badge earn; duplicates are a no-op so milestone
// checks can fire without first reading the join table. Returns true if the
// badge was newly earned.
func (s *ProfileService) AwardBadgeBySlug(ctx context.Context, userID uuid.UUID, slug string) (bool, error) {
	query := `
	INSERT INTO user_badges (id, user_id, badge_id, earned_at)
	SELECT $1, $2, b.id, NOW() FROM badges b WHERE b.slug = $3
	ON CONFLICT (user_id, badge_id) DO NOTHING
	`

	result, err := s.db.Exec(ctx, query, uuid.New(), userID, slug)
	if err != nil {
		return false, storeError("award badge", err)
	}
	if result.RowsAffected() == 0 {
		return false, nil
	}

	log.Printf("Awarded badge %s to user %s", slug, userID)
	return true, nil
}

func (s *ProfileService) GetUserStats(ctx context.Context, clerkID string) (*stats.UserStats, error) {
	p, err := s.GetProfileByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	query := `
	SELECT
		COALESCE(COUNT(tc.id), 0) as tasks_completed,
		COALESCE(SUM(tc.xp_earned), 0) as total_xp_earned,
		COALESCE(COUNT(tc.id) FILTER (WHERE tc.completed_on = CURRENT_DATE), 0) as completed_today,
		(SELECT COUNT(*) FROM tasks t WHERE t.user_id = $1 AND t.is_active AND t.task_type = 'daily') as active_daily_tasks,
		(SELECT COUNT(*) FROM user_badges ub WHERE ub.user_id = $1) as badges_count,
		(SELECT COUNT(*) FROM boss_fights bf WHERE bf.user_id = $1 AND bf.is_won) as bosses_defeated
	FROM task_completions tc
	WHERE tc.user_id = $1
	`

	st := &stats.UserStats{
		CurrentStreak: p.CurrentStreak,
		LongestStreak: p.LongestStreak,
	}
	err = s.db.QueryRow(ctx, query, p.UserID).Scan(
		&st.TasksCompleted,
		&st.TotalXPEarned,
		&st.CompletedToday,
		&st.ActiveDailyTasks,
		&st.BadgesCount,
		&st.BossesDefeated,
	)
	if err != nil {
		return nil, storeError("get user stats", err)
	}

	st.ConsistencyScore = utils.CalculateConsistencyScore(st.CurrentStreak, st.TasksCompleted, st.BadgesCount)
	return st, nil
}

func (s *ProfileService) getUserID(ctx context.Context, clerkID string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT user_id FROM profiles WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrProfileNotFound
		}
		return uuid.Nil, storeError("resolve user", err)
	}
	return userID, nil
}
