package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gorillaDoAPI/internal/progression"
	"gorillaDoAPI/internal/types/bossfight"
)

type BossService struct {
	db       *pgxpool.Pool
	profiles *ProfileService
	clock    Clock
}

func NewBossService(db *pgxpool.Pool, profiles *ProfileService, clock Clock) *BossService {
	if clock == nil {
		clock = SystemClock
	}
	return &BossService{db: db, profiles: profiles, clock: clock}
}

const fightColumns = `id, user_id, boss_name, boss_max_hp, boss_current_hp, started_at, ends_at, is_active, is_won`

func scanFight(row pgx.Row) (*bossfight.BossFight, error) {
	f := &bossfight.BossFight{}
	err := row.Scan(
		&f.ID,
		&f.UserID,
		&f.BossName,
		&f.BossMaxHP,
		&f.BossCurrentHP,
		&f.StartedAt,
		&f.EndsAt,
		&f.IsActive,
		&f.IsWon,
	)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// GetArena evaluates the unlock gate against the live profile and attaches
// the active fight if one exists. The gate is never stored.
func (s *BossService) GetArena(ctx context.Context, clerkID string) (*bossfight.ArenaResponse, error) {
	p, err := s.profiles.GetProfileByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	resp := &bossfight.ArenaResponse{
		Unlocked:       progression.BossUnlocked(p),
		RequiredLevel:  progression.BossUnlockLevel,
		RequiredStreak: progression.BossUnlockStreak,
		Level:          p.Level,
		CurrentStreak:  p.CurrentStreak,
	}

	fight, err := s.getActiveFight(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	resp.ActiveFight = fight

	return resp, nil
}

// StartFight creates the single allowed active instance once the unlock
// criteria hold. Locked profiles and double starts both surface as conflicts.
func (s *BossService) StartFight(ctx context.Context, clerkID string) (*bossfight.BossFight, error) {
	p, err := s.profiles.GetProfileByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	if !progression.BossUnlocked(p) {
		return nil, &progression.ConflictError{Reason: "boss fight is locked: requires level 5 and a 5-day streak"}
	}

	existing, err := s.getActiveFight(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &progression.ConflictError{Reason: "a boss fight is already active"}
	}

	fight := progression.NewBossFight(s.clock.Now())
	fight.ID = uuid.New()
	fight.UserID = p.UserID

	query := `
	INSERT INTO boss_fights (id, user_id, boss_name, boss_max_hp, boss_current_hp, started_at, ends_at, is_active)
	VALUES ($1, $2, $3, $4, $5, $6, $7, true)
	RETURNING ` + fightColumns

	created, err := scanFight(s.db.QueryRow(ctx, query,
		fight.ID, fight.UserID, fight.BossName, fight.BossMaxHP, fight.BossCurrentHP, fight.StartedAt, fight.EndsAt))
	if err != nil {
		// The partial unique index on active fights closes the check-then-act
		// window between two concurrent starts.
		if isUniqueViolation(err, "boss_fights_one_active_per_user") {
			return nil, &progression.ConflictError{Reason: "a boss fight is already active"}
		}
		return nil, storeError("start boss fight", err)
	}

	return created, nil
}

func (s *BossService) getActiveFight(ctx context.Context, userID uuid.UUID) (*bossfight.BossFight, error) {
	f, err := scanFight(s.db.QueryRow(ctx,
		`SELECT `+fightColumns+` FROM boss_fights WHERE user_id = $1 AND is_active`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError("get active boss fight", err)
	}
	return f, nil
}
