package progression

import (
	"errors"
	"testing"
	"time"

	"gorillaDoAPI/internal/types/bossfight"
	"gorillaDoAPI/internal/types/profile"
)

func activeFight(hp int, endsAt time.Time) *bossfight.BossFight {
	f := NewBossFight(endsAt.AddDate(0, 0, -BossFightDays))
	f.BossCurrentHP = hp
	return f
}

func TestBossUnlockGate(t *testing.T) {
	cases := []struct {
		level, streak int
		want          bool
	}{
		{5, 5, true},
		{10, 5, true},
		{5, 4, false},
		{4, 5, false},
		{1, 0, false},
	}
	for _, c := range cases {
		p := &profile.Profile{Level: c.level, CurrentStreak: c.streak}
		if got := BossUnlocked(p); got != c.want {
			t.Fatalf("BossUnlocked(level=%d, streak=%d)=%v, want %v", c.level, c.streak, got, c.want)
		}
	}
}

func TestNewBossFightDefaults(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	f := NewBossFight(now)
	if f.BossMaxHP != 100 || f.BossCurrentHP != 100 {
		t.Fatalf("hp=%d/%d, want 100/100", f.BossCurrentHP, f.BossMaxHP)
	}
	if !f.EndsAt.Equal(now.AddDate(0, 0, 5)) {
		t.Fatalf("ends_at=%v, want now+5d", f.EndsAt)
	}
	if !f.IsActive || f.IsWon != nil {
		t.Fatalf("new fight must be active and unresolved: %+v", f)
	}
}

func TestBossTickDamageAndRegen(t *testing.T) {
	endsAt := day("2026-03-15")
	f := activeFight(100, endsAt)

	// All dailies done: 100 -> 80.
	res, err := ApplyBossTick(f, true, day("2026-03-11"))
	if err != nil {
		t.Fatalf("ApplyBossTick: %v", err)
	}
	if f.BossCurrentHP != 80 || !res.Damaged {
		t.Fatalf("hp=%d damaged=%v, want 80/true", f.BossCurrentHP, res.Damaged)
	}

	// Missed a daily the next day: 80 -> 95, clamped below max.
	res, err = ApplyBossTick(f, false, day("2026-03-12"))
	if err != nil {
		t.Fatalf("ApplyBossTick: %v", err)
	}
	if f.BossCurrentHP != 95 || res.Damaged {
		t.Fatalf("hp=%d damaged=%v, want 95/false", f.BossCurrentHP, res.Damaged)
	}

	// Regen clamps at max HP.
	if _, err := ApplyBossTick(f, false, day("2026-03-13")); err != nil {
		t.Fatalf("ApplyBossTick: %v", err)
	}
	if f.BossCurrentHP != 100 {
		t.Fatalf("hp=%d, want clamped at 100", f.BossCurrentHP)
	}
}

func TestBossTickVictory(t *testing.T) {
	f := activeFight(20, day("2026-03-15"))

	res, err := ApplyBossTick(f, true, day("2026-03-11"))
	if err != nil {
		t.Fatalf("ApplyBossTick: %v", err)
	}
	if !res.Resolved || !res.Won {
		t.Fatalf("unexpected result: %+v", res)
	}
	if f.IsActive {
		t.Fatal("won fight must be inactive")
	}
	if f.IsWon == nil || !*f.IsWon {
		t.Fatal("is_won must be true")
	}
}

func TestBossTickDamageClampsAtZero(t *testing.T) {
	f := activeFight(10, day("2026-03-15"))
	res, err := ApplyBossTick(f, true, day("2026-03-11"))
	if err != nil {
		t.Fatalf("ApplyBossTick: %v", err)
	}
	if f.BossCurrentHP != 0 || !res.Won {
		t.Fatalf("hp=%d won=%v, want 0/true", f.BossCurrentHP, res.Won)
	}
}

func TestBossTickDeadlineLoss(t *testing.T) {
	f := activeFight(40, day("2026-03-15"))

	// Deadline day arrives with HP remaining even after damage: lost.
	res, err := ApplyBossTick(f, true, day("2026-03-15"))
	if err != nil {
		t.Fatalf("ApplyBossTick: %v", err)
	}
	if !res.Resolved || res.Won {
		t.Fatalf("unexpected result: %+v", res)
	}
	if f.IsActive {
		t.Fatal("lost fight must be inactive")
	}
	if f.IsWon == nil || *f.IsWon {
		t.Fatal("is_won must be false")
	}
}

func TestBossTickVictoryOnDeadlineDay(t *testing.T) {
	// Reaching zero on the deadline day still counts as a win.
	f := activeFight(20, day("2026-03-15"))
	res, err := ApplyBossTick(f, true, day("2026-03-15"))
	if err != nil {
		t.Fatalf("ApplyBossTick: %v", err)
	}
	if !res.Won {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestBossTickTerminalFightIsImmutable(t *testing.T) {
	f := activeFight(40, day("2026-03-15"))
	f.IsActive = false
	won := false
	f.IsWon = &won

	_, err := ApplyBossTick(f, true, day("2026-03-16"))
	if err == nil {
		t.Fatal("expected conflict error on resolved fight")
	}
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("got %T, want *ConflictError", err)
	}
	if f.BossCurrentHP != 40 {
		t.Fatalf("hp=%d, terminal fight mutated", f.BossCurrentHP)
	}
}
