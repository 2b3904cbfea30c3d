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
	"gorillaDoAPI/internal/types/profile"
	"gorillaDoAPI/internal/types/task"
	"gorillaDoAPI/utils"
)

var ErrTaskNotFound = errors.New("task not found")

type TaskService struct {
	db       *pgxpool.Pool
	clock    Clock
	notifier utils.NotificationCreator
}

func NewTaskService(db *pgxpool.Pool, clock Clock) *TaskService {
	if clock == nil {
		clock = SystemClock
	}
	return &TaskService{db: db, clock: clock}
}

// SetNotifier wires the notification service in after construction, the same
// way main.go injects the push provider.
func (s *TaskService) SetNotifier(n utils.NotificationCreator) {
	s.notifier = n
}

const taskColumns = `id, user_id, title, description, difficulty, task_type, deadline, is_active, created_at`

func scanTask(row pgx.Row) (*task.Task, error) {
	t := &task.Task{}
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Description,
		&t.Difficulty,
		&t.TaskType,
		&t.Deadline,
		&t.IsActive,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTasks returns the user's active tasks with today's completion flag,
// which is all the dashboard needs to render checkboxes.
func (s *TaskService) ListTasks(ctx context.Context, clerkID string) ([]*task.TaskWithStatus, error) {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	today := progression.DateOf(s.clock.Now())

	query := `
	SELECT
		t.id, t.user_id, t.title, t.description, t.difficulty, t.task_type, t.deadline, t.is_active, t.created_at,
		EXISTS (
			SELECT 1 FROM task_completions tc
			WHERE tc.task_id = t.id AND tc.completed_on = $2
		) as completed_today
	FROM tasks t
	WHERE t.user_id = $1 AND t.is_active
	ORDER BY t.created_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID, today)
	if err != nil {
		return nil, storeError("list tasks", err)
	}
	defer rows.Close()

	var tasks []*task.TaskWithStatus
	for rows.Next() {
		t := &task.TaskWithStatus{}
		if err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Title,
			&t.Description,
			&t.Difficulty,
			&t.TaskType,
			&t.Deadline,
			&t.IsActive,
			&t.CreatedAt,
			&t.CompletedToday,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}

	return tasks, nil
}

func (s *TaskService) CreateTask(ctx context.Context, clerkID string, req *task.CreateTaskRequest) (*task.Task, error) {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	if req.Title == "" {
		return nil, &progression.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	difficulty := task.Difficulty(req.Difficulty)
	if !difficulty.IsValid() {
		return nil, &progression.ValidationError{Field: "difficulty", Reason: "must be easy, medium or hard"}
	}
	taskType := task.Type(req.TaskType)
	if !taskType.IsValid() {
		return nil, &progression.ValidationError{Field: "task_type", Reason: "must be daily or timeframe"}
	}

	var deadline *time.Time
	if req.Deadline != "" {
		if taskType != task.TypeTimeframe {
			return nil, &progression.ValidationError{Field: "deadline", Reason: "only timeframe tasks take a deadline"}
		}
		d, err := time.Parse("2006-01-02", req.Deadline)
		if err != nil {
			return nil, &progression.ValidationError{Field: "deadline", Reason: "must be YYYY-MM-DD"}
		}
		deadline = &d
	}

	query := `
	INSERT INTO tasks (id, user_id, title, description, difficulty, task_type, deadline, is_active, created_at)
	VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, true, NOW())
	RETURNING ` + taskColumns

	t, err := scanTask(s.db.QueryRow(ctx, query, uuid.New(), userID, req.Title, req.Description, difficulty, taskType, deadline))
	if err != nil {
		return nil, storeError("create task", err)
	}

	return t, nil
}

// SoftDeleteTask deactivates a task. Completions stay: history is append-only.
func (s *TaskService) SoftDeleteTask(ctx context.Context, clerkID string, taskID uuid.UUID) error {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return err
	}

	result, err := s.db.Exec(ctx,
		`UPDATE tasks SET is_active = false WHERE id = $1 AND user_id = $2 AND is_active`,
		taskID, userID)
	if err != nil {
		return storeError("delete task", err)
	}
	if result.RowsAffected() == 0 {
		return ErrTaskNotFound
	}

	return nil
}

type CompleteTaskResult struct {
	Profile    *profile.Profile      `json:"profile"`
	Task       *task.Task            `json:"task"`
	Completion *task.Completion      `json:"completion"`
	XP         *progression.XPResult `json:"xp"`
}

// CompleteTask records the completion and applies XP, nothing else.
// Streak and boss state move only
// in the daily rollover so a day's outcome never depends on the order tasks
// were checked off.
func (s *TaskService) CompleteTask(ctx context.Context, clerkID string, taskID uuid.UUID) (*CompleteTaskResult, error) {
	today := progression.DateOf(s.clock.Now())

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, storeError("begin completion", err)
	}
	defer tx.Rollback(ctx)

	p, err := scanProfile(tx.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE clerk_id = $1 FOR UPDATE`, clerkID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, storeError("lock profile", err)
	}

	t, err := scanTask(tx.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2 AND is_active`, taskID, p.UserID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, storeError("load task", err)
	}

	// Duplicate check first so the caller gets AlreadyCompleted rather than
	// a constraint error on the happy path.
	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM task_completions WHERE task_id = $1 AND completed_on = $2)`,
		t.ID, today).Scan(&exists)
	if err != nil {
		return nil, storeError("check completion", err)
	}
	if exists {
		return nil, fmt.Errorf("task %s on %s: %w", t.ID, today.Format("2006-01-02"), progression.ErrAlreadyCompleted)
	}

	xpEarned, err := progression.RewardForDifficulty(t.Difficulty)
	if err != nil {
		return nil, err
	}

	completion := &task.Completion{
		ID:          uuid.New(),
		TaskID:      t.ID,
		UserID:      p.UserID,
		CompletedOn: today,
		XPEarned:    xpEarned,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO task_completions (id, task_id, user_id, completed_on, xp_earned, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at`,
		completion.ID, completion.TaskID, completion.UserID, completion.CompletedOn, completion.XPEarned,
	).Scan(&completion.CreatedAt)
	if err != nil {
		// A racing request can slip past the existence check; the unique
		// index resolves it and both paths report the same error.
		if isUniqueViolation(err, "task_completions_task_id_completed_on_key") {
			return nil, fmt.Errorf("task %s on %s: %w", t.ID, today.Format("2006-01-02"), progression.ErrAlreadyCompleted)
		}
		return nil, storeError("insert completion", err)
	}

	xpRes, err := progression.ApplyXP(p, xpEarned)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE profiles
		SET xp = $2, level = $3, gorilla_mood = $4, updated_at = NOW()
		WHERE user_id = $1`,
		p.UserID, p.XP, p.Level, p.GorillaMood)
	if err != nil {
		return nil, storeError("update profile xp", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storeError("commit completion", err)
	}

	if xpRes.LeveledUp {
		log.Printf("User %s leveled up: %d -> %d", p.UserID, xpRes.LevelBefore, xpRes.LevelAfter)
		go utils.NotifyLevelUp(s.notifier, p.UserID, xpRes.LevelAfter)
	}

	return &CompleteTaskResult{Profile: p, Task: t, Completion: completion, XP: xpRes}, nil
}

func (s *TaskService) getUserID(ctx context.Context, clerkID string) (uuid.UUID, error) {
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
