// Package postgres implements the ledger store on pgx. Approval writes run
// inside a single transaction with the campaign row locked, so concurrent
// approvals against one campaign serialize on spent.
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tarealabs/tareabot/internal/domain"
	"github.com/tarealabs/tareabot/internal/repository"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) UpsertUser(ctx context.Context, telegramID int64) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`INSERT INTO users (tg_id) VALUES ($1) ON CONFLICT (tg_id) DO NOTHING`,
		telegramID,
	)
	if err != nil {
		return false, fmt.Errorf("upsert user: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) GetUser(ctx context.Context, telegramID int64) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRow(ctx,
		`SELECT tg_id, balance, created_at, updated_at FROM users WHERE tg_id = $1`,
		telegramID,
	).Scan(&u.TelegramID, &u.Balance, &u.CreatedAt, &u.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (s *Store) CreateCampaign(ctx context.Context, name string, budget int64) (*domain.Campaign, error) {
	var c domain.Campaign
	err := s.db.QueryRow(ctx,
		`INSERT INTO campaigns (name, budget) VALUES ($1, $2)
		 RETURNING id, name, budget, spent, active, created_at`,
		name, budget,
	).Scan(&c.ID, &c.Name, &c.Budget, &c.Spent, &c.Active, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}
	return &c, nil
}

func (s *Store) GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error) {
	var c domain.Campaign
	err := s.db.QueryRow(ctx,
		`SELECT id, name, budget, spent, active, created_at FROM campaigns WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Budget, &c.Spent, &c.Active, &c.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrCampaignNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	return &c, nil
}

func (s *Store) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, budget, spent, active, created_at FROM campaigns ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []domain.Campaign
	for rows.Next() {
		var c domain.Campaign
		if err := rows.Scan(&c.ID, &c.Name, &c.Budget, &c.Spent, &c.Active, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

func (s *Store) CloseCampaign(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `UPDATE campaigns SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("close campaign: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCampaignNotFound
	}
	return nil
}

func (s *Store) CreateTask(ctx context.Context, campaignID int64, title, prompt string, reward int64) (*domain.Task, error) {
	// The campaign existence check and the insert share one transaction so
	// a task can never reference a campaign created out from under it.
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM campaigns WHERE id = $1)`, campaignID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check campaign: %w", err)
	}
	if !exists {
		return nil, domain.ErrCampaignNotFound
	}

	var t domain.Task
	err = tx.QueryRow(ctx,
		`INSERT INTO tasks (campaign_id, title, prompt, reward) VALUES ($1, $2, $3, $4)
		 RETURNING id, campaign_id, title, prompt, reward, active, created_at`,
		campaignID, title, prompt, reward,
	).Scan(&t.ID, &t.CampaignID, &t.Title, &t.Prompt, &t.Reward, &t.Active, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &t, nil
}

func (s *Store) SelectEligibleTask(ctx context.Context) (*domain.Task, error) {
	var t domain.Task
	err := s.db.QueryRow(ctx,
		`SELECT t.id, t.campaign_id, t.title, t.prompt, t.reward, t.active, t.created_at
		 FROM tasks t
		 JOIN campaigns c ON c.id = t.campaign_id
		 WHERE t.active AND c.active
		 ORDER BY t.id
		 LIMIT 1`,
	).Scan(&t.ID, &t.CampaignID, &t.Title, &t.Prompt, &t.Reward, &t.Active, &t.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select eligible task: %w", err)
	}
	return &t, nil
}

func (s *Store) CreateSubmission(ctx context.Context, telegramID, taskID int64, answer string) (*domain.Submission, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM tasks WHERE id = $1)`, taskID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check task: %w", err)
	}
	if !exists {
		return nil, domain.ErrTaskNotFound
	}

	var sub domain.Submission
	err = tx.QueryRow(ctx,
		`INSERT INTO submissions (tg_id, task_id, answer) VALUES ($1, $2, $3)
		 RETURNING id, tg_id, task_id, answer, status, decided_at, created_at`,
		telegramID, taskID, answer,
	).Scan(&sub.ID, &sub.TelegramID, &sub.TaskID, &sub.Answer, &sub.Status, &sub.DecidedAt, &sub.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &sub, nil
}

func (s *Store) ListPendingSubmissions(ctx context.Context, limit int) ([]domain.Submission, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, tg_id, task_id, answer, status, decided_at, created_at
		 FROM submissions WHERE status = $1 ORDER BY id LIMIT $2`,
		domain.SubmissionStatusPending, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending submissions: %w", err)
	}
	defer rows.Close()

	var subs []domain.Submission
	for rows.Next() {
		var sub domain.Submission
		if err := rows.Scan(&sub.ID, &sub.TelegramID, &sub.TaskID, &sub.Answer, &sub.Status, &sub.DecidedAt, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (s *Store) LoadApprovalContext(ctx context.Context, submissionID int64) (*repository.ApprovalContext, error) {
	var ac repository.ApprovalContext
	err := s.db.QueryRow(ctx,
		`SELECT s.id, s.tg_id, s.task_id, s.answer, s.status, s.decided_at, s.created_at,
		        t.title, t.reward, c.id, c.budget, c.spent, c.active
		 FROM submissions s
		 JOIN tasks t ON t.id = s.task_id
		 JOIN campaigns c ON c.id = t.campaign_id
		 WHERE s.id = $1`,
		submissionID,
	).Scan(
		&ac.Submission.ID, &ac.Submission.TelegramID, &ac.Submission.TaskID,
		&ac.Submission.Answer, &ac.Submission.Status, &ac.Submission.DecidedAt,
		&ac.Submission.CreatedAt,
		&ac.TaskTitle, &ac.Reward, &ac.CampaignID, &ac.Budget, &ac.Spent, &ac.CampaignActive,
	)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load approval context: %w", err)
	}
	return &ac, nil
}

func (s *Store) ApplyApproval(ctx context.Context, p repository.ApplyApprovalParams) (int64, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the campaign row. If spent moved since the decision snapshot the
	// caller must re-read and decide again.
	var spent, budget int64
	err = tx.QueryRow(ctx,
		`SELECT spent, budget FROM campaigns WHERE id = $1 FOR UPDATE`, p.CampaignID,
	).Scan(&spent, &budget)
	if err == pgx.ErrNoRows {
		return 0, domain.ErrCampaignNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lock campaign: %w", err)
	}
	// The submission's state decides before the budget guards do: retrying
	// an already-decided submission is ErrInvalidState even when the
	// campaign counters would also conflict.
	var status domain.SubmissionStatus
	err = tx.QueryRow(ctx,
		`SELECT status FROM submissions WHERE id = $1 FOR UPDATE`, p.SubmissionID,
	).Scan(&status)
	if err == pgx.ErrNoRows {
		return 0, domain.ErrSubmissionNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lock submission: %w", err)
	}
	if status != domain.SubmissionStatusPending {
		return 0, domain.ErrInvalidState
	}

	if spent != p.ExpectedSpent {
		return 0, domain.ErrConcurrencyConflict
	}
	if spent+p.Reward > budget {
		// Cannot happen while spent matches the decision snapshot; kept as
		// a hard stop so the invariant survives caller bugs.
		return 0, domain.ErrConcurrencyConflict
	}

	if _, err := tx.Exec(ctx,
		`UPDATE campaigns SET spent = spent + $1 WHERE id = $2`,
		p.Reward, p.CampaignID,
	); err != nil {
		return 0, fmt.Errorf("update campaign spent: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE submissions SET status = $1, decided_at = NOW() WHERE id = $2`,
		domain.SubmissionStatusApproved, p.SubmissionID,
	); err != nil {
		return 0, fmt.Errorf("update submission: %w", err)
	}

	var newBalance int64
	err = tx.QueryRow(ctx,
		`UPDATE users SET balance = balance + $1, updated_at = NOW() WHERE tg_id = $2
		 RETURNING balance`,
		p.Reward, p.TelegramID,
	).Scan(&newBalance)
	if err == pgx.ErrNoRows {
		return 0, domain.ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("credit user: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO ledger_entries (id, tg_id, campaign_id, submission_id, amount, entry_type, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.NewString(), p.TelegramID, p.CampaignID, p.SubmissionID,
		p.Reward, domain.EntryTypeReward, p.Description,
	); err != nil {
		return 0, fmt.Errorf("insert ledger entry: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return newBalance, nil
}

func (s *Store) CloseCampaignUnpaid(ctx context.Context, p repository.CloseUnpaidParams) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE submissions SET status = $1, decided_at = NOW() WHERE id = $2 AND status = $3`,
		domain.SubmissionStatusClosedUnpaid, p.SubmissionID, domain.SubmissionStatusPending,
	)
	if err != nil {
		return fmt.Errorf("void submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidState
	}

	if _, err := tx.Exec(ctx,
		`UPDATE campaigns SET active = FALSE WHERE id = $1`, p.CampaignID,
	); err != nil {
		return fmt.Errorf("deactivate campaign: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) RejectSubmission(ctx context.Context, submissionID int64) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE submissions SET status = $1, decided_at = NOW() WHERE id = $2 AND status = $3`,
		domain.SubmissionStatusRejected, submissionID, domain.SubmissionStatusPending,
	)
	if err != nil {
		return fmt.Errorf("reject submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := s.db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM submissions WHERE id = $1)`, submissionID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check submission: %w", err)
		}
		if !exists {
			return domain.ErrSubmissionNotFound
		}
		return domain.ErrInvalidState
	}
	return nil
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (s *Store) CountSubmissionsByStatus(ctx context.Context, status domain.SubmissionStatus) (int64, error) {
	var n int64
	if err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM submissions WHERE status = $1`, status,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return n, nil
}

// interface guard
var _ repository.Store = (*Store)(nil)
