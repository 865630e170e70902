package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ismyyear/lockin/internal/model"
	"github.com/jmoiron/sqlx"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	ByID(ctx context.Context, id string) (*model.User, error)
	ByIDs(ctx context.Context, ids []string) ([]*model.User, error)
	IDs(ctx context.Context) ([]string, error)
	UpdateFocus(ctx context.Context, id, focus, joinedMonth string) error
	UpdateProfile(ctx context.Context, id string, goal *string, public bool) error
	UpdateStreaks(ctx context.Context, id string, current, longest int) error
	FindUnmatched(ctx context.Context, focus, excludeID string) (*model.User, error)
	LinkPartners(ctx context.Context, userID, partnerID string) error
	PublicGoals(ctx context.Context, limit int) ([]*model.PublicGoal, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts the user. Re-creating an existing id is a no-op.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, email, is_new_user, goal_public, current_streak, longest_streak, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.IsNewUser,
		user.GoalPublic,
		user.CurrentStreak,
		user.LongestStreak,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	return nil
}

func (r *userRepository) ByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) ByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	users := []*model.User{}
	if len(ids) == 0 {
		return users, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	err = r.db.SelectContext(ctx, &users, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) IDs(ctx context.Context) ([]string, error) {
	ids := []string{}
	err := r.db.SelectContext(ctx, &ids, `SELECT id FROM users ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// UpdateFocus records the registration intent and clears the new-user flag.
func (r *userRepository) UpdateFocus(ctx context.Context, id, focus, joinedMonth string) error {
	query := `UPDATE users SET primary_focus = $1, joined_month = $2, is_new_user = $3 WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, focus, joinedMonth, false, id)
	if err != nil {
		return err
	}

	return requireRow(result, ErrUserNotFound)
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, goal *string, public bool) error {
	query := `UPDATE users SET goal_2026 = $1, goal_public = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, goal, public, id)
	if err != nil {
		return err
	}

	return requireRow(result, ErrUserNotFound)
}

func (r *userRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	query := `UPDATE users SET current_streak = $1, longest_streak = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, current, longest, id)
	if err != nil {
		return err
	}

	return requireRow(result, ErrUserNotFound)
}

// FindUnmatched returns the earliest-joined user with the given focus and no partner.
func (r *userRepository) FindUnmatched(ctx context.Context, focus, excludeID string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users
	          WHERE primary_focus = $1 AND partner_id IS NULL AND id <> $2
	          ORDER BY joined_month ASC, created_at ASC, id ASC
	          LIMIT 1`

	err := r.db.GetContext(ctx, user, query, focus, excludeID)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// LinkPartners points both users at each other inside one transaction.
// Each side is only written while it is still unmatched, so a concurrent
// match on either user makes the whole link fail with ErrPartnerUnavailable.
func (r *userRepository) LinkPartners(ctx context.Context, userID, partnerID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `UPDATE users SET partner_id = $1 WHERE id = $2 AND partner_id IS NULL`

	result, err := tx.ExecContext(ctx, query, partnerID, userID)
	if err != nil {
		return fmt.Errorf("failed to link user: %w", err)
	}
	err = requireRow(result, ErrPartnerUnavailable)
	if err != nil {
		return err
	}

	result, err = tx.ExecContext(ctx, query, userID, partnerID)
	if err != nil {
		return fmt.Errorf("failed to link partner: %w", err)
	}
	err = requireRow(result, ErrPartnerUnavailable)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *userRepository) PublicGoals(ctx context.Context, limit int) ([]*model.PublicGoal, error) {
	goals := []*model.PublicGoal{}
	query := `SELECT * FROM public_goals ORDER BY created_at DESC, id ASC LIMIT $1`

	err := r.db.SelectContext(ctx, &goals, query, limit)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func requireRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return notFound
	}

	return nil
}
