package repository

import (
	"context"
	"database/sql"

	"github.com/ismyyear/lockin/internal/model"
	"github.com/jmoiron/sqlx"
)

type GoalRepository interface {
	ByUserID(ctx context.Context, userID string) (*model.GoalList, error)
	Upsert(ctx context.Context, list *model.GoalList) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) ByUserID(ctx context.Context, userID string) (*model.GoalList, error) {
	list := &model.GoalList{}
	query := `SELECT * FROM goals WHERE user_id = $1`

	err := r.db.GetContext(ctx, list, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalsNotFound
	}
	if err != nil {
		return nil, err
	}

	return list, nil
}

// Upsert replaces the user's goal list wholesale.
func (r *goalRepository) Upsert(ctx context.Context, list *model.GoalList) error {
	query := `INSERT INTO goals (user_id, goals, updated_at)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (user_id) DO UPDATE SET goals = excluded.goals, updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query, list.UserID, list.Goals, list.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrUserNotFound
		}
		return err
	}

	return nil
}
