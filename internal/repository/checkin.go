package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ismyyear/lockin/internal/model"
	"github.com/jmoiron/sqlx"
)

type CheckinRepository interface {
	Upsert(ctx context.Context, checkin *model.Checkin) (*model.Checkin, error)
	ByUserAndDate(ctx context.Context, userID, date string) (*model.Checkin, error)
	ByUser(ctx context.Context, userID, from, to string) ([]*model.Checkin, error)
	InRange(ctx context.Context, from, to string) ([]*model.Checkin, error)
}

type checkinRepository struct {
	db *sqlx.DB
}

func NewCheckinRepository(db *sqlx.DB) CheckinRepository {
	return &checkinRepository{db: db}
}

// Upsert writes the day's check-in, overwriting points for an existing (user_id, date).
func (r *checkinRepository) Upsert(ctx context.Context, checkin *model.Checkin) (*model.Checkin, error) {
	query := `INSERT INTO checkins (id, user_id, date, achieved_points, completed_goals, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (user_id, date) DO UPDATE
	          SET achieved_points = excluded.achieved_points,
	              completed_goals = excluded.completed_goals,
	              updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		checkin.ID,
		checkin.UserID,
		checkin.Date,
		checkin.AchievedPoints,
		checkin.CompletedGoals,
		checkin.CreatedAt,
		checkin.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return r.ByUserAndDate(ctx, checkin.UserID, checkin.Date)
}

func (r *checkinRepository) ByUserAndDate(ctx context.Context, userID, date string) (*model.Checkin, error) {
	checkin := &model.Checkin{}
	query := `SELECT * FROM checkins WHERE user_id = $1 AND date = $2`

	err := r.db.GetContext(ctx, checkin, query, userID, date)
	if err == sql.ErrNoRows {
		return nil, ErrCheckinNotFound
	}
	if err != nil {
		return nil, err
	}

	return checkin, nil
}

// ByUser lists a user's check-ins newest first. Empty bounds are open.
func (r *checkinRepository) ByUser(ctx context.Context, userID, from, to string) ([]*model.Checkin, error) {
	checkins := []*model.Checkin{}

	query := `SELECT * FROM checkins WHERE user_id = $1`
	args := []any{userID}
	if from != "" {
		args = append(args, from)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if to != "" {
		args = append(args, to)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date DESC"

	err := r.db.SelectContext(ctx, &checkins, query, args...)
	if err != nil {
		return nil, err
	}

	return checkins, nil
}

// InRange lists every check-in with from <= date <= to.
func (r *checkinRepository) InRange(ctx context.Context, from, to string) ([]*model.Checkin, error) {
	checkins := []*model.Checkin{}
	query := `SELECT * FROM checkins WHERE date >= $1 AND date <= $2 ORDER BY date ASC, user_id ASC`

	err := r.db.SelectContext(ctx, &checkins, query, from, to)
	if err != nil {
		return nil, err
	}

	return checkins, nil
}
