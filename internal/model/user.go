package model

import (
	"time"
)

type User struct {
	ID            string    `db:"id" json:"id"`
	Email         string    `db:"email" json:"email"`
	PrimaryFocus  *string   `db:"primary_focus" json:"primary_focus"`
	PartnerID     *string   `db:"partner_id" json:"partner_id"`
	JoinedMonth   *string   `db:"joined_month" json:"joined_month"` // YYYY-MM
	IsNewUser     bool      `db:"is_new_user" json:"is_new_user"`
	Goal2026      *string   `db:"goal_2026" json:"goal_2026"`
	GoalPublic    bool      `db:"goal_public" json:"goal_public"`
	CurrentStreak int       `db:"current_streak" json:"current_streak"`
	LongestStreak int       `db:"longest_streak" json:"longest_streak"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

func (u *User) HasPartner() bool {
	return u.PartnerID != nil && *u.PartnerID != ""
}

// PublicGoal is a row of the public_goals view.
type PublicGoal struct {
	ID            string    `db:"id"`
	Email         string    `db:"email"`
	PrimaryFocus  *string   `db:"primary_focus"`
	Goal2026      *string   `db:"goal_2026"`
	CurrentStreak int       `db:"current_streak"`
	LongestStreak int       `db:"longest_streak"`
	CreatedAt     time.Time `db:"created_at"`
}
