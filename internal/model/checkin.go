package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar-day format used for check-in dates.
const DateLayout = "2006-01-02"

// MonthLayout is the format of User.JoinedMonth.
const MonthLayout = "2006-01"

type Checkin struct {
	ID             string         `db:"id" json:"id"`
	UserID         string         `db:"user_id" json:"user_id"`
	Date           string         `db:"date" json:"date"`
	AchievedPoints int            `db:"achieved_points" json:"achieved_points"`
	CompletedGoals CompletedGoals `db:"completed_goals" json:"completed_goals"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// CompletedGoals maps goal name to whether it was done that day.
type CompletedGoals map[string]bool

func (c CompletedGoals) Value() (driver.Value, error) {
	if c == nil {
		c = CompletedGoals{}
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *CompletedGoals) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*c = CompletedGoals{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported completed_goals column type %T", src)
	}
	if len(data) == 0 {
		*c = CompletedGoals{}
		return nil
	}
	return json.Unmarshal(data, c)
}

// FormatDate renders t as a check-in date in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD check-in date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
