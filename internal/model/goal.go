package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	GoalUnitDaysPerWeek   = "days/week"
	GoalUnitTimesPerWeek  = "times/week"
	GoalUnitMinutesPerDay = "minutes/day"
	GoalUnitHoursPerDay   = "hours/day"
)

var GoalUnits = []string{
	GoalUnitDaysPerWeek,
	GoalUnitTimesPerWeek,
	GoalUnitMinutesPerDay,
	GoalUnitHoursPerDay,
}

type GoalItem struct {
	Name   string  `json:"name"`
	Target float64 `json:"target"`
	Unit   string  `json:"unit"`
}

// GoalItems is stored as a JSON array in a single column.
type GoalItems []GoalItem

func (g GoalItems) Value() (driver.Value, error) {
	if g == nil {
		g = GoalItems{}
	}
	b, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (g *GoalItems) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*g = GoalItems{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported goals column type %T", src)
	}
	if len(data) == 0 {
		*g = GoalItems{}
		return nil
	}
	return json.Unmarshal(data, g)
}

// GoalList is the single goals row a user owns.
type GoalList struct {
	UserID    string    `db:"user_id" json:"user_id"`
	Goals     GoalItems `db:"goals" json:"goals"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
