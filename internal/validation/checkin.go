package validation

import (
	"errors"
	"fmt"

	"github.com/ismyyear/lockin/internal/model"
)

const (
	MinPoints = 0
	MaxPoints = 100
)

// ValidatePoints checks a check-in score is within 0..100
func ValidatePoints(points int) error {
	if points < MinPoints || points > MaxPoints {
		return fmt.Errorf("achieved_points must be between %d and %d", MinPoints, MaxPoints)
	}
	return nil
}

// ValidateDate checks a YYYY-MM-DD calendar date
func ValidateDate(date string) error {
	if date == "" {
		return errors.New("date is required")
	}
	if _, err := model.ParseDate(date); err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	return nil
}
