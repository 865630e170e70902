package validation

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/ismyyear/lockin/internal/model"
)

// MaxGoal2026Length caps the public yearly goal, counted in characters.
const MaxGoal2026Length = 200

// CleanGoals trims names and drops entries without a name or a positive
// target. Any remaining entry with an unknown unit is rejected.
func CleanGoals(items []model.GoalItem) (model.GoalItems, error) {
	cleaned := make(model.GoalItems, 0, len(items))
	for _, item := range items {
		item.Name = strings.TrimSpace(item.Name)
		if item.Name == "" || item.Target <= 0 {
			continue
		}

		item.Unit = strings.TrimSpace(item.Unit)
		if !slices.Contains(model.GoalUnits, item.Unit) {
			return nil, fmt.Errorf("goal %q has unknown unit %q (allowed: %s)",
				item.Name, item.Unit, strings.Join(model.GoalUnits, ", "))
		}

		cleaned = append(cleaned, item)
	}
	return cleaned, nil
}

// ValidateGoal2026 validates the public yearly goal text
func ValidateGoal2026(goal string) error {
	if utf8.RuneCountInString(goal) > MaxGoal2026Length {
		return fmt.Errorf("goal_2026 is too long (max %d characters)", MaxGoal2026Length)
	}
	return nil
}
