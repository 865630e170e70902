package validation

import (
	"strings"
	"testing"

	"github.com/ismyyear/lockin/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("alice@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail(strings.Repeat("a", 250)+"@x.io"))
}

func TestValidatePoints(t *testing.T) {
	assert.NoError(t, ValidatePoints(0))
	assert.NoError(t, ValidatePoints(100))
	assert.Error(t, ValidatePoints(-1))
	assert.Error(t, ValidatePoints(101))
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, ValidateDate("2025-02-28"))
	assert.Error(t, ValidateDate(""))
	assert.Error(t, ValidateDate("2025-02-30"))
	assert.Error(t, ValidateDate("28/02/2025"))
}

func TestCleanGoals(t *testing.T) {
	got, err := CleanGoals([]model.GoalItem{
		{Name: "  Read ", Target: 20, Unit: model.GoalUnitMinutesPerDay},
		{Name: "", Target: 3, Unit: model.GoalUnitDaysPerWeek},
		{Name: "Gym", Target: 0, Unit: model.GoalUnitDaysPerWeek},
		{Name: "Ghost", Target: -1, Unit: "parsecs"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.GoalItems{{Name: "Read", Target: 20, Unit: model.GoalUnitMinutesPerDay}}, got)
}

func TestCleanGoalsRejectsUnknownUnit(t *testing.T) {
	_, err := CleanGoals([]model.GoalItem{{Name: "Run", Target: 5, Unit: "km/day"}})
	assert.ErrorContains(t, err, "unknown unit")
}

func TestCleanGoalsEmpty(t *testing.T) {
	got, err := CleanGoals(nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestValidateGoal2026(t *testing.T) {
	assert.NoError(t, ValidateGoal2026(strings.Repeat("é", MaxGoal2026Length)))
	assert.Error(t, ValidateGoal2026(strings.Repeat("a", MaxGoal2026Length+1)))
}
