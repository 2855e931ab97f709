package selection

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/getfit/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(y int, m time.Month, d, hour int) Clock {
	return func() time.Time { return time.Date(y, m, d, hour, 30, 0, 0, time.Local) }
}

func TestDateSelector_StartsToday(t *testing.T) {
	s := NewDateSelector(fixedClock(2024, time.March, 10, 23))

	assert.True(t, s.Selected().Equal(models.NewDate(2024, time.March, 10)))
	assert.True(t, s.IsToday())
	assert.Equal(t, "Today", s.Display())
}

func TestDateSelector_Navigation(t *testing.T) {
	s := NewDateSelector(fixedClock(2024, time.March, 1, 9))

	var seen []string
	s.Subscribe(func(d models.Date) { seen = append(seen, d.String()) })

	assert.Equal(t, "2024-02-29", s.Previous().String())
	assert.Equal(t, "Yesterday", s.Display())
	assert.False(t, s.IsToday())

	assert.Equal(t, "2024-02-28", s.Previous().String())
	assert.Equal(t, "Wed, Feb 28", s.Display())

	assert.Equal(t, "2024-02-29", s.Next().String())
	assert.Equal(t, "2024-03-01", s.Today().String())
	assert.True(t, s.IsToday())

	s.Set(models.NewDate(2024, time.March, 5))
	assert.Equal(t, "Tue, Mar 5", s.Display())

	assert.Equal(t, []string{"2024-02-29", "2024-02-28", "2024-02-29", "2024-03-01", "2024-03-05"}, seen)
}

func TestDateSelector_Unsubscribe(t *testing.T) {
	s := NewDateSelector(fixedClock(2024, time.March, 1, 9))

	calls := 0
	cancel := s.Subscribe(func(models.Date) { calls++ })
	s.Next()
	cancel()
	s.Next()

	assert.Equal(t, 1, calls)
}

func TestMealTypeSelector(t *testing.T) {
	s := NewMealTypeSelector()
	assert.Equal(t, models.Breakfast, s.Selected())

	var seen []models.MealType
	s.Subscribe(func(m models.MealType) { seen = append(seen, m) })

	require.NoError(t, s.Set(models.Dinner))
	assert.Equal(t, models.Dinner, s.Selected())

	err := s.Set("BRUNCH")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BREAKFAST, LUNCH, DINNER, SNACK, OTHER")
	assert.Equal(t, models.Dinner, s.Selected())

	assert.Equal(t, []models.MealType{models.Dinner}, seen)
}
