package selection

import (
	"sync"

	"github.com/dmitrijs2005/getfit/internal/client/models"
	"github.com/dmitrijs2005/getfit/internal/observer"
)

// DefaultMealType is selected until the user picks another.
const DefaultMealType = models.Breakfast

type MealTypeSelector struct {
	mu       sync.RWMutex
	selected models.MealType
	subs     observer.List[models.MealType]
}

func NewMealTypeSelector() *MealTypeSelector {
	return &MealTypeSelector{selected: DefaultMealType}
}

func (s *MealTypeSelector) Selected() models.MealType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Set selects m and notifies subscribers. Values outside the closed set are
// rejected and leave the selection unchanged.
func (s *MealTypeSelector) Set(m models.MealType) error {
	if !m.Valid() {
		_, err := models.ParseMealType(string(m))
		return err
	}

	s.mu.Lock()
	s.selected = m
	s.mu.Unlock()

	s.subs.Notify(m)
	return nil
}

func (s *MealTypeSelector) Subscribe(fn func(models.MealType)) (cancel func()) {
	return s.subs.Subscribe(fn)
}
