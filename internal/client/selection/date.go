// Package selection holds the user's current diary date and meal type and
// tells subscribers when either changes.
package selection

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/getfit/internal/client/models"
	"github.com/dmitrijs2005/getfit/internal/observer"
)

// Clock returns the current time. Tests replace it.
type Clock func() time.Time

// DateSelector tracks the diary date. It starts at today's local date.
type DateSelector struct {
	mu       sync.RWMutex
	selected models.Date
	now      Clock
	subs     observer.List[models.Date]
}

// NewDateSelector returns a selector on today's date. A nil clock means
// time.Now.
func NewDateSelector(now Clock) *DateSelector {
	if now == nil {
		now = time.Now
	}
	return &DateSelector{selected: models.DateOf(now()), now: now}
}

func (s *DateSelector) today() models.Date {
	return models.DateOf(s.now())
}

func (s *DateSelector) Selected() models.Date {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Set selects d and notifies subscribers with it.
func (s *DateSelector) Set(d models.Date) {
	s.mu.Lock()
	s.selected = d
	s.mu.Unlock()

	s.subs.Notify(d)
}

func (s *DateSelector) Previous() models.Date { return s.shift(-1) }

func (s *DateSelector) Next() models.Date { return s.shift(1) }

// Today selects the current date.
func (s *DateSelector) Today() models.Date {
	d := s.today()
	s.Set(d)
	return d
}

func (s *DateSelector) shift(days int) models.Date {
	s.mu.Lock()
	d := s.selected.AddDays(days)
	s.selected = d
	s.mu.Unlock()

	s.subs.Notify(d)
	return d
}

func (s *DateSelector) IsToday() bool {
	return s.Selected().Equal(s.today())
}

// Display renders the selected date as "Today", "Yesterday" or e.g.
// "Mon, Jan 2".
func (s *DateSelector) Display() string {
	d := s.Selected()
	today := s.today()

	switch {
	case d.Equal(today):
		return "Today"
	case d.Equal(today.AddDays(-1)):
		return "Yesterday"
	default:
		return d.Format("Mon, Jan 2")
	}
}

// Subscribe calls fn with the new date after every change.
func (s *DateSelector) Subscribe(fn func(models.Date)) (cancel func()) {
	return s.subs.Subscribe(fn)
}
