package grid

import (
	"sort"
	"time"

	"github.com/turnity/turnity/internal/domain"
)

// Key addresses one grid cell: an employee on a calendar day.
type Key struct {
	EmployeeID string
	Date       time.Time
}

// NewKey builds a Key with the date truncated to its calendar day.
func NewKey(employeeID string, date time.Time) Key {
	return Key{EmployeeID: employeeID, Date: domain.Day(date)}
}

func (k Key) String() string {
	return k.EmployeeID + "@" + domain.FormatDate(k.Date)
}

// Store is the in-memory lookup of assigned shifts for one grid session.
// It is not safe for concurrent use; the owning Session serialises access.
type Store struct {
	cells map[Key]domain.AssignedShift
}

func NewStore() *Store {
	return &Store{cells: make(map[Key]domain.AssignedShift)}
}

// Put inserts or overwrites the shift at k.
func (s *Store) Put(k Key, shift domain.AssignedShift) {
	s.cells[NewKey(k.EmployeeID, k.Date)] = shift
}

// Delete removes k and reports whether it was present.
func (s *Store) Delete(k Key) bool {
	k = NewKey(k.EmployeeID, k.Date)
	if _, ok := s.cells[k]; !ok {
		return false
	}
	delete(s.cells, k)
	return true
}

func (s *Store) Get(k Key) (domain.AssignedShift, bool) {
	shift, ok := s.cells[NewKey(k.EmployeeID, k.Date)]
	return shift, ok
}

func (s *Store) Len() int { return len(s.cells) }

// Keys returns every key ordered by employee, then date.
func (s *Store) Keys() []Key {
	keys := make([]Key, 0, len(s.cells))
	for k := range s.cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].EmployeeID != keys[j].EmployeeID {
			return keys[i].EmployeeID < keys[j].EmployeeID
		}
		return keys[i].Date.Before(keys[j].Date)
	})
	return keys
}

// Replace discards every entry and loads cells in their place.
func (s *Store) Replace(cells map[Key]domain.AssignedShift) {
	s.cells = make(map[Key]domain.AssignedShift, len(cells))
	for k, v := range cells {
		s.Put(k, v)
	}
}

// Clear empties the store.
func (s *Store) Clear() {
	s.cells = make(map[Key]domain.AssignedShift)
}

// Equal reports whether both stores hold the same shifts under the same keys.
func (s *Store) Equal(other *Store) bool {
	if s.Len() != other.Len() {
		return false
	}
	for k, a := range s.cells {
		b, ok := other.cells[k]
		if !ok || !sameShift(a, b) {
			return false
		}
	}
	return true
}

func sameShift(a, b domain.AssignedShift) bool {
	if a.Kind != b.Kind || a.Leave != b.Leave || a.HoursBucket != b.HoursBucket || a.Break != b.Break {
		return false
	}
	if (a.Shift == nil) != (b.Shift == nil) {
		return false
	}
	return a.Shift == nil || *a.Shift == *b.Shift
}
