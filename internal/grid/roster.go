package grid

import (
	"sort"
	"strings"

	"github.com/turnity/turnity/internal/domain"
)

// FilterRoster keeps the employees assigned to scope's store and
// department, one entry per employee, ordered by name.
func FilterRoster(all []domain.EmployeeRef, scope Scope) []domain.EmployeeRef {
	seen := make(map[string]bool)
	var out []domain.EmployeeRef
	for _, e := range all {
		if e.StoreID != scope.Store.ID || e.DepartmentID != scope.Department.ID {
			continue
		}
		if e.ID == "" || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].FullName) < strings.ToLower(out[j].FullName)
	})
	return out
}
