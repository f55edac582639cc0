package client

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/frahmantamala/employee-admin/internal/core/events"
	"github.com/frahmantamala/employee-admin/internal/employee"
)

// Sortable keys for the employee table.
const (
	SortByName  = "name"
	SortByEmail = "email"
)

// DefaultPageSize matches the original table's rows-per-page default.
const DefaultPageSize = 5

// ListController holds the fetched collection and the view state: search
// term, sort key/direction, page index and page size. Filtering, sorting and
// pagination are all computed client-side over the full collection; every
// successful mutation triggers a full re-fetch rather than patching local
// state.
type ListController struct {
	api API
	bus *events.EventBus

	employees []*employee.Employee

	searchTerm string
	sortKey    string
	sortAsc    bool
	page       int
	pageSize   int
}

func NewListController(api API, bus *events.EventBus) *ListController {
	return &ListController{
		api:      api,
		bus:      bus,
		sortKey:  SortByName,
		sortAsc:  true,
		pageSize: DefaultPageSize,
	}
}

// Refresh re-fetches the full collection from the server.
func (lc *ListController) Refresh() error {
	employees, err := lc.api.ListEmployees()
	if err != nil {
		return err
	}
	lc.employees = employees
	return nil
}

// SetSearch updates the free-text filter term.
func (lc *ListController) SetSearch(term string) {
	lc.searchTerm = term
}

// SortBy activates a sort key. Re-selecting the active key flips the
// direction; a new key resets to ascending.
func (lc *ListController) SortBy(key string) {
	if lc.sortKey == key {
		lc.sortAsc = !lc.sortAsc
	} else {
		lc.sortKey = key
		lc.sortAsc = true
	}
}

func (lc *ListController) SortKey() string { return lc.sortKey }

func (lc *ListController) SortAscending() bool { return lc.sortAsc }

func (lc *ListController) SetPage(page int) {
	if page < 0 {
		page = 0
	}
	lc.page = page
}

func (lc *ListController) Page() int { return lc.page }

// SetPageSize changes the page size and resets to the first page.
func (lc *ListController) SetPageSize(size int) {
	if size < 1 {
		size = 1
	}
	lc.pageSize = size
	lc.page = 0
}

func (lc *ListController) PageSize() int { return lc.pageSize }

// Filtered returns the employees whose name or email contains the search
// term, case-insensitively. An empty term includes everyone.
func (lc *ListController) Filtered() []*employee.Employee {
	if lc.searchTerm == "" {
		return append([]*employee.Employee(nil), lc.employees...)
	}

	term := strings.ToLower(lc.searchTerm)
	filtered := make([]*employee.Employee, 0, len(lc.employees))
	for _, emp := range lc.employees {
		if strings.Contains(strings.ToLower(emp.Name), term) ||
			strings.Contains(strings.ToLower(emp.Email), term) {
			filtered = append(filtered, emp)
		}
	}
	return filtered
}

// Sorted returns the filtered collection ordered by the active sort key and
// direction. Plain lexicographic comparison; ties carry no guaranteed order.
func (lc *ListController) Sorted() []*employee.Employee {
	sorted := lc.Filtered()
	key := lc.sortKey
	asc := lc.sortAsc
	sort.Slice(sorted, func(i, j int) bool {
		var a, b string
		switch key {
		case SortByEmail:
			a, b = sorted[i].Email, sorted[j].Email
		default:
			a, b = sorted[i].Name, sorted[j].Name
		}
		if asc {
			return a < b
		}
		return a > b
	})
	return sorted
}

// Visible returns the current page of the filtered-and-sorted sequence.
func (lc *ListController) Visible() []*employee.Employee {
	sorted := lc.Sorted()

	start := lc.page * lc.pageSize
	if start >= len(sorted) {
		return nil
	}
	end := start + lc.pageSize
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[start:end]
}

// PageCount returns ceil(filtered length / page size).
func (lc *ListController) PageCount() int {
	n := len(lc.Filtered())
	if n == 0 {
		return 0
	}
	return (n + lc.pageSize - 1) / lc.pageSize
}

// ToggleActive flips one employee's active flag through the shared update
// path and re-fetches on success.
func (lc *ListController) ToggleActive(id int64) error {
	var current *employee.Employee
	for _, emp := range lc.employees {
		if emp.ID == id {
			current = emp
			break
		}
	}
	if current == nil {
		lc.notifyError("employee not found in current list")
		return fmt.Errorf("employee %d not in fetched collection", id)
	}

	next := !current.IsActive
	_, err := lc.api.UpdateEmployee(id, employee.UpdateEmployeeDTO{IsActive: &next})
	if err != nil {
		lc.notifyError("Error updating employee status")
		return err
	}

	lc.notifyInfo("Employee status updated successfully")
	return lc.Refresh()
}

// Delete asks for confirmation, deletes and re-fetches. A declined
// confirmation is not an error.
func (lc *ListController) Delete(id int64, confirm func() bool) error {
	if confirm != nil && !confirm() {
		return nil
	}

	if err := lc.api.DeleteEmployee(id); err != nil {
		lc.notifyError("Error deleting employee")
		return err
	}

	lc.notifyInfo("Employee deleted successfully")
	return lc.Refresh()
}

// SaveEdit submits an edit draft for one employee and re-fetches on success.
func (lc *ListController) SaveEdit(id int64, dto employee.UpdateEmployeeDTO) error {
	if _, err := lc.api.UpdateEmployee(id, dto); err != nil {
		lc.notifyError("Error updating employee")
		return err
	}

	lc.notifyInfo("Employee updated successfully")
	return lc.Refresh()
}

func (lc *ListController) notifyInfo(msg string) {
	if lc.bus != nil {
		_ = lc.bus.PublishSync(context.Background(), events.NewNotification(events.LevelInfo, msg))
	}
}

func (lc *ListController) notifyError(msg string) {
	if lc.bus != nil {
		_ = lc.bus.PublishSync(context.Background(), events.NewNotification(events.LevelError, msg))
	}
}
