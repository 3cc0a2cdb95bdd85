package grocery

import (
	"sort"
)

const (
	// DefaultDepartment receives every item no taxonomy keyword matches.
	DefaultDepartment = "Other"

	// CompletedDepartment is the reserved pseudo-department that holds
	// checked items after a reorganize. It is a canonical-model section,
	// never a taxonomy target, and is always rendered last.
	CompletedDepartment = "Completed Items"
)

// GroceryItem is a single entry on the shopping list.
type GroceryItem struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Quantity        string `json:"quantity,omitempty"`
	IsChecked       bool   `json:"isChecked"`
	RelatedMealID   string `json:"relatedMealId,omitempty"`
	RelatedMealName string `json:"relatedMealName,omitempty"`

	// Department mirrors the owning section's name. It is not persisted on
	// the item itself; the store derives it from the section on load.
	Department string `json:"-"`
}

// GroceryDepartment groups items under one shopping category.
type GroceryDepartment struct {
	Name  string        `json:"name"`
	Items []GroceryItem `json:"items"`
}

// GroceryList is the canonical sectioned list for one meal plan.
type GroceryList struct {
	ID       string              `json:"id"`
	Sections []GroceryDepartment `json:"sections"`
}

// Clone returns a deep copy of the list.
func (l *GroceryList) Clone() *GroceryList {
	out := &GroceryList{ID: l.ID}
	if l.Sections != nil {
		out.Sections = make([]GroceryDepartment, len(l.Sections))
		for i, sec := range l.Sections {
			items := make([]GroceryItem, len(sec.Items))
			copy(items, sec.Items)
			out.Sections[i] = GroceryDepartment{Name: sec.Name, Items: items}
		}
	}
	return out
}

// FindItem returns the item with the given id and the name of its owning
// department, or ErrItemNotFound.
func (l *GroceryList) FindItem(id string) (GroceryItem, string, error) {
	for _, sec := range l.Sections {
		for _, item := range sec.Items {
			if item.ID == id {
				return item, sec.Name, nil
			}
		}
	}
	return GroceryItem{}, "", ErrItemNotFound
}

// UncheckedCount returns the number of unchecked items across all sections.
func (l *GroceryList) UncheckedCount() int {
	n := 0
	for _, sec := range l.Sections {
		for _, item := range sec.Items {
			if !item.IsChecked {
				n++
			}
		}
	}
	return n
}

// ItemCount returns the total number of items across all sections.
func (l *GroceryList) ItemCount() int {
	n := 0
	for _, sec := range l.Sections {
		n += len(sec.Items)
	}
	return n
}

// section returns a pointer to the named section, or nil.
func (l *GroceryList) section(name string) *GroceryDepartment {
	for i := range l.Sections {
		if l.Sections[i].Name == name {
			return &l.Sections[i]
		}
	}
	return nil
}

// ensureSection returns the named section, creating it in render position if
// missing. Sections stay alphabetical with CompletedDepartment pinned last so
// repeated renders of the same state are stable.
func (l *GroceryList) ensureSection(name string) *GroceryDepartment {
	if sec := l.section(name); sec != nil {
		return sec
	}
	l.Sections = append(l.Sections, GroceryDepartment{Name: name})
	l.sortSections()
	return l.section(name)
}

// sortSections orders sections alphabetically with CompletedDepartment last.
func (l *GroceryList) sortSections() {
	sort.SliceStable(l.Sections, func(i, j int) bool {
		a, b := l.Sections[i].Name, l.Sections[j].Name
		if a == CompletedDepartment {
			return false
		}
		if b == CompletedDepartment {
			return true
		}
		return a < b
	})
}

// upsertItem replaces the stored item with the same id, moving it between
// sections when the department changed, or inserts it into its department.
func (l *GroceryList) upsertItem(item GroceryItem) {
	if item.Department == "" {
		item.Department = DefaultDepartment
	}
	if _, dept, err := l.FindItem(item.ID); err == nil {
		if dept == item.Department {
			sec := l.section(dept)
			for i := range sec.Items {
				if sec.Items[i].ID == item.ID {
					sec.Items[i] = item
					return
				}
			}
		}
		l.removeItem(item.ID)
	}
	sec := l.ensureSection(item.Department)
	sec.Items = append(sec.Items, item)
}

// removeItem deletes the item and prunes its section when emptied.
// Returns false when the id is unknown.
func (l *GroceryList) removeItem(id string) bool {
	for si := range l.Sections {
		sec := &l.Sections[si]
		for ii := range sec.Items {
			if sec.Items[ii].ID == id {
				sec.Items = append(sec.Items[:ii], sec.Items[ii+1:]...)
				if len(sec.Items) == 0 {
					l.Sections = append(l.Sections[:si], l.Sections[si+1:]...)
				}
				return true
			}
		}
	}
	return false
}

// normalizeDepartments stamps every item with its owning section name.
// Used after decoding the persisted document, which carries the department
// only at the section level.
func (l *GroceryList) normalizeDepartments() {
	for si := range l.Sections {
		for ii := range l.Sections[si].Items {
			l.Sections[si].Items[ii].Department = l.Sections[si].Name
		}
	}
}
