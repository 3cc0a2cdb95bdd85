package grocery

import (
	"fmt"
	"strings"
)

// ExportOptions controls the plain-text rendering of a list.
type ExportOptions struct {
	// DepartmentHeaders prefixes each section's items with its name.
	DepartmentHeaders bool
}

// ExportText renders the unchecked items of the list as a flat shopping list,
// one item per line, starting with the item name and appending the quantity
// in parentheses when present. Checked items are skipped entirely.
//
// The output is byte-stable for unchanged state so copy-to-clipboard and
// print flows never see surprise diffs.
func ExportText(list *GroceryList, opts ExportOptions) string {
	var sb strings.Builder
	first := true
	for _, sec := range list.Sections {
		var lines []string
		for _, item := range sec.Items {
			if item.IsChecked {
				continue
			}
			line := item.Name
			if item.Quantity != "" {
				line = fmt.Sprintf("%s (%s)", item.Name, item.Quantity)
			}
			lines = append(lines, line)
		}
		if len(lines) == 0 {
			continue
		}
		if opts.DepartmentHeaders {
			if !first {
				sb.WriteString("\n")
			}
			sb.WriteString(sec.Name + ":\n")
		}
		for _, line := range lines {
			sb.WriteString(line + "\n")
		}
		first = false
	}
	return sb.String()
}
