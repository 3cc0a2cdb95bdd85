package grocery

import "testing"

func exportFixture() *GroceryList {
	return &GroceryList{
		ID: "plan-1",
		Sections: []GroceryDepartment{
			{Name: "Dairy & Eggs", Items: []GroceryItem{
				{ID: "itm-1", Name: "Milk", Quantity: "1 gallon"},
				{ID: "itm-2", Name: "Eggs", IsChecked: true},
			}},
			{Name: "Produce", Items: []GroceryItem{
				{ID: "itm-3", Name: "Onion"},
			}},
		},
	}
}

func TestExportText(t *testing.T) {
	t.Run("with headers", func(t *testing.T) {
		got := ExportText(exportFixture(), ExportOptions{DepartmentHeaders: true})
		want := "Dairy & Eggs:\nMilk (1 gallon)\n\nProduce:\nOnion\n"
		if got != want {
			t.Errorf("unexpected export:\ngot:  %q\nwant: %q", got, want)
		}
	})

	t.Run("without headers", func(t *testing.T) {
		got := ExportText(exportFixture(), ExportOptions{})
		want := "Milk (1 gallon)\nOnion\n"
		if got != want {
			t.Errorf("unexpected export:\ngot:  %q\nwant: %q", got, want)
		}
	})

	t.Run("checked items are skipped", func(t *testing.T) {
		list := exportFixture()
		for si := range list.Sections {
			for ii := range list.Sections[si].Items {
				list.Sections[si].Items[ii].IsChecked = true
			}
		}
		if got := ExportText(list, ExportOptions{DepartmentHeaders: true}); got != "" {
			t.Errorf("expected empty export, got %q", got)
		}
	})

	t.Run("fully checked section omits its header", func(t *testing.T) {
		list := exportFixture()
		list.Sections[0].Items[0].IsChecked = true // Milk; Eggs already checked
		got := ExportText(list, ExportOptions{DepartmentHeaders: true})
		want := "Produce:\nOnion\n"
		if got != want {
			t.Errorf("unexpected export:\ngot:  %q\nwant: %q", got, want)
		}
	})

	t.Run("byte stable for unchanged state", func(t *testing.T) {
		list := exportFixture()
		first := ExportText(list, ExportOptions{DepartmentHeaders: true})
		for i := 0; i < 3; i++ {
			if got := ExportText(list, ExportOptions{DepartmentHeaders: true}); got != first {
				t.Fatalf("export unstable on run %d:\ngot:  %q\nwant: %q", i, got, first)
			}
		}
	})

	t.Run("empty list", func(t *testing.T) {
		if got := ExportText(&GroceryList{ID: "plan-1"}, ExportOptions{DepartmentHeaders: true}); got != "" {
			t.Errorf("expected empty export, got %q", got)
		}
	})
}
