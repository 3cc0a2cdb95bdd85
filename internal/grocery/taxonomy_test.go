package grocery

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		item string
		want string
	}{
		{"dairy staple", "Milk", "Dairy & Eggs"},
		{"case insensitive", "CHEDDAR CHEESE", "Dairy & Eggs"},
		{"produce", "Yellow Onion", "Produce"},
		{"meat", "Ground Beef", "Meat & Seafood"},
		{"bakery", "Flour Tortillas", "Bakery"},
		{"frozen wins over produce", "Frozen Peas", "Frozen"},
		{"spice before produce keyword", "Onion Powder", "Spices & Herbs"},
		{"garlic powder is a spice", "Garlic Powder", "Spices & Herbs"},
		{"bare pepper is produce", "Green Bell Pepper", "Produce"},
		{"black pepper is a spice", "Black Pepper", "Spices & Herbs"},
		{"steak is meat despite tea substring", "Ribeye Steak", "Meat & Seafood"},
		{"watermelon is not a beverage", "Watermelon", "Other"},
		{"sparkling water is a beverage", "Sparkling Water", "Beverages"},
		{"aluminum foil contains oil", "Aluminum Foil", "Condiments & Sauces"},
		{"unknown falls back", "Paper Towels", DefaultDepartment},
		{"empty name falls back", "", DefaultDepartment},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.item); got != tc.want {
				t.Errorf("Classify(%q) = %q, want %q", tc.item, got, tc.want)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	inputs := []string{"Milk", "Onion Powder", "Chicken Broth", "Aluminum Foil"}
	for _, in := range inputs {
		first := Classify(in)
		for i := 0; i < 5; i++ {
			if got := Classify(in); got != first {
				t.Fatalf("Classify(%q) unstable: got %q then %q", in, first, got)
			}
		}
	}
}

func TestClassifyNeverReturnsCompleted(t *testing.T) {
	inputs := []string{"Completed Items", "completed", "Milk", "random gadget"}
	for _, in := range inputs {
		if got := Classify(in); got == CompletedDepartment {
			t.Errorf("Classify(%q) returned the reserved department", in)
		}
	}
}

func TestDepartments(t *testing.T) {
	depts := Departments()
	if len(depts) == 0 {
		t.Fatal("expected at least one department")
	}
	for _, d := range depts {
		if d == DefaultDepartment {
			t.Errorf("fallback department %q must not appear in the taxonomy", d)
		}
		if d == CompletedDepartment {
			t.Errorf("reserved department %q must not appear in the taxonomy", d)
		}
	}
	// Spices must outrank Produce so "onion powder" never lands in Produce.
	spiceIdx, produceIdx := -1, -1
	for i, d := range depts {
		switch d {
		case "Spices & Herbs":
			spiceIdx = i
		case "Produce":
			produceIdx = i
		}
	}
	if spiceIdx == -1 || produceIdx == -1 || spiceIdx > produceIdx {
		t.Errorf("expected Spices & Herbs (%d) before Produce (%d)", spiceIdx, produceIdx)
	}
}
