package grocery

import "strings"

// taxonomyEntry binds one department to the keywords that route items into it.
type taxonomyEntry struct {
	department string
	keywords   []string
}

// taxonomy is the ordered keyword table used by Classify. Declaration order is
// the tie-break: the first department whose keyword appears as a substring
// wins. "Onion powder" must land in "Spices & Herbs", which is why that entry
// precedes "Produce" (whose "onion" keyword would otherwise claim it).
// Treat reordering as a behavior change, not a cleanup.
//
// The table is immutable, process-wide configuration; Classify never writes
// to it, so concurrent classification needs no locking.
var taxonomy = []taxonomyEntry{
	{"Frozen", []string{
		"frozen", "ice cream", "popsicle",
	}},
	{"Bakery", []string{
		"bread", "tortilla", "bun", "bagel", "pita", "croissant", "baguette",
	}},
	{"Dairy & Eggs", []string{
		"milk", "cheese", "butter", "yogurt", "cream", "egg",
	}},
	{"Snacks", []string{
		"chips", "cracker", "cookie", "popcorn", "chocolate", "pretzel", "granola bar",
	}},
	{"Meat & Seafood", []string{
		"beef", "chicken", "pork", "turkey", "bacon", "sausage", "ham",
		"steak", "fish", "salmon", "tuna", "shrimp", "lamb",
	}},
	{"Spices & Herbs", []string{
		"salt", "powder", "black pepper", "peppercorn", "oregano", "cumin",
		"paprika", "cinnamon", "spice", "seasoning", "herb", "basil", "thyme",
		"rosemary", "vanilla", "bay leaf",
	}},
	{"Canned & Jarred", []string{
		"canned", "can of", "jar", "broth", "stock", "soup", "olive", "pickle",
	}},
	{"Condiments & Sauces", []string{
		"ketchup", "mustard", "mayo", "sauce", "vinegar", "oil", "dressing",
		"honey", "syrup", "salsa", "jam",
	}},
	{"Dry Goods & Pasta", []string{
		"pasta", "spaghetti", "noodle", "rice", "flour", "sugar", "cereal",
		"oat", "bean", "lentil", "quinoa", "couscous",
	}},
	{"Beverages", []string{
		"juice", "soda", "coffee", "tea", "wine", "beer",
		"sparkling water", "bottled water",
	}},
	{"Produce", []string{
		"apple", "banana", "orange", "berry", "grape", "lemon", "lime",
		"avocado", "tomato", "potato", "onion", "garlic", "carrot", "celery",
		"lettuce", "spinach", "kale", "broccoli", "cauliflower", "cucumber",
		"zucchini", "mushroom", "pepper", "cilantro", "parsley", "ginger",
		"cabbage", "corn", "peas",
	}},
}

// Classify maps an item name to its department name. It lower-cases the name
// and tests each taxonomy entry in declaration order; items matching nothing
// fall back to DefaultDepartment. Pure and total: every input maps to exactly
// one department, never an error.
func Classify(name string) string {
	lower := strings.ToLower(name)
	for _, entry := range taxonomy {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.department
			}
		}
	}
	return DefaultDepartment
}

// Departments returns the taxonomy's department names in declaration order,
// without the fallback department.
func Departments() []string {
	out := make([]string, len(taxonomy))
	for i, entry := range taxonomy {
		out[i] = entry.department
	}
	return out
}
