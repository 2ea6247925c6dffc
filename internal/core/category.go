package core

import "strings"

// Category is one of the closed set of expense categories inferred from a
// free-text expense title.
type Category string

const (
	CategoryFood      Category = "Food"
	CategoryTransport Category = "Transport"
	CategoryGroceries Category = "Groceries"
	CategoryUtilities Category = "Utilities"
	CategoryCleaning  Category = "Cleaning"
	CategoryOthers    Category = "Others"
)

type categoryRule struct {
	category Category
	keywords []string
}

// Rule order matters: the first matching rule wins, so "water" always lands
// in Utilities even though a cleaning product might mention it.
var categoryRules = []categoryRule{
	{CategoryFood, []string{"food", "meal", "restaurant"}},
	{CategoryTransport, []string{"transport", "fuel", "uber"}},
	{CategoryGroceries, []string{"grocery", "milk", "vegetable"}},
	{CategoryUtilities, []string{"utility", "electricity", "water"}},
	{CategoryCleaning, []string{"clean", "soap", "detergent"}},
}

// InferCategory maps an expense title to a category by substring match on the
// lowercased title. Titles matching no rule fall through to Others.
func InferCategory(title string) Category {
	lower := strings.ToLower(title)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return CategoryOthers
}
