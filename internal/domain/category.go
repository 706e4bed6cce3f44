package domain

// UnknownCategoryName is displayed for transactions whose category is missing.
const UnknownCategoryName = "Unknown"

// Uncategorized bucket used by category aggregation for unmatched category ids.
const (
	UncategorizedID    = "uncategorized"
	UncategorizedName  = "Uncategorized"
	UncategorizedColor = "#9E9E9E"
)

// Category is a named, typed, colored grouping label.
type Category struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Type  TransactionType `json:"type"`
	Color string          `json:"color"`
}

// CategoryInfo is the display data aggregation needs for a category.
type CategoryInfo struct {
	Name  string
	Color string
}

// DefaultCategories returns the seeded category list: three income and five
// expense categories. The investment id keeps its historical spelling so
// stored transactions still resolve.
func DefaultCategories() []Category {
	return []Category{
		{ID: "salary", Name: "Salary", Type: TransactionTypeIncome, Color: "#4CAF50"},
		{ID: "freelance", Name: "Freelance", Type: TransactionTypeIncome, Color: "#8BC34A"},
		{ID: "investmant", Name: "Investment", Type: TransactionTypeIncome, Color: "#CDDC39"},
		{ID: "food", Name: "Food", Type: TransactionTypeExpense, Color: "#FF5722"},
		{ID: "transport", Name: "Transport", Type: TransactionTypeExpense, Color: "#FF9800"},
		{ID: "entertainment", Name: "Entertainment", Type: TransactionTypeExpense, Color: "#F44336"},
		{ID: "utilities", Name: "Utilities", Type: TransactionTypeExpense, Color: "#9C27B0"},
		{ID: "shopping", Name: "Shopping", Type: TransactionTypeExpense, Color: "#E91E63"},
	}
}

// CategoryLookup indexes categories by id.
func CategoryLookup(categories []Category) map[string]CategoryInfo {
	lookup := make(map[string]CategoryInfo, len(categories))
	for _, c := range categories {
		lookup[c.ID] = CategoryInfo{Name: c.Name, Color: c.Color}
	}
	return lookup
}

// FindCategory returns the category with the given id.
func FindCategory(categories []Category, id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// CategoryName returns the name of the category with the given id, or
// UnknownCategoryName when no such category exists.
func CategoryName(categories []Category, id string) string {
	if c, ok := FindCategory(categories, id); ok {
		return c.Name
	}
	return UnknownCategoryName
}

// CategoriesOfType returns the categories usable for transactions of type t,
// in their original order.
func CategoriesOfType(categories []Category, t TransactionType) []Category {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}
