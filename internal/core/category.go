package core

// Known category labels. Other labels are accepted and kept verbatim.
const (
	CategoryFood          = "Food & Grocery"
	CategoryEntertainment = "Entertainment"
	CategoryHousing       = "Housing"
	CategoryShopping      = "Shopping"
	CategoryTransport     = "Transport"
	CategorySalary        = "Salary/Work"
	CategoryOther         = "Other"
)

// DefaultCategoryColor is used for labels outside the known set.
const DefaultCategoryColor = "#94a3b8"

var categoryColors = map[string]string{
	CategoryFood:          "#f59e0b",
	CategoryEntertainment: "#6366f1",
	CategoryHousing:       "#3b82f6",
	CategoryShopping:      "#ec4899",
	CategoryTransport:     "#14b8a6",
	CategorySalary:        "#10b981",
	CategoryOther:         DefaultCategoryColor,
}

// Categories returns the known labels in display order.
func Categories() []string {
	return []string{
		CategoryFood,
		CategoryEntertainment,
		CategoryHousing,
		CategoryShopping,
		CategoryTransport,
		CategorySalary,
		CategoryOther,
	}
}

// IsKnownCategory reports whether label belongs to the fixed label set.
func IsKnownCategory(label string) bool {
	_, ok := categoryColors[label]
	return ok
}

// CategoryColor returns the presentation color for label.
func CategoryColor(label string) string {
	if c, ok := categoryColors[label]; ok {
		return c
	}
	return DefaultCategoryColor
}
