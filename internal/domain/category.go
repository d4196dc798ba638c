package domain

import "strings"

// Category is a member of the fixed topic catalog.
type Category string

const (
	CategoryTechnology  Category = "Technology"
	CategoryBusiness    Category = "Business"
	CategoryHealth      Category = "Health"
	CategoryEducation   Category = "Education"
	CategoryCulture     Category = "Culture"
	CategoryPolitics    Category = "Politics"
	CategoryEnvironment Category = "Environment"
	CategorySports      Category = "Sports"

	// DefaultCategory is used when no classification signal fires.
	DefaultCategory = CategoryCulture
)

// CategoryEntry describes a catalog member.
type CategoryEntry struct {
	ID          int64    `json:"id" db:"id"`
	Name        Category `json:"name" db:"name"`
	Description string   `json:"description" db:"description"`
}

var catalog = []CategoryEntry{
	{Name: CategoryTechnology, Description: "Technology articles"},
	{Name: CategoryBusiness, Description: "Business articles"},
	{Name: CategoryHealth, Description: "Health articles"},
	{Name: CategoryEducation, Description: "Education articles"},
	{Name: CategoryCulture, Description: "Culture articles"},
	{Name: CategoryPolitics, Description: "Politics articles"},
	{Name: CategoryEnvironment, Description: "Environment articles"},
	{Name: CategorySports, Description: "Sports articles"},
}

// Catalog returns the eight catalog entries in their canonical order.
func Catalog() []CategoryEntry {
	out := make([]CategoryEntry, len(catalog))
	copy(out, catalog)
	return out
}

// Categories returns the catalog names in canonical order.
func Categories() []Category {
	out := make([]Category, 0, len(catalog))
	for _, entry := range catalog {
		out = append(out, entry.Name)
	}
	return out
}

// ParseCategory resolves a name case-insensitively against the catalog.
func ParseCategory(name string) (Category, bool) {
	name = strings.TrimSpace(name)
	for _, entry := range catalog {
		if strings.EqualFold(string(entry.Name), name) {
			return entry.Name, true
		}
	}
	return "", false
}
