package validation

import "strings"

// MaxSuggestions caps the country type-ahead
const MaxSuggestions = 8

// Countries is the static list offered by the country type-ahead
var Countries = []string{
	"Argentina", "Australia", "Austria", "Belgium", "Bolivia", "Brazil",
	"Cambodia", "Cameroon", "Canada", "Chile", "China", "Colombia", "Costa Rica", "Croatia", "Cuba",
	"Czech Republic", "Denmark", "Dominican Republic", "Ecuador", "Egypt",
	"El Salvador", "Finland", "France", "Germany", "Greece", "Guatemala",
	"Honduras", "Hungary", "Iceland", "India", "Indonesia", "Ireland",
	"Israel", "Italy", "Japan", "Kenya", "Mexico", "Morocco", "Netherlands",
	"New Zealand", "Nicaragua", "Nigeria", "Norway", "Panama", "Paraguay",
	"Peru", "Philippines", "Poland", "Portugal", "Puerto Rico", "Romania",
	"South Africa", "South Korea", "Spain", "Sweden", "Switzerland",
	"Thailand", "Turkey", "Ukraine", "United Kingdom", "United States",
	"Uruguay", "Venezuela", "Vietnam",
}

// Suggest returns the countries starting with prefix, case-insensitively.
// An empty prefix yields nothing.
func Suggest(prefix string) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil
	}

	var out []string
	for _, c := range Countries {
		if strings.HasPrefix(strings.ToLower(c), prefix) {
			out = append(out, c)
			if len(out) == MaxSuggestions {
				break
			}
		}
	}
	return out
}
