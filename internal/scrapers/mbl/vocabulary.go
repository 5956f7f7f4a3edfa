// internal/scrapers/mbl/vocabulary.go
package mbl

// Public category keys and the codes the search form expects for them.
var categoryCodes = map[string]string{
	"fjolbyli":   "fjolb",
	"einbyli":    "einb",
	"haed":       "haedir",
	"radhus":     "radpar",
	"hesthus":    "hesthus",
	"jord":       "jord",
	"sumarhus":   "sumarhus",
	"nybygging":  "nybygg",
	"atvinnuhus": "atvinnuhus",
	"annad":      "annad",
}

// Category labels as printed on a listing card.
var sourceCategories = map[string]string{
	"Fjölbýli":   "fjolbyli",
	"Einbýli":    "einbyli",
	"Hæðir":      "haed",
	"Par/Raðhús": "radhus",
	"Hesthús":    "hesthus",
	"Jörð":       "jord",
	"Sumarhús":   "sumarhus",
	"Nýbygging":  "nybygging",
	"Atvinnuhús": "atvinnuhus",
	"Annað":      "annad",
}

var featureCodes = map[string]string{
	"elevator": "lyfta",
	"garage":   "bilskur",
}

const DefaultSort = "date"

var sortCodes = map[string]string{
	"date":        "date",
	"price_asc":   "pricea",
	"price_desc":  "priced",
	"size_asc":    "sizea",
	"size_desc":   "sized",
	"postal_code": "postnr",
	"category":    "teg",
	"type":        "teg",
}

// CategoryCode returns the form code for a public category key.
func CategoryCode(key string) (string, bool) {
	code, ok := categoryCodes[key]
	return code, ok
}

// FeatureCode returns the form code for a public extra-feature key.
func FeatureCode(key string) (string, bool) {
	code, ok := featureCodes[key]
	return code, ok
}

// SortCode returns the form code for a public sort key.
func SortCode(key string) (string, bool) {
	code, ok := sortCodes[key]
	return code, ok
}

// CategoryFromSource maps the category label of a card to a public key.
func CategoryFromSource(label string) (string, bool) {
	key, ok := sourceCategories[label]
	return key, ok
}
