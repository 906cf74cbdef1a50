package pricing

import (
	"sort"

	"wakacjecypr/internal/domain/models"
	"wakacjecypr/internal/utils"
)

var locations = []models.Location{
	{Code: "larnaca", Name: "Larnaca", Kind: models.LocationCity, RequiresAddress: true},
	{Code: "larnaca-airport", Name: "Larnaca Airport", Kind: models.LocationAirport},
	{Code: "nicosia", Name: "Nicosia", Kind: models.LocationCity, RequiresAddress: true},
	{Code: "limassol", Name: "Limassol", Kind: models.LocationCity, RequiresAddress: true},
	{Code: "ayia-napa", Name: "Ayia Napa", Kind: models.LocationCity, RequiresAddress: true},
	{Code: "protaras", Name: "Protaras", Kind: models.LocationCity, RequiresAddress: true},
	{Code: "paphos", Name: "Paphos", Kind: models.LocationCity, Regional: true, RequiresAddress: true},
	{Code: "paphos-airport", Name: "Paphos Airport", Kind: models.LocationAirport, Regional: true},
	{Code: "coral-bay", Name: "Coral Bay", Kind: models.LocationCity, Regional: true, RequiresAddress: true},
	{Code: "polis", Name: "Polis", Kind: models.LocationCity, Regional: true, RequiresAddress: true},
}

var aliases = map[string]string{
	"lca":       "larnaca-airport",
	"pfo":       "paphos-airport",
	"lefkosia":  "nicosia",
	"lemesos":   "limassol",
	"pafos":     "paphos",
	"agianapa":  "ayia-napa",
	"poliscity": "polis",
}

var locationIndex = buildLocationIndex()

func buildLocationIndex() map[string]models.Location {
	idx := make(map[string]models.Location, len(locations)*2+len(aliases))
	for _, l := range locations {
		idx[utils.NormalizeKey(l.Code)] = l
		idx[utils.NormalizeKey(l.Name)] = l
	}
	for alias, code := range aliases {
		if l, ok := idx[utils.NormalizeKey(code)]; ok {
			idx[utils.NormalizeKey(alias)] = l
		}
	}
	return idx
}

// LookupLocation resolves a code, display name or alias, case-insensitively.
func LookupLocation(s string) (models.Location, bool) {
	key := utils.NormalizeKey(s)
	if key == "" {
		return models.Location{}, false
	}
	l, ok := locationIndex[key]
	return l, ok
}

// IsRegionalLocation reports whether s is inside the Paphos zone.
func IsRegionalLocation(s string) bool {
	l, ok := LookupLocation(s)
	return ok && l.Regional
}

// IsAirport reports whether s is a known airport.
func IsAirport(s string) bool {
	l, ok := LookupLocation(s)
	return ok && l.IsAirport()
}

// Locations lists the known locations, sorted by name.
func Locations() []models.Location {
	out := make([]models.Location, len(locations))
	copy(out, locations)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SameLocation compares two inputs after resolving them. Unknown inputs
// compare by normalized text.
func SameLocation(a, b string) bool {
	la, okA := LookupLocation(a)
	lb, okB := LookupLocation(b)
	if okA && okB {
		return la.Code == lb.Code
	}
	ka, kb := utils.NormalizeKey(a), utils.NormalizeKey(b)
	return ka != "" && ka == kb
}
