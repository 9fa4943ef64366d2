package catalog

import (
	"time"

	"switch-pipeline/internal/models"
)

func f(v float64) *float64 { return &v }

// seedEntries is the built-in switch catalog used when neither the database
// nor the Redis snapshot can be reached. It covers the switches the knowledge
// templates reference, so entity resolution keeps working during outages.
func seedEntries() []models.CatalogEntry {
	return []models.CatalogEntry{
		{Name: "Cherry MX Red", Manufacturer: "Cherry", Category: "linear", NumericAttributes: map[string]*float64{"actuation_weight_g": f(45), "travel_mm": f(4.0)}},
		{Name: "Cherry MX Black", Manufacturer: "Cherry", Category: "linear", NumericAttributes: map[string]*float64{"actuation_weight_g": f(60), "travel_mm": f(4.0)}},
		{Name: "Cherry MX Brown", Manufacturer: "Cherry", Category: "tactile", NumericAttributes: map[string]*float64{"actuation_weight_g": f(55), "travel_mm": f(4.0)}},
		{Name: "Cherry MX Blue", Manufacturer: "Cherry", Category: "clicky", NumericAttributes: map[string]*float64{"actuation_weight_g": f(60), "travel_mm": f(4.0)}},
		{Name: "Cherry MX Speed Silver", Manufacturer: "Cherry", Category: "linear", NumericAttributes: map[string]*float64{"actuation_weight_g": f(45), "travel_mm": f(3.4)}},
		{Name: "Gateron Yellow", Manufacturer: "Gateron", Category: "linear", NumericAttributes: map[string]*float64{"actuation_weight_g": f(50), "travel_mm": f(4.0)}},
		{Name: "Gateron Red", Manufacturer: "Gateron", Category: "linear", NumericAttributes: map[string]*float64{"actuation_weight_g": f(45), "travel_mm": f(4.0)}},
		{Name: "Gateron Brown", Manufacturer: "Gateron", Category: "tactile", NumericAttributes: map[string]*float64{"actuation_weight_g": f(55), "travel_mm": f(4.0)}},
		{Name: "Gateron Oil King", Manufacturer: "Gateron", Category: "linear", NumericAttributes: map[string]*float64{"actuation_weight_g": f(55), "travel_mm": f(4.0)}},
		{Name: "Kailh Box White", Manufacturer: "Kailh", Category: "clicky", NumericAttributes: map[string]*float64{"actuation_weight_g": f(50), "travel_mm": f(3.6)}},
		{Name: "Kailh Box Jade", Manufacturer: "Kailh", Category: "clicky", NumericAttributes: map[string]*float64{"actuation_weight_g": f(50), "travel_mm": f(3.6)}},
		{Name: "Kailh Speed Copper", Manufacturer: "Kailh", Category: "tactile", NumericAttributes: map[string]*float64{"actuation_weight_g": f(50), "travel_mm": f(3.5)}},
		{Name: "Holy Panda", Manufacturer: "Drop", Category: "tactile", NumericAttributes: map[string]*float64{"actuation_weight_g": f(67), "travel_mm": f(3.8)}},
		{Name: "Zealios V2", Manufacturer: "ZealPC", Category: "tactile", NumericAttributes: map[string]*float64{"actuation_weight_g": f(65), "travel_mm": f(4.0)}},
		{Name: "NovelKeys Cream", Manufacturer: "NovelKeys", Category: "linear", NumericAttributes: map[string]*float64{"actuation_weight_g": f(55), "travel_mm": f(4.0)}},
		{Name: "Akko CS Jelly Pink", Manufacturer: "Akko", Category: "linear", NumericAttributes: map[string]*float64{"actuation_weight_g": f(45), "travel_mm": f(4.0)}},
		{Name: "Boba U4T", Manufacturer: "Gazzew", Category: "tactile", NumericAttributes: map[string]*float64{"actuation_weight_g": f(62), "travel_mm": f(4.0)}},
		{Name: "Alpaca V2", Manufacturer: "PrimeKB", Category: "linear", NumericAttributes: map[string]*float64{"actuation_weight_g": f(62), "travel_mm": f(4.0)}},
	}
}

// seedSnapshot derives the cache collections from the built-in entries.
func seedSnapshot() *Snapshot {
	entries := seedEntries()
	snap := &Snapshot{
		Names:    make([]string, 0, len(entries)),
		LoadedAt: time.Now(),
		Source:   "seed",
	}
	seenManufacturer := make(map[string]bool)
	seenCategory := make(map[string]bool)
	for _, e := range entries {
		snap.Names = append(snap.Names, e.Name)
		if !seenManufacturer[e.Manufacturer] {
			seenManufacturer[e.Manufacturer] = true
			snap.Manufacturers = append(snap.Manufacturers, e.Manufacturer)
		}
		if !seenCategory[e.Category] {
			seenCategory[e.Category] = true
			snap.Categories = append(snap.Categories, e.Category)
		}
	}
	return snap
}
