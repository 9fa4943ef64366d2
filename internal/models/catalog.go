// internal/models/catalog.go
package models

// CatalogEntry is an immutable snapshot of one product row from the catalog
// store. NumericAttributes holds spec-sheet numbers (actuation force, travel)
// where a nil value means the column was NULL.
type CatalogEntry struct {
	Name              string              `json:"name"`
	Manufacturer      string              `json:"manufacturer"`
	Category          string              `json:"category,omitempty"`
	NumericAttributes map[string]*float64 `json:"numericAttributes,omitempty"`
}

// ResolutionResult is the outcome of matching one free-text candidate against
// the catalog. Confidence is in [0,1]; 1.0 only for exact matches.
type ResolutionResult struct {
	IsValid    bool    `json:"isValid"`
	BestMatch  string  `json:"bestMatch,omitempty"`
	Confidence float64 `json:"confidence"`
}
