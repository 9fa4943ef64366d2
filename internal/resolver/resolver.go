// Package resolver matches free-text product mentions against the switch
// catalog. Matching runs as a strategy cascade, strongest first, and every
// result carries a confidence score the transformers propagate into output
// metadata.
package resolver

import (
	"context"
	"regexp"
	"strings"

	"switch-pipeline/internal/catalog"
	"switch-pipeline/internal/common/logger"
	"switch-pipeline/internal/models"
)

const (
	// similarityThreshold gates the fuzzy stage. Below it a near-miss is
	// treated as no match rather than a low-confidence one.
	similarityThreshold = 0.5

	// wordOverlapThreshold is the share of candidate tokens a catalog entry
	// must contain for the word-overlap stage to accept.
	wordOverlapThreshold = 0.7

	// wordOverlapConfidence is the fixed score assigned by the word-overlap
	// stage; token overlap says nothing about character-level closeness.
	wordOverlapConfidence = 0.7

	extractLimit = 10
)

// Resolver resolves informal product names against the catalog cache.
type Resolver struct {
	catalog *catalog.Cache
	logger  logger.Logger
}

func New(cache *catalog.Cache, log logger.Logger) *Resolver {
	return &Resolver{
		catalog: cache,
		logger:  log,
	}
}

// Resolve matches name against the catalog. Strategies run in order:
//
//  1. exact case-insensitive equality, confidence 1.0
//  2. substring containment in either direction, then whole-catalog
//     similarity, both scored by normalized edit distance and accepted
//     at similarityThreshold
//  3. word overlap of tokens longer than two characters, fixed confidence
//  4. no match, confidence 0
func (r *Resolver) Resolve(ctx context.Context, name string) models.ResolutionResult {
	candidate := strings.ToLower(strings.TrimSpace(name))
	if candidate == "" {
		return models.ResolutionResult{}
	}

	names := r.catalog.Names(ctx)

	for _, entry := range names {
		if strings.ToLower(entry) == candidate {
			return models.ResolutionResult{IsValid: true, BestMatch: entry, Confidence: 1.0}
		}
	}

	if result, ok := r.resolveFuzzy(candidate, names); ok {
		return result
	}

	if result, ok := r.resolveWordOverlap(candidate, names); ok {
		return result
	}

	return models.ResolutionResult{}
}

// resolveFuzzy prefers entries related to the candidate by substring
// containment; when none qualifies it falls back to edit-distance similarity
// over the whole catalog, which is what catches single-character typos.
func (r *Resolver) resolveFuzzy(candidate string, names []string) (models.ResolutionResult, bool) {
	bestScore := 0.0
	bestMatch := ""

	for _, entry := range names {
		lower := strings.ToLower(entry)
		if !strings.Contains(lower, candidate) && !strings.Contains(candidate, lower) {
			continue
		}
		if score := similarity(candidate, lower); score > bestScore {
			bestScore = score
			bestMatch = entry
		}
	}

	if bestScore < similarityThreshold {
		bestScore = 0.0
		bestMatch = ""
		for _, entry := range names {
			if score := similarity(candidate, strings.ToLower(entry)); score > bestScore {
				bestScore = score
				bestMatch = entry
			}
		}
	}

	if bestScore >= similarityThreshold {
		return models.ResolutionResult{IsValid: true, BestMatch: bestMatch, Confidence: bestScore}, true
	}
	return models.ResolutionResult{}, false
}

func (r *Resolver) resolveWordOverlap(candidate string, names []string) (models.ResolutionResult, bool) {
	tokens := significantTokens(candidate)
	if len(tokens) == 0 {
		return models.ResolutionResult{}, false
	}

	for _, entry := range names {
		lower := strings.ToLower(entry)
		contained := 0
		for _, token := range tokens {
			if strings.Contains(lower, token) {
				contained++
			}
		}
		if float64(contained)/float64(len(tokens)) >= wordOverlapThreshold {
			return models.ResolutionResult{IsValid: true, BestMatch: entry, Confidence: wordOverlapConfidence}, true
		}
	}
	return models.ResolutionResult{}, false
}

// productWordPattern matches up to three capitalized model words following a
// manufacturer name, e.g. the "Oil King" in "Gateron Oil King". The full
// pattern is assembled per manufacturer at scan time.
const productWordPattern = `\s+((?:[A-Z][\w-]*\s*){1,3})`

// LookupEntry returns the catalog entry behind an already resolved product
// name, so callers can enrich output with manufacturer and numeric
// attributes. Misses and lookup failures both return ok=false.
func (r *Resolver) LookupEntry(ctx context.Context, name string) (models.CatalogEntry, bool) {
	return r.catalog.LookupEntry(ctx, name)
}

// ExtractFromText scans free text for catalog product mentions. Direct
// catalog-name containment is checked first, then manufacturer names followed
// by a plausible model pattern; when nothing is found in-process the store's
// text search is consulted. Results are de-duplicated in discovery order.
func (r *Resolver) ExtractFromText(ctx context.Context, text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	lower := strings.ToLower(text)
	seen := make(map[string]bool)
	var found []string

	for _, entry := range r.catalog.Names(ctx) {
		if strings.Contains(lower, strings.ToLower(entry)) && !seen[entry] {
			seen[entry] = true
			found = append(found, entry)
		}
	}

	for _, manufacturer := range r.catalog.Manufacturers(ctx) {
		pattern, err := regexp.Compile(`(?i:\b` + regexp.QuoteMeta(manufacturer) + `)` + productWordPattern)
		if err != nil {
			continue
		}
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			mention := strings.TrimSpace(manufacturer + " " + strings.TrimSpace(match[1]))
			resolved := r.Resolve(ctx, mention)
			if resolved.IsValid && !seen[resolved.BestMatch] {
				seen[resolved.BestMatch] = true
				found = append(found, resolved.BestMatch)
			}
		}
	}

	if len(found) > 0 {
		return found
	}

	// Nothing recognized in-process; let the store's text search have a look.
	for _, entry := range r.catalog.FindProductsMatchingText(ctx, text, extractLimit) {
		if !seen[entry.Name] {
			seen[entry.Name] = true
			found = append(found, entry.Name)
		}
	}
	return found
}

func significantTokens(s string) []string {
	var tokens []string
	for _, token := range strings.Fields(s) {
		if len(token) > 2 {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// similarity normalizes edit distance into [0,1]: identical strings score 1,
// strings sharing no characters score near 0.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	longer := len(a)
	if len(b) > longer {
		longer = len(b)
	}
	if longer == 0 {
		return 1.0
	}
	return float64(longer-editDistance(a, b)) / float64(longer)
}

func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
