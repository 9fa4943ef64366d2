// internal/catalog/store.go
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"switch-pipeline/internal/common/database"
	"switch-pipeline/internal/common/logger"
	"switch-pipeline/internal/models"
)

// Store is the read-only product catalog collaborator. Each list operation is
// backed by a single query.
type Store interface {
	ListAllProductNames(ctx context.Context) ([]string, error)
	ListAllManufacturers(ctx context.Context) ([]string, error)
	ListAllCategories(ctx context.Context) ([]string, error)
	FindProductsMatchingText(ctx context.Context, text string, limit int) ([]models.CatalogEntry, error)
}

// SQLStore reads the switch catalog from Postgres. When an Elasticsearch
// client is attached, free-text product lookups go through the search index
// instead of an ILIKE scan.
type SQLStore struct {
	db      *database.PostgresClient
	es      *database.ElasticsearchClient
	esIndex string
	logger  logger.Logger
}

func NewSQLStore(db *database.PostgresClient, es *database.ElasticsearchClient, esIndex string, log logger.Logger) *SQLStore {
	return &SQLStore{
		db:      db,
		es:      es,
		esIndex: esIndex,
		logger:  log,
	}
}

const (
	listNamesQuery         = `SELECT name FROM switches ORDER BY name`
	listManufacturersQuery = `SELECT DISTINCT manufacturer FROM switches ORDER BY manufacturer`
	listCategoriesQuery    = `SELECT DISTINCT category FROM switches WHERE category IS NOT NULL ORDER BY category`
)

func (s *SQLStore) ListAllProductNames(ctx context.Context) ([]string, error) {
	return s.listStrings(ctx, listNamesQuery, "product names")
}

func (s *SQLStore) ListAllManufacturers(ctx context.Context) ([]string, error) {
	return s.listStrings(ctx, listManufacturersQuery, "manufacturers")
}

func (s *SQLStore) ListAllCategories(ctx context.Context) ([]string, error) {
	return s.listStrings(ctx, listCategoriesQuery, "categories")
}

func (s *SQLStore) listStrings(ctx context.Context, query, what string) ([]string, error) {
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", what, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", what, err)
		}
		values = append(values, value)
	}
	return values, rows.Err()
}

const findProductsQuery = `
	SELECT name, manufacturer, category, actuation_weight_g, travel_mm
	FROM switches
	WHERE $1 ILIKE '%' || name || '%'
	ORDER BY length(name) DESC
	LIMIT $2`

// FindProductsMatchingText returns catalog entries whose names appear inside
// the given free text. Longer names rank first so "Cherry MX Red" beats a
// hypothetical "MX Red" entry for the same passage.
func (s *SQLStore) FindProductsMatchingText(ctx context.Context, text string, limit int) ([]models.CatalogEntry, error) {
	if s.es != nil {
		entries, err := s.searchProducts(ctx, text, limit)
		if err == nil {
			return entries, nil
		}
		s.logger.Warn("elasticsearch product lookup failed, falling back to sql", map[string]interface{}{
			"error": err.Error(),
		})
	}

	rows, err := s.db.Query(ctx, findProductsQuery, text, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to match products: %w", err)
	}
	defer rows.Close()

	var entries []models.CatalogEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanEntry(rows *sql.Rows) (models.CatalogEntry, error) {
	var (
		entry           models.CatalogEntry
		category        sql.NullString
		actuationWeight sql.NullFloat64
		travel          sql.NullFloat64
	)
	if err := rows.Scan(&entry.Name, &entry.Manufacturer, &category, &actuationWeight, &travel); err != nil {
		return entry, fmt.Errorf("failed to scan catalog entry: %w", err)
	}
	entry.Category = category.String
	entry.NumericAttributes = map[string]*float64{}
	if actuationWeight.Valid {
		v := actuationWeight.Float64
		entry.NumericAttributes["actuation_weight_g"] = &v
	}
	if travel.Valid {
		v := travel.Float64
		entry.NumericAttributes["travel_mm"] = &v
	}
	return entry, nil
}

func (s *SQLStore) searchProducts(ctx context.Context, text string, limit int) ([]models.CatalogEntry, error) {
	queryBody := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  text,
				"fields": []string{"name^2", "manufacturer", "category"},
			},
		},
		"size": limit,
	}

	body, _ := json.Marshal(queryBody)
	req := esapi.SearchRequest{
		Index: []string{s.esIndex},
		Body:  strings.NewReader(string(body)),
	}

	res, err := req.Do(ctx, s.es.Client)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search failed: %s", res.String())
	}

	var r map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	hitsWrapper, ok := r["hits"].(map[string]interface{})
	if !ok {
		return nil, nil
	}
	hits, ok := hitsWrapper["hits"].([]interface{})
	if !ok {
		return nil, nil
	}

	var entries []models.CatalogEntry
	for _, hit := range hits {
		h, ok := hit.(map[string]interface{})
		if !ok {
			continue
		}
		source, ok := h["_source"].(map[string]interface{})
		if !ok {
			continue
		}
		entry := models.CatalogEntry{NumericAttributes: map[string]*float64{}}
		if name, ok := source["name"].(string); ok && name != "" {
			entry.Name = name
		} else {
			continue
		}
		if manufacturer, ok := source["manufacturer"].(string); ok {
			entry.Manufacturer = manufacturer
		}
		if category, ok := source["category"].(string); ok {
			entry.Category = category
		}
		for _, attr := range []string{"actuation_weight_g", "travel_mm"} {
			if v, ok := source[attr].(float64); ok {
				value := v
				entry.NumericAttributes[attr] = &value
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
