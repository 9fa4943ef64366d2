package transform

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"switch-pipeline/internal/catalog"
	apperrors "switch-pipeline/internal/common/errors"
	"switch-pipeline/internal/common/logger"
	"switch-pipeline/internal/markdown"
	"switch-pipeline/internal/models"
	"switch-pipeline/internal/resolver"
)

func attr(v float64) *float64 { return &v }

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	store := catalog.NewMemoryStore([]models.CatalogEntry{
		{Name: "Cherry MX Red", Manufacturer: "Cherry", Category: "linear", NumericAttributes: map[string]*float64{"actuation_weight_g": attr(45), "travel_mm": attr(4.0)}},
		{Name: "Cherry MX Brown", Manufacturer: "Cherry", Category: "tactile", NumericAttributes: map[string]*float64{"actuation_weight_g": attr(55), "travel_mm": attr(4.0)}},
		{Name: "Gateron Yellow", Manufacturer: "Gateron", Category: "linear", NumericAttributes: map[string]*float64{"actuation_weight_g": attr(50), "travel_mm": attr(4.0)}},
		{Name: "NovelKeys Cream", Manufacturer: "NovelKeys", Category: "linear", NumericAttributes: map[string]*float64{"actuation_weight_g": attr(55), "travel_mm": attr(4.0)}},
	})
	cache := catalog.NewCache(store, nil, 5*time.Minute, logger.NewNoOpLogger())
	res := resolver.New(cache, logger.NewNoOpLogger())
	return NewRegistry(res, logger.NewTestLogger(t))
}

func transformFor(t *testing.T, rt models.ResponseType) Transformer {
	t.Helper()
	tr, ok := newTestRegistry(t).ForType(rt)
	require.True(t, ok)
	return tr
}

func TestSingleItem_TitleAndOverview(t *testing.T) {
	tr := transformFor(t, models.ResponseTypeSingleItemInfo)
	parsed := markdown.Parse("# Cherry MX Red\nLinear switch, 45g actuation.")

	data, warnings, err := tr.Transform(context.Background(), parsed)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, "Cherry MX Red", data["title"])
	assert.NotEmpty(t, data["overview"])
	assert.Equal(t, "Cherry MX Red", data["itemName"])
	assert.NotEmpty(t, data["soundProfile"])
}

func TestSingleItem_SpecificationsFromTable(t *testing.T) {
	tr := transformFor(t, models.ResponseTypeSingleItemInfo)
	input := strings.Join([]string{
		"# Gateron Yellow",
		"A budget favorite.",
		"",
		"| Spec | Value |",
		"|---|---|",
		"| Actuation | 50g |",
		"| Travel | 4.0mm |",
	}, "\n")

	data, _, err := tr.Transform(context.Background(), markdown.Parse(input))
	require.NoError(t, err)

	specs, ok := data["specifications"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "50g", specs["Actuation"])
	assert.Equal(t, "4.0mm", specs["Travel"])
}

func TestSingleItem_SpecificationsFoldedFromCatalog(t *testing.T) {
	tr := transformFor(t, models.ResponseTypeSingleItemInfo)
	parsed := markdown.Parse("# Gateron Yellow\nA budget favorite with no spec table in sight.")

	data, _, err := tr.Transform(context.Background(), parsed)
	require.NoError(t, err)

	specs, ok := data["specifications"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Gateron", specs["manufacturer"])
	assert.Equal(t, "linear", specs["category"])
	assert.Equal(t, 50.0, specs["actuation_weight_g"])
	assert.Equal(t, 4.0, specs["travel_mm"])
}

func TestSingleItem_UnresolvedTitleWarns(t *testing.T) {
	tr := transformFor(t, models.ResponseTypeSingleItemInfo)
	parsed := markdown.Parse("# Some Unknown Switch Model XYZ-99\nNobody has heard of it, honestly.")

	data, warnings, err := tr.Transform(context.Background(), parsed)
	require.NoError(t, err)

	assert.NotEmpty(t, warnings)
	_, resolved := data["itemName"]
	assert.False(t, resolved)
}

func TestSingleItem_InsufficientContent(t *testing.T) {
	tr := transformFor(t, models.ResponseTypeSingleItemInfo)

	_, _, err := tr.Transform(context.Background(), markdown.Parse("   \n  "))
	require.Error(t, err)

	classified, ok := err.(*apperrors.Classification)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeInsufficientContent, classified.Code)
}

func TestComparison_TwoItems(t *testing.T) {
	tr := transformFor(t, models.ResponseTypeComparison)
	input := strings.Join([]string{
		"# Cherry MX Red vs Gateron Yellow",
		"Two popular linear switches compared.",
		"",
		"## Sound",
		"The Gateron Yellow sounds deeper than the Cherry MX Red.",
	}, "\n")

	data, warnings, err := tr.Transform(context.Background(), markdown.Parse(input))
	require.NoError(t, err)
	assert.Empty(t, warnings)

	itemNames, ok := data["itemNames"].([]string)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"Cherry MX Red", "Gateron Yellow"}, itemNames)

	analysis, ok := data["comparativeAnalysis"].(map[string]interface{})
	require.True(t, ok)
	for _, axis := range comparisonAxes {
		assert.Contains(t, analysis, axis)
	}
	assert.Contains(t, analysis["sound"], "deeper")
}

func TestComparison_SpecificationsFoldedFromCatalog(t *testing.T) {
	tr := transformFor(t, models.ResponseTypeComparison)
	parsed := markdown.Parse("# Cherry MX Red vs Gateron Yellow\nBoth linears, no spec table given.")

	data, _, err := tr.Transform(context.Background(), parsed)
	require.NoError(t, err)

	specs, ok := data["itemSpecifications"].(map[string]interface{})
	require.True(t, ok)

	red, ok := specs["Cherry MX Red"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Cherry", red["manufacturer"])
	assert.Equal(t, 45.0, red["actuation_weight_g"])

	yellow, ok := specs["Gateron Yellow"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Gateron", yellow["manufacturer"])
}

func TestComparison_TableSpecsKeepManufacturer(t *testing.T) {
	tr := transformFor(t, models.ResponseTypeComparison)
	input := strings.Join([]string{
		"# Cherry MX Red vs Gateron Yellow",
		"Head to head on paper.",
		"",
		"| Switch | Actuation | Travel |",
		"|---|---|---|",
		"| Cherry MX Red | 45g | 4.0mm |",
		"| Gateron Yellow | 50g | 4.0mm |",
	}, "\n")

	data, _, err := tr.Transform(context.Background(), markdown.Parse(input))
	require.NoError(t, err)

	specs := data["itemSpecifications"].(map[string]interface{})
	red := specs["Cherry MX Red"].(map[string]interface{})
	assert.Equal(t, "45g", red["Actuation"])
	assert.Equal(t, "Cherry", red["manufacturer"])
}

func TestComparison_SingleItemWarns(t *testing.T) {
	tr := transformFor(t, models.ResponseTypeComparison)
	parsed := markdown.Parse("# About the Cherry MX Red\nIt stands alone in this text.")

	data, warnings, err := tr.Transform(context.Background(), parsed)
	require.NoError(t, err)

	itemNames := data["itemNames"].([]string)
	assert.Len(t, itemNames, 1)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "only one item")
}

func TestComparison_NoItemsFails(t *testing.T) {
	tr := transformFor(t, models.ResponseTypeComparison)
	parsed := markdown.Parse("# Lubricants\nKrytox versus Tribosys, no switches here.")

	_, _, err := tr.Transform(context.Background(), parsed)
	require.Error(t, err)

	classified, ok := err.(*apperrors.Classification)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeInsufficientContent, classified.Code)
}

func TestCharacteristics_FromBulletedListsWithoutHeadings(t *testing.T) {
	tr := transformFor(t, models.ResponseTypeCharacteristics)
	input := strings.Join([]string{
		"- Tactility: the bump you feel at actuation",
		"- Actuation force: how heavy the press is",
		"",
		"- Travel: total stem movement",
		"- Smoothness: absence of scratch",
	}, "\n")

	data, _, err := tr.Transform(context.Background(), markdown.Parse(input))
	require.NoError(t, err)

	explained, ok := data["characteristicsExplained"].([]string)
	require.True(t, ok)
	assert.Equal(t, []string{"Tactility", "Actuation force", "Travel", "Smoothness"}, explained)

	details := data["details"].(map[string]interface{})
	assert.Equal(t, "the bump you feel at actuation", details["Tactility"])
}

func TestCharacteristics_KeywordFallback(t *testing.T) {
	tr := transformFor(t, models.ResponseTypeCharacteristics)
	parsed := markdown.Parse("Spring weight and travel shape how a switch feels under the fingers.")

	data, _, err := tr.Transform(context.Background(), parsed)
	require.NoError(t, err)

	explained := data["characteristicsExplained"].([]string)
	assert.Contains(t, explained, "spring weight")
	assert.Contains(t, explained, "travel")
}

func TestMaterial_Analysis(t *testing.T) {
	tr := transformFor(t, models.ResponseTypeMaterialAnalysis)
	input := strings.Join([]string{
		"# Housing Materials",
		"POM and polycarbonate dominate modern switch housings.",
		"",
		"## POM",
		"The NovelKeys Cream uses a full POM housing.",
	}, "\n")

	data, _, err := tr.Transform(context.Background(), markdown.Parse(input))
	require.NoError(t, err)

	materials := data["materialsAnalyzed"].([]string)
	assert.Equal(t, []string{"POM", "polycarbonate"}, materials)

	details := data["materialDetails"].(map[string]interface{})
	pom := details["POM"].(map[string]interface{})
	assert.Contains(t, pom["analysis"], "NovelKeys Cream")

	assert.Contains(t, data["relatedSwitches"], "NovelKeys Cream")
}

func TestMaterial_NoMaterialsFails(t *testing.T) {
	tr := transformFor(t, models.ResponseTypeMaterialAnalysis)

	_, _, err := tr.Transform(context.Background(), markdown.Parse("# Shipping\nOrders leave the warehouse on Mondays."))
	require.Error(t, err)
}

func TestStandard_QueryTypeInference(t *testing.T) {
	tr := transformFor(t, models.ResponseTypeStandardAnswer)

	data, _, err := tr.Transform(context.Background(), markdown.Parse("# Picking a switch\nI recommend starting with a linear."))
	require.NoError(t, err)

	assert.Equal(t, "recommendation", data["queryType"])
	content := data["content"].(map[string]interface{})
	assert.NotEmpty(t, content["mainAnswer"])
}

func TestStandard_DefaultsToInformational(t *testing.T) {
	tr := transformFor(t, models.ResponseTypeStandardAnswer)

	data, _, err := tr.Transform(context.Background(), markdown.Parse("# Springs\nSprings are made of stainless steel wire."))
	require.NoError(t, err)

	assert.Equal(t, "informational", data["queryType"])
}

func TestRegistry_UnknownType(t *testing.T) {
	_, ok := newTestRegistry(t).ForType(models.ResponseType("weather_report"))
	assert.False(t, ok)
}

func TestTransform_Deterministic(t *testing.T) {
	tr := transformFor(t, models.ResponseTypeComparison)
	input := "# Cherry MX Red vs Gateron Yellow\nBoth are linear switches worth considering."
	parsed := markdown.Parse(input)

	first, _, err := tr.Transform(context.Background(), parsed)
	require.NoError(t, err)
	second, _, err := tr.Transform(context.Background(), parsed)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))
}
