package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultFilterOptions(t *testing.T) {
	opts := DefaultFilterOptions()

	assert.Empty(t, opts.Categories)
	assert.Equal(t, FilterAny, opts.Condition)
	assert.Equal(t, FilterAny, opts.ExchangeMethod)
	assert.Equal(t, DefaultMaxDistance, opts.MaxDistance)
	assert.Equal(t, SortRecent, opts.SortBy)
	assert.True(t, opts.IsDefault())
}

func TestNormalizeRejectsUnknownEnums(t *testing.T) {
	opts := FilterOptions{
		Categories:     []string{"Books", "NotACategory", "Books", "Sports"},
		Condition:      "Mint",
		ExchangeMethod: "teleport",
		SortBy:         "sideways",
		MaxDistance:    -3,
	}

	normalized := opts.Normalize()

	assert.Equal(t, []string{"Books", "Sports"}, normalized.Categories, "unknown categories dropped, duplicates collapsed")
	assert.Equal(t, FilterAny, normalized.Condition)
	assert.Equal(t, FilterAny, normalized.ExchangeMethod)
	assert.Equal(t, SortRecent, normalized.SortBy)
	assert.Equal(t, DefaultMaxDistance, normalized.MaxDistance)
}

func TestNormalizeKeepsValidValues(t *testing.T) {
	opts := FilterOptions{
		Categories:     []string{"Furniture"},
		Condition:      "Like New",
		ExchangeMethod: "shipping",
		SortBy:         SortOldest,
		MaxDistance:    25,
	}

	normalized := opts.Normalize()
	assert.Equal(t, opts.Categories, normalized.Categories)
	assert.Equal(t, "Like New", normalized.Condition)
	assert.Equal(t, "shipping", normalized.ExchangeMethod)
	assert.Equal(t, SortOldest, normalized.SortBy)
	assert.Equal(t, 25, normalized.MaxDistance)
}

func TestNormalizeAcceptsListingMethodLiterals(t *testing.T) {
	opts := DefaultFilterOptions()
	opts.ExchangeMethod = ExchangeMethodBothOptions

	normalized := opts.Normalize()
	assert.Equal(t, ExchangeMethodBothOptions, normalized.ExchangeMethod)
}

func TestNormalizeNilCategories(t *testing.T) {
	opts := FilterOptions{Condition: FilterAny, ExchangeMethod: FilterAny, SortBy: SortRecent}

	normalized := opts.Normalize()
	assert.NotNil(t, normalized.Categories)
	assert.Empty(t, normalized.Categories)
}

func TestCloneIsIndependent(t *testing.T) {
	opts := DefaultFilterOptions()
	opts.Categories = []string{"Books"}

	clone := opts.Clone()
	clone.Categories[0] = "Sports"

	assert.Equal(t, []string{"Books"}, opts.Categories)
}

func TestHasCategory(t *testing.T) {
	opts := FilterOptions{Categories: []string{"Books", "Sports"}}

	assert.True(t, opts.HasCategory("Books"))
	assert.False(t, opts.HasCategory("books"), "category matching is case-sensitive")
	assert.False(t, opts.HasCategory("Furniture"))
}
