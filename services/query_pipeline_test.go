package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"barterhub_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBase = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// makeListing 构造测试发布，age越小表示越新
func makeListing(id, title, category, condition, method string, age int) models.Listing {
	return models.Listing{
		ID:             id,
		Title:          title,
		Description:    "description of " + title,
		Category:       category,
		Condition:      condition,
		ExchangeMethod: method,
		LookingFor:     "anything interesting",
		CreatedAt:      testBase.Add(-time.Duration(age) * time.Hour),
	}
}

func defaultOpts() models.FilterOptions {
	return models.DefaultFilterOptions()
}

func TestApplyQueryDoesNotModifyInput(t *testing.T) {
	listings := []models.Listing{
		makeListing("1", "Old Chair", "Furniture", "Good", "In-person", 3),
		makeListing("2", "New Chair", "Furniture", "New", "Shipping", 1),
		makeListing("3", "Bike", "Sports", "Fair", "In-person", 2),
	}
	original := make([]models.Listing, len(listings))
	copy(original, listings)

	opts := defaultOpts()
	opts.SortBy = models.SortOldest
	ApplyQuery(listings, "chair", opts)

	assert.Equal(t, original, listings, "input slice must stay untouched")
}

func TestApplyQueryIdempotent(t *testing.T) {
	listings := []models.Listing{
		makeListing("1", "Desk Lamp", "Furniture", "Good", "In-person", 5),
		makeListing("2", "Floor Lamp", "Furniture", "New", "Shipping", 2),
		makeListing("3", "Novel", "Books", "Fair", "In-person", 1),
		makeListing("4", "Lamp Shade", "Furniture", "Poor", "Both options", 4),
	}

	opts := defaultOpts()
	opts.Categories = []string{"Furniture"}

	once := ApplyQuery(listings, "lamp", opts)
	twice := ApplyQuery(once, "lamp", opts)

	assert.Equal(t, once, twice)
}

func TestApplyQuerySearchFields(t *testing.T) {
	listings := []models.Listing{
		{ID: "title", Title: "Vintage Camera", CreatedAt: testBase},
		{ID: "desc", Title: "Box", Description: "includes a camera strap", CreatedAt: testBase},
		{ID: "cat", Title: "Tripod", Category: "Electronics", CreatedAt: testBase},
		{ID: "looking", Title: "Drone", LookingFor: "trade for camera gear", CreatedAt: testBase},
		{ID: "none", Title: "Couch", Description: "comfy", Category: "Furniture", CreatedAt: testBase},
	}

	results := ApplyQuery(listings, "CAMERA", defaultOpts())

	ids := resultIDs(results)
	assert.ElementsMatch(t, []string{"title", "desc", "looking"}, ids)

	results = ApplyQuery(listings, "electronics", defaultOpts())
	assert.Equal(t, []string{"cat"}, resultIDs(results))
}

func TestApplyQueryScenarioTitleMatch(t *testing.T) {
	listings := []models.Listing{
		makeListing("1", "Desk Lamp", "Furniture", "Good", "In-person", 1),
	}
	listings[0].Description = "barely used"

	results := ApplyQuery(listings, "lamp", defaultOpts())

	require.Len(t, results, 1)
	assert.Equal(t, "Desk Lamp", results[0].Title)
}

func TestApplyQueryCategoryFilter(t *testing.T) {
	listings := make([]models.Listing, 0, 10)
	for i := 0; i < 7; i++ {
		listings = append(listings, makeListing(fmt.Sprintf("s%d", i), "Ball", "Sports", "Good", "In-person", i))
	}
	for i := 0; i < 3; i++ {
		listings = append(listings, makeListing(fmt.Sprintf("b%d", i), "Novel", "Books", "Good", "In-person", i))
	}

	opts := defaultOpts()
	opts.Categories = []string{"Books"}
	results := ApplyQuery(listings, "", opts)

	require.Len(t, results, 3)
	for _, l := range results {
		assert.Equal(t, "Books", l.Category)
	}
	// createdAt 倒序
	for i := 1; i < len(results); i++ {
		assert.False(t, results[i-1].CreatedAt.Before(results[i].CreatedAt))
	}
}

func TestApplyQueryEmptyCategoriesMatchesAll(t *testing.T) {
	listings := []models.Listing{
		makeListing("1", "A", "Furniture", "Good", "In-person", 1),
		makeListing("2", "B", "Books", "Good", "In-person", 2),
	}

	results := ApplyQuery(listings, "", defaultOpts())
	assert.Len(t, results, 2)
}

func TestApplyQueryConditionFilter(t *testing.T) {
	listings := []models.Listing{
		makeListing("1", "A", "Books", "New", "In-person", 1),
		makeListing("2", "B", "Books", "Good", "In-person", 2),
		makeListing("3", "C", "Books", "New", "In-person", 3),
	}

	opts := defaultOpts()
	opts.Condition = "New"
	results := ApplyQuery(listings, "", opts)

	assert.Equal(t, []string{"1", "3"}, resultIDs(results))
}

func TestApplyQueryExchangeMethodBoth(t *testing.T) {
	listings := []models.Listing{
		makeListing("both-literal", "A", "Books", "Good", "Both options", 1),
		makeListing("in-person", "B", "Books", "Good", "in-person", 2),
		makeListing("both-token", "C", "Books", "Good", "both", 3),
	}

	opts := defaultOpts()
	opts.ExchangeMethod = "both"
	results := ApplyQuery(listings, "", opts)

	assert.ElementsMatch(t, []string{"both-literal", "both-token"}, resultIDs(results))
}

func TestApplyQueryConjunctiveFilters(t *testing.T) {
	listings := []models.Listing{
		makeListing("match", "Desk Lamp", "Furniture", "Good", "shipping", 1),
		makeListing("wrong-cat", "Desk Lamp", "Electronics", "Good", "shipping", 2),
		makeListing("wrong-cond", "Desk Lamp", "Furniture", "New", "shipping", 3),
		makeListing("wrong-method", "Desk Lamp", "Furniture", "Good", "in-person", 4),
		makeListing("wrong-search", "Bookshelf", "Furniture", "Good", "shipping", 5),
	}

	opts := defaultOpts()
	opts.Categories = []string{"Furniture"}
	opts.Condition = "Good"
	opts.ExchangeMethod = "shipping"
	results := ApplyQuery(listings, "lamp", opts)

	require.Len(t, results, 1)
	l := results[0]
	assert.Equal(t, "match", l.ID)
	assert.True(t, strings.Contains(strings.ToLower(l.Title), "lamp"))
	assert.Equal(t, "Furniture", l.Category)
	assert.Equal(t, "Good", l.Condition)
	assert.Equal(t, "shipping", l.ExchangeMethod)
}

func TestApplyQuerySortOrder(t *testing.T) {
	listings := []models.Listing{
		makeListing("mid", "A", "Books", "Good", "In-person", 5),
		makeListing("new", "B", "Books", "Good", "In-person", 1),
		makeListing("old", "C", "Books", "Good", "In-person", 9),
	}

	recent := ApplyQuery(listings, "", defaultOpts())
	assert.Equal(t, []string{"new", "mid", "old"}, resultIDs(recent))

	opts := defaultOpts()
	opts.SortBy = models.SortOldest
	oldest := ApplyQuery(listings, "", opts)
	assert.Equal(t, []string{"old", "mid", "new"}, resultIDs(oldest))
}

func TestApplyQuerySortIsStable(t *testing.T) {
	// 相同时间戳保持输入顺序
	listings := []models.Listing{
		{ID: "first", Title: "A", CreatedAt: testBase},
		{ID: "second", Title: "B", CreatedAt: testBase},
		{ID: "third", Title: "C", CreatedAt: testBase},
	}

	results := ApplyQuery(listings, "", defaultOpts())
	assert.Equal(t, []string{"first", "second", "third"}, resultIDs(results))
}

func TestApplyQueryUnknownEnumsTreatedAsAny(t *testing.T) {
	listings := []models.Listing{
		makeListing("1", "A", "Books", "Good", "In-person", 1),
		makeListing("2", "B", "Sports", "New", "Shipping", 2),
	}

	opts := defaultOpts()
	opts.Condition = "Mint"
	opts.ExchangeMethod = "teleport"
	opts.Categories = []string{"NotACategory"}
	opts.SortBy = "newest-first"

	results := ApplyQuery(listings, "", opts)
	assert.Len(t, results, 2, "unrecognized filter values must not restrict")
}

func resultIDs(listings []models.Listing) []string {
	ids := make([]string, len(listings))
	for i, l := range listings {
		ids[i] = l.ID
	}
	return ids
}
