package services

import (
	"fmt"
	"testing"

	"barterhub_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeResults(n int) []models.Listing {
	results := make([]models.Listing, n)
	for i := range results {
		results[i] = models.Listing{ID: fmt.Sprintf("listing-%d", i)}
	}
	return results
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 8), "empty result set still has one page")
	assert.Equal(t, 1, TotalPages(1, 8))
	assert.Equal(t, 1, TotalPages(8, 8))
	assert.Equal(t, 2, TotalPages(9, 8))
	assert.Equal(t, 3, TotalPages(17, 8))
	assert.Equal(t, 1, TotalPages(5, 0), "non-positive page size collapses to one page")
}

func TestPaginateSeventeenByEight(t *testing.T) {
	results := makeResults(17)

	assert.Equal(t, 3, TotalPages(len(results), 8))
	assert.Len(t, Paginate(results, 1, 8), 8)
	assert.Len(t, Paginate(results, 2, 8), 8)
	assert.Len(t, Paginate(results, 3, 8), 1)
}

func TestPaginateOutOfRangeIsEmpty(t *testing.T) {
	results := makeResults(10)
	totalPages := TotalPages(len(results), DefaultPageSize)

	page := Paginate(results, totalPages+1, DefaultPageSize)
	assert.NotNil(t, page)
	assert.Empty(t, page)

	assert.Empty(t, Paginate(results, 0, DefaultPageSize))
	assert.Empty(t, Paginate(results, -1, DefaultPageSize))
	assert.Empty(t, Paginate(results, 1, 0))
}

func TestPaginateCoversAllResults(t *testing.T) {
	results := makeResults(29)
	pageSize := 8
	totalPages := TotalPages(len(results), pageSize)

	var reconstructed []models.Listing
	for page := 1; page <= totalPages; page++ {
		reconstructed = append(reconstructed, Paginate(results, page, pageSize)...)
	}

	require.Len(t, reconstructed, len(results))
	assert.Equal(t, results, reconstructed, "pages must tile the result set without gaps or overlap")
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(0, 3))
	assert.Equal(t, 1, ClampPage(-5, 3))
	assert.Equal(t, 2, ClampPage(2, 3))
	assert.Equal(t, 3, ClampPage(7, 3))
}

func TestNewPageView(t *testing.T) {
	results := makeResults(17)

	view := NewPageView(results, 3, 8)
	assert.Equal(t, 3, view.Page)
	assert.Equal(t, 8, view.PageSize)
	assert.Equal(t, 17, view.Total)
	assert.Equal(t, 3, view.TotalPages)
	assert.Len(t, view.Items, 1)

	empty := NewPageView([]models.Listing{}, 1, 8)
	assert.Equal(t, 0, empty.Total)
	assert.Equal(t, 1, empty.TotalPages)
	assert.Empty(t, empty.Items)
}
