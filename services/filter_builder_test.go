package services

import (
	"testing"

	"barterhub_go/models"

	"github.com/stretchr/testify/assert"
)

func TestFilterBuilderStagedChangesNotCommitted(t *testing.T) {
	fb := NewFilterBuilder()

	fb.ToggleCategory("Books")
	fb.SetCondition("New")
	fb.SetExchangeMethod("shipping")

	committed := fb.Committed()
	assert.True(t, committed.IsDefault(), "dialog edits must not take effect before Apply")

	staged := fb.Staged()
	assert.Equal(t, []string{"Books"}, staged.Categories)
	assert.Equal(t, "New", staged.Condition)
}

func TestFilterBuilderApplyCommits(t *testing.T) {
	fb := NewFilterBuilder()

	fb.ToggleCategory("Books")
	fb.SetCondition("New")
	applied := fb.Apply()

	assert.Equal(t, []string{"Books"}, applied.Categories)
	assert.Equal(t, "New", applied.Condition)
	assert.Equal(t, applied, fb.Committed())
}

func TestFilterBuilderApplyNormalizes(t *testing.T) {
	fb := NewFilterBuilder()

	fb.SetCondition("Mint")
	fb.SetSortBy("upside-down")
	fb.ToggleCategory("NotACategory")
	applied := fb.Apply()

	assert.Equal(t, models.FilterAny, applied.Condition)
	assert.Equal(t, models.SortRecent, applied.SortBy)
	assert.Empty(t, applied.Categories)
}

func TestFilterBuilderToggleCategorySetSemantics(t *testing.T) {
	fb := NewFilterBuilder()

	fb.ToggleCategory("Books")
	fb.ToggleCategory("Sports")
	fb.ToggleCategory("Books") // 第二次toggle移除
	staged := fb.Staged()

	assert.Equal(t, []string{"Sports"}, staged.Categories)
}

func TestFilterBuilderDiscard(t *testing.T) {
	fb := NewFilterBuilder()

	fb.ToggleCategory("Books")
	fb.Apply()

	fb.SetCondition("New")
	fb.ToggleCategory("Sports")
	fb.Discard()

	staged := fb.Staged()
	assert.Equal(t, []string{"Books"}, staged.Categories)
	assert.Equal(t, models.FilterAny, staged.Condition)
}

func TestFilterBuilderResetClearsSearchText(t *testing.T) {
	fb := NewFilterBuilder()

	fb.SetSearchText("lamp")
	fb.ToggleCategory("Furniture")
	fb.SetCondition("Good")
	fb.Apply()

	fb.Reset()

	assert.True(t, fb.Committed().IsDefault())
	assert.True(t, fb.Staged().IsDefault())
	assert.Equal(t, "", fb.SearchText(), "reset clears the search box too")
}

func TestFilterBuilderSearchTextBypassesStaging(t *testing.T) {
	fb := NewFilterBuilder()

	fb.SetSearchText("camera")
	assert.Equal(t, "camera", fb.SearchText(), "search text takes effect without Apply")
}

func TestFilterBuilderCommittedIsACopy(t *testing.T) {
	fb := NewFilterBuilder()
	fb.ToggleCategory("Books")
	fb.Apply()

	committed := fb.Committed()
	committed.Categories[0] = "Hacked"

	assert.Equal(t, []string{"Books"}, fb.Committed().Categories)
}
