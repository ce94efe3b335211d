package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingImageList(t *testing.T) {
	var l Listing
	assert.Nil(t, l.ImageList())
	assert.Equal(t, "", l.CoverImage())

	l.SetImageList([]string{"/uploads/a.jpg", "/uploads/b.jpg"})
	assert.Equal(t, []string{"/uploads/a.jpg", "/uploads/b.jpg"}, l.ImageList())
	assert.Equal(t, "/uploads/a.jpg", l.CoverImage())

	l.Images = "not-json"
	assert.Nil(t, l.ImageList())
}

func TestListingJSONExposesImagesArray(t *testing.T) {
	l := Listing{ID: "abc", Title: "Desk Lamp"}
	l.SetImageList([]string{"/uploads/a.jpg"})

	data, err := json.Marshal(l)
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, []interface{}{"/uploads/a.jpg"}, payload["images"])

	// images数组能还原回内部存储格式
	var decoded Listing
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []string{"/uploads/a.jpg"}, decoded.ImageList())
	assert.Equal(t, "Desk Lamp", decoded.Title)
}

func TestEnumValidation(t *testing.T) {
	assert.True(t, IsValidCategory("Books"))
	assert.False(t, IsValidCategory("books"))
	assert.False(t, IsValidCategory(""))

	assert.True(t, IsValidCondition("Like New"))
	assert.True(t, IsValidCondition(ConditionNotSpecified))
	assert.False(t, IsValidCondition("Mint"))

	assert.True(t, IsValidExchangeMethod("Both options"))
	assert.False(t, IsValidExchangeMethod("both"))
}
