package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductID_UnmarshalNumberOrString(t *testing.T) {
	var fromNumber, fromString struct {
		ID ProductID `json:"id"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"id": 7}`), &fromNumber))
	require.NoError(t, json.Unmarshal([]byte(`{"id": "7"}`), &fromString))

	assert.Equal(t, ProductID("7"), fromNumber.ID)
	assert.Equal(t, fromNumber.ID, fromString.ID)
}

func TestProductID_UnmarshalRejectsObjects(t *testing.T) {
	var v struct {
		ID ProductID `json:"id"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"id": {"x": 1}}`), &v))
}

func TestProduct_PrimaryImage(t *testing.T) {
	p := cane()
	assert.Equal(t, "/images/cane.jpg", p.PrimaryImage())

	p.Images = nil
	assert.Equal(t, PlaceholderImage, p.PrimaryImage())

	p.Images = []string{""}
	assert.Equal(t, PlaceholderImage, p.PrimaryImage())
}

func TestProduct_CheckPricing(t *testing.T) {
	p := cane()
	assert.NoError(t, p.CheckPricing())

	equal := dec("19.99")
	p.OriginalPrice = &equal
	assert.NoError(t, p.CheckPricing(), "original price equal to price is allowed")

	p.Price = dec("-0.01")
	assert.Error(t, p.CheckPricing())
}

func TestCategories_StartWithAll(t *testing.T) {
	cats := Categories()
	require.NotEmpty(t, cats)
	assert.Equal(t, CategoryAll, cats[0].Value)
	assert.Len(t, cats, 6)
}
