package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/assistive-store/internal/domain"
)

func TestEmbeddedCatalog(t *testing.T) {
	s, err := Load(context.Background(), NewEmbeddedSource())
	require.NoError(t, err)
	assert.Equal(t, 10, s.Len())

	cane, err := s.Get("1")
	require.NoError(t, err)
	assert.Equal(t, "Adjustable Folding Cane", cane.Name)
	assert.True(t, cane.Price.Equal(decimal.RequireFromString("29.99")))

	categories := map[string]bool{}
	for _, p := range s.All() {
		categories[p.Category] = true
	}
	for _, c := range domain.Categories()[1:] {
		assert.True(t, categories[c.Value], "no product in category %s", c.Value)
	}
}

func TestJSONSource_StringAndNumberIDs(t *testing.T) {
	src := NewJSONSource([]byte(`{"products":[
		{"id": 7, "name": "Cane", "price": 10},
		{"id": "abc", "name": "Walker", "price": "20.50"}
	]}`))

	products, err := src.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, domain.ProductID("7"), products[0].ID)
	assert.Equal(t, domain.ProductID("abc"), products[1].ID)
	assert.True(t, products[1].Price.Equal(decimal.RequireFromString("20.50")))
}

func TestJSONSource_MissingProducts(t *testing.T) {
	products, err := NewJSONSource([]byte(`{}`)).Products(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestJSONSource_Malformed(t *testing.T) {
	_, err := NewJSONSource([]byte(`{"products": [`)).Products(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode catalog")
}

func TestJSONSource_InvalidRecordAbortsLoad(t *testing.T) {
	src := NewJSONSource([]byte(`{"products":[{"id": 1, "name": "Cane", "price": -4}]}`))
	_, err := Load(context.Background(), src)
	require.Error(t, err)
}

func TestNewFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"products":[{"id":1,"name":"Cane","price":10}]}`), 0o600))

	src, err := NewFileSource(path)
	require.NoError(t, err)

	s, err := Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestNewFileSource_Missing(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
