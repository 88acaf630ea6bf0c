package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/utafrali/assistive-store/internal/domain"
)

//go:embed data/products.json
var embeddedProducts []byte

// document is the on-disk catalog layout: {"products": [...]}.
type document struct {
	Products []domain.Product `json:"products"`
}

// JSONSource decodes a catalog document from bytes.
type JSONSource struct {
	data []byte
}

// NewJSONSource returns a source backed by data.
func NewJSONSource(data []byte) *JSONSource {
	return &JSONSource{data: data}
}

// NewEmbeddedSource returns the catalog compiled into the binary.
func NewEmbeddedSource() *JSONSource {
	return NewJSONSource(embeddedProducts)
}

// NewFileSource reads the whole catalog document from path.
func NewFileSource(path string) (*JSONSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return NewJSONSource(data), nil
}

// Products implements Source.
func (s *JSONSource) Products(_ context.Context) ([]domain.Product, error) {
	var doc document
	if err := json.Unmarshal(s.data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if doc.Products == nil {
		return []domain.Product{}, nil
	}
	return doc.Products, nil
}
