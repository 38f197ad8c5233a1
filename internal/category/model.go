package category

import (
	"encoding/json"
	"errors"
)

var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategoryIDRequired = errors.New("category id is required")
	ErrSlugRequired       = errors.New("category slug is required")
)

// Record is one category as listed by the catalog backend, with ids
// normalised to strings.
type Record struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	NameLocalized        *string  `json:"name_amharic"`
	Slug                 string   `json:"slug"`
	Description          *string  `json:"description"`
	DescriptionLocalized *string  `json:"description_amharic"`
	Icon                 *string  `json:"icon"`
	Images               []string `json:"category_images"`
	ProductCount         int      `json:"product_count"`
	ParentID             *string  `json:"parent_id"`
}

// Node is a root of the display tree. Subcategories carry the root's id as
// their parent_id.
type Node struct {
	Record
	Subcategories []Record `json:"subcategories"`
}

// SlugResult is a category located by slug within the display tree.
type SlugResult struct {
	Category      Record   `json:"category"`
	IsRoot        bool     `json:"is_root"`
	Subcategories []Record `json:"subcategories"`
}

// Payload is a request body relayed verbatim to the catalog backend.
type Payload struct {
	Body        []byte
	ContentType string
}

// Passthrough is an upstream answer forwarded to the caller as-is.
type Passthrough struct {
	Status int
	Body   json.RawMessage
}
