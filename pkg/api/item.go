package api

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ItemType is the closed taxonomy of flow steps
	ItemType string

	// Category is the visual category a preview entry is rendered with
	Category string

	// FlowItem is a single typed, labeled step in a composed flow. Type is
	// fixed at creation
	FlowItem struct {
		ID    ItemID   `json:"id"`
		Type  ItemType `json:"type"`
		Label string   `json:"label"`
	}

	// PreviewEntry is the read-only projection of a FlowItem
	PreviewEntry struct {
		Type     ItemType `json:"type"`
		Label    string   `json:"label"`
		Category Category `json:"category"`
	}
)

const (
	ItemInput   ItemType = "input"
	ItemProcess ItemType = "process"
	ItemOutput  ItemType = "output"
)

const (
	CategoryInput   Category = "green"
	CategoryProcess Category = "brand"
	CategoryOutput  Category = "purple"
)

var (
	ErrItemIDEmpty     = errors.New("item ID is required")
	ErrItemLabelEmpty  = errors.New("item label is required")
	ErrInvalidItemType = errors.New("invalid item type")
)

var categories = map[ItemType]Category{
	ItemInput:   CategoryInput,
	ItemProcess: CategoryProcess,
	ItemOutput:  CategoryOutput,
}

// ItemTypes returns the item types in the order a form offers them
func ItemTypes() []ItemType {
	return []ItemType{ItemInput, ItemProcess, ItemOutput}
}

// Valid reports whether t belongs to the item taxonomy
func (t ItemType) Valid() bool {
	_, ok := categories[t]
	return ok
}

// Category returns the visual category for the item type
func (t ItemType) Category() Category {
	return categories[t]
}

// ParseItemType converts user input into an ItemType
func ParseItemType(s string) (ItemType, error) {
	t := ItemType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidItemType, s)
	}
	return t, nil
}

// Validate checks the creation rules of a flow item
func (i *FlowItem) Validate() error {
	if i.ID == "" {
		return ErrItemIDEmpty
	}
	if !i.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidItemType, i.Type)
	}
	if strings.TrimSpace(i.Label) == "" {
		return ErrItemLabelEmpty
	}
	return nil
}

// Preview projects the item into its display form
func (i FlowItem) Preview() PreviewEntry {
	return PreviewEntry{
		Type:     i.Type,
		Label:    i.Label,
		Category: i.Type.Category(),
	}
}
