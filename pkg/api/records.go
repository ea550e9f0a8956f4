package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrDuplicateItemID is returned when a record list repeats an item ID
var ErrDuplicateItemID = errors.New("duplicate item ID")

// MarshalRecords serializes an ordered collection as a JSON list of
// {id, type, label} records
func MarshalRecords(items []FlowItem) ([]byte, error) {
	if items == nil {
		items = []FlowItem{}
	}
	return json.Marshal(items)
}

// UnmarshalRecords parses a JSON record list, rejecting unknown item types,
// empty labels, and repeated IDs
func UnmarshalRecords(data []byte) ([]FlowItem, error) {
	var items []FlowItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	seen := make(map[ItemID]struct{}, len(items))
	for idx := range items {
		if err := items[idx].Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", idx, err)
		}
		if _, ok := seen[items[idx].ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateItemID, items[idx].ID)
		}
		seen[items[idx].ID] = struct{}{}
	}
	return items, nil
}
