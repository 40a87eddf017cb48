package store

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Item is one validated entry of an add batch.
type Item struct {
	CustomID    string
	Name        string
	Description string
	Status      string
	Comment     string
}

type itemWire struct {
	CustomID    *string `json:"customId"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Comment     *string `json:"comment"`
}

// ParseItems validates the raw JSON array passed to add into typed items
// before any store interaction. An empty array is a valid no-op. Any shape
// problem (not an array, missing or non-string customId, status outside
// wip/done) fails with ErrInvalid.
func ParseItems(raw []byte) ([]Item, error) {
	var wires []itemWire
	if err := json.Unmarshal(raw, &wires); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON array of task objects: %v", ErrInvalid, err)
	}

	items := make([]Item, 0, len(wires))
	for i, w := range wires {
		if w.CustomID == nil || *w.CustomID == "" {
			return nil, fmt.Errorf("%w: item %d: customId is required", ErrInvalid, i)
		}
		it := Item{CustomID: *w.CustomID, Status: StatusWIP}
		if w.Name != nil {
			it.Name = *w.Name
		}
		if w.Description != nil {
			it.Description = *w.Description
		}
		if w.Comment != nil {
			it.Comment = *w.Comment
		}
		if w.Status != nil {
			st := strings.TrimSpace(*w.Status)
			if st != StatusWIP && st != StatusDone {
				return nil, fmt.Errorf("%w: item %d: status must be %q or %q, got %q", ErrInvalid, i, StatusWIP, StatusDone, st)
			}
			it.Status = st
		}
		items = append(items, it)
	}
	return items, nil
}
