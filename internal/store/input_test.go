package store

import (
	"errors"
	"testing"
)

func TestParseItems(t *testing.T) {
	items, err := ParseItems([]byte(`[{"customId":"a","name":"one"},{"customId":"b","status":"done","comment":"ok"}]`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].CustomID != "a" || items[0].Name != "one" || items[0].Status != StatusWIP {
		t.Fatalf("item 0 wrong: %+v", items[0])
	}
	if items[1].Status != StatusDone || items[1].Comment != "ok" {
		t.Fatalf("item 1 wrong: %+v", items[1])
	}
}

func TestParseItemsEmptyArray(t *testing.T) {
	items, err := ParseItems([]byte(`[]`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}

func TestParseItemsRejectsMalformedInput(t *testing.T) {
	cases := map[string]string{
		"not json":            `nope`,
		"not an array":        `{"customId":"a"}`,
		"missing customId":    `[{"name":"x"}]`,
		"empty customId":      `[{"customId":""}]`,
		"non-string customId": `[{"customId":12}]`,
		"invalid status":      `[{"customId":"a","status":"paused"}]`,
		"non-object element":  `["a"]`,
	}
	for name, raw := range cases {
		if _, err := ParseItems([]byte(raw)); !errors.Is(err, ErrInvalid) {
			t.Fatalf("%s: expected ErrInvalid, got %v", name, err)
		}
	}
}
