package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestCartSnapshot_JSONRoundTrip(t *testing.T) {
	snap := CartSnapshot{
		{
			Product: ProductRef{
				ID:       "p1",
				Name:     "Widget",
				Price:    9.99,
				Category: "tools",
				ImageURL: "https://cdn.example.com/p1.png",
			},
			Quantity: 2,
		},
		{
			// Optional fields empty; they are omitted on the wire and must
			// come back as zero values.
			Product:  ProductRef{ID: "p2", Name: "Gadget", Price: 3},
			Quantity: 1,
		},
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded CartSnapshot
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !reflect.DeepEqual(decoded, snap) {
		t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", decoded, snap)
	}
	if decoded.Total() != snap.Total() || decoded.ItemCount() != snap.ItemCount() {
		t.Fatalf("derived values changed across round trip")
	}
}

func TestCartSnapshot_JSONEmpty(t *testing.T) {
	raw, err := json.Marshal(CartSnapshot{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != "[]" {
		t.Fatalf("expected empty array, got %s", raw)
	}

	var decoded CartSnapshot
	if err := json.Unmarshal([]byte("[]"), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded) != 0 {
		t.Fatalf("expected empty snapshot, got %d lines", len(decoded))
	}
}
