package service

import (
	"testing"

	"github.com/finapp/storefront/internal/core/ports"
)

func TestSnapshotFromRemote_NilDocument(t *testing.T) {
	snap := SnapshotFromRemote(nil)
	if snap == nil || len(snap) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestSnapshotFromRemote_NilItems(t *testing.T) {
	snap := SnapshotFromRemote(&ports.RemoteCartDocument{Items: nil})
	if snap == nil || len(snap) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestSnapshotFromRemote_DropsMalformedEntries(t *testing.T) {
	doc := &ports.RemoteCartDocument{Items: []*ports.RemoteCartItem{
		nil,
		{ProductID: "", Name: "no id", Price: 3, Quantity: 1},
		{ProductID: "p1", Name: "Widget", Price: 5, Quantity: 2},
	}}

	snap := SnapshotFromRemote(doc)
	if len(snap) != 1 {
		t.Fatalf("expected 1 surviving line, got %d", len(snap))
	}
	if snap[0].Product.ID != "p1" {
		t.Fatalf("unexpected line: %+v", snap[0])
	}
}

func TestSnapshotFromRemote_SubstitutesDefaults(t *testing.T) {
	doc := &ports.RemoteCartDocument{Items: []*ports.RemoteCartItem{
		{ProductID: "p1", Name: "", Price: -4, Quantity: -2},
	}}

	snap := SnapshotFromRemote(doc)
	if len(snap) != 1 {
		t.Fatalf("expected 1 line, got %d", len(snap))
	}
	line := snap[0]
	if line.Product.Name != "Unknown Product" {
		t.Fatalf("expected name placeholder, got %q", line.Product.Name)
	}
	if line.Product.Price != 0 {
		t.Fatalf("expected negative price clamped to 0, got %v", line.Product.Price)
	}
	if line.Quantity != 0 {
		t.Fatalf("expected negative quantity clamped to 0, got %d", line.Quantity)
	}
}

func TestSnapshotFromRemote_PreservesWellFormedFields(t *testing.T) {
	doc := &ports.RemoteCartDocument{Items: []*ports.RemoteCartItem{
		{ProductID: "p1", Name: "Widget", Price: 19.99, Category: "tools", ImageURL: "http://cdn/i.png", Quantity: 3},
	}}

	snap := SnapshotFromRemote(doc)
	line := snap[0]
	if line.Product.Category != "tools" || line.Product.ImageURL != "http://cdn/i.png" {
		t.Fatalf("expected optional fields carried over, got %+v", line.Product)
	}
	if line.Quantity != 3 || line.Product.Price != 19.99 {
		t.Fatalf("unexpected numeric fields: %+v", line)
	}
}
