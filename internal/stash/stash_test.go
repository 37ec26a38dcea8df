package stash

import (
	"context"
	"testing"
)

func TestMerge_NewSku(t *testing.T) {
	store := NewMemoryStore()

	merged, err := Merge(context.Background(), store, "inventory", "X", "shop_1", Entry{
		Price:    "19.99",
		Quantity: "10",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(merged) != 1 {
		t.Fatalf("expected 1 sender entry, got %#v", merged)
	}
	if merged["shop_1"].Price != "19.99" {
		t.Fatalf("unexpected entry: %#v", merged["shop_1"])
	}
}

func TestMerge_PreservesOtherSenders(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := Merge(ctx, store, "inventory", "X", "a", Entry{Price: "1.00", Quantity: "1"}); err != nil {
		t.Fatalf("first merge failed: %v", err)
	}
	if _, err := Merge(ctx, store, "inventory", "X", "b", Entry{Price: "2.00", Quantity: "2"}); err != nil {
		t.Fatalf("second merge failed: %v", err)
	}

	v, ok, err := store.Get(ctx, "inventory", "X")
	if err != nil || !ok {
		t.Fatalf("get failed: ok=%v err=%v", ok, err)
	}

	if len(v) != 2 {
		t.Fatalf("expected both senders, got %#v", v)
	}
	if v["a"].Price != "1.00" || v["b"].Price != "2.00" {
		t.Fatalf("unexpected merged value: %#v", v)
	}
}

func TestMerge_OverwritesSameSender(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := Merge(ctx, store, "inventory", "X", "a", Entry{Price: "1.00", Quantity: "1"}); err != nil {
		t.Fatalf("first merge failed: %v", err)
	}
	merged, err := Merge(ctx, store, "inventory", "X", "a", Entry{Price: "3.00", Quantity: "7"})
	if err != nil {
		t.Fatalf("second merge failed: %v", err)
	}

	if len(merged) != 1 {
		t.Fatalf("expected single sender, got %#v", merged)
	}
	if merged["a"].Price != "3.00" || merged["a"].Quantity != "7" {
		t.Fatalf("expected overwrite, got %#v", merged["a"])
	}
}

func TestMemoryStore_GetCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, "inventory", "X", Value{"a": {Price: "1.00", Quantity: "1"}}); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	v, _, _ := store.Get(ctx, "inventory", "X")
	v["intruder"] = Entry{}

	again, _, _ := store.Get(ctx, "inventory", "X")
	if _, ok := again["intruder"]; ok {
		t.Fatalf("stored value mutated through returned copy")
	}
}

func TestMemoryStore_KeyspacesAreIsolated(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, "inventory", "X", Value{"a": {Price: "1.00", Quantity: "1"}}); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	_, ok, err := store.Get(ctx, "other", "X")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ok {
		t.Fatalf("expected miss in other keyspace")
	}
}
