package stash

import "context"

// Entry is one sender's contribution for a sku.
type Entry struct {
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

// Value maps sender id to that sender's entry. One sku aggregates entries
// from every sender that has fed it.
type Value map[string]Entry

// Store is the keyed-value-store boundary. Keyspace groups related keys; for
// inventory aggregation the key is the sku.
type Store interface {
	Get(ctx context.Context, keyspace string, key string) (Value, bool, error)
	Set(ctx context.Context, keyspace string, key string, value Value) error
}

// Merge performs the read-modify-write update protocol: load the current
// value (empty when absent), overwrite the entry for this sender, write the
// merged value back. Entries from other senders are preserved. The
// read-modify-write is not atomic; concurrent writers to the same sku can
// lose updates.
func Merge(ctx context.Context, s Store, keyspace string, sku string, senderID string, e Entry) (Value, error) {
	current, ok, err := s.Get(ctx, keyspace, sku)
	if err != nil {
		return nil, err
	}
	if !ok || current == nil {
		current = Value{}
	}

	current[senderID] = e

	if err := s.Set(ctx, keyspace, sku, current); err != nil {
		return nil, err
	}
	return current, nil
}
