package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/feedworks/stockpipe/internal/event"
	"github.com/feedworks/stockpipe/internal/feed"
	"github.com/feedworks/stockpipe/internal/stash"
)

// Eligible keys look like trading_partners/{sender}/inventory/{filename}.
const senderKeySegments = 4

// SenderID extracts the trading-partner identifier from a decoded object key.
// Anything other than exactly four path segments is an error for that key.
func SenderID(key string) (string, error) {
	parts := strings.Split(key, "/")
	if len(parts) != senderKeySegments {
		return "", fmt.Errorf("key %q does not match trading_partners/{sender}/inventory/{filename}", key)
	}
	return parts[1], nil
}

// processKey runs one eligible key end to end: fetch, convert, validate,
// merge per sku, forward, delete. A returned error is a key-level fault; it
// never aborts the rest of the batch. The source object survives unless every
// record passed validation and the forward succeeded.
func (p *Pipeline) processKey(ctx context.Context, r run, k event.KeyToProcess) error {
	sender, err := SenderID(k.Key)
	if err != nil {
		return err
	}
	p.emit(ctx, r, "key_started", k.Key, sender, nil)

	content, err := p.Objects.Get(ctx, k.BucketName, k.Key)
	if err != nil {
		return fmt.Errorf("fetch object %q failed: %w", k.Key, err)
	}

	records, err := feed.Convert(string(content))
	if err != nil {
		return fmt.Errorf("convert feed %q failed: %w", k.Key, err)
	}
	p.emit(ctx, r, "feed_converted", k.Key, sender, map[string]any{
		"records": len(records),
	})

	valid, skipped := feed.ValidateRequired(records)

	for _, rec := range valid {
		merged, err := stash.Merge(ctx, p.Stash, p.Keyspace, rec.SKU(), sender, stash.Entry{
			Price:    rec.Price(),
			Quantity: rec.Quantity(),
		})
		if err != nil {
			return fmt.Errorf("stash merge for sku %q failed: %w", rec.SKU(), err)
		}
		p.emit(ctx, r, "sku_merged", k.Key, sender, map[string]any{
			"sku":     rec.SKU(),
			"senders": len(merged),
		})
	}

	p.emit(ctx, r, "forwarding", k.Key, sender, map[string]any{
		"records": len(valid),
		"skipped": len(skipped),
	})
	if err := p.Webhook.Deliver(ctx, sender, valid); err != nil {
		return fmt.Errorf("forward %q failed: %w", k.Key, err)
	}

	if len(skipped) > 0 {
		// Leave the source object in place for remediation or reprocessing.
		p.emit(ctx, r, "records_skipped", k.Key, sender, map[string]any{
			"skipped": skipped,
		})
		return fmt.Errorf("%d item(s) skipped due to missing required attributes", len(skipped))
	}

	if err := p.Objects.Delete(ctx, k.BucketName, k.Key); err != nil {
		return fmt.Errorf("delete object %q failed: %w", k.Key, err)
	}

	p.emit(ctx, r, "key_processed", k.Key, sender, nil)
	return nil
}
