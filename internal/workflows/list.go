package workflows

import (
	"context"

	"github.com/veilbox/veil/internal/server"
)

// ListItemsOptions configures the item listing.
type ListItemsOptions struct {
	Owner   string
	Backend server.Backend
}

// ListItemsResult contains the owner's item summaries. Summaries carry no
// key material or ciphertext.
type ListItemsResult struct {
	Items []server.ItemSummary
}

// ListItems returns the owner's vault contents as summaries.
func ListItems(ctx context.Context, opts ListItemsOptions) (*ListItemsResult, error) {
	items, err := opts.Backend.ListItems(ctx, opts.Owner)
	if err != nil {
		return nil, err
	}
	return &ListItemsResult{Items: items}, nil
}

// DeleteItemOptions configures an item deletion.
type DeleteItemOptions struct {
	ItemID  string
	Owner   string
	Backend server.Backend
}

// DeleteItem removes an item and every wrapped key minted for it. Only the
// owner may delete.
func DeleteItem(ctx context.Context, opts DeleteItemOptions) error {
	return opts.Backend.DeleteItem(ctx, opts.ItemID, opts.Owner)
}
