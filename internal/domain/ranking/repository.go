package ranking

import "context"

// Repository describes ranking persistence needs from use cases.
type Repository interface {
	ListBySeason(ctx context.Context, seasonID string) ([]Entry, error)
	// ReplaceBySeason swaps a season's standings for the given entries in one
	// transaction.
	ReplaceBySeason(ctx context.Context, seasonID string, entries []Entry) error
	// AppendSnapshots writes one recalculation batch. Rows share their
	// RecalculatedAt timestamp.
	AppendSnapshots(ctx context.Context, rows []Snapshot) error
	// RecentBatches returns up to maxBatches snapshot batches for a season,
	// newest first, each batch ordered by rank.
	RecentBatches(ctx context.Context, seasonID string, maxBatches int) ([]SnapshotBatch, error)
}
