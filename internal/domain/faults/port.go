package faults

import "context"

// Repository port for persisting and querying enrichment faults
type Repository interface {
	Save(ctx context.Context, f *Fault) error
	LatestByAnalysis(ctx context.Context, analysisID string) (*Fault, error)
}
