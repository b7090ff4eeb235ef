package health

import "context"

// Pinger checks store availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StructureChecker checks structure standardization service availability.
type StructureChecker interface {
	HealthCheck(ctx context.Context) error
}
