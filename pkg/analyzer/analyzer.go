// Package analyzer defines the shared contract for corpus analyzers.
package analyzer

import (
	"context"

	"svcaudit/pkg/extract"
)

// CorpusAnalyzer is implemented by every stage that consumes the complete
// extracted service corpus. The context can be used for cancellation; every
// stage requires the full corpus before it runs, so implementations never
// observe a partially extracted model.
type CorpusAnalyzer[T any] interface {
	Analyze(ctx context.Context, services []*extract.ServiceInfo) (T, error)
}
