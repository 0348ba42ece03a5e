package ml

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"smartwallet-fraud-shield/internal/domain/risk"
	"smartwallet-fraud-shield/internal/domain/transaction"
	"smartwallet-fraud-shield/internal/pkg/metrics"
)

// ScoreBatch scores a slice of transactions with a bounded worker pool and
// returns results indexed to the input. The batch is a pure function of its
// input slice - rerunning it is safe - and per-row ordering is preserved
// regardless of scheduling. The only error returned is context
// cancellation; individual scoring failures surface as degraded results,
// never as batch failures.
func (s *Scorer) ScoreBatch(ctx context.Context, txs []transaction.RawTransaction) ([]risk.Result, error) {
	results := make([]risk.Result, len(txs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, tx := range txs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = s.Score(tx)
			metrics.BatchRowsScored.Inc()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
