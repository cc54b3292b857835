package executor

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"
	"golang.org/x/sync/errgroup"
)

// CollectPartitioned executes every partition of plan concurrently and
// returns the records of each partition, indexed by partition. The caller
// owns the returned records.
//
// If any partition fails, the others are cancelled, all records read so far
// are released and the first error is returned.
func CollectPartitioned(ctx context.Context, plan ExecutionPlan) ([][]arrow.Record, error) {
	ctx, span := tracer.Start(ctx, "executor.CollectPartitioned")
	defer span.End()

	n := plan.OutputPartitioning().PartitionCount()
	results := make([][]arrow.Record, n)

	g, ctx := errgroup.WithContext(ctx)
	for partition := range n {
		g.Go(func() error {
			pipeline, err := plan.Execute(ctx, partition)
			if err != nil {
				return err
			}
			defer pipeline.Close()

			records, err := ReadAll(ctx, pipeline)
			if err != nil {
				return err
			}
			results[partition] = records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, records := range results {
			for _, rec := range records {
				rec.Release()
			}
		}
		span.RecordError(err)
		return nil, err
	}
	return results, nil
}

// Collect executes every partition of plan and returns all records, ordered
// by partition. The caller owns the returned records.
func Collect(ctx context.Context, plan ExecutionPlan) ([]arrow.Record, error) {
	partitions, err := CollectPartitioned(ctx, plan)
	if err != nil {
		return nil, err
	}

	var records []arrow.Record
	for _, partition := range partitions {
		records = append(records, partition...)
	}
	return records, nil
}
