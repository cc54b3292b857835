package catalog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/quarrydb/quarry/pkg/engine/internal/errors"
	"github.com/quarrydb/quarry/pkg/engine/internal/planner/logical"
)

// CSVOptions configures how CSV data is loaded into a [MemTable].
type CSVOptions struct {
	// HasHeader skips the first line of the input.
	HasHeader bool
	// Delimiter separates fields. Defaults to ','.
	Delimiter rune
	// ChunkSize is the number of rows per record. Defaults to 1024; -1
	// reads the whole input into a single record.
	ChunkSize int
	// Partitions is the number of partitions records are distributed over,
	// round robin. Defaults to 1.
	Partitions int
	// Allocator used for the records. Defaults to memory.DefaultAllocator.
	Allocator memory.Allocator
}

func (o CSVOptions) withDefaults() CSVOptions {
	if o.Delimiter == 0 {
		o.Delimiter = ','
	}
	if o.ChunkSize == 0 {
		o.ChunkSize = 1024
	}
	if o.Partitions <= 0 {
		o.Partitions = 1
	}
	if o.Allocator == nil {
		o.Allocator = memory.DefaultAllocator
	}
	return o
}

// ReadCSV loads CSV data of the given schema into a new MemTable. Empty
// fields are read as nulls.
func ReadCSV(r io.Reader, schema *arrow.Schema, opts CSVOptions) (*MemTable, error) {
	opts = opts.withDefaults()

	reader := csv.NewReader(
		r,
		schema,
		csv.WithAllocator(opts.Allocator),
		csv.WithHeader(opts.HasHeader),
		csv.WithComma(opts.Delimiter),
		csv.WithChunk(opts.ChunkSize),
		csv.WithNullReader(true),
	)
	defer reader.Release()

	partitions := make([][]arrow.Record, opts.Partitions)
	defer func() {
		for _, partition := range partitions {
			for _, rec := range partition {
				rec.Release()
			}
		}
	}()

	for i := 0; reader.Next(); i++ {
		rec := reader.Record()
		rec.Retain()
		partitions[i%opts.Partitions] = append(partitions[i%opts.Partitions], rec)
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	return NewMemTable(schema, partitions)
}

// OpenCSV loads the CSV file at path into a new MemTable.
func OpenCSV(path string, schema *arrow.Schema, opts CSVOptions) (*MemTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadCSV(f, schema, opts)
}

// FromExternalTable loads the table declared by a [logical.CreateExternalTable]
// node. Only CSV files are supported.
func FromExternalTable(node *logical.CreateExternalTable, opts CSVOptions) (*MemTable, error) {
	if !strings.EqualFold(node.FileType, "csv") {
		return nil, fmt.Errorf("%w: external table %s has file type %q", errors.ErrNotImplemented, node.Name, node.FileType)
	}
	opts.HasHeader = node.HasHeader
	return OpenCSV(node.Location, node.TableSchema, opts)
}
