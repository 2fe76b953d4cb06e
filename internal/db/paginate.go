package db

import (
	"fmt"

	"iglesia/internal/logger"
	"iglesia/internal/report"
)

// PageFunc fetches one inclusive row range [from, to].
type PageFunc[T any] func(from, to int) ([]T, error)

// ReadAll accumulates every row by reading fixed-size pages until a
// page comes back short. PostgREST caps responses, so a single read of
// a large table silently truncates without this.
func ReadAll[T any](page PageFunc[T], pageSize int) ([]T, error) {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	var all []T
	for offset := 0; ; offset += pageSize {
		rows, err := page(offset, offset+pageSize-1)
		if err != nil {
			return nil, fmt.Errorf("failed to read rows %d-%d: %w", offset, offset+pageSize-1, err)
		}
		all = append(all, rows...)
		if len(rows) < pageSize {
			return all, nil
		}
	}
}

// UpsertFunc writes one chunk of rows.
type UpsertFunc[T any] func(chunk []T) error

// UpsertChunks writes rows in fixed-size chunks. A failed chunk is
// recorded and the remaining chunks are still attempted.
func UpsertChunks[T any](table string, rows []T, chunkSize int, up UpsertFunc[T]) *report.Batch {
	if chunkSize <= 0 {
		chunkSize = ChunkSize
	}
	batch := report.New("upsert " + table)
	for start := 0; start < len(rows); start += chunkSize {
		end := start + chunkSize
		if end > len(rows) {
			end = len(rows)
		}
		key := fmt.Sprintf("%s[%d:%d]", table, start, end)
		if err := up(rows[start:end]); err != nil {
			logger.Error("chunk upsert failed", err, "table", table, "rows", end-start)
			batch.Failure(key, err, "chunk upsert failed")
			continue
		}
		batch.Success(key)
	}
	return batch
}
