package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"kitstock/internal/core/appctx"
	"kitstock/internal/core/entity"
	"kitstock/internal/core/id"
	"kitstock/internal/domain/batch"
)

// Compile-time check that AllocationArchive implements batch.EventArchiver.
var _ batch.EventArchiver = (*AllocationArchive)(nil)

// CompressionAlgo specifies the compression algorithm used for a row.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// ArchiveEntry is one archived allocation event. The payload duplicates the
// in-document log entry so the archive survives batch edits and deletions.
type ArchiveEntry struct {
	ID                id.ID           `db:"id"`
	BatchID           id.ID           `db:"batch_id"`
	ProductID         id.ID           `db:"product_id"`
	SchoolID          id.ID           `db:"school_id"`
	Quantity          int             `db:"quantity"`
	UserID            string          `db:"user_id"`
	Payload           json.RawMessage `db:"payload"`
	PayloadCompressed []byte          `db:"payload_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	CreatedAt         time.Time       `db:"created_at"`
}

// AllocationArchive writes recorded allocation events to an append-only
// table, compressing large payloads with zstd.
type AllocationArchive struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

// NewAllocationArchive creates the archive store.
func NewAllocationArchive(txManager *TxManager) (*AllocationArchive, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &AllocationArchive{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 4 * 1024,
	}, nil
}

// ArchiveAllocation appends one allocation event to the archive.
func (a *AllocationArchive) ArchiveAllocation(ctx context.Context, batchID id.ID, event entity.BatchAllocation) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	entry := ArchiveEntry{
		ID:              id.New(),
		BatchID:         batchID,
		ProductID:       event.ProductID,
		SchoolID:        event.SchoolID,
		Quantity:        event.Quantity,
		UserID:          event.AllocatedBy,
		Payload:         payload,
		CompressionAlgo: CompressionNone,
		CreatedAt:       time.Now().UTC(),
	}

	if entry.UserID == "" {
		entry.UserID = appctx.GetUserID(ctx)
	}

	if len(entry.Payload) > a.compressThreshold {
		entry.PayloadCompressed = a.encoder.EncodeAll(entry.Payload, nil)
		entry.Payload = nil
		entry.CompressionAlgo = CompressionZstd
	}

	sql := `
		INSERT INTO allocation_archive (
			id, batch_id, product_id, school_id, quantity, user_id,
			payload, payload_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = a.txManager.GetQuerier(ctx).Exec(ctx, sql,
		entry.ID, entry.BatchID, entry.ProductID, entry.SchoolID,
		entry.Quantity, entry.UserID,
		entry.Payload, entry.PayloadCompressed, entry.CompressionAlgo,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert archive entry: %w", err)
	}
	return nil
}

// BatchHistory retrieves archived events of a batch, newest first.
func (a *AllocationArchive) BatchHistory(ctx context.Context, batchID id.ID, limit int) ([]ArchiveEntry, error) {
	sql := `
		SELECT id, batch_id, product_id, school_id, quantity, user_id,
		       payload, payload_compressed, compression_algo, created_at
		FROM allocation_archive
		WHERE batch_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := a.txManager.GetQuerier(ctx).Query(ctx, sql, batchID, limit)
	if err != nil {
		return nil, fmt.Errorf("query archive: %w", err)
	}
	defer rows.Close()

	var entries []ArchiveEntry
	for rows.Next() {
		var e ArchiveEntry
		err := rows.Scan(
			&e.ID, &e.BatchID, &e.ProductID, &e.SchoolID, &e.Quantity, &e.UserID,
			&e.Payload, &e.PayloadCompressed, &e.CompressionAlgo, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		if e.CompressionAlgo == CompressionZstd && len(e.PayloadCompressed) > 0 {
			decompressed, err := a.decoder.DecodeAll(e.PayloadCompressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress payload: %w", err)
			}
			e.Payload = decompressed
			e.PayloadCompressed = nil
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}
