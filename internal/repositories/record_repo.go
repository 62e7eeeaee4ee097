package repositories

import (
	"context"
	"fmt"

	"pinlock/internal/database"
	"pinlock/internal/models"
)

// RecordRepository persists the transfer history: uploads, downloads and
// on-chain registrations.
type RecordRepository struct {
	db *database.DB
}

func NewRecordRepository(db *database.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

func (r *RecordRepository) CreateUpload(ctx context.Context, rec *models.UploadRecord) error {
	query := `INSERT INTO uploads (id, cid, filename, size, gateway_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.SQL.ExecContext(ctx, query,
		rec.ID, rec.CID, rec.Filename, rec.Size, rec.GatewayURL, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert upload record: %w", err)
	}
	return nil
}

func (r *RecordRepository) CreateDownload(ctx context.Context, rec *models.DownloadRecord) error {
	query := `INSERT INTO downloads (id, cid, filename, path, gateway_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.SQL.ExecContext(ctx, query,
		rec.ID, rec.CID, rec.Filename, rec.Path, rec.GatewayURL, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert download record: %w", err)
	}
	return nil
}

func (r *RecordRepository) CreateTransaction(ctx context.Context, rec *models.TransactionRecord) error {
	query := `INSERT INTO transactions (id, cid, signature, network, explorer_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.SQL.ExecContext(ctx, query,
		rec.ID, rec.CID, rec.Signature, rec.Network, rec.ExplorerURL, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert transaction record: %w", err)
	}
	return nil
}

func (r *RecordRepository) ListUploads(ctx context.Context, limit int) ([]models.UploadRecord, error) {
	query := `SELECT id, cid, filename, size, gateway_url, created_at
		FROM uploads ORDER BY created_at DESC LIMIT ?`

	rows, err := r.db.SQL.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	defer rows.Close()

	result := make([]models.UploadRecord, 0)
	for rows.Next() {
		var rec models.UploadRecord
		if err := rows.Scan(&rec.ID, &rec.CID, &rec.Filename, &rec.Size, &rec.GatewayURL, &rec.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

func (r *RecordRepository) ListDownloads(ctx context.Context, limit int) ([]models.DownloadRecord, error) {
	query := `SELECT id, cid, filename, path, gateway_url, created_at
		FROM downloads ORDER BY created_at DESC LIMIT ?`

	rows, err := r.db.SQL.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list downloads: %w", err)
	}
	defer rows.Close()

	result := make([]models.DownloadRecord, 0)
	for rows.Next() {
		var rec models.DownloadRecord
		if err := rows.Scan(&rec.ID, &rec.CID, &rec.Filename, &rec.Path, &rec.GatewayURL, &rec.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

func (r *RecordRepository) ListTransactions(ctx context.Context, limit int) ([]models.TransactionRecord, error) {
	query := `SELECT id, cid, signature, network, explorer_url, created_at
		FROM transactions ORDER BY created_at DESC LIMIT ?`

	rows, err := r.db.SQL.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	result := make([]models.TransactionRecord, 0)
	for rows.Next() {
		var rec models.TransactionRecord
		if err := rows.Scan(&rec.ID, &rec.CID, &rec.Signature, &rec.Network, &rec.ExplorerURL, &rec.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}
