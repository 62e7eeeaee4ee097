package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"pinlock/internal/clients/ipfs"
	"pinlock/internal/config"
	"pinlock/internal/models"
	"pinlock/internal/validate"
)

// IPFSClient defines the node operations the service needs
type IPFSClient interface {
	Add(ctx context.Context, filename string, r io.Reader) (*ipfs.AddResult, error)
	Cat(ctx context.Context, cid string) (io.ReadCloser, error)
	Version(ctx context.Context) (string, error)
	GatewayURL(cid string) string
}

// RecordRepository defines the history persistence the services need
type RecordRepository interface {
	CreateUpload(ctx context.Context, rec *models.UploadRecord) error
	CreateDownload(ctx context.Context, rec *models.DownloadRecord) error
	CreateTransaction(ctx context.Context, rec *models.TransactionRecord) error
	ListUploads(ctx context.Context, limit int) ([]models.UploadRecord, error)
	ListDownloads(ctx context.Context, limit int) ([]models.DownloadRecord, error)
	ListTransactions(ctx context.Context, limit int) ([]models.TransactionRecord, error)
}

// IPFSService validates inputs, talks to the node and records transfers.
type IPFSService struct {
	client  IPFSClient
	records RecordRepository
	files   config.Files
	logger  *slog.Logger
}

func NewIPFSService(client IPFSClient, records RecordRepository, files config.Files, logger *slog.Logger) *IPFSService {
	return &IPFSService{
		client:  client,
		records: records,
		files:   files,
		logger:  logger,
	}
}

// Upload validates the local file and adds it to IPFS. All checks run before
// any network call.
func (s *IPFSService) Upload(ctx context.Context, filePath string) (*models.UploadRecord, error) {
	path, err := validate.FilePath(filePath, s.files.MaxFileSize, s.files.AllowedExtensions)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	result, err := s.client.Add(ctx, filepath.Base(path), f)
	if err != nil {
		s.logger.Error("ipfs upload failed", slog.Any("error", err))
		return nil, err
	}

	rec := &models.UploadRecord{
		ID:         uuid.NewString(),
		CID:        result.CID,
		Filename:   filepath.Base(path),
		Size:       result.Size,
		GatewayURL: s.client.GatewayURL(result.CID),
		CreatedAt:  time.Now(),
	}
	if err := s.records.CreateUpload(ctx, rec); err != nil {
		// The upload itself succeeded; a failed history write is not fatal
		s.logger.Error("failed to record upload", slog.Any("error", err))
	}

	s.logger.Info("file uploaded to ipfs",
		slog.String("cid", rec.CID),
		slog.Int64("size", rec.Size))
	return rec, nil
}

// Download fetches the content behind a CID into outputDir.
func (s *IPFSService) Download(ctx context.Context, cid, outputDir string) (*models.DownloadRecord, error) {
	cleanCID, err := validate.CID(cid)
	if err != nil {
		return nil, err
	}
	dir, err := validate.DirectoryPath(outputDir)
	if err != nil {
		return nil, err
	}

	body, err := s.client.Cat(ctx, cleanCID)
	if err != nil {
		s.logger.Error("ipfs download failed", slog.Any("error", err))
		return nil, err
	}
	defer body.Close()

	filename := validate.Filename(cleanCID)
	target := uniquePath(dir, filename)

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, body); err != nil {
		os.Remove(target)
		return nil, fmt.Errorf("failed to write download: %w", err)
	}

	rec := &models.DownloadRecord{
		ID:         uuid.NewString(),
		CID:        cleanCID,
		Filename:   filepath.Base(target),
		Path:       target,
		GatewayURL: s.client.GatewayURL(cleanCID),
		CreatedAt:  time.Now(),
	}
	if err := s.records.CreateDownload(ctx, rec); err != nil {
		s.logger.Error("failed to record download", slog.Any("error", err))
	}

	s.logger.Info("file downloaded from ipfs",
		slog.String("cid", cleanCID),
		slog.String("path", target))
	return rec, nil
}

// GatewayURL validates the CID and builds its public gateway URL.
func (s *IPFSService) GatewayURL(cid string) (string, error) {
	cleanCID, err := validate.CID(cid)
	if err != nil {
		return "", err
	}
	return s.client.GatewayURL(cleanCID), nil
}

// CheckConnection reports whether the local node answers a version probe.
func (s *IPFSService) CheckConnection(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.client.Version(ctx); err != nil {
		s.logger.Warn("ipfs connection check failed", slog.Any("error", err))
		return false
	}
	return true
}

// uniquePath appends a counter when the target filename already exists.
func uniquePath(dir, filename string) string {
	target := filepath.Join(dir, filename)
	ext := filepath.Ext(filename)
	stem := filename[:len(filename)-len(ext)]

	for counter := 1; ; counter++ {
		if _, err := os.Stat(target); os.IsNotExist(err) {
			return target
		}
		target = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, counter, ext))
	}
}
