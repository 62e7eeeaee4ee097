package services

import (
	"context"
	"io"
	"sync"

	"pinlock/internal/clients/ipfs"
	"pinlock/internal/models"
)

// MockIdentityRepository implements IdentityRepository for testing
type MockIdentityRepository struct {
	mu       sync.Mutex
	identity *models.Identity

	GetFunc                func(ctx context.Context) (*models.Identity, error)
	GetByUsernameFunc      func(ctx context.Context, username string) (*models.Identity, error)
	CreateFunc             func(ctx context.Context, identity *models.Identity) error
	UpdatePasswordHashFunc func(ctx context.Context, username, passwordHash string) error
	DeleteAllFunc          func(ctx context.Context) error
}

func (m *MockIdentityRepository) Get(ctx context.Context) (*models.Identity, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return nil, models.ErrNotFound
	}
	return m.identity, nil
}

func (m *MockIdentityRepository) GetByUsername(ctx context.Context, username string) (*models.Identity, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil || m.identity.Username != username {
		return nil, models.ErrNotFound
	}
	return m.identity, nil
}

func (m *MockIdentityRepository) Create(ctx context.Context, identity *models.Identity) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, identity)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity != nil {
		return models.ErrAlreadyProvisioned
	}
	m.identity = identity
	return nil
}

func (m *MockIdentityRepository) UpdatePasswordHash(ctx context.Context, username, passwordHash string) error {
	if m.UpdatePasswordHashFunc != nil {
		return m.UpdatePasswordHashFunc(ctx, username, passwordHash)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil || m.identity.Username != username {
		return models.ErrNotFound
	}
	m.identity.PasswordHash = passwordHash
	return nil
}

func (m *MockIdentityRepository) DeleteAll(ctx context.Context) error {
	if m.DeleteAllFunc != nil {
		return m.DeleteAllFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identity = nil
	return nil
}

// MockRecordRepository implements RecordRepository for testing
type MockRecordRepository struct {
	mu           sync.Mutex
	Uploads      []models.UploadRecord
	Downloads    []models.DownloadRecord
	Transactions []models.TransactionRecord

	CreateUploadFunc      func(ctx context.Context, rec *models.UploadRecord) error
	CreateDownloadFunc    func(ctx context.Context, rec *models.DownloadRecord) error
	CreateTransactionFunc func(ctx context.Context, rec *models.TransactionRecord) error
}

func (m *MockRecordRepository) CreateUpload(ctx context.Context, rec *models.UploadRecord) error {
	if m.CreateUploadFunc != nil {
		return m.CreateUploadFunc(ctx, rec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Uploads = append(m.Uploads, *rec)
	return nil
}

func (m *MockRecordRepository) CreateDownload(ctx context.Context, rec *models.DownloadRecord) error {
	if m.CreateDownloadFunc != nil {
		return m.CreateDownloadFunc(ctx, rec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Downloads = append(m.Downloads, *rec)
	return nil
}

func (m *MockRecordRepository) CreateTransaction(ctx context.Context, rec *models.TransactionRecord) error {
	if m.CreateTransactionFunc != nil {
		return m.CreateTransactionFunc(ctx, rec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transactions = append(m.Transactions, *rec)
	return nil
}

func (m *MockRecordRepository) ListUploads(ctx context.Context, limit int) ([]models.UploadRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Uploads, nil
}

func (m *MockRecordRepository) ListDownloads(ctx context.Context, limit int) ([]models.DownloadRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Downloads, nil
}

func (m *MockRecordRepository) ListTransactions(ctx context.Context, limit int) ([]models.TransactionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Transactions, nil
}

// MockIPFSClient implements IPFSClient for testing
type MockIPFSClient struct {
	AddFunc     func(ctx context.Context, filename string, r io.Reader) (*ipfs.AddResult, error)
	CatFunc     func(ctx context.Context, cid string) (io.ReadCloser, error)
	VersionFunc func(ctx context.Context) (string, error)
}

func (m *MockIPFSClient) Add(ctx context.Context, filename string, r io.Reader) (*ipfs.AddResult, error) {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, filename, r)
	}
	return nil, models.ErrInternalServer
}

func (m *MockIPFSClient) Cat(ctx context.Context, cid string) (io.ReadCloser, error) {
	if m.CatFunc != nil {
		return m.CatFunc(ctx, cid)
	}
	return nil, models.ErrInternalServer
}

func (m *MockIPFSClient) Version(ctx context.Context) (string, error) {
	if m.VersionFunc != nil {
		return m.VersionFunc(ctx)
	}
	return "0.29.0", nil
}

func (m *MockIPFSClient) GatewayURL(cid string) string {
	return "http://localhost:8080/ipfs/" + cid
}

// MockSolanaClient implements SolanaClient for testing
type MockSolanaClient struct {
	GetBalanceFunc         func(ctx context.Context, address string) (uint64, error)
	GetLatestBlockhashFunc func(ctx context.Context) (string, error)
	SendTransactionFunc    func(ctx context.Context, tx []byte) (string, error)
	HealthFunc             func(ctx context.Context) bool
}

func (m *MockSolanaClient) GetBalance(ctx context.Context, address string) (uint64, error) {
	if m.GetBalanceFunc != nil {
		return m.GetBalanceFunc(ctx, address)
	}
	return 0, nil
}

func (m *MockSolanaClient) GetLatestBlockhash(ctx context.Context) (string, error) {
	if m.GetLatestBlockhashFunc != nil {
		return m.GetLatestBlockhashFunc(ctx)
	}
	return "", models.ErrInternalServer
}

func (m *MockSolanaClient) SendTransaction(ctx context.Context, tx []byte) (string, error) {
	if m.SendTransactionFunc != nil {
		return m.SendTransactionFunc(ctx, tx)
	}
	return "", models.ErrInternalServer
}

func (m *MockSolanaClient) Health(ctx context.Context) bool {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return true
}

func (m *MockSolanaClient) ExplorerURL(signature string) string {
	return "https://explorer.solana.com/tx/" + signature + "?cluster=devnet"
}

func (m *MockSolanaClient) Network() string {
	return "devnet"
}
