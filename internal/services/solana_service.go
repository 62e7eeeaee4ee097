package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"pinlock/internal/clients/solana"
	"pinlock/internal/models"
	"pinlock/internal/validate"
)

// SolanaClient defines the RPC operations the service needs
type SolanaClient interface {
	GetBalance(ctx context.Context, address string) (uint64, error)
	GetLatestBlockhash(ctx context.Context) (string, error)
	SendTransaction(ctx context.Context, tx []byte) (string, error)
	Health(ctx context.Context) bool
	ExplorerURL(signature string) string
	Network() string
}

// WalletInfo is returned by wallet validation. Key material is never echoed
// back; only a truncated address preview leaves this service.
type WalletInfo struct {
	BalanceLamports uint64
	BalanceSOL      float64
	Network         string
	AddressPreview  string
}

// SolanaService validates wallets and registers CIDs on chain via memo
// transactions.
type SolanaService struct {
	client  SolanaClient
	records RecordRepository
	logger  *slog.Logger
}

func NewSolanaService(client SolanaClient, records RecordRepository, logger *slog.Logger) *SolanaService {
	return &SolanaService{
		client:  client,
		records: records,
		logger:  logger,
	}
}

// ValidateWallet decodes the private key and fetches the wallet balance.
func (s *SolanaService) ValidateWallet(ctx context.Context, privateKey string) (*WalletInfo, error) {
	cleanKey, err := validate.PrivateKey(privateKey)
	if err != nil {
		return nil, err
	}

	keypair, err := solana.KeypairFromBase58(cleanKey)
	if err != nil {
		return nil, models.ErrBadRequest
	}

	lamports, err := s.client.GetBalance(ctx, keypair.Address())
	if err != nil {
		s.logger.Error("balance query failed", slog.Any("error", err))
		return nil, err
	}

	s.logger.Info("wallet validated", slog.String("network", s.client.Network()))

	return &WalletInfo{
		BalanceLamports: lamports,
		BalanceSOL:      float64(lamports) / 1e9,
		Network:         s.client.Network(),
		AddressPreview:  keypair.AddressPreview(),
	}, nil
}

// RegisterCID anchors an IPFS CID on chain as a signed memo transaction and
// records the resulting signature.
func (s *SolanaService) RegisterCID(ctx context.Context, privateKey, cid string) (*models.TransactionRecord, error) {
	cleanCID, err := validate.CID(cid)
	if err != nil {
		return nil, err
	}
	cleanKey, err := validate.PrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	keypair, err := solana.KeypairFromBase58(cleanKey)
	if err != nil {
		return nil, models.ErrBadRequest
	}

	blockhash, err := s.client.GetLatestBlockhash(ctx)
	if err != nil {
		s.logger.Error("blockhash fetch failed", slog.Any("error", err))
		return nil, err
	}

	tx, err := solana.BuildMemoTransaction(keypair, blockhash, "ipfs:"+cleanCID)
	if err != nil {
		return nil, err
	}

	signature, err := s.client.SendTransaction(ctx, tx)
	if err != nil {
		s.logger.Error("transaction submission failed", slog.Any("error", err))
		return nil, err
	}

	rec := &models.TransactionRecord{
		ID:          uuid.NewString(),
		CID:         cleanCID,
		Signature:   signature,
		Network:     s.client.Network(),
		ExplorerURL: s.client.ExplorerURL(signature),
		CreatedAt:   time.Now(),
	}
	if err := s.records.CreateTransaction(ctx, rec); err != nil {
		s.logger.Error("failed to record transaction", slog.Any("error", err))
	}

	s.logger.Info("cid registered on chain",
		slog.String("cid", cleanCID),
		slog.String("signature", signature))
	return rec, nil
}

// CheckConnection reports whether the RPC node is reachable and healthy.
func (s *SolanaService) CheckConnection(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.client.Health(ctx)
}
