package handlers

import (
	"context"
	"errors"
	"net/http"

	"pinlock/internal/models"
	"pinlock/internal/services"
	ivalidate "pinlock/internal/validate"
	pkghttp "pinlock/pkg/http"
)

// SolanaServiceInterface defines the interface for wallet operations
type SolanaServiceInterface interface {
	ValidateWallet(ctx context.Context, privateKey string) (*services.WalletInfo, error)
	RegisterCID(ctx context.Context, privateKey, cid string) (*models.TransactionRecord, error)
}

// SolanaHandler handles wallet validation and CID registration requests
type SolanaHandler struct {
	service SolanaServiceInterface
}

func NewSolanaHandler(service SolanaServiceInterface) *SolanaHandler {
	return &SolanaHandler{service: service}
}

type ValidateWalletRequest struct {
	PrivateKey string `json:"private_key" validate:"required"`
}

type RegisterRequest struct {
	PrivateKey string `json:"private_key" validate:"required"`
	CID        string `json:"cid" validate:"required"`
}

// ValidateWallet checks the private key and returns balance plus a truncated
// address preview. Key material is never echoed back.
func (h *SolanaHandler) ValidateWallet(w http.ResponseWriter, r *http.Request) {
	var req ValidateWalletRequest
	if err := pkghttp.DecodeJSON(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	info, err := h.service.ValidateWallet(r.Context(), req.PrivateKey)
	if err != nil {
		writeSolanaError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"success":            true,
		"balance_sol":        info.BalanceSOL,
		"balance_lamports":   info.BalanceLamports,
		"network":            info.Network,
		"public_key_preview": info.AddressPreview,
	})
}

// Register anchors an IPFS CID on chain as a memo transaction.
func (h *SolanaHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := pkghttp.DecodeJSON(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	rec, err := h.service.RegisterCID(r.Context(), req.PrivateKey, req.CID)
	if err != nil {
		writeSolanaError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"cid":          rec.CID,
		"signature":    rec.Signature,
		"network":      rec.Network,
		"explorer_url": rec.ExplorerURL,
	})
}

func writeSolanaError(w http.ResponseWriter, err error) {
	var ve *ivalidate.ValidationError
	switch {
	case errors.As(err, &ve):
		pkghttp.WriteBadRequest(w, ve.Error())
	case errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, "Invalid wallet key")
	default:
		pkghttp.WriteError(w, http.StatusBadGateway, "solana_error", err.Error())
	}
}
