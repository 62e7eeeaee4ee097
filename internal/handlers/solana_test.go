package handlers_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"pinlock/internal/handlers"
	"pinlock/internal/models"
	"pinlock/internal/services"
)

func TestValidateWallet_Success(t *testing.T) {
	mockSolana := &handlers.MockSolanaService{
		ValidateWalletFunc: func(ctx context.Context, privateKey string) (*services.WalletInfo, error) {
			return &services.WalletInfo{
				BalanceLamports: 2_000_000_000,
				BalanceSOL:      2.0,
				Network:         "devnet",
				AddressPreview:  "7fUAJdSt...Qq9WBr3x",
			}, nil
		},
	}

	handler := handlers.NewSolanaHandler(mockSolana)
	req := handlers.NewTestRequest(t, "POST", "/solana/validate-wallet", handlers.ValidateWalletRequest{
		PrivateKey: "5Kb8kLf9zgWQnogidDA76MzPL6TsZZY36hWXMssSzNydYXYB9KF",
	})

	w := httptest.NewRecorder()
	handler.ValidateWallet(w, req)

	var resp map[string]any
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, 2.0, resp["balance_sol"])
	assert.Equal(t, "devnet", resp["network"])
	assert.Equal(t, "7fUAJdSt...Qq9WBr3x", resp["public_key_preview"])

	// Key material never appears in the response
	assert.NotContains(t, w.Body.String(), "5Kb8kLf9")
	assert.NotContains(t, w.Body.String(), "private_key")
}

func TestValidateWallet_BadKey(t *testing.T) {
	mockSolana := &handlers.MockSolanaService{
		ValidateWalletFunc: func(ctx context.Context, privateKey string) (*services.WalletInfo, error) {
			return nil, models.ErrBadRequest
		},
	}

	handler := handlers.NewSolanaHandler(mockSolana)
	req := handlers.NewTestRequest(t, "POST", "/solana/validate-wallet", handlers.ValidateWalletRequest{
		PrivateKey: "garbage",
	})

	w := httptest.NewRecorder()
	handler.ValidateWallet(w, req)

	handlers.AssertErrorResponse(t, w, 400, "bad_request")
}

func TestRegister_Success(t *testing.T) {
	mockSolana := &handlers.MockSolanaService{
		RegisterCIDFunc: func(ctx context.Context, privateKey, cid string) (*models.TransactionRecord, error) {
			return &models.TransactionRecord{
				CID:         cid,
				Signature:   "5sig",
				Network:     "devnet",
				ExplorerURL: "https://explorer.solana.com/tx/5sig?cluster=devnet",
			}, nil
		},
	}

	handler := handlers.NewSolanaHandler(mockSolana)
	req := handlers.NewTestRequest(t, "POST", "/solana/register", handlers.RegisterRequest{
		PrivateKey: "5Kb8kLf9zgWQnogidDA76MzPL6TsZZY36hWXMssSzNydYXYB9KF",
		CID:        testCID,
	})

	w := httptest.NewRecorder()
	handler.Register(w, req)

	var resp map[string]any
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, testCID, resp["cid"])
	assert.Equal(t, "5sig", resp["signature"])
	assert.Contains(t, resp["explorer_url"], "5sig")
}

func TestRegister_MissingFields(t *testing.T) {
	handler := handlers.NewSolanaHandler(&handlers.MockSolanaService{})
	req := handlers.NewTestRequest(t, "POST", "/solana/register", handlers.RegisterRequest{
		CID: testCID,
	})

	w := httptest.NewRecorder()
	handler.Register(w, req)

	handlers.AssertErrorResponse(t, w, 400, "bad_request")
}
