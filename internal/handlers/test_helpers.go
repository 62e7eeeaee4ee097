package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pinlock/internal/auth"
	"pinlock/internal/models"
	"pinlock/internal/services"
	pkghttp "pinlock/pkg/http"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithSessionContext injects a validated session, as the auth middleware would
func WithSessionContext(req *http.Request, username string) *http.Request {
	session := &models.Session{
		Username:  username,
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	ctx := context.WithValue(req.Context(), auth.SessionContextKey, session)
	return req.WithContext(ctx)
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	LoginFunc          func(ctx context.Context, username, password string) (*services.LoginResult, error)
	LogoutFunc         func(token string) error
	FirstTimeCheckFunc func() *models.Credentials
	ResetFunc          func(ctx context.Context) error
	ChangePasswordFunc func(ctx context.Context, username, oldPassword, newPassword string) error
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*services.LoginResult, error) {
	if m.LoginFunc == nil {
		return nil, models.ErrInvalidCredentials
	}
	return m.LoginFunc(ctx, username, password)
}

func (m *MockAuthService) Logout(token string) error {
	if m.LogoutFunc == nil {
		return nil
	}
	return m.LogoutFunc(token)
}

func (m *MockAuthService) FirstTimeCheck() *models.Credentials {
	if m.FirstTimeCheckFunc == nil {
		return nil
	}
	return m.FirstTimeCheckFunc()
}

func (m *MockAuthService) Reset(ctx context.Context) error {
	if m.ResetFunc == nil {
		return nil
	}
	return m.ResetFunc(ctx)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	if m.ChangePasswordFunc == nil {
		return nil
	}
	return m.ChangePasswordFunc(ctx, username, oldPassword, newPassword)
}

// MockIPFSService implements IPFSServiceInterface for testing
type MockIPFSService struct {
	UploadFunc     func(ctx context.Context, filePath string) (*models.UploadRecord, error)
	DownloadFunc   func(ctx context.Context, cid, outputDir string) (*models.DownloadRecord, error)
	GatewayURLFunc func(cid string) (string, error)
}

func (m *MockIPFSService) Upload(ctx context.Context, filePath string) (*models.UploadRecord, error) {
	if m.UploadFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.UploadFunc(ctx, filePath)
}

func (m *MockIPFSService) Download(ctx context.Context, cid, outputDir string) (*models.DownloadRecord, error) {
	if m.DownloadFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.DownloadFunc(ctx, cid, outputDir)
}

func (m *MockIPFSService) GatewayURL(cid string) (string, error) {
	if m.GatewayURLFunc == nil {
		return "http://localhost:8080/ipfs/" + cid, nil
	}
	return m.GatewayURLFunc(cid)
}

// MockSolanaService implements SolanaServiceInterface for testing
type MockSolanaService struct {
	ValidateWalletFunc func(ctx context.Context, privateKey string) (*services.WalletInfo, error)
	RegisterCIDFunc    func(ctx context.Context, privateKey, cid string) (*models.TransactionRecord, error)
}

func (m *MockSolanaService) ValidateWallet(ctx context.Context, privateKey string) (*services.WalletInfo, error) {
	if m.ValidateWalletFunc == nil {
		return nil, models.ErrBadRequest
	}
	return m.ValidateWalletFunc(ctx, privateKey)
}

func (m *MockSolanaService) RegisterCID(ctx context.Context, privateKey, cid string) (*models.TransactionRecord, error) {
	if m.RegisterCIDFunc == nil {
		return nil, models.ErrBadRequest
	}
	return m.RegisterCIDFunc(ctx, privateKey, cid)
}

// MockConnectionChecker implements ConnectionChecker for testing
type MockConnectionChecker struct {
	Connected bool
}

func (m *MockConnectionChecker) CheckConnection(ctx context.Context) bool {
	return m.Connected
}
