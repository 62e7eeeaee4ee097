package routes_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"

	"pinlock/internal/handlers"
	"pinlock/internal/models"
	"pinlock/internal/routes"
	"pinlock/internal/services"
)

const validToken = "opaque_token_123"

// stubSessionValidator accepts exactly one token, as the middleware sees it
type stubSessionValidator struct{}

func (stubSessionValidator) Validate(token string) (*models.Session, error) {
	if token != validToken {
		return nil, models.ErrUnauthorized
	}
	return &models.Session{
		Token:     token,
		Username:  "swiftpanda742",
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func newTestRouter() http.Handler {
	authHandler := handlers.NewAuthHandler(&handlers.MockAuthService{
		LoginFunc: func(ctx context.Context, username, password string) (*services.LoginResult, error) {
			return &services.LoginResult{
				Token:     validToken,
				Username:  username,
				ExpiresAt: time.Now().Add(time.Hour),
			}, nil
		},
	})
	ipfsHandler := handlers.NewIPFSHandler(&handlers.MockIPFSService{}, "/home/user")
	solanaHandler := handlers.NewSolanaHandler(&handlers.MockSolanaService{})
	recordsHandler := handlers.NewRecordsHandler(&services.MockRecordRepository{})
	systemHandler := handlers.NewSystemHandler(
		&handlers.MockConnectionChecker{Connected: true},
		&handlers.MockConnectionChecker{Connected: false},
		"/home/user/Desktop", "/home/user/.pinlock")

	router := chi.NewRouter()
	routes.RegisterRoutes(router, authHandler, ipfsHandler, solanaHandler, recordsHandler, systemHandler, stubSessionValidator{})
	return router
}

func TestRoutes_Health(t *testing.T) {
	apitest.New().
		Handler(newTestRouter()).
		Get("/health").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.status`, "healthy")).
		Assert(jsonpath.Equal(`$.ipfs_connected`, true)).
		Assert(jsonpath.Equal(`$.solana_connected`, false)).
		End()
}

func TestRoutes_SaveDir(t *testing.T) {
	apitest.New().
		Handler(newTestRouter()).
		Get("/config/save-dir").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.save_dir`, "/home/user/Desktop")).
		End()
}

func TestRoutes_LoginIsPublic(t *testing.T) {
	apitest.New().
		Handler(newTestRouter()).
		Post("/auth/login").
		JSON(`{"username":"swiftpanda742","password":"secret"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.token`, validToken)).
		End()
}

func TestRoutes_ProtectedRequireBearer(t *testing.T) {
	protected := []struct {
		method string
		path   string
	}{
		{"POST", "/auth/logout"},
		{"POST", "/auth/change-password"},
		{"POST", "/ipfs/upload"},
		{"POST", "/ipfs/download"},
		{"POST", "/solana/validate-wallet"},
		{"POST", "/solana/register"},
		{"GET", "/records/uploads"},
		{"GET", "/records/downloads"},
		{"GET", "/records/transactions"},
	}

	router := newTestRouter()
	for _, route := range protected {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			// No token
			apitest.New().
				Handler(router).
				Method(route.method).
				URL(route.path).
				Expect(t).
				Status(http.StatusUnauthorized).
				End()

			// Garbage token
			apitest.New().
				Handler(router).
				Method(route.method).
				URL(route.path).
				Header("Authorization", "Bearer not-the-token").
				Expect(t).
				Status(http.StatusUnauthorized).
				Assert(jsonpath.Equal(`$.error`, "unauthorized")).
				End()
		})
	}
}

func TestRoutes_BearerGrantsAccess(t *testing.T) {
	apitest.New().
		Handler(newTestRouter()).
		Get("/records/uploads").
		Header("Authorization", "Bearer "+validToken).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.success`, true)).
		End()
}

func TestRoutes_GatewayURLIsPublic(t *testing.T) {
	apitest.New().
		Handler(newTestRouter()).
		Post("/ipfs/gateway-url").
		JSON(`{"cid":"QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"}`).
		Expect(t).
		Status(http.StatusOK).
		End()
}
