package handlers

import (
	"context"
	"net/http"

	pkghttp "pinlock/pkg/http"
)

const (
	AppName    = "pinlock"
	AppVersion = "1.0.0"
)

// ConnectionChecker is implemented by the IPFS and Solana services
type ConnectionChecker interface {
	CheckConnection(ctx context.Context) bool
}

// SystemHandler serves health and local configuration endpoints.
type SystemHandler struct {
	ipfs    ConnectionChecker
	solana  ConnectionChecker
	saveDir string
	dataDir string
}

func NewSystemHandler(ipfs, solana ConnectionChecker, saveDir, dataDir string) *SystemHandler {
	return &SystemHandler{
		ipfs:    ipfs,
		solana:  solana,
		saveDir: saveDir,
		dataDir: dataDir,
	}
}

// Health reports liveness plus connectivity of both external collaborators.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"status":           "healthy",
		"app":              AppName,
		"version":          AppVersion,
		"ipfs_connected":   h.ipfs.CheckConnection(r.Context()),
		"solana_connected": h.solana.CheckConnection(r.Context()),
	})
}

// SaveDir returns the default save and data directories for the frontend's
// file dialogs.
func (h *SystemHandler) SaveDir(w http.ResponseWriter, r *http.Request) {
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"save_dir": h.saveDir,
		"data_dir": h.dataDir,
	})
}
