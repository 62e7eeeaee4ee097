package handlers

import (
	"context"
	"errors"
	"net/http"

	"pinlock/internal/models"
	ivalidate "pinlock/internal/validate"
	pkghttp "pinlock/pkg/http"
)

// IPFSServiceInterface defines the interface for IPFS operations
type IPFSServiceInterface interface {
	Upload(ctx context.Context, filePath string) (*models.UploadRecord, error)
	Download(ctx context.Context, cid, outputDir string) (*models.DownloadRecord, error)
	GatewayURL(cid string) (string, error)
}

// IPFSHandler handles IPFS upload/download requests
type IPFSHandler struct {
	service        IPFSServiceInterface
	defaultSaveDir string
}

func NewIPFSHandler(service IPFSServiceInterface, defaultSaveDir string) *IPFSHandler {
	return &IPFSHandler{service: service, defaultSaveDir: defaultSaveDir}
}

type UploadRequest struct {
	FilePath string `json:"file_path" validate:"required"`
}

type DownloadRequest struct {
	CID       string `json:"cid" validate:"required"`
	OutputDir string `json:"output_dir"`
}

type GatewayURLRequest struct {
	CID string `json:"cid" validate:"required"`
}

// Upload adds a local file to IPFS.
func (h *IPFSHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req UploadRequest
	if err := pkghttp.DecodeJSON(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	rec, err := h.service.Upload(r.Context(), req.FilePath)
	if err != nil {
		writeIPFSError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"cid":         rec.CID,
		"filename":    rec.Filename,
		"size":        rec.Size,
		"gateway_url": rec.GatewayURL,
	})
}

// Download fetches content behind a CID into the requested directory, or the
// default save directory when none is given.
func (h *IPFSHandler) Download(w http.ResponseWriter, r *http.Request) {
	var req DownloadRequest
	if err := pkghttp.DecodeJSON(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = h.defaultSaveDir
	}

	rec, err := h.service.Download(r.Context(), req.CID, outputDir)
	if err != nil {
		writeIPFSError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"cid":         rec.CID,
		"filename":    rec.Filename,
		"path":        rec.Path,
		"gateway_url": rec.GatewayURL,
	})
}

// GatewayURL builds the public gateway URL for a CID.
func (h *IPFSHandler) GatewayURL(w http.ResponseWriter, r *http.Request) {
	var req GatewayURLRequest
	if err := pkghttp.DecodeJSON(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	url, err := h.service.GatewayURL(req.CID)
	if err != nil {
		writeIPFSError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"cid":         req.CID,
		"gateway_url": url,
	})
}

func writeIPFSError(w http.ResponseWriter, err error) {
	var ve *ivalidate.ValidationError
	if errors.As(err, &ve) {
		pkghttp.WriteBadRequest(w, ve.Error())
		return
	}
	pkghttp.WriteError(w, http.StatusBadGateway, "ipfs_error", err.Error())
}
