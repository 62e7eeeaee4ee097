package models

import "time"

// UploadRecord is the history entry written after a successful IPFS upload.
type UploadRecord struct {
	ID         string    `json:"id"`
	CID        string    `json:"cid"`
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	GatewayURL string    `json:"gateway_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// DownloadRecord is the history entry written after a successful IPFS download.
type DownloadRecord struct {
	ID         string    `json:"id"`
	CID        string    `json:"cid"`
	Filename   string    `json:"filename"`
	Path       string    `json:"path"`
	GatewayURL string    `json:"gateway_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// TransactionRecord is the history entry written after a CID registration on
// the Solana blockchain.
type TransactionRecord struct {
	ID          string    `json:"id"`
	CID         string    `json:"cid"`
	Signature   string    `json:"signature"`
	Network     string    `json:"network"`
	ExplorerURL string    `json:"explorer_url"`
	CreatedAt   time.Time `json:"created_at"`
}
