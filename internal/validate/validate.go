// Package validate holds boundary checks for values that cross into external
// systems: filesystem paths, IPFS CIDs and Solana key material.
package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ValidationError marks input rejected at the boundary; handlers map it to a
// 400 response.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func newError(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

var (
	cidPattern       = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	base58Pattern    = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]+$`)
	unsafeFilenameRe = regexp.MustCompile(`[^\w\s\-.]`)
)

// FilePath validates a path for upload: it must exist, be a regular file,
// stay under maxSize and carry an allowed extension.
func FilePath(path string, maxSize int64, allowedExtensions []string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", newError("invalid file path: %s", path)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", newError("file does not exist: %s", path)
	}
	if !info.Mode().IsRegular() {
		return "", newError("path is not a regular file: %s", path)
	}
	if info.Size() > maxSize {
		return "", newError("file too large: %.2fMB (max: %.2fMB)",
			float64(info.Size())/(1024*1024), float64(maxSize)/(1024*1024))
	}

	ext := strings.ToLower(filepath.Ext(abs))
	allowed := false
	for _, e := range allowedExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", newError("file type not allowed: %s", ext)
	}
	return abs, nil
}

// DirectoryPath validates an output directory: it must exist and be a
// directory.
func DirectoryPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", newError("invalid directory path: %s", path)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", newError("directory does not exist: %s", path)
	}
	if !info.IsDir() {
		return "", newError("path is not a directory: %s", path)
	}
	return abs, nil
}

// CID validates an IPFS content identifier. Covers CIDv0 (Qm..., base58) and
// CIDv1 (b..., base32) shapes without decoding either.
func CID(cid string) (string, error) {
	cid = strings.TrimSpace(cid)
	if cid == "" {
		return "", newError("CID cannot be empty")
	}
	if len(cid) < 10 || len(cid) > 100 {
		return "", newError("invalid CID length")
	}
	if !cidPattern.MatchString(cid) {
		return "", newError("CID contains invalid characters")
	}
	return cid, nil
}

// PrivateKey validates the shape of a base58-encoded Solana private key
// (64-byte secret, 80-90 characters in base58).
func PrivateKey(key string) (string, error) {
	key = strings.NewReplacer("\n", "", " ", "").Replace(strings.TrimSpace(key))
	if key == "" {
		return "", newError("private key cannot be empty")
	}
	if len(key) < 80 || len(key) > 90 {
		return "", newError("invalid private key length")
	}
	if !base58Pattern.MatchString(key) {
		return "", newError("private key contains invalid characters")
	}
	return key, nil
}

// Filename strips path components and unsafe characters from a filename and
// caps its length.
func Filename(name string) string {
	name = filepath.Base(name)
	name = unsafeFilenameRe.ReplaceAllString(name, "")

	if len(name) > 255 {
		ext := filepath.Ext(name)
		name = name[:255-len(ext)] + ext
	}
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "download"
	}
	return name
}
