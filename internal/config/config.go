package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server Server
	Auth   Auth
	IPFS   IPFS
	Solana Solana
	Files  Files
}

type Server struct {
	Host           string
	Port           string
	Env            string
	DataDir        string
	AllowedOrigins []string
}

type Auth struct {
	SessionTTL        time.Duration
	MaxFailedAttempts int
	LockoutDuration   time.Duration
	BcryptCost        int
	CleanupInterval   time.Duration
}

type IPFS struct {
	APIURL     string
	GatewayURL string
	Timeout    time.Duration
}

type Solana struct {
	RPCURL  string
	Network string
	Timeout time.Duration
}

type Files struct {
	MaxFileSize       int64
	AllowedExtensions []string
	DefaultSaveDir    string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: Server{
			// The backend only ever serves the desktop shell on this machine
			Host:           getEnv("HOST", "127.0.0.1"),
			Port:           getEnv("PORT", "8765"),
			Env:            getEnv("ENV", "development"),
			DataDir:        dataDir,
			AllowedOrigins: parseAllowedOrigins(),
		},
		Auth: Auth{
			SessionTTL:        getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			MaxFailedAttempts: getEnvAsInt("MAX_FAILED_ATTEMPTS", 5),
			LockoutDuration:   getEnvAsDuration("LOCKOUT_DURATION", 15*time.Minute),
			BcryptCost:        getEnvAsInt("BCRYPT_COST", 12),
			CleanupInterval:   getEnvAsDuration("CLEANUP_INTERVAL", 1*time.Hour),
		},
		IPFS: IPFS{
			APIURL:     getEnv("IPFS_API_URL", "http://127.0.0.1:5001"),
			GatewayURL: getEnv("IPFS_GATEWAY_URL", "http://localhost:8080/ipfs/"),
			Timeout:    getEnvAsDuration("IPFS_TIMEOUT", 30*time.Second),
		},
		Solana: Solana{
			RPCURL:  getEnv("SOLANA_RPC_URL", "https://api.devnet.solana.com"),
			Network: getEnv("SOLANA_NETWORK", "devnet"),
			Timeout: getEnvAsDuration("SOLANA_TIMEOUT", 30*time.Second),
		},
		Files: Files{
			MaxFileSize:       getEnvAsInt64("MAX_FILE_SIZE", 100*1024*1024),
			AllowedExtensions: parseExtensions(),
			DefaultSaveDir:    defaultSaveDir(),
		},
	}

	if cfg.Auth.MaxFailedAttempts < 1 {
		return nil, fmt.Errorf("MAX_FAILED_ATTEMPTS must be at least 1")
	}
	if cfg.Auth.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive")
	}
	if cfg.Auth.LockoutDuration <= 0 {
		return nil, fmt.Errorf("LOCKOUT_DURATION must be positive")
	}

	return cfg, nil
}

// resolveDataDir returns the application data directory, creating it if needed
func resolveDataDir() (string, error) {
	if dir := os.Getenv("DATA_DIR"); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return "", fmt.Errorf("unable to create data dir: %w", err)
		}
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("unable to resolve home directory: %w", err)
	}
	dir := filepath.Join(home, ".pinlock")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("unable to create data dir: %w", err)
	}
	return dir, nil
}

// defaultSaveDir prefers the Desktop when it exists, else the home directory
func defaultSaveDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	desktop := filepath.Join(home, "Desktop")
	if info, err := os.Stat(desktop); err == nil && info.IsDir() {
		return desktop
	}
	return home
}

func (s *Server) Addr() string {
	return s.Host + ":" + s.Port
}

func (s *Server) DatabasePath() string {
	return filepath.Join(s.DataDir, "pinlock.db")
}

func parseAllowedOrigins() []string {
	if originsStr := os.Getenv("ALLOWED_ORIGINS"); originsStr != "" {
		origins := strings.Split(originsStr, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		return origins
	}

	// Defaults cover the desktop shell plus dev-mode frontend servers
	return []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
		"tauri://localhost",
		"https://tauri.localhost",
	}
}

func parseExtensions() []string {
	if extStr := os.Getenv("ALLOWED_FILE_EXTENSIONS"); extStr != "" {
		exts := strings.Split(extStr, ",")
		for i, ext := range exts {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			exts[i] = ext
		}
		return exts
	}
	return []string{".pdf", ".txt", ".json", ".png", ".jpg", ".jpeg", ".gif", ".mp4", ".mp3"}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsInt64(key string, defaultVal int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}
