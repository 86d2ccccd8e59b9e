package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
)

type Config struct {
	StoreBackend     string
	StoreTimeoutSecs int

	FirestoreProjectID      string
	FirestoreCollection     string
	FirebaseCredentialsFile string
	FirebaseCredentialsJSON string

	DatabaseURL      string
	RedisURL         string
	CacheTTLSecs     int
	RefreshPerMinute int

	ContributionMode string

	HTTPPort         int
	TelegramBotToken string

	SSHPort        int
	SSHHostKeyPath string

	MCPTransport          string
	MCPHTTPBind           string
	MCPHTTPPort           int
	MCPRequestTimeoutSecs int
}

func Load() *Config {
	cfg := &Config{
		DatabaseURL:             os.Getenv("DATABASE_URL"),
		RedisURL:                os.Getenv("REDIS_URL"),
		TelegramBotToken:        os.Getenv("TELEGRAM_BOT_TOKEN"),
		FirebaseCredentialsFile: strings.TrimSpace(os.Getenv("FIREBASE_CREDENTIALS_FILE")),
		FirebaseCredentialsJSON: os.Getenv("FIREBASE_CREDENTIALS_JSON"),
	}

	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(os.Getenv("STORE_BACKEND")))
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = BackendFirestore
	}
	if cfg.StoreBackend != BackendFirestore && cfg.StoreBackend != BackendPostgres {
		log.Printf("Warning: unsupported STORE_BACKEND=%q, defaulting to %s", cfg.StoreBackend, BackendFirestore)
		cfg.StoreBackend = BackendFirestore
	}

	cfg.StoreTimeoutSecs = 10
	if v := strings.TrimSpace(os.Getenv("STORE_TIMEOUT_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.StoreTimeoutSecs = n
		}
	}

	cfg.FirestoreProjectID = strings.TrimSpace(os.Getenv("FIRESTORE_PROJECT_ID"))
	if cfg.FirestoreProjectID == "" {
		cfg.FirestoreProjectID = strings.TrimSpace(os.Getenv("GOOGLE_CLOUD_PROJECT"))
	}
	cfg.FirestoreCollection = strings.TrimSpace(os.Getenv("FIRESTORE_COLLECTION"))
	if cfg.FirestoreCollection == "" {
		cfg.FirestoreCollection = "lambdaF"
	}

	if cfg.StoreBackend == BackendFirestore && cfg.FirestoreProjectID == "" {
		log.Println("Warning: FIRESTORE_PROJECT_ID not set")
	}
	if cfg.StoreBackend == BackendPostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, using in-process cache")
	}
	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set")
	}

	cfg.CacheTTLSecs = 600
	if v := strings.TrimSpace(os.Getenv("CACHE_TTL_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CacheTTLSecs = n
		}
	}

	cfg.RefreshPerMinute = 6
	if v := strings.TrimSpace(os.Getenv("REFRESH_PER_MINUTE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.RefreshPerMinute = n
		}
	}

	cfg.ContributionMode = strings.ToLower(strings.TrimSpace(os.Getenv("CONTRIBUTION_MODE")))
	if cfg.ContributionMode == "" {
		cfg.ContributionMode = "breakdown"
	}
	if cfg.ContributionMode != "breakdown" && cfg.ContributionMode != "direct" {
		log.Printf("Warning: unsupported CONTRIBUTION_MODE=%q, defaulting to breakdown", cfg.ContributionMode)
		cfg.ContributionMode = "breakdown"
	}

	cfg.HTTPPort = 8080
	if v := strings.TrimSpace(os.Getenv("HTTP_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPPort = n
		}
	}

	cfg.SSHPort = 23234
	if v := strings.TrimSpace(os.Getenv("SSH_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SSHPort = n
		}
	}

	cfg.SSHHostKeyPath = strings.TrimSpace(os.Getenv("SSH_HOST_KEY_PATH"))
	if cfg.SSHHostKeyPath == "" {
		cfg.SSHHostKeyPath = ".ssh/lambdaf_ed25519"
	}

	cfg.MCPTransport = strings.ToLower(strings.TrimSpace(os.Getenv("MCP_TRANSPORT")))
	if cfg.MCPTransport == "" {
		cfg.MCPTransport = "stdio"
	}
	if cfg.MCPTransport != "stdio" && cfg.MCPTransport != "http" {
		log.Printf("Warning: unsupported MCP_TRANSPORT=%q, defaulting to stdio", cfg.MCPTransport)
		cfg.MCPTransport = "stdio"
	}

	cfg.MCPHTTPBind = strings.TrimSpace(os.Getenv("MCP_HTTP_BIND"))
	if cfg.MCPHTTPBind == "" {
		cfg.MCPHTTPBind = "127.0.0.1"
	}

	cfg.MCPHTTPPort = 8090
	if v := strings.TrimSpace(os.Getenv("MCP_HTTP_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MCPHTTPPort = n
		}
	}

	cfg.MCPRequestTimeoutSecs = 5
	if v := strings.TrimSpace(os.Getenv("MCP_REQUEST_TIMEOUT_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MCPRequestTimeoutSecs = n
		}
	}

	return cfg
}

// FirebaseCredentials returns the inline service account JSON. Double-escaped
// newlines in the private key are collapsed so the PEM block parses.
func (c *Config) FirebaseCredentials() []byte {
	raw := strings.TrimSpace(c.FirebaseCredentialsJSON)
	if raw == "" {
		return nil
	}
	return []byte(strings.ReplaceAll(raw, `\\n`, `\n`))
}
