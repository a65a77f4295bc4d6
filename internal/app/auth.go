package app

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/argon2"
)

const (
	DefaultAuthFile = "auth.secret"
	SessionTTL      = 24 * time.Hour
)

// Argon2id parameters (OWASP recommended)
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32
	saltLen       = 16
	tokenLen      = 32
)

// Gate is the admin access-control boundary: one shared secret, and an
// in-memory table of session tokens issued against it. There is no
// per-admin identity; a valid session simply means someone presented
// the password within the last 24 hours.
type Gate struct {
	// passwordHash is the argon2id hash of the shared secret. Empty
	// together with plainPassword means the gate is open (dev mode).
	passwordHash  string
	plainPassword string

	mu       sync.Mutex
	sessions map[string]time.Time
	now      func() time.Time
}

// NewGate loads the admin credential and returns the gate. Order of
// precedence: ADMIN_PASSWORD_HASH, then an auth.secret file (written by
// the hash-password subcommand), then plaintext ADMIN_PASSWORD as a
// development fallback.
func NewGate(cfg *Config) (*Gate, error) {
	g := &Gate{
		sessions: make(map[string]time.Time),
		now:      time.Now,
	}

	if cfg.AdminPasswordHash != "" {
		g.passwordHash = cfg.AdminPasswordHash
		log.Printf("✅ Admin gate enabled (hash from environment)")
		return g, nil
	}

	hash, err := readAuthFile()
	if err != nil {
		return nil, err
	}
	if hash != "" {
		g.passwordHash = hash
		log.Printf("✅ Admin gate enabled (hash from auth file)")
		return g, nil
	}

	if cfg.AdminPassword != "" {
		g.plainPassword = cfg.AdminPassword
		log.Printf("⚠️  Admin gate using PLAINTEXT password from ADMIN_PASSWORD - for local development only")
		return g, nil
	}

	log.Println("╔══════════════════════════════════════════════════════════════════╗")
	log.Println("║                         ⚠️  WARNING ⚠️                            ║")
	log.Println("║                                                                  ║")
	log.Println("║  NO ADMIN CREDENTIAL CONFIGURED - ADMIN PANEL UNPROTECTED!      ║")
	log.Println("║                                                                  ║")
	log.Println("║  This is for LOCAL DEVELOPMENT ONLY!                            ║")
	log.Println("║  DO NOT USE IN PRODUCTION!                                      ║")
	log.Println("║                                                                  ║")
	log.Println("║  To create an auth file, run:                                   ║")
	log.Println("║    ./site-server hash-password                                  ║")
	log.Println("║                                                                  ║")
	log.Println("╚══════════════════════════════════════════════════════════════════╝")
	return g, nil
}

// readAuthFile reads the argon2id hash from AUTH_FILE or the default
// auth.secret next to the binary. A missing file is not an error.
func readAuthFile() (string, error) {
	authFile := os.Getenv("AUTH_FILE")
	if authFile == "" {
		execPath, err := os.Executable()
		if err != nil {
			return "", fmt.Errorf("failed to get executable path: %w", err)
		}
		authFile = filepath.Join(filepath.Dir(execPath), DefaultAuthFile)
	}

	data, err := os.ReadFile(authFile)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read auth file: %w", err)
	}

	hash := strings.TrimSpace(string(data))
	if !strings.HasPrefix(hash, "$argon2id$") {
		return "", fmt.Errorf("invalid auth file format (expected an argon2id hash)")
	}
	return hash, nil
}

// CheckPassword verifies a submitted password against the configured
// credential.
func (g *Gate) CheckPassword(password string) bool {
	if g.passwordHash != "" {
		match, err := VerifyPassword(password, g.passwordHash)
		if err != nil {
			log.Printf("Error verifying password: %v", err)
			return false
		}
		return match
	}
	if g.plainPassword != "" {
		return subtle.ConstantTimeCompare([]byte(password), []byte(g.plainPassword)) == 1
	}
	// No credential configured: open gate, dev mode.
	return true
}

// IssueSession creates an opaque session token valid for 24 hours.
func (g *Gate) IssueSession() (string, error) {
	raw := make([]byte, tokenLen)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	g.mu.Lock()
	g.sessions[token] = g.now().Add(SessionTTL)
	g.mu.Unlock()
	return token, nil
}

// ValidSession reports whether the token belongs to an unexpired session.
// Expired entries are pruned as they are encountered.
func (g *Gate) ValidSession(token string) bool {
	if token == "" {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	expiry, ok := g.sessions[token]
	if !ok {
		return false
	}
	if g.now().After(expiry) {
		delete(g.sessions, token)
		return false
	}
	return true
}

// RevokeSession removes a session (logout).
func (g *Gate) RevokeSession(token string) {
	g.mu.Lock()
	delete(g.sessions, token)
	g.mu.Unlock()
}

// RequireSession wraps a handler and rejects requests without a valid
// admin session cookie.
func (g *Gate) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil || !g.ValidSession(cookie.Value) {
			log.Printf("⚠️  Rejected unauthenticated %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
			writeJSONError(w, http.StatusUnauthorized, MsgNotAuthenticated)
			return
		}
		next(w, r)
	}
}

// HashPassword creates an Argon2id hash of the password
func HashPassword(password string) (string, error) {
	// Generate random salt
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	// Hash password with Argon2id
	hash := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	// Encode as: $argon2id$v=19$m=65536,t=1,p=4$salt$hash
	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		argon2Memory, argon2Time, argon2Threads, b64Salt, b64Hash), nil
}

// VerifyPassword verifies a password against an Argon2id hash
func VerifyPassword(password, hash string) (bool, error) {
	// Parse hash format: $argon2id$v=19$m=65536,t=1,p=4$salt$hash
	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		return false, fmt.Errorf("invalid hash format")
	}

	if parts[1] != "argon2id" {
		return false, fmt.Errorf("not an argon2id hash")
	}

	// Parse parameters
	var memory, time, threads uint32
	_, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads)
	if err != nil {
		return false, fmt.Errorf("failed to parse hash parameters: %w", err)
	}

	// Decode salt and hash
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("failed to decode salt: %w", err)
	}

	decodedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("failed to decode hash: %w", err)
	}

	// Hash the provided password with same parameters
	computedHash := argon2.IDKey([]byte(password), salt, time, memory, uint8(threads), uint32(len(decodedHash)))

	// Compare using constant-time comparison
	return subtle.ConstantTimeCompare(decodedHash, computedHash) == 1, nil
}

// CreateAuthFile hashes the password and writes it to the auth file
// (0400, read-only). An existing file is only replaced when overwrite is
// set or the caller confirms interactively.
func CreateAuthFile(password string, overwrite bool, confirm func(prompt string) bool) error {
	authFile := os.Getenv("AUTH_FILE")
	if authFile == "" {
		execPath, err := os.Executable()
		if err != nil {
			return fmt.Errorf("failed to get executable path: %w", err)
		}
		authFile = filepath.Join(filepath.Dir(execPath), DefaultAuthFile)
	}

	if _, err := os.Stat(authFile); err == nil {
		if !overwrite {
			if confirm == nil || !confirm(fmt.Sprintf("Auth file already exists: %s\nOverwrite? (y/N): ", authFile)) {
				return fmt.Errorf("aborted")
			}
		}
		// Delete existing file (necessary because we use 0400 read-only)
		if err := os.Remove(authFile); err != nil {
			return fmt.Errorf("failed to remove existing auth file: %w", err)
		}
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := os.WriteFile(authFile, []byte(hash+"\n"), 0400); err != nil {
		return fmt.Errorf("failed to write auth file: %w", err)
	}

	fmt.Printf("✅ Auth file created: %s (mode: 0400 read-only)\n", authFile)
	return nil
}
