// Package secrets keeps API bearer tokens out of the config file. Tokens are
// sealed with AES-GCM under a random key that lives next to them, both files
// readable by the owner only.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	tokensFile = "tokens.json"
	keyFile    = "tokens.key"

	// MinTokenLen is the shortest token Put accepts.
	MinTokenLen = 16
	// rotateBytes is the entropy of a generated token; it is hex encoded.
	rotateBytes = 32
)

var (
	ErrNotFound     = errors.New("token not found")
	ErrInvalidName  = errors.New("invalid token name")
	ErrInvalidToken = errors.New("invalid token")
)

var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,31}$`)

// Info describes a stored token without revealing it.
type Info struct {
	Name        string
	Fingerprint string
	Updated     time.Time
}

type entry struct {
	Sealed  string `json:"sealed"`
	Updated int64  `json:"updated"`
}

type tokenFile struct {
	Tokens map[string]entry `json:"tokens"`
}

// Store keeps named tokens in Dir.
type Store struct {
	Dir string
	// now is replaced in tests.
	now func() time.Time
}

// DefaultStore uses the energylog directory under the user config dir.
func DefaultStore() (*Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return &Store{Dir: filepath.Join(dir, "energylog")}, nil
}

// ValidateToken reports whether token can be sent as a bearer credential:
// at least MinTokenLen printable ASCII characters without spaces.
func ValidateToken(token string) error {
	if len(token) < MinTokenLen {
		return fmt.Errorf("%w: shorter than %d characters", ErrInvalidToken, MinTokenLen)
	}
	for _, r := range token {
		if r <= ' ' || r > '~' {
			return fmt.Errorf("%w: %q is not allowed", ErrInvalidToken, r)
		}
	}
	return nil
}

// Fingerprint is a short digest of token, safe to log.
func Fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:4])
}

// Put validates token and stores it under name, replacing any previous one.
func (s *Store) Put(name, token string) error {
	name, err := normName(name)
	if err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if err := ValidateToken(token); err != nil {
		return err
	}
	return s.put(name, token)
}

// Rotate replaces the token under name with a freshly generated one and
// returns it.
func (s *Store) Rotate(name string) (string, error) {
	name, err := normName(name)
	if err != nil {
		return "", err
	}
	buf := make([]byte, rotateBytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	token := hex.EncodeToString(buf)
	if err := s.put(name, token); err != nil {
		return "", err
	}
	return token, nil
}

// Get returns the token stored under name.
func (s *Store) Get(name string) (string, error) {
	name, err := normName(name)
	if err != nil {
		return "", err
	}
	tf, err := s.load()
	if err != nil {
		return "", err
	}
	e, ok := tf.Tokens[name]
	if !ok {
		return "", ErrNotFound
	}
	return s.open(e.Sealed)
}

// Describe returns the fingerprint and update time of the token under name.
func (s *Store) Describe(name string) (Info, error) {
	token, err := s.Get(name)
	if err != nil {
		return Info{}, err
	}
	tf, err := s.load()
	if err != nil {
		return Info{}, err
	}
	name, _ = normName(name)
	return Info{
		Name:        name,
		Fingerprint: Fingerprint(token),
		Updated:     time.Unix(tf.Tokens[name].Updated, 0),
	}, nil
}

// Delete removes the token under name.
func (s *Store) Delete(name string) error {
	name, err := normName(name)
	if err != nil {
		return err
	}
	tf, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := tf.Tokens[name]; !ok {
		return ErrNotFound
	}
	delete(tf.Tokens, name)
	return s.save(tf)
}

func (s *Store) put(name, token string) error {
	tf, err := s.load()
	if err != nil {
		return err
	}
	sealed, err := s.seal(token)
	if err != nil {
		return err
	}
	if tf.Tokens == nil {
		tf.Tokens = map[string]entry{}
	}
	tf.Tokens[name] = entry{Sealed: sealed, Updated: s.clock().Unix()}
	return s.save(tf)
}

func (s *Store) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func normName(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if !namePattern.MatchString(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return name, nil
}

func (s *Store) path(file string) string { return filepath.Join(s.Dir, file) }

func (s *Store) load() (tokenFile, error) {
	var tf tokenFile
	data, err := os.ReadFile(s.path(tokensFile))
	if errors.Is(err, os.ErrNotExist) {
		return tf, nil
	}
	if err != nil {
		return tf, err
	}
	if err := json.Unmarshal(data, &tf); err != nil {
		return tf, fmt.Errorf("parse %s: %w", tokensFile, err)
	}
	return tf, nil
}

func (s *Store) save(tf tokenFile) error {
	data, err := json.MarshalIndent(tf, "", "  ")
	if err != nil {
		return err
	}
	return writePrivate(s.Dir, s.path(tokensFile), data)
}

// writePrivate writes data through a temp file so a crash never leaves a
// truncated file behind.
func writePrivate(dir, path string, data []byte) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// key loads the sealing key, creating it on first use.
func (s *Store) key() ([]byte, error) {
	data, err := os.ReadFile(s.path(keyFile))
	if err == nil {
		if len(data) != 32 {
			return nil, fmt.Errorf("%s: want 32 bytes, got %d", keyFile, len(data))
		}
		return data, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	if err := writePrivate(s.Dir, s.path(keyFile), key); err != nil {
		return nil, err
	}
	return key, nil
}

func (s *Store) aead() (cipher.AEAD, error) {
	key, err := s.key()
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func (s *Store) seal(token string) (string, error) {
	gcm, err := s.aead()
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(gcm.Seal(nonce, nonce, []byte(token), nil)), nil
}

func (s *Store) open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("decode token: %w", err)
	}
	gcm, err := s.aead()
	if err != nil {
		return "", err
	}
	if len(raw) < gcm.NonceSize() {
		return "", errors.New("sealed token too short")
	}
	plain, err := gcm.Open(nil, raw[:gcm.NonceSize()], raw[gcm.NonceSize():], nil)
	if err != nil {
		return "", fmt.Errorf("open token: %w", err)
	}
	return string(plain), nil
}
