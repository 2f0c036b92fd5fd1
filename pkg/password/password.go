// Package password deriva y verifica credenciales con PBKDF2-HMAC-SHA512.
// Sal y hash se guardan en hexadecimal; la contraseña nunca se persiste.
package password

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Config parámetros de derivación.
type Config struct {
	SaltBytes  int
	Iterations int
	KeyLength  int
}

// DefaultConfig 16 bytes de sal, 100000 iteraciones, 64 bytes de clave.
func DefaultConfig() Config {
	return Config{SaltBytes: 16, Iterations: 100000, KeyLength: 64}
}

// Hasher deriva hashes de contraseña con parámetros fijos.
type Hasher struct {
	cfg Config
}

// New construye el hasher. Parámetros no positivos se reemplazan por los de DefaultConfig.
func New(cfg Config) *Hasher {
	def := DefaultConfig()
	if cfg.SaltBytes <= 0 {
		cfg.SaltBytes = def.SaltBytes
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = def.Iterations
	}
	if cfg.KeyLength <= 0 {
		cfg.KeyLength = def.KeyLength
	}
	return &Hasher{cfg: cfg}
}

// Hash deriva el hash de password. Si salt es vacío genera una sal aleatoria nueva.
// Devuelve la sal usada y el hash, ambos en hex. Misma sal y contraseña producen el mismo hash.
func (h *Hasher) Hash(password, salt string) (string, string, error) {
	if salt == "" {
		buf := make([]byte, h.cfg.SaltBytes)
		if _, err := rand.Read(buf); err != nil {
			return "", "", fmt.Errorf("password: generar sal: %w", err)
		}
		salt = hex.EncodeToString(buf)
	}
	key := pbkdf2.Key([]byte(password), []byte(salt), h.cfg.Iterations, h.cfg.KeyLength, sha512.New)
	return salt, hex.EncodeToString(key), nil
}

// Verify recalcula el hash y lo compara en tiempo constante.
// Un hash almacenado malformado devuelve false.
func (h *Hasher) Verify(password, salt, hash string) bool {
	want, err := hex.DecodeString(hash)
	if err != nil || len(want) != h.cfg.KeyLength || salt == "" {
		return false
	}
	got := pbkdf2.Key([]byte(password), []byte(salt), h.cfg.Iterations, h.cfg.KeyLength, sha512.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}
