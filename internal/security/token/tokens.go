package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

// GenerateAccessToken genera un token opaco aleatorio (base64url sin padding).
// nBytes es el largo de la entropía, no del string resultante.
func GenerateAccessToken(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Digest devuelve sha256(token) en base64url sin padding. Para referenciar
// tokens en logs/métricas sin exponer el secreto.
func Digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
