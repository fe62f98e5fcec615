package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/visitas-api/internal/domain"
)

// Mode modo de verificación de credenciales.
type Mode string

const (
	ModePlain    Mode = "plain"    // secreto almacenado tal cual (compatibilidad con datos heredados)
	ModeSHA256   Mode = "sha256"   // digest hex de una ronda
	ModeBcrypt   Mode = "bcrypt"   // hash bcrypt
	ModeProvider Mode = "provider" // proveedor externo de identidad
)

// Hasher transforma y compara secretos según el modo.
type Hasher interface {
	Hash(secret string) (string, error)
	Matches(stored, secret string) bool
}

// NewHasher devuelve el hasher del modo. En modo provider se usa bcrypt para la marca
// de invitación reclamada.
func NewHasher(mode Mode) (Hasher, error) {
	switch mode {
	case ModePlain:
		return plainHasher{}, nil
	case ModeSHA256:
		return sha256Hasher{}, nil
	case ModeBcrypt, ModeProvider:
		return bcryptHasher{cost: bcrypt.DefaultCost}, nil
	default:
		return nil, fmt.Errorf("modo de autenticación no soportado: %q", mode)
	}
}

type plainHasher struct{}

func (plainHasher) Hash(secret string) (string, error) { return secret, nil }

func (plainHasher) Matches(stored, secret string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(secret)) == 1
}

type sha256Hasher struct{}

func (sha256Hasher) Hash(secret string) (string, error) {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:]), nil
}

func (h sha256Hasher) Matches(stored, secret string) bool {
	digest, _ := h.Hash(secret)
	return subtle.ConstantTimeCompare([]byte(stored), []byte(digest)) == 1
}

type bcryptHasher struct {
	cost int
}

func (h bcryptHasher) Hash(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: la contraseña no puede superar 72 bytes", domain.ErrInvalidInput)
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (bcryptHasher) Matches(stored, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(secret)) == nil
}
