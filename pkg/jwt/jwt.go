package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jhoicas/visitas-api/internal/domain/entity"
)

// Claims incluye los claims estándar JWT más la sesión serializada.
// El rol viaja en el token para que el middleware RBAC decida sin consultar el almacenamiento.
type Claims struct {
	jwt.RegisteredClaims
	Identifier string `json:"username"`
	Name       string `json:"name"`
	Role       string `json:"role"` // "admin" | "vendor"
}

// Generate genera un token JWT firmado con los datos de la sesión.
func Generate(secret string, session *entity.Session, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	if session == nil {
		return "", fmt.Errorf("jwt: sesión vacía")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   session.Identifier,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		Identifier: session.Identifier,
		Name:       session.Name,
		Role:       session.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve la sesión que transporta.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (*entity.Session, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return &entity.Session{
		Identifier: claims.Identifier,
		Name:       claims.Name,
		Role:       claims.Role,
	}, nil
}
