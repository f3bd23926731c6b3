package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pingo-api/internal/domain/user"
)

const RoleAdmin = "admin"

type Service struct {
	jwtSecret string
}

func New(jwtSecret string) *Service { return &Service{jwtSecret: jwtSecret} }

type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (s *Service) GenerateJWT(userID int64, role string, expiresIn time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(s.jwtSecret))
}

func (s *Service) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}

// VerifyCredential resolves a token to the user it was issued for.
// Any failure yields user.Anonymous and false.
func (s *Service) VerifyCredential(token string) (user.ID, bool) {
	if token == "" {
		return user.Anonymous, false
	}
	claims, err := s.ValidateToken(token)
	if err != nil || user.ID(claims.UserID).IsAnonymous() {
		return user.Anonymous, false
	}
	return user.ID(claims.UserID), true
}
