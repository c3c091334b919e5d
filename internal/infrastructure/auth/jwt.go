// Package auth issues and verifies the bearer tokens members present.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/videocc/videocc/internal/shared/authorization"
	"github.com/videocc/videocc/internal/shared/biztime"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	MemberID uint                   `json:"member_id"`
	Role     authorization.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type JWTService struct {
	secret           []byte
	issuer           string
	accessExpMinutes int
	clock            biztime.Clock
}

func NewJWTService(secret, issuer string, accessExpMinutes int, clock biztime.Clock) *JWTService {
	return &JWTService{
		secret:           []byte(secret),
		issuer:           issuer,
		accessExpMinutes: accessExpMinutes,
		clock:            clock,
	}
}

// Generate signs an access token for the member.
func (s *JWTService) Generate(memberID uint, role authorization.UserRole) (string, error) {
	now := s.clock.Now()
	claims := &Claims{
		MemberID: memberID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   strconv.FormatUint(uint64(memberID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.accessExpMinutes) * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, nil
}

func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.MemberID == 0 {
		return nil, ErrInvalidToken
	}
	claims.Role = authorization.ParseUserRole(string(claims.Role))
	return claims, nil
}

func (s *JWTService) AccessExpMinutes() int {
	return s.accessExpMinutes
}
