package security

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Subject roles carried in access tokens
const (
	RoleParent = "parent"
	RoleChild  = "child"
)

// ErrInvalidToken is returned for tokens that fail parsing, signature
// verification or claim checks
var ErrInvalidToken = errors.New("invalid token")

// Claims are the verified contents of an access token
type Claims struct {
	SubjectID int64
	Role      string
}

// TokenVerifier validates HMAC-signed access tokens issued by the identity
// service. This service only verifies; it never issues tokens.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier creates a token verifier with the shared signing secret
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Verify checks the token's signature and expiry and extracts its claims
func (v *TokenVerifier) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	subject, err := mapClaims.GetSubject()
	if err != nil || subject == "" {
		return nil, ErrInvalidToken
	}
	subjectID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	role, _ := mapClaims["role"].(string)
	if role != RoleParent && role != RoleChild {
		return nil, ErrInvalidToken
	}

	return &Claims{SubjectID: subjectID, Role: role}, nil
}
