// Package auth issues and verifies the JWT pair used by the API and hashes
// user passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/petshop-scheduler/internal/models"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid_token")
	ErrWrongType    = errors.New("wrong_token_type")
)

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type Claims struct {
	UserID   uint
	Username string
	Type     string
	ID       string
}

type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (i *TokenIssuer) Issue(user *models.User) (TokenPair, error) {
	access, err := i.sign(user, TypeAccess, i.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := i.sign(user, TypeRefresh, i.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (i *TokenIssuer) sign(user *models.User, typ string, ttl time.Duration) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"typ":      typ,
		"jti":      uuid.NewString(),
		"exp":      now.Add(ttl).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Parse validates signature and expiry and checks the token is of type
// want.
func (i *TokenIssuer) Parse(tokenString, want string) (*Claims, error) {
	token, err := jwt.Parse(
		tokenString,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return i.secret, nil
		},
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, ok := mc["sub"].(float64)
	if !ok || sub <= 0 {
		return nil, ErrInvalidToken
	}

	typ, _ := mc["typ"].(string)
	if typ != want {
		return nil, ErrWrongType
	}

	username, _ := mc["username"].(string)
	jti, _ := mc["jti"].(string)

	return &Claims{
		UserID:   uint(sub),
		Username: username,
		Type:     typ,
		ID:       jti,
	}, nil
}

// ======================================================
// PASSWORDS
// ======================================================

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
