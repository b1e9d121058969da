package services

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenLifetime = 15 * 24 * time.Hour

// dummyHash is compared against when the username does not exist, so a
// miss costs about as much as a wrong password.
var (
	dummyHash     []byte
	dummyHashOnce sync.Once
)

func dummyPasswordHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("circle-dummy-password"), passwordCost())
	})
	return dummyHash
}

func passwordCost() int {
	cost := viper.GetInt("security.password_cost")
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return cost
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost())
	if err != nil {
		return "", fmt.Errorf("unable to hash password: %v", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the hash. An empty
// hash still runs a full comparison.
func CheckPassword(hash, password string) bool {
	if len(hash) == 0 {
		_ = bcrypt.CompareHashAndPassword(dummyPasswordHash(), []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func tokenLifetime() time.Duration {
	if lifetime := viper.GetDuration("security.token_lifetime"); lifetime > 0 {
		return lifetime
	}
	return defaultTokenLifetime
}

func tokenSecret() []byte {
	return []byte(viper.GetString("security.token_secret"))
}

func IssueToken(accountID uint) (string, time.Time, error) {
	expiresAt := time.Now().Add(tokenLifetime())
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(accountID), 10),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tokenSecret())
	if err != nil {
		return "", expiresAt, fmt.Errorf("unable to sign token: %v", err)
	}
	return signed, expiresAt, nil
}

// ParseToken verifies the signature and expiry and returns the account id
// the token was issued to.
func ParseToken(raw string) (uint, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		return tokenSecret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return 0, AuthenticationError("invalid token")
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, AuthenticationError("invalid token")
	}
	return uint(id), nil
}
