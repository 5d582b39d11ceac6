package utils

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"os"
	"srs/src/config"
	"srs/src/types"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

func GenerateJWT(email string, id uint, role string) (string, error) {
	claims := &types.Claims{
		Username: email,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(id), 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.API_SECRET))
}

func ParseJWT(tokenString string) (*types.Claims, error) {
	claims := &types.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(config.API_SECRET), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Overlaps reports whether two half-open [start, end) intervals intersect.
// Clock values are zero-padded HH:MM:SS, so string order is time order.
func Overlaps(s1, e1, s2, e2 string) bool {
	return s1 < e2 && s2 < e1
}

// NormalizeClock pads an HH:MM value out to HH:MM:SS.
func NormalizeClock(v string) string {
	if strings.Count(v, ":") == 1 {
		return v + ":00"
	}
	return v
}

func ParseStartInstant(date, clock string) (time.Time, error) {
	return time.ParseInLocation(config.TIME_PARSE_FORMAT, date+" "+NormalizeClock(clock), time.Local)
}

// GenerateOTP returns a crypto-random 6-digit numeric verification code.
func GenerateOTP() string {
	bi, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		log.Printf("Could not read random bytes: %s\n", err.Error())
		return "100000"
	}
	return strconv.Itoa(100000 + int(bi.Int64()))
}

func IsLocal() bool {
	env := os.Getenv("API_ENV")
	return env == "" || env == "local"
}

// WithSuffix namespaces a queue name per environment.
func WithSuffix(name string) string {
	env := os.Getenv("API_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("%s-%s", name, env)
}
