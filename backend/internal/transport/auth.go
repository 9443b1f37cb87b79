package transport

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"orbital-sim/backend/internal/apperrors"
	"orbital-sim/backend/internal/config"
)

// Authenticator проверяет bearer-токены для управляющих эндпоинтов
type Authenticator struct {
	secret []byte
	issuer string
	logger *log.Logger
}

// NewAuthenticator возвращает nil, если секрет не задан: защита выключена
func NewAuthenticator(cfg config.AuthConfig, logger *log.Logger) *Authenticator {
	if cfg.JWTSecret == "" {
		return nil
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Authenticator{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
		logger: logger,
	}
}

// IssueToken выпускает токен оператора
func (a *Authenticator) IssueToken(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    a.issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Validate разбирает токен и проверяет подпись, срок и издателя
func (a *Authenticator) Validate(tokenString string) (*jwt.RegisteredClaims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		options = append(options, jwt.WithIssuer(a.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}, options...)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// Middleware требует заголовок Authorization: Bearer <token>.
// На nil-аутентификаторе пропускает все запросы.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	if a == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			writeError(w, r, a.logger, apperrors.Unauthorized("bearer token required"))
			return
		}

		claims, err := a.Validate(tokenString)
		if err != nil {
			writeError(w, r, a.logger, apperrors.Unauthorized("invalid token"))
			return
		}

		a.logger.Printf("[Auth] %s %s by %s", r.Method, r.URL.Path, claims.Subject)
		next.ServeHTTP(w, r)
	})
}
