package httpserver

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// OperatorAuth validates the operator bearer token issued at station setup.
// Tokens are HS256-signed with the shared station secret.
type OperatorAuth struct {
	secret []byte
	logger *slog.Logger
}

// NewOperatorAuth returns nil when no secret is configured, which disables
// the middleware (bench setups only).
func NewOperatorAuth(secret string, logger *slog.Logger) *OperatorAuth {
	if strings.TrimSpace(secret) == "" {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OperatorAuth{secret: []byte(secret), logger: logger}
}

func (a *OperatorAuth) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, "missing_token", "Authorization header is required")
			return
		}
		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "invalid_token", "invalid authorization header format")
			return
		}

		operatorID, err := a.validate(parts[1])
		if err != nil {
			a.logger.Warn("operator token rejected",
				"event", "operator_token_rejected",
				"module", "internal/platform/httpserver",
				"layer", "platform",
				"error", err.Error(),
			)
			writeError(w, http.StatusUnauthorized, "invalid_token", "invalid or expired token")
			return
		}
		r.Header.Set("X-Operator-Id", operatorID)
		next(w, r)
	}
}

func (a *OperatorAuth) validate(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}
	subject, _ := claims["sub"].(string)
	return subject, nil
}
