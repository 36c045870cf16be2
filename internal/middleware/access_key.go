package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// AccessKey protege la API con una clave compartida del hogar.
// - key vacía => modo abierto (dev / red local de confianza).
// - Acepta "Authorization: Bearer <key>" o "X-Api-Key: <key>".
// - Las rutas de skip (p.ej. /health) quedan siempre abiertas.
func AccessKey(key string, skip ...string) func(http.Handler) http.Handler {
	key = strings.TrimSpace(key)
	open := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		open[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := open[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			got := bearerToken(r.Header.Get("Authorization"))
			if got == "" {
				got = strings.TrimSpace(r.Header.Get("X-Api-Key"))
			}
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
