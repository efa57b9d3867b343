package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/nadhirah/mindcare/backend/internal/auth"
	"github.com/nadhirah/mindcare/backend/internal/model/user"
	"github.com/nadhirah/mindcare/backend/internal/store"
	"github.com/nadhirah/mindcare/backend/pkg/utils"
)

type contextKey string

const userKey contextKey = "authenticated-user"

// Authenticator rejects requests without a valid bearer token and stashes
// the resolved user in the request context.
func Authenticator(tokens *auth.TokenIssuer, st store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
				utils.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			userID, err := tokens.Verify(strings.TrimSpace(header[len("bearer "):]))
			if err != nil {
				utils.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			u, err := st.UserByID(r.Context(), userID)
			if err != nil {
				utils.RespondError(w, http.StatusUnauthorized, "user not found")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
		})
	}
}

// UserFrom returns the authenticated user placed by Authenticator.
func UserFrom(ctx context.Context) (user.User, bool) {
	u, ok := ctx.Value(userKey).(user.User)
	return u, ok
}
