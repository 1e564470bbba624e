package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iamafnaan/Library-Management-System/internal/models"
	"github.com/iamafnaan/Library-Management-System/internal/utils"
)

type contextKey string

const ContextUser contextKey = "acting_user"

type Auth struct {
	UserCol *mongo.Collection
}

// Protect resolves the bearer token to a stored user and attaches it to the
// request context. A token whose user no longer exists is rejected.
func (a *Auth) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			utils.JSONError(w, "You are not logged in. Please log in to get access.", http.StatusUnauthorized)
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		claims, err := utils.ParseJWT(tokenStr)
		if err != nil {
			utils.JSONError(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			utils.JSONError(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		var user models.User
		if err := a.UserCol.FindOne(r.Context(), bson.M{"_id": userID}).Decode(&user); err != nil {
			utils.JSONError(w, "The user belonging to this token no longer exists.", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ContextUser, &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a route by role. Runs after Protect.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := ActingUser(r.Context())
			if user == nil {
				utils.JSONError(w, "You are not logged in. Please log in to get access.", http.StatusUnauthorized)
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			utils.JSONError(w, "You do not have permission to perform this action", http.StatusForbidden)
		})
	}
}

func ActingUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(ContextUser).(*models.User)
	return user
}

// WithActingUser is used by handler tests to inject the resolved identity.
func WithActingUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, ContextUser, user)
}
