package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/iamafnaan/Library-Management-System/internal/constants"
	"github.com/iamafnaan/Library-Management-System/internal/middleware"
	"github.com/iamafnaan/Library-Management-System/internal/models"
	"github.com/iamafnaan/Library-Management-System/internal/utils"
)

type AuthHandler struct {
	UserCol     *mongo.Collection
	AuditLogger utils.Logger
}

func NewAuthHandler(userCol *mongo.Collection, logger utils.Logger) *AuthHandler {
	return &AuthHandler{UserCol: userCol, AuditLogger: logger}
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /users/signup
func (a *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid payload", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		utils.JSONError(w, "Email and password are required", http.StatusBadRequest)
		return
	}
	if !models.IsValidRole(req.Role) {
		utils.JSONError(w, "Role must be author or reader", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	count, err := a.UserCol.CountDocuments(ctx, bson.M{"email": req.Email})
	if err != nil {
		utils.JSONError(w, "Signup failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if count > 0 {
		utils.JSONError(w, "Email already in use", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSONError(w, "Signup failed", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	user := models.User{
		ID:            primitive.NewObjectID(),
		Name:          req.Name,
		Email:         req.Email,
		Password:      string(hash),
		Role:          models.Role(req.Role),
		BorrowedBooks: []primitive.ObjectID{},
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := a.UserCol.InsertOne(ctx, user); err != nil {
		utils.JSONError(w, "Insert failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	a.AuditLogger.Log(ctx, models.UserEntity, constants.Signup, user.ID.Hex(), user.Email)

	a.sendToken(w, &user, http.StatusCreated)
}

// POST /users/login
func (a *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := a.UserCol.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user); err != nil {
		utils.JSONError(w, "Incorrect email or password", http.StatusUnauthorized)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.JSONError(w, "Incorrect email or password", http.StatusUnauthorized)
		return
	}

	a.AuditLogger.Log(ctx, models.UserEntity, constants.Login, user.ID.Hex(), user.Email)

	a.sendToken(w, &user, http.StatusOK)
}

// GET /users/session/validate
func (a *AuthHandler) ValidateSession(w http.ResponseWriter, r *http.Request) {
	user := middleware.ActingUser(r.Context())
	if user == nil {
		utils.JSONError(w, "You are not logged in. Please log in to get access.", http.StatusUnauthorized)
		return
	}
	utils.JSONSuccess(w, http.StatusOK, map[string]any{"user": user})
}

func (a *AuthHandler) sendToken(w http.ResponseWriter, user *models.User, code int) {
	token, err := utils.GenerateJWT(user.ID.Hex(), string(user.Role))
	if err != nil {
		utils.JSONError(w, "Could not issue token", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{
		"status": "success",
		"token":  token,
		"data":   map[string]any{"user": user},
	})
}
