package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"golang.org/x/crypto/bcrypt"

	"github.com/iamafnaan/Library-Management-System/internal/handlers"
	"github.com/iamafnaan/Library-Management-System/internal/utils"
)

func TestAuthHandler_SignupInvalidRole(t *testing.T) {
	handler := handlers.AuthHandler{}

	router := mux.NewRouter()
	router.HandleFunc("/users/signup", handler.Signup).Methods("POST")

	reqBody := handlers.SignupRequest{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "secret123",
		Role:     "librarian",
	}
	reqBytes, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/users/signup", bytes.NewReader(reqBytes))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	res := w.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status BadRequest, got %v", res.Status)
	}
}

func TestAuthHandler_SignupMissingCredentials(t *testing.T) {
	handler := handlers.AuthHandler{}

	router := mux.NewRouter()
	router.HandleFunc("/users/signup", handler.Signup).Methods("POST")

	req := httptest.NewRequest(http.MethodPost, "/users/signup", bytes.NewReader([]byte(`{"role":"reader"}`)))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	res := w.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status BadRequest, got %v", res.Status)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	utils.InitJwtSecret("test-secret", time.Hour)

	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	if mt.Client != nil {
		defer mt.Client.Disconnect(context.Background())
	}

	mt.Run("unknown email", func(mt *mtest.T) {
		handler := handlers.AuthHandler{UserCol: mt.Coll}

		router := mux.NewRouter()
		router.HandleFunc("/users/login", handler.Login).Methods("POST")

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch))

		reqBody := handlers.LoginRequest{Email: "ghost@example.com", Password: "whatever"}
		reqBytes, _ := json.Marshal(reqBody)
		req := httptest.NewRequest(http.MethodPost, "/users/login", bytes.NewReader(reqBytes))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		res := w.Result()
		defer res.Body.Close()

		if res.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected status Unauthorized, got %v", res.Status)
		}
	})

	mt.Run("wrong password", func(mt *mtest.T) {
		handler := handlers.AuthHandler{UserCol: mt.Coll}

		router := mux.NewRouter()
		router.HandleFunc("/users/login", handler.Login).Methods("POST")

		hash, _ := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "test.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "email", Value: "jane@example.com"},
			{Key: "password", Value: string(hash)},
			{Key: "role", Value: "reader"},
		}))

		reqBody := handlers.LoginRequest{Email: "jane@example.com", Password: "wrong-password"}
		reqBytes, _ := json.Marshal(reqBody)
		req := httptest.NewRequest(http.MethodPost, "/users/login", bytes.NewReader(reqBytes))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		res := w.Result()
		defer res.Body.Close()

		if res.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected status Unauthorized, got %v", res.Status)
		}
	})

	mt.Run("successful login returns token", func(mt *mtest.T) {
		handler := handlers.AuthHandler{UserCol: mt.Coll}

		router := mux.NewRouter()
		router.HandleFunc("/users/login", handler.Login).Methods("POST")

		hash, _ := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "test.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "email", Value: "jane@example.com"},
			{Key: "password", Value: string(hash)},
			{Key: "role", Value: "reader"},
		}))

		reqBody := handlers.LoginRequest{Email: "jane@example.com", Password: "correct-password"}
		reqBytes, _ := json.Marshal(reqBody)
		req := httptest.NewRequest(http.MethodPost, "/users/login", bytes.NewReader(reqBytes))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		res := w.Result()
		defer res.Body.Close()

		if res.StatusCode != http.StatusOK {
			t.Errorf("expected status OK, got %v", res.Status)
		}

		var body struct {
			Status string `json:"status"`
			Token  string `json:"token"`
		}
		if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.Token == "" {
			t.Error("expected a token in the response")
		}
	})
}
