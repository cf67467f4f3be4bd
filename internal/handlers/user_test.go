package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"

	"github.com/leoyin88/user-api/internal/repo"
)

// requestWithChiURLParams builds a request carrying chi route parameters so
// handlers can be exercised without a router.
func requestWithChiURLParams(method, target string, body []byte, params map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "age", "created_at", "updated_at"})
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestUserHandler_CreateUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO users \(username, email, password_hash, age\)`).
		WithArgs("charlie", "charlie@example.com", sqlmock.AnyArg(), nil).
		WillReturnRows(userRows().AddRow(3, "charlie", "charlie@example.com", "hash", nil, now, now))

	h := &UserHandler{Repo: repo.NewUserRepo(db)}

	body, _ := json.Marshal(map[string]string{
		"username": "charlie",
		"email":    "charlie@example.com",
		"password": "secret1",
	})
	req := httptest.NewRequest("POST", "/api/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.CreateUser(rr, req)

	if rr.Code != http.StatusCreated {
		t.Errorf("CreateUser status: got %d, want 201", rr.Code)
	}
	env := decodeEnvelope(t, rr)
	if env.Code != 201 {
		t.Errorf("envelope code: got %d, want 201", env.Code)
	}
	data, ok := env.Data.(map[string]interface{})
	if !ok || data["id"] != float64(3) {
		t.Errorf("unexpected data: %+v", env.Data)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserHandler_CreateUser_ValidationFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &UserHandler{Repo: repo.NewUserRepo(db)}

	// Short username, bad email, short password.
	body, _ := json.Marshal(map[string]string{
		"username": "ab",
		"email":    "not-an-email",
		"password": "123",
	})
	req := httptest.NewRequest("POST", "/api/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.CreateUser(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("CreateUser status: got %d, want 400", rr.Code)
	}
	env := decodeEnvelope(t, rr)
	data, ok := env.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("expected field detail, got: %+v", env.Data)
	}
	fields, ok := data["fields"].(map[string]interface{})
	if !ok || len(fields) != 3 {
		t.Errorf("expected 3 field errors, got: %+v", data["fields"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserHandler_CreateUser_DuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("dana", "taken@example.com", sqlmock.AnyArg(), nil).
		WillReturnError(&pq.Error{Code: "23505"})

	h := &UserHandler{Repo: repo.NewUserRepo(db)}

	body, _ := json.Marshal(map[string]string{
		"username": "dana",
		"email":    "taken@example.com",
		"password": "secret1",
	})
	req := httptest.NewRequest("POST", "/api/users", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.CreateUser(rr, req)

	if rr.Code != http.StatusConflict {
		t.Errorf("CreateUser status: got %d, want 409", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserHandler_ListUsers(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT id, username, email, password_hash, age, created_at, updated_at FROM users ORDER BY id`).
		WillReturnRows(userRows().
			AddRow(1, "alice", "alice@example.com", "hash", nil, now, now).
			AddRow(2, "bob", "bob@example.com", "hash", 25, now, now))

	h := &UserHandler{Repo: repo.NewUserRepo(db)}

	req := httptest.NewRequest("GET", "/api/users", nil)
	rr := httptest.NewRecorder()
	h.ListUsers(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("ListUsers status: got %d, want 200", rr.Code)
	}
	var env struct {
		Code int `json:"code"`
		Data []struct {
			ID       int    `json:"id"`
			Username string `json:"username"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(env.Data) != 2 || env.Data[0].Username != "alice" || env.Data[1].Username != "bob" {
		t.Errorf("unexpected list: %+v", env.Data)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

// The password hash must never appear in a response body.
func TestUserHandler_GetUser_PasswordNotSerialized(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT id, username, email, password_hash`).
		WithArgs(1).
		WillReturnRows(userRows().AddRow(1, "alice", "alice@example.com", "super-secret-hash", nil, now, now))

	h := &UserHandler{Repo: repo.NewUserRepo(db)}

	req := requestWithChiURLParams("GET", "/api/users/1", nil, map[string]string{"id": "1"})
	rr := httptest.NewRecorder()
	h.GetUser(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("GetUser status: got %d, want 200", rr.Code)
	}
	if bytes.Contains(rr.Body.Bytes(), []byte("super-secret-hash")) {
		t.Error("password hash leaked into response body")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserHandler_GetUser_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, username, email, password_hash`).
		WithArgs(999).
		WillReturnError(sql.ErrNoRows)

	h := &UserHandler{Repo: repo.NewUserRepo(db)}

	req := requestWithChiURLParams("GET", "/api/users/999", nil, map[string]string{"id": "999"})
	rr := httptest.NewRecorder()
	h.GetUser(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("GetUser status: got %d, want 404", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

// A non-numeric id is rejected before any query reaches the storage layer.
func TestUserHandler_GetUser_InvalidID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &UserHandler{Repo: repo.NewUserRepo(db)}

	for _, id := range []string{"abc", "-1", "0", "1.5"} {
		req := requestWithChiURLParams("GET", "/api/users/"+id, nil, map[string]string{"id": id})
		rr := httptest.NewRecorder()
		h.GetUser(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("GetUser(%q) status: got %d, want 400", id, rr.Code)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserHandler_UpdateUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`UPDATE users\s+SET username = \$1, updated_at = now\(\)\s+WHERE id = \$2`).
		WithArgs("alice2", 1).
		WillReturnRows(userRows().AddRow(1, "alice2", "alice@example.com", "hash", nil, now, now))

	h := &UserHandler{Repo: repo.NewUserRepo(db)}

	body, _ := json.Marshal(map[string]string{"username": "alice2"})
	req := requestWithChiURLParams("PUT", "/api/users/1", body, map[string]string{"id": "1"})
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.UpdateUser(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("UpdateUser status: got %d, want 200", rr.Code)
	}
	env := decodeEnvelope(t, rr)
	data, ok := env.Data.(map[string]interface{})
	if !ok || data["username"] != "alice2" {
		t.Errorf("unexpected data: %+v", env.Data)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

// An empty body means zero present fields: 400, storage untouched.
func TestUserHandler_UpdateUser_NoFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &UserHandler{Repo: repo.NewUserRepo(db)}

	req := requestWithChiURLParams("PUT", "/api/users/1", []byte(`{}`), map[string]string{"id": "1"})
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.UpdateUser(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("UpdateUser status: got %d, want 400", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserHandler_UpdateUser_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`UPDATE users`).
		WithArgs("ghost", 999).
		WillReturnError(sql.ErrNoRows)

	h := &UserHandler{Repo: repo.NewUserRepo(db)}

	body, _ := json.Marshal(map[string]string{"username": "ghost"})
	req := requestWithChiURLParams("PUT", "/api/users/999", body, map[string]string{"id": "999"})
	rr := httptest.NewRecorder()
	h.UpdateUser(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("UpdateUser status: got %d, want 404", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserHandler_DeleteUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	h := &UserHandler{Repo: repo.NewUserRepo(db)}

	req := requestWithChiURLParams("DELETE", "/api/users/1", nil, map[string]string{"id": "1"})
	rr := httptest.NewRecorder()
	h.DeleteUser(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("DeleteUser status: got %d, want 200", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserHandler_DeleteUser_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(999).
		WillReturnResult(sqlmock.NewResult(0, 0))

	h := &UserHandler{Repo: repo.NewUserRepo(db)}

	req := requestWithChiURLParams("DELETE", "/api/users/999", nil, map[string]string{"id": "999"})
	rr := httptest.NewRecorder()
	h.DeleteUser(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("DeleteUser status: got %d, want 404", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
