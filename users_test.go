package recipeapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	api "github.com/openmeal/recipeapi"
)

// loginCookie mints a valid credential cookie for requests to guarded routes.
func loginCookie(t *testing.T, server *api.Server, id string) *http.Cookie {
	t.Helper()
	token, err := server.Auth().IssueToken(&api.Identity{
		SubjectID: id,
		Provider:  api.ProviderLocal,
	})
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	return &http.Cookie{Name: api.DefaultCookieName, Value: token}
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestCreateUser(t *testing.T) {
	server, users, _ := newTestServer(t)

	w := postJSON(t, server.Handler(), "/users", map[string]any{
		"username": "jane_smith",
		"email":    "jane@example.com",
		"password": "password456",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["id"] == "" {
		t.Fatal("expected an id in the response")
	}

	stored, err := users.GetUser(context.Background(), body["id"])
	if err != nil {
		t.Fatalf("created user not in store: %v", err)
	}
	if stored.Username != "jane_smith" || stored.Email != "jane@example.com" {
		t.Errorf("unexpected stored user: %+v", stored)
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "password456" {
		t.Error("password must be stored hashed")
	}
	if err := api.CheckPassword(stored.PasswordHash, "password456"); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestCreateUserValidation(t *testing.T) {
	server, users, _ := newTestServer(t)
	insertTestUser(t, users, "existing", "taken@example.com", "password123")

	tests := []struct {
		name        string
		body        map[string]any
		wantMessage string
	}{
		{
			name:        "missing username",
			body:        map[string]any{"email": "a@example.com", "password": "password123"},
			wantMessage: "username is required",
		},
		{
			name:        "missing email",
			body:        map[string]any{"username": "a", "password": "password123"},
			wantMessage: "email is required",
		},
		{
			name:        "bad email format",
			body:        map[string]any{"username": "a", "email": "not-an-email", "password": "password123"},
			wantMessage: "invalid email format",
		},
		{
			name:        "short password",
			body:        map[string]any{"username": "a", "email": "a@example.com", "password": "short"},
			wantMessage: "password must be at least 6 characters",
		},
		{
			name:        "duplicate email",
			body:        map[string]any{"username": "b", "email": "taken@example.com", "password": "password123"},
			wantMessage: "Email already registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, server.Handler(), "/users", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			var body map[string]any
			json.Unmarshal(w.Body.Bytes(), &body)
			if body["message"] != tt.wantMessage {
				t.Errorf("expected message %q, got %v", tt.wantMessage, body["message"])
			}
		})
	}
}

func TestListAndGetUsers(t *testing.T) {
	server, users, _ := newTestServer(t)
	id := insertTestUser(t, users, "john_doe", "john@example.com", "password123")

	w := doJSON(t, server.Handler(), http.MethodGet, "/users", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	var list []api.User
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(list) != 1 || list[0].ID != id {
		t.Errorf("unexpected list: %+v", list)
	}

	w = doJSON(t, server.Handler(), http.MethodGet, "/users/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("password")) {
		t.Error("user responses must not leak password material")
	}

	w = doJSON(t, server.Handler(), http.MethodGet, "/users/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", w.Code)
	}
}

func TestListUsersEmptyIsArray(t *testing.T) {
	server, _, _ := newTestServer(t)
	w := doJSON(t, server.Handler(), http.MethodGet, "/users", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := bytes.TrimSpace(w.Body.Bytes()); string(got) != "[]" {
		t.Errorf("empty list should encode as [], got %s", got)
	}
}

func TestUpdateUserRequiresAuth(t *testing.T) {
	server, users, _ := newTestServer(t)
	id := insertTestUser(t, users, "john_doe", "john@example.com", "password123")

	update := map[string]any{"username": "john_updated", "email": "john@example.com"}

	w := doJSON(t, server.Handler(), http.MethodPut, "/users/"+id, update)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated update: expected 401, got %d", w.Code)
	}

	w = doJSON(t, server.Handler(), http.MethodPut, "/users/"+id, update, loginCookie(t, server, id))
	if w.Code != http.StatusOK {
		t.Fatalf("authenticated update: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	stored, err := users.GetUser(context.Background(), id)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if stored.Username != "john_updated" {
		t.Errorf("update not applied: %+v", stored)
	}
}

func TestUpdateUserKeepsPasswordWhenOmitted(t *testing.T) {
	server, users, _ := newTestServer(t)
	id := insertTestUser(t, users, "john_doe", "john@example.com", "password123")
	cookie := loginCookie(t, server, id)

	w := doJSON(t, server.Handler(), http.MethodPut, "/users/"+id,
		map[string]any{"username": "john_doe", "email": "john@example.com"}, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	stored, _ := users.GetUser(context.Background(), id)
	if err := api.CheckPassword(stored.PasswordHash, "password123"); err != nil {
		t.Error("omitting the password must keep the stored hash")
	}

	// Supplying a new password rotates the hash.
	w = doJSON(t, server.Handler(), http.MethodPut, "/users/"+id,
		map[string]any{"username": "john_doe", "email": "john@example.com", "password": "newpassword"}, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	stored, _ = users.GetUser(context.Background(), id)
	if err := api.CheckPassword(stored.PasswordHash, "newpassword"); err != nil {
		t.Error("supplying a password must rotate the stored hash")
	}
}

func TestDeleteUserRequiresAuth(t *testing.T) {
	server, users, _ := newTestServer(t)
	id := insertTestUser(t, users, "john_doe", "john@example.com", "password123")

	w := doJSON(t, server.Handler(), http.MethodDelete, "/users/"+id, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated delete: expected 401, got %d", w.Code)
	}

	w = doJSON(t, server.Handler(), http.MethodDelete, "/users/"+id, nil, loginCookie(t, server, id))
	if w.Code != http.StatusOK {
		t.Fatalf("authenticated delete: expected 200, got %d", w.Code)
	}

	if _, err := users.GetUser(context.Background(), id); err == nil {
		t.Error("user should be gone after delete")
	}

	w = doJSON(t, server.Handler(), http.MethodDelete, "/users/"+id, nil, loginCookie(t, server, id))
	if w.Code != http.StatusNotFound {
		t.Fatalf("double delete: expected 404, got %d", w.Code)
	}
}
