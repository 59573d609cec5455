package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"menucli/internal/model"
)

func TestClient_AttachesBearerToken(t *testing.T) {
	t.Parallel()

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(model.User{ID: 1})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.SetTokenSource(func() string { return "tok-123" })
	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("me: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("expected bearer header, got=%q", gotAuth)
	}
}

func TestClient_NoAuthHeaderWhenLoggedOut(t *testing.T) {
	t.Parallel()

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(model.User{ID: 1})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.SetTokenSource(func() string { return "" })
	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("me: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no auth header, got=%q", gotAuth)
	}
}

func TestClient_ErrorCodeMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		code   string
	}{
		{status: http.StatusBadRequest, code: CodeBadRequest},
		{status: http.StatusUnauthorized, code: CodeUnauthorized},
		{status: http.StatusForbidden, code: CodeForbidden},
		{status: http.StatusNotFound, code: CodeNotFound},
		{status: http.StatusUnprocessableEntity, code: CodeUnprocessable},
		{status: http.StatusInternalServerError, code: CodeUnexpected},
		{status: http.StatusBadGateway, code: CodeUnexpected},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.code, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_ = json.NewEncoder(w).Encode(map[string]string{"message": "nope"})
			}))
			defer srv.Close()

			c := NewClient(srv.URL)
			_, err := c.Me(context.Background())
			apiErr, ok := err.(*Error)
			if !ok {
				t.Fatalf("expected *Error, got=%T (%v)", err, err)
			}
			if apiErr.Code != tc.code {
				t.Fatalf("expected code %s, got=%s", tc.code, apiErr.Code)
			}
			if apiErr.Status != tc.status {
				t.Fatalf("expected status %d, got=%d", tc.status, apiErr.Status)
			}
			if apiErr.Message != "nope" {
				t.Fatalf("expected server message, got=%q", apiErr.Message)
			}
		})
	}
}

func TestClient_UnauthorizedHookFiresOn401Only(t *testing.T) {
	t.Parallel()

	status := http.StatusUnauthorized
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	defer srv.Close()

	fired := 0
	c := NewClient(srv.URL)
	c.SetUnauthorizedHook(func() { fired++ })

	_, _ = c.Me(context.Background())
	if fired != 1 {
		t.Fatalf("expected hook fired once on 401, got=%d", fired)
	}

	status = http.StatusForbidden
	_, _ = c.Me(context.Background())
	if fired != 1 {
		t.Fatalf("expected hook untouched on 403, got=%d", fired)
	}
}

func TestUpdateCategoryOrder_RequestShape(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_ = json.NewEncoder(w).Encode([]model.OrderAck{{ID: 7, Order: 0}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	acks, err := c.UpdateCategoryOrder(context.Background(), 7, 0)
	if err != nil {
		t.Fatalf("update order: %v", err)
	}
	if gotMethod != http.MethodPatch {
		t.Fatalf("expected PATCH, got=%s", gotMethod)
	}
	if gotPath != "/categories/update-order" {
		t.Fatalf("unexpected path, got=%q", gotPath)
	}
	if want := `{"id":7,"order":0}`; strings.TrimSpace(gotBody) != want {
		t.Fatalf("expected body %s, got=%q", want, gotBody)
	}
	if len(acks) != 1 || acks[0].ID != 7 {
		t.Fatalf("unexpected acks, got=%+v", acks)
	}
}

func TestUpdateStore_RequestShape(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_ = json.NewEncoder(w).Encode(model.Store{ID: "st-1", Name: "Cantina da Praça"})
	}))
	defer srv.Close()

	name := "Cantina da Praça"
	address := ""
	c := NewClient(srv.URL)
	st, err := c.UpdateStore(context.Background(), "st-1", StoreUpdate{Name: &name, Address: &address})
	if err != nil {
		t.Fatalf("update store: %v", err)
	}
	if gotMethod != http.MethodPatch {
		t.Fatalf("expected PATCH, got=%s", gotMethod)
	}
	if gotPath != "/stores/st-1" {
		t.Fatalf("unexpected path, got=%q", gotPath)
	}
	// Unset fields stay out of the payload; a set-but-empty address clears it.
	if want := `{"name":"Cantina da Praça","address":""}`; strings.TrimSpace(gotBody) != want {
		t.Fatalf("expected body %s, got=%q", want, gotBody)
	}
	if st.Name != "Cantina da Praça" {
		t.Fatalf("unexpected store, got=%+v", st)
	}
}

func TestUpdateStore_RejectsEmptyUpdate(t *testing.T) {
	t.Parallel()

	c := NewClient("http://unused.invalid")
	if _, err := c.UpdateStore(context.Background(), "st-1", StoreUpdate{}); err == nil {
		t.Fatal("expected validation error for empty update")
	}
	name := ""
	if _, err := c.UpdateStore(context.Background(), "st-1", StoreUpdate{Name: &name}); err == nil {
		t.Fatal("expected validation error for empty name")
	}
}

func TestUpdateStoreStatus_RejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	c := NewClient("http://unused.invalid")
	if _, err := c.UpdateStoreStatus(context.Background(), "st-1", "paused"); err == nil {
		t.Fatal("expected validation error for unknown status")
	}
}

func TestUpdateStoreImages_MultipartFields(t *testing.T) {
	t.Parallel()

	var fields []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		for field := range r.MultipartForm.File {
			fields = append(fields, field)
		}
		_ = json.NewEncoder(w).Encode(model.Store{ID: "st-1"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.UpdateStoreImages(context.Background(), "st-1", []ImageUpload{
		{Field: "banner", Name: "banner.png", Data: strings.NewReader("png-bytes")},
		{Field: "photo", Name: "logo.png", Data: strings.NewReader("png-bytes")},
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	got := map[string]bool{}
	for _, f := range fields {
		got[f] = true
	}
	if !got["banner"] || !got["photo"] {
		t.Fatalf("expected banner and photo parts, got=%v", fields)
	}
}

func TestLogin_SendsCredentials(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Email != "op@example.com" || req.Password != "secret" {
			t.Errorf("unexpected credentials, got=%+v", req)
		}
		_ = json.NewEncoder(w).Encode(model.User{ID: 9, Email: req.Email})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	u, err := c.Login(context.Background(), "op@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.ID != 9 {
		t.Fatalf("expected user 9, got=%d", u.ID)
	}
}
