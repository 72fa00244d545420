package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func resolveTenant(t *testing.T, header string) (string, int) {
	t.Helper()

	var schema string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		schema = SchemaFromRequest(r)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/1", nil)
	if header != "" {
		req.Header.Set("X-Tenant", header)
	}
	rec := httptest.NewRecorder()

	TenantResolver(next).ServeHTTP(rec, req)
	return schema, rec.Code
}

func TestTenantResolverDefault(t *testing.T) {
	schema, code := resolveTenant(t, "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if schema != "public" {
		t.Fatalf("expected default schema public, got %q", schema)
	}
}

func TestTenantResolverHeader(t *testing.T) {
	schema, code := resolveTenant(t, "acme_corp")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if schema != "acme_corp" {
		t.Fatalf("expected acme_corp, got %q", schema)
	}
}

func TestTenantResolverRejectsUnsafe(t *testing.T) {
	for _, header := range []string{"Acme", "1tenant", "a;DROP TABLE", "a b"} {
		schema, code := resolveTenant(t, header)
		if code != http.StatusBadRequest {
			t.Fatalf("header %q: expected 400, got %d", header, code)
		}
		if schema != "" {
			t.Fatalf("header %q: handler must not run, resolved %q", header, schema)
		}
	}
}

func TestSchemaFromRequestWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if schema := SchemaFromRequest(req); schema != "public" {
		t.Fatalf("expected public fallback, got %q", schema)
	}
}
