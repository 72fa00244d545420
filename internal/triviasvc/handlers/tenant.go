package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
)

type contextKey int

const schemaContextKey contextKey = iota

const defaultSchema = "public"

// schemaRe keeps tenant identifiers safe to quote into relation names.
var schemaRe = regexp.MustCompile(`^[a-z][a-z0-9_]{0,62}$`)

// TenantResolver resolves the tenant schema from the X-Tenant header.
// The core treats it as an opaque partition key passed through every
// store call.
func TenantResolver(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		schema := r.Header.Get("X-Tenant")
		if schema == "" {
			schema = defaultSchema
		}
		if !schemaRe.MatchString(schema) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(Response{Code: http.StatusBadRequest, Error: "invalid tenant identifier"})
			return
		}

		ctx := context.WithValue(r.Context(), schemaContextKey, schema)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SchemaFromRequest returns the resolved tenant schema.
func SchemaFromRequest(r *http.Request) string {
	if schema, ok := r.Context().Value(schemaContextKey).(string); ok {
		return schema
	}
	return defaultSchema
}
