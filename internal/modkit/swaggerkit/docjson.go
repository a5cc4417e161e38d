package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"

	"atelier/internal/modkit/httpkit"
	perr "atelier/internal/platform/errors"
	docs "atelier/internal/services/api/docs"
)

// docReader is a seam so tests can feed their own spec
var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }

// serveDocJSON serves the generated spec lifted to OAS3 with the shared error responses
func serveDocJSON(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var spec map[string]any
		if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}
		Normalize(spec, httpkit.APIV1, title)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

// Normalize lifts a swagger 2 document to OAS3 and adds what every operation shares:
// the error envelope schema, bearer auth and default 400/401/500 responses
func Normalize(spec map[string]any, serverURL, title string) {
	ensureServers(spec, serverURL)
	if title != "" {
		if info, ok := spec["info"].(map[string]any); ok {
			info["title"] = title
		}
	}
	comps := child(spec, "components")
	schemas := child(comps, "schemas")
	if _, ok := schemas["ErrorResponse"]; !ok {
		schemas["ErrorResponse"] = errorSchema
	}
	child(comps, "securitySchemes")["bearerAuth"] = map[string]any{
		"type": "http", "scheme": "bearer", "bearerFormat": "JWT",
	}
	addDefaults(spec, map[string]defaultResp{
		"400": {"Bad Request", 400, perr.ErrorCodeValidation, "title is a required field"},
		"401": {"Unauthorized", 401, perr.ErrorCodeUnauthorized, "missing bearer token"},
		"500": {"Internal Server Error", 500, perr.ErrorCodePanic, "panic recovered"},
	})
}

// ensureServers makes sure the spec is OAS3 3.0.x with a servers array
// the ui cannot render 3.1 yet
func ensureServers(spec map[string]any, url string) {
	if _, hasSwagger := spec["swagger"]; hasSwagger {
		delete(spec, "swagger")
		delete(spec, "basePath")
		spec["openapi"] = "3.0.3"
	}
	if v, ok := spec["openapi"].(string); !ok || strings.HasPrefix(v, "3.1") {
		spec["openapi"] = "3.0.3"
	}
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": url}}
	}
}

var errorSchema = map[string]any{
	"type":        "object",
	"description": "Standard error envelope",
	"properties": map[string]any{
		"status_code": map[string]any{"type": "integer", "format": "int32"},
		"status":      map[string]any{"type": "string"},
		"code":        map[string]any{"type": "integer", "format": "int32"},
		"error":       map[string]any{"type": "string"},
		"request_id":  map[string]any{"type": "string"},
	},
	"required": []any{"status_code", "status"},
}

type defaultResp struct {
	desc   string
	status int
	code   perr.ErrorCode
	msg    string
}

// addDefaults walks every operation and fills in missing responses
func addDefaults(spec map[string]any, defs map[string]defaultResp) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			responses := child(op, "responses")
			for status, d := range defs {
				if _, exists := responses[status]; exists {
					continue
				}
				responses[status] = map[string]any{
					"description": d.desc,
					"content": map[string]any{
						"application/json": map[string]any{
							"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
							"example": map[string]any{
								"status_code": d.status,
								"status":      d.desc,
								"code":        d.code,
								"error":       d.msg,
							},
						},
					},
				}
			}
		}
	}
}

func child(m map[string]any, key string) map[string]any {
	c, ok := m[key].(map[string]any)
	if !ok {
		c = map[string]any{}
		m[key] = c
	}
	return c
}
