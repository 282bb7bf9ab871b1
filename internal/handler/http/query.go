package http

import (
	"net/http"
	"strconv"

	"github.com/workforcehq/records-backend-go/internal/handler/http/response"
)

// pagination reads the page/limit query parameters. Absent or malformed
// values fall back to page 1 and the handler's default limit.
func pagination(r *http.Request, defaultLimit int) (page, limit int) {
	page = 1
	limit = defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	return page, limit
}

func paginationMeta(page, limit int, total int64) *response.Meta {
	return response.NewMeta(page, limit, total)
}

// optionalQuery returns a pointer to the query value, or nil when absent.
func optionalQuery(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}
