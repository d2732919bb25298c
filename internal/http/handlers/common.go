package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"travelbook/internal/domain"
	"travelbook/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondError(c, http.StatusBadRequest, "empty_body", "request body is empty", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_payload", "invalid payload: "+err.Error(), nil)
		return false
	}
	return true
}

// caller returns the authenticated identity or writes a 401.
func caller(c *gin.Context) (domain.RequestContext, bool) {
	rc, ok := middleware.Identity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "authentication required", nil)
		return rc, false
	}
	return rc, true
}

// owns reports whether rc may see a booking made under userName.
func owns(rc domain.RequestContext, userName string) bool {
	return rc.IsAdmin() || strings.EqualFold(strings.TrimSpace(userName), rc.Username)
}

func param(c *gin.Context, name string) string {
	return strings.TrimSpace(c.Param(name))
}

// respondPage writes one page of items using ?page and ?pageSize.
func respondPage[T any](c *gin.Context, items []T) {
	p := domain.Pagination{
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "pageSize"),
	}.Normalize()
	p.Total = len(items)
	start, end := p.Window(len(items))
	c.JSON(http.StatusOK, gin.H{"data": items[start:end], "pagination": p})
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return 0
	}
	return n
}
