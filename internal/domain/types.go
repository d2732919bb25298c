package domain

import "strings"

// Role of an authenticated account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Pagination carries paging params and totals.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total,omitempty"`
}

// Normalize clamps page values to sane defaults.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	return p
}

// Window returns the [start,end) slice bounds for n items.
func (p Pagination) Window(n int) (int, int) {
	p = p.Normalize()
	if n <= 0 {
		return 0, 0
	}
	if p.Page-1 > n/p.PageSize {
		return n, n
	}
	start := (p.Page - 1) * p.PageSize
	if start > n {
		start = n
	}
	end := start + p.PageSize
	if end > n {
		end = n
	}
	return start, end
}

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

func (rc RequestContext) IsAdmin() bool {
	return strings.EqualFold(string(rc.Role), string(RoleAdmin))
}
