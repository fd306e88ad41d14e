package echoapi

import (
	"github.com/labstack/echo/v4"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

type (
	// Pagination binds the standard page/limit query params.
	Pagination struct {
		Page  int `query:"page"`
		Limit int `query:"limit"`
	}

	PageMeta struct {
		Page       int `json:"page"`
		Limit      int `json:"limit"`
		Total      int `json:"total"`
		TotalPages int `json:"totalPages"`
	}
)

func (p *Pagination) Bind(ctx echo.Context) {
	_ = ctx.Bind(p)
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

func (p Pagination) Meta(total int) PageMeta {
	totalPages := total / p.Limit
	if total%p.Limit > 0 {
		totalPages++
	}
	return PageMeta{Page: p.Page, Limit: p.Limit, Total: total, TotalPages: totalPages}
}
