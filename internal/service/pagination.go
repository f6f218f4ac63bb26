package service

import "github.com/alumnet/alumni-backend/internal/response"

// Directory and listing page bounds.
const (
	DefaultPerPage = 10
	MaxMentorPage  = 50
	MaxAdminPage   = 100
)

func clampPage(page, perPage, maxPerPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

func newPagination(page, perPage, total int) *response.Pagination {
	return &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	}
}
