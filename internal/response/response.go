package response

import "github.com/gin-gonic/gin"

// ErrorResponse is the body of every failed request. Error carries either a
// message string or, for validation failures, a field-to-message map.
type ErrorResponse struct {
	Error any     `json:"error"`
	Code  ErrCode `json:"code"`
}

// Page is the body of a paginated listing.
type Page struct {
	Items      any         `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// Pagination describes the slice of a listing returned in a Page.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// ────────────────────────────────────────────────────────────────────────────
// Success bodies
// ────────────────────────────────────────────────────────────────────────────

// JSON writes body as the top-level object, e.g. {"user": ...} or {"id": ...}.
func JSON(c *gin.Context, statusCode int, body any) {
	c.JSON(statusCode, body)
}

// Paged writes a listing with its pagination.
func Paged(c *gin.Context, statusCode int, items any, pagination *Pagination) {
	c.JSON(statusCode, Page{Items: items, Pagination: pagination})
}

// ────────────────────────────────────────────────────────────────────────────
// Error bodies
// ────────────────────────────────────────────────────────────────────────────

// Fail writes {"error": <message for code>, "code": code}.
func Fail(c *gin.Context, statusCode int, code ErrCode) {
	c.JSON(statusCode, ErrorResponse{Error: GetMessage(code), Code: code})
}

// FailFields writes {"error": {field: message}, "code": code}.
func FailFields(c *gin.Context, statusCode int, code ErrCode, fields map[string]string) {
	c.JSON(statusCode, ErrorResponse{Error: fields, Code: code})
}

// Abort stops the middleware chain and writes the same body as Fail.
func Abort(c *gin.Context, statusCode int, code ErrCode) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{Error: GetMessage(code), Code: code})
}
