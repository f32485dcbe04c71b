// internal/service/order/application/pagination.go
package application

import "oms/internal/service/order/domain"

// Meta describes the full result set a page was cut from.
type Meta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	LastPage int   `json:"lastPage"`
}

// window computes the offset/limit pair for a 1-based page. Both page and
// limit must be positive; the ceiling arithmetic in newMeta is undefined for
// limit <= 0, so this is rejected before any store call.
func window(page, limit int) (offset, take int, err error) {
	if page <= 0 {
		return 0, 0, domain.NewValidationError("page must be a positive integer")
	}
	if limit <= 0 {
		return 0, 0, domain.NewValidationError("limit must be a positive integer")
	}
	return (page - 1) * limit, limit, nil
}

// newMeta computes the listing metadata. lastPage = ceil(total/limit).
func newMeta(total int64, page, limit int) Meta {
	lastPage := int((total + int64(limit) - 1) / int64(limit))
	return Meta{Total: total, Page: page, LastPage: lastPage}
}
