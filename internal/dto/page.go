package dto

// Page 是所有分页列表的统一响应外壳
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func NewPage[T any](items []T, page, limit int, total int64, totalPages int) *Page[T] {
	if items == nil {
		// 空页返回[]而不是null
		items = []T{}
	}
	return &Page[T]{
		Items:      items,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
