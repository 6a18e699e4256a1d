package domain

// PagedResponse представляет ответ с пагинацией для API
type PagedResponse struct {
	Items      interface{} `json:"items"`       // Элементы на текущей странице
	TotalItems int         `json:"total_items"` // Общее количество элементов
	Page       int         `json:"page"`        // Текущая страница
	PageSize   int         `json:"page_size"`   // Размер страницы
	TotalPages int         `json:"total_pages"` // Общее количество страниц
}

// NewPagedResponse создает ответ с вычисленным количеством страниц
func NewPagedResponse(items interface{}, total, page, pageSize int) *PagedResponse {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return &PagedResponse{
		Items:      items,
		TotalItems: total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
