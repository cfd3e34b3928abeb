package dto

// PageResponse metadatos de página en respuestas paginadas.
type PageResponse struct {
	Total       int `json:"total"`
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	LastPage    int `json:"last_page"`
	From        int `json:"from"` // 1-based, 0 si la página está vacía
	To          int `json:"to"`
}

// Page lista paginada genérica.
type Page[T any] struct {
	Items []T          `json:"items"`
	Page  PageResponse `json:"page"`
}

// NormalizePage aplica el valor por defecto (1) a números de página no positivos.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// Offset desplazamiento SQL para la página y tamaño dados.
func Offset(page, perPage int) int {
	return (NormalizePage(page) - 1) * perPage
}

// NewPageResponse calcula los límites de la página a partir del total y del número de elementos devueltos.
func NewPageResponse(total, page, perPage, count int) PageResponse {
	page = NormalizePage(page)
	last := 1
	if perPage > 0 && total > 0 {
		last = (total + perPage - 1) / perPage
	}
	resp := PageResponse{
		Total:       total,
		CurrentPage: page,
		PerPage:     perPage,
		LastPage:    last,
	}
	if count > 0 {
		resp.From = Offset(page, perPage) + 1
		resp.To = Offset(page, perPage) + count
	}
	return resp
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
