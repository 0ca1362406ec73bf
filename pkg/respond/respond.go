package respond

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Body struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
}

func OK(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, Body{Success: true, Message: message, Data: data})
}

func Created(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusCreated, Body{Success: true, Message: message, Data: data})
}

func Paginated(c echo.Context, message string, data interface{}, page, limit int, total int64) error {
	pages := int((total + int64(limit) - 1) / int64(limit))

	return c.JSON(http.StatusOK, Body{
		Success: true,
		Message: message,
		Data:    data,
		Pagination: &Pagination{
			Page:    page,
			Limit:   limit,
			Total:   total,
			Pages:   pages,
			HasNext: int64(page*limit) < total,
			HasPrev: page > 1,
		},
	})
}
