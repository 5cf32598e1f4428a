package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	pageKey = "pagination_page"
	sizeKey = "pagination_size"

	defaultPage = 0
	defaultSize = 10
	maxSize     = 10
)

// PaginationMiddleware parses and clamps the page/size query parameters.
// page falls back to 0 for anything negative or non-numeric; size falls
// back to 10 for anything outside [1,10] or non-numeric.
func PaginationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := strconv.Atoi(c.Query("page"))
		if err != nil || page < 0 {
			page = defaultPage
		}

		size, err := strconv.Atoi(c.Query("size"))
		if err != nil || size <= 0 || size > maxSize {
			size = defaultSize
		}

		c.Set(pageKey, page)
		c.Set(sizeKey, size)
		c.Next()
	}
}

// Pagination returns the clamped page and size for the request, falling
// back to the defaults when the middleware did not run.
func Pagination(c *gin.Context) (page, size int) {
	page = defaultPage
	size = defaultSize
	if v, ok := c.Get(pageKey); ok {
		if p, ok := v.(int); ok {
			page = p
		}
	}
	if v, ok := c.Get(sizeKey); ok {
		if s, ok := v.(int); ok {
			size = s
		}
	}
	return page, size
}
