package handlers

import (
	"strconv"

	"foodgram-backend/domain"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultLimit = 6
	maxLimit     = 100
	// maxPage keeps (page-1)*limit well inside int range.
	maxPage = 1_000_000
)

func pageRequest(c *fiber.Ctx) domain.PageRequest {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	page = min(page, maxPage)

	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	limit = min(limit, maxLimit)

	return domain.PageRequest{Page: page, Limit: limit}
}

func paginated(results any, count int64, page domain.PageRequest) fiber.Map {
	return fiber.Map{
		"count":   count,
		"results": results,
		"pagination": domain.Pagination{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      count,
			TotalPages: (count + int64(page.Limit) - 1) / int64(page.Limit),
		},
	}
}

// queryFlag accepts "1" and "true".
func queryFlag(c *fiber.Ctx, key string) bool {
	v := c.Query(key)
	return v == "1" || v == "true"
}
