package handler

import (
	"time"

	"github.com/eazyque/eazyque-api/internal/presentation/http/dto/response"
	"github.com/eazyque/eazyque-api/internal/presentation/http/middleware"
	"github.com/eazyque/eazyque-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	id := middleware.GetUserID(c)
	if id == uuid.Nil {
		return nil
	}
	return &id
}

// requireShop returns the caller's shop or writes a 401
func requireShop(c *gin.Context) (uuid.UUID, bool) {
	shopID := middleware.GetShopID(c)
	if shopID == uuid.Nil {
		response.Unauthorized(c, "User not authenticated")
		return uuid.Nil, false
	}
	return shopID, true
}

// pathUUID parses a UUID path parameter or writes a 400
func pathUUID(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// queryUUID returns nil when the parameter is absent or malformed
func queryUUID(value string) *uuid.UUID {
	if value == "" {
		return nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil
	}
	return &id
}

// queryDate parses YYYY-MM-DD; endOfDay moves it to the last instant of that day
func queryDate(value string, endOfDay bool) *time.Time {
	if value == "" {
		return nil
	}
	d, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return nil
	}
	if endOfDay {
		d = d.Add(24*time.Hour - time.Nanosecond)
	}
	return &d
}

func pageParams(page, perPage int) *pagination.Params {
	p := &pagination.Params{Page: page, PerPage: perPage}
	p.Validate()
	return p
}
