package handler

import (
	"net/http"

	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/database"

	"github.com/labstack/echo/v4"
)

// Health reports whether the service and its database are reachable.
func Health(c echo.Context) error {
	status := http.StatusOK
	dbState := "up"

	conn := database.GetDB()
	if conn == nil {
		dbState = "down"
		status = http.StatusServiceUnavailable
	} else if sqlDB, err := conn.DB(); err != nil || sqlDB.PingContext(c.Request().Context()) != nil {
		dbState = "down"
		status = http.StatusServiceUnavailable
	}

	return c.JSON(status, map[string]string{
		"status":   http.StatusText(status),
		"message":  "Billing Service API is running",
		"database": dbState,
		"version":  "1.0.0",
	})
}
