// Package handler holds the echo handlers of the billing API.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hashreftech/jewellery-billing-software-sub000/internal/apperror"
	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/config"
	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/database"
	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/logger"
	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/validation"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

var (
	// now is the handlers' clock. Tests replace it.
	now = time.Now

	business config.BusinessConfig
)

// Configure installs the configured business rules.
func Configure(cfg *config.Config) {
	business = cfg.Business
}

func db(c echo.Context) *gorm.DB {
	return database.GetDB().WithContext(c.Request().Context())
}

func today() time.Time {
	return now()
}

// respondError writes err with the status of its kind. Field violations are
// returned under "details"; persistence failures are not described.
func respondError(c echo.Context, err error) error {
	log := logger.FromContext(c)
	status := apperror.HTTPStatus(err)

	body := echo.Map{"error": err.Error()}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		if len(appErr.Fields) > 0 {
			body["details"] = appErr.Fields
		}
		if appErr.Retryable() {
			body["retryable"] = true
		}
	}

	if status >= http.StatusInternalServerError {
		log.Error("Request failed", zap.Error(err))
		body["error"] = "internal server error"
	} else {
		log.Warn("Request rejected", zap.Int("status", status), zap.Error(err))
	}
	return c.JSON(status, body)
}

func badRequest(c echo.Context, msg string, err error) error {
	logger.FromContext(c).Warn(msg, zap.Error(err))
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, apperror.Validation("invalid "+name, validation.Violations{name: "invalid"})
	}
	return uint(id), nil
}

func queryID(c echo.Context, name string) (uint, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, apperror.Validation("invalid "+name, validation.Violations{name: "invalid"})
	}
	return uint(id), nil
}

func currentUserID(c echo.Context) uint {
	id, _ := c.Get("user_id").(uint)
	return id
}

// parseDate accepts YYYY-MM-DD or RFC 3339. Empty means absent.
func parseDate(field, raw string, v validation.Violations) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	v[field] = "invalid_date"
	return nil
}

func pagination(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page <= 0 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20 // Default limit
	}
	return page, limit
}
