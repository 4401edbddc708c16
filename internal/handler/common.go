package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/attraction-reservation/internal/giftcard"
	"github.com/iliyamo/attraction-reservation/internal/workflow"
)

// getUserID extracts the user_id placed in the context by the JWT
// middleware and converts it to uint64.  Claims decoded from JSON
// arrive as float64; other representations are tolerated for safety.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a numeric :id path parameter, rejecting zero.
func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// parseDate parses a YYYY-MM-DD calendar date as midnight UTC.
func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// validationResponse maps a core field error onto the inline-message
// shape the UI expects: HTTP 400 with the failing field named.  Other
// errors are passed through for the caller to classify.
func validationResponse(c echo.Context, err error) (bool, error) {
	var wf *workflow.FieldError
	if errors.As(err, &wf) {
		return true, c.JSON(http.StatusBadRequest, echo.Map{"error": wf.Reason, "field": wf.Field})
	}
	var gf *giftcard.FieldError
	if errors.As(err, &gf) {
		return true, c.JSON(http.StatusBadRequest, echo.Map{"error": gf.Reason, "field": gf.Field})
	}
	return false, nil
}
