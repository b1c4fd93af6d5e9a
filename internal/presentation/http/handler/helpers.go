package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/application/service"
	"github.com/sangkips/cleanops-api/internal/domain/tenancy"
	"github.com/sangkips/cleanops-api/internal/presentation/http/dto/request"
	"github.com/sangkips/cleanops-api/internal/presentation/http/dto/response"
	"github.com/sangkips/cleanops-api/internal/presentation/http/middleware"
	"github.com/sangkips/cleanops-api/pkg/apperror"
	"github.com/sangkips/cleanops-api/pkg/pagination"
)

// dateLayout is accepted for from/to filters alongside RFC 3339
const dateLayout = "2006-01-02"

// bindJSON decodes the body into req. Validation failures answer 422 with
// field errors, anything else 400.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if fields := request.FieldErrors(err); len(fields) > 0 {
			response.ValidationError(c, fields)
		} else {
			response.BadRequest(c, "Invalid request body")
		}
		return false
	}
	return true
}

// scope returns the tenancy scope resolved for this request
func scope(c *gin.Context) tenancy.Scope {
	return middleware.GetScope(c)
}

// paramUUID parses a path parameter, answering 400 when it is malformed
func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// queryUUID parses an optional query parameter
func queryUUID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(c, "Invalid "+name)
		return nil, false
	}
	return &id, true
}

// queryTime parses an optional date or RFC 3339 timestamp
func queryTime(c *gin.Context, name string) (*time.Time, bool) {
	return parseQueryTime(c, name, false)
}

// queryRangeEnd is queryTime for an inclusive upper bound: a bare date
// covers the whole day
func queryRangeEnd(c *gin.Context, name string) (*time.Time, bool) {
	return parseQueryTime(c, name, true)
}

func parseQueryTime(c *gin.Context, name string, endOfDay bool) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		response.Error(c, apperror.Invalid(name, "must be a date (YYYY-MM-DD) or RFC 3339 timestamp"))
		return nil, false
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, true
}

// statusError is the 422 returned for an unknown status name
func statusError(err error) error {
	return apperror.Invalid("status", err.Error())
}

func pageParams(c *gin.Context) *pagination.PaginationParams {
	return pagination.FromQuery(c.Query("page"), c.Query("per_page"))
}

func lineInputs(lines []request.LineItemRequest) []service.LineInput {
	out := make([]service.LineInput, len(lines))
	for i, l := range lines {
		out[i] = service.LineInput{Description: l.Description, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}
	return out
}
