package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/member-search-service/internal/model"
	"github.com/maxviazov/member-search-service/internal/repository"
	"github.com/maxviazov/member-search-service/internal/service"
)

// queryInt parses an optional integer query parameter. Absent or blank yields nil.
func queryInt(c *gin.Context, name string, ferrs *[]service.FieldError) *int {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*ferrs = append(*ferrs, service.FieldError{Field: name, Message: "must be an integer"})
		return nil
	}
	return &v
}

// pathID parses a positive int64 path parameter.
func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, service.NewInvalidInput([]service.FieldError{{Field: name, Message: "must be a positive integer"}})
	}
	return id, nil
}

// parseCondition reads the search filters. Strings are passed as sent;
// blank ones are treated as absent further down.
func parseCondition(c *gin.Context, ferrs *[]service.FieldError) model.MemberSearchCondition {
	return model.MemberSearchCondition{
		Username: c.Query("username"),
		TeamName: c.Query("teamName"),
		AgeGoe:   queryInt(c, "ageGoe", ferrs),
		AgeLoe:   queryInt(c, "ageLoe", ferrs),
	}
}

// parsePage reads limit and offset. Zero values are left for the service to default.
func parsePage(c *gin.Context, ferrs *[]service.FieldError) repository.Page {
	var p repository.Page
	if v := queryInt(c, "limit", ferrs); v != nil {
		p.Limit = *v
	}
	if v := queryInt(c, "offset", ferrs); v != nil {
		p.Offset = *v
	}
	return p
}

// parseSort reads any number of sort=field[,asc|desc] params, in order.
func parseSort(c *gin.Context, ferrs *[]service.FieldError) []repository.Order {
	var out []repository.Order
	for _, raw := range c.QueryArray("sort") {
		o, err := parseOrder(raw)
		if err != nil {
			*ferrs = append(*ferrs, service.FieldError{Field: "sort", Message: err.Error()})
			continue
		}
		out = append(out, o)
	}
	return out
}

func parseOrder(raw string) (repository.Order, error) {
	field, dir, _ := strings.Cut(strings.TrimSpace(raw), ",")
	o := repository.Order{Field: repository.SortField(strings.TrimSpace(field))}
	if !o.Field.Valid() {
		return repository.Order{}, fmt.Errorf("unsupported field %q", field)
	}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "asc":
	case "desc":
		o.Desc = true
	default:
		return repository.Order{}, fmt.Errorf("unsupported direction %q", dir)
	}
	return o, nil
}
