package service

import (
	"fmt"

	"github.com/maxviazov/member-search-service/internal/repository"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100

	maxTeamNameLen = 50
	maxUsernameLen = 50
)

// normalizePage clamps the window and rejects sort fields storage cannot order by.
func normalizePage(p repository.Page) (repository.Page, error) {
	if p.Limit <= 0 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	var ferrs []FieldError
	for _, o := range p.Sort {
		if !o.Field.Valid() {
			ferrs = append(ferrs, FieldError{Field: "sort", Message: fmt.Sprintf("unsupported field %q", o.Field)})
		}
	}
	if err := NewInvalidInput(ferrs); err != nil {
		return repository.Page{}, err
	}
	return p, nil
}

func positiveID(field string, id int64) error {
	if id <= 0 {
		return NewInvalidInput([]FieldError{{Field: field, Message: "must be > 0"}})
	}
	return nil
}
