package deadline

import "errors"

var (
	ErrLeadNotFound    = errors.New("lead not found")
	ErrCompanyNotFound = errors.New("company not found")
)
