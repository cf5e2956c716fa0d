package pipeline

import "errors"

var (
	ErrValidation       = errors.New("validation error")
	ErrLeadNotFound     = errors.New("lead not found")
	ErrCompanyNotFound  = errors.New("company not found")
	ErrNoNewLeadsStage  = errors.New("company has no new-leads stage")
	ErrUnknownStage     = errors.New("stage does not belong to company")
	ErrWrongSalesperson = errors.New("salesperson does not belong to company")
	ErrDuplicateLead    = errors.New("lead already exists")
)
