package services

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a service matches exactly one of these
// through errors.Is, except the AI errors below.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrStore        = errors.New("store failure")
)

// DomainError is a specific business rule failure of a given kind.
type DomainError struct {
	Kind error
	Msg  string
}

func (e *DomainError) Error() string { return e.Msg }

func (e *DomainError) Unwrap() error { return e.Kind }

func notFound(msg string) *DomainError     { return &DomainError{Kind: ErrNotFound, Msg: msg} }
func unauthorized(msg string) *DomainError { return &DomainError{Kind: ErrUnauthorized, Msg: msg} }
func conflict(msg string) *DomainError     { return &DomainError{Kind: ErrConflict, Msg: msg} }
func invalid(msg string) *DomainError      { return &DomainError{Kind: ErrValidation, Msg: msg} }

func invalidf(format string, args ...interface{}) *DomainError {
	return invalid(fmt.Sprintf(format, args...))
}

var (
	ErrTaskNotFound     = notFound("task not found")
	ErrOfferNotFound    = notFound("offer not found")
	ErrUserNotFound     = notFound("user not found")
	ErrProviderNotFound = notFound("provider not found")
	ErrCategoryNotFound = notFound("category not found")
	ErrAccountNotFound  = notFound("account not found")
	ErrSkillNotFound    = notFound("skill not found")

	ErrNotTaskOwner         = unauthorized("only the task owner can perform this action")
	ErrNotAssignedProvider  = unauthorized("only the provider holding the accepted offer can perform this action")
	ErrProviderRoleRequired = unauthorized("only providers can perform this action")
	ErrUserRoleRequired     = unauthorized("only users can perform this action")
	ErrInvalidCredentials   = unauthorized("invalid username or password")
	ErrCancelNotAllowed     = unauthorized("only the task owner or the assigned provider can cancel this task")
	ErrNotSkillOwner        = unauthorized("only the provider who listed the skill can perform this action")

	ErrOfferAlreadyAccepted  = conflict("task already has an accepted offer")
	ErrOfferAlreadyDecided   = conflict("offer has already been decided")
	ErrDuplicatePendingOffer = conflict("provider already has a pending offer on this task")
	ErrInvalidTransition     = conflict("task status does not allow this action")
	ErrConcurrentUpdate      = conflict("task was modified by another request")
	ErrUsernameTaken         = conflict("username already exists")
	ErrCategoryExists        = conflict("category already exists")
	ErrCategoryInUse         = conflict("category is used by tasks or skills")

	ErrNameRequired         = invalid("name is required")
	ErrInvalidHours         = invalid("expected working hours must be positive")
	ErrNegativeRate         = invalid("hourly rate cannot be negative")
	ErrOfferRateNotPositive = invalid("offer rate must be positive")
	ErrInvalidCurrency      = invalid("currency must be one of USD, AUD, SGD, INR")
	ErrDescriptionRequired  = invalid("description is required")
	ErrStartDateRequired    = invalid("expected start date is required")
	ErrPasswordTooShort     = invalid("password too short")
	ErrUsernameTooShort     = invalid("username too short")
	ErrEmailRequired        = invalid("email is required")
	ErrInvalidProviderType  = invalid("provider type must be individual or company")
	ErrProviderDetails      = invalid("provider details do not match provider type")
	ErrExperienceRequired   = invalid("experience is required")
	ErrInvalidNatureOfWork  = invalid("nature of work must be onsite or online")
)

// storeError wraps an infrastructure failure during op.
func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}

// IsDomainError reports whether err is a business rule failure rather than an
// infrastructure one.
func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}
