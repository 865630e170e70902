package service

import (
	"errors"

	"github.com/ismyyear/lockin/internal/repository"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrLookupFailed       = errors.New("partner lookup failed")
	ErrMatchWriteFailed   = errors.New("partner link write failed")
	ErrRegistrationClosed = errors.New("registration is only open on the last day of the month")

	// ErrPartnerUnavailable means the chosen candidate was matched concurrently.
	ErrPartnerUnavailable = repository.ErrPartnerUnavailable
)
