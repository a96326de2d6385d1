package event

import (
	"errors"

	"qmsevents/internal/errs"
)

var (
	ErrEventNotFound    = errs.WithKind(errs.KindNotFound, errors.New("event not found"))
	ErrTitleRequired    = errs.WithKind(errs.KindValidation, errors.New("title is required"))
	ErrInvalidEventID   = errs.WithKind(errs.KindValidation, errors.New("event id must be a positive integer"))
	ErrTitleNotNullable = errs.WithKind(errs.KindValidation, errors.New("title cannot be null or empty"))
)
