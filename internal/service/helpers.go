package service

import (
	"errors"

	"legalcrm/internal/errs"
)

func errsIsNotFound(err error) bool {
	return errors.Is(err, errs.ErrNotFound)
}

// prefixValidation re-keys a validation error's fields under a parent
// path (e.g. items[2].price) so batch requests report which element
// failed.
func prefixValidation(err error, prefix string) error {
	var vErr *errs.ValidationError
	if !errors.As(err, &vErr) {
		return err
	}
	prefixed := &errs.ValidationError{Fields: map[string]string{}}
	for field, msg := range vErr.Fields {
		prefixed.Fields[prefix+"."+field] = msg
	}
	return prefixed
}
