package bim

import (
	"errors"
	"fmt"
)

// ============================================================
// Errors
// ============================================================

var (
	ErrBackendInit          = errors.New("backend init failed")
	ErrUnknownEntityClass   = errors.New("unknown entity class")
	ErrInvalidContainer     = errors.New("invalid container")
	ErrInvalidDimension     = errors.New("invalid dimension")
	ErrInvalidProfile       = errors.New("invalid profile")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidFieldValue    = errors.New("invalid field value")
	ErrPropertySetWrite     = errors.New("property set write failed")
	ErrIOWrite              = errors.New("document write failed")
)

// MissingFieldError reports the first required field absent from a property-set payload.
type MissingFieldError struct {
	Set   string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing required field %q", e.Set, e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingRequiredField
}

// PropertySetError names the property set that failed to write. Sets written
// earlier in the same call stay committed.
type PropertySetError struct {
	Set string
	Err error
}

func (e *PropertySetError) Error() string {
	return fmt.Sprintf("write property set %q: %v", e.Set, e.Err)
}

func (e *PropertySetError) Unwrap() []error {
	return []error{ErrPropertySetWrite, e.Err}
}

// DimensionError описывает неположительный (или иначе недопустимый) размер.
type DimensionError struct {
	Name  string
	Value float64
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("invalid dimension %s=%g", e.Name, e.Value)
}

func (e *DimensionError) Unwrap() error {
	return ErrInvalidDimension
}

// Positive возвращает DimensionError, если значение не строго положительное.
// Удобно комбинировать через errors.Join.
func Positive(name string, value float64) error {
	if !(value > 0) {
		return &DimensionError{Name: name, Value: value}
	}
	return nil
}
