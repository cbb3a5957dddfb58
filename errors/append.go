package errors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no non-nil error is provided, nil is returned. If only one non-nil error
// is provided, it is returned unchanged.
func Append(errs ...error) error {
	var res multiErr
	for _, e := range errs {
		if errIsNil(e) {
			continue
		}
		if m, ok := e.(multiErr); ok {
			res = append(res, m...)
		} else {
			res = append(res, e)
		}
	}
	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	}
	return res
}

// AppendField adds fieldErr, labeled with fieldName, to errs. Use it to
// collect all validation failures of a message or record:
//
//   var errs error
//   errs = errors.AppendField(errs, "Taker", d.Taker.Validate())
//   errs = errors.AppendField(errs, "Nonce", nonceErr)
//   return errs
//
// Field names follow Go naming. Nested fields use the dot notation, for
// example Deal.Maker.
func AppendField(errs error, fieldName string, fieldErr error) error {
	return Append(errs, Field(fieldName, fieldErr, ""))
}

// Field labels err with the name of the field it was raised for. The
// description is optional and may be a format string. Nil errors stay nil.
func Field(fieldName string, err error, description string, args ...interface{}) error {
	if errIsNil(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{parent: err, field: fieldName, desc: description}
}

// FieldErrors returns the errors in err that are labeled with fieldName.
// Groups created by Append are searched recursively.
func FieldErrors(err error, fieldName string) []error {
	var res []error
	for !errIsNil(err) {
		switch e := err.(type) {
		case *fieldError:
			if e.field == fieldName {
				return append(res, e)
			}
		case unpacker:
			for _, inner := range e.Unpack() {
				res = append(res, FieldErrors(inner, fieldName)...)
			}
			return res
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return res
}

// multiErr represents a group of errors. The first error in the group is
// considered the main one and defines the ABCI code.
type multiErr []error

func (m multiErr) Error() string {
	msgs := make([]string, len(m))
	for i, e := range m {
		msgs[i] = fmt.Sprintf("* %s", e)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s", len(m), strings.Join(msgs, "\n\t"))
}

// Unpack implements unpacker interface.
func (m multiErr) Unpack() []error {
	return m
}

// ABCICode returns the code of the first error in the group.
func (m multiErr) ABCICode() uint32 {
	return abciCode(m[0])
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (e *fieldError) Error() string {
	if e.desc == "" {
		return fmt.Sprintf("field %q: %s", e.field, e.parent)
	}
	return fmt.Sprintf("field %q: %s: %s", e.field, e.desc, e.parent)
}

func (e *fieldError) Cause() error {
	return e.parent
}

var (
	_ unpacker = multiErr(nil)
	_ coder    = multiErr(nil)
	_ causer   = (*fieldError)(nil)
)
