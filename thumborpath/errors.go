package thumborpath

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrImageRequired image is missing or empty
	ErrImageRequired = NewError("image is required", http.StatusBadRequest)
	// ErrFitInSize fit-in modes without width or height
	ErrFitInSize = NewError("fit-in requires width and/or height", http.StatusBadRequest)
	// ErrInvalidCenter center is not an x,y pair
	ErrInvalidCenter = NewError("center must be an array of x,y", http.StatusBadRequest)
	// ErrInvalidOriginalSize original width or height is not positive
	ErrInvalidOriginalSize = NewError("original width and height must be positive", http.StatusBadRequest)
	// ErrInvalidTrim unknown trim direction or negative tolerance
	ErrInvalidTrim = NewError("invalid trim", http.StatusBadRequest)
	// ErrInvalidAlign unknown halign or valign keyword
	ErrInvalidAlign = NewError("invalid alignment", http.StatusBadRequest)
	// ErrKeyRequired legacy scheme requested without a key
	ErrKeyRequired = NewError("key is required for legacy url", http.StatusBadRequest)
	// ErrInternal internal error
	ErrInternal = NewError("internal error", http.StatusInternalServerError)
)

const errPrefix = "thumbor:"

var errMsgRegexp = regexp.MustCompile(fmt.Sprintf("^%s ([0-9]+) (.*)$", errPrefix))

// Error thumbor url error convention
type Error struct {
	Message string `json:"message,omitempty"`
	Code    int    `json:"status,omitempty"`
}

// Error implements error
func (e Error) Error() string {
	return fmt.Sprintf("%s %d %s", errPrefix, e.Code, e.Message)
}

// NewError creates Error from message and status code
func NewError(msg string, code int) Error {
	return Error{Message: msg, Code: code}
}

// WrapError wraps Go error into Error
func WrapError(err error) Error {
	if err == nil {
		return ErrInternal
	}
	var e Error
	if errors.As(err, &e) {
		return e
	}
	if msg := err.Error(); errMsgRegexp.MatchString(msg) {
		if match := errMsgRegexp.FindStringSubmatch(msg); len(match) == 3 {
			code, _ := strconv.Atoi(match[1])
			return NewError(match[2], code)
		}
	}
	msg := strings.Replace(err.Error(), "\n", "", -1)
	return NewError(msg, http.StatusInternalServerError)
}
