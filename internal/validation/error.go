package validation

import (
	"errors"
	"fmt"
)

// Error: Ön koşul ihlali (yanlış durum, eksik ayar, eksik veri).
// Handler katmanında 400'e çevrilir, işlemi kısmi etki bırakmadan durdurur.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func Errorf(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// IsError - err bir doğrulama hatası mı?
func IsError(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}
