package domain

import (
	"regexp"
	"strings"
)

var emailRegexp = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")

// Validator collects the first failure per field.
type Validator struct {
	errors map[string]string
}

func NewValidator() *Validator {
	return &Validator{errors: make(map[string]string)}
}

func (v *Validator) Valid() bool {
	return len(v.errors) == 0
}

// Err returns nil when no check failed.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	return &ValidationError{Fields: v.errors}
}

func (v *Validator) Check(cond bool, key, msg string) {
	if cond {
		return
	}
	if _, ok := v.errors[key]; !ok {
		v.errors[key] = msg
	}
}

func (v *Validator) CheckRequired(value, key string) {
	v.Check(strings.TrimSpace(value) != "", key, "must be provided")
}

func (v *Validator) CheckEmail(email string) {
	v.CheckRequired(email, "email")
	v.Check(emailRegexp.MatchString(email), "email", "must be a valid email address")
}

// CheckPassword enforces only what bcrypt needs: a non-empty secret of at most 72 bytes.
func (v *Validator) CheckPassword(password string) {
	v.Check(password != "", "password", "must be provided")
	v.Check(len(password) <= 72, "password", "must be at most 72 bytes long")
}

func (v *Validator) CheckID(id, key string) {
	v.Check(ValidID(id), key, "must be a valid id")
}
