// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reader

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/yomira-reader/internal/platform/constants"
	"github.com/taibuivan/yomira-reader/internal/platform/validate"
)

// RegisterForm is what the user typed on the registration screen.
type RegisterForm struct {
	Username string
	Email    string
	Password string
}

// RegisterRules are the client-side checks run before an account is created.
type RegisterRules struct {
	// EmailDomain is the suffix every email must end with.
	EmailDomain string
	// PasswordMinLength is the minimum number of characters of a password.
	PasswordMinLength int
}

// DefaultRegisterRules returns the rules of the public app.
func DefaultRegisterRules() RegisterRules {
	return RegisterRules{
		EmailDomain:       constants.DefaultEmailDomain,
		PasswordMinLength: constants.PasswordMinLength,
	}
}

/*
Validate checks a registration form.

Missing fields are reported first and alone; the email and password rules
only run on a complete form.
*/
func (rules RegisterRules) Validate(form RegisterForm) error {
	validator := &validate.Validator{}
	validator.Required("username", form.Username).
		Required("email", form.Email).
		Required("password", form.Password)
	if validator.HasErrors() {
		return validator.Err()
	}

	validator.Custom("email", !strings.HasSuffix(form.Email, rules.EmailDomain),
		"Email must end with "+rules.EmailDomain).
		Custom("password", !rules.strongPassword(form.Password),
			fmt.Sprintf("Password needs at least %d characters with a lower-case letter, an upper-case letter, a digit and a special character", rules.PasswordMinLength))
	return validator.Err()
}

// strongPassword requires one ASCII lower, upper, digit and one other character.
func (rules RegisterRules) strongPassword(password string) bool {
	if utf8.RuneCountInString(password) < rules.PasswordMinLength {
		return false
	}

	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			special = true
		}
	}
	return lower && upper && digit && special
}
