package auth

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"quill/config"
	domainerrors "quill/internal/domain/errors"
	"quill/internal/domain/service"
)

// passwordPolicy enforces PasswordStrengthConfig. MinLength counts characters,
// MaxLength counts bytes because that is what bcrypt limits.
type passwordPolicy struct {
	rules config.PasswordStrengthConfig
}

// NewPasswordPolicy builds the policy from config, falling back to the defaults.
func NewPasswordPolicy(cfg *config.Config) service.PasswordPolicy {
	rules := config.PasswordStrengthConfig{
		MinLength: config.DefaultPasswordMinLength,
		MaxLength: config.DefaultPasswordMaxLength,
	}
	if cfg != nil && cfg.PasswordStrength != nil {
		rules = *cfg.PasswordStrength
		if rules.MinLength <= 0 {
			rules.MinLength = config.DefaultPasswordMinLength
		}
		if rules.MaxLength <= 0 || rules.MaxLength > config.DefaultPasswordMaxLength {
			rules.MaxLength = config.DefaultPasswordMaxLength
		}
	}

	return &passwordPolicy{rules: rules}
}

// Validate returns ErrPasswordStrength with every violated rule in the details.
func (p *passwordPolicy) Validate(password string) error {
	var violations []string

	if utf8.RuneCountInString(password) < p.rules.MinLength {
		violations = append(violations, "must be at least "+strconv.Itoa(p.rules.MinLength)+" characters long")
	}
	if len(password) > p.rules.MaxLength {
		violations = append(violations, "must be at most "+strconv.Itoa(p.rules.MaxLength)+" bytes long")
	}
	if p.rules.RequireUppercase && !hasUppercase(password) {
		violations = append(violations, "must contain at least one uppercase letter")
	}
	if p.rules.RequireLowercase && !hasLowercase(password) {
		violations = append(violations, "must contain at least one lowercase letter")
	}
	if p.rules.RequireNumbers && !hasNumbers(password) {
		violations = append(violations, "must contain at least one number")
	}
	if p.rules.RequireSpecial && !hasSpecialChars(password) {
		violations = append(violations, "must contain at least one special character")
	}

	if len(violations) == 0 {
		return nil
	}

	return domainerrors.ErrPasswordStrength.WithDetails("password " + strings.Join(violations, "; "))
}

func hasUppercase(s string) bool {
	return strings.IndexFunc(s, unicode.IsUpper) >= 0
}

func hasLowercase(s string) bool {
	return strings.IndexFunc(s, unicode.IsLower) >= 0
}

func hasNumbers(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func hasSpecialChars(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	}) >= 0
}
