package service

import (
	"strings"
	"unicode"

	"github.com/folio-next/internal/config"
)

// passwordPolicyError 携带 i18n key 与参数，errors.Is 匹配 ErrWeakPassword
type passwordPolicyError struct {
	key  string
	args []interface{}
}

func (e passwordPolicyError) Error() string        { return e.key }
func (e passwordPolicyError) Is(target error) bool { return target == ErrWeakPassword }
func (e passwordPolicyError) Key() string          { return e.key }
func (e passwordPolicyError) Args() []interface{}  { return e.args }

type charClass int

const (
	classUpper charClass = 1 << iota
	classLower
	classNumber
	classSpecial
)

func classify(password string) charClass {
	var seen charClass
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			seen |= classUpper
		case unicode.IsLower(r):
			seen |= classLower
		case unicode.IsDigit(r):
			seen |= classNumber
		default:
			seen |= classSpecial
		}
	}
	return seen
}

type classRule struct {
	required func(config.PasswordPolicyConfig) bool
	class    charClass
	key      string
}

// 按顺序检查，返回第一个不满足的规则
var classRules = []classRule{
	{func(p config.PasswordPolicyConfig) bool { return p.RequireUpper }, classUpper, "error.password_require_upper"},
	{func(p config.PasswordPolicyConfig) bool { return p.RequireLower }, classLower, "error.password_require_lower"},
	{func(p config.PasswordPolicyConfig) bool { return p.RequireNumber }, classNumber, "error.password_require_number"},
	{func(p config.PasswordPolicyConfig) bool { return p.RequireSpecial }, classSpecial, "error.password_require_special"},
}

// validatePassword 校验密码策略。username 非空时密码不得包含用户名（忽略大小写）。
func validatePassword(policy config.PasswordPolicyConfig, password, username string) error {
	if policy.MinLength > 0 && len([]rune(password)) < policy.MinLength {
		return passwordPolicyError{key: "error.password_min_length", args: []interface{}{policy.MinLength}}
	}

	seen := classify(password)
	for _, rule := range classRules {
		if rule.required(policy) && seen&rule.class == 0 {
			return passwordPolicyError{key: rule.key}
		}
	}

	username = strings.ToLower(strings.TrimSpace(username))
	if username != "" && strings.Contains(strings.ToLower(password), username) {
		return passwordPolicyError{key: "error.password_contains_username"}
	}
	return nil
}
