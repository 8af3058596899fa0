package utils

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrInvalidPhoneNumberFormat = errors.New("invalid phone number, expected international format such as +919876543210")
	ErrInvalidLimit             = errors.New("limit must be a positive integer")
)

// IsNumeric 检查字符串是否只包含 ASCII 数字 0-9
func IsNumeric(s string) bool {
	if s == "" {
		return false // 空字符串不视为数字
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NormalizePhoneNumber removes spaces, dashes and parentheses, keeping a leading "+".
func NormalizePhoneNumber(phone string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(phone) {
		switch r {
		case ' ', '-', '(', ')', '\t':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ValidatePhoneNumber 校验 E.164 风格的手机号码：可选的 "+" 加 8 到 15 位数字。
// 如果有效，返回 nil；否则返回 ErrInvalidPhoneNumberFormat。
func ValidatePhoneNumber(phone string) error {
	digits := strings.TrimPrefix(NormalizePhoneNumber(phone), "+")
	if len(digits) < 8 || len(digits) > 15 || !IsNumeric(digits) {
		return ErrInvalidPhoneNumberFormat
	}
	return nil
}

// DeriveAdministratorID returns the record id for an administrator phone:
// the normalized number without its "+".
func DeriveAdministratorID(phone string) string {
	return strings.ReplaceAll(NormalizePhoneNumber(phone), "+", "")
}

// ParseLimit parses an optional positive limit query parameter, returning
// fallback when raw is empty and capping the result at max.
func ParseLimit(raw string, fallback, max int) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, ErrInvalidLimit
	}
	if max > 0 && n > max {
		n = max
	}
	return n, nil
}
