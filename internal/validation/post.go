// Package validation holds input checks shared by the post and comment services.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxDescriptionLength = 50000
	MaxCommentLength     = 10000
	MaxTitleLength       = 300
)

// Field is a named input value checked for presence.
type Field struct {
	Name  string
	Value string
}

// IsBlank reports whether s is empty or whitespace only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// FirstBlank returns the name of the first blank field, in argument order.
func FirstBlank(fields ...Field) (string, bool) {
	for _, f := range fields {
		if IsBlank(f.Value) {
			return f.Name, true
		}
	}
	return "", false
}

// MaxLength fails when s holds more than max characters.
func MaxLength(name, s string, max int) error {
	if utf8.RuneCountInString(s) > max {
		return fmt.Errorf("%s too long (max %d characters)", name, max)
	}
	return nil
}
