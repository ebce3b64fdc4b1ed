// Package pathsafe validates user-supplied path segments before they reach the filesystem.
package pathsafe

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

const MaxSegmentLength = 255

var (
	ErrInvalidSegment = errors.New("invalid path segment")
	ErrOutsideBase    = errors.New("path escapes base directory")

	segmentPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
)

// ValidateSegment accepts only [A-Za-z0-9._-]+ and rejects traversal sequences.
func ValidateSegment(segment string) error {
	switch {
	case segment == "", len(segment) > MaxSegmentLength:
		return fmt.Errorf("%w: %q", ErrInvalidSegment, segment)
	case strings.Contains(segment, ".."):
		return fmt.Errorf("%w: %q", ErrInvalidSegment, segment)
	case strings.ContainsAny(segment, "/\\\x00"):
		return fmt.Errorf("%w: %q", ErrInvalidSegment, segment)
	case segment == ".":
		return fmt.Errorf("%w: %q", ErrInvalidSegment, segment)
	case !segmentPattern.MatchString(segment):
		return fmt.Errorf("%w: %q", ErrInvalidSegment, segment)
	}
	return nil
}

// Join validates every segment, joins them under base and verifies the
// resolved absolute path still lies inside base.
func Join(base string, segments ...string) (string, error) {
	for _, s := range segments {
		if err := ValidateSegment(s); err != nil {
			return "", err
		}
	}

	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("resolve base: %w", err)
	}

	joined := filepath.Join(append([]string{absBase}, segments...)...)
	absJoined, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}

	if !Within(absBase, absJoined) {
		return "", fmt.Errorf("%w: %s", ErrOutsideBase, absJoined)
	}
	return absJoined, nil
}

// Within reports whether target equals base or is nested below it. Both must be absolute.
func Within(base, target string) bool {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// Ext returns the lower-cased extension of a validated filename.
func Ext(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}
