package validation

import (
	"errors"
	"net/mail"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	MaxGroupNameLength   = 100
	MaxDescriptionLength = 255
	MaxTagLength         = 32
	MaxTags              = 10
	MaxMeetupTitleLength = 120

	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

var displayNameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

var (
	ErrMissingDate = errors.New("date is required")
	ErrMissingTime = errors.New("time is required")
	ErrBadDate     = errors.New("date must be YYYY-MM-DD")
	ErrBadTime     = errors.New("time must be HH:MM")
)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}

func NormalizeDisplayName(name string) string {
	return strings.TrimSpace(name)
}

func ValidateDisplayName(name string) bool {
	return displayNameRe.MatchString(NormalizeDisplayName(name))
}

func PasswordMinLength() int {
	minStr := os.Getenv("PASSWORD_MIN_LENGTH")
	if minStr == "" {
		return 8
	}
	min, err := strconv.Atoi(minStr)
	if err != nil || min < 6 {
		return 8
	}
	return min
}

func ValidatePassword(password string) bool {
	return len(password) >= PasswordMinLength()
}

func TrimAndLimit(s string, max int) string {
	s = strings.TrimSpace(s)
	if max > 0 && len(s) > max {
		return s[:max]
	}
	return s
}

// ValidateGroupName reports whether name is non-blank and within limits.
func ValidateGroupName(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && len(name) <= MaxGroupNameLength
}

// NormalizeTags trims every tag, drops blanks and case-insensitive
// duplicates, and keeps at most MaxTags in input order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = TrimAndLimit(tag, MaxTagLength)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
		if len(out) == MaxTags {
			break
		}
	}
	return out
}

// ParseDateTime combines a YYYY-MM-DD date and an HH:MM clock time into one
// instant in loc.
func ParseDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" {
		return time.Time{}, ErrMissingDate
	}
	if clock == "" {
		return time.Time{}, ErrMissingTime
	}
	if loc == nil {
		loc = time.Local
	}
	d, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, ErrBadDate
	}
	c, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return time.Time{}, ErrBadTime
	}
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), 0, 0, loc), nil
}
