package validation

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

var formats = validator.New()

func Required() Rule {
	r := NewRule(func(_ context.Context, value string, _ Record) (bool, error) {
		return strings.TrimSpace(value) != "", nil
	}, func(label string) string {
		return fmt.Sprintf("The %s field is required.", label)
	})
	r.always = true
	return r
}

func MinLength(min int) Rule {
	return NewRule(func(_ context.Context, value string, _ Record) (bool, error) {
		return utf8.RuneCountInString(value) >= min, nil
	}, func(label string) string {
		return fmt.Sprintf("The field %s must be a string with a minimum length of '%d'.", label, min)
	})
}

func MaxLength(max int) Rule {
	return NewRule(func(_ context.Context, value string, _ Record) (bool, error) {
		return utf8.RuneCountInString(value) <= max, nil
	}, func(label string) string {
		return fmt.Sprintf("The field %s must be a string with a maximum length of '%d'.", label, max)
	})
}

// Length bounds the rune count to [min, max].
func Length(min, max int) Rule {
	return NewRule(func(_ context.Context, value string, _ Record) (bool, error) {
		n := utf8.RuneCountInString(value)
		return n >= min && n <= max, nil
	}, func(label string) string {
		return fmt.Sprintf("The field %s must be a string with a minimum length of %d and a maximum length of %d.", label, min, max)
	})
}

// IntRange rejects values that are not integers with a separate message.
func IntRange(min, max int) Rule {
	return Rule{eval: func(_ context.Context, value string, _ Record, label string) (string, error) {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return notValidFor(value, label), nil
		}
		if n < min || n > max {
			return fmt.Sprintf("The field %s must be between %d and %d.", label, min, max), nil
		}
		return "", nil
	}}
}

// Decimal inputs outside these bounds are rejected before any arithmetic.
const (
	maxDecimalLength   = 40
	maxDecimalExponent = 18
)

// DecimalRange rejects values that are not plain-sized decimals with the same
// message as unparsable ones.
func DecimalRange(min, max decimal.Decimal) Rule {
	return Rule{eval: func(_ context.Context, value string, _ Record, label string) (string, error) {
		raw := strings.TrimSpace(value)
		if len(raw) > maxDecimalLength {
			return notValidFor(value, label), nil
		}
		d, err := decimal.NewFromString(raw)
		if err != nil || d.Exponent() < -maxDecimalExponent || d.Exponent() > maxDecimalExponent {
			return notValidFor(value, label), nil
		}
		if d.LessThan(min) || d.GreaterThan(max) {
			return fmt.Sprintf("The field %s must be between %s and %s.", label, min, max), nil
		}
		return "", nil
	}}
}

func Email() Rule {
	return NewRule(func(_ context.Context, value string, _ Record) (bool, error) {
		return formats.Var(value, "email") == nil, nil
	}, func(label string) string {
		return fmt.Sprintf("The %s field is not a valid e-mail address.", label)
	})
}

// EqualTo compares against another field exactly, so an empty value only
// passes when the other field is empty too.
func EqualTo(other string) Rule {
	r := NewRule(func(_ context.Context, value string, rec Record) (bool, error) {
		return value == rec.Value(other), nil
	}, func(label string) string {
		return fmt.Sprintf("'%s' and '%s' do not match.", label, other)
	})
	r.always = true
	return r
}

// Clock returns the current time.
type Clock func() time.Time

// MinAge requires a YYYY-MM-DD date of birth whose calendar year is at least
// min years before the current one. Month and day are ignored.
func MinAge(min int, now Clock) Rule {
	if now == nil {
		now = time.Now
	}
	return Rule{always: true, eval: func(_ context.Context, value string, _ Record, _ string) (string, error) {
		value = strings.TrimSpace(value)
		if value == "" {
			return "DOB Is Required", nil
		}
		dob, err := time.Parse(DateLayout, value)
		if err != nil {
			return "Invalid DOB Format", nil
		}
		if AgeInYears(dob, now()) < min {
			return fmt.Sprintf("Minimum age is %d.", min), nil
		}
		return "", nil
	}}
}

// AgeInYears is plain calendar-year subtraction.
func AgeInYears(dob, now time.Time) int {
	return now.Year() - dob.Year()
}

// Lookup answers a store question about value, e.g. "is this email taken".
type Lookup func(ctx context.Context, value string) (bool, error)

// Unique fails when taken reports true. It only runs if the field passed
// every earlier rule.
func Unique(taken Lookup) Rule {
	r := NewRule(func(ctx context.Context, value string, _ Record) (bool, error) {
		found, err := taken(ctx, value)
		if err != nil {
			return false, err
		}
		return !found, nil
	}, func(label string) string {
		return fmt.Sprintf("%s already exists", label)
	})
	r.needsClean = true
	return r
}

// Reference requires a positive integer id for which exists reports true.
func Reference(exists Lookup) Rule {
	return Rule{needsClean: true, eval: func(ctx context.Context, value string, _ Record, label string) (string, error) {
		id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
		if err != nil || id == 0 {
			return notValidFor(value, label), nil
		}
		found, err := exists(ctx, strconv.FormatUint(id, 10))
		if err != nil {
			return "", err
		}
		if !found {
			return fmt.Sprintf("The selected %s does not exist.", label), nil
		}
		return "", nil
	}}
}

func notValidFor(value, label string) string {
	return fmt.Sprintf("The value '%s' is not valid for %s.", value, label)
}
