// Package validation evaluates submitted form values against an explicit,
// ordered rule table. The same table serves full submissions and single-field
// interactive checks.
package validation

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Record exposes submitted values by field name. Missing fields read as "".
type Record interface {
	Value(field string) string
}

// Values is a map-backed Record.
type Values map[string]string

func (v Values) Value(field string) string { return v[field] }

// Check reports whether value passes. A non-nil error aborts validation.
type Check func(ctx context.Context, value string, rec Record) (bool, error)

// evalFunc returns the failure message for value, or "" when it passes.
type evalFunc func(ctx context.Context, value string, rec Record, label string) (string, error)

type Rule struct {
	eval evalFunc
	// evaluated even when the value is empty
	always bool
	// skipped once an earlier rule on the same field failed
	needsClean bool
}

// NewRule builds a rule from a predicate and a message built from the field label.
func NewRule(check Check, message func(label string) string) Rule {
	return Rule{eval: func(ctx context.Context, value string, rec Record, label string) (string, error) {
		ok, err := check(ctx, value, rec)
		if err != nil || ok {
			return "", err
		}
		return message(label), nil
	}}
}

// WithMessage replaces the rule's failure message.
func (r Rule) WithMessage(message string) Rule {
	eval := r.eval
	r.eval = func(ctx context.Context, value string, rec Record, label string) (string, error) {
		failure, err := eval(ctx, value, rec, label)
		if err != nil || failure == "" {
			return "", err
		}
		return message, nil
	}
	return r
}

// Optional makes the rule pass on empty values.
func (r Rule) Optional() Rule {
	r.always = false
	return r
}

type FieldRules struct {
	Field string
	label string
	Rules []Rule
}

func Field(name string, rules ...Rule) FieldRules {
	return FieldRules{Field: name, Rules: rules}
}

// Label sets the name used in messages; defaults to the field name.
func (f FieldRules) Label(label string) FieldRules {
	f.label = label
	return f
}

func (f FieldRules) displayName() string {
	if f.label != "" {
		return f.label
	}
	return f.Field
}

// Errors maps field names to their messages in rule order.
type Errors map[string][]string

func (e Errors) Valid() bool { return len(e) == 0 }

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e[field], "; ")))
	}
	return strings.Join(parts, ", ")
}

type Schema []FieldRules

// With returns a copy of s extended with more fields.
func (s Schema) With(fields ...FieldRules) Schema {
	out := make(Schema, 0, len(s)+len(fields))
	out = append(out, s...)
	return append(out, fields...)
}

// Validate runs every rule of every field and collects all failures.
func (s Schema) Validate(ctx context.Context, rec Record) (Errors, error) {
	errs := Errors{}
	for _, field := range s {
		messages, err := field.evaluate(ctx, rec)
		if err != nil {
			return nil, err
		}
		for _, message := range messages {
			errs.Add(field.Field, message)
		}
	}
	return errs, nil
}

// ValidateField runs only the rules registered for name.
func (s Schema) ValidateField(ctx context.Context, name string, rec Record) ([]string, error) {
	var messages []string
	for _, field := range s {
		if field.Field != name {
			continue
		}
		fieldMessages, err := field.evaluate(ctx, rec)
		if err != nil {
			return nil, err
		}
		messages = append(messages, fieldMessages...)
	}
	return messages, nil
}

func (f FieldRules) evaluate(ctx context.Context, rec Record) ([]string, error) {
	value := rec.Value(f.Field)
	empty := strings.TrimSpace(value) == ""

	var messages []string
	for _, rule := range f.Rules {
		if empty && !rule.always {
			continue
		}
		if rule.needsClean && len(messages) > 0 {
			continue
		}
		failure, err := rule.eval(ctx, value, rec, f.displayName())
		if err != nil {
			return nil, fmt.Errorf("validate %s: %w", f.Field, err)
		}
		if failure != "" {
			messages = append(messages, failure)
		}
	}
	return messages, nil
}
