package validation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Check is a single predicate over a captured field value. It returns false
// when the value is invalid. A non-nil error means the check itself could
// not run (for example a failed uniqueness lookup) and aborts evaluation.
type Check func(ctx context.Context) (bool, error)

// Rule pairs a predicate with the message recorded when it fails.
type Rule struct {
	Check   Check
	Message string
}

// FieldRules is an ordered list of rules for one named field.
type FieldRules struct {
	Name  string
	Rules []Rule
}

// Field builds the rule descriptor for a single field. Rules are evaluated
// in the order given; the first failure wins and the rest are skipped.
func Field(name string, rules ...Rule) FieldRules {
	return FieldRules{Name: name, Rules: rules}
}

// Evaluate runs every field's rules. Fields are independent: a failure in
// one never stops the others. The returned FieldErrors is nil when all
// fields pass.
func Evaluate(ctx context.Context, fields ...FieldRules) (*FieldErrors, error) {
	var errs *FieldErrors
	for _, f := range fields {
		for _, rule := range f.Rules {
			ok, err := rule.Check(ctx)
			if err != nil {
				return nil, fmt.Errorf("validation check for %q: %w", f.Name, err)
			}
			if !ok {
				if errs == nil {
					errs = NewFieldErrors()
				}
				errs.Add(f.Name, rule.Message)
				break
			}
		}
	}
	return errs, nil
}

// FieldErrors maps field names to the message of the first failing rule.
// Insertion order is preserved and is the order fields appear in the
// marshalled JSON object, which API consumers rely on.
type FieldErrors struct {
	fields   []string
	messages map[string]string
}

func NewFieldErrors() *FieldErrors {
	return &FieldErrors{messages: make(map[string]string)}
}

// Add records the message for a field. Only the first message per field is
// kept.
func (e *FieldErrors) Add(field, message string) {
	if _, ok := e.messages[field]; ok {
		return
	}
	e.fields = append(e.fields, field)
	e.messages[field] = message
}

// Get returns the recorded message for a field, or "".
func (e *FieldErrors) Get(field string) string {
	if e == nil {
		return ""
	}
	return e.messages[field]
}

// Fields returns the field names in insertion order.
func (e *FieldErrors) Fields() []string {
	if e == nil {
		return nil
	}
	return e.fields
}

// Len returns the number of failed fields.
func (e *FieldErrors) Len() int {
	if e == nil {
		return 0
	}
	return len(e.fields)
}

// Error implements the error interface.
func (e *FieldErrors) Error() string {
	var msgs []string
	for _, f := range e.fields {
		msgs = append(msgs, fmt.Sprintf("field '%s': %s", f, e.messages[f]))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// MarshalJSON writes the errors as a JSON object in insertion order.
// encoding/json sorts plain maps alphabetically, which would break the
// declared-rule-order contract.
func (e *FieldErrors) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range e.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.messages[f])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
