package models

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

const DateLayout = "2006-01-02"

type ValueKind string

const (
	ValueKindBoolean ValueKind = "boolean"
	ValueKindString  ValueKind = "string"
	ValueKindInteger ValueKind = "integer"
	ValueKindDate    ValueKind = "date"
)

var (
	ErrValueKindMismatch = errors.New("answer value does not match the question input type")
	ErrValueOutOfRange   = errors.New("answer value is out of range for the question input type")
	ErrValueNotInteger   = errors.New("numeric answer values must be integers")
)

// AnswerValue is a tagged union holding one answer or option value. The JSON
// form is the bare scalar; the stored form keeps the kind next to the payload
// so a string "true" and a boolean true never collapse into each other.
type AnswerValue struct {
	Kind ValueKind `bson:"kind"`
	Bool *bool     `bson:"bool,omitempty"`
	Text *string   `bson:"text,omitempty"`
	Int  *int64    `bson:"int,omitempty"`
}

func BoolValue(b bool) AnswerValue {
	return AnswerValue{Kind: ValueKindBoolean, Bool: &b}
}

func StringValue(s string) AnswerValue {
	return AnswerValue{Kind: ValueKindString, Text: &s}
}

func IntValue(i int64) AnswerValue {
	return AnswerValue{Kind: ValueKindInteger, Int: &i}
}

func DateValue(t time.Time) AnswerValue {
	formatted := t.Format(DateLayout)
	return AnswerValue{Kind: ValueKindDate, Text: &formatted}
}

func (v AnswerValue) IsZero() bool {
	return v.Kind == ""
}

// Key is the canonical comparison key of the value, unique across kinds.
func (v AnswerValue) Key() string {
	switch v.Kind {
	case ValueKindBoolean:
		if v.Bool == nil {
			return ""
		}
		return "b:" + strconv.FormatBool(*v.Bool)
	case ValueKindString:
		if v.Text == nil {
			return ""
		}
		return "s:" + *v.Text
	case ValueKindInteger:
		if v.Int == nil {
			return ""
		}
		return "i:" + strconv.FormatInt(*v.Int, 10)
	case ValueKindDate:
		if v.Text == nil {
			return ""
		}
		return "d:" + *v.Text
	}
	return ""
}

func (v AnswerValue) Equal(other AnswerValue) bool {
	return v.Key() == other.Key()
}

func (v AnswerValue) String() string {
	switch v.Kind {
	case ValueKindBoolean:
		if v.Bool != nil {
			return strconv.FormatBool(*v.Bool)
		}
	case ValueKindString, ValueKindDate:
		if v.Text != nil {
			return *v.Text
		}
	case ValueKindInteger:
		if v.Int != nil {
			return strconv.FormatInt(*v.Int, 10)
		}
	}
	return ""
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueKindBoolean:
		if v.Bool != nil {
			return []byte(strconv.FormatBool(*v.Bool)), nil
		}
	case ValueKindString, ValueKindDate:
		if v.Text != nil {
			return json.Marshal(*v.Text)
		}
	case ValueKindInteger:
		if v.Int != nil {
			return []byte(strconv.FormatInt(*v.Int, 10)), nil
		}
	}
	return []byte("null"), nil
}

// UnmarshalJSON infers the kind from the JSON token. Strings stay strings
// until Conform turns them into dates for date questions.
func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*v = AnswerValue{}
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	switch trimmed[0] {
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return err
		}
		*v = BoolValue(b)
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = StringValue(s)
	default:
		i, err := strconv.ParseInt(string(trimmed), 10, 64)
		if err != nil {
			return ErrValueNotInteger
		}
		*v = IntValue(i)
	}
	return nil
}

// Conform checks the value against an input type and returns its canonical
// form for that type. It is the only place where raw answers are interpreted.
func (v AnswerValue) Conform(inputType InputType) (AnswerValue, error) {
	if v.IsZero() {
		return v, nil
	}

	switch inputType {
	case InputTypeBoolean:
		if v.Kind != ValueKindBoolean || v.Bool == nil {
			return AnswerValue{}, fmt.Errorf("%w: expected boolean, got %s", ErrValueKindMismatch, v.Kind)
		}
		return v, nil
	case InputTypeSelect:
		if v.Kind != ValueKindString || v.Text == nil {
			return AnswerValue{}, fmt.Errorf("%w: expected string, got %s", ErrValueKindMismatch, v.Kind)
		}
		return v, nil
	case InputTypeScale03:
		if v.Kind != ValueKindInteger || v.Int == nil {
			return AnswerValue{}, fmt.Errorf("%w: expected integer, got %s", ErrValueKindMismatch, v.Kind)
		}
		if *v.Int < 0 || *v.Int > 3 {
			return AnswerValue{}, fmt.Errorf("%w: scale_0_3 accepts 0 to 3, got %d", ErrValueOutOfRange, *v.Int)
		}
		return v, nil
	case InputTypeInteger:
		if v.Kind != ValueKindInteger || v.Int == nil {
			return AnswerValue{}, fmt.Errorf("%w: expected integer, got %s", ErrValueKindMismatch, v.Kind)
		}
		return v, nil
	case InputTypeDate:
		if (v.Kind != ValueKindString && v.Kind != ValueKindDate) || v.Text == nil {
			return AnswerValue{}, fmt.Errorf("%w: expected date, got %s", ErrValueKindMismatch, v.Kind)
		}
		parsed, err := time.Parse(DateLayout, *v.Text)
		if err != nil {
			return AnswerValue{}, fmt.Errorf("%w: date must use the %s layout", ErrValueKindMismatch, DateLayout)
		}
		return DateValue(parsed), nil
	}
	return AnswerValue{}, fmt.Errorf("%w: unknown input type %q", ErrValueKindMismatch, inputType)
}
