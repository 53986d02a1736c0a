package types

import (
	"fmt"
	"strings"
)

// Code identifies the kind of a diagnostic message. Codes are stable and
// may be relied upon by embedding applications.
type Code string

// Message codes.
const (
	// Fatal parse errors
	CodeLexicalError Code = "LEXICAL_ERROR"
	CodeSyntaxError  Code = "SYNTAX_ERROR"

	// Semantic errors
	CodeUndefinedOperator     Code = "UNDEFINED_OPERATOR"
	CodeUndefinedIdentifier   Code = "UNDEFINED_IDENTIFIER"
	CodeUndefinedFunction     Code = "UNDEFINED_FUNCTION"
	CodeWrongArgumentTypes    Code = "WRONG_ARGUMENT_TYPES"
	CodeAmbiguousFunctionCall Code = "AMBIGUOUS_FUNCTION_CALL"
)

// Severity classifies a message.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Message is a structured diagnostic produced while compiling an expression.
type Message struct {
	Code     Code
	Severity Severity
	Text     string
	Position int // byte offset in the source, -1 if unknown
	Token    string
}

// NewError creates an ERROR-severity message.
func NewError(code Code, text string, position int) *Message {
	return &Message{
		Code:     code,
		Severity: SeverityError,
		Text:     text,
		Position: position,
	}
}

// Error implements the error interface.
func (m *Message) Error() string {
	if m.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", m.Code, m.Position, m.Text)
	}
	return fmt.Sprintf("%s: %s", m.Code, m.Text)
}

// WithToken adds token information to the message.
func (m *Message) WithToken(token string) *Message {
	m.Token = token
	return m
}

// MessageList is an ordered, append-only list of messages.
// The zero value is an empty list.
type MessageList struct {
	msgs []*Message
}

// Add appends msg to the list.
func (l *MessageList) Add(msg *Message) {
	l.msgs = append(l.msgs, msg)
}

// AddAll appends all messages of other, keeping their order.
func (l *MessageList) AddAll(other MessageList) {
	l.msgs = append(l.msgs, other.msgs...)
}

// Len returns the number of messages.
func (l MessageList) Len() int {
	return len(l.msgs)
}

// At returns the i-th message.
func (l MessageList) At(i int) *Message {
	return l.msgs[i]
}

// All returns a copy of the messages.
func (l MessageList) All() []*Message {
	out := make([]*Message, len(l.msgs))
	copy(out, l.msgs)
	return out
}

// Codes returns the message codes in list order.
func (l MessageList) Codes() []Code {
	codes := make([]Code, len(l.msgs))
	for i, m := range l.msgs {
		codes[i] = m.Code
	}
	return codes
}

// ContainsErrorMsg reports whether at least one message has ERROR severity.
func (l MessageList) ContainsErrorMsg() bool {
	return l.Severity() == SeverityError
}

// Severity returns the highest severity in the list, SeverityInfo when empty.
func (l MessageList) Severity() Severity {
	sev := SeverityInfo
	for _, m := range l.msgs {
		if m.Severity > sev {
			sev = m.Severity
		}
	}
	return sev
}

// Err returns the first ERROR-severity message as an error, or nil.
func (l MessageList) Err() error {
	for _, m := range l.msgs {
		if m.Severity == SeverityError {
			return m
		}
	}
	return nil
}

func (l MessageList) String() string {
	var sb strings.Builder
	for i, m := range l.msgs {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(m.Error())
	}
	return sb.String()
}
