// errors.go — Closed set of failure kinds shared by the composer and the batch.
package card

import "fmt"

// Kind classifies a failure by how far it propagates.
type Kind int

const (
	KindUnknown           Kind = iota
	KindTemplateMissing        // aborts the whole batch
	KindRecordInvalid          // skips one record
	KindPhotoUnresolvable      // card renders without a photo
)

func (k Kind) String() string {
	switch k {
	case KindTemplateMissing:
		return "TemplateMissing"
	case KindRecordInvalid:
		return "RecordInvalid"
	case KindPhotoUnresolvable:
		return "PhotoUnresolvable"
	default:
		return "Unknown"
	}
}

// Error carries a kind plus the row or reference it concerns.
type Error struct {
	Kind Kind
	Row  int    // 0 when not tied to a record
	Ref  string // template path or photo reference
	Err  error
}

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrTemplateMissing   = &Error{Kind: KindTemplateMissing}
	ErrRecordInvalid     = &Error{Kind: KindRecordInvalid}
	ErrPhotoUnresolvable = &Error{Kind: KindPhotoUnresolvable}
)

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Row > 0 {
		msg = fmt.Sprintf("%s: row %d", msg, e.Row)
	}
	if e.Ref != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Ref)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}
