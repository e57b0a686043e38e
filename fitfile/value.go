package fitfile

// ValueKind discriminates the decoded shapes a field can take.
type ValueKind int

const (
	KindAbsent ValueKind = iota
	KindScalar
	KindReal
	KindSequence
	KindText
)

// Value is a decoded field payload. A field decodes to exactly one of:
// an integer scalar, a floating scalar, an ordered integer sequence, a
// string, or nothing at all (undecodable shape or failed read).
type Value struct {
	kind ValueKind
	num  int64
	real float64
	seq  []int64
	text string
}

// Constructors for each shape; the decoder produces these and tests or
// synthetic sources may too.
func AbsentValue() Value { return Value{kind: KindAbsent} }

func ScalarValue(v int64) Value { return Value{kind: KindScalar, num: v} }

func RealValue(v float64) Value { return Value{kind: KindReal, real: v} }

func SequenceValue(vs []int64) Value { return Value{kind: KindSequence, seq: vs} }

func TextValue(s string) Value { return Value{kind: KindText, text: s} }

// Kind reports which shape the value carries.
func (v Value) Kind() ValueKind { return v.kind }

// Absent reports whether the field decoded to nothing.
func (v Value) Absent() bool { return v.kind == KindAbsent }

// Int returns the integer scalar, if that is what the field holds.
func (v Value) Int() (int64, bool) {
	if v.kind != KindScalar {
		return 0, false
	}
	return v.num, true
}

// Float returns the floating scalar, if that is what the field holds.
func (v Value) Float() (float64, bool) {
	if v.kind != KindReal {
		return 0, false
	}
	return v.real, true
}

// Seq returns the ordered integer sequence, if that is what the field holds.
func (v Value) Seq() ([]int64, bool) {
	if v.kind != KindSequence {
		return nil, false
	}
	return v.seq, true
}

// Text returns the decoded string, if that is what the field holds.
func (v Value) Text() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.text, true
}
