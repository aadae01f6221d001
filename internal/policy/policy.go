// internal/policy/policy.go
package policy

import "fmt"

// Policy decides what happens when a record trips a check (invalid
// sequence, duplicate header, duplicate sequence).
type Policy uint8

const (
	// Ignore keeps the record; the condition is only counted.
	Ignore Policy = iota
	// Remove drops the record, keeping the earliest-indexed occurrence.
	Remove
	// Fail aborts the whole run on the first occurrence.
	Fail
)

func (p Policy) String() string {
	switch p {
	case Ignore:
		return "ignore"
	case Remove:
		return "remove"
	case Fail:
		return "fail"
	}
	return fmt.Sprintf("policy(%d)", uint8(p))
}

// Parse maps a CLI flag value to a Policy. "error" is accepted as an
// alias of "fail".
func Parse(s string) (Policy, error) {
	switch s {
	case "ignore":
		return Ignore, nil
	case "remove":
		return Remove, nil
	case "fail", "error":
		return Fail, nil
	}
	return Ignore, fmt.Errorf("invalid policy %q (want ignore | remove | fail)", s)
}

// ParseInvalidAction maps the --invalid-sequence flag value to a Policy
// plus a convert switch. The convert-* forms rewrite sequences through
// the correction table before the policy is applied.
func ParseInvalidAction(s string) (Policy, bool, error) {
	switch s {
	case "ignore":
		return Ignore, false, nil
	case "remove":
		return Remove, false, nil
	case "fail", "error":
		return Fail, false, nil
	case "convert":
		return Fail, true, nil
	case "convert-ignore":
		return Ignore, true, nil
	case "convert-remove":
		return Remove, true, nil
	}
	return Ignore, false, fmt.Errorf("invalid --invalid-sequence %q (want ignore | remove | fail | convert | convert-ignore | convert-remove)", s)
}
