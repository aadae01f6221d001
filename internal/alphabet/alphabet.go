// internal/alphabet/alphabet.go

// Package alphabet defines the accepted amino-acid character sets and
// the correction tables used to rewrite near-valid sequences.
package alphabet

// canonical is the 20 standard amino-acid letters.
const canonical = "ACDEFGHIKLMNPQRSTVWY"

// Gap is the placeholder character accepted in alignment mode.
const Gap = '-'

// Alphabet is a set of accepted sequence characters.
type Alphabet struct {
	set  map[rune]bool
	name string
}

// Canonical returns the default alphabet: the 20 standard amino acids,
// uppercase.
func Canonical() Alphabet {
	return fromString(canonical, "canonical")
}

// Alignment returns the canonical alphabet plus the gap character.
func Alignment() Alphabet {
	return fromString(canonical+string(Gap), "alignment")
}

func fromString(chars, name string) Alphabet {
	set := make(map[rune]bool, len(chars))
	for _, r := range chars {
		set[r] = true
	}
	return Alphabet{set: set, name: name}
}

// With returns a copy of a that additionally accepts every character in
// extra (ambiguity or placeholder codes).
func (a Alphabet) With(extra string) Alphabet {
	if extra == "" {
		return a
	}
	set := make(map[rune]bool, len(a.set)+len(extra))
	for r := range a.set {
		set[r] = true
	}
	for _, r := range extra {
		set[r] = true
	}
	return Alphabet{set: set, name: a.name + "+extra"}
}

// Contains reports whether r is an accepted character.
func (a Alphabet) Contains(r rune) bool { return a.set[r] }

// Check returns the first character of seq not in the alphabet.
// ok is true when the whole sequence is valid.
func (a Alphabet) Check(seq string) (bad rune, ok bool) {
	for _, r := range seq {
		if !a.set[r] {
			return r, false
		}
	}
	return 0, true
}

func (a Alphabet) String() string { return a.name }

// StandardConversion maps common non-canonical codes to their usual
// stand-ins; asterisks and gaps are deleted.
func StandardConversion() map[rune]string {
	return map[rune]string{
		'B': "N",
		'U': "C",
		'X': "G",
		'Z': "Q",
		'*': "",
		'-': "",
	}
}

// AlignmentConversion is StandardConversion for aligned input: gaps are
// kept and stray spaces are deleted instead.
func AlignmentConversion() map[rune]string {
	return map[rune]string{
		'B': "N",
		'U': "C",
		'X': "G",
		'Z': "Q",
		' ': "",
		'*': "",
	}
}

// Convert rewrites seq through table. Characters absent from the table
// pass through unchanged. The second return is true when the sequence
// changed.
func Convert(seq string, table map[rune]string) (string, bool) {
	changed := false
	var out []rune
	for i, r := range seq {
		rep, hit := table[r]
		if !hit {
			if changed {
				out = append(out, r)
			}
			continue
		}
		if !changed {
			changed = true
			out = make([]rune, 0, len(seq))
			out = append(out, []rune(seq[:i])...)
		}
		out = append(out, []rune(rep)...)
	}
	if !changed {
		return seq, false
	}
	return string(out), true
}
