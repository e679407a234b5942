package theory

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports a malformed chord token. Segment is the offending
// substring and Pos its byte offset within the token. No partial spec
// is ever returned alongside one.
type ParseError struct {
	Token   string
	Segment string
	Pos     int
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %s %q at position %d", e.Token, e.Reason, e.Segment, e.Pos)
}

// ParseChord parses one chord token, e.g. "V:b7", "iii-:7/5~ii" or
// "I%1>1". The grammar, left to right:
//
//	roman [alter] [quality] [":" ext-list] [inversion] [octave-shift] ["~" roman [alter]]
//
// where roman is built from {I,V,i,v}, alter is "#" or "b", quality is
// one of "+-^_5", ext-list is comma-separated altered degrees,
// inversion is "/" plus a bass degree or "%" plus a count, and
// octave-shift is ">" or "<" plus a count.
func ParseChord(token string) (ChordSpec, error) {
	p := chordParser{s: token}

	numeral, pos := p.takeWhile(isRoman)
	if numeral == "" {
		return ChordSpec{}, p.errAt(pos, "unrecognized roman numeral")
	}
	degree, mode, ok := parseNumeral(numeral)
	if !ok {
		return ChordSpec{}, &ParseError{Token: token, Segment: numeral, Pos: pos, Reason: "invalid roman numeral"}
	}

	cs := NewChordSpec(degree, mode)
	cs.Root.Adj = p.takeAccidentals()

	switch p.peek() {
	case '+':
		cs.Triad = TriadAugmented
		p.pos++
	case '-':
		cs.Triad = TriadDiminished
		p.pos++
	case '^':
		cs.Triad = TriadSus4
		p.pos++
	case '_':
		cs.Triad = TriadSus2
		p.pos++
	case '5':
		cs.Triad = TriadPower
		p.pos++
	}

	if p.peek() == ':' {
		p.pos++
		for {
			ext, err := p.takeDegree("invalid extension")
			if err != nil {
				return ChordSpec{}, err
			}
			cs.Extensions = append(cs.Extensions, ext)
			if p.peek() != ',' {
				break
			}
			p.pos++
		}
	}

	switch p.peek() {
	case '/':
		p.pos++
		bass, err := p.takeDegree("invalid bass degree")
		if err != nil {
			return ChordSpec{}, err
		}
		cs.BassDegree = &bass
	case '%':
		p.pos++
		n, err := p.takeNumber("invalid inversion count")
		if err != nil {
			return ChordSpec{}, err
		}
		cs.Inversion = n
	}

	for p.peek() == '>' || p.peek() == '<' {
		down := p.peek() == '<'
		p.pos++
		n, err := p.takeNumber("invalid octave shift")
		if err != nil {
			return ChordSpec{}, err
		}
		if down {
			n = -n
		}
		cs = cs.Shift(n)
	}

	if p.peek() == '~' {
		p.pos++
		rel, pos := p.takeWhile(isRoman)
		if rel == "" {
			return ChordSpec{}, p.errAt(pos, "invalid relative key")
		}
		relDegree, relMode, ok := parseNumeral(rel)
		if !ok {
			return ChordSpec{}, &ParseError{Token: token, Segment: rel, Pos: pos, Reason: "invalid relative key"}
		}
		cs.RelKey = &RelKey{Degree: relDegree, Mode: relMode, Adj: p.takeAccidentals()}
	}

	if !p.eof() {
		return ChordSpec{}, p.errAt(p.pos, "invalid segment")
	}
	return cs, nil
}

// MustParseChord is ParseChord for known-good literals.
func MustParseChord(token string) ChordSpec {
	cs, err := ParseChord(token)
	if err != nil {
		panic(err)
	}
	return cs
}

// ParseProgression parses a whitespace-delimited sequence of chord
// tokens. The first malformed token aborts the whole parse.
func ParseProgression(line string) ([]ChordSpec, error) {
	var out []ChordSpec
	for _, token := range strings.Fields(line) {
		cs, err := ParseChord(token)
		if err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, nil
}

// parseNumeral maps a roman numeral to a 1-indexed degree and a mode
// from its case. Mixed case is rejected.
func parseNumeral(numeral string) (int, Mode, bool) {
	upper := numeral == strings.ToUpper(numeral)
	lower := numeral == strings.ToLower(numeral)
	if !upper && !lower {
		return 0, Major, false
	}
	mode := Major
	if lower {
		mode = Minor
	}
	for i, n := range Numerals {
		if n == strings.ToUpper(numeral) {
			return i + 1, mode, true
		}
	}
	return 0, Major, false
}

type chordParser struct {
	s   string
	pos int
}

func (p *chordParser) eof() bool {
	return p.pos >= len(p.s)
}

// peek returns the next byte, or 0 at end of input.
func (p *chordParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.s[p.pos]
}

func (p *chordParser) takeWhile(pred func(byte) bool) (string, int) {
	start := p.pos
	for !p.eof() && pred(p.s[p.pos]) {
		p.pos++
	}
	return p.s[start:p.pos], start
}

func (p *chordParser) takeAccidentals() int {
	adj := 0
	for {
		switch p.peek() {
		case '#':
			adj++
		case 'b':
			adj--
		default:
			return adj
		}
		p.pos++
	}
}

// takeDegree consumes an altered degree like "b7" or "#9".
func (p *chordParser) takeDegree(reason string) (Degree, error) {
	start := p.pos
	adj := p.takeAccidentals()
	digits, _ := p.takeWhile(isDigit)
	if digits == "" {
		return Degree{}, p.errFrom(start, reason)
	}
	deg, err := strconv.Atoi(digits)
	if err != nil {
		return Degree{}, p.errFrom(start, reason)
	}
	return Degree{Degree: deg, Adj: adj}, nil
}

func (p *chordParser) takeNumber(reason string) (int, error) {
	start := p.pos
	digits, _ := p.takeWhile(isDigit)
	if digits == "" {
		return 0, p.errFrom(start, reason)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, p.errFrom(start, reason)
	}
	return n, nil
}

// errAt reports unexpected input starting at pos. The segment runs up
// to the next structural delimiter so the message points at the
// smallest offending chunk.
func (p *chordParser) errAt(pos int, reason string) *ParseError {
	end := pos
	for end < len(p.s) && !isDelimiter(p.s[end]) {
		end++
	}
	if end == pos && end < len(p.s) {
		end++
	}
	return &ParseError{Token: p.s, Segment: p.s[pos:end], Pos: pos, Reason: reason}
}

func (p *chordParser) errFrom(start int, reason string) *ParseError {
	end := p.pos
	for end < len(p.s) && !isDelimiter(p.s[end]) {
		end++
	}
	return &ParseError{Token: p.s, Segment: p.s[start:end], Pos: start, Reason: reason}
}

func isRoman(c byte) bool {
	return c == 'I' || c == 'V' || c == 'i' || c == 'v'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isDelimiter(c byte) bool {
	switch c {
	case ':', ',', '/', '%', '<', '>', '~':
		return true
	}
	return false
}
