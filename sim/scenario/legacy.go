package scenario

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inference-sim/restaurant-sim/sim"
)

// ParseLegacy reads the whitespace-separated text format:
//
//	N G V          cook counts: normal, vegan, VIP
//	SN SG SV       cook speeds per type
//	BO BN BG BV    orders before a break, break durations per type
//	[AutoP]        optional auto-promotion threshold in ticks
//	M              number of events
//	R <N|G|V> ts id size money
//	X ts id
//	P ts id bonus
//
// AutoP is present when the integer after the break line is followed by
// another integer. Without it auto-promotion stays disabled.
func ParseLegacy(r io.Reader) (*Scenario, error) {
	t := newTokenizer(r)

	header := make([]int64, 10)
	names := []string{"N", "G", "V", "SN", "SG", "SV", "BO", "BN", "BG", "BV"}
	for i := range header {
		v, err := t.integer(names[i])
		if err != nil {
			return nil, err
		}
		if v < 0 {
			return nil, fmt.Errorf("line %d: %s must be >= 0, got %d", t.line, names[i], v)
		}
		header[i] = v
	}

	s := &Scenario{
		Roster: sim.RosterConfig{
			Normal: sim.CookSpec{Count: int(header[0]), Speed: int(header[3]), BreakDuration: header[7]},
			Vegan:  sim.CookSpec{Count: int(header[1]), Speed: int(header[4]), BreakDuration: header[8]},
			VIP:    sim.CookSpec{Count: int(header[2]), Speed: int(header[5]), BreakDuration: header[9]},
		},
		BreakAfter: int(header[6]),
	}

	count, err := t.integer("M")
	if err != nil {
		return nil, err
	}
	if next, ok := t.peek(); ok && isInteger(next) {
		autoP := count
		s.AutoPromoteAfter = &autoP
		if count, err = t.integer("M"); err != nil {
			return nil, err
		}
	}
	if count < 0 {
		return nil, fmt.Errorf("line %d: M must be >= 0, got %d", t.line, count)
	}

	for i := int64(1); i <= count; i++ {
		spec, err := t.event()
		if err != nil {
			return nil, fmt.Errorf("event %d of %d: %w", i, count, err)
		}
		s.Events = append(s.Events, spec)
	}
	if tok, ok := t.peek(); ok {
		return nil, fmt.Errorf("line %d: unexpected %q after %d events", t.line, tok, count)
	}
	if err := t.err(); err != nil {
		return nil, err
	}
	return s, nil
}

func isInteger(tok string) bool {
	_, err := strconv.ParseInt(tok, 10, 64)
	return err == nil
}

// tokenizer splits input into whitespace-separated words and tracks lines
// for error messages.
type tokenizer struct {
	lines  *bufio.Scanner
	words  []string
	line   int
	failed error
}

func newTokenizer(r io.Reader) *tokenizer {
	return &tokenizer{lines: bufio.NewScanner(r)}
}

func (t *tokenizer) fill() bool {
	for len(t.words) == 0 {
		if !t.lines.Scan() {
			t.failed = t.lines.Err()
			return false
		}
		t.line++
		t.words = strings.Fields(t.lines.Text())
	}
	return true
}

func (t *tokenizer) peek() (string, bool) {
	if !t.fill() {
		return "", false
	}
	return t.words[0], true
}

func (t *tokenizer) next(what string) (string, error) {
	if !t.fill() {
		if t.failed != nil {
			return "", fmt.Errorf("reading %s: %w", what, t.failed)
		}
		return "", fmt.Errorf("unexpected end of input, expected %s", what)
	}
	tok := t.words[0]
	t.words = t.words[1:]
	return tok, nil
}

func (t *tokenizer) integer(what string) (int64, error) {
	tok, err := t.next(what)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: %s must be an integer, got %q", t.line, what, tok)
	}
	return v, nil
}

func (t *tokenizer) number(what string) (float64, error) {
	tok, err := t.next(what)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: %s must be a number, got %q", t.line, what, tok)
	}
	return v, nil
}

func (t *tokenizer) event() (EventSpec, error) {
	letter, err := t.next("event letter")
	if err != nil {
		return EventSpec{}, err
	}
	var spec EventSpec
	switch letter {
	case "R":
		spec.Kind = "arrival"
		if spec.Type, err = t.next("order type"); err != nil {
			return spec, err
		}
		if _, err := sim.ParseOrderType(spec.Type); err != nil || len(spec.Type) != 1 {
			return spec, fmt.Errorf("line %d: order type must be N, G or V, got %q", t.line, spec.Type)
		}
	case "X":
		spec.Kind = "cancel"
	case "P":
		spec.Kind = "promote"
	default:
		return spec, fmt.Errorf("line %d: unknown event letter %q", t.line, letter)
	}
	if spec.Time, err = t.integer("timestamp"); err != nil {
		return spec, err
	}
	id, err := t.integer("order id")
	if err != nil {
		return spec, err
	}
	spec.ID = int(id)
	switch spec.Kind {
	case "arrival":
		size, err := t.integer("size")
		if err != nil {
			return spec, err
		}
		spec.Size = int(size)
		if spec.Money, err = t.number("money"); err != nil {
			return spec, err
		}
	case "promote":
		if spec.Bonus, err = t.number("bonus"); err != nil {
			return spec, err
		}
	}
	return spec, nil
}

func (t *tokenizer) err() error { return t.failed }

// WriteLegacy encodes the roster, constants and explicit events in the
// legacy text format. Fields the format cannot carry are dropped.
func (s *Scenario) WriteLegacy(w io.Writer) error {
	bw := bufio.NewWriter(w)
	r := s.Roster
	fmt.Fprintf(bw, "%d %d %d\n", r.Normal.Count, r.Vegan.Count, r.VIP.Count)
	fmt.Fprintf(bw, "%d %d %d\n", r.Normal.Speed, r.Vegan.Speed, r.VIP.Speed)
	fmt.Fprintf(bw, "%d %d %d %d\n", s.BreakAfter, r.Normal.BreakDuration, r.Vegan.BreakDuration, r.VIP.BreakDuration)
	if s.AutoPromoteAfter != nil && *s.AutoPromoteAfter >= 0 {
		fmt.Fprintf(bw, "%d\n", *s.AutoPromoteAfter)
	}
	fmt.Fprintf(bw, "%d\n", len(s.Events))
	for i, spec := range s.Events {
		ev, err := spec.Event()
		if err != nil {
			return fmt.Errorf("event %d: %w", i+1, err)
		}
		switch ev.Kind {
		case sim.EventArrival:
			fmt.Fprintf(bw, "R %s %d %d %d %s\n", ev.OrderType.Letter(), ev.Time, ev.OrderID, ev.Size, formatNumber(ev.Money))
		case sim.EventCancellation:
			fmt.Fprintf(bw, "X %d %d\n", ev.Time, ev.OrderID)
		case sim.EventPromotion:
			fmt.Fprintf(bw, "P %d %d %s\n", ev.Time, ev.OrderID, formatNumber(ev.Bonus))
		}
	}
	return bw.Flush()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
