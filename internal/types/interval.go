package types

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Unit is an interval unit.
type Unit int

const (
	Micros Unit = iota
	Millis
	Seconds
	Minutes
	Hours
	Days
	Weeks
	Months
	Quarters
	Years
	Decades
	Centuries
	Millennia
)

var unitNames = [...]string{
	Micros:    "MICROS",
	Millis:    "MILLIS",
	Seconds:   "SECONDS",
	Minutes:   "MINUTES",
	Hours:     "HOURS",
	Days:      "DAYS",
	Weeks:     "WEEKS",
	Months:    "MONTHS",
	Quarters:  "QUARTERS",
	Years:     "YEARS",
	Decades:   "DECADES",
	Centuries: "CENTURIES",
	Millennia: "MILLENNIA",
}

func (u Unit) String() string {
	if u < 0 || int(u) >= len(unitNames) {
		return fmt.Sprintf("Unit(%d)", int(u))
	}
	return unitNames[u]
}

// fallback returns the next smaller unit u can be expressed in exactly.
func (u Unit) fallback() (Unit, int64, bool) {
	switch u {
	case Millis:
		return Micros, 1000, true
	case Seconds:
		return Micros, 1000000, true
	case Minutes:
		return Seconds, 60, true
	case Hours:
		return Minutes, 60, true
	case Weeks:
		return Days, 7, true
	case Quarters:
		return Months, 3, true
	case Years:
		return Months, 12, true
	case Decades:
		return Years, 10, true
	case Centuries:
		return Years, 100, true
	case Millennia:
		return Years, 1000, true
	}
	return u, 0, false
}

// Part is one component of an interval.
type Part struct {
	Amount int64
	Unit   Unit
}

// ErrUnitUnsupported is returned when no exact conversion reaches a
// supported unit.
var ErrUnitUnsupported = errors.New("interval unit not supported")

// Interval is a signed multi-unit duration such as 1 day 2 hours.
type Interval struct {
	ident
	Parts []Part
}

func NewInterval(parts ...Part) *Interval {
	return &Interval{ident: newIdent(), Parts: parts}
}

// Normalize rewrites the parts into units accepted by native, combining
// parts that land on the same unit. The result is ordered from the largest
// unit down and omits zero amounts.
func (iv *Interval) Normalize(native func(Unit) bool) ([]Part, error) {
	sums := map[Unit]int64{}
	for _, p := range iv.Parts {
		u, amount := p.Unit, p.Amount
		for !native(u) {
			next, mul, ok := u.fallback()
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnitUnsupported, u)
			}
			u, amount = next, amount*mul
		}
		sums[u] += amount
	}
	out := make([]Part, 0, len(sums))
	for u, a := range sums {
		if a != 0 {
			out = append(out, Part{Amount: a, Unit: u})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Unit > out[j].Unit })
	return out, nil
}

// Negate returns the interval with every amount sign-flipped.
func (iv *Interval) Negate() *Interval {
	parts := make([]Part, len(iv.Parts))
	for i, p := range iv.Parts {
		parts[i] = Part{Amount: -p.Amount, Unit: p.Unit}
	}
	return NewInterval(parts...)
}

// addTo shifts t by the interval. Calendar units go through AddDate.
func (iv *Interval) addTo(t time.Time) time.Time {
	var years, months, days int64
	var d time.Duration
	for _, p := range iv.Parts {
		switch p.Unit {
		case Micros:
			d += time.Duration(p.Amount) * time.Microsecond
		case Millis:
			d += time.Duration(p.Amount) * time.Millisecond
		case Seconds:
			d += time.Duration(p.Amount) * time.Second
		case Minutes:
			d += time.Duration(p.Amount) * time.Minute
		case Hours:
			d += time.Duration(p.Amount) * time.Hour
		case Days:
			days += p.Amount
		case Weeks:
			days += 7 * p.Amount
		case Months:
			months += p.Amount
		case Quarters:
			months += 3 * p.Amount
		case Years:
			years += p.Amount
		case Decades:
			years += 10 * p.Amount
		case Centuries:
			years += 100 * p.Amount
		case Millennia:
			years += 1000 * p.Amount
		}
	}
	return t.AddDate(int(years), int(months), int(days)).Add(d)
}

// clock returns the sub-day part of the interval, or false if it carries
// calendar units.
func (iv *Interval) clock() (time.Duration, bool) {
	var d time.Duration
	for _, p := range iv.Parts {
		switch p.Unit {
		case Micros:
			d += time.Duration(p.Amount) * time.Microsecond
		case Millis:
			d += time.Duration(p.Amount) * time.Millisecond
		case Seconds:
			d += time.Duration(p.Amount) * time.Second
		case Minutes:
			d += time.Duration(p.Amount) * time.Minute
		case Hours:
			d += time.Duration(p.Amount) * time.Hour
		default:
			return 0, false
		}
	}
	return d, true
}

// DateArith adds an interval to a temporal expression, or subtracts it.
type DateArith struct {
	ident
	Base     Expr
	Interval *Interval
	Subtract bool
}

func NewDateArith(base Expr, iv *Interval, subtract bool) *DateArith {
	return &DateArith{ident: newIdent(), Base: base, Interval: iv, Subtract: subtract}
}

// Signed returns the interval with the subtraction folded into its amounts.
func (d *DateArith) Signed() *Interval {
	if d.Subtract {
		return d.Interval.Negate()
	}
	return d.Interval
}

func (d *DateArith) Type() Type {
	return d.Base.Type()
}

func (d *DateArith) Evaluate(v Visited) any {
	return v.guard(d.h, func() any {
		iv := d.Signed()
		switch x := d.Base.Evaluate(v).(type) {
		case time.Time:
			out := iv.addTo(x)
			if d.Base.Type().Kind == KindDate {
				y, m, dd := out.Date()
				out = time.Date(y, m, dd, 0, 0, 0, 0, out.Location())
			}
			return out
		case time.Duration:
			shift, ok := iv.clock()
			if !ok {
				return nil
			}
			return x + shift
		}
		return nil
	})
}

func (*Interval) node()  {}
func (*DateArith) node() {}
func (*DateArith) expr() {}
