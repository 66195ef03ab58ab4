// Package dimension implements the physical-dimension value algebra: a
// vector of exponents over the seven SI base dimensions plus a rational
// scalar, closed under multiplication, division, and equality.
package dimension

import "strings"

// NumBaseDimensions is the fixed count of SI base dimensions tracked by a
// Dimension's coefficient vector (length, mass, time, current, temperature,
// amount of substance, luminous intensity), in that fixed order.
const NumBaseDimensions = 7

// Dimension is a physical dimension: a coefficient vector plus a rational
// scalar, always kept in lowest terms.
type Dimension struct {
	Coefficients [NumBaseDimensions]int
	Num          int
	Den          int
}

// Scalar returns a dimensionless value with scalar n/1 (no base-dimension
// exponents); Scalar(1) is the neutral element.
func Scalar(n int) Dimension {
	return reduce(Dimension{Num: n, Den: 1})
}

// IsScalarOne reports whether d has every coefficient zero and a 1/1 scalar.
func (d Dimension) IsScalarOne() bool {
	for _, c := range d.Coefficients {
		if c != 0 {
			return false
		}
	}
	return d.Num == 1 && d.Den == 1
}

// Mul adds coefficient vectors and multiplies scalars.
func Mul(a, b Dimension) Dimension {
	var out Dimension
	for i := range out.Coefficients {
		out.Coefficients[i] = a.Coefficients[i] + b.Coefficients[i]
	}
	out.Num = a.Num * b.Num
	out.Den = a.Den * b.Den
	return reduce(out)
}

// Div subtracts coefficient vectors and divides scalars.
func Div(a, b Dimension) Dimension {
	var out Dimension
	for i := range out.Coefficients {
		out.Coefficients[i] = a.Coefficients[i] - b.Coefficients[i]
	}
	out.Num = a.Num * b.Den
	out.Den = a.Den * b.Num
	return reduce(out)
}

// Eq requires exact coefficient match and rational equality of the scalar in
// lowest terms.
func Eq(a, b Dimension) bool {
	a, b = reduce(a), reduce(b)
	if a.Coefficients != b.Coefficients {
		return false
	}
	return a.Num == b.Num && a.Den == b.Den
}

func reduce(d Dimension) Dimension {
	if d.Den == 0 {
		d.Den = 1
	}
	if d.Den < 0 {
		d.Num, d.Den = -d.Num, -d.Den
	}
	if d.Num == 0 {
		d.Den = 1
		return d
	}
	g := gcd(abs(d.Num), abs(d.Den))
	if g > 1 {
		d.Num /= g
		d.Den /= g
	}
	return d
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// baseIndex names the fixed coefficient slots: length, mass, time, current,
// temperature, amount, luminous intensity.
const (
	idxLength = iota
	idxMass
	idxTime
	idxCurrent
	idxTemperature
	idxAmount
	idxLuminous
)

// knownUnits maps a human unit name to the coefficient slot of the base unit
// it denotes (FromUnitName sets that slot's exponent, scalar 1/1); -1 marks a
// dimensionless unit that sets no slot.
var knownUnits = map[string]int{
	"meter":    idxLength,
	"metre":    idxLength,
	"kilogram": idxMass,
	"gram":     idxMass,
	"second":   idxTime,
	"ampere":   idxCurrent,
	"kelvin":   idxTemperature,
	"mole":     idxAmount,
	"candela":  idxLuminous,
	"radian":   -1, // dimensionless angle, scalar 1/1, no coefficient set
	"degree":   -1,
	"percent":  -1,
	"none":     -1,
}

// FromUnitName parses a human unit name ("meter", "meter/second",
// "meter^2", "centimeter") into a Dimension via the known-unit table.
// Failure (an unrecognized leaf unit) yields ok=false rather than an error:
// per spec §4.1, "no dimension" is the degrade path, not a hard failure.
func FromUnitName(name string) (Dimension, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Dimension{}, false
	}
	if idx := strings.IndexByte(name, '/'); idx >= 0 {
		num, ok1 := FromUnitName(name[:idx])
		den, ok2 := FromUnitName(name[idx+1:])
		if !ok1 || !ok2 {
			return Dimension{}, false
		}
		return Div(num, den), true
	}

	base := name
	power := 1
	if idx := strings.IndexByte(name, '^'); idx >= 0 {
		base = name[:idx]
		var err error
		power, err = parsePower(name[idx+1:])
		if err != nil {
			return Dimension{}, false
		}
	}

	base, scaleNum, scaleDen := stripMetricPrefix(base)
	slot, ok := lookupBaseUnit(base)
	if !ok {
		return Dimension{}, false
	}

	d := Scalar(1)
	if slot >= 0 {
		d.Coefficients[slot] = power
	}
	for i := 0; i < power; i++ {
		d.Num *= scaleNum
		d.Den *= scaleDen
	}
	for i := 0; i > power; i-- {
		d.Num *= scaleDen
		d.Den *= scaleNum
	}
	return reduce(d), true
}

func lookupBaseUnit(base string) (int, bool) {
	base = strings.ToLower(base)
	if strings.HasSuffix(base, "s") {
		if slot, ok := knownUnits[strings.TrimSuffix(base, "s")]; ok {
			return slot, true
		}
	}
	slot, ok := knownUnits[base]
	return slot, ok
}

// stripMetricPrefix splits a recognized metric prefix off s and returns the
// remaining base-unit name plus the (num, den) scale factor such that
// 1 <prefixed unit> == (num/den) <base unit>.
func stripMetricPrefix(s string) (string, int, int) {
	s = strings.ToLower(s)
	switch {
	case strings.HasPrefix(s, "centi"):
		return strings.TrimPrefix(s, "centi"), 1, 100
	case strings.HasPrefix(s, "milli"):
		return strings.TrimPrefix(s, "milli"), 1, 1000
	case strings.HasPrefix(s, "kilo"):
		return strings.TrimPrefix(s, "kilo"), 1000, 1
	default:
		return s, 1, 1
	}
}

func parsePower(s string) (int, error) {
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, errNotANumber
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	return n, nil
}

var errNotANumber = &notANumberError{}

type notANumberError struct{}

func (*notANumberError) Error() string { return "dimension: not a number" }
