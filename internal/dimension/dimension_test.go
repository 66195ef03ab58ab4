package dimension

import "testing"

func TestMulAssociativeAndCommutative(t *testing.T) {
	m, _ := FromUnitName("meter")
	s, _ := FromUnitName("second")
	kg, _ := FromUnitName("kilogram")

	left := Mul(Mul(m, s), kg)
	right := Mul(m, Mul(s, kg))
	if !Eq(left, right) {
		t.Fatalf("mul not associative: %+v vs %+v", left, right)
	}

	if !Eq(Mul(m, s), Mul(s, m)) {
		t.Fatalf("mul not commutative")
	}
}

func TestMulByScalarOneIsIdentity(t *testing.T) {
	m, _ := FromUnitName("meter")
	got := Mul(m, Scalar(1))
	if !Eq(got, m) {
		t.Fatalf("mul(D, 1/1) != D: got %+v want %+v", got, m)
	}
}

func TestLiteralMultiplication(t *testing.T) {
	// `auto x = meters_value * 100;` from spec §8(d)
	m, _ := FromUnitName("meter")
	lit := Scalar(100)
	got := Mul(m, lit)
	want := Dimension{Coefficients: m.Coefficients, Num: 100, Den: 1}
	if !Eq(got, want) {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestDivInverse(t *testing.T) {
	m, _ := FromUnitName("meter")
	s, _ := FromUnitName("second")
	mps := Div(m, s)
	back := Mul(mps, s)
	if !Eq(back, m) {
		t.Fatalf("div/mul roundtrip failed: got %+v want %+v", back, m)
	}
}

func TestFromUnitNameCompound(t *testing.T) {
	if _, ok := FromUnitName("meter/second"); !ok {
		t.Fatalf("expected meter/second to parse")
	}
	if _, ok := FromUnitName("meter^2"); !ok {
		t.Fatalf("expected meter^2 to parse")
	}
	if _, ok := FromUnitName("not-a-unit"); ok {
		t.Fatalf("expected unknown unit to fail")
	}
}

func TestCentimeterIsSmallerThanMeter(t *testing.T) {
	cm, ok := FromUnitName("centimeter")
	if !ok {
		t.Fatalf("expected centimeter to parse")
	}
	m, _ := FromUnitName("meter")
	// 1 centimeter should equal 1/100 meter once both are reduced to the
	// same base dimension.
	hundred := Mul(cm, Scalar(100))
	if !Eq(hundred, m) {
		t.Fatalf("100 centimeters should equal 1 meter: got %+v want %+v", hundred, m)
	}
}

func TestEqRequiresExactCoefficients(t *testing.T) {
	m, _ := FromUnitName("meter")
	s, _ := FromUnitName("second")
	if Eq(m, s) {
		t.Fatalf("meter should not equal second")
	}
}
