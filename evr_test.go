package depsolve

import "testing"

func TestCompareEVR(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.0-1", "1.0-1", 0},
		{"1.0-1", "2.0-1", -1},
		{"2.0-1", "1.0-1", 1},
		{"1:1.0-1", "2.0-1", 1}, // epoch dominates version
		{"1.0-1", "1.0-2", -1},
		{"1.2.3-1", "1.2.10-1", -1},
	}
	for _, c := range cases {
		got := sign(CompareEVR(ParseEVR(c.a), ParseEVR(c.b)))
		if got != c.want {
			t.Errorf("CompareEVR(%q, %q) sign = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}

func TestOpSatisfies(t *testing.T) {
	v1 := ParseEVR("1.0-1")
	v2 := ParseEVR("2.0-1")

	if !OpGE.Satisfies(v2, v1) {
		t.Errorf("2.0-1 >= 1.0-1 should be true")
	}
	if OpLT.Satisfies(v2, v1) {
		t.Errorf("2.0-1 < 1.0-1 should be false")
	}
	if !OpEQ.Satisfies(v1, v1) {
		t.Errorf("1.0-1 == 1.0-1 should be true")
	}
	if !OpAny.Satisfies(v1, v2) {
		t.Errorf("OpAny should always be satisfied")
	}
}
