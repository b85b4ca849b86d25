package fuzzy

// MembershipFunc maps a crisp value to a membership degree in [0, 1]
type MembershipFunc func(x float64) float64

// Trimf creates a triangular membership function with feet at a and c and
// peak at b. Degenerate segments (a == b or b == c) become vertical edges.
func Trimf(a, b, c float64) MembershipFunc {
	return func(x float64) float64 {
		if x < a || x > c {
			return 0
		}
		if x < b {
			if b == a {
				return 1
			}
			return (x - a) / (b - a)
		}
		if x > b {
			if c == b {
				return 1
			}
			return (c - x) / (c - b)
		}
		return 1
	}
}

// Trapmf creates a trapezoidal membership function with feet at a and d and
// plateau between b and c
func Trapmf(a, b, c, d float64) MembershipFunc {
	return func(x float64) float64 {
		switch {
		case x < a || x > d:
			return 0
		case x >= b && x <= c:
			return 1
		case x < b:
			if b == a {
				return 1
			}
			return (x - a) / (b - a)
		default: // c < x <= d
			if d == c {
				return 1
			}
			return (d - x) / (d - c)
		}
	}
}
