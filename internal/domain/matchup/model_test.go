package matchup

import "testing"

func TestDecideWinner(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		a, b float64
		want string
	}{
		{name: "a wins", a: 101.5, b: 99.25, want: "Alice"},
		{name: "b wins", a: 80, b: 80.01, want: "Bob"},
		{name: "exact tie", a: 95.5, b: 95.5, want: Tie},
		{name: "zero tie", a: 0, b: 0, want: Tie},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := DecideWinner("Alice", tc.a, "Bob", tc.b); got != tc.want {
				t.Fatalf("DecideWinner=%q want=%q", got, tc.want)
			}
		})
	}
}

func TestMatchup_Involves(t *testing.T) {
	t.Parallel()

	m := New(2016, 1, "Alice", 100, "Bob", 90)
	if !m.Involves("Bob", "Alice") || !m.Involves("Alice", "Bob") {
		t.Fatalf("expected matchup to involve both managers in either order")
	}
	if m.Involves("Alice", "Carol") {
		t.Fatalf("unexpected involvement of Carol")
	}
	if pts, ok := m.PointsFor("Bob"); !ok || pts != 90 {
		t.Fatalf("PointsFor(Bob)=%v,%v", pts, ok)
	}
}
