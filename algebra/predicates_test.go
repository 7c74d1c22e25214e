package algebra

import "testing"

func TestIntersectsOverlapping(t *testing.T) {
	a := mustText(t, "POLYGON ((0 0,4 0,4 4,0 4,0 0))")
	b := mustText(t, "POLYGON ((2 2,6 2,6 6,2 6,2 2))")
	got, err := Intersects(a, b)
	if err != nil {
		t.Fatalf("Intersects error: %v", err)
	}
	if !got {
		t.Fatalf("Intersects = false, want true")
	}
}

func TestIntersectsDisjoint(t *testing.T) {
	a := mustText(t, "POLYGON ((0 0,1 0,1 1,0 1,0 0))")
	b := mustText(t, "POLYGON ((10 10,11 10,11 11,10 11,10 10))")
	got, err := Intersects(a, b)
	if err != nil {
		t.Fatalf("Intersects error: %v", err)
	}
	if got {
		t.Fatalf("Intersects = true, want false")
	}
}

func TestDisjointIsInverse(t *testing.T) {
	a := mustText(t, "POLYGON ((0 0,1 0,1 1,0 1,0 0))")
	b := mustText(t, "POLYGON ((10 10,11 10,11 11,10 11,10 10))")
	got, err := Disjoint(a, b)
	if err != nil {
		t.Fatalf("Disjoint error: %v", err)
	}
	if !got {
		t.Fatalf("Disjoint = false, want true")
	}
}

func TestContainsInteriorPoint(t *testing.T) {
	poly := mustText(t, "POLYGON ((0 0,4 0,4 4,0 4,0 0))")
	pt := mustText(t, "POINT (1 1)")
	got, err := Contains(poly, pt)
	if err != nil {
		t.Fatalf("Contains error: %v", err)
	}
	if !got {
		t.Fatalf("Contains = false, want true")
	}
}

func TestContainsOutsidePoint(t *testing.T) {
	poly := mustText(t, "POLYGON ((0 0,4 0,4 4,0 4,0 0))")
	pt := mustText(t, "POINT (10 10)")
	got, err := Contains(poly, pt)
	if err != nil {
		t.Fatalf("Contains error: %v", err)
	}
	if got {
		t.Fatalf("Contains = true, want false")
	}
}

func TestWithinIsConverseOfContains(t *testing.T) {
	poly := mustText(t, "POLYGON ((0 0,4 0,4 4,0 4,0 0))")
	pt := mustText(t, "POINT (1 1)")
	got, err := Within(pt, poly)
	if err != nil {
		t.Fatalf("Within error: %v", err)
	}
	if !got {
		t.Fatalf("Within = false, want true")
	}
}

func TestEqualsIgnoresRingStart(t *testing.T) {
	a := mustText(t, "POLYGON ((0 0,4 0,4 4,0 4,0 0))")
	b := mustText(t, "POLYGON ((4 4,0 4,0 0,4 0,4 4))")
	got, err := Equals(a, b)
	if err != nil {
		t.Fatalf("Equals error: %v", err)
	}
	if !got {
		t.Fatalf("Equals = false, want true for same polygon with rotated ring")
	}
}

func TestEqualsDifferentShapes(t *testing.T) {
	a := mustText(t, "POLYGON ((0 0,4 0,4 4,0 4,0 0))")
	b := mustText(t, "POLYGON ((0 0,1 0,1 1,0 1,0 0))")
	got, err := Equals(a, b)
	if err != nil {
		t.Fatalf("Equals error: %v", err)
	}
	if got {
		t.Fatalf("Equals = true, want false")
	}
}

func TestDWithin(t *testing.T) {
	a := mustText(t, "POINT (0 0)")
	b := mustText(t, "POINT (3 4)")
	got, err := DWithin(a, b, 5)
	if err != nil {
		t.Fatalf("DWithin error: %v", err)
	}
	if !got {
		t.Fatalf("DWithin(dist 5, threshold 5) = false, want true")
	}
	got, err = DWithin(a, b, 4)
	if err != nil {
		t.Fatalf("DWithin error: %v", err)
	}
	if got {
		t.Fatalf("DWithin(dist 5, threshold 4) = true, want false")
	}
}

func TestOverlapsPartialOverlap(t *testing.T) {
	a := mustText(t, "POLYGON ((0 0,4 0,4 4,0 4,0 0))")
	b := mustText(t, "POLYGON ((2 2,6 2,6 6,2 6,2 2))")
	got, err := Overlaps(a, b)
	if err != nil {
		t.Fatalf("Overlaps error: %v", err)
	}
	if !got {
		t.Fatalf("Overlaps = false, want true")
	}
}

func TestOverlapsContainmentIsFalse(t *testing.T) {
	outer := mustText(t, "POLYGON ((0 0,10 0,10 10,0 10,0 0))")
	inner := mustText(t, "POLYGON ((2 2,4 2,4 4,2 4,2 2))")
	got, err := Overlaps(outer, inner)
	if err != nil {
		t.Fatalf("Overlaps error: %v", err)
	}
	if got {
		t.Fatalf("Overlaps = true, want false for full containment")
	}
}
