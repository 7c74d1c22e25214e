package algebra

import "testing"

func TestRelateDisjointMatrix(t *testing.T) {
	a := mustText(t, "POLYGON ((0 0,1 0,1 1,0 1,0 0))")
	b := mustText(t, "POLYGON ((10 10,11 10,11 11,10 11,10 10))")
	got, err := Relate(a, b)
	if err != nil {
		t.Fatalf("Relate error: %v", err)
	}
	want := "FF2FF1212"
	if got != want {
		t.Fatalf("Relate = %q, want %q", got, want)
	}
}

func TestRelateOverlappingInteriorIntersects(t *testing.T) {
	a := mustText(t, "POLYGON ((0 0,4 0,4 4,0 4,0 0))")
	b := mustText(t, "POLYGON ((2 2,6 2,6 6,2 6,2 2))")
	matrix, err := Relate(a, b)
	if err != nil {
		t.Fatalf("Relate error: %v", err)
	}
	ok, err := RelateMatch(matrix, "T********")
	if err != nil {
		t.Fatalf("RelateMatch error: %v", err)
	}
	if !ok {
		t.Fatalf("Relate matrix %q does not satisfy interior-interior intersection pattern", matrix)
	}
}

func TestRelateWithPatternArgument(t *testing.T) {
	a := mustText(t, "POLYGON ((0 0,1 0,1 1,0 1,0 0))")
	b := mustText(t, "POLYGON ((10 10,11 10,11 11,10 11,10 10))")
	got, err := Relate(a, b, "FF*FF****")
	if err != nil {
		t.Fatalf("Relate error: %v", err)
	}
	if got == "" {
		t.Fatalf("expected non-empty matrix for disjoint polygons matching FF*FF****")
	}
}

func TestRelateWithPatternMismatch(t *testing.T) {
	a := mustText(t, "POLYGON ((0 0,4 0,4 4,0 4,0 0))")
	b := mustText(t, "POLYGON ((2 2,6 2,6 6,2 6,2 2))")
	got, err := Relate(a, b, "FFFFFFFF2")
	if err != nil {
		t.Fatalf("Relate error: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty string for overlapping polygons against disjoint-only pattern, got %q", got)
	}
}

func TestRelateMatchInvalidLength(t *testing.T) {
	if _, err := RelateMatch("FFF", "T********"); err == nil {
		t.Fatalf("expected error for short matrix")
	}
}

func TestRelateMatchInvalidCharacter(t *testing.T) {
	if _, err := RelateMatch("XFFFFFFF2", "*********"); err == nil {
		t.Fatalf("expected error for invalid matrix character")
	}
}

func TestRelateTooManyPatterns(t *testing.T) {
	a := mustText(t, "POINT (0 0)")
	b := mustText(t, "POINT (1 1)")
	if _, err := Relate(a, b, "*********", "*********"); err == nil {
		t.Fatalf("expected error for more than one pattern argument")
	}
}

func TestRelateIdenticalPoints(t *testing.T) {
	a := mustText(t, "POINT (0 0)")
	b := mustText(t, "POINT (0 0)")
	got, err := Relate(a, b)
	if err != nil {
		t.Fatalf("Relate error: %v", err)
	}
	want := "0FFFFFFF2"
	if got != want {
		t.Fatalf("Relate = %q, want %q", got, want)
	}
}

func TestTouchesIdenticalPointsIsFalse(t *testing.T) {
	a := mustText(t, "POINT (0 0)")
	b := mustText(t, "POINT (0 0)")
	touches, err := Touches(a, b)
	if err != nil {
		t.Fatalf("Touches error: %v", err)
	}
	if touches {
		t.Fatalf("Touches(identical points) = true, want false")
	}
}
