package algebra

import (
	"math"
	"testing"
)

func geoPoint(t *testing.T, x, y float64) []byte {
	t.Helper()
	srid := int32(4326)
	blob, err := Point(x, y, &srid)
	if err != nil {
		t.Fatalf("Point error: %v", err)
	}
	return blob
}

func TestDistanceSphereRequiresSRID4326(t *testing.T) {
	a, _ := Point(0, 0, nil)
	b, _ := Point(1, 1, nil)
	if _, err := DistanceSphere(a, b); err == nil {
		t.Fatalf("expected error for missing SRID")
	}
}

func TestDistanceSphereKnownQuarterCircumference(t *testing.T) {
	// Equator to the north pole is a quarter of Earth's circumference.
	a := geoPoint(t, 0, 0)
	b := geoPoint(t, 0, 90)
	got, err := DistanceSphere(a, b)
	if err != nil {
		t.Fatalf("DistanceSphere error: %v", err)
	}
	want := meanSphereRadius * math.Pi / 2
	if math.Abs(got-want) > 1 {
		t.Fatalf("DistanceSphere = %v, want ~%v", got, want)
	}
}

func TestLengthSphere(t *testing.T) {
	blob, err := GeomFromText("LINESTRING (0 0,0 90)", 4326)
	if err != nil {
		t.Fatalf("GeomFromText error: %v", err)
	}
	got, err := LengthSphere(blob)
	if err != nil {
		t.Fatalf("LengthSphere error: %v", err)
	}
	want := meanSphereRadius * math.Pi / 2
	if math.Abs(got-want) > 1 {
		t.Fatalf("LengthSphere = %v, want ~%v", got, want)
	}
}

func TestAzimuthNorth(t *testing.T) {
	a := geoPoint(t, 0, 0)
	b := geoPoint(t, 0, 1)
	got, err := Azimuth(a, b)
	if err != nil {
		t.Fatalf("Azimuth error: %v", err)
	}
	if math.Abs(got) > 1e-9 {
		t.Fatalf("Azimuth due north = %v, want 0", got)
	}
}

func TestAzimuthCoincidentRejected(t *testing.T) {
	a := geoPoint(t, 1, 1)
	if _, err := Azimuth(a, a); err == nil {
		t.Fatalf("expected error for coincident points")
	}
}

func TestProjectRoundTripsAzimuth(t *testing.T) {
	p := geoPoint(t, 0, 0)
	out, srid, err := Project(p, 111319.49, 0) // ~1 degree north at the equator
	if err != nil {
		t.Fatalf("Project error: %v", err)
	}
	if srid == nil || *srid != 4326 {
		t.Fatalf("Project SRID = %v, want 4326", srid)
	}
	az, err := Azimuth(p, out)
	if err != nil {
		t.Fatalf("Azimuth error: %v", err)
	}
	if math.Abs(az) > 1e-6 {
		t.Fatalf("Azimuth of projected point = %v, want ~0", az)
	}
}

func TestDistanceSpheroidZeroForCoincidentPoints(t *testing.T) {
	a := geoPoint(t, 10, 20)
	got, err := DistanceSpheroid(a, a)
	if err != nil {
		t.Fatalf("DistanceSpheroid error: %v", err)
	}
	if got != 0 {
		t.Fatalf("DistanceSpheroid = %v, want 0", got)
	}
}

func TestDistanceSpheroidCloseToSphere(t *testing.T) {
	a := geoPoint(t, 0, 0)
	b := geoPoint(t, 1, 1)
	sphere, err := DistanceSphere(a, b)
	if err != nil {
		t.Fatalf("DistanceSphere error: %v", err)
	}
	spheroid, err := DistanceSpheroid(a, b)
	if err != nil {
		t.Fatalf("DistanceSpheroid error: %v", err)
	}
	// WGS-84 and the mean sphere diverge by well under 1% at short range.
	if math.Abs(sphere-spheroid)/sphere > 0.01 {
		t.Fatalf("DistanceSphere %v and DistanceSpheroid %v diverge too much", sphere, spheroid)
	}
}

