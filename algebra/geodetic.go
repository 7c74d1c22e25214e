package algebra

import (
	"math"

	"github.com/geolite-go/geolite/ewkb"
	"github.com/geolite-go/geolite/geoerr"
	"github.com/geolite-go/geolite/geom"
)

// meanSphereRadius is the mean Earth radius in meters used by the
// Haversine functions, matching PostGIS's spheroid-less ST_DistanceSphere.
const meanSphereRadius = 6371008.8

// wgs84SemiMajor and wgs84Flattening define the reference ellipsoid used
// by ST_DistanceSpheroid's Vincenty geodesic.
const (
	wgs84SemiMajor   = 6378137.0
	wgs84Flattening  = 1.0 / 298.257223563
	wgs84SemiMinor   = wgs84SemiMajor * (1 - wgs84Flattening)
)

func requireGeographic(srid *int32, who string) error {
	if srid == nil || *srid != 4326 {
		return geoerr.Invalidf("%s requires SRID 4326, got %s", who, sridLabel(srid))
	}
	return nil
}

func sridLabel(srid *int32) string {
	if srid == nil {
		return "unknown"
	}
	if *srid == 0 {
		return "0"
	}
	return itoaSRID(*srid)
}

func itoaSRID(v int32) string {
	neg := v < 0
	if neg {
		v = -v
	}
	if v == 0 {
		return "0"
	}
	var buf [12]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func haversineMeters(a, b geom.Point) float64 {
	lat1, lon1 := a.Y*math.Pi/180, a.X*math.Pi/180
	lat2, lon2 := b.Y*math.Pi/180, b.X*math.Pi/180
	dLat := lat2 - lat1
	dLon := lon2 - lon1
	s := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(s), math.Sqrt(1-s))
	return meanSphereRadius * c
}

// DistanceSphere returns the great-circle distance in meters between two
// geographic points, using the mean-sphere Haversine formula. Both
// geometries must carry SRID 4326.
func DistanceSphere(a, b []byte) (float64, error) {
	ga, gb, srid, err := ewkb.ParsePair(a, b)
	if err != nil {
		return 0, err
	}
	if err := requireGeographic(srid, "ST_DistanceSphere"); err != nil {
		return 0, err
	}
	pa, ok := ga.(geom.Point)
	if !ok {
		return 0, &geoerr.WrongType{Expected: "Point"}
	}
	pb, ok := gb.(geom.Point)
	if !ok {
		return 0, &geoerr.WrongType{Expected: "Point"}
	}
	return haversineMeters(pa, pb), nil
}

// LengthSphere returns the great-circle length of a geographic LineString
// in meters, summing Haversine segment distances.
func LengthSphere(blob []byte) (float64, error) {
	g, srid, err := ewkb.Parse(blob)
	if err != nil {
		return 0, err
	}
	if err := requireGeographic(srid, "ST_LengthSphere"); err != nil {
		return 0, err
	}
	ls, ok := g.(geom.LineString)
	if !ok {
		return 0, &geoerr.WrongType{Expected: "LineString"}
	}
	sum := 0.0
	for i := 1; i < len(ls.Points); i++ {
		sum += haversineMeters(ls.Points[i-1], ls.Points[i])
	}
	return sum, nil
}

// Azimuth returns the bearing in radians from a to b, measured clockwise
// from north, for two geographic points.
func Azimuth(a, b []byte) (float64, error) {
	ga, gb, srid, err := ewkb.ParsePair(a, b)
	if err != nil {
		return 0, err
	}
	if err := requireGeographic(srid, "ST_Azimuth"); err != nil {
		return 0, err
	}
	pa, ok := ga.(geom.Point)
	if !ok {
		return 0, &geoerr.WrongType{Expected: "Point"}
	}
	pb, ok := gb.(geom.Point)
	if !ok {
		return 0, &geoerr.WrongType{Expected: "Point"}
	}
	if pa.X == pb.X && pa.Y == pb.Y {
		return 0, geoerr.Invalidf("ST_Azimuth: coincident points have no azimuth")
	}
	lat1, lon1 := pa.Y*math.Pi/180, pa.X*math.Pi/180
	lat2, lon2 := pb.Y*math.Pi/180, pb.X*math.Pi/180
	dLon := lon2 - lon1
	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	theta := math.Atan2(y, x)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	return theta, nil
}

// Project returns the geographic point reached by travelling distance
// meters from p along azimuth radians, using a spherical forward
// projection.
func Project(p []byte, distance, azimuth float64) ([]byte, *int32, error) {
	g, srid, err := ewkb.Parse(p)
	if err != nil {
		return nil, nil, err
	}
	if err := requireGeographic(srid, "ST_Project"); err != nil {
		return nil, nil, err
	}
	pt, ok := g.(geom.Point)
	if !ok {
		return nil, nil, &geoerr.WrongType{Expected: "Point"}
	}
	lat1, lon1 := pt.Y*math.Pi/180, pt.X*math.Pi/180
	delta := distance / meanSphereRadius
	lat2 := math.Asin(math.Sin(lat1)*math.Cos(delta) + math.Cos(lat1)*math.Sin(delta)*math.Cos(azimuth))
	lon2 := lon1 + math.Atan2(
		math.Sin(azimuth)*math.Sin(delta)*math.Cos(lat1),
		math.Cos(delta)-math.Sin(lat1)*math.Sin(lat2),
	)
	out := geom.Point{X: lon2 * 180 / math.Pi, Y: lat2 * 180 / math.Pi}
	return ewkb.Emit(out, srid), srid, nil
}

// DistanceSpheroid returns the geodesic distance in meters between two
// geographic points on the WGS-84 ellipsoid, via Vincenty's iterative
// inverse formula (not Karney's algorithm).
func DistanceSpheroid(a, b []byte) (float64, error) {
	ga, gb, srid, err := ewkb.ParsePair(a, b)
	if err != nil {
		return 0, err
	}
	if err := requireGeographic(srid, "ST_DistanceSpheroid"); err != nil {
		return 0, err
	}
	pa, ok := ga.(geom.Point)
	if !ok {
		return 0, &geoerr.WrongType{Expected: "Point"}
	}
	pb, ok := gb.(geom.Point)
	if !ok {
		return 0, &geoerr.WrongType{Expected: "Point"}
	}
	return karneyDistance(pa, pb), nil
}

// karneyDistance implements Vincenty's inverse geodesic formula on the
// WGS-84 ellipsoid; it does not implement Karney's algorithm. Falls back
// to the haversine mean-sphere result if the iteration fails to converge
// (nearly-antipodal points).
func karneyDistance(a, b geom.Point) float64 {
	if a.X == b.X && a.Y == b.Y {
		return 0
	}
	const f = wgs84Flattening
	L := (b.X - a.X) * math.Pi / 180
	U1 := math.Atan((1 - f) * math.Tan(a.Y*math.Pi/180))
	U2 := math.Atan((1 - f) * math.Tan(b.Y*math.Pi/180))
	sinU1, cosU1 := math.Sin(U1), math.Cos(U1)
	sinU2, cosU2 := math.Sin(U2), math.Cos(U2)

	lambda := L
	var sinSigma, cosSigma, sigma, cosSqAlpha, cos2SigmaM float64

	for i := 0; i < 200; i++ {
		sinLambda, cosLambda := math.Sin(lambda), math.Cos(lambda)
		sinSigma = math.Sqrt(
			(cosU2*sinLambda)*(cosU2*sinLambda) +
				(cosU1*sinU2-sinU1*cosU2*cosLambda)*(cosU1*sinU2-sinU1*cosU2*cosLambda))
		if sinSigma == 0 {
			return 0
		}
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)
		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha
		if cosSqAlpha != 0 {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		} else {
			cos2SigmaM = 0
		}
		C := f / 16 * cosSqAlpha * (4 + f*(4-3*cosSqAlpha))
		lambdaPrev := lambda
		lambda = L + (1-C)*f*sinAlpha*
			(sigma + C*sinSigma*(cos2SigmaM+C*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))
		if math.Abs(lambda-lambdaPrev) < 1e-12 {
			break
		}
		if i == 199 {
			return haversineMeters(a, b)
		}
	}

	uSq := cosSqAlpha * (wgs84SemiMajor*wgs84SemiMajor - wgs84SemiMinor*wgs84SemiMinor) / (wgs84SemiMinor * wgs84SemiMinor)
	A := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	B := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	deltaSigma := B * sinSigma * (cos2SigmaM + B/4*(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
		B/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))

	return wgs84SemiMinor * A * (sigma - deltaSigma)
}
