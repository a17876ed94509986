package geofence

import (
	"math"
	"time"
)

const (
	// DefaultRadiusMeters is used for offices registered without a radius.
	DefaultRadiusMeters = 100.0

	// MaxPlausibleSpeedMS flags a check-in as spoofed when the implied speed
	// from the previous fix exceeds it (roughly airliner cruise speed).
	MaxPlausibleSpeedMS = 50.0

	// SuspiciouslyAccurateMeters: consumer GPS rarely reports better than
	// this, so a smaller accuracy is a light spoofing signal.
	SuspiciouslyAccurateMeters = 10.0

	allowedFromHour  = 6
	allowedUntilHour = 22
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

const (
	WorkLocationOffice = "OFFICE"
	WorkLocationHome   = "HOME"
)

type Office struct {
	ID           string
	Name         string
	Address      string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

// Policy holds the per-employee location rules supplied by the caller.
type Policy struct {
	AllowRemote         bool
	StrictLocationCheck bool
	AllowOutsideHours   bool
	// HardBlockSuspicious upgrades the advisory heuristics to a hard gate.
	HardBlockSuspicious bool
}

// PriorFix is the previous known (coordinate, timestamp) pair for the
// velocity check. Optional.
type PriorFix struct {
	Latitude  float64
	Longitude float64
	At        time.Time
}

type Request struct {
	Latitude       float64
	Longitude      float64
	AccuracyMeters float64
	At             time.Time
	WorkFromHome   bool
	Prior          *PriorFix
}

type Result struct {
	Admitted             bool
	DistanceMeters       float64
	RequiredRadiusMeters float64
	MatchedOffice        *Office
	WorkLocation         string
	RiskLevel            RiskLevel
	Flags                []string
	Reason               string
}

// Distance computes the great-circle (haversine) distance between two
// coordinates in meters.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371000 // meters

	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// Validate admits or rejects a self-reported check-in. Every office is
// evaluated and the nearest one whose own radius contains the coordinate
// wins, so the result does not depend on the order offices are supplied in.
// Spoofing heuristics are advisory: they raise RiskLevel and only block when
// the policy says HardBlockSuspicious. Out-of-range input never returns an
// error, only Admitted=false with the measured distance and required radius.
func Validate(req Request, offices []Office, policy Policy) Result {
	res := Result{
		RiskLevel:    RiskLow,
		WorkLocation: WorkLocationOffice,
	}

	applyHeuristics(req, policy, &res)

	if policy.HardBlockSuspicious && res.RiskLevel == RiskHigh {
		res.Admitted = false
		res.Reason = "check-in location looks spoofed"
		return res
	}

	// Remote employees skip the distance gate entirely.
	if req.WorkFromHome && policy.AllowRemote && !policy.StrictLocationCheck {
		res.Admitted = true
		res.WorkLocation = WorkLocationHome
		res.Reason = "remote work allowed by policy"
		return res
	}

	if len(offices) == 0 {
		res.Admitted = false
		res.Reason = "no office registered for this employee"
		return res
	}

	var (
		bestWithin  *Office
		bestWithinD = math.MaxFloat64
		nearest     *Office
		nearestD    = math.MaxFloat64
	)

	for i := range offices {
		office := &offices[i]
		radius := office.RadiusMeters
		if radius <= 0 {
			radius = DefaultRadiusMeters
		}

		d := Distance(req.Latitude, req.Longitude, office.Latitude, office.Longitude)
		if d < nearestD {
			nearestD = d
			nearest = office
		}
		if d <= radius && d < bestWithinD {
			bestWithinD = d
			bestWithin = office
		}
	}

	if bestWithin != nil {
		radius := bestWithin.RadiusMeters
		if radius <= 0 {
			radius = DefaultRadiusMeters
		}
		res.Admitted = true
		res.MatchedOffice = bestWithin
		res.DistanceMeters = bestWithinD
		res.RequiredRadiusMeters = radius
		return res
	}

	radius := nearest.RadiusMeters
	if radius <= 0 {
		radius = DefaultRadiusMeters
	}
	res.Admitted = false
	res.DistanceMeters = nearestD
	res.RequiredRadiusMeters = radius
	res.Reason = "outside the allowed radius of every registered office"
	// Expose the nearest office anyway so the caller can render its address.
	res.MatchedOffice = nearest
	return res
}

func applyHeuristics(req Request, policy Policy, res *Result) {
	if req.AccuracyMeters > 0 && req.AccuracyMeters < SuspiciouslyAccurateMeters {
		res.Flags = append(res.Flags, "accuracy_too_good")
		res.RiskLevel = RiskMedium
	}

	if !policy.AllowOutsideHours {
		hour := req.At.Hour()
		if hour < allowedFromHour || hour >= allowedUntilHour {
			res.Flags = append(res.Flags, "outside_usual_hours")
			if res.RiskLevel == RiskLow {
				res.RiskLevel = RiskMedium
			}
		}
	}

	if req.Prior != nil {
		elapsed := req.At.Sub(req.Prior.At).Seconds()
		if elapsed > 0 {
			d := Distance(req.Latitude, req.Longitude, req.Prior.Latitude, req.Prior.Longitude)
			if d/elapsed > MaxPlausibleSpeedMS {
				res.Flags = append(res.Flags, "implausible_velocity")
				res.RiskLevel = RiskHigh
			}
		}
	}
}
