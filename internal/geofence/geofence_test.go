package geofence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Jakarta HQ, and a second office ~1.1km north with a wider radius.
var (
	hq = Office{
		ID:           "hq",
		Name:         "Head Office",
		Address:      "Jl. Sudirman 1",
		Latitude:     -6.200000,
		Longitude:    106.816666,
		RadiusMeters: 100,
	}
	annex = Office{
		ID:           "annex",
		Name:         "Annex",
		Address:      "Jl. Thamrin 10",
		Latitude:     -6.190000,
		Longitude:    106.816666,
		RadiusMeters: 300,
	}
)

func workHours() time.Time {
	return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
}

func TestValidate_ExactOfficePointAlwaysAdmitted(t *testing.T) {
	res := Validate(Request{
		Latitude:  hq.Latitude,
		Longitude: hq.Longitude,
		At:        workHours(),
	}, []Office{hq}, Policy{})

	assert.True(t, res.Admitted)
	assert.InDelta(t, 0, res.DistanceMeters, 0.01)
	assert.Equal(t, "hq", res.MatchedOffice.ID)
	assert.Equal(t, WorkLocationOffice, res.WorkLocation)
	assert.Equal(t, RiskLow, res.RiskLevel)
}

func TestValidate_OutsideRadiusRejectedWithDetail(t *testing.T) {
	// ~500m east of the office.
	res := Validate(Request{
		Latitude:  hq.Latitude,
		Longitude: hq.Longitude + 0.00452,
		At:        workHours(),
	}, []Office{hq}, Policy{})

	assert.False(t, res.Admitted)
	assert.InDelta(t, 500, res.DistanceMeters, 10)
	assert.Equal(t, 100.0, res.RequiredRadiusMeters)
	assert.Equal(t, "hq", res.MatchedOffice.ID)
	assert.NotEmpty(t, res.Reason)
}

func TestValidate_JustBeyondRadiusRejected(t *testing.T) {
	// 101m north of a 100m-radius office. One degree of latitude is
	// ~111.32km, so 101m is about 0.000907 degrees.
	res := Validate(Request{
		Latitude:  hq.Latitude + 101.0/111320.0,
		Longitude: hq.Longitude,
		At:        workHours(),
	}, []Office{hq}, Policy{})

	assert.False(t, res.Admitted)
	assert.Greater(t, res.DistanceMeters, 100.0)
}

func TestValidate_PicksNearestOfficeWithinItsOwnRadius(t *testing.T) {
	// Point 150m from HQ (outside its 100m radius) and ~950m from the
	// annex (outside too): rejected. Point 200m from the annex: admitted
	// against the annex even when HQ is listed first.
	nearAnnex := Request{
		Latitude:  annex.Latitude + 200.0/111320.0,
		Longitude: annex.Longitude,
		At:        workHours(),
	}

	res := Validate(nearAnnex, []Office{hq, annex}, Policy{})
	assert.True(t, res.Admitted)
	assert.Equal(t, "annex", res.MatchedOffice.ID)
	assert.InDelta(t, 200, res.DistanceMeters, 5)
}

func TestValidate_OrderIndependence(t *testing.T) {
	req := Request{
		Latitude:  annex.Latitude + 200.0/111320.0,
		Longitude: annex.Longitude,
		At:        workHours(),
	}

	first := Validate(req, []Office{hq, annex}, Policy{})
	second := Validate(req, []Office{annex, hq}, Policy{})

	assert.Equal(t, first.Admitted, second.Admitted)
	assert.Equal(t, first.MatchedOffice.ID, second.MatchedOffice.ID)
	assert.InDelta(t, first.DistanceMeters, second.DistanceMeters, 0.001)
}

func TestValidate_RemoteWorkBypassesDistance(t *testing.T) {
	res := Validate(Request{
		Latitude:     10.0, // nowhere near any office
		Longitude:    10.0,
		At:           workHours(),
		WorkFromHome: true,
	}, []Office{hq}, Policy{AllowRemote: true})

	assert.True(t, res.Admitted)
	assert.Equal(t, WorkLocationHome, res.WorkLocation)
}

func TestValidate_StrictPolicyDisablesRemoteBypass(t *testing.T) {
	res := Validate(Request{
		Latitude:     10.0,
		Longitude:    10.0,
		At:           workHours(),
		WorkFromHome: true,
	}, []Office{hq}, Policy{AllowRemote: true, StrictLocationCheck: true})

	assert.False(t, res.Admitted)
}

func TestValidate_VelocityHeuristicRaisesRisk(t *testing.T) {
	// 100km in one minute.
	prior := &PriorFix{
		Latitude:  hq.Latitude + 0.9,
		Longitude: hq.Longitude,
		At:        workHours().Add(-time.Minute),
	}

	res := Validate(Request{
		Latitude:  hq.Latitude,
		Longitude: hq.Longitude,
		At:        workHours(),
		Prior:     prior,
	}, []Office{hq}, Policy{})

	// Advisory by default: admitted but high-risk.
	assert.True(t, res.Admitted)
	assert.Equal(t, RiskHigh, res.RiskLevel)
	assert.Contains(t, res.Flags, "implausible_velocity")
}

func TestValidate_VelocityHeuristicHardBlock(t *testing.T) {
	prior := &PriorFix{
		Latitude:  hq.Latitude + 0.9,
		Longitude: hq.Longitude,
		At:        workHours().Add(-time.Minute),
	}

	res := Validate(Request{
		Latitude:  hq.Latitude,
		Longitude: hq.Longitude,
		At:        workHours(),
		Prior:     prior,
	}, []Office{hq}, Policy{HardBlockSuspicious: true})

	assert.False(t, res.Admitted)
	assert.Equal(t, RiskHigh, res.RiskLevel)
}

func TestValidate_OutsideHoursFlaggedNotBlocked(t *testing.T) {
	threeAM := time.Date(2026, 3, 2, 3, 0, 0, 0, time.UTC)

	res := Validate(Request{
		Latitude:  hq.Latitude,
		Longitude: hq.Longitude,
		At:        threeAM,
	}, []Office{hq}, Policy{})

	assert.True(t, res.Admitted)
	assert.Equal(t, RiskMedium, res.RiskLevel)
	assert.Contains(t, res.Flags, "outside_usual_hours")
}

func TestValidate_AccuracyTooGoodFlagged(t *testing.T) {
	res := Validate(Request{
		Latitude:       hq.Latitude,
		Longitude:      hq.Longitude,
		AccuracyMeters: 2,
		At:             workHours(),
	}, []Office{hq}, Policy{})

	assert.True(t, res.Admitted)
	assert.Equal(t, RiskMedium, res.RiskLevel)
	assert.Contains(t, res.Flags, "accuracy_too_good")
}

func TestDistance_KnownValue(t *testing.T) {
	// Jakarta to Surabaya is roughly 663km.
	d := Distance(-6.2, 106.816666, -7.257472, 112.752090)
	assert.InDelta(t, 663000, d, 10000)
}
