package payroll

import (
	"testing"
	"time"

	"go-attendpay/internal/attendance"
	"go-attendpay/internal/compensation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// workedDay builds a present, merged record for the given day of the month.
func workedDay(year int, month time.Month, day int, hours, overtime float64) attendance.AttendanceRecord {
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	in := date.Add(9 * time.Hour)
	out := in.Add(time.Duration(hours * float64(time.Hour)))
	return attendance.AttendanceRecord{
		ID:            uuid.New(),
		Date:          date,
		BiometricIn:   &in,
		BiometricOut:  &out,
		HoursWorked:   hours,
		RegularHours:  hours - overtime,
		OvertimeHours: overtime,
		IsPresent:     true,
		IsVerified:    true,
	}
}

// fullMonth returns one worked record per non-Sunday day.
func fullMonth(year int, month time.Month, hours, overtime float64) []attendance.AttendanceRecord {
	var records []attendance.AttendanceRecord
	for d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC); d.Month() == month; d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Sunday {
			continue
		}
		records = append(records, workedDay(year, month, d.Day(), hours, overtime))
	}
	return records
}

func baseConfig(salary int64) compensation.CompensationConfig {
	return compensation.CompensationConfig{
		ID:         uuid.New(),
		EmployeeID: uuid.New(),
		BaseSalary: decimal.NewFromInt(salary),
	}
}

func TestWorkingDaysInMonth(t *testing.T) {
	// March 2025 has 31 days and 5 Sundays.
	assert.Equal(t, 26, WorkingDaysInMonth(2025, time.March))
	// February 2025 has 28 days and 4 Sundays.
	assert.Equal(t, 24, WorkingDaysInMonth(2025, time.February))
	// July 2025 has 31 days and 4 Sundays.
	assert.Equal(t, 27, WorkingDaysInMonth(2025, time.July))
}

func TestCalculatePerfectMonth(t *testing.T) {
	// 26 required days, 26 days of 8 hours: base pay equals base salary
	// and the perfect attendance bonus adds 5%.
	b, err := Calculate(2025, time.March, baseConfig(26000), fullMonth(2025, time.March, 8, 0), DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, 26, b.RequiredDays)
	assert.Equal(t, 26, b.DaysPresent)
	assert.True(t, b.DailyWage.Equal(decimal.NewFromInt(1000)), "daily wage %s", b.DailyWage)
	assert.True(t, b.BasePay.Equal(decimal.NewFromInt(26000)), "base pay %s", b.BasePay)
	assert.True(t, b.OvertimePay.IsZero())
	assert.True(t, b.AttendanceRate.Equal(decimal.NewFromInt(100)))

	require.Len(t, b.Bonuses, 1)
	assert.Equal(t, "perfect attendance bonus", b.Bonuses[0].Label)
	assert.True(t, b.Bonuses[0].Amount.Equal(decimal.NewFromInt(1300)))

	assert.True(t, b.NetPay.Equal(decimal.NewFromInt(27300)), "net pay %s", b.NetPay)
}

func TestCalculateRequiredDaysCappedAt26(t *testing.T) {
	b, err := Calculate(2025, time.July, baseConfig(26000), nil, DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, 27, b.WorkingDays)
	assert.Equal(t, 26, b.RequiredDays)
}

func TestCalculateOvertime(t *testing.T) {
	// 18 overtime hours: paid at 1.5x the hourly wage but below the
	// 20-hour excellence threshold.
	records := fullMonth(2025, time.March, 8, 0)
	for i := 0; i < 18; i++ {
		records[i].HoursWorked = 9
		records[i].OvertimeHours = 1
	}

	b, err := Calculate(2025, time.March, baseConfig(26000), records, DefaultPolicy())
	require.NoError(t, err)

	// 18h * (1000/8) * 1.5 = 3375
	assert.True(t, b.OvertimePay.Equal(decimal.NewFromInt(3375)), "overtime pay %s", b.OvertimePay)
	for _, line := range b.Bonuses {
		assert.NotEqual(t, "overtime excellence bonus", line.Label)
	}
}

func TestCalculateOvertimeExcellenceAndEfficiency(t *testing.T) {
	// An hour of overtime every day: 26 overtime hours crosses the
	// excellence threshold and 234/208 hours crosses 110% efficiency.
	b, err := Calculate(2025, time.March, baseConfig(26000), fullMonth(2025, time.March, 9, 1), DefaultPolicy())
	require.NoError(t, err)

	labels := make(map[string]decimal.Decimal)
	for _, line := range b.Bonuses {
		labels[line.Label] = line.Amount
	}

	excellence, ok := labels["overtime excellence bonus"]
	require.True(t, ok)
	assert.True(t, excellence.Equal(decimal.NewFromInt(500)))

	efficiency, ok := labels["hours efficiency bonus"]
	require.True(t, ok, "efficiency %s", b.HoursEfficiency)
	// 3% of base pay (234h / 8 * 1000 = 29250)
	assert.True(t, efficiency.Equal(decimal.NewFromFloat(877.5)), "efficiency bonus %s", efficiency)
}

func TestCalculateLowAttendancePenalty(t *testing.T) {
	// 18 of 26 days is ~69%: below the 80% floor.
	records := fullMonth(2025, time.March, 8, 0)[:18]

	b, err := Calculate(2025, time.March, baseConfig(26000), records, DefaultPolicy())
	require.NoError(t, err)

	require.Len(t, b.Deductions, 1)
	assert.Equal(t, "low attendance penalty", b.Deductions[0].Label)
	// 5% of base pay (18 * 8h / 8 * 1000 = 18000)
	assert.True(t, b.Deductions[0].Amount.Equal(decimal.NewFromInt(900)))

	require.NotEmpty(t, b.Recommendations)
	assert.Contains(t, b.Recommendations[0], "attendance rate")
}

func TestCalculateLatePenalty(t *testing.T) {
	records := fullMonth(2025, time.March, 8, 0)
	for i := 0; i < 4; i++ {
		late := records[i].Date.Add(9*time.Hour + 30*time.Minute)
		records[i].BiometricIn = &late
	}

	b, err := Calculate(2025, time.March, baseConfig(26000), records, DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, 4, b.LateDays)
	require.Len(t, b.Deductions, 1)
	// 4 late days at the flat per-day rate
	assert.True(t, b.Deductions[0].Amount.Equal(decimal.NewFromInt(200)))
}

func TestCalculateLateWithinGraceIsNotLate(t *testing.T) {
	records := []attendance.AttendanceRecord{workedDay(2025, time.March, 3, 8, 0)}
	in := records[0].Date.Add(9*time.Hour + 15*time.Minute)
	records[0].BiometricIn = &in

	b, err := Calculate(2025, time.March, baseConfig(26000), records, DefaultPolicy())
	require.NoError(t, err)
	assert.Zero(t, b.LateDays)
}

func TestCalculateLateUsesCompanyZone(t *testing.T) {
	// Jakarta mornings: 10:00 local is 03:00 UTC, well past the 09:15
	// local grace even though it is early morning in UTC.
	wib := time.FixedZone("WIB", 7*60*60)
	policy := DefaultPolicy()
	policy.Location = wib

	records := fullMonth(2025, time.March, 8, 0)
	for i := 0; i < 6; i++ {
		late := time.Date(2025, time.March, records[i].Date.Day(), 10, 0, 0, 0, wib).UTC()
		records[i].BiometricIn = &late
	}
	// 09:15:00 local exactly is still within the grace window.
	onTime := time.Date(2025, time.March, records[6].Date.Day(), 9, 15, 0, 0, wib).UTC()
	records[6].BiometricIn = &onTime

	b, err := Calculate(2025, time.March, baseConfig(26000), records, policy)
	require.NoError(t, err)

	assert.Equal(t, 6, b.LateDays)
	require.Len(t, b.Deductions, 1)
	assert.True(t, b.Deductions[0].Amount.Equal(decimal.NewFromInt(300)))
}

func TestCalculateDiscrepancyPenalty(t *testing.T) {
	records := fullMonth(2025, time.March, 8, 0)
	for i := 0; i < 3; i++ {
		records[i].HasDiscrepancy = true
	}

	b, err := Calculate(2025, time.March, baseConfig(26000), records, DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, 3, b.DiscrepancyCount)
	require.Len(t, b.Deductions, 1)
	assert.True(t, b.Deductions[0].Amount.Equal(decimal.NewFromInt(75)))
}

func TestCalculateLeaveDaysCountAsPresent(t *testing.T) {
	records := fullMonth(2025, time.March, 8, 0)[:25]
	kind := "ANNUAL"
	records = append(records, attendance.AttendanceRecord{
		Date:        time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		IsLeave:     true,
		LeaveKind:   &kind,
		HoursWorked: 8,
	})

	b, err := Calculate(2025, time.March, baseConfig(26000), records, DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, 26, b.DaysPresent)
	assert.Equal(t, 1, b.LeaveDays)
	assert.True(t, b.AttendanceRate.Equal(decimal.NewFromInt(100)))
}

func TestCalculateFixedComponentsAndAdjustments(t *testing.T) {
	config := baseConfig(26000)
	config.Components = []compensation.PayComponent{
		{Kind: compensation.ComponentAllowance, Name: "transport", Amount: decimal.NewFromInt(500)},
		{Kind: compensation.ComponentDeduction, Name: "tax", Amount: decimal.NewFromInt(1200)},
	}

	flat := decimal.NewFromInt(1000)
	pct := decimal.NewFromInt(2)
	inMonth := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	pastMonth := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	config.Adjustments = []compensation.AdjustmentRule{
		{Kind: compensation.AdjustmentBonus, Name: "spot bonus", Amount: &flat, IsActive: true, EffectiveFrom: &inMonth},
		{Kind: compensation.AdjustmentDeduction, Name: "loan repayment", Percentage: &pct, IsActive: true, IsRecurring: true},
		{Kind: compensation.AdjustmentBonus, Name: "expired bonus", Amount: &flat, IsActive: true, EffectiveFrom: &pastMonth},
	}

	b, err := Calculate(2025, time.March, config, fullMonth(2025, time.March, 8, 0), DefaultPolicy())
	require.NoError(t, err)

	assert.True(t, b.Allowances.Equal(decimal.NewFromInt(500)))

	var bonusLabels []string
	for _, line := range b.Bonuses {
		bonusLabels = append(bonusLabels, line.Label)
	}
	assert.Contains(t, bonusLabels, "spot bonus")
	assert.NotContains(t, bonusLabels, "expired bonus")

	var deductionTotal decimal.Decimal
	for _, line := range b.Deductions {
		deductionTotal = deductionTotal.Add(line.Amount)
	}
	// tax 1200 + 2% of 26000 = 1720
	assert.True(t, deductionTotal.Equal(decimal.NewFromInt(1720)), "deductions %s", deductionTotal)

	// gross = 26000 + 0 + 500; bonuses = 1300 perfect + 1000 spot
	assert.True(t, b.GrossPay.Equal(decimal.NewFromInt(26500)))
	assert.True(t, b.NetPay.Equal(decimal.NewFromInt(27080)), "net pay %s", b.NetPay)
}

func TestCalculateRoundsHalfUp(t *testing.T) {
	// 26001 / 26 = 1000.038461..: the daily wage must land on 1000.04.
	b, err := Calculate(2025, time.March, baseConfig(26001), fullMonth(2025, time.March, 8, 0), DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, "1000.04", b.DailyWage.StringFixed(2))
	assert.Equal(t, 2, int(-b.NetPay.Exponent()), "net pay must carry at most 2 decimals: %s", b.NetPay)
}

func TestCalculateMoreHoursNeverPaysLess(t *testing.T) {
	config := baseConfig(26000)
	policy := DefaultPolicy()

	prev := decimal.Zero
	for days := 1; days <= 26; days++ {
		b, err := Calculate(2025, time.March, config, fullMonth(2025, time.March, 8, 0)[:days], policy)
		require.NoError(t, err)
		assert.True(t, b.NetPay.GreaterThanOrEqual(prev),
			"net pay decreased at %d days: %s < %s", days, b.NetPay, prev)
		prev = b.NetPay
	}
}

func TestCalculateRejectsInvalidPeriod(t *testing.T) {
	_, err := Calculate(2025, time.Month(13), baseConfig(26000), nil, DefaultPolicy())
	assert.Error(t, err)
}
