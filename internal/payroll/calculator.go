package payroll

import (
	"fmt"
	"time"

	"go-attendpay/internal/attendance"
	"go-attendpay/internal/compensation"

	"github.com/shopspring/decimal"
)

// Policy holds the tunables of the monthly pay formula. Percentages are
// whole numbers (5 means 5%), flat amounts are in salary currency.
type Policy struct {
	StandardDayHours int
	MaxRequiredDays  int

	OvertimeMultiplier decimal.Decimal

	// Lateness is judged against the workday start in Location, the
	// company-local zone the attendance day was bucketed in.
	WorkdayStartHour int
	LateGraceMinutes int
	Location         *time.Location

	PerfectAttendanceBonusPct decimal.Decimal // attendance rate >= 100%
	OvertimeExcellenceHours   decimal.Decimal // flat bonus above this
	OvertimeExcellenceBonus   decimal.Decimal
	EfficiencyThresholdPct    decimal.Decimal // hours efficiency >= this
	EfficiencyBonusPct        decimal.Decimal

	LateDayLimit          int
	LatePenaltyPerDay     decimal.Decimal
	LowAttendancePct      decimal.Decimal // rate below this
	LowAttendancePenalty  decimal.Decimal // percent of base pay
	DiscrepancyLimit      int
	DiscrepancyPenalty    decimal.Decimal // flat, per discrepancy
}

func DefaultPolicy() Policy {
	return Policy{
		StandardDayHours:          8,
		MaxRequiredDays:           26,
		OvertimeMultiplier:        decimal.NewFromFloat(1.5),
		WorkdayStartHour:          9,
		LateGraceMinutes:          15,
		Location:                  time.UTC,
		PerfectAttendanceBonusPct: decimal.NewFromInt(5),
		OvertimeExcellenceHours:   decimal.NewFromInt(20),
		OvertimeExcellenceBonus:   decimal.NewFromInt(500),
		EfficiencyThresholdPct:    decimal.NewFromInt(110),
		EfficiencyBonusPct:        decimal.NewFromInt(3),
		LateDayLimit:              3,
		LatePenaltyPerDay:         decimal.NewFromInt(50),
		LowAttendancePct:          decimal.NewFromInt(80),
		LowAttendancePenalty:      decimal.NewFromInt(5),
		DiscrepancyLimit:          2,
		DiscrepancyPenalty:        decimal.NewFromInt(25),
	}
}

// PayLine is one itemized earning or deduction on the payslip.
type PayLine struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// Breakdown is the full result of one monthly calculation: the attendance
// facts it was derived from, every intermediate figure, and the itemized
// bonus and deduction lines that add up to net pay.
type Breakdown struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`

	WorkingDays      int `json:"working_days"`
	RequiredDays     int `json:"required_days"`
	DaysPresent      int `json:"days_present"`
	LeaveDays        int `json:"leave_days"`
	LateDays         int `json:"late_days"`
	DiscrepancyCount int `json:"discrepancy_count"`

	TotalHours      decimal.Decimal `json:"total_hours"`
	OvertimeHours   decimal.Decimal `json:"overtime_hours"`
	AttendanceRate  decimal.Decimal `json:"attendance_rate"`
	HoursEfficiency decimal.Decimal `json:"hours_efficiency"`

	DailyWage   decimal.Decimal `json:"daily_wage"`
	BasePay     decimal.Decimal `json:"base_pay"`
	OvertimePay decimal.Decimal `json:"overtime_pay"`
	Allowances  decimal.Decimal `json:"allowances"`
	GrossPay    decimal.Decimal `json:"gross_pay"`

	Bonuses         []PayLine       `json:"bonuses"`
	Deductions      []PayLine       `json:"deductions"`
	TotalBonuses    decimal.Decimal `json:"total_bonuses"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetPay          decimal.Decimal `json:"net_pay"`

	Recommendations []string `json:"recommendations"`
}

// WorkingDaysInMonth counts the days of the month that are not Sundays.
func WorkingDaysInMonth(year int, month time.Month) int {
	days := 0
	for d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC); d.Month() == month; d = d.AddDate(0, 0, 1) {
		if d.Weekday() != time.Sunday {
			days++
		}
	}
	return days
}

// Calculate turns a month of merged attendance records plus the employee's
// compensation config into a payroll breakdown. It is pure: no clock, no
// I/O, same inputs always give the same result.
func Calculate(
	year int,
	month time.Month,
	config compensation.CompensationConfig,
	records []attendance.AttendanceRecord,
	policy Policy,
) (Breakdown, error) {
	if month < time.January || month > time.December || year < 2000 {
		return Breakdown{}, fmt.Errorf("invalid period %d-%d", year, month)
	}

	b := Breakdown{Year: year, Month: month}
	b.WorkingDays = WorkingDaysInMonth(year, month)
	b.RequiredDays = b.WorkingDays
	if b.RequiredDays > policy.MaxRequiredDays {
		b.RequiredDays = policy.MaxRequiredDays
	}

	summarize(&b, records, policy)

	requiredDays := decimal.NewFromInt(int64(b.RequiredDays))
	standardDay := decimal.NewFromInt(int64(policy.StandardDayHours))
	hundred := decimal.NewFromInt(100)

	b.DailyWage = config.BaseSalary.Div(requiredDays)
	effectiveDays := b.TotalHours.Div(standardDay)
	b.BasePay = effectiveDays.Mul(b.DailyWage)

	hourlyWage := b.DailyWage.Div(standardDay)
	b.OvertimePay = b.OvertimeHours.Mul(hourlyWage).Mul(policy.OvertimeMultiplier)

	b.AttendanceRate = decimal.NewFromInt(int64(b.DaysPresent)).Div(requiredDays).Mul(hundred)
	requiredHours := requiredDays.Mul(standardDay)
	b.HoursEfficiency = b.TotalHours.Div(requiredHours).Mul(hundred)

	b.Allowances = config.TotalAllowances()

	// Performance bonuses.
	if b.AttendanceRate.GreaterThanOrEqual(hundred) {
		b.Bonuses = append(b.Bonuses, PayLine{
			Label:  "perfect attendance bonus",
			Amount: b.BasePay.Mul(policy.PerfectAttendanceBonusPct).Div(hundred),
		})
	}
	if b.OvertimeHours.GreaterThan(policy.OvertimeExcellenceHours) {
		b.Bonuses = append(b.Bonuses, PayLine{
			Label:  "overtime excellence bonus",
			Amount: policy.OvertimeExcellenceBonus,
		})
	}
	if b.HoursEfficiency.GreaterThanOrEqual(policy.EfficiencyThresholdPct) {
		b.Bonuses = append(b.Bonuses, PayLine{
			Label:  "hours efficiency bonus",
			Amount: b.BasePay.Mul(policy.EfficiencyBonusPct).Div(hundred),
		})
	}

	// Performance penalties.
	if b.LateDays > policy.LateDayLimit {
		b.Deductions = append(b.Deductions, PayLine{
			Label:  fmt.Sprintf("late arrival penalty (%d days)", b.LateDays),
			Amount: policy.LatePenaltyPerDay.Mul(decimal.NewFromInt(int64(b.LateDays))),
		})
	}
	if b.AttendanceRate.LessThan(policy.LowAttendancePct) {
		b.Deductions = append(b.Deductions, PayLine{
			Label:  "low attendance penalty",
			Amount: b.BasePay.Mul(policy.LowAttendancePenalty).Div(hundred),
		})
	}
	if b.DiscrepancyCount > policy.DiscrepancyLimit {
		b.Deductions = append(b.Deductions, PayLine{
			Label:  fmt.Sprintf("unresolved discrepancies (%d)", b.DiscrepancyCount),
			Amount: policy.DiscrepancyPenalty.Mul(decimal.NewFromInt(int64(b.DiscrepancyCount))),
		})
	}

	// Itemized fixed deductions, subtracted verbatim.
	for _, comp := range config.Components {
		if comp.Kind == compensation.ComponentDeduction {
			b.Deductions = append(b.Deductions, PayLine{Label: comp.Name, Amount: comp.Amount})
		}
	}

	applyAdjustments(&b, config, year, month)

	for _, line := range b.Bonuses {
		b.TotalBonuses = b.TotalBonuses.Add(line.Amount)
	}
	for _, line := range b.Deductions {
		b.TotalDeductions = b.TotalDeductions.Add(line.Amount)
	}

	b.GrossPay = b.BasePay.Add(b.OvertimePay).Add(b.Allowances)
	b.NetPay = b.GrossPay.Add(b.TotalBonuses).Sub(b.TotalDeductions)

	b.Recommendations = recommendations(b, policy)
	roundMoney(&b)
	return b, nil
}

func summarize(b *Breakdown, records []attendance.AttendanceRecord, policy Policy) {
	loc := policy.Location
	if loc == nil {
		loc = time.UTC
	}

	for _, rec := range records {
		if rec.IsLeave {
			b.LeaveDays++
		}
		if !rec.IsPresent && !rec.IsLeave {
			continue
		}
		b.DaysPresent++
		b.TotalHours = b.TotalHours.Add(decimal.NewFromFloat(rec.HoursWorked))
		b.OvertimeHours = b.OvertimeHours.Add(decimal.NewFromFloat(rec.OvertimeHours))

		if rec.HasDiscrepancy {
			b.DiscrepancyCount++
		}
		if in := effectiveIn(rec); in != nil {
			// rec.Date is the UTC-midnight bucket of the local calendar
			// day; the grace boundary is an instant on that day in loc.
			deadline := time.Date(rec.Date.Year(), rec.Date.Month(), rec.Date.Day(),
				policy.WorkdayStartHour, policy.LateGraceMinutes, 0, 0, loc)
			if in.After(deadline) {
				b.LateDays++
			}
		}
	}
}

// effectiveIn prefers the device clock over the self-reported one.
func effectiveIn(rec attendance.AttendanceRecord) *time.Time {
	if rec.BiometricIn != nil {
		return rec.BiometricIn
	}
	return rec.SelfReportedIn
}

// applyAdjustments folds the config's ad-hoc rules into the breakdown.
// Recurring rules apply whenever their window overlaps the month; one-off
// rules only in the month their effective date falls in.
func applyAdjustments(b *Breakdown, config compensation.CompensationConfig, year int, month time.Month) {
	periodStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := periodStart.AddDate(0, 1, -1)

	for _, rule := range config.Adjustments {
		if !rule.AppliesTo(periodStart, periodEnd) {
			continue
		}
		if !rule.IsRecurring {
			if rule.EffectiveFrom == nil || rule.EffectiveFrom.Before(periodStart) || rule.EffectiveFrom.After(periodEnd) {
				continue
			}
		}

		amount := rule.Resolve(config.BaseSalary)
		switch rule.Kind {
		case compensation.AdjustmentDeduction:
			b.Deductions = append(b.Deductions, PayLine{Label: rule.Name, Amount: amount})
		case compensation.AdjustmentAllowance:
			b.Allowances = b.Allowances.Add(amount)
		default:
			// BONUS, INCREMENT and OVERTIME all land on the earning side.
			b.Bonuses = append(b.Bonuses, PayLine{Label: rule.Name, Amount: amount})
		}
	}
}

func recommendations(b Breakdown, policy Policy) []string {
	var out []string
	if b.AttendanceRate.LessThan(policy.LowAttendancePct) {
		out = append(out, fmt.Sprintf("attendance rate %s%% is below %s%%, review absences before payout",
			b.AttendanceRate.StringFixed(1), policy.LowAttendancePct.StringFixed(0)))
	}
	if b.LateDays > policy.LateDayLimit {
		out = append(out, fmt.Sprintf("%d late arrivals this month, consider a schedule review", b.LateDays))
	}
	if b.DiscrepancyCount > policy.DiscrepancyLimit {
		out = append(out, fmt.Sprintf("%d attendance discrepancies remain unresolved, verify before payout", b.DiscrepancyCount))
	}
	if b.OvertimeHours.GreaterThan(policy.OvertimeExcellenceHours.Mul(decimal.NewFromInt(2))) {
		out = append(out, fmt.Sprintf("overtime of %s hours is unusually high, check for missed check-outs",
			b.OvertimeHours.StringFixed(1)))
	}
	return out
}

// roundMoney rounds every monetary figure to 2 decimal places, half up.
func roundMoney(b *Breakdown) {
	b.TotalHours = b.TotalHours.Round(2)
	b.OvertimeHours = b.OvertimeHours.Round(2)
	b.AttendanceRate = b.AttendanceRate.Round(2)
	b.HoursEfficiency = b.HoursEfficiency.Round(2)
	b.DailyWage = b.DailyWage.Round(2)
	b.BasePay = b.BasePay.Round(2)
	b.OvertimePay = b.OvertimePay.Round(2)
	b.Allowances = b.Allowances.Round(2)
	b.GrossPay = b.GrossPay.Round(2)
	b.TotalBonuses = b.TotalBonuses.Round(2)
	b.TotalDeductions = b.TotalDeductions.Round(2)
	b.NetPay = b.NetPay.Round(2)
	for i := range b.Bonuses {
		b.Bonuses[i].Amount = b.Bonuses[i].Amount.Round(2)
	}
	for i := range b.Deductions {
		b.Deductions[i].Amount = b.Deductions[i].Amount.Round(2)
	}
}
