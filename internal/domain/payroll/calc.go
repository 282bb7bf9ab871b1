package payroll

import (
	"github.com/workforcehq/records-backend-go/internal/domain/attendance"

	"github.com/shopspring/decimal"
)

// ComputeNet derives net salary as base + bonuses + overtime - deductions - tax.
// All terms are exact decimals; rounding to 2 places happens once on the
// final result, never on intermediate terms.
func ComputeNet(base, bonuses, overtime, deductions, tax decimal.Decimal) decimal.Decimal {
	net := base.Add(bonuses).Add(overtime).Sub(deductions).Sub(tax)
	return net.Round(2)
}

// DayCounts is the attendance-derived reconciliation for a payroll period.
type DayCounts struct {
	Worked decimal.Decimal
	Absent decimal.Decimal
}

// CountDays tallies a period's attendance records into worked and absent
// days. Records with status on_leave count toward neither; a half_day
// record contributes halfDayWeight worked days.
func CountDays(records []attendance.Attendance, halfDayWeight decimal.Decimal) DayCounts {
	counts := DayCounts{
		Worked: decimal.Zero,
		Absent: decimal.Zero,
	}
	one := decimal.NewFromInt(1)

	for _, rec := range records {
		switch rec.Status {
		case attendance.StatusPresent, attendance.StatusLate:
			counts.Worked = counts.Worked.Add(one)
		case attendance.StatusHalfDay:
			counts.Worked = counts.Worked.Add(halfDayWeight)
		case attendance.StatusAbsent:
			counts.Absent = counts.Absent.Add(one)
		case attendance.StatusOnLeave:
			// on leave is neither worked nor absent
		}
	}
	return counts
}
