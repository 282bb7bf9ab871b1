package attendance

import (
	"context"
	"time"
)

type AttendanceService interface {
	ClockIn(ctx context.Context, req ClockInRequest) (AttendanceResponse, error)
	ClockOut(ctx context.Context) (AttendanceResponse, error)
	GetMyAttendance(ctx context.Context, filter MyAttendanceFilter) ([]AttendanceResponse, int64, error)
	StatsForDate(ctx context.Context, date time.Time) (StatsResponse, error)
}
