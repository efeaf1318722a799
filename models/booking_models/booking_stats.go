package booking_models

import (
	"context"
	"fmt"
	"time"
)

// MonthlyTrend is the booking volume of one calendar month.
type MonthlyTrend struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// Stats aggregates bookings for the admin dashboard.
type Stats struct {
	TotalBookings int                   `json:"totalBookings"`
	TotalRevenue  float64               `json:"totalRevenue"`
	StatusCounts  map[BookingStatus]int `json:"bookingStatusCounts"`
	Recent        []Booking             `json:"recentBookings"`
	Trends        []MonthlyTrend        `json:"bookingTrends"`
}

// Stats computes dashboard aggregates. Revenue only counts Paid bookings.
func (r *Repository) Stats(ctx context.Context, since time.Time) (*Stats, error) {
	stats := &Stats{StatusCounts: map[BookingStatus]int{}}
	for _, s := range AllStatuses {
		stats.StatusCounts[s] = 0
	}

	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings by status: %w", err)
	}
	for rows.Next() {
		var status BookingStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		stats.StatusCounts[status] = count
		stats.TotalBookings += count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, `SELECT COALESCE(SUM(total_price), 0) FROM bookings WHERE status = $1`, StatusPaid).
		Scan(&stats.TotalRevenue)
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	if stats.Recent, err = r.ListAll(ctx, 5); err != nil {
		return nil, err
	}

	trendRows, err := r.db.Query(ctx, `
		SELECT EXTRACT(YEAR FROM created_at)::int, EXTRACT(MONTH FROM created_at)::int,
			COUNT(*), COALESCE(SUM(total_price), 0)
		FROM bookings
		WHERE created_at >= $1
		GROUP BY 1, 2
		ORDER BY 1, 2`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to compute booking trends: %w", err)
	}
	defer trendRows.Close()
	stats.Trends = []MonthlyTrend{}
	for trendRows.Next() {
		var t MonthlyTrend
		if err := trendRows.Scan(&t.Year, &t.Month, &t.Count, &t.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan booking trend: %w", err)
		}
		stats.Trends = append(stats.Trends, t)
	}
	return stats, trendRows.Err()
}
