package database

import "fmt"

// ActivityExport carries the committed columns the export layer projects.
type ActivityExport struct {
	ID            int64
	Date          string
	Name          string
	Type          string
	Feel          string
	RPE           *int64
	Source        string
	SurfaceType   string
	RecordingMode string
	Tags          string

	Distance           *float64
	MovingTime         int64
	TotalElevationGain *float64
	TotalElevationLoss *float64
	AverageSpeed       *float64
	AveragePower       *float64
	FTP                *float64
	CriticalImpact     *float64
	AverageHeartRate   *int64
}

// ZoneExport is one committed power-zone row for an activity.
type ZoneExport struct {
	Name       string
	PowerLow   int64
	PowerHigh  int64
	Seconds    int64
	Percentage float64
}

// ListActivityExports returns committed activities ordered by timestamp
// ascending, limited when limit > 0.
func (db *DB) ListActivityExports(limit int) ([]*ActivityExport, error) {
	query := `
		SELECT id, date, name, type, feel, rpe, source, surface_type, recording_mode, tags,
		       distance, moving_time, total_elevation_gain, total_elevation_loss,
		       average_speed, average_power, ftp, critical_impact, average_heart_rate
		FROM activities
		ORDER BY timestamp ASC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []*ActivityExport
	for rows.Next() {
		var a ActivityExport
		err := rows.Scan(
			&a.ID, &a.Date, &a.Name, &a.Type, &a.Feel, &a.RPE, &a.Source, &a.SurfaceType, &a.RecordingMode, &a.Tags,
			&a.Distance, &a.MovingTime, &a.TotalElevationGain, &a.TotalElevationLoss,
			&a.AverageSpeed, &a.AveragePower, &a.FTP, &a.CriticalImpact, &a.AverageHeartRate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activities: %w", err)
	}

	return activities, nil
}

// ZonesForActivity returns the committed power-zone rows for an activity in
// stored order.
func (db *DB) ZonesForActivity(activityID int64) ([]*ZoneExport, error) {
	rows, err := db.conn.Query(`
		SELECT zone_name, power_low, power_high, seconds, percentage
		FROM zones_distribution
		WHERE activity_id = ?
		ORDER BY power_low ASC
	`, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query zones: %w", err)
	}
	defer rows.Close()

	var zones []*ZoneExport
	for rows.Next() {
		var z ZoneExport
		if err := rows.Scan(&z.Name, &z.PowerLow, &z.PowerHigh, &z.Seconds, &z.Percentage); err != nil {
			return nil, fmt.Errorf("failed to scan zone: %w", err)
		}
		zones = append(zones, &z)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating zones: %w", err)
	}

	return zones, nil
}
