package database

import (
	"database/sql"
	"fmt"
	"time"

	"stryd-activity-sync/internal/normalize"
)

// WriteResult reports what SaveActivity did
type WriteResult int

const (
	// WriteSaved means the activity and all dependent rows were written
	WriteSaved WriteResult = iota
	// WriteSkipped means the activity already existed and overwrite was off
	WriteSkipped
)

// dependentTables lists every table keyed by activity_id, in delete order.
// Dependents are always removed before the parent activities row.
var dependentTables = []string{
	"zones_distribution",
	"timeseries_power",
	"timeseries_kinematics",
	"timeseries_cardio",
	"timeseries_biomechanics",
	"timeseries_elevation",
	"gps_points",
	"laps",
}

// ActivityExists checks if an activity is already in the store
func (db *DB) ActivityExists(activityID int64) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM activities WHERE id = ?", activityID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check activity existence: %w", err)
	}
	return count > 0, nil
}

// ActivityCount returns the total number of activities in the store
func (db *DB) ActivityCount() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM activities").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}
	return count, nil
}

// SaveActivity writes one activity's row groups as a single transactional
// unit. If the activity exists and overwrite is off it returns WriteSkipped
// without mutation. With overwrite on, every dependent row and the activity
// row are deleted and reinserted fresh; the whole sequence either fully
// applies or fully rolls back. synced_at is stamped with the current
// instant on every write, including forced rewrites.
func (db *DB) SaveActivity(rows *normalize.RowGroups, overwrite bool) (WriteResult, error) {
	activityID := rows.Activity.ID

	exists, err := db.ActivityExists(activityID)
	if err != nil {
		return WriteSkipped, err
	}
	if exists && !overwrite {
		return WriteSkipped, nil
	}

	tx, err := db.Begin()
	if err != nil {
		return WriteSkipped, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if exists {
		// Referential ordering: dependents before the parent row
		for _, table := range dependentTables {
			if _, err := tx.Exec("DELETE FROM "+table+" WHERE activity_id = ?", activityID); err != nil {
				return WriteSkipped, fmt.Errorf("failed to delete from %s: %w", table, err)
			}
		}
		if _, err := tx.Exec("DELETE FROM activities WHERE id = ?", activityID); err != nil {
			return WriteSkipped, fmt.Errorf("failed to delete activity: %w", err)
		}
	}

	// Parent row first so dependents never reference a missing activity
	activity := rows.Activity
	activity.SyncedAt = time.Now().Unix()
	if err := insertActivity(tx, &activity); err != nil {
		return WriteSkipped, err
	}

	for _, zone := range rows.Zones {
		_, err := tx.Exec(`
			INSERT INTO zones_distribution (activity_id, zone_name, power_low, power_high, seconds, percentage)
			VALUES (?, ?, ?, ?, ?, ?)
		`, zone.ActivityID, zone.Name, zone.PowerLow, zone.PowerHigh, zone.Seconds, zone.Percentage)
		if err != nil {
			return WriteSkipped, fmt.Errorf("failed to insert zone %q: %w", zone.Name, err)
		}
	}

	for _, s := range rows.Power {
		_, err := tx.Exec(`
			INSERT INTO timeseries_power (activity_id, timestamp, total_power, horizontal_power, vertical_power, air_power, elevation_power)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, s.ActivityID, s.Timestamp, s.TotalPower, s.HorizontalPower, s.VerticalPower, s.AirPower, s.ElevationPower)
		if err != nil {
			return WriteSkipped, fmt.Errorf("failed to insert power sample: %w", err)
		}
	}

	for _, s := range rows.Kinematics {
		_, err := tx.Exec(`
			INSERT INTO timeseries_kinematics (activity_id, timestamp, speed, distance, cadence, stride_length)
			VALUES (?, ?, ?, ?, ?, ?)
		`, s.ActivityID, s.Timestamp, s.Speed, s.Distance, s.Cadence, s.StrideLength)
		if err != nil {
			return WriteSkipped, fmt.Errorf("failed to insert kinematics sample: %w", err)
		}
	}

	for _, s := range rows.Cardio {
		_, err := tx.Exec(`
			INSERT INTO timeseries_cardio (activity_id, timestamp, heart_rate, rr_interval)
			VALUES (?, ?, ?, ?)
		`, s.ActivityID, s.Timestamp, s.HeartRate, s.RRInterval)
		if err != nil {
			return WriteSkipped, fmt.Errorf("failed to insert cardio sample: %w", err)
		}
	}

	for _, s := range rows.Biomechanics {
		_, err := tx.Exec(`
			INSERT INTO timeseries_biomechanics (activity_id, timestamp, ground_time, ground_time_balance, oscillation, vertical_oscillation_balance, leg_spring, leg_spring_stiffness_balance, impact, impact_loading_rate_balance, vertical_ratio)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, s.ActivityID, s.Timestamp, s.GroundTime, s.GroundTimeBalance, s.Oscillation, s.VerticalOscillationBal, s.LegSpring, s.LegSpringStiffnessBal, s.Impact, s.ImpactLoadingRateBalance, s.VerticalRatio)
		if err != nil {
			return WriteSkipped, fmt.Errorf("failed to insert biomechanics sample: %w", err)
		}
	}

	for _, s := range rows.Elevation {
		_, err := tx.Exec(`
			INSERT INTO timeseries_elevation (activity_id, timestamp, elevation, grade)
			VALUES (?, ?, ?, ?)
		`, s.ActivityID, s.Timestamp, s.Elevation, s.Grade)
		if err != nil {
			return WriteSkipped, fmt.Errorf("failed to insert elevation sample: %w", err)
		}
	}

	for _, p := range rows.GPS {
		_, err := tx.Exec(`
			INSERT INTO gps_points (activity_id, timestamp, lat, lng)
			VALUES (?, ?, ?, ?)
		`, p.ActivityID, p.Timestamp, p.Lat, p.Lng)
		if err != nil {
			return WriteSkipped, fmt.Errorf("failed to insert gps point: %w", err)
		}
	}

	for _, lap := range rows.Laps {
		_, err := tx.Exec(`
			INSERT INTO laps (activity_id, lap_number, timestamp, "trigger", workout_step)
			VALUES (?, ?, ?, ?, ?)
		`, lap.ActivityID, lap.LapNumber, lap.Timestamp, lap.Trigger, lap.WorkoutStep)
		if err != nil {
			return WriteSkipped, fmt.Errorf("failed to insert lap %d: %w", lap.LapNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return WriteSkipped, fmt.Errorf("failed to commit activity %d: %w", activityID, err)
	}

	return WriteSaved, nil
}

func insertActivity(tx *sql.Tx, a *normalize.ActivityRow) error {
	_, err := tx.Exec(`
		INSERT INTO activities (
			id, user_id, name, description, type, feel, rpe,
			timestamp, start_time, date, moving_time, elapsed_time, clock_time, time_zone,
			distance, total_elevation_gain, total_elevation_loss, min_elevation, max_elevation,
			average_speed, max_speed, average_cadence, min_cadence, max_cadence,
			average_stride_length, min_stride_length, max_stride_length,
			average_power, max_power, ftp, critical_impact,
			average_heart_rate, max_heart_rate, calories,
			average_ground_time, min_ground_time, max_ground_time, average_ground_time_balance,
			average_oscillation, min_oscillation, max_oscillation, average_vertical_ratio,
			average_vertical_oscillation_balance, average_leg_spring,
			average_leg_spring_stiffness_balance, average_impact_loading_rate_balance,
			max_vertical_stiffness, stress, lower_body_stress, stryds,
			source, surface_type, recording_mode, sport_type, power_type, weight, height,
			temperature, dew_point, humidity, wind_speed, wind_bearing, wind_gust, icon,
			location_city, location_country, location_state, tags,
			workout_id, workout_source, workout_source_id, file_path,
			map_image_link, polyline, summary_polyline, start_lat, start_lng, end_lat, end_lng,
			device_id, device_model, device_sw_rev, device_fw_rev,
			watch_product_id, watch_manufacturer,
			created, updated, synced_at
		) VALUES (
			?, ?, ?, ?, ?, ?, ?,
			?, ?, ?, ?, ?, ?, ?,
			?, ?, ?, ?, ?,
			?, ?, ?, ?, ?,
			?, ?, ?,
			?, ?, ?, ?,
			?, ?, ?,
			?, ?, ?, ?,
			?, ?, ?, ?,
			?, ?,
			?, ?,
			?, ?, ?, ?,
			?, ?, ?, ?, ?, ?, ?,
			?, ?, ?, ?, ?, ?, ?,
			?, ?, ?, ?,
			?, ?, ?, ?,
			?, ?, ?, ?, ?, ?, ?,
			?, ?, ?, ?,
			?, ?,
			?, ?, ?
		)
	`,
		a.ID, a.UserID, a.Name, a.Description, a.Type, a.Feel, a.RPE,
		a.Timestamp, a.StartTime, a.Date, a.MovingTime, a.ElapsedTime, a.ClockTime, a.TimeZone,
		a.Distance, a.TotalElevationGain, a.TotalElevationLoss, a.MinElevation, a.MaxElevation,
		a.AverageSpeed, a.MaxSpeed, a.AverageCadence, a.MinCadence, a.MaxCadence,
		a.AverageStrideLength, a.MinStrideLength, a.MaxStrideLength,
		a.AveragePower, a.MaxPower, a.FTP, a.CriticalImpact,
		a.AverageHeartRate, a.MaxHeartRate, a.Calories,
		a.AverageGroundTime, a.MinGroundTime, a.MaxGroundTime, a.AverageGroundTimeBalance,
		a.AverageOscillation, a.MinOscillation, a.MaxOscillation, a.AverageVerticalRatio,
		a.AverageVerticalOscillationBal, a.AverageLegSpring,
		a.AverageLegSpringStiffnessBalance, a.AverageImpactLoadingRateBalance,
		a.MaxVerticalStiffness, a.Stress, a.LowerBodyStress, a.Stryds,
		a.Source, a.SurfaceType, a.RecordingMode, a.SportType, a.PowerType, a.Weight, a.Height,
		a.Temperature, a.DewPoint, a.Humidity, a.WindSpeed, a.WindBearing, a.WindGust, a.Icon,
		a.LocationCity, a.LocationCountry, a.LocationState, a.Tags,
		a.WorkoutID, a.WorkoutSource, a.WorkoutSourceID, a.FilePath,
		a.MapImageLink, a.Polyline, a.SummaryPolyline, a.StartLat, a.StartLng, a.EndLat, a.EndLng,
		a.DeviceID, a.DeviceModel, a.DeviceSWRev, a.DeviceFWRev,
		a.WatchProductID, a.WatchMfr,
		a.Created, a.Updated, a.SyncedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity %d: %w", a.ID, err)
	}
	return nil
}

// DependentRowCounts returns the number of rows in each dependent table for
// an activity. Used for reporting and verification, not by the sync path.
func (db *DB) DependentRowCounts(activityID int64) (map[string]int, error) {
	counts := make(map[string]int, len(dependentTables))
	for _, table := range dependentTables {
		var n int
		err := db.conn.QueryRow("SELECT COUNT(*) FROM "+table+" WHERE activity_id = ?", activityID).Scan(&n)
		if err != nil {
			return nil, fmt.Errorf("failed to count rows in %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}
