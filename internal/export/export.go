// Package export writes flat-file projections of committed activity rows.
// It is read-only: everything here is formatting over data the store has
// already committed.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"stryd-activity-sync/internal/database"
)

// zoneColumns maps zone position to the column name family used in exports
var zoneColumns = []string{"easy", "moderate", "threshold", "interval", "repetition"}

// PowerZone is one zone bucket in the JSON projection.
type PowerZone struct {
	Name      string  `json:"name"`
	PowerLow  int64   `json:"power_low"`
	PowerHigh int64   `json:"power_high"`
	TimeMin   float64 `json:"time_min"`
	TimePct   float64 `json:"time_pct"`
}

// Row is one activity in the export projection.
type Row struct {
	Date             string      `json:"date"`
	Name             string      `json:"name"`
	Type             string      `json:"type"`
	Feel             string      `json:"feel"`
	RPE              int64       `json:"rpe"`
	Source           string      `json:"source"`
	SurfaceType      string      `json:"surface_type"`
	RecordingMode    string      `json:"recording_mode"`
	Tags             string      `json:"tags"`
	DistanceKm       float64     `json:"distance_km"`
	MovingTimeMin    float64     `json:"moving_time_min"`
	ElevationGainM   float64     `json:"elevation_gain_m"`
	ElevationLossM   float64     `json:"elevation_loss_m"`
	AvgPaceMinKm     string      `json:"avg_pace_min_km"`
	AvgPowerW        int64       `json:"avg_power_w"`
	CriticalPowerW   int64       `json:"critical_power_w"`
	CriticalImpact   float64     `json:"critical_impact"`
	AvgHeartRateBpm  int64       `json:"avg_heart_rate_bpm"`
	PowerZones       []PowerZone `json:"power_zones"`
}

// FromStore reads committed rows and shapes them for export, oldest first.
func FromStore(db *database.DB) ([]Row, error) {
	activities, err := db.ListActivityExports(0)
	if err != nil {
		return nil, fmt.Errorf("failed to read activities: %w", err)
	}

	rows := make([]Row, 0, len(activities))
	for _, a := range activities {
		row := Row{
			Date:            a.Date,
			Name:            a.Name,
			Type:            a.Type,
			Feel:            a.Feel,
			RPE:             intOrZero(a.RPE),
			Source:          a.Source,
			SurfaceType:     a.SurfaceType,
			RecordingMode:   a.RecordingMode,
			Tags:            a.Tags,
			DistanceKm:      round2(floatOrZero(a.Distance) / 1000),
			MovingTimeMin:   round1(float64(a.MovingTime) / 60),
			ElevationGainM:  round1(floatOrZero(a.TotalElevationGain)),
			ElevationLossM:  round1(math.Abs(floatOrZero(a.TotalElevationLoss))),
			AvgPaceMinKm:    pace(floatOrZero(a.AverageSpeed)),
			AvgPowerW:       int64(floatOrZero(a.AveragePower)),
			CriticalPowerW:  int64(floatOrZero(a.FTP)),
			CriticalImpact:  round1(floatOrZero(a.CriticalImpact)),
			AvgHeartRateBpm: intOrZero(a.AverageHeartRate),
		}

		zones, err := db.ZonesForActivity(a.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to read zones for activity %d: %w", a.ID, err)
		}
		for _, z := range zones {
			row.PowerZones = append(row.PowerZones, PowerZone{
				Name:      z.Name,
				PowerLow:  z.PowerLow,
				PowerHigh: z.PowerHigh,
				TimeMin:   round1(float64(z.Seconds) / 60),
				TimePct:   round1(z.Percentage),
			})
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// WriteCSV writes the rows as CSV with fixed zone columns per named zone
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)

	header := []string{
		"date", "name", "type", "feel", "rpe", "source", "surface_type",
		"recording_mode", "tags", "distance_km", "moving_time_min",
		"elevation_gain_m", "elevation_loss_m", "avg_pace_min_km",
		"avg_power_w", "critical_power_w", "critical_impact", "avg_heart_rate_bpm",
	}
	for _, zone := range zoneColumns {
		header = append(header, "zone_"+zone+"_min", "zone_"+zone+"_pct")
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.Date,
			row.Name,
			row.Type,
			row.Feel,
			fmt.Sprintf("%d", row.RPE),
			row.Source,
			row.SurfaceType,
			row.RecordingMode,
			row.Tags,
			fmt.Sprintf("%.2f", row.DistanceKm),
			fmt.Sprintf("%.1f", row.MovingTimeMin),
			fmt.Sprintf("%.1f", row.ElevationGainM),
			fmt.Sprintf("%.1f", row.ElevationLossM),
			row.AvgPaceMinKm,
			fmt.Sprintf("%d", row.AvgPowerW),
			fmt.Sprintf("%d", row.CriticalPowerW),
			fmt.Sprintf("%.1f", row.CriticalImpact),
			fmt.Sprintf("%d", row.AvgHeartRateBpm),
		}

		// Positional zones; missing zones export as zero
		for i := range zoneColumns {
			if i < len(row.PowerZones) {
				record = append(record,
					fmt.Sprintf("%.1f", row.PowerZones[i].TimeMin),
					fmt.Sprintf("%.1f", row.PowerZones[i].TimePct))
			} else {
				record = append(record, "0.0", "0.0")
			}
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the rows as an indented JSON array
func WriteJSON(w io.Writer, rows []Row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// pace formats m/s speed as min:sec per km, empty when speed is zero
func pace(speed float64) string {
	if speed <= 0 {
		return ""
	}
	secondsPerKm := 1000 / speed
	return fmt.Sprintf("%d:%02d", int(secondsPerKm)/60, int(secondsPerKm)%60)
}

func floatOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func intOrZero(i *int64) int64 {
	if i == nil {
		return 0
	}
	return *i
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
