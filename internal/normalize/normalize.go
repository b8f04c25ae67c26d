// Package normalize maps one raw activity payload into the row groups of
// the relational schema. It is pure: no I/O, no clock reads, and the same
// payload always produces the same row groups.
package normalize

import (
	"errors"
	"strings"
	"time"

	"stryd-activity-sync/internal/stryd"
)

// ErrMissingID is returned when a payload has no activity id. The id is the
// only required field; everything else defaults to null.
var ErrMissingID = errors.New("activity payload missing id")

// Normalize converts a typed activity detail payload into RowGroups.
//
// Every time-series family emits exactly one row per entry in the
// timestamp list, with nil for fields whose backing array is missing or too
// short. GPS is the exception: a row is emitted only where a location entry
// exists, so "no GPS" produces no row rather than a null one.
func Normalize(d *stryd.ActivityDetail) (*RowGroups, error) {
	if d == nil || d.ID == 0 {
		return nil, ErrMissingID
	}

	rg := &RowGroups{
		Activity: activityRow(d),
		Zones:    zoneRows(d),
		Laps:     lapRows(d),
	}

	for i, ts := range d.TimestampList {
		rg.Power = append(rg.Power, PowerSample{
			ActivityID:      d.ID,
			Timestamp:       ts,
			TotalPower:      at(d.TotalPowerList, i),
			HorizontalPower: at(d.HorizontalPowerList, i),
			VerticalPower:   at(d.VerticalPowerList, i),
			AirPower:        at(d.AirPowerList, i),
			ElevationPower:  at(d.ElevationPowerList, i),
		})

		rg.Kinematics = append(rg.Kinematics, KinematicsSample{
			ActivityID:   d.ID,
			Timestamp:    ts,
			Speed:        at(d.SpeedList, i),
			Distance:     at(d.DistanceList, i),
			Cadence:      at(d.CadenceList, i),
			StrideLength: at(d.StrideLengthList, i),
		})

		rg.Cardio = append(rg.Cardio, CardioSample{
			ActivityID: d.ID,
			Timestamp:  ts,
			HeartRate:  at(d.HeartRateList, i),
			RRInterval: at(d.RRIntervalList, i),
		})

		rg.Biomechanics = append(rg.Biomechanics, BiomechanicsSample{
			ActivityID:               d.ID,
			Timestamp:                ts,
			GroundTime:               at(d.GroundTimeList, i),
			GroundTimeBalance:        at(d.GroundTimeBalanceList, i),
			Oscillation:              at(d.OscillationList, i),
			VerticalOscillationBal:   at(d.VerticalOscillationBalList, i),
			LegSpring:                at(d.LegSpringList, i),
			LegSpringStiffnessBal:    at(d.LegSpringStiffnessBalList, i),
			Impact:                   at(d.ImpactList, i),
			ImpactLoadingRateBalance: at(d.ImpactLoadingRateBalList, i),
			VerticalRatio:            at(d.VerticalRatioList, i),
		})

		rg.Elevation = append(rg.Elevation, ElevationSample{
			ActivityID: d.ID,
			Timestamp:  ts,
			Elevation:  at(d.ElevationList, i),
			Grade:      at(d.GradeList, i),
		})

		if i < len(d.LocList) && d.LocList[i] != nil {
			rg.GPS = append(rg.GPS, GPSPoint{
				ActivityID: d.ID,
				Timestamp:  ts,
				Lat:        d.LocList[i].Lat,
				Lng:        d.LocList[i].Lng,
			})
		}
	}

	return rg, nil
}

func activityRow(d *stryd.ActivityDetail) ActivityRow {
	row := ActivityRow{
		ID:          d.ID,
		UserID:      d.UserID,
		Name:        d.Name,
		Description: d.Description,
		Type:        d.Type,
		Feel:        d.Feel,
		RPE:         d.RPE,

		Timestamp:   d.Timestamp,
		StartTime:   d.StartTime,
		Date:        time.Unix(d.Timestamp, 0).Format("2006-01-02 15:04:05"),
		MovingTime:  d.MovingTime,
		ElapsedTime: d.ElapsedTime,
		ClockTime:   d.ClockTime,
		TimeZone:    d.TimeZone,

		Distance:           d.Distance,
		TotalElevationGain: d.TotalElevationGain,
		TotalElevationLoss: d.TotalElevationLoss,
		MinElevation:       d.MinElevation,
		MaxElevation:       d.MaxElevation,

		AverageSpeed: d.AverageSpeed,
		MaxSpeed:     d.MaxSpeed,

		AverageCadence: d.AverageCadence,
		MinCadence:     d.MinCadence,
		MaxCadence:     d.MaxCadence,

		AverageStrideLength: d.AverageStrideLength,
		MinStrideLength:     d.MinStrideLength,
		MaxStrideLength:     d.MaxStrideLength,

		AveragePower:   d.AveragePower,
		MaxPower:       d.MaxPower,
		FTP:            d.FTP,
		CriticalImpact: d.CriticalImpact,

		AverageHeartRate: d.AverageHeartRate,
		MaxHeartRate:     d.MaxHeartRate,
		Calories:         d.Calories,

		AverageGroundTime:                d.AverageGroundTime,
		MinGroundTime:                    d.MinGroundTime,
		MaxGroundTime:                    d.MaxGroundTime,
		AverageGroundTimeBalance:         d.AverageGroundTimeBalance,
		AverageOscillation:               d.AverageOscillation,
		MinOscillation:                   d.MinOscillation,
		MaxOscillation:                   d.MaxOscillation,
		AverageVerticalRatio:             d.AverageVerticalRatio,
		AverageVerticalOscillationBal:    d.AverageVerticalOscillationBal,
		AverageLegSpring:                 d.AverageLegSpring,
		AverageLegSpringStiffnessBalance: d.AverageLegSpringStiffnessBalance,
		AverageImpactLoadingRateBalance:  d.AverageImpactLoadingRateBalance,
		MaxVerticalStiffness:             d.MaxVerticalStiffness,

		Stress:          d.Stress,
		LowerBodyStress: d.LowerBodyStress,
		Stryds:          d.Stryds,

		Source:        d.Source,
		SurfaceType:   d.SurfaceType,
		RecordingMode: d.RecordingMode,
		SportType:     d.SportType,
		PowerType:     d.PowerType,

		Weight: d.Weight,
		Height: d.Height,

		Temperature: d.Temperature,
		DewPoint:    d.DewPoint,
		Humidity:    d.Humidity,
		WindSpeed:   d.WindSpeed,
		WindBearing: d.WindBearing,
		WindGust:    d.WindGust,
		Icon:        d.Icon,

		LocationCity:    d.LocationCity,
		LocationCountry: d.LocationCountry,
		LocationState:   d.LocationState,

		// Absent or empty tag lists become an empty string, never null.
		Tags: strings.Join(d.Tags, ","),

		WorkoutID:       d.WorkoutID,
		WorkoutSource:   d.WorkoutSource,
		WorkoutSourceID: d.WorkoutSourceID,
		FilePath:        d.FilePath,
		MapImageLink:    d.MapImageLink,

		Created: d.Created,
		Updated: d.Updated,
	}

	if d.Map != nil {
		row.Polyline = d.Map.Polyline
		row.SummaryPolyline = d.Map.SummaryPolyline
	}
	if d.StartPoint != nil {
		row.StartLat = d.StartPoint.Lat
		row.StartLng = d.StartPoint.Lng
	}
	if d.EndPoint != nil {
		row.EndLat = d.EndPoint.Lat
		row.EndLng = d.EndPoint.Lng
	}
	if d.DeviceInfo != nil {
		row.DeviceID = d.DeviceInfo.DeviceID
		row.DeviceModel = d.DeviceInfo.DeviceModel
		row.DeviceSWRev = d.DeviceInfo.DeviceSWRev
		row.DeviceFWRev = d.DeviceInfo.DeviceFWRev
	}
	if d.WatchInfo != nil {
		row.WatchProductID = d.WatchInfo.ProductID
		row.WatchMfr = d.WatchInfo.Manufacturer
	}

	return row
}

// zoneRows pairs zones[i] with seconds_in_zones[i]; the shorter list wins.
func zoneRows(d *stryd.ActivityDetail) []ZoneRow {
	n := min(len(d.Zones), len(d.SecondsInZones))

	var rows []ZoneRow
	for i := 0; i < n; i++ {
		zone := d.Zones[i]
		seconds := d.SecondsInZones[i]

		var pct float64
		if d.MovingTime > 0 {
			pct = float64(seconds) / float64(d.MovingTime) * 100
		}

		rows = append(rows, ZoneRow{
			ActivityID: d.ID,
			Name:       zone.Name,
			PowerLow:   int64(zone.PowerLow),
			PowerHigh:  int64(zone.PowerHigh),
			Seconds:    seconds,
			Percentage: pct,
		})
	}
	return rows
}

func lapRows(d *stryd.ActivityDetail) []Lap {
	if d.Events == nil {
		return nil
	}

	var rows []Lap
	for i, lap := range d.Events.Laps {
		rows = append(rows, Lap{
			ActivityID:  d.ID,
			LapNumber:   int64(i + 1),
			Timestamp:   lap.Timestamp,
			Trigger:     lap.Trigger,
			WorkoutStep: lap.WorkoutStep,
		})
	}
	return rows
}

// at reads list[i], or nil when the list is missing or too short.
func at[T any](list []*T, i int) *T {
	if i < len(list) {
		return list[i]
	}
	return nil
}
