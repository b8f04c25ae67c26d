package normalize

// ActivityRow is the flattened activities-table row. Nested payload objects
// (start/end point, map, device and watch info) become prefixed scalar
// columns; optional values stay pointers so absence reaches the store as
// NULL.
type ActivityRow struct {
	ID          int64
	UserID      string
	Name        string
	Description string
	Type        string
	Feel        string
	RPE         *int64

	Timestamp   int64
	StartTime   int64
	Date        string
	MovingTime  int64
	ElapsedTime int64
	ClockTime   int64
	TimeZone    string

	Distance           *float64
	TotalElevationGain *float64
	TotalElevationLoss *float64
	MinElevation       *float64
	MaxElevation       *float64

	AverageSpeed *float64
	MaxSpeed     *float64

	AverageCadence *int64
	MinCadence     *int64
	MaxCadence     *int64

	AverageStrideLength *float64
	MinStrideLength     *float64
	MaxStrideLength     *float64

	AveragePower   *float64
	MaxPower       *int64
	FTP            *float64
	CriticalImpact *float64

	AverageHeartRate *int64
	MaxHeartRate     *int64
	Calories         *int64

	AverageGroundTime                *float64
	MinGroundTime                    *int64
	MaxGroundTime                    *int64
	AverageGroundTimeBalance         *float64
	AverageOscillation               *float64
	MinOscillation                   *float64
	MaxOscillation                   *float64
	AverageVerticalRatio             *float64
	AverageVerticalOscillationBal    *float64
	AverageLegSpring                 *float64
	AverageLegSpringStiffnessBalance *float64
	AverageImpactLoadingRateBalance  *float64
	MaxVerticalStiffness             *float64

	Stress          *float64
	LowerBodyStress *float64
	Stryds          *float64

	Source        string
	SurfaceType   string
	RecordingMode string
	SportType     *int64
	PowerType     string

	Weight *int64
	Height *int64

	Temperature *int64
	DewPoint    *int64
	Humidity    *int64
	WindSpeed   *float64
	WindBearing *int64
	WindGust    *int64
	Icon        string

	LocationCity    string
	LocationCountry string
	LocationState   string

	Tags string

	WorkoutID       string
	WorkoutSource   string
	WorkoutSourceID string
	FilePath        string
	MapImageLink    string

	Polyline        string
	SummaryPolyline string

	StartLat *float64
	StartLng *float64
	EndLat   *float64
	EndLng   *float64

	DeviceID       string
	DeviceModel    string
	DeviceSWRev    string
	DeviceFWRev    string
	WatchProductID string
	WatchMfr       string

	Created int64
	Updated int64

	// SyncedAt is stamped by the store at write time, not by Normalize.
	SyncedAt int64
}

// ZoneRow is one (activity, named power zone) bucket.
type ZoneRow struct {
	ActivityID int64
	Name       string
	PowerLow   int64
	PowerHigh  int64
	Seconds    int64
	Percentage float64
}

// PowerSample is one power-family time-series row.
type PowerSample struct {
	ActivityID      int64
	Timestamp       int64
	TotalPower      *int64
	HorizontalPower *int64
	VerticalPower   *int64
	AirPower        *int64
	ElevationPower  *float64
}

// KinematicsSample is one kinematics-family time-series row.
type KinematicsSample struct {
	ActivityID   int64
	Timestamp    int64
	Speed        *float64
	Distance     *float64
	Cadence      *int64
	StrideLength *float64
}

// CardioSample is one cardio-family time-series row.
type CardioSample struct {
	ActivityID int64
	Timestamp  int64
	HeartRate  *int64
	RRInterval *int64
}

// BiomechanicsSample is one biomechanics-family time-series row.
type BiomechanicsSample struct {
	ActivityID               int64
	Timestamp                int64
	GroundTime               *int64
	GroundTimeBalance        *float64
	Oscillation              *float64
	VerticalOscillationBal   *float64
	LegSpring                *int64
	LegSpringStiffnessBal    *float64
	Impact                   *int64
	ImpactLoadingRateBalance *float64
	VerticalRatio            *float64
}

// ElevationSample is one elevation-family time-series row.
type ElevationSample struct {
	ActivityID int64
	Timestamp  int64
	Elevation  *float64
	Grade      *int64
}

// GPSPoint is one location sample. Unlike the other families a row exists
// only where the source recorded a location.
type GPSPoint struct {
	ActivityID int64
	Timestamp  int64
	Lat        *float64
	Lng        *float64
}

// Lap is one recorded lap, numbered from 1 in input order.
type Lap struct {
	ActivityID  int64
	LapNumber   int64
	Timestamp   int64
	Trigger     *int64
	WorkoutStep *int64
}

// RowGroups is the complete normalized form of one activity payload: one
// group per destination table. It is written (or rejected) as a single
// transactional unit.
type RowGroups struct {
	Activity     ActivityRow
	Zones        []ZoneRow
	Power        []PowerSample
	Kinematics   []KinematicsSample
	Cardio       []CardioSample
	Biomechanics []BiomechanicsSample
	Elevation    []ElevationSample
	GPS          []GPSPoint
	Laps         []Lap
}
