package stryd

// ActivitySummary is one entry from the calendar listing. It carries enough
// to decide whether an activity is in scope for a sync run; the full sensor
// payload requires a separate detail fetch.
type ActivitySummary struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
}

// LatLng is a geographic coordinate. The API uses capitalized keys for
// these, unlike everything else.
type LatLng struct {
	Lat *float64 `json:"Lat"`
	Lng *float64 `json:"Lng"`
}

// MapInfo holds the encoded route polylines for an activity.
type MapInfo struct {
	Polyline        string `json:"polyline"`
	SummaryPolyline string `json:"summary_polyline"`
}

// DeviceInfo identifies the recording pod.
type DeviceInfo struct {
	DeviceID    string `json:"device_id"`
	DeviceModel string `json:"device_model"`
	DeviceSWRev string `json:"device_sw_rev"`
	DeviceFWRev string `json:"device_fw_rev"`
}

// WatchInfo identifies the paired watch.
type WatchInfo struct {
	ProductID    string `json:"product_id"`
	Manufacturer string `json:"manufacturer"`
}

// Zone is one named power zone definition. Bounds arrive as floats but are
// stored as integer watts.
type Zone struct {
	Name      string  `json:"name"`
	PowerLow  float64 `json:"power_low"`
	PowerHigh float64 `json:"power_high"`
}

// LapInfo is one recorded lap event.
type LapInfo struct {
	Timestamp   int64  `json:"timestamp"`
	Trigger     *int64 `json:"trigger"`
	WorkoutStep *int64 `json:"workout_step"`
}

// Events groups the event streams attached to an activity.
type Events struct {
	Laps []LapInfo `json:"laps"`
}

// ActivityDetail is the full per-activity payload. Optional numeric fields
// are pointers so that an absent value stays distinguishable from zero all
// the way into the store; list fields use pointer elements because the API
// emits in-array nulls on sensor dropout.
type ActivityDetail struct {
	ID          int64  `json:"id"`
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Feel        string `json:"feel"`
	RPE         *int64 `json:"rpe"`

	Timestamp   int64  `json:"timestamp"`
	StartTime   int64  `json:"start_time"`
	MovingTime  int64  `json:"moving_time"`
	ElapsedTime int64  `json:"elapsed_time"`
	ClockTime   int64  `json:"clock_time"`
	TimeZone    string `json:"time_zone"`
	Created     int64  `json:"created"`
	Updated     int64  `json:"updated"`

	Distance           *float64 `json:"distance"`
	TotalElevationGain *float64 `json:"total_elevation_gain"`
	TotalElevationLoss *float64 `json:"total_elevation_loss"`
	MinElevation       *float64 `json:"min_elevation"`
	MaxElevation       *float64 `json:"max_elevation"`

	AverageSpeed *float64 `json:"average_speed"`
	MaxSpeed     *float64 `json:"max_speed"`

	AverageCadence *int64 `json:"average_cadence"`
	MinCadence     *int64 `json:"min_cadence"`
	MaxCadence     *int64 `json:"max_cadence"`

	AverageStrideLength *float64 `json:"average_stride_length"`
	MinStrideLength     *float64 `json:"min_stride_length"`
	MaxStrideLength     *float64 `json:"max_stride_length"`

	AveragePower   *float64 `json:"average_power"`
	MaxPower       *int64   `json:"max_power"`
	FTP            *float64 `json:"ftp"`
	CriticalImpact *float64 `json:"critical_impact"`

	AverageHeartRate *int64 `json:"average_heart_rate"`
	MaxHeartRate     *int64 `json:"max_heart_rate"`
	Calories         *int64 `json:"calories"`

	AverageGroundTime                *float64 `json:"average_ground_time"`
	MinGroundTime                    *int64   `json:"min_ground_time"`
	MaxGroundTime                    *int64   `json:"max_ground_time"`
	AverageGroundTimeBalance         *float64 `json:"average_ground_time_balance"`
	AverageOscillation               *float64 `json:"average_oscillation"`
	MinOscillation                   *float64 `json:"min_oscillation"`
	MaxOscillation                   *float64 `json:"max_oscillation"`
	AverageVerticalRatio             *float64 `json:"average_vertical_ratio"`
	AverageVerticalOscillationBal    *float64 `json:"average_vertical_oscillation_balance"`
	AverageLegSpring                 *float64 `json:"average_leg_spring"`
	AverageLegSpringStiffnessBalance *float64 `json:"average_leg_spring_stiffness_balance"`
	AverageImpactLoadingRateBalance  *float64 `json:"average_impact_loading_rate_balance"`
	MaxVerticalStiffness             *float64 `json:"max_vertical_stiffness"`

	Stress          *float64 `json:"stress"`
	LowerBodyStress *float64 `json:"lower_body_stress"`
	Stryds          *float64 `json:"stryds"`

	Source        string `json:"source"`
	SurfaceType   string `json:"surface_type"`
	RecordingMode string `json:"recording_mode"`
	SportType     *int64 `json:"sport_type"`
	PowerType     string `json:"power_type"`

	Weight *int64 `json:"weight"`
	Height *int64 `json:"height"`

	Temperature *int64   `json:"temperature"`
	DewPoint    *int64   `json:"dewPoint"`
	Humidity    *int64   `json:"humidity"`
	WindSpeed   *float64 `json:"windSpeed"`
	WindBearing *int64   `json:"windBearing"`
	WindGust    *int64   `json:"windGust"`
	Icon        string   `json:"icon"`

	LocationCity    string `json:"location_city"`
	LocationCountry string `json:"location_country"`
	LocationState   string `json:"location_state"`

	Tags []string `json:"tags"`

	WorkoutID       string `json:"workout_id"`
	WorkoutSource   string `json:"workout_source"`
	WorkoutSourceID string `json:"workout_source_id"`
	FilePath        string `json:"file_path"`
	MapImageLink    string `json:"map_image_link"`

	StartPoint *LatLng     `json:"start_point"`
	EndPoint   *LatLng     `json:"end_point"`
	Map        *MapInfo    `json:"map"`
	DeviceInfo *DeviceInfo `json:"device_info"`
	WatchInfo  *WatchInfo  `json:"watch_info"`
	Events     *Events     `json:"events"`

	Zones          []Zone  `json:"zones"`
	SecondsInZones []int64 `json:"seconds_in_zones"`

	// Time series. TimestampList is the authoritative sample index; every
	// other list is aligned to it by position and may be shorter.
	TimestampList []int64 `json:"timestamp_list"`

	TotalPowerList      []*int64   `json:"total_power_list"`
	HorizontalPowerList []*int64   `json:"horizontal_power_list"`
	VerticalPowerList   []*int64   `json:"vertical_power_list"`
	AirPowerList        []*int64   `json:"air_power_list"`
	ElevationPowerList  []*float64 `json:"elevation_power_list"`

	SpeedList        []*float64 `json:"speed_list"`
	DistanceList     []*float64 `json:"distance_list"`
	CadenceList      []*int64   `json:"cadence_list"`
	StrideLengthList []*float64 `json:"stride_length_list"`

	HeartRateList  []*int64 `json:"heart_rate_list"`
	RRIntervalList []*int64 `json:"rr_interval_list"`

	GroundTimeList             []*int64   `json:"ground_time_list"`
	GroundTimeBalanceList      []*float64 `json:"ground_time_balance_list"`
	OscillationList            []*float64 `json:"oscillation_list"`
	VerticalOscillationBalList []*float64 `json:"vertical_oscillation_balance_list"`
	LegSpringList              []*int64   `json:"leg_spring_list"`
	LegSpringStiffnessBalList  []*float64 `json:"leg_spring_stiffness_balance_list"`
	ImpactList                 []*int64   `json:"impact_list"`
	ImpactLoadingRateBalList   []*float64 `json:"impact_loading_rate_balance_list"`
	VerticalRatioList          []*float64 `json:"vertical_ratio_list"`

	ElevationList []*float64 `json:"elevation_list"`
	GradeList     []*int64   `json:"grade_list"`

	LocList []*LatLng `json:"loc_list"`
}
