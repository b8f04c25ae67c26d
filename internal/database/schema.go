package database

// Schema contains all SQL statements for creating tables and indexes
const Schema = `
-- Activities table: one row per synced activity (metadata)
CREATE TABLE IF NOT EXISTS activities (
    id INTEGER PRIMARY KEY,
    user_id TEXT,
    name TEXT,
    description TEXT,
    type TEXT,
    feel TEXT,
    rpe INTEGER,

    -- Timing
    timestamp INTEGER NOT NULL,
    start_time INTEGER,
    date TEXT,
    moving_time INTEGER,
    elapsed_time INTEGER,
    clock_time INTEGER,
    time_zone TEXT,

    -- Distance and elevation
    distance REAL,
    total_elevation_gain REAL,
    total_elevation_loss REAL,
    min_elevation REAL,
    max_elevation REAL,

    -- Speed and cadence
    average_speed REAL,
    max_speed REAL,
    average_cadence INTEGER,
    min_cadence INTEGER,
    max_cadence INTEGER,
    average_stride_length REAL,
    min_stride_length REAL,
    max_stride_length REAL,

    -- Power
    average_power REAL,
    max_power INTEGER,
    ftp REAL,
    critical_impact REAL,

    -- Cardio
    average_heart_rate INTEGER,
    max_heart_rate INTEGER,
    calories INTEGER,

    -- Biomechanics
    average_ground_time REAL,
    min_ground_time INTEGER,
    max_ground_time INTEGER,
    average_ground_time_balance REAL,
    average_oscillation REAL,
    min_oscillation REAL,
    max_oscillation REAL,
    average_vertical_ratio REAL,
    average_vertical_oscillation_balance REAL,
    average_leg_spring REAL,
    average_leg_spring_stiffness_balance REAL,
    average_impact_loading_rate_balance REAL,
    max_vertical_stiffness REAL,

    -- Training load
    stress REAL,
    lower_body_stress REAL,
    stryds REAL,

    -- Recording context
    source TEXT,
    surface_type TEXT,
    recording_mode TEXT,
    sport_type INTEGER,
    power_type TEXT,
    weight INTEGER,
    height INTEGER,

    -- Weather
    temperature INTEGER,
    dew_point INTEGER,
    humidity INTEGER,
    wind_speed REAL,
    wind_bearing INTEGER,
    wind_gust INTEGER,
    icon TEXT,

    -- Location
    location_city TEXT,
    location_country TEXT,
    location_state TEXT,

    tags TEXT,

    -- Workout linkage
    workout_id TEXT,
    workout_source TEXT,
    workout_source_id TEXT,
    file_path TEXT,

    -- Route
    map_image_link TEXT,
    polyline TEXT,
    summary_polyline TEXT,
    start_lat REAL,
    start_lng REAL,
    end_lat REAL,
    end_lng REAL,

    -- Devices
    device_id TEXT,
    device_model TEXT,
    device_sw_rev TEXT,
    device_fw_rev TEXT,
    watch_product_id TEXT,
    watch_manufacturer TEXT,

    -- Metadata
    created INTEGER,
    updated INTEGER,
    synced_at INTEGER NOT NULL
);

-- Power zone distribution: one row per (activity, named zone)
CREATE TABLE IF NOT EXISTS zones_distribution (
    activity_id INTEGER NOT NULL,
    zone_name TEXT NOT NULL,
    power_low INTEGER,
    power_high INTEGER,
    seconds INTEGER,
    percentage REAL,
    PRIMARY KEY (activity_id, zone_name),
    FOREIGN KEY (activity_id) REFERENCES activities(id)
);

-- Time series: power family
CREATE TABLE IF NOT EXISTS timeseries_power (
    activity_id INTEGER NOT NULL,
    timestamp INTEGER NOT NULL,
    total_power INTEGER,
    horizontal_power INTEGER,
    vertical_power INTEGER,
    air_power INTEGER,
    elevation_power REAL,
    FOREIGN KEY (activity_id) REFERENCES activities(id)
);

-- Time series: kinematics family
CREATE TABLE IF NOT EXISTS timeseries_kinematics (
    activity_id INTEGER NOT NULL,
    timestamp INTEGER NOT NULL,
    speed REAL,
    distance REAL,
    cadence INTEGER,
    stride_length REAL,
    FOREIGN KEY (activity_id) REFERENCES activities(id)
);

-- Time series: cardio family
CREATE TABLE IF NOT EXISTS timeseries_cardio (
    activity_id INTEGER NOT NULL,
    timestamp INTEGER NOT NULL,
    heart_rate INTEGER,
    rr_interval INTEGER,
    FOREIGN KEY (activity_id) REFERENCES activities(id)
);

-- Time series: biomechanics family
CREATE TABLE IF NOT EXISTS timeseries_biomechanics (
    activity_id INTEGER NOT NULL,
    timestamp INTEGER NOT NULL,
    ground_time INTEGER,
    ground_time_balance REAL,
    oscillation REAL,
    vertical_oscillation_balance REAL,
    leg_spring INTEGER,
    leg_spring_stiffness_balance REAL,
    impact INTEGER,
    impact_loading_rate_balance REAL,
    vertical_ratio REAL,
    FOREIGN KEY (activity_id) REFERENCES activities(id)
);

-- Time series: elevation family
CREATE TABLE IF NOT EXISTS timeseries_elevation (
    activity_id INTEGER NOT NULL,
    timestamp INTEGER NOT NULL,
    elevation REAL,
    grade INTEGER,
    FOREIGN KEY (activity_id) REFERENCES activities(id)
);

-- GPS points: rows exist only where a location sample was recorded
CREATE TABLE IF NOT EXISTS gps_points (
    activity_id INTEGER NOT NULL,
    timestamp INTEGER NOT NULL,
    lat REAL,
    lng REAL,
    FOREIGN KEY (activity_id) REFERENCES activities(id)
);

-- Laps: one row per (activity, 1-based lap number)
CREATE TABLE IF NOT EXISTS laps (
    activity_id INTEGER NOT NULL,
    lap_number INTEGER NOT NULL,
    timestamp INTEGER,
    "trigger" INTEGER,
    workout_step INTEGER,
    PRIMARY KEY (activity_id, lap_number),
    FOREIGN KEY (activity_id) REFERENCES activities(id)
);

-- Indexes for activities table
CREATE INDEX IF NOT EXISTS idx_activities_date ON activities(date);
CREATE INDEX IF NOT EXISTS idx_activities_type ON activities(type);
CREATE INDEX IF NOT EXISTS idx_activities_timestamp ON activities(timestamp);

-- Indexes for dependent tables
CREATE INDEX IF NOT EXISTS idx_timeseries_power_activity ON timeseries_power(activity_id);
CREATE INDEX IF NOT EXISTS idx_timeseries_kinematics_activity ON timeseries_kinematics(activity_id);
CREATE INDEX IF NOT EXISTS idx_timeseries_cardio_activity ON timeseries_cardio(activity_id);
CREATE INDEX IF NOT EXISTS idx_timeseries_biomechanics_activity ON timeseries_biomechanics(activity_id);
CREATE INDEX IF NOT EXISTS idx_timeseries_elevation_activity ON timeseries_elevation(activity_id);
CREATE INDEX IF NOT EXISTS idx_gps_points_activity ON gps_points(activity_id);
`
