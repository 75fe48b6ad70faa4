package constants

import "time"

const (
	// Rulebook durations. Cards and sanctions count down against wall-clock
	// time, not the match clock.
	CardDuration     = 120 * time.Second
	SanctionDuration = 120 * time.Second

	// Last stretch of regulation play in which every goal is worth double.
	FinalWindowSeconds = 120

	DefaultPeriodMinutes = 20
	CollectiveFoulLimit  = 5
)

const (
	TickInterval     = 1 * time.Second
	SyncDebounce     = 1500 * time.Millisecond
	LiveSyncInterval = 10 * time.Second
)

const (
	StoreAPITimeout = 10 * time.Second
	PushTimeout     = 10 * time.Second
	DatabaseTimeout = 5 * time.Second
	RequestTimeout  = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)
