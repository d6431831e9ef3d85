package constants

import "time"

const (
	ContextTokenData = "token_data"

	DefaultRequestTimeout = 10 * time.Second
	ShutdownTimeout       = 15 * time.Second

	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 10
	DatabaseConnMaxLifetime = 30 // minutes

	// Schedule grids
	ScheduleCacheKeyPrefix  = "schedule:"
	DefaultMinDurationHours = 2
	MaxNicknameLength       = 32

	// Background tasks
	TaskSchedulePersist = "schedule:persist"
	QueueDefault        = "default"
)
