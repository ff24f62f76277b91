package constants

import "time"

// Intensity represents the effort level of a scheduled workout
type Intensity string

// SlotStatus represents whether a schedule slot is a rest day or a workout
type SlotStatus string

// Tier represents the importance of a race (A = goal race)
type Tier string

// WorkoutStatus mirrors the intervals.icu workout status values
type WorkoutStatus string

// WebhookEvent is an event name posted to n8n
type WebhookEvent string

const (
	AppName              = "stridelog"
	DefaultKeyringUser   = "database-connection"
	APIKeyKeyringUser    = "intervals-api-key"
	DefaultConfigPath    = "~/.config/stridelog/stridelog.db"
	MemoryStoreConfig    = "memory"
	Version              = "v0.3.0"
	DeliveryHeader       = "X-Stridelog-Delivery"
	SecretHeader         = "X-Stridelog-Secret"
	DefaultIntervalsURL  = "https://intervals.icu/api/v1"
	CurrentAthleteID     = "i"
	FlagURLTemplate      = "https://flagcdn.com/24x18/%s.png"
	IntervalsHistoryDays = 30

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "stridelog-"
	BackupFileSuffix = ".db"

	// Shoe defaults
	DefaultShoeMaxKm = 700.0
	MinShoeRating    = 1
	MaxShoeRating    = 5

	// Weight tracker advances one simulated week per update
	WeightUpdateInterval = 7 * 24 * time.Hour
	WeightUpdateDays     = 7

	// Race status windows
	UpcomingRaceDays = 30

	// Slot statuses
	SlotRest    SlotStatus = "rest"
	SlotWorkout SlotStatus = "workout"

	// Intensities
	IntensityEasy   Intensity = "easy"
	IntensityMedium Intensity = "medium"
	IntensityHard   Intensity = "hard"

	// Race tiers
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"

	// Workout statuses
	WorkoutPlanned   WorkoutStatus = "PLANNED"
	WorkoutCompleted WorkoutStatus = "COMPLETED"
	WorkoutCancelled WorkoutStatus = "CANCELLED"

	// Outbound webhook events
	EventWorkoutCreated    WebhookEvent = "workout.created"
	EventWorkoutCompleted  WebhookEvent = "workout.completed"
	EventStatsUpdated      WebhookEvent = "stats.updated"
	EventAthleteRegistered WebhookEvent = "athlete.registered"

	// Inbound webhook events
	EventExternalWorkoutImport WebhookEvent = "external.workout.import"
	EventExternalStatsSync     WebhookEvent = "external.stats.sync"
	EventNotificationSend      WebhookEvent = "notification.send"
)

// DaysPerWeek is the fixed length of a training week
const DaysPerWeek = 7

// WeightStep is a step of the weight tracker flow
type WeightStep string

const (
	WeightStepEmpty   WeightStep = "empty"
	WeightStepInput   WeightStep = "input"
	WeightStepDisplay WeightStep = "display"
	WeightStepUpdate  WeightStep = "update"
	WeightStepHistory WeightStep = "history"
)
