package intervals

import "github.com/julianstephens/stridelog/internal/constants"

// Credentials holds the intervals.icu API key
type Credentials struct {
	APIKey string
}

type Athlete struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email,omitempty"`
	Avatar         string   `json:"avatar,omitempty"`
	Sport          string   `json:"sport,omitempty"`
	Weight         *float64 `json:"weight,omitempty"`
	MaxHR          *int     `json:"maxHR,omitempty"`
	RestingHR      *int     `json:"restingHR,omitempty"`
	FTPWatts       *int     `json:"ftpWatts,omitempty"`
	ThresholdPace  *float64 `json:"thresholdPace,omitempty"`
	Created        string   `json:"created,omitempty"`
	Premium        bool     `json:"premium,omitempty"`
	CanViewFitness bool     `json:"canViewFitness,omitempty"`
}

// WorkoutMetrics are the optional load figures attached to a workout
type WorkoutMetrics struct {
	TSS       *float64 `json:"tss,omitempty"`
	Intensity *float64 `json:"intensity,omitempty"`
	Distance  *float64 `json:"distance,omitempty"`
	Elevation *float64 `json:"elevation,omitempty"`
}

type Workout struct {
	ID          string                  `json:"id,omitempty"`
	Name        string                  `json:"name" validate:"required"`
	Description string                  `json:"description,omitempty"`
	Type        string                  `json:"type" validate:"required"`
	Date        string                  `json:"date" validate:"required,datetime=2006-01-02"`
	Duration    int                     `json:"duration" validate:"gte=0"` // seconds
	Distance    *float64                `json:"distance,omitempty" validate:"omitempty,gte=0"`
	Intensity   string                  `json:"intensity,omitempty"`
	Status      constants.WorkoutStatus `json:"status" validate:"required,oneof=PLANNED COMPLETED CANCELLED"`
	Metrics     *WorkoutMetrics         `json:"metrics,omitempty"`
}

// WorkoutUpdate is a partial workout body for PUT. Nil fields are left
// untouched by the server.
type WorkoutUpdate struct {
	Name        *string                  `json:"name,omitempty"`
	Description *string                  `json:"description,omitempty"`
	Type        *string                  `json:"type,omitempty"`
	Date        *string                  `json:"date,omitempty"`
	Duration    *int                     `json:"duration,omitempty"`
	Distance    *float64                 `json:"distance,omitempty"`
	Intensity   *string                  `json:"intensity,omitempty"`
	Status      *constants.WorkoutStatus `json:"status,omitempty"`
	Metrics     *WorkoutMetrics          `json:"metrics,omitempty"`
}

type Activity struct {
	ID                   string   `json:"id"`
	StartDateLocal       string   `json:"start_date_local"`
	Type                 string   `json:"type"`
	Name                 string   `json:"name"`
	Description          string   `json:"description,omitempty"`
	Distance             *float64 `json:"distance,omitempty"`
	MovingTime           *int     `json:"moving_time,omitempty"`
	ElapsedTime          *int     `json:"elapsed_time,omitempty"`
	TotalElevationGain   *float64 `json:"total_elevation_gain,omitempty"`
	AverageHR            *float64 `json:"average_hr,omitempty"`
	MaxHR                *float64 `json:"max_hr,omitempty"`
	AverageSpeed         *float64 `json:"average_speed,omitempty"`
	MaxSpeed             *float64 `json:"max_speed,omitempty"`
	AverageCadence       *float64 `json:"average_cadence,omitempty"`
	AverageWatts         *float64 `json:"average_watts,omitempty"`
	WeightedAverageWatts *float64 `json:"weighted_average_watts,omitempty"`
	TrainingLoad         *float64 `json:"training_load,omitempty"`
	ICUTrainingLoad      *float64 `json:"icu_training_load,omitempty"`
}

type Wellness struct {
	ID           string   `json:"id"`
	Date         string   `json:"date"`
	Weight       *float64 `json:"weight,omitempty"`
	RestingHR    *int     `json:"restingHR,omitempty"`
	HRV          *float64 `json:"hrv,omitempty"`
	SleepSecs    *int     `json:"sleepSecs,omitempty"`
	SleepQuality *int     `json:"sleepQuality,omitempty"`
	Fatigue      *int     `json:"fatigue,omitempty"`
	Soreness     *int     `json:"soreness,omitempty"`
	Stress       *int     `json:"stress,omitempty"`
	Mood         *int     `json:"mood,omitempty"`
	Motivation   *int     `json:"motivation,omitempty"`
	Injury       *int     `json:"injury,omitempty"`
	SpO2         *float64 `json:"spO2,omitempty"`
	Systolic     *int     `json:"systolic,omitempty"`
	Diastolic    *int     `json:"diastolic,omitempty"`
	Hydration    *int     `json:"hydration,omitempty"`
	KcalConsumed *int     `json:"kcalConsumed,omitempty"`
	Menstruation *bool    `json:"menstruation,omitempty"`
}

// Stats is the fitness (CTL), fatigue (ATL) and form (TSB) summary
type Stats struct {
	AthleteID       int      `json:"athleteId"`
	Fitness         *float64 `json:"fitness,omitempty"`
	Fatigue         *float64 `json:"fatigue,omitempty"`
	Form            *float64 `json:"form,omitempty"`
	RampRate        *float64 `json:"rampRate,omitempty"`
	CTLLoad         *float64 `json:"ctlLoad,omitempty"`
	ATLLoad         *float64 `json:"atlLoad,omitempty"`
	LoadRating      string   `json:"loadRating,omitempty"`
	TrainingLoad7d  *float64 `json:"trainingLoad7d,omitempty"`
	TrainingLoad30d *float64 `json:"trainingLoad30d,omitempty"`
}

// DateRange bounds list queries. Empty fields are not sent.
type DateRange struct {
	Oldest string // YYYY-MM-DD
	Newest string // YYYY-MM-DD
}
