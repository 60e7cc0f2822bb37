package types

import "time"

// CurrentAssessmentVersion is bumped when Assessment gains fields that stored
// documents need defaulted on read.
const CurrentAssessmentVersion = 1

// SystemType is the user's grid-attachment preference.
type SystemType string

const (
	SystemHybrid   SystemType = "Hybrid"
	SystemOffGrid  SystemType = "Off-grid"
	SystemGridTied SystemType = "Grid-tied"
)

// Assessment is a full snapshot of one analysis run: the inputs, every engine
// output, and optionally the AI recommendation that reviewed it. Assessments
// are immutable once saved.
type Assessment struct {
	ID        string    `json:"id"`
	UserEmail string    `json:"userEmail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`

	County         string     `json:"county"`
	GHIKWHM2Day    float64    `json:"ghiKWHM2Day"`
	SystemType     SystemType `json:"systemType"`
	BackupHours    float64    `json:"backupHours,omitempty"`

	Profile ConsumptionProfile `json:"profile"`
	Tariff  TariffResult       `json:"tariff"`

	Estimate Estimate     `json:"estimate"`
	Battery  *BatteryPlan `json:"battery,omitempty"`

	Validation     *ValidationReport `json:"validation,omitempty"`
	Recommendation *Recommendation   `json:"recommendation,omitempty"`
}

// ValidationCheck is one bound check from the recommendation validator.
type ValidationCheck struct {
	Name       string  `json:"name"`
	Valid      bool    `json:"valid"`
	Note       string  `json:"note"`
	Confidence float64 `json:"confidence"`
}

// ValidationReport aggregates the independent bound checks into an overall
// confidence score. It is advisory only and never blocks a recommendation.
type ValidationReport struct {
	Checks            []ValidationCheck `json:"checks"`
	OverallConfidence float64           `json:"overallConfidence"`
	Level             string            `json:"level"`
	Stars             string            `json:"stars"`
}
