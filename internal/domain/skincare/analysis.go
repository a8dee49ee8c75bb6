package skincare

import "time"

// Severity grades a detected concern.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// Rank orders severities for sorting: severe first.
func (s Severity) Rank() int {
	switch s {
	case SeveritySevere:
		return 0
	case SeverityModerate:
		return 1
	default:
		return 2
	}
}

// DetectedConcern is a single finding of the concern detector.
type DetectedConcern struct {
	Type           Concern  `json:"type"`
	Severity       Severity `json:"severity"`
	Confidence     float64  `json:"confidence"`
	Description    string   `json:"description"`
	AffectedArea   string   `json:"affectedArea"`
	Recommendation string   `json:"recommendation"`
}

// RoutineStep is one step of a morning or evening routine.
type RoutineStep struct {
	Order       int             `json:"order"`
	Category    ProductCategory `json:"category"`
	Description string          `json:"description"`
	Duration    string          `json:"duration"`
	Tips        string          `json:"tips"`
	IsOptional  bool            `json:"isOptional"`
}

// WeeklyTreatment is a recurring treatment outside the daily routine.
type WeeklyTreatment struct {
	Name        string `json:"name"`
	Frequency   string `json:"frequency"`
	Description string `json:"description"`
}

// RoutineSuggestion bundles the generated routine.
type RoutineSuggestion struct {
	Morning []RoutineStep     `json:"morning"`
	Evening []RoutineStep     `json:"evening"`
	Weekly  []WeeklyTreatment `json:"weekly"`
}

// SkinAnalysisResult is the immutable outcome of one analysis run.
type SkinAnalysisResult struct {
	ID               string            `json:"id"`
	ImageRef         string            `json:"imageRef"`
	Timestamp        time.Time         `json:"timestamp"`
	OverallScore     int               `json:"overallScore"`
	SkinToneDetected SkinTone          `json:"skinToneDetected"`
	SkinTypeDetected SkinType          `json:"skinTypeDetected"`
	Concerns         []DetectedConcern `json:"concerns"`
	Metrics          SkinMetrics       `json:"metrics"`
	Recommendations  []string          `json:"recommendations"`
	Routine          RoutineSuggestion `json:"routineSuggestion"`
}

// ConcernKinds lists the detected concern kinds in result order.
func (r SkinAnalysisResult) ConcernKinds() []Concern {
	out := make([]Concern, 0, len(r.Concerns))
	for _, c := range r.Concerns {
		out = append(out, c.Type)
	}
	return out
}

// SavedRoutine is a routine the user chose to keep.
type SavedRoutine struct {
	ID        string            `json:"id"`
	ProfileID string            `json:"profileId"`
	Name      string            `json:"name"`
	CreatedAt time.Time         `json:"createdAt"`
	Routine   RoutineSuggestion `json:"routine"`
	IsActive  bool              `json:"isActive"`
}
