// Package scenario defines the simulation scenario document and turns raw
// document text into a validated [Bundle].
//
// Documents are JSON or YAML; the format is detected from the first
// non-space character. [Deserialize] either returns a fully populated bundle
// or a [*DeserializationError] listing one message per violated constraint.
// [Serialize] is its inverse.
package scenario

import "slices"

// CurrentSchemaVersion is written by Serialize.
const CurrentSchemaVersion = "2.1.0"

// AgeGroup is a ten-year age bucket label.
type AgeGroup string

const (
	AgeGroup0to9   AgeGroup = "0-9"
	AgeGroup10to19 AgeGroup = "10-19"
	AgeGroup20to29 AgeGroup = "20-29"
	AgeGroup30to39 AgeGroup = "30-39"
	AgeGroup40to49 AgeGroup = "40-49"
	AgeGroup50to59 AgeGroup = "50-59"
	AgeGroup60to69 AgeGroup = "60-69"
	AgeGroup70to79 AgeGroup = "70-79"
	AgeGroup80plus AgeGroup = "80+"
)

// AgeGroups lists every valid age group in ascending order.
var AgeGroups = []AgeGroup{
	AgeGroup0to9,
	AgeGroup10to19,
	AgeGroup20to29,
	AgeGroup30to39,
	AgeGroup40to49,
	AgeGroup50to59,
	AgeGroup60to69,
	AgeGroup70to79,
	AgeGroup80plus,
}

// IsValid reports whether g is one of AgeGroups.
func (g AgeGroup) IsValid() bool {
	return slices.Contains(AgeGroups, g)
}

// Document is the on-disk scenario document.
type Document struct {
	SchemaVer       string                      `json:"schemaVer,omitempty" yaml:"schemaVer,omitempty" validate:"omitempty,schemaver"`
	ScenarioName    string                      `json:"scenarioName" yaml:"scenarioName" validate:"required"`
	Scenario        *ScenarioData               `json:"scenario" yaml:"scenario" validate:"required"`
	AgeDistribution []AgeDistributionDatum      `json:"ageDistribution" yaml:"ageDistribution" validate:"required,min=1,unique=AgeGroup,dive"`
	Severity        []SeverityDistributionDatum `json:"severity" yaml:"severity" validate:"required,min=1,unique=AgeGroup,dive"`
}

// ScenarioData holds the simulation parameters of a scenario.
type ScenarioData struct {
	Population      PopulationData      `json:"population" yaml:"population"`
	Epidemiological EpidemiologicalData `json:"epidemiological" yaml:"epidemiological"`
	Mitigation      MitigationData      `json:"mitigation" yaml:"mitigation"`
	Simulation      SimulationData      `json:"simulation" yaml:"simulation"`
}

// PopulationData describes the simulated population and its care capacity.
type PopulationData struct {
	AgeDistributionName  string  `json:"ageDistributionName" yaml:"ageDistributionName"`
	CaseCountsName       string  `json:"caseCountsName" yaml:"caseCountsName"`
	HospitalBeds         int64   `json:"hospitalBeds" yaml:"hospitalBeds" validate:"gte=0"`
	ICUBeds              int64   `json:"icuBeds" yaml:"icuBeds" validate:"gte=0"`
	ImportsPerDay        float64 `json:"importsPerDay" yaml:"importsPerDay" validate:"gte=0"`
	InitialNumberOfCases int64   `json:"initialNumberOfCases" yaml:"initialNumberOfCases" validate:"gte=0"`
	PopulationServed     int64   `json:"populationServed" yaml:"populationServed" validate:"gt=0"`
}

// EpidemiologicalData describes disease dynamics.
type EpidemiologicalData struct {
	HospitalStayDays     float64      `json:"hospitalStayDays" yaml:"hospitalStayDays" validate:"gt=0"`
	ICUStayDays          float64      `json:"icuStayDays" yaml:"icuStayDays" validate:"gt=0"`
	InfectiousPeriodDays float64      `json:"infectiousPeriodDays" yaml:"infectiousPeriodDays" validate:"gt=0"`
	LatencyDays          float64      `json:"latencyDays" yaml:"latencyDays" validate:"gt=0"`
	OverflowSeverity     float64      `json:"overflowSeverity" yaml:"overflowSeverity" validate:"gte=1"`
	PeakMonth            int          `json:"peakMonth" yaml:"peakMonth" validate:"gte=0,lte=11"`
	R0                   NumericRange `json:"r0" yaml:"r0"`
	SeasonalForcing      float64      `json:"seasonalForcing" yaml:"seasonalForcing" validate:"gte=0,lte=1"`
}

// MitigationData lists containment measures.
type MitigationData struct {
	MitigationIntervals []MitigationInterval `json:"mitigationIntervals" yaml:"mitigationIntervals,omitempty" validate:"dive"`
}

// MitigationInterval is one containment measure active over a date range.
type MitigationInterval struct {
	Name                  string          `json:"name" yaml:"name" validate:"required"`
	Color                 string          `json:"color,omitempty" yaml:"color,omitempty" validate:"omitempty,hexcolor"`
	TimeRange             DateRange       `json:"timeRange" yaml:"timeRange"`
	TransmissionReduction PercentageRange `json:"transmissionReduction" yaml:"transmissionReduction"`
}

// SimulationData controls the simulation run itself.
type SimulationData struct {
	SimulationTimeRange  DateRange `json:"simulationTimeRange" yaml:"simulationTimeRange"`
	NumberStochasticRuns int       `json:"numberStochasticRuns" yaml:"numberStochasticRuns" validate:"gte=0,lte=100"`
}

// NumericRange is an uncertainty range over a non-negative quantity.
type NumericRange struct {
	Begin float64 `json:"begin" yaml:"begin" validate:"gte=0"`
	End   float64 `json:"end" yaml:"end" validate:"gte=0,gtefield=Begin"`
}

// PercentageRange is an uncertainty range over a percentage.
type PercentageRange struct {
	Begin float64 `json:"begin" yaml:"begin" validate:"gte=0,lte=100"`
	End   float64 `json:"end" yaml:"end" validate:"gte=0,lte=100,gtefield=Begin"`
}

// DateRange is an inclusive range of calendar days.
// Both ends are required and End must not be before Begin.
type DateRange struct {
	Begin Date `json:"begin" yaml:"begin"`
	End   Date `json:"end" yaml:"end"`
}

// AgeDistributionDatum is the population count of one age group.
type AgeDistributionDatum struct {
	AgeGroup   AgeGroup `json:"ageGroup" yaml:"ageGroup" validate:"agegroup"`
	Population int64    `json:"population" yaml:"population" validate:"gte=0"`
}

// SeverityDistributionDatum holds per-age-group outcome percentages.
type SeverityDistributionDatum struct {
	ID        int      `json:"id,omitempty" yaml:"id,omitempty" validate:"gte=0"`
	AgeGroup  AgeGroup `json:"ageGroup" yaml:"ageGroup" validate:"agegroup"`
	Isolated  float64  `json:"isolated" yaml:"isolated" validate:"gte=0,lte=100"`
	Confirmed float64  `json:"confirmed" yaml:"confirmed" validate:"gte=0,lte=100"`
	Severe    float64  `json:"severe" yaml:"severe" validate:"gte=0,lte=100"`
	Critical  float64  `json:"critical" yaml:"critical" validate:"gte=0,lte=100"`
	Fatal     float64  `json:"fatal" yaml:"fatal" validate:"gte=0,lte=100"`
}

// Bundle is the validated result of deserializing one document.
type Bundle struct {
	ScenarioName    string
	Scenario        ScenarioData
	AgeDistribution []AgeDistributionDatum
	Severity        []SeverityDistributionDatum
}

// Clone returns a deep copy of b.
func (b *Bundle) Clone() Bundle {
	out := Bundle{
		ScenarioName:    b.ScenarioName,
		Scenario:        b.Scenario,
		AgeDistribution: cloneSlice(b.AgeDistribution),
		Severity:        cloneSlice(b.Severity),
	}
	out.Scenario.Mitigation.MitigationIntervals = cloneSlice(b.Scenario.Mitigation.MitigationIntervals)

	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)

	return out
}

func (d *Document) bundle() *Bundle {
	b := &Bundle{
		ScenarioName:    d.ScenarioName,
		AgeDistribution: d.AgeDistribution,
		Severity:        d.Severity,
	}
	if d.Scenario != nil {
		b.Scenario = *d.Scenario
	}

	return b
}

func documentFromBundle(b *Bundle) *Document {
	data := b.Scenario

	return &Document{
		SchemaVer:       CurrentSchemaVersion,
		ScenarioName:    b.ScenarioName,
		Scenario:        &data,
		AgeDistribution: b.AgeDistribution,
		Severity:        b.Severity,
	}
}
