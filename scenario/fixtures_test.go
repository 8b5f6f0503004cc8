package scenario

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const validJSON = `{
  "schemaVer": "2.1.0",
  "scenarioName": "CHE-Basel-Stadt",
  "scenario": {
    "population": {
      "ageDistributionName": "Switzerland",
      "caseCountsName": "Switzerland",
      "hospitalBeds": 1200,
      "icuBeds": 80,
      "importsPerDay": 0.1,
      "initialNumberOfCases": 10,
      "populationServed": 195000
    },
    "epidemiological": {
      "hospitalStayDays": 3,
      "icuStayDays": 14,
      "infectiousPeriodDays": 3,
      "latencyDays": 3,
      "overflowSeverity": 2,
      "peakMonth": 0,
      "r0": {"begin": 2.7, "end": 3.3},
      "seasonalForcing": 0.1
    },
    "mitigation": {
      "mitigationIntervals": [
        {
          "name": "School closures",
          "color": "#cccccc",
          "timeRange": {"begin": "2020-03-14", "end": "2020-06-01"},
          "transmissionReduction": {"begin": 10, "end": 30}
        }
      ]
    },
    "simulation": {
      "simulationTimeRange": {"begin": "2020-03-01", "end": "2020-09-01"},
      "numberStochasticRuns": 15
    }
  },
  "ageDistribution": [
    {"ageGroup": "0-9", "population": 18000},
    {"ageGroup": "10-19", "population": 17000},
    {"ageGroup": "80+", "population": 12000}
  ],
  "severity": [
    {"id": 1, "ageGroup": "0-9", "isolated": 0, "confirmed": 5, "severe": 1, "critical": 5, "fatal": 30},
    {"id": 2, "ageGroup": "10-19", "isolated": 0, "confirmed": 5, "severe": 3, "critical": 10, "fatal": 30},
    {"id": 3, "ageGroup": "80+", "isolated": 0, "confirmed": 30, "severe": 30, "critical": 40, "fatal": 50}
  ]
}`

const validYAML = `
schemaVer: 2.1.0
scenarioName: CHE-Basel-Stadt
scenario:
  population:
    ageDistributionName: Switzerland
    caseCountsName: Switzerland
    hospitalBeds: 1200
    icuBeds: 80
    importsPerDay: 0.1
    initialNumberOfCases: 10
    populationServed: 195000
  epidemiological:
    hospitalStayDays: 3
    icuStayDays: 14
    infectiousPeriodDays: 3
    latencyDays: 3
    overflowSeverity: 2
    peakMonth: 0
    r0: {begin: 2.7, end: 3.3}
    seasonalForcing: 0.1
  mitigation:
    mitigationIntervals:
      - name: School closures
        color: "#cccccc"
        timeRange: {begin: 2020-03-14, end: 2020-06-01}
        transmissionReduction: {begin: 10, end: 30}
  simulation:
    simulationTimeRange:
      begin: 2020-03-01
      end: 2020-09-01
    numberStochasticRuns: 15
ageDistribution:
  - {ageGroup: 0-9, population: 18000}
  - {ageGroup: 10-19, population: 17000}
  - {ageGroup: 80+, population: 12000}
severity:
  - {id: 1, ageGroup: 0-9, isolated: 0, confirmed: 5, severe: 1, critical: 5, fatal: 30}
  - {id: 2, ageGroup: 10-19, isolated: 0, confirmed: 5, severe: 3, critical: 10, fatal: 30}
  - {id: 3, ageGroup: 80+, isolated: 0, confirmed: 30, severe: 30, critical: 40, fatal: 50}
`

// expectedBundle is the bundle both fixtures describe.
func expectedBundle() *Bundle {
	return &Bundle{
		ScenarioName: "CHE-Basel-Stadt",
		Scenario: ScenarioData{
			Population: PopulationData{
				AgeDistributionName:  "Switzerland",
				CaseCountsName:       "Switzerland",
				HospitalBeds:         1200,
				ICUBeds:              80,
				ImportsPerDay:        0.1,
				InitialNumberOfCases: 10,
				PopulationServed:     195000,
			},
			Epidemiological: EpidemiologicalData{
				HospitalStayDays:     3,
				ICUStayDays:          14,
				InfectiousPeriodDays: 3,
				LatencyDays:          3,
				OverflowSeverity:     2,
				PeakMonth:            0,
				R0:                   NumericRange{Begin: 2.7, End: 3.3},
				SeasonalForcing:      0.1,
			},
			Mitigation: MitigationData{
				MitigationIntervals: []MitigationInterval{{
					Name:                  "School closures",
					Color:                 "#cccccc",
					TimeRange:             DateRange{Begin: NewDate(2020, time.March, 14), End: NewDate(2020, time.June, 1)},
					TransmissionReduction: PercentageRange{Begin: 10, End: 30},
				}},
			},
			Simulation: SimulationData{
				SimulationTimeRange:  DateRange{Begin: NewDate(2020, time.March, 1), End: NewDate(2020, time.September, 1)},
				NumberStochasticRuns: 15,
			},
		},
		AgeDistribution: []AgeDistributionDatum{
			{AgeGroup: AgeGroup0to9, Population: 18000},
			{AgeGroup: AgeGroup10to19, Population: 17000},
			{AgeGroup: AgeGroup80plus, Population: 12000},
		},
		Severity: []SeverityDistributionDatum{
			{ID: 1, AgeGroup: AgeGroup0to9, Confirmed: 5, Severe: 1, Critical: 5, Fatal: 30},
			{ID: 2, AgeGroup: AgeGroup10to19, Confirmed: 5, Severe: 3, Critical: 10, Fatal: 30},
			{ID: 3, AgeGroup: AgeGroup80plus, Confirmed: 30, Severe: 30, Critical: 40, Fatal: 50},
		},
	}
}

// mutateJSON decodes validJSON into a generic map, applies fn and re-encodes it.
func mutateJSON(t *testing.T, fn func(doc map[string]any)) string {
	t.Helper()

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(validJSON), &doc))
	fn(doc)
	out, err := json.Marshal(doc)
	require.NoError(t, err)

	return string(out)
}

func object(v any, key string) map[string]any {
	return v.(map[string]any)[key].(map[string]any)
}

func element(v any, key string, i int) map[string]any {
	return v.(map[string]any)[key].([]any)[i].(map[string]any)
}
