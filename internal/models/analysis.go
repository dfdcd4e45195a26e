package models

import "sort"

type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// Risk is one flagged concern in a document. There is no uniqueness
// constraint; the model may report several risks with the same title.
type Risk struct {
	Level       RiskLevel `json:"level"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

// Analysis is the structured result of a single analysis call. It is produced
// atomically and never mutated after being returned.
type Analysis struct {
	Title           string   `json:"title"`
	DocumentType    string   `json:"documentType"`
	Summary         string   `json:"summary"`
	KeyPoints       []string `json:"keyPoints"`
	Risks           []Risk   `json:"risks"`
	ImportantDates  []string `json:"importantDates"`
	PartiesInvolved []string `json:"partiesInvolved"`
	Recommendation  string   `json:"recommendation"`
}

var riskRank = map[RiskLevel]int{
	RiskHigh:   0,
	RiskMedium: 1,
	RiskLow:    2,
}

// SortRisks orders risks high, medium, low. The sort is stable so the model's
// ordering within a level is preserved.
func SortRisks(risks []Risk) {
	sort.SliceStable(risks, func(i, j int) bool {
		return riskRank[risks[i].Level] < riskRank[risks[j].Level]
	})
}
