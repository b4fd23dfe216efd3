package models

type Verdict string

const (
	VerdictSelected Verdict = "Selected"
	VerdictRejected Verdict = "Rejected"
	VerdictOnHold   Verdict = "On Hold"
)

var ValidVerdicts = map[Verdict]bool{
	VerdictSelected: true,
	VerdictRejected: true,
	VerdictOnHold:   true,
}

// Scorecard is the final evaluation attached once to a completed session.
type Scorecard struct {
	TechnicalScore      float64  `json:"technicalScore" bson:"technicalScore"`
	CommunicationScore  float64  `json:"communicationScore" bson:"communicationScore"`
	ProblemSolvingScore float64  `json:"problemSolvingScore" bson:"problemSolvingScore"`
	OverallScore        float64  `json:"overallScore" bson:"overallScore"`
	Strengths           []string `json:"strengths" bson:"strengths"`
	Weaknesses          []string `json:"weaknesses" bson:"weaknesses"`
	Suggestions         []string `json:"suggestions" bson:"suggestions"`
	Verdict             Verdict  `json:"verdict" bson:"verdict"`
	Summary             string   `json:"summary" bson:"summary"`
}
