package domain

// FactorScore is one feature's contribution to a candidate's final score.
type FactorScore struct {
	Name         string  `json:"name"`
	Raw          float64 `json:"raw"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// PriorityResult is one ranked candidate with its factor breakdown and
// free-text reasoning bullets.
type PriorityResult struct {
	ID      string        `json:"id"`
	Title   string        `json:"title"`
	Score   float64       `json:"score"`
	Rank    int           `json:"rank"`
	Factors []FactorScore `json:"factors"`
	Reasons []string      `json:"reasons,omitempty"`
}

// SubjectRef identifies the candidate an explanation is about.
type SubjectRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ReasoningStep is one entry in the fixed explanation template.
type ReasoningStep struct {
	Step        int     `json:"step"`
	Description string  `json:"description"`
	Rationale   string  `json:"rationale"`
	Confidence  float64 `json:"confidence"`
}

// Confidence is the scalar confidence for the recommendation, bucketed
// into high (>=0.75), medium (>=0.5), or low.
type Confidence struct {
	Value  float64 `json:"value"`
	Bucket string  `json:"bucket"`
}

// Recommendation is the natural-language synthesis for the subject.
type Recommendation struct {
	Action    string `json:"action"`
	Rationale string `json:"rationale"`
}

// Alternative is a runner-up candidate annotated with the factor on which
// it most under-performs the subject.
type Alternative struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Tradeoff string `json:"tradeoff"`
}

// Explanation is the structured justification for a ranking outcome.
type Explanation struct {
	Subject               SubjectRef      `json:"subject"`
	ReasoningSteps        []ReasoningStep `json:"reasoning_steps"`
	Confidence            Confidence      `json:"confidence"`
	PrimaryRecommendation Recommendation  `json:"primary_recommendation"`
	Alternatives          []Alternative   `json:"alternatives"`
	Warnings              []string        `json:"warnings"`
}

// Result is the full engine output: the ranked list plus the explanation
// for the subject (the top-ranked candidate unless explain substituted
// another subject).
type Result struct {
	Ranked      []PriorityResult `json:"ranked"`
	Explanation Explanation      `json:"explanation"`
}
