package models

const (
	SourceReal = "real"
	SourceDemo = "demo"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type AgeGender struct {
	Male   []int `json:"male"`
	Female []int `json:"female"`
}

type Traffic struct {
	Daily     int       `json:"daily"`
	Score     int       `json:"score"`
	Weekday   float64   `json:"weekday"`
	Weekend   float64   `json:"weekend"`
	DayOfWeek []float64 `json:"dayOfWeek"`
	TimeSlot  []float64 `json:"timeSlot"`
	AgeGender AgeGender `json:"ageGender"`
}

type Competition struct {
	SameIndustry int   `json:"sameIndustry"`
	Nearby       int   `json:"nearby"`
	Score        int   `json:"score"`
	Distribution []int `json:"distribution"`
}

// Sales.Monthly is in won. Growth (month over month) and YoY are percentages
// and stay nil when no reference point exists.
type Sales struct {
	Monthly int64    `json:"monthly"`
	Growth  *float64 `json:"growth"`
	YoY     *float64 `json:"yoy"`
	Score   int      `json:"score"`
}

type Growth struct {
	Score int `json:"score"`
}

// ResolvedCodes echoes the upstream parameters an analysis was built from.
type ResolvedCodes struct {
	District        string `json:"district"`
	Subdivision     string `json:"subdivision"`
	Province        string `json:"province"`
	Industry        string `json:"industry"`
	ClimateIndustry string `json:"climateIndustry"`
	Location        string `json:"location"`
}

type AnalysisResult struct {
	Coordinates     Coordinates   `json:"coordinates"`
	Traffic         Traffic       `json:"traffic"`
	Competition     Competition   `json:"competition"`
	Sales           Sales         `json:"sales"`
	Growth          Growth        `json:"growth"`
	ClimateScore    int           `json:"climateScore"`
	Recommendations []string      `json:"recommendations"`
	Codes           ResolvedCodes `json:"codes"`
	DataSource      string        `json:"dataSource"`
}

type ConsultingInput struct {
	Budget     string `json:"budget"`
	Location   string `json:"location"`
	Industry   string `json:"industry"`
	Experience string `json:"experience"`
	Goals      string `json:"goals"`
}

type RecommendedItem struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
	Cost   string `json:"cost"`
}

type BudgetItem struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

type SupportProgram struct {
	Name        string `json:"name"`
	Amount      string `json:"amount"`
	Eligibility string `json:"eligibility"`
}

type ConsultingResult struct {
	FeasibilityScore   int               `json:"feasibilityScore"`
	FeasibilityComment string            `json:"feasibilityComment"`
	RecommendedItems   []RecommendedItem `json:"recommendedItems"`
	BudgetBreakdown    []BudgetItem      `json:"budgetBreakdown"`
	AvailableSupports  []SupportProgram  `json:"availableSupports"`
	KeyAdvice          []string          `json:"keyAdvice"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
