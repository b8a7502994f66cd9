package analysis

import (
	_ "embed"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bizon-consulting/backend/internal/models"
)

//go:embed data/demo.yaml
var demoYAML []byte

// Baseline is the per-industry starting point. AvgSales is in 10,000 won.
type Baseline struct {
	AvgSales     float64 `yaml:"avg_sales"`
	Competition  int     `yaml:"competition"`
	Nearby       int     `yaml:"nearby"`
	TrafficScore int     `yaml:"traffic_score"`
	SalesGrowth  float64 `yaml:"sales_growth"`
}

type Multiplier struct {
	Patterns []string `yaml:"patterns"`
	Factor   float64  `yaml:"factor"`
}

type DemoTables struct {
	DefaultIndustry string              `yaml:"default_industry"`
	Industries      map[string]Baseline `yaml:"industries"`
	Multipliers     []Multiplier        `yaml:"multipliers"`
	DailyTraffic    int                 `yaml:"daily_traffic"`
	SalesScore      int                 `yaml:"sales_score"`
	Weekday         float64             `yaml:"weekday"`
	Weekend         float64             `yaml:"weekend"`
	DayOfWeek       []float64           `yaml:"day_of_week"`
	TimeSlot        []float64           `yaml:"time_slot"`
	TimeBands       []float64           `yaml:"time_bands"`
	AgeGender       models.AgeGender    `yaml:"age_gender"`
	Distribution    []int               `yaml:"distribution"`
	GrowthScore     struct {
		Min      float64 `yaml:"min"`
		Spread   float64 `yaml:"spread"`
		Fallback int     `yaml:"fallback"`
	} `yaml:"growth_score"`
	Recommendations []string `yaml:"recommendations"`
}

func LoadDemoTables() (DemoTables, error) {
	var t DemoTables
	if err := yaml.Unmarshal(demoYAML, &t); err != nil {
		return DemoTables{}, fmt.Errorf("parse demo tables: %w", err)
	}
	if _, ok := t.Industries[t.DefaultIndustry]; !ok {
		return DemoTables{}, fmt.Errorf("demo tables: default industry %q has no baseline", t.DefaultIndustry)
	}
	if t.DailyTraffic <= 0 {
		return DemoTables{}, fmt.Errorf("demo tables: daily_traffic must be positive")
	}
	if len(t.DayOfWeek) != 7 || len(t.TimeSlot) != 6 || len(t.TimeBands) != 6 {
		return DemoTables{}, fmt.Errorf("demo tables: day_of_week needs 7 entries, time_slot and time_bands 6")
	}
	return t, nil
}

// Rand is the jitter source for growth.score. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

type Generator struct {
	t   DemoTables
	rnd Rand
}

// NewGenerator uses the process-wide source when r is nil.
func NewGenerator(t DemoTables, r Rand) *Generator {
	if r == nil {
		r = globalRand{}
	}
	return &Generator{t: t, rnd: r}
}

func (g *Generator) Baseline(industry string) Baseline {
	if b, ok := g.t.Industries[industry]; ok {
		return b
	}
	return g.t.Industries[g.t.DefaultIndustry]
}

func (g *Generator) Multiplier(location string) float64 {
	for _, m := range g.t.Multipliers {
		for _, p := range m.Patterns {
			if strings.Contains(location, p) {
				return m.Factor
			}
		}
	}
	return 1.0
}

// Generate synthesizes a full analysis. Apart from growth.score the output
// depends only on location and industry.
func (g *Generator) Generate(location, industry string) models.AnalysisResult {
	base := g.Baseline(industry)
	mult := g.Multiplier(location)
	growth := base.SalesGrowth

	return models.AnalysisResult{
		Traffic: models.Traffic{
			Daily:     int(math.Round(float64(g.t.DailyTraffic) * mult)),
			Score:     min(100, int(math.Round(float64(base.TrafficScore)*mult))),
			Weekday:   g.t.Weekday,
			Weekend:   g.t.Weekend,
			DayOfWeek: cloneFloats(g.t.DayOfWeek),
			TimeSlot:  cloneFloats(g.t.TimeSlot),
			AgeGender: g.ageGender(),
		},
		Competition: models.Competition{
			SameIndustry: base.Competition,
			Nearby:       base.Nearby,
			Score:        max(0, 100-base.Nearby*8),
			Distribution: append([]int(nil), g.t.Distribution...),
		},
		Sales: models.Sales{
			Monthly: int64(math.Round(base.AvgSales*mult)) * 10000,
			Growth:  &growth,
			Score:   min(100, int(math.Round(float64(g.t.SalesScore)*mult))),
		},
		Growth: models.Growth{
			Score: int(math.Round(g.t.GrowthScore.Min + g.rnd.Float64()*g.t.GrowthScore.Spread)),
		},
		Recommendations: append([]string(nil), g.t.Recommendations...),
		DataSource:      models.SourceDemo,
	}
}

func (g *Generator) ageGender() models.AgeGender {
	return models.AgeGender{
		Male:   append([]int(nil), g.t.AgeGender.Male...),
		Female: append([]int(nil), g.t.AgeGender.Female...),
	}
}

func cloneFloats(v []float64) []float64 {
	return append([]float64(nil), v...)
}
