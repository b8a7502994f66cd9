package analysis

import (
	"math"
	"sort"
	"strconv"

	"github.com/bizon-consulting/backend/internal/sbiz"
)

type storePoint struct {
	yymm  string
	count float64
}

// storeSeries prefers the subdivision-level series and falls back to the
// district-level one tagged "cty". Entries are sorted newest first.
func storeSeries(sa sbiz.SimpleAnalysis) []storePoint {
	series := validPoints(sa.AdmiStorList, "")
	if len(series) == 0 {
		series = validPoints(sa.StorList, "cty")
	}
	sort.SliceStable(series, func(i, j int) bool { return series[i].yymm > series[j].yymm })
	return series
}

func validPoints(list []sbiz.StoreCount, areaGb string) []storePoint {
	var out []storePoint
	for _, s := range list {
		if areaGb != "" && s.AreaGb.Value != areaGb {
			continue
		}
		if !s.YYMM.Valid || !s.StoreCnt.Valid || len(s.YYMM.Value) != 6 {
			continue
		}
		out = append(out, storePoint{yymm: s.YYMM.Value, count: s.StoreCnt.Value})
	}
	return out
}

// hasData reports whether a simple analysis carries anything the merge can
// use. Error payloads and empty objects do not.
func hasData(sa sbiz.SimpleAnalysis) bool {
	if sa.AnalyNo.Valid && sa.AnalyNo.Value != "" {
		return true
	}
	if len(storeSeries(sa)) > 0 {
		return true
	}
	for _, p := range sa.AdmiSlsList {
		if p.AvgAmt.Valid {
			return true
		}
	}
	return sa.AdmiAvgAmt.Valid || sa.CtyAvgAmt.Valid || sa.MomRate.Valid || sa.YoyRate.Valid
}

func competitionCount(series []storePoint, def int) int {
	if len(series) == 0 {
		return def
	}
	return int(math.Round(series[0].count))
}

// monthlySales returns won. Upstream amounts are in 10,000 won.
func monthlySales(sa sbiz.SimpleAnalysis, def int64) int64 {
	if len(sa.AdmiSlsList) > 0 && sa.AdmiSlsList[0].AvgAmt.Valid {
		return toWon(sa.AdmiSlsList[0].AvgAmt.Value)
	}
	if sa.AdmiAvgAmt.Valid {
		return toWon(sa.AdmiAvgAmt.Value)
	}
	if sa.CtyAvgAmt.Valid {
		return toWon(sa.CtyAvgAmt.Value)
	}
	return def
}

func toWon(v float64) int64 {
	return int64(math.Round(v * 10000))
}

// growthRates derives month over month and year over year change from the
// store-count series, then from the response's own rate fields.
func growthRates(series []storePoint, sa sbiz.SimpleAnalysis) (mom, yoy *float64) {
	if len(series) > 0 {
		latest := series[0]
		if prev, ok := monthsBefore(latest.yymm, 1); ok {
			mom = percentChange(latest.count, lookup(series, prev))
		}
		if prev, ok := monthsBefore(latest.yymm, 12); ok {
			yoy = percentChange(latest.count, lookup(series, prev))
		}
	}
	if mom == nil {
		mom = rate(sa.MomRate)
	}
	if yoy == nil {
		yoy = rate(sa.YoyRate)
	}
	return mom, yoy
}

func monthsBefore(yymm string, n int) (string, bool) {
	if len(yymm) != 6 {
		return "", false
	}
	year, err := strconv.Atoi(yymm[:4])
	if err != nil {
		return "", false
	}
	month, err := strconv.Atoi(yymm[4:])
	if err != nil || month < 1 || month > 12 {
		return "", false
	}
	total := year*12 + (month - 1) - n
	return strconv.Itoa(total/12) + twoDigits(total%12+1), true
}

func twoDigits(m int) string {
	if m < 10 {
		return "0" + strconv.Itoa(m)
	}
	return strconv.Itoa(m)
}

func lookup(series []storePoint, yymm string) *float64 {
	for _, p := range series {
		if p.yymm == yymm {
			v := p.count
			return &v
		}
	}
	return nil
}

func percentChange(cur float64, ref *float64) *float64 {
	if ref == nil || *ref == 0 {
		return nil
	}
	v := (cur - *ref) / *ref * 100
	return &v
}

// rate scales fractional rates to percentages.
func rate(n sbiz.Number) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	if math.Abs(v) <= 1 {
		v *= 100
	}
	return &v
}

func ratesOr(values []sbiz.Number, defaults []float64) []float64 {
	out := make([]float64, len(defaults))
	for i := range defaults {
		out[i] = defaults[i]
		if i < len(values) && values[i].Valid {
			out[i] = values[i].Value
		}
	}
	return out
}
