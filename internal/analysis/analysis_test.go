package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/bizon-consulting/backend/internal/codes"
	"github.com/bizon-consulting/backend/internal/models"
	"github.com/bizon-consulting/backend/internal/sbiz"
)

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

type fakeUpstream struct {
	mu        sync.Mutex
	responses map[string]string
	calls     map[string]url.Values
}

func (f *fakeUpstream) Call(_ context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]url.Values{}
	}
	f.calls[endpoint] = params
	body, ok := f.responses[endpoint]
	if !ok {
		return nil, &sbiz.StatusError{Status: 503, URL: endpoint}
	}
	return json.RawMessage(body), nil
}

func newTestService(t *testing.T, up Upstream, r Rand) (*Service, *Generator) {
	t.Helper()
	resolver, err := codes.Load()
	if err != nil {
		t.Fatalf("load codes: %v", err)
	}
	tables, err := LoadDemoTables()
	if err != nil {
		t.Fatalf("load demo tables: %v", err)
	}
	gen := NewGenerator(tables, r)
	svc := NewService(Deps{
		Codes:    resolver,
		Upstream: up,
		Demo:     gen,
		Now:      func() time.Time { return time.UnixMilli(1723000000000) },
		Log:      zerolog.Nop(),
	})
	return svc, gen
}

func TestMonthOverMonthFromStoreSeries(t *testing.T) {
	sa := sbiz.SimpleAnalysis{}
	if err := json.Unmarshal([]byte(`{"admiStorList":[{"yymm":"202508","storeCnt":116},{"yymm":"202507","storeCnt":118}]}`), &sa); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mom, yoy := growthRates(storeSeries(sa), sa)
	if mom == nil {
		t.Fatalf("expected month over month growth")
	}
	want := (116.0 - 118.0) / 118.0 * 100
	if math.Abs(*mom-want) > 1e-9 || math.Abs(*mom+1.69) > 0.01 {
		t.Fatalf("expected %.4f, got %.4f", want, *mom)
	}
	if yoy != nil {
		t.Fatalf("expected nil yoy without a reference point, got %v", *yoy)
	}
}

func TestGrowthRatesFallBackToRateFields(t *testing.T) {
	sa := sbiz.SimpleAnalysis{}
	if err := json.Unmarshal([]byte(`{"admiStorList":[{"yymm":"202501","storeCnt":50},{"yymm":"202412","storeCnt":40}],"yoyRate":0.052}`), &sa); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mom, yoy := growthRates(storeSeries(sa), sa)
	if mom == nil || *mom != 25 {
		t.Fatalf("expected 25%% across the year boundary, got %v", mom)
	}
	if yoy == nil || math.Abs(*yoy-5.2) > 1e-9 {
		t.Fatalf("expected scaled yoy 5.2, got %v", yoy)
	}
}

func TestMonthsBefore(t *testing.T) {
	cases := map[string]string{"202501": "202412", "202508": "202507", "202412": "202411"}
	for in, want := range cases {
		got, ok := monthsBefore(in, 1)
		if !ok || got != want {
			t.Fatalf("monthsBefore(%s): expected %s, got %s", in, want, got)
		}
	}
	if got, _ := monthsBefore("202503", 12); got != "202403" {
		t.Fatalf("expected 202403, got %s", got)
	}
	if _, ok := monthsBefore("2025", 1); ok {
		t.Fatalf("expected malformed yymm to be rejected")
	}
}

func TestDistrictSeriesFilteredByAreaGb(t *testing.T) {
	sa := sbiz.SimpleAnalysis{}
	_ = json.Unmarshal([]byte(`{"storList":[{"yymm":"202508","storeCnt":90,"areaGb":"mega"},{"yymm":"202507","storeCnt":30,"areaGb":"cty"},{"yymm":"202508","storeCnt":33,"areaGb":"cty"}]}`), &sa)
	series := storeSeries(sa)
	if got := competitionCount(series, 1); got != 33 {
		t.Fatalf("expected latest cty count 33, got %d", got)
	}
}

func TestAnalyzeFallsBackToDemo(t *testing.T) {
	up := &fakeUpstream{}
	svc, gen := newTestService(t, up, fixedRand(0.5))

	res := svc.Analyze(context.Background(), "서울 마포구 홍대입구역", "치킨")
	if res.DataSource != models.SourceDemo {
		t.Fatalf("expected demo source, got %s", res.DataSource)
	}
	if res.Competition.SameIndustry != 15 {
		t.Fatalf("expected chicken baseline 15, got %d", res.Competition.SameIndustry)
	}
	if res.Traffic.Daily != 14940 {
		t.Fatalf("expected 1.2x daily traffic, got %d", res.Traffic.Daily)
	}

	want := gen.Generate("서울 마포구 홍대입구역", "치킨")
	want.Coordinates = res.Coordinates
	want.Codes = res.Codes
	if diff := cmp.Diff(want, res); diff != "" {
		t.Fatalf("demo result differs from generator output (-want +got):\n%s", diff)
	}
	if res.Coordinates != (models.Coordinates{Lat: 37.5663, Lng: 126.9019}) {
		t.Fatalf("unexpected coordinates: %+v", res.Coordinates)
	}
	if _, ok := up.calls[sbiz.EndpointFootTraffic]; ok {
		t.Fatalf("foot traffic must not be called when simple analysis fails")
	}
}

func TestAnalyzeTreatsHTMLAsFailure(t *testing.T) {
	up := &fakeUpstream{responses: map[string]string{sbiz.EndpointSimple: `<html>login required</html>`}}
	svc, _ := newTestService(t, up, fixedRand(0))
	if res := svc.Analyze(context.Background(), "서울 강남구", "한식"); res.DataSource != models.SourceDemo {
		t.Fatalf("expected demo source, got %s", res.DataSource)
	}
}

func TestDemoMultiplierAndDeterminism(t *testing.T) {
	tables, err := LoadDemoTables()
	if err != nil {
		t.Fatalf("load demo tables: %v", err)
	}
	gen := NewGenerator(tables, nil)
	if m := gen.Multiplier("서울 강남구 역삼1동"); m != 1.3 {
		t.Fatalf("expected 1.3, got %v", m)
	}
	if m := gen.Multiplier("부산 해운대구"); m != 1.0 {
		t.Fatalf("expected 1.0, got %v", m)
	}

	a := gen.Generate("서울 강남구 역삼1동", "커피전문점/카페")
	b := gen.Generate("서울 강남구 역삼1동", "커피전문점/카페")
	for _, r := range []models.AnalysisResult{a, b} {
		if r.Growth.Score < 65 || r.Growth.Score > 85 {
			t.Fatalf("growth score out of range: %d", r.Growth.Score)
		}
	}
	a.Growth, b.Growth = models.Growth{}, models.Growth{}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("expected identical output apart from growth score:\n%s", diff)
	}
	if a.Sales.Monthly != 41600000 {
		t.Fatalf("expected 4160 x 10,000 won, got %d", a.Sales.Monthly)
	}
	if a.Traffic.Score != 98 || a.Sales.Score != 91 {
		t.Fatalf("unexpected scores: traffic %d sales %d", a.Traffic.Score, a.Sales.Score)
	}
}

func TestDemoGrowthScoreBounds(t *testing.T) {
	tables, _ := LoadDemoTables()
	if got := NewGenerator(tables, fixedRand(0)).Generate("", "").Growth.Score; got != 65 {
		t.Fatalf("expected 65, got %d", got)
	}
	if got := NewGenerator(tables, fixedRand(0.9999)).Generate("", "").Growth.Score; got != 85 {
		t.Fatalf("expected 85, got %d", got)
	}
}

func TestAnalyzeMergesRealData(t *testing.T) {
	up := &fakeUpstream{responses: map[string]string{
		sbiz.EndpointSimple: `{"analyNo":"AN-1","admiStorList":[{"yymm":"202507","storeCnt":118},{"yymm":"202508","storeCnt":116}],"admiSlsList":[{"yymm":"202508","avgAmt":"4800"}],"yoyRate":-0.03}`,
		sbiz.EndpointFootTraffic: `{"avgCnt":24900,"wkdyRate":68.5,"wkndRate":31.5,"monRate":13,"sunRate":"11","tm1Rate":5,"tm6Rate":10}`,
		sbiz.EndpointStartupClimate: `{"resultCode":"SUCCESS","data":{"avgScore":61,"detailList":[{"avgScore":61.6}]}}`,
	}}
	svc, _ := newTestService(t, up, fixedRand(0))

	res := svc.Analyze(context.Background(), "서울 강남구 역삼1동", "커피전문점/카페")
	if res.DataSource != models.SourceReal {
		t.Fatalf("expected real source, got %s", res.DataSource)
	}
	if res.Competition.SameIndustry != 116 || res.Competition.Nearby != 39 || res.Competition.Score != 0 {
		t.Fatalf("unexpected competition: %+v", res.Competition)
	}
	if res.Sales.Monthly != 48000000 {
		t.Fatalf("expected 48,000,000 won, got %d", res.Sales.Monthly)
	}
	if res.Sales.Score != 100 {
		t.Fatalf("expected capped sales score, got %d", res.Sales.Score)
	}
	if res.Sales.Growth == nil || math.Abs(*res.Sales.Growth+1.6949) > 0.001 {
		t.Fatalf("unexpected growth: %v", res.Sales.Growth)
	}
	if res.Sales.YoY == nil || math.Abs(*res.Sales.YoY+3) > 1e-9 {
		t.Fatalf("unexpected yoy: %v", res.Sales.YoY)
	}
	if res.Traffic.Daily != 24900 || res.Traffic.Score != 100 {
		t.Fatalf("unexpected traffic: %+v", res.Traffic)
	}
	if res.Traffic.Weekday != 68.5 || res.Traffic.Weekend != 31.5 {
		t.Fatalf("unexpected weekday split: %+v", res.Traffic)
	}
	wantDays := []float64{13, 14, 15, 15, 16, 14, 11}
	if diff := cmp.Diff(wantDays, res.Traffic.DayOfWeek); diff != "" {
		t.Fatalf("unexpected day of week: %v", res.Traffic.DayOfWeek)
	}
	wantSlots := []float64{5, 14, 24, 18, 25, 10}
	if diff := cmp.Diff(wantSlots, res.Traffic.TimeSlot); diff != "" {
		t.Fatalf("unexpected time slots: %v", res.Traffic.TimeSlot)
	}
	if res.ClimateScore != 62 || res.Growth.Score != 62 {
		t.Fatalf("unexpected climate/growth: %d %d", res.ClimateScore, res.Growth.Score)
	}
	if res.Codes.District != "1168" || res.Codes.Subdivision != "11680640" || res.Codes.Location != "서울특별시 강남구 역삼1동" {
		t.Fatalf("unexpected codes: %+v", res.Codes)
	}

	ft := up.calls[sbiz.EndpointFootTraffic]
	if ft.Get("analyNo") != "AN-1" || ft.Get("mililis") != "1723000000000" {
		t.Fatalf("unexpected foot traffic params: %v", ft)
	}
	cl := up.calls[sbiz.EndpointStartupClimate]
	if cl.Get("megaCd") != "11" || cl.Get("cityCd") != "1168" || cl.Get("tpbizClscd") != "I21201" {
		t.Fatalf("unexpected climate params: %v", cl)
	}
}

func TestAnalyzeRealDefaults(t *testing.T) {
	up := &fakeUpstream{responses: map[string]string{sbiz.EndpointSimple: `{"analyNo":"AN-9"}`}}
	svc, _ := newTestService(t, up, fixedRand(0))

	res := svc.Analyze(context.Background(), "서울 중구", "알 수 없는 업종")
	if res.DataSource != models.SourceReal {
		t.Fatalf("expected real source, got %s", res.DataSource)
	}
	if _, ok := up.calls[sbiz.EndpointFootTraffic]; !ok {
		t.Fatalf("expected a foot traffic call with analyNo")
	}
	if res.Sales.Monthly != 32000000 || res.Sales.Score != 70 {
		t.Fatalf("unexpected default sales: %+v", res.Sales)
	}
	if res.Sales.Growth != nil || res.Sales.YoY != nil {
		t.Fatalf("expected nil growth fields")
	}
	if res.Competition.SameIndustry != 23 || res.Traffic.Daily != 12450 || res.Traffic.Score != 75 {
		t.Fatalf("unexpected defaults: %+v %+v", res.Competition, res.Traffic)
	}
	if res.ClimateScore != 0 || res.Growth.Score != 70 {
		t.Fatalf("unexpected climate defaults: %d %d", res.ClimateScore, res.Growth.Score)
	}
	if len(res.Traffic.TimeSlot) != 6 || len(res.Traffic.DayOfWeek) != 7 || len(res.Recommendations) == 0 {
		t.Fatalf("expected populated traffic and recommendations: %+v", res)
	}
}

func TestAnalyzeRealFromSalesFieldOnly(t *testing.T) {
	up := &fakeUpstream{responses: map[string]string{sbiz.EndpointSimple: `{"ctyAvgAmt":"3000"}`}}
	svc, _ := newTestService(t, up, fixedRand(0))

	res := svc.Analyze(context.Background(), "서울 중구", "한식")
	if res.DataSource != models.SourceReal {
		t.Fatalf("expected real source, got %s", res.DataSource)
	}
	if res.Sales.Monthly != 30000000 {
		t.Fatalf("expected 30,000,000 won, got %d", res.Sales.Monthly)
	}
	if _, ok := up.calls[sbiz.EndpointFootTraffic]; ok {
		t.Fatalf("foot traffic must be skipped without analyNo")
	}
}

func TestAnalyzeWithoutUsableSimpleDataIsDemo(t *testing.T) {
	bodies := map[string]string{
		"empty object":  `{}`,
		"error payload": `{"resultCode":"FAIL","message":"로그인이 필요합니다"}`,
		"blank analyNo": `{"analyNo":"","admiStorList":[]}`,
		"bad series":    `{"admiStorList":[{"yymm":"2025","storeCnt":"x"}]}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			up := &fakeUpstream{responses: map[string]string{sbiz.EndpointSimple: body}}
			svc, gen := newTestService(t, up, fixedRand(0))

			res := svc.Analyze(context.Background(), "서울 강남구 역삼1동", "치킨")
			if res.DataSource != models.SourceDemo {
				t.Fatalf("expected demo source, got %s", res.DataSource)
			}
			want := gen.Generate("서울 강남구 역삼1동", "치킨")
			want.Coordinates, want.Codes = res.Coordinates, res.Codes
			if diff := cmp.Diff(want, res); diff != "" {
				t.Fatalf("demo result differs from generator output (-want +got):\n%s", diff)
			}
			if _, ok := up.calls[sbiz.EndpointFootTraffic]; ok {
				t.Fatalf("foot traffic must not run without usable simple data")
			}
		})
	}
}

func TestAnalyzeSettlesBranchesIndependently(t *testing.T) {
	tables, err := LoadDemoTables()
	if err != nil {
		t.Fatalf("load demo tables: %v", err)
	}
	const (
		simpleWithSeries = `{"analyNo":"AN-1","admiStorList":[{"yymm":"202508","storeCnt":116},{"yymm":"202507","storeCnt":118}],"admiSlsList":[{"yymm":"202508","avgAmt":"4800"}]}`
		climate          = `{"resultCode":"SUCCESS","data":{"avgScore":61,"detailList":[{"avgScore":61.6}]}}`
	)

	cases := []struct {
		name         string
		responses    map[string]string
		wantSource   string
		wantDaily    int
		wantClimate  int
		checkDefault bool
	}{
		{
			name: "foot traffic fails, climate and store data kept",
			responses: map[string]string{
				sbiz.EndpointSimple:         simpleWithSeries,
				sbiz.EndpointStartupClimate: climate,
			},
			wantSource:   models.SourceReal,
			wantDaily:    tables.DailyTraffic,
			wantClimate:  62,
			checkDefault: true,
		},
		{
			name: "zero average count",
			responses: map[string]string{
				sbiz.EndpointSimple:         simpleWithSeries,
				sbiz.EndpointFootTraffic:    `{"avgCnt":0,"wkdyRate":60}`,
				sbiz.EndpointStartupClimate: climate,
			},
			wantSource:  models.SourceReal,
			wantDaily:   tables.DailyTraffic,
			wantClimate: 62,
		},
		{
			name: "negative average count",
			responses: map[string]string{
				sbiz.EndpointSimple:      simpleWithSeries,
				sbiz.EndpointFootTraffic: `{"avgCnt":"-30"}`,
			},
			wantSource:  models.SourceReal,
			wantDaily:   tables.DailyTraffic,
			wantClimate: 0,
		},
		{
			name: "simple fails, climate still called",
			responses: map[string]string{
				sbiz.EndpointStartupClimate: climate,
			},
			wantSource: models.SourceDemo,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			up := &fakeUpstream{responses: tc.responses}
			svc, _ := newTestService(t, up, fixedRand(0))

			res := svc.Analyze(context.Background(), "서울 강남구 역삼1동", "커피전문점/카페")
			if res.DataSource != tc.wantSource {
				t.Fatalf("expected %s source, got %s", tc.wantSource, res.DataSource)
			}
			if _, ok := up.calls[sbiz.EndpointStartupClimate]; !ok {
				t.Fatalf("expected the climate call to run")
			}
			if tc.wantSource != models.SourceReal {
				return
			}
			if res.Traffic.Daily != tc.wantDaily {
				t.Fatalf("expected daily %d, got %d", tc.wantDaily, res.Traffic.Daily)
			}
			if res.ClimateScore != tc.wantClimate {
				t.Fatalf("expected climate %d, got %d", tc.wantClimate, res.ClimateScore)
			}
			if res.Competition.SameIndustry != 116 || res.Sales.Monthly != 48000000 {
				t.Fatalf("store and sales data must survive: %+v %+v", res.Competition, res.Sales)
			}
			if !tc.checkDefault {
				return
			}
			if res.Growth.Score != 62 {
				t.Fatalf("expected growth from climate, got %d", res.Growth.Score)
			}
			if res.Traffic.Weekday != tables.Weekday || res.Traffic.Weekend != tables.Weekend {
				t.Fatalf("expected default weekday split, got %+v", res.Traffic)
			}
			if diff := cmp.Diff(tables.TimeBands, res.Traffic.TimeSlot); diff != "" {
				t.Fatalf("expected default time slots:\n%s", diff)
			}
			if diff := cmp.Diff(tables.DayOfWeek, res.Traffic.DayOfWeek); diff != "" {
				t.Fatalf("expected default day of week:\n%s", diff)
			}
		})
	}
}

type panicUpstream struct{}

func (panicUpstream) Call(context.Context, string, url.Values) (json.RawMessage, error) {
	panic("boom")
}

func TestAnalyzeSurvivesBranchPanic(t *testing.T) {
	svc, _ := newTestService(t, panicUpstream{}, fixedRand(0))
	if res := svc.Analyze(context.Background(), "서울", "한식"); res.DataSource != models.SourceDemo {
		t.Fatalf("expected demo source, got %s", res.DataSource)
	}
}

func TestAnalyzeIgnoresCanceledContext(t *testing.T) {
	var seen error
	up := upstreamFunc(func(ctx context.Context, endpoint string, _ url.Values) (json.RawMessage, error) {
		if endpoint == sbiz.EndpointSimple {
			seen = ctx.Err()
		}
		return nil, errors.New("offline")
	})
	svc, _ := newTestService(t, up, fixedRand(0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.Analyze(ctx, "서울", "한식")
	if seen != nil {
		t.Fatalf("expected outbound context to survive inbound cancel, got %v", seen)
	}
}

type upstreamFunc func(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error)

func (f upstreamFunc) Call(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	return f(ctx, endpoint, params)
}
