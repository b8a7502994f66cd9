package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/bizon-consulting/backend/internal/codes"
	"github.com/bizon-consulting/backend/internal/geocode"
	"github.com/bizon-consulting/backend/internal/metrics"
	"github.com/bizon-consulting/backend/internal/models"
	"github.com/bizon-consulting/backend/internal/sbiz"
)

// Upstream is satisfied by *sbiz.Client.
type Upstream interface {
	Call(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error)
}

type Deps struct {
	Codes    *codes.Resolver
	Upstream Upstream
	Geocoder geocode.Geocoder
	Demo     *Generator
	Now      func() time.Time
	Log      zerolog.Logger
}

type Service struct {
	codes    *codes.Resolver
	upstream Upstream
	geocoder geocode.Geocoder
	demo     *Generator
	now      func() time.Time
	log      zerolog.Logger
}

func NewService(d Deps) *Service {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Geocoder == nil {
		d.Geocoder = geocode.TableGeocoder{Table: d.Codes}
	}
	return &Service{
		codes:    d.Codes,
		upstream: d.Upstream,
		geocoder: d.Geocoder,
		demo:     d.Demo,
		now:      d.Now,
		log:      d.Log.With().Str("component", "analysis").Logger(),
	}
}

type upstreamData struct {
	simple   sbiz.SimpleAnalysis
	simpleOK bool
	traffic  *sbiz.FootTraffic
	climate  float64
}

// Analyze never fails: upstream problems degrade to defaults or to a fully
// synthesized result tagged "demo".
func (s *Service) Analyze(ctx context.Context, address, industry string) models.AnalysisResult {
	ctx = context.WithoutCancel(ctx)
	loc := s.codes.ResolveLocation(address)
	ind := s.codes.ResolveIndustry(industry)
	log := s.log.With().Str("district", loc.District.Code).Str("subdivision", loc.Subdivision.Code).Str("upjong", ind.Long).Logger()

	data := s.collect(ctx, loc, ind, log)

	var res models.AnalysisResult
	if data.simpleOK {
		res = s.merge(data, industryKey(ind, industry))
	} else {
		res = s.demo.Generate(address, industry)
	}

	coords, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		log.Warn().Err(err).Msg("geocode failed, using table")
		lat, lng := s.codes.Coordinates(address)
		coords = models.Coordinates{Lat: lat, Lng: lng}
	}
	res.Coordinates = coords
	res.Codes = models.ResolvedCodes{
		District:        loc.District.Code,
		Subdivision:     loc.Subdivision.Code,
		Province:        loc.Province.Code,
		Industry:        ind.Long,
		ClimateIndustry: ind.Long,
		Location:        loc.Label,
	}

	metrics.AnalysisResults.WithLabelValues(res.DataSource).Inc()
	log.Info().Str("source", res.DataSource).Bool("foot_traffic", data.traffic != nil).Float64("climate", data.climate).Msg("analysis done")
	return res
}

// collect runs simple analysis then foot traffic on one branch and the
// startup climate on another. No branch cancels the other.
func (s *Service) collect(ctx context.Context, loc codes.Location, ind codes.Industry, log zerolog.Logger) upstreamData {
	var (
		data upstreamData
		g    errgroup.Group
	)
	g.Go(guard(log, "simple", func() error {
		raw, err := s.upstream.Call(ctx, sbiz.EndpointSimple, sbiz.SimpleAnalysisParams(loc.Subdivision.Code, ind.Long, loc.Label))
		if err != nil {
			log.Warn().Err(err).Msg("simple analysis failed")
			return nil
		}
		sa, ok := sbiz.ParseSimpleAnalysis(raw)
		if !ok {
			log.Warn().Msg("simple analysis returned a non-object body")
			return nil
		}
		if !hasData(sa) {
			log.Warn().Msg("simple analysis returned no usable data")
			return nil
		}
		data.simple, data.simpleOK = sa, true
		if !sa.AnalyNo.Valid || sa.AnalyNo.Value == "" {
			return nil
		}

		raw, err = s.upstream.Call(ctx, sbiz.EndpointFootTraffic, sbiz.FootTrafficParams(sa.AnalyNo.Value, loc.Subdivision.Code, ind.Long, s.now()))
		if err != nil {
			log.Warn().Err(err).Msg("foot traffic failed")
			return nil
		}
		if ft, ok := sbiz.ParseFootTraffic(raw); ok {
			data.traffic = &ft
		}
		return nil
	}))
	g.Go(guard(log, "climate", func() error {
		raw, err := s.upstream.Call(ctx, sbiz.EndpointStartupClimate, sbiz.StartupClimateParams(loc.Province.Code, loc.District.Code, ind.Long))
		if err != nil {
			log.Warn().Err(err).Msg("startup climate failed")
			return nil
		}
		if c, ok := sbiz.ParseStartupClimate(raw); ok {
			data.climate = c.Score()
		}
		return nil
	}))
	_ = g.Wait()
	return data
}

func guard(log zerolog.Logger, branch string, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Str("branch", branch).Interface("panic", r).Msg("upstream branch panicked")
				err = fmt.Errorf("%s branch panicked: %v", branch, r)
			}
		}()
		return fn()
	}
}

func industryKey(ind codes.Industry, raw string) string {
	if ind.Label != "" {
		return ind.Label
	}
	return raw
}

func (s *Service) merge(data upstreamData, industry string) models.AnalysisResult {
	base := s.demo.Baseline(industry)
	baselineMonthly := int64(math.Round(base.AvgSales * 10000))
	t := s.demo.t

	series := storeSeries(data.simple)
	same := competitionCount(series, base.Competition)
	nearby := int(math.Round(float64(same) / 3))
	monthly := monthlySales(data.simple, baselineMonthly)
	mom, yoy := growthRates(series, data.simple)

	traffic := models.Traffic{
		Daily:     t.DailyTraffic,
		Weekday:   t.Weekday,
		Weekend:   t.Weekend,
		DayOfWeek: cloneFloats(t.DayOfWeek),
		TimeSlot:  cloneFloats(t.TimeBands),
		AgeGender: s.demo.ageGender(),
	}
	if ft := data.traffic; ft != nil {
		if ft.AvgCnt.Valid && ft.AvgCnt.Value > 0 {
			traffic.Daily = int(math.Round(ft.AvgCnt.Value))
		}
		traffic.Weekday = ft.WkdyRate.Or(t.Weekday)
		traffic.Weekend = ft.WkndRate.Or(t.Weekend)
		traffic.DayOfWeek = ratesOr(ft.DayRates(), t.DayOfWeek)
		traffic.TimeSlot = ratesOr(ft.TimeRates(), t.TimeBands)
	}
	traffic.Score = min(100, int(math.Round(75*float64(traffic.Daily)/float64(t.DailyTraffic))))

	salesScore := t.SalesScore
	if baselineMonthly > 0 {
		salesScore = min(100, int(math.Round(float64(t.SalesScore)*float64(monthly)/float64(baselineMonthly))))
	}

	climate := int(math.Round(data.climate))
	growthScore := t.GrowthScore.Fallback
	if climate > 0 {
		growthScore = climate
	}

	return models.AnalysisResult{
		Traffic: traffic,
		Competition: models.Competition{
			SameIndustry: same,
			Nearby:       nearby,
			Score:        max(0, 100-8*nearby),
			Distribution: append([]int(nil), t.Distribution...),
		},
		Sales: models.Sales{
			Monthly: monthly,
			Growth:  mom,
			YoY:     yoy,
			Score:   salesScore,
		},
		Growth:          models.Growth{Score: growthScore},
		ClimateScore:    climate,
		Recommendations: append([]string(nil), t.Recommendations...),
		DataSource:      models.SourceReal,
	}
}
