package sbiz

import (
	"net/url"
	"strconv"
	"time"

	"github.com/bizon-consulting/backend/internal/codes"
)

// Target is a resolved address and industry, plus the analysis number a
// foot traffic query refers to.
type Target struct {
	Location codes.Location
	Industry codes.IndustryCodes
	AnalyNo  string
}

// DefaultParams builds the query an endpoint expects for t. It reports
// false for an unknown endpoint.
func DefaultParams(endpoint string, t Target, now time.Time) (url.Values, bool) {
	loc, ind := t.Location, t.Industry
	switch endpoint {
	case EndpointSimple:
		return SimpleAnalysisParams(loc.Subdivision.Code, ind.Long, loc.Label), true
	case EndpointFootTraffic:
		return FootTrafficParams(t.AnalyNo, loc.Subdivision.Code, ind.Long, now), true
	case EndpointStartupClimate:
		return StartupClimateParams(loc.Province.Code, loc.District.Code, ind.Long), true
	case EndpointStoreStatus:
		return StoreStatusParams(loc.District.Code, ind.Numeric), true
	case EndpointSalesTrend:
		return SalesTrendParams(loc.Province.Code, ind.Short), true
	case EndpointDelivery:
		return DeliveryParams(ind.Delivery, loc.District.Code, now), true
	case EndpointHotPlace:
		return HotPlaceParams(loc.District.Code, loc.Province.Code), true
	case EndpointIndustryBest:
		return IndustryBestParams(largeCategory(ind.Short)), true
	default:
		return nil, false
	}
}

// largeCategory turns a short code such as I212 into its large category I2.
func largeCategory(short string) string {
	if len(short) < 2 {
		return ""
	}
	return short[:2]
}

func SimpleAnalysisParams(admiCd, upjongCd, simpleLoc string) url.Values {
	return url.Values{
		"admiCd":      {admiCd},
		"upjongCd":    {upjongCd},
		"simpleLoc":   {simpleLoc},
		"bizonNumber": {""},
		"bizonName":   {""},
		"bzznType":    {""},
	}
}

func FootTrafficParams(analyNo, admiCd, upjongCd string, at time.Time) url.Values {
	return url.Values{
		"analyNo":     {analyNo},
		"admiCd":      {admiCd},
		"upjongCd":    {upjongCd},
		"mililis":     {strconv.FormatInt(at.UnixMilli(), 10)},
		"bizonNumber": {""},
		"bizonName":   {""},
		"bzznType":    {""},
	}
}

func StartupClimateParams(megaCd, cityCd, tpbizClscd string) url.Values {
	return url.Values{
		"megaCd":     {megaCd},
		"cityCd":     {cityCd},
		"tpbizClscd": {tpbizClscd},
		"chkCrtrYm":  {"tdMonth"},
	}
}

// StoreStatusParams queries by administrative area.
func StoreStatusParams(areaCd, upjongCd string) url.Values {
	v := url.Values{
		"sprTypeNo": {"1"},
		"kin":       {"area"},
	}
	if areaCd != "" {
		v.Set("areaCd", areaCd)
	}
	if upjongCd != "" {
		v.Set("upjongCd", upjongCd)
	}
	return v
}

func SalesTrendParams(megaCd, upjongCd string) url.Values {
	if megaCd == "" {
		megaCd = "11"
	}
	return url.Values{
		"megaCd":   {megaCd},
		"upjongCd": {upjongCd},
	}
}

// DeliveryParams covers January 2022 through the month of now.
func DeliveryParams(tpbizNm, ctyCd string, now time.Time) url.Values {
	if tpbizNm == "" {
		tpbizNm = "카페·디저트"
	}
	if ctyCd == "" {
		ctyCd = "1114"
	}
	return url.Values{
		"tpbizNm":  {tpbizNm},
		"ctyCd":    {ctyCd},
		"fromDate": {"202201"},
		"toDate":   {now.Format("200601")},
	}
}

func HotPlaceParams(areaCd, megaCd string) url.Values {
	v := url.Values{"bizonTheme": {"MZ"}}
	if areaCd != "" {
		v.Set("areaCd", areaCd)
	}
	if megaCd != "" {
		v.Set("megaCd", megaCd)
	}
	return v
}

func IndustryBestParams(tpbizLclcd string) url.Values {
	if tpbizLclcd == "" {
		tpbizLclcd = "I2"
	}
	return url.Values{"tpbizLclcd": {tpbizLclcd}}
}
