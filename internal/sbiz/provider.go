package sbiz

import (
	"net/http"
	"net/url"
	"strings"
)

const (
	EndpointSimple         = "simple"
	EndpointFootTraffic    = "getPopularInfo"
	EndpointStartupClimate = "startupClimate"
	EndpointStoreStatus    = "storSttus"
	EndpointSalesTrend     = "slsIdex"
	EndpointDelivery       = "delivery"
	EndpointHotPlace       = "hpReport"
	EndpointIndustryBest   = "getTpbizMclCodeWithBest"
)

const DefaultBaseURL = "https://bigdata.sbiz.or.kr"

// Provider isolates everything specific to one open-data host: URL layout,
// guessed alternates, required headers and credentials.
type Provider interface {
	URL(endpoint string) string
	Alternates(endpoint string) []string
	Headers() http.Header
	AuthParams(endpoint string) url.Values
}

var bizonPaths = map[string]string{
	EndpointStoreStatus:    "sbiz/api/bizonSttus/storSttus/search.json",
	EndpointSalesTrend:     "sbiz/api/bizonSttus/slsIdex/search.json",
	EndpointDelivery:       "gis/delivery/getAdmAnlsByCty.json",
	EndpointHotPlace:       "gis/hpAnls/report.json",
	EndpointSimple:         "gis/simpleAnls/getAvgAmtInfo.json",
	EndpointFootTraffic:    "gis/simpleAnls/getPopularInfo.json",
	EndpointIndustryBest:   "gis/api/getTpbizMclCodeWithBest.json",
	EndpointStartupClimate: "sbiz/api/swc/getDetailScore",
}

// Endpoints lists the known endpoint keys.
func Endpoints() []string {
	return []string{
		EndpointSimple,
		EndpointFootTraffic,
		EndpointStartupClimate,
		EndpointStoreStatus,
		EndpointSalesTrend,
		EndpointDelivery,
		EndpointHotPlace,
		EndpointIndustryBest,
	}
}

type BizonProvider struct {
	BaseURL       string
	SessionCookie string
	// Keys maps an endpoint key to the login id sent as xtLoginId.
	Keys map[string]string
}

func (p BizonProvider) base() string {
	b := strings.TrimRight(strings.TrimSpace(p.BaseURL), "/")
	if b == "" {
		return DefaultBaseURL
	}
	return b
}

func (p BizonProvider) URL(endpoint string) string {
	if path, ok := bizonPaths[endpoint]; ok {
		return p.base() + "/" + path
	}
	return p.base() + "/sbiz/api/bizonSttus/" + url.PathEscape(endpoint) + "/search.json"
}

func (p BizonProvider) Alternates(endpoint string) []string {
	b := p.base()
	if endpoint == EndpointSimple {
		return []string{
			b + "/gis/simpleAnls/getBaeminInfo.json",
			b + "/gis/simpleAnls/getPopularInfo.json",
			b + "/gis/api/getPopularInfo.json",
		}
	}
	e := url.PathEscape(endpoint)
	alts := []string{
		b + "/api/openApi/" + e,
		b + "/api/" + e,
	}
	openAPI := b + "/openApi/" + e
	if key := p.Keys[endpoint]; key != "" {
		openAPI += "?" + url.Values{"certKey": {key}}.Encode()
	}
	return append(alts, openAPI)
}

func (p BizonProvider) Headers() http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json, text/plain, */*")
	h.Set("Referer", p.base()+"/")
	h.Set("Origin", p.base())
	if p.SessionCookie != "" {
		h.Set("Cookie", p.SessionCookie)
	}
	return h
}

func (p BizonProvider) AuthParams(endpoint string) url.Values {
	v := url.Values{}
	if key := p.Keys[endpoint]; key != "" {
		v.Set("xtLoginId", key)
	}
	return v
}
