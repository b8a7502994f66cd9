package sbiz

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
)

// Number is an upstream numeric field that may be absent, null, a JSON
// number or a numeric string. Anything else decodes as absent.
type Number struct {
	Value float64
	Valid bool
}

func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			*n = Number{Value: f, Valid: true}
		}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*n = Number{Value: f, Valid: true}
	}
	return nil
}

// Or returns the value when present, else def.
func (n Number) Or(def float64) float64 {
	if n.Valid {
		return n.Value
	}
	return def
}

// Text is an upstream identifier that may arrive as a string or a number.
type Text struct {
	Value string
	Valid bool
}

func (t *Text) UnmarshalJSON(b []byte) error {
	*t = Text{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		s = strings.TrimSpace(s)
		if s != "" {
			*t = Text{Value: s, Valid: true}
		}
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err == nil {
		*t = Text{Value: num.String(), Valid: true}
	}
	return nil
}

type StoreCount struct {
	YYMM     Text   `json:"yymm"`
	StoreCnt Number `json:"storeCnt"`
	AreaGb   Text   `json:"areaGb"`
}

type SalesPoint struct {
	YYMM   Text   `json:"yymm"`
	AvgAmt Number `json:"avgAmt"`
}

// SimpleAnalysis is the subset of the simple-analysis payload the
// analysis merge reads. Amounts are in units of 10,000 won.
type SimpleAnalysis struct {
	AnalyNo      Text         `json:"analyNo"`
	AdmiStorList []StoreCount `json:"admiStorList"`
	StorList     []StoreCount `json:"storList"`
	AdmiSlsList  []SalesPoint `json:"admiSlsList"`
	AdmiAvgAmt   Number       `json:"admiAvgAmt"`
	CtyAvgAmt    Number       `json:"ctyAvgAmt"`
	MomRate      Number       `json:"momRate"`
	YoyRate      Number       `json:"yoyRate"`
}

type FootTraffic struct {
	AvgCnt   Number `json:"avgCnt"`
	WkdyRate Number `json:"wkdyRate"`
	WkndRate Number `json:"wkndRate"`
	MonRate  Number `json:"monRate"`
	TueRate  Number `json:"tueRate"`
	WedRate  Number `json:"wedRate"`
	ThuRate  Number `json:"thuRate"`
	FriRate  Number `json:"friRate"`
	SatRate  Number `json:"satRate"`
	SunRate  Number `json:"sunRate"`
	Tm1Rate  Number `json:"tm1Rate"`
	Tm2Rate  Number `json:"tm2Rate"`
	Tm3Rate  Number `json:"tm3Rate"`
	Tm4Rate  Number `json:"tm4Rate"`
	Tm5Rate  Number `json:"tm5Rate"`
	Tm6Rate  Number `json:"tm6Rate"`
}

// DayRates returns Monday to Sunday.
func (f FootTraffic) DayRates() []Number {
	return []Number{f.MonRate, f.TueRate, f.WedRate, f.ThuRate, f.FriRate, f.SatRate, f.SunRate}
}

func (f FootTraffic) TimeRates() []Number {
	return []Number{f.Tm1Rate, f.Tm2Rate, f.Tm3Rate, f.Tm4Rate, f.Tm5Rate, f.Tm6Rate}
}

type ClimateDetail struct {
	AvgScore Number `json:"avgScore"`
}

type StartupClimate struct {
	ResultCode Text `json:"resultCode"`
	Data       struct {
		AvgScore   Number          `json:"avgScore"`
		DetailList []ClimateDetail `json:"detailList"`
	} `json:"data"`
}

// Score is the first detail entry's average score, 0 when absent.
func (s StartupClimate) Score() float64 {
	if len(s.Data.DetailList) == 0 {
		return 0
	}
	return s.Data.DetailList[0].AvgScore.Or(0)
}

// DecodeObject decodes raw into v only when raw is a JSON object.
func DecodeObject(raw json.RawMessage, v any) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	return json.Unmarshal(trimmed, v) == nil
}

// ParseSimpleAnalysis reports false when raw is not a JSON object. Fields
// with an unexpected shape are left absent instead of failing the parse.
func ParseSimpleAnalysis(raw json.RawMessage) (SimpleAnalysis, bool) {
	var fields map[string]json.RawMessage
	if !DecodeObject(raw, &fields) {
		return SimpleAnalysis{}, false
	}
	var out SimpleAnalysis
	decodeField(fields, "analyNo", &out.AnalyNo)
	decodeField(fields, "admiStorList", &out.AdmiStorList)
	decodeField(fields, "storList", &out.StorList)
	decodeField(fields, "admiSlsList", &out.AdmiSlsList)
	decodeField(fields, "admiAvgAmt", &out.AdmiAvgAmt)
	decodeField(fields, "ctyAvgAmt", &out.CtyAvgAmt)
	decodeField(fields, "momRate", &out.MomRate)
	decodeField(fields, "yoyRate", &out.YoyRate)
	return out, true
}

func ParseFootTraffic(raw json.RawMessage) (FootTraffic, bool) {
	var out FootTraffic
	ok := DecodeObject(raw, &out)
	return out, ok
}

func ParseStartupClimate(raw json.RawMessage) (StartupClimate, bool) {
	var fields map[string]json.RawMessage
	if !DecodeObject(raw, &fields) {
		return StartupClimate{}, false
	}
	var out StartupClimate
	decodeField(fields, "resultCode", &out.ResultCode)
	var data map[string]json.RawMessage
	if decodeField(fields, "data", &data) {
		decodeField(data, "avgScore", &out.Data.AvgScore)
		decodeField(data, "detailList", &out.Data.DetailList)
	}
	return out, true
}

func decodeField(fields map[string]json.RawMessage, name string, v any) bool {
	raw, ok := fields[name]
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		reflect.ValueOf(v).Elem().SetZero()
		return false
	}
	return true
}
