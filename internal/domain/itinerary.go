package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Itinerary is the upstream generator's day-keyed plan: {"day1": {...}, "day2": {...}}.
// When the generator fails to produce parseable output it sends {"raw": "<text>"};
// that form is opaque and must pass through enrichment untouched.
type Itinerary struct {
	Raw  string
	Days map[string]DayPlan
}

func (it Itinerary) IsRaw() bool { return it.Raw != "" }

// DayKeys returns day keys ordered by their numeric ordinal (day1, day2, ... day10),
// falling back to lexical order for keys without one.
func (it Itinerary) DayKeys() []string {
	keys := make([]string, 0, len(it.Days))
	for k := range it.Days {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := dayOrdinal(keys[i]), dayOrdinal(keys[j])
		if a != b {
			return a < b
		}
		return keys[i] < keys[j]
	})
	return keys
}

func dayOrdinal(key string) int {
	digits := strings.TrimLeftFunc(key, func(r rune) bool { return r < '0' || r > '9' })
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 1 << 30 // sort unkeyed entries last
	}
	return n
}

func (it Itinerary) MarshalJSON() ([]byte, error) {
	if it.IsRaw() {
		return json.Marshal(map[string]string{"raw": it.Raw})
	}
	return json.Marshal(it.Days)
}

func (it *Itinerary) UnmarshalJSON(b []byte) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(b, &top); err != nil {
		return err
	}
	if raw, ok := top["raw"]; ok {
		if err := json.Unmarshal(raw, &it.Raw); err != nil {
			// non-string raw payload: keep the bytes verbatim
			it.Raw = string(raw)
		}
		return nil
	}
	it.Days = make(map[string]DayPlan, len(top))
	for k, v := range top {
		var d DayPlan
		if err := json.Unmarshal(v, &d); err != nil {
			return fmt.Errorf("day %q: %w", k, err)
		}
		it.Days[k] = d
	}
	return nil
}

// DayPlan carries one day's activities. Transportation is opaque to this service
// and passed through unmodified; unknown upstream keys are preserved in Extra
// byte-for-byte so enrichment never drops generator output.
type DayPlan struct {
	Location           string
	LocationLink       string
	Morning            []Activity
	Afternoon          []Activity
	Evening            []Activity
	FoodRecommendation string
	CulturalHighlight  string
	Transportation     json.RawMessage
	Extra              map[string]json.RawMessage
}

func (d DayPlan) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 8+len(d.Extra))
	if d.Location != "" {
		out["location"] = d.Location
	}
	if d.LocationLink != "" {
		out["location_wiki"] = d.LocationLink
	}
	if d.Morning != nil {
		out["morning"] = d.Morning
	}
	if d.Afternoon != nil {
		out["afternoon"] = d.Afternoon
	}
	if d.Evening != nil {
		out["evening"] = d.Evening
	}
	if d.FoodRecommendation != "" {
		out["food_recommendation"] = d.FoodRecommendation
	}
	if d.CulturalHighlight != "" {
		out["cultural_highlight"] = d.CulturalHighlight
	}
	if len(d.Transportation) > 0 {
		out["transportation"] = d.Transportation
	}
	for k, v := range d.Extra {
		out[k] = v
	}
	return json.Marshal(out)
}

func (d *DayPlan) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	for k, v := range fields {
		var err error
		switch k {
		case "location":
			err = json.Unmarshal(v, &d.Location)
		case "location_wiki":
			err = json.Unmarshal(v, &d.LocationLink)
		case "morning":
			err = json.Unmarshal(v, &d.Morning)
		case "afternoon":
			err = json.Unmarshal(v, &d.Afternoon)
		case "evening":
			err = json.Unmarshal(v, &d.Evening)
		case "food_recommendation":
			err = json.Unmarshal(v, &d.FoodRecommendation)
		case "cultural_highlight":
			err = json.Unmarshal(v, &d.CulturalHighlight)
		case "transportation":
			d.Transportation = v
		default:
			if d.Extra == nil {
				d.Extra = make(map[string]json.RawMessage, 4)
			}
			d.Extra[k] = v
		}
		if err != nil {
			return fmt.Errorf("field %q: %w", k, err)
		}
	}
	return nil
}

// Activity is either a plain string from the generator or an enriched record.
// Enrichment always reads Text, never the derived fields, so re-running it on
// an already-enriched itinerary yields the same result.
type Activity struct {
	Text           string
	AttractionName string
	ReferenceLink  string
}

type activityJSON struct {
	Text           string `json:"text"`
	AttractionName string `json:"attractionName,omitempty"`
	ReferenceLink  string `json:"wiki,omitempty"`
}

func (a Activity) MarshalJSON() ([]byte, error) {
	return json.Marshal(activityJSON{Text: a.Text, AttractionName: a.AttractionName, ReferenceLink: a.ReferenceLink})
}

func (a *Activity) UnmarshalJSON(b []byte) error {
	t := strings.TrimSpace(string(b))
	if strings.HasPrefix(t, `"`) {
		return json.Unmarshal(b, &a.Text)
	}
	var obj activityJSON
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	a.Text, a.AttractionName, a.ReferenceLink = obj.Text, obj.AttractionName, obj.ReferenceLink
	return nil
}
