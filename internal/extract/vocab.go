package extract

import "strings"

// Vocab holds the static tables the extractor matches against. They are data,
// not behavior: construct once, inject, never mutate.
type Vocab struct {
	// skip holds lower-cased commercial brand names that must never become an
	// attraction name or reference link.
	skip map[string]struct{}
	// actionVerbs holds single verbs that disqualify a phrase when they appear
	// as its first word.
	actionVerbs map[string]struct{}

	LandmarkSuffixes  []string
	ActionPhrases     []string
	LeadingAdjectives []string
	TrailingWords     []string
	ConnectorPhrases  []string
}

func NewVocab(skipList, actionVerbs []string, v Vocab) Vocab {
	v.skip = make(map[string]struct{}, len(skipList))
	for _, s := range skipList {
		v.skip[strings.ToLower(s)] = struct{}{}
	}
	v.actionVerbs = make(map[string]struct{}, len(actionVerbs))
	for _, s := range actionVerbs {
		v.actionVerbs[strings.ToLower(s)] = struct{}{}
	}
	return v
}

func (v Vocab) Skipped(name string) bool {
	_, ok := v.skip[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

func (v Vocab) IsActionVerb(word string) bool {
	_, ok := v.actionVerbs[strings.ToLower(word)]
	return ok
}

// DefaultVocab is tuned for the generator's output style: short imperative
// activity sentences naming well-known landmarks.
func DefaultVocab() Vocab {
	return NewVocab(
		[]string{
			// car rental
			"Hertz", "Avis", "Budget", "Enterprise", "Alamo", "Sixt", "Europcar", "Thrifty",
			// hotel chains
			"Marriott", "Hilton", "Hyatt", "Sheraton", "Westin", "Radisson",
			"Ritz-Carlton", "Four Seasons", "Holiday Inn", "Best Western", "InterContinental",
			// online travel agencies
			"Expedia", "Booking.com", "Agoda", "Airbnb", "Kayak", "Trivago", "TripAdvisor",
			// ride share
			"Uber", "Lyft", "Grab",
			// food and retail chains
			"McDonald's", "Starbucks", "KFC", "Burger King", "Subway", "Pizza Hut", "7-Eleven",
		},
		[]string{
			"Take", "Visit", "Explore", "Enjoy", "Experience", "Discover", "Wander",
			"Stroll", "Ascend", "Relax", "Browse", "Witness", "Find", "Dive",
			"Immerse", "Have", "Walk", "See", "Tour", "Admire",
		},
		Vocab{
			LandmarkSuffixes: []string{
				"Temple", "Shrine", "Museum", "Tower", "Palace", "Castle", "Park",
				"Garden", "Gardens", "Square", "Market", "Building", "Hills",
				"Observatory", "Crossing", "Street", "Gate", "Hall", "Center", "Centre",
				"District", "Skytree", "Bridge", "River", "Station", "Memorial",
				"Statue", "Theatre", "Cathedral", "Basilica", "Aquarium", "Zoo",
			},
			ActionPhrases: []string{
				"visit", "explore", "tour", "see", "discover",
				"walk through", "walk along", "stroll through", "stroll and shop along",
				"wander through", "browse", "admire", "experience", "ascend", "descend",
				"relax and stroll through", "take a photo with", "take a photo of",
				"take a photo at", "take photos of", "enjoy", "immerse yourself in",
				"find tranquility at", "witness", "dive into the world of",
			},
			LeadingAdjectives: []string{
				"beautiful", "peaceful", "iconic", "world-famous", "trendy", "lively",
				"unique", "vibrant", "majestic", "historic", "upscale", "traditional",
				"contemporary", "quirky", "famous", "serene", "life-sized",
				"multi-story", "tranquil", "narrow", "bustling",
			},
			TrailingWords: []string{
				"area", "from", "come", "at", "for", "in", "near", "and",
			},
			ConnectorPhrases: []string{
				"dedicated to", "featuring", "known for", "offering", "including",
				"home to", "one of",
			},
		},
	)
}
