package extract

import (
	"regexp"
	"sort"
	"strings"
)

// Extractor pulls a candidate place name out of free-form activity text.
// Pure and deterministic: no I/O, input never mutated.
//
// Strategies run in a fixed order, first match wins:
//  1. tagger entities, ranked facility > location > GPE > organization > person
//  2. consecutive proper-noun runs from POS tags
//  3. regex chain: landmark suffix, prepositional context, generic proper-noun phrase
type Extractor struct {
	vocab  Vocab
	tagger Tagger

	strategies []strategy

	reActionPhrase *regexp.Regexp
	reAdjective    *regexp.Regexp
	reLandmark     *regexp.Regexp
	reConnectorCut *regexp.Regexp
	reCommaCut     *regexp.Regexp
	rePreposition  *regexp.Regexp
	reAreaCut      *regexp.Regexp
	reProperPhrase *regexp.Regexp
	reTrailingCut  *regexp.Regexp
}

type strategy func(text string) (string, bool)

func New(v Vocab, t Tagger) *Extractor {
	e := &Extractor{vocab: v, tagger: t}

	e.reActionPhrase = regexp.MustCompile(`(?i)^(?:` + alternation(v.ActionPhrases) + `)\s+(?:the\s+)?`)
	e.reAdjective = regexp.MustCompile(`(?i)^(?:the\s+)?(?:` + alternation(v.LeadingAdjectives) + `)\s+(?:and\s+\w+\s+)?`)

	e.reLandmark = regexp.MustCompile(`^([A-Z][\w\s-]+?(?:` + alternation(v.LandmarkSuffixes) + `))\b`)
	e.reConnectorCut = regexp.MustCompile(`(?i)\s+(?:` + alternation(v.ConnectorPhrases) + `)\b.*$`)
	e.reCommaCut = regexp.MustCompile(`,.*$`)

	e.rePreposition = regexp.MustCompile(`\b(?:of|in|at|from|to)\s+([A-Z][\w-]+(?:\s+[A-Z][\w-]+){0,2})`)
	e.reAreaCut = regexp.MustCompile(`(?i)\s+(?:area|region)$`)

	e.reProperPhrase = regexp.MustCompile(`^([A-Z][\w-]+(?:\s+[A-Z][\w-]+){1,4})`)
	e.reTrailingCut = regexp.MustCompile(`(?i)\s+(?:` + alternation(v.TrailingWords) + `)\b.*$`)

	e.strategies = []strategy{
		e.entityStrategy,
		e.properNounRunStrategy,
		e.landmarkStrategy,
		e.prepositionStrategy,
		e.properPhraseStrategy,
	}
	return e
}

// Extract returns the first candidate place name found in activityText, or
// ("", false) when no strategy matches. A false result is not an error: the
// caller leaves the activity unenriched.
func (e *Extractor) Extract(activityText string) (string, bool) {
	cleaned := e.clean(activityText)
	if cleaned == "" {
		return "", false
	}
	for _, s := range e.strategies {
		if name, ok := s(cleaned); ok {
			return name, true
		}
	}
	return "", false
}

// clean strips the leading action-verb phrase and descriptive adjectives that
// otherwise corrupt phrase boundaries ("Visit the iconic Tokyo Tower").
func (e *Extractor) clean(text string) string {
	out := strings.TrimSpace(text)
	out = e.reActionPhrase.ReplaceAllString(out, "")
	for {
		next := e.reAdjective.ReplaceAllString(out, "")
		if next == out {
			break
		}
		out = next
	}
	return strings.TrimSpace(out)
}

// entityPriority ranks tagger labels; lower is better.
var entityPriority = map[string]int{
	"FAC": 0, "FACILITY": 0,
	"LOC": 1, "LOCATION": 1,
	"GPE": 2,
	"ORG": 3, "ORGANIZATION": 3,
	"PERSON": 4,
}

func (e *Extractor) entityStrategy(text string) (string, bool) {
	ents := e.tagger.Entities(text)
	if len(ents) == 0 {
		return "", false
	}
	type ranked struct {
		name string
		prio int
		pos  int
	}
	cands := make([]ranked, 0, len(ents))
	for _, en := range ents {
		prio, ok := entityPriority[strings.ToUpper(en.Label)]
		if !ok {
			continue
		}
		name := strings.TrimSpace(en.Text)
		if name == "" {
			continue
		}
		cands = append(cands, ranked{name: name, prio: prio, pos: strings.Index(text, name)})
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].prio != cands[j].prio {
			return cands[i].prio < cands[j].prio
		}
		return cands[i].pos < cands[j].pos
	})
	for _, c := range cands {
		if e.vocab.Skipped(c.name) {
			continue
		}
		if n := len([]rune(c.name)); n <= 3 || n >= 60 {
			continue
		}
		return c.name, true
	}
	return "", false
}

func (e *Extractor) properNounRunStrategy(text string) (string, bool) {
	toks := e.tagger.Tokens(text)
	if len(toks) == 0 {
		return "", false
	}
	var phrases []string
	var run []string
	for _, t := range toks {
		if t.Tag == "NNP" || t.Tag == "NNPS" {
			run = append(run, t.Text)
			continue
		}
		if len(run) > 0 {
			phrases = append(phrases, strings.Join(run, " "))
			run = nil
		}
	}
	if len(run) > 0 {
		phrases = append(phrases, strings.Join(run, " "))
	}
	for _, p := range phrases {
		if e.vocab.Skipped(p) || e.vocab.IsActionVerb(strings.Fields(p)[0]) {
			continue
		}
		if n := len([]rune(p)); n <= 3 || n >= 60 {
			continue
		}
		return p, true
	}
	return "", false
}

func (e *Extractor) landmarkStrategy(text string) (string, bool) {
	m := e.reLandmark.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	place := strings.TrimSpace(m[1])
	place = e.reCommaCut.ReplaceAllString(place, "")
	place = e.reConnectorCut.ReplaceAllString(place, "")
	place = strings.TrimSpace(place)
	if e.vocab.Skipped(place) {
		return "", false
	}
	if n := len([]rune(place)); n > 4 && n < 60 {
		return place, true
	}
	return "", false
}

func (e *Extractor) prepositionStrategy(text string) (string, bool) {
	m := e.rePreposition.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	place := strings.TrimSpace(e.reAreaCut.ReplaceAllString(m[1], ""))
	if e.vocab.Skipped(place) {
		return "", false
	}
	if n := len([]rune(place)); n > 3 && n < 60 {
		return place, true
	}
	return "", false
}

func (e *Extractor) properPhraseStrategy(text string) (string, bool) {
	m := e.reProperPhrase.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	place := m[1]
	place = e.reTrailingCut.ReplaceAllString(place, "")
	place = e.reCommaCut.ReplaceAllString(place, "")
	place = strings.TrimSpace(place)
	if place == "" {
		return "", false
	}
	words := strings.Fields(place)
	if e.vocab.IsActionVerb(words[0]) || e.vocab.Skipped(place) || len(words) < 2 {
		return "", false
	}
	if n := len([]rune(place)); n > 5 && n < 60 {
		return place, true
	}
	return "", false
}

func alternation(parts []string) string {
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = regexp.QuoteMeta(p)
	}
	return strings.Join(quoted, "|")
}
