package extract

// Entity is a labeled span from an entity tagger. Labels follow the usual
// NER conventions (FAC, LOC, GPE, ORG, PERSON).
type Entity struct {
	Text  string
	Label string
}

// Token is a single word with its Penn Treebank part-of-speech tag.
type Token struct {
	Text string
	Tag  string
}

// Tagger is the optional natural-language capability behind the two
// tagger-backed strategies. Implementations must be safe for concurrent use.
type Tagger interface {
	Entities(text string) []Entity
	Tokens(text string) []Token
}

// NoopTagger disables the tagger-backed strategies so the extractor runs on
// its regex chain alone.
type NoopTagger struct{}

func (NoopTagger) Entities(string) []Entity { return nil }
func (NoopTagger) Tokens(string) []Token    { return nil }
