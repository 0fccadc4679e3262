package extract

import (
	"github.com/jdkato/prose/v2"
	"github.com/rs/zerolog/log"
)

// ProseTagger backs the Tagger port with prose's statistical POS and NER
// models. Tagging failures degrade to "no entities found"; the extractor's
// regex chain takes over.
type ProseTagger struct{}

func (ProseTagger) Entities(text string) []Entity {
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		log.Debug().Err(err).Msg("prose tagging failed")
		return nil
	}
	ents := doc.Entities()
	out := make([]Entity, 0, len(ents))
	for _, e := range ents {
		out = append(out, Entity{Text: e.Text, Label: e.Label})
	}
	return out
}

func (ProseTagger) Tokens(text string) []Token {
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false), prose.WithExtraction(false))
	if err != nil {
		log.Debug().Err(err).Msg("prose tagging failed")
		return nil
	}
	toks := doc.Tokens()
	out := make([]Token, 0, len(toks))
	for _, t := range toks {
		out = append(out, Token{Text: t.Text, Tag: t.Tag})
	}
	return out
}
