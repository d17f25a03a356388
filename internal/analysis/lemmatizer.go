// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"fmt"
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/jdkato/prose/v2"
)

// Lemmatizer resolves already-normalized tokens to their dictionary base
// forms. Implementations must be deterministic; tests inject fixed-map stubs
// so no model load is needed off the production path.
type Lemmatizer interface {
	Lemmatize(tokens []string) []string
}

// contentTagPrefixes are the part-of-speech classes that carry a dictionary
// lemma: nouns, verbs, adjectives, adverbs. Tokens tagged otherwise keep
// their surface form.
var contentTagPrefixes = []string{"NN", "VB", "JJ", "RB"}

// EnglishLemmatizer tags tokens with a part-of-speech model and maps
// (token, tag) pairs to lemmas through an English dictionary. A token absent
// from the dictionary has no lemma and is kept as-is.
type EnglishLemmatizer struct {
	dict *golem.Lemmatizer
}

// NewEnglishLemmatizer loads the tagging and dictionary models. A load
// failure here is a fatal initialization error for the whole engine: the
// analysis chain cannot run without its model.
func NewEnglishLemmatizer() (*EnglishLemmatizer, error) {
	dict, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("loading lemmatizer dictionary: %w", err)
	}
	return &EnglishLemmatizer{dict: dict}, nil
}

// Lemmatize tags the token sequence and replaces each content-word token
// with its dictionary lemma. Tokens the dictionary does not know, and tokens
// outside the content classes, pass through unchanged.
func (l *EnglishLemmatizer) Lemmatize(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}

	tags := l.tag(tokens)
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok
		if !isContentTag(tags[i]) {
			continue
		}
		if lemma := l.dict.Lemma(tok); lemma != "" && l.dict.InDict(tok) {
			out[i] = strings.ToLower(lemma)
		}
	}
	return out
}

// tag runs the part-of-speech model over the tokens. The tokens are plain
// lowercase word characters, so joining on spaces round-trips through the
// model's own tokenizer; if the model still disagrees on segmentation the
// affected tokens fall back to an empty tag and pass through unlemmatized.
func (l *EnglishLemmatizer) tag(tokens []string) []string {
	tags := make([]string, len(tokens))

	doc, err := prose.NewDocument(
		strings.Join(tokens, " "),
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	)
	if err != nil {
		return tags
	}

	tagByText := make(map[string]string)
	for _, t := range doc.Tokens() {
		if _, seen := tagByText[t.Text]; !seen {
			tagByText[t.Text] = t.Tag
		}
	}
	for i, tok := range tokens {
		tags[i] = tagByText[tok]
	}
	return tags
}

func isContentTag(tag string) bool {
	for _, prefix := range contentTagPrefixes {
		if strings.HasPrefix(tag, prefix) {
			return true
		}
	}
	return false
}
