// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

// englishStopWords is the classic Lucene English stop set. The set is fixed:
// changing it would silently re-rank every indexed document.
var englishStopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "but": {}, "by": {},
	"for": {},
	"if": {}, "in": {}, "into": {}, "is": {}, "it": {},
	"no": {}, "not": {},
	"of": {}, "on": {}, "or": {},
	"such": {},
	"that": {}, "the": {}, "their": {}, "then": {}, "there": {},
	"these": {}, "they": {}, "this": {}, "to": {},
	"was": {}, "will": {}, "with": {},
}

func isStopWord(tok string) bool {
	_, ok := englishStopWords[tok]
	return ok
}
