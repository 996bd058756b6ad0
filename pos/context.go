package pos

import (
	"strings"

	"text2phenotype.com/postag/types"
)

const (
	prefixLength = 4
	suffixLength = 4

	sentenceBegin = "*SB*"
	sentenceEnd   = "*SE*"
)

type ContextGenerator interface {
	GetContext(index int, seq []types.Token, priorDecisions []string) []string
}

type defaultContextGenerator struct {
	// words for which affix features are not generated
	dict    map[string]bool
	seToken *types.Token
	sbToken *types.Token
}

func (g *defaultContextGenerator) GetContext(index int, tokens []types.Token, tags []string) []string {
	var next, prev, nextnext, prevprev *types.Token
	var tagprev, tagprevprev string

	next = g.seToken
	prev = g.sbToken

	lex := tokens[index].GetShapedText()
	if len(tokens) > index+1 {
		next = &tokens[index+1]
		nextnext = g.seToken
		if len(tokens) > index+2 {
			nextnext = &tokens[index+2]
		}
	}

	if index > 0 {
		prev = &tokens[index-1]
		prevprev = g.sbToken
		tagprev = tags[index-1]

		if index >= 2 {
			prevprev = &tokens[index-2]
			tagprevprev = tags[index-2]
		}
	}

	contexts := make([]string, 0, 20)
	contexts = append(contexts, "default", "w="+lex)

	if !g.dict[strings.ToLower(lex)] {
		for _, suf := range getSuffixes(lex) {
			contexts = append(contexts, "suf="+suf)
		}

		for _, pref := range getPrefixes(lex) {
			contexts = append(contexts, "pre="+pref)
		}

		if strings.ContainsRune(lex, '-') {
			contexts = append(contexts, "h")
		}

		if strings.ContainsRune(tokens[index].Shape, 'X') {
			contexts = append(contexts, "c")
		}

		if strings.ContainsRune(tokens[index].Shape, 'd') {
			contexts = append(contexts, "d")
		}
	}

	contexts = append(contexts, "p="+prev.GetShapedText())

	if len(tagprev) > 0 {
		contexts = append(contexts, "t="+tagprev)
	}

	if prevprev != nil {
		contexts = append(contexts, "pp="+prevprev.GetShapedText())

		if len(tagprevprev) > 0 {
			contexts = append(contexts, "t2="+tagprevprev+","+tagprev)
		}
	}

	contexts = append(contexts, "n="+next.GetShapedText())
	if nextnext != nil {
		contexts = append(contexts, "nn="+nextnext.GetShapedText())
	}

	return contexts
}

// getPrefixes and getSuffixes work on runes so that multi-byte
// characters are never cut.
func getPrefixes(lex string) []string {
	runes := []rune(lex)
	prefs := make([]string, prefixLength)
	for li := 0; li < prefixLength; li++ {
		idx := len(runes)
		if idx > li+1 {
			idx = li + 1
		}
		prefs[li] = string(runes[:idx])
	}
	return prefs
}

func getSuffixes(lex string) []string {
	runes := []rune(lex)
	suffs := make([]string, suffixLength)
	for li := 0; li < suffixLength; li++ {
		idx := len(runes) - li - 1
		if idx < 0 {
			idx = 0
		}
		suffs[li] = string(runes[idx:])
	}
	return suffs
}

func NewContextGenerator(dict map[string]bool) ContextGenerator {
	return &defaultContextGenerator{
		dict:    dict,
		sbToken: &types.Token{Span: types.Span{Text: sentenceBegin}},
		seToken: &types.Token{Span: types.Span{Text: sentenceEnd}},
	}
}
