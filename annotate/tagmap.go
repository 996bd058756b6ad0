package annotate

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"text2phenotype.com/postag/types"
)

// PosOther is used for tags missing from the tag map.
const PosOther = "X"

// TagMap maps fine grained model tags to universal parts of speech.
type TagMap map[string]string

type tagMapFile struct {
	Tags map[string]string `yaml:"tags"`
}

// DefaultTagMap covers the Penn Treebank tag set.
func DefaultTagMap() TagMap {
	return TagMap{
		"CC": "CCONJ", "CD": "NUM", "DT": "DET", "EX": "PRON", "FW": "X",
		"IN": "ADP", "JJ": "ADJ", "JJR": "ADJ", "JJS": "ADJ", "LS": "X",
		"MD": "AUX", "NN": "NOUN", "NNS": "NOUN", "NNP": "PROPN", "NNPS": "PROPN",
		"PDT": "DET", "POS": "PART", "PRP": "PRON", "PRP$": "PRON", "RB": "ADV",
		"RBR": "ADV", "RBS": "ADV", "RP": "ADP", "SYM": "SYM", "TO": "PART",
		"UH": "INTJ", "VB": "VERB", "VBD": "VERB", "VBG": "VERB", "VBN": "VERB",
		"VBP": "VERB", "VBZ": "VERB", "WDT": "PRON", "WP": "PRON", "WP$": "PRON",
		"WRB": "ADV", "ADD": "X", "AFX": "ADJ", "GW": "X", "HYPH": "PUNCT",
		"NFP": "PUNCT", "XX": "X", "$": "SYM", "#": "SYM", ",": "PUNCT",
		".": "PUNCT", ":": "PUNCT", "``": "PUNCT", "''": "PUNCT", "-LRB-": "PUNCT",
		"-RRB-": "PUNCT", "_SP": types.PosSpace,
	}
}

// LoadTagMap reads a YAML file with a "tags" mapping and lays it over
// the default map.
func LoadTagMap(path string) (TagMap, error) {
	tagMap := DefaultTagMap()
	if path == "" {
		return tagMap, nil
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read tag map")
	}
	var file tagMapFile
	if err := yaml.Unmarshal(buf, &file); err != nil {
		return nil, errors.Wrapf(err, "decode tag map %s", path)
	}
	for tag, pos := range file.Tags {
		tagMap[tag] = pos
	}
	return tagMap, nil
}

// Coarse returns the universal tag of token given its model tag.
func (m TagMap) Coarse(token types.Token, tag string) string {
	if token.IsSpace {
		return types.PosSpace
	}
	if pos, ok := m[tag]; ok {
		return pos
	}
	return PosOther
}
