package annotate

import (
	"github.com/pkg/errors"

	"text2phenotype.com/postag/logger"
	"text2phenotype.com/postag/pos"
)

var annotateLogger = logger.NewLogger("Annotate")

type Config struct {
	ModelPath         string
	TagDictionaryPath string
	TagMapPath        string
	SentenceModelPath string
	BeamSize          int
}

// Load reads every resource named by cfg. Optional paths may be empty.
func Load(cfg Config) (*Maxent, error) {
	if cfg.ModelPath == "" {
		return nil, errors.New("tagger model path is not set")
	}

	model, err := pos.LoadModelFromFile(cfg.ModelPath)
	if err != nil {
		return nil, err
	}
	annotateLogger.Info().Str("path", cfg.ModelPath).Int("outcomes", len(model.Outcomes)).Msg("Loaded tagger model")

	var dict pos.TagDictionary
	if cfg.TagDictionaryPath != "" {
		dict, err = pos.LoadTagDictionary(cfg.TagDictionaryPath)
		if err != nil {
			return nil, err
		}
		annotateLogger.Info().Str("path", cfg.TagDictionaryPath).Int("words", len(dict)).Msg("Loaded tag dictionary")
	}

	tagMap, err := LoadTagMap(cfg.TagMapPath)
	if err != nil {
		return nil, err
	}

	segmenter, err := NewSegmenter(cfg.SentenceModelPath)
	if err != nil {
		return nil, err
	}

	beamSize := cfg.BeamSize
	if beamSize <= 0 {
		beamSize = pos.DefaultBeamSize
	}
	return NewMaxent(pos.NewTagger(model, beamSize, dict), tagMap, segmenter), nil
}
