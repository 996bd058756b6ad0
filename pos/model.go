package pos

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/pkg/errors"
)

type Context struct {
	Outcomes   []int     `json:"outcomes"`
	Parameters []float64 `json:"parameters"`
}

type EvalParameters struct {
	Params        []Context `json:"params"`
	NumOfOutcomes int       `json:"numOfOutcomes"`
}

// Model is a maximum entropy model. PMap maps a context predicate to its
// parameters in EvalParams.
type Model struct {
	Probs      []float64      `json:"probs"`
	Outcomes   []string       `json:"outcomes"`
	PMap       map[string]int `json:"pmap"`
	EvalParams EvalParameters `json:"evalParams"`
}

func (m Model) Eval(context []string) []float64 {
	outsums := make([]float64, m.EvalParams.NumOfOutcomes)
	copy(outsums, m.Probs)

	params := m.EvalParams.Params
	for _, predicate := range context {
		ci, isOk := m.PMap[predicate]
		if !isOk {
			continue
		}

		predParam := params[ci]
		for ai, oid := range predParam.Outcomes {
			outsums[oid] += predParam.Parameters[ai]
		}
	}

	normal := 0.0
	for oid := range outsums {
		outsums[oid] = math.Exp(outsums[oid])
		normal += outsums[oid]
	}

	for oid := range outsums {
		outsums[oid] /= normal
	}

	return outsums
}

// Validate checks that every index of the model points inside it.
func (m Model) Validate() error {
	n := m.EvalParams.NumOfOutcomes
	if n == 0 {
		return errors.New("model has no outcomes")
	}
	if len(m.Outcomes) != n {
		return fmt.Errorf("model declares %d outcomes but names %d", n, len(m.Outcomes))
	}
	if len(m.Probs) > n {
		return fmt.Errorf("model has %d priors for %d outcomes", len(m.Probs), n)
	}
	for predicate, ci := range m.PMap {
		if ci < 0 || ci >= len(m.EvalParams.Params) {
			return fmt.Errorf("predicate %q points to missing parameters %d", predicate, ci)
		}
	}
	for ci, param := range m.EvalParams.Params {
		if len(param.Outcomes) != len(param.Parameters) {
			return fmt.Errorf("parameters %d: %d outcomes for %d values", ci, len(param.Outcomes), len(param.Parameters))
		}
		for _, oid := range param.Outcomes {
			if oid < 0 || oid >= n {
				return fmt.Errorf("parameters %d: outcome %d out of range", ci, oid)
			}
		}
	}
	return nil
}

func LoadModelFromFile(modelFilePath string) (Model, error) {
	var m Model
	buf, err := os.ReadFile(modelFilePath)
	if err != nil {
		return m, errors.Wrap(err, "read pos model")
	}

	if err = json.Unmarshal(buf, &m); err != nil {
		return m, errors.Wrapf(err, "decode pos model %s", modelFilePath)
	}
	if err = m.Validate(); err != nil {
		return m, errors.Wrapf(err, "invalid pos model %s", modelFilePath)
	}
	return m, nil
}
