package pos

import (
	"container/heap"
	"math"
	"sort"

	"text2phenotype.com/postag/types"
	"text2phenotype.com/postag/utils"
)

const minSequenceScore = -100000

// Sequence is a partial tag sequence in the beam. Score is the sum of the
// log probabilities in Probs.
type Sequence struct {
	Score    float64
	Outcomes []string
	Probs    []float64
}

// ExpandFrom makes seq a copy of src extended by one outcome with
// probability prob. src is not modified.
func (seq *Sequence) ExpandFrom(src Sequence, out string, prob float64) {
	n := len(src.Outcomes)
	seq.Outcomes = append(make([]string, 0, n+1), src.Outcomes...)
	seq.Outcomes = append(seq.Outcomes, out)
	seq.Probs = append(make([]float64, 0, n+1), src.Probs...)
	seq.Probs = append(seq.Probs, prob)
	seq.Score = src.Score + math.Log(prob)
}

// Less puts the higher score first so the queue pops the best sequence.
// Anything that is not a Sequence sorts last.
func (seq Sequence) Less(o interface{}) bool {
	other, ok := o.(Sequence)
	return ok && seq.Score > other.Score
}

type BeamSearch func(sequence []types.Token, contextGen ContextGenerator, sequenceValidator SequenceValidator) (Sequence, bool)

func NewBeamSearch(model Model, size int) BeamSearch {
	if size < 1 {
		size = 1
	}

	return func(sequence []types.Token, contextGen ContextGenerator, sequenceValidator SequenceValidator) (Sequence, bool) {
		prev := make(utils.PriorityQueue, 0, size)
		heap.Init(&prev)
		next := make(utils.PriorityQueue, 0, size)
		heap.Init(&next)
		heap.Push(&prev, Sequence{})

		for i := 0; i < len(sequence); i++ {
			sz := len(prev)
			if size < sz {
				sz = size
			}

			for sc := 0; len(prev) > 0 && sc < sz; sc++ {
				top := heap.Pop(&prev).(Sequence)

				contexts := contextGen.GetContext(i, sequence, top.Outcomes)
				scores := model.Eval(contexts)

				sortedScores := make([]float64, len(scores))
				copy(sortedScores, scores)
				sort.Float64s(sortedScores)

				idx := len(scores) - size
				if idx < 0 {
					idx = 0
				}
				min := sortedScores[idx]

				expanded := false
				for p, score := range scores {
					if score < min {
						continue
					}
					expanded = expand(&next, top, i, sequence, model.Outcomes[p], score, sequenceValidator) || expanded
				}

				// nothing in the beam passed the validator, try every outcome
				if !expanded {
					for p, score := range scores {
						expand(&next, top, i, sequence, model.Outcomes[p], score, sequenceValidator)
					}
				}
			}

			prev = make(utils.PriorityQueue, 0, size)
			heap.Init(&prev)
			prev, next = next, prev
		}

		if len(prev) == 0 {
			return Sequence{}, false
		}
		return heap.Pop(&prev).(Sequence), true
	}
}

func expand(next *utils.PriorityQueue, top Sequence, i int, sequence []types.Token, out string, score float64, validator SequenceValidator) bool {
	if !validator.ValidSequence(i, sequence, out) {
		return false
	}
	var ns Sequence
	ns.ExpandFrom(top, out, score)
	if ns.Score <= minSequenceScore {
		return false
	}
	heap.Push(next, ns)
	return true
}
