// Package vote turns per-class support counts into a predicted label
// under the "standard" and "normalized" voting rules.
package vote

// ChooseClass picks the decision label with the highest score across the
// standard or normalized voting rule. supportCounts and classSizes are
// both indexed by the dense decision-class index; classSizes always comes
// from the training index set, never the neighborhood.
//
// The tie-break picks the lexicographically earliest label among classes
// tied on score, which is what makes the result deterministic regardless
// of dataset row order. The initial best score must be negative (not 0)
// so a class with score 0 can still win over an empty support set.
func ChooseClass(decisionLabels []string, supportCounts, classSizes []int, normalized bool) string {
	bestScore := -1.0
	bestIdx := 0

	for i := range supportCounts {
		var score float64
		if normalized {
			if classSizes[i] > 0 {
				score = float64(supportCounts[i]) / float64(classSizes[i])
			}
		} else {
			score = float64(supportCounts[i])
		}

		switch {
		case score > bestScore:
			bestScore = score
			bestIdx = i
		case score == bestScore && decisionLabels[i] < decisionLabels[bestIdx]:
			bestIdx = i
		}
	}

	return decisionLabels[bestIdx]
}
