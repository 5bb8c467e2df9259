package game

import "sort"

// PointsPerRank is what one rank step is worth. With n answers the closest
// scores PointsPerRank*n and the farthest PointsPerRank.
const PointsPerRank = 2

// rankAnswers returns a scored copy of answers, closest to correct first.
// Equal distances go to the earlier submission, then to the earlier joiner.
func rankAnswers(answers []Answer, correct int, joinIndex func(playerID string) int) []Answer {
	ranked := append([]Answer(nil), answers...)
	sort.SliceStable(ranked, func(i, j int) bool {
		di := distance(ranked[i].Value, correct)
		dj := distance(ranked[j].Value, correct)
		if di != dj {
			return di < dj
		}
		if !ranked[i].SubmittedAt.Equal(ranked[j].SubmittedAt) {
			return ranked[i].SubmittedAt.Before(ranked[j].SubmittedAt)
		}
		return joinIndex(ranked[i].PlayerID) < joinIndex(ranked[j].PlayerID)
	})
	n := len(ranked)
	for i := range ranked {
		ranked[i].Score = PointsPerRank * (n - i)
	}
	return ranked
}

// askerScore rewards a question for the engagement it drew.
func askerScore(answerCount int) int {
	return answerCount
}

// distance is |value-correct|. The subtraction is done in uint64 so the
// full int range cannot wrap.
func distance(value, correct int) uint64 {
	if value > correct {
		return uint64(value) - uint64(correct)
	}
	return uint64(correct) - uint64(value)
}
