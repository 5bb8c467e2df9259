package game

import "time"

type evaluation struct {
	AskerID   string
	Question  *Question
	Scored    []Answer
	Next      string
	Round     int
	Completed bool
}

// evaluate closes the current window of g if it has expired at now. It is
// the only place scores, turns and rounds move, and it must run with the
// game locked.
func evaluate(g *Game, now time.Time) (evaluation, bool) {
	if !g.due(now) || len(g.Players) == 0 {
		return evaluation{}, false
	}

	out := evaluation{AskerID: g.ActivePlayer}
	if q := g.ActiveQuestion; q != nil {
		out.Question = q
		out.Scored = rankAnswers(g.Answers, q.Answer, g.JoinIndex)
		for _, answer := range out.Scored {
			if row := g.Board.row(answer.PlayerID); row != nil {
				row.Score += answer.Score
			}
		}
		if row := g.Board.row(g.ActivePlayer); row != nil {
			row.Score += askerScore(len(out.Scored))
		}
		g.Answers = nil
		g.ActiveQuestion = nil
	}

	next := 0
	if idx := g.JoinIndex(g.ActivePlayer); idx >= 0 {
		next = (idx + 1) % len(g.Players)
	}
	g.ActivePlayer = g.Players[next]
	g.ActiveUntil = now.Add(g.Options.MaxQuestionTime)
	if next == 0 {
		g.CurrentRound++
	}
	if g.CurrentRound >= g.Options.MaxRounds {
		g.State = StateCompleted
	}
	g.Evaluations++

	out.Next = g.ActivePlayer
	out.Round = g.CurrentRound
	out.Completed = g.State == StateCompleted
	return out, true
}
