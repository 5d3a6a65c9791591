package session

// ResultPage is one entry of the answer-review report.
type ResultPage struct {
	Number   int
	Question QuizQuestion
	Given    Letter
	Correct  bool
}

// QuizResult is the scored outcome of a completed quiz.
type QuizResult struct {
	Score int
	Total int
	Pages []ResultPage
}

// Percent returns the score as a percentage of the question count.
func (r QuizResult) Percent() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Score) / float64(r.Total) * 100
}

// ScoreQuiz grades answers against questions. Questions without an answer
// are reported as incorrect.
func ScoreQuiz(questions []QuizQuestion, answers []Letter) QuizResult {
	res := QuizResult{
		Total: len(questions),
		Pages: make([]ResultPage, len(questions)),
	}
	for i, q := range questions {
		page := ResultPage{Number: i + 1, Question: q}
		if i < len(answers) {
			page.Given = answers[i]
			page.Correct = answers[i] == q.Correct
		}
		if page.Correct {
			res.Score++
		}
		res.Pages[i] = page
	}
	return res
}

// ResultView browses a quiz result page by page. It is a read model and
// never touches the quiz it came from.
type ResultView struct {
	*Pager[ResultPage]
	Score int
	Total int
}

// NewResultView creates a view positioned on the first page.
func NewResultView(r QuizResult) *ResultView {
	return &ResultView{
		Pager: NewPager(r.Pages),
		Score: r.Score,
		Total: r.Total,
	}
}
