package eval

// ratio returns 0 when d is 0
func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

func Precision(truePositives, testPositives int) float64 {
	return ratio(truePositives, testPositives)
}

func Recall(truePositives, conditionPositives int) float64 {
	return ratio(truePositives, conditionPositives)
}

func F1(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2.0 * (precision * recall) / (precision + recall)
}

type Error interface {
	String() string
	Class() string
}

type Errors []Error

func (ers Errors) ByType() map[string]int {
	retval := make(map[string]int)
	for _, e := range ers {
		retval[e.Class()]++
	}
	return retval
}

type Result struct {
	TP, FP, TN, FN int
	Errors         Errors
}

func (r *Result) All() int {
	return r.TP + r.FP + r.TN + r.FN
}

func (r *Result) Correct() int {
	return r.TP + r.TN
}

func (r *Result) Incorrect() int {
	return r.FP + r.FN
}

func (r *Result) TestPositives() int {
	return r.TP + r.FP
}

func (r *Result) ConditionPositives() int {
	return r.TP + r.FN
}

func (r *Result) Precision() float64 {
	return Precision(r.TP, r.TestPositives())
}

func (r *Result) Recall() float64 {
	return Recall(r.TP, r.ConditionPositives())
}

func (r *Result) Accuracy() float64 {
	return ratio(r.Correct(), r.All())
}

func (r *Result) F1() float64 {
	return F1(r.Precision(), r.Recall())
}

// Total accumulates per-sentence results. Macro sums the accuracy of
// every non-empty result.
type Total struct {
	Result
	Results           []*Result
	Exact, Population int
	Macro             float64
}

func (t *Total) Add(r *Result) {
	t.TP += r.TP
	t.FP += r.FP
	t.TN += r.TN
	t.FN += r.FN
	if r.All() == 0 {
		return
	}
	if r.Incorrect() == 0 {
		t.Exact += 1
	}
	t.Population += 1
	t.Macro += r.Accuracy()
	if t.Results != nil {
		t.Results = append(t.Results, r)
	}
}

func (t *Total) ExactMatch() float64 {
	return ratio(t.Exact, t.Population)
}

func (t *Total) MacroAccuracy() float64 {
	if t.Population == 0 {
		return 0
	}
	return t.Macro / float64(t.Population)
}

func (t *Total) Errors() Errors {
	retval := make([]Error, 0, t.Incorrect())
	for _, v := range t.Results {
		if v.Errors != nil {
			retval = append(retval, v.Errors...)
		}
	}
	return retval
}
