package linear

import (
	"math"
	"math/rand"

	"github.com/shogo82148/go-shuffle"
)

const MAX_ITER = 1000

// LibLinearL2 is L2-regularized L1- or L2-loss SVM trained by dual
// coordinate descent with shrinking.
type LibLinearL2 struct {
	// 1: L1-loss (hinge), 2: L2-loss (squared hinge)
	LossType int
	C        float64
	Eps      float64
	// bias feature value, disabled when <= 0
	Bias float64
	// permute the active set each iteration, seeded by Seed+label
	Shuffle bool
	Seed    int64
}

var _ Algorithm = &LibLinearL2{}

func NewLibLinearL2() *LibLinearL2 {
	return &LibLinearL2{LossType: 1, C: 0.1, Eps: 0.1, Bias: -1}
}

func (l *LibLinearL2) Name() string {
	return ALG_LIBLINEAR
}

// TrainLabel returns the weights of label; the bias weight is stored
// already multiplied by Bias in column 0.
func (l *LibLinearL2) TrainLabel(p *Problem, label int) []float64 {
	w := make([]float64, p.Features)
	y, positive := binaryLabels(p, label)
	if !positive {
		return w
	}
	var (
		N          = len(p.Instances)
		QD         = make([]float64, N)
		alpha      = make([]float64, N)
		index      = make([]int, N)
		activeSize = N
		PGmaxOld   = math.Inf(1)
		PGminOld   = math.Inf(-1)
		// indexed by y+1
		diag  = [3]float64{0, 0, 0}
		upper = [3]float64{l.C, 0, l.C}
	)
	if l.LossType == 2 {
		diag[0], diag[2] = 0.5/l.C, 0.5/l.C
		upper[0], upper[2] = math.Inf(1), math.Inf(1)
	}
	for i, inst := range p.Instances {
		QD[i] = diag[int(y[i])+1]
		if l.Bias > 0 {
			QD[i] += l.Bias * l.Bias
		}
		for j := range inst.Indices {
			v := value(inst, j)
			QD[i] += v * v
		}
		index[i] = i
	}
	var shuffler *shuffle.Shuffler
	if l.Shuffle {
		shuffler = shuffle.New(rand.NewSource(l.Seed + int64(label)))
	}

	for iter := 0; iter < MAX_ITER; iter++ {
		PGmaxNew, PGminNew := math.Inf(-1), math.Inf(1)
		if shuffler != nil {
			shuffler.Ints(index[:activeSize])
		}
		for s := 0; s < activeSize; s++ {
			i := index[s]
			inst, yi := p.Instances[i], y[i]
			G := 0.0
			if l.Bias > 0 {
				G = w[0] * l.Bias
			}
			for j, idx := range inst.Indices {
				G += w[idx] * value(inst, j)
			}
			G = G*yi - 1
			C := upper[int(yi)+1]
			G += alpha[i] * diag[int(yi)+1]

			PG := 0.0
			switch {
			case alpha[i] == 0:
				if G > PGmaxOld {
					activeSize--
					index[s], index[activeSize] = index[activeSize], index[s]
					s--
					continue
				} else if G < 0 {
					PG = G
				}
			case alpha[i] == C:
				if G < PGminOld {
					activeSize--
					index[s], index[activeSize] = index[activeSize], index[s]
					s--
					continue
				} else if G > 0 {
					PG = G
				}
			default:
				PG = G
			}
			PGmaxNew = math.Max(PGmaxNew, PG)
			PGminNew = math.Min(PGminNew, PG)

			if math.Abs(PG) > 1.0e-12 && QD[i] > 0 {
				alphaOld := alpha[i]
				alpha[i] = math.Min(math.Max(alpha[i]-G/QD[i], 0), C)
				d := (alpha[i] - alphaOld) * yi
				if l.Bias > 0 {
					w[0] += d * l.Bias
				}
				for j, idx := range inst.Indices {
					w[idx] += d * value(inst, j)
				}
			}
		}

		if PGmaxNew-PGminNew <= l.Eps {
			if activeSize == N {
				break
			}
			activeSize = N
			PGmaxOld, PGminOld = math.Inf(1), math.Inf(-1)
			continue
		}
		PGmaxOld, PGminOld = PGmaxNew, PGminNew
		if PGmaxOld <= 0 {
			PGmaxOld = math.Inf(1)
		}
		if PGminOld >= 0 {
			PGminOld = math.Inf(-1)
		}
	}
	if l.Bias > 0 {
		w[0] *= l.Bias
	}
	return w
}
