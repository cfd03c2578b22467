package linear

import "math"

// RRM is robust risk minimization trained with generalized Winnow: every
// weight is the difference of a positive and a negative multiplicative
// weight sharing the prior Mu. Column 0 is an always-on bias feature.
type RRM struct {
	// passes over the data
	K   int
	Mu  float64
	Eta float64
	C   float64
}

var _ Algorithm = &RRM{}

func NewRRM() *RRM {
	return &RRM{K: 40, Mu: 1.0, Eta: 0.001, C: 0.1}
}

func (r *RRM) Name() string {
	return ALG_RRM
}

func (r *RRM) TrainLabel(p *Problem, label int) []float64 {
	w := make([]float64, p.Features)
	y, positive := binaryLabels(p, label)
	if !positive {
		return w
	}
	var (
		v     = make([]float64, p.Features)
		alpha = make([]float64, len(p.Instances))
		c     = r.C
	)
	update := func(idx int, delta float64) {
		v[idx] += delta
		w[idx] = r.Mu * (math.Exp(v[idx]) - math.Exp(-v[idx]))
	}
	for k := 0; k < r.K; k++ {
		for i, inst := range p.Instances {
			score := w[0]
			for j, idx := range inst.Indices {
				score += w[idx] * value(inst, j)
			}
			d := r.Eta*((c-alpha[i])/c) - r.Eta*y[i]*score
			d = math.Max(-alpha[i], math.Min(2*c-alpha[i], d))
			if d == 0 {
				continue
			}
			alpha[i] += d
			update(0, d*y[i])
			for j, idx := range inst.Indices {
				update(idx, d*y[i]*value(inst, j))
			}
		}
	}
	return w
}
