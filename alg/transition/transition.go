package transition

import (
	"fmt"

	"github.com/yhkim82/clearparser-sub000/alg/linear/model"
)

// Mode selects what a parser does at each non-deterministic step.
type Mode byte

const (
	// count lexicon entries and labels under the gold actions
	BuildLexicon Mode = iota
	// emit (gold label, features) instances
	EmitInstances
	// follow the decoder
	Predict
	// print the gold transition sequence
	EmitTransitionLog
	// emit gold instances while following the decoder
	BootstrapRetrain
)

var modeNames = []string{"lexicon", "instances", "predict", "log", "bootstrap"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// Predicts reports whether the mode needs a decoder.
func (m Mode) Predicts() bool {
	return m == Predict || m == BootstrapRetrain
}

// Decoder scores sparse binary feature vectors.
type Decoder interface {
	Predict(x []int) (int, float64)
	PredictAll(x []int) []model.Prediction
}

// InstanceSink receives training instances.
type InstanceSink interface {
	Emit(label int, features []int) error
}

var _ Decoder = &model.OvAModel{}
