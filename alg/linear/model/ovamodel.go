package model

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/yhkim82/clearparser-sub000/util"
)

var ErrBadModel = errors.New("malformed model")

var _ util.Persist = &OvAModel{}

// Prediction is one label with its score.
type Prediction struct {
	Label int
	Score float64
}

type predictionsByScore []Prediction

func (p predictionsByScore) Len() int           { return len(p) }
func (p predictionsByScore) Less(i, j int) bool { return p[i].Score > p[j].Score }
func (p predictionsByScore) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }

// OvAModel is a dense one-vs-all weight matrix stored row-major by label.
// Column 0 of every row is the bias weight.
type OvAModel struct {
	Labels   int
	Features int
	Weights  []float64
}

func NewOvAModel(labels, features int) *OvAModel {
	return &OvAModel{
		Labels:   labels,
		Features: features,
		Weights:  make([]float64, labels*features),
	}
}

// Row returns the weights of label; the slice aliases the matrix.
func (m *OvAModel) Row(label int) []float64 {
	return m.Weights[label*m.Features : (label+1)*m.Features]
}

// SetRow copies w into the row of label.
func (m *OvAModel) SetRow(label int, w []float64) {
	copy(m.Row(label), w)
}

// Scores returns bias + sum of weights at x for every label. Indices
// outside the matrix are ignored.
func (m *OvAModel) Scores(x []int) []float64 {
	scores := make([]float64, m.Labels)
	for label := range scores {
		row := m.Row(label)
		score := row[0]
		for _, idx := range x {
			if idx > 0 && idx < m.Features {
				score += row[idx]
			}
		}
		scores[label] = score
	}
	return scores
}

// ValuedScores is Scores for a vector with explicit values.
func (m *OvAModel) ValuedScores(x []int, values []float64) []float64 {
	scores := make([]float64, m.Labels)
	for label := range scores {
		row := m.Row(label)
		score := row[0]
		for i, idx := range x {
			if idx > 0 && idx < m.Features {
				score += row[idx] * values[i]
			}
		}
		scores[label] = score
	}
	return scores
}

// Predict returns the highest scoring label; ties go to the lower label.
func (m *OvAModel) Predict(x []int) (int, float64) {
	scores := m.Scores(x)
	if len(scores) == 0 {
		return -1, 0
	}
	best := 0
	for label, score := range scores[1:] {
		if score > scores[best] {
			best = label + 1
		}
	}
	return best, scores[best]
}

// PredictAll returns every label sorted by descending score, keeping label
// order among equal scores.
func (m *OvAModel) PredictAll(x []int) []Prediction {
	scores := m.Scores(x)
	predictions := make([]Prediction, len(scores))
	for label, score := range scores {
		predictions[label] = Prediction{label, score}
	}
	sort.Stable(predictionsByScore(predictions))
	return predictions
}

// Write dumps the model as gzipped text: the label count, the feature
// count, then all weights on one line.
func (m *OvAModel) Write(w io.Writer) error {
	gz := gzip.NewWriter(w)
	bw := bufio.NewWriter(gz)
	fmt.Fprintln(bw, m.Labels)
	fmt.Fprintln(bw, m.Features)
	buf := make([]byte, 0, 32)
	for i, v := range m.Weights {
		if i > 0 {
			bw.WriteByte(' ')
		}
		buf = strconv.AppendFloat(buf[:0], v, 'g', -1, 64)
		bw.Write(buf)
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return gz.Close()
}

// Read replaces m with a model written by Write.
func (m *OvAModel) Read(r io.Reader) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return err
	}
	defer gz.Close()
	br := bufio.NewReader(gz)
	labels, err := readInt(br)
	if err != nil {
		return fmt.Errorf("%w: labels: %v", ErrBadModel, err)
	}
	features, err := readInt(br)
	if err != nil {
		return fmt.Errorf("%w: features: %v", ErrBadModel, err)
	}
	line, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return err
	}
	fields := strings.Fields(line)
	if len(fields) != labels*features {
		return fmt.Errorf("%w: expected %d weights, got %d", ErrBadModel, labels*features, len(fields))
	}
	weights := make([]float64, len(fields))
	for i, field := range fields {
		if weights[i], err = strconv.ParseFloat(field, 64); err != nil {
			return fmt.Errorf("%w: weight %d: %v", ErrBadModel, i, err)
		}
	}
	m.Labels, m.Features, m.Weights = labels, features, weights
	return nil
}

func Load(r io.Reader) (*OvAModel, error) {
	m := new(OvAModel)
	if err := m.Read(r); err != nil {
		return nil, err
	}
	return m, nil
}

func readInt(br *bufio.Reader) (int, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err == nil && n < 0 {
		err = fmt.Errorf("negative count %d", n)
	}
	return n, err
}
