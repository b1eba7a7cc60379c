// Package classifier fits a logistic-regression tackle model over the
// engineered defender features and scores its probabilities.
package classifier

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"github.com/pable/go-tackle-metrics/internal/model"
)

// Options controls training. Training is deterministic for fixed inputs.
type Options struct {
	// MaxIterations bounds the L-BFGS major iterations.
	MaxIterations int
	L2            float64
}

// DefaultOptions returns the settings used by the train command.
func DefaultOptions() Options {
	return Options{MaxIterations: 200, L2: 1e-3}
}

// Model is a fitted logistic regression on z-scored inputs.
type Model struct {
	Features []string
	Mean     []float64
	Std      []float64
	Weights  []float64
	Bias     float64
}

// Coefficient is one standardized weight, for ranking feature influence.
type Coefficient struct {
	Feature string
	Weight  float64
}

// Train fits a model to rows labelled by tackle participation by minimizing
// the L2-penalized mean log loss with L-BFGS. The bias is not penalized.
func Train(rows []model.DefenderFeatureRow, opts Options) (*Model, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no training rows")
	}
	if opts.MaxIterations <= 0 || opts.L2 < 0 {
		return nil, fmt.Errorf("invalid options %+v", opts)
	}

	nf := len(model.FeatureNames)
	m := &Model{
		Features: model.FeatureNames,
		Mean:     make([]float64, nf),
		Std:      make([]float64, nf),
		Weights:  make([]float64, nf),
	}

	x := make([][]float64, len(rows))
	y := make([]float64, len(rows))
	for i := range rows {
		x[i] = rows[i].Features()
		y[i] = rows[i].Label()
	}
	col := make([]float64, len(rows))
	for j := 0; j < nf; j++ {
		for i := range x {
			col[i] = x[i][j]
		}
		mean, std := stat.MeanStdDev(col, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		m.Mean[j], m.Std[j] = mean, std
	}
	for i := range x {
		m.standardize(x[i])
	}

	n := float64(len(rows))
	problem := optimize.Problem{
		Func: func(p []float64) float64 {
			w, b := p[:nf], p[nf]
			var loss float64
			for i := range x {
				z := floats.Dot(w, x[i]) + b
				loss += softplus(z) - y[i]*z
			}
			return loss/n + opts.L2/2*floats.Dot(w, w)
		},
		Grad: func(grad, p []float64) {
			w, b := p[:nf], p[nf]
			for j := range grad {
				grad[j] = 0
			}
			gw := grad[:nf]
			for i := range x {
				residual := sigmoid(floats.Dot(w, x[i])+b) - y[i]
				floats.AddScaled(gw, residual, x[i])
				grad[nf] += residual
			}
			floats.Scale(1/n, grad)
			floats.AddScaled(gw, opts.L2, w)
		},
	}
	settings := &optimize.Settings{
		MajorIterations:   opts.MaxIterations,
		GradientThreshold: 1e-8,
	}
	result, err := optimize.Minimize(problem, make([]float64, nf+1), settings, &optimize.LBFGS{})
	if result == nil {
		return nil, fmt.Errorf("minimize log loss: %w", err)
	}
	// A line search that stalls near the optimum still leaves the best point in result.
	if err != nil && !allFinite(result.X) {
		return nil, fmt.Errorf("minimize log loss: %w", err)
	}
	copy(m.Weights, result.X[:nf])
	m.Bias = result.X[nf]
	return m, nil
}

func allFinite(v []float64) bool {
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func (m *Model) standardize(v []float64) {
	for j := range v {
		v[j] = (v[j] - m.Mean[j]) / m.Std[j]
	}
}

// PredictProba returns the probability that the defender participates in the tackle.
func (m *Model) PredictProba(r *model.DefenderFeatureRow) float64 {
	v := r.Features()
	m.standardize(v)
	return sigmoid(floats.Dot(m.Weights, v) + m.Bias)
}

// PredictAll scores every row.
func (m *Model) PredictAll(rows []model.DefenderFeatureRow) []float64 {
	out := make([]float64, len(rows))
	for i := range rows {
		out[i] = m.PredictProba(&rows[i])
	}
	return out
}

// Coefficients returns the standardized weights ordered by absolute size.
func (m *Model) Coefficients() []Coefficient {
	out := make([]Coefficient, len(m.Weights))
	for j, w := range m.Weights {
		out[j] = Coefficient{Feature: m.Features[j], Weight: w}
	}
	sort.SliceStable(out, func(a, b int) bool { return math.Abs(out[a].Weight) > math.Abs(out[b].Weight) })
	return out
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// softplus is log(1+e^z) without overflow.
func softplus(z float64) float64 {
	if z > 0 {
		return z + math.Log1p(math.Exp(-z))
	}
	return math.Log1p(math.Exp(z))
}

// Evaluate scores probabilities against labels: accuracy at 0.5, Brier score
// and log loss.
func Evaluate(split string, probs []float64, rows []model.DefenderFeatureRow) model.Evaluation {
	ev := model.Evaluation{Split: split, N: len(rows)}
	if len(rows) == 0 {
		return ev
	}
	const eps = 1e-15
	var correct int
	var brier, logLoss float64
	for i := range rows {
		y := rows[i].Label()
		p := probs[i]
		if y == 1 {
			ev.Positives++
		}
		if (p >= 0.5) == (y == 1) {
			correct++
		}
		brier += (p - y) * (p - y)
		pc := math.Min(math.Max(p, eps), 1-eps)
		logLoss -= y*math.Log(pc) + (1-y)*math.Log(1-pc)
	}
	n := float64(len(rows))
	ev.Accuracy = float64(correct) / n
	ev.Brier = brier / n
	ev.LogLoss = logLoss / n
	return ev
}

// SplitByWeek puts rows before testWeek in train and the rest in test.
func SplitByWeek(rows []model.DefenderFeatureRow, testWeek int) (train, test []model.DefenderFeatureRow) {
	for _, r := range rows {
		if r.Week < testWeek {
			train = append(train, r)
		} else {
			test = append(test, r)
		}
	}
	return train, test
}

// SplitByGame puts rows with gameId below firstTestGame in train and the rest in test.
func SplitByGame(rows []model.DefenderFeatureRow, firstTestGame int64) (train, test []model.DefenderFeatureRow) {
	for _, r := range rows {
		if r.GameID < firstTestGame {
			train = append(train, r)
		} else {
			test = append(test, r)
		}
	}
	return train, test
}
