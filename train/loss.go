package train

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// crossEntropy computes the mean softmax cross-entropy of the logits
// against the true classes, and the gradient of that mean with respect to
// the logits.
func crossEntropy(logits *mat.Dense, classes []int) (loss float64, grad *mat.Dense) {
	rows, cols := logits.Dims()
	grad = mat.NewDense(rows, cols, nil)
	scale := 1 / float64(rows)

	for i := 0; i < rows; i++ {
		// stabilize by shifting with the row max
		max := logits.At(i, 0)
		for j := 1; j < cols; j++ {
			if logits.At(i, j) > max {
				max = logits.At(i, j)
			}
		}
		var sum float64
		for j := 0; j < cols; j++ {
			sum += math.Exp(logits.At(i, j) - max)
		}
		logSum := math.Log(sum)

		target := classes[i]
		loss -= (logits.At(i, target) - max - logSum) * scale

		for j := 0; j < cols; j++ {
			p := math.Exp(logits.At(i, j)-max) / sum
			if j == target {
				p--
			}
			grad.Set(i, j, p*scale)
		}
	}
	return loss, grad
}
