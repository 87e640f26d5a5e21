package train

import "domainadapt/model"

// Validation accuracies are combined with fixed weights: the first domain's
// validation set carries 0.6, the second 0.4.
const (
	domain1Weight = 0.6
	domain2Weight = 0.4
)

// Accuracy computes plain argmax accuracy of the label head on ds.
func Accuracy(net *model.Net, ds Dataset) float64 {
	preds := net.Predict(ds.X)
	var correct int
	for i, p := range preds {
		if p == ds.Labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(preds))
}

// Evaluate computes per-domain and weighted accuracy on the two held-out
// validation sets. The network is put into evaluation mode for the duration
// and its previous mode is restored afterward, so dropout re-activates for
// subsequent training epochs.
func Evaluate(net *model.Net, val1, val2 Dataset) (weighted, acc1, acc2 float64) {
	wasTraining := net.Training()
	net.SetTraining(false)
	defer net.SetTraining(wasTraining)

	acc1 = Accuracy(net, val1)
	acc2 = Accuracy(net, val2)
	weighted = domain1Weight*acc1 + domain2Weight*acc2
	return weighted, acc1, acc2
}
