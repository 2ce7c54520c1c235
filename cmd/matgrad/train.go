package main

import (
	"fmt"
	"math"
	"math/rand/v2"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/janpfeifer/must"
	"github.com/matgrad/matgrad/ml/data"
	"github.com/matgrad/matgrad/ml/nn"
	"github.com/matgrad/matgrad/ml/train"
	"github.com/matgrad/matgrad/ui/commandline"
	"github.com/matgrad/matgrad/ui/plots"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// parseInts parses a comma-separated list of non-negative integers. An empty string yields nil.
func parseInts(list string) ([]int, error) {
	list = strings.TrimSpace(list)
	if list == "" {
		return nil, nil
	}
	parts := strings.Split(list, ",")
	values := make([]int, len(parts))
	for ii, part := range parts {
		value, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid value #%d in list %q", ii, list)
		}
		if value < 0 {
			return nil, errors.Errorf("invalid negative value %d in list %q", value, list)
		}
		values[ii] = value
	}
	return values, nil
}

// examples to train on, given as rows.
type examples struct {
	name           string
	inputs, labels [][]float32
}

// loadExamples reads the CSV file at path, or returns XOR if path is empty.
//
// The label column is labelIdx (counted after dropping columns), or the last column if negative.
// Labels that are classes (non-negative integers) with more than 2 of them are one-hot encoded,
// otherwise they are used as is.
func loadExamples(path string, labelIdx int, drop []int) (*examples, error) {
	if path == "" {
		inputs, labels := data.XOR()
		return &examples{name: "xor", inputs: inputs, labels: labels}, nil
	}
	table, err := data.ReadCSV(path, drop...)
	if err != nil {
		return nil, err
	}
	if labelIdx < 0 {
		labelIdx = table.NumColumns() - 1
	}
	inputs, labels, err := data.PartitionLabels(table.Rows, labelIdx)
	if err != nil {
		return nil, errors.WithMessagef(err, "CSV file %q", path)
	}
	ex := &examples{name: filepath.Base(path), inputs: inputs}
	numClasses := data.NumClasses(labels)
	if numClasses > 2 && areClasses(labels) {
		ex.labels, err = data.OneHot(labels, numClasses)
		if err != nil {
			return nil, errors.WithMessagef(err, "CSV file %q, label column %q", path, table.Names[labelIdx])
		}
	} else {
		ex.labels = data.Column(labels)
	}
	klog.V(1).Infof("Read %d examples from %q: %d features, %d label values", len(inputs), path,
		len(inputs[0]), len(ex.labels[0]))
	return ex, nil
}

// areClasses returns whether all labels are non-negative integers.
func areClasses(labels []float32) bool {
	for _, label := range labels {
		if label < 0 || label != float32(math.Trunc(float64(label))) {
			return false
		}
	}
	return true
}

// buildNetwork with the sizes of the examples and the hidden layers given by the flags.
func buildNetwork(ex *examples, hidden []int, seed uint64) (*nn.Network, error) {
	activation, err := nn.ActivationTypeString(*flagActivation)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid -activation=%q", *flagActivation)
	}
	sizes := append([]int{len(ex.inputs[0])}, hidden...)
	sizes = append(sizes, len(ex.labels[0]))
	return nn.Build(sizes...).
		LearningRate(float32(*flagLearningRate)).
		Activation(activation).
		Seed(seed).
		Done()
}

func runTrain() error {
	if *flagEpochs <= 0 {
		return errors.Errorf("-epochs=%d: must be > 0", *flagEpochs)
	}
	drop, err := parseInts(*flagDrop)
	if err != nil {
		return errors.WithMessage(err, "-drop")
	}
	hidden, err := parseInts(*flagHidden)
	if err != nil {
		return errors.WithMessage(err, "-hidden")
	}
	seed := *flagSeed
	if seed == 0 {
		seed = rand.Uint64()
	}
	ex, err := loadExamples(*flagCSV, *flagLabel, drop)
	if err != nil {
		return err
	}
	batchSize := *flagBatchSize
	if batchSize == 0 {
		batchSize = len(ex.inputs)
	}
	ds, err := data.NewDataset(ex.name, ex.inputs, ex.labels, batchSize)
	if err != nil {
		return err
	}
	ds.Shuffle(seed)

	net, err := buildNetwork(ex, hidden, seed)
	if err != nil {
		return err
	}
	trainer := train.NewTrainer(net, nil)
	loop := train.NewLoop(trainer)
	if *flagProgress {
		commandline.AttachProgressBar(loop, func() (string, string) { return "Dataset", ds.Name() })
	}
	klog.Infof("[%s] training network %v on %q for %d epochs (seed=%d)", loop.ShortID(), net.Sizes(),
		ex.name, *flagEpochs, seed)
	losses, err := loop.RunEpochs(ds, *flagEpochs)
	if err != nil {
		return err
	}
	fmt.Printf("Final loss: %.4g\n", losses[len(losses)-1])

	if *flagPlot != "" {
		title := fmt.Sprintf("%s loss (run %s)", ex.name, loop.ShortID())
		if err := plots.SaveLoss(*flagPlot, title, losses); err != nil {
			return err
		}
		fmt.Printf("Loss plot saved to %q\n", *flagPlot)
	}

	if len(ex.inputs) <= 16 {
		printPredictions(net, ex)
	}
	return commandline.ReportEval(trainer, ds)
}

// printPredictions of each example, next to its label.
func printPredictions(net *nn.Network, ex *examples) {
	fmt.Println("Predictions:")
	for ii, input := range ex.inputs {
		prediction := must.M1(net.Predict(input))
		fmt.Printf("\t%v -> %.4f (label %v)\n", input, prediction, ex.labels[ii])
	}
}
