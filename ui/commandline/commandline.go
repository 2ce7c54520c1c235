// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package commandline contains convenience UI training tools for the command line.
package commandline

import (
	"fmt"
	"io"

	"github.com/matgrad/matgrad/ml/train"
	"github.com/pkg/errors"
)

// EvalResults holds the metrics of a network over a whole dataset.
type EvalResults struct {
	// Loss is the mean of the batch losses, weighted by the number of examples in each batch.
	// For a mean loss like nn.MeanSquaredError it is the loss over the whole dataset.
	Loss float32

	// Accuracy is the fraction of examples predicted correctly, see train.Accuracy.
	Accuracy float32

	// NumExamples evaluated.
	NumExamples int
}

// Evaluate runs the trainer's network (without training) over one epoch of ds, and returns the
// loss and the accuracy over all examples. The dataset is reset at the end.
func Evaluate(trainer *train.Trainer, ds train.Dataset) (results EvalResults, err error) {
	defer ds.Reset()
	var lossSum, correct float64
	for {
		inputs, labels, yieldErr := ds.Yield()
		if errors.Is(yieldErr, io.EOF) {
			break
		}
		if yieldErr != nil {
			return results, errors.WithMessagef(yieldErr, "Evaluate(%q)", ds.Name())
		}
		loss, predictions, evalErr := trainer.EvalStep(inputs, labels)
		if evalErr != nil {
			return results, errors.WithMessagef(evalErr, "Evaluate(%q)", ds.Name())
		}
		accuracy, accErr := train.Accuracy(predictions, labels)
		if accErr != nil {
			return results, errors.WithMessagef(accErr, "Evaluate(%q)", ds.Name())
		}
		batchSize := labels.Shape().Cols
		lossSum += float64(loss) * float64(batchSize)
		correct += float64(accuracy) * float64(batchSize)
		results.NumExamples += batchSize
	}
	if results.NumExamples == 0 {
		return results, errors.Errorf("Evaluate(%q): dataset yielded no examples", ds.Name())
	}
	results.Loss = float32(lossSum / float64(results.NumExamples))
	results.Accuracy = float32(correct / float64(results.NumExamples))
	return results, nil
}

// ReportEval reports on the command line the results of evaluating the datasets with Evaluate.
func ReportEval(trainer *train.Trainer, datasets ...train.Dataset) error {
	for _, ds := range datasets {
		results, err := Evaluate(trainer, ds)
		if err != nil {
			return err
		}
		fmt.Printf("Results on %s (%d examples):\n", ds.Name(), results.NumExamples)
		fmt.Printf("\tMean Squared Error (loss): %.4g\n", results.Loss)
		fmt.Printf("\tAccuracy (acc): %.2f%%\n", 100*results.Accuracy)
	}
	return nil
}
