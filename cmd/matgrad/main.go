// matgrad trains small fully connected networks on the command line, using the reverse-mode
// automatic differentiation of the matgrad graph package.
//
// Usage:
//
//	matgrad [flags] train    # Trains on XOR, or on the CSV file given by -csv.
//	matgrad version          # Prints the version.
//
// See `matgrad -help` for the flags.
package main

import (
	"flag"
	"fmt"
	"os"

	"k8s.io/klog/v2"
)

// Version of the binary, set at link time with -ldflags "-X main.Version=...".
var Version = "v0.1.0-dev"

var (
	flagCSV   = flag.String("csv", "", "CSV file (with a header) to train on. If empty, trains on XOR.")
	flagLabel = flag.Int("label", -1, "Index of the column holding the label, after -drop is applied. "+
		"Defaults to the last column.")
	flagDrop         = flag.String("drop", "", "Comma-separated list of CSV column indices to drop, e.g.: \"0,3\".")
	flagHidden       = flag.String("hidden", "2", "Comma-separated sizes of the hidden layers. Empty for none.")
	flagActivation   = flag.String("activation", "Sigmoid", "Activation of all layers: Sigmoid or None.")
	flagLearningRate = flag.Float64("lr", 4.5, "Learning rate of the gradient descent.")
	flagEpochs       = flag.Int("epochs", 1000, "Number of epochs to train.")
	flagBatchSize    = flag.Int("batch", 0, "Batch size. If 0, all examples are used in each step.")
	flagSeed         = flag.Uint64("seed", 0, "Seed for the initialization and the shuffling. If 0, a random one is used.")
	flagPlot         = flag.String("plot", "", "If set, saves the loss curve to the file. "+
		"Format given by the extension: .svg, .png, .pdf, .jpg, .eps, .tif")
	flagProgress = flag.Bool("progress", true, "Display a progress bar while training.")
)

func main() {
	klog.InitFlags(nil)
	flag.Usage = func() {
		_, _ = fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] {train|version}\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	command := "train"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}
	if flag.NArg() > 1 {
		klog.Exitf("Too many arguments %q. See 'matgrad -help'.", flag.Args())
	}
	switch command {
	case "version":
		fmt.Println(Version)
	case "train":
		if err := runTrain(); err != nil {
			klog.Exitf("Failed to train: %+v", err)
		}
	default:
		klog.Exitf("Unknown command %q. See 'matgrad -help'.", command)
	}
}
