/*
 *	Copyright 2023 Jan Pfeifer
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

package train

import (
	"io"
	"math"
	"slices"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Priority for hooks, the lowest values are run first. Defaults to 0, but negative
// values are ok.
type Priority int

// OnStartFn is the type of OnStart hooks.
type OnStartFn func(loop *Loop, ds Dataset) error

// OnStepFn is the type of OnStep hooks. It is given the loss of the batch just trained.
type OnStepFn func(loop *Loop, loss float32) error

// OnEndFn is the type of OnEnd hooks. It is given the loss of the last batch trained.
type OnEndFn func(loop *Loop, loss float32) error

// OnAbortFn is the type of OnAbort hooks. It is given the error that interrupted the run.
type OnAbortFn func(loop *Loop, err error)

// Loop will run a training loop, invoking Trainer.TrainStep every step,
// and calling the appropriate hooks.
//
// In itself it doesn't do much, but one can attach functionality to it, like
// progress bars, loss plots or logging.
//
// The public attributes are meant for reading only, don't change them -- behavior
// can be undefined.
type Loop struct {
	// Trainer associated with this loop.
	Trainer *Trainer

	// RunID identifies this loop in logs and reports.
	RunID uuid.UUID

	// LoopStep currently being executed. Defaults to 0.
	LoopStep int

	// StartStep is the value of LoopStep at the start of a run (RunSteps or RunEpochs). At the first
	// run it wil be 0 (the default value for LoopStep) and if Loop.RunSteps (or Loop.RunEpochs) is called
	// multiple times, StartStep is reset to the last LoopStep value of the previous run.
	StartStep int

	// EndStep is one-past the last step to be executed. If -1 the end step is not known (if
	// running till the end of the dataset). When running for multiple epochs (Loop.RunEpochs) it can
	// change during the run (after the first epoch, the value is extrapolated based on how many steps
	// have been run so far).
	EndStep int

	// Epoch is set when running Loop.RunEpochs() to the current running epoch, starting from 0.
	Epoch int

	// EpochLosses holds the mean batch loss of each epoch completed by the current Loop.RunEpochs.
	EpochLosses []float32

	// SharedData allows for cross-tools to publish and consume information. Keys (strings)
	// and semantics/type of their values are not specified by loop.
	SharedData map[string]any

	// TrainStepDurations collected during training.
	TrainStepDurations []time.Duration

	// Registered hooks.
	onStart *priorityHooks[*hookWithName[OnStartFn]]
	onStep  *priorityHooks[*hookWithName[OnStepFn]]
	onEnd   *priorityHooks[*hookWithName[OnEndFn]]
	onAbort *priorityHooks[*hookWithName[OnAbortFn]]
}

// NewLoop creates a new training loop for the trainer.
func NewLoop(trainer *Trainer) *Loop {
	return &Loop{
		Trainer:    trainer,
		RunID:      uuid.New(),
		SharedData: make(map[string]any),
		onStart:    newPriorityHooks[*hookWithName[OnStartFn]](),
		onStep:     newPriorityHooks[*hookWithName[OnStepFn]](),
		onEnd:      newPriorityHooks[*hookWithName[OnEndFn]](),
		onAbort:    newPriorityHooks[*hookWithName[OnAbortFn]](),
	}
}

// ShortID is the first block of RunID, used as a log prefix.
func (loop *Loop) ShortID() string {
	return loop.RunID.String()[:8]
}

// start of loop, called by all looping methods.
//
// It calls the appropriate hooks.
func (loop *Loop) start(ds Dataset) (err error) {
	loop.onStart.Enumerate(func(hook *hookWithName[OnStartFn]) {
		if err != nil {
			// After the first error stop.
			return
		}
		err = hook.fn(loop, ds)
		if err != nil {
			err = errors.WithMessagef(err, "OnStart(hook %q)", hook.name)
		}
	})
	return
}

// step of loop, called by all looping methods.
// It calls the appropriate hooks.
func (loop *Loop) step(ds Dataset) (loss float32, err error) {
	inputs, labels, err := ds.Yield()
	if err != nil {
		return 0, err
	}
	startTime := time.Now()
	loss, err = loop.Trainer.TrainStep(inputs, labels)
	loop.TrainStepDurations = append(loop.TrainStepDurations, time.Since(startTime))
	if err != nil {
		return 0, err
	}
	loop.onStep.Enumerate(func(hook *hookWithName[OnStepFn]) {
		if err != nil {
			// After the first error stop.
			return
		}
		err = hook.fn(loop, loss)
		if err != nil {
			err = errors.WithMessagef(err, "OnStep(hook %q)", hook.name)
		}
	})
	if err != nil {
		return 0, err
	}
	if math.IsNaN(float64(loss)) {
		err = errors.Errorf("batch loss is NaN, training interrupted")
		return
	}
	if math.IsInf(float64(loss), 0) {
		err = errors.Errorf("batch loss is infinity (%f), training interrupted", loss)
		return
	}
	return
}

// end of loop, called by all looping methods.
// It calls the appropriate hooks.
func (loop *Loop) end(loss float32) (err error) {
	loop.onEnd.Enumerate(func(hook *hookWithName[OnEndFn]) {
		if err != nil {
			// After the first error stop.
			return
		}
		err = hook.fn(loop, loss)
		if err != nil {
			err = errors.WithMessagef(err, "OnEnd(hook %q)", hook.name)
		}
	})
	return
}

// abort calls the OnAbort hooks when a run fails.
func (loop *Loop) abort(err error) {
	if err == nil {
		return
	}
	loop.onAbort.Enumerate(func(hook *hookWithName[OnAbortFn]) {
		hook.fn(loop, err)
	})
}

// RunSteps runs those many steps. StartStep and EndStep are adjusted to the current
// LoopStep, so it can be called multiple times, and it will simply pick up
// where it left of last time.
//
// It returns the loss of the last batch.
func (loop *Loop) RunSteps(ds Dataset, steps int) (loss float32, err error) {
	if steps == 0 {
		return 0, nil
	}
	defer func() { loop.abort(err) }()
	loop.StartStep = loop.LoopStep
	loop.EndStep = loop.LoopStep + steps
	err = loop.start(ds)
	if err != nil {
		return 0, err
	}
	loop.TrainStepDurations = make([]time.Duration, 0, steps)
	for loop.LoopStep = loop.StartStep; loop.LoopStep < loop.EndStep; loop.LoopStep++ {
		loss, err = loop.step(ds)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0, errors.Errorf(
					"reached Dataset end after %d steps (requested %d steps) -- did you mean to use "+
						"Loop.RunEpochs() instead of Loop.RunSteps() ?",
					loop.LoopStep-loop.StartStep, steps)
			}
			return 0, errors.WithMessagef(err, "Loop.RunSteps(%d): failed TrainStep(LoopStep=%d)", steps, loop.LoopStep)
		}
	}
	err = loop.end(loss)
	if err != nil {
		return 0, errors.WithMessagef(err, "Loop.RunSteps(%d): failed end (LoopStep=%d)", steps, loop.LoopStep)
	}
	return
}

// RunEpochs runs over the whole dataset, epochs times. StartStep is adjusted to the current
// LoopStep, so it can be called multiple times, and it will simply pick up
// where it left of last time.
// Loop.Epoch is set to the current running epoch. EndStep starts as -1 and will
// be adjusted to expectation after the first epoch, when one knows how many steps there are
// going to be.
// Dataset.Reset is called after each epoch (including the last).
//
// It returns the mean batch loss of each epoch, also available in Loop.EpochLosses.
func (loop *Loop) RunEpochs(ds Dataset, epochs int) (losses []float32, err error) {
	loop.StartStep = loop.LoopStep
	loop.EndStep = -1
	loop.Epoch = 0
	loop.EpochLosses = make([]float32, 0, epochs)
	defer func() { loop.abort(err) }()
	err = loop.start(ds)
	if err != nil {
		return nil, err
	}
	loop.TrainStepDurations = nil // Reset.
	var loss float32
	for loop.Epoch = 0; loop.Epoch < epochs; loop.Epoch++ {
		yieldsPerEpoch := 0
		var epochLoss float64
		for {
			batchLoss, stepErr := loop.step(ds)
			if errors.Is(stepErr, io.EOF) {
				// End of epoch: estimate new EndStep and reset.
				loop.EndStep = loop.LoopStep + yieldsPerEpoch*(epochs-loop.Epoch-1)
				break
			}
			if stepErr != nil {
				return nil, errors.WithMessagef(stepErr, "Loop.RunEpochs(%d): failed TrainStep (LoopStep=%d)", epochs, loop.LoopStep)
			}
			loss = batchLoss
			yieldsPerEpoch++
			epochLoss += float64(loss)
			loop.LoopStep++
		}
		ds.Reset()
		if yieldsPerEpoch == 0 {
			return nil, errors.Errorf("Loop.RunEpochs(%d): dataset %q yielded no batches in epoch %d",
				epochs, ds.Name(), loop.Epoch)
		}
		meanLoss := float32(epochLoss / float64(yieldsPerEpoch))
		loop.EpochLosses = append(loop.EpochLosses, meanLoss)
		klog.V(2).Infof("[%s] epoch %d: mean loss %g over %s steps", loop.ShortID(), loop.Epoch, meanLoss,
			humanize.Comma(int64(yieldsPerEpoch)))
	}
	err = loop.end(loss)
	if err != nil {
		return nil, errors.WithMessagef(err, "Loop.RunEpochs(%d): failed end (LoopStep=%d)", epochs, loop.LoopStep)
	}
	return loop.EpochLosses, nil
}

// MedianTrainStepDuration returns the median duration of each training step. It returns 1 millisecond
// if no training step was recorded (to avoid potential division by 0).
func (loop *Loop) MedianTrainStepDuration() time.Duration {
	if len(loop.TrainStepDurations) == 0 {
		// Return something different than 0 to avoid division by 0.
		return time.Millisecond
	}
	times := slices.Clone(loop.TrainStepDurations)
	slices.Sort(times)
	return times[len(times)/2]
}

// OnStart adds a hook with given priority and name (for error reporting) to the start of a loop.
func (loop *Loop) OnStart(name string, priority Priority, fn OnStartFn) {
	loop.onStart.Add(priority, &hookWithName[OnStartFn]{
		name: name,
		fn:   fn,
	})
}

// OnStep adds a hook with given priority and name (for error reporting) to each step of a loop.
// The function `fn` is called after each `Trainer.TrainStep`.
func (loop *Loop) OnStep(name string, priority Priority, fn OnStepFn) {
	loop.onStep.Add(priority, &hookWithName[OnStepFn]{
		name: name,
		fn:   fn,
	})
}

// OnEnd adds a hook with given priority and name (for error reporting) to the end of a loop,
// after the last call to `Trainer.TrainStep`.
func (loop *Loop) OnEnd(name string, priority Priority, fn OnEndFn) {
	loop.onEnd.Add(priority, &hookWithName[OnEndFn]{
		name: name,
		fn:   fn,
	})
}

// OnAbort adds a hook with given priority and name to be called when RunSteps or RunEpochs
// fail after they started (including failures of other OnStart or OnEnd hooks), in which
// case the OnEnd hooks may not have run. Hooks that hold resources across a run should
// release them here too.
func (loop *Loop) OnAbort(name string, priority Priority, fn OnAbortFn) {
	loop.onAbort.Add(priority, &hookWithName[OnAbortFn]{
		name: name,
		fn:   fn,
	})
}

// hookWithName stores a hook name and function.
type hookWithName[F any] struct {
	name string
	fn   F
}

// priorityHooks organizes hooks for type F per priority.
type priorityHooks[H any] struct {
	hooks map[Priority][]H
}

func newPriorityHooks[H any]() *priorityHooks[H] {
	return &priorityHooks[H]{
		hooks: make(map[Priority][]H),
	}
}

// Add hook at the given priority.
func (h *priorityHooks[H]) Add(priority Priority, hook H) {
	h.hooks[priority] = append(h.hooks[priority], hook)
}

// Enumerate will call fn for all registered hooks in priority order.
func (h *priorityHooks[H]) Enumerate(fn func(hook H)) {
	keys := make([]Priority, 0, len(h.hooks))
	for key := range h.hooks {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	for _, key := range keys {
		for _, hook := range h.hooks[key] {
			fn(hook)
		}
	}
}
