package mixedsom

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"golang.org/x/time/rate"
)

// StopReason tells why a training loop ended.
type StopReason int

const (
	StopEpochLimit StopReason = iota
	StopThreshold
	StopCancelled
	StopFailed
)

func (r StopReason) String() string {
	switch r {
	case StopEpochLimit:
		return "epoch limit"
	case StopThreshold:
		return "error threshold"
	case StopCancelled:
		return "cancelled"
	case StopFailed:
		return "failed"
	default:
		return fmt.Sprintf("Unknown(%d)", r)
	}
}

// Mode selects when a training loop stops.
type Mode struct {
	epochs    int
	threshold float64
}

// EpochLimit trains for exactly n epochs.
func EpochLimit(n int) Mode {
	return Mode{epochs: n, threshold: math.NaN()}
}

// ErrorThreshold trains until the mean BMU distance of an epoch drops to
// threshold or below. maxEpochs <= 0 means no cap.
func ErrorThreshold(threshold float64, maxEpochs int) Mode {
	return Mode{epochs: maxEpochs, threshold: threshold}
}

func (m Mode) validate() error {
	hasThreshold := !math.IsNaN(m.threshold)
	switch {
	case !hasThreshold && m.epochs < 1:
		return &ConfigError{Field: "epochs", Reason: fmt.Sprintf("%d is below 1", m.epochs)}
	case hasThreshold && m.threshold < 0:
		return &ConfigError{Field: "threshold", Reason: fmt.Sprintf("%v is negative", m.threshold)}
	}
	return nil
}

// TrainResult describes a finished training loop.
type TrainResult struct {
	// Errors holds the mean BMU distance of every epoch run by this loop.
	Errors []float64
	// FirstEpoch is the epoch number the loop started at.
	FirstEpoch int
	Reason     StopReason
}

// Epochs returns the number of epochs run.
func (r *TrainResult) Epochs() int { return len(r.Errors) }

// FinalError returns the error of the last epoch, or NaN if none ran.
func (r *TrainResult) FinalError() float64 {
	if len(r.Errors) == 0 {
		return math.NaN()
	}
	return r.Errors[len(r.Errors)-1]
}

// ProgressInterval is the minimum time between two progress log lines.
var ProgressInterval = 5 * time.Second

// Train runs epochs on som until mode's stop condition holds. Epochs continue
// from som.Epoch()+1. ctx is checked between epochs; on cancellation the
// partial result is returned together with ctx.Err().
func Train(ctx context.Context, som *Som, mode Mode) (*TrainResult, error) {
	if err := mode.validate(); err != nil {
		return nil, err
	}

	res := &TrainResult{FirstEpoch: som.Epoch() + 1}
	progress := rate.Sometimes{First: 1, Interval: ProgressInterval}
	log := som.logger

	finish := func(reason StopReason, err error) (*TrainResult, error) {
		res.Reason = reason
		log.LogTrainingStopped(ctx, res.Epochs(), res.FinalError(), reason.String(), err)
		return res, err
	}

	for epoch := res.FirstEpoch; ; epoch++ {
		if mode.epochs > 0 && res.Epochs() >= mode.epochs {
			return finish(StopEpochLimit, nil)
		}
		if err := ctx.Err(); err != nil {
			return finish(StopCancelled, err)
		}

		meanError, err := som.LearnEpoch(ctx, epoch)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return finish(StopCancelled, err)
			}
			return finish(StopFailed, err)
		}
		res.Errors = append(res.Errors, meanError)

		progress.Do(func() {
			log.InfoContext(ctx, "training progress",
				"epoch", epoch,
				"mean_error", meanError,
			)
		})

		if meanError <= mode.threshold {
			return finish(StopThreshold, nil)
		}
	}
}
