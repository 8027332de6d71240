// Package liveness implements the blink and head-movement heuristic applied
// before attendance is recorded.
package liveness

import (
	"errors"
	"fmt"
	"image"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/kozaktomas/face-attendance/internal/constants"
)

// ErrInvalidLandmarks is returned for landmark sets that are not 68 points long
var ErrInvalidLandmarks = errors.New("invalid landmark set")

const eyePoints = 6

// Result holds the individual liveness signals for one frame pair
type Result struct {
	Blink        bool
	HeadMovement bool
	Gaze         bool
	AvgEAR       float64
}

// Passed reports whether every signal fired.
func (r Result) Passed() bool {
	return r.Blink && r.HeadMovement && r.Gaze
}

// Detector evaluates landmark pairs against fixed thresholds
type Detector struct {
	earThreshold   float64
	noseMovementPx int
}

// NewDetector creates a detector. A blink is an average EAR strictly below
// earThreshold; movement is a nose tip shift strictly above noseMovementPx on either axis.
func NewDetector(earThreshold float64, noseMovementPx int) *Detector {
	return &Detector{earThreshold: earThreshold, noseMovementPx: noseMovementPx}
}

func pointDistance(a, b image.Point) float64 {
	return floats.Distance(
		[]float64{float64(a.X), float64(a.Y)},
		[]float64{float64(b.X), float64(b.Y)},
		2,
	)
}

// EyeAspectRatio computes (|p1-p5| + |p2-p4|) / (2|p0-p3|) over six eye points.
// A degenerate eye with zero width yields +Inf.
func EyeAspectRatio(eye []image.Point) float64 {
	if len(eye) != eyePoints {
		return math.NaN()
	}
	a := pointDistance(eye[1], eye[5])
	b := pointDistance(eye[2], eye[4])
	c := pointDistance(eye[0], eye[3])
	if c == 0 {
		return math.Inf(1)
	}
	return (a + b) / (2.0 * c)
}

// AverageEAR returns the mean eye aspect ratio of both eyes of a 68-point shape.
func AverageEAR(shape []image.Point) (float64, error) {
	if len(shape) != constants.LandmarkCount {
		return 0, fmt.Errorf("%w: got %d points, want %d", ErrInvalidLandmarks, len(shape), constants.LandmarkCount)
	}
	left := EyeAspectRatio(shape[constants.LeftEyeStart : constants.LeftEyeStart+eyePoints])
	right := EyeAspectRatio(shape[constants.RightEyeStart : constants.RightEyeStart+eyePoints])
	return (left + right) / 2.0, nil
}

func (d *Detector) headMoved(shape, prev []image.Point) bool {
	if len(prev) != constants.LandmarkCount {
		return false
	}
	cur := shape[constants.NoseTip]
	old := prev[constants.NoseTip]
	dx := cur.X - old.X
	dy := cur.Y - old.Y
	return abs(dx) > d.noseMovementPx || abs(dy) > d.noseMovementPx
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Check evaluates shape against the previous frame's landmarks. prev may be nil,
// in which case no head movement is detected and the check cannot pass.
func (d *Detector) Check(shape, prev []image.Point) (Result, error) {
	avg, err := AverageEAR(shape)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Blink:        avg < d.earThreshold,
		HeadMovement: d.headMoved(shape, prev),
		Gaze:         true, // not measured
		AvgEAR:       avg,
	}, nil
}
