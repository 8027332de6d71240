// Package recognition runs per-frame identification, liveness and attendance marking.
package recognition

import (
	"context"
	"fmt"
	"image"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/facematch"
	"github.com/kozaktomas/face-attendance/internal/facemodel"
	"github.com/kozaktomas/face-attendance/internal/liveness"
	"github.com/kozaktomas/face-attendance/internal/logger"
)

// Outcome describes what happened to the attendance ledger for a frame
type Outcome int

const (
	OutcomeNone          Outcome = iota // no valid face or unknown face
	OutcomeLivenessFailed               // known face, liveness not satisfied
	OutcomeMarked                       // new ledger record written
	OutcomeAlreadyMarked                // record for today already present
	OutcomeLedgerError                  // ledger lookup or append failed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLivenessFailed:
		return "liveness_failed"
	case OutcomeMarked:
		return "marked"
	case OutcomeAlreadyMarked:
		return "already_marked"
	case OutcomeLedgerError:
		return "ledger_error"
	default:
		return "none"
	}
}

// FrameResult is the drawable outcome of one processed frame
type FrameResult struct {
	// Faces is the number of detected faces, valid or not
	Faces int
	// Recognized is false when no face with a valid landmark set was found
	Recognized bool
	Rect       image.Rectangle
	Match      facematch.Match
	Liveness   liveness.Result
	Outcome    Outcome
	Record     *database.AttendanceRecord
}

// Label is the text drawn next to the face box.
func (r FrameResult) Label() string {
	return r.Match.Name
}

// Session holds the state carried between frames of a recognition loop.
// It is not safe for concurrent use.
type Session struct {
	model     facemodel.Model
	matcher   facematch.Matcher
	ledger    database.Ledger
	detector  *liveness.Detector
	log       *logger.Logger
	threshold float64

	prev []image.Point
}

// NewSession creates a session with no previous landmarks.
func NewSession(
	model facemodel.Model,
	matcher facematch.Matcher,
	ledger database.Ledger,
	detector *liveness.Detector,
	threshold float64,
	log *logger.Logger,
) *Session {
	if log == nil {
		log = logger.Nop()
	}
	return &Session{
		model:     model,
		matcher:   matcher,
		ledger:    ledger,
		detector:  detector,
		log:       log,
		threshold: threshold,
	}
}

// PreviousLandmarks returns the landmarks retained from the last analysed face, or nil.
func (s *Session) PreviousLandmarks() []image.Point {
	return s.prev
}

// ProcessFrame analyses the first face with a valid landmark set in a JPEG frame.
// Ledger failures are logged and reported through the result; only detection
// errors are returned.
func (s *Session) ProcessFrame(ctx context.Context, jpeg []byte) (FrameResult, error) {
	faces, err := s.model.Detect(ctx, jpeg)
	if err != nil {
		return FrameResult{}, fmt.Errorf("detecting faces: %w", err)
	}

	result := FrameResult{Faces: len(faces)}
	if len(faces) == 0 {
		s.log.Debug("No faces detected")
		s.prev = nil
		return result, nil
	}

	for i, f := range faces {
		if !f.HasLandmarks() {
			s.log.Warnf("Skipping face %d: %d landmarks, expected %d", i, len(f.Landmarks), constants.LandmarkCount)
			continue
		}
		s.analyse(ctx, f, &result)
		s.prev = f.Landmarks
		return result, nil
	}

	s.prev = nil
	return result, nil
}

func (s *Session) analyse(ctx context.Context, f facemodel.Face, result *FrameResult) {
	result.Recognized = true
	result.Rect = f.Rect
	result.Match = facematch.Identify(s.matcher, f.Descriptor, s.threshold)

	if result.Match.HasCandidate {
		s.log.Infof("Detected: %s, Distance: %.4f", result.Match.Name, result.Match.Distance)
	} else {
		s.log.Infof("Detected: %s, Distance: N/A", result.Match.Name)
	}

	live, err := s.detector.Check(f.Landmarks, s.prev)
	if err != nil {
		s.log.Error(err, "Liveness check error")
	}
	result.Liveness = live

	if !result.Match.Known() || !live.Passed() {
		if result.Match.Known() {
			result.Outcome = OutcomeLivenessFailed
		}
		s.log.Info("Liveness check failed, skipping attendance")
		return
	}

	s.markAttendance(ctx, result.Match.Name, result)
}

func (s *Session) markAttendance(ctx context.Context, name string, result *FrameResult) {
	present, err := s.ledger.IsMarkedPresent(ctx, name)
	if err != nil {
		s.log.Errorf(err, "Could not check attendance for %s", name)
		result.Outcome = OutcomeLedgerError
		return
	}
	if present {
		s.log.Infof("%s is already marked present today", name)
		result.Outcome = OutcomeAlreadyMarked
		return
	}

	rec, err := s.ledger.MarkAttendance(ctx, name)
	if err != nil {
		s.log.Errorf(err, "Could not mark attendance for %s", name)
		result.Outcome = OutcomeLedgerError
		return
	}
	s.log.Infof("Attendance marked for %s at %s %s", rec.Name, rec.Date, rec.Time)
	result.Outcome = OutcomeMarked
	result.Record = &rec
}
