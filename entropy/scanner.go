package entropy

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Result is the entropy of one file.
type Result struct {
	ScanID  uuid.UUID `json:"scan_id"`
	Path    string    `json:"path"`
	Entropy float64   `json:"entropy"`
	Size    int64     `json:"size"`
	Chunks  int       `json:"chunks"`
}

// EmitFunc receives each Result as soon as it is computed.
type EmitFunc func(Result) error

// Scanner runs collection and calculation and hands results to an EmitFunc.
type Scanner struct {
	collector  *Collector
	calculator *Calculator
	log        logrus.FieldLogger
}

// NewScanner returns a Scanner. A nil log discards log output.
func NewScanner(collector *Collector, calculator *Calculator, log logrus.FieldLogger) *Scanner {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &Scanner{
		collector:  collector,
		calculator: calculator,
		log:        log,
	}
}

// Scan collects every file under root before computing anything, then
// measures and emits them one at a time. The first error stops the scan and
// is returned to the caller; it is only logged at debug level.
// ctx is checked between files only.
func (s *Scanner) Scan(ctx context.Context, root string, emit EmitFunc) error {
	id := uuid.New()
	log := s.log.WithFields(logrus.Fields{"scan_id": id, "root": root})
	start := time.Now()

	paths, err := s.collector.Collect(root)
	if err != nil {
		log.WithError(err).Debug("collecting targets failed")
		return err
	}
	log.WithField("targets", len(paths)).Debug("targets collected")

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			log.WithError(err).Warn("scan interrupted")
			return fmt.Errorf("scan of %s interrupted: %w", root, err)
		}
		if err := s.measure(log, id, path, emit); err != nil {
			return err
		}
	}

	log.WithFields(logrus.Fields{
		"targets":  len(paths),
		"duration": time.Since(start),
	}).Info("scan complete")
	return nil
}

// ScanFile measures a single file without the collection step.
func (s *Scanner) ScanFile(path string, emit EmitFunc) error {
	id := uuid.New()
	return s.measure(s.log.WithField("scan_id", id), id, path, emit)
}

func (s *Scanner) measure(log logrus.FieldLogger, id uuid.UUID, path string, emit EmitFunc) error {
	res, err := s.calculator.Measure(path)
	if err != nil {
		log.WithError(err).WithField("path", path).Debug("entropy calculation failed")
		return err
	}
	res.ScanID = id
	log.WithFields(logrus.Fields{
		"path":    path,
		"entropy": res.Entropy,
		"chunks":  res.Chunks,
	}).Debug("file measured")
	return emit(res)
}
