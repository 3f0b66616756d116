package forecast

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Store owns the persisted model artifact: a single JSON file holding the
// fitted coefficients. A missing file is not an error, it is cold start.
// The mutex covers the whole load-or-train-then-persist sequence so two
// overlapping batch runs cannot train over each other's artifact.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store for the artifact at path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// LoadOrTrain returns a usable model or ErrModelUnavailable.
//
// Unless forceRetrain is set, a persisted artifact is tried first; a
// corrupt or unreadable artifact is logged and falls through to training.
// Training needs at least two samples. A freshly trained model is
// persisted for the next run; a failed save is logged but does not fail
// the call, since the model in hand is still good for this batch.
func (s *Store) LoadOrTrain(samples []int, labeler Labeler, forceRetrain bool) (*Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !forceRetrain {
		if model, err := s.load(); err == nil {
			log.Printf("📦 Loaded demand model from %s (trained %s over %d samples)",
				s.path, model.TrainedAt.Format("2006-01-02"), model.SampleSize)
			return model, nil
		} else if !os.IsNotExist(err) {
			log.Printf("⚠️  Failed to load demand model: %v. Retraining.", err)
		}
	}

	model, err := Train(samples, labeler)
	if err != nil {
		return nil, err
	}

	if err := s.save(model); err != nil {
		log.Printf("⚠️  Failed to persist demand model: %v", err)
	} else {
		log.Printf("🧠 Trained demand model over %d samples (slope=%.4f intercept=%.4f), saved to %s",
			model.SampleSize, model.Slope, model.Intercept, s.path)
	}
	return model, nil
}

func (s *Store) load() (*Model, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	var model Model
	if err := json.Unmarshal(raw, &model); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	if model.SampleSize < 2 {
		return nil, fmt.Errorf("model artifact has sample_size %d", model.SampleSize)
	}
	if _, err := model.apply(1); err != nil {
		return nil, fmt.Errorf("model artifact has unusable coefficients")
	}
	return &model, nil
}

func (s *Store) save(m *Model) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o644)
}
