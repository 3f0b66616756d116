package forecast

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

// identityLabeler makes training deterministic: target == feature.
type identityLabeler struct{}

func (identityLabeler) Label(salesUnits int) float64 { return float64(salesUnits) }

func TestTrainRequiresTwoSamples(t *testing.T) {
	for _, samples := range [][]int{nil, {}, {10}} {
		if _, err := Train(samples, identityLabeler{}); !errors.Is(err, ErrModelUnavailable) {
			t.Errorf("Train(%v) error = %v, want ErrModelUnavailable", samples, err)
		}
	}
}

func TestTrainRejectsZeroVariancePool(t *testing.T) {
	if _, err := Train([]int{5, 5, 5, 5}, identityLabeler{}); !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("Train on constant pool error = %v, want ErrModelUnavailable", err)
	}
}

func TestTrainFitsIdentityLine(t *testing.T) {
	model, err := Train([]int{10, 12, 15, 20, 8, 30}, identityLabeler{})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if model.Slope < 0.999 || model.Slope > 1.001 {
		t.Errorf("slope = %v, want ~1.0 for identity labels", model.Slope)
	}
	if model.Intercept < -0.001 || model.Intercept > 0.001 {
		t.Errorf("intercept = %v, want ~0.0 for identity labels", model.Intercept)
	}
	if model.SampleSize != 6 {
		t.Errorf("sample size = %d, want 6", model.SampleSize)
	}
}

func TestTrainWithNoisyLabelerStaysNearIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	samples := make([]int, 200)
	for i := range samples {
		samples[i] = 5 + rng.Intn(50)
	}

	model, err := Train(samples, NewNoisyLabeler(rng))
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	// Labels are the feature scaled by U(0.95, 1.05); a large pool should
	// land close to the identity line.
	if model.Slope < 0.9 || model.Slope > 1.1 {
		t.Errorf("slope = %v, want within [0.9, 1.1]", model.Slope)
	}
}

func TestPredictNeverNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	f := NewForecaster(rng)

	model := &Model{Slope: 1.0, Intercept: -1000, SampleSize: 10}

	tests := []struct {
		name  string
		model *Model
		sales int
	}{
		{"fallback zero sales", nil, 0},
		{"fallback normal sales", nil, 70},
		{"trained normal sales", &Model{Slope: 1.02, Intercept: 0.5, SampleSize: 10}, 70},
		{"trained negative output floored", model, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 100; i++ {
				got := f.Predict(tt.model, tt.sales)
				if got < 0 {
					t.Fatalf("Predict = %d, want >= 0", got)
				}
			}
		})
	}
}

func TestPredictFallbackStaysInJitterBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	f := NewForecaster(rng)

	// Fallback is round(sales * U(0.9, 1.1)) then round(base * U(0.95, 1.05)).
	for i := 0; i < 200; i++ {
		got := f.Predict(nil, 700)
		if got < 590 || got > 810 {
			t.Fatalf("Predict(nil, 700) = %d, outside combined jitter bounds", got)
		}
	}
}

func TestStoreColdStart(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "model.json"))

	model, err := store.LoadOrTrain(nil, identityLabeler{}, false)
	if !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("cold start error = %v, want ErrModelUnavailable", err)
	}
	if model != nil {
		t.Fatalf("cold start model = %+v, want nil", model)
	}

	// The fallback still produces a usable forecast with no model at all.
	f := NewForecaster(rand.New(rand.NewSource(1)))
	if got := f.Predict(nil, 70); got < 0 {
		t.Fatalf("fallback Predict = %d, want >= 0", got)
	}
}

func TestStoreTrainsThenReloadsArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	store := NewStore(path)

	trained, err := store.LoadOrTrain([]int{10, 20, 30}, identityLabeler{}, false)
	if err != nil {
		t.Fatalf("LoadOrTrain (train): %v", err)
	}

	// Second call must come from the artifact, not retrain: give it an
	// empty pool that could not possibly train.
	loaded, err := store.LoadOrTrain(nil, identityLabeler{}, false)
	if err != nil {
		t.Fatalf("LoadOrTrain (load): %v", err)
	}
	if loaded.Slope != trained.Slope || loaded.Intercept != trained.Intercept {
		t.Errorf("loaded coefficients %+v differ from trained %+v", loaded, trained)
	}
}

func TestStoreCorruptArtifactFallsThroughToTraining(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewStore(path)
	model, err := store.LoadOrTrain([]int{10, 20, 30}, identityLabeler{}, false)
	if err != nil {
		t.Fatalf("LoadOrTrain after corruption: %v", err)
	}
	if model.SampleSize != 3 {
		t.Errorf("sample size = %d, want 3 (retrained over fresh pool)", model.SampleSize)
	}
}

func TestStoreForceRetrainIgnoresArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	store := NewStore(path)

	if _, err := store.LoadOrTrain([]int{10, 20}, identityLabeler{}, false); err != nil {
		t.Fatalf("initial train: %v", err)
	}

	retrained, err := store.LoadOrTrain([]int{1, 2, 3, 4}, identityLabeler{}, true)
	if err != nil {
		t.Fatalf("force retrain: %v", err)
	}
	if retrained.SampleSize != 4 {
		t.Errorf("sample size = %d, want 4 after force retrain", retrained.SampleSize)
	}
}
