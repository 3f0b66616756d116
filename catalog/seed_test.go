package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"retail-pricing/database"
)

type fakeWriter struct {
	byID map[string]*database.Product
}

func (f *fakeWriter) GetByID(id string) (*database.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, database.NewNotFoundError("product", id)
	}
	return p, nil
}

func (f *fakeWriter) Create(p *database.Product) error {
	f.byID[p.ID] = p
	return nil
}

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestApplySeedsNewProducts(t *testing.T) {
	path := writeSeed(t, `
products:
  - id: prod-a
    name: Widget
    current_price: 10.50
    inventory: 5
    sales_last_7_days: 14
    margin: 0.30
  - name: Anonymous Gadget
    current_price: 3.99
`)

	f, err := LoadSeedFile(path)
	if err != nil {
		t.Fatal(err)
	}

	repo := &fakeWriter{byID: make(map[string]*database.Product)}
	created, err := f.Apply(repo)
	if err != nil {
		t.Fatal(err)
	}
	if created != 2 {
		t.Fatalf("expected 2 created, got %d", created)
	}

	a := repo.byID["prod-a"]
	if a == nil {
		t.Fatal("prod-a not created")
	}
	if a.CurrentPrice.String() != "10.5" {
		t.Errorf("unexpected price %s", a.CurrentPrice)
	}
	if !a.SuggestedPrice.Equal(a.CurrentPrice) {
		t.Errorf("suggested price should start at the current price")
	}

	// The ID-less entry gets a generated one.
	found := false
	for id, p := range repo.byID {
		if p.Name == "Anonymous Gadget" {
			found = true
			if !strings.HasPrefix(id, "prod-") {
				t.Errorf("generated ID %q missing prod- prefix", id)
			}
		}
	}
	if !found {
		t.Error("ID-less seed entry was not created")
	}
}

func TestApplySkipsExistingProducts(t *testing.T) {
	path := writeSeed(t, `
products:
  - id: prod-a
    name: Widget
    current_price: 10.50
`)

	f, err := LoadSeedFile(path)
	if err != nil {
		t.Fatal(err)
	}

	existing := &database.Product{ID: "prod-a", Name: "Original Widget"}
	repo := &fakeWriter{byID: map[string]*database.Product{"prod-a": existing}}

	created, err := f.Apply(repo)
	if err != nil {
		t.Fatal(err)
	}
	if created != 0 {
		t.Fatalf("expected 0 created, got %d", created)
	}
	if repo.byID["prod-a"].Name != "Original Widget" {
		t.Error("existing product was overwritten")
	}
}

func TestApplyRejectsInvalidEntries(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing name", "products:\n  - current_price: 5.00\n"},
		{"zero price", "products:\n  - name: Freebie\n    current_price: 0\n"},
		{"negative inventory", "products:\n  - name: Widget\n    current_price: 5.00\n    inventory: -1\n"},
		{"margin out of range", "products:\n  - name: Widget\n    current_price: 5.00\n    margin: 1.2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := LoadSeedFile(writeSeed(t, tt.yaml))
			if err != nil {
				t.Fatal(err)
			}
			repo := &fakeWriter{byID: make(map[string]*database.Product)}
			if _, err := f.Apply(repo); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}
