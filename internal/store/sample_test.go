package store

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestSampleRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	if err := s.Templates().Create(&Template{ID: "t1", Name: "circle", Type: TemplateTypeDynamic}); err != nil {
		t.Fatal(err)
	}

	samples := []json.RawMessage{
		json.RawMessage(`{"path":[{"x":1,"y":2}]}`),
		json.RawMessage(`{"path":[{"x":3,"y":4}]}`),
	}
	if err := s.Samples().Create("t1", samples); err != nil {
		t.Fatalf("failed to create samples: %v", err)
	}

	got, err := s.Samples().GetByTemplateID("t1")
	if err != nil {
		t.Fatalf("failed to get samples: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(got))
	}
	for i, sample := range got {
		if sample.SampleIndex != i || string(sample.Data) != string(samples[i]) {
			t.Errorf("sample %d mismatch: %+v", i, sample)
		}
	}

	tpl, err := s.Templates().GetByID("t1")
	if err != nil {
		t.Fatal(err)
	}
	if tpl.Samples != 2 {
		t.Errorf("expected sample count 2, got %d", tpl.Samples)
	}
}

func TestSampleRepository_CreateReplaces(t *testing.T) {
	s := newTestStore(t)
	if err := s.Templates().Create(&Template{ID: "t1", Name: "circle", Type: TemplateTypeDynamic}); err != nil {
		t.Fatal(err)
	}

	first := []json.RawMessage{json.RawMessage(`{}`), json.RawMessage(`{}`), json.RawMessage(`{}`)}
	if err := s.Samples().Create("t1", first); err != nil {
		t.Fatal(err)
	}
	if err := s.Samples().Create("t1", first[:1]); err != nil {
		t.Fatal(err)
	}

	got, err := s.Samples().GetByTemplateID("t1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 sample after replacing, got %d", len(got))
	}
}

func TestSampleRepository_UnknownTemplate(t *testing.T) {
	s := newTestStore(t)
	err := s.Samples().Create("missing", []json.RawMessage{json.RawMessage(`{}`)})
	if err == nil {
		t.Fatal("expected an error for an unknown template")
	}
}

func TestSampleRepository_DeleteByTemplateID(t *testing.T) {
	s := newTestStore(t)
	if err := s.Templates().Create(&Template{ID: "t1", Name: "circle", Type: TemplateTypeDynamic}); err != nil {
		t.Fatal(err)
	}
	if err := s.Samples().Create("t1", []json.RawMessage{json.RawMessage(`{}`)}); err != nil {
		t.Fatal(err)
	}
	if err := s.Samples().DeleteByTemplateID("t1"); err != nil {
		t.Fatalf("failed to delete samples: %v", err)
	}

	got, err := s.Samples().GetByTemplateID("t1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected no samples, got %d", len(got))
	}
}

func TestSettingsRepository(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	if _, err := repo.Get(SettingActiveView); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for an unset key, got %v", err)
	}
	if err := repo.Set(SettingActiveView, "overview"); err != nil {
		t.Fatal(err)
	}
	if err := repo.Set(SettingActiveView, "detail"); err != nil {
		t.Fatal(err)
	}

	v, err := repo.Get(SettingActiveView)
	if err != nil {
		t.Fatal(err)
	}
	if v != "detail" {
		t.Errorf("expected detail, got %q", v)
	}
}
