package testutil

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	lumedb "github.com/wizardsarehere/LumeDB"
)

// WorkloadFile defines the YAML schema for store workload scenarios.
type WorkloadFile struct {
	Workloads []Workload `yaml:"workloads"`
}

// Workload is a named sequence of store operations with an expected final
// document.
type Workload struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	NoBlankData bool           `yaml:"no_blank_data"` // Run with pruning enabled
	Steps       []Step         `yaml:"steps"`
	Expect      map[string]any `yaml:"expect"` // Expected document after all steps
}

// Step is a single store operation.
type Step struct {
	Op       string `yaml:"op"`       // set|del|push|unpush|setp|delp|clear
	Path     string `yaml:"path"`     // Dot path the operation targets
	Value    any    `yaml:"value"`    // Value for set/push/unpush/setp
	Priority int    `yaml:"priority"` // 1-based position for setp/delp
	Fails    bool   `yaml:"fails"`    // The step is expected to return an error
}

// LoadWorkloads loads workload scenarios from a YAML file.
func LoadWorkloads(path string) ([]Workload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file WorkloadFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	return file.Workloads, nil
}

// Run applies every step to the store in order. Steps marked Fails must
// return an error; any other error aborts the run.
func (w *Workload) Run(store *lumedb.Store) error {
	for i, step := range w.Steps {
		err := step.apply(store)
		if step.Fails {
			if err == nil {
				return fmt.Errorf("step %d (%s %s) should have failed", i+1, step.Op, step.Path)
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("step %d (%s %s): %w", i+1, step.Op, step.Path, err)
		}
	}
	return nil
}

// Verify compares the store's document against the expected structure.
func (w *Workload) Verify(store *lumedb.Store) error {
	if w.Expect == nil {
		return nil
	}

	got, err := CanonicalValue(store.All())
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	want, err := CanonicalValue(w.Expect)
	if err != nil {
		return fmt.Errorf("failed to encode expectation: %w", err)
	}

	if got != want {
		return fmt.Errorf("document mismatch\n  want: %s\n  got:  %s", want, got)
	}
	return nil
}

func (s *Step) apply(store *lumedb.Store) error {
	switch s.Op {
	case "set":
		_, err := store.Set(s.Path, s.Value)
		return err
	case "del":
		_, err := store.Delete(s.Path)
		return err
	case "push":
		_, err := store.Push(s.Path, s.Value)
		return err
	case "unpush":
		_, err := store.Unpush(s.Path, s.Value)
		return err
	case "setp":
		_, err := store.SetByPriority(s.Path, s.Value, s.Priority)
		return err
	case "delp":
		_, err := store.DelByPriority(s.Path, s.Priority)
		return err
	case "clear":
		return store.Clear()
	default:
		return fmt.Errorf("unknown op %q", s.Op)
	}
}
