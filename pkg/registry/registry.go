// pkg/registry/registry.go
package registry

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"unit-lookup/internal/common/validation"
)

//go:embed activity-registry.json
var defaultRegistry []byte

var ErrActivityNotFound = errors.New("activity not found")

var knownChannels = map[string]bool{"http": true, "telegram": true, "cli": true, "zeebe": true}

// LoadRegistry reads the registry file at path. An empty path means the
// built-in registry.
func LoadRegistry(path string) (*ActivityRegistry, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(data)
}

// Default is the registry built into the binary.
func Default() *ActivityRegistry {
	reg, err := parse(defaultRegistry)
	if err != nil {
		panic(fmt.Sprintf("embedded activity registry: %v", err))
	}
	return reg
}

func parse(data []byte) (*ActivityRegistry, error) {
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse activity registry: %w", err)
	}
	return &reg, nil
}

// Find looks an activity up by its Zeebe task type.
func (r *ActivityRegistry) Find(taskType string) (*Activity, error) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrActivityNotFound, taskType)
}

// Validate checks ids, task types, timeouts and that every schema compiles.
// All problems are returned joined.
func (r *ActivityRegistry) Validate() error {
	var errs []error
	seen := make(map[string]bool)

	for _, a := range r.Activities {
		if err := validation.ValidateActivityNaming(a.ID); err != nil {
			errs = append(errs, err)
		}
		if a.TaskType == "" {
			errs = append(errs, fmt.Errorf("%s: taskType is required", a.ID))
		} else if seen[a.TaskType] {
			errs = append(errs, fmt.Errorf("%s: duplicate taskType %q", a.ID, a.TaskType))
		}
		seen[a.TaskType] = true

		if _, err := a.TimeoutDuration(); err != nil {
			errs = append(errs, fmt.Errorf("%s: timeout: %w", a.ID, err))
		}
		for _, ch := range a.Channels {
			if !knownChannels[ch] {
				errs = append(errs, fmt.Errorf("%s: unknown channel %q", a.ID, ch))
			}
		}
		if err := validation.Compile(a.InputSchema); err != nil {
			errs = append(errs, fmt.Errorf("%s: inputSchema: %w", a.ID, err))
		}
		if err := validation.Compile(a.OutputSchema); err != nil {
			errs = append(errs, fmt.Errorf("%s: outputSchema: %w", a.ID, err))
		}
	}
	return errors.Join(errs...)
}

// ValidateInput checks a raw JSON document against the activity's input schema.
func (a *Activity) ValidateInput(doc []byte) (*validation.ValidationResult, error) {
	return validation.ValidateJSON(a.InputSchema, doc)
}
