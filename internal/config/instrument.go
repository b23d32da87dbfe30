package config

import (
	"embed"
	"fmt"
	"os"

	"mindwell/internal/model"
	"mindwell/internal/screening"

	"gopkg.in/yaml.v3"
)

//go:embed instruments/*.yaml
var instrumentFS embed.FS

// Instrument is the questionnaire definition: questions, scoring thresholds
// and per-level guidance
type Instrument struct {
	Name           string                                 `json:"name" yaml:"name"`
	Version        int                                    `json:"version" yaml:"version"`
	Description    string                                 `json:"description" yaml:"description"`
	Disclaimer     string                                 `json:"disclaimer" yaml:"disclaimer"`
	Thresholds     screening.Thresholds                   `json:"thresholds" yaml:"thresholds"`
	Questions      []screening.Question                   `json:"questions" yaml:"questions"`
	Levels         map[screening.Level]screening.Guidance `json:"levels" yaml:"levels"`
	CrisisContacts []model.CrisisContact                  `json:"crisisContacts" yaml:"crisis_contacts"`
}

// DefaultInstrument returns the built-in seven question assessment
func DefaultInstrument() (*Instrument, error) {
	data, err := instrumentFS.ReadFile("instruments/default.yaml")
	if err != nil {
		return nil, fmt.Errorf("config.DefaultInstrument: %w", err)
	}
	return ParseInstrument(data)
}

// LoadInstrument reads an instrument from a YAML file.
// An empty path yields the built-in instrument.
func LoadInstrument(path string) (*Instrument, error) {
	if path == "" {
		return DefaultInstrument()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.LoadInstrument: %w", err)
	}
	inst, err := ParseInstrument(data)
	if err != nil {
		return nil, fmt.Errorf("config.LoadInstrument %q: %w", path, err)
	}
	return inst, nil
}

// ParseInstrument decodes YAML and fills defaults
func ParseInstrument(data []byte) (*Instrument, error) {
	var inst Instrument
	if err := yaml.Unmarshal(data, &inst); err != nil {
		return nil, fmt.Errorf("parse instrument: %w", err)
	}
	if inst.Thresholds == (screening.Thresholds{}) {
		inst.Thresholds = screening.DefaultThresholds()
	}
	return &inst, nil
}

// Build validates the instrument and returns a ready screener
func (i *Instrument) Build() (*screening.Screener, error) {
	bank, err := screening.NewBank(i.Questions)
	if err != nil {
		return nil, err
	}
	scale, err := screening.NewScale(bank.MaxScore(), i.Thresholds, i.Levels)
	if err != nil {
		return nil, err
	}
	return screening.NewScreener(bank, scale)
}
