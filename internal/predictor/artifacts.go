package predictor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Artifacts is the immutable model context: vocabulary, lookup tables, and
// the trained classifier. It is loaded once at process start and shared
// read-only by every request; nothing in it may change afterwards.
type Artifacts struct {
	Vocabulary   []string
	Severity     map[string]int
	Descriptions map[string]string
	Precautions  map[string][]string
	Model        *NaiveBayesModel

	index map[string]int
}

type symptomFile struct {
	Symptoms []struct {
		Name     string `yaml:"name"`
		Severity int    `yaml:"severity"`
	} `yaml:"symptoms"`
}

type knowledgeFile struct {
	Diseases []struct {
		Name        string   `yaml:"name"`
		Description string   `yaml:"description"`
		Precautions []string `yaml:"precautions"`
	} `yaml:"diseases"`
}

// LoadArtifacts reads symptoms.yaml, knowledge.yaml and model.json from
// dir and cross-checks their dimensions.
func LoadArtifacts(dir string) (*Artifacts, error) {
	var symptoms symptomFile
	if err := readYAML(filepath.Join(dir, "symptoms.yaml"), &symptoms); err != nil {
		return nil, err
	}
	var knowledge knowledgeFile
	if err := readYAML(filepath.Join(dir, "knowledge.yaml"), &knowledge); err != nil {
		return nil, err
	}

	modelData, err := os.ReadFile(filepath.Join(dir, "model.json"))
	if err != nil {
		return nil, fmt.Errorf("reading model artifact: %w", err)
	}
	model := &NaiveBayesModel{}
	if err := json.Unmarshal(modelData, model); err != nil {
		return nil, fmt.Errorf("parsing model artifact: %w", err)
	}

	a := &Artifacts{
		Severity:     make(map[string]int),
		Descriptions: make(map[string]string),
		Precautions:  make(map[string][]string),
		Model:        model,
	}
	for _, s := range symptoms.Symptoms {
		a.Vocabulary = append(a.Vocabulary, s.Name)
		a.Severity[s.Name] = s.Severity
	}
	for _, d := range knowledge.Diseases {
		a.Descriptions[d.Name] = d.Description
		a.Precautions[d.Name] = d.Precautions
	}
	a.buildIndex()

	if err := model.Validate(len(a.Vocabulary)); err != nil {
		return nil, fmt.Errorf("model artifact inconsistent with vocabulary: %w", err)
	}
	return a, nil
}

func readYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (a *Artifacts) buildIndex() {
	a.index = make(map[string]int, len(a.Vocabulary))
	for i, name := range a.Vocabulary {
		a.index[name] = i
	}
}

// FeatureIndex looks a normalized symptom up in the vocabulary.
func (a *Artifacts) FeatureIndex(symptom string) (int, bool) {
	i, ok := a.index[symptom]
	return i, ok
}

// DisplaySymptoms returns the vocabulary with underscores restored to
// spaces, for pickers and the /symptoms route.
func (a *Artifacts) DisplaySymptoms() []string {
	out := make([]string, len(a.Vocabulary))
	for i, s := range a.Vocabulary {
		out[i] = strings.ReplaceAll(s, "_", " ")
	}
	return out
}
