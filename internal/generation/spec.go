package generation

import (
	"embed"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/vardkurs/coursegen-backend/internal/logger"
)

const generationSpecEnv = "GENERATION_SPEC_YAML"

//go:embed generation.yaml
var generationSpecFS embed.FS

// tuning used when the YAML is missing or invalid
var fallbackMaxTokens = map[string]int{
	"title":     4000,
	"outline":   6000,
	"script":    8000,
	"slides":    8000,
	"exercises": 4000,
	"quiz":      6000,
}

var fallbackVerbosity = map[string]string{
	"concise":    "Maximum 15 words per slide. Headlines 5-7 words. Use minimal text, maximum 5 bullets with 3-5 words each.",
	"standard":   "Maximum 30-35 words per slide. Headlines 6-10 words. Use 4-5 bullets with 5-8 words each.",
	"text-heavy": "Maximum 60 words per slide. Headlines 8-12 words. Use 5-7 bullets with 8-12 words each, can include brief paragraphs.",
}

var fallbackTone = map[string]string{
	"professional":  "Formal, authoritative, data-driven language. Use technical terms appropriately.",
	"casual":        "Friendly, conversational tone. Use simple language and relatable examples.",
	"educational":   "Clear, pedagogical approach. Define concepts, provide examples, check understanding.",
	"inspirational": "Motivational, uplifting language. Focus on transformation and possibility.",
}

type yamlGenerationSpec struct {
	Version      int                     `yaml:"version"`
	DefaultModel string                  `yaml:"default_model"`
	Steps        map[string]yamlStepSpec `yaml:"steps"`
	Verbosity    map[string]string       `yaml:"verbosity"`
	Tone         map[string]string       `yaml:"tone"`
}

type yamlStepSpec struct {
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

var specOnce sync.Once
var specCache *yamlGenerationSpec
var specErr error

func currentSpec(log *logger.Logger) *yamlGenerationSpec {
	specOnce.Do(func() {
		specCache, specErr = loadSpec()
	})
	if specErr != nil {
		if log != nil {
			log.Warn("generation spec load failed; using fallback tuning", "error", specErr)
		}
		return nil
	}
	return specCache
}

func loadSpec() (*yamlGenerationSpec, error) {
	data, err := readSpecBytes()
	if err != nil {
		return nil, err
	}
	var spec yamlGenerationSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

func readSpecBytes() ([]byte, error) {
	if path := strings.TrimSpace(os.Getenv(generationSpecEnv)); path != "" {
		return os.ReadFile(path)
	}
	return generationSpecFS.ReadFile("generation.yaml")
}

func stepModel(log *logger.Logger, step string) string {
	if spec := currentSpec(log); spec != nil {
		if s, ok := spec.Steps[step]; ok && s.Model != "" {
			return s.Model
		}
		if spec.DefaultModel != "" {
			return spec.DefaultModel
		}
	}
	return ""
}

func stepMaxTokens(log *logger.Logger, step string) int {
	if spec := currentSpec(log); spec != nil {
		if s, ok := spec.Steps[step]; ok && s.MaxTokens > 0 {
			return s.MaxTokens
		}
	}
	return fallbackMaxTokens[step]
}

func verbosityGuidance(log *logger.Logger, verbosity string) string {
	if spec := currentSpec(log); spec != nil {
		if g, ok := spec.Verbosity[verbosity]; ok && g != "" {
			return g
		}
	}
	if g, ok := fallbackVerbosity[verbosity]; ok {
		return g
	}
	return fallbackVerbosity["standard"]
}

func toneGuidance(log *logger.Logger, tone string) string {
	if spec := currentSpec(log); spec != nil {
		if g, ok := spec.Tone[tone]; ok && g != "" {
			return g
		}
	}
	if g, ok := fallbackTone[tone]; ok {
		return g
	}
	return "Professional and clear"
}
