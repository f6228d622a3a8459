package ai

import (
	"fmt"

	"github.com/kapu/affiliate-hub-go/internal/util"
)

// ModelPreset selects sampling parameters for a generation call.
type ModelPreset string

const (
	PresetCreative ModelPreset = "creative"
	PresetPrecise  ModelPreset = "precise"
	PresetBalanced ModelPreset = "balanced"
)

// ParsePreset maps a configured preset name to a ModelPreset. Blank means balanced.
func ParsePreset(raw string) (ModelPreset, error) {
	switch preset := ModelPreset(util.Normalize(raw)); preset {
	case "":
		return PresetBalanced, nil
	case PresetBalanced, PresetCreative, PresetPrecise:
		return preset, nil
	default:
		return "", fmt.Errorf("unknown model preset %q", raw)
	}
}

// ModelConfig holds Gemini sampling parameters.
type ModelConfig struct {
	Temperature     float32
	TopP            float32
	TopK            int
	MaxOutputTokens int
}

// OpenAIConfig holds OpenAI sampling parameters.
type OpenAIConfig struct {
	Temperature float32
	MaxTokens   int
	TopP        float32
}

// GenerateMetadata describes which provider answered.
type GenerateMetadata struct {
	Provider     string
	Model        string
	UsedFallback bool
}

// GenerateOptions holds per-call options.
type GenerateOptions struct {
	Model             string
	SystemInstruction string
	Overrides         *ModelConfig
}

// GetPresetConfig returns the Gemini configuration for a preset.
func GetPresetConfig(preset ModelPreset) ModelConfig {
	switch preset {
	case PresetCreative:
		return ModelConfig{
			Temperature:     0.7,
			TopP:            0.95,
			TopK:            40,
			MaxOutputTokens: 1024,
		}
	case PresetPrecise:
		return ModelConfig{
			Temperature:     0.1,
			TopP:            0.9,
			TopK:            20,
			MaxOutputTokens: 512,
		}
	case PresetBalanced:
		return ModelConfig{
			Temperature:     0.4,
			TopP:            0.95,
			TopK:            40,
			MaxOutputTokens: 1024,
		}
	default:
		return GetPresetConfig(PresetBalanced)
	}
}

// GetOpenAIPresetConfig returns the OpenAI configuration for a preset.
func GetOpenAIPresetConfig(preset ModelPreset) OpenAIConfig {
	switch preset {
	case PresetCreative:
		return OpenAIConfig{
			Temperature: 0.7,
			MaxTokens:   1024,
			TopP:        0.95,
		}
	case PresetPrecise:
		return OpenAIConfig{
			Temperature: 0.1,
			MaxTokens:   512,
			TopP:        0.9,
		}
	case PresetBalanced:
		return OpenAIConfig{
			Temperature: 0.4,
			MaxTokens:   1024,
			TopP:        0.95,
		}
	default:
		return GetOpenAIPresetConfig(PresetBalanced)
	}
}
