package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the optional repository file. Secrets are never read from it.
type FileConfig struct {
	Provider             *string  `yaml:"provider"`
	Model                *string  `yaml:"model"`
	Mode                 *string  `yaml:"mode"`
	AllowedTypes         []string `yaml:"allowed-types"`
	RequireScope         *bool    `yaml:"require-scope"`
	MaxLength            *int     `yaml:"max-length"`
	MinDescriptionLength *int     `yaml:"min-description-length"`
	IncludeScope         *bool    `yaml:"include-scope"`
	SkipIfConventional   *bool    `yaml:"skip-if-conventional"`
	MatchLanguage        *bool    `yaml:"match-language"`
	CustomPrompt         *string  `yaml:"custom-prompt"`
	CommentTemplate      *string  `yaml:"comment-template"`
	AutoComment          *bool    `yaml:"auto-comment"`
	Language             *string  `yaml:"language"`
	Temperature          *float64 `yaml:"temperature"`
	MaxTokens            *int     `yaml:"max-tokens"`
}

// LoadFile reads a repository config file. A missing file yields (nil, nil)
// unless required is set.
func LoadFile(path string, required bool) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("error decoding config file %s: %w", path, err)
	}
	return &fc, nil
}

func (fc *FileConfig) apply(c *Config) {
	if fc == nil {
		return
	}
	if fc.Provider != nil {
		c.Provider = Provider(*fc.Provider)
	}
	if fc.Model != nil {
		c.Model = *fc.Model
	}
	if fc.Mode != nil {
		c.Mode = Mode(*fc.Mode)
	}
	if len(fc.AllowedTypes) > 0 {
		c.AllowedTypes = normalizeTypes(fc.AllowedTypes)
	}
	if fc.RequireScope != nil {
		c.RequireScope = *fc.RequireScope
	}
	if fc.MaxLength != nil {
		c.MaxLength = *fc.MaxLength
	}
	if fc.MinDescriptionLength != nil {
		c.MinDescriptionLength = *fc.MinDescriptionLength
	}
	if fc.IncludeScope != nil {
		c.IncludeScope = *fc.IncludeScope
	}
	if fc.SkipIfConventional != nil {
		c.SkipIfConventional = *fc.SkipIfConventional
	}
	if fc.MatchLanguage != nil {
		c.MatchLanguage = *fc.MatchLanguage
	}
	if fc.CustomPrompt != nil {
		c.CustomPrompt = *fc.CustomPrompt
	}
	if fc.CommentTemplate != nil {
		c.CommentTemplate = *fc.CommentTemplate
	}
	if fc.AutoComment != nil {
		c.AutoComment = *fc.AutoComment
	}
	if fc.Language != nil {
		c.Language = *fc.Language
	}
	if fc.Temperature != nil {
		c.Temperature = *fc.Temperature
	}
	if fc.MaxTokens != nil {
		c.MaxTokens = *fc.MaxTokens
	}
}
