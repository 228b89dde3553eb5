package seed

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Preset sizes a seeding run.
type Preset struct {
	Name               string   `yaml:"name"`
	Users              int      `yaml:"users"`
	CommunityPosts     int      `yaml:"communityPosts"`
	PlaydatePosts      int      `yaml:"playdatePosts"`
	MaxCommentsPerPost int      `yaml:"maxCommentsPerPost"`
	LikeRatio          float64  `yaml:"likeRatio"`
	JoinRatio          float64  `yaml:"joinRatio"`
	MaxDays            int      `yaml:"maxDays"`
	PetTypes           []string `yaml:"petTypes"`
	Categories         []string `yaml:"categories"`
	Cities             []string `yaml:"cities"`
}

type presetFile struct {
	Presets []Preset `yaml:"presets"`
}

//go:embed presets.yml
var builtinPresets []byte

var (
	defaultPetTypes   = []string{"dog", "cat", "rabbit"}
	defaultCategories = []string{"photos", "advice", "funny"}
	defaultCities     = []string{"Portland", "Austin", "Seattle"}
)

func (p *Preset) applyDefaults() {
	if p.MaxDays <= 0 {
		p.MaxDays = 90
	}
	if len(p.PetTypes) == 0 {
		p.PetTypes = defaultPetTypes
	}
	if len(p.Categories) == 0 {
		p.Categories = defaultCategories
	}
	if len(p.Cities) == 0 {
		p.Cities = defaultCities
	}
}

// Validate rejects presets that cannot produce a consistent data set.
func (p Preset) Validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("preset name is required")
	case p.Users < 0 || p.CommunityPosts < 0 || p.PlaydatePosts < 0 || p.MaxCommentsPerPost < 0:
		return fmt.Errorf("preset %q: counts cannot be negative", p.Name)
	case (p.CommunityPosts > 0 || p.PlaydatePosts > 0) && p.Users == 0:
		return fmt.Errorf("preset %q: posts need at least one user", p.Name)
	case p.LikeRatio < 0 || p.LikeRatio > 1 || p.JoinRatio < 0 || p.JoinRatio > 1:
		return fmt.Errorf("preset %q: ratios must be between 0 and 1", p.Name)
	}
	return nil
}

// ParsePresets decodes a YAML preset document.
func ParsePresets(r io.Reader) (map[string]Preset, error) {
	var doc presetFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode presets: %w", err)
	}
	out := make(map[string]Preset, len(doc.Presets))
	for _, p := range doc.Presets {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		p.applyDefaults()
		out[p.Name] = p
	}
	return out, nil
}

// LoadPreset returns the named preset from path, or from the built-in set
// when path is empty.
func LoadPreset(path, name string) (Preset, error) {
	var r io.Reader = strings.NewReader(string(builtinPresets))
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Preset{}, fmt.Errorf("open presets: %w", err)
		}
		defer f.Close()
		r = f
	}

	presets, err := ParsePresets(r)
	if err != nil {
		return Preset{}, err
	}
	p, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset %q", name)
	}
	return p, nil
}
