package fetcher

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultUserAgent is a desktop Chrome identity sent with every attempt.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const (
	defaultFormat        = "worst[ext=mp4]/worst"
	defaultExtractorArgs = "youtube:skip=hls,dash;player_skip=configs,webpage"
)

// Strategy is one named set of yt-dlp options tried by the fallback sequence.
type Strategy struct {
	Name               string            `yaml:"name" json:"name"`
	CookiesFromBrowser string            `yaml:"cookies_from_browser,omitempty" json:"cookiesFromBrowser,omitempty"`
	Format             string            `yaml:"format,omitempty" json:"format,omitempty"`
	ExtractorArgs      string            `yaml:"extractor_args,omitempty" json:"extractorArgs,omitempty"`
	Headers            map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
	ExtraArgs          []string          `yaml:"extra_args,omitempty" json:"extraArgs,omitempty"`
}

// Args converts the strategy into yt-dlp command line flags.
func (s Strategy) Args() []string {
	var args []string
	if s.CookiesFromBrowser != "" {
		args = append(args, "--cookies-from-browser", s.CookiesFromBrowser)
	}
	if s.Format != "" {
		args = append(args, "-f", s.Format)
	}
	if s.ExtractorArgs != "" {
		args = append(args, "--extractor-args", s.ExtractorArgs)
	}

	keys := make([]string, 0, len(s.Headers))
	for k := range s.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--add-header", k+":"+s.Headers[k])
	}

	return append(args, s.ExtraArgs...)
}

// DefaultStrategies returns the built-in fallback order: browser cookie jars
// first, then a cookie-less attempt with a low quality target and more
// aggressive extractor skips.
func DefaultStrategies() []Strategy {
	headers := func() map[string]string {
		return map[string]string{"User-Agent": DefaultUserAgent}
	}
	browser := func(name string) Strategy {
		return Strategy{
			Name:               name,
			CookiesFromBrowser: name,
			Format:             defaultFormat,
			ExtractorArgs:      defaultExtractorArgs,
			Headers:            headers(),
		}
	}

	return []Strategy{
		browser("chrome"),
		browser("firefox"),
		browser("edge"),
		browser("safari"),
		{
			Name:          "no-cookies",
			Format:        "best[height<=360]/worst",
			ExtractorArgs: "youtube:skip=hls,dash,translated_subs;player_skip=js,configs,webpage",
			Headers:       headers(),
		},
	}
}

type strategyFile struct {
	Strategies []Strategy `yaml:"strategies"`
}

// LoadStrategies reads an ordered strategy list from a YAML file of the form
//
//	strategies:
//	  - name: chrome
//	    cookies_from_browser: chrome
//	    format: worst[ext=mp4]/worst
func LoadStrategies(path string) ([]Strategy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read strategies file: %w", err)
	}
	return ParseStrategies(data)
}

// ParseStrategies decodes and validates YAML strategy definitions.
func ParseStrategies(data []byte) ([]Strategy, error) {
	var f strategyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse strategies file: %w", err)
	}
	if err := ValidateStrategies(f.Strategies); err != nil {
		return nil, err
	}
	return f.Strategies, nil
}

// MarshalStrategies renders strategies in the LoadStrategies file format.
func MarshalStrategies(strategies []Strategy) ([]byte, error) {
	return yaml.Marshal(strategyFile{Strategies: strategies})
}

// ValidateStrategies requires a non-empty list of uniquely named strategies.
func ValidateStrategies(strategies []Strategy) error {
	if len(strategies) == 0 {
		return errors.New("at least one fetch strategy is required")
	}
	seen := make(map[string]bool, len(strategies))
	for i, s := range strategies {
		if s.Name == "" {
			return fmt.Errorf("strategy %d has no name", i+1)
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate strategy name %q", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// Names returns the strategy names in order.
func Names(strategies []Strategy) []string {
	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = s.Name
	}
	return names
}
