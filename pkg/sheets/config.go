package sheets

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes where and how to fetch the event sheet. It can be loaded
// from a YAML file (SHEET_CONFIG) or assembled from environment variables.
type Config struct {
	// URL of the published-CSV export of the sheet.
	URL string `yaml:"url"`
	// Delimiter between fields; defaults to a comma.
	Delimiter string `yaml:"delimiter"`
	// SkipHeader drops the first row (column titles). Defaults to true.
	SkipHeader *bool `yaml:"skip_header"`
	// Timeout bounds the fetch; defaults to 15s.
	Timeout time.Duration `yaml:"timeout"`
}

// LoadConfig reads a YAML sheet configuration from path.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) delimiter() rune {
	if c.Delimiter == "" {
		return ','
	}
	return []rune(c.Delimiter)[0]
}

func (c Config) skipHeader() bool {
	if c.SkipHeader == nil {
		return true
	}
	return *c.SkipHeader
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 15 * time.Second
	}
	return c.Timeout
}
