package config

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// Shipped defaults. The target URLs point at the known disclosure pages;
// both change rarely but are overridable in the config file.
const (
	DefaultICBCURL = "https://www.icbc.com.cn/webpage/finance/disclosure/detail/net-value/?prodId=21GS6173&saleTarget=7"
	DefaultCMBURL  = "https://www.cmbchina.com/cfweb/personal/proddetail"

	DefaultOutputDir  = "output"
	DefaultWindowSize = "1920,1080"

	DefaultPageTimeout    = 30 * time.Second
	DefaultElementTimeout = 20 * time.Second

	DefaultMaxScrolls  = 10
	DefaultScrollDelay = 2 * time.Second
)

// Probed when --config is not given.
var defaultPaths = []string{"netval.yaml", "netval.yml"}

// Duration wraps time.Duration so "30s"-style values parse from YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// File is the single-file configuration schema. Flags take precedence
// over everything here.
type File struct {
	ICBC struct {
		URL string `yaml:"url"`
	} `yaml:"icbc"`

	CMB struct {
		URL string `yaml:"url"`
	} `yaml:"cmb"`

	Output struct {
		Dir string `yaml:"dir"`
		BOM *bool  `yaml:"bom"`
	} `yaml:"output"`

	Browser struct {
		Headless   *bool  `yaml:"headless"`
		WindowSize string `yaml:"windowSize"`
		Proxy      string `yaml:"proxy"`
	} `yaml:"browser"`

	Timeouts struct {
		Page    Duration `yaml:"page"`
		Element Duration `yaml:"element"`
	} `yaml:"timeouts"`

	Scroll struct {
		Max   int      `yaml:"max"`
		Delay Duration `yaml:"delay"`
	} `yaml:"scroll"`
}

// Default returns a File populated with the shipped defaults.
func Default() File {
	var f File
	f.ICBC.URL = DefaultICBCURL
	f.CMB.URL = DefaultCMBURL
	f.Output.Dir = DefaultOutputDir
	f.Browser.WindowSize = DefaultWindowSize
	f.Timeouts.Page = Duration(DefaultPageTimeout)
	f.Timeouts.Element = Duration(DefaultElementTimeout)
	f.Scroll.Max = DefaultMaxScrolls
	f.Scroll.Delay = Duration(DefaultScrollDelay)
	return f
}

// Load reads the config file at path and overlays it onto the defaults.
// An empty path probes the default filenames; found reports whether any
// file was read. A missing explicit path is an error, a missing probed
// one is not.
func Load(path string) (File, bool, error) {
	cfg := Default()

	paths := defaultPaths
	explicit := path != ""
	if explicit {
		paths = []string{path}
	}

	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			if os.IsNotExist(err) && !explicit {
				continue
			}
			return cfg, false, fmt.Errorf("failed to read config %s: %w", p, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, true, fmt.Errorf("failed to parse config %s: %w", p, err)
		}
		return cfg, true, nil
	}
	return cfg, false, nil
}

// Headless resolves the browser.headless setting, defaulting to true.
func (f File) Headless() bool {
	if f.Browser.Headless == nil {
		return true
	}
	return *f.Browser.Headless
}

// CSVBOM resolves the output.bom setting, defaulting to true.
func (f File) CSVBOM() bool {
	if f.Output.BOM == nil {
		return true
	}
	return *f.Output.BOM
}

// SiteURL returns the configured default URL for a site, empty when the
// site is unknown.
func (f File) SiteURL(site string) string {
	switch site {
	case "icbc":
		return f.ICBC.URL
	case "cmb":
		return f.CMB.URL
	}
	return ""
}
