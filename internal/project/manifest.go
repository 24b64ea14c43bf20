package project

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is a loaded seqgen.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors seqgen.toml.
type Config struct {
	Expand ExpandConfig `toml:"expand"`
	Log    LogConfig    `toml:"log"`
}

type ExpandConfig struct {
	// Extension selects template files in directory mode.
	Extension      string `toml:"extension"`
	Jobs           int    `toml:"jobs"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
	Cache          bool   `toml:"cache"`
	OutDir         string `toml:"out_dir"`
	MaxDepth       int    `toml:"max_depth"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used without a manifest.
func Default() Config {
	return Config{
		Expand: ExpandConfig{
			Extension:      ".seq",
			Jobs:           runtime.GOMAXPROCS(0),
			MaxDiagnostics: 100,
			Cache:          true,
			MaxDepth:       64,
		},
		Log: LogConfig{Level: "warn"},
	}
}

// Load finds seqgen.toml above startDir and decodes it.
func Load(startDir string) (*Manifest, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoManifest
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}

// LoadOrDefault is Load that falls back to Default when no manifest exists.
// The returned manifest is nil in that case.
func LoadOrDefault(startDir string) (Config, *Manifest, error) {
	m, err := Load(startDir)
	if errors.Is(err, ErrNoManifest) {
		return Default(), nil, nil
	}
	if err != nil {
		return Config{}, nil, err
	}
	return m.Config, m, nil
}

// LoadFile decodes one manifest. Keys absent from the file keep their defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	var errs []error
	if meta.IsDefined("expand", "extension") {
		ext := strings.TrimSpace(cfg.Expand.Extension)
		if ext == "" || ext == "." {
			errs = append(errs, errors.New("[expand].extension is empty"))
		} else if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.Expand.Extension = ext
	}
	if meta.IsDefined("expand", "jobs") && cfg.Expand.Jobs < 0 {
		errs = append(errs, fmt.Errorf("[expand].jobs must not be negative, got %d", cfg.Expand.Jobs))
	}
	if cfg.Expand.Jobs == 0 {
		cfg.Expand.Jobs = runtime.GOMAXPROCS(0)
	}
	if meta.IsDefined("expand", "max_diagnostics") && cfg.Expand.MaxDiagnostics < 0 {
		errs = append(errs, fmt.Errorf("[expand].max_diagnostics must not be negative, got %d", cfg.Expand.MaxDiagnostics))
	}
	if meta.IsDefined("expand", "max_depth") && cfg.Expand.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("[expand].max_depth must be positive, got %d", cfg.Expand.MaxDepth))
	}
	if meta.IsDefined("expand", "out_dir") && cfg.Expand.OutDir != "" && !filepath.IsAbs(cfg.Expand.OutDir) {
		cfg.Expand.OutDir = filepath.Join(filepath.Dir(path), cfg.Expand.OutDir)
	}
	if meta.IsDefined("log", "level") {
		if _, err := cfg.Log.SlogLevel(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// SlogLevel parses Level; an empty level means warn.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	if strings.TrimSpace(l.Level) == "" {
		return slog.LevelWarn, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(l.Level))); err != nil {
		return 0, fmt.Errorf("[log].level: unknown level %q", l.Level)
	}
	return lvl, nil
}

// Encode writes cfg as TOML.
func (c Config) Encode(w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.Indent = ""
	return enc.Encode(c)
}

// WriteDefault creates dir/seqgen.toml with default values.
// An existing manifest is kept unless force is set.
func WriteDefault(dir string, force bool) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	path := filepath.Join(dir, ManifestName)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("%s already exists", path)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	cfg := Default()
	// jobs = 0 means "all cores" on load; keep the file portable
	cfg.Expand.Jobs = 0
	if err := cfg.Encode(f); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
