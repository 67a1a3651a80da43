package nvcodec

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted by ConfigFromEnv.
const (
	// EnvLibraryPath names a directory searched before the system paths.
	EnvLibraryPath = "NVCODEC_LIB_PATH"
	// EnvToolkitPath is the CUDA toolkit root; NPP ships with the toolkit,
	// not with the driver.
	EnvToolkitPath = "CUDA_PATH"
	envToolkitHome = "CUDA_HOME"

	defaultToolkitDir = "/usr/local/cuda"
)

// Config controls where the native libraries are loaded from.
type Config struct {
	// LibraryDir is searched for every library before the platform paths.
	LibraryDir string `json:"library_dir,omitempty" yaml:"library_dir,omitempty"`

	// ToolkitDir is the CUDA toolkit installation; its lib64, lib and bin
	// directories are searched.
	ToolkitDir string `json:"toolkit_dir,omitempty" yaml:"toolkit_dir,omitempty"`

	// Libraries maps a library name (cuda, nvcuvid, nvidia-encode, nppc,
	// nppicc) to an explicit file path, tried first.
	Libraries map[string]string `json:"libraries,omitempty" yaml:"libraries,omitempty"`
}

// ConfigFromEnv builds a Config from NVCODEC_LIB_PATH, CUDA_PATH (or
// CUDA_HOME) and NVCODEC_<NAME>_LIB, e.g. NVCODEC_NVIDIA_ENCODE_LIB.
func ConfigFromEnv() Config {
	cfg := Config{
		LibraryDir: os.Getenv(EnvLibraryPath),
		ToolkitDir: os.Getenv(EnvToolkitPath),
	}
	if cfg.ToolkitDir == "" {
		cfg.ToolkitDir = os.Getenv(envToolkitHome)
	}
	for id := libraryID(0); id < libraryCount; id++ {
		name := id.String()
		if path := os.Getenv(libraryEnvName(name)); path != "" {
			if cfg.Libraries == nil {
				cfg.Libraries = map[string]string{}
			}
			cfg.Libraries[name] = path
		}
	}
	return cfg
}

func libraryEnvName(name string) string {
	return "NVCODEC_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_")) + "_LIB"
}

// LoadConfigFile reads a YAML config file.
func LoadConfigFile(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config %q: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("unable to parse config %q: %w", path, err)
	}
	return cfg, nil
}

// Merge returns c overridden by the non-empty fields of o.
func (c Config) Merge(o Config) Config {
	out := c
	if o.LibraryDir != "" {
		out.LibraryDir = o.LibraryDir
	}
	if o.ToolkitDir != "" {
		out.ToolkitDir = o.ToolkitDir
	}
	if len(o.Libraries) > 0 {
		libs := make(map[string]string, len(c.Libraries)+len(o.Libraries))
		for k, v := range c.Libraries {
			libs[k] = v
		}
		for k, v := range o.Libraries {
			libs[k] = v
		}
		out.Libraries = libs
	}
	return out
}

func (c Config) toolkitDir() string {
	if c.ToolkitDir != "" {
		return c.ToolkitDir
	}
	return defaultToolkitDir
}
