package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Transports understood by the CLI.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
	TransportSSE   = "sse"
)

// Config is the server configuration.
type Config struct {
	Name             string                    `json:"name,omitempty"`
	Version          string                    `json:"version,omitempty"`
	Transport        string                    `json:"transport,omitempty"`
	Addr             string                    `json:"addr,omitempty"`
	BasePath         string                    `json:"basePath,omitempty"`
	LogLevel         string                    `json:"logLevel,omitempty"`
	LogPretty        *bool                     `json:"logPretty,omitempty"`
	LogFile          *bool                     `json:"logFile,omitempty"`
	DefaultSessionID string                    `json:"defaultSessionID,omitempty"`
	Progress         *bool                     `json:"progress,omitempty"`
	CORS             *bool                     `json:"cors,omitempty"`
	Workflows        WorkflowsConfig           `json:"workflows,omitempty"`
	Workflow         map[string]WorkflowConfig `json:"workflow,omitempty"`
}

// WorkflowsConfig selects which registered workflows are exposed.
// Patterns use doublestar syntax and are matched against workflow names.
type WorkflowsConfig struct {
	Enable  []string `json:"enable,omitempty"`
	Disable []string `json:"disable,omitempty"`
}

// WorkflowConfig overrides how one workflow is presented as a tool.
type WorkflowConfig struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Disable     bool   `json:"disable,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Name:             "workflow-mcp",
		Version:          "0.1.0",
		Transport:        TransportStdio,
		Addr:             "127.0.0.1:8080",
		LogLevel:         "info",
		DefaultSessionID: "stdio",
		Workflow:         make(map[string]WorkflowConfig),
	}
}

// Load loads configuration from multiple sources (priority order):
// 1. <directory>/.env, without overriding variables already set
// 2. Global config ($XDG_CONFIG_HOME/workflow-mcp/)
// 3. Project config (<directory>/workflow-mcp.* and <directory>/.workflow-mcp/)
// 4. WORKFLOW_MCP_CONFIG file
// 5. WORKFLOW_MCP_CONFIG_CONTENT inline JSON
// 6. Environment variables
//
// Each config location accepts .json, .jsonc, .yaml and .yml. Missing files
// are skipped; a file that exists but does not parse is an error.
func Load(fsys afero.Fs, directory string) (*Config, error) {
	config := Default()

	if directory != "" {
		if err := loadDotEnv(fsys, filepath.Join(directory, ".env")); err != nil {
			return nil, err
		}
	}

	loaded := make(map[string]bool)
	loadOnce := func(path string) error {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil
		}
		if loaded[absPath] {
			return nil
		}
		err = loadConfigFile(fsys, path, config)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		loaded[absPath] = true
		return nil
	}

	var candidates []string
	candidates = append(candidates, withExtensions(filepath.Join(GetPaths().Config, "config"))...)
	if directory != "" {
		candidates = append(candidates, withExtensions(filepath.Join(directory, "workflow-mcp"))...)
		candidates = append(candidates, withExtensions(filepath.Join(directory, ".workflow-mcp", "config"))...)
	}
	if configPath := os.Getenv("WORKFLOW_MCP_CONFIG"); configPath != "" {
		candidates = append(candidates, configPath)
	}
	for _, path := range candidates {
		if err := loadOnce(path); err != nil {
			return nil, err
		}
	}

	if content := os.Getenv("WORKFLOW_MCP_CONFIG_CONTENT"); content != "" {
		var inline Config
		if err := json.Unmarshal(jsonc.ToJSON([]byte(content)), &inline); err != nil {
			return nil, fmt.Errorf("parse WORKFLOW_MCP_CONFIG_CONTENT: %w", err)
		}
		mergeConfig(config, &inline)
	}

	applyEnvOverrides(config)
	return config, nil
}

func withExtensions(base string) []string {
	return []string{base + ".json", base + ".jsonc", base + ".yaml", base + ".yml"}
}

// loadDotEnv sets the variables of an .env file that are not already set.
func loadDotEnv(fsys afero.Fs, path string) error {
	data, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	vars, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	for k, v := range vars {
		if _, ok := os.LookupEnv(k); !ok {
			_ = os.Setenv(k, v)
		}
	}
	return nil
}

// loadConfigFile loads a single config file with interpolation support.
func loadConfigFile(fsys afero.Fs, path string, config *Config) error {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return err
	}

	data = interpolate(fsys, data, filepath.Dir(path))

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yamlToJSON(data)
		if err != nil {
			return err
		}
	default:
		data = jsonc.ToJSON(data)
	}

	var fileConfig Config
	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return err
	}

	mergeConfig(config, &fileConfig)
	return nil
}

// yamlToJSON converts a YAML document to JSON so both formats share the
// json field tags of Config.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(doc)
}

var (
	envPattern  = regexp.MustCompile(`\{env:([^}]+)\}`)
	filePattern = regexp.MustCompile(`\{file:([^}]+)\}`)
)

// interpolate processes {env:VAR} and {file:path} placeholders.
func interpolate(fsys afero.Fs, data []byte, baseDir string) []byte {
	str := envPattern.ReplaceAllStringFunc(string(data), func(match string) string {
		return os.Getenv(envPattern.FindStringSubmatch(match)[1])
	})

	str = filePattern.ReplaceAllStringFunc(str, func(match string) string {
		filePath := filePattern.FindStringSubmatch(match)[1]
		if strings.HasPrefix(filePath, "~/") {
			filePath = filepath.Join(os.Getenv("HOME"), filePath[2:])
		} else if !filepath.IsAbs(filePath) {
			filePath = filepath.Join(baseDir, filePath)
		}

		content, err := afero.ReadFile(fsys, filePath)
		if err != nil {
			return match
		}

		escaped, _ := json.Marshal(strings.TrimRight(string(content), "\n"))
		return string(escaped[1 : len(escaped)-1])
	})

	return []byte(str)
}

// mergeConfig merges source config into target.
func mergeConfig(target, source *Config) {
	if source.Name != "" {
		target.Name = source.Name
	}
	if source.Version != "" {
		target.Version = source.Version
	}
	if source.Transport != "" {
		target.Transport = source.Transport
	}
	if source.Addr != "" {
		target.Addr = source.Addr
	}
	if source.BasePath != "" {
		target.BasePath = source.BasePath
	}
	if source.LogLevel != "" {
		target.LogLevel = source.LogLevel
	}
	if source.LogPretty != nil {
		target.LogPretty = source.LogPretty
	}
	if source.LogFile != nil {
		target.LogFile = source.LogFile
	}
	if source.DefaultSessionID != "" {
		target.DefaultSessionID = source.DefaultSessionID
	}
	if source.Progress != nil {
		target.Progress = source.Progress
	}
	if source.CORS != nil {
		target.CORS = source.CORS
	}

	if len(source.Workflows.Enable) > 0 {
		target.Workflows.Enable = source.Workflows.Enable
	}
	if len(source.Workflows.Disable) > 0 {
		target.Workflows.Disable = append(target.Workflows.Disable, source.Workflows.Disable...)
	}

	if source.Workflow != nil {
		if target.Workflow == nil {
			target.Workflow = make(map[string]WorkflowConfig)
		}
		for k, v := range source.Workflow {
			target.Workflow[k] = v
		}
	}
}

// applyEnvOverrides applies environment variable overrides.
func applyEnvOverrides(config *Config) {
	if level := os.Getenv("WORKFLOW_MCP_LOG_LEVEL"); level != "" {
		config.LogLevel = level
	}
	if addr := os.Getenv("WORKFLOW_MCP_ADDR"); addr != "" {
		config.Addr = addr
	}
	if transport := os.Getenv("WORKFLOW_MCP_TRANSPORT"); transport != "" {
		config.Transport = strings.ToLower(transport)
	}
	if id := os.Getenv("WORKFLOW_MCP_SESSION_ID"); id != "" {
		config.DefaultSessionID = id
	}
	if v := os.Getenv("WORKFLOW_MCP_PROGRESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Progress = &b
		}
	}
}

// Validate checks the fields the server cannot start without.
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportStdio, TransportHTTP, TransportSSE:
	default:
		return fmt.Errorf("unknown transport %q", c.Transport)
	}
	if c.Transport != TransportStdio && c.Addr == "" {
		return fmt.Errorf("transport %s needs an addr", c.Transport)
	}
	for _, p := range append(c.Workflows.Enable, c.Workflows.Disable...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid workflow pattern %q", p)
		}
	}
	return nil
}

// WorkflowEnabled reports whether the workflow called name should be exposed.
// Disable patterns win over enable patterns; no enable patterns means all.
func (c *Config) WorkflowEnabled(name string) bool {
	if wc, ok := c.Workflow[name]; ok && wc.Disable {
		return false
	}
	for _, p := range c.Workflows.Disable {
		if ok, _ := doublestar.Match(p, name); ok {
			return false
		}
	}
	if len(c.Workflows.Enable) == 0 {
		return true
	}
	for _, p := range c.Workflows.Enable {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// ProgressEnabled reports whether processing prompts carry a progress line.
func (c *Config) ProgressEnabled() bool {
	return c.Progress == nil || *c.Progress
}

// CORSEnabled reports whether the HTTP host sends CORS headers.
func (c *Config) CORSEnabled() bool {
	return c.CORS != nil && *c.CORS
}

// PrettyLogs reports whether console logs are human-readable.
func (c *Config) PrettyLogs() bool {
	return c.LogPretty != nil && *c.LogPretty
}

// FileLogs reports whether logs are also written to a file.
func (c *Config) FileLogs() bool {
	return c.LogFile != nil && *c.LogFile
}
