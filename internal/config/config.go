package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DirName is the configuration directory under the user's home.
	DirName = ".vikunja-mcp"

	// FileName is the configuration file name inside DirName.
	FileName = "config.yaml"

	// DefaultInstance is the instance name used for the
	// VIKUNJA_URL/VIKUNJA_TOKEN environment fallback.
	DefaultInstance = "default"
)

// Environment variables consulted by the store.
const (
	EnvInstances = "VIKUNJA_INSTANCES"
	EnvURL       = "VIKUNJA_URL"
	EnvToken     = "VIKUNJA_TOKEN"
)

// ErrNotConfigured indicates that a requested mapping (an instance or its
// exchange-queue project) does not exist in the configuration.
var ErrNotConfigured = errors.New("not configured")

// Instance is one Vikunja endpoint with its credential.
type Instance struct {
	URL   string `yaml:"url" json:"url"`
	Token string `yaml:"token" json:"token"`
}

// Context holds the default instance and project applied when tool calls
// omit them.
type Context struct {
	Instance  string `yaml:"instance,omitempty"`
	ProjectID int64  `yaml:"project_id,omitempty"`
}

// File is the on-disk configuration shape
// (~/.vikunja-mcp/config.yaml).
type File struct {
	Instances       map[string]Instance `yaml:"instances"`
	CurrentInstance string              `yaml:"current_instance,omitempty"`

	// XQ maps instance name to the project ID used as that instance's
	// exchange queue.
	XQ map[string]int64 `yaml:"xq"`

	Context Context `yaml:"mcp_context"`
}

// Store reads and writes the configuration file and resolves instances
// against it and the process environment.
//
// Resolution priority for instances:
//  1. Config file (~/.vikunja-mcp/config.yaml)
//  2. VIKUNJA_INSTANCES env var (JSON object or array)
//  3. VIKUNJA_URL/VIKUNJA_TOKEN env vars as instance "default"
type Store struct {
	path   string
	getenv func(string) string
}

// NewStore creates a store backed by the default config file location.
func NewStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine home directory: %w", err)
	}
	return NewStoreAt(filepath.Join(home, DirName, FileName)), nil
}

// NewStoreAt creates a store backed by the given config file path.
// Used by tests and by deployments with relocated configuration.
func NewStoreAt(path string) *Store {
	return &Store{
		path:   path,
		getenv: os.Getenv,
	}
}

// SetEnvLookup overrides environment lookup. Tests use this to avoid
// mutating the process environment.
func (s *Store) SetEnvLookup(getenv func(string) string) {
	s.getenv = getenv
}

// Path returns the config file path backing this store.
func (s *Store) Path() string {
	return s.path
}

// Load reads the config file. A missing file is not an error; it yields
// an empty configuration so env-only setups work without touching disk.
func (s *Store) Load() (*File, error) {
	f := &File{
		Instances: map[string]Instance{},
		XQ:        map[string]int64{},
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", s.path, err)
	}

	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w", s.path, err)
	}
	if f.Instances == nil {
		f.Instances = map[string]Instance{}
	}
	if f.XQ == nil {
		f.XQ = map[string]int64{}
	}
	return f, nil
}

// Save writes the config file atomically: the content goes to a temp file
// in the same directory which is then renamed over the target, so a crash
// mid-write never leaves a truncated config behind.
func (s *Store) Save(f *File) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, FileName+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp config file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp config file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace config file: %w", err)
	}
	return nil
}

// envInstance mirrors the array form of VIKUNJA_INSTANCES:
// [{"name": "...", "url": "...", "token": "..."}, ...]
type envInstance struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Token string `json:"token"`
}

// Instances returns all configured instances, merging the config file with
// the environment. The config file takes precedence over env entries with
// the same name.
func (s *Store) Instances() (map[string]Instance, error) {
	f, err := s.Load()
	if err != nil {
		return nil, err
	}

	instances := make(map[string]Instance, len(f.Instances))
	for name, inst := range f.Instances {
		inst.URL = strings.TrimRight(inst.URL, "/")
		instances[name] = inst
	}

	// VIKUNJA_INSTANCES supports both an object keyed by name and an
	// array of {name, url, token} entries.
	if raw := s.getenv(EnvInstances); raw != "" {
		var asObject map[string]Instance
		var asArray []envInstance

		if err := json.Unmarshal([]byte(raw), &asObject); err == nil {
			for name, inst := range asObject {
				if _, exists := instances[name]; !exists {
					inst.URL = strings.TrimRight(inst.URL, "/")
					instances[name] = inst
				}
			}
		} else if err := json.Unmarshal([]byte(raw), &asArray); err == nil {
			for _, e := range asArray {
				if e.Name == "" {
					continue
				}
				if _, exists := instances[e.Name]; !exists {
					instances[e.Name] = Instance{
						URL:   strings.TrimRight(e.URL, "/"),
						Token: e.Token,
					}
				}
			}
		}
		// Unparseable VIKUNJA_INSTANCES is ignored rather than fatal so a
		// broken env var cannot take down configured-file setups.
	}

	// VIKUNJA_URL/VIKUNJA_TOKEN act as instance "default" if nothing else
	// claimed the name.
	url, token := s.getenv(EnvURL), s.getenv(EnvToken)
	if url != "" && token != "" {
		if _, exists := instances[DefaultInstance]; !exists {
			instances[DefaultInstance] = Instance{
				URL:   strings.TrimRight(url, "/"),
				Token: token,
			}
		}
	}

	return instances, nil
}

// InstanceNames returns the configured instance names in sorted order.
func (s *Store) InstanceNames() ([]string, error) {
	instances, err := s.Instances()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(instances))
	for name := range instances {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// CurrentInstance returns the active instance name.
//
// Priority: mcp_context.instance, then current_instance, then "default"
// if such an instance exists, then the first instance alphabetically.
// Returns "" when nothing is configured.
func (s *Store) CurrentInstance() (string, error) {
	f, err := s.Load()
	if err != nil {
		return "", err
	}

	if f.Context.Instance != "" {
		return f.Context.Instance, nil
	}
	if f.CurrentInstance != "" {
		return f.CurrentInstance, nil
	}

	instances, err := s.Instances()
	if err != nil {
		return "", err
	}
	if len(instances) == 0 {
		return "", nil
	}
	if _, ok := instances[DefaultInstance]; ok {
		return DefaultInstance, nil
	}
	names := make([]string, 0, len(instances))
	for name := range instances {
		names = append(names, name)
	}
	sort.Strings(names)
	return names[0], nil
}

// SetCurrentInstance switches the active instance. The name must exist.
func (s *Store) SetCurrentInstance(name string) error {
	instances, err := s.Instances()
	if err != nil {
		return err
	}
	if _, ok := instances[name]; !ok {
		return fmt.Errorf("instance %q not found (available: %s)", name, availableNames(instances))
	}

	f, err := s.Load()
	if err != nil {
		return err
	}
	f.CurrentInstance = name
	f.Context.Instance = name
	return s.Save(f)
}

// Resolve returns the URL and token for an instance. An empty name
// resolves the current instance. Tokens of the form ${VAR} are read from
// the environment at resolution time so secrets can stay out of the file.
func (s *Store) Resolve(name string) (Instance, error) {
	if name == "" {
		current, err := s.CurrentInstance()
		if err != nil {
			return Instance{}, err
		}
		if current == "" {
			return Instance{}, fmt.Errorf("no instance configured: %w (set %s/%s or add instances to %s)",
				ErrNotConfigured, EnvURL, EnvToken, s.path)
		}
		name = current
	}

	instances, err := s.Instances()
	if err != nil {
		return Instance{}, err
	}
	inst, ok := instances[name]
	if !ok {
		return Instance{}, fmt.Errorf("instance %q: %w (available: %s)", name, ErrNotConfigured, availableNames(instances))
	}

	if strings.HasPrefix(inst.Token, "${") && strings.HasSuffix(inst.Token, "}") {
		envVar := inst.Token[2 : len(inst.Token)-1]
		inst.Token = s.getenv(envVar)
		if inst.Token == "" {
			return Instance{}, fmt.Errorf("environment variable %s not set for instance %q", envVar, name)
		}
	}

	if inst.URL == "" || inst.Token == "" {
		return Instance{}, fmt.Errorf("instance %q missing url or token", name)
	}
	return inst, nil
}

// HandoffProject returns the exchange-queue project ID for an instance.
// An empty name resolves the current instance. Returns ErrNotConfigured
// (wrapped) when the instance has no xq mapping.
func (s *Store) HandoffProject(name string) (int64, error) {
	if name == "" {
		current, err := s.CurrentInstance()
		if err != nil {
			return 0, err
		}
		if current == "" {
			return 0, fmt.Errorf("exchange queue: no instance configured: %w", ErrNotConfigured)
		}
		name = current
	}

	f, err := s.Load()
	if err != nil {
		return 0, err
	}
	projectID, ok := f.XQ[name]
	if !ok || projectID == 0 {
		return 0, fmt.Errorf("exchange queue for instance %q: %w (add an 'xq' mapping to %s)", name, ErrNotConfigured, s.path)
	}
	return projectID, nil
}

// HandoffInstances returns the names of all instances that have an
// exchange-queue project mapping, sorted.
func (s *Store) HandoffInstances() ([]string, error) {
	f, err := s.Load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(f.XQ))
	for name, projectID := range f.XQ {
		if projectID != 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// AddInstance stores a new instance in the config file. The first stored
// instance becomes the current one.
func (s *Store) AddInstance(name string, inst Instance) error {
	f, err := s.Load()
	if err != nil {
		return err
	}
	inst.URL = strings.TrimRight(inst.URL, "/")
	f.Instances[name] = inst
	if len(f.Instances) == 1 {
		f.CurrentInstance = name
	}
	return s.Save(f)
}

// SetContext updates the default instance and/or project for tool calls.
// An empty instance clears the instance default; a zero projectID clears
// the project default.
func (s *Store) SetContext(instance string, projectID int64) error {
	if instance != "" {
		instances, err := s.Instances()
		if err != nil {
			return err
		}
		if _, ok := instances[instance]; !ok {
			return fmt.Errorf("instance %q not found (available: %s)", instance, availableNames(instances))
		}
	}

	f, err := s.Load()
	if err != nil {
		return err
	}
	f.Context.Instance = instance
	f.Context.ProjectID = projectID
	return s.Save(f)
}

// GetContext returns the configured tool-call defaults.
func (s *Store) GetContext() (Context, error) {
	f, err := s.Load()
	if err != nil {
		return Context{}, err
	}
	return f.Context, nil
}

func availableNames(instances map[string]Instance) string {
	if len(instances) == 0 {
		return "none"
	}
	names := make([]string, 0, len(instances))
	for name := range instances {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
