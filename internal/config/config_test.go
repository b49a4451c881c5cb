package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStoreAt(filepath.Join(t.TempDir(), DirName, FileName))
	s.SetEnvLookup(func(string) string { return "" })
	return s
}

func withEnv(env map[string]string) func(string) string {
	return func(key string) string { return env[key] }
}

func TestLoadMissingFile(t *testing.T) {
	s := newTestStore(t)

	f, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, f.Instances)
	assert.Empty(t, f.XQ)
	assert.Empty(t, f.CurrentInstance)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	f := &File{
		Instances: map[string]Instance{
			"work": {URL: "https://tasks.example.com", Token: "tk_work"},
		},
		CurrentInstance: "work",
		XQ:              map[string]int64{"work": 42},
		Context:         Context{Instance: "work", ProjectID: 7},
	}
	require.NoError(t, s.Save(f))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, f.Instances, got.Instances)
	assert.Equal(t, "work", got.CurrentInstance)
	assert.Equal(t, int64(42), got.XQ["work"])
	assert.Equal(t, int64(7), got.Context.ProjectID)
}

func TestLoadMalformedFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o700))
	require.NoError(t, os.WriteFile(s.Path(), []byte("instances: [not a map"), 0o600))

	_, err := s.Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "malformed config file")
}

func TestInstancesFromEnvObject(t *testing.T) {
	s := newTestStore(t)
	s.SetEnvLookup(withEnv(map[string]string{
		EnvInstances: `{"work": {"url": "https://tasks.example.com/", "token": "tk_work"}}`,
	}))

	instances, err := s.Instances()
	require.NoError(t, err)
	require.Contains(t, instances, "work")
	assert.Equal(t, "https://tasks.example.com", instances["work"].URL, "trailing slash should be trimmed")
	assert.Equal(t, "tk_work", instances["work"].Token)
}

func TestInstancesFromEnvArray(t *testing.T) {
	s := newTestStore(t)
	s.SetEnvLookup(withEnv(map[string]string{
		EnvInstances: `[{"name": "home", "url": "https://home.example.com", "token": "tk_home"}, {"url": "https://noname.example.com", "token": "x"}]`,
	}))

	instances, err := s.Instances()
	require.NoError(t, err)
	assert.Len(t, instances, 1, "entries without a name are skipped")
	assert.Equal(t, "tk_home", instances["home"].Token)
}

func TestInstancesURLTokenFallback(t *testing.T) {
	s := newTestStore(t)
	s.SetEnvLookup(withEnv(map[string]string{
		EnvURL:   "https://solo.example.com",
		EnvToken: "tk_solo",
	}))

	instances, err := s.Instances()
	require.NoError(t, err)
	require.Contains(t, instances, DefaultInstance)
	assert.Equal(t, "https://solo.example.com", instances[DefaultInstance].URL)
}

func TestInstancesFilePrecedence(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(&File{
		Instances: map[string]Instance{
			"work": {URL: "https://file.example.com", Token: "tk_file"},
		},
		XQ: map[string]int64{},
	}))
	s.SetEnvLookup(withEnv(map[string]string{
		EnvInstances: `{"work": {"url": "https://env.example.com", "token": "tk_env"}}`,
	}))

	instances, err := s.Instances()
	require.NoError(t, err)
	assert.Equal(t, "https://file.example.com", instances["work"].URL, "config file wins over env")
}

func TestInstancesIgnoresBrokenEnv(t *testing.T) {
	s := newTestStore(t)
	s.SetEnvLookup(withEnv(map[string]string{
		EnvInstances: `{{{not json`,
		EnvURL:       "https://solo.example.com",
		EnvToken:     "tk_solo",
	}))

	instances, err := s.Instances()
	require.NoError(t, err)
	assert.Contains(t, instances, DefaultInstance)
}

func TestCurrentInstance(t *testing.T) {
	tests := []struct {
		name string
		file *File
		want string
	}{
		{
			name: "context wins",
			file: &File{
				Instances: map[string]Instance{
					"a": {URL: "https://a", Token: "x"},
					"b": {URL: "https://b", Token: "x"},
				},
				CurrentInstance: "a",
				Context:         Context{Instance: "b"},
			},
			want: "b",
		},
		{
			name: "current instance next",
			file: &File{
				Instances: map[string]Instance{
					"a": {URL: "https://a", Token: "x"},
					"b": {URL: "https://b", Token: "x"},
				},
				CurrentInstance: "a",
			},
			want: "a",
		},
		{
			name: "default preferred when present",
			file: &File{
				Instances: map[string]Instance{
					"default": {URL: "https://d", Token: "x"},
					"a":       {URL: "https://a", Token: "x"},
				},
			},
			want: "default",
		},
		{
			name: "first alphabetically otherwise",
			file: &File{
				Instances: map[string]Instance{
					"zebra": {URL: "https://z", Token: "x"},
					"alpha": {URL: "https://a", Token: "x"},
				},
			},
			want: "alpha",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			if tt.file.XQ == nil {
				tt.file.XQ = map[string]int64{}
			}
			require.NoError(t, s.Save(tt.file))

			got, err := s.CurrentInstance()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCurrentInstanceEmpty(t *testing.T) {
	s := newTestStore(t)

	got, err := s.CurrentInstance()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSetCurrentInstance(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AddInstance("work", Instance{URL: "https://w", Token: "x"}))
	require.NoError(t, s.AddInstance("home", Instance{URL: "https://h", Token: "x"}))

	require.NoError(t, s.SetCurrentInstance("home"))
	got, err := s.CurrentInstance()
	require.NoError(t, err)
	assert.Equal(t, "home", got)

	err = s.SetCurrentInstance("nope")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestResolve(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AddInstance("work", Instance{URL: "https://w.example.com", Token: "tk"}))

	inst, err := s.Resolve("work")
	require.NoError(t, err)
	assert.Equal(t, "https://w.example.com", inst.URL)

	// Empty name resolves the current instance.
	inst, err = s.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "tk", inst.Token)

	_, err = s.Resolve("missing")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestResolveTokenIndirection(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AddInstance("work", Instance{URL: "https://w", Token: "${WORK_TOKEN}"}))

	s.SetEnvLookup(withEnv(map[string]string{"WORK_TOKEN": "secret"}))
	inst, err := s.Resolve("work")
	require.NoError(t, err)
	assert.Equal(t, "secret", inst.Token)

	s.SetEnvLookup(withEnv(nil))
	_, err = s.Resolve("work")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "WORK_TOKEN")
}

func TestResolveNothingConfigured(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Resolve("")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestHandoffProject(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(&File{
		Instances: map[string]Instance{
			"work": {URL: "https://w", Token: "x"},
		},
		CurrentInstance: "work",
		XQ:              map[string]int64{"work": 99},
	}))

	id, err := s.HandoffProject("work")
	require.NoError(t, err)
	assert.Equal(t, int64(99), id)

	// Empty name uses the current instance.
	id, err = s.HandoffProject("")
	require.NoError(t, err)
	assert.Equal(t, int64(99), id)

	_, err = s.HandoffProject("home")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestHandoffInstances(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(&File{
		Instances: map[string]Instance{},
		XQ:        map[string]int64{"work": 99, "home": 12, "empty": 0},
	}))

	names, err := s.HandoffInstances()
	require.NoError(t, err)
	assert.Equal(t, []string{"home", "work"}, names)
}

func TestSetContext(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AddInstance("work", Instance{URL: "https://w", Token: "x"}))

	require.NoError(t, s.SetContext("work", 5))
	ctx, err := s.GetContext()
	require.NoError(t, err)
	assert.Equal(t, "work", ctx.Instance)
	assert.Equal(t, int64(5), ctx.ProjectID)

	// Clearing.
	require.NoError(t, s.SetContext("", 0))
	ctx, err = s.GetContext()
	require.NoError(t, err)
	assert.Empty(t, ctx.Instance)
	assert.Zero(t, ctx.ProjectID)

	err = s.SetContext("missing", 0)
	assert.Error(t, err)
}

func TestAddInstanceFirstBecomesCurrent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AddInstance("first", Instance{URL: "https://f/", Token: "x"}))

	f, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "first", f.CurrentInstance)
	assert.Equal(t, "https://f", f.Instances["first"].URL)
}
