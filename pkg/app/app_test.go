package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cliflag "k8s.io/component-base/cli/flag"
)

type testOptions struct {
	Node struct {
		ID string `mapstructure:"id"`
	} `mapstructure:"node"`
	Cycle struct {
		Cooldown  time.Duration `mapstructure:"cooldown"`
		Threshold float64       `mapstructure:"threshold"`
	} `mapstructure:"cycle"`

	completed bool
}

func (o *testOptions) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Node.ID, "node.id", "rs-node-001", "")
	fs.DurationVar(&o.Cycle.Cooldown, "cycle.cooldown", 5*time.Minute, "")
	fs.Float64Var(&o.Cycle.Threshold, "cycle.threshold", 35, "")
}

func (o *testOptions) Flags() cliflag.NamedFlagSets {
	fss := cliflag.NamedFlagSets{}
	o.addFlags(fss.FlagSet("test"))
	return fss
}

func (o *testOptions) Complete() error {
	o.completed = true
	return nil
}

func (o *testOptions) Validate() error {
	if o.Node.ID == "" {
		return errors.New("node.id is required")
	}
	return nil
}

func runApp(t *testing.T, opts *testOptions, args ...string) error {
	t.Helper()
	cfgFile = ""
	t.Cleanup(func() { cfgFile = "" })

	a := NewApp("rs-test", "test", WithOptions(opts), WithDefaultValidArgs(), WithRunFunc(func() error { return nil }))
	a.Command().SetArgs(args)
	return a.Command().Execute()
}

func TestFlagsReachOptions(t *testing.T) {
	opts := &testOptions{}
	require.NoError(t, runApp(t, opts, "--node.id=rs-node-042", "--cycle.cooldown=1m"))

	assert.Equal(t, "rs-node-042", opts.Node.ID)
	assert.Equal(t, time.Minute, opts.Cycle.Cooldown)
	assert.Equal(t, 35.0, opts.Cycle.Threshold)
	assert.True(t, opts.completed)
}

func TestConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.yaml")
	require.NoError(t, os.WriteFile(path, []byte("node:\n  id: rs-node-from-file\ncycle:\n  cooldown: 30s\n"), 0o644))
	t.Setenv("ROADSENSE_CYCLE_THRESHOLD", "40")

	opts := &testOptions{}
	require.NoError(t, runApp(t, opts, "--config", path))

	assert.Equal(t, "rs-node-from-file", opts.Node.ID)
	assert.Equal(t, 30*time.Second, opts.Cycle.Cooldown)
	assert.Equal(t, 40.0, opts.Cycle.Threshold)
}

func TestFlagBeatsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.yaml")
	require.NoError(t, os.WriteFile(path, []byte("node:\n  id: rs-node-from-file\n"), 0o644))

	opts := &testOptions{}
	require.NoError(t, runApp(t, opts, "--config", path, "--node.id=rs-node-cli"))
	assert.Equal(t, "rs-node-cli", opts.Node.ID)
}

func TestValidationFailureStopsRun(t *testing.T) {
	opts := &testOptions{}
	assert.Error(t, runApp(t, opts, "--node.id="))
}

func TestRejectsPositionalArgs(t *testing.T) {
	opts := &testOptions{}
	assert.Error(t, runApp(t, opts, "extra"))
}
