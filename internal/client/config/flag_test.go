package config

import (
	"flag"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	tests := []struct {
		expected *Config
		name     string
		args     []string
	}{
		{name: "Test1 both flags", args: []string{"cmd", "-a", "http://api.mdd.local:9090", "-d", "/tmp/mdd.db"},
			expected: &Config{ServerBaseURL: "http://api.mdd.local:9090", CachePath: "/tmp/mdd.db"}},
		{name: "Test2 url only", args: []string{"cmd", "-a", "http://api.mdd.local:9090"},
			expected: &Config{ServerBaseURL: "http://api.mdd.local:9090"}},
		{name: "Test3 no flags keeps current values", args: []string{"cmd"},
			expected: &Config{ServerBaseURL: "", CachePath: ""}},
	}

	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(config, tt.expected))
		})
	}
}
