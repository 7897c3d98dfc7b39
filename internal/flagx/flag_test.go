package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "short flag with separate value",
			args:    []string{"-c", "conf.json", "-a", "http://localhost"},
			allowed: []string{"-c"},
			want:    []string{"-c", "conf.json"},
		},
		{
			name:    "equals form",
			args:    []string{"-d=/tmp/cache", "-a", "x"},
			allowed: []string{"-d"},
			want:    []string{"-d=/tmp/cache"},
		},
		{
			name:    "order preserved",
			args:    []string{"-t=30", "-l", "debug", "-x", "1"},
			allowed: []string{"-t", "-l"},
			want:    []string{"-t=30", "-l", "debug"},
		},
		{
			name:    "unknown flags and positionals ignored",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "flag without value at end",
			args:    []string{"-c"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "next flag is not a value",
			args:    []string{"-c", "-a"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFile(t *testing.T) {
	assert.Equal(t, "a.json", ConfigFile([]string{"-c", "a.json", "-a", "http://x"}))
	assert.Equal(t, "b.json", ConfigFile([]string{"-config=b.json"}))
	assert.Equal(t, "", ConfigFile([]string{"-a", "http://x"}))
	assert.Equal(t, "", ConfigFile(nil))
}
