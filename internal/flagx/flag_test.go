package flagx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value form",
			args:    []string{"-a", "http://x", "-unknown", "z"},
			allowed: []string{"-a"},
			want:    []string{"-a", "http://x"},
		},
		{
			name:    "equals form",
			args:    []string{"-a=http://x", "-b=y"},
			allowed: []string{"-a"},
			want:    []string{"-a=http://x"},
		},
		{
			name:    "flag without value followed by another flag",
			args:    []string{"-v", "-a", "http://x"},
			allowed: []string{"-v", "-a"},
			want:    []string{"-v", "-a", "http://x"},
		},
		{
			name:    "positional arguments dropped",
			args:    []string{"serve", "-a", "http://x"},
			allowed: []string{"-a"},
			want:    []string{"-a", "http://x"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", "http://x"},
			allowed: nil,
			want:    []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}
