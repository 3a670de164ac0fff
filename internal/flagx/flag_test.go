package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	allowed := []string{"-a", "-i"}

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "separate values kept",
			args: []string{"-a", "http://localhost:8080", "-x", "junk", "-i", "600"},
			want: []string{"-a", "http://localhost:8080", "-i", "600"},
		},
		{
			name: "equals form kept",
			args: []string{"-a=http://localhost:8080", "-x=junk"},
			want: []string{"-a=http://localhost:8080"},
		},
		{
			name: "flag without value",
			args: []string{"-a", "-i", "600"},
			want: []string{"-a", "-i", "600"},
		},
		{
			name: "unknown flags dropped with values",
			args: []string{"-z", "val", "-q=other"},
			want: []string{},
		},
		{
			name: "empty input",
			args: nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, allowed))
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	orig := os.Args
	defer func() { os.Args = orig }()

	os.Args = []string{"app", "-c", "conf.json", "-other", "x"}
	assert.Equal(t, "conf.json", JsonConfigFlags())

	os.Args = []string{"app", "-config=alt.json"}
	assert.Equal(t, "alt.json", JsonConfigFlags())

	os.Args = []string{"app", "-other", "x"}
	assert.Equal(t, "", JsonConfigFlags())
}
