package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFramework(t *testing.T) {
	tests := []struct {
		in   string
		want Framework
		ok   bool
	}{
		{in: "nextjs", want: FrameworkNextJS, ok: true},
		{in: " Vite ", want: FrameworkVite, ok: true},
		{in: "create-react-app", want: FrameworkCRA, ok: true},
		{in: "vue", want: FrameworkVue, ok: true},
		{in: "other", want: FrameworkOther, ok: true},
		{in: "ember", want: FrameworkUnknown, ok: false},
		{in: "", want: FrameworkUnknown, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseFramework(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFrameworkLabel(t *testing.T) {
	assert.Equal(t, "Next.js", FrameworkNextJS.Label())
	assert.Equal(t, "custom", Framework("custom").Label())
	for _, f := range Frameworks {
		assert.NotEmpty(t, f.Label())
	}
}
