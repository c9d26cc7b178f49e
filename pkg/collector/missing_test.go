package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakexks/go-license-collector/pkg/license"
)

func TestResolveMissingKeepsLiteralValues(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []string
	}{
		{
			name:     "undefined reference",
			content:  "a--lib--1.0=GPL ${foo}\n",
			expected: []string{"GPL ${foo}"},
		},
		{
			name:     "self reference",
			content:  "a--lib--1.0=Vendor ${a--lib--1.0}\n",
			expected: []string{"Vendor ${a--lib--1.0}"},
		},
		{
			name:     "unterminated reference",
			content:  "a--lib--1.0=CDDL ${1.1 | MIT\n",
			expected: []string{"CDDL ${1.1", "MIT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestState(t, Config{}, nil)
			write(t, s.cachePath(MissingFileName), tt.content)
			projects := []license.Project{
				{GroupID: "a", ArtifactID: "lib", Version: "1.0"},
				{GroupID: "b", ArtifactID: "lib", Version: "2.0"},
			}

			require.NoError(t, s.resolveMissing(projects))

			var names []string
			for _, r := range projects[0].Licenses {
				names = append(names, r.Name)
			}
			assert.Equal(t, tt.expected, names)
			assert.Empty(t, projects[1].Licenses)

			// The unresolved key forces a rewrite which must keep the value as written.
			rewritten := read(t, s.cachePath(MissingFileName))
			assert.Contains(t, rewritten, "b--lib--2.0 = \n")
			for _, name := range tt.expected {
				assert.Contains(t, rewritten, name)
			}
		})
	}
}
