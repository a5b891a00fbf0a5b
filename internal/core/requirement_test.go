package core

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pypkg/internal/types"
)

func TestParseRequirement(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		expect types.Dependency
	}{
		{
			name: "bare name",
			raw:  "requests",
			expect: types.Dependency{
				Name:           "requests",
				NormalizedName: "requests",
			},
		},
		{
			name: "name with specifier",
			raw:  "requests>=2.0,<3.0",
			expect: types.Dependency{
				Name:           "requests",
				NormalizedName: "requests",
				VersionSpec:    ">=2.0,<3.0",
				Constraints: []types.Constraint{
					{Op: types.ConstraintOpGte, Version: "2.0"},
					{Op: types.ConstraintOpLt, Version: "3.0"},
				},
			},
		},
		{
			name: "extras sorted and lowercased",
			raw:  "uvicorn[Standard,watch]==0.23.2",
			expect: types.Dependency{
				Name:           "uvicorn",
				NormalizedName: "uvicorn",
				VersionSpec:    "==0.23.2",
				Constraints:    []types.Constraint{{Op: types.ConstraintOpEq, Version: "0.23.2"}},
				Extras:         []string{"standard", "watch"},
			},
		},
		{
			name: "marker captured verbatim",
			raw:  `colorama>=0.4; sys_platform == "win32"`,
			expect: types.Dependency{
				Name:           "colorama",
				NormalizedName: "colorama",
				VersionSpec:    ">=0.4",
				Constraints:    []types.Constraint{{Op: types.ConstraintOpGte, Version: "0.4"}},
				Marker:         `sys_platform == "win32"`,
			},
		},
		{
			name: "inline comment stripped",
			raw:  "flask>=2.0 # the web framework",
			expect: types.Dependency{
				Name:           "flask",
				NormalizedName: "flask",
				VersionSpec:    ">=2.0",
				Constraints:    []types.Constraint{{Op: types.ConstraintOpGte, Version: "2.0"}},
			},
		},
		{
			name: "parenthesized specifier",
			raw:  "pytest (>=7.0)",
			expect: types.Dependency{
				Name:           "pytest",
				NormalizedName: "pytest",
				VersionSpec:    ">=7.0",
				Constraints:    []types.Constraint{{Op: types.ConstraintOpGte, Version: "7.0"}},
			},
		},
		{
			name: "direct reference keeps name only",
			raw:  "mylib @ https://example.com/mylib-1.0.tar.gz",
			expect: types.Dependency{
				Name:           "mylib",
				NormalizedName: "mylib",
			},
		},
		{
			name: "separator normalization",
			raw:  "Flask_SQLAlchemy>=3.0",
			expect: types.Dependency{
				Name:           "Flask_SQLAlchemy",
				NormalizedName: "flask-sqlalchemy",
				VersionSpec:    ">=3.0",
				Constraints:    []types.Constraint{{Op: types.ConstraintOpGte, Version: "3.0"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRequirement(tt.raw, "", false)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.expect, got); diff != "" {
				t.Errorf("unexpected dependency (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseRequirementCarriesSource(t *testing.T) {
	dep, err := ParseRequirement("black>=23.0", "pyproject.toml", true)
	require.NoError(t, err)
	assert.Equal(t, "pyproject.toml", dep.SourceFile)
	assert.True(t, dep.IsDev)
}

func TestParseRequirementErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "comment only", raw: " # nothing here"},
		{name: "leading separator", raw: "-requests"},
		{name: "unterminated extras", raw: "uvicorn[standard"},
		{name: "bad specifier", raw: "requests>=banana"},
		{name: "self contradictory specifier", raw: "requests>2.0,<1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRequirement(tt.raw, "requirements.txt", false)
			require.Error(t, err)
			assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
		})
	}
}
