package adapters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupScanParse(t *testing.T) {
	path := writeFixture(t, "setup.py", `
from setuptools import setup

setup(
    name="demo",
    install_requires=[
        "requests>=2.0,<3.0",
        'click>=8.0',
    ],
    extras_require={"dev": ["pytest"]},
)
`)

	deps, err := NewSetupScanAdapter().Parse(path)
	require.NoError(t, err)
	require.Len(t, deps, 2)
	assert.Equal(t, "requests", deps[0].Name)
	assert.Equal(t, ">=2.0,<3.0", deps[0].VersionSpec)
	assert.Equal(t, "click", deps[1].Name)
}

func TestSetupScanNoInstallRequires(t *testing.T) {
	path := writeFixture(t, "setup.py", `
from setuptools import setup
setup(name="demo", version="0.1.0")
`)

	deps, err := NewSetupScanAdapter().Parse(path)
	require.NoError(t, err)
	assert.Empty(t, deps)
}

func TestSetupScanIgnoresComputedValues(t *testing.T) {
	// Only string literals are extracted; anything computed stays out.
	path := writeFixture(t, "setup.py", `
reqs = compute_requirements()
setup(install_requires=reqs)
`)

	deps, err := NewSetupScanAdapter().Parse(path)
	require.NoError(t, err)
	assert.Empty(t, deps)
}
