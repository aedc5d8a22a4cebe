package generator

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetScript_PreservesOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, PackageJSONFile, `{
  "name": "app",
  "version": "0.1.0",
  "dependencies": {"react": "^18.0.0"},
  "browserslist": [">0.2%", "not dead"]
}`)

	present, changed, err := setScript(dir, "start:https", "a && b")
	require.NoError(t, err)
	assert.True(t, present)
	assert.True(t, changed)

	want := `{
  "name": "app",
  "version": "0.1.0",
  "scripts": {
    "start:https": "a && b"
  },
  "dependencies": {
    "react": "^18.0.0"
  },
  "browserslist": [
    ">0.2%",
    "not dead"
  ]
}
`
	assert.Equal(t, want, readFile(t, dir, PackageJSONFile))

	present, changed, err = setScript(dir, "start:https", "a && b")
	require.NoError(t, err)
	assert.True(t, present)
	assert.False(t, changed)
}

func TestSetScript_ExistingScripts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, PackageJSONFile, `{"scripts":{"dev":"vite","build":"vite build"},"name":"x"}`)

	_, changed, err := setScript(dir, "dev:https", "vite --https")
	require.NoError(t, err)
	assert.True(t, changed)

	obj, err := readJSONFile(filepath.Join(dir, PackageJSONFile))
	require.NoError(t, err)
	assert.Equal(t, []string{"scripts", "name"}, obj.keys)

	scripts, err := obj.object("scripts")
	require.NoError(t, err)
	assert.Equal(t, []string{"dev", "build", "dev:https"}, scripts.keys)
}

func TestSetScript_NoPackageJSON(t *testing.T) {
	present, changed, err := setScript(t.TempDir(), "dev:https", "x")
	require.NoError(t, err)
	assert.False(t, present)
	assert.False(t, changed)
}

func TestJSONObject_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "array.json", `[1, 2]`)

	_, err := readJSONFile(filepath.Join(dir, "array.json"))
	assert.Error(t, err)

	obj := newJSONObject()
	require.NoError(t, obj.set("scripts", "not an object"))
	_, err = obj.object("scripts")
	assert.Error(t, err)
}

func TestJSONObject_EmptyMarshal(t *testing.T) {
	data, err := newJSONObject().marshal("")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}
