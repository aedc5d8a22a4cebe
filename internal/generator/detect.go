package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hopla/hopla-ssl/internal/prompt"
)

const PackageJSONFile = "package.json"

type packageManifest struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// readDependencies は dependencies と devDependencies をまとめて返す。
// package.json がない場合は nil, nil
func readDependencies(projectDir string) (map[string]string, error) {
	data, err := os.ReadFile(filepath.Join(projectDir, PackageJSONFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var pkg packageManifest
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", PackageJSONFile, err)
	}

	deps := make(map[string]string, len(pkg.Dependencies)+len(pkg.DevDependencies))
	for k, v := range pkg.Dependencies {
		deps[k] = v
	}
	for k, v := range pkg.DevDependencies {
		deps[k] = v
	}
	return deps, nil
}

// DetectFramework は package.json の依存関係からフレームワークを判定する。
// 判定できない場合は prompt.FrameworkUnknown を返す
func DetectFramework(projectDir string) (prompt.Framework, error) {
	deps, err := readDependencies(projectDir)
	if err != nil {
		return prompt.FrameworkUnknown, err
	}

	has := func(name string) bool {
		_, ok := deps[name]
		return ok
	}

	switch {
	case has("next"):
		return prompt.FrameworkNextJS, nil
	case has("react-scripts"):
		return prompt.FrameworkCRA, nil
	case has("@angular/core"):
		return prompt.FrameworkAngular, nil
	case has("vue"):
		if has("@vue/cli-service") {
			return prompt.FrameworkVueCLI, nil
		}
		if has("vite") {
			return prompt.FrameworkViteVue, nil
		}
		return prompt.FrameworkVue, nil
	case has("svelte"):
		return prompt.FrameworkSvelte, nil
	case has("vite"):
		return prompt.FrameworkVite, nil
	case has("webpack-dev-server"):
		return prompt.FrameworkWebpack, nil
	}
	return prompt.FrameworkUnknown, nil
}
