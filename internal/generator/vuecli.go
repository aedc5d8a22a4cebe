package generator

import (
	"fmt"
	"strings"

	"github.com/hopla/hopla-ssl/internal/prompt"
)

const vueConfigFile = "vue.config.js"

func vueDevServerBlock(refs certRefs) string {
	return fmt.Sprintf(`
  devServer: {
    https: {
      key: fs.readFileSync(path.join(__dirname, '%s')),
      cert: fs.readFileSync(path.join(__dirname, '%s')),
    },
  },`, refs.Key, refs.Cert)
}

func generateVueConfig(refs certRefs) string {
	return fmt.Sprintf(`const fs = require('fs');
const path = require('path');

module.exports = {%s
};
`, vueDevServerBlock(refs))
}

// patchVueCLI は vue.config.js の devServer に HTTPS を設定する
func patchVueCLI(projectDir string, refs certRefs) (*Patch, error) {
	patch := &Patch{Framework: prompt.FrameworkVueCLI, Command: "npm run serve"}

	content, ok, err := readProjectFile(projectDir, vueConfigFile)
	if err != nil {
		return nil, err
	}
	if ok && hasHTTPS(content) {
		patch.skipped(vueConfigFile)
		return patch, nil
	}

	updated := generateVueConfig(refs)
	if ok {
		injected := false
		for _, marker := range []string{"defineConfig({", "module.exports = {"} {
			if updated, injected = injectAfter(content, marker, vueDevServerBlock(refs)); injected {
				break
			}
		}
		if injected {
			updated = requireFSAndPath(updated)
		} else {
			backup, err := backupProjectFile(projectDir, vueConfigFile)
			if err != nil {
				return nil, err
			}
			patch.note("%s could not be patched in place; the original was saved as %s", vueConfigFile, backup)
			updated = generateVueConfig(refs)
		}
	}

	if err := writeProjectFile(projectDir, vueConfigFile, updated); err != nil {
		return nil, err
	}
	patch.changed(vueConfigFile)
	return patch, nil
}

// requireFSAndPath は CommonJS の fs / path 読み込みがなければ先頭に追加する
func requireFSAndPath(content string) string {
	var header string
	if !strings.Contains(content, "const fs =") && !strings.Contains(content, "import fs from") {
		header += "const fs = require('fs');\n"
	}
	if !strings.Contains(content, "const path =") && !strings.Contains(content, "import path from") {
		header += "const path = require('path');\n"
	}
	return header + content
}
