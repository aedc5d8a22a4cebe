package generator

import (
	"fmt"
	"strings"

	"github.com/hopla/hopla-ssl/internal/prompt"
)

type vitePlugin struct {
	Import string
	Use    string
}

var (
	vitePluginNone      = vitePlugin{}
	vitePluginSvelteKit = vitePlugin{
		Import: "import { sveltekit } from '@sveltejs/kit/vite';",
		Use:    "sveltekit()",
	}
)

func viteHTTPSBlock(refs certRefs) string {
	return fmt.Sprintf(`
  server: {
    https: {
      key: fs.readFileSync('%s'),
      cert: fs.readFileSync('%s'),
    },
  },`, dotSlash(refs.Key), dotSlash(refs.Cert))
}

func generateViteConfigContent(refs certRefs, plugin vitePlugin) string {
	var imports strings.Builder
	imports.WriteString("import { defineConfig } from 'vite';\n")
	if plugin.Import != "" {
		imports.WriteString(plugin.Import + "\n")
	}
	imports.WriteString("import fs from 'fs';\n")

	var plugins string
	if plugin.Use != "" {
		plugins = fmt.Sprintf(`
  plugins: [%s],`, plugin.Use)
	}

	return fmt.Sprintf(`%s
export default defineConfig({%s%s
});
`, imports.String(), plugins, viteHTTPSBlock(refs))
}

// patchVite は vite.config.(ts|js) に server.https を設定する
func patchVite(projectDir string, refs certRefs, framework prompt.Framework, plugin vitePlugin) (*Patch, error) {
	patch := &Patch{Framework: framework, Command: "npm run dev"}

	rel := firstExisting(projectDir, "vite.config.ts", "vite.config.mts", "vite.config.js", "vite.config.mjs")
	if rel == "" {
		rel = "vite.config.js"
		if exists(joinProject(projectDir, "tsconfig.json")) {
			rel = "vite.config.ts"
		}
		if err := writeProjectFile(projectDir, rel, generateViteConfigContent(refs, plugin)); err != nil {
			return nil, err
		}
		patch.changed(rel)
		return patch, nil
	}

	content, _, err := readProjectFile(projectDir, rel)
	if err != nil {
		return nil, err
	}
	if hasHTTPS(content) {
		patch.skipped(rel)
		return patch, nil
	}

	updated, ok := injectAfter(content, "defineConfig({", viteHTTPSBlock(refs))
	if !ok {
		backup, err := backupProjectFile(projectDir, rel)
		if err != nil {
			return nil, err
		}
		patch.note("%s could not be patched in place; the original was saved as %s", rel, backup)
		updated = generateViteConfigContent(refs, plugin)
	} else if !strings.Contains(updated, "import fs from") {
		updated = "import fs from 'fs';\n" + updated
	}

	if err := writeProjectFile(projectDir, rel, updated); err != nil {
		return nil, err
	}
	patch.changed(rel)
	return patch, nil
}
