package generator

import (
	"fmt"
	"strings"

	"github.com/hopla/hopla-ssl/internal/prompt"
)

// patchSvelte は SvelteKit なら Vite 設定、Rollup なら serve() 設定を更新する
func patchSvelte(projectDir string, refs certRefs) (*Patch, error) {
	if exists(joinProject(projectDir, "svelte.config.js")) {
		return patchVite(projectDir, refs, prompt.FrameworkSvelte, vitePluginSvelteKit)
	}

	patch := &Patch{Framework: prompt.FrameworkSvelte, Command: "npm run dev"}

	const rollup = "rollup.config.js"
	content, ok, err := readProjectFile(projectDir, rollup)
	if err != nil {
		return nil, err
	}
	if !ok {
		script := fmt.Sprintf("HTTPS=true SSL_CRT_FILE=%s SSL_KEY_FILE=%s npm run dev", refs.Cert, refs.Key)
		if err := patch.addScript(projectDir, "dev:https", script); err != nil {
			return nil, err
		}
		return patch, nil
	}

	if hasHTTPS(content) {
		patch.skipped(rollup)
		return patch, nil
	}

	if !strings.Contains(content, "import fs from") {
		content = "import fs from 'fs';\n" + content
	}

	httpsOption := fmt.Sprintf(`{
        https: {
          key: fs.readFileSync('%s'),
          cert: fs.readFileSync('%s'),
        },
      }, `, dotSlash(refs.Key), dotSlash(refs.Cert))

	updated, injected := injectAfter(content, "!production && serve(", httpsOption)
	if !injected {
		updated = content + fmt.Sprintf(`
// HTTPS configuration added by hopla-ssl
if (!production) {
  require('sirv')('public', {
    https: {
      key: fs.readFileSync('%s'),
      cert: fs.readFileSync('%s'),
    },
  });
}
`, dotSlash(refs.Key), dotSlash(refs.Cert))
	}

	if err := writeProjectFile(projectDir, rollup, updated); err != nil {
		return nil, err
	}
	patch.changed(rollup)
	return patch, nil
}
