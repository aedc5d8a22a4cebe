package generator

import (
	"fmt"

	"github.com/hopla/hopla-ssl/internal/prompt"
)

var webpackConfigCandidates = []string{
	"webpack.config.js",
	"webpack.dev.js",
	"config/webpack.config.js",
	"config/webpack.dev.js",
}

func webpackHTTPSOption(refs certRefs) string {
	return fmt.Sprintf(`
    https: {
      key: fs.readFileSync('%s'),
      cert: fs.readFileSync('%s'),
    },`, dotSlash(refs.Key), dotSlash(refs.Cert))
}

func webpackDevServerBlock(refs certRefs) string {
	return fmt.Sprintf(`
  devServer: {%s
  },`, webpackHTTPSOption(refs))
}

func generateWebpackConfig(refs certRefs) string {
	return fmt.Sprintf(`const fs = require('fs');
const path = require('path');

module.exports = {
  devServer: {%s
    hot: true,
    historyApiFallback: true,
  },
};
`, webpackHTTPSOption(refs))
}

// patchWebpack は webpack 設定の devServer に HTTPS を追加する
func patchWebpack(projectDir string, refs certRefs) (*Patch, error) {
	patch := &Patch{Framework: prompt.FrameworkWebpack}

	rel := firstExisting(projectDir, webpackConfigCandidates...)
	if rel == "" {
		rel = webpackConfigCandidates[0]
		if err := writeProjectFile(projectDir, rel, generateWebpackConfig(refs)); err != nil {
			return nil, err
		}
		patch.changed(rel)
	} else if err := patchWebpackConfig(projectDir, rel, refs, patch); err != nil {
		return nil, err
	}

	if err := patch.addScript(projectDir, "start:https", "webpack serve"); err != nil {
		return nil, err
	}
	return patch, nil
}

func patchWebpackConfig(projectDir, rel string, refs certRefs, patch *Patch) error {
	content, _, err := readProjectFile(projectDir, rel)
	if err != nil {
		return err
	}
	if hasHTTPS(content) {
		patch.skipped(rel)
		return nil
	}

	updated, ok := injectAfterBrace(content, "devServer:", webpackHTTPSOption(refs))
	if !ok {
		updated, ok = injectAfter(content, "module.exports = {", webpackDevServerBlock(refs))
	}
	if !ok {
		patch.note("Could not find devServer or module.exports in %s: add the https option manually", rel)
		return nil
	}

	if err := writeProjectFile(projectDir, rel, requireFSAndPath(updated)); err != nil {
		return err
	}
	patch.changed(rel)
	return nil
}
