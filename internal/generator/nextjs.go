package generator

import (
	"fmt"
	"strings"

	"github.com/hopla/hopla-ssl/internal/prompt"
)

const nextServerFile = "server.js"

func generateNextServer(refs certRefs) string {
	return fmt.Sprintf(`const { createServer } = require('https');
const { parse } = require('url');
const next = require('next');
const fs = require('fs');
const path = require('path');

const dev = process.env.NODE_ENV !== 'production';
const port = parseInt(process.env.PORT || '3000', 10);
const app = next({ dev });
const handle = app.getRequestHandler();

const httpsOptions = {
  key: fs.readFileSync(path.join(__dirname, '%s')),
  cert: fs.readFileSync(path.join(__dirname, '%s')),
};

app.prepare().then(() => {
  createServer(httpsOptions, (req, res) => {
    handle(req, res, parse(req.url, true));
  }).listen(port, (err) => {
    if (err) throw err;
    console.log('> Ready on https://localhost:' + port);
  });
});
`, refs.Key, refs.Cert)
}

// patchNextJS は HTTPS カスタムサーバーと dev:https スクリプトを追加する
func patchNextJS(projectDir string, refs certRefs) (*Patch, error) {
	patch := &Patch{Framework: prompt.FrameworkNextJS}

	content, ok, err := readProjectFile(projectDir, nextServerFile)
	if err != nil {
		return nil, err
	}
	switch {
	case ok && strings.Contains(content, "httpsOptions"):
		patch.skipped(nextServerFile)
	default:
		if ok {
			backup, err := backupProjectFile(projectDir, nextServerFile)
			if err != nil {
				return nil, err
			}
			patch.note("The existing %s was saved as %s", nextServerFile, backup)
		}
		if err := writeProjectFile(projectDir, nextServerFile, generateNextServer(refs)); err != nil {
			return nil, err
		}
		patch.changed(nextServerFile)
	}

	if err := patch.addScript(projectDir, "dev:https", "node "+nextServerFile); err != nil {
		return nil, err
	}
	return patch, nil
}
