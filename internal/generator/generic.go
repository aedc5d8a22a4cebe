package generator

import (
	"fmt"

	"github.com/hopla/hopla-ssl/internal/prompt"
)

const (
	genericServerFile = "https-server.js"
	genericReadmeFile = "README-HTTPS.md"
)

func generateGenericServer(refs certRefs) string {
	return fmt.Sprintf(`// Generic HTTPS server for local development, generated by hopla-ssl
const fs = require('fs');
const path = require('path');
const https = require('https');
const express = require('express');

const app = express();

// Directory holding the built static files
const staticDir = path.join(__dirname, 'dist');

const httpsOptions = {
  key: fs.readFileSync(path.join(__dirname, '%s')),
  cert: fs.readFileSync(path.join(__dirname, '%s')),
};

app.use(express.static(staticDir));

// Single page applications: serve index.html for every route
app.get('*', (req, res) => {
  res.sendFile(path.join(staticDir, 'index.html'));
});

const PORT = process.env.PORT || 3000;
https.createServer(httpsOptions, app).listen(PORT, () => {
  console.log('HTTPS server running at https://localhost:' + PORT);
});
`, refs.Key, refs.Cert)
}

func generateGenericReadme(refs certRefs, caRef string) string {
	ca := ""
	if caRef != "" {
		ca = fmt.Sprintf("- `%s`: certificate authority (install it with `hopla-ssl trust`)\n", caRef)
	}
	return fmt.Sprintf("# Local HTTPS\n\n"+
		"This project was configured for local HTTPS development with hopla-ssl.\n\n"+
		"## Certificates\n\n"+
		"- `%s`: private key\n"+
		"- `%s`: certificate\n"+
		"%s\n"+
		"## Usage\n\n"+
		"```bash\nnpm run start:https\n```\n\n"+
		"`%s` serves the `dist` directory over HTTPS. Adjust `staticDir` to match your build output.\n\n"+
		"The server requires Express:\n\n"+
		"```bash\nnpm install express --save\n```\n",
		refs.Key, refs.Cert, ca, genericServerFile)
}

// patchGeneric は Express ベースの HTTPS サーバーと説明ファイルを追加する
func patchGeneric(projectDir string, refs certRefs, caRef string, framework prompt.Framework) (*Patch, error) {
	patch := &Patch{Framework: framework}

	if err := writeProjectFile(projectDir, genericServerFile, generateGenericServer(refs)); err != nil {
		return nil, err
	}
	patch.changed(genericServerFile)

	if err := writeProjectFile(projectDir, genericReadmeFile, generateGenericReadme(refs, caRef)); err != nil {
		return nil, err
	}
	patch.changed(genericReadmeFile)

	deps, err := readDependencies(projectDir)
	if err != nil {
		return nil, err
	}
	if _, ok := deps["express"]; !ok {
		patch.note("The generic server requires Express: npm install express --save")
	}

	if err := patch.addScript(projectDir, "start:https", "node "+genericServerFile); err != nil {
		return nil, err
	}
	return patch, nil
}
