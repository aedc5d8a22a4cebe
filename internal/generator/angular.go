package generator

import (
	"fmt"
	"path/filepath"

	"github.com/hopla/hopla-ssl/internal/prompt"
)

const angularJSONFile = "angular.json"

// patchAngular は angular.json の全プロジェクトの serve オプションに SSL を設定する
func patchAngular(projectDir string, refs certRefs) (*Patch, error) {
	patch := &Patch{Framework: prompt.FrameworkAngular}
	path := filepath.Join(projectDir, angularJSONFile)

	if exists(path) {
		changed, err := setAngularSSL(path, refs)
		if err != nil {
			return nil, fmt.Errorf("update %s: %w", angularJSONFile, err)
		}
		if changed {
			patch.changed(angularJSONFile)
		} else {
			patch.skipped(angularJSONFile)
		}
	} else {
		patch.note("No %s found: only the npm script was added", angularJSONFile)
	}

	script := fmt.Sprintf("ng serve --ssl --ssl-key %s --ssl-cert %s", refs.Key, refs.Cert)
	if err := patch.addScript(projectDir, "start:https", script); err != nil {
		return nil, err
	}
	return patch, nil
}

func setAngularSSL(path string, refs certRefs) (bool, error) {
	root, err := readJSONFile(path)
	if err != nil {
		return false, err
	}
	projects, err := root.object("projects")
	if err != nil {
		return false, err
	}

	changed := false
	for _, name := range projects.keys {
		project, err := projects.object(name)
		if err != nil {
			return false, err
		}
		if !project.has("architect") {
			continue
		}
		architect, err := project.object("architect")
		if err != nil {
			return false, err
		}
		if !architect.has("serve") {
			continue
		}
		serve, err := architect.object("serve")
		if err != nil {
			return false, err
		}
		options, err := serve.object("options")
		if err != nil {
			return false, err
		}

		settings := []struct {
			key   string
			value any
		}{
			{"ssl", true},
			{"sslKey", refs.Key},
			{"sslCert", refs.Cert},
		}
		dirty := false
		for _, s := range settings {
			if options.equal(s.key, s.value) {
				continue
			}
			if err := options.set(s.key, s.value); err != nil {
				return false, err
			}
			dirty = true
		}
		if !dirty {
			continue
		}
		changed = true

		if err := serve.set("options", options); err != nil {
			return false, err
		}
		if err := architect.set("serve", serve); err != nil {
			return false, err
		}
		if err := project.set("architect", architect); err != nil {
			return false, err
		}
		if err := projects.set(name, project); err != nil {
			return false, err
		}
	}

	if !changed {
		return false, nil
	}
	if err := root.set("projects", projects); err != nil {
		return false, err
	}
	return true, writeJSONFile(path, root)
}
