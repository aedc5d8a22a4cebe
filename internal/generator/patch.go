package generator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/hopla/hopla-ssl/internal/bundle"
	"github.com/hopla/hopla-ssl/internal/prompt"
)

// Patch はフレームワーク設定の変更結果
type Patch struct {
	Framework prompt.Framework
	// Changed は作成・更新したファイル（プロジェクト相対）
	Changed []string
	// Skipped は既に HTTPS 設定済みのため変更しなかったファイル
	Skipped []string
	// Command は HTTPS で開発サーバーを起動するコマンド
	Command string
	Notes   []string
}

func (p *Patch) changed(rel string) {
	p.Changed = append(p.Changed, filepath.ToSlash(rel))
}

func (p *Patch) skipped(rel string) {
	p.Skipped = append(p.Skipped, filepath.ToSlash(rel))
}

func (p *Patch) note(format string, args ...any) {
	p.Notes = append(p.Notes, fmt.Sprintf(format, args...))
}

// certRefs は設定ファイルに書き込む証明書パス（プロジェクト相対、スラッシュ区切り）
type certRefs struct {
	Key  string
	Cert string
}

func newCertRefs(projectDir string, res *bundle.Result) certRefs {
	return certRefs{
		Key:  relSlash(projectDir, res.KeyPath),
		Cert: relSlash(projectDir, res.CertPath),
	}
}

func relSlash(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	return filepath.ToSlash(rel)
}

// dotSlash は './ssl/key.pem' 形式にする
func dotSlash(p string) string {
	if strings.HasPrefix(p, ".") || strings.HasPrefix(p, "/") {
		return p
	}
	return "./" + p
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func firstExisting(projectDir string, candidates ...string) string {
	for _, rel := range candidates {
		if exists(filepath.Join(projectDir, rel)) {
			return rel
		}
	}
	return ""
}

func readProjectFile(projectDir, rel string) (string, bool, error) {
	data, err := os.ReadFile(filepath.Join(projectDir, rel))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}

func writeProjectFile(projectDir, rel, content string) error {
	path := filepath.Join(projectDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return renameio.WriteFile(path, []byte(content), 0644)
}

// backupProjectFile は上書き前に <name>.bak へ退避する
func backupProjectFile(projectDir, rel string) (string, error) {
	content, ok, err := readProjectFile(projectDir, rel)
	if err != nil || !ok {
		return "", err
	}
	backup := rel + ".bak"
	if err := writeProjectFile(projectDir, backup, content); err != nil {
		return "", err
	}
	return backup, nil
}

// injectAfter は最初の marker の直後に block を挿入する
func injectAfter(content, marker, block string) (string, bool) {
	i := strings.Index(content, marker)
	if i < 0 {
		return content, false
	}
	end := i + len(marker)
	return content[:end] + block + content[end:], true
}

// injectAfterBrace は marker 以降で最初の '{' の直後に block を挿入する
func injectAfterBrace(content, marker, block string) (string, bool) {
	i := strings.Index(content, marker)
	if i < 0 {
		return content, false
	}
	brace := strings.Index(content[i:], "{")
	if brace < 0 {
		return content, false
	}
	end := i + brace + 1
	return content[:end] + block + content[end:], true
}

func hasHTTPS(content string) bool {
	return strings.Contains(content, "https:")
}

// setScript は package.json の scripts に name を追加する。
// package.json がない場合は present が false になる
func setScript(projectDir, name, command string) (present, changed bool, err error) {
	path := filepath.Join(projectDir, PackageJSONFile)
	if !exists(path) {
		return false, false, nil
	}

	pkg, err := readJSONFile(path)
	if err != nil {
		return true, false, err
	}
	scripts, err := pkg.object("scripts")
	if err != nil {
		return true, false, err
	}
	if scripts.equal(name, command) {
		return true, false, nil
	}
	if err := scripts.set(name, command); err != nil {
		return true, false, err
	}
	if err := pkg.setAfter("scripts", scripts, PackageKeyOrder); err != nil {
		return true, false, err
	}
	if err := writeJSONFile(path, pkg); err != nil {
		return true, false, err
	}
	return true, true, nil
}

// addScript は setScript の結果を Patch に反映する
func (p *Patch) addScript(projectDir, name, command string) error {
	present, changed, err := setScript(projectDir, name, command)
	if err != nil {
		return fmt.Errorf("update %s: %w", PackageJSONFile, err)
	}
	if !present {
		p.note("No %s found: add the script %q: %q manually", PackageJSONFile, name, command)
		p.Command = command
		return nil
	}
	if changed {
		p.changed(PackageJSONFile)
	}
	p.Command = "npm run " + name
	return nil
}

func joinProject(projectDir, rel string) string {
	return filepath.Join(projectDir, filepath.FromSlash(rel))
}
