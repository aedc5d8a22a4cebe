package bundle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/hopla/hopla-ssl/internal/certs"
)

const (
	KeyFile    = "key.pem"
	CertFile   = "cert.pem"
	CAFile     = "ca.pem"
	CAKeyFile  = "ca-key.pem"
	PKCS12File = "cert.p12"
)

const (
	keyPerm  os.FileMode = 0600
	certPerm os.FileMode = 0644
	dirPerm  os.FileMode = 0755
)

// Materials はディスクに書き出す PEM / PKCS#12 のバイト列
type Materials struct {
	KeyPEM    []byte
	CertPEM   []byte
	CACertPEM []byte
	CAKeyPEM  []byte
	PKCS12    []byte
}

type WriteOptions struct {
	// SaveCAKey が true のときだけ ca-key.pem を書き出す
	SaveCAKey bool
}

// Result は書き出したファイルのパス。書き出していないファイルは空文字
type Result struct {
	Dir        string
	KeyPath    string
	CertPath   string
	CAPath     string
	CAKeyPath  string
	PKCS12Path string
}

// Paths は dir 配下の標準パスを返す（ディスクには触れない）
func Paths(dir string) Result {
	return Result{
		Dir:        dir,
		KeyPath:    filepath.Join(dir, KeyFile),
		CertPath:   filepath.Join(dir, CertFile),
		CAPath:     filepath.Join(dir, CAFile),
		CAKeyPath:  filepath.Join(dir, CAKeyFile),
		PKCS12Path: filepath.Join(dir, PKCS12File),
	}
}

type entry struct {
	path string
	data []byte
	perm os.FileMode
	set  func(*Result, string)
}

// Write は証明書一式を dir に書き出す。
// すべての一時ファイルを書き終えてから置き換え、途中で失敗した場合は
// この呼び出しで置き換えたファイルを以前の内容に戻す。
// 今回含まれない ca.pem / ca-key.pem / cert.p12 は別の発行物なので削除する
func Write(dir string, m Materials, opts WriteOptions) (*Result, error) {
	if len(m.KeyPEM) == 0 || len(m.CertPEM) == 0 {
		return nil, fmt.Errorf("%w: key and certificate are required", certs.ErrPersistence)
	}
	if opts.SaveCAKey && len(m.CAKeyPEM) == 0 {
		return nil, fmt.Errorf("%w: CA key requested but not available", certs.ErrPersistence)
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("%w: create directory %s: %w", certs.ErrPersistence, dir, err)
	}

	paths := Paths(dir)
	entries := []entry{
		{path: paths.KeyPath, data: m.KeyPEM, perm: keyPerm, set: func(r *Result, p string) { r.KeyPath = p }},
		{path: paths.CertPath, data: m.CertPEM, perm: certPerm, set: func(r *Result, p string) { r.CertPath = p }},
	}
	if len(m.CACertPEM) > 0 {
		entries = append(entries, entry{path: paths.CAPath, data: m.CACertPEM, perm: certPerm, set: func(r *Result, p string) { r.CAPath = p }})
	}
	if opts.SaveCAKey {
		entries = append(entries, entry{path: paths.CAKeyPath, data: m.CAKeyPEM, perm: keyPerm, set: func(r *Result, p string) { r.CAKeyPath = p }})
	}
	if len(m.PKCS12) > 0 {
		entries = append(entries, entry{path: paths.PKCS12Path, data: m.PKCS12, perm: keyPerm, set: func(r *Result, p string) { r.PKCS12Path = p }})
	}

	pending := make([]*renameio.PendingFile, 0, len(entries))
	defer func() {
		for _, pf := range pending {
			// コミット済みのファイルに対しては何もしない
			_ = pf.Cleanup()
		}
	}()

	for _, e := range entries {
		pf, err := renameio.NewPendingFile(e.path, renameio.WithStaticPermissions(e.perm))
		if err != nil {
			return nil, fmt.Errorf("%w: create pending %s: %w", certs.ErrPersistence, filepath.Base(e.path), err)
		}
		pending = append(pending, pf)
		if _, err := pf.Write(e.data); err != nil {
			return nil, fmt.Errorf("%w: write %s: %w", certs.ErrPersistence, filepath.Base(e.path), err)
		}
	}

	// 今回書かない任意ファイルは以前の発行物なので削除する
	var stale []string
	for _, p := range []string{paths.CAPath, paths.CAKeyPath, paths.PKCS12Path} {
		if !hasEntry(entries, p) {
			stale = append(stale, p)
		}
	}

	result := &Result{Dir: dir}
	var snapshots []snapshot
	defer func() {
		for _, s := range snapshots {
			clear(s.data)
		}
	}()

	for i, pf := range pending {
		snap, err := takeSnapshot(entries[i].path)
		if err != nil {
			restore(snapshots)
			return nil, err
		}
		if err := pf.CloseAtomicallyReplace(); err != nil {
			restore(snapshots)
			return nil, fmt.Errorf("%w: replace %s: %w", certs.ErrPersistence, filepath.Base(entries[i].path), err)
		}
		snapshots = append(snapshots, snap)
		entries[i].set(result, entries[i].path)
	}

	for _, p := range stale {
		snap, err := takeSnapshot(p)
		if err != nil {
			restore(snapshots)
			return nil, err
		}
		if !snap.existed {
			continue
		}
		if err := os.Remove(p); err != nil {
			restore(snapshots)
			return nil, fmt.Errorf("%w: remove stale %s: %w", certs.ErrPersistence, filepath.Base(p), err)
		}
		snapshots = append(snapshots, snap)
	}

	return result, nil
}

func hasEntry(entries []entry, path string) bool {
	for _, e := range entries {
		if e.path == path {
			return true
		}
	}
	return false
}

// snapshot は置き換え前のファイル内容。失敗時の復元に使う
type snapshot struct {
	path    string
	data    []byte
	perm    os.FileMode
	existed bool
}

// takeSnapshot は path が通常ファイルならその内容を読み込む
func takeSnapshot(path string) (snapshot, error) {
	snap := snapshot{path: path}
	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return snap, nil
		}
		return snap, fmt.Errorf("%w: stat %s: %w", certs.ErrPersistence, filepath.Base(path), err)
	}
	if !info.Mode().IsRegular() {
		return snap, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return snap, fmt.Errorf("%w: read %s: %w", certs.ErrPersistence, filepath.Base(path), err)
	}
	snap.data = data
	snap.perm = info.Mode().Perm()
	snap.existed = true
	return snap, nil
}

// restore は snapshots を逆順に戻す。以前存在しなかったファイルは削除する
func restore(snapshots []snapshot) {
	for i := len(snapshots) - 1; i >= 0; i-- {
		s := snapshots[i]
		if !s.existed {
			_ = os.Remove(s.path)
			continue
		}
		_ = renameio.WriteFile(s.path, s.data, s.perm)
	}
}

// LoadCA は既存の CA 証明書（と任意の秘密鍵）をファイルから読み込む
func LoadCA(certPath, keyPath string) (*certs.CertificateAuthority, error) {
	certPEM, err := os.ReadFile(certPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read CA certificate: %w", certs.ErrPersistence, err)
	}

	var keyPEM []byte
	if keyPath != "" {
		keyPEM, err = os.ReadFile(keyPath)
		if err != nil {
			return nil, fmt.Errorf("%w: read CA key: %w", certs.ErrPersistence, err)
		}
	}

	return certs.LoadCA(certPEM, keyPEM)
}

// Exists は鍵と証明書がそろっているか
func Exists(dir string) bool {
	paths := Paths(dir)
	for _, p := range []string{paths.KeyPath, paths.CertPath} {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}

// ReadFile は bundle 内のファイルを読み込む。存在しない場合は os.ErrNotExist を返す
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: read %s: %w", certs.ErrPersistence, filepath.Base(path), err)
	}
	return data, nil
}
