package generator

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/hopla/hopla-ssl/internal/prompt"
)

// patchCRA は .env に HTTPS 設定を追加する。既存の値は保持する
func patchCRA(projectDir string, refs certRefs) (*Patch, error) {
	patch := &Patch{Framework: prompt.FrameworkCRA, Command: "npm start"}
	envPath := filepath.Join(projectDir, ".env")

	values, err := godotenv.Read(envPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		values = map[string]string{}
	}

	want := map[string]string{
		"HTTPS":        "true",
		"SSL_CRT_FILE": refs.Cert,
		"SSL_KEY_FILE": refs.Key,
	}
	dirty := false
	for k, v := range want {
		if values[k] != v {
			values[k] = v
			dirty = true
		}
	}
	if !dirty {
		patch.skipped(".env")
		return patch, nil
	}

	if err := godotenv.Write(values, envPath); err != nil {
		return nil, err
	}
	patch.changed(".env")
	return patch, nil
}
