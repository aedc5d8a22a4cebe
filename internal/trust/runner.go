package trust

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Runner は外部コマンドを実行する
type Runner interface {
	Run(name string, args ...string) error
}

// ExecRunner は出力をキャプチャし、失敗時のみエラーに含める。
// sudo のパスワード入力のため標準入力は引き継ぐ
type ExecRunner struct{}

func (ExecRunner) Run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = os.Stdin

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(out.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}
