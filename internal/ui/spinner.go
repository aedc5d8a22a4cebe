package ui

import (
	"bytes"
	"os/exec"
	"strings"

	"github.com/charmbracelet/huh/spinner"
)

// CommandOutput はコマンドを実行し、標準出力を返す。失敗時は出力をエラーに含める
func CommandOutput(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", &CommandError{Err: err, Output: msg}
		}
		return "", err
	}
	return strings.TrimSpace(stdout.String()), nil
}

// CommandError は外部コマンドの失敗と出力
type CommandError struct {
	Err    error
	Output string
}

func (e *CommandError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// RunWithSpinner はスピナーを表示しながら処理を実行する
func RunWithSpinner(message string, fn func() error) error {
	return SpinnerWithResult(message, fn)
}

// SpinnerWithResult はスピナーを実行し、エラーを返す
func SpinnerWithResult(title string, action func() error) error {
	if Quiet {
		return action()
	}
	var actionErr error
	err := spinner.New().
		Title(title).
		Action(func() {
			actionErr = action()
		}).
		Run()
	if err != nil {
		return err
	}
	return actionErr
}
