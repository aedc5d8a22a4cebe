package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup は診断ログ用の logger を返す。debug 時は呼び出し元も出力する
func Setup(debug bool) zerolog.Logger {
	return New(os.Stderr, debug)
}

func New(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: !isTerminal(w)}
	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if debug {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// Nop はログを出力しない logger
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
