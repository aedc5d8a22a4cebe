package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Quiet が true のとき成功・情報メッセージを出さない（エラーと警告は出す）
var Quiet bool

var (
	ColorGreen = lipgloss.Color("#66BB6A")
	ColorRed   = lipgloss.Color("#EF5350")
	ColorAmber = lipgloss.Color("#FFB300")
	ColorTeal  = lipgloss.Color("#26A69A")
	ColorGray  = lipgloss.Color("245")
)

var (
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorGreen)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorRed)
	WarnStyle    = lipgloss.NewStyle().Foreground(ColorAmber)
	InfoStyle    = lipgloss.NewStyle().Foreground(ColorTeal)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorGray)
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorGreen)
	BoxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGreen).
			Padding(0, 2)
)

const (
	IconSuccess = "✓"
	IconError   = "✗"
	IconWarn    = "⚠"
	IconInfo    = "→"
)

// Level は doctor などの判定結果
type Level int

const (
	LevelOK Level = iota
	LevelWarn
	LevelError
)

func (l Level) icon() string {
	switch l {
	case LevelWarn:
		return WarnStyle.Render(IconWarn)
	case LevelError:
		return ErrorStyle.Render(IconError)
	default:
		return SuccessStyle.Render(IconSuccess)
	}
}

// 出力先。テストで差し替える
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func printLine(w io.Writer, always bool, line string) {
	if Quiet && !always {
		return
	}
	fmt.Fprintln(w, line)
}

func Success(msg string) {
	printLine(stdout, false, SuccessStyle.Render(IconSuccess)+" "+msg)
}

// Error は Quiet でも標準エラーに出す
func Error(msg string) {
	printLine(stderr, true, ErrorStyle.Render(IconError)+" "+msg)
}

// Warn は Quiet でも標準エラーに出す
func Warn(msg string) {
	printLine(stderr, true, WarnStyle.Render(IconWarn)+" "+msg)
}

func Info(msg string) {
	printLine(stdout, false, InfoStyle.Render(IconInfo)+" "+msg)
}

func Title(msg string) {
	printLine(stdout, false, TitleStyle.Render(msg))
}

func Box(content string) {
	printLine(stdout, false, BoxStyle.Render(content))
}

// Detail は "label: value" を字下げして表示
func Detail(label, value string) {
	printLine(stdout, false, "  "+MutedStyle.Render(label+":")+" "+value)
}

// List は箇条書き。手順の案内に使うので Quiet でも出す
func List(items []string) {
	for _, item := range items {
		printLine(stdout, true, "  "+MutedStyle.Render("-")+" "+item)
	}
}

// Check は診断結果を1行で表示する
func Check(level Level, name, msg string) {
	printLine(stdout, level != LevelOK, fmt.Sprintf("  %s %s: %s", level.icon(), name, msg))
}
