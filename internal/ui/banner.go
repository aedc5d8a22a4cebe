package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var asciiArt = []string{
	` ██╗  ██╗  ██████╗  ██████╗  ██╗       █████╗ `,
	` ██║  ██║ ██╔═══██╗ ██╔══██╗ ██║      ██╔══██╗`,
	` ███████║ ██║   ██║ ██████╔╝ ██║      ███████║`,
	` ██╔══██║ ██║   ██║ ██╔═══╝  ██║      ██╔══██║`,
	` ██║  ██║ ╚██████╔╝ ██║      ███████╗ ██║  ██║`,
	` ╚═╝  ╚═╝  ╚═════╝  ╚═╝      ╚══════╝ ╚═╝  ╚═╝`,
}

var bannerGradient = []string{
	"#A5D6A7",
	"#81C784",
	"#66BB6A",
	"#4CAF50",
	"#43A047",
	"#388E3C",
}

var bannerTags = []string{
	"local https for dev servers",
	"ca + leaf in one step",
	"ready.",
}

// renderBanner はタグ付きの AA を組み立てる
func renderBanner() string {
	maxWidth := 0
	for _, line := range asciiArt {
		if w := lipgloss.Width(line); w > maxWidth {
			maxWidth = w
		}
	}

	accent := lipgloss.NewStyle().Foreground(lipgloss.Color("#66BB6A"))
	muted := lipgloss.NewStyle().Foreground(ColorGray)
	tagOffset := len(asciiArt) - len(bannerTags)

	var sb strings.Builder
	for i, line := range asciiArt {
		rendered := lipgloss.NewStyle().Foreground(lipgloss.Color(bannerGradient[i])).Render(line)
		sb.WriteString(rendered)

		if tagIdx := i - tagOffset; tagIdx >= 0 && tagIdx < len(bannerTags) {
			sb.WriteString(strings.Repeat(" ", maxWidth-lipgloss.Width(line)))
			sb.WriteString(fmt.Sprintf("  %s %s", accent.Render("::"), muted.Render(bannerTags[tagIdx])))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Banner はASCIIアートバナーを表示
func Banner() {
	if Quiet {
		return
	}
	fmt.Println()
	fmt.Print(renderBanner())
	fmt.Println()
}
