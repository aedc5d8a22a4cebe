package prompt

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var errPositive = errors.New("enter a positive number of days")

type Framework string

const (
	FrameworkNextJS  Framework = "nextjs"
	FrameworkCRA     Framework = "create-react-app"
	FrameworkAngular Framework = "angular"
	FrameworkVueCLI  Framework = "vue-cli"
	FrameworkViteVue Framework = "vite-vue"
	FrameworkVue     Framework = "vue"
	FrameworkSvelte  Framework = "svelte"
	FrameworkVite    Framework = "vite"
	FrameworkWebpack Framework = "webpack"
	FrameworkOther   Framework = "other"

	// FrameworkUnknown は自動検出できなかったことを表す
	FrameworkUnknown Framework = ""
)

// Frameworks は選択肢に並べる順序
var Frameworks = []Framework{
	FrameworkNextJS,
	FrameworkCRA,
	FrameworkAngular,
	FrameworkVueCLI,
	FrameworkViteVue,
	FrameworkSvelte,
	FrameworkVite,
	FrameworkWebpack,
	FrameworkOther,
}

var frameworkLabels = map[Framework]string{
	FrameworkNextJS:  "Next.js",
	FrameworkCRA:     "Create React App",
	FrameworkAngular: "Angular",
	FrameworkVueCLI:  "Vue CLI",
	FrameworkViteVue: "Vue + Vite",
	FrameworkVue:     "Vue",
	FrameworkSvelte:  "Svelte / SvelteKit",
	FrameworkVite:    "Vite",
	FrameworkWebpack: "Webpack",
	FrameworkOther:   "Other",
}

func (f Framework) Label() string {
	if l, ok := frameworkLabels[f]; ok {
		return l
	}
	return string(f)
}

// ParseFramework は --framework の値を解釈する
func ParseFramework(s string) (Framework, bool) {
	f := Framework(strings.ToLower(strings.TrimSpace(s)))
	if f == FrameworkVue {
		return f, true
	}
	for _, known := range Frameworks {
		if f == known {
			return f, true
		}
	}
	return FrameworkUnknown, false
}

// Interactive は標準入力が端末かどうか
func Interactive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func AskFramework() (Framework, error) {
	cyan := color.New(color.FgCyan).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	blue := color.New(color.FgBlue).SprintFunc()
	magenta := color.New(color.FgMagenta).SprintFunc()
	white := color.New(color.FgWhite).SprintFunc()

	paint := map[Framework]func(a ...interface{}) string{
		FrameworkNextJS:  white,
		FrameworkCRA:     cyan,
		FrameworkAngular: red,
		FrameworkVueCLI:  green,
		FrameworkViteVue: green,
		FrameworkSvelte:  red,
		FrameworkVite:    magenta,
		FrameworkWebpack: blue,
		FrameworkOther:   yellow,
	}

	options := make([]string, len(Frameworks))
	for i, f := range Frameworks {
		options[i] = paint[f](f.Label())
	}

	var answer string
	prompt := &survey.Select{
		Message: "Which framework does this project use?",
		Options: options,
		Default: options[len(options)-1],
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return FrameworkUnknown, err
	}

	for i, opt := range options {
		if opt == answer {
			return Frameworks[i], nil
		}
	}
	return FrameworkOther, nil
}

// ConfirmTrust は CA を信頼ストアに登録するか確認する
func ConfirmTrust() (bool, error) {
	var answer bool
	prompt := &survey.Confirm{
		Message: "Install the CA certificate into the system trust store? (administrator rights may be required)",
		Default: true,
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return false, err
	}
	return answer, nil
}

func AskDomain(defaultVal string) (string, error) {
	var answer string
	prompt := &survey.Input{
		Message: "Domain:",
		Default: defaultVal,
	}
	if err := survey.AskOne(prompt, &answer, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

func AskValidity(defaultVal int) (int, error) {
	var answer string
	prompt := &survey.Input{
		Message: "Validity (days):",
		Default: strconv.Itoa(defaultVal),
	}
	validate := func(v interface{}) error {
		n, err := strconv.Atoi(strings.TrimSpace(v.(string)))
		if err != nil || n <= 0 {
			return errPositive
		}
		return nil
	}
	if err := survey.AskOne(prompt, &answer, survey.WithValidator(validate)); err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(answer))
}
