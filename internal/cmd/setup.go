package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hopla/hopla-ssl/internal/generator"
	"github.com/hopla/hopla-ssl/internal/prompt"
	"github.com/hopla/hopla-ssl/internal/ui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Generate certificates and configure a project for HTTPS",
	Long: `Detects the framework of the project from package.json, generates certificates
into the output directory and configures the development server to use them.

Supported frameworks: Next.js, Create React App, Angular, Vue CLI, Vite, SvelteKit,
Svelte, webpack. Other projects get a small Node.js HTTPS server.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

var (
	setupCert       certFlags
	setupPath       string
	setupFramework  string
	setupTrust      bool
	setupSaveConfig bool
	setupAsk        bool
)

func init() {
	setupCert.register(setupCmd)
	setupCmd.Flags().StringVarP(&setupPath, "path", "p", ".", "Project directory")
	setupCmd.Flags().StringVarP(&setupFramework, "framework", "f", "", "Framework of the project (skip detection)")
	setupCmd.Flags().BoolVar(&setupTrust, "trust", false, "Install the CA into the trust store without asking")
	setupCmd.Flags().BoolVar(&setupSaveConfig, "save-config", false, "Write the effective settings to .hopla-ssl.yaml")
	setupCmd.Flags().BoolVarP(&setupAsk, "interactive", "i", false, "Ask for the domain and validity")
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	projectDir, err := resolveProject(setupPath)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, projectDir, &setupCert)
	if err != nil {
		return err
	}

	if setupAsk {
		if !prompt.Interactive() {
			return errors.New("--interactive requires a terminal")
		}
		if cfg.Domain, err = prompt.AskDomain(cfg.Domain); err != nil {
			return err
		}
		if cfg.ValidityDays, err = prompt.AskValidity(cfg.ValidityDays); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	framework, err := resolveFramework(projectDir, setupFramework)
	if err != nil {
		return err
	}

	var report *generator.SetupReport
	err = ui.WithInterruptHandler(func() error {
		return ui.RunWithSpinner(fmt.Sprintf("Setting up HTTPS for %s...", framework.Label()), func() error {
			var setupErr error
			report, setupErr = generator.SetupProject(generator.SetupOptions{
				ProjectDir:  projectDir,
				Framework:   framework,
				Certificate: cfg,
				Logger:      log,
			})
			return setupErr
		})
	}, func() {
		ui.Warn("Interrupted")
	})
	if err != nil {
		return err
	}

	if setupSaveConfig {
		if err := cfg.Save(projectDir); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
	}

	ui.Success(fmt.Sprintf("HTTPS configured for %s (%s)", cfg.Domain, report.Framework.Label()))
	printBundle(report.Bundle)
	printPatch(report.Patch)

	fmt.Println()
	return offerTrust(report.Bundle.CAPath, setupTrust)
}

// resolveFramework はフラグ・自動検出・対話選択の順にフレームワークを決める
func resolveFramework(projectDir, flag string) (prompt.Framework, error) {
	if flag != "" {
		f, ok := prompt.ParseFramework(flag)
		if !ok {
			return prompt.FrameworkUnknown, fmt.Errorf("unknown framework %q", flag)
		}
		return f, nil
	}

	detected, err := generator.DetectFramework(projectDir)
	if err != nil {
		return prompt.FrameworkUnknown, err
	}
	if detected != prompt.FrameworkUnknown {
		ui.Info(fmt.Sprintf("Detected %s", detected.Label()))
		return detected, nil
	}

	if prompt.Interactive() {
		return prompt.AskFramework()
	}
	ui.Warn("Could not detect the framework, using the generic HTTPS server")
	return prompt.FrameworkOther, nil
}

func printPatch(p *generator.Patch) {
	if p == nil {
		return
	}
	if len(p.Changed) > 0 {
		fmt.Println()
		ui.Title("Updated files")
		ui.List(p.Changed)
	}
	if len(p.Skipped) > 0 {
		fmt.Println()
		ui.Warn("Already configured for HTTPS, left unchanged:")
		ui.List(p.Skipped)
	}
	if len(p.Notes) > 0 {
		fmt.Println()
		ui.List(p.Notes)
	}
	if p.Command != "" {
		fmt.Println()
		ui.Box("Start the HTTPS dev server with:\n\n  " + p.Command)
	}
}
