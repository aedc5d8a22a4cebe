package generator

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/hopla/hopla-ssl/internal/bundle"
	"github.com/hopla/hopla-ssl/internal/config"
	"github.com/hopla/hopla-ssl/internal/prompt"
)

type SetupOptions struct {
	ProjectDir  string
	Framework   prompt.Framework
	Certificate config.Certificate
	Logger      zerolog.Logger
}

type SetupReport struct {
	Framework prompt.Framework
	Bundle    *bundle.Result
	Patch     *Patch
}

// SetupProject は証明書を発行し、フレームワークの開発サーバーを HTTPS 化する
func SetupProject(opts SetupOptions) (*SetupReport, error) {
	info, err := os.Stat(opts.ProjectDir)
	if err != nil {
		return nil, fmt.Errorf("project directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project directory: %s is not a directory", opts.ProjectDir)
	}

	framework := opts.Framework
	if framework == prompt.FrameworkUnknown {
		framework = prompt.FrameworkOther
	}

	res, err := GenerateCertificate(CertificateRequest{
		Config:    opts.Certificate,
		OutputDir: opts.Certificate.ResolveOutputDir(opts.ProjectDir),
		Logger:    opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	patch, err := PatchFramework(opts.ProjectDir, framework, res)
	if err != nil {
		return nil, fmt.Errorf("configure %s: %w", framework.Label(), err)
	}

	opts.Logger.Debug().
		Str("framework", string(framework)).
		Strs("changed", patch.Changed).
		Strs("skipped", patch.Skipped).
		Msg("project configured")

	return &SetupReport{Framework: framework, Bundle: res, Patch: patch}, nil
}

// PatchFramework は framework に応じた設定ファイルの変更を行う
func PatchFramework(projectDir string, framework prompt.Framework, res *bundle.Result) (*Patch, error) {
	refs := newCertRefs(projectDir, res)

	switch framework {
	case prompt.FrameworkNextJS:
		return patchNextJS(projectDir, refs)
	case prompt.FrameworkCRA:
		return patchCRA(projectDir, refs)
	case prompt.FrameworkAngular:
		return patchAngular(projectDir, refs)
	case prompt.FrameworkVueCLI:
		return patchVueCLI(projectDir, refs)
	case prompt.FrameworkVite, prompt.FrameworkViteVue:
		return patchVite(projectDir, refs, framework, vitePluginNone)
	case prompt.FrameworkSvelte:
		return patchSvelte(projectDir, refs)
	case prompt.FrameworkWebpack:
		return patchWebpack(projectDir, refs)
	default:
		var caRef string
		if res.CAPath != "" {
			caRef = relSlash(projectDir, res.CAPath)
		}
		return patchGeneric(projectDir, refs, caRef, framework)
	}
}
