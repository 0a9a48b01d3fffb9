// ipynb-translator translates Jupyter notebooks to another language with AI models.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/daekeun-ml/ipynb-translator/cache"
	"github.com/daekeun-ml/ipynb-translator/config"
	"github.com/daekeun-ml/ipynb-translator/fetch"
	"github.com/daekeun-ml/ipynb-translator/i18n"
	"github.com/daekeun-ml/ipynb-translator/langmeta"
	"github.com/daekeun-ml/ipynb-translator/nbfile"
	"github.com/daekeun-ml/ipynb-translator/provider"
	"github.com/daekeun-ml/ipynb-translator/settings"
	"github.com/daekeun-ml/ipynb-translator/translate"
	"github.com/spf13/cobra"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	configPath string
	debugMode  bool
)

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ipynb-translator",
		Short: "Translate Jupyter notebooks with AI models",
		Long: `ipynb-translator translates the markdown cells of Jupyter notebooks
to another language with AI models. Code, outputs, execution counts,
metadata and cell order are preserved; comments inside code cells can be
translated too with --code-cells.

Commands:
  translate   Translate a single notebook file
  folder      Translate every notebook in a directory
  url         Download a notebook from a URL and translate it
  info        Show notebook structure and translatable cell counts
  languages   List supported target languages
  models      List supported models
  auth        Manage stored API credentials

Backends:
  OpenAI-compatible  gpt-4o, gpt-4o-mini, gpt-4.1 family, plus anything
                     reachable through --base-url (Groq, Ollama, vLLM)
  Google Gemini      gemini-2.0-flash, gemini-2.5-flash, gemini-2.5-pro

Configuration is layered: built-in defaults, then a YAML file given with
--config, then environment variables (a .env file in the working directory
is read first), then flags. API keys come from OPENAI_API_KEY and
GEMINI_API_KEY, or from 'ipynb-translator auth set'.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flags, inherited by all subcommands
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	root.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable verbose logging")

	root.AddCommand(
		newTranslateCmd(),
		newFolderCmd(),
		newURLCmd(),
		newInfoCmd(),
		newLanguagesCmd(),
		newModelsCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ipynb-translator version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}

	return cmd
}

// ---------------------------------------------------------------------------
// translate (single notebook file)
// ---------------------------------------------------------------------------

func newTranslateCmd() *cobra.Command {
	var (
		a       translateArgs
		output  string
		preview bool
	)

	cmd := &cobra.Command{
		Use:   "translate FILE",
		Short: "Translate a notebook file",
		Long: `Translate the markdown cells of a notebook file.

The output is written next to the input as <name>_translated_<lang>.ipynb
unless --output names another path. Code, outputs, execution counts and
metadata are carried over unchanged; with --code-cells the line comments
inside code cells are translated as well.

Examples:
  # Translate to Korean with the default model
  ipynb-translator translate notebook.ipynb

  # Translate to Japanese with Gemini
  ipynb-translator translate notebook.ipynb --lang ja --model gemini-2.5-flash

  # Include code cell comments and preview before writing
  ipynb-translator translate notebook.ipynb --code-cells --preview

  # Use a local OpenAI-compatible server
  ipynb-translator translate notebook.ipynb --model llama-3.1-8b-instant --base-url http://localhost:11434/v1`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runTranslate(a, args[0], output, preview)
		},
	}

	addTranslateFlags(cmd, &a)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: <name>_translated_<lang>.ipynb)")
	cmd.Flags().BoolVar(&preview, "preview", false, "Show a translation preview and ask before writing")

	return cmd
}

func runTranslate(a translateArgs, inputPath, outputPath string, preview bool) {
	cfg := resolveConfig(a)
	if err := validateConfig(cfg); err != nil {
		logError("%v", err)
		os.Exit(1)
	}

	logInfo("Model: %s (%s), Target: %s (%s)", cfg.Model, backendLabel(cfg.Model),
		langmeta.Name(cfg.TargetLanguage), cfg.TargetLanguage)

	ctx, cancel := signalContext()
	defer cancel()

	prov, cleanup := buildProvider(ctx, cfg, a.timeout, a.noCache)
	defer cleanup()
	eng := buildEngine(prov, cfg, a.glossary)

	outPath, err := translateNotebook(ctx, eng, cfg, inputPath, outputPath, preview)
	if err != nil {
		if ctx.Err() != nil {
			logWarning(i18n.T("Cancelled"))
			os.Exit(0)
		}
		logError("Translation failed: %v", err)
		os.Exit(1)
	}

	if outPath != "" {
		logSuccess(i18n.T("Translation complete"))
	}
}

// ---------------------------------------------------------------------------
// folder (every notebook in a directory)
// ---------------------------------------------------------------------------

func newFolderCmd() *cobra.Command {
	var (
		a         translateArgs
		recursive bool
		assumeYes bool
	)

	cmd := &cobra.Command{
		Use:   "folder DIR",
		Short: "Translate every notebook in a directory",
		Long: `Translate every .ipynb file in a directory.

Outputs of previous runs (files named *_translated_*) and Jupyter
checkpoint copies are skipped. The notebooks found are listed before
translation starts; use --yes to skip the confirmation prompt.

Examples:
  ipynb-translator folder ./notebooks
  ipynb-translator folder ./course --recursive --lang ja --yes`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runFolder(a, args[0], recursive, assumeYes)
		},
	}

	addTranslateFlags(cmd, &a)
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into subdirectories")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func runFolder(a translateArgs, dir string, recursive, assumeYes bool) {
	cfg := resolveConfig(a)
	if err := validateConfig(cfg); err != nil {
		logError("%v", err)
		os.Exit(1)
	}

	paths, err := findNotebooks(dir, recursive)
	if err != nil {
		logError("Scanning %s: %v", dir, err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		logWarning("No notebooks found in %s", dir)
		return
	}

	logInfo(i18n.N("Found %d notebook", "Found %d notebooks", len(paths)), len(paths))
	for _, path := range paths {
		fmt.Fprintf(os.Stderr, "  %s\n", path)
	}

	if !assumeYes && !confirm(i18n.T("Continue?")) {
		logWarning(i18n.T("Cancelled"))
		return
	}

	logInfo("Model: %s (%s), Target: %s (%s)", cfg.Model, backendLabel(cfg.Model),
		langmeta.Name(cfg.TargetLanguage), cfg.TargetLanguage)

	ctx, cancel := signalContext()
	defer cancel()

	prov, cleanup := buildProvider(ctx, cfg, a.timeout, a.noCache)
	defer cleanup()
	eng := buildEngine(prov, cfg, a.glossary)

	translated, skipped, failed := 0, 0, 0
	for _, path := range paths {
		if ctx.Err() != nil {
			logWarning(i18n.T("Cancelled"))
			os.Exit(0)
		}

		outPath, err := translateNotebook(ctx, eng, cfg, path, "", false)
		if err != nil {
			if ctx.Err() != nil {
				logWarning(i18n.T("Cancelled"))
				os.Exit(0)
			}
			logError("%s: %v", path, err)
			failed++
			continue
		}
		if outPath == "" {
			skipped++
			continue
		}
		translated++
	}

	logInfo("Summary: %d translated, %d skipped, %d failed", translated, skipped, failed)
	if failed > 0 {
		os.Exit(1)
	}
	logSuccess(i18n.T("Translation complete"))
}

// ---------------------------------------------------------------------------
// url (download, then translate)
// ---------------------------------------------------------------------------

func newURLCmd() *cobra.Command {
	var (
		a            translateArgs
		keepOriginal bool
	)

	cmd := &cobra.Command{
		Use:   "url URL",
		Short: "Download a notebook and translate it",
		Long: `Download a notebook from a URL and translate it.

GitHub blob page URLs are converted to raw content URLs automatically, so
a browser link can be pasted directly. The downloaded file is removed
after a successful translation unless --keep-original is given.

Examples:
  ipynb-translator url https://github.com/user/repo/blob/main/demo.ipynb
  ipynb-translator url https://example.com/notebooks/intro.ipynb --keep-original --lang ja`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runURL(a, args[0], keepOriginal)
		},
	}

	addTranslateFlags(cmd, &a)
	cmd.Flags().BoolVar(&keepOriginal, "keep-original", false, "Keep the downloaded notebook after translation")

	return cmd
}

func runURL(a translateArgs, rawurl string, keepOriginal bool) {
	cfg := resolveConfig(a)
	if err := validateConfig(cfg); err != nil {
		logError("%v", err)
		os.Exit(1)
	}

	ctx, cancel := signalContext()
	defer cancel()

	target := fetch.ConvertGitHubURL(rawurl)
	if target != rawurl {
		logInfo("Using raw content URL: %s", target)
	}

	logInfo("Downloading %s", target)
	localPath, err := fetch.New(cfg.Proxy).Download(ctx, target, "")
	if err != nil {
		logError("Download failed: %v", err)
		os.Exit(1)
	}
	logSuccess("Downloaded: %s", localPath)

	logInfo("Model: %s (%s), Target: %s (%s)", cfg.Model, backendLabel(cfg.Model),
		langmeta.Name(cfg.TargetLanguage), cfg.TargetLanguage)

	prov, cleanup := buildProvider(ctx, cfg, a.timeout, a.noCache)
	defer cleanup()
	eng := buildEngine(prov, cfg, a.glossary)

	outPath, err := translateNotebook(ctx, eng, cfg, localPath, "", false)
	if err != nil {
		if ctx.Err() != nil {
			logWarning(i18n.T("Cancelled"))
			os.Exit(0)
		}
		logError("Translation failed: %v", err)
		os.Exit(1)
	}

	if outPath != "" && !keepOriginal {
		if err := os.Remove(localPath); err != nil {
			logWarning("Cannot remove downloaded notebook %s: %v", localPath, err)
		}
	}
	if outPath != "" {
		logSuccess(i18n.T("Translation complete"))
	}
}

// ---------------------------------------------------------------------------
// info (read-only: notebook structure + translatable counts)
// ---------------------------------------------------------------------------

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info FILE",
		Short: "Show notebook structure and translatable cell counts",
		Long: `Show a notebook's format version, kernel, per-type cell counts, and
how many cells would be sent for translation. Does not modify any files.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runInfo(args[0])
		},
	}

	return cmd
}

func runInfo(path string) {
	nb, err := nbfile.ParseFile(path)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}

	valid, msg := nbfile.Validate(nb)
	info := nb.Summarize()

	fmt.Fprintf(os.Stderr, "\n%sNotebook%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintf(os.Stderr, "  File:         %s\n", path)
	fmt.Fprintf(os.Stderr, "  Format:       %d.%d\n", info.Format, info.FormatMinor)
	if info.Kernel != nil {
		fmt.Fprintf(os.Stderr, "  Kernel:       %s (%s)\n", info.Kernel.DisplayName, info.Kernel.Name)
		if info.Kernel.Language != "" {
			fmt.Fprintf(os.Stderr, "  Language:     %s\n", info.Kernel.Language)
		}
	}

	fmt.Fprintf(os.Stderr, "  Cells:        %d\n", info.TotalCells)
	fmt.Fprintf(os.Stderr, "    markdown:   %d\n", info.CellCounts[nbfile.TypeMarkdown])
	fmt.Fprintf(os.Stderr, "    code:       %d\n", info.CellCounts[nbfile.TypeCode])
	if info.CellCounts[nbfile.TypeRaw] > 0 {
		fmt.Fprintf(os.Stderr, "    raw:        %d\n", info.CellCounts[nbfile.TypeRaw])
	}
	fmt.Fprintf(os.Stderr, "  Translatable: %d markdown, %d code cells\n", info.TranslatableMarkdown, info.TranslatableCode)
	fmt.Fprintln(os.Stderr)

	if valid {
		logSuccess("%s", msg)
	} else {
		logError("%s", msg)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// languages / models (read-only listings)
// ---------------------------------------------------------------------------

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported target languages",
		Run: func(cmd *cobra.Command, args []string) {
			runLanguages()
		},
	}
}

func runLanguages() {
	fmt.Fprintf(os.Stderr, "\n%sSupported Languages%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

	codes := langmeta.Codes()
	for _, code := range codes {
		meta := langmeta.Resolve(code)
		flag := meta.Flag
		if flag == "" {
			flag = "  "
		}
		fmt.Fprintf(os.Stderr, "  %s  %-7s %s\n", flag, code, meta.Name)
	}

	fmt.Fprintf(os.Stderr, "\n  %d languages. Default: %s (%s)\n\n",
		len(codes), config.DefaultTargetLanguage, langmeta.Name(config.DefaultTargetLanguage))
}

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List supported models",
		Run: func(cmd *cobra.Command, args []string) {
			runModels()
		},
	}
}

func runModels() {
	fmt.Fprintf(os.Stderr, "\n%sSupported Models%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

	for _, model := range config.SupportedModels {
		marker := " "
		if model == config.DefaultModel {
			marker = "*"
		}
		fmt.Fprintf(os.Stderr, "  %s %-26s %s\n", marker, model, backendLabel(model))
	}

	fmt.Fprintf(os.Stderr, "\n  * default. Models served by another OpenAI-compatible endpoint need --base-url.\n\n")
}

// backendLabel names the backend serving a model for display.
func backendLabel(model string) string {
	if provider.BackendFor(model) == provider.BackendGemini {
		return "Google Gemini"
	}
	return "OpenAI-compatible"
}

// ---------------------------------------------------------------------------
// auth (set / show / remove)
// ---------------------------------------------------------------------------

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored API credentials",
		Long: `Manage stored API credentials for the translation backends.

Keys are looked up in this order: the --api-key flag, the backend's
environment variable (OPENAI_API_KEY, GEMINI_API_KEY), then this store.

Examples:
  ipynb-translator auth set openai         Store an OpenAI API key
  ipynb-translator auth set gemini         Store a Gemini API key
  ipynb-translator auth show               Show stored credentials
  ipynb-translator auth remove gemini      Remove the Gemini key
  ipynb-translator auth remove             Remove all stored credentials`,
	}

	cmd.AddCommand(
		newAuthSetCmd(),
		newAuthShowCmd(),
		newAuthRemoveCmd(),
	)

	return cmd
}

func newAuthSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set PROVIDER",
		Short: "Store an API key for a backend",
		Long: `Store an API key for a backend (openai or gemini).

The key is written to the per-user credential store with owner-only file
permissions. For the openai backend an optional endpoint URL can be
stored too, for OpenAI-compatible services like Groq or Ollama.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runAuthSet(args[0])
		},
		ValidArgsFunction: completeProviders,
	}

	return cmd
}

// providerNames maps provider IDs to display names for auth output.
var providerNames = map[string]string{
	settings.ProviderOpenAI: "OpenAI",
	settings.ProviderGemini: "Google Gemini",
}

func runAuthSet(providerID string) {
	if !knownProvider(providerID) {
		logError("Unknown provider '%s'. Use one of: %s", providerID, strings.Join(settings.KnownProviders, ", "))
		os.Exit(1)
	}

	helpURLs := map[string]string{
		settings.ProviderOpenAI: "https://platform.openai.com/api-keys",
		settings.ProviderGemini: "https://aistudio.google.com/apikey",
	}
	exampleModels := map[string]string{
		settings.ProviderOpenAI: "gpt-4o-mini",
		settings.ProviderGemini: "gemini-2.5-flash",
	}

	fmt.Fprintf(os.Stderr, "\n%s%s API Key Setup%s\n", colorBlue, providerNames[providerID], colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "  Get your API key from: %s%s%s\n\n", colorGreen, helpURLs[providerID], colorReset)

	existing := settings.GetAPIKey(providerID)
	if existing != "" {
		fmt.Fprintf(os.Stderr, "  Current key: %s%s%s\n", colorYellow, settings.MaskKey(existing), colorReset)
		fmt.Fprintf(os.Stderr, "  Enter new key to replace, or press Enter to keep: ")
	} else {
		fmt.Fprintf(os.Stderr, "  Enter API key: ")
	}

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		logError("No input received")
		os.Exit(1)
	}
	key := strings.TrimSpace(scanner.Text())

	if key == "" {
		if existing != "" {
			logInfo("Keeping existing key")
			return
		}
		logError("No API key provided")
		os.Exit(1)
	}

	var err error
	if providerID == settings.ProviderOpenAI {
		existingURL := settings.GetBaseURL(providerID)
		if existingURL != "" {
			fmt.Fprintf(os.Stderr, "  Current endpoint: %s%s%s\n", colorYellow, existingURL, colorReset)
			fmt.Fprintf(os.Stderr, "  Enter new endpoint URL, or press Enter to keep: ")
		} else {
			fmt.Fprintf(os.Stderr, "  Endpoint URL for OpenAI-compatible services (press Enter to skip): ")
		}
		baseURL := existingURL
		if scanner.Scan() {
			if v := strings.TrimSpace(scanner.Text()); v != "" {
				baseURL = v
			}
		}
		err = settings.SetAPIKeyWithBaseURL(providerID, key, baseURL)
	} else {
		err = settings.SetAPIKey(providerID, key)
	}
	if err != nil {
		logError("Failed to save credentials: %v", err)
		os.Exit(1)
	}

	logSuccess("%s API key saved!", providerNames[providerID])
	fmt.Fprintf(os.Stderr, "\n  You can now use: ipynb-translator translate notebook.ipynb --model %s\n\n", exampleModels[providerID])
}

func newAuthShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show",
		Aliases: []string{"list", "ls"},
		Short:   "Show stored credentials and status",
		Run: func(cmd *cobra.Command, args []string) {
			runAuthShow()
		},
	}
}

func runAuthShow() {
	fmt.Fprintf(os.Stderr, "\n%sStored Credentials%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintf(os.Stderr, "\n  File: %s\n\n", settings.FilePath())

	for _, id := range settings.KnownProviders {
		entry := settings.Get(id)
		if entry != nil && entry.Key != "" {
			status := fmt.Sprintf("%sconfigured%s (key: %s)", colorGreen, colorReset, settings.MaskKey(entry.Key))
			if entry.BaseURL != "" {
				status += fmt.Sprintf("\n  %8s endpoint: %s", "", entry.BaseURL)
			}
			fmt.Fprintf(os.Stderr, "  %-8s %s\n", id, status)
		} else {
			fmt.Fprintf(os.Stderr, "  %-8s %snot configured%s\n", id, colorRed, colorReset)
		}
	}

	fmt.Fprintf(os.Stderr, "\n  %sEnvironment Variables%s\n", colorYellow, colorReset)
	for _, id := range settings.KnownProviders {
		envVar := settings.EnvVarForProvider(id)
		if v := os.Getenv(envVar); v != "" {
			fmt.Fprintf(os.Stderr, "  %s: %s%s%s (overrides stored keys)\n", envVar, colorGreen, settings.MaskKey(v), colorReset)
		} else {
			fmt.Fprintf(os.Stderr, "  %s: %snot set%s\n", envVar, colorRed, colorReset)
		}
	}
	fmt.Fprintln(os.Stderr)
}

func newAuthRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove [PROVIDER]",
		Aliases: []string{"rm"},
		Short:   "Remove stored credentials",
		Long: `Remove stored credentials for one backend, or for all backends when no
provider is named.`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				if err := settings.RemoveAll(); err != nil {
					logError("Failed to remove credentials: %v", err)
					os.Exit(1)
				}
				logSuccess("All stored credentials removed")
				return
			}

			providerID := args[0]
			if !knownProvider(providerID) {
				logError("Unknown provider '%s'. Use one of: %s", providerID, strings.Join(settings.KnownProviders, ", "))
				os.Exit(1)
			}
			if err := settings.Remove(providerID); err != nil {
				logError("Failed to remove %s credentials: %v", providerID, err)
				os.Exit(1)
			}
			logSuccess("%s credentials removed", providerNames[providerID])
		},
		ValidArgsFunction: completeProviders,
	}

	return cmd
}

func completeProviders(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	completions := make([]string, 0, len(settings.KnownProviders))
	for _, id := range settings.KnownProviders {
		completions = append(completions, fmt.Sprintf("%s\t%s", id, providerNames[id]))
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

func knownProvider(id string) bool {
	for _, p := range settings.KnownProviders {
		if p == id {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Shared translation plumbing
// ---------------------------------------------------------------------------

// translateArgs are the flags shared by translate, folder and url.
type translateArgs struct {
	lang, model, apiKey, baseURL string
	batchSize, maxTokens         int
	temperature                  float32
	literal, codeCells           bool
	glossary                     string
	noCache                      bool
	proxy                        string
	timeout                      time.Duration
}

// addTranslateFlags binds the shared translation flags.
func addTranslateFlags(cmd *cobra.Command, a *translateArgs) {
	cmd.Flags().StringVarP(&a.lang, "lang", "l", "", "Target language code (default: config, then 'ko')")
	cmd.Flags().StringVarP(&a.model, "model", "m", "", "Model identifier (default: config, then 'gpt-4o-mini')")
	cmd.Flags().StringVar(&a.apiKey, "api-key", "", "API key for the selected backend")
	cmd.Flags().StringVar(&a.baseURL, "base-url", "", "Custom OpenAI-compatible endpoint URL")
	cmd.Flags().IntVar(&a.batchSize, "batch-size", 0, "Markdown cells per batch request (default: config, then 20)")
	cmd.Flags().IntVar(&a.maxTokens, "max-tokens", 0, "Response token cap per request (default: config, then 4000)")
	cmd.Flags().Float32Var(&a.temperature, "temperature", 0, "Sampling temperature (default: config, then 0.1)")
	cmd.Flags().BoolVar(&a.literal, "literal", false, "Word-for-word translation without polishing")
	cmd.Flags().BoolVar(&a.codeCells, "code-cells", false, "Also translate comments inside code cells")
	cmd.Flags().StringVar(&a.glossary, "glossary", "", "YAML glossary file with fixed term translations")
	cmd.Flags().BoolVar(&a.noCache, "no-cache", false, "Skip the local translation cache")
	cmd.Flags().StringVar(&a.proxy, "proxy", "", "HTTP/HTTPS proxy URL")
	cmd.Flags().DurationVar(&a.timeout, "timeout", 0, "Request timeout (0 = backend default)")

	_ = cmd.RegisterFlagCompletionFunc("lang", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		codes := langmeta.Codes()
		completions := make([]string, 0, len(codes))
		for _, code := range codes {
			completions = append(completions, fmt.Sprintf("%s\t%s", code, langmeta.Name(code)))
		}
		return completions, cobra.ShellCompDirectiveNoFileComp
	})

	_ = cmd.RegisterFlagCompletionFunc("model", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		completions := make([]string, 0, len(config.SupportedModels))
		for _, model := range config.SupportedModels {
			completions = append(completions, fmt.Sprintf("%s\t%s", model, backendLabel(model)))
		}
		return completions, cobra.ShellCompDirectiveNoFileComp
	})
}

// resolveConfig layers the shared flags over the loaded configuration and
// fills missing API keys from the credential store.
func resolveConfig(a translateArgs) config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}

	if debugMode {
		cfg.Debug = true
	}
	if a.lang != "" {
		cfg.TargetLanguage = a.lang
	}
	if a.model != "" {
		cfg.Model = a.model
	}
	if a.batchSize > 0 {
		cfg.BatchSize = a.batchSize
	}
	if a.maxTokens > 0 {
		cfg.MaxTokens = a.maxTokens
	}
	if a.temperature > 0 {
		cfg.Temperature = a.temperature
	}
	if a.literal {
		cfg.EnablePolishing = false
	}
	if a.codeCells {
		cfg.TranslateCodeCells = true
	}
	if a.baseURL != "" {
		cfg.BaseURL = a.baseURL
	}
	if a.proxy != "" {
		cfg.Proxy = a.proxy
	}

	// Key resolution: flag, then environment/file (already in cfg), then
	// the credential store.
	switch provider.BackendFor(cfg.Model) {
	case provider.BackendGemini:
		if a.apiKey != "" {
			cfg.GeminiKey = a.apiKey
		} else if cfg.GeminiKey == "" {
			cfg.GeminiKey = settings.GetAPIKey(settings.ProviderGemini)
		}
	default:
		if a.apiKey != "" {
			cfg.OpenAIKey = a.apiKey
		} else if cfg.OpenAIKey == "" {
			cfg.OpenAIKey = settings.GetAPIKey(settings.ProviderOpenAI)
			if cfg.BaseURL == "" {
				cfg.BaseURL = settings.GetBaseURL(settings.ProviderOpenAI)
			}
		}
	}

	return cfg
}

// validateConfig checks the resolved configuration against the supported
// model and language sets and verifies credentials are available.
func validateConfig(cfg config.Config) error {
	if !config.ValidateModel(cfg.Model) {
		return fmt.Errorf("unsupported model '%s'\n\nRun 'ipynb-translator models' to see supported models", cfg.Model)
	}
	if !config.ValidateLanguage(cfg.TargetLanguage) {
		return fmt.Errorf("unsupported target language '%s'\n\nRun 'ipynb-translator languages' to see supported languages", cfg.TargetLanguage)
	}
	if ok, msg := cfg.CheckCredentials(); !ok {
		return fmt.Errorf("%s", msg)
	}
	return nil
}

// buildProvider constructs the backend for cfg wrapped in a circuit
// breaker and, unless disabled, the translation cache. The returned
// cleanup closes the cache store.
func buildProvider(ctx context.Context, cfg config.Config, timeout time.Duration, noCache bool) (provider.Provider, func()) {
	prov, err := provider.New(ctx, provider.Config{
		Model:   cfg.Model,
		APIKey:  cfg.APIKey(),
		BaseURL: cfg.BaseURL,
		Proxy:   cfg.Proxy,
		Timeout: timeout,
	})
	if err != nil {
		logError("Cannot initialize %s backend: %v", backendLabel(cfg.Model), err)
		os.Exit(1)
	}
	prov = provider.WithBreaker(prov)

	cleanup := func() {}
	if !noCache {
		path, err := cache.DefaultPath()
		if err == nil {
			store, err := cache.Open(path)
			if err == nil {
				prov = cache.Wrap(prov, store, cfg.Model)
				cleanup = func() { store.Close() }
				if cfg.Debug {
					logInfo("Translation cache: %s", path)
				}
			} else if cfg.Debug {
				logWarning("Translation cache unavailable: %v", err)
			}
		}
	}

	return prov, cleanup
}

// buildEngine wires the translation engine with the configured prompt
// options and log callbacks.
func buildEngine(prov provider.Provider, cfg config.Config, glossaryPath string) *translate.Engine {
	var glossary map[string]string
	if glossaryPath != "" {
		g, err := translate.LoadGlossary(glossaryPath)
		if err != nil {
			logError("%v", err)
			os.Exit(1)
		}
		glossary = g
	}

	return translate.New(prov, &translate.Options{
		Language:    cfg.TargetLanguage,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Literal:     !cfg.EnablePolishing,
		Glossary:    glossary,
		OnProgress: func(done, total int) {
			logInfo("  %d/%d", done, total)
		},
		OnLog: func(format string, args ...any) {
			logInfo(format, args...)
		},
		OnError: func(format string, args ...any) {
			logError(format, args...)
		},
	})
}

// translateNotebook runs the full translate-and-write pipeline for one
// notebook. It returns the output path, or "" when nothing was written
// because there was nothing to translate or the preview was declined.
func translateNotebook(ctx context.Context, eng *translate.Engine, cfg config.Config, inputPath, outputPath string, preview bool) (string, error) {
	logInfo(i18n.T("Loading notebook: %s"), inputPath)

	nb, err := nbfile.ParseFile(inputPath)
	if err != nil {
		return "", err
	}
	if ok, msg := nbfile.Validate(nb); !ok {
		return "", fmt.Errorf("invalid notebook: %s", msg)
	}

	info := nb.Summarize()
	if cfg.Debug {
		logInfo("%d cells: %d markdown, %d code, %d raw", info.TotalCells,
			info.CellCounts[nbfile.TypeMarkdown], info.CellCounts[nbfile.TypeCode], info.CellCounts[nbfile.TypeRaw])
	}

	records := nb.MarkdownRecords()
	var codeRecords []nbfile.Record
	if cfg.TranslateCodeCells {
		codeRecords = nb.CodeRecords()
	}
	if len(records) == 0 && len(codeRecords) == 0 {
		logWarning(i18n.T("No translatable cells found"))
		return "", nil
	}

	batch := cfg.BatchSize
	if batch <= 0 {
		batch = config.DefaultBatchSize
	}

	out := nb
	if len(records) > 0 {
		logInfo(i18n.T("Translating %d markdown cells"), len(records))

		sources := nbfile.Sources(records)
		translations := make([]string, 0, len(sources))
		for start := 0; start < len(sources); start += batch {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			end := min(start+batch, len(sources))
			outcomes := eng.TranslateBatch(ctx, sources[start:end])
			translations = append(translations, translate.Texts(outcomes)...)
			logInfo("  %d/%d", end, len(sources))
		}

		if preview {
			showPreview(sources, translations)
			if !confirm(i18n.T("Continue?")) {
				logWarning(i18n.T("Cancelled"))
				return "", nil
			}
		}

		stats := translate.ComputeStats(sources, translations)
		logInfo("Translated %d of %d markdown cells (%d unchanged)",
			stats.TranslatedCells, stats.TotalCells, stats.SkippedCells)
		if cfg.Debug {
			logInfo("Average cell length: %.0f chars in, %.0f chars out",
				stats.AvgOriginalLen, stats.AvgTranslatedLen)
		}

		out, err = nbfile.UpdateMarkdownCells(out, records, translations)
		if err != nil {
			return "", err
		}
	}

	if len(codeRecords) > 0 {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		logInfo(i18n.T("Translating code comments in %d cells"), len(codeRecords))

		codeTexts := eng.TranslateCodeCells(ctx, nbfile.Sources(codeRecords))
		out, err = nbfile.UpdateCodeCells(out, codeRecords, codeTexts)
		if err != nil {
			return "", err
		}
	}

	if outputPath == "" {
		outputPath = nbfile.OutputName(inputPath, cfg.TargetLanguage)
	}
	if err := out.WriteFile(outputPath); err != nil {
		return "", err
	}
	logSuccess(i18n.T("Output written to: %s"), outputPath)

	return outputPath, nil
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

// findNotebooks collects the translatable .ipynb files under dir, sorted
// by path.
func findNotebooks(dir string, recursive bool) ([]string, error) {
	var paths []string

	if recursive {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != dir && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if isNotebook(path) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if isNotebook(path) {
				paths = append(paths, path)
			}
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// isNotebook reports whether path is an .ipynb file that is neither a
// previous translation output nor a Jupyter checkpoint copy.
func isNotebook(path string) bool {
	name := filepath.Base(path)
	if !strings.HasSuffix(name, ".ipynb") {
		return false
	}
	if strings.Contains(name, "_translated_") {
		return false
	}
	if strings.Contains(path, ".ipynb_checkpoints") {
		return false
	}
	return true
}

// previewLimit is how many characters of a cell a preview row shows.
const previewLimit = 100

func showPreview(originals, translations []string) {
	fmt.Fprintf(os.Stderr, "\n%sTranslation Preview%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

	n := min(len(originals), len(translations))
	for i := 0; i < n; i++ {
		fmt.Fprintf(os.Stderr, "\n  Cell %d\n", i+1)
		fmt.Fprintf(os.Stderr, "  %s%s%s\n", colorYellow, truncate(originals[i], previewLimit), colorReset)
		fmt.Fprintf(os.Stderr, "  %s%s%s\n", colorGreen, truncate(translations[i], previewLimit), colorReset)
	}
	fmt.Fprintln(os.Stderr)
}

// truncate shortens s to limit runes, appending "..." when cut. Newlines
// are flattened so a preview row stays on one line.
func truncate(s string, limit int) string {
	flat := strings.ReplaceAll(s, "\n", " ")
	runes := []rune(flat)
	if len(runes) <= limit {
		return flat
	}
	return string(runes[:limit]) + "..."
}

// confirm prints a yes/no prompt and reads one line from stdin. Only an
// explicit yes answer returns true.
func confirm(prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", prompt)

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

// signalContext returns a context cancelled by the first interrupt
// signal, for graceful shutdown between provider calls.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		logWarning("Interrupted, stopping after the current request...")
		cancel()
	}()

	return ctx, cancel
}
