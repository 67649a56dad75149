package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"netval/internal/config"
	"netval/internal/formatter"
	"netval/internal/netvalue"
	"netval/internal/output"
	"netval/internal/scraper"
	_ "netval/internal/sites/cmb"
	_ "netval/internal/sites/icbc"
)

var version = "dev"

var (
	site         string
	outputFormat string
	outputFile   string
	outputDir    string
	save         bool
	timeout      time.Duration
	waitTimeout  time.Duration
	forceBrowser bool
	showUI       bool
	proxyURL     string
	maxScrolls   int
	configPath   string
	verbose      bool
)

// filePrefixes names the saved artifacts per site, matching the archive
// naming the previous exports used.
var filePrefixes = map[string]string{
	"icbc": "icbc_net_value",
	"cmb":  "cmb_product_netvalue",
}

func main() {
	rootCmd := &cobra.Command{
		Use:     "netval --site SITE [URL]",
		Short:   "Scrape bank net-value disclosure pages into JSON/CSV",
		Version: version,
		Long: `netval fetches the net-value (NAV) disclosure pages published by ICBC
and CMB, extracts the HTML table data and exports it as JSON, CSV,
Markdown or plain text. Pages rendered with JavaScript are fetched
through a headless browser.`,
		Example: `  # Scrape the default ICBC disclosure page, print JSON
  netval --site icbc

  # Scrape a specific product page and save timestamped JSON + CSV files
  netval --site icbc "https://www.icbc.com.cn/webpage/finance/disclosure/detail/net-value/?prodId=21GS6173&saleTarget=7" --save

  # Scrape the CMB product net-value page into one CSV file
  netval --site cmb -o netvalue.csv

  # Watch the browser work on a stubborn page
  netval --site cmb --showui -f text`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         run,
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVar(&site, "site", "", "Site to scrape (icbc, cmb)")
	rootCmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format (json, csv, markdown, text, html)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (format inferred from extension if -f not specified)")
	rootCmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for --save artifacts (default from config)")
	rootCmd.Flags().BoolVar(&save, "save", false, "Save timestamped JSON and per-table CSV files to the output directory")
	rootCmd.Flags().DurationVarP(&timeout, "timeout", "t", 0, "Page load timeout (default from config)")
	rootCmd.Flags().DurationVar(&waitTimeout, "wait-timeout", 0, "Element wait timeout (default from config)")
	rootCmd.Flags().BoolVar(&forceBrowser, "browser", false, "Force the headless browser even when plain HTTP would do")
	rootCmd.Flags().BoolVar(&showUI, "showui", false, "Show browser UI (disable headless mode)")
	rootCmd.Flags().StringVarP(&proxyURL, "proxy", "p", os.Getenv("NETVAL_PROXY"), "Proxy URL (e.g. http://127.0.0.1:7890), defaults to NETVAL_PROXY env var")
	rootCmd.Flags().IntVar(&maxScrolls, "max-scrolls", -1, "Max scroll-to-bottom iterations for lazy pages (-1 for config default)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Config file path (default probes netval.yaml)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log := setupLogger(verbose)

	cfg, found, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if found {
		log.Debug().Msg("config file loaded")
	}

	// If an output file is specified but the format is not, infer the
	// format from the file extension.
	if outputFile != "" && !cmd.Flags().Changed("format") {
		if inferred := inferFormatFromExtension(outputFile); inferred != "" {
			outputFormat = inferred
		}
	}

	if err := validateFlags(); err != nil {
		return err
	}

	s, ok := scraper.Get(site)
	if !ok {
		return fmt.Errorf("unknown site: %s (available: %s)", site, strings.Join(scraper.Names(), ", "))
	}

	target := cfg.SiteURL(site)
	if len(args) == 1 {
		target = normalizeURL(args[0])
	}
	if target == "" {
		return fmt.Errorf("no URL given and no default configured for site %s", site)
	}

	opts := buildOptions(cfg, log)

	content, err := s.Scrape(context.Background(), target, opts)
	if err != nil {
		return fmt.Errorf("failed to scrape: %w", err)
	}

	writer := &output.Writer{
		Dir: firstNonEmpty(outputDir, cfg.Output.Dir),
		BOM: cfg.CSVBOM(),
		Log: log,
	}

	if save {
		if err := saveArtifacts(writer, content, log); err != nil {
			return err
		}
	}

	if outputFile != "" || !save {
		formatted, err := formatter.Format(content, outputFormat)
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		if outputFile != "" {
			if err := writer.WriteFile(outputFile, formatted); err != nil {
				return err
			}
		} else {
			fmt.Println(formatted)
		}
	}

	return nil
}

func setupLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()
}

func buildOptions(cfg config.File, log zerolog.Logger) scraper.Options {
	opts := scraper.Options{
		Timeout:      cfg.Timeouts.Page.Std(),
		WaitTimeout:  cfg.Timeouts.Element.Std(),
		ForceBrowser: forceBrowser,
		ShowUI:       showUI || !cfg.Headless(),
		ProxyURL:     firstNonEmpty(proxyURL, cfg.Browser.Proxy),
		WindowSize:   cfg.Browser.WindowSize,
		MaxScrolls:   cfg.Scroll.Max,
		ScrollDelay:  cfg.Scroll.Delay.Std(),
		Logger:       log,
	}
	if timeout > 0 {
		opts.Timeout = timeout
	}
	if waitTimeout > 0 {
		opts.WaitTimeout = waitTimeout
	}
	if maxScrolls >= 0 {
		opts.MaxScrolls = maxScrolls
	}
	return opts
}

// saveArtifacts writes the timestamped JSON snapshot and one CSV per
// extracted table, then logs a run summary.
func saveArtifacts(writer *output.Writer, content scraper.Content, log zerolog.Logger) error {
	prefix := filePrefixes[site]
	if prefix == "" {
		prefix = site
	}

	jsonPath, err := writer.WriteJSON(prefix, content)
	if err != nil {
		return err
	}

	nc, ok := content.(*netvalue.Content)
	if !ok {
		return nil
	}
	snap := nc.Snapshot()

	csvPaths, err := writer.WriteTableCSVs(prefix, snap.Tables)
	if err != nil {
		return err
	}

	log.Info().
		Str("json", jsonPath).
		Int("csv_files", len(csvPaths)).
		Int("tables", len(snap.Tables)).
		Msg("scrape saved")
	return nil
}

func validateFlags() error {
	if site == "" {
		return fmt.Errorf("--site is required (available: %s)", strings.Join(scraper.Names(), ", "))
	}

	validFormats := map[string]bool{
		"json":     true,
		"csv":      true,
		"markdown": true,
		"text":     true,
		"html":     true,
	}
	if !validFormats[outputFormat] {
		return fmt.Errorf("invalid output format: %s", outputFormat)
	}
	return nil
}

// inferFormatFromExtension infers the output format from a file extension.
func inferFormatFromExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return "json"
	case ".csv":
		return "csv"
	case ".md", ".markdown":
		return "markdown"
	case ".html", ".htm":
		return "html"
	case ".txt":
		return "text"
	default:
		return ""
	}
}

// normalizeURL adds https:// when the URL has no protocol prefix.
func normalizeURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return rawURL
	}
	lower := strings.ToLower(rawURL)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return "https://" + rawURL
	}
	return rawURL
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
