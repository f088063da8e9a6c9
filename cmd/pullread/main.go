package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/shellen/pullread-sub001"
	"github.com/shellen/pullread-sub001/acquire"
	"github.com/shellen/pullread-sub001/cookies"
	"github.com/shellen/pullread-sub001/htmltomarkdown"
	prhttp "github.com/shellen/pullread-sub001/http"
	"github.com/shellen/pullread-sub001/meta"
	"github.com/shellen/pullread-sub001/pdf"
	"github.com/shellen/pullread-sub001/readability"
	"github.com/shellen/pullread-sub001/scholar"
	prslog "github.com/shellen/pullread-sub001/slog"
	"github.com/shellen/pullread-sub001/trafilatura"
	"github.com/shellen/pullread-sub001/wayback"
	"github.com/shellen/pullread-sub001/youtube"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pullread"),
		kong.Description("Fetch a URL and extract its readable content as markdown"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	_, err = parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	acquirer := buildAcquirer(cli, logger)

	article, err := acquirer.Acquire(ctx, cli.URL, pullread.FetchOptions{
		UseBrowserCookies: cli.BrowserCookies,
	})
	if err != nil {
		return fmt.Errorf("%s: %s", pullread.ErrorCode(err), pullread.ErrorMessage(err))
	}

	if cli.JSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(article)
	}
	fmt.Fprintf(stdout, "# %s\n\n%s\n", article.Title, article.Markdown)
	return nil
}

// buildAcquirer wires the full pipeline: cookie sources, fetcher with
// archive fallback, extraction ladder, strategy services and logging.
func buildAcquirer(cli *CLI, logger *slog.Logger) pullread.Acquirer {
	fetcherOpts := []prhttp.Option{
		prhttp.WithTimeout(cli.Timeout),
		prhttp.WithArchive(wayback.NewClient()),
	}
	if cli.BrowserCookies {
		fetcherOpts = append(fetcherOpts, prhttp.WithCookieSource(cookies.NewChain()))
	}
	fetcher := prhttp.NewFetcher(fetcherOpts...)

	var acquirer pullread.Acquirer = acquire.NewAcquirer(
		prslog.NewLoggingFetcher(fetcher, logger),
		htmltomarkdown.NewConverter(),
		acquire.WithShortlinkResolver(fetcher),
		acquire.WithExtractors(readability.NewExtractor(), trafilatura.NewExtractor()),
		acquire.WithMetadataFallback(meta.NewExtractor()),
		acquire.WithPDFProcessor(pdf.NewProcessor()),
		acquire.WithTranscripts(youtube.NewClient()),
		acquire.WithPaperMetadata(scholar.NewClient()),
	)
	return prslog.NewLoggingAcquirer(acquirer, logger)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	JSON           bool          `short:"j" help:"Emit the full article record as JSON"`
	BrowserCookies bool          `short:"b" help:"Send cookies from a local browser profile"`
	Verbose        bool          `short:"v" help:"Enable debug logging"`
	Timeout        time.Duration `short:"t" default:"30s" help:"Fetch timeout per attempt"`
	URL            string        `arg:"" required:"" help:"URL to fetch and extract"`
}
