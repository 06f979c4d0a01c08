// scpterm reads SCP wiki pages in the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"scpterm/config"
	"scpterm/document"
	"scpterm/fetcher"
	"scpterm/input"
	"scpterm/pager"
	"scpterm/render"
	"scpterm/theme"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "scpterm",
		Usage:     "read SCP wiki pages in the terminal",
		ArgsUsage: "<id>",
		UsageText: `scpterm 173                 Page through SCP-173
scpterm -p 049 | less       Print the converted page
scpterm --init-config > ~/.config/scpterm/config.toml`,
		HideVersion: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "print",
				Aliases: []string{"p"},
				Usage:   "print the page to stdout instead of paging",
			},
			&cli.BoolFlag{
				Name:  "browser",
				Usage: "fetch with headless Chrome",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log debug output to stderr",
			},
			&cli.BoolFlag{
				Name:  "init-config",
				Usage: "print the default config and exit",
			},
		},
		Action: runAction,
	}
}

func runAction(c *cli.Context) error {
	if c.Bool("verbose") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Generate default config and exit
	if c.Bool("init-config") {
		fmt.Fprint(c.App.Writer, config.DefaultTOML())
		return nil
	}

	id := c.Args().First()
	if id == "" {
		return errors.New("missing page id (usage: scpterm <id>)")
	}

	cfg, err := config.Load()
	if err != nil {
		return errors.New(config.FormatError(err))
	}
	fetcher.Configure(fetcher.Options{
		BaseURL:        cfg.Fetcher.BaseURL,
		UserAgent:      cfg.Fetcher.UserAgent,
		TimeoutSeconds: cfg.Fetcher.TimeoutSeconds,
		UseBrowser:     cfg.Fetcher.UseBrowser || c.Bool("browser"),
		ChromePath:     cfg.Fetcher.ChromePath,
	})

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	doc, err := load(ctx, fetcher.PageURL(cfg.Fetcher.BaseURL, id))
	if err != nil {
		return err
	}
	text := doc.String()

	if c.Bool("print") || !term.IsTerminal(int(os.Stdout.Fd())) {
		_, err := io.WriteString(c.App.Writer, text)
		return err
	}
	return page(text, cfg)
}

// load fetches and converts a page, animating a spinner on stderr while the
// fetch runs.
func load(ctx context.Context, url string) (*document.Document, error) {
	log.Debug().Str("url", url).Msg("loading page")

	done := make(chan struct{})
	finished := make(chan struct{})
	if term.IsTerminal(int(os.Stderr.Fd())) && zerolog.GlobalLevel() > zerolog.DebugLevel {
		style := render.SpinnerBraille
		if fetcher.UsesBrowser() {
			style = render.SpinnerGlobe
		}
		label := "Loading " + url
		if w, _, err := render.TerminalSize(os.Stderr); err == nil {
			label = render.Truncate(label, w-2)
		}
		go func() {
			render.NewSpinner(style).Run(os.Stderr, label, done)
			close(finished)
		}()
	} else {
		close(finished)
	}

	result, err := fetcher.Fetch(ctx, url)
	close(done)
	<-finished
	if err != nil {
		return nil, err
	}

	doc, err := document.Extract(result.HTML)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", result.FinalURL, err)
	}
	log.Debug().
		Str("title", doc.Title).
		Int("bytes", len(doc.Body)).
		Dur("fetch", result.FetchTime).
		Bool("browser", result.UsedBrowser).
		Msg("page converted")
	return doc, nil
}

// page shows text in the alternate screen until a non-navigation key is
// pressed. The terminal is restored on every return path.
func page(text string, cfg *config.Config) error {
	width, height, err := render.TerminalSize(os.Stdout)
	if err != nil {
		return fmt.Errorf("terminal: reading size: %w", err)
	}

	t, err := render.NewTerminal(os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	if err := t.Open(); err != nil {
		return err
	}
	defer t.Close()

	events := input.NewReader(os.Stdin, func() (int, int, error) {
		return render.TerminalSize(os.Stdout)
	})
	defer events.Close()

	skin := theme.Default().
		WithColors(cfg.Skin.BoldColor, cfg.Skin.CodeColor)
	if cfg.Skin.QuoteDim != nil {
		skin = skin.WithQuoteDim(*cfg.Skin.QuoteDim)
	}

	loop := &pager.Loop{
		View:       pager.NewWithMargin(text, pager.Viewport{Width: width, Height: height}, cfg.Pager.Margin),
		Events:     events,
		Screen:     pager.NewTerminalScreen(os.Stdout, skin),
		ScrollStep: cfg.Pager.ScrollLines,
	}
	return loop.Run()
}
