package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"ytpl/config"
	ythttp "ytpl/http"
	"ytpl/internal/logging"
	"ytpl/youtube/playlist"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches a command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 1
	}

	command := args[0]
	rest := args[1:]

	switch command {
	case "playlist":
		return cmdPlaylist(rest, stdout, stderr)
	case "search":
		return cmdSearch(rest, stdout, stderr)
	case "resolve":
		return cmdResolve(rest, stdout, stderr)
	case "validate":
		return cmdValidate(rest, stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stderr)
		return 0
	default:
		// a bare query fetches the playlist
		return cmdPlaylist(args, stdout, stderr)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `ytpl - YouTube playlist scraper

Usage:
  ytpl playlist [flags] <query>   Fetch a playlist by URL, ID or channel
  ytpl search [flags] <text>      Find playlists by name and fetch them
  ytpl resolve <query>            Print the playlist ID a query resolves to
  ytpl validate <query>...        Check queries without fetching anything
  ytpl help                       Show this help message

Examples:
  ytpl PLAYLIST_ID                                               # Fetch (default)
  ytpl playlist --limit 50 https://www.youtube.com/playlist?list=PL...
  ytpl playlist --json https://www.youtube.com/user/someone     # Uploads as JSON
  ytpl playlist -H "Cookie: PREF=hl=de" PL...                   # Extra headers
  ytpl search --limit 3 "lofi beats"

Configuration is read from ytpl.json or ~/.config/ytpl/ytpl.json and
YTPL_* environment variables.

For help on specific command: ytpl <command> -h
`)
}

// headerFlags collects repeated -H "Name: value" flags.
type headerFlags struct {
	h *ythttp.Header
}

func (f *headerFlags) String() string {
	if f.h == nil {
		return ""
	}
	var parts []string
	f.h.Each(func(name, value string) {
		parts = append(parts, name+": "+value)
	})
	return strings.Join(parts, ", ")
}

func (f *headerFlags) Set(s string) error {
	name, value, ok := strings.Cut(s, ":")
	if !ok || strings.TrimSpace(name) == "" {
		return fmt.Errorf("header %q is not of the form \"Name: value\"", s)
	}
	if f.h == nil {
		f.h = ythttp.NewHeader()
	}
	f.h.Set(strings.TrimSpace(name), strings.TrimSpace(value))
	return nil
}

// fetchFlags are shared by the commands that download playlists.
type fetchFlags struct {
	limit   *int
	gl      *string
	hl      *string
	retries *int
	asJSON  *bool
	headers headerFlags
}

func addFetchFlags(fs *flag.FlagSet) *fetchFlags {
	f := &fetchFlags{
		limit:   fs.Int("limit", -1, "Maximum items per playlist (0 = all, default from config)"),
		gl:      fs.String("gl", "", "Region code (default from config)"),
		hl:      fs.String("hl", "", "Language code (default from config)"),
		retries: fs.Int("retries", -1, "Extra page fetches when a page cannot be parsed (default from config)"),
		asJSON:  fs.Bool("json", false, "Print results as JSON"),
	}
	fs.Var(&f.headers, "H", "Extra request header \"Name: value\" (repeatable)")
	return f
}

// apply overrides cfg with the flags that were set.
func (f *fetchFlags) apply(cfg *config.Config) {
	if *f.limit >= 0 {
		cfg.Limit = *f.limit
	}
	if *f.gl != "" {
		cfg.GL = *f.gl
	}
	if *f.hl != "" {
		cfg.HL = *f.hl
	}
	if *f.retries >= 0 {
		cfg.Retries = *f.retries
	}
}

// setup loads the configuration and builds the logger and the client.
// The returned func releases the transport.
func setup(stderr io.Writer) (*config.Config, zerolog.Logger, *playlist.Client, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), nil, nil, fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, zerolog.Nop(), nil, nil, fmt.Errorf("configuring logging: %w", err)
	}

	transport := ythttp.New(cfg.HTTPConfig(logger))
	client := playlist.NewClient(transport, cfg.ClientOptions(logger)...)
	return cfg, logger, client, func() { transport.Close() }, nil
}

// newFlagSet returns a flag set that reports parse errors instead of exiting.
func newFlagSet(name, usage string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	return fs
}

// parseFlags parses args into fs. When ok is false the command must return
// code.
func parseFlags(fs *flag.FlagSet, args []string) (code int, ok bool) {
	err := fs.Parse(args)
	switch {
	case err == nil:
		return 0, true
	case errors.Is(err, flag.ErrHelp):
		return 0, false
	default:
		return 2, false
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func cmdPlaylist(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("playlist", "Usage: ytpl playlist [flags] <query>\n\nFlags:\n", stderr)
	flags := addFetchFlags(fs)
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintf(stderr, "Error: missing query\n")
		fs.Usage()
		return 1
	}
	query := argv[0]

	cfg, logger, client, closeTransport, err := setup(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer closeTransport()
	flags.apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info().Str("query", query).Msg("fetching playlist")
	res, err := client.Search(ctx, query, cfg.PlaylistOptions(flags.headers.h), cfg.Retries)
	if err != nil {
		reportSearchError(stderr, err)
		return 1
	}

	if *flags.asJSON {
		return writeJSON(stdout, stderr, res)
	}
	printResult(stdout, res)
	fmt.Fprintf(stderr, "\nTotal: %d of %d items\n", len(res.Items), res.TotalItems)
	return 0
}

func cmdSearch(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("search", "Usage: ytpl search [flags] <text>\n\nFlags:\n", stderr)
	flags := addFetchFlags(fs)
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintf(stderr, "Error: missing search text\n")
		fs.Usage()
		return 1
	}
	text := strings.Join(argv, " ")

	cfg, logger, client, closeTransport, err := setup(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer closeTransport()
	flags.apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info().Str("text", text).Msg("searching playlists")
	results, err := client.EnhancedSearch(ctx, text, cfg.PlaylistOptions(flags.headers.h), cfg.Retries)
	if err != nil {
		reportSearchError(stderr, err)
		return 1
	}

	if len(results) == 0 {
		fmt.Fprintln(stdout, "No playlists found.")
		return 0
	}
	if *flags.asJSON {
		return writeJSON(stdout, stderr, results)
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PLAYLIST ID\tTITLE\tITEMS\tVIEWS")
	for _, res := range results {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", res.ID, truncate(res.Title, 50), res.TotalItems, res.Views)
	}
	w.Flush()
	return 0
}

func cmdResolve(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("resolve", "Usage: ytpl resolve <query>\n", stderr)
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintf(stderr, "Error: missing query\n")
		fs.Usage()
		return 1
	}

	_, _, client, closeTransport, err := setup(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer closeTransport()

	ctx, cancel := signalContext()
	defer cancel()

	id, err := client.Resolve(ctx, argv[0])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, id)
	return 0
}

func cmdValidate(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("validate", "Usage: ytpl validate <query>...\n", stderr)
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintf(stderr, "Error: missing query\n")
		fs.Usage()
		return 1
	}

	invalid := 0
	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	for _, q := range argv {
		status := "valid"
		if !playlist.IsValidQuery(q) {
			status = "invalid"
			invalid++
		}
		fmt.Fprintf(w, "%s\t%s\n", status, q)
	}
	w.Flush()

	if invalid > 0 {
		return 1
	}
	return 0
}

func reportSearchError(w io.Writer, err error) {
	var upstream *playlist.UpstreamError
	switch {
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(w, "Interrupted.\n")
	case errors.As(err, &upstream):
		fmt.Fprintf(w, "YouTube says: %s\n", upstream.Message)
	case errors.Is(err, playlist.ErrUnsupportedMix):
		fmt.Fprintf(w, "Error: mixes cannot be fetched, pass a regular playlist instead\n")
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}

func printResult(w io.Writer, res *playlist.Result) {
	fmt.Fprintf(w, "Playlist:    %s\n", res.Title)
	fmt.Fprintf(w, "ID:          %s\n", res.ID)
	fmt.Fprintf(w, "URL:         %s\n", res.URL)
	fmt.Fprintf(w, "Items:       %d\n", res.TotalItems)
	if res.Views > 0 {
		fmt.Fprintf(w, "Views:       %d\n", res.Views)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VIDEO ID\tTITLE\tDURATION\tAUTHOR\tLIVE")
	for _, it := range res.Items {
		duration := ""
		if it.Duration != nil {
			duration = *it.Duration
		}
		live := ""
		if it.IsLive {
			live = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			it.ID,
			truncate(it.Title, 50),
			duration,
			truncate(it.Author.Name, 30),
			live,
		)
	}
	tw.Flush()
}

func writeJSON(w, stderr io.Writer, v any) int {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(stderr, "Error encoding output: %v\n", err)
		return 1
	}
	return 0
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
