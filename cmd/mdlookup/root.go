package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cesargomez89/mdlookup/internal/app"
	"github.com/cesargomez89/mdlookup/internal/config"
	"github.com/cesargomez89/mdlookup/internal/constants"
	"github.com/cesargomez89/mdlookup/internal/logger"
	"github.com/cesargomez89/mdlookup/internal/metrics"
	"github.com/cesargomez89/mdlookup/internal/query"
	"github.com/cesargomez89/mdlookup/internal/tagquery"
)

// cli carries the state shared by every subcommand.
type cli struct {
	cfgFile      string
	providerName string
	noJournal    bool
	logLevel     string

	rt *app.Runtime
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   constants.AppName,
		Short: "Search music metadata services with structured queries",
		Long: `mdlookup builds a search expression from track fields, compiles it to the
query syntax of a metadata provider (MusicBrainz by default) and prints the
provider's response as JSON.`,
		Version:       constants.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default ./mdlookup.toml when present)")
	rootCmd.PersistentFlags().StringVarP(&c.providerName, "provider", "p", "", "provider to query (default provider when empty)")
	rootCmd.PersistentFlags().BoolVar(&c.noJournal, "no-journal", false, "do not record lookups")
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override the configured log level")

	rootCmd.AddCommand(
		c.searchCmd(),
		c.compileCmd(),
		c.fileCmd(),
		c.historyCmd(),
		c.providersCmd(),
	)
	return rootCmd
}

// setup loads the configuration and wires the lookup service. Logs go to stderr
// so stdout stays machine readable.
func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.cfgFile)
	if err != nil {
		return err
	}
	if c.noJournal {
		cfg.Journal.Enabled = false
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Output: cmd.ErrOrStderr(),
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	metrics.Register()

	rt, err := app.NewRuntime(cfg, log)
	if err != nil {
		return err
	}
	c.rt = rt
	return nil
}

func (c *cli) teardown() {
	if c.rt != nil {
		_ = c.rt.Close()
		c.rt = nil
	}
}

// withRuntime wraps a RunE so the runtime exists for its duration.
func (c *cli) withRuntime(run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := c.setup(cmd); err != nil {
			return err
		}
		defer c.teardown()
		return run(cmd, args)
	}
}

// fieldFlags are the track fields a query can be built from.
type fieldFlags struct {
	title   string
	artists []string
	album   string
	year    int
	tnum    int
	tracks  int
	dur     int
	custom  []string
	or      bool
}

func (f *fieldFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.title, "title", "", "recording title")
	fs.StringArrayVar(&f.artists, "artist", nil, "artist name (repeat for several artists)")
	fs.StringVar(&f.album, "album", "", "release title")
	fs.IntVar(&f.year, "year", 0, "release year")
	fs.IntVar(&f.tnum, "tnum", 0, "track number")
	fs.IntVar(&f.tracks, "tracks", 0, "number of tracks on the medium")
	fs.IntVar(&f.dur, "dur", 0, "length in milliseconds")
	fs.StringArrayVar(&f.custom, "raw", nil, "provider field as key=value (repeatable)")
	fs.BoolVar(&f.or, "or", false, "match any field instead of all of them")
}

// expr combines the set fields in flag order.
func (f *fieldFlags) expr() (query.Expr, error) {
	var parts []query.Expr
	if f.title != "" {
		parts = append(parts, query.Title(f.title))
	}
	switch len(f.artists) {
	case 0:
	case 1:
		parts = append(parts, query.Artist(f.artists[0]))
	default:
		parts = append(parts, query.Artists(f.artists...))
	}
	if f.album != "" {
		parts = append(parts, query.Album(f.album))
	}
	if f.year != 0 {
		parts = append(parts, query.Year(f.year))
	}
	if f.tnum != 0 {
		parts = append(parts, query.TrackNumber(f.tnum))
	}
	if f.tracks != 0 {
		parts = append(parts, query.TotalTracks(f.tracks))
	}
	if f.dur != 0 {
		parts = append(parts, query.Length(f.dur))
	}
	for _, kv := range f.custom {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return query.Expr{}, fmt.Errorf("invalid --raw %q, want key=value", kv)
		}
		parts = append(parts, query.Custom(key, value))
	}

	if len(parts) == 0 {
		return query.Expr{}, errors.New("no query fields given")
	}
	if f.or {
		return query.Any(parts...), nil
	}
	return query.All(parts...), nil
}

func (c *cli) searchCmd() *cobra.Command {
	var fields fieldFlags
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search a provider for recordings",
		Example: `  mdlookup search --title "Great Song" --artist "Cool Artist"
  mdlookup search --artist x --artist y --year 1999`,
		Args: cobra.NoArgs,
		RunE: c.withRuntime(func(cmd *cobra.Command, args []string) error {
			q, err := fields.expr()
			if err != nil {
				return err
			}
			res, err := c.rt.Lookups.Search(cmd.Context(), c.providerName, q)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		}),
	}
	fields.register(cmd)
	return cmd
}

func (c *cli) compileCmd() *cobra.Command {
	var fields fieldFlags
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Print the provider query for the given fields without sending it",
		Args:  cobra.NoArgs,
		RunE: c.withRuntime(func(cmd *cobra.Command, args []string) error {
			q, err := fields.expr()
			if err != nil {
				return err
			}
			compiled, err := c.rt.Lookups.Compile(c.providerName, q)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), compiled)
			return err
		}),
	}
	fields.register(cmd)
	return cmd
}

type fileResult struct {
	Path   string      `json:"path"`
	Query  query.Expr  `json:"query"`
	Result *app.Result `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func (c *cli) fileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "file <path>...",
		Short: "Search using the tags of MP3 or FLAC files",
		Args:  cobra.MinimumNArgs(1),
		RunE: c.withRuntime(func(cmd *cobra.Command, args []string) error {
			results := make([]fileResult, len(args))
			var exprs []query.Expr
			var index []int
			for i, path := range args {
				results[i].Path = path
				q, err := tagquery.FromFile(path)
				if err != nil {
					results[i].Error = err.Error()
					continue
				}
				results[i].Query = q
				exprs = append(exprs, q)
				index = append(index, i)
			}

			if len(exprs) > 0 {
				items, err := c.rt.Lookups.SearchMany(cmd.Context(), c.providerName, exprs)
				if err != nil {
					return err
				}
				for j, item := range items {
					r := &results[index[j]]
					r.Result = item.Result
					if item.Err != nil {
						r.Error = item.Err.Error()
					}
				}
			}
			return printJSON(cmd.OutOrStdout(), results)
		}),
	}
}

func (c *cli) historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent lookups from the journal",
		Args:  cobra.NoArgs,
		RunE: c.withRuntime(func(cmd *cobra.Command, args []string) error {
			lookups, err := c.rt.Lookups.History(limit)
			if err != nil {
				return err
			}
			stats, err := c.rt.Lookups.Stats()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"lookups": lookups,
				"stats":   stats,
			})
		}),
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", constants.DefaultHistoryItems, "number of lookups to show")
	return cmd
}

func (c *cli) providersCmd() *cobra.Command {
	var setDefault string
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List providers or change the default one",
		Args:  cobra.NoArgs,
		RunE: c.withRuntime(func(cmd *cobra.Command, args []string) error {
			if setDefault != "" {
				if err := c.rt.Lookups.SetDefaultProvider(setDefault); err != nil {
					return err
				}
			}
			names, def := c.rt.Lookups.Providers()
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"providers": names,
				"default":   def,
			})
		}),
	}
	cmd.Flags().StringVar(&setDefault, "set-default", "", "make this provider the default")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
