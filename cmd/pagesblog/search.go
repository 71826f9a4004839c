package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eringen/pagesblog"
	"github.com/eringen/pagesblog/frontmatter"
	"github.com/eringen/pagesblog/loader"
	"github.com/eringen/pagesblog/post"
	"github.com/eringen/pagesblog/search"
)

var (
	contentSource string
	searchOpts    struct {
		tag      string
		tags     string
		category string
		from     string
		to       string
		json     bool
	}
)

func contentLoader() (*loader.Loader, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if contentSource != "" {
		cfg.ContentSource = contentSource
	}
	return pagesblog.NewContentLoader(cfg, nil)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the post index",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := contentLoader()
		if err != nil {
			return err
		}
		posts, err := l.LoadIndex(cmd.Context())
		if err != nil {
			return err
		}

		query := ""
		if len(args) > 0 {
			query = args[0]
		}
		opts, err := search.ParseOptions(searchOpts.tags, searchOpts.category, searchOpts.from, searchOpts.to)
		if err != nil {
			return err
		}
		results := search.NewEngine(posts).AdvancedSearch(query, posts, opts)
		if query == "" && opts.IsZero() {
			results = search.Apply(searchOpts.tag, results)
		}

		if searchOpts.json {
			if results == nil {
				results = []post.Post{}
			}
			return writeJSON(cmd.OutOrStdout(), results)
		}
		printPosts(cmd.OutOrStdout(), results)
		return nil
	},
}

func printPosts(w io.Writer, posts []post.Post) {
	for _, p := range posts {
		line := p.Date + "  " + p.Title + "  (" + p.File + ")"
		if len(p.Tags) > 0 {
			line += "  #" + strings.Join(p.Tags, " #")
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "%d posts\n", len(posts))
}

var suggestCmd = &cobra.Command{
	Use:   "suggest <query>",
	Short: "Print search suggestions for a partial query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := contentLoader()
		if err != nil {
			return err
		}
		posts, err := l.LoadIndex(cmd.Context())
		if err != nil {
			return err
		}
		for _, s := range search.Suggest(args[0], posts) {
			fmt.Fprintln(cmd.OutOrStdout(), s)
		}
		return nil
	},
}

var frontmatterCmd = &cobra.Command{
	Use:   "frontmatter <file>",
	Short: "Print a markdown document's front matter as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		_, fm := frontmatter.Parse(string(b))
		return writeJSON(cmd.OutOrStdout(), fm)
	},
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	for _, c := range []*cobra.Command{searchCmd, suggestCmd} {
		c.Flags().StringVar(&contentSource, "content", "", "content directory or base URL (overrides CONTENT_SOURCE)")
	}
	f := searchCmd.Flags()
	f.StringVar(&searchOpts.tag, "tag", "", "show only posts with this tag")
	f.StringVar(&searchOpts.tags, "tags", "", "comma-separated tags a post must all carry")
	f.StringVar(&searchOpts.category, "category", "", "category to match")
	f.StringVar(&searchOpts.from, "from", "", "earliest post date")
	f.StringVar(&searchOpts.to, "to", "", "latest post date")
	f.BoolVar(&searchOpts.json, "json", false, "print results as JSON")

	rootCmd.AddCommand(searchCmd, suggestCmd, frontmatterCmd)
}
