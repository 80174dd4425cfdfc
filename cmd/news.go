// ABOUTME: News commands: public reading plus role-gated publishing

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Games-on/arena-cli/internal/cache"
	"github.com/Games-on/arena-cli/internal/services"
)

var (
	newsPage    int
	newsLimit   int
	newsSearch  string
	newsTitle   string
	newsSummary string
	newsContent string
)

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Read and manage news articles",
}

var newsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List news articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := runContext()
		defer cancel()

		a, err := newApp()
		if err != nil {
			return err
		}

		p := services.ListParams{Page: newsPage, Limit: newsLimit, Search: newsSearch}
		res, err := a.Services.News.List(ctx, p, cache.Options{})
		if err != nil {
			return err
		}
		page := res.Data.(*services.NewsPage)

		if IsJSONOutput() {
			printJSON(os.Stdout, page.Items)
			return nil
		}
		if len(page.Items) == 0 {
			fmt.Fprintln(os.Stdout, "No news articles.")
			return nil
		}
		for _, n := range page.Items {
			fmt.Fprintf(os.Stdout, "%4d  %-40s  %s\n", n.ID, n.Name, n.ShortDescription)
		}
		return nil
	},
}

var newsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := runContext()
		defer cancel()

		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}

		res, err := a.Services.News.Get(ctx, id)
		if err != nil {
			return err
		}
		n := res.Data.(*services.News)

		if IsJSONOutput() {
			printJSON(os.Stdout, n)
			return nil
		}
		fmt.Fprintf(os.Stdout, "%s (#%d)\n\n%s\n", n.Name, n.ID, n.Content)
		if len(n.Attachments) > 0 {
			fmt.Fprintf(os.Stdout, "\nAttachments: %v\n", n.Attachments)
		}
		return nil
	},
}

var newsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish an article (staff only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := runContext()
		defer cancel()

		a, err := newApp()
		if err != nil {
			return err
		}
		if err := requireCapability(ctx, a, staffOnly()); err != nil {
			return err
		}

		n, err := a.Services.News.Create(ctx, services.CreateNewsRequest{
			Name:             newsTitle,
			ShortDescription: newsSummary,
			Content:          newsContent,
		})
		if err != nil {
			return err
		}
		if IsJSONOutput() {
			printJSON(os.Stdout, n)
		}
		return nil
	},
}

var newsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an article (staff only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := runContext()
		defer cancel()

		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := requireCapability(ctx, a, staffOnly()); err != nil {
			return err
		}

		n, err := a.Services.News.Update(ctx, id, services.CreateNewsRequest{
			Name:             newsTitle,
			ShortDescription: newsSummary,
			Content:          newsContent,
		})
		if err != nil {
			return err
		}
		if IsJSONOutput() {
			printJSON(os.Stdout, n)
		}
		return nil
	},
}

var newsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an article (staff only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := runContext()
		defer cancel()

		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := requireCapability(ctx, a, staffOnly()); err != nil {
			return err
		}
		return a.Services.News.Delete(ctx, id)
	},
}

var newsUploadCmd = &cobra.Command{
	Use:   "upload <id> <file>...",
	Short: "Attach files to an article (staff only)",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := runContext()
		defer cancel()

		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := requireCapability(ctx, a, staffOnly()); err != nil {
			return err
		}

		files := make(map[string][]byte, len(args)-1)
		for _, path := range args[1:] {
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("cannot read %s: %w", path, err)
			}
			files[filepath.Base(path)] = content
		}

		names, err := a.Services.News.UploadAttachments(ctx, id, files)
		if err != nil {
			return err
		}
		if IsJSONOutput() {
			printJSON(os.Stdout, names)
		}
		return nil
	},
}

func init() {
	newsListCmd.Flags().IntVar(&newsPage, "page", 1, "Page number")
	newsListCmd.Flags().IntVar(&newsLimit, "limit", 10, "Items per page")
	newsListCmd.Flags().StringVar(&newsSearch, "search", "", "Search term")

	for _, c := range []*cobra.Command{newsCreateCmd, newsUpdateCmd} {
		c.Flags().StringVar(&newsTitle, "title", "", "Article title")
		c.Flags().StringVar(&newsSummary, "summary", "", "Short description")
		c.Flags().StringVar(&newsContent, "content", "", "Article body")
	}
	newsCreateCmd.MarkFlagRequired("title")

	newsCmd.AddCommand(newsListCmd, newsGetCmd, newsCreateCmd, newsUpdateCmd, newsDeleteCmd, newsUploadCmd)
	rootCmd.AddCommand(newsCmd)
}
