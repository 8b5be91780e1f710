package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/evgeniy-krivenko/notes-query/internal/api/notes/converter"
)

type rootFlags struct {
	addr     string
	grpcAddr string
	timeout  time.Duration
	json     bool
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "notes",
		Short:         "Query and edit notes through the notes API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&f.addr, "addr", "http://127.0.0.1:8081", "notes HTTP API base URL")
	pf.StringVar(&f.grpcAddr, "grpc-addr", "127.0.0.1:50051", "notes gRPC address")
	pf.DurationVar(&f.timeout, "timeout", 10*time.Second, "request timeout")
	pf.BoolVar(&f.json, "json", false, "print raw JSON")

	cmd.AddCommand(
		newListCmd(f),
		newGetCmd(f),
		newCreateCmd(f),
		newUpdateCmd(f),
		newDeleteCmd(f),
		newStatsCmd(f),
		newCategoriesCmd(f),
		newStatusCmd(f),
		newHealthCmd(f),
	)

	return cmd
}

func (f *rootFlags) client() *apiClient {
	return newAPIClient(f.addr, f.timeout)
}

func newListCmd(f *rootFlags) *cobra.Command {
	var category, search, sort, fields string
	var page, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes with filtering, sorting and pagination",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := url.Values{}
			set := func(key, v string) {
				if v != "" {
					q.Set(key, v)
				}
			}
			set("category", category)
			set("search", search)
			set("sort", sort)
			set("fields", fields)
			if page > 0 {
				q.Set("page", strconv.Itoa(page))
			}
			if limit > 0 {
				q.Set("limit", strconv.Itoa(limit))
			}

			var list converter.NoteList
			if err := f.client().get(cmd.Context(), "/notes", q, &list); err != nil {
				return err
			}

			if f.json {
				return printJSON(cmd.OutOrStdout(), list)
			}

			printNotes(cmd.OutOrStdout(), list.Data)
			fmt.Fprintf(cmd.OutOrStdout(), "page %d/%d, %d total\n",
				list.Meta.Page, list.Meta.TotalPages, list.Meta.Total)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&category, "category", "", `category to match exactly, "all" disables the filter`)
	fl.StringVarP(&search, "search", "s", "", "case-insensitive text in title or content")
	fl.StringVar(&sort, "sort", "", "asc or desc by creation time")
	fl.StringVar(&fields, "fields", "", "comma separated fields to return")
	fl.IntVar(&page, "page", 0, "page number")
	fl.IntVar(&limit, "limit", 0, "page size")

	return cmd
}

func newGetCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var n converter.Note
			if err := f.client().get(cmd.Context(), "/notes/"+url.PathEscape(args[0]), nil, &n); err != nil {
				return err
			}

			return f.printNote(cmd.OutOrStdout(), n)
		},
	}
}

func newCreateCmd(f *rootFlags) *cobra.Command {
	var in converter.NoteInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var n converter.Note
			if err := f.client().do(cmd.Context(), http.MethodPost, "/notes", in, &n); err != nil {
				return err
			}

			return f.printNote(cmd.OutOrStdout(), n)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&in.Title, "title", "", "note title")
	fl.StringVar(&in.Content, "content", "", "note content")
	fl.StringVar(&in.Category, "category", "", "note category")

	return cmd
}

func newUpdateCmd(f *rootFlags) *cobra.Command {
	var title, content, category string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the given fields of a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch converter.NotePatch
			fl := cmd.Flags()
			if fl.Changed("title") {
				patch.Title = &title
			}
			if fl.Changed("content") {
				patch.Content = &content
			}
			if fl.Changed("category") {
				patch.Category = &category
			}

			var n converter.Note
			if err := f.client().do(cmd.Context(), http.MethodPut, "/notes/"+url.PathEscape(args[0]), patch, &n); err != nil {
				return err
			}

			return f.printNote(cmd.OutOrStdout(), n)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&title, "title", "", "new title")
	fl.StringVar(&content, "content", "", "new content")
	fl.StringVar(&category, "category", "", "new category")

	return cmd
}

func newDeleteCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				Message string `json:"message"`
			}
			if err := f.client().do(cmd.Context(), http.MethodDelete, "/notes/"+url.PathEscape(args[0]), nil, &resp); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
}

func newStatsCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count notes per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var stats []converter.CategoryCount
			if err := f.client().get(cmd.Context(), "/notes/category-stats", nil, &stats); err != nil {
				return err
			}

			if f.json {
				return printJSON(cmd.OutOrStdout(), stats)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tCOUNT")
			for _, s := range stats {
				fmt.Fprintf(tw, "%s\t%d\n", s.Category, s.Count)
			}
			return tw.Flush()
		},
	}
}

func newCategoriesCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List distinct categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var categories []string
			if err := f.client().get(cmd.Context(), "/notes/categories", nil, &categories); err != nil {
				return err
			}

			if f.json {
				return printJSON(cmd.OutOrStdout(), categories)
			}

			for _, c := range categories {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}

func newStatusCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the store connection status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var resp map[string]any
			if err := f.client().get(cmd.Context(), "/api/status", nil, &resp); err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
}

func newHealthCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the server over the gRPC health protocol",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), f.timeout)
			defer cancel()

			conn, err := grpc.NewClient(
				f.grpcAddr,
				grpc.WithTransportCredentials(insecure.NewCredentials()),
			)
			if err != nil {
				return fmt.Errorf("new client conn: %v", err)
			}
			defer conn.Close()

			resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
			if err != nil {
				return fmt.Errorf("health check: %v", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), resp.GetStatus().String())
			if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
				return fmt.Errorf("server is %s", resp.GetStatus())
			}
			return nil
		},
	}
}

func (f *rootFlags) printNote(w io.Writer, n converter.Note) error {
	if f.json {
		return printJSON(w, n)
	}

	printNotes(w, []converter.Note{n})
	return nil
}

func printNotes(w io.Writer, notes []converter.Note) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tTITLE\tCREATED")
	for _, n := range notes {
		created := ""
		if n.CreatedAt != nil {
			created = n.CreatedAt.Format(time.DateTime)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.ID, deref(n.Category), deref(n.Title), created)
	}
	_ = tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
