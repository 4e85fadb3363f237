package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

type clientFunc func() *apiClient

type folder struct {
	ID        int64     `json:"id"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

type task struct {
	ID         string `json:"id"`
	FolderPath string `json:"folder_path"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	Report     struct {
		Files   int `json:"files"`
		Images  int `json:"images"`
		Indexed int `json:"indexed"`
		Skipped int `json:"skipped"`
	} `json:"report"`
}

type result struct {
	Path     string  `json:"path"`
	Rank     int     `json:"rank"`
	Distance float32 `json:"distance"`
}

type navState struct {
	Mode    string `json:"mode"`
	Cursor  int    `json:"cursor"`
	Current string `json:"current"`
	Items   []struct {
		Path string `json:"path"`
	} `json:"items"`
}

func newAddCmd(client clientFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <folder>",
		Short: "Register a folder and start indexing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve %s: %w", args[0], err)
			}

			var resp struct {
				Folder folder `json:"folder"`
				TaskID string `json:"task_id"`
			}
			if err := client().postJSON(cmd.Context(), "/api/folders", map[string]string{"path": path}, &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Registered %s (id %d)\n", resp.Folder.Path, resp.Folder.ID)
			_, _ = fmt.Fprintf(out, "Ingestion task %s started\n", resp.TaskID)
			return nil
		},
	}
	return cmd
}

func newFoldersCmd(client clientFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "folders",
		Short: "List registered folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var folders []folder
			if err := client().getJSON(cmd.Context(), "/api/folders", &folders); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(folders) == 0 {
				_, _ = fmt.Fprintln(out, "No folders registered.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tPATH\tREGISTERED")
			for _, f := range folders {
				_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\n", f.ID, f.Path, f.CreatedAt.Local().Format(time.DateTime))
			}
			return tw.Flush()
		},
	}
}

func newTasksCmd(client clientFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks [task-id]",
		Short: "Show ingestion tasks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var tasks []task
			if len(args) == 1 {
				var one task
				if err := client().getJSON(cmd.Context(), "/api/tasks/"+args[0], &one); err != nil {
					return err
				}
				tasks = append(tasks, one)
			} else if err := client().getJSON(cmd.Context(), "/api/tasks", &tasks); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				_, _ = fmt.Fprintln(out, "No ingestion tasks.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tFOLDER\tSTATUS\tFILES\tIMAGES\tINDEXED\tSKIPPED")
			for _, t := range tasks {
				status := t.Status
				if t.Error != "" {
					status += ": " + t.Error
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
					t.ID, t.FolderPath, status, t.Report.Files, t.Report.Images, t.Report.Indexed, t.Report.Skipped)
			}
			return tw.Flush()
		},
	}
}

func newSearchCmd(client clientFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search indexed images",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "text <query...>",
			Short: "Find images matching a text description",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var resp struct {
					Results []result `json:"results"`
				}
				body := map[string]string{"text": strings.Join(args, " ")}
				if err := client().postJSON(cmd.Context(), "/api/search/text", body, &resp); err != nil {
					return err
				}
				return printResults(cmd.OutOrStdout(), resp.Results)
			},
		},
		&cobra.Command{
			Use:   "image <path>",
			Short: "Find images similar to an example image",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := filepath.Abs(args[0])
				if err != nil {
					return fmt.Errorf("resolve %s: %w", args[0], err)
				}
				var resp struct {
					Results []result `json:"results"`
				}
				if err := client().postJSON(cmd.Context(), "/api/search/image", map[string]string{"image_path": path}, &resp); err != nil {
					return err
				}
				return printResults(cmd.OutOrStdout(), resp.Results)
			},
		},
	)
	return cmd
}

func newNavCmd(client clientFunc) *cobra.Command {
	return &cobra.Command{
		Use:       "nav [next|prev]",
		Short:     "Show or move the navigation cursor",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"next", "prev"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var state navState
			var err error
			if len(args) == 0 {
				err = client().getJSON(cmd.Context(), "/api/navigation", &state)
			} else {
				err = client().postJSON(cmd.Context(), "/api/navigation/"+args[0], nil, &state)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if state.Current == "" {
				_, _ = fmt.Fprintf(out, "[%s] nothing selected\n", state.Mode)
				return nil
			}
			_, _ = fmt.Fprintf(out, "[%s] %d/%d %s\n", state.Mode, state.Cursor+1, len(state.Items), state.Current)
			return nil
		},
	}
}

func printResults(out io.Writer, results []result) error {
	if len(results) == 0 {
		_, _ = fmt.Fprintln(out, "No results.")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "RANK\tDISTANCE\tPATH")
	for _, r := range results {
		_, _ = fmt.Fprintf(tw, "%d\t%.4f\t%s\n", r.Rank, r.Distance, r.Path)
	}
	return tw.Flush()
}
