package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/tgienger/taskdesk/internal/models"
	"github.com/tgienger/taskdesk/internal/store"
	"github.com/tgienger/taskdesk/internal/ui/styles"
)

// queryFlags are the list filters shared by tasks and export
type queryFlags struct {
	page     int
	limit    int
	q        string
	status   string
	priority string
	sort     string
	order    string
}

func (f *queryFlags) register(cmd *cobra.Command, paged bool) {
	if paged {
		cmd.Flags().IntVar(&f.page, "page", 1, "Page number")
		cmd.Flags().IntVar(&f.limit, "limit", 0, "Page size (default from config)")
	}
	cmd.Flags().StringVarP(&f.q, "query", "q", "", "Search text")
	cmd.Flags().StringVar(&f.status, "status", "", "Filter by status (todo, in_progress, done)")
	cmd.Flags().StringVar(&f.priority, "priority", "", "Filter by priority (low, medium, high)")
	cmd.Flags().StringVar(&f.sort, "sort", string(models.SortCreatedAt), "Sort field")
	cmd.Flags().StringVar(&f.order, "order", string(models.OrderDesc), "Sort order (asc, desc)")
}

func (f *queryFlags) query(defaultLimit int) (models.ListQuery, error) {
	q := models.ListQuery{
		Page:     f.page,
		PageSize: f.limit,
		Query:    strings.TrimSpace(f.q),
		Filters: models.Filters{
			Status:   models.Status(f.status),
			Priority: models.Priority(f.priority),
			Sort:     models.SortField(f.sort),
			Order:    models.Order(f.order),
		},
	}
	if q.PageSize <= 0 {
		q.PageSize = defaultLimit
	}
	if q.Status != "" && !q.Status.Valid() {
		return q, fmt.Errorf("invalid status %q", f.status)
	}
	if q.Priority != "" && !q.Priority.Valid() {
		return q, fmt.Errorf("invalid priority %q", f.priority)
	}
	if q.Order != models.OrderAsc && q.Order != models.OrderDesc {
		return q, fmt.Errorf("invalid order %q", f.order)
	}
	return q, nil
}

func tasksCmd(info BuildInfo) *cobra.Command {
	var flags queryFlags
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), info)
			if err != nil {
				return err
			}
			defer e.Close()

			token, err := e.token()
			if err != nil {
				return err
			}
			q, err := flags.query(e.cfg.PageSize)
			if err != nil {
				return err
			}

			tasks := e.store.Tasks
			e.run(tasks.Fetch(token, q))
			if tasks.List.Status == store.Failed {
				return errors.New(tasks.List.Err)
			}

			out := cmd.OutOrStdout()
			if len(tasks.Items) == 0 {
				fmt.Fprintln(out, "No tasks.")
				return nil
			}
			fmt.Fprintln(out, renderTasks(tasks.Items, time.Local))
			fmt.Fprintf(out, "Page %d/%d · %d tasks\n", tasks.Page, max(tasks.TotalPages, 1), tasks.Total)
			return nil
		},
	}
	flags.register(cmd, true)
	return cmd
}

func renderTasks(items []models.Task, loc *time.Location) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Current.Border)).
		Headers("ID", "TITLE", "PRIORITY", "STATUS", "DUE")
	for _, task := range items {
		due := ""
		if task.DueDate != nil {
			due = task.DueDate.In(loc).Format("2006-01-02 15:04")
		}
		t.Row(task.ID, task.Title, string(task.Priority), task.Status.Label(), due)
	}
	return t.String()
}

func exportCmd(info BuildInfo) *cobra.Command {
	var (
		flags  queryFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the filtered task list as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), info)
			if err != nil {
				return err
			}
			defer e.Close()

			token, err := e.token()
			if err != nil {
				return err
			}
			q, err := flags.query(0)
			if err != nil {
				return err
			}
			data, err := e.client.ExportCSV(e.ctx, token, q)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", output)
			return nil
		},
	}
	flags.register(cmd, false)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}

func summaryCmd(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the dashboard summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), info)
			if err != nil {
				return err
			}
			defer e.Close()

			token, err := e.token()
			if err != nil {
				return err
			}
			summary := e.store.Summary
			e.run(summary.Load(token))
			if summary.Op.Status == store.Failed {
				return errors.New(summary.Op.Err)
			}

			s := summary.Data
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Open:       %d\n", s.OpenCount)
			fmt.Fprintf(out, "Completed:  %d\n", s.CompletedCount)
			fmt.Fprintf(out, "Due today:  %d\n", s.DueTodayCount)
			fmt.Fprintf(out, "Overdue:    %d\n", s.OverdueCount)
			fmt.Fprintf(out, "Priority:   high %d, medium %d, low %d\n",
				s.ByPriority.High, s.ByPriority.Medium, s.ByPriority.Low)
			fmt.Fprintf(out, "Done (7d):  %d\n", s.Velocity7d)
			return nil
		},
	}
}
