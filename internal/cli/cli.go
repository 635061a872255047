package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"workops/pkg/client"
)

type rootFlags struct {
	server string
	token  string
	mirror string
}

// NewRootCmd builds the workopsctl command tree: task CRUD, identity
// lookup, and a realtime watcher, all through the offline-capable client.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "workopsctl",
		Short:         "Task tracker client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.server, "server", envOr("WORKOPS_SERVER", "http://localhost:8085"), "server base URL")
	root.PersistentFlags().StringVar(&flags.token, "token", os.Getenv("WORKOPS_TOKEN"), "bearer token")
	root.PersistentFlags().StringVar(&flags.mirror, "mirror", envOr("WORKOPS_MIRROR", "offline_tasks.json"), "local mirror file")

	root.AddCommand(
		newListCmd(flags),
		newGetCmd(flags),
		newCreateCmd(flags),
		newUpdateCmd(flags),
		newDeleteCmd(flags),
		newMeCmd(flags),
		newWatchCmd(flags),
	)

	return root
}

func (f *rootFlags) newClient() (*client.Client, error) {
	return client.New(client.Options{
		BaseURL:    f.server,
		Token:      f.token,
		MirrorPath: f.mirror,
	})
}

func newListCmd(flags *rootFlags) *cobra.Command {
	var status string
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			result, err := c.List(cmd.Context(), client.Filters{Status: status, Page: page, PageSize: pageSize})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tDUE\tTITLE")
			for _, t := range result.Items {
				due := ""
				if t.DueDate != nil {
					due = *t.DueDate
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Status, due, t.Title)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "page %d: %d tasks (total %d)\n", result.Page, len(result.Items), result.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (Pending, InProgress, Done)")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 12, "page size")
	return cmd
}

func newGetCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			task, err := c.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printTask(cmd, task)
			return nil
		},
	}
}

func newCreateCmd(flags *rootFlags) *cobra.Command {
	var title, description, due, status, assignee string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			input := client.CreateTaskInput{
				Title:       title,
				Status:      status,
				Description: optional(description),
				DueDate:     optional(due),
				AssignedTo:  optional(assignee),
			}

			task, err := c.Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			printTask(cmd, task)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "task title")
	cmd.Flags().StringVar(&description, "description", "", "task description")
	cmd.Flags().StringVar(&due, "due", "", "due date (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&status, "status", "", "status (Pending, InProgress, Done)")
	cmd.Flags().StringVar(&assignee, "assignee", "", "assignee subject")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newUpdateCmd(flags *rootFlags) *cobra.Command {
	var title, description, due, status, assignee string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			// Only explicitly set flags become part of the patch.
			patch := client.TaskPatch{}
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("due") {
				patch.DueDate = &due
			}
			if cmd.Flags().Changed("status") {
				patch.Status = &status
			}
			if cmd.Flags().Changed("assignee") {
				patch.AssignedTo = &assignee
			}

			if err := c.Update(cmd.Context(), args[0], patch); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "task title")
	cmd.Flags().StringVar(&description, "description", "", "task description")
	cmd.Flags().StringVar(&due, "due", "", "due date (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&status, "status", "", "status (Pending, InProgress, Done)")
	cmd.Flags().StringVar(&assignee, "assignee", "", "assignee subject")
	return cmd
}

func newDeleteCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	}
}

func newMeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the authenticated identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			me, err := c.Me(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "sub:      %s\n", me.Sub)
			fmt.Fprintf(cmd.OutOrStdout(), "username: %s\n", me.PreferredUsername)
			fmt.Fprintf(cmd.OutOrStdout(), "email:    %s\n", me.Email)
			fmt.Fprintf(cmd.OutOrStdout(), "roles:    %v\n", me.Roles)
			return nil
		},
	}
}

func newWatchCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream realtime status notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			err = c.Notifications(ctx, func(message string) {
				fmt.Fprintln(cmd.OutOrStdout(), message)
			})
			if err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
}

func printTask(cmd *cobra.Command, task client.Task) {
	fmt.Fprintf(cmd.OutOrStdout(), "id:          %s\n", task.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "title:       %s\n", task.Title)
	fmt.Fprintf(cmd.OutOrStdout(), "status:      %s\n", task.Status)
	if task.Description != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "description: %s\n", *task.Description)
	}
	if task.DueDate != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "due:         %s\n", *task.DueDate)
	}
	if task.AssignedTo != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "assignee:    %s\n", *task.AssignedTo)
	}
	if task.CreatedBy != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "created by:  %s\n", task.CreatedBy)
	}
	if task.CreatedAt != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "created at:  %s\n", task.CreatedAt)
	}
	if task.UpdatedAt != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "updated at:  %s\n", task.UpdatedAt)
	}
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Execute runs the CLI with signal-aware context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return NewRootCmd().ExecuteContext(ctx)
}
