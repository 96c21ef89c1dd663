package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fixhub/fixhub/internal/cli"
	"github.com/fixhub/fixhub/internal/engine"
	"github.com/fixhub/fixhub/internal/model"
	"github.com/fixhub/fixhub/internal/service"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func jobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Manage repair and sale jobs",
		Long:  `Create jobs with automatic stock deduction, list them, and update their status.`,
	}

	cmd.AddCommand(createJobCmd())
	cmd.AddCommand(listJobsCmd())
	cmd.AddCommand(completeJobCmd())

	return cmd
}

func createJobCmd() *cobra.Command {
	var (
		branch      string
		customer    string
		phone       string
		deviceModel string
		repairDesc  string
		price       string
		jobType     string
		strict      bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a job and deduct its parts from stock",
		Long: `Create a repair or sale job. The repair description is parsed for line
items of the form "Part Name (xN)" separated by " || "; each resolved part is
deducted from the branch's stock column within the same transaction.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			parsedPrice := decimal.Zero
			if price != "" {
				if parsedPrice, err = decimal.NewFromString(price); err != nil {
					return fmt.Errorf("invalid price %q: %w", price, err)
				}
			}

			jt := model.TypeRepair
			if strings.EqualFold(jobType, string(model.TypeSale)) {
				jt = model.TypeSale
			}

			cfg := engineConfig()
			if strict {
				cfg.StrictStockMatching = true
			}

			result, err := engine.NewWithConfig(store, cfg).CreateJob(ctx, engine.JobRequest{
				Branch:      branch,
				Customer:    customer,
				Phone:       phone,
				DeviceModel: deviceModel,
				RepairDesc:  repairDesc,
				Price:       parsedPrice,
				Type:        jt,
				Actor:       viper.GetString("actor"),
			})
			if err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Created job %s", result.Job.ID)))
			if len(result.Items) > 0 {
				fmt.Println(cli.InfoStyle.Render(fmt.Sprintf("  %d of %d parts deducted",
					result.DeductedCount(), len(result.Items))))
			}
			for _, part := range result.UnmatchedParts() {
				fmt.Println(cli.WarningStyle.Render(fmt.Sprintf("  ! %q not found in inventory", part)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&branch, "branch", "", "branch the job belongs to (required)")
	cmd.Flags().StringVar(&customer, "customer", "", "customer name")
	cmd.Flags().StringVar(&phone, "phone", "", "customer phone number")
	cmd.Flags().StringVar(&deviceModel, "model", "", "device model")
	cmd.Flags().StringVar(&repairDesc, "repair", "", `repair description, e.g. "Screen (x1) || Battery (x1)"`)
	cmd.Flags().StringVar(&price, "price", "", "quoted price")
	cmd.Flags().StringVar(&jobType, "type", string(model.TypeRepair), "job type (Repair or Sale)")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail the job if any part cannot be matched")
	cmd.Flags().String("actor", "", "operator recorded in the activity log")
	_ = viper.BindPFlag("actor", cmd.Flags().Lookup("actor"))
	_ = cmd.MarkFlagRequired("branch")

	return cmd
}

func listJobsCmd() *cobra.Command {
	var (
		branch string
		status string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			jobs, err := store.ListJobs(ctx, service.JobFilter{
				Branch: branch,
				Status: model.JobStatus(status),
				Limit:  limit,
			})
			if err != nil {
				return fmt.Errorf("failed to list jobs: %w", err)
			}

			if len(jobs) == 0 {
				fmt.Println(cli.InfoStyle.Render("No jobs found."))
				return nil
			}

			printJobTable(jobs)
			return nil
		},
	}

	cmd.Flags().StringVar(&branch, "branch", "", "filter by branch")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (Pending, Completed, Cancelled)")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of jobs to show")

	return cmd
}

func completeJobCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <job-id>",
		Short: "Mark a job as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.UpdateJobStatus(ctx, args[0], model.StatusCompleted); err != nil {
				return fmt.Errorf("failed to complete job %s: %w", args[0], err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Job %s marked completed", args[0])))
			return nil
		},
	}
}

func printJobTable(jobs []model.Job) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		cli.HeaderStyle.Render("Job ID"),
		cli.HeaderStyle.Render("Branch"),
		cli.HeaderStyle.Render("Customer"),
		cli.HeaderStyle.Render("Model"),
		cli.HeaderStyle.Render("Price"),
		cli.HeaderStyle.Render("Status"))
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		strings.Repeat("-", 12),
		strings.Repeat("-", 12),
		strings.Repeat("-", 16),
		strings.Repeat("-", 12),
		strings.Repeat("-", 8),
		strings.Repeat("-", 9))

	for _, job := range jobs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			job.ID, job.Branch, job.Customer, job.DeviceModel, job.Price.StringFixed(2), job.Status)
	}
}
