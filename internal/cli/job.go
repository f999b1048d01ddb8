package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

// NewJobCmd создаёт группу команд для просмотра журнала обработки.
func NewJobCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Inspect file processing jobs",
	}

	cmd.AddCommand(
		newJobListCmd(clientFn, outputFn),
		newJobShowCmd(clientFn, outputFn),
	)

	return cmd
}

var jobHeaders = []string{"JOB_ID", "FILE", "SIZE", "STATUS", "STARTED", "ENDED"}

func jobRow(j JobResponse) []string {
	return []string{j.JobID, j.OriginalFileName, strconv.FormatInt(j.FileSize, 10), j.Status, j.StartDateTime, j.EndDateTime}
}

func newJobListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := clientFn().ListJobs(limit)
			if err != nil {
				return err
			}

			rows := make([][]string, len(jobs))
			for i, j := range jobs {
				rows[i] = jobRow(j)
			}

			outputFn().Print(jobHeaders, rows, jobs)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")

	return cmd
}

func newJobShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show JOB_ID",
		Short: "Show job details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := clientFn().GetJob(args[0])
			if err != nil {
				return err
			}

			out := outputFn()
			out.Print(jobHeaders, [][]string{jobRow(*job)}, job)
			if job.Notes != "" && !out.jsonMode {
				out.Success("notes: " + job.Notes)
			}
			return nil
		},
	}
}
