package cli

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shaiso/Netobs/internal/mq"
)

// MessengerFunc открывает Messenger для команды. Вызывающий освобождает
// соединение через Messenger.Connection().Dispose().
type MessengerFunc func() (*mq.Messenger, error)

// NewQueueCmd создаёт группу команд для работы с очередями напрямую.
func NewQueueCmd(messengerFn MessengerFunc, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Publish and read pipeline messages",
	}

	cmd.AddCommand(
		newQueuePushCmd(messengerFn, outputFn),
		newQueueReadCmd(messengerFn, outputFn),
	)

	return cmd
}

func newQueuePushCmd(messengerFn MessengerFunc, outputFn func() *Output) *cobra.Command {
	var (
		jobID string
		jobPK int64
		state string
		path  string
	)

	cmd := &cobra.Command{
		Use:   "push QUEUE",
		Short: "Publish a job state message",
		Long: "Publish a job state message. With --path the message also carries " +
			"the file location, as the ingest service sends to the pcap queue.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := mq.ParseProcessingState(state)
			if err != nil {
				return err
			}
			if jobID == "" {
				jobID = uuid.NewString()
			} else if _, err := uuid.Parse(jobID); err != nil {
				return fmt.Errorf("invalid job id: %w", err)
			}

			msg := mq.RabbitMQMessage{JobPK: jobPK, JobID: jobID, State: st}
			var payload any = msg
			if path != "" {
				payload = mq.PcapValidatedMessage{RabbitMQMessage: msg, PathAndFileName: path}
			}

			m, err := messengerFn()
			if err != nil {
				return err
			}
			defer m.Connection().Dispose()

			if err := m.PushMessage(cmd.Context(), payload, args[0]); err != nil {
				return err
			}

			outputFn().Success(fmt.Sprintf("published %s for job %s to %s", st, jobID, args[0]))
			return nil
		},
	}

	cmd.Flags().StringVar(&jobID, "job-id", "", "Job ID (generated when empty)")
	cmd.Flags().Int64Var(&jobPK, "job-pk", 0, "Job log primary key")
	cmd.Flags().StringVar(&state, "state", mq.StateIngested.String(), "Processing state name or number")
	cmd.Flags().StringVar(&path, "path", "", "File location for a validated pcap message")

	return cmd
}

func newQueueReadCmd(messengerFn MessengerFunc, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "read QUEUE",
		Short: "Take one message from a queue",
		Long: "Take one message from a queue and acknowledge it. " +
			"A message that is not valid JSON is left in the queue.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := messengerFn()
			if err != nil {
				return err
			}
			defer m.Connection().Dispose()

			msg, err := mq.ReadMessage[json.RawMessage](cmd.Context(), m, args[0])
			if err != nil {
				return err
			}

			out := outputFn()
			if msg == nil {
				out.Success("queue " + args[0] + " is empty")
				return nil
			}

			out.JSON(*msg)
			return nil
		},
	}
}
