// Netobs CLI — инструмент командной строки для журнала обработки
// и очередей pipeline.
//
// Использование:
//
//	netobs [--api-url URL] [--json] <command> <subcommand> [flags]
//
// Команды:
//
//	job    Просмотр jobs через API трекера
//	queue  Публикация и чтение сообщений RabbitMQ
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Netobs/internal/cli"
	"github.com/shaiso/Netobs/internal/config"
	"github.com/shaiso/Netobs/internal/mq"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var apiURL string
	var jsonOutput bool
	var details mq.ConnectionDetails

	rootCmd := &cobra.Command{
		Use:           "netobs",
		Short:         "Netobs CLI — network observability pipeline tool",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	port, err := config.GetEnvOrDefault(config.EnvRabbitPort, config.DefaultRabbitPort)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&apiURL, "api-url", "http://localhost:8081", "Tracker API URL")
	flags.BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	flags.StringVar(&details.Host, "rabbit-host", os.Getenv(config.EnvRabbitHost), "RabbitMQ host")
	flags.IntVar(&details.Port, "rabbit-port", port, "RabbitMQ port")
	flags.StringVar(&details.Username, "rabbit-user", os.Getenv(config.EnvRabbitUser), "RabbitMQ username")
	flags.StringVar(&details.Password, "rabbit-password", os.Getenv(config.EnvRabbitPassword), "RabbitMQ password")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }
	messengerFn := func() (*mq.Messenger, error) {
		// Логи соединения в CLI не нужны
		logger := slog.New(slog.DiscardHandler)
		conn, err := mq.NewConnection(&details, nil, logger)
		if err != nil {
			return nil, err
		}
		return mq.NewMessenger(conn, logger, nil)
	}

	rootCmd.AddCommand(
		cli.NewJobCmd(clientFn, outputFn),
		cli.NewQueueCmd(messengerFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
