package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

// Output печатает результаты команд: данные в out, служебные строки в status.
type Output struct {
	jsonMode bool
	out      io.Writer
	status   io.Writer
}

// NewOutput пишет в stdout и stderr.
func NewOutput(jsonMode bool) *Output {
	return NewOutputTo(os.Stdout, os.Stderr, jsonMode)
}

// NewOutputTo пишет в заданные потоки.
func NewOutputTo(out, status io.Writer, jsonMode bool) *Output {
	return &Output{jsonMode: jsonMode, out: out, status: status}
}

// Print выводит rows таблицей под заголовками headers,
// а в режиме --json вместо таблицы печатает v.
func (o *Output) Print(headers []string, rows [][]string, v any) {
	if o.jsonMode {
		o.JSON(v)
		return
	}

	tw := tabwriter.NewWriter(o.out, 0, 0, 2, ' ', 0)
	writeRow(tw, headers)
	underline := make([]string, len(headers))
	for i, h := range headers {
		underline[i] = strings.Repeat("-", len(h))
	}
	writeRow(tw, underline)
	for _, row := range rows {
		writeRow(tw, row)
	}
	tw.Flush()
}

// JSON печатает v с отступами независимо от режима.
func (o *Output) JSON(v any) {
	enc := json.NewEncoder(o.out)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

// Success печатает служебную строку, не смешивая её с данными.
func (o *Output) Success(msg string) {
	fmt.Fprintln(o.status, msg)
}

func writeRow(w io.Writer, cells []string) {
	fmt.Fprintln(w, strings.Join(cells, "\t"))
}
