package commands

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/dopanel/internal/constants"
	"github.com/fivetwenty-io/dopanel/pkg/doapi"
	"github.com/fivetwenty-io/dopanel/pkg/panel"
)

var (
	inFlightColor = color.New(color.FgYellow)
	successColor  = color.New(color.FgGreen)
	failureColor  = color.New(color.FgRed, color.Bold)
	warningColor  = color.New(color.FgYellow)
)

func renderJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

	return encoder.Encode(data)
}

func renderYAML(w io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(constants.JSONIndentSize)

	defer func() { _ = encoder.Close() }()

	return encoder.Encode(data)
}

func renderTable(table *tablewriter.Table) error {
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// renderStructured writes data as JSON or YAML and reports whether the
// output format asked for one of them.
func renderStructured(w io.Writer, data interface{}) (bool, error) {
	switch viper.GetString("output") {
	case constants.FormatJSON:
		return true, renderJSON(w, data)
	case constants.FormatYAML:
		return true, renderYAML(w, data)
	default:
		return false, nil
	}
}

// statusPrinter writes dispatcher state reports, one line each.
func statusPrinter(w io.Writer) func(panel.ActionStatus) {
	return func(status panel.ActionStatus) {
		line := fmt.Sprintf("[%s] droplet %s %s", status.State, status.DropletID, status.Action)
		if status.Message != "" {
			line += ": " + status.Message
		}

		switch status.State {
		case panel.ActionInFlight:
			_, _ = inFlightColor.Fprintln(w, line)
		case panel.ActionSucceeded:
			_, _ = successColor.Fprintln(w, line)
		case panel.ActionFailed:
			_, _ = failureColor.Fprintln(w, line)
		}
	}
}

func printWarning(w io.Writer, format string, args ...interface{}) {
	_, _ = warningColor.Fprintf(w, "Warning: "+format+"\n", args...)
}

// ConfirmAction asks a y/N question on in; anything but y or yes declines.
func ConfirmAction(in io.Reader, out io.Writer, prompt string) (bool, error) {
	_, _ = fmt.Fprintf(out, "%s [y/N]: ", prompt)

	reader := bufio.NewReader(in)

	answer, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// providerError reads as the provider's message exactly, e.g. "Unable to
// authenticate you.", and still unwraps to the typed error.
type providerError struct {
	err error
}

func (e *providerError) Error() string {
	return doapi.Message(e.err)
}

func (e *providerError) Unwrap() error {
	return e.err
}

func asProviderError(err error) error {
	if err == nil {
		return nil
	}

	return &providerError{err: err}
}
