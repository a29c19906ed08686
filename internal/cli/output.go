package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/claimcheck/internal/dispatch"
	"github.com/ppiankov/claimcheck/internal/extract"
)

// Output formats
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func checkFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format: %s (use text, json or yaml)", format)
	}
}

// writeResult prints one dispatch result in the requested format
func writeResult(w io.Writer, format string, res *dispatch.Result) error {
	switch format {
	case formatText:
		_, err := fmt.Fprintln(w, res.Text)
		return err
	case formatJSON:
		_, err := fmt.Fprintln(w, string(res.Structured))
		return err
	case formatYAML:
		data, err := yaml.Marshal(res.Payload)
		if err != nil {
			return fmt.Errorf("error marshaling result: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return checkFormat(format)
	}
}

// readInput returns the text to analyze: the file contents when file is set
// ("-" reads stdin), otherwise the arguments joined by spaces. asHTML reduces an
// HTML document to its visible text.
func readInput(args []string, file string, stdin io.Reader, asHTML bool) (string, error) {
	var text string

	switch {
	case file == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}
		text = string(data)
	case len(args) > 0:
		text = strings.Join(args, " ")
	default:
		return "", fmt.Errorf("provide text as arguments or with --file")
	}

	if asHTML {
		visible, err := extract.VisibleText(text)
		if err != nil {
			return "", fmt.Errorf("parse HTML: %w", err)
		}
		text = visible
	}

	return text, nil
}
