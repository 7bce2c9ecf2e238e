package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Wizard provides an interactive configuration wizard
type Wizard struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewWizard creates a wizard reading answers from in and prompting on out.
func NewWizard(in io.Reader, out io.Writer) *Wizard {
	return &Wizard{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Run prompts for each setting, starting from base. An empty answer keeps the
// current value.
func (w *Wizard) Run(base *Config) (*Config, error) {
	cfg := *base
	validator := NewValidator()

	fmt.Fprintln(w.out, "=== Agenda Configuration ===")
	fmt.Fprintln(w.out)

	dataDir, err := w.ask("Data directory", cfg.DataDir)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	for {
		answer, err := w.ask("Minimum rating counted as a favorite (1-5)", strconv.Itoa(cfg.Recommend.MinRating))
		if err != nil {
			return nil, err
		}
		if answer == "" {
			break
		}
		rating, convErr := strconv.Atoi(answer)
		if convErr == nil {
			convErr = validator.ValidateMinRating(rating)
		}
		if convErr != nil {
			fmt.Fprintf(w.out, "Error: %v\n", convErr)
			continue
		}
		cfg.Recommend.MinRating = rating
		break
	}

	level, err := w.ask("Log level (debug/info/warn/error)", cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	if level != "" {
		if err := validator.ValidateLogLevel(level); err != nil {
			fmt.Fprintf(w.out, "Warning: %v, keeping %s\n", err, cfg.Logging.Level)
		} else {
			cfg.Logging.Level = level
		}
	}

	fmt.Fprintln(w.out)
	fmt.Fprintln(w.out, "Configuration complete!")

	return &cfg, nil
}

func (w *Wizard) ask(prompt, current string) (string, error) {
	fmt.Fprintf(w.out, "%s [%s]: ", prompt, current)
	return w.readLine()
}

// readLine treats end of input as an empty answer.
func (w *Wizard) readLine() (string, error) {
	line, err := w.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
