package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// prompter asks for flags the user did not pass explicitly. An empty answer
// keeps the flag's current value.
type prompter struct {
	in    *bufio.Reader
	out   io.Writer
	flags interface{ Changed(name string) bool }
	skip  bool
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{
		in:    bufio.NewReader(cmd.InOrStdin()),
		out:   cmd.OutOrStdout(),
		flags: cmd.Flags(),
		skip:  assumeYes,
	}
}

func (p *prompter) ask(flag, question string) (string, bool, error) {
	if p.skip || p.flags.Changed(flag) {
		return "", false, nil
	}
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, err
	}
	line = strings.TrimSpace(line)
	return line, line != "", nil
}

func (p *prompter) String(flag, question string, v *string) error {
	answer, ok, err := p.ask(flag, question)
	if err != nil || !ok {
		return err
	}
	*v = answer
	return nil
}

func (p *prompter) Int(flag, question string, v *int) error {
	answer, ok, err := p.ask(flag, question)
	if err != nil || !ok {
		return err
	}
	n, err := strconv.Atoi(answer)
	if err != nil {
		return fmt.Errorf("invalid number for %s: %q", flag, answer)
	}
	*v = n
	return nil
}
