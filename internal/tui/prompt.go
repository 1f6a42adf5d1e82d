package tui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/odecmp/internal/dynamo"
)

// Prompt prints the numbered families to w and reads one choice from r.
// Anything but a known number or tag is ErrInvalidChoice.
func Prompt(r io.Reader, w io.Writer) (dynamo.Family, error) {
	fmt.Fprintln(w, "Select the type of differential equation:")
	for i, f := range dynamo.Families {
		fmt.Fprintf(w, "%d. %s (%s)\n", i+1, f.Title(), familyInfo[f])
	}
	fmt.Fprint(w, "Option: ")

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read choice: %w", err)
	}
	line = strings.TrimSpace(line)
	f, err := dynamo.ParseFamily(line)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidChoice, line)
	}
	return f, nil
}
