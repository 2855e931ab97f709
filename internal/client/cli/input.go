package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/getfit/internal/client/models"
	"github.com/dmitrijs2005/getfit/internal/common"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// GetSimpleText prints prompt to w and reads one line from reader. The
// line is trimmed. A partial last line before EOF is returned as is.
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prints prompt to w and reads a line from the terminal
// without echo.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(prompt string, w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// prompter asks for form fields. Secrets go through secret, which reads
// without echo on a terminal.
type prompter struct {
	reader *bufio.Reader
	out    io.Writer
	secret func(prompt string) ([]byte, error)
}

func newPrompter(reader *bufio.Reader, out io.Writer, terminal bool) *prompter {
	p := &prompter{reader: reader, out: out}
	if terminal {
		p.secret = func(prompt string) ([]byte, error) { return GetPassword(prompt, out) }
	} else {
		p.secret = func(prompt string) ([]byte, error) {
			s, err := GetSimpleText(reader, prompt, out)
			return []byte(s), err
		}
	}
	return p
}

func (p *prompter) text(prompt string) (string, error) {
	return GetSimpleText(p.reader, prompt, p.out)
}

func (p *prompter) password(prompt string) (string, error) {
	b, err := p.secret(prompt)
	if err != nil {
		return "", err
	}
	s := string(b)
	common.WipeByteArray(b)
	return s, nil
}

// optional* read a field that may be left empty; empty yields nil.

func (p *prompter) optionalDate(prompt string) (*models.Date, error) {
	s, err := p.text(prompt + " (YYYY-MM-DD, empty to skip)")
	if err != nil || s == "" {
		return nil, err
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (p *prompter) optionalInt(prompt string) (*int, error) {
	s, err := p.text(prompt + " (empty to skip)")
	if err != nil || s == "" {
		return nil, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%q is not a whole number", s)
	}
	return &n, nil
}

func (p *prompter) optionalFloat(prompt string) (*float64, error) {
	s, err := p.text(prompt + " (empty to skip)")
	if err != nil || s == "" {
		return nil, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", s)
	}
	return &f, nil
}

// optionalUpper reads an enumerated value; the input is upper-cased so
// "male" and "MALE" are the same.
func (p *prompter) optionalUpper(prompt string) (string, error) {
	s, err := p.text(prompt + " (empty to skip)")
	return strings.ToUpper(s), err
}

// intDefault and floatDefault show def and return it on empty input.

func (p *prompter) intDefault(prompt string, def int) (int, error) {
	s, err := p.text(fmt.Sprintf("%s [%d]", prompt, def))
	if err != nil || s == "" {
		return def, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	return n, nil
}

func (p *prompter) floatDefault(prompt string, def float64) (float64, error) {
	s, err := p.text(fmt.Sprintf("%s [%g]", prompt, def))
	if err != nil || s == "" {
		return def, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return f, nil
}
