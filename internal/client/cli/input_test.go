package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  hello world \n"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	assert.Error(t, err)
}

func TestGetPassword(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) { return []byte("secret1"), nil }

	var out bytes.Buffer
	pw, err := GetPassword("Password", &out)

	require.NoError(t, err)
	assert.Equal(t, "secret1", string(pw))
	assert.Equal(t, "Password: \n", out.String())
}

func TestGetPassword_Error(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }

	var out bytes.Buffer
	_, err := GetPassword("Password", &out)
	assert.EqualError(t, err, "boom")
}

func TestPrompter_TerminalUsesPasswordReader(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) { return []byte("from-tty"), nil }

	var out bytes.Buffer
	p := newPrompter(rdr("from-stdin\n"), &out, true)

	got, err := p.password("Password")
	require.NoError(t, err)
	assert.Equal(t, "from-tty", got)
}

func TestPrompter_PipedPasswordIsALine(t *testing.T) {
	var out bytes.Buffer
	p := newPrompter(rdr("from-stdin\n"), &out, false)

	got, err := p.password("Password")
	require.NoError(t, err)
	assert.Equal(t, "from-stdin", got)
}

func TestPrompter_Optionals(t *testing.T) {
	var out bytes.Buffer
	p := newPrompter(rdr("\n1990-02-03\n\n180\nabc\n\n72.5\nx\nmale\n"), &out, false)

	d, err := p.optionalDate("Dob")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = p.optionalDate("Dob")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "1990-02-03", d.String())

	n, err := p.optionalInt("Height")
	require.NoError(t, err)
	assert.Nil(t, n)

	n, err = p.optionalInt("Height")
	require.NoError(t, err)
	assert.Equal(t, 180, *n)

	_, err = p.optionalInt("Height")
	assert.EqualError(t, err, `"abc" is not a whole number`)

	f, err := p.optionalFloat("Weight")
	require.NoError(t, err)
	assert.Nil(t, f)

	f, err = p.optionalFloat("Weight")
	require.NoError(t, err)
	assert.Equal(t, 72.5, *f)

	_, err = p.optionalFloat("Weight")
	assert.EqualError(t, err, `"x" is not a number`)

	s, err := p.optionalUpper("Gender")
	require.NoError(t, err)
	assert.Equal(t, "MALE", s)
}

func TestPrompter_Defaults(t *testing.T) {
	var out bytes.Buffer
	p := newPrompter(rdr("\n2100\n\n2.5\n"), &out, false)

	n, err := p.intDefault("Calories", 1900)
	require.NoError(t, err)
	assert.Equal(t, 1900, n)

	n, err = p.intDefault("Calories", 1900)
	require.NoError(t, err)
	assert.Equal(t, 2100, n)

	f, err := p.floatDefault("Water", 8)
	require.NoError(t, err)
	assert.Equal(t, 8.0, f)

	f, err = p.floatDefault("Water", 8)
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)

	assert.Contains(t, out.String(), "Calories [1900]")
}
