package maincmd_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mna/mainer"
	"github.com/proprowataya/calc4go/internal/maincmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCmdRun(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"arithmetic", "1+2*3-10", "-1\n"},
		{"conditional", "0?1?2?3?4", "3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			stdio := mainer.Stdio{
				Stdin:  strings.NewReader(tt.src),
				Stdout: &out,
				Stderr: &errOut,
			}
			c := maincmd.Cmd{}
			exit := c.Main([]string{"calc4", "run", "-"}, stdio)
			require.Equal(t, mainer.Success, exit, errOut.String())
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestCmdUnknownCommand(t *testing.T) {
	var out, errOut bytes.Buffer
	stdio := mainer.Stdio{Stdin: strings.NewReader(""), Stdout: &out, Stderr: &errOut}
	c := maincmd.Cmd{}
	exit := c.Main([]string{"calc4", "bogus"}, stdio)
	assert.Equal(t, mainer.InvalidArgs, exit)
}

func TestCmdHelp(t *testing.T) {
	var out, errOut bytes.Buffer
	stdio := mainer.Stdio{Stdin: strings.NewReader(""), Stdout: &out, Stderr: &errOut}
	c := maincmd.Cmd{}
	exit := c.Main([]string{"calc4", "-h"}, stdio)
	assert.Equal(t, mainer.Success, exit)
	assert.Contains(t, out.String(), "usage: calc4")
}
