package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/swiss-tournament/utils"
)

func TestHashPasswordFromStdin(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs([]string{"hash-password"})
	root.SetIn(strings.NewReader("s3cret\nignored\n"))
	root.SetOut(&out)

	require.NoError(t, root.Execute())
	hash := strings.TrimSpace(out.String())
	assert.True(t, utils.CheckPasswordHash("s3cret", hash))
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"hash-password", ""})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	assert.ErrorIs(t, root.Execute(), utils.ErrEmptyPassword)
}

func TestMigrateRejectsUnknownCommand(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"migrate", "sideways"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	assert.Error(t, root.Execute())
}
