// File: cmd/petition/main_test.go
package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/petition-cli/internal/observability"
)

// --- Setup Helpers ---

func resetMocks() {
	osWriteFile = os.WriteFile
	osExit = os.Exit
}

// --- Interactive Mode ---

func TestRunInteractive(t *testing.T) {
	t.Cleanup(observability.ResetForTest)

	t.Run("runs each line on a fresh tree", func(t *testing.T) {
		observability.ResetForTest()
		var out bytes.Buffer
		in := strings.NewReader("version\n\ncountries QQ\nquit\nversion\n")

		require.NoError(t, runInteractive(context.Background(), in, &out))
		assert.Equal(t, 1, strings.Count(out.String(), "petition version"), "lines after quit are ignored")
		assert.Contains(t, out.String(), `Error: unknown country code "QQ"`)
		assert.True(t, strings.HasSuffix(out.String(), "Bye.\n"))
	})

	t.Run("stops at EOF", func(t *testing.T) {
		observability.ResetForTest()
		var out bytes.Buffer
		require.NoError(t, runInteractive(context.Background(), strings.NewReader("version"), &out))
		assert.Contains(t, out.String(), "petition version")
	})
}

// --- Panic Handling ---

func TestHandlePanic(t *testing.T) {
	defer resetMocks()

	var written string
	var code int
	osWriteFile = func(name string, data []byte, perm os.FileMode) error {
		assert.Equal(t, panicLogFile, name)
		written = string(data)
		return nil
	}
	osExit = func(c int) { code = c }

	func() {
		defer handlePanic()
		panic("boom")
	}()

	assert.Equal(t, 2, code)
	assert.True(t, strings.HasPrefix(written, "panic: boom"))
	assert.Contains(t, written, "goroutine")
}

func TestHandlePanic_WriteFailure(t *testing.T) {
	defer resetMocks()

	var code int
	osWriteFile = func(string, []byte, os.FileMode) error { return errors.New("read-only") }
	osExit = func(c int) { code = c }

	func() {
		defer handlePanic()
		panic("boom")
	}()
	assert.Equal(t, 2, code)
}

func TestHandlePanic_NoPanic(t *testing.T) {
	defer resetMocks()
	osExit = func(int) { t.Fatal("exit without a panic") }
	handlePanic()
}
