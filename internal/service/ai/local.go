package ai

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const ollamaBinary = "ollama"

// diagnosticLimit bounds how much captured output lands in a log entry.
const diagnosticLimit = 120

// OllamaBackend runs a local inference process per request, feeding the
// prompt on stdin and reading the reply from stdout.
type OllamaBackend struct {
	model   string
	timeout time.Duration
}

// NewOllamaBackend configures the local-process backend.
func NewOllamaBackend(model string, timeout time.Duration) *OllamaBackend {
	return &OllamaBackend{model: model, timeout: timeout}
}

func (b *OllamaBackend) Name() string  { return "Ollama" }
func (b *OllamaBackend) Model() string { return b.model }

// Generate spawns `ollama run <model>`. Whatever goes wrong -- binary
// missing, spawn failure, timeout, non-zero exit -- the result is "" and a
// diagnostic log entry; the process is always reaped before returning.
func (b *OllamaBackend) Generate(ctx context.Context, prompt string) string {
	log := logrus.WithFields(logrus.Fields{"backend": b.Name(), "model": b.model})

	if _, err := exec.LookPath(ollamaBinary); err != nil {
		log.Warn("ollama binary not found on PATH")
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, ollamaBinary, "run", b.model)
	cmd.Stdin = strings.NewReader(prompt)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	log = log.WithFields(logrus.Fields{
		"stdout": truncate(stdout.String(), diagnosticLimit),
		"stderr": truncate(stderr.String(), diagnosticLimit),
	})

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		log.Warnf("ollama run timed out after %s", b.timeout)
		return ""
	case err != nil:
		log.WithError(err).Warn("ollama run failed")
		return ""
	}

	return strings.TrimSpace(stdout.String())
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n]
}
