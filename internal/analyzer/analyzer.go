// Package analyzer invokes the external domain-permutation scanner as a child
// process and decodes its JSON output. Every invocation fault is mapped to a
// diagnostic outcome; no error ever escapes to the caller.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Record is a single permutation result: one candidate look-alike domain plus
// optional registration metadata. Unknown fields in the scanner output are
// ignored.
type Record struct {
	Domain       string `json:"domain"`
	WhoisCreated string `json:"whois_created"`
}

// Outcome is the result of one scanner invocation: either a list of
// permutation records or diagnostic text explaining why there are none.
type Outcome struct {
	Records     []Record
	Diagnostics []string
}

// Failed reports whether the outcome carries diagnostics instead of records.
func (o Outcome) Failed() bool { return len(o.Diagnostics) > 0 }

func diagnostic(text string) Outcome {
	return Outcome{Diagnostics: []string{text}}
}

// Runner executes the scanner with a fixed argument template: recursive mode,
// whois lookups, JSON output, and a permutation cap.
type Runner struct {
	log     *slog.Logger
	command string
	limit   int
	timeout time.Duration
}

// New creates a Runner for the given scanner command. permutationLimit caps
// the number of generated permutations per invocation; timeout bounds the
// child process lifetime.
func New(log *slog.Logger, command string, permutationLimit int, timeout time.Duration) *Runner {
	return &Runner{
		log:     log.With("component", "analyzer"),
		command: command,
		limit:   permutationLimit,
		timeout: timeout,
	}
}

// Analyze runs one scanner invocation for the given domain. The domain is
// passed as a single argv element; there is no shell involved, so it cannot
// be interpolated. On timeout the process is killed.
func (r *Runner) Analyze(ctx context.Context, domain string) Outcome {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.command,
		"-r", "-w", domain, "-f", "json", "-t", strconv.Itoa(r.limit))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Without this, a grandchild process inheriting the output pipes can keep
	// Run blocked long after the timeout killed the scanner itself.
	cmd.WaitDelay = time.Second

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		r.log.WarnContext(ctx, "Scanner timed out", "domain", domain, "timeout", r.timeout)
		return diagnostic(fmt.Sprintf("Не удалось запустить %s: превышено время ожидания (%s)", r.command, r.timeout))
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			r.log.WarnContext(ctx, "Scanner exited with error",
				"domain", domain, "exit_code", exitErr.ExitCode(), "duration", duration)
			return diagnostic("Ошибка: " + strings.TrimSpace(stderr.String()))
		}
		r.log.ErrorContext(ctx, "Failed to start scanner", "command", r.command, "error", err)
		return diagnostic(fmt.Sprintf("Не удалось запустить %s: %v", r.command, err))
	}

	var records []Record
	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &records); err != nil {
		r.log.ErrorContext(ctx, "Failed to decode scanner output",
			"domain", domain, "output_bytes", stdout.Len(), "error", err)
		return diagnostic(fmt.Sprintf("Не удалось запустить %s: %v", r.command, err))
	}

	r.log.InfoContext(ctx, "Scanner finished",
		"domain", domain, "records", len(records), "duration", duration)
	return Outcome{Records: records}
}
