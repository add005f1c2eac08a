// Package headless runs single orchestrator commands without a terminal UI
// and prints the result.
package headless

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/ajramos/gizassist/internal/render"
	"github.com/ajramos/gizassist/internal/services"
)

// Dump formats
const (
	DumpText = "text"
	DumpHTML = "html"
)

// Auto-reply actions
const (
	AutoReplyStatus = "status"
	AutoReplyOn     = "on"
	AutoReplyOff    = "off"
)

// textRowWidth is the row width used for the text dump
const textRowWidth = 100

// ErrNothingToDo is returned when no command was requested
var ErrNothingToDo = errors.New("no headless command requested")

// Options selects the commands to run. When both are set the auto-reply
// action runs first.
type Options struct {
	Dump      string
	AutoReply string
}

// Enabled reports whether any headless command was requested
func (o Options) Enabled() bool {
	return o.Dump != "" || o.AutoReply != ""
}

// Validate checks the option values
func (o Options) Validate() error {
	switch strings.ToLower(o.Dump) {
	case "", DumpText, DumpHTML:
	default:
		return fmt.Errorf("invalid --dump %q: want text or html", o.Dump)
	}
	switch strings.ToLower(o.AutoReply) {
	case "", AutoReplyStatus, AutoReplyOn, AutoReplyOff:
	default:
		return fmt.Errorf("invalid --auto-reply %q: want status, on or off", o.AutoReply)
	}
	return nil
}

// Runner executes headless commands against a backend
type Runner struct {
	client   services.Backend
	out      io.Writer
	printer  *Printer
	logger   *log.Logger
	renderer *render.EmailRenderer
}

// NewRunner creates a runner printing results to out and notifications to
// errOut
func NewRunner(client services.Backend, out, errOut io.Writer, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Runner{
		client:   client,
		out:      out,
		printer:  NewPrinter(errOut),
		logger:   logger,
		renderer: render.NewEmailRenderer(),
	}
}

// Run executes the requested commands. Any failure is returned; its user
// message has already been written by the printer.
func (r *Runner) Run(ctx context.Context, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if !opts.Enabled() {
		return ErrNothingToDo
	}
	// Headless runs are one-shot: no cooldown, clearing never reloads
	orch := services.NewOrchestrator(r.client, r.printer, r.printer, r.printer.Views(), r.logger, services.OrchestratorOptions{})

	if opts.AutoReply != "" {
		if err := r.autoReply(ctx, orch, strings.ToLower(opts.AutoReply)); err != nil {
			return err
		}
	}
	if opts.Dump != "" {
		if err := r.dump(ctx, orch, strings.ToLower(opts.Dump)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) autoReply(ctx context.Context, orch *services.Orchestrator, action string) error {
	if action == AutoReplyStatus {
		if _, err := orch.AutoReply().Init(ctx); err != nil {
			r.printer.Error(services.UserMessage(err, "Failed to read auto-reply status"))
			return fmt.Errorf("auto-reply status: %w", err)
		}
		_, status := r.printer.AutoReply()
		fmt.Fprintf(r.out, "Auto-reply: %s\n", status)
		return nil
	}

	if _, err := orch.ToggleAutoReply(ctx, action == AutoReplyOn); err != nil {
		return fmt.Errorf("auto-reply %s: %w", action, err)
	}
	_, status := r.printer.AutoReply()
	fmt.Fprintf(r.out, "Auto-reply: %s\n", status)
	return nil
}

func (r *Runner) dump(ctx context.Context, orch *services.Orchestrator, format string) error {
	if _, err := orch.Refresh(ctx); err != nil {
		return fmt.Errorf("dump: %w", err)
	}
	emails := r.printer.Emails()

	if format == DumpHTML {
		fmt.Fprintln(r.out, strings.TrimRight(r.renderer.ListHTML(emails), "\n"))
		return nil
	}
	if len(emails) == 0 {
		fmt.Fprintln(r.out, render.EmptyStateText)
		return nil
	}
	for _, e := range emails {
		fmt.Fprintln(r.out, strings.TrimRight(r.renderer.FormatEmailRow(e, textRowWidth), " "))
	}
	return nil
}

// Printer exposes the collected view state
func (r *Runner) Printer() *Printer {
	return r.printer
}
