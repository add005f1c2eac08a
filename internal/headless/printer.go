package headless

import (
	"fmt"
	"io"
	"sync"

	"github.com/ajramos/gizassist/internal/backend"
	"github.com/ajramos/gizassist/internal/services"
)

// Printer collects what the orchestrator renders and writes notifications as
// plain lines. It implements the toaster, busy indicator and every view the
// one-shot commands use.
type Printer struct {
	mu     sync.Mutex
	errOut io.Writer

	emails    []backend.Email
	visible   []bool
	autoOn    bool
	autoText  string
	status    string
	hadErrors bool
}

// NewPrinter creates a printer writing notifications to errOut
func NewPrinter(errOut io.Writer) *Printer {
	if errOut == nil {
		errOut = io.Discard
	}
	return &Printer{errOut: errOut}
}

// Views returns the surfaces the orchestrator renders into
func (p *Printer) Views() services.Views {
	return services.Views{List: p, AutoReply: p, Status: p}
}

func (p *Printer) Success(msg string) { p.notify(services.SeveritySuccess, msg) }
func (p *Printer) Error(msg string)   { p.notify(services.SeverityError, msg) }
func (p *Printer) Info(msg string)    { p.notify(services.SeverityInfo, msg) }

func (p *Printer) notify(s services.Severity, msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s == services.SeverityError {
		p.hadErrors = true
	}
	fmt.Fprintf(p.errOut, "%s: %s\n", s, msg)
}

// Show and Hide satisfy services.BusyIndicator; a one-shot run has no spinner.
func (p *Printer) Show(string) {}
func (p *Printer) Hide(string) {}

func (p *Printer) RenderList(emails []backend.Email) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.emails = append([]backend.Email(nil), emails...)
	p.visible = make([]bool, len(emails))
	for i := range p.visible {
		p.visible[i] = true
	}
}

func (p *Printer) SetVisibility(visible []bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(visible) == len(p.emails) {
		p.visible = append([]bool(nil), visible...)
	}
}

func (p *Printer) SetAutoReply(checked bool, status string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.autoOn, p.autoText = checked, status
}

func (p *Printer) SetStatus(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = text
}

// Emails returns the visible emails in list order
func (p *Printer) Emails() []backend.Email {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []backend.Email
	for i, e := range p.emails {
		if p.visible[i] {
			out = append(out, e)
		}
	}
	return out
}

// AutoReply returns the last auto-reply state shown
func (p *Printer) AutoReply() (bool, string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.autoOn, p.autoText
}

// Status returns the last backend status line
func (p *Printer) Status() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// HadErrors reports whether an error notification was written
func (p *Printer) HadErrors() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hadErrors
}
