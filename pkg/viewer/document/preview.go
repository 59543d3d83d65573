package document

import (
	"context"
	"errors"
	"sync"

	"github.com/entrhq/lookout/pkg/logging"
)

// State is the lifecycle of one document preview.
type State int

const (
	Idle State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Placeholder texts.
const (
	WaitingText = "Waiting for document to load..."
	LoadingText = "Loading document..."
)

// Result is the outcome of a Job, applied with Preview.Complete.
type Result struct {
	Gen uint64
	Ref string
	Doc *Document
	Err error
}

// Job is one fetch and render of a reference. It runs off the event loop
// and does not touch the Preview.
type Job struct {
	Gen uint64
	Ref string

	ctx      context.Context
	fetcher  *Fetcher
	registry *Registry
}

// Run fetches and renders the document. It stops early when either ctx or
// the preview cancels it.
func (j *Job) Run(ctx context.Context) Result {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(j.ctx, cancel)
	defer stop()

	res := Result{Gen: j.Gen, Ref: j.Ref}

	data, err := j.fetcher.Fetch(ctx, j.Ref)
	if err != nil {
		res.Err = err
		return res
	}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	name := FileName(j.Ref)
	renderer := j.registry.Lookup(name, data)
	doc, err := renderer.Render(name, data)
	if err != nil {
		if !IsRenderError(err) {
			err = &RenderError{Format: renderer.Format(), Err: err}
		}
		res.Err = err
		return res
	}

	doc.Base = j.Ref
	if doc.Title == "" {
		doc.Title = name
	}
	res.Doc = doc
	return res
}

// Preview owns the visible state of a document surface. At most one job is
// current; results from superseded jobs are discarded.
type Preview struct {
	fetcher  *Fetcher
	registry *Registry
	logger   logging.Interface

	mu     sync.Mutex
	ref    string
	state  State
	doc    *Document
	err    error
	gen    uint64
	cancel context.CancelFunc
	closed bool
}

// NewPreview creates an idle preview.
func NewPreview(fetcher *Fetcher, registry *Registry, logger logging.Interface) *Preview {
	if fetcher == nil {
		fetcher = NewFetcher(0)
	}
	if registry == nil {
		registry = DefaultRegistry()
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Preview{fetcher: fetcher, registry: registry, logger: logger}
}

// Begin starts loading ref. It returns nil when there is nothing to run:
// ref is unchanged, empty, or the preview is closed. Any previous job is
// cancelled and its result will be discarded.
func (p *Preview) Begin(ref string) *Job {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	if ref == p.ref && p.state != Idle {
		return nil
	}

	p.cancelLocked()
	p.gen++
	p.ref = ref
	p.doc = nil
	p.err = nil

	if ref == "" {
		p.state = Idle
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.state = Loading
	p.logger.Debugf("loading document %s (gen %d)", ref, p.gen)

	return &Job{
		Gen:      p.gen,
		Ref:      ref,
		ctx:      ctx,
		fetcher:  p.fetcher,
		registry: p.registry,
	}
}

// Retry starts the current reference again. Nothing retries on its own;
// this is the manual re-trigger.
func (p *Preview) Retry() *Job {
	p.mu.Lock()
	ref := p.ref
	p.state = Idle
	p.mu.Unlock()
	return p.Begin(ref)
}

// Complete applies res if it belongs to the current job. It reports whether
// the result was applied.
func (p *Preview) Complete(res Result) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || res.Gen != p.gen || res.Ref != p.ref {
		p.logger.Debugf("discarding stale document result for %s (gen %d)", res.Ref, res.Gen)
		return false
	}

	p.cancelLocked()
	if res.Err != nil {
		if errors.Is(res.Err, context.Canceled) {
			// the job was cancelled from outside; the next Begin loads again
			p.state = Idle
			p.logger.Debugf("document %s cancelled", res.Ref)
			return true
		}
		p.state = Failed
		p.err = res.Err
		p.logger.Errorf("document %s: %v", res.Ref, res.Err)
		return true
	}

	p.state = Ready
	p.doc = res.Doc
	return true
}

// Close cancels in-flight work. Later results are discarded until Reopen.
func (p *Preview) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelLocked()
	p.closed = true
}

// Reopen clears the preview for a new mount. The next Begin loads again
// even if the reference did not change.
func (p *Preview) Reopen() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelLocked()
	p.closed = false
	p.gen++
	p.ref = ""
	p.state = Idle
	p.doc = nil
	p.err = nil
}

func (p *Preview) cancelLocked() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// Ref returns the current reference.
func (p *Preview) Ref() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ref
}

// State returns the current state.
func (p *Preview) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Document returns the rendered document, or nil.
func (p *Preview) Document() *Document {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc
}

// Err returns the failure, or nil.
func (p *Preview) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// ErrorMessage returns the inline error text, or "".
func (p *Preview) ErrorMessage() string {
	return DisplayMessage(p.Err())
}

// Loading reports whether the loading indicator is shown.
func (p *Preview) Loading() bool {
	return p.State() == Loading
}

// Placeholder returns the text shown instead of content, or "".
func (p *Preview) Placeholder() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case p.ref == "":
		return WaitingText
	case p.state == Loading:
		return LoadingText
	}
	return ""
}
