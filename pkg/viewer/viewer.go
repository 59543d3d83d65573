// Package viewer is the session viewer: it selects between screenshot
// playback, the live remote surface and a document preview, routes
// navigation, and owns the single control handover and presentation state
// shared by every mode.
//
// A Viewer is driven from one event loop. Asynchronous work (document
// fetches, remote connections) is returned as Work for the loop to run;
// results come back through CompleteDocument and Connect.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/entrhq/lookout/pkg/logging"
	"github.com/entrhq/lookout/pkg/types"
	"github.com/entrhq/lookout/pkg/viewer/document"
	"github.com/entrhq/lookout/pkg/viewer/gallery"
	"github.com/entrhq/lookout/pkg/viewer/handover"
	"github.com/entrhq/lookout/pkg/viewer/presentation"
	"github.com/entrhq/lookout/pkg/viewer/remote"
)

// Option configures a Viewer.
type Option func(*options)

type options struct {
	logger      logging.Interface
	frameLoader remote.FrameLoader
	capability  *remote.Capability
	registry    *document.Registry
	opener      document.Opener
}

// WithLogger sets the logger shared by the viewer's components.
func WithLogger(l logging.Interface) Option {
	return func(o *options) { o.logger = l }
}

// WithFrameLoader replaces the embedded-frame loader.
func WithFrameLoader(l remote.FrameLoader) Option {
	return func(o *options) { o.frameLoader = l }
}

// WithCapability replaces the streaming viewer capability.
func WithCapability(c *remote.Capability) Option {
	return func(o *options) { o.capability = c }
}

// WithRegistry replaces the document renderer registry.
func WithRegistry(r *document.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithOpener replaces how external document links are opened.
func WithOpener(op document.Opener) Option {
	return func(o *options) { o.opener = op }
}

// Viewer is the session viewer orchestrator.
type Viewer struct {
	cfg       Config
	callbacks Callbacks
	logger    logging.Interface
	opener    document.Opener

	control   *handover.Coordinator
	overlay   *presentation.Manager
	connector *remote.Connector
	preview   *document.Preview

	props       Props
	gallery     gallery.Gallery
	index       int
	callerIndex int
	selected    Mode
	mode        Mode
	hovered     bool
	mounted     bool

	// dims is written from the connection goroutine
	dimsMu sync.Mutex
	dims   remote.Size
}

// New creates an unmounted viewer. Call Mount to start it.
func New(cfg Config, props Props, callbacks Callbacks, opts ...Option) *Viewer {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.Nop()
	}
	if o.opener == nil {
		o.opener = document.ClipboardOpener{}
	}

	v := &Viewer{
		cfg:       cfg,
		callbacks: callbacks,
		logger:    o.logger,
		opener:    o.opener,
		selected:  ModeLive,
	}

	v.control = handover.New(handover.Callbacks{
		OnPause:       v.firePause,
		OnTakeControl: v.fireTakeControl,
		OnFeedback: func(text string) {
			resp := types.NewFeedbackResponse(text)
			resp.PlanRef = v.props.PlanRef
			v.fireInputResponse(resp)
		},
	}, o.logger)
	v.overlay = presentation.NewManager(v.control.IsHandoverActive)

	connOpts := []remote.Option{
		remote.WithController(v.control),
		remote.WithLogger(o.logger),
		remote.WithDimensions(v.setDimensions),
	}
	if o.frameLoader != nil {
		connOpts = append(connOpts, remote.WithFrameLoader(o.frameLoader))
	}
	if o.capability != nil {
		connOpts = append(connOpts, remote.WithCapability(o.capability))
	}
	v.connector = remote.NewConnector(cfg.Remote, connOpts...)
	v.preview = document.NewPreview(document.NewFetcher(cfg.FetchTimeout), o.registry, o.logger)

	v.props = props
	v.gallery = gallery.New(props.Screenshots)
	v.callerIndex = props.CurrentIndex
	v.index = v.gallery.Clamp(props.CurrentIndex)
	v.mode = SelectMode(props.DocumentRef, v.override())
	return v
}

// Mount attaches the keyboard listener and starts loading the current
// session state.
func (v *Viewer) Mount() Work {
	v.mounted = true
	v.preview.Reopen()
	v.connector.SetEndpoint(nil)
	return v.apply(v.props)
}

// Unmount removes the keyboard listener and cancels the in-flight document
// fetch. The remote stream is dropped without a drain.
func (v *Viewer) Unmount() {
	v.mounted = false
	v.preview.Close()
	v.connector.Close()
	v.logger.Debugf("viewer unmounted")
}

// Remount starts a new session: control and presentation return to their
// initial states and everything is loaded again.
func (v *Viewer) Remount() Work {
	v.Unmount()
	v.control.Reset()
	v.overlay.Reset()
	v.hovered = false
	v.selected = ModeLive
	return v.Mount()
}

// Mounted reports whether the keyboard listener is attached.
func (v *Viewer) Mounted() bool {
	return v.mounted
}

// Update applies a caller refresh of the session state.
func (v *Viewer) Update(props Props) Work {
	if !v.mounted {
		v.props = props
		return Work{}
	}
	return v.apply(props)
}

func (v *Viewer) apply(props Props) Work {
	var work Work
	prevStatus := v.props.RunStatus
	v.props = props

	v.gallery = gallery.New(props.Screenshots)
	if props.CurrentIndex != v.callerIndex {
		v.callerIndex = props.CurrentIndex
		v.index = props.CurrentIndex
	}
	v.index = v.gallery.Clamp(v.index)

	if v.connector.SetEndpoint(props.Endpoint) && props.Endpoint != nil {
		work.Connect = true
	}
	work.Document = v.preview.Begin(props.DocumentRef)

	if handover.IsActive(props.RunStatus) && !handover.IsActive(prevStatus) {
		v.hovered = false
	}

	v.recomputeMode()
	return work
}

func (v *Viewer) override() *Mode {
	if v.props.ActiveMode != nil {
		return v.props.ActiveMode
	}
	sel := v.selected
	return &sel
}

func (v *Viewer) recomputeMode() {
	next := SelectMode(v.props.DocumentRef, v.override())
	if next == v.mode {
		return
	}
	prev := v.mode
	v.mode = next

	// the document modal and the remote-surface modal belong to their modes
	switch {
	case prev == ModeDocument && v.overlay.IsPromoted(presentation.TargetDocument):
		_ = v.overlay.Demote()
	case next == ModeDocument && v.overlay.IsPromoted(presentation.TargetRemoteSurface):
		_ = v.overlay.Demote()
	}

	v.logger.Debugf("mode %s -> %s", prev, next)
	if v.callbacks.OnModeChange != nil {
		v.callbacks.OnModeChange(next)
	}
}

// Mode returns the active mode.
func (v *Viewer) Mode() Mode {
	return v.mode
}

// Tabs returns the selectable tabs. They are hidden while a document is shown.
func (v *Viewer) Tabs() []Mode {
	if v.mode == ModeDocument {
		return nil
	}
	return []Mode{ModeScreenshots, ModeLive}
}

// SelectTab switches between Screenshots and Live. When the caller owns
// the selection the request is only forwarded to it.
func (v *Viewer) SelectTab(m Mode) error {
	if m != ModeScreenshots && m != ModeLive {
		return types.NewValidationError("tab", "must be screenshots or live, got %s", m)
	}
	if v.mode == ModeDocument {
		return ErrTabsHidden
	}
	if v.props.ActiveMode != nil {
		if v.callbacks.OnModeChange != nil {
			v.callbacks.OnModeChange(m)
		}
		return nil
	}
	v.selected = m
	v.recomputeMode()
	return nil
}

// HandleKey routes a key press. Left and right navigate screenshots only
// while mounted and in Screenshots mode. It reports whether the key was used.
func (v *Viewer) HandleKey(key string) bool {
	if !v.mounted || v.mode != ModeScreenshots {
		return false
	}
	switch key {
	case "left":
		v.Previous()
		return true
	case "right":
		v.Next()
		return true
	}
	return false
}

// Previous steps back one screenshot, wrapping to the last.
func (v *Viewer) Previous() {
	if i, ok := v.gallery.Previous(v.index); ok {
		v.setIndex(i)
	}
}

// Next steps forward one screenshot, wrapping to the first.
func (v *Viewer) Next() {
	if i, ok := v.gallery.Next(v.index); ok {
		v.setIndex(i)
	}
}

func (v *Viewer) setIndex(i int) {
	v.index = i
	if v.callbacks.OnIndexChange != nil {
		v.callbacks.OnIndexChange(i)
	}
}

// Index returns the navigation index.
func (v *Viewer) Index() int {
	return v.index
}

// Gallery returns the screenshot gallery.
func (v *Viewer) Gallery() gallery.Gallery {
	return v.gallery
}

// Position renders the "i / N" indicator.
func (v *Viewer) Position() string {
	return v.gallery.Position(v.index)
}

// CurrentScreenshot returns the screenshot at the index.
func (v *Viewer) CurrentScreenshot() (gallery.Screenshot, bool) {
	return v.gallery.At(v.index)
}

// Maximize opens the document modal in Document mode, the remote-surface
// modal otherwise. During a control handover the control overlay stays and
// its target is returned.
func (v *Viewer) Maximize() presentation.Target {
	if v.control.IsHandoverActive() {
		v.logger.Debugf("maximize ignored: control overlay is held open")
		return v.overlay.Target()
	}
	target := presentation.TargetRemoteSurface
	if v.mode == ModeDocument {
		target = presentation.TargetDocument
	}
	id := v.overlay.Promote(target)
	v.logger.Debugf("overlay %s opened (activation %s)", target, id)
	return target
}

// Close closes the overlay. It is refused during a control handover; the
// only way out is to finish or cancel the handback.
func (v *Viewer) Close() error {
	if err := v.overlay.Demote(); err != nil {
		v.logger.Debugf("close refused: %v", err)
		return err
	}
	return nil
}

// CloseAllowed reports whether a close control is offered.
func (v *Viewer) CloseAllowed() bool {
	return v.overlay.CloseAllowed()
}

// Presentation returns the presentation state and target.
func (v *Viewer) Presentation() (presentation.State, presentation.Target) {
	return v.overlay.State(), v.overlay.Target()
}

// SetHovered records whether the live surface has pointer focus.
func (v *Viewer) SetHovered(hovered bool) {
	v.hovered = hovered
}

// ShowTakeControlAffordance reports whether "Take Control" is offered.
func (v *Viewer) ShowTakeControlAffordance() bool {
	return v.mode == ModeLive && v.props.Endpoint != nil &&
		v.control.ShowTakeControlAffordance(v.props.RunStatus, v.hovered)
}

// TakeControl activates the take-control region of the surface. When it
// applies, the control overlay is forced open.
func (v *Viewer) TakeControl() bool {
	if !v.connector.ActivateTakeControl(v.props.RunStatus) {
		return false
	}
	id := v.overlay.ForceOpen(presentation.TargetControl)
	v.logger.Debugf("control overlay forced open (activation %s)", id)
	return true
}

// HandoverFromModal hands control back from the remote-surface modal: the
// fullscreen control overlay opens with the feedback form.
func (v *Viewer) HandoverFromModal() error {
	if v.control.State() == handover.AgentControlled && !v.TakeControl() {
		return fmt.Errorf("%w: run status %q is not active", ErrInvalidTransition, v.props.RunStatus)
	}
	v.overlay.ForceOpen(presentation.TargetControl)
	return v.control.RequestHandback()
}

// RequestHandback opens the feedback form.
func (v *Viewer) RequestHandback() error {
	return v.control.RequestHandback()
}

// CancelHandback closes the feedback form; the human keeps control.
func (v *Viewer) CancelHandback() error {
	return v.control.CancelHandback()
}

// SubmitFeedback forwards the note, returns control to the agent and
// closes the control overlay.
func (v *Viewer) SubmitFeedback(text string) error {
	if err := v.control.SubmitFeedback(text); err != nil {
		return err
	}
	if v.overlay.IsPromoted(presentation.TargetControl) {
		if err := v.overlay.Demote(); err != nil {
			v.logger.Warnf("control overlay stayed open: %v", err)
		}
	}
	return nil
}

// ControlState returns the handover state.
func (v *Viewer) ControlState() handover.State {
	return v.control.State()
}

// Handover exposes the coordinator's queries.
func (v *Viewer) Handover() *handover.Coordinator {
	return v.control
}

// Respond forwards an approval decision. Only valid while the run awaits input.
func (v *Viewer) Respond(text string, accepted bool) error {
	return v.respond(text, accepted, v.props.PlanRef)
}

// RespondToPlan accepts or rejects the plan identified by planRef.
func (v *Viewer) RespondToPlan(text, planRef string, accepted bool) error {
	if strings.TrimSpace(planRef) == "" {
		return types.NewValidationError("plan", "a plan reference is required")
	}
	return v.respond(text, accepted, planRef)
}

func (v *Viewer) respond(text string, accepted bool, planRef string) error {
	if v.props.RunStatus != StatusAwaitingInput {
		return ErrNotAwaitingInput
	}
	resp := types.NewDecisionResponse(text, accepted)
	resp.PlanRef = planRef
	v.fireInputResponse(resp)
	return nil
}

// AwaitingInput reports whether approval responses are accepted.
func (v *Viewer) AwaitingInput() bool {
	return v.props.RunStatus == StatusAwaitingInput
}

// Connect runs the remote connection for the current endpoint. It blocks;
// run it off the event loop.
func (v *Viewer) Connect(ctx context.Context) remote.Surface {
	return v.connector.Connect(ctx)
}

// Surface returns the remote surface snapshot.
func (v *Viewer) Surface() remote.Surface {
	return v.connector.Surface()
}

// SurfaceURL returns the embedded-frame URL, if a session has started.
func (v *Viewer) SurfaceURL() (string, error) {
	return v.connector.URL()
}

// SetParams changes the remote viewer parameters. A session that is already
// showing is reconnected with them.
func (v *Viewer) SetParams(params remote.Params) (Work, error) {
	if err := params.Validate(); err != nil {
		return Work{}, err
	}
	return Work{Connect: v.connector.SetParams(params) && v.mounted}, nil
}

// Params returns the remote viewer parameters in use.
func (v *Viewer) Params() remote.Params {
	return v.connector.Config().Params
}

// SetFrameSize tells the connector how much room the surface has.
func (v *Viewer) SetFrameSize(size remote.Size) {
	v.connector.SetFrameSize(size)
}

func (v *Viewer) setDimensions(size remote.Size) {
	v.dimsMu.Lock()
	v.dims = size
	v.dimsMu.Unlock()
	if v.callbacks.OnDimensions != nil {
		v.callbacks.OnDimensions(size)
	}
}

// Dimensions returns the last observed surface size.
func (v *Viewer) Dimensions() remote.Size {
	v.dimsMu.Lock()
	defer v.dimsMu.Unlock()
	return v.dims
}

// CompleteDocument applies a finished document job. Stale results are
// dropped and reported as false.
func (v *Viewer) CompleteDocument(res document.Result) bool {
	return v.preview.Complete(res)
}

// RetryDocument is the manual re-trigger after a failure.
func (v *Viewer) RetryDocument() *document.Job {
	return v.preview.Retry()
}

// Preview returns the document preview.
func (v *Viewer) Preview() *document.Preview {
	return v.preview
}

// DocumentTitle titles the document modal with the file name of the reference.
func (v *Viewer) DocumentTitle() string {
	if v.props.DocumentRef == "" {
		return ""
	}
	return document.FileName(v.props.DocumentRef)
}

// FollowLink resolves a link in the rendered document and performs any
// external open. Scrolling is left to the caller.
func (v *Viewer) FollowLink(link document.Link) (document.Action, error) {
	doc := v.preview.Document()
	if doc == nil {
		return document.Action{}, ErrNoDocument
	}
	action := doc.Resolve(link)
	if action.Kind == document.ActionOpenExternal {
		if err := v.opener.Open(action.URL); err != nil {
			return action, err
		}
	}
	return action, nil
}

// Props returns the current caller state.
func (v *Viewer) Props() Props {
	return v.props
}

// RunStatus returns the caller's run status.
func (v *Viewer) RunStatus() string {
	return v.props.RunStatus
}

func (v *Viewer) firePause() {
	if v.callbacks.OnPause != nil {
		v.callbacks.OnPause()
	}
}

func (v *Viewer) fireTakeControl() {
	if v.callbacks.OnTakeControl != nil {
		v.callbacks.OnTakeControl()
	}
}

func (v *Viewer) fireInputResponse(resp types.InputResponse) {
	if v.callbacks.OnInputResponse != nil {
		v.callbacks.OnInputResponse(resp)
	}
}

// IsClosedErr reports whether err is a refused close.
func IsClosedErr(err error) bool {
	return errors.Is(err, ErrCloseSuppressed)
}
