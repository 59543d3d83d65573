package viewer

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/entrhq/lookout/pkg/logging"
	"github.com/entrhq/lookout/pkg/types"
	"github.com/entrhq/lookout/pkg/viewer/document"
	"github.com/entrhq/lookout/pkg/viewer/gallery"
	"github.com/entrhq/lookout/pkg/viewer/handover"
	"github.com/entrhq/lookout/pkg/viewer/presentation"
	"github.com/entrhq/lookout/pkg/viewer/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects every callback invocation in order.
type recorder struct {
	events    []string
	indexes   []int
	modes     []Mode
	responses []types.InputResponse
	dims      []remote.Size
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnIndexChange: func(i int) {
			r.events = append(r.events, "index")
			r.indexes = append(r.indexes, i)
		},
		OnPause:       func() { r.events = append(r.events, "pause") },
		OnTakeControl: func() { r.events = append(r.events, "take-control") },
		OnModeChange: func(m Mode) {
			r.events = append(r.events, "mode")
			r.modes = append(r.modes, m)
		},
		OnInputResponse: func(resp types.InputResponse) {
			r.events = append(r.events, "input")
			r.responses = append(r.responses, resp)
		},
		OnDimensions: func(s remote.Size) { r.dims = append(r.dims, s) },
	}
}

type stubLoader struct{ size remote.Size }

func (l stubLoader) Load(ctx context.Context, url string, frame remote.Size) (remote.Size, error) {
	return l.size, nil
}

func shots(titles ...string) []gallery.Screenshot {
	out := make([]gallery.Screenshot, len(titles))
	for i, t := range titles {
		out[i] = gallery.Screenshot{ImageRef: t + ".png", Title: t}
	}
	return out
}

func newViewer(t *testing.T, props Props, opts ...Option) (*Viewer, *recorder) {
	t.Helper()
	rec := &recorder{}
	cfg := DefaultConfig()
	cfg.FetchTimeout = 2 * time.Second
	opts = append([]Option{WithFrameLoader(stubLoader{size: remote.Size{Width: 1024, Height: 768}})}, opts...)
	v := New(cfg, props, rec.callbacks(), opts...)
	v.Mount()
	return v, rec
}

func TestSelectMode(t *testing.T) {
	tests := []struct {
		name     string
		docRef   string
		override *Mode
		want     Mode
	}{
		{"default live", "", nil, ModeLive},
		{"screenshots override", "", ModePtr(ModeScreenshots), ModeScreenshots},
		{"live override", "", ModePtr(ModeLive), ModeLive},
		{"document without ref", "", ModePtr(ModeDocument), ModeLive},
		{"document wins", "http://x/doc.docx", ModePtr(ModeScreenshots), ModeDocument},
		{"document by ref", "http://x/doc.docx", nil, ModeDocument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectMode(tt.docRef, tt.override))
		})
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("doc")
	require.NoError(t, err)
	assert.Equal(t, ModeDocument, m)

	_, err = ParseMode("gallery")
	assert.Error(t, err)
}

func TestKeyboardNavigation(t *testing.T) {
	v, rec := newViewer(t, Props{
		Screenshots:  shots("A", "B", "C"),
		CurrentIndex: 2,
	})

	// live by default: arrows are ignored
	assert.False(t, v.HandleKey("right"))
	require.NoError(t, v.SelectTab(ModeScreenshots))
	assert.Equal(t, ModeScreenshots, v.Mode())

	assert.True(t, v.HandleKey("right"))
	assert.Equal(t, 0, v.Index())
	assert.True(t, v.HandleKey("left"))
	assert.Equal(t, 2, v.Index())
	assert.False(t, v.HandleKey("up"))

	// each event applies one step against the current index
	for i := 0; i < 5; i++ {
		v.HandleKey("right")
	}
	assert.Equal(t, []int{0, 2, 0, 1, 2, 0, 1}, rec.indexes)
	assert.Equal(t, "2 / 3", v.Position())

	v.Unmount()
	assert.False(t, v.HandleKey("right"), "listener removed on unmount")
}

func TestEmptyGalleryNavigation(t *testing.T) {
	v, rec := newViewer(t, Props{ActiveMode: ModePtr(ModeScreenshots)})

	assert.True(t, v.HandleKey("right"))
	assert.Equal(t, 0, v.Index())
	assert.Empty(t, rec.indexes)
	_, ok := v.CurrentScreenshot()
	assert.False(t, ok)
}

func TestCallerIndexAdoption(t *testing.T) {
	props := Props{Screenshots: shots("A", "B", "C"), ActiveMode: ModePtr(ModeScreenshots)}
	v, _ := newViewer(t, props)

	v.Next()
	v.Next()
	assert.Equal(t, 2, v.Index())

	// a refresh with the same caller index keeps local navigation
	v.Update(props)
	assert.Equal(t, 2, v.Index())

	props.CurrentIndex = 1
	v.Update(props)
	assert.Equal(t, 1, v.Index())

	// shrinking the sequence keeps the index valid
	props.Screenshots = shots("A")
	v.Update(props)
	assert.Equal(t, 0, v.Index())
}

func TestTabs(t *testing.T) {
	v, rec := newViewer(t, Props{})
	assert.Equal(t, []Mode{ModeScreenshots, ModeLive}, v.Tabs())

	require.NoError(t, v.SelectTab(ModeScreenshots))
	assert.Equal(t, []Mode{ModeScreenshots}, rec.modes)

	assert.True(t, types.IsValidation(v.SelectTab(ModeDocument)))

	v.Update(Props{DocumentRef: "http://127.0.0.1:1/report.docx"})
	assert.Equal(t, ModeDocument, v.Mode())
	assert.Nil(t, v.Tabs())
	assert.ErrorIs(t, v.SelectTab(ModeLive), ErrTabsHidden)
	assert.Equal(t, "report.docx", v.DocumentTitle())

	// removing the document restores the last tab selection
	v.Update(Props{})
	assert.Equal(t, ModeScreenshots, v.Mode())
	assert.Equal(t, []Mode{ModeScreenshots, ModeDocument, ModeScreenshots}, rec.modes)
}

func TestCallerControlledTab(t *testing.T) {
	v, rec := newViewer(t, Props{ActiveMode: ModePtr(ModeLive)})

	require.NoError(t, v.SelectTab(ModeScreenshots))
	assert.Equal(t, ModeLive, v.Mode(), "caller owns the selection")
	assert.Equal(t, []Mode{ModeScreenshots}, rec.modes)

	v.Update(Props{ActiveMode: ModePtr(ModeScreenshots)})
	assert.Equal(t, ModeScreenshots, v.Mode())
}

func TestTakeControlScenario(t *testing.T) {
	v, rec := newViewer(t, Props{RunStatus: "active", Endpoint: &remote.Endpoint{Port: 6080}})

	require.True(t, v.TakeControl())
	assert.Equal(t, handover.HumanControlled, v.ControlState())
	assert.Equal(t, []string{"pause", "take-control"}, rec.events)

	state, target := v.Presentation()
	assert.Equal(t, presentation.Overlay, state)
	assert.Equal(t, presentation.TargetControl, target)

	// repeat is a no-op
	assert.False(t, v.TakeControl())
	assert.Equal(t, []string{"pause", "take-control"}, rec.events)

	assert.False(t, v.CloseAllowed())
	assert.ErrorIs(t, v.Close(), ErrCloseSuppressed)

	require.NoError(t, v.RequestHandback())
	assert.ErrorIs(t, v.Close(), ErrCloseSuppressed)
	require.NoError(t, v.CancelHandback())
	assert.Equal(t, handover.HumanControlled, v.ControlState())
	assert.Empty(t, rec.responses)

	require.NoError(t, v.RequestHandback())
	assert.ErrorIs(t, v.SubmitFeedback("  "), ErrEmptyFeedback)
	require.NoError(t, v.SubmitFeedback("note"))

	assert.Equal(t, handover.AgentControlled, v.ControlState())
	require.Len(t, rec.responses, 1)
	assert.Equal(t, "note", rec.responses[0].Text)
	assert.Equal(t, types.InputSourceHandover, rec.responses[0].Source)
	state, _ = v.Presentation()
	assert.Equal(t, presentation.Inline, state)
}

func TestTakeControlInactive(t *testing.T) {
	for _, status := range []string{"", "paused", "complete", StatusAwaitingInput} {
		v, rec := newViewer(t, Props{RunStatus: status, Endpoint: &remote.Endpoint{Port: 6080}})
		assert.False(t, v.TakeControl())
		assert.Empty(t, rec.events)
		assert.Equal(t, handover.AgentControlled, v.ControlState())
	}
}

func TestNoAutoRevert(t *testing.T) {
	props := Props{RunStatus: "active", Endpoint: &remote.Endpoint{Port: 6080}}
	v, _ := newViewer(t, props)
	require.True(t, v.TakeControl())

	props.RunStatus = "paused"
	v.Update(props)
	assert.Equal(t, handover.HumanControlled, v.ControlState())
	assert.ErrorIs(t, v.Close(), ErrCloseSuppressed)
}

func TestHandoverFromModal(t *testing.T) {
	v, rec := newViewer(t, Props{RunStatus: "active", Endpoint: &remote.Endpoint{Port: 6080}})
	v.Maximize()

	require.NoError(t, v.HandoverFromModal())
	assert.Equal(t, handover.FeedbackPending, v.ControlState())
	assert.Equal(t, []string{"pause", "take-control"}, rec.events)
	_, target := v.Presentation()
	assert.Equal(t, presentation.TargetControl, target)

	idle, _ := newViewer(t, Props{RunStatus: "complete"})
	assert.ErrorIs(t, idle.HandoverFromModal(), ErrInvalidTransition)
}

func TestMaximizeKeepsControlOverlay(t *testing.T) {
	v, rec := newViewer(t, Props{RunStatus: "active", Endpoint: &remote.Endpoint{Port: 6080}})
	require.True(t, v.TakeControl())

	assert.Equal(t, presentation.TargetControl, v.Maximize())
	state, target := v.Presentation()
	assert.Equal(t, presentation.Overlay, state)
	assert.Equal(t, presentation.TargetControl, target)
	assert.ErrorIs(t, v.Close(), ErrCloseSuppressed)

	require.NoError(t, v.RequestHandback())
	require.NoError(t, v.SubmitFeedback("note"))

	state, target = v.Presentation()
	assert.Equal(t, presentation.Inline, state)
	assert.Equal(t, presentation.TargetNone, target)
	assert.Equal(t, handover.AgentControlled, v.ControlState())
	require.Len(t, rec.responses, 1)
}

func TestOverlayActivationIsLogged(t *testing.T) {
	var buf bytes.Buffer
	v, _ := newViewer(t, Props{RunStatus: "active", Endpoint: &remote.Endpoint{Port: 6080}},
		WithLogger(logging.NewWriterLogger("viewer", &buf)))

	v.Maximize()
	assert.Contains(t, buf.String(), "overlay remote-surface opened (activation ")
	require.NoError(t, v.Close())

	require.True(t, v.TakeControl())
	assert.Contains(t, buf.String(), "control overlay forced open (activation ")
}

func TestPresentationRoundTrip(t *testing.T) {
	ep := &remote.Endpoint{Host: "desk", Port: 6080}
	v, _ := newViewer(t, Props{
		Screenshots: shots("A", "B"), CurrentIndex: 1, Endpoint: ep,
		RunStatus: "active", ActiveMode: ModePtr(ModeScreenshots),
	})

	mode, index, ctl := v.Mode(), v.Index(), v.ControlState()
	assert.Equal(t, presentation.TargetRemoteSurface, v.Maximize())
	require.NoError(t, v.Close())

	assert.Equal(t, mode, v.Mode())
	assert.Equal(t, index, v.Index())
	assert.Equal(t, ctl, v.ControlState())
	assert.Equal(t, &remote.Endpoint{Host: "desk", Port: 6080}, v.Props().Endpoint)
	state, _ := v.Presentation()
	assert.Equal(t, presentation.Inline, state)
}

func TestMaximizeDocumentModal(t *testing.T) {
	v, _ := newViewer(t, Props{DocumentRef: "http://127.0.0.1:1/a.docx"})
	assert.Equal(t, presentation.TargetDocument, v.Maximize())

	// the document modal goes away with document mode
	v.Update(Props{})
	state, _ := v.Presentation()
	assert.Equal(t, presentation.Inline, state)
}

func TestDocumentFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	rec := &recorder{}
	v := New(DefaultConfig(), Props{DocumentRef: srv.URL + "/doc.docx"}, rec.callbacks())
	work := v.Mount()
	require.NotNil(t, work.Document)
	assert.True(t, v.Preview().Loading())

	assert.True(t, v.CompleteDocument(work.Document.Run(context.Background())))
	assert.False(t, v.Preview().Loading())
	assert.Equal(t, "Failed to display document: Failed to fetch document: 404", v.Preview().ErrorMessage())
}

func TestDocumentReferenceChangeDiscardsStale(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("# " + r.URL.Path))
	}))
	defer srv.Close()

	v, _ := newViewer(t, Props{})
	first := v.Update(Props{DocumentRef: srv.URL + "/one.md"}).Document
	second := v.Update(Props{DocumentRef: srv.URL + "/two.md"}).Document
	require.NotNil(t, first)
	require.NotNil(t, second)

	assert.True(t, v.CompleteDocument(second.Run(context.Background())))
	assert.False(t, v.CompleteDocument(first.Run(context.Background())))
	assert.Equal(t, "/two.md", v.Preview().Document().Title)
}

func TestUnmountCancelsDocument(t *testing.T) {
	v, _ := newViewer(t, Props{})
	job := v.Update(Props{DocumentRef: "http://127.0.0.1:1/x.md"}).Document
	require.NotNil(t, job)

	v.Unmount()
	assert.False(t, v.CompleteDocument(job.Run(context.Background())))
}

func TestRemountResets(t *testing.T) {
	props := Props{RunStatus: "active", Endpoint: &remote.Endpoint{Port: 6080}}
	v, _ := newViewer(t, props)
	require.True(t, v.TakeControl())

	work := v.Remount()
	assert.True(t, work.Connect)
	assert.Equal(t, handover.AgentControlled, v.ControlState())
	state, _ := v.Presentation()
	assert.Equal(t, presentation.Inline, state)
	assert.True(t, v.Mounted())
}

func TestConnectReportsDimensions(t *testing.T) {
	v, rec := newViewer(t, Props{})
	assert.Equal(t, remote.SurfaceWaiting, v.Surface().State)

	work := v.Update(Props{Endpoint: &remote.Endpoint{Port: 6080}})
	require.True(t, work.Connect)
	assert.Nil(t, work.Document)

	s := v.Connect(context.Background())
	assert.Equal(t, remote.SurfaceLive, s.State)
	assert.Equal(t, remote.Size{Width: 1024, Height: 768}, v.Dimensions())
	assert.Equal(t, []remote.Size{{Width: 1024, Height: 768}}, rec.dims)

	url, err := v.SurfaceURL()
	require.NoError(t, err)
	assert.Contains(t, url, "localhost:6080/vnc.html")

	// unchanged endpoint does not reconnect
	assert.False(t, v.Update(Props{Endpoint: &remote.Endpoint{Port: 6080}}).Connect)
}

func TestHoverResetsWhenRunBecomesActive(t *testing.T) {
	props := Props{RunStatus: "paused", Endpoint: &remote.Endpoint{Port: 6080}}
	v, _ := newViewer(t, props)
	v.SetHovered(true)
	assert.False(t, v.ShowTakeControlAffordance())

	props.RunStatus = "active"
	v.Update(props)
	assert.False(t, v.ShowTakeControlAffordance())
	v.SetHovered(true)
	assert.True(t, v.ShowTakeControlAffordance())
}

func TestRespond(t *testing.T) {
	v, rec := newViewer(t, Props{RunStatus: "active", PlanRef: "plan-1"})
	assert.ErrorIs(t, v.Respond("ok", true), ErrNotAwaitingInput)

	v.Update(Props{RunStatus: StatusAwaitingInput, PlanRef: "plan-1"})
	assert.True(t, v.AwaitingInput())
	require.NoError(t, v.Respond("looks good", true))
	require.NoError(t, v.RespondToPlan("", "plan-2", false))
	assert.True(t, types.IsValidation(v.RespondToPlan("x", " ", true)))

	require.Len(t, rec.responses, 2)
	assert.True(t, *rec.responses[0].Accepted)
	assert.Equal(t, "plan-1", rec.responses[0].PlanRef)
	assert.False(t, *rec.responses[1].Accepted)
	assert.Equal(t, "plan-2", rec.responses[1].PlanRef)
	assert.Equal(t, types.InputSourceApproval, rec.responses[1].Source)
}

func TestFollowLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p id=\"a\">A</p><p><a href=\"https://example.com\">out</a> <a href=\"#a\">up</a></p></body></html>"))
	}))
	defer srv.Close()

	var opened []string
	v, _ := newViewer(t, Props{}, WithOpener(document.OpenerFunc(func(u string) error {
		opened = append(opened, u)
		return nil
	})))

	_, err := v.FollowLink(document.Link{Href: "#a"})
	assert.ErrorIs(t, err, ErrNoDocument)

	job := v.Update(Props{DocumentRef: srv.URL + "/page.html"}).Document
	require.True(t, v.CompleteDocument(job.Run(context.Background())))
	links := v.Preview().Document().Links
	require.Len(t, links, 2)

	action, err := v.FollowLink(links[0])
	require.NoError(t, err)
	assert.Equal(t, document.ActionOpenExternal, action.Kind)
	assert.Equal(t, []string{"https://example.com"}, opened)

	action, err = v.FollowLink(links[1])
	require.NoError(t, err)
	assert.Equal(t, document.Action{Kind: document.ActionScroll, Line: 0}, action)
}

func TestSetParamsReconnects(t *testing.T) {
	v, _ := newViewer(t, Props{})

	work, err := v.SetParams(remote.Params{Quality: 3, Scaling: remote.ScalingRemote})
	require.NoError(t, err)
	assert.False(t, work.Connect, "no session yet")

	v.Update(Props{Endpoint: &remote.Endpoint{Port: 6080}})
	v.Connect(context.Background())
	work, err = v.SetParams(remote.Params{Quality: 9, Scaling: remote.ScalingNone})
	require.NoError(t, err)
	assert.True(t, work.Connect)
	assert.Equal(t, remote.SurfaceWaiting, v.Surface().State)
	assert.Equal(t, 9, v.Params().Quality)

	_, err = v.SetParams(remote.Params{Quality: 12, Scaling: remote.ScalingLocal})
	assert.True(t, types.IsValidation(err))
}
