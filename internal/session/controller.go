// Package session owns the single analysis session and sequences the
// upload -> analyze -> explore -> export lifecycle around it.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/abhis59060/Network-analyzer/internal/intake"
	"github.com/abhis59060/Network-analyzer/internal/invoker"
	"github.com/abhis59060/Network-analyzer/internal/models"
	"github.com/abhis59060/Network-analyzer/internal/progress"
	"github.com/abhis59060/Network-analyzer/internal/project"
	"github.com/abhis59060/Network-analyzer/internal/storage"
	"github.com/abhis59060/Network-analyzer/internal/viz"
)

// Action sequencing errors. These are state machine refusals, distinct
// from the session error taxonomy that lands in lastError.
var (
	// ErrAnalysisInFlight: a second analyze while one is outstanding is
	// rejected, not queued and not replacing the in-flight call.
	ErrAnalysisInFlight  = errors.New("an analysis is already in progress")
	ErrNoFile            = errors.New("no capture file selected")
	ErrInvalidState      = errors.New("action not valid in the current session state")
	ErrUploadNotComplete = errors.New("upload still in progress")
	ErrBadChartKind      = errors.New("chart type must be bar, line or pie")
)

// Analyzer issues one remote analysis call. Satisfied by *invoker.Client.
type Analyzer interface {
	Analyze(ctx context.Context, fileName string, file io.Reader) (*invoker.Result, *models.SessionError)
	BaseURL() string
}

// Controller is the orchestrating state machine. It owns the one
// AnalysisSession instance; every mutation goes through an action method
// and every derived view is recomputed from the committed state.
type Controller struct {
	mu       sync.RWMutex
	session  *models.AnalysisSession
	store    storage.Store
	analyzer Analyzer
	sim      *progress.Simulator

	// generation invalidates results of superseded work: it is bumped on
	// every file selection and reset, and in-flight outcomes that carry a
	// stale generation are discarded.
	generation uint64
	closed     bool
}

// NewController creates the controller around a fresh idle session.
// A nil simulator gets the default step and period.
func NewController(store storage.Store, analyzer Analyzer, sim *progress.Simulator) *Controller {
	if sim == nil {
		sim = progress.NewSimulator(0, 0)
	}
	return &Controller{
		session:  models.NewAnalysisSession(),
		store:    store,
		analyzer: analyzer,
		sim:      sim,
	}
}

// Snapshot returns the client-facing view of the current session state.
func (c *Controller) Snapshot() models.SessionView {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.View()
}

// SelectFile validates and accepts a candidate capture file. On
// acceptance the prior session view is wiped (records, visualizations,
// search, page, progress), the bytes are stored for later analysis and
// retry, and the progress simulation starts. On rejection the session
// moves to failed with the validation error and the file slot keeps its
// previous value.
func (c *Controller) SelectFile(name string, size int64, r io.Reader) (*models.FileInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.Status == models.StatusAnalyzing {
		return nil, ErrAnalysisInFlight
	}

	prev := c.session.Status
	c.session.Status = models.StatusValidating
	if verr := intake.Validate(name, size); verr != nil {
		c.session.Status = models.StatusFailed
		c.session.LastError = verr
		fmt.Printf("[Session] Rejected file %q: %s\n", name, verr.Message)
		return nil, verr
	}

	info, err := c.store.Save(name, r)
	if err != nil {
		// A storage fault is not a validation outcome, so the session
		// keeps its prior state and the error stays outside the taxonomy.
		c.session.Status = prev
		fmt.Printf("[Session] Failed to store file %q: %v\n", name, err)
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	// Replace the previously stored file, if any.
	if prev := c.session.File; prev != nil {
		c.store.Delete(prev.ID)
	}

	c.generation++
	gen := c.generation

	c.session.File = info
	c.session.Status = models.StatusAwaitingAnalysis
	c.session.UploadProgress = 0
	c.session.Records = nil
	c.session.Visualizations = nil
	c.session.SearchTerm = ""
	c.session.CurrentPage = 1
	c.session.LastError = nil

	// Starting the simulator cancels any task from a previous selection.
	c.sim.Start(func(p int) {
		c.applyProgress(gen, p)
	})

	fmt.Printf("[Session] Accepted file %q (%d bytes)\n", name, size)
	return info, nil
}

// applyProgress commits a simulated progress tick, discarding ticks from
// a superseded selection.
func (c *Controller) applyProgress(gen uint64, p int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.generation || c.session.Status != models.StatusAwaitingAnalysis {
		return
	}
	if p > c.session.UploadProgress {
		c.session.UploadProgress = p
	}
}

// Analyze issues the remote analysis call for the accepted file and
// waits for the outcome. Valid from awaiting-analysis (once the progress
// signal has completed) and from failed. Exactly one call may be
// outstanding; a concurrent attempt is refused with ErrAnalysisInFlight.
func (c *Controller) Analyze(ctx context.Context) error {
	file, gen, err := c.beginAnalysis()
	if err != nil {
		return err
	}
	c.finishAnalysis(ctx, file, gen)
	return nil
}

// StartAnalysis is the asynchronous form of Analyze: preconditions are
// checked synchronously, the remote call runs in the background and its
// outcome lands in the session state for observers to poll or stream.
func (c *Controller) StartAnalysis() error {
	file, gen, err := c.beginAnalysis()
	if err != nil {
		return err
	}
	go c.finishAnalysis(context.Background(), file, gen)
	return nil
}

func (c *Controller) beginAnalysis() (*models.FileInfo, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.Status == models.StatusAnalyzing {
		return nil, 0, ErrAnalysisInFlight
	}
	file := c.session.File
	if file == nil {
		return nil, 0, ErrNoFile
	}
	switch c.session.Status {
	case models.StatusAwaitingAnalysis:
		if c.session.UploadProgress < 100 {
			return nil, 0, ErrUploadNotComplete
		}
	case models.StatusFailed:
	default:
		return nil, 0, ErrInvalidState
	}

	// A new attempt never shows stale results mixed with a new error.
	c.session.Status = models.StatusAnalyzing
	c.session.Records = nil
	c.session.Visualizations = nil
	c.session.LastError = nil
	return file, c.generation, nil
}

func (c *Controller) finishAnalysis(ctx context.Context, file *models.FileInfo, gen uint64) {
	fmt.Printf("[Session] Analyzing %q via %s\n", file.Name, c.analyzer.BaseURL())

	result, serr := c.invoke(ctx, file)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.generation {
		// The session was reset or the file replaced while the call was
		// in flight; its outcome no longer belongs to anyone.
		fmt.Printf("[Session] Discarding stale analysis result for %q\n", file.Name)
		return
	}

	if serr != nil {
		c.session.Status = models.StatusFailed
		c.session.LastError = serr
		fmt.Printf("[Session] Analysis failed: %s\n", serr.Message)
		return
	}

	c.session.Records = result.Records
	c.session.Visualizations = result.Visualizations
	c.session.CurrentPage = 1
	c.session.Status = models.StatusReady
	c.session.LastError = nil
	fmt.Printf("[Session] Analysis complete: %d records, %d visualizations\n",
		len(result.Records), len(result.Visualizations))
}

func (c *Controller) invoke(ctx context.Context, file *models.FileInfo) (*invoker.Result, *models.SessionError) {
	rc, err := c.store.Open(file.ID)
	if err != nil {
		return nil, &models.SessionError{
			Kind:    models.ErrNetwork,
			Message: fmt.Sprintf("stored capture file unavailable: %v", err),
		}
	}
	defer rc.Close()
	return c.analyzer.Analyze(ctx, file.Name, rc)
}

// Retry re-invokes the analysis on the last accepted file after a
// failure. It is a no-op when no file is present.
func (c *Controller) Retry(ctx context.Context) error {
	c.mu.Lock()
	if c.session.File == nil {
		c.mu.Unlock()
		return nil
	}
	if c.session.Status != models.StatusFailed {
		c.mu.Unlock()
		return ErrInvalidState
	}
	c.mu.Unlock()

	return c.Analyze(ctx)
}

// StartRetry is the asynchronous form of Retry.
func (c *Controller) StartRetry() error {
	c.mu.Lock()
	if c.session.File == nil {
		c.mu.Unlock()
		return nil
	}
	if c.session.Status != models.StatusFailed {
		c.mu.Unlock()
		return ErrInvalidState
	}
	c.mu.Unlock()

	return c.StartAnalysis()
}

// Reset returns the session to its initial idle state, cancelling any
// pending progress task and discarding the stored file.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sim.Stop()
	if f := c.session.File; f != nil {
		c.store.Delete(f.ID)
	}
	c.generation++
	c.session = models.NewAnalysisSession()
	fmt.Printf("[Session] Reset to idle\n")
}

// SetSearchTerm updates the search filter and snaps back to page one.
// Re-applying the current term leaves the page where it is.
func (c *Controller) SetSearchTerm(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if term == c.session.SearchTerm {
		return
	}
	c.session.SearchTerm = term
	c.session.CurrentPage = 1
}

// SetPage moves to the requested page, clamped into the valid range for
// the current filtered record set.
func (c *Controller) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session.CurrentPage = project.ClampPage(
		c.session.Records, c.session.SearchTerm, page, c.session.PageSize)
}

// SetChartChoice updates the chart type and color overrides.
func (c *Controller) SetChartChoice(choice models.ChartChoice) error {
	switch choice.Type {
	case models.ChartBar, models.ChartLine, models.ChartPie:
	default:
		return ErrBadChartKind
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Chart = choice
	return nil
}

// Records projects the current page of the filtered record set.
func (c *Controller) Records() project.Result {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return project.Project(
		c.session.Records, c.session.SearchTerm, c.session.CurrentPage, c.session.PageSize)
}

// AllRecords returns the full, unfiltered record set. The slice is
// replaced wholesale on every analysis and never mutated in place, so
// callers may read it without copying.
func (c *Controller) AllRecords() []models.PacketRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.Records
}

// Charts adapts every visualization to the current chart choice. Before
// any analysis has produced visualizations, the fallback distribution
// chart is served so the view is never empty.
func (c *Controller) Charts() []viz.ChartConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()

	specs := c.session.Visualizations
	if len(specs) == 0 {
		specs = []models.VisualizationSpec{viz.FallbackSpec()}
	}
	return viz.AdaptAll(specs, c.session.Chart)
}

// Chart adapts a single visualization by ID.
func (c *Controller) Chart(id string) (viz.ChartConfig, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	specs := c.session.Visualizations
	if len(specs) == 0 {
		specs = []models.VisualizationSpec{viz.FallbackSpec()}
	}
	for _, spec := range specs {
		if spec.ID == id {
			return viz.Adapt(spec, c.session.Chart), true
		}
	}
	return viz.ChartConfig{}, false
}

// Close tears the controller down, cancelling any pending progress task.
// Subsequent ticks and in-flight analysis outcomes are discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sim.Stop()
	c.closed = true
}
