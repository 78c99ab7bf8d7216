// Package fzf implements an interactive fuzzy finder for the terminal.
// Candidate lines are read from an input stream, matched incrementally
// against the query the user types, and the confirmed selection is
// written to the original stdout.
package fzf

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/lestrrat-go/pdebug"
	"github.com/pkg/errors"
	"github.com/wellle/fzf/config"
	"github.com/wellle/fzf/filter"
	"github.com/wellle/fzf/hub"
	"github.com/wellle/fzf/internal/util"
	"github.com/wellle/fzf/line"
	"github.com/wellle/fzf/query"
	"github.com/wellle/fzf/selection"
	"github.com/wellle/fzf/sig"
	"github.com/wellle/fzf/ui"
)

const version = "v0.9.0"

// defaultCommand enumerates files when the finder is started on a
// terminal with no input redirection.
const defaultCommand = `find * -path '*/\.*' -prune -o -type f -print -o -type l -print`

type errIgnorable struct {
	err error
}

func (e errIgnorable) Ignorable() bool { return true }
func (e errIgnorable) Unwrap() error   { return e.err }
func (e errIgnorable) Error() string   { return e.err.Error() }

func makeIgnorable(err error) error {
	return &errIgnorable{err: err}
}

type errWithExitStatus struct {
	err    error
	status int
}

func (e errWithExitStatus) Error() string   { return e.err.Error() }
func (e errWithExitStatus) Unwrap() error   { return e.err }
func (e errWithExitStatus) ExitStatus() int { return e.status }

func setExitStatus(err error, status int) error {
	return &errWithExitStatus{err: err, status: status}
}

type errCollectResults struct{}

func (errCollectResults) Error() string        { return "collect results" }
func (errCollectResults) CollectResults() bool { return true }

type idgen struct {
	ch chan uint64
}

func newIDGen() *idgen {
	return &idgen{
		ch: make(chan uint64),
	}
}

func (ig *idgen) Run(ctx context.Context) {
	for i := uint64(1); ; i++ {
		select {
		case <-ctx.Done():
			return
		case ig.ch <- i:
		}
	}
}

func (ig *idgen) Next() uint64 {
	return <-ig.ch
}

var spinnerGlyphs = []rune{'-', '\\', '|', '/'}

// Fzf is the global object containing everything required to run the
// finder. It also holds the shared state the four loops communicate
// through.
type Fzf struct {
	Argv   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	args   []string
	hub    *hub.Hub
	caret  ui.Caret
	query  *query.Query
	config config.Config

	matcher    filter.Matcher
	matchCache *filter.Cache
	extended   bool

	sortEnabled bool
	sortLimit   int

	multi            bool
	mouseEnabled     bool
	use256Color      bool
	blackBackground  bool
	prompt           string
	initialQuery     string
	filterMode       bool
	filterQuery      string
	selectOneAndExit bool
	exitZeroAndExit  bool
	skipReadConfig   bool

	styles    *ui.StyleSet
	screen    ui.Screen
	renderer  *Renderer
	selection *selection.Set
	idgen     *idgen
	source    *Source

	mutex      sync.Mutex
	view       *View
	matches    []line.Line
	vcursor    int
	spinnerIdx int
	loaded     bool
	progress   int

	yankMutex sync.Mutex
	yank      string

	screenStart   chan struct{}
	startOnce     sync.Once
	screenRunning bool

	readyCh    chan struct{}
	cancelFunc func()
	err        error
}

// New creates a Fzf instance with the default wiring.
func New() *Fzf {
	return &Fzf{
		Argv:        os.Args,
		Stderr:      os.Stderr,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		hub:         hub.New(),
		query:       query.New(),
		matchCache:  filter.NewCache(),
		selection:   selection.New(),
		idgen:       newIDGen(),
		screen:      ui.NewTcell(),
		renderer:    NewRenderer(),
		progress:    -1,
		screenStart: make(chan struct{}),
		readyCh:     make(chan struct{}),
	}
}

func (p *Fzf) Hub() *hub.Hub             { return p.hub }
func (p *Fzf) Query() *query.Query       { return p.query }
func (p *Fzf) Caret() *ui.Caret          { return &p.caret }
func (p *Fzf) Screen() ui.Screen         { return p.screen }
func (p *Fzf) Styles() *ui.StyleSet      { return p.styles }
func (p *Fzf) Prompt() string            { return p.prompt }
func (p *Fzf) Selection() *selection.Set { return p.selection }
func (p *Fzf) Matcher() filter.Matcher   { return p.matcher }
func (p *Fzf) MatchCache() *filter.Cache { return p.matchCache }
func (p *Fzf) MultiSelect() bool         { return p.multi }
func (p *Fzf) Source() *Source           { return p.source }
func (p *Fzf) Ready() <-chan struct{}    { return p.readyCh }

func (p *Fzf) SelectedLen() int {
	return p.selection.Len()
}

func (p *Fzf) IsSelected(l line.Line) bool {
	return p.selection.Has(l)
}

// Matches returns the most recently published match list.
func (p *Fzf) Matches() []line.Line {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.matches
}

// SetMatches publishes a new match list and re-clamps the cursor.
func (p *Fzf) SetMatches(matches []line.Line) {
	p.mutex.Lock()
	p.matches = matches
	p.vcursor = clampCursor(p.vcursor, len(matches), p.perPageLocked())
	p.mutex.Unlock()
}

// Count returns the total number of lines read so far.
func (p *Fzf) Count() int {
	if s := p.source; s != nil {
		return s.Count()
	}
	return 0
}

func (p *Fzf) VCursor() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.vcursor
}

func clampCursor(v, nmatches, perPage int) int {
	limit := nmatches
	if perPage > 0 && perPage < limit {
		limit = perPage
	}
	if v >= limit {
		v = limit - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}

func (p *Fzf) perPageLocked() int {
	if p.view == nil {
		return 0
	}
	return p.view.PerPage()
}

// SetVCursor moves the highlighted row to v, clamped to the rows that
// are actually visible.
func (p *Fzf) SetVCursor(v int) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.vcursor = clampCursor(v, len(p.matches), p.perPageLocked())
}

// MoveVCursor moves the highlighted row by delta.
func (p *Fzf) MoveVCursor(delta int) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.vcursor = clampCursor(p.vcursor+delta, len(p.matches), p.perPageLocked())
}

// MaxVisibleRow returns the index of the topmost visible row.
func (p *Fzf) MaxVisibleRow() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	limit := len(p.matches)
	if pp := p.perPageLocked(); pp > 0 && pp < limit {
		limit = pp
	}
	if limit == 0 {
		return 0
	}
	return limit - 1
}

// CurrentMatch returns the line under the cursor.
func (p *Fzf) CurrentMatch() (line.Line, bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.vcursor < 0 || p.vcursor >= len(p.matches) {
		return nil, false
	}
	return p.matches[p.vcursor], true
}

// RotateSpinner advances the spinner by one glyph. Called on every
// new-batch event.
func (p *Fzf) RotateSpinner() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.spinnerIdx = (p.spinnerIdx + 1) % len(spinnerGlyphs)
}

// SetLoaded records that the source hit EOF, which clears the spinner.
func (p *Fzf) SetLoaded() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.loaded = true
}

func (p *Fzf) Loaded() bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.loaded
}

// Spinner returns the current glyph, or 0 once the input is loaded.
func (p *Fzf) Spinner() rune {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.loaded {
		return 0
	}
	return spinnerGlyphs[p.spinnerIdx]
}

func (p *Fzf) Progress() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.progress
}

func (p *Fzf) SetProgress(pct int) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.progress = pct
}

// Yank returns the kill buffer contents.
func (p *Fzf) Yank() string {
	p.yankMutex.Lock()
	defer p.yankMutex.Unlock()
	return p.yank
}

// SetYank stores deleted text into the kill buffer.
func (p *Fzf) SetYank(s string) {
	p.yankMutex.Lock()
	defer p.yankMutex.Unlock()
	p.yank = s
}

func (p *Fzf) Err() error {
	return p.err
}

// Exit records the terminating error and cancels the run context.
func (p *Fzf) Exit(err error) {
	if pdebug.Enabled {
		pdebug.Printf("Fzf.Exit (err = %v)", err)
	}
	p.err = err
	if cf := p.cancelFunc; cf != nil {
		cf()
	}
}

// protect runs fn, converting a panic into an internal error so that
// the UI thread can restore the terminal before the process dies.
func (p *Fzf) protect(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			p.Exit(setExitStatus(errors.Errorf("internal error in %s: %v", name, r), 2))
		}
	}()
	fn()
}

// ExecQuery publishes the current query and caret to the searcher.
func (p *Fzf) ExecQuery() {
	select {
	case <-p.readyCh:
	default:
		return
	}
	p.hub.Emit(hub.EvtSearchNew, hub.QuerySnapshot{
		Text:    p.query.String(),
		CursorX: p.caret.Pos(),
	})
}

// Setup parses the command line and the optional settings file, and
// applies both to the Fzf object.
func (p *Fzf) Setup() error {
	if err := p.config.Init(); err != nil {
		return errors.Wrap(err, "failed to initialize config")
	}

	var opts CLIOptions
	if err := p.parseCommandLine(&opts, &p.args, p.Argv); err != nil {
		return err
	}

	if !p.skipReadConfig {
		if file := opts.OptRcfile; file != "" {
			if err := p.config.ReadFilename(file); err != nil {
				return errors.Wrap(err, "failed to read settings file")
			}
		} else if file, err := config.LocateRcfile(config.DefaultLocator); err == nil {
			if err := p.config.ReadFilename(file); err != nil {
				return errors.Wrap(err, "failed to read settings file")
			}
		}
	}

	return p.ApplyConfig(opts)
}

// ApplyConfig folds the parsed options and the settings file into the
// runtime configuration.
func (p *Fzf) ApplyConfig(opts CLIOptions) error {
	caseMode := filter.CaseSmart
	switch {
	case opts.OptCaseSensitive:
		caseMode = filter.CaseRespect
	case opts.OptIgnoreCase:
		caseMode = filter.CaseIgnore
	}

	nth, err := ParseNth(opts.OptNth)
	if err != nil {
		return setExitStatus(err, 1)
	}

	p.extended = opts.OptExtended || opts.OptExtendedExact
	p.matcher = filter.New(filter.Config{
		Extended:   p.extended,
		ExactTerms: opts.OptExtendedExact,
		Case:       caseMode,
		Nth:        nth,
		Delimiter:  opts.OptDelimiter,
	})

	p.sortEnabled = !opts.OptNoSort
	p.sortLimit = opts.OptSort

	p.multi = opts.OptMulti
	p.initialQuery = opts.OptQuery
	p.filterMode = opts.OptFilter != ""
	p.filterQuery = opts.OptFilter
	p.selectOneAndExit = opts.OptSelect1
	p.exitZeroAndExit = opts.OptExit0

	p.mouseEnabled = !opts.OptNoMouse
	if p.config.Mouse != nil && !opts.OptMouse {
		p.mouseEnabled = *p.config.Mouse
	}

	p.use256Color = p.config.Use256Color
	if strings.Contains(os.Getenv("TERM"), "256") {
		p.use256Color = true
	}
	if opts.Opt256 {
		p.use256Color = true
	}
	if opts.OptNo256 || opts.OptNoColor {
		p.use256Color = false
	}
	p.blackBackground = opts.OptBlack || p.config.Black

	p.prompt = p.config.Prompt
	if v := opts.OptPrompt; v != "" {
		p.prompt = v
	}

	p.styles = &p.config.Style
	if p.use256Color {
		p.styles.Init256()
	}
	if opts.OptNoColor {
		// a zero StyleSet renders everything in the default colors
		p.styles = &ui.StyleSet{}
	}

	return nil
}

func (p *Fzf) parseCommandLine(opts *CLIOptions, args *[]string, argv []string) error {
	remaining, err := opts.parse(argv)
	if err != nil {
		// usage was already printed by the parser
		return makeIgnorable(setExitStatus(errors.Wrap(err, "failed to parse command line"), 1))
	}

	if opts.OptHelp {
		_, _ = p.Stdout.Write(opts.help())
		return makeIgnorable(setExitStatus(errors.New("user asked to show help message"), 0))
	}

	if opts.OptVersion {
		_, _ = io.WriteString(p.Stdout, "fzf version "+version+"\n")
		return makeIgnorable(setExitStatus(errors.New("user asked to show version"), 0))
	}

	*args = remaining
	return nil
}

// SetupSource decides where candidate lines come from: a file given on
// the command line, a redirected stdin, or the default command.
func (p *Fzf) SetupSource(ctx context.Context) (*Source, error) {
	var in io.Reader
	var name string
	switch {
	case len(p.args) > 0:
		f, err := os.Open(p.args[0])
		if err != nil {
			return nil, setExitStatus(errors.Wrap(err, "failed to open file for input"), 1)
		}
		in = f
		name = p.args[0]
	case !util.IsTty(p.Stdin):
		in = p.Stdin
		name = "-"
	default:
		cmd := os.Getenv("FZF_DEFAULT_COMMAND")
		if cmd == "" {
			cmd = defaultCommand
		}
		c := util.Shell(ctx, cmd)
		c.Stderr = p.Stderr
		out, err := c.StdoutPipe()
		if err != nil {
			return nil, setExitStatus(errors.Wrap(err, "failed to run default command"), 1)
		}
		if err := c.Start(); err != nil {
			return nil, setExitStatus(errors.Wrap(err, "failed to run default command"), 1)
		}
		in = out
		name = cmd
	}

	src := NewSource(name, in, p.idgen)
	go p.protect("reader", func() { src.Setup(ctx, p) })
	return src, nil
}

// ScreenRunning reports whether the full-screen interface has started.
func (p *Fzf) ScreenRunning() bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.screenRunning
}

func (p *Fzf) setScreenRunning(v *View) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.view = v
	p.screenRunning = true
}

// StartScreen asks the run loop to initialize the terminal. Safe to
// call more than once.
func (p *Fzf) StartScreen() {
	p.startOnce.Do(func() { close(p.screenStart) })
}

// publishHook is consulted after every searcher publish, before the
// screen has been initialized. It implements select-1 and exit-0 and
// otherwise releases the deferred screen start.
func (p *Fzf) publishHook(matches []line.Line, final bool) {
	if p.ScreenRunning() {
		return
	}

	switch {
	case final && p.selectOneAndExit && len(matches) == 1:
		p.selection.Add(matches[0])
		p.Exit(errCollectResults{})
	case final && p.exitZeroAndExit && len(matches) == 0:
		p.Exit(errCollectResults{})
	case final:
		p.StartScreen()
	case p.selectOneAndExit && len(matches) > 1:
		p.StartScreen()
	case p.exitZeroAndExit && !p.selectOneAndExit && len(matches) > 0:
		p.StartScreen()
	}
}

func (p *Fzf) deferredScreenStart() bool {
	return p.selectOneAndExit || p.exitZeroAndExit
}

// Run drives the whole program: it wires the reader, searcher,
// renderer and input loops together and blocks until one of them asks
// to exit.
func (p *Fzf) Run(ctx context.Context) (err error) {
	if err := p.Setup(); err != nil {
		return err
	}

	var cancelOnce sync.Once
	var cancelCtx func()
	ctx, cancelCtx = context.WithCancel(ctx)
	cancel := func() {
		cancelOnce.Do(func() {
			cancelCtx()
			// unblock the searcher if it is waiting on the hub
			p.hub.Emit(hub.EvtQuit, true)
		})
	}
	defer cancel()
	p.cancelFunc = cancel

	go p.idgen.Run(ctx)

	sigH := sig.New(sig.ReceivedHandlerFunc(func(s os.Signal) {
		p.Exit(setExitStatus(errors.New("received signal: "+s.String()), 1))
	}))
	go func() { _ = sigH.Loop(ctx, cancel) }()

	src, err := p.SetupSource(ctx)
	if err != nil {
		return err
	}
	p.source = src

	if p.filterMode {
		return p.runFilter(ctx)
	}

	if q := p.initialQuery; q != "" {
		p.query.Set(q)
		p.caret.SetPos(utf8.RuneCountInString(q))
	}

	go p.protect("searcher", func() { _ = NewSearcher(p).Loop(ctx, cancel) })

	// The screen is deferred while select-1/exit-0 may still decide
	// to finish without ever drawing anything
	if !p.deferredScreenStart() {
		p.StartScreen()
	}

	go func() {
		select {
		case <-ctx.Done():
			return
		case <-p.screenStart:
		}

		if err := p.screen.Init(ui.InitOptions{
			Use256Color:     p.use256Color,
			BlackBackground: p.blackBackground,
			EnableMouse:     p.mouseEnabled,
		}); err != nil {
			p.Exit(setExitStatus(errors.Wrap(err, "failed to initialize screen"), 2))
			return
		}

		view := NewView(p)
		p.setScreenRunning(view)

		go p.protect("renderer", func() { _ = p.renderer.Loop(ctx, cancel) })
		go p.protect("input", func() {
			_ = NewInput(p, Keymap{}, p.screen.PollEvent(ctx)).Loop(ctx, cancel)
		})

		p.RequestDraw(true)
	}()
	defer func() { _ = p.screen.Close() }()

	close(p.readyCh)
	if p.query.Len() > 0 {
		p.ExecQuery()
	}

	<-ctx.Done()

	return p.Err()
}

// runFilter implements filter mode: drain the source, match once,
// print the results. They are rank-sorted when sorting is enabled and
// the query is not empty; otherwise they keep arrival order.
func (p *Fzf) runFilter(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.source.SetupDone():
	}

	lines := p.source.DrainPending()
	cp, err := p.matcher.Compile(p.filterQuery)
	if err != nil {
		return setExitStatus(errors.Wrap(err, "failed to compile filter query"), 2)
	}

	matches, err := filter.Scan(cp, lines, nil, nil)
	if err != nil {
		return setExitStatus(err, 2)
	}
	if p.sortEnabled && !p.matcher.Empty(p.filterQuery) {
		filter.Sort(matches)
	}

	var buf bytes.Buffer
	for _, l := range matches {
		buf.WriteString(l.Text())
		buf.WriteByte('\n')
	}
	_, _ = p.Stdout.Write(buf.Bytes())
	return nil
}

// RequestDraw enqueues a full screen redraw onto the render queue.
func (p *Fzf) RequestDraw(purgeCache bool) {
	p.mutex.Lock()
	v := p.view
	running := p.screenRunning
	p.mutex.Unlock()
	if !running || v == nil {
		return
	}
	p.renderer.Enqueue(func() {
		if purgeCache {
			v.Purge()
		}
		v.DrawScreen()
	})
}

// RequestDrawPrompt enqueues a prompt-only redraw.
func (p *Fzf) RequestDrawPrompt() {
	p.mutex.Lock()
	v := p.view
	running := p.screenRunning
	p.mutex.Unlock()
	if !running || v == nil {
		return
	}
	p.renderer.Enqueue(func() { v.DrawPrompt() })
}

// RequestDrawStatus enqueues a status-line redraw.
func (p *Fzf) RequestDrawStatus() {
	p.mutex.Lock()
	v := p.view
	running := p.screenRunning
	p.mutex.Unlock()
	if !running || v == nil {
		return
	}
	p.renderer.Enqueue(func() { v.DrawStatus() })
}

// PrintResults writes the final selection to the original stdout, in
// the order the lines were selected. With no explicit selection the
// line under the cursor is emitted.
func (p *Fzf) PrintResults() {
	sel := p.selection
	if sel.Len() == 0 {
		if l, ok := p.CurrentMatch(); ok {
			sel.Add(l)
		}
	}

	var buf bytes.Buffer
	sel.Ascend(func(l line.Line) bool {
		buf.WriteString(l.Text())
		buf.WriteByte('\n')
		return true
	})
	_, _ = p.Stdout.Write(buf.Bytes())
}
