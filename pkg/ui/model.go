// Package ui is the terminal front end: a tree picker, the graph
// canvas, the path transcript, and the overlays. All tree logic lives in
// the core packages; this package only routes input and paints their
// output.
package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/tangential/tangential/pkg/config"
	"github.com/tangential/tangential/pkg/export"
	"github.com/tangential/tangential/pkg/layout"
	"github.com/tangential/tangential/pkg/model"
	"github.com/tangential/tangential/pkg/nav"
	"github.com/tangential/tangential/pkg/pathres"
	"github.com/tangential/tangential/pkg/search"
	"github.com/tangential/tangential/pkg/selection"
	"github.com/tangential/tangential/pkg/store"
	"github.com/tangential/tangential/pkg/treeindex"
)

// viewState is the top-level screen.
type viewState int

const (
	statePicker viewState = iota
	stateGraph
	stateTranscript
)

// Model is the root bubbletea model.
type Model struct {
	store *store.Store
	cfg   config.Config

	state  viewState
	width  int
	height int

	// Tree picker
	trees        []model.Tree
	pickerCursor int

	// Loaded tree
	tree      *model.Tree
	nodes     []model.Node
	leaves    []model.Node
	idx       *treeindex.Index
	layoutRes layout.Result

	// Core state machines
	sel       *selection.State
	resolver  *pathres.Resolver
	navigator *nav.Navigator

	// Canvas scroll (in lines)
	canvasScroll int

	// Leaf/path panel
	leafCursor int
	leafFocus  bool

	// Search overlay
	showSearch    bool
	searchInput   textinput.Model
	searchMatches []search.Match
	searchCursor  int

	// Summary editor
	showNoteInput bool
	noteInput     textarea.Model

	// Transcript
	transcript viewport.Model
	renderer   *glamour.TermRenderer

	errMsg    string
	statusMsg string
}

// Messages produced by async commands.
type (
	treesLoadedMsg struct {
		trees []model.Tree
		err   error
	}
	treeDataMsg struct {
		data *store.TreeData
		err  error
	}
	// pathResolvedMsg carries the resolver sequence captured when the
	// request was ISSUED; Update applies it only while still current.
	pathResolvedMsg struct {
		seq uint64
		ids []string
		err error
	}
	dbChangedMsg   struct{}
	clearStatusMsg struct{}
	exportDoneMsg  struct {
		base string
		err  error
	}
)

// NewModel creates the root model over an open store.
func NewModel(st *store.Store, cfg config.Config) *Model {
	resolver := pathres.New(st)

	si := textinput.New()
	si.Placeholder = "Search nodes..."
	si.CharLimit = 100

	ta := textarea.New()
	ta.Placeholder = "Summary..."
	ta.CharLimit = 200
	ta.SetHeight(3)

	return &Model{
		store:       st,
		cfg:         cfg,
		state:       statePicker,
		sel:         selection.New(resolver),
		resolver:    resolver,
		navigator:   nav.New(cfg.RankTolerance),
		searchInput: si,
		noteInput:   ta,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.loadTreesCmd()
}

// DBChanged tells the model the database changed on disk; the watcher
// sends it through the program's message queue.
func DBChanged() tea.Msg { return dbChangedMsg{} }

func (m *Model) loadTreesCmd() tea.Cmd {
	return func() tea.Msg {
		trees, err := m.store.ListTrees(context.Background(), nil)
		return treesLoadedMsg{trees: trees, err: err}
	}
}

func (m *Model) loadTreeDataCmd(treeID string) tea.Cmd {
	return func() tea.Msg {
		data, err := m.store.LoadTreeData(context.Background(), treeID)
		return treeDataMsg{data: data, err: err}
	}
}

// highlightPathCmd issues the resolver sequence NOW, at call time, and
// only then starts the lookup. This is what makes overlapping
// resolutions settle in issuance order rather than arrival order.
func (m *Model) highlightPathCmd(nodeID string) tea.Cmd {
	seq := m.resolver.Begin()
	return func() tea.Msg {
		nodes, err := m.store.NodePath(context.Background(), nodeID)
		if err != nil {
			return pathResolvedMsg{seq: seq, err: err}
		}
		ids := make([]string, len(nodes))
		for i := range nodes {
			ids[i] = nodes[i].ID
		}
		return pathResolvedMsg{seq: seq, ids: ids}
	}
}

func statusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.transcript.Width = msg.Width - 4
		m.transcript.Height = msg.Height - 6
		m.renderer = nil // re-created lazily at the new width
		return m, nil

	case treesLoadedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.trees = msg.trees
		if m.pickerCursor >= len(m.trees) {
			m.pickerCursor = 0
		}
		return m, nil

	case treeDataMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.setTreeData(msg.data)
		return m, nil

	case pathResolvedMsg:
		if msg.err != nil {
			// Resolution failure leaves the previous path visible.
			m.statusMsg = StatusErrorStyle.Render("path: " + msg.err.Error())
			return m, statusAfter(3 * time.Second)
		}
		if m.sel.ApplyResolved(msg.seq, msg.ids) {
			m.recomputeLayout()
		}
		return m, nil

	case dbChangedMsg:
		if m.tree != nil {
			return m, m.loadTreeDataCmd(m.tree.ID)
		}
		return m, m.loadTreesCmd()

	case clearStatusMsg:
		m.statusMsg = ""
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.statusMsg = StatusErrorStyle.Render(msg.err.Error())
		} else {
			m.statusMsg = "exported " + msg.base + ".{svg,png}"
		}
		return m, statusAfter(3 * time.Second)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// setTreeData installs freshly loaded nodes: the old index and layout
// are discarded wholesale, never patched.
func (m *Model) setTreeData(data *store.TreeData) {
	m.nodes = data.Nodes
	m.leaves = data.Leaves
	m.idx = treeindex.Build(m.nodes)

	// Selection may reference a node that no longer exists.
	if id := m.sel.SelectedID(); id != "" && m.idx.Node(id) == nil {
		m.sel.Select("")
	}
	if m.leafCursor >= len(m.leaves) {
		m.leafCursor = 0
	}

	m.recomputeLayout()
	m.state = stateGraph
}

func (m *Model) recomputeLayout() {
	m.layoutRes = layout.Compute(m.idx, m.cfg.Layout, m.sel.SelectedID(), m.sel.HighlightedPath())
}

// selectNode changes the selection and records the visit for Down
// navigation memory. Every selection change goes through here, whatever
// input caused it.
func (m *Model) selectNode(id string) {
	m.sel.Select(id)
	if n := m.idx.Node(id); n != nil {
		m.navigator.Record(n.ID, n.ParentID)
	}
	m.recomputeLayout()
	m.scrollToSelected()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Text-editing overlays swallow keys before any tree logic runs, so
	// typing never triggers navigation.
	if m.showSearch {
		return m.handleSearchKey(msg)
	}
	if m.showNoteInput {
		return m.handleNoteKey(msg)
	}

	switch m.state {
	case statePicker:
		return m.handlePickerKey(msg)
	case stateGraph:
		return m.handleGraphKey(msg)
	case stateTranscript:
		return m.handleTranscriptKey(msg)
	}
	return m, nil
}

func (m *Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.pickerCursor > 0 {
			m.pickerCursor--
		}
	case "down", "j":
		if m.pickerCursor < len(m.trees)-1 {
			m.pickerCursor++
		}
	case "enter":
		if len(m.trees) > 0 {
			m.tree = &m.trees[m.pickerCursor]
			return m, m.loadTreeDataCmd(m.tree.ID)
		}
	case "r":
		return m, m.loadTreesCmd()
	}
	return m, nil
}

func (m *Model) handleGraphKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "down", "left", "right":
		if m.leafFocus {
			m.moveLeafCursor(msg.String())
			return m, nil
		}
		if target, ok := m.navigator.Move(keyToDirection(msg.String()), m.sel.SelectedID(), m.idx, &m.layoutRes); ok {
			m.selectNode(target)
		}
		return m, nil

	case "enter":
		if m.leafFocus {
			if m.leafCursor < len(m.leaves) {
				leaf := m.leaves[m.leafCursor]
				m.selectNode(leaf.ID)
				return m, m.highlightPathCmd(leaf.ID)
			}
			return m, nil
		}
		if id := m.sel.SelectedID(); id != "" {
			return m, m.highlightPathCmd(id)
		}
		// Nothing selected: select the first root.
		if roots := m.idx.Roots(); len(roots) > 0 {
			m.selectNode(roots[0].ID)
		}
		return m, nil

	case "esc":
		m.sel.ClearHighlightedPath()
		m.recomputeLayout()
		return m, nil

	case "tab":
		m.leafFocus = !m.leafFocus
		return m, nil

	case "t":
		if len(m.sel.HighlightedPath()) > 0 {
			m.state = stateTranscript
			m.transcript.SetContent(m.renderTranscript())
			m.transcript.GotoTop()
		}
		return m, nil

	case "/":
		m.showSearch = true
		m.searchInput.SetValue("")
		m.searchMatches = nil
		m.searchCursor = 0
		m.searchInput.Focus()
		return m, textinput.Blink

	case "n":
		if id := m.sel.SelectedID(); id != "" {
			n := m.idx.Node(id)
			if n != nil && n.Summary != nil {
				m.noteInput.SetValue(*n.Summary)
			} else {
				m.noteInput.SetValue("")
			}
			m.showNoteInput = true
			m.noteInput.Focus()
			return m, textarea.Blink
		}
		return m, nil

	case "y":
		if id := m.sel.SelectedID(); id != "" {
			if n := m.idx.Node(id); n != nil {
				content := n.UserContent
				if n.AssistantContent != nil {
					content += "\n\n" + *n.AssistantContent
				}
				if err := clipboard.WriteAll(content); err != nil {
					m.statusMsg = StatusErrorStyle.Render("clipboard: " + err.Error())
				} else {
					m.statusMsg = "copied node content"
				}
				return m, statusAfter(2 * time.Second)
			}
		}
		return m, nil

	case "x":
		return m, m.exportSnapshot()

	case "r":
		if m.tree != nil {
			return m, m.loadTreeDataCmd(m.tree.ID)
		}
		return m, nil

	case "backspace":
		m.state = statePicker
		return m, m.loadTreesCmd()
	}
	return m, nil
}

func (m *Model) handleTranscriptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "t", "backspace":
		m.state = stateGraph
		return m, nil
	}
	var cmd tea.Cmd
	m.transcript, cmd = m.transcript.Update(msg)
	return m, cmd
}

func (m *Model) moveLeafCursor(key string) {
	switch key {
	case "up":
		if m.leafCursor > 0 {
			m.leafCursor--
		}
	case "down":
		if m.leafCursor < len(m.leaves)-1 {
			m.leafCursor++
		}
	}
}

func keyToDirection(key string) nav.Direction {
	switch key {
	case "up":
		return nav.Up
	case "down":
		return nav.Down
	case "left":
		return nav.Left
	default:
		return nav.Right
	}
}

// exportSnapshot writes SVG and PNG snapshots next to the working
// directory, named after the tree.
func (m *Model) exportSnapshot() tea.Cmd {
	if m.tree == nil {
		return nil
	}
	labels := make(map[string]string, len(m.nodes))
	for i := range m.nodes {
		labels[m.nodes[i].ID] = m.nodes[i].Title()
	}
	snap := export.Snapshot{Result: m.layoutRes, Labels: labels}
	base := fmt.Sprintf("tangential-%s-%s", m.tree.Name, time.Now().Format("20060102-150405"))

	return func() tea.Msg {
		if err := export.SaveSVG(filepath.Clean(base+".svg"), snap); err != nil {
			return exportDoneMsg{err: fmt.Errorf("export svg: %w", err)}
		}
		if err := export.SavePNG(filepath.Clean(base+".png"), snap); err != nil {
			return exportDoneMsg{err: fmt.Errorf("export png: %w", err)}
		}
		return exportDoneMsg{base: base}
	}
}
