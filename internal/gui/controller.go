package gui

import (
	"sync"

	"github.com/thiagokokada/gitdag-go/internal/checkout"
	"github.com/thiagokokada/gitdag-go/internal/debounce"
	"github.com/thiagokokada/gitdag-go/internal/git"
	"github.com/thiagokokada/gitdag-go/internal/gui/selection"
	"github.com/thiagokokada/gitdag-go/internal/layout"
)

type Controller struct {
	svc *git.Service

	cfg   controllerConfig
	repo  controllerRepo
	theme controllerTheme
	data  controllerData

	ui appWidgets

	state controllerState
}

type controllerConfig struct {
	autoReloadRequested bool
	syntaxHighlight     bool
	verbose             bool
}

type controllerRepo struct {
	path string
}

type controllerTheme struct {
	pref    ThemePreference
	palette colorPalette
}

// controllerData holds the one immutable history read of the current
// session: snapshot, layout and scene are replaced together on reload,
// never mutated piecemeal (the HEAD decoration patch aside).
type controllerData struct {
	snapshot *git.Snapshot
	layout   *layout.Layout
	scene    *Scene
	labels   map[string][]string
}

type controllerState struct {
	selection selection.State
	machine   *checkout.Machine
	host      *checkout.Host
	canvas    canvasState
	diff      diffState
	watch     autoReloadState
	loading   bool
}

type diffState struct {
	mu          sync.Mutex
	pendingHash string
	debouncer   *debounce.Debouncer

	// shown identifies the content currently owning the detail pane
	// ("commit:<hash>", "local:unstaged", "local:staged"); async loads
	// compare against it before writing.
	shown string

	fileSections          []git.FileSection
	suppressFileSelection bool
	skipNextSync          bool
	syntaxTags            map[string]string
}
