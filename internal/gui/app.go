package gui

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	. "modernc.org/tk9.0"
	_ "modernc.org/tk9.0/themes/azure" // load theme

	"github.com/thiagokokada/gitdag-go/internal/checkout"
	"github.com/thiagokokada/gitdag-go/internal/git"
	"github.com/thiagokokada/gitdag-go/internal/layout"
)

// RunConfig describes the parameters that control the GUI runtime.
type RunConfig struct {
	RepoPath        string
	ThemePreference ThemePreference
	AutoReload      bool
	SyntaxHighlight bool
	Verbose         bool
}

func Run(cfg RunConfig) error {
	if cfg.RepoPath == "" {
		cfg.RepoPath = "."
	}
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	if err := InitializeExtension("eval"); err != nil && err != AlreadyInitialized {
		return fmt.Errorf("init eval extension: %v", err)
	}
	svc, err := openOrOfferInit(cfg.RepoPath)
	if err != nil {
		return err
	}
	pref := cfg.ThemePreference
	if pref < ThemeAuto || pref > ThemeDark {
		pref = ThemeAuto
	}
	app := &Controller{
		svc: svc,
		cfg: controllerConfig{
			autoReloadRequested: cfg.AutoReload,
			syntaxHighlight:     cfg.SyntaxHighlight,
			verbose:             cfg.Verbose,
		},
		repo: controllerRepo{
			path: svc.RepoPath(),
		},
		theme: controllerTheme{
			pref: pref,
		},
	}
	app.state.diff.syntaxTags = make(map[string]string)
	return app.run()
}

// openOrOfferInit opens the repository; when the path is not a repository
// and the directory carries no init marker, it offers a one-time
// initialization instead of failing.
func openOrOfferInit(path string) (*git.Service, error) {
	svc, err := git.Open(path)
	if err == nil {
		return svc, nil
	}
	if !errors.Is(err, git.ErrBackendUnavailable) {
		return nil, err
	}
	if git.HasInitMarker(path) {
		// Initialized once already; a missing repository now is a real
		// problem, not something to silently re-init over.
		return nil, err
	}
	answer := MessageBox(
		Parent(App),
		Title("gitdag-go"),
		Icon("question"),
		Msg(fmt.Sprintf("%s is not a git repository.\n\nInitialize one here?", path)),
		Type("yesno"),
	)
	if answer != "yes" {
		return nil, err
	}
	return git.Init(path)
}

func (a *Controller) run() error {
	defer a.shutdown()
	a.theme.palette = paletteForPreference(a.theme.pref)
	if a.theme.palette.ThemeName != "" {
		err := ActivateTheme(a.theme.palette.ThemeName)
		if err != nil {
			slog.Error(
				"activate theme",
				slog.String("theme", a.theme.palette.ThemeName),
				slog.Any("error", err),
			)
		}
	}
	applyAppIcon()
	a.buildUI()
	a.startCheckoutHost()
	a.initAutoReload(a.cfg.autoReloadRequested)
	a.setStatus("Loading history...")
	a.reloadHistoryAsync()
	App.WmTitle("gitdag-go")
	App.SetResizable(true, true)
	App.Center().Wait()
	return nil
}

func (a *Controller) shutdown() {
	if a.state.machine != nil {
		a.state.machine.Dispose()
	}
	if a.state.host != nil {
		a.state.host.Close()
	}
	a.disableAutoReload()
}

func (a *Controller) startCheckoutHost() {
	// Frames are decoded here, once, on the event reactor; everything
	// past this point works with tagged variants.
	a.state.host = checkout.NewHost(a.svc, func(frame []byte) {
		PostEvent(func() {
			msg, err := checkout.Decode(frame)
			if err != nil {
				slog.Error("drop undecodable result frame", slog.Any("error", err))
				return
			}
			res, ok := msg.(checkout.Result)
			if !ok {
				slog.Error("drop unexpected message from host")
				return
			}
			a.onCheckoutResult(res)
		}, false)
	})
	go a.state.host.Run()
}

func (a *Controller) onCheckoutResult(res checkout.Result) {
	if a.state.machine == nil {
		return
	}
	patch, ok := a.state.machine.Resolve(res)
	if ok {
		a.applyHeadPatch(patch)
		if a.data.snapshot != nil {
			a.data.snapshot.Head = git.HeadState{Hash: patch.New, Detached: true}
		}
		a.setStatus(fmt.Sprintf("Checked out %s.", shortLabel(patch.New)))
		return
	}
	if a.state.machine.State() != checkout.StateFailed {
		// Late or mismatched result; nothing to surface.
		return
	}
	reason := a.state.machine.FailureReason()
	MessageBox(
		Parent(App),
		Title("Checkout failed"),
		Icon("error"),
		Msg(fmt.Sprintf("Unable to check out %s:\n\n%s", shortLabel(res.CommitHash), reason)),
		Type("ok"),
	)
	// Dismissing the dialog acknowledges the failure; the session resumes
	// at the previous HEAD.
	a.state.machine.Ack()
	a.setStatus(fmt.Sprintf("Checkout failed: %s", reason))
}

func (a *Controller) reloadHistoryAsync() {
	if a.state.loading {
		return
	}
	a.state.loading = true
	slog.Debug("reloadHistoryAsync start")
	go func() {
		snapshot, err := a.svc.Snapshot()
		var labels map[string][]string
		if err == nil {
			labels, err = a.svc.BranchLabels()
		}
		PostEvent(func() {
			a.state.loading = false
			if err != nil {
				slog.Error("failed to load history", slog.Any("error", err))
				a.setStatus(fmt.Sprintf("Failed to load history: %v", err))
				return
			}
			a.applySnapshot(snapshot, labels)
		}, false)
	}()
}

func (a *Controller) applySnapshot(snapshot *git.Snapshot, labels map[string][]string) {
	order := make([]string, len(snapshot.Commits))
	for i, c := range snapshot.Commits {
		order[i] = c.Hash
	}
	lay := layout.Compute(order, snapshot.Children)
	scene := buildScene(lay, snapshot.Head.Hash, defaultGeometry())

	a.data.snapshot = snapshot
	a.data.layout = lay
	a.data.scene = scene
	a.data.labels = normalizeHeadLabels(labels)

	if a.state.machine == nil {
		a.state.machine = checkout.NewMachine(snapshot.Head.Hash, func(req checkout.Request) {
			if err := a.state.host.Send(req); err != nil {
				slog.Error("send checkout request", slog.Any("error", err))
			}
		})
	} else {
		a.state.machine.SetHead(snapshot.Head.Hash)
	}

	a.drawScene()
	slog.Debug("history loaded",
		slog.Int("commits", len(snapshot.Commits)),
		slog.Int("lanes", lay.MaxHeight()),
	)
	a.setStatus(a.statusSummary())
}

// applyExternalHead handles a checkout made outside the panel: same
// decoration patch as a protocol checkout, no re-layout.
func (a *Controller) applyExternalHead(hash string) {
	if a.state.machine == nil || a.data.snapshot == nil {
		return
	}
	old := a.data.snapshot.Head.Hash
	if !a.state.machine.SetHead(hash) {
		return
	}
	a.data.snapshot.Head = git.HeadState{Hash: hash, Detached: true}
	a.applyHeadPatch(checkout.HeadPatch{Old: old, New: hash})
	a.setStatus(fmt.Sprintf("HEAD moved to %s outside the panel.", shortLabel(hash)))
}

// normalizeHeadLabels strips the HEAD prefix out of ref labels; the HEAD
// marker is drawn from the scene's Head flag so the decoration patch can
// move it without disturbing branch labels.
func normalizeHeadLabels(labels map[string][]string) map[string][]string {
	if labels == nil {
		return nil
	}
	out := make(map[string][]string, len(labels))
	for hash, names := range labels {
		kept := make([]string, 0, len(names))
		for _, name := range names {
			if rest, found := strings.CutPrefix(name, "HEAD -> "); found {
				name = rest
			} else if name == "HEAD" {
				continue
			}
			kept = append(kept, name)
		}
		if len(kept) > 0 {
			out[hash] = kept
		}
	}
	return out
}

func (a *Controller) setStatus(msg string) {
	text := msg
	PostEvent(func() {
		a.ui.status.Configure(Txt(text))
	}, false)
}

func (a *Controller) statusSummary() string {
	if a.data.snapshot == nil {
		return "No history loaded."
	}
	head := a.data.snapshot.Head
	at := head.BranchName
	if at == "" {
		at = shortLabel(head.Hash)
		if head.Detached {
			at = "detached " + at
		}
	}
	path := a.repo.path
	if path == "" && a.svc != nil {
		path = a.svc.RepoPath()
	}
	return fmt.Sprintf("%d commits in %d lanes on %s, %s",
		len(a.data.snapshot.Commits), a.data.layout.MaxHeight(), at, path)
}
