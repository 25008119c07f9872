package gui

import (
	"fmt"
	"log"

	. "modernc.org/tk9.0"
	evalext "modernc.org/tk9.0/extensions/eval"
)

func (a *Controller) buildUI() {
	GridColumnConfigure(App, 0, Weight(1))
	GridRowConfigure(App, 1, Weight(1))

	controls := App.TFrame(Padding("8p"))
	Grid(controls, Row(0), Column(0), Sticky(WE))
	GridColumnConfigure(controls.Window, 0, Weight(1))

	a.ui.repoLabel = controls.TLabel(Txt(fmt.Sprintf("Repository: %s", a.repo.path)), Anchor(W))
	Grid(a.ui.repoLabel, Row(0), Column(0), Sticky(W))

	a.ui.localButton = controls.TButton(Txt("Local changes"), Command(func() {
		a.showLocalChanges(false)
	}))
	Grid(a.ui.localButton, Row(0), Column(1), Sticky(E), Padx("4p"))
	a.ui.stagedButton = controls.TButton(Txt("Staged changes"), Command(func() {
		a.showLocalChanges(true)
	}))
	Grid(a.ui.stagedButton, Row(0), Column(2), Sticky(E), Padx("4p"))
	a.state.watch.button = controls.TButton(Txt("Reload"), Command(a.onReloadButton))
	Grid(a.state.watch.button, Row(0), Column(3), Sticky(E))

	pane := App.TPanedwindow(Orient(HORIZONTAL))
	Grid(pane, Row(1), Column(0), Sticky(NEWS), Padx("4p"), Pady("4p"))

	graphArea := pane.TFrame()
	diffArea := pane.TFrame()
	pane.Add(graphArea.Window)
	pane.Add(diffArea.Window)
	configurePane := func(window *Window, options string) {
		if _, err := evalext.Eval(fmt.Sprintf("%s pane %s %s", pane, window, options)); err != nil {
			log.Printf("pane %s %s: %v", window, options, err)
		}
	}
	configurePane(graphArea.Window, "-weight 2")
	configurePane(diffArea.Window, "-weight 3")

	GridRowConfigure(graphArea.Window, 0, Weight(1))
	GridColumnConfigure(graphArea.Window, 0, Weight(1))
	GridRowConfigure(diffArea.Window, 0, Weight(1))
	GridColumnConfigure(diffArea.Window, 0, Weight(1))

	graphYScroll := graphArea.TScrollbar()
	graphXScroll := graphArea.TScrollbar(Orient(HORIZONTAL))
	a.ui.graphCanvas = graphArea.Canvas(
		Background(a.theme.palette.CanvasBG),
		Yscrollcommand(func(e *Event) { e.ScrollSet(graphYScroll) }),
		Xscrollcommand(func(e *Event) { e.ScrollSet(graphXScroll) }),
	)
	Grid(a.ui.graphCanvas, Row(0), Column(0), Sticky(NEWS))
	Grid(graphYScroll, Row(0), Column(1), Sticky(NS))
	Grid(graphXScroll, Row(1), Column(0), Sticky(WE))
	graphYScroll.Configure(Command(func(e *Event) { e.Yview(a.ui.graphCanvas) }))
	graphXScroll.Configure(Command(func(e *Event) { e.Xview(a.ui.graphCanvas) }))

	Bind(a.ui.graphCanvas, "<Button-1>", Command(func(e *Event) { a.onCanvasClick(e) }))
	Bind(a.ui.graphCanvas, "<Double-Button-1>", Command(func(e *Event) { a.onCanvasActivate(e) }))

	detailPane := diffArea.TPanedwindow(Orient(HORIZONTAL))
	Grid(detailPane, Row(0), Column(0), Sticky(NEWS))

	textFrame := detailPane.TFrame()
	fileFrame := detailPane.TFrame()
	detailPane.Add(textFrame.Window)
	detailPane.Add(fileFrame.Window)
	configureDetailPane := func(window *Window, options string) {
		if _, err := evalext.Eval(fmt.Sprintf("%s pane %s %s", detailPane, window, options)); err != nil {
			log.Printf("pane %s %s: %v", window, options, err)
		}
	}
	configureDetailPane(textFrame.Window, "-weight 5")
	configureDetailPane(fileFrame.Window, "-weight 1")

	GridRowConfigure(textFrame.Window, 0, Weight(1))
	GridColumnConfigure(textFrame.Window, 0, Weight(1))
	GridRowConfigure(fileFrame.Window, 0, Weight(1))
	GridColumnConfigure(fileFrame.Window, 0, Weight(1))

	detailYScroll := textFrame.TScrollbar(Command(func(e *Event) { e.Yview(a.ui.diffDetail) }))
	detailXScroll := textFrame.TScrollbar(Orient(HORIZONTAL), Command(func(e *Event) { e.Xview(a.ui.diffDetail) }))
	a.ui.diffDetail = textFrame.Text(Wrap(NONE), Font(CourierFont(), 11), Exportselection(false), Tabs("1c"))
	a.ui.diffDetail.Configure(Yscrollcommand(func(e *Event) {
		e.ScrollSet(detailYScroll)
		a.onDiffScrolled()
	}))
	a.ui.diffDetail.Configure(Xscrollcommand(func(e *Event) { e.ScrollSet(detailXScroll) }))
	a.ui.diffDetail.TagConfigure("diffAdd", Background(a.theme.palette.DiffAdd))
	a.ui.diffDetail.TagConfigure("diffDel", Background(a.theme.palette.DiffDel))
	a.ui.diffDetail.TagConfigure("diffHeader", Background(a.theme.palette.DiffHeader))
	Grid(a.ui.diffDetail, Row(0), Column(0), Sticky(NEWS))
	Grid(detailYScroll, Row(0), Column(1), Sticky(NS))
	Grid(detailXScroll, Row(1), Column(0), Sticky(WE))
	a.ui.diffDetail.Configure(State("disabled"))

	fileScroll := fileFrame.TScrollbar()
	a.ui.diffFileList = fileFrame.Listbox(Exportselection(false), Width(40))
	a.ui.diffFileList.Configure(Yscrollcommand(func(e *Event) { e.ScrollSet(fileScroll) }))
	Grid(a.ui.diffFileList, Row(0), Column(0), Sticky(NEWS))
	Grid(fileScroll, Row(0), Column(1), Sticky(NS))
	fileScroll.Configure(Command(func(e *Event) { e.Yview(a.ui.diffFileList) }))
	Bind(a.ui.diffFileList, "<<ListboxSelect>>", Command(a.onFileSelectionChanged))

	a.ui.status = App.TLabel(Anchor(W), Relief(SUNKEN), Padding("4p"))
	Grid(a.ui.status, Row(2), Column(0), Sticky(WE))

	a.clearDetailText("Click a commit to view its details; double-click to check it out.")
}
