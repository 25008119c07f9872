package gui

import (
	. "modernc.org/tk9.0"
)

type appWidgets struct {
	status       *TLabelWidget
	repoLabel    *TLabelWidget
	localButton  *TButtonWidget
	stagedButton *TButtonWidget
	graphCanvas  *CanvasWidget
	diffDetail   *TextWidget
	diffFileList *ListboxWidget
}
