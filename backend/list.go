package controlpanel

// ServiceList shows a scrolling window of a ServiceModel with a fixed pool
// of panels. Panels are not tied to records: whenever the window scrolls or
// the model changes, every pooled panel is rebound to the record now at its
// position, and panels past the end of the model are unbound.
type ServiceList struct {
	model  *ServiceModel
	panels []*ServicePanel
	offset int
}

var _ ModelObserver = &ServiceList{}

// NewServiceList creates a list with visible pooled panels, bound to the
// first rows of model.
func NewServiceList(model *ServiceModel, visible int) *ServiceList {
	if visible < 1 {
		visible = 1
	}
	l := &ServiceList{
		model:  model,
		panels: make([]*ServicePanel, visible),
	}
	for i := range l.panels {
		l.panels[i] = NewServicePanel()
	}
	model.Observe(l)
	l.refresh()
	return l
}

// Panels returns the pooled panels, top to bottom.
func (l *ServiceList) Panels() []*ServicePanel {
	return append([]*ServicePanel(nil), l.panels...)
}

// Offset returns the model row shown by the first panel.
func (l *ServiceList) Offset() int {
	return l.offset
}

// PanelFor returns the panel showing model row, or nil if the row is not
// in the window.
func (l *ServiceList) PanelFor(row int) *ServicePanel {
	i := row - l.offset
	if i < 0 || i >= len(l.panels) || row >= l.model.RowCount() {
		return nil
	}
	return l.panels[i]
}

func (l *ServiceList) maxOffset() int {
	max := l.model.RowCount() - len(l.panels)
	if max < 0 {
		return 0
	}
	return max
}

// ScrollTo moves the window to start at row offset, clamped to the model.
func (l *ServiceList) ScrollTo(offset int) {
	if offset > l.maxOffset() {
		offset = l.maxOffset()
	}
	if offset < 0 {
		offset = 0
	}
	l.offset = offset
	l.refresh()
}

// EnsureVisible scrolls the least distance needed to show row.
func (l *ServiceList) EnsureVisible(row int) {
	switch {
	case row < l.offset:
		l.ScrollTo(row)
	case row >= l.offset+len(l.panels):
		l.ScrollTo(row - len(l.panels) + 1)
	}
}

func (l *ServiceList) refresh() {
	if l.offset > l.maxOffset() {
		l.offset = l.maxOffset()
	}
	for i, p := range l.panels {
		if r := l.model.Row(l.offset + i); r != nil {
			p.Bind(r)
		} else {
			p.Unbind()
		}
	}
}

func (l *ServiceList) Inserted(start, count int)           { l.refresh() }
func (l *ServiceList) Removed(start, count int)            { l.refresh() }
func (l *ServiceList) Moved(start, count, destination int) { l.refresh() }
func (l *ServiceList) Reset()                              { l.refresh() }
