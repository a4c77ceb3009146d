package wm

// viewList is an ordered sequence of view ids. Position 0 is the front.
type viewList struct {
	ids []ViewID
}

func (l *viewList) Len() int {
	return len(l.ids)
}

// IDs returns a copy of the list in order.
func (l *viewList) IDs() []ViewID {
	return append([]ViewID(nil), l.ids...)
}

func (l *viewList) index(id ViewID) int {
	for i, v := range l.ids {
		if v == id {
			return i
		}
	}
	return -1
}

func (l *viewList) Contains(id ViewID) bool {
	return l.index(id) >= 0
}

func (l *viewList) InsertFront(id ViewID) {
	l.ids = append([]ViewID{id}, l.ids...)
}

func (l *viewList) PushBack(id ViewID) {
	l.ids = append(l.ids, id)
}

func (l *viewList) Remove(id ViewID) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.ids = append(l.ids[:i], l.ids[i+1:]...)
	return true
}

func (l *viewList) MoveToFront(id ViewID) bool {
	if !l.Remove(id) {
		return false
	}
	l.InsertFront(id)
	return true
}

// SwapAdjacent exchanges two neighbouring entries. It refuses ids that are
// missing or not adjacent.
func (l *viewList) SwapAdjacent(a, b ViewID) bool {
	i, j := l.index(a), l.index(b)
	if i < 0 || j < 0 || (i-j != 1 && j-i != 1) {
		return false
	}
	l.ids[i], l.ids[j] = l.ids[j], l.ids[i]
	return true
}

// Next returns the successor of id. It does not wrap.
func (l *viewList) Next(id ViewID) (ViewID, bool) {
	i := l.index(id)
	if i < 0 || i+1 >= len(l.ids) {
		return 0, false
	}
	return l.ids[i+1], true
}

// Prev returns the predecessor of id. It does not wrap.
func (l *viewList) Prev(id ViewID) (ViewID, bool) {
	i := l.index(id)
	if i <= 0 {
		return 0, false
	}
	return l.ids[i-1], true
}

func (l *viewList) Front() (ViewID, bool) {
	if len(l.ids) == 0 {
		return 0, false
	}
	return l.ids[0], true
}

func (l *viewList) Back() (ViewID, bool) {
	if len(l.ids) == 0 {
		return 0, false
	}
	return l.ids[len(l.ids)-1], true
}

// Panel groups outputs that share a set of stacks and a view ordering.
type Panel struct {
	ID PanelID

	managed  viewList
	redirect viewList
	unmapped viewList

	focused ViewID
	stacks  []Stack
	outputs []OutputID
	main    OutputID
}

func newPanel(id PanelID, maxItems []int) *Panel {
	p := &Panel{ID: id, stacks: make([]Stack, len(maxItems))}
	for i, m := range maxItems {
		p.stacks[i].MaxItems = m
	}
	return p
}

// Managed returns the managed (tiled) views, front first.
func (p *Panel) Managed() []ViewID { return p.managed.IDs() }

// Redirect returns the views currently partitioned out as unmanaged.
func (p *Panel) Redirect() []ViewID { return p.redirect.IDs() }

// Unmapped returns views that exist but are not shown.
func (p *Panel) Unmapped() []ViewID { return p.unmapped.IDs() }

// Focused returns the focused view, or 0.
func (p *Panel) Focused() ViewID { return p.focused }

// Main returns the panel's main output, or 0.
func (p *Panel) Main() OutputID { return p.main }

// Outputs returns the attached outputs in attach order.
func (p *Panel) Outputs() []OutputID { return append([]OutputID(nil), p.outputs...) }

// Stacks returns a copy of the stack table.
func (p *Panel) Stacks() []Stack { return append([]Stack(nil), p.stacks...) }

func (p *Panel) list(loc Location) *viewList {
	switch loc {
	case LocManaged:
		return &p.managed
	case LocRedirect:
		return &p.redirect
	default:
		return &p.unmapped
	}
}

// moveTo splices v from its current list to the back of loc's list.
func (p *Panel) moveTo(v *View, loc Location) {
	p.list(v.Location).Remove(v.ID)
	p.list(loc).PushBack(v.ID)
	v.Location = loc
}

// highestMappedStack returns the largest mapped stack index, or -1.
func (p *Panel) highestMappedStack() int {
	for i := len(p.stacks) - 1; i >= 0; i-- {
		if p.stacks[i].Mapped {
			return i
		}
	}
	return -1
}
