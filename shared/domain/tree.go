package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const ItemOpen = "open"

// State is the ordered tree content of a board.
type State []TreeItem

type TreeItem struct {
	Text     string     `json:"text"`
	Children []TreeItem `json:"children"`
	Data     ItemData   `json:"data"`
	State    ItemState  `json:"state"`
	Extra    Extra      `json:"-"` // widget keys such as the node id
}

type ItemData struct {
	Text    string  `json:"text"`
	State   string  `json:"state"`
	Markers Markers `json:"meaningfulMarkers"`
	Extra   Extra   `json:"-"`
}

type Markers struct {
	WeeksInList            int        `json:"weeksInList"`
	Important              Importance `json:"important"`
	Finalizing             bool       `json:"finalizing"`
	CanBeDoneOutsideOfWork bool       `json:"canBeDoneOutsideOfWork"`
	CanBePostponed         bool       `json:"canBePostponed"`
	PostponedFor           int        `json:"postponedFor"`
	HiddenWhenPostponed    bool       `json:"hiddenWhenPostponed"`
	MadeProgress           bool       `json:"madeProgress"`
	Transition             string     `json:"transition,omitempty"`
	Extra                  Extra      `json:"-"`
}

// ItemState is the per-node view state kept by the tree widget.
type ItemState struct {
	Checked  bool  `json:"checked,omitempty"`
	Visible  *bool `json:"visible,omitempty"`
	Expanded bool  `json:"expanded,omitempty"`
	Selected bool  `json:"selected,omitempty"`
	Disabled bool  `json:"disabled,omitempty"`
	Extra    Extra `json:"-"`
}

// === JSON ===

// The *Fields types drop the methods below so encoding/json handles the
// modelled keys; Extra carries the rest.
type (
	treeItemFields  TreeItem
	itemDataFields  ItemData
	markersFields   Markers
	itemStateFields ItemState
)

func (t *TreeItem) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	var fields treeItemFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	extra, err := splitExtra(data, "text", "children", "data", "state")
	if err != nil {
		return err
	}
	*t = TreeItem(fields)
	t.Extra = extra
	return nil
}

func (t TreeItem) MarshalJSON() ([]byte, error) {
	fields := treeItemFields(t)
	if fields.Children == nil {
		fields.Children = []TreeItem{}
	}
	encoded, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	return withExtra(encoded, t.Extra)
}

func (d *ItemData) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	var fields itemDataFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	extra, err := splitExtra(data, "text", "state", "meaningfulMarkers")
	if err != nil {
		return err
	}
	*d = ItemData(fields)
	d.Extra = extra
	return nil
}

func (d ItemData) MarshalJSON() ([]byte, error) {
	encoded, err := json.Marshal(itemDataFields(d))
	if err != nil {
		return nil, err
	}
	return withExtra(encoded, d.Extra)
}

func (m *Markers) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	var fields markersFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	extra, err := splitExtra(data,
		"weeksInList", "important", "finalizing", "canBeDoneOutsideOfWork", "canBePostponed",
		"postponedFor", "hiddenWhenPostponed", "madeProgress", "transition")
	if err != nil {
		return err
	}
	*m = Markers(fields)
	m.Extra = extra
	return nil
}

func (m Markers) MarshalJSON() ([]byte, error) {
	encoded, err := json.Marshal(markersFields(m))
	if err != nil {
		return nil, err
	}
	return withExtra(encoded, m.Extra)
}

func (s *ItemState) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	var fields itemStateFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	extra, err := splitExtra(data, "checked", "visible", "expanded", "selected", "disabled")
	if err != nil {
		return err
	}
	*s = ItemState(fields)
	s.Extra = extra
	return nil
}

func (s ItemState) MarshalJSON() ([]byte, error) {
	encoded, err := json.Marshal(itemStateFields(s))
	if err != nil {
		return nil, err
	}
	return withExtra(encoded, s.Extra)
}

// Importance is 0..3. Older records store it as a boolean.
type Importance int

func (i *Importance) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "null", "false":
		*i = 0
		return nil
	case "true":
		*i = 1
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("importance must be a number or boolean: %w", err)
	}
	*i = Importance(n)
	return nil
}

// NewTreeItem builds an open item with zeroed markers.
func NewTreeItem(text string) TreeItem {
	return TreeItem{
		Text:     text,
		Children: []TreeItem{},
		Data:     ItemData{State: ItemOpen},
	}
}

// Equal is a structural comparison over the tree shape. Nil and empty child
// lists are the same tree.
func (s State) Equal(other State) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if !s[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

func (s State) Clone() State {
	if s == nil {
		return nil
	}
	out := make(State, len(s))
	for i, item := range s {
		out[i] = item.Clone()
	}
	return out
}

// Walk visits items in pre-order.
func (s State) Walk(fn func(TreeItem)) {
	for _, item := range s {
		fn(item)
		State(item.Children).Walk(fn)
	}
}

func (t TreeItem) Equal(other TreeItem) bool {
	return t.Text == other.Text &&
		t.Data.Equal(other.Data) &&
		t.State.Equal(other.State) &&
		t.Extra.Equal(other.Extra) &&
		State(t.Children).Equal(other.Children)
}

func (t TreeItem) Clone() TreeItem {
	out := t
	out.Children = State(t.Children).Clone()
	out.Extra = t.Extra.Clone()
	out.Data.Extra = t.Data.Extra.Clone()
	out.Data.Markers.Extra = t.Data.Markers.Extra.Clone()
	out.State.Extra = t.State.Extra.Clone()
	if t.State.Visible != nil {
		v := *t.State.Visible
		out.State.Visible = &v
	}
	return out
}

func (d ItemData) Equal(other ItemData) bool {
	return d.Text == other.Text &&
		d.State == other.State &&
		d.Markers.Equal(other.Markers) &&
		d.Extra.Equal(other.Extra)
}

func (m Markers) Equal(other Markers) bool {
	return m.WeeksInList == other.WeeksInList &&
		m.Important == other.Important &&
		m.Finalizing == other.Finalizing &&
		m.CanBeDoneOutsideOfWork == other.CanBeDoneOutsideOfWork &&
		m.CanBePostponed == other.CanBePostponed &&
		m.PostponedFor == other.PostponedFor &&
		m.HiddenWhenPostponed == other.HiddenWhenPostponed &&
		m.MadeProgress == other.MadeProgress &&
		m.Transition == other.Transition &&
		m.Extra.Equal(other.Extra)
}

func (s ItemState) Equal(other ItemState) bool {
	return s.Checked == other.Checked &&
		s.Expanded == other.Expanded &&
		s.Selected == other.Selected &&
		s.Disabled == other.Disabled &&
		s.IsVisible() == other.IsVisible() &&
		s.Extra.Equal(other.Extra)
}

// IsVisible defaults to true when the widget never recorded visibility.
func (s ItemState) IsVisible() bool {
	return s.Visible == nil || *s.Visible
}
