package vdom

import (
	"github.com/zylix-dev/zylix/internal/hashutil"
)

// Capacity constants. These bound every structure in the core; string
// overflow truncates silently, structural overflow returns a zero/false
// sentinel. They must not change without coordinating with every platform
// shell that consumes the patch stream.
const (
	MaxChildren = 32   // children per node
	MaxKeyLen   = 64   // reconciliation key bytes
	MaxTextLen  = 512  // text content bytes
	MaxClassLen = 128  // class string bytes
	MaxValueLen = 256  // input value bytes
	MaxNodes    = 4096 // nodes per tree generation
	MaxPatches  = 8192 // patches per diff pass
)

// NodeID is an opaque handle to a VNode within one VTree generation.
// Zero is the "none" sentinel.
type NodeID uint32

// NoNode is the zero NodeID.
const NoNode NodeID = 0

// NodeKind is the node type discriminator.
type NodeKind uint8

const (
	KindElement   NodeKind = iota // Native element (div, button, ...)
	KindText                      // Plain text node
	KindComponent                 // Component placeholder
	KindFragment                  // Grouping without a render target
)

// String returns the string representation of the NodeKind.
func (k NodeKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComponent:
		return "Component"
	case KindFragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// Tag identifies the element kind for KindElement nodes.
type Tag uint8

const (
	TagNone Tag = iota
	TagDiv
	TagSpan
	TagText
	TagButton
	TagInput
	TagImage
	TagList
	TagListItem
	TagHeader
	TagFooter
	TagCustom
)

// String returns the string representation of the Tag.
func (t Tag) String() string {
	switch t {
	case TagNone:
		return "none"
	case TagDiv:
		return "div"
	case TagSpan:
		return "span"
	case TagText:
		return "text"
	case TagButton:
		return "button"
	case TagInput:
		return "input"
	case TagImage:
		return "image"
	case TagList:
		return "list"
	case TagListItem:
		return "list-item"
	case TagHeader:
		return "header"
	case TagFooter:
		return "footer"
	case TagCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Props is the fixed-field property record of a VNode. A fixed set of
// fields (instead of an open map) keeps equality a handful of compares and
// keeps the wire shape identical across platform implementations.
type Props struct {
	Class    string // CSS class list, bounded by MaxClassLen
	StyleID  uint32 // style table reference, 0 = none
	OnClick  uint32 // event handler ids, 0 = none
	OnInput  uint32
	OnSubmit uint32
	Value    string // input value, bounded by MaxValueLen
	Disabled bool
	Checked  bool
}

// Equal reports field-wise equality, cheapest fields first.
func (p *Props) Equal(o *Props) bool {
	if p.StyleID != o.StyleID ||
		p.OnClick != o.OnClick ||
		p.OnInput != o.OnInput ||
		p.OnSubmit != o.OnSubmit ||
		p.Disabled != o.Disabled ||
		p.Checked != o.Checked {
		return false
	}
	if p.Class != o.Class {
		return false
	}
	return p.Value == o.Value
}

// Hash returns a 64-bit content hash of the props record, used by the
// component memo cache. Lossy; confirm with Equal before trusting a match.
func (p *Props) Hash() uint64 {
	h := hashutil.FNV1a64String(p.Class)
	h = h*31 + uint64(p.StyleID)
	h = h*31 + uint64(p.OnClick)
	h = h*31 + uint64(p.OnInput)
	h = h*31 + uint64(p.OnSubmit)
	h = h*31 + hashutil.FNV1a64String(p.Value)
	if p.Disabled {
		h = h*31 + 1
	}
	if p.Checked {
		h = h*31 + 2
	}
	return h
}

// VNode is one node of a virtual tree. A VNode belongs to exactly one VTree
// generation; its ID is unique within that generation.
type VNode struct {
	ID    NodeID
	Kind  NodeKind
	Tag   Tag
	Key   string // reconciliation identity for list children, "" = unkeyed
	Text  string // KindText content, bounded by MaxTextLen
	Props Props

	// Children is the ordered child-id list. Order is positionally
	// significant for unkeyed reconciliation.
	Children []NodeID

	// DOMID is the render-target id assigned by the platform renderer once
	// a Create patch has been applied. Zero means not yet rendered.
	DOMID uint32

	// Dirty marks the node as changed since the last commit.
	Dirty bool
}

// HasKey reports whether the node carries a reconciliation key.
func (n *VNode) HasKey() bool {
	return n.Key != ""
}

// ChildCount returns the number of children.
func (n *VNode) ChildCount() int {
	return len(n.Children)
}

// clampString truncates s to max bytes. Silent truncation is the contract
// for every bounded string in the core.
func clampString(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
