package protocol

import "github.com/zylix-dev/zylix/pkg/vdom"

// PatchFrame is one commit's worth of patches with a monotonically
// increasing sequence number, so a consumer can detect gaps and replays.
type PatchFrame struct {
	Seq     uint64
	Patches []vdom.Patch
}

// EncodeFrame encodes a frame to bytes.
func EncodeFrame(pf *PatchFrame) []byte {
	e := NewEncoder()
	EncodeFrameTo(e, pf)
	return e.Bytes()
}

// EncodeFrameTo encodes a frame using the provided encoder, which the
// caller may reuse across frames.
func EncodeFrameTo(e *Encoder, pf *PatchFrame) {
	e.WriteUvarint(pf.Seq)
	e.WriteUvarint(uint64(len(pf.Patches)))
	for i := range pf.Patches {
		encodePatch(e, &pf.Patches[i])
	}
}

// DecodeFrame decodes a frame from bytes.
func DecodeFrame(data []byte) (*PatchFrame, error) {
	if len(data) > MaxFrameBytes {
		return nil, ErrFrameTooLarge
	}
	d := NewDecoder(data)
	return DecodeFrameFrom(d)
}

// DecodeFrameFrom decodes a frame from a decoder.
func DecodeFrameFrom(d *Decoder) (*PatchFrame, error) {
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	count, err := d.readCount(MaxFramePatches)
	if err != nil {
		return nil, err
	}
	pf := &PatchFrame{Seq: seq}
	if count > 0 {
		pf.Patches = make([]vdom.Patch, 0, count)
	}
	for i := 0; i < count; i++ {
		p, err := decodePatch(d)
		if err != nil {
			return nil, err
		}
		pf.Patches = append(pf.Patches, p)
	}
	return pf, nil
}

// encodePatch writes one patch: a type byte, the target reference, then the
// variant-specific payload. Fields a variant does not use are not encoded.
func encodePatch(e *Encoder, p *vdom.Patch) {
	e.WriteByte(byte(p.Type))

	switch p.Type {
	case vdom.PatchCreate:
		e.WriteUvarint(uint64(p.NodeID))
		e.WriteUvarint(uint64(p.ParentID))
		e.WriteUvarint(uint64(p.DOMID))
		e.WriteUvarint(uint64(p.Index))
		e.WriteByte(byte(p.NewKind))
		e.WriteByte(byte(p.NewTag))
		encodeProps(e, &p.Props)
		e.WriteString(p.Text)

	case vdom.PatchRemove:
		e.WriteUvarint(uint64(p.DOMID))

	case vdom.PatchReplace:
		e.WriteUvarint(uint64(p.DOMID))
		e.WriteByte(byte(p.NewKind))
		e.WriteByte(byte(p.NewTag))
		encodeProps(e, &p.Props)
		e.WriteString(p.Text)

	case vdom.PatchUpdateProps:
		e.WriteUvarint(uint64(p.DOMID))
		encodeProps(e, &p.Props)

	case vdom.PatchUpdateText:
		e.WriteUvarint(uint64(p.DOMID))
		e.WriteString(p.Text)

	case vdom.PatchReorder, vdom.PatchInsertChild, vdom.PatchRemoveChild:
		e.WriteUvarint(uint64(p.DOMID))
		e.WriteUvarint(uint64(p.ParentID))
		e.WriteUvarint(uint64(p.Index))
	}
}

func decodePatch(d *Decoder) (vdom.Patch, error) {
	var p vdom.Patch

	tb, err := d.ReadByte()
	if err != nil {
		return p, err
	}
	p.Type = vdom.PatchType(tb)

	switch p.Type {
	case vdom.PatchCreate:
		if err := readIDs(d, &p.NodeID, &p.ParentID, &p.DOMID, &p.Index); err != nil {
			return p, err
		}
		if err := readNodeShape(d, &p); err != nil {
			return p, err
		}
		if p.Text, err = d.ReadString(); err != nil {
			return p, err
		}

	case vdom.PatchRemove:
		var domID uint64
		if domID, err = d.ReadUvarint(); err != nil {
			return p, err
		}
		p.DOMID = uint32(domID)

	case vdom.PatchReplace:
		var domID uint64
		if domID, err = d.ReadUvarint(); err != nil {
			return p, err
		}
		p.DOMID = uint32(domID)
		if err := readNodeShape(d, &p); err != nil {
			return p, err
		}
		if p.Text, err = d.ReadString(); err != nil {
			return p, err
		}

	case vdom.PatchUpdateProps:
		var domID uint64
		if domID, err = d.ReadUvarint(); err != nil {
			return p, err
		}
		p.DOMID = uint32(domID)
		if p.Props, err = decodeProps(d); err != nil {
			return p, err
		}

	case vdom.PatchUpdateText:
		var domID uint64
		if domID, err = d.ReadUvarint(); err != nil {
			return p, err
		}
		p.DOMID = uint32(domID)
		if p.Text, err = d.ReadString(); err != nil {
			return p, err
		}

	case vdom.PatchReorder, vdom.PatchInsertChild, vdom.PatchRemoveChild:
		domID, err := d.ReadUvarint()
		if err != nil {
			return p, err
		}
		parentID, err := d.ReadUvarint()
		if err != nil {
			return p, err
		}
		index, err := d.ReadUvarint()
		if err != nil {
			return p, err
		}
		p.DOMID = uint32(domID)
		p.ParentID = uint32(parentID)
		p.Index = int(index)

	default:
		return p, ErrUnknownPatch
	}

	return p, nil
}

func readIDs(d *Decoder, nodeID *vdom.NodeID, parentID, domID *uint32, index *int) error {
	n, err := d.ReadUvarint()
	if err != nil {
		return err
	}
	par, err := d.ReadUvarint()
	if err != nil {
		return err
	}
	dom, err := d.ReadUvarint()
	if err != nil {
		return err
	}
	idx, err := d.ReadUvarint()
	if err != nil {
		return err
	}
	*nodeID = vdom.NodeID(n)
	*parentID = uint32(par)
	*domID = uint32(dom)
	*index = int(idx)
	return nil
}

func readNodeShape(d *Decoder, p *vdom.Patch) error {
	kind, err := d.ReadByte()
	if err != nil {
		return err
	}
	tag, err := d.ReadByte()
	if err != nil {
		return err
	}
	p.NewKind = vdom.NodeKind(kind)
	p.NewTag = vdom.Tag(tag)
	p.Props, err = decodeProps(d)
	return err
}

func encodeProps(e *Encoder, pr *vdom.Props) {
	e.WriteString(pr.Class)
	e.WriteUvarint(uint64(pr.StyleID))
	e.WriteUvarint(uint64(pr.OnClick))
	e.WriteUvarint(uint64(pr.OnInput))
	e.WriteUvarint(uint64(pr.OnSubmit))
	e.WriteString(pr.Value)
	e.WriteBool(pr.Disabled)
	e.WriteBool(pr.Checked)
}

func decodeProps(d *Decoder) (vdom.Props, error) {
	var pr vdom.Props
	var err error
	if pr.Class, err = d.ReadString(); err != nil {
		return pr, err
	}
	styleID, err := d.ReadUvarint()
	if err != nil {
		return pr, err
	}
	onClick, err := d.ReadUvarint()
	if err != nil {
		return pr, err
	}
	onInput, err := d.ReadUvarint()
	if err != nil {
		return pr, err
	}
	onSubmit, err := d.ReadUvarint()
	if err != nil {
		return pr, err
	}
	pr.StyleID = uint32(styleID)
	pr.OnClick = uint32(onClick)
	pr.OnInput = uint32(onInput)
	pr.OnSubmit = uint32(onSubmit)
	if pr.Value, err = d.ReadString(); err != nil {
		return pr, err
	}
	if pr.Disabled, err = d.ReadBool(); err != nil {
		return pr, err
	}
	pr.Checked, err = d.ReadBool()
	return pr, err
}
