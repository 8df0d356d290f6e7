package model

// SelectionAnchor is a confirmed, non-empty text selection with a valid
// on-screen position for the floating menu. It is owned by the selection
// observer; consumers treat it as read-only.
type SelectionAnchor struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text string  `json:"text"`
}

// EditType identifies a deterministic quick-edit rule.
type EditType string

const (
	EditImprove         EditType = "improve"
	EditAddTransition   EditType = "add-transition"
	EditShorten         EditType = "shorten"
	EditExpand          EditType = "expand"
	EditProfessionalize EditType = "professionalize"
	EditAddData         EditType = "add-data"
)

// EditTypes lists the recognized edit types in display order.
func EditTypes() []EditType {
	return []EditType{
		EditImprove,
		EditAddTransition,
		EditShorten,
		EditExpand,
		EditProfessionalize,
		EditAddData,
	}
}

// ValidEditType reports whether t is one of the recognized edit types.
func ValidEditType(t EditType) bool {
	switch t {
	case EditImprove, EditAddTransition, EditShorten, EditExpand, EditProfessionalize, EditAddData:
		return true
	}
	return false
}

// EditRequest asks for one deterministic rewrite of a run of text.
type EditRequest struct {
	EditType     EditType `json:"edit_type"`
	OriginalText string   `json:"original_text"`
}

// EditResult carries the rewritten text.
type EditResult struct {
	EditedText string `json:"edited_text"`
}
