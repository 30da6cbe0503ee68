package graph

import (
	"slices"

	"graphboard/geometry"
)

// Default sizes applied at creation time.
const (
	TextWidth      = 120
	TextHeight     = 30
	EvidenceWidth  = 200
	EvidenceHeight = 100
	PersonWidth    = 160
	PersonHeight   = 60
)

// Draft is a node that has not been created in the store yet.
type Draft struct {
	Kind    Kind     `json:"kind" yaml:"kind" validate:"required,nodekind"`
	Title   string   `json:"title" yaml:"title" validate:"max=200"`
	Content Content  `json:"content" yaml:"content"`
	Tags    []string `json:"tags,omitempty" yaml:"tags,omitempty" validate:"dive,required,max=64"`
}

// NewDraft returns a draft of the given kind at p with the kind's defaults.
func NewDraft(kind Kind, p geometry.Point) Draft {
	d := Draft{Kind: kind, Content: Defaults(kind)}
	d.Content.X, d.Content.Y = p.X, p.Y
	return d
}

// Defaults returns the content a freshly created node of kind starts with.
func Defaults(kind Kind) Content {
	switch kind {
	case KindEvidence:
		return Content{Width: EvidenceWidth, Height: EvidenceHeight, Fill: "#ffffff", Stroke: "#333333", StrokeWidth: 1}
	case KindPerson:
		return Content{Width: PersonWidth, Height: PersonHeight, Fill: "#fdf6e3", Stroke: "#586e75", StrokeWidth: 1}
	case KindText:
		return Content{Stroke: "#222222"}
	case KindPath:
		return Content{Stroke: "#222222", StrokeWidth: 2}
	default:
		return Content{Fill: "#e8f0fe", Stroke: "#1a73e8", StrokeWidth: 1}
	}
}

// Finalize applies the release-time defaults to a drawn draft: text boxes
// that were never dragged open at the default text size, and sizes are
// normalised so the stored rectangle never has negative extent.
func (d Draft) Finalize() Draft {
	d.Content = d.Content.Clone()
	if d.Kind == KindText && d.Content.Width == 0 && d.Content.Height == 0 {
		d.Content.Width, d.Content.Height = TextWidth, TextHeight
	}
	if d.Kind == KindPerson {
		d.Content.Width, d.Content.Height = PersonWidth, PersonHeight
	}
	r := d.Content.Bounds().Normalize()
	d.Content.X, d.Content.Y, d.Content.Width, d.Content.Height = r.X, r.Y, r.Width, r.Height
	return d
}

// Node materialises the draft under id.
func (d Draft) Node(id string) Node {
	return Node{
		ID:      id,
		Kind:    d.Kind,
		Title:   d.Title,
		Content: d.Content.Clone(),
		Tags:    slices.Clone(d.Tags),
	}
}

// DraftOf returns the draft that would recreate n.
func DraftOf(n Node) Draft {
	return Draft{Kind: n.Kind, Title: n.Title, Content: n.Content.Clone(), Tags: slices.Clone(n.Tags)}
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Title        *string           `json:"title,omitempty"`
	Tags         *[]string         `json:"tags,omitempty"`
	X            *float64          `json:"x,omitempty"`
	Y            *float64          `json:"y,omitempty"`
	Width        *float64          `json:"width,omitempty"`
	Height       *float64          `json:"height,omitempty"`
	Points       *[]geometry.Point `json:"points,omitempty"`
	Text         *string           `json:"text,omitempty"`
	Fill         *string           `json:"fill,omitempty"`
	Stroke       *string           `json:"stroke,omitempty"`
	Description  *string           `json:"description,omitempty"`
	EvidenceType *string           `json:"evidenceType,omitempty"`
	Parents      *[]string         `json:"parents,omitempty"`
	Spouse       *string           `json:"spouse,omitempty"`
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T {
	return &v
}

// MoveTo returns a patch that moves a node to p.
func MoveTo(p geometry.Point) Patch {
	return Patch{X: Ptr(p.X), Y: Ptr(p.Y)}
}

// Resize returns a patch that sets a node's rectangle.
func Resize(r geometry.Rect) Patch {
	return Patch{X: Ptr(r.X), Y: Ptr(r.Y), Width: Ptr(r.Width), Height: Ptr(r.Height)}
}

// IsZero reports whether the patch changes nothing.
func (p Patch) IsZero() bool {
	return p == Patch{}
}

// Structural reports whether the patch touches fields that feed the layout.
func (p Patch) Structural() bool {
	return p.Parents != nil || p.Spouse != nil
}

// Apply returns a copy of n with the patch applied.
func (p Patch) Apply(n Node) Node {
	n = n.Clone()
	c := &n.Content
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Tags != nil {
		n.Tags = slices.Clone(*p.Tags)
	}
	setFloat(&c.X, p.X)
	setFloat(&c.Y, p.Y)
	setFloat(&c.Width, p.Width)
	setFloat(&c.Height, p.Height)
	if p.Points != nil {
		c.Points = slices.Clone(*p.Points)
	}
	setString(&c.Text, p.Text)
	setString(&c.Fill, p.Fill)
	setString(&c.Stroke, p.Stroke)
	setString(&c.Description, p.Description)
	setString(&c.EvidenceType, p.EvidenceType)
	if p.Parents != nil {
		c.Parents = slices.Clone(*p.Parents)
	}
	setString(&c.Spouse, p.Spouse)
	return n
}

// Merge returns p with every field set in q overriding it.
func (p Patch) Merge(q Patch) Patch {
	pick(&p.Title, q.Title)
	pick(&p.Tags, q.Tags)
	pick(&p.X, q.X)
	pick(&p.Y, q.Y)
	pick(&p.Width, q.Width)
	pick(&p.Height, q.Height)
	pick(&p.Points, q.Points)
	pick(&p.Text, q.Text)
	pick(&p.Fill, q.Fill)
	pick(&p.Stroke, q.Stroke)
	pick(&p.Description, q.Description)
	pick(&p.EvidenceType, q.EvidenceType)
	pick(&p.Parents, q.Parents)
	pick(&p.Spouse, q.Spouse)
	return p
}

func pick[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
