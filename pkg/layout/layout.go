// Package layout loads the declarative interface description that names the
// editor's widgets and the handlers bound to their signals.
package layout

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/yaml.v3"

	"github.com/pluqqy/textpad/pkg/files"
)

// DefaultPath is the conventional name of the interface description
const DefaultPath = "gui.yaml"

// Class identifies the kind of widget an object describes
type Class string

const (
	ClassWindow   Class = "window"
	ClassBox      Class = "box"
	ClassButton   Class = "button"
	ClassTextView Class = "textview"
	ClassLabel    Class = "label"
)

// Orientation controls how a box arranges its children
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// Signal names understood by the widget classes
const (
	SignalDestroy = "destroy"
	SignalClicked = "clicked"
)

var (
	// ErrEmptyLayout is returned for a description with no objects
	ErrEmptyLayout = errors.New("layout has no objects")
	// ErrMissingObject is returned when a required object id is absent
	ErrMissingObject = errors.New("object not found")
	// ErrWrongClass is returned when an object exists but is not the expected widget
	ErrWrongClass = errors.New("object has the wrong class")
)

// validSignals lists the signals each class can emit
var validSignals = map[Class][]string{
	ClassWindow:   {SignalDestroy},
	ClassBox:      nil,
	ClassButton:   {SignalClicked},
	ClassTextView: nil,
	ClassLabel:    nil,
}

// Handler runs when a bound signal is emitted. The returned command is
// handed to the event loop.
type Handler func(obj *Object) tea.Cmd

// SignalBinding names the handler that a signal is connected to
type SignalBinding struct {
	Name    string `yaml:"name"`
	Handler string `yaml:"handler"`
}

// Object is one widget in the interface tree
type Object struct {
	ID          string          `yaml:"id"`
	Class       Class           `yaml:"class"`
	Title       string          `yaml:"title,omitempty"`
	Label       string          `yaml:"label,omitempty"`
	Accel       string          `yaml:"accel,omitempty"`
	Orientation Orientation     `yaml:"orientation,omitempty"`
	Signals     []SignalBinding `yaml:"signals,omitempty"`
	Children    []*Object       `yaml:"children,omitempty"`

	connected map[string]Handler
}

// DisplayLabel returns the label without its mnemonic marker
func (o *Object) DisplayLabel() string {
	return Mnemonic(o.Label)
}

// Connected reports whether signal has a handler bound to it
func (o *Object) Connected(signal string) bool {
	_, ok := o.connected[signal]
	return ok
}

// Document is the top level of an interface description
type Document struct {
	Objects []*Object `yaml:"objects"`
}

// Builder holds a parsed interface description
type Builder struct {
	name    string
	doc     Document
	byID    map[string]*Object
	ordered []*Object
}

// Load reads and parses the interface description at path
func Load(store *files.Store, path string) (*Builder, error) {
	data, err := store.ReadText(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load interface description: %w", err)
	}
	return Parse([]byte(data), path)
}

// Parse parses an interface description. name is used in error messages.
func Parse(data []byte, name string) (*Builder, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: %w", name, ErrEmptyLayout)
		}
		return nil, fmt.Errorf("%s: invalid interface description: %w", name, err)
	}
	if len(doc.Objects) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyLayout)
	}

	b := &Builder{
		name: name,
		doc:  doc,
		byID: make(map[string]*Object),
	}
	for _, obj := range doc.Objects {
		if err := b.index(obj); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	return b, nil
}

// index validates obj and its children and records them by id
func (b *Builder) index(obj *Object) error {
	if obj == nil {
		return errors.New("empty object entry")
	}
	allowed, ok := validSignals[obj.Class]
	if !ok {
		return fmt.Errorf("object %q: unknown class %q", obj.ID, obj.Class)
	}
	if obj.ID != "" {
		if _, dup := b.byID[obj.ID]; dup {
			return fmt.Errorf("duplicate object id %q", obj.ID)
		}
		b.byID[obj.ID] = obj
	}
	if obj.Class == ClassBox {
		switch obj.Orientation {
		case "":
			obj.Orientation = Vertical
		case Horizontal, Vertical:
		default:
			return fmt.Errorf("object %q: unknown orientation %q", obj.ID, obj.Orientation)
		}
	}

	for _, sig := range obj.Signals {
		if sig.Handler == "" {
			return fmt.Errorf("object %q: signal %q has no handler", obj.ID, sig.Name)
		}
		if !slices.Contains(allowed, sig.Name) {
			return fmt.Errorf("object %q: class %s has no signal %q", obj.ID, obj.Class, sig.Name)
		}
	}

	b.ordered = append(b.ordered, obj)
	for _, child := range obj.Children {
		if err := b.index(child); err != nil {
			return err
		}
	}
	return nil
}

// Name returns the name the description was loaded from
func (b *Builder) Name() string {
	return b.name
}

// Roots returns the top-level objects in document order
func (b *Builder) Roots() []*Object {
	return b.doc.Objects
}

// Objects returns every object in document order
func (b *Builder) Objects() []*Object {
	return b.ordered
}

// Object looks up an object by id
func (b *Builder) Object(id string) (*Object, bool) {
	obj, ok := b.byID[id]
	return obj, ok
}

// Window resolves a window object by id
func (b *Builder) Window(id string) (*Object, error) {
	return b.require(id, ClassWindow)
}

// TextView resolves a text view object by id
func (b *Builder) TextView(id string) (*Object, error) {
	return b.require(id, ClassTextView)
}

func (b *Builder) require(id string, class Class) (*Object, error) {
	obj, ok := b.byID[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w: %s", b.name, ErrMissingObject, id)
	}
	if obj.Class != class {
		return nil, fmt.Errorf("%s: %w: %s is a %s, not a %s", b.name, ErrWrongClass, id, obj.Class, class)
	}
	return obj, nil
}

// Buttons returns the button objects in document order
func (b *Builder) Buttons() []*Object {
	var buttons []*Object
	for _, obj := range b.ordered {
		if obj.Class == ClassButton {
			buttons = append(buttons, obj)
		}
	}
	return buttons
}

// Handlers returns every handler name the description refers to, in order
func (b *Builder) Handlers() []string {
	var names []string
	seen := make(map[string]bool)
	for _, obj := range b.ordered {
		for _, sig := range obj.Signals {
			if !seen[sig.Handler] {
				seen[sig.Handler] = true
				names = append(names, sig.Handler)
			}
		}
	}
	return names
}

// ConnectSignals binds each declared signal to the handler with the same
// name. It returns the handler names the description uses that have no
// implementation in handlers; those signals stay unbound.
func (b *Builder) ConnectSignals(handlers map[string]Handler) []string {
	var missing []string
	for _, obj := range b.ordered {
		for _, sig := range obj.Signals {
			fn, ok := handlers[sig.Handler]
			if !ok {
				if !slices.Contains(missing, sig.Handler) {
					missing = append(missing, sig.Handler)
				}
				continue
			}
			if obj.connected == nil {
				obj.connected = make(map[string]Handler)
			}
			obj.connected[sig.Name] = fn
		}
	}
	return missing
}

// Emit dispatches signal on the object with the given id. It reports false
// when the object does not exist or the signal is not bound.
func (b *Builder) Emit(id, signal string) (tea.Cmd, bool) {
	obj, ok := b.byID[id]
	if !ok {
		return nil, false
	}
	fn, ok := obj.connected[signal]
	if !ok {
		return nil, false
	}
	return fn(obj), true
}

// Mnemonic strips the underscore that marks a label's access key. A doubled
// underscore is kept as a literal one.
func Mnemonic(label string) string {
	if !strings.Contains(label, "_") {
		return label
	}
	var sb strings.Builder
	for i := 0; i < len(label); i++ {
		if label[i] == '_' {
			if i+1 < len(label) && label[i+1] == '_' {
				sb.WriteByte('_')
				i++
			}
			continue
		}
		sb.WriteByte(label[i])
	}
	return sb.String()
}
