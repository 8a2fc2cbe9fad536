// Package snapshot captures the computed styles of a whole document for
// inspection and regression comparison.
package snapshot

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/amazon-ion/ion-go/ion"
	"github.com/maruel/natural"
	"go.uber.org/multierr"
	yaml "gopkg.in/yaml.v3"

	"cssvm/common"
	"cssvm/css"
	"cssvm/dom"
	"cssvm/utils/debug"
	"cssvm/view"
)

// Property is one computed property of an element.
type Property struct {
	Name      string `yaml:"name" ion:"name"`
	Value     string `yaml:"value" ion:"value"`
	Kind      string `yaml:"kind" ion:"kind"`
	Important bool   `yaml:"important,omitempty" ion:"important"`
	Origin    string `yaml:"origin" ion:"origin"`
}

// Element holds the computed style of one element or pseudo-element.
type Element struct {
	Path       string     `yaml:"path" ion:"path"`
	Pseudo     string     `yaml:"pseudo,omitempty" ion:"pseudo"`
	Properties []Property `yaml:"properties" ion:"properties"`
	Errors     []string   `yaml:"errors,omitempty" ion:"errors"`
}

// Snapshot is the computed style of every element of a document.
type Snapshot struct {
	View     string    `yaml:"view" ion:"view"`
	Elements []Element `yaml:"elements" ion:"elements"`
}

// Take computes the style of every element, and of the requested
// pseudo-elements of every element, in v's document. Elements follow document
// order, each one followed by its pseudo-elements in request order.
// Pseudo-element names are stored in canonical form ("before" becomes
// "::before") and repeated names are taken once. Rejected declarations are
// recorded per element.
func Take(v *view.View, pseudos ...string) (*Snapshot, error) {
	kinds := []string{""}
	for _, p := range pseudos {
		pe, ok := css.ParsePseudoElement(p)
		if !ok {
			return nil, fmt.Errorf("%w: %q", view.ErrUnknownPseudo, p)
		}
		if name := pe.String(); !slices.Contains(kinds, name) {
			kinds = append(kinds, name)
		}
	}

	names := v.Resolvers().Names()
	s := &Snapshot{View: v.ID().String()}

	for _, e := range v.Document().Elements() {
		path := dom.Path(e)
		for _, pseudo := range kinds {
			d, err := v.Style(e, pseudo)
			if d == nil {
				return nil, fmt.Errorf("unable to compute style of %s%s: %w", path, pseudo, err)
			}
			el := Element{Path: path, Pseudo: pseudo}
			for _, name := range names {
				pv := d.PropertyValue(name)
				if pv == nil {
					continue
				}
				el.Properties = append(el.Properties, Property{
					Name:      name,
					Value:     pv.CSSText(),
					Kind:      pv.Kind().String(),
					Important: d.PropertyPriority(name),
					Origin:    d.PropertyOrigin(name).String(),
				})
			}
			for _, e := range multierr.Errors(err) {
				el.Errors = append(el.Errors, e.Error())
			}
			s.Elements = append(s.Elements, el)
		}
	}
	return s, nil
}

// SortByPath orders elements naturally by path, so item[10] follows item[9].
// Pseudo-elements stay right after their element.
func (s *Snapshot) SortByPath() {
	slices.SortStableFunc(s.Elements, func(a, b Element) int {
		switch {
		case a.Path == b.Path:
			return 0
		case natural.Less(a.Path, b.Path):
			return -1
		default:
			return 1
		}
	})
}

// Write encodes the snapshot to w.
func (s *Snapshot) Write(w io.Writer, format common.SnapshotFormat) error {
	switch format {
	case common.SnapshotFormatText:
		_, err := s.treeWriter().WriteTo(w)
		return err
	case common.SnapshotFormatYaml:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("unable to encode snapshot: %w", err)
		}
		return enc.Close()
	case common.SnapshotFormatIon:
		data, err := ion.MarshalText(s)
		if err != nil {
			return fmt.Errorf("unable to encode snapshot: %w", err)
		}
		_, err = w.Write(append(data, '\n'))
		return err
	default:
		return fmt.Errorf("unsupported snapshot format %s", format)
	}
}

// String returns the text form.
func (s *Snapshot) String() string {
	return s.treeWriter().String()
}

func (s *Snapshot) treeWriter() *debug.TreeWriter {
	tw := debug.NewTreeWriter()
	tw.Line(0, "view %s (%d entries)", s.View, len(s.Elements))
	for _, el := range s.Elements {
		depth := strings.Count(el.Path, "/")
		tw.Line(depth, "%s%s", el.Path, el.Pseudo)
		for _, p := range el.Properties {
			prio := ""
			if p.Important {
				prio = "important"
			}
			tw.Property(depth+1, p.Name, p.Value, p.Origin, prio)
		}
		for _, e := range el.Errors {
			tw.TextBlock(depth+1, "error", e)
		}
	}
	return tw
}
