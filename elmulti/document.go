// SPDX-License-Identifier: EPL-2.0

package elmulti

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
)

// Ext is the file extension of mapping documents.
const Ext = ".elmulti"

// DefaultVelocity is written for layers starting at velocity 0.
const DefaultVelocity = 0.49411765

// Slot is one sample slot. Zero trims and crossfade are omitted from the
// output.
type Slot struct {
	Sample    string
	TrimStart int
	TrimEnd   int

	Loop      bool
	LoopStart int
	LoopEnd   int
	// LoopCrossfade is in samples.
	LoopCrossfade        int
	KeepLoopingOnRelease bool
}

// Layer holds the slots sharing a minimum velocity. More than one slot
// means round-robin alternation.
type Layer struct {
	MinVelocity int
	Slots       []Slot
}

type KeyZone struct {
	Pitch     int
	KeyCenter float64
	Layers    []Layer
}

// Document is a complete mapping.
type Document struct {
	Name     string
	KeyZones []KeyZone
}

// Entry places one slot in a document.
type Entry struct {
	Pitch       int
	KeyCenter   float64
	MinVelocity int
	Slot        Slot
}

// Build groups entries into key zones and velocity layers, ordered by
// pitch and then minimum velocity. Slots sharing both keep their order in
// entries. A key zone takes its key center from its first entry.
func Build(name string, entries []Entry) *Document {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		return cmp.Or(cmp.Compare(a.Pitch, b.Pitch), cmp.Compare(a.MinVelocity, b.MinVelocity))
	})

	doc := &Document{Name: name}
	for _, e := range sorted {
		n := len(doc.KeyZones)
		if n == 0 || doc.KeyZones[n-1].Pitch != e.Pitch {
			doc.KeyZones = append(doc.KeyZones, KeyZone{Pitch: e.Pitch, KeyCenter: e.KeyCenter})
			n++
		}
		kz := &doc.KeyZones[n-1]

		m := len(kz.Layers)
		if m == 0 || kz.Layers[m-1].MinVelocity != e.MinVelocity {
			kz.Layers = append(kz.Layers, Layer{MinVelocity: e.MinVelocity})
			m++
		}
		kz.Layers[m-1].Slots = append(kz.Layers[m-1].Slots, e.Slot)
	}
	return doc
}

// LayerCount returns the number of velocity layers across all key zones.
func (d *Document) LayerCount() int {
	n := 0
	for _, kz := range d.KeyZones {
		n += len(kz.Layers)
	}
	return n
}

// Velocity maps a MIDI minimum velocity to the layer velocity.
func Velocity(minVelocity int) float64 {
	if minVelocity <= 0 {
		return DefaultVelocity
	}
	return float64(minVelocity) / 127
}

// formatFloat prints v with the fewest digits that round-trip, always
// keeping a fractional part.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// quote renders s as a literal string, falling back to a basic string when
// s contains a single quote.
func quote(s string) string {
	if !strings.ContainsAny(s, "'\n") {
		return "'" + s + "'"
	}
	return strconv.Quote(s)
}

// WriteTo writes the document in the mapping text format.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder

	b.WriteString("# ELEKTRON MULTI-SAMPLE MAPPING FORMAT\n")
	b.WriteString("version = 0\n")
	fmt.Fprintf(&b, "name = %s\n", quote(d.Name))

	for _, kz := range d.KeyZones {
		b.WriteString("\n[[key-zones]]\n")
		fmt.Fprintf(&b, "pitch = %d\n", kz.Pitch)
		fmt.Fprintf(&b, "key-center = %s\n", formatFloat(kz.KeyCenter))

		for _, layer := range kz.Layers {
			b.WriteString("\n[[key-zones.velocity-layers]]\n")
			fmt.Fprintf(&b, "velocity = %s\n", formatFloat(Velocity(layer.MinVelocity)))
			b.WriteString("strategy = 'Forward'\n")

			for _, s := range layer.Slots {
				writeSlot(&b, s)
			}
		}
	}

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func writeSlot(b *strings.Builder, s Slot) {
	b.WriteString("\n[[key-zones.velocity-layers.sample-slots]]\n")
	fmt.Fprintf(b, "sample = %s\n", quote(s.Sample))

	if s.TrimStart > 0 {
		fmt.Fprintf(b, "trim-start = %d\n", s.TrimStart)
	}
	if s.TrimEnd > 0 {
		fmt.Fprintf(b, "trim-end = %d\n", s.TrimEnd)
	}

	if !s.Loop {
		b.WriteString("loop-mode = 'Off'\n")
		return
	}

	b.WriteString("loop-mode = 'Forward'\n")
	fmt.Fprintf(b, "loop-start = %d\n", s.LoopStart)
	fmt.Fprintf(b, "loop-end = %d\n", s.LoopEnd)
	if s.LoopCrossfade > 0 {
		fmt.Fprintf(b, "loop-crossfade = %d\n", s.LoopCrossfade)
	}
	if s.KeepLoopingOnRelease {
		b.WriteString("keep-looping-on-release = true\n")
	}
}

// WriteFile writes the document to path.
func (d *Document) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if _, err := d.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
