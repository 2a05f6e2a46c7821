// SPDX-License-Identifier: EPL-2.0

package elmulti

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

const (
	sectionKeyZone = "[[key-zones]]"
	sectionLayer   = "[[key-zones.velocity-layers]]"
	sectionSlot    = "[[key-zones.velocity-layers.sample-slots]]"
)

// Parse reads a mapping document. Keys it does not know are skipped; a
// table that appears before its parent is an error.
func Parse(r io.Reader) (*Document, error) {
	doc := &Document{}

	var (
		kz    *KeyZone
		layer *Layer
		slot  *Slot
	)

	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch line {
		case sectionKeyZone:
			doc.KeyZones = append(doc.KeyZones, KeyZone{})
			kz, layer, slot = &doc.KeyZones[len(doc.KeyZones)-1], nil, nil
			continue
		case sectionLayer:
			if kz == nil {
				return nil, fmt.Errorf("%w: line %d: velocity layer outside a key zone", ErrSyntax, n)
			}
			kz.Layers = append(kz.Layers, Layer{})
			layer, slot = &kz.Layers[len(kz.Layers)-1], nil
			continue
		case sectionSlot:
			if layer == nil {
				return nil, fmt.Errorf("%w: line %d: sample slot outside a velocity layer", ErrSyntax, n)
			}
			layer.Slots = append(layer.Slots, Slot{})
			slot = &layer.Slots[len(layer.Slots)-1]
			continue
		}

		key, raw, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("%w: line %d: %q", ErrSyntax, n, line)
		}
		key, raw = strings.TrimSpace(key), strings.TrimSpace(raw)

		var err error
		switch {
		case slot != nil:
			err = slot.set(key, raw)
		case layer != nil:
			err = layer.set(key, raw)
		case kz != nil:
			err = kz.set(key, raw)
		case key == "name":
			doc.Name, err = unquote(raw)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %s: %w", ErrSyntax, n, key, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return doc, nil
}

// ReadFile parses the document at path.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Slots returns every slot of the document in file order.
func (d *Document) Slots() []Slot {
	var out []Slot
	for _, kz := range d.KeyZones {
		for _, layer := range kz.Layers {
			out = append(out, layer.Slots...)
		}
	}
	return out
}

func (kz *KeyZone) set(key, raw string) (err error) {
	switch key {
	case "pitch":
		kz.Pitch, err = strconv.Atoi(raw)
	case "key-center":
		kz.KeyCenter, err = strconv.ParseFloat(raw, 64)
	}
	return err
}

func (l *Layer) set(key, raw string) error {
	if key != "velocity" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	l.MinVelocity = minVelocity(v)
	return nil
}

func (s *Slot) set(key, raw string) (err error) {
	switch key {
	case "sample":
		s.Sample, err = unquote(raw)
	case "trim-start":
		s.TrimStart, err = strconv.Atoi(raw)
	case "trim-end":
		s.TrimEnd, err = strconv.Atoi(raw)
	case "loop-mode":
		var mode string
		mode, err = unquote(raw)
		s.Loop = mode != "" && mode != "Off"
	case "loop-start":
		s.LoopStart, err = strconv.Atoi(raw)
	case "loop-end":
		s.LoopEnd, err = strconv.Atoi(raw)
	case "loop-crossfade":
		s.LoopCrossfade, err = strconv.Atoi(raw)
	case "keep-looping-on-release":
		s.KeepLoopingOnRelease, err = strconv.ParseBool(raw)
	}
	return err
}

// minVelocity inverts Velocity.
func minVelocity(v float64) int {
	if v == DefaultVelocity {
		return 0
	}
	return int(math.Round(v * 127))
}

func unquote(raw string) (string, error) {
	if len(raw) >= 2 && raw[0] == '\'' && raw[len(raw)-1] == '\'' {
		return raw[1 : len(raw)-1], nil
	}
	return strconv.Unquote(raw)
}
