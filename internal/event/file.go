package event

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/roach88/objsel/internal/ir"
)

// File is the YAML form of a sequence of events.
//
//	events:
//	  - number: 1
//	    weight: 1.0
//	    vertices: [{position: {z: 0.1}, type: 1}]
//	    collections:
//	      Muons: [{pt: 25, eta: 1.1, type: Combined, quality: Medium}]
//	    labels:
//	      MuonCalib_Syst: [""]
type File struct {
	Events []Record `yaml:"events"`
}

// Record is one event as written in an event file.
type Record struct {
	Number      int64                     `yaml:"number"`
	Weight      *float64                  `yaml:"weight,omitempty"`
	Vertices    []VertexRecord            `yaml:"vertices,omitempty"`
	Collections map[string][]ObjectRecord `yaml:"collections,omitempty"`
	Labels      map[string][]string       `yaml:"labels,omitempty"`
}

// VertexRecord is the YAML form of ir.Vertex.
type VertexRecord struct {
	Position ir.Vec3 `yaml:"position"`
	Type     int     `yaml:"type"`
}

// ObjectRecord is the YAML form of ir.Object. Muon type and quality are
// written by name.
type ObjectRecord struct {
	Pt          float64            `yaml:"pt"`
	Eta         float64            `yaml:"eta"`
	Author      uint16             `yaml:"author,omitempty"`
	OQ          uint32             `yaml:"oq,omitempty"`
	Cluster     *ir.Cluster        `yaml:"cluster,omitempty"`
	Type        string             `yaml:"type,omitempty"`
	Quality     string             `yaml:"quality,omitempty"`
	Track       *ir.Track          `yaml:"track,omitempty"`
	Isolation   map[string]float64 `yaml:"isolation,omitempty"`
	Tags        map[string]bool    `yaml:"tags,omitempty"`
	Decorations map[string]int     `yaml:"decorations,omitempty"`
}

// LoadFile reads and parses an event file.
func LoadFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event file: %w", err)
	}
	return Parse(data)
}

// Parse decodes an event file, rejecting unknown fields.
func Parse(data []byte) ([]Record, error) {
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	for i := range f.Events {
		if _, err := f.Events[i].Store(); err != nil {
			return nil, fmt.Errorf("events[%d]: %w", i, err)
		}
	}
	return f.Events, nil
}

// Store builds a fresh event store from the record. Every call returns new
// objects, so decorations from an earlier run are not visible. An omitted
// weight is 1, as for collision data.
func (r *Record) Store() (*Store, error) {
	s := NewStore(r.Number)
	weight := 1.0
	if r.Weight != nil {
		weight = *r.Weight
	}
	s.SetWeight(weight)

	vertices := make([]ir.Vertex, len(r.Vertices))
	for i, v := range r.Vertices {
		vertices[i] = ir.Vertex{Position: v.Position, Type: ir.VertexType(v.Type)}
	}
	s.SetVertices(vertices)

	for key, objs := range r.Collections {
		c := make(ir.Collection, len(objs))
		for i := range objs {
			obj, err := objs[i].Object()
			if err != nil {
				return nil, fmt.Errorf("collection %q[%d]: %w", key, i, err)
			}
			c[i] = obj
		}
		if err := s.RecordCollection(norm.NFC.String(key), c); err != nil {
			return nil, err
		}
	}

	for key, labels := range r.Labels {
		normalized := make([]string, len(labels))
		for i, l := range labels {
			normalized[i] = norm.NFC.String(l)
		}
		if err := s.RecordLabels(norm.NFC.String(key), normalized); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Object converts the record into a fresh ir.Object.
func (o *ObjectRecord) Object() (*ir.Object, error) {
	obj := &ir.Object{
		Pt:        o.Pt,
		Eta:       o.Eta,
		Author:    o.Author,
		OQ:        o.OQ,
		Isolation: o.Isolation,
		Tags:      o.Tags,
	}
	if o.Cluster != nil {
		c := *o.Cluster
		obj.Cluster = &c
	}
	if o.Track != nil {
		t := *o.Track
		obj.Track = &t
	}
	if o.Type != "" {
		typ, err := ir.ParseMuonType(o.Type)
		if err != nil {
			return nil, err
		}
		obj.Type = typ
	}
	if o.Quality != "" {
		q, err := ir.ParseQuality(o.Quality)
		if err != nil {
			return nil, err
		}
		obj.Quality = q
	}
	for k, v := range o.Decorations {
		obj.Decorate(k, v)
	}
	return obj, nil
}
