package deck

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const relNS = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

// Slide is one slide part of the presentation, in deck order.
type Slide struct {
	ID   string // sldId id attribute, stable identity within the deck
	Path string // zip part path, e.g. ppt/slides/slide1.xml
}

// Slides enumerates the deck's slides in presentation order by walking the
// sldIdLst and resolving each r:id through presentation.xml.rels.
func (p *Package) Slides() ([]Slide, error) {
	presData, err := p.ReadPart("ppt/presentation.xml")
	if err != nil {
		return nil, err
	}

	relData, err := p.ReadPart("ppt/_rels/presentation.xml.rels")
	if err != nil {
		return nil, err
	}
	targets, err := parseRelTargets(relData)
	if err != nil {
		return nil, err
	}

	ids, err := parseSlideIDs(presData)
	if err != nil {
		return nil, err
	}

	slides := make([]Slide, 0, len(ids))
	for _, entry := range ids {
		target, ok := targets[entry.rid]
		if !ok {
			return nil, fmt.Errorf("%w: relationship %s", ErrPartMissing, entry.rid)
		}
		slides = append(slides, Slide{ID: entry.id, Path: normalizeTarget(target)})
	}
	return slides, nil
}

type slideIDEntry struct {
	id  string
	rid string
}

func parseSlideIDs(presData []byte) ([]slideIDEntry, error) {
	decoder := xml.NewDecoder(bytes.NewReader(presData))

	var out []slideIDEntry
	inList := false
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse presentation.xml: %w", err)
		}

		switch tok := token.(type) {
		case xml.StartElement:
			if tok.Name.Local == "sldIdLst" {
				inList = true
				continue
			}
			if !inList || tok.Name.Local != "sldId" {
				continue
			}
			entry := slideIDEntry{}
			for _, attr := range tok.Attr {
				switch {
				case attr.Name.Local == "id" && attr.Name.Space == "":
					entry.id = attr.Value
				case attr.Name.Local == "id" && attr.Name.Space == relNS:
					entry.rid = attr.Value
				}
			}
			if entry.rid != "" {
				out = append(out, entry)
			}
		case xml.EndElement:
			if tok.Name.Local == "sldIdLst" {
				inList = false
			}
		}
	}
	return out, nil
}

type xmlRels struct {
	Relationship []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

func parseRelTargets(relData []byte) (map[string]string, error) {
	var rels xmlRels
	if err := xml.Unmarshal(relData, &rels); err != nil {
		return nil, fmt.Errorf("parse presentation.xml.rels: %w", err)
	}
	targets := make(map[string]string, len(rels.Relationship))
	for _, rel := range rels.Relationship {
		targets[rel.ID] = rel.Target
	}
	return targets, nil
}

func normalizeTarget(target string) string {
	target = strings.TrimPrefix(target, "/")
	if !strings.HasPrefix(target, "ppt/") {
		target = "ppt/" + target
	}
	return target
}
