package docstore

import (
	"fmt"
	"strings"
)

// Path addresses a document: "collection/doc[/collection/doc...]".
type Path string

// Doc joins collection and document ids into a document path. It returns an
// error when a segment is empty or contains a slash.
func Doc(segments ...string) (Path, error) {
	for _, s := range segments {
		if strings.Contains(s, "/") {
			return "", fmt.Errorf("docstore: segment %q contains a slash", s)
		}
	}
	p := Path(strings.Join(segments, "/"))
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

// Validate checks that the path has an even, non-zero number of non-empty segments.
func (p Path) Validate() error {
	if p == "" {
		return fmt.Errorf("docstore: empty path")
	}
	segments := strings.Split(string(p), "/")
	if len(segments)%2 != 0 {
		return fmt.Errorf("docstore: %q is a collection, not a document path", p)
	}
	for _, s := range segments {
		if s == "" {
			return fmt.Errorf("docstore: %q has an empty segment", p)
		}
	}
	return nil
}

// Collection returns the path of the collection holding the document.
func (p Path) Collection() string {
	i := strings.LastIndex(string(p), "/")
	if i < 0 {
		return ""
	}
	return string(p[:i])
}

// ID returns the last segment: the document id.
func (p Path) ID() string {
	i := strings.LastIndex(string(p), "/")
	return string(p[i+1:])
}

// Child returns the path of a document in a sub-collection of p.
func (p Path) Child(collection, id string) (Path, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	sub, err := Doc(collection, id)
	if err != nil {
		return "", err
	}
	return p + "/" + sub, nil
}

func (p Path) String() string {
	return string(p)
}
