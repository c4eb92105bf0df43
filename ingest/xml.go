package ingest

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/ardnew/onels/lang/value"
)

// decodeXML maps the root element to a single-member object keyed by its
// tag. Attributes become "@name" members, text becomes "#text", and
// repeated child elements collect into a list. An element with neither
// attributes nor children is just its text.
func decodeXML(data []byte) (value.Value, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return value.Undefined, err
	}

	root := doc.Root()
	if root == nil {
		return value.Null, nil
	}

	obj := value.NewObject(1)
	obj.Set(qualified(root.Space, root.Tag), element(root))

	return value.FromObject(obj), nil
}

func qualified(space, name string) string {
	if space == "" {
		return name
	}

	return space + ":" + name
}

func element(el *etree.Element) value.Value {
	kids := el.ChildElements()
	text := strings.TrimSpace(el.Text())

	if len(el.Attr) == 0 && len(kids) == 0 {
		return scalar(text)
	}

	obj := value.NewObject(len(el.Attr) + len(kids))

	for _, a := range el.Attr {
		obj.Set("@"+qualified(a.Space, a.Key), scalar(a.Value))
	}

	var (
		order  []string
		groups = make(map[string][]value.Value)
	)

	for _, c := range kids {
		name := qualified(c.Space, c.Tag)
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}

		groups[name] = append(groups[name], element(c))
	}

	for _, name := range order {
		if g := groups[name]; len(g) == 1 {
			obj.Set(name, g[0])
		} else {
			obj.Set(name, value.List(g...))
		}
	}

	if text != "" {
		obj.Set("#text", scalar(text))
	}

	return value.FromObject(obj)
}
