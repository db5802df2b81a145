// Package yaml adapts gopkg.in/yaml.v3 document nodes to the dynops algebra.
// The value type is *yaml.Node, which natively preserves mapping order and
// can represent non-string mapping keys. Nodes are treated as immutable:
// merges build new nodes that share unmodified children.
package yaml

import (
	"fmt"
	"strconv"

	yamlv3 "gopkg.in/yaml.v3"

	dynops "github.com/reoring/dynops"
)

const (
	tagNull  = "!!null"
	tagBool  = "!!bool"
	tagInt   = "!!int"
	tagFloat = "!!float"
	tagStr   = "!!str"
	tagSeq   = "!!seq"
	tagMap   = "!!map"
)

// emptyNode is the adapter's Empty singleton. Callers compare against it by
// reference; parsed null scalars are distinct nodes and are not Empty.
var emptyNode = &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: tagNull, Value: "null"}

// Instance is the YAML adapter. It is stateless; all callers share it.
var Instance dynops.Ops[*yamlv3.Node] = valueOps{}

type valueOps struct{}

func (valueOps) Empty() *yamlv3.Node { return emptyNode }

func (valueOps) CreateNumeric(n dynops.Number) *yamlv3.Node {
	tag := tagInt
	if n.IsFloat() {
		tag = tagFloat
	}
	return scalar(tag, n.String())
}

func (valueOps) GetNumberValue(input *yamlv3.Node) dynops.Result[dynops.Number] {
	if input == nil || input.Kind != yamlv3.ScalarNode {
		return dynops.Errorf[dynops.Number](dynops.CodeTypeMismatch, "not a number: %s", describe(input))
	}
	switch input.Tag {
	case tagInt:
		i, err := strconv.ParseInt(input.Value, 0, 64)
		if err != nil {
			return dynops.Errorf[dynops.Number](dynops.CodeCoercion, "malformed integer scalar: %q", input.Value)
		}
		return dynops.Success(dynops.IntNumber(i))
	case tagFloat:
		f, err := strconv.ParseFloat(input.Value, 64)
		if err != nil {
			return dynops.Errorf[dynops.Number](dynops.CodeCoercion, "malformed float scalar: %q", input.Value)
		}
		return dynops.Success(dynops.FloatNumber(f))
	case tagBool:
		// Booleans coerce to 1/0, mirroring the byte encoding of CreateBoolean.
		if input.Value == "true" {
			return dynops.Success(dynops.IntNumber(1))
		}
		return dynops.Success(dynops.IntNumber(0))
	default:
		return dynops.Errorf[dynops.Number](dynops.CodeTypeMismatch, "not a number: %s", describe(input))
	}
}

func (valueOps) CreateString(s string) *yamlv3.Node { return scalar(tagStr, s) }

func (valueOps) GetStringValue(input *yamlv3.Node) dynops.Result[string] {
	if input != nil && input.Kind == yamlv3.ScalarNode && input.Tag == tagStr {
		return dynops.Success(input.Value)
	}
	return dynops.Errorf[string](dynops.CodeTypeMismatch, "not a string: %s", describe(input))
}

func (valueOps) CreateList(elements []*yamlv3.Node) *yamlv3.Node {
	content := make([]*yamlv3.Node, len(elements))
	copy(content, elements)
	return &yamlv3.Node{Kind: yamlv3.SequenceNode, Tag: tagSeq, Content: content}
}

func (valueOps) GetStream(input *yamlv3.Node) dynops.Result[[]*yamlv3.Node] {
	if input == nil || input.Kind != yamlv3.SequenceNode {
		return dynops.Errorf[[]*yamlv3.Node](dynops.CodeTypeMismatch, "not a sequence: %s", describe(input))
	}
	out := make([]*yamlv3.Node, len(input.Content))
	copy(out, input.Content)
	return dynops.Success(out)
}

func (valueOps) CreateMap(entries []dynops.MapEntry[*yamlv3.Node]) *yamlv3.Node {
	content := make([]*yamlv3.Node, 0, len(entries)*2)
	for _, e := range entries {
		content = append(content, e.Key, e.Value)
	}
	return &yamlv3.Node{Kind: yamlv3.MappingNode, Tag: tagMap, Content: content}
}

func (valueOps) GetMapValues(input *yamlv3.Node) dynops.Result[[]dynops.MapEntry[*yamlv3.Node]] {
	if input == nil || input.Kind != yamlv3.MappingNode {
		return dynops.Errorf[[]dynops.MapEntry[*yamlv3.Node]](dynops.CodeTypeMismatch, "not a mapping: %s", describe(input))
	}
	entries := make([]dynops.MapEntry[*yamlv3.Node], 0, len(input.Content)/2)
	for i := 0; i+1 < len(input.Content); i += 2 {
		entries = append(entries, dynops.MapEntry[*yamlv3.Node]{Key: input.Content[i], Value: input.Content[i+1]})
	}
	return dynops.Success(entries)
}

func (o valueOps) MergeToList(list, value *yamlv3.Node) dynops.Result[*yamlv3.Node] {
	switch {
	case list == emptyNode || list == nil:
		return dynops.Success(o.CreateList([]*yamlv3.Node{value}))
	case list.Kind == yamlv3.SequenceNode:
		content := make([]*yamlv3.Node, len(list.Content), len(list.Content)+1)
		copy(content, list.Content)
		return dynops.Success(&yamlv3.Node{Kind: yamlv3.SequenceNode, Tag: tagSeq, Content: append(content, value)})
	default:
		return dynops.ErrorWithPartial(dynops.CodeMergeConflict,
			fmt.Sprintf("mergeToList called with not a list: %s", describe(list)), list)
	}
}

func (valueOps) MergeToMap(m, key, value *yamlv3.Node) dynops.Result[*yamlv3.Node] {
	if key == nil || key.Kind != yamlv3.ScalarNode {
		return dynops.ErrorWithPartial(dynops.CodeTypeMismatch,
			fmt.Sprintf("key is not a string: %s", describe(key)), m)
	}
	switch {
	case m == emptyNode || m == nil:
		return dynops.Success(&yamlv3.Node{Kind: yamlv3.MappingNode, Tag: tagMap, Content: []*yamlv3.Node{key, value}})
	case m.Kind == yamlv3.MappingNode:
		content := make([]*yamlv3.Node, len(m.Content))
		copy(content, m.Content)
		for i := 0; i+1 < len(content); i += 2 {
			if sameScalar(content[i], key) {
				content[i+1] = value
				return dynops.Success(&yamlv3.Node{Kind: yamlv3.MappingNode, Tag: tagMap, Content: content})
			}
		}
		return dynops.Success(&yamlv3.Node{Kind: yamlv3.MappingNode, Tag: tagMap, Content: append(content, key, value)})
	default:
		return dynops.ErrorWithPartial(dynops.CodeMergeConflict,
			fmt.Sprintf("mergeToMap called with not a map: %s", describe(m)), m)
	}
}

func (valueOps) Remove(input *yamlv3.Node, key string) *yamlv3.Node {
	if input == nil || input.Kind != yamlv3.MappingNode {
		return input
	}
	for i := 0; i+1 < len(input.Content); i += 2 {
		k := input.Content[i]
		if k.Kind == yamlv3.ScalarNode && k.Tag == tagStr && k.Value == key {
			content := make([]*yamlv3.Node, 0, len(input.Content)-2)
			content = append(content, input.Content[:i]...)
			content = append(content, input.Content[i+2:]...)
			return &yamlv3.Node{Kind: yamlv3.MappingNode, Tag: tagMap, Content: content}
		}
	}
	return input
}

func (o valueOps) ConvertTo(out dynops.Ops[any], input *yamlv3.Node) any {
	switch {
	case input == nil || input == emptyNode:
		return out.Empty()
	case input.Kind == yamlv3.DocumentNode && len(input.Content) > 0:
		return o.ConvertTo(out, input.Content[0])
	case input.Kind == yamlv3.AliasNode && input.Alias != nil:
		return o.ConvertTo(out, input.Alias)
	case input.Kind == yamlv3.SequenceNode:
		return dynops.ConvertList[*yamlv3.Node](o, out, input)
	case input.Kind == yamlv3.MappingNode:
		return dynops.ConvertMap[*yamlv3.Node](o, out, input)
	case input.Kind == yamlv3.ScalarNode:
		switch input.Tag {
		case tagNull:
			return out.Empty()
		case tagBool:
			return dynops.CreateBoolean(out, input.Value == "true")
		case tagInt, tagFloat:
			if n, ok := o.GetNumberValue(input).Get(); ok {
				return out.CreateNumeric(n)
			}
			return out.CreateString(input.Value)
		default:
			return out.CreateString(input.Value)
		}
	default:
		return out.Empty()
	}
}

func (valueOps) CompressMaps() bool { return false }

// CreateBoolean stores a native !!bool scalar.
func (valueOps) CreateBoolean(v bool) *yamlv3.Node {
	if v {
		return scalar(tagBool, "true")
	}
	return scalar(tagBool, "false")
}

// GetBooleanValue reads a native !!bool scalar, or falls back to the byte
// view of a numeric value.
func (o valueOps) GetBooleanValue(input *yamlv3.Node) dynops.Result[bool] {
	if input != nil && input.Kind == yamlv3.ScalarNode && input.Tag == tagBool {
		return dynops.Success(input.Value == "true")
	}
	return dynops.MapResult(o.GetNumberValue(input), func(n dynops.Number) bool { return n.Byte() != 0 })
}

// Decode parses YAML bytes into a node tree, unwrapping the document node.
func Decode(data []byte) (*yamlv3.Node, error) {
	var doc yamlv3.Node
	if err := yamlv3.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == yamlv3.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0], nil
	}
	if doc.Kind == 0 {
		return emptyNode, nil
	}
	return &doc, nil
}

// Encode renders a node tree as YAML bytes.
func Encode(n *yamlv3.Node) ([]byte, error) {
	return yamlv3.Marshal(n)
}

func scalar(tag, value string) *yamlv3.Node {
	return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: tag, Value: value}
}

// sameScalar reports key equality for mapping updates: same tag, same text.
func sameScalar(a, b *yamlv3.Node) bool {
	return a != nil && b != nil &&
		a.Kind == yamlv3.ScalarNode && b.Kind == yamlv3.ScalarNode &&
		a.Tag == b.Tag && a.Value == b.Value
}

func describe(n *yamlv3.Node) string {
	if n == nil {
		return "<nil>"
	}
	switch n.Kind {
	case yamlv3.ScalarNode:
		return fmt.Sprintf("%s %q", n.Tag, n.Value)
	case yamlv3.SequenceNode:
		return fmt.Sprintf("sequence of %d", len(n.Content))
	case yamlv3.MappingNode:
		return fmt.Sprintf("mapping of %d", len(n.Content)/2)
	case yamlv3.DocumentNode:
		return "document"
	case yamlv3.AliasNode:
		return "alias"
	default:
		return "unknown node"
	}
}
