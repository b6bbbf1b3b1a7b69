package trail

// Document is an untyped JSON object.
type Document = map[string]any

// ToInternal renames every declared wire field of a route document to its
// internal name. Undeclared keys are dropped. Values are not converted.
func ToInternal(doc Document) Document {
	return rename(doc, RouteShape, true)
}

// ToExternal is the inverse of ToInternal.
func ToExternal(doc Document) Document {
	return rename(doc, RouteShape, false)
}

func rename(doc Document, shape *Shape, inbound bool) Document {
	if doc == nil {
		return nil
	}
	out := make(Document, len(doc))
	for key, value := range doc {
		var (
			f  Field
			ok bool
		)
		if inbound {
			f, ok = shape.External(key)
		} else {
			f, ok = shape.Internal(key)
		}
		if !ok {
			continue
		}
		name := f.Internal
		if !inbound {
			name = f.External
		}
		out[name] = renameValue(value, f, inbound)
	}
	return out
}

func renameValue(value any, f Field, inbound bool) any {
	switch f.Kind {
	case KindObject:
		if m, ok := value.(map[string]any); ok {
			return rename(m, f.Elem, inbound)
		}
	case KindStrings:
		if items, ok := value.([]any); ok {
			out := make([]any, len(items))
			copy(out, items)
			return out
		}
	case KindList:
		items, ok := value.([]any)
		if !ok {
			return value
		}
		out := make([]any, len(items))
		for i, item := range items {
			if m, ok := item.(map[string]any); ok {
				out[i] = rename(m, f.Elem, inbound)
			} else {
				out[i] = item
			}
		}
		return out
	}
	return value
}
