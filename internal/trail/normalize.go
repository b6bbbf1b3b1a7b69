package trail

import (
	"regexp"
	"sort"
	"strconv"
)

// Legacy spellings of a distance band label.
const (
	labelKey      = "label"
	rangeValueKey = "range_value"
	bandKeyPrefix = "avg_daily_distance_"
)

var bandKeyPattern = regexp.MustCompile(`^avg_daily_distance_([1-9][0-9]*)$`)

// BandKey returns the positional legacy key for the band at zero-based
// position i.
func BandKey(i int) string {
	return bandKeyPrefix + strconv.Itoa(i+1)
}

// ResolveLabel picks the label of a wire-shaped distance band: label, then
// range_value, then the lowest-numbered avg_daily_distance_<n> key. Only
// string values count. No match yields "".
func ResolveLabel(entry Document) string {
	if s, ok := entry[labelKey].(string); ok {
		return s
	}
	if s, ok := entry[rangeValueKey].(string); ok {
		return s
	}
	for _, key := range dynamicBandKeys(entry) {
		if s, ok := entry[key].(string); ok {
			return s
		}
	}
	return ""
}

// dynamicBandKeys returns the avg_daily_distance_<n> keys of entry ordered by n.
func dynamicBandKeys(entry Document) []string {
	type numbered struct {
		key string
		n   int
	}
	var found []numbered
	for key := range entry {
		m := bandKeyPattern.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		found = append(found, numbered{key: key, n: n})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })

	keys := make([]string, len(found))
	for i, f := range found {
		keys[i] = f.key
	}
	return keys
}

func isAliasKey(key string) bool {
	return key == rangeValueKey || bandKeyPattern.MatchString(key)
}

// NormalizeBand returns a copy of entry with the label collapsed into the
// canonical "label" key and every alias key removed. Other keys are kept as is.
func NormalizeBand(entry Document) Document {
	out := make(Document, len(entry))
	for key, value := range entry {
		if key == labelKey || isAliasKey(key) {
			continue
		}
		out[key] = value
	}
	out[labelKey] = ResolveLabel(entry)
	return out
}

// DenormalizeBand writes the label of a canonical entry under the positional
// key for position i and strips label and every alias key.
func DenormalizeBand(entry Document, i int) Document {
	label := ResolveLabel(entry)
	out := make(Document, len(entry))
	for key, value := range entry {
		if key == labelKey || isAliasKey(key) {
			continue
		}
		out[key] = value
	}
	out[BandKey(i)] = label
	return out
}

// NormalizeBands normalizes each object entry of a band list in order.
// Non-object entries are passed through.
func NormalizeBands(entries []any) []any {
	out := make([]any, len(entries))
	for i, e := range entries {
		if m, ok := e.(map[string]any); ok {
			out[i] = NormalizeBand(m)
		} else {
			out[i] = e
		}
	}
	return out
}

// DenormalizeBands re-keys a band list by position. The key of an entry
// depends only on where it sits in the list, so reordering changes keys.
func DenormalizeBands(entries []any) []any {
	out := make([]any, len(entries))
	for i, e := range entries {
		if m, ok := e.(map[string]any); ok {
			out[i] = DenormalizeBand(m, i)
		} else {
			out[i] = e
		}
	}
	return out
}

// NormalizeDocument applies NormalizeBands to the avg_daily_distance list of
// a wire-shaped route document. The input is not modified.
func NormalizeDocument(doc Document) Document {
	return withBands(doc, NormalizeBands)
}

// DenormalizeDocument applies DenormalizeBands to the avg_daily_distance list
// of a wire-shaped route document. The input is not modified.
func DenormalizeDocument(doc Document) Document {
	return withBands(doc, DenormalizeBands)
}

func withBands(doc Document, fn func([]any) []any) Document {
	if doc == nil {
		return nil
	}
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	if bands, ok := doc[FieldAvgDailyDistance.External].([]any); ok {
		out[FieldAvgDailyDistance.External] = fn(bands)
	}
	return out
}
