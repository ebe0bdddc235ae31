package store

import (
	"strings"
	"unicode"

	"github.com/stratakg/strata/pkg/common"
)

// Node labels known to the store, grouped into semantic layers. Labels not
// in this table default to the enterprise layer at write time.
var labelLayers = map[string]common.Layer{
	"Standard":    common.LayerStandard,
	"Requirement": common.LayerStandard,

	"Enterprise": common.LayerEnterprise,
	"Industry":   common.LayerEnterprise,
	"Department": common.LayerEnterprise,
	"Role":       common.LayerEnterprise,
	"Product":    common.LayerEnterprise,
	"Entity":     common.LayerEnterprise,

	"Process": common.LayerProcess,

	"Document": common.LayerDocument,
	"Record":   common.LayerDocument,
}

// LabelLayer resolves a node label to its semantic layer.
func LabelLayer(label string) common.Layer {
	if layer, ok := labelLayers[label]; ok {
		return layer
	}
	return common.LayerEnterprise
}

// LayerLabels returns the labels belonging to a layer. For
// common.LayerComplete it returns nil, meaning all labels.
func LayerLabels(layer common.Layer) []string {
	if layer == common.LayerComplete {
		return nil
	}
	labels := make([]string, 0, 4)
	for label, l := range labelLayers {
		if l == layer {
			labels = append(labels, label)
		}
	}
	return labels
}

// SanitizeIdentifier reduces a label or relation-type string to the charset
// the underlying graph engine accepts as an identifier: letters, digits and
// underscore. Other runes become underscores, runs are collapsed, and an
// input with nothing left maps to the given fallback. The sanitized value is
// what gets used structurally; the raw value never reaches the engine.
func SanitizeIdentifier(value string, fallback string) string {
	var b strings.Builder
	b.Grow(len(value))
	lastUnderscore := false
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
			lastUnderscore = r == '_'
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}

	result := strings.Trim(b.String(), "_")
	if result == "" {
		return fallback
	}
	return result
}

// SanitizeRelationType sanitizes an edge type for structural use.
func SanitizeRelationType(relationType string) string {
	return SanitizeIdentifier(relationType, "RELATED_TO")
}

// SanitizeLabel sanitizes a node label for structural use.
func SanitizeLabel(label string) string {
	return SanitizeIdentifier(label, "Entity")
}

// MergeProperties overlays updates onto existing without mutating either
// map. Later writes win per key; keys absent from updates survive.
func MergeProperties(existing map[string]any, updates map[string]any) map[string]any {
	merged := make(map[string]any, len(existing)+len(updates))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range updates {
		merged[k] = v
	}
	return merged
}
