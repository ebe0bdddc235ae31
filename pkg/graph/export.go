package graph

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/stratakg/strata/pkg/common"
	"github.com/stratakg/strata/pkg/store"
)

// ExportTriplesCSV writes extracted triples as CSV with a header row.
func ExportTriplesCSV(w io.Writer, triples []common.Triple) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"subject", "predicate", "object", "confidence", "subject_type", "object_type"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, t := range triples {
		record := []string{
			t.Subject,
			t.Predicate,
			t.Object,
			strconv.FormatFloat(t.Confidence, 'f', -1, 64),
			t.SubjectType,
			t.ObjectType,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportLayerCSV writes a layer view as two CSV sections, nodes then edges,
// separated by a blank line.
func ExportLayerCSV(w io.Writer, view *store.LayerView) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "label", "name", "layer"}); err != nil {
		return fmt.Errorf("failed to write node header: %w", err)
	}
	for _, n := range view.Nodes {
		if err := cw.Write([]string{n.ID, n.Label, n.Name, string(n.Layer)}); err != nil {
			return fmt.Errorf("failed to write node record: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}

	cw = csv.NewWriter(w)
	if err := cw.Write([]string{"id", "source_id", "target_id", "type"}); err != nil {
		return fmt.Errorf("failed to write edge header: %w", err)
	}
	for _, e := range view.Edges {
		if err := cw.Write([]string{e.ID, e.SourceID, e.TargetID, e.Type}); err != nil {
			return fmt.Errorf("failed to write edge record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
