package graph

import (
	"github.com/stratakg/strata/pkg/common"
	"github.com/stratakg/strata/pkg/logger"
)

// tripleKey builds the identity key for deduplication. The three fields are
// joined raw, so triples differing only in case or surrounding whitespace
// remain distinct. Confidence and type hints are not part of identity.
func tripleKey(t common.Triple) string {
	return t.Subject + "-" + t.Predicate + "-" + t.Object
}

// DedupeTriples removes exact duplicates while preserving input order. The
// first occurrence of each key wins; later duplicates are discarded entirely,
// including their confidence and type hints.
func DedupeTriples(triples []common.Triple) []common.Triple {
	if len(triples) <= 1 {
		return triples
	}

	seen := make(map[string]bool, len(triples))
	deduped := make([]common.Triple, 0, len(triples))
	for _, t := range triples {
		key := tripleKey(t)
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, t)
	}

	if dropped := len(triples) - len(deduped); dropped > 0 {
		logger.Debug("[Dedupe] Removed duplicate triples", "dropped", dropped, "kept", len(deduped))
	}
	return deduped
}
