package engine

import (
	"github.com/nextup-dev/nextup/internal/recommend/domain"
)

// FeatureContributor is a pluggable scoring theory. A contributor maps a
// candidate plus context onto a partial feature set; its values override
// the base extractor's for the factors it emits. Contributors run in
// registration order, later ones winning on conflicts, so composition is
// deterministic.
type FeatureContributor interface {
	// Name identifies the contributor, e.g. "gtd_next_action".
	Name() string

	// Contribute returns a partial feature set. Factors absent from the
	// returned map keep their previous values.
	Contribute(c domain.Candidate, ctx domain.Context) FeatureSet
}

// applyContributors overlays each contributor's partial feature set onto
// the base set, in order.
func applyContributors(fs FeatureSet, contributors []FeatureContributor, c domain.Candidate, ctx domain.Context) {
	for _, contrib := range contributors {
		for name, feature := range contrib.Contribute(c, ctx) {
			fs[name] = feature
		}
	}
}
