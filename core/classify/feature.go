package classify

import (
	"fmt"
	"strings"
)

// Feature is a bit mask of enabled annotation rules.
type Feature uint

// Feature bits. The values match the persisted render settings.
const (
	FeatureKnown    Feature = 1 << iota // ranks at or below threshold
	FeatureMissing                      // kanji absent from every source
	FeatureUnknown                      // graduated buckets above threshold
	FeatureAddKnown                     // manually known list
	FeatureAddSeen                      // manually seen list
	FeatureCurrent                      // rank equal to threshold
)

// AllFeatures enables every rule.
const AllFeatures = FeatureKnown | FeatureMissing | FeatureUnknown | FeatureAddKnown | FeatureAddSeen | FeatureCurrent

// DefaultFeatures is the mask used before the user changes anything.
const DefaultFeatures Feature = 0xff

var featureNames = []struct {
	bit  Feature
	name string
}{
	{FeatureKnown, "known"},
	{FeatureMissing, "missing"},
	{FeatureUnknown, "unknown"},
	{FeatureAddKnown, "add-known"},
	{FeatureAddSeen, "add-seen"},
	{FeatureCurrent, "current"},
}

// Has reports whether every bit of f is set in m.
func (m Feature) Has(f Feature) bool {
	return m&f == f
}

// String lists the enabled features by name, comma separated.
func (m Feature) String() string {
	var names []string
	for _, fn := range featureNames {
		if m.Has(fn.bit) {
			names = append(names, fn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// ParseFeatures reads a comma separated list of feature names. "all" and
// "none" are accepted, and a leading '-' removes a feature:
// "all,-missing" enables everything except the missing rule.
func ParseFeatures(s string) (Feature, error) {
	var m Feature
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		remove := strings.HasPrefix(part, "-")
		part = strings.TrimPrefix(part, "-")

		var bit Feature
		switch part {
		case "all":
			bit = AllFeatures
		case "none":
			if remove {
				return 0, fmt.Errorf("cannot remove %q", part)
			}
			m = 0
			continue
		default:
			for _, fn := range featureNames {
				if fn.name == part {
					bit = fn.bit
				}
			}
			if bit == 0 {
				return 0, fmt.Errorf("unknown feature %q", part)
			}
		}

		if remove {
			m &^= bit
		} else {
			m |= bit
		}
	}
	return m, nil
}
