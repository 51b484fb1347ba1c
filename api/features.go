package api

import (
	"fmt"
	"sort"
	"strings"
)

// CoreFeatures is a bitset of WebAssembly Core specification features.
// Flags start at 1 << 0; no flag is zero, so a zero value unambiguously
// means "no features enabled" and can never be mistaken for a feature flag.
type CoreFeatures uint64

const (
	// CoreFeatureMutableGlobal allows globals to be declared mutable. Part
	// of the WebAssembly Core 2.0 specification, it was already supported
	// unconditionally in Core 1.0 implementations, so it is enabled by
	// CoreFeaturesV1.
	CoreFeatureMutableGlobal CoreFeatures = 1 << iota
	// CoreFeatureSignExtensionOps enables i32.extend8_s and friends.
	CoreFeatureSignExtensionOps
	// CoreFeatureMultiValue allows a function or block type to return more
	// than one value.
	CoreFeatureMultiValue
	// CoreFeatureNonTrappingFloatToIntConversion enables the saturating
	// trunc_sat instructions instead of trapping on overflow/NaN.
	CoreFeatureNonTrappingFloatToIntConversion
	// CoreFeatureBulkMemoryOperations enables memory.copy, memory.fill,
	// table.copy and friends.
	CoreFeatureBulkMemoryOperations
	// CoreFeatureReferenceTypes enables externref and funcref as value
	// types usable outside of tables.
	CoreFeatureReferenceTypes
	// CoreFeatureSIMD enables the v128 value type and its instructions.
	CoreFeatureSIMD
)

// CoreFeaturesV1 is the feature set of the WebAssembly Core 1.0
// specification, 20191205 snapshot.
const CoreFeaturesV1 = CoreFeatureMutableGlobal

// CoreFeaturesV2 is the feature set of the WebAssembly Core 2.0
// specification.
const CoreFeaturesV2 = CoreFeaturesV1 |
	CoreFeatureSignExtensionOps |
	CoreFeatureMultiValue |
	CoreFeatureNonTrappingFloatToIntConversion |
	CoreFeatureBulkMemoryOperations |
	CoreFeatureReferenceTypes |
	CoreFeatureSIMD

var featureNames = []struct {
	flag CoreFeatures
	name string
}{
	{CoreFeatureMutableGlobal, "mutable-global"},
	{CoreFeatureSignExtensionOps, "sign-extension-ops"},
	{CoreFeatureMultiValue, "multi-value"},
	{CoreFeatureNonTrappingFloatToIntConversion, "nontrapping-float-to-int-conversion"},
	{CoreFeatureBulkMemoryOperations, "bulk-memory-operations"},
	{CoreFeatureReferenceTypes, "reference-types"},
	{CoreFeatureSIMD, "simd"},
}

// IsEnabled returns true if the feature (or set of features) is enabled.
func (f CoreFeatures) IsEnabled(feature CoreFeatures) bool {
	return f&feature == feature && feature != 0
}

// SetEnabled returns a copy of f with feature set per enabled. Setting the
// zero value is a no-op: there is no flag to toggle.
func (f CoreFeatures) SetEnabled(feature CoreFeatures, enabled bool) CoreFeatures {
	if enabled {
		return f | feature
	}
	return f &^ feature
}

// RequireEnabled returns an error naming the first disabled feature in
// feature, or nil if all of them are enabled.
func (f CoreFeatures) RequireEnabled(feature CoreFeatures) error {
	for _, fn := range featureNames {
		if feature&fn.flag != 0 && !f.IsEnabled(fn.flag) {
			return fmt.Errorf("feature %q is disabled", fn.name)
		}
	}
	return nil
}

// String renders the enabled feature names, pipe-separated and sorted, or
// the empty string if none are enabled (including any undefined bit, which
// has no name and is silently omitted).
func (f CoreFeatures) String() string {
	var names []string
	for _, fn := range featureNames {
		if f.IsEnabled(fn.flag) {
			names = append(names, fn.name)
		}
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}
