package models

import (
	"fmt"
	"strings"
)

// Category groups packages that need different installation treatment.
type Category string

const (
	CategoryTorch       Category = "torch"
	CategoryOnnxRuntime Category = "onnxruntime"
	CategoryTensorFlow  Category = "tensorflow"
	CategoryRegular     Category = "regular"
)

// CategoryOrder is the order groups are installed in.
var CategoryOrder = []Category{
	CategoryTorch,
	CategoryOnnxRuntime,
	CategoryTensorFlow,
	CategoryRegular,
}

// PackageRecord is one parsed manifest line. Treat it as immutable.
type PackageRecord struct {
	// Name is the lowercased distribution name.
	Name string `json:"name" yaml:"name"`
	// Version is the first version token, without its comparator.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	// Comparator is the operator that preceded Version, e.g. ">=".
	Comparator string `json:"comparator,omitempty" yaml:"comparator,omitempty"`
	// Extras are the bracketed optional features.
	Extras []string `json:"extras,omitempty" yaml:"extras,omitempty"`
	// Category is derived from Name.
	Category Category `json:"category" yaml:"category"`
	// OriginalLine is the manifest line with comments removed.
	OriginalLine string `json:"original_line" yaml:"original_line"`
}

// Spec renders the record as an installer argument.
func (p PackageRecord) Spec() string {
	return p.SpecAs(p.Name)
}

// SpecAs renders the record under a different distribution name, keeping
// extras and version.
func (p PackageRecord) SpecAs(name string) string {
	var b strings.Builder

	b.WriteString(name)

	if len(p.Extras) > 0 {
		fmt.Fprintf(&b, "[%s]", strings.Join(p.Extras, ","))
	}

	if p.Version != "" {
		comparator := p.Comparator
		if comparator == "" {
			comparator = "=="
		}

		b.WriteString(comparator)
		b.WriteString(p.Version)
	}

	return b.String()
}

// String implements fmt.Stringer.
func (p PackageRecord) String() string {
	return p.Spec()
}

// PackageGroup is the packages of one category in manifest order.
type PackageGroup struct {
	Category Category        `json:"category" yaml:"category"`
	Packages []PackageRecord `json:"packages" yaml:"packages"`
}

// InstallationPlan is a locally synthesized plan.
type InstallationPlan struct {
	// Groups are non-empty and ordered per CategoryOrder.
	Groups []PackageGroup `json:"groups" yaml:"groups"`
	// IndexURLs holds the package index to use for a category, if any.
	IndexURLs map[Category]string `json:"index_urls,omitempty" yaml:"index_urls,omitempty"`
	// NameOverrides maps a manifest name to the distribution to install instead.
	NameOverrides map[string]string `json:"name_overrides,omitempty" yaml:"name_overrides,omitempty"`
}

// Group returns the packages for a category, or nil.
func (p *InstallationPlan) Group(category Category) []PackageRecord {
	for _, g := range p.Groups {
		if g.Category == category {
			return g.Packages
		}
	}

	return nil
}

// PackageCount is the number of packages across all groups.
func (p *InstallationPlan) PackageCount() int {
	count := 0
	for _, g := range p.Groups {
		count += len(g.Packages)
	}

	return count
}
