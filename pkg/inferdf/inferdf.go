// Package inferdf is a public shim over the internal engine packages, so
// external tools can build/inspect/compose modules without importing
// anything under internal/.
package inferdf

import (
	"github.com/inferdf/inferdf/internal/classify"
	"github.com/inferdf/inferdf/internal/compose"
	"github.com/inferdf/inferdf/internal/interchange"
	"github.com/inferdf/inferdf/internal/module"
	"github.com/inferdf/inferdf/internal/rdf"
	"github.com/inferdf/inferdf/internal/rule"
)

// Term interpretation.
type (
	Interpretation = rdf.Interpretation
	ResourceID     = rdf.ResourceID
	TypeVariant    = rdf.TypeVariant
)

var NewInterpretation = rdf.NewInterpretation

// Dataset and graphs.
type (
	Dataset      = rdf.Dataset
	Graph        = rdf.Graph
	SignedTriple = rdf.SignedTriple
	Triple       = rdf.Triple
	Cause        = rdf.Cause
	Fact         = rdf.Fact
	Sign         = rdf.Sign
)

var (
	NewDataset = rdf.NewDataset
	NewGraph   = rdf.NewGraph
)

const (
	Positive = rdf.Positive
	Negative = rdf.Negative
)

// Rule engine.
type (
	Rule         = rule.Rule
	HeadAtom     = rule.HeadAtom
	Quantifier   = rule.Quantifier
	EngineConfig = rule.Config
	Engine       = rule.Engine
)

var NewEngine = rule.NewEngine

// Classification.
type Classification = classify.Classification

var Classify = classify.Classify

// Module codec.
type Module = module.Module

var (
	Build           = module.Build
	Open            = module.Open
	DefaultPageSize = module.DefaultPageSize
)

// Composition.
type (
	ComposePlan = compose.Plan
	MergePair   = compose.MergePair
)

var (
	Compose      = compose.Compose
	ComposeApply = compose.Apply
)

// Interchange (JSON facts/rules intake).
type (
	Document  = interchange.Document
	TripleDoc = interchange.TripleDoc
	RuleDoc   = interchange.RuleDoc
)

var (
	Decode      = interchange.Decode
	LoadTriples = interchange.LoadTriples
	LoadRules   = interchange.LoadRules
)
