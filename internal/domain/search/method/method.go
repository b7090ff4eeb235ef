package method

import (
	"strings"

	"github.com/kailas-cloud/chemsearch/internal/domain/element"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/predicate"
)

// Method is the search strategy requested by the selection.
type Method string

// Search method constants.
const (
	PolymerType         Method = "polymer_type"
	SumFormula          Method = "sum_formula"
	SampleExternalLabel Method = "sample_external_label"
	IupacName           Method = "iupac_name"
	InChIString         Method = "inchistring"
	InChIKey            Method = "inchikey"
	CanoSmiles          Method = "cano_smiles"
	SampleName          Method = "sample_name"
	SampleShortLabel    Method = "sample_short_label"

	ReactionName         Method = "reaction_name"
	ReactionShortLabel   Method = "reaction_short_label"
	ReactionStatus       Method = "reaction_status"
	ReactionRinchiString Method = "reaction_rinchi_string"

	WellplateName Method = "wellplate_name"
	ScreenName    Method = "screen_name"

	Substring Method = "substring"
	Structure Method = "structure"
	Advanced  Method = "advanced"
	Elements  Method = "elements"
	// ChemotionID looks up published records by their publication code.
	ChemotionID Method = "chemotion_id"
)

// ElementShortLabelPrefix starts the per-klass generic element short label method,
// e.g. element_short_label_Cell.
const ElementShortLabelPrefix = "element_short_label_"

// NeedsArgument reports whether the method requires a non-empty free text term.
func (m Method) NeedsArgument() bool {
	return m != Advanced && m != Structure
}

// ElementKlass returns the klass name of an element_short_label_ method.
func (m Method) ElementKlass() (string, bool) {
	s := string(m)
	if !strings.HasPrefix(s, ElementShortLabelPrefix) || len(s) == len(ElementShortLabelPrefix) {
		return "", false
	}
	return strings.TrimPrefix(s, ElementShortLabelPrefix), true
}

// NoGate marks a field match that is visible at every detail level.
const NoGate = -1 << 31

// FieldMatch describes a single-column search method.
type FieldMatch struct {
	Kind   element.Kind
	Column predicate.Column
	// Exact compares with =, otherwise a case-insensitive substring match is used.
	Exact bool
	// MinSampleLevel is the minimum sample detail level, NoGate when ungated.
	MinSampleLevel int
	// ViaMolecule joins molecules through samples.molecule_id.
	ViaMolecule bool
}

var fieldMatches = map[Method]FieldMatch{
	SumFormula: {Kind: element.Samples, Column: predicate.NewColumn(predicate.Molecules, "sum_formular"),
		Exact: false, MinSampleLevel: 0, ViaMolecule: true},
	SampleExternalLabel: {Kind: element.Samples, Column: predicate.NewColumn(predicate.Samples, "external_label"),
		MinSampleLevel: 0},
	IupacName: {Kind: element.Samples, Column: predicate.NewColumn(predicate.Molecules, "iupac_name"),
		MinSampleLevel: 1, ViaMolecule: true},
	InChIString: {Kind: element.Samples, Column: predicate.NewColumn(predicate.Molecules, "inchistring"),
		Exact: true, MinSampleLevel: 1, ViaMolecule: true},
	InChIKey: {Kind: element.Samples, Column: predicate.NewColumn(predicate.Molecules, "inchikey"),
		Exact: true, MinSampleLevel: 1, ViaMolecule: true},
	CanoSmiles: {Kind: element.Samples, Column: predicate.NewColumn(predicate.Molecules, "cano_smiles"),
		Exact: true, MinSampleLevel: 1, ViaMolecule: true},
	SampleName: {Kind: element.Samples, Column: predicate.NewColumn(predicate.Samples, "name"),
		MinSampleLevel: 1},
	SampleShortLabel: {Kind: element.Samples, Column: predicate.NewColumn(predicate.Samples, "short_label"),
		MinSampleLevel: 1},

	ReactionName: {Kind: element.Reactions, Column: predicate.NewColumn("reactions", "name"),
		MinSampleLevel: NoGate},
	ReactionShortLabel: {Kind: element.Reactions, Column: predicate.NewColumn("reactions", "short_label"),
		MinSampleLevel: NoGate},
	ReactionStatus: {Kind: element.Reactions, Column: predicate.NewColumn("reactions", "status"),
		Exact: true, MinSampleLevel: NoGate},
	ReactionRinchiString: {Kind: element.Reactions, Column: predicate.NewColumn("reactions", "rinchi_string"),
		Exact: true, MinSampleLevel: NoGate},

	WellplateName: {Kind: element.Wellplates, Column: predicate.NewColumn("wellplates", "name"),
		MinSampleLevel: NoGate},
	ScreenName: {Kind: element.Screens, Column: predicate.NewColumn("screens", "name"),
		MinSampleLevel: NoGate},
}

// Field returns the single-column description of a simple method.
func (m Method) Field() (FieldMatch, bool) {
	f, ok := fieldMatches[m]
	return f, ok
}

// PolymerTypeMinLevel is the sample detail level needed for polymer type search.
const PolymerTypeMinLevel = 1

// SubstringMinLevel is the sample detail level needed for the full text search.
const SubstringMinLevel = 1

// StructureMinLevel is the sample detail level needed for structure search.
const StructureMinLevel = 1
