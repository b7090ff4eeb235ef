// Package view renders records for the response, redacted by detail level.
package view

import (
	"encoding/json"
	"time"

	"github.com/kailas-cloud/chemsearch/internal/domain/detail"
	"github.com/kailas-cloud/chemsearch/internal/domain/record"
)

// SampleBrief is visible at sample detail level 0.
type SampleBrief struct {
	ID              int64   `json:"id"`
	Type            string  `json:"type"`
	ExternalLabel   string  `json:"external_label"`
	MolecularWeight float64 `json:"molecular_weight"`
	SumFormula      string  `json:"sum_formular"`
	IsRestricted    bool    `json:"is_restricted"`
}

// SampleList adds names and the molecule identity at level 1.
type SampleList struct {
	SampleBrief
	Name       string `json:"name"`
	ShortLabel string `json:"short_label"`
	IupacName  string `json:"iupac_name"`
	InChIKey   string `json:"inchikey"`
	CanoSmiles string `json:"cano_smiles"`
	SVG        string `json:"sample_svg_file"`
}

// SampleFull adds everything else at MaxLevel.
type SampleFull struct {
	SampleList
	Description string          `json:"description"`
	Location    string          `json:"location"`
	Xref        json.RawMessage `json:"xref,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Sample renders a sample for the given sample detail level.
func Sample(s record.Sample, level int) any {
	var mol record.Molecule
	if s.Molecule != nil {
		mol = *s.Molecule
	}
	brief := SampleBrief{
		ID:              s.ID,
		Type:            "sample",
		ExternalLabel:   s.ExternalLabel,
		MolecularWeight: mol.MolecularWeight,
		SumFormula:      mol.SumFormula,
		IsRestricted:    level < detail.MaxLevel,
	}
	if level < 1 {
		return brief
	}
	list := SampleList{
		SampleBrief: brief,
		Name:        s.Name,
		ShortLabel:  s.ShortLabel,
		IupacName:   mol.IupacName,
		InChIKey:    mol.InChIKey,
		CanoSmiles:  mol.CanoSmiles,
		SVG:         s.SVG,
	}
	if level < detail.MaxLevel {
		return list
	}
	return SampleFull{
		SampleList:  list,
		Description: s.Description,
		Location:    s.Location,
		Xref:        s.Xref,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ReactionBrief is visible at reaction detail level 0.
type ReactionBrief struct {
	ID         int64     `json:"id"`
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	ShortLabel string    `json:"short_label"`
	Status     string    `json:"status"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ReactionList adds the scheme at level 1.
type ReactionList struct {
	ReactionBrief
	RinchiString      string  `json:"rinchi_string"`
	SVG               string  `json:"reaction_svg_file"`
	StartingMaterials []int64 `json:"starting_materials"`
	Reactants         []int64 `json:"reactants"`
	Products          []int64 `json:"products"`
}

// Reaction renders a reaction for the given reaction detail level.
func Reaction(r record.Reaction, level int) any {
	brief := ReactionBrief{
		ID:         r.ID,
		Type:       "reaction",
		Name:       r.Name,
		ShortLabel: r.ShortLabel,
		Status:     r.Status,
		UpdatedAt:  r.UpdatedAt,
	}
	if level < 1 {
		return brief
	}
	return ReactionList{
		ReactionBrief:     brief,
		RinchiString:      r.RinchiString,
		SVG:               r.SVG,
		StartingMaterials: nonNil(r.StartingMaterials),
		Reactants:         nonNil(r.Reactants),
		Products:          nonNil(r.Products),
	}
}

// WellplateLevel0 is visible at wellplate detail level 0.
type WellplateLevel0 struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
	Size int    `json:"size"`
}

// WellplateLevel1 adds the description and the well contents.
type WellplateLevel1 struct {
	WellplateLevel0
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
	SampleIDs   []int64   `json:"sample_ids"`
}

// Wellplate renders a wellplate for the given wellplate detail level.
func Wellplate(w record.Wellplate, level int) any {
	l0 := WellplateLevel0{ID: w.ID, Type: "wellplate", Name: w.Name, Size: w.Size}
	if level < 1 {
		return l0
	}
	return WellplateLevel1{
		WellplateLevel0: l0,
		Description:     w.Description,
		UpdatedAt:       w.UpdatedAt,
		SampleIDs:       nonNil(w.SampleIDs),
	}
}

// ScreenView is the screen rendering; screens are not redacted.
type ScreenView struct {
	ID           int64     `json:"id"`
	Type         string    `json:"type"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Result       string    `json:"result"`
	Conditions   string    `json:"conditions"`
	Requirements string    `json:"requirements"`
	Collaborator string    `json:"collaborator"`
	UpdatedAt    time.Time `json:"updated_at"`
	WellplateIDs []int64   `json:"wellplate_ids"`
}

// Screen renders a screen.
func Screen(s record.Screen) any {
	return ScreenView{
		ID:           s.ID,
		Type:         "screen",
		Name:         s.Name,
		Description:  s.Description,
		Result:       s.Result,
		Conditions:   s.Conditions,
		Requirements: s.Requirements,
		Collaborator: s.Collaborator,
		UpdatedAt:    s.UpdatedAt,
		WellplateIDs: nonNil(s.WellplateIDs),
	}
}

// ElementView is the generic element rendering.
type ElementView struct {
	ID         int64           `json:"id"`
	Type       string          `json:"type"`
	KlassName  string          `json:"element_klass"`
	Name       string          `json:"name"`
	ShortLabel string          `json:"short_label"`
	Properties json.RawMessage `json:"properties,omitempty"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Element renders a generic element.
func Element(e record.Element) any {
	return ElementView{
		ID:         e.ID,
		Type:       "element",
		KlassName:  e.KlassName,
		Name:       e.Name,
		ShortLabel: e.ShortLabel,
		Properties: e.Properties,
		UpdatedAt:  e.UpdatedAt,
	}
}

// GuestMoleculeView is a published molecule for anonymous viewers.
type GuestMoleculeView struct {
	ID              int64   `json:"id"`
	IupacName       string  `json:"iupac_name"`
	SumFormula      string  `json:"sum_formular"`
	InChIKey        string  `json:"inchikey"`
	CanoSmiles      string  `json:"cano_smiles"`
	MolecularWeight float64 `json:"molecular_weight"`
	SVG             string  `json:"molecule_svg_file"`
	SampleSVG       string  `json:"sample_svg_file"`
	XvialCount      int64   `json:"xvial_count"`
	XvialCom        int64   `json:"xvial_com"`
}

// GuestMolecule renders a published molecule with its vial counts.
func GuestMolecule(m record.GuestMolecule) any {
	return GuestMoleculeView{
		ID:              m.ID,
		IupacName:       m.IupacName,
		SumFormula:      m.SumFormula,
		InChIKey:        m.InChIKey,
		CanoSmiles:      m.CanoSmiles,
		MolecularWeight: m.MolecularWeight,
		SVG:             m.SVG,
		SampleSVG:       m.SampleSVG,
		XvialCount:      m.XvialCount,
		XvialCom:        m.XvialCom,
	}
}

// GuestReactionView is a published reaction for anonymous viewers.
type GuestReactionView struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	ShortLabel   string    `json:"short_label"`
	RinchiString string    `json:"rinchi_string"`
	SVG          string    `json:"reaction_svg_file"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GuestReaction renders a published reaction.
func GuestReaction(r record.Reaction) any {
	return GuestReactionView{
		ID:           r.ID,
		Name:         r.Name,
		ShortLabel:   r.ShortLabel,
		RinchiString: r.RinchiString,
		SVG:          r.SVG,
		UpdatedAt:    r.UpdatedAt,
	}
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
