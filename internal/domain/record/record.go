// Package record holds the read models fetched for serialization.
package record

import (
	"encoding/json"
	"time"

	"github.com/kailas-cloud/chemsearch/internal/domain/detail"
)

// Molecule is a chemical compound shared by samples.
type Molecule struct {
	ID              int64
	IupacName       string
	SumFormula      string
	InChIString     string
	InChIKey        string
	CanoSmiles      string
	MolecularWeight float64
	SVG             string
}

// Sample is a physical sample of a molecule.
type Sample struct {
	ID            int64
	Name          string
	ShortLabel    string
	ExternalLabel string
	Description   string
	Location      string
	Xref          json.RawMessage
	SVG           string
	Molecule      *Molecule
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Reaction lists its samples by role.
type Reaction struct {
	ID                int64
	Name              string
	ShortLabel        string
	Status            string
	RinchiString      string
	SVG               string
	UpdatedAt         time.Time
	StartingMaterials []int64
	Reactants         []int64
	Products          []int64
}

// Wellplate holds samples in wells.
type Wellplate struct {
	ID          int64
	Name        string
	Size        int
	Description string
	UpdatedAt   time.Time
	SampleIDs   []int64
}

// Screen groups wellplates.
type Screen struct {
	ID           int64
	Name         string
	Description  string
	Result       string
	Conditions   string
	Requirements string
	Collaborator string
	UpdatedAt    time.Time
	WellplateIDs []int64
}

// Element is a generic element of a user defined klass.
type Element struct {
	ID         int64
	KlassID    int64
	KlassName  string
	Name       string
	ShortLabel string
	Properties json.RawMessage
	UpdatedAt  time.Time
}

// ElementKlass is an active generic element klass.
type ElementKlass struct {
	ID    int64
	Name  string
	Label string
}

// Publication is a repository publication of a sample, reaction or derived record.
type Publication struct {
	ID          int64
	ElementType string
	ElementID   int64
	ParentID    *int64
}

// GuestMolecule is a published molecule with its vial counts.
type GuestMolecule struct {
	Molecule
	SampleSVG  string
	XvialCount int64
	// XvialCom is the compound registry count, or one of the Xvial sentinels.
	XvialCom int64
}

// Compound registry count sentinels.
const (
	XvialNotConfigured int64 = -1
	XvialNotAuthorized int64 = -2
)

// Collection is the viewer's handle on a collection.
type Collection struct {
	ID     int64
	UserID int64
	// SharedByID is set on rows that represent a share to UserID.
	SharedByID int64
	IsShared   bool
	Levels     detail.Levels
}

// SyncShare is a sync collection membership of a user.
type SyncShare struct {
	ID           int64
	CollectionID int64
	UserID       int64
	Levels       detail.Levels
}
