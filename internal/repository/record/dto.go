package record

import (
	"database/sql"
	"encoding/json"
	"time"

	domrec "github.com/kailas-cloud/chemsearch/internal/domain/record"
)

type sampleDTO struct {
	ID            int64
	Name          sql.NullString
	ShortLabel    sql.NullString
	ExternalLabel sql.NullString
	Description   sql.NullString
	Location      sql.NullString
	Xref          []byte
	SampleSVGFile sql.NullString
	CreatedAt     time.Time
	UpdatedAt     time.Time

	MoleculeID      sql.NullInt64
	IupacName       sql.NullString
	SumFormular     sql.NullString
	InChIString     sql.NullString `gorm:"column:inchistring"`
	InChIKey        sql.NullString `gorm:"column:inchikey"`
	CanoSmiles      sql.NullString
	MolecularWeight sql.NullFloat64
	MoleculeSVGFile sql.NullString
}

func (d sampleDTO) toRecord() domrec.Sample {
	s := domrec.Sample{
		ID:            d.ID,
		Name:          d.Name.String,
		ShortLabel:    d.ShortLabel.String,
		ExternalLabel: d.ExternalLabel.String,
		Description:   d.Description.String,
		Location:      d.Location.String,
		SVG:           d.SampleSVGFile.String,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if len(d.Xref) > 0 && json.Valid(d.Xref) {
		s.Xref = json.RawMessage(d.Xref)
	}
	if d.MoleculeID.Valid {
		s.Molecule = &domrec.Molecule{
			ID:              d.MoleculeID.Int64,
			IupacName:       d.IupacName.String,
			SumFormula:      d.SumFormular.String,
			InChIString:     d.InChIString.String,
			InChIKey:        d.InChIKey.String,
			CanoSmiles:      d.CanoSmiles.String,
			MolecularWeight: d.MolecularWeight.Float64,
			SVG:             d.MoleculeSVGFile.String,
		}
	}
	return s
}

type reactionDTO struct {
	ID              int64
	Name            sql.NullString
	ShortLabel      sql.NullString
	Status          sql.NullString
	RinchiString    sql.NullString
	ReactionSVGFile sql.NullString
	UpdatedAt       time.Time
}

type reactionSampleDTO struct {
	ReactionID int64
	SampleID   int64
	Type       string
}

type wellplateDTO struct {
	ID          int64
	Name        sql.NullString
	Size        sql.NullInt64
	Description sql.NullString
	UpdatedAt   time.Time
}

type wellDTO struct {
	WellplateID int64
	SampleID    int64
}

type screenDTO struct {
	ID           int64
	Name         sql.NullString
	Description  sql.NullString
	Result       sql.NullString
	Conditions   sql.NullString
	Requirements sql.NullString
	Collaborator sql.NullString
	UpdatedAt    time.Time
}

type screenWellplateDTO struct {
	ScreenID    int64
	WellplateID int64
}

type elementDTO struct {
	ID             int64
	ElementKlassID int64
	KlassName      sql.NullString
	Name           sql.NullString
	ShortLabel     sql.NullString
	Properties     []byte
	UpdatedAt      time.Time
}

type guestMoleculeDTO struct {
	ID              int64
	IupacName       sql.NullString
	SumFormular     sql.NullString
	InChIString     sql.NullString `gorm:"column:inchistring"`
	InChIKey        sql.NullString `gorm:"column:inchikey"`
	CanoSmiles      sql.NullString
	MolecularWeight sql.NullFloat64
	MoleculeSVGFile sql.NullString
	SampleSVGFile   sql.NullString
	XvialCount      int64
}

func (d guestMoleculeDTO) toRecord() domrec.GuestMolecule {
	return domrec.GuestMolecule{
		Molecule: domrec.Molecule{
			ID:              d.ID,
			IupacName:       d.IupacName.String,
			SumFormula:      d.SumFormular.String,
			InChIString:     d.InChIString.String,
			InChIKey:        d.InChIKey.String,
			CanoSmiles:      d.CanoSmiles.String,
			MolecularWeight: d.MolecularWeight.Float64,
			SVG:             d.MoleculeSVGFile.String,
		},
		SampleSVG:  d.SampleSVGFile.String,
		XvialCount: d.XvialCount,
	}
}
