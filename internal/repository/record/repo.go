package record

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/kailas-cloud/chemsearch/internal/db"
	"github.com/kailas-cloud/chemsearch/internal/db/postgres"
	domrec "github.com/kailas-cloud/chemsearch/internal/domain/record"
)

// store is the consumer interface for record loading (ISP).
type store interface {
	Conn(ctx context.Context) *gorm.DB
}

// Sample roles of reactions_samples rows.
const (
	roleStartingMaterial = "ReactionsStartingMaterialSample"
	roleReactant         = "ReactionsReactantSample"
	roleProduct          = "ReactionsProductSample"
)

// Repo loads full records for one page of ids.
type Repo struct {
	store store
}

// New creates a record repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Samples loads samples with their molecule, in the order of ids. Missing ids are skipped.
func (r *Repo) Samples(ctx context.Context, ids []int64) ([]domrec.Sample, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var dtos []sampleDTO
	if err := samplesQuery(r.store.Conn(ctx), ids).Find(&dtos).Error; err != nil {
		return nil, postgres.Translate(db.OpSelect, err)
	}
	out := make([]domrec.Sample, len(dtos))
	for i, d := range dtos {
		out[i] = d.toRecord()
	}
	return reorder(ids, out, func(s domrec.Sample) int64 { return s.ID }), nil
}

func samplesQuery(tx *gorm.DB, ids []int64) *gorm.DB {
	return tx.Table("samples").
		Select("samples.id, samples.name, samples.short_label, samples.external_label, " +
			"samples.description, samples.location, samples.xref, samples.sample_svg_file, " +
			"samples.created_at, samples.updated_at, molecules.id AS molecule_id, " +
			"molecules.iupac_name, molecules.sum_formular, molecules.inchistring, " +
			"molecules.inchikey, molecules.cano_smiles, molecules.molecular_weight, " +
			"molecules.molecule_svg_file").
		Joins("LEFT JOIN molecules ON molecules.id = samples.molecule_id").
		Where("samples.id IN ?", ids)
}

// Reactions loads reactions with their sample ids by role, in the order of ids.
func (r *Repo) Reactions(ctx context.Context, ids []int64) ([]domrec.Reaction, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	conn := r.store.Conn(ctx)
	var dtos []reactionDTO
	err := conn.Table("reactions").
		Select("id, name, short_label, status, rinchi_string, reaction_svg_file, updated_at").
		Where("id IN ?", ids).
		Find(&dtos).Error
	if err != nil {
		return nil, postgres.Translate(db.OpSelect, err)
	}

	var links []reactionSampleDTO
	err = conn.Table("reactions_samples").
		Select("reaction_id, sample_id, type").
		Where("reaction_id IN ? AND deleted_at IS NULL", ids).
		Order("position, id").
		Find(&links).Error
	if err != nil {
		return nil, postgres.Translate(db.OpSelect, err)
	}

	byID := make(map[int64]*domrec.Reaction, len(dtos))
	out := make([]domrec.Reaction, len(dtos))
	for i, d := range dtos {
		out[i] = domrec.Reaction{
			ID:           d.ID,
			Name:         d.Name.String,
			ShortLabel:   d.ShortLabel.String,
			Status:       d.Status.String,
			RinchiString: d.RinchiString.String,
			SVG:          d.ReactionSVGFile.String,
			UpdatedAt:    d.UpdatedAt,
		}
		byID[d.ID] = &out[i]
	}
	for _, l := range links {
		rx, ok := byID[l.ReactionID]
		if !ok {
			continue
		}
		switch l.Type {
		case roleStartingMaterial:
			rx.StartingMaterials = append(rx.StartingMaterials, l.SampleID)
		case roleReactant:
			rx.Reactants = append(rx.Reactants, l.SampleID)
		case roleProduct:
			rx.Products = append(rx.Products, l.SampleID)
		}
	}
	return reorder(ids, out, func(r domrec.Reaction) int64 { return r.ID }), nil
}

// Wellplates loads wellplates with the samples in their wells, in the order of ids.
func (r *Repo) Wellplates(ctx context.Context, ids []int64) ([]domrec.Wellplate, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	conn := r.store.Conn(ctx)
	var dtos []wellplateDTO
	err := conn.Table("wellplates").
		Select("id, name, size, description, updated_at").
		Where("id IN ?", ids).
		Find(&dtos).Error
	if err != nil {
		return nil, postgres.Translate(db.OpSelect, err)
	}

	var wells []wellDTO
	err = conn.Table("wells").
		Select("wellplate_id, sample_id").
		Where("wellplate_id IN ? AND sample_id IS NOT NULL AND deleted_at IS NULL", ids).
		Order("position_y, position_x").
		Find(&wells).Error
	if err != nil {
		return nil, postgres.Translate(db.OpSelect, err)
	}
	samples := make(map[int64][]int64)
	for _, w := range wells {
		samples[w.WellplateID] = append(samples[w.WellplateID], w.SampleID)
	}

	out := make([]domrec.Wellplate, len(dtos))
	for i, d := range dtos {
		out[i] = domrec.Wellplate{
			ID:          d.ID,
			Name:        d.Name.String,
			Size:        int(d.Size.Int64),
			Description: d.Description.String,
			UpdatedAt:   d.UpdatedAt,
			SampleIDs:   samples[d.ID],
		}
	}
	return reorder(ids, out, func(w domrec.Wellplate) int64 { return w.ID }), nil
}

// Screens loads screens with their wellplate ids, in the order of ids.
func (r *Repo) Screens(ctx context.Context, ids []int64) ([]domrec.Screen, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	conn := r.store.Conn(ctx)
	var dtos []screenDTO
	err := conn.Table("screens").
		Select("id, name, description, result, conditions, requirements, collaborator, updated_at").
		Where("id IN ?", ids).
		Find(&dtos).Error
	if err != nil {
		return nil, postgres.Translate(db.OpSelect, err)
	}

	var links []screenWellplateDTO
	err = conn.Table("screens_wellplates").
		Select("screen_id, wellplate_id").
		Where("screen_id IN ? AND deleted_at IS NULL", ids).
		Order("id").
		Find(&links).Error
	if err != nil {
		return nil, postgres.Translate(db.OpSelect, err)
	}
	plates := make(map[int64][]int64)
	for _, l := range links {
		plates[l.ScreenID] = append(plates[l.ScreenID], l.WellplateID)
	}

	out := make([]domrec.Screen, len(dtos))
	for i, d := range dtos {
		out[i] = domrec.Screen{
			ID:           d.ID,
			Name:         d.Name.String,
			Description:  d.Description.String,
			Result:       d.Result.String,
			Conditions:   d.Conditions.String,
			Requirements: d.Requirements.String,
			Collaborator: d.Collaborator.String,
			UpdatedAt:    d.UpdatedAt,
			WellplateIDs: plates[d.ID],
		}
	}
	return reorder(ids, out, func(s domrec.Screen) int64 { return s.ID }), nil
}

// Elements loads generic elements with their klass name, in the order of ids.
func (r *Repo) Elements(ctx context.Context, ids []int64) ([]domrec.Element, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var dtos []elementDTO
	err := r.store.Conn(ctx).Table("elements").
		Select("elements.id, elements.element_klass_id, element_klasses.name AS klass_name, " +
			"elements.name, elements.short_label, elements.properties, elements.updated_at").
		Joins("LEFT JOIN element_klasses ON element_klasses.id = elements.element_klass_id").
		Where("elements.id IN ?", ids).
		Find(&dtos).Error
	if err != nil {
		return nil, postgres.Translate(db.OpSelect, err)
	}
	out := make([]domrec.Element, len(dtos))
	for i, d := range dtos {
		e := domrec.Element{
			ID:         d.ID,
			KlassID:    d.ElementKlassID,
			KlassName:  d.KlassName.String,
			Name:       d.Name.String,
			ShortLabel: d.ShortLabel.String,
			UpdatedAt:  d.UpdatedAt,
		}
		if len(d.Properties) > 0 && json.Valid(d.Properties) {
			e.Properties = json.RawMessage(d.Properties)
		}
		out[i] = e
	}
	return reorder(ids, out, func(e domrec.Element) int64 { return e.ID }), nil
}

// MoleculeIDs returns the distinct molecules of samples, ascending.
func (r *Repo) MoleculeIDs(ctx context.Context, sampleIDs []int64) ([]int64, error) {
	if len(sampleIDs) == 0 {
		return nil, nil
	}
	var ids []int64
	err := r.store.Conn(ctx).Table("samples").
		Distinct("molecule_id").
		Where("id IN ? AND molecule_id IS NOT NULL", sampleIDs).
		Order("molecule_id").
		Pluck("molecule_id", &ids).Error
	if err != nil {
		return nil, postgres.Translate(db.OpSelect, err)
	}
	return ids, nil
}

// GuestMolecules loads published molecules with the number of tagged vials among the
// published samples, in the order of moleculeIDs.
func (r *Repo) GuestMolecules(ctx context.Context, sampleIDs, moleculeIDs []int64) ([]domrec.GuestMolecule, error) {
	if len(sampleIDs) == 0 || len(moleculeIDs) == 0 {
		return nil, nil
	}
	var dtos []guestMoleculeDTO
	if err := guestMoleculesQuery(r.store.Conn(ctx), sampleIDs, moleculeIDs).Find(&dtos).Error; err != nil {
		return nil, postgres.Translate(db.OpSelect, err)
	}
	out := make([]domrec.GuestMolecule, len(dtos))
	for i, d := range dtos {
		out[i] = d.toRecord()
	}
	return reorder(moleculeIDs, out, func(m domrec.GuestMolecule) int64 { return m.ID }), nil
}

const xvialCounts = `LEFT JOIN (
	SELECT s.molecule_id, COUNT(e.id) AS xvial_count FROM samples s
	INNER JOIN publications p ON p.element_type = 'Sample' AND p.element_id = s.id AND p.deleted_at IS NULL
	LEFT OUTER JOIN element_tags e ON e.taggable_id = s.id
		AND e.taggable_data -> 'xvial' IS NOT NULL AND e.taggable_data -> 'xvial' ->> 'num' != ''
	GROUP BY s.molecule_id
) c ON c.molecule_id = molecules.id`

func guestMoleculesQuery(tx *gorm.DB, sampleIDs, moleculeIDs []int64) *gorm.DB {
	return tx.Table("molecules").
		Select("molecules.id, molecules.iupac_name, molecules.sum_formular, molecules.inchistring, " +
			"molecules.inchikey, molecules.cano_smiles, molecules.molecular_weight, " +
			"molecules.molecule_svg_file, MAX(samples.sample_svg_file) AS sample_svg_file, " +
			"COALESCE(MAX(c.xvial_count), 0) AS xvial_count").
		Joins("INNER JOIN samples ON samples.molecule_id = molecules.id").
		Joins(xvialCounts).
		Where("samples.id IN ? AND molecules.id IN ?", sampleIDs, moleculeIDs).
		Group("molecules.id")
}

// reorder returns items in the order of ids, dropping ids without an item.
func reorder[T any](ids []int64, items []T, id func(T) int64) []T {
	byID := make(map[int64]T, len(items))
	for _, it := range items {
		byID[id(it)] = it
	}
	out := make([]T, 0, len(items))
	for _, want := range ids {
		if it, ok := byID[want]; ok {
			out = append(out, it)
		}
	}
	return out
}
