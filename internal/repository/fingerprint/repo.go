package fingerprint

import (
	"context"

	"gorm.io/gorm"

	"github.com/kailas-cloud/chemsearch/internal/db"
	"github.com/kailas-cloud/chemsearch/internal/db/postgres"
	fp "github.com/kailas-cloud/chemsearch/internal/domain/search/fingerprint"
)

// store is the consumer interface for fingerprint candidates (ISP).
type store interface {
	Conn(ctx context.Context) *gorm.DB
}

// Repo reads stored sample fingerprints.
type Repo struct {
	store store
}

// New creates a fingerprint repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// candidateDTO holds the sixteen fingerprint words as stored (signed bigint).
type candidateDTO struct {
	SampleID                                     int64
	Fp0, Fp1, Fp2, Fp3, Fp4, Fp5, Fp6, Fp7       int64
	Fp8, Fp9, Fp10, Fp11, Fp12, Fp13, Fp14, Fp15 int64
}

func (d candidateDTO) toCandidate() fp.Candidate {
	words := [fp.Words]int64{
		d.Fp0, d.Fp1, d.Fp2, d.Fp3, d.Fp4, d.Fp5, d.Fp6, d.Fp7,
		d.Fp8, d.Fp9, d.Fp10, d.Fp11, d.Fp12, d.Fp13, d.Fp14, d.Fp15,
	}
	c := fp.Candidate{SampleID: d.SampleID}
	for i, w := range words {
		c.Fingerprint[i] = uint64(w)
	}
	return c
}

// Candidates returns the fingerprints of the collection's samples whose set bit count
// lies in [lo, hi], by ascending sample id.
func (r *Repo) Candidates(ctx context.Context, collectionID int64, lo, hi int) ([]fp.Candidate, error) {
	var dtos []candidateDTO
	if err := candidatesQuery(r.store.Conn(ctx), collectionID, lo, hi).Find(&dtos).Error; err != nil {
		return nil, postgres.Translate(db.OpSelect, err)
	}
	out := make([]fp.Candidate, len(dtos))
	for i, d := range dtos {
		out[i] = d.toCandidate()
	}
	return out, nil
}

func candidatesQuery(tx *gorm.DB, collectionID int64, lo, hi int) *gorm.DB {
	return tx.Table("samples").
		Select("samples.id AS sample_id, " +
			"fingerprints.fp0, fingerprints.fp1, fingerprints.fp2, fingerprints.fp3, " +
			"fingerprints.fp4, fingerprints.fp5, fingerprints.fp6, fingerprints.fp7, " +
			"fingerprints.fp8, fingerprints.fp9, fingerprints.fp10, fingerprints.fp11, " +
			"fingerprints.fp12, fingerprints.fp13, fingerprints.fp14, fingerprints.fp15").
		Joins("INNER JOIN collections_samples ON collections_samples.sample_id = samples.id").
		Joins("INNER JOIN fingerprints ON fingerprints.id = samples.fingerprint_id").
		Where("collections_samples.collection_id = ?", collectionID).
		Where("collections_samples.deleted_at IS NULL AND samples.deleted_at IS NULL").
		Where("fingerprints.deleted_at IS NULL").
		Where("fingerprints.num_set_bits BETWEEN ? AND ?", lo, hi).
		Order("samples.id")
}
