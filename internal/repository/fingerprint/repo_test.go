package fingerprint

import (
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/kailas-cloud/chemsearch/internal/db/postgres"
)

func TestCandidatesQuery(t *testing.T) {
	g, err := postgres.OpenDryRun()
	if err != nil {
		t.Fatal(err)
	}
	sql := g.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var dtos []candidateDTO
		return candidatesQuery(tx, 42, 10, 30).Find(&dtos)
	})
	for _, want := range []string{
		"collections_samples.collection_id = 42",
		"fingerprints.num_set_bits BETWEEN 10 AND 30",
		"fingerprints.fp15",
		"ORDER BY samples.id",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("sql missing %q:\n%s", want, sql)
		}
	}
}

func TestToCandidate_SignedWords(t *testing.T) {
	c := candidateDTO{SampleID: 3, Fp0: -1, Fp15: 5}.toCandidate()
	if c.SampleID != 3 {
		t.Errorf("SampleID = %d", c.SampleID)
	}
	if c.Fingerprint[0] != ^uint64(0) || c.Fingerprint[15] != 5 {
		t.Errorf("fingerprint = %v", c.Fingerprint)
	}
	if c.Fingerprint.Bits() != 66 {
		t.Errorf("Bits() = %d, want 66", c.Fingerprint.Bits())
	}
}
