package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrichmentKeys(t *testing.T) {
	assert.Len(t, EnrichmentKeys(KindCompany), 9)
	assert.Len(t, EnrichmentKeys(KindDeal), 10)
	assert.Nil(t, EnrichmentKeys(KindTrial))
	assert.Nil(t, EnrichmentKeys(KindAward))
	assert.Nil(t, EnrichmentKeys(KindAsset))
}

func TestNewDegradedEnrichment_Company(t *testing.T) {
	rec := &Company{Name: "Acme Biotech", Text: "Acme Biotech develops an oncology antibody"}
	enriched := NewDegradedEnrichment(rec)

	require.Len(t, enriched.Fields, len(CompanyEnrichmentKeys))
	require.NotNil(t, enriched.Fields["Company"])
	assert.Equal(t, "Acme Biotech", *enriched.Fields["Company"])

	for _, key := range CompanyEnrichmentKeys {
		if key == "Company" {
			continue
		}
		assert.Nil(t, enriched.Fields[key], "expected %q to be null", key)
	}
}

func TestNewDegradedEnrichment_Deal(t *testing.T) {
	rec := &Deal{Acquirer: "BigPharma", Acquired: "Acme", Text: "Acme acquired by BigPharma"}
	enriched := NewDegradedEnrichment(rec)

	require.Len(t, enriched.Fields, len(DealEnrichmentKeys))
	require.NotNil(t, enriched.Fields["Acquirer"])
	require.NotNil(t, enriched.Fields["Target Company"])
	assert.Equal(t, "BigPharma", *enriched.Fields["Acquirer"])
	assert.Equal(t, "Acme", *enriched.Fields["Target Company"])
	assert.Nil(t, enriched.Fields["Deal Value"])
}

func TestIDFromContent_Deterministic(t *testing.T) {
	a := IDFromContent("Acme Biotech develops an oncology antibody")
	b := IDFromContent("Acme Biotech develops an oncology antibody")
	c := IDFromContent("Phase II oncology trial")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
