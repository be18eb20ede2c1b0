package report

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/poiesic/bioscout/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func strptr(s string) *string { return &s }

func enrichedCompany(name, asset string) *core.EnrichedRecord {
	fields := map[string]*string{
		"Company": strptr(name),
		"Asset":   strptr(asset),
	}
	return &core.EnrichedRecord{
		Record: &core.Company{Name: name, Text: name + " text"},
		Fields: fields,
	}
}

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestBuildWorkbook_CompanySheet(t *testing.T) {
	enriched := map[core.Kind][]*core.EnrichedRecord{
		core.KindCompany: {
			enrichedCompany("Acme Biotech", "ACM-101"),
			enrichedCompany("Beta Therapeutics", "BT-7"),
		},
	}

	data, err := BuildWorkbook([]core.Kind{core.KindCompany}, enriched)
	require.NoError(t, err)

	f := openWorkbook(t, data)
	assert.Equal(t, []string{"Companies"}, f.GetSheetList())

	rows, err := f.GetRows("Companies")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, core.CompanyEnrichmentKeys, rows[0][:len(core.CompanyEnrichmentKeys)])
	assert.Equal(t, "Acme Biotech", rows[1][0])
	assert.Equal(t, "ACM-101", rows[1][1])
	assert.Equal(t, "Beta Therapeutics", rows[2][0])
}

func TestBuildWorkbook_NilFieldsLeaveCellsEmpty(t *testing.T) {
	degraded := core.NewDegradedEnrichment(&core.Company{Name: "Acme Biotech", Text: "t"})
	enriched := map[core.Kind][]*core.EnrichedRecord{
		core.KindCompany: {degraded},
	}

	data, err := BuildWorkbook([]core.Kind{core.KindCompany}, enriched)
	require.NoError(t, err)

	f := openWorkbook(t, data)
	rows, err := f.GetRows("Companies")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Acme Biotech", rows[1][0])
	// Everything past the identifying column is blank.
	for _, cell := range rows[1][1:] {
		assert.Empty(t, cell)
	}
}

func TestBuildWorkbook_CanonicalSheetOrder(t *testing.T) {
	enriched := map[core.Kind][]*core.EnrichedRecord{}

	// Request order is scrambled; sheet order is canonical.
	data, err := BuildWorkbook([]core.Kind{core.KindTrial, core.KindCompany, core.KindDeal}, enriched)
	require.NoError(t, err)

	f := openWorkbook(t, data)
	assert.Equal(t, []string{"Companies", "Deals", "Trials"}, f.GetSheetList())
}

func TestBuildWorkbook_EmptyKindGetsSheet(t *testing.T) {
	enriched := map[core.Kind][]*core.EnrichedRecord{
		core.KindCompany: {enrichedCompany("Acme", "A-1")},
	}

	data, err := BuildWorkbook([]core.Kind{core.KindCompany, core.KindAsset}, enriched)
	require.NoError(t, err)

	f := openWorkbook(t, data)
	assert.Equal(t, []string{"Companies", "Assets"}, f.GetSheetList())
}

func TestBuildWorkbook_PassThroughColumns(t *testing.T) {
	trial := &core.Trial{
		Text:   "Phase II oncology trial",
		Fields: map[string]string{"phase": "II", "sponsor": "Acme"},
	}
	enriched := map[core.Kind][]*core.EnrichedRecord{
		core.KindTrial: {{
			Record: trial,
			Fields: map[string]*string{"phase": strptr("II"), "sponsor": strptr("Acme")},
		}},
	}

	data, err := BuildWorkbook([]core.Kind{core.KindTrial}, enriched)
	require.NoError(t, err)

	f := openWorkbook(t, data)
	rows, err := f.GetRows("Trials")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"phase", "sponsor"}, rows[0])
	assert.Equal(t, []string{"II", "Acme"}, rows[1])
}

func TestBuildWorkbook_NoKinds(t *testing.T) {
	_, err := BuildWorkbook(nil, nil)
	assert.ErrorIs(t, err, ErrNoKinds)
}

func TestSheetLabel(t *testing.T) {
	assert.Equal(t, "Companies", SheetLabel(core.KindCompany))
	assert.Equal(t, "Assets", SheetLabel(core.KindAsset))
	assert.LessOrEqual(t, len(SheetLabel(core.KindDeal)), 31)
}

func TestFilename(t *testing.T) {
	t.Run("sanitizes query", func(t *testing.T) {
		got := Filename("Oncology M&A deals, 2025!", "job-42")
		assert.Equal(t, "oncology_m_a_deals_2025_job-42.xlsx", got)
	})

	t.Run("caps long queries", func(t *testing.T) {
		long := "a very long natural language research query about gene therapy platforms in rare disease"
		got := Filename(long, "job-42")
		assert.LessOrEqual(t, len(got), 40+len("_job-42.xlsx")+1)
	})

	t.Run("empty query falls back", func(t *testing.T) {
		assert.Equal(t, "results_job-42.xlsx", Filename("", "job-42"))
	})

	t.Run("non-ascii digits collapse to underscores", func(t *testing.T) {
		// Arabic-Indic digits satisfy unicode.IsDigit but must not reach
		// the slug; only ASCII alphanumerics survive.
		got := Filename("trials ١٢٣ phase 2", "job-42")
		assert.Equal(t, "trials_phase_2_job-42.xlsx", got)
	})

	t.Run("multibyte query stays valid utf-8 at the cap", func(t *testing.T) {
		long := strings.Repeat("研究", 40) + " oncology"
		got := Filename(long, "job-42")
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, "oncology_job-42.xlsx", got)
	})
}

func TestKey(t *testing.T) {
	got := Key("oncology deals", "job-42")
	assert.Equal(t, "results/oncology_deals_job-42.xlsx", got)
}
