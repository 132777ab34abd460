package e91

import (
	"fmt"
	"io"
	"text/template"

	"github.com/entanglab/e91/e91/bitseq"
)

// A Summary bundles every statistic derived from one run log.
type Summary struct {
	Log        RunLog
	Partitions *Partitions
	CHSH       CHSHResult
	AliceKey   bitseq.Dense
	BobKey     bitseq.Dense
	Estimate   Estimate
	Secure     bool
}

// Analyze derives the full statistical summary of a run log: the partition
// index, the CHSH statistic, the sifted keys, and the error estimate. The
// log may be shorter than requested (a truncated run); all statistics are
// well defined on any length, including zero.
func (p *Protocol) Analyze(log RunLog) Summary {
	parts := log.Partitions()
	alice, bob := p.Sift(parts)
	// Sift guarantees equal lengths, so the estimate cannot fail here.
	est, _ := EstimateQBER(alice, bob)
	return Summary{
		Log:        log,
		Partitions: parts,
		CHSH:       p.CHSH(parts),
		AliceKey:   alice,
		BobKey:     bob,
		Estimate:   est,
		Secure:     p.Secure(est),
	}
}

// A LabelCount pairs a display label with a sample count.
type LabelCount struct {
	Label string
	Count int
}

// A MatrixRow is one Alice basis row of the basis-pair count matrix.
type MatrixRow struct {
	Label string
	Cells []LabelCount
}

// A CHSHRow is one basis pair of the CHSH quadruple with its diagnostics.
type CHSHRow struct {
	Label string
	Count int
	E     float64
}

// A Report is the human-readable rendering of a Summary.
type Report struct {
	TotalPairs int
	AliceUsage []LabelCount
	BobUsage   []LabelCount
	Matrix     []MatrixRow

	KeyCounts []LabelCount
	KeyTotal  int

	CHSHRows       []CHSHRow
	CHSHTotal      int
	S              float64
	ClassicalBound float64
	QuantumBound   float64
	Violated       bool

	KeyLength    int
	PreviewBits  int
	AlicePreview string
	BobPreview   string

	HasKey     bool
	QBER       float64
	Mismatches int
	Secure     bool
}

// NewReport prepares a renderable report from a run summary. previewBits
// bounds how many leading key bits are shown per party.
func NewReport(p *Protocol, sum Summary, previewBits int) *Report {
	params := p.params
	r := &Report{
		TotalPairs:     sum.Partitions.Total(),
		S:              sum.CHSH.S,
		ClassicalBound: ClassicalBound,
		QuantumBound:   QuantumBound,
		Violated:       sum.CHSH.Violated(),
		KeyLength:      sum.AliceKey.Size(),
		PreviewBits:    previewBits,
		AlicePreview:   sum.AliceKey.Prefix(previewBits).String(),
		BobPreview:     sum.BobKey.Prefix(previewBits).String(),
		HasKey:         sum.Estimate.Compared > 0,
		QBER:           sum.Estimate.QBER,
		Mismatches:     sum.Estimate.Mismatches,
		Secure:         sum.Secure,
	}

	aliceUsage := make([]int, len(params.AliceAngles))
	bobUsage := make([]int, len(params.BobAngles))
	for _, rec := range sum.Log {
		aliceUsage[rec.AliceBasis]++
		bobUsage[rec.BobBasis]++
	}
	for i, label := range params.AliceLabels {
		r.AliceUsage = append(r.AliceUsage, LabelCount{Label: label, Count: aliceUsage[i]})
	}
	for j, label := range params.BobLabels {
		r.BobUsage = append(r.BobUsage, LabelCount{Label: label, Count: bobUsage[j]})
	}

	for i, aLabel := range params.AliceLabels {
		row := MatrixRow{Label: aLabel}
		for j, bLabel := range params.BobLabels {
			row.Cells = append(row.Cells, LabelCount{
				Label: bLabel,
				Count: sum.Partitions.Count(BasisPair{Alice: i, Bob: j}),
			})
		}
		r.Matrix = append(r.Matrix, row)
	}

	for _, bp := range params.KeyPairs {
		n := sum.Partitions.Count(bp)
		r.KeyCounts = append(r.KeyCounts, LabelCount{Label: pairLabel(params, bp), Count: n})
		r.KeyTotal += n
	}

	for i, bp := range sum.CHSH.Pairs {
		r.CHSHRows = append(r.CHSHRows, CHSHRow{
			Label: pairLabel(params, bp),
			Count: sum.CHSH.Counts[i],
			E:     sum.CHSH.Correlations[i],
		})
		r.CHSHTotal += sum.CHSH.Counts[i]
	}
	return r
}

func pairLabel(params Params, bp BasisPair) string {
	return fmt.Sprintf("(%s,%s)", params.AliceLabels[bp.Alice], params.BobLabels[bp.Bob])
}

const reportText = `========== E91 protocol ==========
Total entangled pairs: {{.TotalPairs}}

Basis usage counts:
Alice:
{{range .AliceUsage}}  {{.Label}}: {{.Count}}
{{end}}Bob:
{{range .BobUsage}}  {{.Label}}: {{.Count}}
{{end}}
Full basis-pair count matrix:
{{range .Matrix}}  {{.Label}}:{{range .Cells}} {{.Label}}={{printf "%3d" .Count}}  {{end}}
{{end}}
Key-generation base counts:
{{range .KeyCounts}}  {{.Label}}: {{.Count}}
{{end}}  Total key samples: {{.KeyTotal}}

CHSH test base counts:
{{range .CHSHRows}}  {{.Label}}: {{.Count}}
{{end}}  Total CHSH samples: {{.CHSHTotal}}

CHSH correlations:
{{range .CHSHRows}}  E{{.Label}} = {{printf "%+.3f" .E}}
{{end}}
  CHSH S = {{printf "%.3f" .S}}   (classical <= {{printf "%.3f" .ClassicalBound}}, quantum <= {{printf "%.3f" .QuantumBound}})
  {{if .Violated}}CHSH inequality violated: entanglement confirmed{{else}}CHSH inequality not violated: no entanglement signature{{end}}

Sifted key:
  Length: {{.KeyLength}}
  Alice key (first {{.PreviewBits}}): {{.AlicePreview}}
  Bob key   (first {{.PreviewBits}}): {{.BobPreview}}

{{if .HasKey}}QBER: {{printf "%.1f" (percent .QBER)}}% ({{.Mismatches}} of {{.KeyLength}} bits differ)
  {{if .Secure}}secure channel accepted{{else}}reject: possible eavesdropping{{end}}
{{else}}QBER: undefined (no key-generation samples in this run)
{{end}}`

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"percent": func(x float64) float64 { return 100 * x },
}).Parse(reportText))

// Render writes the textual protocol report to w.
func (r *Report) Render(w io.Writer) error {
	return reportTmpl.Execute(w, r)
}
