package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/signintech/gopdf"
	"github.com/sirupsen/logrus"

	"arogyamitra/internal/diagnosis"
)

const fontName = "DejaVu"

// Common DejaVuSans locations across Alpine, Fedora and Debian images.
var defaultFontPaths = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

type rgb struct{ r, g, b uint8 }

var (
	colorPrimary   = rgb{27, 79, 114}
	colorAccent    = rgb{46, 134, 193}
	colorSuccess   = rgb{30, 132, 73}
	colorWarning   = rgb{183, 149, 11}
	colorDanger    = rgb{146, 43, 33}
	colorLightBlue = rgb{235, 245, 251}
	colorLightGray = rgb{242, 243, 244}
	colorSubtitle  = rgb{214, 234, 248}
	colorBody      = rgb{44, 62, 80}
	colorMuted     = rgb{127, 140, 141}
	colorWhite     = rgb{255, 255, 255}
	colorGridLine  = rgb{174, 214, 241}
	colorRowHigh   = rgb{253, 237, 236}
	colorRowMod    = rgb{254, 249, 231}
	colorRowLow    = rgb{234, 250, 241}
	colorDiscText  = rgb{125, 102, 8}
	colorDiscEdge  = rgb{240, 178, 122}
)

const (
	pageWidth    = 595.28 // A4 in points
	pageHeight   = 841.89
	marginX      = 40.0
	marginTop    = 40.0
	marginBottom = 50.0
	contentWidth = pageWidth - 2*marginX
)

func bandColor(b Band) rgb {
	switch b {
	case BandHigh:
		return colorDanger
	case BandModerate:
		return colorWarning
	default:
		return colorSuccess
	}
}

func bandFill(b Band) rgb {
	switch b {
	case BandHigh:
		return colorRowHigh
	case BandModerate:
		return colorRowMod
	default:
		return colorRowLow
	}
}

// Service renders the diagnostic report as a PDF. Given identical inputs
// and meta.GeneratedAt, the output bytes are identical.
type Service struct {
	fontPaths []string
	logger    *logrus.Logger
}

// NewService builds the reporter. fontPath, when non-empty, is tried
// before the default DejaVuSans locations.
func NewService(fontPath string, logger *logrus.Logger) *Service {
	paths := defaultFontPaths
	if fontPath != "" {
		paths = append([]string{fontPath}, defaultFontPaths...)
	}
	return &Service{fontPaths: paths, logger: logger}
}

func (s *Service) Render(result *diagnosis.PredictionResult, conclusion *diagnosis.ClinicalConclusion, meta diagnosis.ReportMeta) ([]byte, error) {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.SetInfo(gopdf.PdfInfo{
		Title:        "AI-Assisted Disease Prediction Report",
		Producer:     "arogyamitra",
		CreationDate: meta.GeneratedAt,
	})
	pdf.AddPage()

	fontLoaded := false
	var fontErr error
	for _, path := range s.fontPaths {
		if err := pdf.AddTTFFont(fontName, path); err == nil {
			fontLoaded = true
			break
		} else {
			fontErr = err
		}
	}
	if !fontLoaded {
		return nil, fmt.Errorf("no usable TTF font found (install ttf-dejavu or set report.font): %w", fontErr)
	}

	d := &doc{pdf: pdf, y: marginTop}

	d.banner()
	d.metaRow(meta)
	d.patientSection(result, meta)
	d.diagnosisSection(result)
	d.differentialSection(result)
	d.severitySection(result)
	d.explanationSection(result)
	d.conclusionSection(conclusion)
	d.precautionsSection(result)
	d.disclaimer()
	if d.err != nil {
		return nil, d.err
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	s.logger.WithField("bytes", buf.Len()).Debug("Report rendered")
	return buf.Bytes(), nil
}

// doc carries the page cursor through the sections. The first font error
// sticks in err and short-circuits the rest.
type doc struct {
	pdf *gopdf.GoPdf
	y   float64
	err error
}

func (d *doc) setFont(size float64) bool {
	if d.err != nil {
		return false
	}
	if err := d.pdf.SetFont(fontName, "", size); err != nil {
		d.err = err
		return false
	}
	return true
}

func (d *doc) ensure(h float64) {
	if d.y+h > pageHeight-marginBottom {
		d.pdf.AddPage()
		d.y = marginTop
	}
}

func (d *doc) fillRect(x, w, h float64, fill rgb, border bool) {
	d.pdf.SetFillColor(fill.r, fill.g, fill.b)
	style := "F"
	if border {
		d.pdf.SetLineWidth(0.5)
		d.pdf.SetStrokeColor(colorGridLine.r, colorGridLine.g, colorGridLine.b)
		style = "FD"
	}
	d.pdf.RectFromUpperLeftWithStyle(x, d.y, w, h, style)
}

func (d *doc) cellText(x, w, h float64, text string, color rgb, align int) {
	d.pdf.SetTextColor(color.r, color.g, color.b)
	d.pdf.SetXY(x, d.y)
	d.pdf.CellWithOption(&gopdf.Rect{W: w, H: h}, text, gopdf.CellOption{Align: align | gopdf.Middle})
}

type cell struct {
	text  string
	width float64
	color rgb
}

// tableRow draws one bordered row of cells with a shared fill.
func (d *doc) tableRow(cells []cell, fill rgb, h, fontSize float64, align int) {
	if !d.setFont(fontSize) {
		return
	}
	d.ensure(h)
	x := marginX
	for _, c := range cells {
		d.fillRect(x, c.width, h, fill, true)
		d.cellText(x, c.width, h, c.text, c.color, align)
		x += c.width
	}
	d.y += h
}

func (d *doc) sectionHeader(title string) {
	if !d.setFont(13) {
		return
	}
	d.ensure(60)
	d.y += 14
	d.pdf.SetTextColor(colorPrimary.r, colorPrimary.g, colorPrimary.b)
	d.pdf.SetXY(marginX, d.y)
	d.pdf.Cell(nil, title)
	d.y += 18
	d.pdf.SetLineWidth(1)
	d.pdf.SetStrokeColor(colorAccent.r, colorAccent.g, colorAccent.b)
	d.pdf.Line(marginX, d.y, marginX+contentWidth, d.y)
	d.y += 8
}

// wrapText writes body text wrapped to the content width.
func (d *doc) wrapText(text string, fontSize float64, color rgb) {
	if text == "" || !d.setFont(fontSize) {
		return
	}
	lineHeight := fontSize + 5
	lines, err := d.pdf.SplitText(text, contentWidth)
	if err != nil {
		lines = []string{text}
	}
	d.pdf.SetTextColor(color.r, color.g, color.b)
	for _, line := range lines {
		d.ensure(lineHeight)
		d.pdf.SetXY(marginX, d.y)
		d.pdf.Cell(nil, line)
		d.y += lineHeight
	}
}

func (d *doc) banner() {
	if !d.setFont(22) {
		return
	}
	d.fillRect(marginX, contentWidth, 56, colorPrimary, false)
	d.cellText(marginX, contentWidth, 56, "ArogyaMitra", colorWhite, gopdf.Center)
	d.y += 56
	if !d.setFont(11) {
		return
	}
	d.fillRect(marginX, contentWidth, 24, colorAccent, false)
	d.cellText(marginX, contentWidth, 24, "AI-Assisted Disease Prediction Report", colorSubtitle, gopdf.Center)
	d.y += 24 + 12
}

func (d *doc) metaRow(meta diagnosis.ReportMeta) {
	location := meta.Location
	if location == "" {
		location = "—"
	}
	date := meta.GeneratedAt.Format("January 02, 2006  03:04 PM")
	third := contentWidth / 3
	d.tableRow([]cell{
		{text: "Date: " + date, width: third, color: colorBody},
		{text: "Worker: " + meta.WorkerName, width: third, color: colorBody},
		{text: "Location: " + location, width: third, color: colorBody},
	}, colorLightGray, 26, 9, gopdf.Left)
	d.y += 6
}

func (d *doc) patientSection(result *diagnosis.PredictionResult, meta diagnosis.ReportMeta) {
	d.sectionHeader("Patient Information")

	age := "—"
	if meta.PatientAge != nil {
		age = strconv.Itoa(*meta.PatientAge)
	}
	gender := "—"
	if meta.PatientGender != "" {
		gender = strings.ToUpper(meta.PatientGender[:1]) + meta.PatientGender[1:]
	}

	label := contentWidth * 0.22
	value := contentWidth * 0.28
	d.tableRow([]cell{
		{text: "Name", width: label, color: colorPrimary},
		{text: meta.PatientName, width: value, color: colorBody},
		{text: "Age", width: label, color: colorPrimary},
		{text: age, width: value, color: colorBody},
	}, colorLightBlue, 24, 10, gopdf.Left)
	d.tableRow([]cell{
		{text: "Gender", width: label, color: colorPrimary},
		{text: gender, width: value, color: colorBody},
		{text: "Symptoms Reported", width: label, color: colorPrimary},
		{text: strconv.Itoa(len(result.MatchedSymptoms)), width: value, color: colorBody},
	}, colorLightBlue, 24, 10, gopdf.Left)
}

func (d *doc) diagnosisSection(result *diagnosis.PredictionResult) {
	d.sectionHeader("Primary Diagnosis")

	third := contentWidth / 3
	d.tableRow([]cell{
		{text: "Condition", width: third, color: colorWhite},
		{text: "Confidence", width: third, color: colorWhite},
		{text: "Severity Score", width: third, color: colorWhite},
	}, colorPrimary, 24, 9, gopdf.Center)

	confColor := bandColor(ConfidenceBand(result.ConfidenceScore))
	sevColor := bandColor(SeverityScoreBand(result.SeverityScore))
	d.tableRow([]cell{
		{text: result.PrimaryDiagnosis, width: third, color: colorPrimary},
		{text: fmt.Sprintf("%v%%", result.ConfidenceScore), width: third, color: confColor},
		{text: fmt.Sprintf("%v / 7", result.SeverityScore), width: third, color: sevColor},
	}, colorLightBlue, 30, 13, gopdf.Center)

	d.y += 6
	d.wrapText(result.Description, 10, colorMuted)
}

func (d *doc) differentialSection(result *diagnosis.PredictionResult) {
	d.sectionHeader("Differential Diagnoses (Top 3)")

	numW := contentWidth * 0.08
	diseaseW := contentWidth * 0.6
	confW := contentWidth * 0.32
	d.tableRow([]cell{
		{text: "#", width: numW, color: colorWhite},
		{text: "Disease", width: diseaseW, color: colorWhite},
		{text: "Confidence (%)", width: confW, color: colorWhite},
	}, colorPrimary, 22, 9, gopdf.Center)

	for i, p := range result.TopPredictions {
		fill := colorLightBlue
		if i%2 == 1 {
			fill = colorWhite
		}
		d.tableRow([]cell{
			{text: strconv.Itoa(i + 1), width: numW, color: colorBody},
			{text: p.Disease, width: diseaseW, color: colorBody},
			{text: fmt.Sprintf("%v%%", p.Confidence), width: confW, color: colorBody},
		}, fill, 22, 10, gopdf.Left)
	}
}

func (d *doc) severitySection(result *diagnosis.PredictionResult) {
	d.sectionHeader("Reported Symptoms & Severity")

	symptomW := contentWidth * 0.47
	sevW := contentWidth * 0.29
	levelW := contentWidth * 0.24
	d.tableRow([]cell{
		{text: "Symptom", width: symptomW, color: colorWhite},
		{text: "Severity (1-7)", width: sevW, color: colorWhite},
		{text: "Level", width: levelW, color: colorWhite},
	}, colorPrimary, 22, 9, gopdf.Center)

	for _, entry := range result.SymptomSeverities {
		band := SymptomSeverityBand(entry.Severity)
		d.tableRow([]cell{
			{text: entry.Symptom, width: symptomW, color: colorBody},
			{text: strconv.Itoa(entry.Severity), width: sevW, color: colorBody},
			{text: band.String(), width: levelW, color: colorBody},
		}, bandFill(band), 22, 10, gopdf.Left)
	}
}

func (d *doc) explanationSection(result *diagnosis.PredictionResult) {
	d.sectionHeader("AI Explanation (LIME)")
	d.wrapText("The following factors most influenced this prediction. Positive impact = supports the diagnosis. Negative impact = evidence against it.", 10, colorBody)
	d.y += 4

	featureW := contentWidth * 0.47
	impactW := contentWidth * 0.26
	dirW := contentWidth * 0.27
	d.tableRow([]cell{
		{text: "Feature / Symptom", width: featureW, color: colorWhite},
		{text: "Impact Score", width: impactW, color: colorWhite},
		{text: "Direction", width: dirW, color: colorWhite},
	}, colorPrimary, 22, 9, gopdf.Center)

	for i, entry := range result.LimeExplanation {
		fill := colorLightBlue
		if i%2 == 1 {
			fill = colorWhite
		}
		dirColor := colorDanger
		if entry.Direction == diagnosis.DirectionSupports {
			dirColor = colorSuccess
		}
		d.tableRow([]cell{
			{text: entry.Feature, width: featureW, color: colorBody},
			{text: strconv.FormatFloat(entry.Impact, 'g', -1, 64), width: impactW, color: colorBody},
			{text: string(entry.Direction), width: dirW, color: dirColor},
		}, fill, 22, 10, gopdf.Left)
	}
}

func (d *doc) conclusionSection(conclusion *diagnosis.ClinicalConclusion) {
	d.sectionHeader("Clinical Decision Support Summary")

	subsections := []struct {
		title string
		body  string
	}{
		{"Diagnosis Summary", conclusion.DiagnosisSummary},
		{"Confidence Interpretation", conclusion.ConfidenceInterpretation},
		{"Severity Assessment", conclusion.SeverityAssessment},
		{"Key Contributing Factors", conclusion.KeyContributingFactors},
		{"Recommended Next Steps", conclusion.RecommendedNextSteps},
		{"Referral Recommendation", conclusion.ReferralRecommendation},
		{"Recommended Precautions", conclusion.RecommendedPrecautions},
	}
	for _, sub := range subsections {
		d.subsectionTitle(sub.title)
		d.wrapText(sub.body, 10, colorBody)
	}

	d.subsectionTitle("Escalate To Doctor")
	escalate := "No"
	escalateColor := colorSuccess
	if conclusion.EscalateToDoctor {
		escalate = "Yes — a doctor should review this case"
		escalateColor = colorDanger
	}
	d.wrapText(escalate, 10, escalateColor)
}

func (d *doc) subsectionTitle(title string) {
	if !d.setFont(11) {
		return
	}
	d.ensure(40)
	d.y += 8
	d.pdf.SetTextColor(colorPrimary.r, colorPrimary.g, colorPrimary.b)
	d.pdf.SetXY(marginX, d.y)
	d.pdf.Cell(nil, title)
	d.y += 16
}

func (d *doc) precautionsSection(result *diagnosis.PredictionResult) {
	d.sectionHeader("Recommended Precautions")
	for i, p := range result.Precautions {
		text := p
		if text != "" {
			text = strings.ToUpper(text[:1]) + text[1:]
		}
		d.wrapText(fmt.Sprintf("%d.  %s", i+1, text), 10, colorBody)
		d.y += 2
	}
	d.y += 10
}

func (d *doc) disclaimer() {
	if !d.setFont(9) {
		return
	}
	text := "Disclaimer: This report is AI-generated for decision support only. It does not replace a qualified doctor's diagnosis. If the healthcare worker is not confident in this result, please escalate to a doctor for a second opinion."
	lines, err := d.pdf.SplitText(text, contentWidth-24)
	if err != nil {
		lines = []string{text}
	}
	lineHeight := 13.0
	boxHeight := float64(len(lines))*lineHeight + 20
	d.ensure(boxHeight + 10)
	d.y += 10

	d.pdf.SetFillColor(colorRowMod.r, colorRowMod.g, colorRowMod.b)
	d.pdf.SetLineWidth(1)
	d.pdf.SetStrokeColor(colorDiscEdge.r, colorDiscEdge.g, colorDiscEdge.b)
	d.pdf.RectFromUpperLeftWithStyle(marginX, d.y, contentWidth, boxHeight, "FD")

	d.pdf.SetTextColor(colorDiscText.r, colorDiscText.g, colorDiscText.b)
	textY := d.y + 10
	for _, line := range lines {
		d.pdf.SetXY(marginX+12, textY)
		d.pdf.Cell(nil, line)
		textY += lineHeight
	}
	d.y += boxHeight
}
